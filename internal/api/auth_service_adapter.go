package api

import (
	"github.com/surveyforge/surveyforge/internal/services"
)

type authStoreAdapter struct {
	store Store
}

func newAuthStoreAdapter(store Store) services.AuthStore {
	return &authStoreAdapter{store: store}
}

func (a *authStoreAdapter) FindUserByEmail(email string) (*services.User, error) {
	return toServiceUser(a.store.FindUserByEmail(email)), nil
}

func (a *authStoreAdapter) FindUserByID(id string) (*services.User, error) {
	return toServiceUser(a.store.FindUserByID(id)), nil
}

func (a *authStoreAdapter) FindUserByResetToken(token string) (*services.User, error) {
	return toServiceUser(a.store.FindUserByResetToken(token)), nil
}

func (a *authStoreAdapter) AddUser(u *services.User) error {
	if u == nil {
		return services.NewFailureError("user required")
	}
	a.store.AddUser(fromServiceUser(u))
	return nil
}

func (a *authStoreAdapter) UpdateUser(u *services.User) error {
	if u == nil {
		return services.NewFailureError("user required")
	}
	if !a.store.UpdateUser(fromServiceUser(u)) {
		return services.NewNotFoundError("User not found")
	}
	return nil
}

var _ services.AuthStore = (*authStoreAdapter)(nil)
