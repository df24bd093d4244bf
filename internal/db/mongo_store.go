package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/surveyforge/surveyforge/internal/api"
)

const mongoOpTimeout = 10 * time.Second

// MongoStore keeps each entity in its own collection, addressed by the
// business id (stored as _id). Shapes match the original Mongoose
// collections, so an existing database can be pointed at directly.
type MongoStore struct {
	client    *mongo.Client
	users     *mongo.Collection
	surveys   *mongo.Collection
	responses *mongo.Collection
}

// ConnectMongo dials the deployment and pings the primary before handing
// the store out.
func ConnectMongo(uri, database string) (*MongoStore, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}

	db := client.Database(database)
	return &MongoStore{
		client:    client,
		users:     db.Collection("users"),
		surveys:   db.Collection("surveys"),
		responses: db.Collection("responses"),
	}, nil
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

var _ api.Store = (*MongoStore)(nil)

func opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), mongoOpTimeout)
}

func logMongoErr(op string, err error) {
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		slog.Error("mongo store", "op", op, "err", err)
	}
}

func findOne[T any](coll *mongo.Collection, op string, filter bson.M) *T {
	ctx, cancel := opCtx()
	defer cancel()
	var doc T
	if err := coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		logMongoErr(op, err)
		return nil
	}
	return &doc
}

func findAll[T any](coll *mongo.Collection, op string, filter bson.M) []*T {
	ctx, cancel := opCtx()
	defer cancel()
	cursor, err := coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		logMongoErr(op, err)
		return nil
	}
	defer cursor.Close(ctx)
	var docs []*T
	if err := cursor.All(ctx, &docs); err != nil {
		logMongoErr(op, err)
		return nil
	}
	return docs
}

func countDocs(coll *mongo.Collection, op string, filter bson.M) int {
	ctx, cancel := opCtx()
	defer cancel()
	n, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		logMongoErr(op, err)
		return 0
	}
	return int(n)
}

func replaceOne(coll *mongo.Collection, op string, id string, doc any) bool {
	ctx, cancel := opCtx()
	defer cancel()
	res, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		logMongoErr(op, err)
		return false
	}
	return res.MatchedCount > 0
}

func deleteOne(coll *mongo.Collection, op string, id string) bool {
	ctx, cancel := opCtx()
	defer cancel()
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logMongoErr(op, err)
		return false
	}
	return res.DeletedCount > 0
}

// users

func (s *MongoStore) AddUser(u *api.User) {
	ctx, cancel := opCtx()
	defer cancel()
	_, err := s.users.InsertOne(ctx, u)
	logMongoErr("add user", err)
}

func (s *MongoStore) FindUserByEmail(email string) *api.User {
	return findOne[api.User](s.users, "find user by email", bson.M{"email": email})
}

func (s *MongoStore) FindUserByID(id string) *api.User {
	return findOne[api.User](s.users, "find user by id", bson.M{"_id": id})
}

func (s *MongoStore) FindUserByResetToken(token string) *api.User {
	if token == "" {
		return nil
	}
	return findOne[api.User](s.users, "find user by reset token", bson.M{"resetPasswordToken": token})
}

func (s *MongoStore) UpdateUser(u *api.User) bool {
	return replaceOne(s.users, "update user", u.ID, u)
}

func (s *MongoStore) CountUsersByRole(role string) int {
	return countDocs(s.users, "count users by role", bson.M{"role": role})
}

// surveys

func (s *MongoStore) AddSurvey(sc *api.Survey) {
	ctx, cancel := opCtx()
	defer cancel()
	_, err := s.surveys.InsertOne(ctx, sc)
	logMongoErr("add survey", err)
}

func (s *MongoStore) GetSurvey(id string) *api.Survey {
	return findOne[api.Survey](s.surveys, "get survey", bson.M{"_id": id})
}

func (s *MongoStore) ListSurveys() []*api.Survey {
	return findAll[api.Survey](s.surveys, "list surveys", bson.M{})
}

func (s *MongoStore) UpdateSurvey(sc *api.Survey) bool {
	return replaceOne(s.surveys, "update survey", sc.ID, sc)
}

func (s *MongoStore) DeleteSurvey(id string) bool {
	return deleteOne(s.surveys, "delete survey", id)
}

func (s *MongoStore) CountActiveSurveysBetween(start, end time.Time) int {
	return countDocs(s.surveys, "count surveys", bson.M{
		"isActive":  true,
		"createdAt": bson.M{"$gte": start, "$lte": end},
	})
}

// responses

func (s *MongoStore) AddResponse(r *api.Response) {
	ctx, cancel := opCtx()
	defer cancel()
	_, err := s.responses.InsertOne(ctx, r)
	logMongoErr("add response", err)
}

func (s *MongoStore) GetResponse(id string) *api.Response {
	return findOne[api.Response](s.responses, "get response", bson.M{"_id": id})
}

func (s *MongoStore) ListResponses() []*api.Response {
	return findAll[api.Response](s.responses, "list responses", bson.M{})
}

func (s *MongoStore) ListResponsesByUser(userID string) []*api.Response {
	return findAll[api.Response](s.responses, "list responses by user", bson.M{"userId": userID})
}

func (s *MongoStore) UpdateResponse(r *api.Response) bool {
	return replaceOne(s.responses, "update response", r.ID, r)
}

func (s *MongoStore) DeleteResponse(id string) bool {
	return deleteOne(s.responses, "delete response", id)
}

func (s *MongoStore) CountResponsesBetween(start, end time.Time) int {
	return countDocs(s.responses, "count responses", bson.M{
		"submittedAt": bson.M{"$gte": start, "$lte": end},
	})
}
