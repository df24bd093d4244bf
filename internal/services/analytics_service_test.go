package services

import (
	"testing"
	"time"
)

type analyticsStubStore struct {
	surveyCreated   []time.Time // active surveys only
	inactiveCreated []time.Time
	respSubmitted   []time.Time
	usersByRole     map[Role]int
	countCalls      int
}

func (s *analyticsStubStore) CountActiveSurveysBetween(start, end time.Time) (int, error) {
	s.countCalls++
	return countBetween(s.surveyCreated, start, end), nil
}

func (s *analyticsStubStore) CountResponsesBetween(start, end time.Time) (int, error) {
	s.countCalls++
	return countBetween(s.respSubmitted, start, end), nil
}

func (s *analyticsStubStore) CountUsersByRole(role Role) (int, error) {
	return s.usersByRole[role], nil
}

func countBetween(ts []time.Time, start, end time.Time) int {
	n := 0
	for _, t := range ts {
		if !t.Before(start) && !t.After(end) {
			n++
		}
	}
	return n
}

func day(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func TestAnalyticsSeriesShape(t *testing.T) {
	store := &analyticsStubStore{
		surveyCreated: []time.Time{day(2025, 6, 1, 10), day(2025, 6, 3, 8), day(2025, 6, 3, 9)},
		respSubmitted: []time.Time{day(2025, 6, 2, 23), day(2025, 6, 4, 0)},
		usersByRole:   map[Role]int{RoleUser: 7, RoleAdmin: 2},
	}
	svc := NewAnalyticsService(store)

	sum, err := svc.Compute("2025-06-01", "2025-06-04")
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	// Inclusive day count.
	if len(sum.ChartData.Dates) != 4 {
		t.Fatalf("expected 4 days, got %d", len(sum.ChartData.Dates))
	}
	if sum.ChartData.Dates[0] != "2025-06-01" || sum.ChartData.Dates[3] != "2025-06-04" {
		t.Fatalf("unexpected date bounds: %v", sum.ChartData.Dates)
	}
	if len(sum.ChartData.Surveys) != 4 || len(sum.ChartData.Responses) != 4 {
		t.Fatalf("series lengths must match date count")
	}

	if sum.TotalSurveys != 3 || sum.TotalResponses != 2 {
		t.Fatalf("unexpected totals: %+v", sum)
	}
	// Role count ignores the date range and the Admin role.
	if sum.TotalUsers != 7 {
		t.Fatalf("expected 7 users, got %d", sum.TotalUsers)
	}

	daily := 0
	for _, n := range sum.ChartData.Surveys {
		daily += n
	}
	if daily != sum.TotalSurveys {
		t.Fatalf("daily survey counts sum to %d, total is %d", daily, sum.TotalSurveys)
	}
	daily = 0
	for _, n := range sum.ChartData.Responses {
		daily += n
	}
	if daily != sum.TotalResponses {
		t.Fatalf("daily response counts sum to %d, total is %d", daily, sum.TotalResponses)
	}
}

func TestAnalyticsIncludesWholeEndDay(t *testing.T) {
	store := &analyticsStubStore{
		respSubmitted: []time.Time{time.Date(2025, 6, 2, 23, 59, 59, 0, time.UTC)},
		usersByRole:   map[Role]int{},
	}
	svc := NewAnalyticsService(store)
	sum, err := svc.Compute("2025-06-01", "2025-06-02")
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if sum.TotalResponses != 1 {
		t.Fatalf("submission on the last second of the range was excluded")
	}
}

func TestAnalyticsSingleDayRange(t *testing.T) {
	store := &analyticsStubStore{usersByRole: map[Role]int{}}
	svc := NewAnalyticsService(store)
	sum, err := svc.Compute("2025-06-01", "2025-06-01")
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if len(sum.ChartData.Dates) != 1 {
		t.Fatalf("expected a single day, got %v", sum.ChartData.Dates)
	}
	// Totals pair plus one pair per day.
	if store.countCalls != 4 {
		t.Fatalf("expected 4 count queries, got %d", store.countCalls)
	}
}

func TestAnalyticsRejectsBadRange(t *testing.T) {
	svc := NewAnalyticsService(&analyticsStubStore{usersByRole: map[Role]int{}})
	if _, err := svc.Compute("junk", "2025-06-01"); StatusOf(err) != 400 {
		t.Fatalf("expected 400 for bad start date")
	}
	if _, err := svc.Compute("2025-06-02", "2025-06-01"); StatusOf(err) != 400 {
		t.Fatalf("expected 400 for inverted range")
	}
}
