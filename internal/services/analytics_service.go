package services

import (
	"time"
)

type AnalyticsStore interface {
	CountActiveSurveysBetween(start, end time.Time) (int, error)
	CountResponsesBetween(start, end time.Time) (int, error)
	CountUsersByRole(role Role) (int, error)
}

type AnalyticsService struct {
	store AnalyticsStore
}

type ChartData struct {
	Dates     []string `json:"dates"`
	Surveys   []int    `json:"surveys"`
	Responses []int    `json:"responses"`
}

type AnalyticsSummary struct {
	TotalSurveys   int       `json:"totalSurveys"`
	TotalResponses int       `json:"totalResponses"`
	TotalUsers     int       `json:"totalUsers"`
	ChartData      ChartData `json:"chartData"`
}

func NewAnalyticsService(store AnalyticsStore) *AnalyticsService {
	return &AnalyticsService{store: store}
}

// Compute aggregates counts over an inclusive date range. The end date is
// pushed to 23:59:59.999 so the whole final day counts. The user total is
// a point-in-time count of the User role over all time, not bounded by
// the range. The daily series issues one pair of count queries per day,
// O(days) store round trips, same as the original.
func (s *AnalyticsService) Compute(startDate, endDate string) (*AnalyticsSummary, error) {
	start, err := parseDay(startDate)
	if err != nil {
		return nil, NewFailureError("invalid start date")
	}
	endDay, err := parseDay(endDate)
	if err != nil {
		return nil, NewFailureError("invalid end date")
	}
	if endDay.Before(start) {
		return nil, NewFailureError("end date before start date")
	}
	end := endOfDay(endDay)

	totalSurveys, err := s.store.CountActiveSurveysBetween(start, end)
	if err != nil {
		return nil, NewInternalError(err.Error())
	}
	totalResponses, err := s.store.CountResponsesBetween(start, end)
	if err != nil {
		return nil, NewInternalError(err.Error())
	}
	totalUsers, err := s.store.CountUsersByRole(RoleUser)
	if err != nil {
		return nil, NewInternalError(err.Error())
	}

	chart := ChartData{}
	for day := start; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		chart.Dates = append(chart.Dates, day.Format("2006-01-02"))
		surveys, err := s.store.CountActiveSurveysBetween(day, endOfDay(day))
		if err != nil {
			return nil, NewInternalError(err.Error())
		}
		responses, err := s.store.CountResponsesBetween(day, endOfDay(day))
		if err != nil {
			return nil, NewInternalError(err.Error())
		}
		chart.Surveys = append(chart.Surveys, surveys)
		chart.Responses = append(chart.Responses, responses)
	}

	return &AnalyticsSummary{
		TotalSurveys:   totalSurveys,
		TotalResponses: totalResponses,
		TotalUsers:     totalUsers,
		ChartData:      chart,
	}, nil
}

func parseDay(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func endOfDay(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, int(999*time.Millisecond), time.UTC)
}
