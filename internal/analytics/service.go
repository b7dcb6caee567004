package analytics

import (
	"context"

	"go.uber.org/zap"

	"campusmarket/internal/kafka"
)

// Service turns raw engagement events into preference weights.
type Service struct {
	Repo   AnalyticsRepo
	Logger *zap.SugaredLogger
}

func NewService(repo AnalyticsRepo, logger *zap.SugaredLogger) *Service {
	return &Service{
		Repo:   repo,
		Logger: logger,
	}
}

// ProcessEvent maps an event to its weight and applies it. Anonymous events
// and events without a category carry no signal and are skipped.
func (s *Service) ProcessEvent(ctx context.Context, event kafka.Event) error {
	if event.UserID == 0 || event.Category == "" {
		return nil
	}

	var delta int64
	switch event.Type {
	case kafka.EventTypeSearch:
		delta = WeightSearch
	case kafka.EventTypeView:
		delta = WeightView
	case kafka.EventTypeLike:
		delta = WeightLike
	default:
		s.Logger.Warnf("Unknown event type: %s", event.Type)
		return nil
	}

	if err := s.Repo.AddWeight(ctx, event.UserID, event.Category, delta); err != nil {
		return err
	}

	s.Logger.Infof("preference updated: user=%d category=%s delta=%d", event.UserID, event.Category, delta)
	return nil
}

func (s *Service) TopCategories(ctx context.Context, userID int64, limit int) ([]Preference, error) {
	return s.Repo.TopCategories(ctx, userID, limit)
}
