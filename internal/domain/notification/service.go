package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/panchakarma/manager/internal/platform/view"
	"github.com/panchakarma/manager/internal/platform/websocket"
)

type Service struct {
	repo   Repository
	logger zerolog.Logger
	pub    websocket.EventPublisher
}

func (s *Service) SetPublisher(p websocket.EventPublisher) { s.pub = p }

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("component", "notification").Logger(),
		pub:    websocket.Discard{},
	}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Notification, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) All(ctx context.Context) ([]Notification, error) {
	return s.repo.List(ctx)
}

// List builds the inbox view for q.
func (s *Service) List(ctx context.Context, q Query) (view.Result[Notification], error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return view.Result[Notification]{}, err
	}
	return view.Build(items, q.Matches).WithActiveFilters(q.ActiveCount()), nil
}

// Categories lists the categories present in the inbox in first-seen order.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return view.Facets(items, func(n Notification) string { return n.Category }), nil
}

func (s *Service) UnreadCount(ctx context.Context) (int, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	return view.Count(items, func(n Notification) bool { return n.Unread }), nil
}

// MarkResult reports the outcome of a mark-read request.
type MarkResult struct {
	Marked int `json:"marked"`
	Unread int `json:"unread"`
}

// MarkRead clears the unread flag on every listed notification. All IDs
// are checked before anything changes; already-read entries are skipped.
func (s *Service) MarkRead(ctx context.Context, ids []uuid.UUID) (MarkResult, error) {
	ids = lo.Uniq(ids)
	for _, id := range ids {
		if _, err := s.repo.GetByID(ctx, id); err != nil {
			return MarkResult{}, fmt.Errorf("mark read %s: %w", id, err)
		}
	}

	var res MarkResult
	for _, id := range ids {
		changed := false
		if _, err := s.repo.Modify(ctx, id, func(n *Notification) error {
			changed = n.Unread
			n.Unread = false
			return nil
		}); err != nil {
			return res, fmt.Errorf("mark read %s: %w", id, err)
		}
		if changed {
			res.Marked++
		}
	}

	unread, err := s.UnreadCount(ctx)
	if err != nil {
		return res, err
	}
	res.Unread = unread

	s.logger.Info().Int("marked", res.Marked).Int("unread", res.Unread).Msg("notifications marked read")
	if res.Marked > 0 {
		s.publish(ctx, "notification.read", res)
	}
	return res, nil
}

// MarkAllRead clears the unread flag on the whole inbox.
func (s *Service) MarkAllRead(ctx context.Context) (MarkResult, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return MarkResult{}, err
	}
	ids := lo.FilterMap(items, func(n Notification, _ int) (uuid.UUID, bool) {
		return n.ID, n.Unread
	})
	return s.MarkRead(ctx, ids)
}

func (s *Service) publish(ctx context.Context, eventType string, data interface{}) {
	ev := websocket.NewEvent(websocket.TopicNotifications, eventType, "", data)
	if err := s.pub.Publish(ctx, ev); err != nil {
		s.logger.Warn().Err(err).Str("event", eventType).Msg("publish failed")
	}
}
