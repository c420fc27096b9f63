package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"artclub/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	listCacheKey = "catalog:events:active"
	listCacheTTL = 30 * time.Second
)

// Service is the public read side of the event catalog. The redis client is
// optional; with a nil client every read goes straight to the store.
type Service struct {
	events  EventStore
	tickets TicketCounter
	cache   *redis.Client
	logger  *logrus.Logger
}

func NewService(events EventStore, tickets TicketCounter, cache *redis.Client, logger *logrus.Logger) *Service {
	return &Service{
		events:  events,
		tickets: tickets,
		cache:   cache,
		logger:  logger,
	}
}

func (s *Service) ListEvents(ctx context.Context) ([]EventResponse, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, listCacheKey).Bytes(); err == nil {
			var cached []EventResponse
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		}
	}

	events, err := s.events.List(ctx, true)
	if err != nil {
		return nil, err
	}

	out := make([]EventResponse, 0, len(events))
	for i := range events {
		out = append(out, toResponse(&events[i]))
	}

	if s.cache != nil {
		if raw, err := json.Marshal(out); err == nil {
			if err := s.cache.Set(ctx, listCacheKey, raw, listCacheTTL).Err(); err != nil {
				s.logger.WithError(err).Warn("failed to cache event list")
			}
		}
	}

	return out, nil
}

func (s *Service) GetEvent(ctx context.Context, id string) (*EventDetailResponse, error) {
	e, err := s.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	sold, err := s.tickets.CountTicketsByEvent(ctx, e.ID)
	if err != nil {
		return nil, err
	}

	remaining := e.Capacity - sold
	if remaining < 0 {
		remaining = 0
	}

	return &EventDetailResponse{
		EventResponse:    toResponse(e),
		TicketsSold:      sold,
		TicketsRemaining: remaining,
	}, nil
}

// InvalidateList drops the cached listing after an admin mutation.
func (s *Service) InvalidateList(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, listCacheKey).Err(); err != nil {
		s.logger.WithError(err).Warn("failed to invalidate event list cache")
	}
}
