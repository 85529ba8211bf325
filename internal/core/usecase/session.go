package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/portfolio-feed/internal/core/domain"
	"github.com/kirillkom/portfolio-feed/internal/core/ports"
)

type FeedSessionOptions struct {
	DisplaySize int
	SessionTTL  time.Duration
	MaxSessions int
	Classifier  *Classifier
	Sampler     *Sampler
	Observer    ports.FeedObserver
}

// FeedSessionUseCase keeps one independent FeedController per display session.
type FeedSessionUseCase struct {
	source     ports.AssetSource
	categories []domain.Category
	feedOpts   []FeedOption
	ttl        time.Duration
	maxSess    int
	observer   ports.FeedObserver

	now   func() time.Time
	newID func() string

	mu       sync.Mutex
	sessions map[string]*feedSession
}

type feedSession struct {
	mu         sync.Mutex
	controller *FeedController
	createdAt  time.Time
	updatedAt  time.Time
	lastAccess time.Time
}

func NewFeedSessionUseCase(
	source ports.AssetSource,
	categories []domain.Category,
	options FeedSessionOptions,
) *FeedSessionUseCase {
	ttl := options.SessionTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	maxSessions := options.MaxSessions
	if maxSessions <= 0 {
		maxSessions = 10000
	}
	observer := options.Observer
	if observer == nil {
		observer = noopFeedObserver{}
	}
	return &FeedSessionUseCase{
		source:     source,
		categories: append([]domain.Category(nil), categories...),
		feedOpts: []FeedOption{
			WithDisplaySize(options.DisplaySize),
			WithClassifier(options.Classifier),
			WithSampler(options.Sampler),
		},
		ttl:      ttl,
		maxSess:  maxSessions,
		observer: observer,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
		sessions: make(map[string]*feedSession),
	}
}

func (uc *FeedSessionUseCase) CreateFeed(ctx context.Context) (domain.FeedSnapshot, error) {
	controller, err := NewFeedController(ctx, uc.source, uc.categories, uc.feedOpts...)
	if err != nil {
		return domain.FeedSnapshot{}, err
	}

	now := uc.now()
	id := uc.newID()
	session := &feedSession{
		controller: controller,
		createdAt:  now,
		updatedAt:  now,
		lastAccess: now,
	}

	uc.mu.Lock()
	uc.pruneLocked(now)
	for len(uc.sessions) >= uc.maxSess {
		uc.evictOldestLocked()
	}
	uc.sessions[id] = session
	active := len(uc.sessions)
	uc.mu.Unlock()

	snapshot := session.snapshot(id)
	uc.observer.FeedCreated(snapshot.TotalCount, len(snapshot.Displayed))
	uc.observer.ActiveSessions(active)
	slog.Info("feed_created",
		"session_id", id,
		"total_count", snapshot.TotalCount,
		"displayed", len(snapshot.Displayed),
	)
	if snapshot.TotalCount == 0 {
		slog.Warn("feed_empty", "session_id", id, "categories", len(uc.categories))
	}
	return snapshot, nil
}

func (uc *FeedSessionUseCase) GetFeed(_ context.Context, sessionID string) (domain.FeedSnapshot, error) {
	session, err := uc.lookup("get feed", sessionID)
	if err != nil {
		return domain.FeedSnapshot{}, err
	}
	return session.snapshot(sessionID), nil
}

func (uc *FeedSessionUseCase) Reroll(_ context.Context, sessionID string) (domain.FeedSnapshot, error) {
	session, err := uc.lookup("reroll feed", sessionID)
	if err != nil {
		return domain.FeedSnapshot{}, err
	}

	session.mu.Lock()
	session.controller.Reroll()
	session.updatedAt = uc.now()
	session.mu.Unlock()

	snapshot := session.snapshot(sessionID)
	uc.observer.FeedRerolled(len(snapshot.Displayed))
	return snapshot, nil
}

func (uc *FeedSessionUseCase) DeleteFeed(_ context.Context, sessionID string) error {
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return domain.WrapError(domain.ErrInvalidArgument, "delete feed", errors.New("session id is required"))
	}

	uc.mu.Lock()
	_, ok := uc.sessions[id]
	delete(uc.sessions, id)
	active := len(uc.sessions)
	uc.mu.Unlock()

	if !ok {
		return domain.WrapError(domain.ErrFeedNotFound, "delete feed", fmt.Errorf("session %s", id))
	}
	uc.observer.ActiveSessions(active)
	return nil
}

// PruneExpired drops sessions idle longer than the configured TTL.
func (uc *FeedSessionUseCase) PruneExpired() int {
	uc.mu.Lock()
	removed := uc.pruneLocked(uc.now())
	active := len(uc.sessions)
	uc.mu.Unlock()

	if removed > 0 {
		uc.observer.ActiveSessions(active)
		slog.Debug("feed_sessions_pruned", "removed", removed, "active", active)
	}
	return removed
}

// RunJanitor prunes expired sessions every interval until ctx is done.
func (uc *FeedSessionUseCase) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			uc.PruneExpired()
		}
	}
}

func (uc *FeedSessionUseCase) lookup(operation, sessionID string) (*feedSession, error) {
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return nil, domain.WrapError(domain.ErrInvalidArgument, operation, errors.New("session id is required"))
	}

	now := uc.now()
	uc.mu.Lock()
	defer uc.mu.Unlock()

	session, ok := uc.sessions[id]
	if ok && now.Sub(session.lastAccess) > uc.ttl {
		delete(uc.sessions, id)
		ok = false
	}
	if !ok {
		return nil, domain.WrapError(domain.ErrFeedNotFound, operation, fmt.Errorf("session %s", id))
	}
	session.lastAccess = now
	return session, nil
}

func (uc *FeedSessionUseCase) pruneLocked(now time.Time) int {
	removed := 0
	for id, session := range uc.sessions {
		if now.Sub(session.lastAccess) > uc.ttl {
			delete(uc.sessions, id)
			removed++
		}
	}
	return removed
}

func (uc *FeedSessionUseCase) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, session := range uc.sessions {
		if oldestID == "" || session.lastAccess.Before(oldest) {
			oldestID = id
			oldest = session.lastAccess
		}
	}
	if oldestID != "" {
		delete(uc.sessions, oldestID)
	}
}

func (s *feedSession) snapshot(id string) domain.FeedSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.FeedSnapshot{
		SessionID:  id,
		Displayed:  s.controller.Displayed(),
		TotalCount: s.controller.TotalCount(),
		CreatedAt:  s.createdAt,
		UpdatedAt:  s.updatedAt,
	}
}

type noopFeedObserver struct{}

func (noopFeedObserver) FeedCreated(int, int) {}
func (noopFeedObserver) FeedRerolled(int)     {}
func (noopFeedObserver) ActiveSessions(int)   {}
