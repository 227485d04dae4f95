package session

import (
	"context"
	"fmt"
	"time"

	"github.com/5w1tchy/strength-api/internal/strength"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Fingerprinter interface {
	Sum(scope, secret string) string
}

type Service struct {
	analyzer   *strength.Analyzer
	store      Store
	fp         Fingerprinter
	maxEntries int
	now        func() time.Time
}

const DefaultMaxEntries = 50

func NewService(a *strength.Analyzer, store Store, fp Fingerprinter, maxEntries int) *Service {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Service{analyzer: a, store: store, fp: fp, maxEntries: maxEntries, now: time.Now}
}

type Recorded struct {
	Entry    Entry           `json:"entry"`
	Analysis strength.Result `json:"analysis"`
	Unlocked []string        `json:"unlocked"`
}

// Record analyzes password and appends it to the session history.
func (s *Service) Record(ctx context.Context, sessionID, password string) (Recorded, error) {
	if password == "" {
		return Recorded{}, ErrEmptyPassword
	}
	res := s.analyzer.Analyze(password)
	e := Entry{
		ID:             uuid.NewString(),
		Fingerprint:    s.fp.Sum(sessionID, password),
		Label:          Mask(password),
		Score:          res.Score,
		EntropyBits:    res.EntropyBits,
		BruteForceTime: res.BruteForceTime,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.store.Append(ctx, sessionID, e, s.maxEntries); err != nil {
		return Recorded{}, err
	}

	unlocked, err := s.Observe(ctx, sessionID, res)
	if err != nil {
		// the entry is stored; a missed unlock is recomputed on the next call
		zap.L().Warn("achievement unlock failed", zap.String("session", sessionID), zap.Error(err))
	}
	return Recorded{Entry: e, Analysis: res, Unlocked: unlocked}, nil
}

// Observe unlocks achievements earned by an analysis result and returns the
// newly unlocked names.
func (s *Service) Observe(ctx context.Context, sessionID string, res strength.Result) ([]string, error) {
	already, err := s.store.Achievements(ctx, sessionID)
	if err != nil {
		return []string{}, fmt.Errorf("load achievements: %w", err)
	}
	fresh := Evaluate(already, res)
	if len(fresh) == 0 {
		return []string{}, nil
	}
	if err := s.store.Unlock(ctx, sessionID, fresh...); err != nil {
		return []string{}, fmt.Errorf("unlock achievements: %w", err)
	}
	return fresh, nil
}

func (s *Service) History(ctx context.Context, sessionID string) ([]Entry, error) {
	entries, err := s.store.List(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

func (s *Service) Achievements(ctx context.Context, sessionID string) ([]string, error) {
	names, err := s.store.Achievements(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return SortAchievements(names), nil
}
