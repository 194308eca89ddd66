package job

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/Rpoore10/health-hire/internal/docstore"
)

const (
	Collection = "jobs"

	submitLockTTL       = 30 * time.Second
	submitLockKeyPrefix = "jobs:submit:"
)

var (
	ErrNotSignedIn    = errors.New("not signed in")
	ErrInvalidFields  = errors.New("invalid fields")
	ErrPayRange       = errors.New("min pay exceeds max pay")
	ErrSubmitInFlight = errors.New("submission already in progress")
)

// StoreError wraps a docstore failure so the display layer can show the
// store's message without handlers probing error internals.
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string {
	if e == nil || e.Err == nil {
		return "store error"
	}
	return e.Err.Error()
}

func (e *StoreError) Unwrap() error { return e.Err }

// SubmitInput carries the raw form fields. Pay values arrive as strings and
// shifts/modalities/mustHaveCerts as comma-separated lists.
type SubmitInput struct {
	Title         string
	Location      string
	MinPay        string
	MaxPay        string
	Shifts        string
	Modalities    string
	MustHaveCerts string
}

type SubmitLocker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) bool
	Release(ctx context.Context, key string)
}

type Service struct {
	store  docstore.Store
	locks  SubmitLocker
	logger *log.Logger
}

func NewService(store docstore.Store, locks SubmitLocker, logger *log.Logger) *Service {
	return &Service{store: store, locks: locks, logger: logger}
}

// Submit validates and normalizes a job posting and inserts it tagged with
// the submitting employer. Validation short-circuits in order: session,
// required fields and pay parsing, pay range. Nothing is written until all
// checks pass.
func (s *Service) Submit(ctx context.Context, employerID string, in SubmitInput) (string, error) {
	if strings.TrimSpace(employerID) == "" {
		return "", ErrNotSignedIn
	}

	title := strings.TrimSpace(in.Title)
	location := strings.TrimSpace(in.Location)
	minPay, errMin := strconv.ParseFloat(strings.TrimSpace(in.MinPay), 64)
	maxPay, errMax := strconv.ParseFloat(strings.TrimSpace(in.MaxPay), 64)

	if title == "" || location == "" || errMin != nil || errMax != nil || minPay < 0 || maxPay < 0 {
		return "", ErrInvalidFields
	}
	if minPay > maxPay {
		return "", ErrPayRange
	}

	// one in-flight submission per employer; the lock outlives repeated
	// clicks but not a stuck request
	lockKey := submitLockKeyPrefix + employerID
	if s.locks != nil {
		if !s.locks.Acquire(ctx, lockKey, submitLockTTL) {
			return "", ErrSubmitInFlight
		}
		defer s.locks.Release(ctx, lockKey)
	}

	id, err := s.store.InsertDocument(ctx, Collection, docstore.Fields{
		"employerId":    employerID,
		"title":         title,
		"location":      location,
		"minPay":        minPay,
		"maxPay":        maxPay,
		"shifts":        splitList(in.Shifts),
		"modalities":    splitList(in.Modalities),
		"mustHaveCerts": splitList(in.MustHaveCerts),
		"createdAt":     docstore.ServerTimestamp(),
	})
	if err != nil {
		if s.logger != nil {
			s.logger.Printf("job insert failed | employer=%s err=%v", employerID, err)
		}
		return "", &StoreError{Err: err}
	}

	if s.logger != nil {
		s.logger.Printf("job posted | id=%s employer=%s title=%q", id, employerID, title)
	}
	return id, nil
}

// splitList splits on commas, trims each piece and drops empty ones. Order
// is preserved and duplicates are kept.
func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
