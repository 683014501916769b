// Package submit validates incoming outcomes and writes them to a store.
package submit

import (
	"context"
	"errors"
	"time"

	"github.com/adrestia/pdv/pkg/result"
	"github.com/adrestia/pdv/pkg/store"
	"github.com/sirupsen/logrus"
)

// Handler is the submission entry point.
type Handler struct {
	store  store.Store
	logger *logrus.Logger
	now    func() time.Time
}

// Option configures a Handler.
type Option func(*Handler)

// WithClock overrides the time source used to stamp records.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		h.now = now
	}
}

// New returns a Handler writing to s.
func New(s store.Store, logger *logrus.Logger, opts ...Option) *Handler {
	h := &Handler{
		store:  s,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Submit stores outcomeText for name.
//
// An invalid name is rejected with result.ErrInvalidName and nothing is
// written. An outcome other than exactly "pass" or "fail" is rejected with
// result.ErrInvalidInput, and a failing record is stored under
// result.InternalErrorName so the next report fails.
func (h *Handler) Submit(ctx context.Context, name, outcomeText string) error {
	if err := result.ValidateName(name); err != nil {
		h.logger.Warnf("Rejected submission: %v", err)
		return err
	}

	outcome, err := result.ParseOutcome(outcomeText)
	if err != nil {
		h.logger.Warnf("Rejected submission for %s: %v", name, err)
		marker := result.Record{
			Name:    result.InternalErrorName,
			Outcome: result.Fail,
			Time:    h.now(),
		}
		if putErr := h.store.Put(ctx, marker); putErr != nil {
			return errors.Join(err, putErr)
		}
		return err
	}

	return h.store.Put(ctx, result.Record{
		Name:    name,
		Outcome: outcome,
		Time:    h.now(),
	})
}
