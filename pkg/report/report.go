// Package report reduces every stored record to a single pass/fail verdict.
//
// The scan is first-failure-wins: it stops at the first failing record, so
// Count is the number of records examined up to and including that record,
// not the size of the store. Store order is unspecified, which makes the
// exact Count and failing record non-deterministic when several records
// fail.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/adrestia/pdv/pkg/result"
	"github.com/adrestia/pdv/pkg/store"
)

// Report is the aggregate verdict. It is computed on every call and never
// cached.
type Report struct {
	Verdict     result.Outcome
	Count       int
	FailingName string
	FailingTime time.Time

	// Err is set when the scan hit a corrupt record or an outcome that is
	// neither pass nor fail. Verdict is then not meaningful.
	Err error
}

// Failed reports whether the verdict is Fail.
func (r Report) Failed() bool {
	return r.Verdict == result.Fail
}

// Reporter scans a store.
type Reporter struct {
	store store.Store
}

// New returns a Reporter reading from s.
func New(s store.Store) *Reporter {
	return &Reporter{store: s}
}

// Report scans the store and returns the aggregate verdict.
func (r *Reporter) Report(ctx context.Context) Report {
	count := 0
	for rec, err := range r.store.All(ctx) {
		if err != nil {
			return Report{Verdict: result.Fail, Count: count, Err: err}
		}
		count++

		switch rec.Outcome {
		case result.Pass:
			continue
		case result.Fail:
			return Report{
				Verdict:     result.Fail,
				Count:       count,
				FailingName: rec.Name,
				FailingTime: rec.Time,
			}
		default:
			return Report{
				Verdict:     result.Fail,
				Count:       count,
				FailingName: rec.Name,
				FailingTime: rec.Time,
				Err:         fmt.Errorf("%w: record %q has outcome %q", result.ErrUnknownOutcome, rec.Name, rec.Outcome),
			}
		}
	}

	return Report{Verdict: result.Pass, Count: count}
}
