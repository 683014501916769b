// Package store defines the Result Store contract.
//
// A Store persists the latest Record for each check name. Implementations
// must publish each Put atomically so that no reader observes a partial
// record, and must tolerate Put, All and Clear running concurrently.
//
// Clear is not atomic across records: a Put racing with Clear may either
// survive or be removed. Readers get no cross-record consistency; a scan
// observes an arbitrary subset of the writes in flight.
package store

import (
	"context"
	"iter"

	"github.com/adrestia/pdv/pkg/result"
)

// Store is the persistence layer behind the submission handler and the
// aggregation reporter.
type Store interface {
	// Init provisions the root location. It is idempotent.
	Init(ctx context.Context) error

	// Put validates rec.Name and replaces any stored record with rec.
	Put(ctx context.Context, rec result.Record) error

	// All yields every stored record in unspecified order. A record that
	// cannot be decoded is yielded as an error wrapping
	// result.ErrCorruptRecord; consumers are expected to stop there.
	All(ctx context.Context) iter.Seq2[result.Record, error]

	// Clear removes every record and returns how many were removed.
	Clear(ctx context.Context) (int, error)

	// Close releases any resources held by the store.
	Close() error
}
