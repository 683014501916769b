package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrestia/pdv/pkg/result"
	"github.com/adrestia/pdv/pkg/store"
	"github.com/adrestia/pdv/pkg/store/filestore"
	"github.com/adrestia/pdv/pkg/store/memstore"
	"github.com/sirupsen/logrus"
)

func put(t *testing.T, s store.Store, name string, o result.Outcome) {
	t.Helper()
	if err := s.Put(context.Background(), result.Record{Name: name, Outcome: o, Time: time.Unix(1700000000, 0)}); err != nil {
		t.Fatalf("Put %s failed: %v", name, err)
	}
}

func TestReport_Empty(t *testing.T) {
	r := New(memstore.New()).Report(context.Background())
	if r.Verdict != result.Pass || r.Count != 0 || r.Err != nil {
		t.Errorf("expected vacuous pass, got %+v", r)
	}
}

func TestReport_FirstFailureWins(t *testing.T) {
	s := memstore.New()
	put(t, s, "a", result.Pass)
	put(t, s, "b", result.Fail)
	put(t, s, "c", result.Pass)
	put(t, s, "d", result.Fail)

	r := New(s).Report(context.Background())
	if !r.Failed() {
		t.Fatalf("expected fail verdict, got %+v", r)
	}
	if r.Count != 2 {
		t.Errorf("expected count 2 (inclusive of first failure), got %d", r.Count)
	}
	if r.FailingName != "b" {
		t.Errorf("expected failing name b, got %q", r.FailingName)
	}
	if !r.FailingTime.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("unexpected failing time %v", r.FailingTime)
	}
	if r.Err != nil {
		t.Errorf("unexpected error %v", r.Err)
	}
}

func TestReport_AllPass(t *testing.T) {
	s := memstore.New()
	for i := range 100 {
		put(t, s, fmt.Sprintf("check_%d", i), result.Pass)
	}

	r := New(s).Report(context.Background())
	if r.Verdict != result.Pass || r.Count != 100 {
		t.Errorf("expected pass with count 100, got %+v", r)
	}
}

func TestReport_UnknownOutcome(t *testing.T) {
	s := memstore.New()
	put(t, s, "a", result.Pass)
	put(t, s, "weird", result.Outcome("maybe"))

	r := New(s).Report(context.Background())
	if !errors.Is(r.Err, result.ErrUnknownOutcome) {
		t.Fatalf("expected ErrUnknownOutcome, got %v", r.Err)
	}
	if r.Count != 2 {
		t.Errorf("expected count 2, got %d", r.Count)
	}
	if r.FailingName != "weird" {
		t.Errorf("expected offending record name, got %q", r.FailingName)
	}
}

// seqStore yields a fixed sequence of records and errors.
type seqStore struct {
	*memstore.Store
	items []item
}

type item struct {
	rec result.Record
	err error
}

func (s seqStore) All(context.Context) iter.Seq2[result.Record, error] {
	return func(yield func(result.Record, error) bool) {
		for _, it := range s.items {
			if !yield(it.rec, it.err) {
				return
			}
		}
	}
}

func TestReport_CorruptRecordAbortsScan(t *testing.T) {
	s := seqStore{
		Store: memstore.New(),
		items: []item{
			{rec: result.Record{Name: "a", Outcome: result.Pass}},
			{err: fmt.Errorf("broken.results: %w", result.ErrCorruptRecord)},
			{rec: result.Record{Name: "c", Outcome: result.Fail}},
		},
	}

	r := New(s).Report(context.Background())
	if !errors.Is(r.Err, result.ErrCorruptRecord) {
		t.Fatalf("expected ErrCorruptRecord, got %v", r.Err)
	}
	if r.Count != 1 {
		t.Errorf("expected scan to stop after 1 record, got %d", r.Count)
	}
	if r.FailingName != "" {
		t.Errorf("later records must not be examined, got %q", r.FailingName)
	}
}

func TestReport_Idempotent(t *testing.T) {
	s := memstore.New()
	put(t, s, "a", result.Pass)
	put(t, s, "b", result.Fail)

	rep := New(s)
	first := rep.Report(context.Background())
	second := rep.Report(context.Background())
	if first != second {
		t.Errorf("expected identical reports, got %+v and %+v", first, second)
	}
}

func newFileStore(t *testing.T) *filestore.Store {
	t.Helper()
	l := logrus.New()
	l.SetOutput(io.Discard)
	s := filestore.New(filepath.Join(t.TempDir(), "results"), l)
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return s
}

func TestReport_FileStoreEveryFifthFails(t *testing.T) {
	s := newFileStore(t)
	for i := 1; i <= 100; i++ {
		o := result.Pass
		if i%5 == 0 {
			o = result.Fail
		}
		put(t, s, fmt.Sprintf("check_%03d", i), o)
	}

	r := New(s).Report(context.Background())
	if !r.Failed() {
		t.Fatalf("expected fail verdict, got %+v", r)
	}
	// Directory listing is name-sorted, so check_005 is the first failure.
	if r.Count < 1 || r.Count > 5 {
		t.Errorf("expected count between 1 and 5, got %d", r.Count)
	}
	if r.FailingName == "" || r.FailingTime.IsZero() {
		t.Errorf("expected failing name and time, got %+v", r)
	}
	if r.Err != nil {
		t.Errorf("unexpected error %v", r.Err)
	}
}

func TestReport_FileStoreSingleFailure(t *testing.T) {
	s := newFileStore(t)
	put(t, s, "a", result.Pass)
	put(t, s, "b", result.Fail)
	put(t, s, "c", result.Pass)

	r := New(s).Report(context.Background())
	if !r.Failed() || r.FailingName != "b" {
		t.Errorf("expected failure on b, got %+v", r)
	}
	if r.Count < 1 || r.Count > 3 {
		t.Errorf("count out of range: %d", r.Count)
	}
}

func TestReport_FileStoreCorruptFile(t *testing.T) {
	s := newFileStore(t)
	if err := os.WriteFile(filepath.Join(s.Dir(), "junk.results"), []byte("junk"), 0644); err != nil {
		t.Fatalf("failed to write corrupt file: %v", err)
	}

	r := New(s).Report(context.Background())
	if !errors.Is(r.Err, result.ErrCorruptRecord) {
		t.Errorf("expected ErrCorruptRecord, got %v", r.Err)
	}
}
