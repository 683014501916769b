// Package filestore implements store.Store with one file per check name.
//
// Records live at {dir}/{name}.results. Writes go to a hidden temporary
// file in the same directory which is then renamed over the target, so a
// reader sees either the old record or the new one and never a torn write.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrestia/pdv/pkg/result"
	"github.com/sirupsen/logrus"
)

// Suffix is the file extension of a stored record.
const Suffix = ".results"

const tempPattern = ".pdv-*.tmp"

// Store is a directory of record files.
type Store struct {
	dir    string
	logger *logrus.Logger
}

// New returns a Store rooted at dir. Call Init before the first write.
func New(dir string, logger *logrus.Logger) *Store {
	return &Store{
		dir:    dir,
		logger: logger,
	}
}

// Dir returns the root directory.
func (s *Store) Dir() string {
	return s.dir
}

// Init creates the root directory if it is missing and verifies it can be
// written.
func (s *Store) Init(_ context.Context) error {
	if s.dir == "" {
		return fmt.Errorf("%w: results directory is not set", result.ErrStorageUnavailable)
	}

	_, err := os.Stat(s.dir)
	switch {
	case err == nil:
		s.logger.Infof("Results directory %s exists", s.dir)
	case errors.Is(err, fs.ErrNotExist):
		s.logger.Infof("Creating results directory %s", s.dir)
	default:
		return fmt.Errorf("%w: stat %s: %v", result.ErrStorageUnavailable, s.dir, err)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("%w: create %s: %v", result.ErrStorageUnavailable, s.dir, err)
	}

	// Probe writability with the same temp-file path Put uses.
	probe, err := os.CreateTemp(s.dir, tempPattern)
	if err != nil {
		return fmt.Errorf("%w: %s is not writable: %v", result.ErrStorageUnavailable, s.dir, err)
	}
	if err := probe.Close(); err != nil {
		s.logger.Warnf("Failed to close probe file %s: %v", probe.Name(), err)
	}
	if err := os.Remove(probe.Name()); err != nil {
		s.logger.Warnf("Failed to remove probe file %s: %v", probe.Name(), err)
	}

	return nil
}

// Put writes rec to {dir}/{name}.results, replacing any previous record.
func (s *Store) Put(ctx context.Context, rec result.Record) error {
	if err := result.ValidateName(rec.Name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := result.Encode(rec)
	if err != nil {
		return err
	}

	path := s.path(rec.Name)
	if err := s.writeAtomic(path, data); err != nil {
		s.logger.Errorf("Failed to store result for %s: %v", rec.Name, err)
		return err
	}

	s.logger.Debugf("Stored %s=%s in %s", rec.Name, rec.Outcome, path)
	return nil
}

// writeAtomic publishes data at path via a synced temp file and a rename.
func (s *Store) writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, tempPattern)
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", s.dir, err)
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file %s: %w", tmpName, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync temp file %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("publish %s: %w", path, err)
	}
	return nil
}

// All yields every record file in directory order.
// A file cleared between listing and reading is skipped.
func (s *Store) All(ctx context.Context) iter.Seq2[result.Record, error] {
	return func(yield func(result.Record, error) bool) {
		names, err := s.list()
		if err != nil {
			yield(result.Record{}, err)
			return
		}

		for _, name := range names {
			if err := ctx.Err(); err != nil {
				yield(result.Record{}, err)
				return
			}

			path := filepath.Join(s.dir, name)
			s.logger.Debugf("Sampling from %s", path)

			data, err := os.ReadFile(path)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				if !yield(result.Record{}, fmt.Errorf("read %s: %w", path, err)) {
					return
				}
				continue
			}

			rec, err := result.Decode(data)
			if err != nil {
				err = fmt.Errorf("%s: %w", path, err)
			}
			if !yield(rec, err) {
				return
			}
		}
	}
}

// Clear removes every record file. Files that disappear before they can be
// removed are not counted.
func (s *Store) Clear(_ context.Context) (int, error) {
	names, err := s.list()
	if err != nil {
		return 0, err
	}

	count := 0
	for _, name := range names {
		path := filepath.Join(s.dir, name)
		err := os.Remove(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return count, fmt.Errorf("remove %s: %w", path, err)
		}
		count++
	}

	s.logger.Infof("Cleared %d state files from %s", count, s.dir)
	return count, nil
}

// Close is a no-op; the store holds no open handles.
func (s *Store) Close() error {
	return nil
}

// list returns the base names of record files in the root directory.
func (s *Store) list() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read results directory %s: %w", s.dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Suffix) {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+Suffix)
}
