package catalog

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// DefaultFilePath is where the backing store lives unless configured
// otherwise.
const DefaultFilePath = "products.txt"

// SkippedLine records one backing-file line that did not decode.
type SkippedLine struct {
	Line int
	Err  error
}

// LoadReport summarizes a FileStore load. Nothing in it aborts
// construction: a missing file starts an empty catalog, malformed lines
// are dropped, and a read error keeps whatever decoded before it.
type LoadReport struct {
	Loaded  int
	Skipped []SkippedLine
	Missing bool
	ReadErr error
}

// FileStore keeps the authoritative product sequence in memory and mirrors
// every append to a flat file, one record per line. The file is opened and
// closed per call; it is never held across calls.
type FileStore struct {
	mu       sync.RWMutex
	path     string
	log      *zap.Logger
	products []Product
}

// OpenFileStore reads the backing file once and returns the store together
// with a report of what the load found.
func OpenFileStore(path string, log *zap.Logger) (*FileStore, LoadReport) {
	if log == nil {
		log = zap.NewNop()
	}

	s := &FileStore{path: path, log: log}
	rep := s.load()

	switch {
	case rep.Missing:
		log.Info("backing file not found, starting empty", zap.String("path", path))
	case rep.ReadErr != nil:
		log.Error("backing file read failed",
			zap.String("path", path),
			zap.Int("loaded", rep.Loaded),
			zap.Error(rep.ReadErr),
		)
	default:
		log.Info("catalog loaded",
			zap.String("path", path),
			zap.Int("loaded", rep.Loaded),
			zap.Int("skipped", len(rep.Skipped)),
		)
	}
	for _, sk := range rep.Skipped {
		log.Warn("skipping malformed record",
			zap.String("path", path),
			zap.Int("line", sk.Line),
			zap.Error(sk.Err),
		)
	}

	return s, rep
}

func (s *FileStore) load() LoadReport {
	var rep LoadReport

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		rep.Missing = true
		return rep
	}
	if err != nil {
		rep.ReadErr = err
		return rep
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		p, err := DecodeRecord(sc.Text())
		if err != nil {
			rep.Skipped = append(rep.Skipped, SkippedLine{Line: line, Err: err})
			continue
		}
		s.products = append(s.products, p)
	}
	rep.ReadErr = sc.Err()
	rep.Loaded = len(s.products)
	return rep
}

func (s *FileStore) Ping(ctx context.Context) error {
	_, err := os.Stat(filepath.Dir(s.path))
	return err
}

func (s *FileStore) List(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

// Add appends p to the in-memory sequence first, then to the backing file.
// A file failure is returned as a *PersistError and does not undo the
// in-memory append: the record stays queryable for this session even when
// it could not be made durable.
func (s *FileStore) Add(ctx context.Context, p Product) error {
	if err := validate(p); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = append(s.products, p)

	if err := s.appendLine(EncodeRecord(p)); err != nil {
		s.log.Error("append to backing file failed",
			zap.String("path", s.path),
			zap.String("name", p.Name),
			zap.Error(err),
		)
		return &PersistError{Path: s.path, Err: err}
	}
	return nil
}

func (s *FileStore) appendLine(line string) error {
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(f, line); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
