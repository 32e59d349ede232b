package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/SUMMERxKx/nwHacks/internal"
)

type FileStorage struct {
	checkIns     map[string]map[string]*internal.CheckIn // userID -> date -> CheckIn
	mu           sync.RWMutex
	file         string
	saveChan     chan struct{}
	shutdownChan chan struct{}
	doneChan     chan struct{}
	saveDelay    time.Duration
	closeOnce    sync.Once
	logger       internal.Logger
}

func NewFileStorage(file string, logger internal.Logger) (*FileStorage, error) {
	s := &FileStorage{
		checkIns:     make(map[string]map[string]*internal.CheckIn),
		file:         file,
		saveChan:     make(chan struct{}, 1),
		shutdownChan: make(chan struct{}),
		doneChan:     make(chan struct{}),
		saveDelay:    500 * time.Millisecond,
		logger:       logger,
	}

	if dir := filepath.Dir(file); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: create data dir: %w", err)
		}
	}
	if err := s.loadCheckIns(); err != nil {
		logger.Errorf("storage: failed to load check-ins: %v", err)
		return nil, err
	}

	go s.saveWorker()

	return s, nil
}

func (s *FileStorage) loadCheckIns() error {
	file, err := os.Open(s.file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	var checkIns []*internal.CheckIn
	if err := json.NewDecoder(file).Decode(&checkIns); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range checkIns {
		if c == nil || c.UserID == "" || c.Date == "" {
			continue
		}
		s.userIndex(c.UserID)[c.Date] = c
	}
	return nil
}

// userIndex must be called with s.mu held for writing.
func (s *FileStorage) userIndex(userID string) map[string]*internal.CheckIn {
	idx, ok := s.checkIns[userID]
	if !ok {
		idx = make(map[string]*internal.CheckIn)
		s.checkIns[userID] = idx
	}
	return idx
}

func atomicWriteFileJSON(filePath string, data interface{}) error {
	tempFile := filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}

func (s *FileStorage) saveCheckIns() error {
	s.mu.RLock()
	all := make([]internal.CheckIn, 0)
	for _, idx := range s.checkIns {
		for _, c := range idx {
			all = append(all, *c)
		}
	}
	s.mu.RUnlock()

	return atomicWriteFileJSON(s.file, all)
}

func (s *FileStorage) saveWorker() {
	defer close(s.doneChan)
	timer := time.NewTimer(s.saveDelay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-s.saveChan:
			timer.Reset(s.saveDelay)
		case <-timer.C:
			if err := s.saveCheckIns(); err != nil {
				s.logger.Errorf("storage: error saving check-ins: %v", err)
			}
		case <-s.shutdownChan:
			return
		}
	}
}

func (s *FileStorage) scheduleSave() {
	select {
	case s.saveChan <- struct{}{}:
	default:
	}
}

// Close stops the background writer and flushes pending data synchronously.
func (s *FileStorage) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.shutdownChan)
		<-s.doneChan
		err = s.saveCheckIns()
	})
	return err
}

// --- CheckInRepository ---
func (s *FileStorage) SaveCheckIn(ctx context.Context, checkIn *internal.CheckIn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.userIndex(checkIn.UserID)
	stored := *checkIn
	if existing, ok := idx[checkIn.Date]; ok && !existing.CreatedAt.IsZero() {
		stored.CreatedAt = existing.CreatedAt
	}
	idx[checkIn.Date] = &stored
	*checkIn = stored

	s.scheduleSave()
	return nil
}

func (s *FileStorage) GetCheckIn(ctx context.Context, userID, date string) (*internal.CheckIn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.checkIns[userID][date]
	if !ok || c.Deleted() {
		return nil, fmt.Errorf("storage: check-in %s: %w", date, internal.ErrNotFound)
	}
	out := *c
	return &out, nil
}

func (s *FileStorage) ListCheckIns(ctx context.Context, userID, start, end string) ([]internal.CheckIn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []internal.CheckIn{}
	for date, c := range s.checkIns[userID] {
		if c.Deleted() || date < start || date > end {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (s *FileStorage) DeleteCheckIn(ctx context.Context, userID, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.checkIns[userID][date]
	if !ok || c.Deleted() {
		return fmt.Errorf("storage: check-in %s: %w", date, internal.ErrNotFound)
	}
	now := time.Now().UTC()
	c.DeletedAt = &now
	c.UpdatedAt = now
	s.scheduleSave()
	return nil
}

// --- Compile-time assertions ---
var _ CheckInRepository = (*FileStorage)(nil)
