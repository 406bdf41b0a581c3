// Package watcher turns a file's integer content into stream values using
// fsnotify.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/brianly1003/relaykit/internal/domain"
	"github.com/brianly1003/relaykit/internal/stream"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// FileSource watches one file and pushes its parsed content to an Observer
// each time the file settles after a change.
type FileSource struct {
	path       string
	out        stream.Observer[int]
	debounceMS int

	mu        sync.RWMutex
	watcher   *fsnotify.Watcher
	debouncer *Debouncer
	running   bool
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewFileSource creates a source for path. Nothing is watched until Start.
func NewFileSource(path string, out stream.Observer[int], debounceMS int) *FileSource {
	return &FileSource{
		path:       filepath.Clean(path),
		out:        out,
		debounceMS: debounceMS,
	}
}

// Path returns the watched file.
func (s *FileSource) Path() string {
	return s.path
}

// Start pushes the file's current value, if it has one, and begins watching.
// The parent directory is watched so that editors that replace the file on
// save are still followed.
func (s *FileSource) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		_ = watcher.Close()
		s.mu.Unlock()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(s.path), err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	s.watcher = watcher
	s.cancel = cancel
	s.done = make(chan struct{})
	s.debouncer = NewDebouncer(time.Duration(s.debounceMS)*time.Millisecond, s.handleSettled)
	s.running = true
	s.mu.Unlock()

	if _, err := os.Stat(s.path); err == nil {
		s.handleSettled(s.path)
	}

	go s.eventLoop(watchCtx, watcher, s.done)

	log.Info().
		Str("path", s.path).
		Int("debounce_ms", s.debounceMS).
		Msg("file source started")

	return nil
}

// Stop terminates watching. Pending changes are dropped.
func (s *FileSource) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.cancel()
	s.debouncer.Stop()
	err := s.watcher.Close()
	done := s.done
	s.mu.Unlock()

	<-done
	log.Info().Str("path", s.path).Msg("file source stopped")
	return err
}

// IsRunning returns true if the source is active.
func (s *FileSource) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// eventLoop handles fsnotify events.
func (s *FileSource) eventLoop(ctx context.Context, w *fsnotify.Watcher, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.Events:
			if !ok {
				return
			}
			s.handleEvent(event)

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Str("path", s.path).Msg("watcher error")
		}
	}
}

// handleEvent queues writes and creates of the watched file for debouncing.
func (s *FileSource) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != s.path {
		return
	}

	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		s.mu.RLock()
		d := s.debouncer
		s.mu.RUnlock()
		d.Add(s.path)
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		log.Debug().Str("path", s.path).Str("op", event.Op.String()).Msg("watched file went away")
	}
}

// handleSettled is called after the debounce window expires.
func (s *FileSource) handleSettled(path string) {
	v, err := ReadValue(path)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidValue) {
			log.Warn().Err(err).Msg("skipping unparseable input")
		} else {
			log.Warn().Err(err).Str("path", path).Msg("failed to read input file")
		}
		return
	}

	log.Debug().Str("path", path).Int("value", v).Msg("input value")
	s.out.Push(v)
}

// ReadValue reads path and parses its trimmed content as a base-10 integer.
// Content that does not parse yields an *domain.InputError.
func ReadValue(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	raw := strings.TrimSpace(string(data))
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewInputError(path, raw, err)
	}
	return v, nil
}
