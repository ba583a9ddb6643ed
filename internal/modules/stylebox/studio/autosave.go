package studio

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultAutosaveInterval is how often the session tries to flush itself.
const DefaultAutosaveInterval = 60 * time.Second

// StartAutosave launches the session's background flush loop. The loop is
// owned by the session: StopAutosave (or closing the session) cancels it,
// and no partial save is forced on shutdown.
func (s *Session) StartAutosave(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultAutosaveInterval
	}

	s.mu.Lock()
	if s.cancelAutosave != nil {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancelAutosave = cancel
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.AutosaveTick()
			}
		}
	}()
}

// StopAutosave cancels the flush loop. Safe to call more than once.
func (s *Session) StopAutosave() {
	s.mu.Lock()
	cancel := s.cancelAutosave
	s.cancelAutosave = nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// AutosaveTick runs one flush attempt. It is deliberately idempotent:
// with no intervening edit, a second tick compares equal snapshots and
// skips the store entirely. Failures never surface to the editor; the next
// tick retries with the same comparison.
func (s *Session) AutosaveTick() {
	s.mu.Lock()
	if s.flushing {
		// A flush is already in flight; never run two attempts at once.
		s.mu.Unlock()
		return
	}
	if strings.TrimSpace(s.draft.Title) == "" {
		// Nothing to save against yet.
		s.mu.Unlock()
		return
	}
	snap := marshalDraft(s.draft)
	if snap == s.lastSnapshot {
		s.mu.Unlock()
		return
	}
	s.flushing = true
	draftCopy := s.draft
	s.mu.Unlock()

	saved, err := s.persist(&draftCopy)

	s.mu.Lock()
	s.flushing = false
	if err != nil {
		// Keep the old snapshot so the next tick retries.
		s.mu.Unlock()
		if s.logger != nil {
			s.logger.Warn("autosave flush failed", zap.String("box_id", draftCopy.BoxID), zap.Error(err))
		}
		return
	}
	s.adoptIdentity(saved)
	s.lastSnapshot = snap
	now := time.Now()
	s.lastSavedAt = &now
	s.mu.Unlock()
}
