package studio

import (
	"context"
	"sync"
	"time"

	"github.com/stylebox-hq/core/internal/models"
	"github.com/stylebox-hq/core/internal/modules/stylebox/template"
	"go.uber.org/zap"
)

// Manager tracks one editing session per editor. Opening a new session for
// an editor closes the previous one (cancelling its autosave loop without a
// forced save, same as navigating away).
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	tplSvc   *template.Service
	interval time.Duration
	logger   *zap.Logger
}

func NewManager(tplSvc *template.Service, interval time.Duration, logger *zap.Logger) *Manager {
	if interval <= 0 {
		interval = DefaultAutosaveInterval
	}
	return &Manager{
		sessions: make(map[string]*Session),
		tplSvc:   tplSvc,
		interval: interval,
		logger:   logger,
	}
}

// Open starts an editing session for the given editor. A nil box opens a
// fresh empty template.
func (m *Manager) Open(ctx context.Context, editorID string, box *models.StyleBoxModel) *Session {
	draft := template.CreateEmpty("")
	if box != nil {
		draft = *box
	}

	s := NewSession(draft, m.tplSvc.SaveDraft, m.logger)
	s.StartAutosave(ctx, m.interval)

	m.mu.Lock()
	old := m.sessions[editorID]
	m.sessions[editorID] = s
	m.mu.Unlock()

	if old != nil {
		old.StopAutosave()
	}
	return s
}

// Get returns the editor's active session, or nil.
func (m *Manager) Get(editorID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[editorID]
}

// Close ends the editor's session. No partial save is forced.
func (m *Manager) Close(editorID string) {
	m.mu.Lock()
	s := m.sessions[editorID]
	delete(m.sessions, editorID)
	m.mu.Unlock()
	if s != nil {
		s.StopAutosave()
	}
}

// CloseAll tears down every session (server shutdown).
func (m *Manager) CloseAll() {
	m.mu.Lock()
	all := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()
	for _, s := range all {
		s.StopAutosave()
	}
}
