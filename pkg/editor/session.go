package editor

import (
	"context"
	"sync"
	"time"

	"github.com/dukex/flowbuilder/pkg/models"
)

// DefaultNoticeTTL is how long a notice such as the save confirmation stays in the issue list.
const DefaultNoticeTTL = 2 * time.Second

// Session owns one editing state and serializes the actions applied to it. Notices are expired
// automatically once they have been shown for the notice TTL.
type Session struct {
	mu        sync.Mutex
	machine   *Machine
	state     State
	noticeTTL time.Duration
	timer     *time.Timer
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithNoticeTTL sets the notice lifetime. Zero or less keeps notices until the next action
// replaces them.
func WithNoticeTTL(ttl time.Duration) SessionOption {
	return func(s *Session) {
		s.noticeTTL = ttl
	}
}

// WithInitialState starts the session from state instead of the blank state.
func WithInitialState(state State) SessionOption {
	return func(s *Session) {
		s.state = state
	}
}

// NewSession creates a session driven by machine.
func NewSession(machine *Machine, opts ...SessionOption) *Session {
	session := &Session{
		machine:   machine,
		state:     NewState(),
		noticeTTL: DefaultNoticeTTL,
	}

	for _, opt := range opts {
		opt(session)
	}

	return session
}

// State returns the current state. The returned value shares memory with the session and must be
// treated as read-only.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Dispatch applies action and returns the resulting state.
func (s *Session) Dispatch(ctx context.Context, action Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = s.machine.Apply(ctx, s.state, action)
	s.scheduleNoticeExpiry()

	return s.state
}

// Export builds the export document of the current graph. When the graph has blocking issues
// they are published to the state and no document is returned.
func (s *Session) Export(name string) (*models.ExportDocument, State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	document, issues := Export(s.state, name)
	if document == nil {
		next := s.state
		next.Issues = issues
		s.state = next
		s.stopTimer()
	}

	return document, s.state
}

// Close stops the pending notice expiry.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopTimer()
}

func (s *Session) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// scheduleNoticeExpiry must be called with the lock held.
func (s *Session) scheduleNoticeExpiry() {
	s.stopTimer()

	if s.noticeTTL <= 0 || !hasNotice(s.state.Issues) {
		return
	}

	var timer *time.Timer

	timer = time.AfterFunc(s.noticeTTL, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		// A timer replaced after it fired must not expire newer notices.
		if s.timer != timer {
			return
		}

		s.timer = nil
		s.state = s.machine.Apply(context.Background(), s.state, ExpireNotices{})
	})
	s.timer = timer
}

func hasNotice(issues models.Issues) bool {
	for _, issue := range issues {
		if !issue.IsBlocking() {
			return true
		}
	}

	return false
}
