package designer

import (
	"errors"
	"strings"
	"time"

	"dukanBack/internal/models"
)

// Session states for the AI design workflow.
const (
	StateIdle       = "idle"
	StateDrafting   = "drafting"
	StateAwaiting   = "awaiting"
	StatePreviewing = "previewing"
	StatePublished  = "published"
)

var transitions = map[string]map[string]struct{}{
	StateIdle:     {StateDrafting: {}},
	StateDrafting: {StateAwaiting: {}},
	StateAwaiting: {StatePreviewing: {}, StateDrafting: {}},
	StatePreviewing: {
		StatePublished: {},
		StateDrafting:  {},
		StateIdle:      {},
	},
	StatePublished: {
		StateDrafting: {},
		StateIdle:     {},
	},
}

var (
	ErrInvalidTransition = errors.New("designer: invalid session transition")
	ErrEmptyPrompt       = errors.New("designer: prompt text is empty")
	ErrNoTokens          = errors.New("designer: no tokens remaining")
	ErrNothingToPublish  = errors.New("designer: no pending design staged")
)

// CanTransition reports whether the session may move between the two states.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	allowed, ok := transitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// Session is the explicit state passed through every transition, so the
// workflow is testable without a rendering environment. Pending is the staged
// design visible in the preview; Current is the published one.
type Session struct {
	StoreID int
	State   string
	Prompt  string
	Pending *models.DesignResult
	Current *models.DesignResult

	// Warning carries the advisory destructive-change summary for the
	// staged design, if any. It never blocks a transition.
	Warning string
}

// NewSession starts an idle session for a store.
func NewSession(storeID int) Session {
	return Session{StoreID: storeID, State: StateIdle}
}

// Compose moves into drafting with the given prompt text. Allowed from any
// state that is not mid-request.
func (s Session) Compose(prompt string) (Session, error) {
	if s.State == StateAwaiting {
		return s, ErrInvalidTransition
	}
	s.State = StateDrafting
	s.Prompt = prompt
	return s, nil
}

// Submit guards the drafting → awaiting transition: the prompt must be
// non-empty and the balance must grant a token. On violation the session is
// returned unchanged so the caller can surface the reason and stay drafting.
func (s Session) Submit(balance models.TokenBalance, now time.Time) (Session, error) {
	if s.State != StateDrafting {
		return s, ErrInvalidTransition
	}
	if strings.TrimSpace(s.Prompt) == "" {
		return s, ErrEmptyPrompt
	}
	if !balance.HasTokens(now) {
		return s, ErrNoTokens
	}
	s.State = StateAwaiting
	return s, nil
}

// Succeed stages the returned design and moves to previewing. The token was
// consumed server-side when the request was granted; the session only mirrors
// the outcome.
func (s Session) Succeed(design models.DesignResult, warning string) (Session, error) {
	if !CanTransition(s.State, StatePreviewing) {
		return s, ErrInvalidTransition
	}
	s.State = StatePreviewing
	s.Pending = &design
	s.Warning = warning
	return s, nil
}

// Fail returns to drafting after a failed generation. The balance is left for
// the caller to restore; nothing staged is touched.
func (s Session) Fail() (Session, error) {
	if s.State != StateAwaiting {
		return s, ErrInvalidTransition
	}
	s.State = StateDrafting
	return s, nil
}

// Publish commits the pending design as current.
func (s Session) Publish() (Session, error) {
	if s.State != StatePreviewing || s.Pending == nil {
		return s, ErrNothingToPublish
	}
	s.State = StatePublished
	s.Current = s.Pending
	s.Pending = nil
	s.Warning = ""
	return s, nil
}

// Reset clears current and pending state and returns to idle. Reachable from
// previewing and published only.
func (s Session) Reset() (Session, error) {
	if s.State != StatePreviewing && s.State != StatePublished {
		return s, ErrInvalidTransition
	}
	s.State = StateIdle
	s.Pending = nil
	s.Current = nil
	s.Prompt = ""
	s.Warning = ""
	return s, nil
}

// Restore reconstructs a session from persisted state. Precedence is strict:
// a published design wins; otherwise an explicit reset sentinel forces idle
// even when unpublished history exists; otherwise the most recent historical
// design is re-staged so unpublished work survives reloads. Reordering this
// would resurrect designs the user deliberately discarded.
func Restore(storeID int, published *models.DesignResult, resetSentinel bool, lastHistory *models.DesignResult) Session {
	s := NewSession(storeID)
	switch {
	case published != nil:
		s.State = StatePublished
		s.Current = published
	case resetSentinel:
		// stay idle
	case lastHistory != nil:
		s.State = StatePreviewing
		s.Pending = lastHistory
	}
	return s
}
