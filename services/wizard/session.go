package wizard

import (
	"sync"

	"covenant/models"
)

// Mode of a wizard session.
type Mode string

const (
	// ModeCreate walks the ordered steps with per-step validation gates.
	ModeCreate Mode = "create"
	// ModeEdit is the flattened single-screen form; submission requires a
	// dirty draft and there is no verification re-gate.
	ModeEdit Mode = "edit"
)

// Wizard steps in creation mode.
const (
	StepBasics       = 1
	StepFaith        = 2
	StepAbout        = 3
	StepPhotos       = 4
	StepVerification = 5
)

// Session is one user's profile creation or edit session. The draft is
// exclusively owned by the session; collaborators report results back through
// the service, which folds them into the draft under the session lock.
type Session struct {
	mu sync.Mutex

	UserID string
	Email  string
	Mode   Mode
	Step   int
	Draft  *models.ProfileDraft

	// Banner is the current dismissible user-visible error, empty when none.
	Banner string

	// snapshot is the frozen post-load copy used for dirty checking in edit
	// mode. It is recaptured after a successful submit so a second edit pass
	// does not start dirty.
	snapshot *models.ProfileDraft

	wasExisting     bool
	locationPending bool
}

// IsDirty reports whether the draft differs structurally from the post-load
// snapshot. Creation-mode sessions have no snapshot and are never dirty.
func (s *Session) IsDirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isDirtyLocked()
}

func (s *Session) isDirtyLocked() bool {
	if s.snapshot == nil {
		return false
	}
	return !draftsEqual(s.Draft, s.snapshot)
}

// DismissBanner clears the current error banner.
func (s *Session) DismissBanner() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Banner = ""
}

// WasExisting reports whether the session loaded a pre-existing profile.
func (s *Session) WasExisting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wasExisting
}

// Snapshot returns a copy of the current draft for rendering.
func (s *Session) Snapshot() models.ProfileDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.Draft.Clone()
}

// State returns the mode, step and banner under the session lock.
func (s *Session) State() (Mode, int, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Mode, s.Step, s.Banner
}
