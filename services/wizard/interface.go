package wizard

import (
	"context"
	"sync"

	profileRepo "covenant/database/repository/profile"
	"covenant/models"
	"covenant/services/verification"
)

// Locator resolves the device's current position. Implementations surface
// ErrLocationDenied when the user refused the permission prompt.
type Locator interface {
	Resolve(ctx context.Context) (models.GeoPoint, error)
}

// SubmitResult reports a successful submission back to the caller.
type SubmitResult struct {
	Profile    models.ProfileDraft
	WasEditing bool
}

// WizardService drives profile creation and editing sessions.
type WizardService interface {
	// Open starts (or restarts) a session for the user, loading any existing
	// profile. A load failure is recoverable: the session still opens on a
	// default draft with an error banner set.
	Open(ctx context.Context, userID, email string) (*Session, error)
	// Get returns the user's open session, if any.
	Get(userID string) (*Session, bool)
	// Close discards the user's session.
	Close(userID string)

	// Advance validates the current step and moves forward on success.
	Advance(s *Session) error
	// Retreat moves one step back and clears the error banner.
	Retreat(s *Session)
	// SetField writes a single named field into the draft.
	SetField(s *Session, field, value string) error
	// ToggleTag flips membership of value in the named tag list, enforcing
	// the list's cap.
	ToggleTag(s *Session, list, value string) error
	// RequestLocation runs a device location lookup; only one may be in
	// flight per session.
	RequestLocation(ctx context.Context, s *Session, loc Locator) error
	// ApplyPublicPhoto writes an uploaded photo URL into the indexed slot.
	ApplyPublicPhoto(s *Session, index int, url string) error
	// ApplyPrivatePhoto writes an uploaded private photo URL into the draft.
	ApplyPrivatePhoto(s *Session, url string)
	// StartVerification runs the selfie verification gate and folds the
	// outcome into the draft.
	StartVerification(ctx context.Context, s *Session, src verification.MediaCaptureSource) (models.VerificationStatus, error)
	// Submit finalizes the draft and persists it through the profile store.
	Submit(ctx context.Context, s *Session) (*SubmitResult, error)
}

// DefaultWizardService is the production implementation.
type DefaultWizardService struct {
	Repo profileRepo.ProfileRepository
	Gate *verification.Gate

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewWizardService creates a wizard service on the given collaborators.
func NewWizardService(repo profileRepo.ProfileRepository, gate *verification.Gate) *DefaultWizardService {
	return &DefaultWizardService{
		Repo:     repo,
		Gate:     gate,
		sessions: make(map[string]*Session),
	}
}
