package verification

import (
	"context"
	"errors"
	"fmt"
	"time"

	auditRepo "covenant/database/repository/audit"
	"covenant/models"
	"covenant/services/storage"
	"covenant/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State of the verification sub-flow. The walk is linear; Failure resets to
// Capture on retry and there is no attempt limit.
type State string

const (
	StateInstructions State = "INSTRUCTIONS"
	StateCapture      State = "CAPTURE"
	StateAnalyzing    State = "ANALYZING"
	StateSuccess      State = "SUCCESS"
	StateFailure      State = "FAILURE"
)

// ErrReferenceMissing is returned when the gate is entered without a first
// profile photo to match against.
var ErrReferenceMissing = errors.New("first profile photo required before verification")

// Stream is a live media stream producing still frames. Release must be
// called on every exit path.
type Stream interface {
	CaptureFrame() ([]byte, error)
	Release()
}

// MediaCaptureSource produces a still-image payload from a device camera or
// file picker.
type MediaCaptureSource interface {
	AcquireStream(ctx context.Context) (Stream, error)
}

// LivenessPrompt is one scripted on-screen instruction used to pace selfie
// capture. It is a UX device, not a liveness detector.
type LivenessPrompt struct {
	Instruction string
	Dwell       time.Duration
}

// DefaultScript returns the production prompt sequence.
func DefaultScript() []LivenessPrompt {
	return []LivenessPrompt{
		{Instruction: "Centralize seu rosto", Dwell: 2500 * time.Millisecond},
		{Instruction: "Sorria", Dwell: 2500 * time.Millisecond},
		{Instruction: "Vire para a direita", Dwell: 2000 * time.Millisecond},
	}
}

// DefaultAnalyzeDwell is how long the analyzing screen is held before the
// result is shown.
const DefaultAnalyzeDwell = 2500 * time.Millisecond

// Gate runs the selfie verification sub-flow: scripted capture, selfie
// upload, face match, and audit record insertion.
type Gate struct {
	Storage      storage.AssetStorage
	Audit        auditRepo.AuditRepository
	Matcher      FaceMatcher
	Script       []LivenessPrompt
	AnalyzeDwell time.Duration
}

// NewGate creates a Gate with the production script and pacing.
func NewGate(store storage.AssetStorage, audit auditRepo.AuditRepository, matcher FaceMatcher) *Gate {
	return &Gate{
		Storage:      store,
		Audit:        audit,
		Matcher:      matcher,
		Script:       DefaultScript(),
		AnalyzeDwell: DefaultAnalyzeDwell,
	}
}

// Run drives one verification attempt and returns the resulting status.
// referenceURL is the user's first profile photo. Any failure after entry
// yields VerificationRejected together with the cause; the caller offers a
// retry, which simply calls Run again.
func (g *Gate) Run(ctx context.Context, userID, referenceURL string, src MediaCaptureSource) (models.VerificationStatus, error) {
	logger := utils.GetLogger()

	if referenceURL == "" {
		return models.VerificationNone, ErrReferenceMissing
	}

	logger.Debug("verification state", zap.String("state", string(StateCapture)), zap.String("userId", userID))
	stream, err := src.AcquireStream(ctx)
	if err != nil {
		return models.VerificationRejected, fmt.Errorf("failed to acquire media stream: %w", err)
	}
	// Tracks must be stopped however the capture step is exited.
	defer stream.Release()

	for _, prompt := range g.Script {
		logger.Debug("liveness prompt", zap.String("instruction", prompt.Instruction))
		if err := wait(ctx, prompt.Dwell); err != nil {
			return models.VerificationRejected, err
		}
	}

	selfie, err := stream.CaptureFrame()
	if err != nil {
		return models.VerificationRejected, fmt.Errorf("failed to capture frame: %w", err)
	}

	logger.Debug("verification state", zap.String("state", string(StateAnalyzing)), zap.String("userId", userID))
	if err := wait(ctx, g.AnalyzeDwell); err != nil {
		return models.VerificationRejected, err
	}

	key := fmt.Sprintf("%s_%d", userID, time.Now().UnixNano())
	selfieURL, err := g.Storage.Upload(ctx, storage.ContainerVerificationSelfies, key, selfie)
	if err != nil {
		return models.VerificationRejected, fmt.Errorf("failed to upload selfie: %w", err)
	}

	outcome := models.VerificationRejected
	matched, matchErr := g.Matcher.Match(ctx, selfie, referenceURL)
	if matchErr == nil && matched {
		outcome = models.VerificationVerified
	}

	audit := &models.VerificationAudit{
		ID:           uuid.NewString(),
		UserID:       userID,
		SelfieURL:    selfieURL,
		ReferenceURL: referenceURL,
		Outcome:      outcome,
		Reviewer:     models.AutomaticReviewer,
	}
	if err := g.Audit.Insert(ctx, audit); err != nil {
		return models.VerificationRejected, fmt.Errorf("failed to insert audit record: %w", err)
	}

	if matchErr != nil {
		return models.VerificationRejected, fmt.Errorf("face match failed: %w", matchErr)
	}

	if outcome == models.VerificationVerified {
		logger.Info("verification state", zap.String("state", string(StateSuccess)), zap.String("userId", userID))
	} else {
		logger.Info("verification state", zap.String("state", string(StateFailure)), zap.String("userId", userID))
	}
	return outcome, nil
}

// wait sleeps for the given dwell unless the context is cancelled first.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
