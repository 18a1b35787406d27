package wizard

import (
	"context"
	"errors"
	"strings"
	"time"

	profileRepo "covenant/database/repository/profile"
	"covenant/models"
	"covenant/services/verification"
	"covenant/utils"

	"go.uber.org/zap"
)

// ErrLocationDenied is reported by a Locator when the user refused the
// device's permission prompt.
var ErrLocationDenied = errors.New("location permission denied")

// ErrNoSession is returned when an operation targets a user without an open
// session.
var ErrNoSession = errors.New("no open wizard session")

// Open starts (or restarts) a wizard session for the user. A fetch failure is
// never fatal to the screen: the session opens on a default draft with a
// recoverable banner instead.
func (sv *DefaultWizardService) Open(ctx context.Context, userID, email string) (*Session, error) {
	logger := utils.GetLogger()

	s := &Session{
		UserID: userID,
		Email:  email,
		Mode:   ModeCreate,
		Step:   StepBasics,
		Draft:  models.NewProfileDraft(userID, email),
	}

	row, err := sv.Repo.GetByID(ctx, userID)
	switch {
	case err == nil:
		s.Mode = ModeEdit
		s.wasExisting = true
		s.Draft = RowToDraft(row, email)
		s.snapshot = s.Draft.Clone()
	case errors.Is(err, profileRepo.ErrProfileNotFound):
		// Fresh account: keep the blank draft with defaults.
	case IsConnectivityFailure(err):
		logger.Warn("Profile load hit a connectivity failure", zap.String("userId", userID), zap.Error(err))
		s.Banner = MsgConnection
	default:
		logger.Error("Profile load failed", zap.String("userId", userID), zap.Error(err))
		s.Banner = MsgLoadFailed
	}

	sv.mu.Lock()
	sv.sessions[userID] = s
	sv.mu.Unlock()
	return s, nil
}

// Get returns the user's open session, if any.
func (sv *DefaultWizardService) Get(userID string) (*Session, bool) {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	s, ok := sv.sessions[userID]
	return s, ok
}

// Close discards the user's session and its dirty-check snapshot.
func (sv *DefaultWizardService) Close(userID string) {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	delete(sv.sessions, userID)
}

// Advance validates the current step only and moves forward on success. Step
// one checks name, birth date, age and location in that order; the first
// failing check wins. Steps two to four carry no blocking validation.
func (sv *DefaultWizardService) Advance(s *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Mode == ModeEdit {
		return nil
	}

	if s.Step == StepBasics {
		if msg := validateBasics(s.Draft); msg != "" {
			s.Banner = msg
			return validationError(msg)
		}
	}

	if s.Step == StepVerification {
		if !s.Draft.CanFinalize() {
			s.Banner = MsgNotVerified
			return validationError(MsgNotVerified)
		}
		// Forward progress past the last step happens through Submit.
		return nil
	}

	s.Banner = ""
	s.Step++
	return nil
}

func validateBasics(d *models.ProfileDraft) string {
	switch {
	case strings.TrimSpace(d.Name) == "":
		return MsgNameRequired
	case d.BirthDate == "":
		return MsgBirthDateRequired
	case d.AgeAt(time.Now()) < 18:
		return MsgUnderage
	case strings.TrimSpace(d.LocationLabel) == "":
		return MsgLocationRequired
	}
	return ""
}

// Retreat moves one step back, never below the first, and clears the banner.
func (sv *DefaultWizardService) Retreat(s *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Step > StepBasics {
		s.Step--
	}
	s.Banner = ""
}

// SetField writes a single named field into the draft. Height keeps digits
// only; writing gender atomically rewrites the seeking set.
func (sv *DefaultWizardService) SetField(s *Session, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.Draft
	switch field {
	case "name":
		d.Name = value
	case "birthDate":
		d.BirthDate = value
	case "locationLabel":
		d.LocationLabel = value
	case "bio":
		d.Bio = value
	case "denomination":
		d.Denomination = value
	case "churchName":
		d.ChurchName = value
	case "churchFrequency":
		d.ChurchFrequency = models.ChurchFrequency(value)
	case "favoriteVerse":
		d.FavoriteVerse = value
	case "favoriteSong":
		d.FavoriteSong = value
	case "favoriteBook":
		d.FavoriteBook = value
	case "height":
		d.Height = digitsOnly(value)
	case "gender":
		g := models.Gender(value)
		if g != models.GenderMan && g != models.GenderWoman {
			return validationError(MsgUnknownField)
		}
		d.Gender = g
		d.Seeking = []models.Gender{g.Seeking()}
	default:
		return validationError(MsgUnknownField)
	}
	return nil
}

func digitsOnly(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ToggleTag flips membership of value in the named list. A toggle that would
// exceed the list's cap is rejected without mutation and surfaces a capacity
// notice. Insertion order is preserved; removal does not reorder.
func (sv *DefaultWizardService) ToggleTag(s *Session, list, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var target *[]string
	limit := 0
	switch list {
	case "interests":
		target = &s.Draft.Interests
		limit = models.MaxInterests
	case "keyValues":
		target = &s.Draft.KeyValues
		limit = models.MaxKeyValues
	case "languages":
		target = &s.Draft.Languages
	default:
		return validationError(MsgUnknownList)
	}

	for i, existing := range *target {
		if existing == value {
			*target = append((*target)[:i], (*target)[i+1:]...)
			return nil
		}
	}

	if limit > 0 && len(*target) >= limit {
		s.Banner = MsgTagLimit
		return validationError(MsgTagLimit)
	}
	*target = append(*target, value)
	return nil
}

// RequestLocation runs a device location lookup. Only one lookup may be in
// flight per session; a second request is rejected until the first resolves.
// On success the label is overwritten with the fixed translated placeholder
// and the coordinate pair is stored.
func (sv *DefaultWizardService) RequestLocation(ctx context.Context, s *Session, loc Locator) error {
	s.mu.Lock()
	if s.locationPending {
		s.mu.Unlock()
		return validationError(MsgLocationPending)
	}
	s.locationPending = true
	s.mu.Unlock()

	point, err := loc.Resolve(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.locationPending = false

	if err != nil {
		if errors.Is(err, ErrLocationDenied) {
			s.Banner = MsgLocationDenied
			return &FlowError{Kind: KindValidation, Message: MsgLocationDenied, Err: err}
		}
		s.Banner = MsgLocationFailed
		return &FlowError{Kind: KindUnknown, Message: MsgLocationFailed, Err: err}
	}

	s.Draft.LocationLabel = MsgCurrentLocation
	s.Draft.Coordinates = &point
	s.Banner = ""
	return nil
}

// ApplyPublicPhoto writes an uploaded photo URL into the indexed slot. The
// wizard alone mutates the draft; upload and verification collaborators hand
// their results here.
func (sv *DefaultWizardService) ApplyPublicPhoto(s *Session, index int, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= models.PhotoSlotCount {
		return validationError(MsgUnknownField)
	}
	s.Draft.PhotoSlots[index] = url
	return nil
}

// ApplyPrivatePhoto writes an uploaded private photo URL into the draft.
func (sv *DefaultWizardService) ApplyPrivatePhoto(s *Session, url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Draft.PrivatePhoto = url
}

// StartVerification runs the selfie verification gate. Entry requires the
// first public photo slot to be filled; otherwise the user is sent back to
// the photo step with an explanatory message.
func (sv *DefaultWizardService) StartVerification(ctx context.Context, s *Session, src verification.MediaCaptureSource) (models.VerificationStatus, error) {
	s.mu.Lock()
	reference := s.Draft.PhotoSlots[0]
	if reference == "" {
		s.Step = StepPhotos
		s.Banner = MsgVerifyNeedPhoto
		s.mu.Unlock()
		return models.VerificationNone, validationError(MsgVerifyNeedPhoto)
	}
	s.Draft.VerificationStatus = models.VerificationPending
	userID := s.UserID
	s.mu.Unlock()

	status, err := sv.Gate.Run(ctx, userID, reference, src)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Draft.VerificationStatus = status
	if err != nil {
		s.Banner = MsgVerifyFailed
		return status, &FlowError{Kind: KindUnknown, Message: MsgVerifyFailed, Err: err}
	}
	s.Banner = ""
	return status, nil
}

// Submit finalizes the draft. Creation mode requires the last step and a
// verified status; edit mode requires a dirty draft. A failed submit is never
// fatal: the session stays resubmittable with a classified banner.
func (sv *DefaultWizardService) Submit(ctx context.Context, s *Session) (*SubmitResult, error) {
	logger := utils.GetLogger()

	s.mu.Lock()
	if s.Mode == ModeCreate {
		if s.Step != StepVerification || !s.Draft.CanFinalize() {
			s.Banner = MsgNotVerified
			s.mu.Unlock()
			return nil, validationError(MsgNotVerified)
		}
	} else {
		if !s.isDirtyLocked() {
			s.mu.Unlock()
			return nil, validationError(MsgNotDirty)
		}
	}
	row := DraftToRow(s.Draft, time.Now())
	email := s.Email
	s.mu.Unlock()

	stored, err := sv.Repo.Upsert(ctx, row)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		fe := ClassifySubmitError(err)
		logger.Error("Profile submit failed", zap.String("userId", s.UserID), zap.Int("kind", int(fe.Kind)), zap.Error(err))
		s.Banner = fe.Message
		return nil, fe
	}

	wasEditing := s.wasExisting
	s.Draft = RowToDraft(stored, email)
	// Recapture the snapshot so a second edit pass does not start dirty.
	s.snapshot = s.Draft.Clone()
	s.wasExisting = true
	s.Mode = ModeEdit
	s.Banner = ""

	logger.Info("Profile submitted", zap.String("userId", s.UserID), zap.Bool("wasEditing", wasEditing))
	return &SubmitResult{Profile: *s.Draft.Clone(), WasEditing: wasEditing}, nil
}
