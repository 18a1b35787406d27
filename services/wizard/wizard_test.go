package wizard

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	profileRepo "covenant/database/repository/profile"
	"covenant/models"
	"covenant/services/storage"
	"covenant/services/verification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProfileRepo struct {
	row       *models.Profile
	getErr    error
	upsertErr error
	upserts   int
}

func (r *stubProfileRepo) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	if r.row == nil || r.row.ID != id {
		return nil, profileRepo.ErrProfileNotFound
	}
	return r.row, nil
}

func (r *stubProfileRepo) Upsert(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	r.upserts++
	if r.upsertErr != nil {
		return nil, r.upsertErr
	}
	r.row = profile
	return profile, nil
}

func (r *stubProfileRepo) Delete(ctx context.Context, id string) error {
	r.row = nil
	return nil
}

type stubStorage struct {
	err error
}

func (s *stubStorage) Upload(ctx context.Context, container, key string, data []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "https://cdn.test/" + container + "/" + key, nil
}

type stubAuditRepo struct {
	records []*models.VerificationAudit
}

func (r *stubAuditRepo) Insert(ctx context.Context, audit *models.VerificationAudit) error {
	r.records = append(r.records, audit)
	return nil
}

func (r *stubAuditRepo) ListByUser(ctx context.Context, userID string) ([]models.VerificationAudit, error) {
	var out []models.VerificationAudit
	for _, a := range r.records {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

type stubStream struct{ frame []byte }

func (s *stubStream) CaptureFrame() ([]byte, error) { return s.frame, nil }
func (s *stubStream) Release()                      {}

type stubSource struct{}

func (stubSource) AcquireStream(ctx context.Context) (verification.Stream, error) {
	return &stubStream{frame: []byte("selfie")}, nil
}

func instantGate(store *stubStorage, matcher verification.FaceMatcher) *verification.Gate {
	g := verification.NewGate(store, &stubAuditRepo{}, matcher)
	g.Script = nil
	g.AnalyzeDwell = 0
	return g
}

func newTestService(repo *stubProfileRepo) *DefaultWizardService {
	return NewWizardService(repo, instantGate(&stubStorage{}, verification.StaticMatcher{Outcome: true}))
}

func adultBirthDate() string {
	return time.Now().AddDate(-25, 0, 0).Format(models.BirthDateLayout)
}

func fillBasics(t *testing.T, sv *DefaultWizardService, s *Session) {
	t.Helper()
	require.NoError(t, sv.SetField(s, "name", "Ana"))
	require.NoError(t, sv.SetField(s, "birthDate", adultBirthDate()))
	require.NoError(t, sv.SetField(s, "locationLabel", "São Paulo, SP"))
}

func TestOpenFreshAccountDefaults(t *testing.T) {
	sv := newTestService(&stubProfileRepo{})

	s, err := sv.Open(context.Background(), "u1", "ana@test.com")
	require.NoError(t, err)

	mode, step, banner := s.State()
	assert.Equal(t, ModeCreate, mode)
	assert.Equal(t, StepBasics, step)
	assert.Empty(t, banner)
	assert.False(t, s.WasExisting())
	assert.False(t, s.IsDirty())

	d := s.Snapshot()
	assert.Equal(t, models.GenderWoman, d.Gender)
	assert.Equal(t, []models.Gender{models.GenderMan}, d.Seeking)
	assert.Equal(t, "Não Denominacional", d.Denomination)
	assert.Equal(t, models.FrequencyOcasionalmente, d.ChurchFrequency)
	assert.Equal(t, models.VerificationNone, d.VerificationStatus)
	assert.Empty(t, d.Interests)
	assert.Empty(t, d.KeyValues)
}

func TestOpenConnectivityFailureStillOpens(t *testing.T) {
	repo := &stubProfileRepo{getErr: errors.New("dial tcp 10.0.0.1:27017: i/o timeout")}
	sv := newTestService(repo)

	s, err := sv.Open(context.Background(), "u1", "ana@test.com")
	require.NoError(t, err)

	mode, _, banner := s.State()
	assert.Equal(t, ModeCreate, mode)
	assert.Equal(t, MsgConnection, banner)

	got, ok := sv.Get("u1")
	require.True(t, ok)
	assert.Same(t, s, got)
}

func TestOpenExistingProfileEntersEditMode(t *testing.T) {
	repo := &stubProfileRepo{row: &models.Profile{
		ID:                 "u1",
		Name:               "Ana",
		BirthDate:          adultBirthDate(),
		Gender:             models.GenderWoman,
		Photos:             []string{"a.jpg", "b.jpg"},
		VerificationStatus: models.VerificationVerified,
	}}
	sv := newTestService(repo)

	s, err := sv.Open(context.Background(), "u1", "ana@test.com")
	require.NoError(t, err)

	mode, _, _ := s.State()
	assert.Equal(t, ModeEdit, mode)
	assert.True(t, s.WasExisting())
	assert.False(t, s.IsDirty())

	d := s.Snapshot()
	assert.Equal(t, "ana@test.com", d.Email)
	assert.Equal(t, "a.jpg", d.PhotoSlots[0])
	assert.Equal(t, "b.jpg", d.PhotoSlots[1])
	assert.Empty(t, d.PhotoSlots[2])
}

func TestAdvanceChecksBasicsInOrder(t *testing.T) {
	sv := newTestService(&stubProfileRepo{})
	s, _ := sv.Open(context.Background(), "u1", "ana@test.com")

	err := sv.Advance(s)
	require.Error(t, err)
	_, _, banner := s.State()
	assert.Equal(t, MsgNameRequired, banner)

	require.NoError(t, sv.SetField(s, "name", "Ana"))
	err = sv.Advance(s)
	require.Error(t, err)
	_, _, banner = s.State()
	assert.Equal(t, MsgBirthDateRequired, banner)

	minor := time.Now().AddDate(-17, 0, 0).Format(models.BirthDateLayout)
	require.NoError(t, sv.SetField(s, "birthDate", minor))
	err = sv.Advance(s)
	require.Error(t, err)
	_, _, banner = s.State()
	assert.Equal(t, MsgUnderage, banner)

	require.NoError(t, sv.SetField(s, "birthDate", adultBirthDate()))
	err = sv.Advance(s)
	require.Error(t, err)
	_, _, banner = s.State()
	assert.Equal(t, MsgLocationRequired, banner)

	require.NoError(t, sv.SetField(s, "locationLabel", "São Paulo, SP"))
	require.NoError(t, sv.Advance(s))
	_, step, banner := s.State()
	assert.Equal(t, StepFaith, step)
	assert.Empty(t, banner)
}

func TestExactEighteenthBirthdayPasses(t *testing.T) {
	sv := newTestService(&stubProfileRepo{})
	s, _ := sv.Open(context.Background(), "u1", "ana@test.com")

	require.NoError(t, sv.SetField(s, "name", "Ana"))
	eighteen := time.Now().AddDate(-18, 0, 0).Format(models.BirthDateLayout)
	require.NoError(t, sv.SetField(s, "birthDate", eighteen))
	require.NoError(t, sv.SetField(s, "locationLabel", "Recife, PE"))

	require.NoError(t, sv.Advance(s))
	_, step, _ := s.State()
	assert.Equal(t, StepFaith, step)
}

func TestMiddleStepsCarryNoValidation(t *testing.T) {
	sv := newTestService(&stubProfileRepo{})
	s, _ := sv.Open(context.Background(), "u1", "ana@test.com")
	fillBasics(t, sv, s)

	require.NoError(t, sv.Advance(s)) // basics -> faith
	require.NoError(t, sv.Advance(s)) // faith -> about
	require.NoError(t, sv.Advance(s)) // about -> photos
	require.NoError(t, sv.Advance(s)) // photos -> verification

	_, step, _ := s.State()
	assert.Equal(t, StepVerification, step)
}

func TestRetreatClampsAndClearsBanner(t *testing.T) {
	sv := newTestService(&stubProfileRepo{})
	s, _ := sv.Open(context.Background(), "u1", "ana@test.com")

	require.Error(t, sv.Advance(s)) // sets a banner
	sv.Retreat(s)
	_, step, banner := s.State()
	assert.Equal(t, StepBasics, step)
	assert.Empty(t, banner)
}

func TestSetFieldGenderRewritesSeeking(t *testing.T) {
	sv := newTestService(&stubProfileRepo{})
	s, _ := sv.Open(context.Background(), "u1", "ana@test.com")

	require.NoError(t, sv.SetField(s, "gender", string(models.GenderMan)))
	d := s.Snapshot()
	assert.Equal(t, models.GenderMan, d.Gender)
	assert.Equal(t, []models.Gender{models.GenderWoman}, d.Seeking)

	require.NoError(t, sv.SetField(s, "gender", string(models.GenderWoman)))
	d = s.Snapshot()
	assert.Equal(t, []models.Gender{models.GenderMan}, d.Seeking)

	err := sv.SetField(s, "gender", "OTHER")
	require.Error(t, err)
}

func TestSetFieldHeightKeepsDigitsOnly(t *testing.T) {
	sv := newTestService(&stubProfileRepo{})
	s, _ := sv.Open(context.Background(), "u1", "ana@test.com")

	require.NoError(t, sv.SetField(s, "height", "1,75 m"))
	assert.Equal(t, "175", s.Snapshot().Height)
}

func TestSetFieldUnknownNameRejected(t *testing.T) {
	sv := newTestService(&stubProfileRepo{})
	s, _ := sv.Open(context.Background(), "u1", "ana@test.com")

	err := sv.SetField(s, "shoeSize", "42")
	var fe *FlowError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, KindValidation, fe.Kind)
}

func TestToggleTagCapRejectsWithoutMutation(t *testing.T) {
	sv := newTestService(&stubProfileRepo{})
	s, _ := sv.Open(context.Background(), "u1", "ana@test.com")

	require.NoError(t, sv.ToggleTag(s, "interests", "Música"))
	require.NoError(t, sv.ToggleTag(s, "interests", "Leitura"))
	require.NoError(t, sv.ToggleTag(s, "interests", "Viagens"))

	err := sv.ToggleTag(s, "interests", "Culinária")
	require.Error(t, err)
	d := s.Snapshot()
	assert.Equal(t, []string{"Música", "Leitura", "Viagens"}, d.Interests)
	_, _, banner := s.State()
	assert.Equal(t, MsgTagLimit, banner)

	// Removing a selected tag is always allowed and preserves order.
	require.NoError(t, sv.ToggleTag(s, "interests", "Leitura"))
	assert.Equal(t, []string{"Música", "Viagens"}, s.Snapshot().Interests)
}

func TestToggleTagLanguagesUnbounded(t *testing.T) {
	sv := newTestService(&stubProfileRepo{})
	s, _ := sv.Open(context.Background(), "u1", "ana@test.com")

	for i := 0; i < 6; i++ {
		require.NoError(t, sv.ToggleTag(s, "languages", fmt.Sprintf("lang-%d", i)))
	}
	assert.Len(t, s.Snapshot().Languages, 6)
}

type stubLocator struct {
	point   models.GeoPoint
	err     error
	started chan struct{}
	release chan struct{}
}

func (l *stubLocator) Resolve(ctx context.Context) (models.GeoPoint, error) {
	if l.started != nil {
		close(l.started)
	}
	if l.release != nil {
		<-l.release
	}
	return l.point, l.err
}

func TestRequestLocationSuccessOverwritesLabel(t *testing.T) {
	sv := newTestService(&stubProfileRepo{})
	s, _ := sv.Open(context.Background(), "u1", "ana@test.com")
	require.NoError(t, sv.SetField(s, "locationLabel", "digitado pelo usuário"))

	loc := &stubLocator{point: models.GeoPoint{Latitude: -23.55, Longitude: -46.63}}
	require.NoError(t, sv.RequestLocation(context.Background(), s, loc))

	d := s.Snapshot()
	assert.Equal(t, MsgCurrentLocation, d.LocationLabel)
	require.NotNil(t, d.Coordinates)
	assert.Equal(t, -23.55, d.Coordinates.Latitude)
}

func TestRequestLocationDeniedVersusFailed(t *testing.T) {
	sv := newTestService(&stubProfileRepo{})
	s, _ := sv.Open(context.Background(), "u1", "ana@test.com")

	err := sv.RequestLocation(context.Background(), s, &stubLocator{err: ErrLocationDenied})
	require.Error(t, err)
	_, _, banner := s.State()
	assert.Equal(t, MsgLocationDenied, banner)

	err = sv.RequestLocation(context.Background(), s, &stubLocator{err: errors.New("gps unavailable")})
	require.Error(t, err)
	_, _, banner = s.State()
	assert.Equal(t, MsgLocationFailed, banner)
}

func TestRequestLocationSingleInFlight(t *testing.T) {
	sv := newTestService(&stubProfileRepo{})
	s, _ := sv.Open(context.Background(), "u1", "ana@test.com")

	loc := &stubLocator{
		point:   models.GeoPoint{Latitude: 1, Longitude: 2},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	done := make(chan error, 1)
	go func() { done <- sv.RequestLocation(context.Background(), s, loc) }()
	<-loc.started

	err := sv.RequestLocation(context.Background(), s, &stubLocator{})
	var fe *FlowError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, MsgLocationPending, fe.Message)

	close(loc.release)
	require.NoError(t, <-done)

	// The guard is lifted once the first lookup settles.
	require.NoError(t, sv.RequestLocation(context.Background(), s, &stubLocator{}))
}

func TestStartVerificationRequiresFirstPhoto(t *testing.T) {
	sv := newTestService(&stubProfileRepo{})
	s, _ := sv.Open(context.Background(), "u1", "ana@test.com")
	fillBasics(t, sv, s)
	for i := 0; i < 4; i++ {
		require.NoError(t, sv.Advance(s))
	}

	status, err := sv.StartVerification(context.Background(), s, stubSource{})
	require.Error(t, err)
	assert.Equal(t, models.VerificationNone, status)
	_, step, banner := s.State()
	assert.Equal(t, StepPhotos, step)
	assert.Equal(t, MsgVerifyNeedPhoto, banner)
}

func TestStartVerificationFoldsOutcomeIntoDraft(t *testing.T) {
	sv := newTestService(&stubProfileRepo{})
	s, _ := sv.Open(context.Background(), "u1", "ana@test.com")
	require.NoError(t, sv.ApplyPublicPhoto(s, 0, "https://cdn.test/ref.jpg"))

	status, err := sv.StartVerification(context.Background(), s, stubSource{})
	require.NoError(t, err)
	assert.Equal(t, models.VerificationVerified, status)
	d := s.Snapshot()
	assert.Equal(t, models.VerificationVerified, d.VerificationStatus)
	assert.True(t, d.CanFinalize())
}

func TestStartVerificationRejectionAllowsRetry(t *testing.T) {
	repo := &stubProfileRepo{}
	sv := NewWizardService(repo, instantGate(&stubStorage{}, verification.StaticMatcher{Outcome: false}))
	s, _ := sv.Open(context.Background(), "u1", "ana@test.com")
	require.NoError(t, sv.ApplyPublicPhoto(s, 0, "https://cdn.test/ref.jpg"))

	status, err := sv.StartVerification(context.Background(), s, stubSource{})
	require.NoError(t, err)
	assert.Equal(t, models.VerificationRejected, status)

	// Retry is just another run; an approving matcher flips the outcome.
	sv.Gate = instantGate(&stubStorage{}, verification.StaticMatcher{Outcome: true})
	status, err = sv.StartVerification(context.Background(), s, stubSource{})
	require.NoError(t, err)
	assert.Equal(t, models.VerificationVerified, status)
}

func TestSubmitCreateRequiresVerifiedStatus(t *testing.T) {
	repo := &stubProfileRepo{}
	sv := newTestService(repo)
	s, _ := sv.Open(context.Background(), "u1", "ana@test.com")
	fillBasics(t, sv, s)
	for i := 0; i < 4; i++ {
		require.NoError(t, sv.Advance(s))
	}

	_, err := sv.Submit(context.Background(), s)
	require.Error(t, err)
	_, _, banner := s.State()
	assert.Equal(t, MsgNotVerified, banner)
	assert.Zero(t, repo.upserts)
}

func TestSubmitCreateSuccessSwitchesToEdit(t *testing.T) {
	repo := &stubProfileRepo{}
	sv := newTestService(repo)
	s, _ := sv.Open(context.Background(), "u1", "ana@test.com")
	fillBasics(t, sv, s)
	require.NoError(t, sv.ApplyPublicPhoto(s, 0, "ref.jpg"))
	for i := 0; i < 4; i++ {
		require.NoError(t, sv.Advance(s))
	}
	_, err := sv.StartVerification(context.Background(), s, stubSource{})
	require.NoError(t, err)

	res, err := sv.Submit(context.Background(), s)
	require.NoError(t, err)
	assert.False(t, res.WasEditing)
	assert.Equal(t, "Ana", res.Profile.Name)

	mode, _, _ := s.State()
	assert.Equal(t, ModeEdit, mode)
	assert.True(t, s.WasExisting())
	assert.False(t, s.IsDirty())
}

func TestSubmitEditRequiresDirtyDraft(t *testing.T) {
	repo := &stubProfileRepo{row: &models.Profile{
		ID:                 "u1",
		Name:               "Ana",
		VerificationStatus: models.VerificationVerified,
	}}
	sv := newTestService(repo)
	s, _ := sv.Open(context.Background(), "u1", "ana@test.com")

	_, err := sv.Submit(context.Background(), s)
	var fe *FlowError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, MsgNotDirty, fe.Message)

	require.NoError(t, sv.SetField(s, "bio", "Oi!"))
	assert.True(t, s.IsDirty())

	res, err := sv.Submit(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, res.WasEditing)
	// The snapshot is recaptured so a second pass starts clean.
	assert.False(t, s.IsDirty())
}

func TestSubmitFailureKeepsSessionResubmittable(t *testing.T) {
	repo := &stubProfileRepo{row: &models.Profile{
		ID:                 "u1",
		Name:               "Ana",
		VerificationStatus: models.VerificationVerified,
	}}
	sv := newTestService(repo)
	s, _ := sv.Open(context.Background(), "u1", "ana@test.com")
	require.NoError(t, sv.SetField(s, "bio", "Oi!"))

	repo.upsertErr = profileRepo.ErrProfileConflict
	_, err := sv.Submit(context.Background(), s)
	var fe *FlowError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, KindConflict, fe.Kind)
	_, _, banner := s.State()
	assert.Equal(t, MsgConflict, banner)

	repo.upsertErr = nil
	_, err = sv.Submit(context.Background(), s)
	require.NoError(t, err)
	_, _, banner = s.State()
	assert.Empty(t, banner)
}

func TestEditSessionOnSparseRowStartsClean(t *testing.T) {
	// A stored row with no list fields at all must still load into a clean
	// session: the defaulted empty lists and the snapshot's copies have to
	// compare structurally equal.
	repo := &stubProfileRepo{row: &models.Profile{ID: "u1", Name: "Ana"}}
	sv := newTestService(repo)

	s, err := sv.Open(context.Background(), "u1", "ana@test.com")
	require.NoError(t, err)
	assert.True(t, s.WasExisting())
	assert.False(t, s.IsDirty(), "session should start clean")
}

func TestDirtyRoundTrip(t *testing.T) {
	repo := &stubProfileRepo{row: &models.Profile{ID: "u1", Name: "Ana"}}
	sv := newTestService(repo)
	s, _ := sv.Open(context.Background(), "u1", "ana@test.com")
	require.False(t, s.IsDirty())

	require.NoError(t, sv.SetField(s, "bio", "Oi!"))
	assert.True(t, s.IsDirty())

	// Reverting the mutation restores structural equality with the snapshot.
	require.NoError(t, sv.SetField(s, "bio", ""))
	assert.False(t, s.IsDirty())
}

func TestClassifyUploadErrorDistinguishesConfiguration(t *testing.T) {
	fe := ClassifyUploadError(fmt.Errorf("%w: profile-photos", storage.ErrContainerMissing))
	assert.Equal(t, KindConfiguration, fe.Kind)
	assert.Equal(t, MsgStorageMissing, fe.Message)

	fe = ClassifyUploadError(errors.New("i/o timeout"))
	assert.Equal(t, KindUnknown, fe.Kind)
	assert.Equal(t, MsgUploadFailed, fe.Message)
}

func TestClassifySubmitErrorBuckets(t *testing.T) {
	cases := []struct {
		err  error
		kind ErrorKind
		msg  string
	}{
		{profileRepo.ErrProfileConflict, KindConflict, MsgConflict},
		{errors.New("operation not allowed by policy"), KindPermission, MsgPermission},
		{errors.New("server selection error: context deadline exceeded"), KindConnectivity, MsgConnection},
		{errors.New("bson field too large"), KindUnknown, MsgSubmitFailed + " (bson field too large)"},
	}
	for _, tc := range cases {
		fe := ClassifySubmitError(tc.err)
		assert.Equal(t, tc.kind, fe.Kind, tc.err.Error())
		assert.Equal(t, tc.msg, fe.Message, tc.err.Error())
	}
}

func TestCloseDiscardsSession(t *testing.T) {
	sv := newTestService(&stubProfileRepo{})
	_, err := sv.Open(context.Background(), "u1", "ana@test.com")
	require.NoError(t, err)

	sv.Close("u1")
	_, ok := sv.Get("u1")
	assert.False(t, ok)
}
