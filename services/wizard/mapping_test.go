package wizard

import (
	"testing"
	"time"

	"covenant/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftToRowFiltersEmptySlotsInOrder(t *testing.T) {
	d := models.NewProfileDraft("u1", "ana@test.com")
	d.PhotoSlots[1] = "b.jpg"
	d.PhotoSlots[3] = "d.jpg"

	row := DraftToRow(d, time.Now())
	assert.Equal(t, []string{"b.jpg", "d.jpg"}, row.Photos)
}

func TestDraftToRowStampsAgeAndUpdatedAt(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	d := models.NewProfileDraft("u1", "ana@test.com")
	d.BirthDate = "2000-06-02" // birthday tomorrow, still 25

	row := DraftToRow(d, now)
	assert.Equal(t, 25, row.Age)
	assert.Equal(t, now, row.UpdatedAt)

	// An absent birth date never persists a negative age.
	d.BirthDate = ""
	row = DraftToRow(d, now)
	assert.Zero(t, row.Age)
}

func TestRowToDraftPadsSlotsAndReattachesEmail(t *testing.T) {
	row := &models.Profile{
		ID:     "u1",
		Name:   "Ana",
		Photos: []string{"a.jpg", "b.jpg", "c.jpg"},
	}

	d := RowToDraft(row, "ana@test.com")
	assert.Equal(t, "ana@test.com", d.Email)
	assert.Equal(t, "a.jpg", d.PhotoSlots[0])
	assert.Equal(t, "c.jpg", d.PhotoSlots[2])
	assert.Empty(t, d.PhotoSlots[3])
	assert.Empty(t, d.PhotoSlots[4])
}

func TestRowToDraftAppliesDefaultsToSparseRows(t *testing.T) {
	d := RowToDraft(&models.Profile{ID: "u1"}, "ana@test.com")

	assert.Equal(t, models.GenderWoman, d.Gender)
	assert.Equal(t, []models.Gender{models.GenderMan}, d.Seeking)
	assert.Equal(t, models.DefaultDenomination, d.Denomination)
	assert.Equal(t, models.FrequencyOcasionalmente, d.ChurchFrequency)
	assert.Equal(t, models.VerificationNone, d.VerificationStatus)
	assert.NotNil(t, d.Interests)
	assert.NotNil(t, d.KeyValues)
	assert.NotNil(t, d.Languages)
}

func TestRoundTripPreservesDirtyEquality(t *testing.T) {
	d := models.NewProfileDraft("u1", "ana@test.com")
	d.Name = "Ana"
	d.BirthDate = "2000-01-15"
	d.PhotoSlots[0] = "a.jpg"
	d.Interests = []string{"Música"}
	d.Coordinates = &models.GeoPoint{Latitude: -23.55, Longitude: -46.63}
	d.VerificationStatus = models.VerificationVerified

	now := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	back := RowToDraft(DraftToRow(d, now), "ana@test.com")
	require.True(t, draftsEqual(d, back), "round trip should be structurally identical")

	back.Bio = "changed"
	assert.False(t, draftsEqual(d, back))
}

func TestCloneIsDeep(t *testing.T) {
	d := models.NewProfileDraft("u1", "ana@test.com")
	d.Interests = []string{"Música"}
	d.Coordinates = &models.GeoPoint{Latitude: 1, Longitude: 2}

	c := d.Clone()
	c.Interests[0] = "Viagens"
	c.Coordinates.Latitude = 9

	assert.Equal(t, "Música", d.Interests[0])
	assert.Equal(t, 1.0, d.Coordinates.Latitude)
}
