package models

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCloneIsStructurallyEqual(t *testing.T) {
	// Empty lists must stay empty (not become nil) so a clone compares equal
	// to its original under reflect.DeepEqual.
	d := NewProfileDraft("u1", "ana@test.com")
	assert.True(t, reflect.DeepEqual(d, d.Clone()))

	d.Interests = []string{"Música"}
	d.Languages = nil
	assert.True(t, reflect.DeepEqual(d, d.Clone()))
	assert.Nil(t, d.Clone().Languages)
	assert.NotNil(t, d.Clone().KeyValues)
}

func TestAgeAtFloorsPartialYears(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	d := &ProfileDraft{BirthDate: "2000-03-11"}
	assert.Equal(t, 25, d.AgeAt(now), "day before the birthday")

	d.BirthDate = "2000-03-10"
	assert.Equal(t, 26, d.AgeAt(now), "on the birthday")

	d.BirthDate = ""
	assert.Equal(t, -1, d.AgeAt(now))

	d.BirthDate = "10/03/2000"
	assert.Equal(t, -1, d.AgeAt(now), "unparseable input")
}

func TestSeekingIsOppositeGender(t *testing.T) {
	assert.Equal(t, GenderWoman, GenderMan.Seeking())
	assert.Equal(t, GenderMan, GenderWoman.Seeking())
}

func TestCanFinalizeOnlyWhenVerified(t *testing.T) {
	d := &ProfileDraft{}
	for _, st := range []VerificationStatus{VerificationNone, VerificationPending, VerificationRejected} {
		d.VerificationStatus = st
		assert.False(t, d.CanFinalize(), string(st))
	}
	d.VerificationStatus = VerificationVerified
	assert.True(t, d.CanFinalize())
}
