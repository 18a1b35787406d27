package models

import (
	"time"
)

// Gender of the profile owner.
type Gender string

const (
	GenderMan   Gender = "MAN"
	GenderWoman Gender = "WOMAN"
)

// Seeking returns the single gender a profile with this gender is matched
// against. The pairing is fixed product behavior and not user-editable.
func (g Gender) Seeking() Gender {
	if g == GenderMan {
		return GenderWoman
	}
	return GenderMan
}

// VerificationStatus of a profile's selfie check.
type VerificationStatus string

const (
	VerificationNone     VerificationStatus = "NOT_VERIFIED"
	VerificationPending  VerificationStatus = "PENDING"
	VerificationVerified VerificationStatus = "VERIFIED"
	VerificationRejected VerificationStatus = "REJECTED"
)

// ChurchFrequency describes how often the user attends church.
type ChurchFrequency string

const (
	FrequencySemanalmente   ChurchFrequency = "SEMANALMENTE"
	FrequencyOcasionalmente ChurchFrequency = "OCASIONALMENTE"
	FrequencyRaramente      ChurchFrequency = "RARAMENTE"
)

// DefaultDenomination is applied to every new draft until the user picks one.
const DefaultDenomination = "Não Denominacional"

// PhotoSlotCount is the fixed number of public photo positions on a profile.
const PhotoSlotCount = 5

// Tag list caps.
const (
	MaxInterests = 3
	MaxKeyValues = 3
)

// BirthDateLayout is the wire format for dates of birth.
const BirthDateLayout = "2006-01-02"

// GeoPoint is a coordinate pair captured from a device location lookup.
type GeoPoint struct {
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
}

// Profile is the persisted profile row. Photos holds only filled slots; empty
// slots are filtered out on the way in and padded back on the way out. The
// account email is never persisted here, it lives on the user record.
type Profile struct {
	ID                 string             `bson:"id" json:"id"`
	Name               string             `bson:"name" json:"name"`
	BirthDate          string             `bson:"birthDate" json:"birthDate"`
	Age                int                `bson:"age" json:"age"`
	Gender             Gender             `bson:"gender" json:"gender"`
	Seeking            []Gender           `bson:"seeking" json:"seeking"`
	LocationLabel      string             `bson:"locationLabel" json:"locationLabel"`
	Coordinates        *GeoPoint          `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
	Photos             []string           `bson:"photos" json:"photos"`
	PrivatePhoto       string             `bson:"privatePhoto,omitempty" json:"privatePhoto,omitempty"`
	Bio                string             `bson:"bio,omitempty" json:"bio,omitempty"`
	Denomination       string             `bson:"denomination" json:"denomination"`
	ChurchName         string             `bson:"churchName,omitempty" json:"churchName,omitempty"`
	ChurchFrequency    ChurchFrequency    `bson:"churchFrequency" json:"churchFrequency"`
	FavoriteVerse      string             `bson:"favoriteVerse,omitempty" json:"favoriteVerse,omitempty"`
	FavoriteSong       string             `bson:"favoriteSong,omitempty" json:"favoriteSong,omitempty"`
	FavoriteBook       string             `bson:"favoriteBook,omitempty" json:"favoriteBook,omitempty"`
	Height             string             `bson:"height,omitempty" json:"height,omitempty"`
	Interests          []string           `bson:"interests" json:"interests"`
	KeyValues          []string           `bson:"keyValues" json:"keyValues"`
	Languages          []string           `bson:"languages" json:"languages"`
	VerificationStatus VerificationStatus `bson:"verificationStatus" json:"verificationStatus"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ProfileDraft is the in-memory working copy of a profile during creation or
// editing. PhotoSlots always has exactly PhotoSlotCount positions; the empty
// string is the explicit empty marker.
type ProfileDraft struct {
	ID                 string                `json:"id"`
	Email              string                `json:"email"`
	Name               string                `json:"name"`
	BirthDate          string                `json:"birthDate"`
	Gender             Gender                `json:"gender"`
	Seeking            []Gender              `json:"seeking"`
	LocationLabel      string                `json:"locationLabel"`
	Coordinates        *GeoPoint             `json:"coordinates,omitempty"`
	PhotoSlots         [PhotoSlotCount]string `json:"photoSlots"`
	PrivatePhoto       string                `json:"privatePhoto,omitempty"`
	Bio                string                `json:"bio,omitempty"`
	Denomination       string                `json:"denomination"`
	ChurchName         string                `json:"churchName,omitempty"`
	ChurchFrequency    ChurchFrequency       `json:"churchFrequency"`
	FavoriteVerse      string                `json:"favoriteVerse,omitempty"`
	FavoriteSong       string                `json:"favoriteSong,omitempty"`
	FavoriteBook       string                `json:"favoriteBook,omitempty"`
	Height             string                `json:"height,omitempty"`
	Interests          []string              `json:"interests"`
	KeyValues          []string              `json:"keyValues"`
	Languages          []string              `json:"languages"`
	VerificationStatus VerificationStatus    `json:"verificationStatus"`
}

// NewProfileDraft returns a blank draft with product defaults applied.
func NewProfileDraft(id, email string) *ProfileDraft {
	return &ProfileDraft{
		ID:                 id,
		Email:              email,
		Gender:             GenderWoman,
		Seeking:            []Gender{GenderMan},
		Denomination:       DefaultDenomination,
		ChurchFrequency:    FrequencyOcasionalmente,
		Interests:          []string{},
		KeyValues:          []string{},
		Languages:          []string{},
		VerificationStatus: VerificationNone,
	}
}

// Clone returns a deep copy of the draft, used for dirty-check snapshots.
// Slice copies preserve nil-vs-empty so the clone stays structurally equal to
// the original under reflect.DeepEqual.
func (d *ProfileDraft) Clone() *ProfileDraft {
	c := *d
	c.Seeking = cloneSlice(d.Seeking)
	c.Interests = cloneSlice(d.Interests)
	c.KeyValues = cloneSlice(d.KeyValues)
	c.Languages = cloneSlice(d.Languages)
	if d.Coordinates != nil {
		p := *d.Coordinates
		c.Coordinates = &p
	}
	return &c
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}

// AgeAt computes the floor of whole years between the draft's birth date and
// the given instant. Returns -1 when the birth date is absent or malformed.
func (d *ProfileDraft) AgeAt(now time.Time) int {
	if d.BirthDate == "" {
		return -1
	}
	dob, err := time.Parse(BirthDateLayout, d.BirthDate)
	if err != nil {
		return -1
	}
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}

// CanFinalize reports whether the draft passed selfie verification, which
// gates final submission in creation mode.
func (d *ProfileDraft) CanFinalize() bool {
	return d.VerificationStatus == VerificationVerified
}
