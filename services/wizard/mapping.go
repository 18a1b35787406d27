package wizard

import (
	"reflect"
	"time"

	"covenant/models"
)

// DraftToRow maps the working draft onto the persisted representation. Empty
// photo slots are filtered out, relative order of filled slots is preserved,
// age is recomputed and the update timestamp is stamped.
func DraftToRow(d *models.ProfileDraft, now time.Time) *models.Profile {
	photos := make([]string, 0, models.PhotoSlotCount)
	for _, p := range d.PhotoSlots {
		if p != "" {
			photos = append(photos, p)
		}
	}

	age := d.AgeAt(now)
	if age < 0 {
		age = 0
	}

	return &models.Profile{
		ID:                 d.ID,
		Name:               d.Name,
		BirthDate:          d.BirthDate,
		Age:                age,
		Gender:             d.Gender,
		Seeking:            append([]models.Gender(nil), d.Seeking...),
		LocationLabel:      d.LocationLabel,
		Coordinates:        cloneGeoPoint(d.Coordinates),
		Photos:             photos,
		PrivatePhoto:       d.PrivatePhoto,
		Bio:                d.Bio,
		Denomination:       d.Denomination,
		ChurchName:         d.ChurchName,
		ChurchFrequency:    d.ChurchFrequency,
		FavoriteVerse:      d.FavoriteVerse,
		FavoriteSong:       d.FavoriteSong,
		FavoriteBook:       d.FavoriteBook,
		Height:             d.Height,
		Interests:          append([]string(nil), d.Interests...),
		KeyValues:          append([]string(nil), d.KeyValues...),
		Languages:          append([]string(nil), d.Languages...),
		VerificationStatus: d.VerificationStatus,
		UpdatedAt:          now,
	}
}

// RowToDraft maps a stored row back into a working draft. Photos are padded
// back to the fixed slot count, absent list fields become empty sequences and
// the account email is re-attached (the store does not persist it).
func RowToDraft(row *models.Profile, email string) *models.ProfileDraft {
	d := &models.ProfileDraft{
		ID:                 row.ID,
		Email:              email,
		Name:               row.Name,
		BirthDate:          row.BirthDate,
		Gender:             row.Gender,
		Seeking:            append([]models.Gender(nil), row.Seeking...),
		LocationLabel:      row.LocationLabel,
		Coordinates:        cloneGeoPoint(row.Coordinates),
		PrivatePhoto:       row.PrivatePhoto,
		Bio:                row.Bio,
		Denomination:       row.Denomination,
		ChurchName:         row.ChurchName,
		ChurchFrequency:    row.ChurchFrequency,
		FavoriteVerse:      row.FavoriteVerse,
		FavoriteSong:       row.FavoriteSong,
		FavoriteBook:       row.FavoriteBook,
		Height:             row.Height,
		Interests:          emptyIfNil(row.Interests),
		KeyValues:          emptyIfNil(row.KeyValues),
		Languages:          emptyIfNil(row.Languages),
		VerificationStatus: row.VerificationStatus,
	}

	for i := 0; i < models.PhotoSlotCount && i < len(row.Photos); i++ {
		d.PhotoSlots[i] = row.Photos[i]
	}

	if d.Gender == "" {
		d.Gender = models.GenderWoman
	}
	if len(d.Seeking) == 0 {
		d.Seeking = []models.Gender{d.Gender.Seeking()}
	}
	if d.Denomination == "" {
		d.Denomination = models.DefaultDenomination
	}
	if d.ChurchFrequency == "" {
		d.ChurchFrequency = models.FrequencyOcasionalmente
	}
	if d.VerificationStatus == "" {
		d.VerificationStatus = models.VerificationNone
	}
	return d
}

func cloneGeoPoint(p *models.GeoPoint) *models.GeoPoint {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func emptyIfNil(s []string) []string {
	return append(make([]string, 0, len(s)), s...)
}

// draftsEqual is the structural comparison behind dirty checking.
func draftsEqual(a, b *models.ProfileDraft) bool {
	return reflect.DeepEqual(a, b)
}
