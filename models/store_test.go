package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsCurrentlyOpenAt(t *testing.T) {
	store := &Store{
		Hours: WeekHours{
			"monday":  {Open: "07:00", Close: "14:00"},
			"tuesday": {Closed: true},
			// wednesday missing entirely
		},
	}

	// 2026-08-24 is a Monday.
	monday := func(hhmm string) time.Time {
		parsed, err := time.Parse("2006-01-02 15:04", "2026-08-24 "+hhmm)
		if err != nil {
			t.Fatal(err)
		}
		return parsed
	}

	assert.True(t, store.IsCurrentlyOpenAt(monday("07:00")), "Opening minute counts as open")
	assert.True(t, store.IsCurrentlyOpenAt(monday("12:30")))
	assert.True(t, store.IsCurrentlyOpenAt(monday("14:00")), "Closing minute counts as open")
	assert.False(t, store.IsCurrentlyOpenAt(monday("06:59")))
	assert.False(t, store.IsCurrentlyOpenAt(monday("14:01")))

	tuesday := monday("10:00").AddDate(0, 0, 1)
	assert.False(t, store.IsCurrentlyOpenAt(tuesday), "Closed day is closed regardless of time")

	wednesday := monday("10:00").AddDate(0, 0, 2)
	assert.False(t, store.IsCurrentlyOpenAt(wednesday), "Missing day means closed")
}

func TestIsCurrentlyOpenAtWithEmptyHours(t *testing.T) {
	store := &Store{}
	assert.False(t, store.IsCurrentlyOpenAt(time.Now()))

	store.Hours = WeekHours{"monday": {Open: "", Close: ""}}
	assert.False(t, store.IsCurrentlyOpenAt(time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)))
}

func TestIsValidStoreArea(t *testing.T) {
	assert.True(t, IsValidStoreArea("Sakhrale"))
	assert.True(t, IsValidStoreArea("Walwa"))
	assert.False(t, IsValidStoreArea("Mumbai"))
	assert.False(t, IsValidStoreArea("sakhrale"), "Areas are case sensitive")
}
