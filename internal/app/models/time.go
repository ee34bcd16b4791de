package models

import (
	"strings"
	"time"
)

type TimeModel struct {
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

func (m *TimeModel) SetCreatedAtUpdatedAt() {
	currentTime := time.Now()
	m.CreatedAt = currentTime
	m.UpdatedAt = currentTime
}

func (m *TimeModel) SetUpdatedAt() {
	m.UpdatedAt = time.Now()
}

// Weekdays lists the weekday names in the order a provider week is presented.
var Weekdays = []string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

// WeekdayName returns the weekday name of a calendar date, e.g. "Monday".
func WeekdayName(date time.Time) string {
	return date.Weekday().String()
}

// NormalizeWeekday accepts a weekday name in any letter case and returns its
// canonical form.
func NormalizeWeekday(name string) (string, bool) {
	trimmed := strings.TrimSpace(name)
	for _, weekday := range Weekdays {
		if strings.EqualFold(weekday, trimmed) {
			return weekday, true
		}
	}
	return "", false
}

// DateOnly truncates t to midnight in its own location.
func DateOnly(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
