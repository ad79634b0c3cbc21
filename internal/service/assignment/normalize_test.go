package assignment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"already canonical", "2026-01-15", "2026-01-15"},
		{"rfc3339 timestamp", "2026-01-15T10:30:00Z", "2026-01-15"},
		{"datetime", "2026-01-15 10:30:00", "2026-01-15"},
		{"slash date", "15/01/2026", "2026-01-15"},
		{"dash date", "15-01-2026", "2026-01-15"},
		{"empty", "", ""},
		{"unparseable passes through", "next tuesday", "next tuesday"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeDate(tc.in))
		})
	}
}

func TestNormalizeTime(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"already canonical", "15:04:05", "15:04:05"},
		{"hours and minutes", "15:04", "15:04:00"},
		{"twelve hour clock", "3:04 PM", "15:04:00"},
		{"twelve hour no space", "3:04PM", "15:04:00"},
		{"empty", "", ""},
		{"unparseable passes through", "afternoon", "afternoon"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeTime(tc.in))
		})
	}
}
