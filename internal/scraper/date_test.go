package scraper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParsePostedDateRelative(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		raw  string
		want string
	}{
		{"3 days ago", "2025-06-12"},
		{"Posted 2 weeks ago", "2025-06-01"},
		{"Reposted 1 month ago", "2025-05-15"},
		{"30 minutes ago", "2025-06-15"},
		{"5 hours ago", "2025-06-15"},
		{"1 year ago", "2024-06-15"},
		{"2+ weeks ago", "2025-06-01"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, parsePostedDateAt(tt.raw, now))
		})
	}
}

func TestParsePostedDateAbsolute(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-05-01", parsePostedDateAt("2025-05-01", now))
	assert.Equal(t, "2025-05-01", parsePostedDateAt("01/05/2025", now))
	assert.Equal(t, "2025-05-01", parsePostedDateAt("May 1, 2025", now))
}

func TestParsePostedDateRejectsNoise(t *testing.T) {
	now := time.Now()
	assert.Empty(t, parsePostedDateAt("", now))
	assert.Empty(t, parsePostedDateAt("Actively recruiting", now))
	assert.Empty(t, parsePostedDateAt("·", now))
}
