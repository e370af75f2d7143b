package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoticeLocalize(t *testing.T) {
	c := NewNoticeCatalog("sv")

	tests := []struct {
		name   string
		accept string
		want   string
	}{
		{"no header falls back to default", "", "Åtkomst nekad. Du måste vara inloggad för att se favoriter."},
		{"swedish", "sv-SE,sv;q=0.9", "Åtkomst nekad. Du måste vara inloggad för att se favoriter."},
		{"english", "en-US,en;q=0.8", "Access denied. You must be signed in to see favorites."},
		{"unsupported falls back", "ja", "Åtkomst nekad. Du måste vara inloggad för att se favoriter."},
		{"garbage header", ";;;", "Åtkomst nekad. Du måste vara inloggad för att se favoriter."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := c.Localize(NoticeAuthRequired, tt.accept)
			assert.Equal(t, NoticeAuthRequired, n.Code)
			assert.Equal(t, "warning", n.Level)
			assert.Equal(t, tt.want, n.Message)
		})
	}
}

func TestNoticeEnglishDefault(t *testing.T) {
	c := NewNoticeCatalog("en")
	n := c.Localize(NoticeSignedOut, "")
	assert.Equal(t, "You are now signed out.", n.Message)
	assert.Equal(t, "info", n.Level)
}

func TestNoticeUnknownCode(t *testing.T) {
	n := NewNoticeCatalog("sv").Localize(NoticeCode("mystery"), "")
	assert.Equal(t, "mystery", n.Message)
	assert.Equal(t, "info", n.Level)
}

func TestNoticeKnown(t *testing.T) {
	c := NewNoticeCatalog("sv")
	assert.True(t, c.Known(NoticeAuthRequired))
	assert.True(t, c.Known(NoticeSignedOut))
	assert.False(t, c.Known(NoticeCode("Your_account_is_suspended")))
	assert.False(t, c.Known(""))
}
