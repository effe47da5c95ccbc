package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	ts := time.Date(2025, 8, 29, 10, 30, 0, 123456789, time.UTC)
	id := "6a1f2c0e-9b1d-4c5e-8f3a-2d4b6c8e0a1b"

	token := EncodeToken(ts, id)
	require.NotEmpty(t, token)

	gotTS, gotID, err := DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, ts.Equal(gotTS), "timestamp should round-trip exactly")
	assert.Equal(t, id, gotID)
}

func TestDecodeToken_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"not base64", "!!!not-base64!!!"},
		{"missing separator", "bm9zZXBhcmF0b3I="},              // "noseparator"
		{"bad timestamp", "bm90YXRpbWV8c29tZS1pZA=="},          // "notatime|some-id"
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeToken(tt.token)
			assert.Error(t, err)
		})
	}
}
