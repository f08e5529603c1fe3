//go:build unit

package queries

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAfterCursorRoundTrip(t *testing.T) {
	id := uuid.New()
	created := time.Date(2026, 3, 1, 10, 30, 45, 123456000, time.UTC)

	encoded := EncodeAfterCursor(created, id)
	gotTime, gotID, err := DecodeAfterCursor(encoded)
	require.NoError(t, err)

	assert.Equal(t, id, gotID)
	assert.True(t, gotTime.Equal(created), "want %s, got %s", created, gotTime)
}

func TestDecodeAfterCursor(t *testing.T) {
	tests := []struct {
		name   string
		cursor string
	}{
		{name: "empty cursor", cursor: ""},
		{name: "not base64", cursor: "!!!not-base64!!!"},
		{name: "missing version prefix", cursor: base64.URLEncoding.EncodeToString([]byte("123-" + uuid.NewString()))},
		{name: "unknown version", cursor: base64.URLEncoding.EncodeToString([]byte("v9:123-" + uuid.NewString()))},
		{name: "missing separator", cursor: base64.URLEncoding.EncodeToString([]byte("v1:123456"))},
		{name: "bad timestamp", cursor: base64.URLEncoding.EncodeToString([]byte("v1:abc-" + uuid.NewString()))},
		{name: "bad uuid", cursor: base64.URLEncoding.EncodeToString([]byte("v1:123-not-a-uuid"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeAfterCursor(tt.cursor)
			assert.Error(t, err)
		})
	}
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, int32(DefaultListLimit), clampLimit(0))
	assert.Equal(t, int32(DefaultListLimit), clampLimit(-5))
	assert.Equal(t, int32(1), clampLimit(1))
	assert.Equal(t, int32(MaxListLimit), clampLimit(MaxListLimit+1))
}
