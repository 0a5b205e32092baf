package repository

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCursorRoundTrip(t *testing.T) {
	createdAt := time.Date(2026, 3, 14, 9, 26, 53, 589793238, time.UTC)
	id := uuid.New()

	cursor := EncodeCursor(createdAt, id)
	gotTime, gotID, err := DecodeCursor(cursor)

	assert.NoError(t, err)
	assert.True(t, gotTime.Equal(createdAt))
	assert.Equal(t, id, gotID)
}

func TestDecodeCursor_Malformed(t *testing.T) {
	cases := []string{
		"",
		"not base64!!!",
		base64.RawURLEncoding.EncodeToString([]byte("no-separator")),
		base64.RawURLEncoding.EncodeToString([]byte("not-a-time|" + uuid.New().String())),
		base64.RawURLEncoding.EncodeToString([]byte(time.Now().UTC().Format(time.RFC3339Nano) + "|not-a-uuid")),
	}
	for _, cursor := range cases {
		_, _, err := DecodeCursor(cursor)
		assert.Error(t, err, "cursor %q should not decode", cursor)
	}
}

func TestGenerateSlug(t *testing.T) {
	assert.Equal(t, "classic-cotton-t-shirt", generateSlug("Classic Cotton T-Shirt"))
	assert.Equal(t, "caf-premium-100", generateSlug("Café Premium 100%"))
	assert.Equal(t, "", generateSlug("!!!"))
}

func TestUniqueSlug(t *testing.T) {
	id := uuid.MustParse("a1b2c3d4-0000-0000-0000-000000000000")
	assert.Equal(t, "classic-tee-a1b2c3d4", uniqueSlug("Classic Tee", id))
}

func TestGenerateListCacheKey_Stable(t *testing.T) {
	type params struct {
		Page  int
		Limit int
	}
	first := generateListCacheKey("products:list", params{Page: 1, Limit: 20})
	second := generateListCacheKey("products:list", params{Page: 1, Limit: 20})
	other := generateListCacheKey("products:list", params{Page: 2, Limit: 20})

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
}
