package paging

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 589793000, time.UTC)
	id := uuid.New()

	cur := EncodeCursor(at, id)
	gotAt, gotID, err := DecodeCursor(cur)
	require.NoError(t, err)

	assert.True(t, at.Equal(gotAt))
	assert.Equal(t, id, gotID)
}

func TestDecodeCursor_Bad(t *testing.T) {
	cases := []string{
		"",
		"not base64 ===",
		"bm8gcGlwZQ",          // decodes, but no separator
		"MTIzfG5vdC1hLXV1aWQ", // "123|not-a-uuid"
		base64.RawURLEncoding.EncodeToString([]byte("12abc|" + uuid.NewString())),
		base64.RawURLEncoding.EncodeToString([]byte("|" + uuid.NewString())),
	}
	for _, c := range cases {
		_, _, err := DecodeCursor(c)
		assert.ErrorIs(t, err, ErrBadCursor, "cursor %q", c)
	}
}
