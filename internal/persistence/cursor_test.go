package persistence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/carterlwilson/IronLogicV3-sub001/internal/domain"
)

func TestCursorRoundTrip(t *testing.T) {
	cursor := &domain.Cursor{
		CreatedAt: time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC),
		ID:        "user-42",
	}

	token := EncodeCursor(cursor)
	require.NotEmpty(t, token)

	decoded, err := DecodeCursor(token)
	require.NoError(t, err)
	require.True(t, cursor.CreatedAt.Equal(decoded.CreatedAt))
	require.Equal(t, cursor.ID, decoded.ID)
}

func TestCursorEmptyToken(t *testing.T) {
	decoded, err := DecodeCursor("")
	require.NoError(t, err)
	require.Nil(t, decoded)
	require.Equal(t, "", EncodeCursor(nil))
}

func TestCursorRejectsGarbage(t *testing.T) {
	_, err := DecodeCursor("not-base64!!!")
	require.Error(t, err)

	_, err = DecodeCursor("bm8tc2VwYXJhdG9y") // "no-separator"
	require.Error(t, err)
}
