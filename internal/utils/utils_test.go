package utils

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tok, err := GenerateToken("secret", TokenClaims{UserID: 42, Email: "a@b.co", Role: "admin"}, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken("secret", tok)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "a@b.co", claims.Email)
}

func TestParseToken_WrongSecret(t *testing.T) {
	tok, err := GenerateToken("secret", TokenClaims{UserID: 1, Role: "user"}, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("other", tok)
	assert.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	tok, err := GenerateToken("secret", TokenClaims{UserID: 1, Role: "user"}, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken("secret", tok)
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("secret1", hash))
	assert.False(t, CheckPasswordHash("secret2", hash))
}

func TestParseDataURL(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("png-bytes"))

	d, err := ParseDataURL("data:image/png;base64," + payload)
	require.NoError(t, err)
	assert.Equal(t, "image/png", d.MimeType)
	assert.Equal(t, "png", d.Ext())
	assert.True(t, d.IsImage())
	assert.Equal(t, []byte("png-bytes"), d.Data)

	d, err = ParseDataURL("data:application/pdf;base64," + payload)
	require.NoError(t, err)
	assert.Equal(t, "pdf", d.Ext())
	assert.False(t, d.IsImage())

	for _, bad := range []string{"", "image/png;base64,xx", "data:image/png;base64,%%%", "data:image/png,plain"} {
		_, err := ParseDataURL(bad)
		assert.ErrorIs(t, err, ErrInvalidDataURL, bad)
	}
}
