package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_JSON(t *testing.T) {
	d := NewDate(time.Date(2024, 2, 15, 23, 59, 0, 0, time.UTC))
	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-02-15"`, string(b))

	var back Date
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, back.Equal(d.Time))

	assert.Error(t, json.Unmarshal([]byte(`"15/02/2024"`), &back))
}

func TestDate_AddDays(t *testing.T) {
	d, err := ParseDate("2024-02-15")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-16", d.AddDays(30).String())
}

func TestDate_PgRoundTrip(t *testing.T) {
	var d Date
	require.NoError(t, d.ScanDate(pgtype.Date{Time: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), Valid: true}))
	assert.Equal(t, "2024-01-31", d.String())

	v, err := d.DateValue()
	require.NoError(t, err)
	assert.True(t, v.Valid)

	require.NoError(t, d.ScanDate(pgtype.Date{}))
	assert.True(t, d.IsZero())
}

func TestGenreList(t *testing.T) {
	var req UpdateProfileRequest
	require.NoError(t, json.Unmarshal([]byte(`{"favouriteGenres":" Fantasy, ,Sci-Fi "}`), &req))
	require.NotNil(t, req.FavouriteGenres)
	assert.Equal(t, GenreList{"Fantasy", "Sci-Fi"}, *req.FavouriteGenres)

	require.NoError(t, json.Unmarshal([]byte(`{"favouriteGenres":["Horror"," "]}`), &req))
	assert.Equal(t, GenreList{"Horror"}, *req.FavouriteGenres)

	assert.Error(t, json.Unmarshal([]byte(`{"favouriteGenres":42}`), &req))
}

func TestAccount_HidesPassword(t *testing.T) {
	b, err := json.Marshal(Account{ID: 1, Email: "a@b.co", PasswordHash: "hash"})
	require.NoError(t, err)
	assert.NotContains(t, string(b), "hash")
	assert.Contains(t, string(b), `"subscription"`)
}
