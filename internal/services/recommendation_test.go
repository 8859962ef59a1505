package services

import (
	"context"
	"sort"
	"testing"
	"time"

	"alexandread/internal/models"
	"alexandread/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogue() *fakeBooks {
	return newFakeBooks(
		models.Book{ID: 1, Title: "Foundation", Author: "Asimov", Genre: ptr("SF")},
		models.Book{ID: 2, Title: "I, Robot", Author: "Asimov", Genre: ptr("SF")},
		models.Book{ID: 3, Title: "The End of Eternity", Author: "Asimov", Genre: ptr("SF")},
		models.Book{ID: 4, Title: "Dune", Author: "Herbert", Genre: ptr("SF")},
		models.Book{ID: 5, Title: "Emma", Author: "Austen", Genre: ptr("Classic")},
		models.Book{ID: 6, Title: "Persuasion", Author: "Austen", Genre: ptr("Classic")},
		models.Book{ID: 7, Title: "Dracula", Author: "Stoker", Genre: ptr("Horror")},
	)
}

func ids(books []models.BookSummary) []int64 {
	out := make([]int64, 0, len(books))
	for _, b := range books {
		out = append(out, b.ID)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func newRecs(prefs *models.Preferences, history []int64, books *fakeBooks, collab, trending CandidateSource) *RecommendationService {
	return NewRecommendationService(fakePrefs{prefs: prefs}, fakeHistory{ids: history}, books, collab, trending)
}

func TestRecommend_FavouriteAuthorOnly(t *testing.T) {
	collab := &staticSource{name: "collaborative"}
	trending := &staticSource{name: "trending"}
	svc := newRecs(&models.Preferences{FavouriteAuthor: ptr("Asimov")}, nil, catalogue(), collab, trending)

	got, err := svc.Recommend(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids(got))
	assert.Equal(t, 1, trending.calls, "меньше пяти кандидатов, спрашиваем trending")
}

func TestRecommend_NeverIncludesReadingHistory(t *testing.T) {
	collab := &staticSource{name: "collaborative", ids: []int64{1, 4, 7}}
	trending := &staticSource{name: "trending", ids: []int64{2, 5, 6}}
	prefs := &models.Preferences{FavouriteAuthor: ptr("Asimov"), FavouriteGenres: []string{"Classic"}}
	history := []int64{1, 2, 5}

	svc := newRecs(prefs, history, catalogue(), collab, trending)
	got, err := svc.Recommend(context.Background(), 1)
	require.NoError(t, err)

	for _, b := range got {
		assert.NotContains(t, history, b.ID)
	}
	assert.Equal(t, []int64{3, 4, 6, 7}, ids(got))
}

func TestRecommend_NoSignalsReturnsEmpty(t *testing.T) {
	svc := newRecs(nil, nil, catalogue(), &staticSource{name: "collaborative"}, &staticSource{name: "trending"})

	got, err := svc.Recommend(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRecommend_SourceFailuresAreSoft(t *testing.T) {
	collab := &staticSource{name: "collaborative", err: errBoom}
	trending := &staticSource{name: "trending", err: errBoom}
	books := catalogue()
	books.genreErr = errBoom
	prefs := &models.Preferences{FavouriteAuthor: ptr("Austen"), FavouriteGenres: []string{"SF"}}

	svc := newRecs(prefs, nil, books, collab, trending)
	got, err := svc.Recommend(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 6}, ids(got))
}

func TestRecommend_TrendingSkippedWhenEnough(t *testing.T) {
	collab := &staticSource{name: "collaborative", ids: []int64{1, 2, 3, 4, 5}}
	trending := &staticSource{name: "trending", ids: []int64{7}}

	svc := newRecs(nil, nil, catalogue(), collab, trending)
	got, err := svc.Recommend(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, got, 5)
	assert.Zero(t, trending.calls)
}

func TestRecommend_DuplicatesCollapse(t *testing.T) {
	collab := &staticSource{name: "collaborative", ids: []int64{1, 1, 2}}
	prefs := &models.Preferences{FavouriteAuthor: ptr("Asimov")}

	svc := newRecs(prefs, nil, catalogue(), collab, &staticSource{name: "trending", ids: []int64{2, 3}})
	got, err := svc.Recommend(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids(got))
}

func TestRecommend_HardFailures(t *testing.T) {
	t.Run("profile", func(t *testing.T) {
		svc := NewRecommendationService(fakePrefs{err: errBoom}, fakeHistory{}, catalogue(), nil, nil)
		_, err := svc.Recommend(context.Background(), 1)
		assert.ErrorIs(t, err, errBoom)
	})
	t.Run("missing profile", func(t *testing.T) {
		svc := NewRecommendationService(fakePrefs{err: repository.ErrNotFound}, fakeHistory{}, catalogue(), nil, nil)
		_, err := svc.Recommend(context.Background(), 1)
		assert.ErrorIs(t, err, ErrNotFound)
	})
	t.Run("history", func(t *testing.T) {
		svc := NewRecommendationService(fakePrefs{}, fakeHistory{err: errBoom}, catalogue(), nil, nil)
		_, err := svc.Recommend(context.Background(), 1)
		assert.ErrorIs(t, err, errBoom)
	})
	t.Run("final fetch", func(t *testing.T) {
		books := catalogue()
		books.fetchErr = errBoom
		svc := newRecs(nil, nil, books, &staticSource{name: "collaborative", ids: []int64{1}}, nil)
		_, err := svc.Recommend(context.Background(), 1)
		assert.ErrorIs(t, err, errBoom)
	})
}

func TestRecommend_ShufflesResult(t *testing.T) {
	svc := newRecs(nil, nil, catalogue(), &staticSource{name: "collaborative", ids: []int64{1, 2, 3}}, nil)
	shuffled := false
	svc.shuffle = func(n int, swap func(i, j int)) {
		shuffled = true
		swap(0, n-1)
	}

	got, err := svc.Recommend(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, shuffled)
	assert.Len(t, got, 3)
}

func TestWithBreaker_OpensAfterFailures(t *testing.T) {
	inner := &staticSource{name: "collaborative", err: errBoom}
	src := WithBreaker(inner, BreakerSettings{ConsecutiveFailures: 2, OpenTimeout: time.Minute})

	for i := 0; i < 2; i++ {
		_, err := src.Candidates(context.Background(), 1, 5)
		assert.ErrorIs(t, err, errBoom)
	}
	_, err := src.Candidates(context.Background(), 1, 5)
	assert.Error(t, err)
	assert.Equal(t, 2, inner.calls, "разомкнутая цепь не дёргает источник")
	assert.Equal(t, "collaborative", src.Name())
}

func TestWithBreaker_InsideAggregatorIsSoft(t *testing.T) {
	collab := WithBreaker(&staticSource{name: "collaborative", err: errBoom}, BreakerSettings{ConsecutiveFailures: 1, OpenTimeout: time.Minute})
	svc := newRecs(&models.Preferences{FavouriteAuthor: ptr("Asimov")}, nil, catalogue(), collab, nil)

	for i := 0; i < 3; i++ {
		got, err := svc.Recommend(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 2, 3}, ids(got))
	}
}
