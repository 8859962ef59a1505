//go:build integration

package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"alexandread/internal/db"
	"alexandread/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("alexandread"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(ctr) })

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, db.Migrate(pool))
	// повторный накат ничего не меняет, пул после закрытия мигратора жив
	require.NoError(t, db.Migrate(pool))
	require.NoError(t, pool.Ping(ctx))
	return pool
}

func date(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestRepositories_Postgres(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()

	accounts := NewAccountRepository(pool)
	subs := NewSubscriptionRepository(pool)
	books := NewBookRepository(pool)
	reading := NewReadingRepository(pool)
	comments := NewCommentRepository(pool)
	saved := NewSavedBooksRepository(pool)
	candidates := NewCandidateRepository(pool)

	reader, err := accounts.Create(ctx, &models.Account{Email: "reader@example.com", PasswordHash: "x", Pseudo: "reader", Role: models.RoleUser})
	require.NoError(t, err)
	peer, err := accounts.Create(ctx, &models.Account{Email: "peer@example.com", PasswordHash: "x", Pseudo: "peer", Role: models.RoleUser})
	require.NoError(t, err)

	_, err = accounts.Create(ctx, &models.Account{Email: "reader@example.com", PasswordHash: "x", Pseudo: "dup", Role: models.RoleUser})
	assert.ErrorIs(t, err, ErrDuplicate)

	foundation, err := books.Create(ctx, models.CreateBookRequest{Title: "Foundation", Author: "Asimov"})
	require.NoError(t, err)
	dune, err := books.Create(ctx, models.CreateBookRequest{Title: "Dune", Author: "Herbert"})
	require.NoError(t, err)

	t.Run("conditional renewal happens once", func(t *testing.T) {
		_, err := subs.Start(ctx, reader.ID, date(t, "2024-01-01"), date(t, "2024-01-31"), 4.99, true)
		require.NoError(t, err)

		today, end := date(t, "2024-02-15"), date(t, "2024-03-16")
		var wg sync.WaitGroup
		var mu sync.Mutex
		renewals := 0
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, ok, err := subs.RenewIfLapsed(ctx, reader.ID, today, end, 4.99)
				assert.NoError(t, err)
				if ok {
					mu.Lock()
					renewals++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, renewals)

		s, err := subs.Get(ctx, reader.ID)
		require.NoError(t, err)
		assert.Equal(t, "2024-02-15", s.Start.String())
		assert.Equal(t, "2024-03-16", s.End.String())
		assert.InDelta(t, 4.99, *s.Value, 1e-9)
	})

	t.Run("auto-renew toggle", func(t *testing.T) {
		s, renewed, err := subs.SetAutoRenew(ctx, peer.ID, true, date(t, "2024-02-15"), date(t, "2024-03-16"), 4.99)
		require.NoError(t, err)
		assert.True(t, renewed)
		assert.Equal(t, "2024-03-16", s.End.String())

		s, renewed, err = subs.SetAutoRenew(ctx, peer.ID, false, date(t, "2024-02-20"), date(t, "2024-03-21"), 4.99)
		require.NoError(t, err)
		assert.False(t, renewed)
		assert.Equal(t, "2024-03-16", s.End.String())

		_, _, err = subs.SetAutoRenew(ctx, 999999, true, date(t, "2024-02-15"), date(t, "2024-03-16"), 4.99)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("sweep renews only auto-renew rows", func(t *testing.T) {
		n, err := subs.RenewAllLapsed(ctx, date(t, "2024-06-01"), date(t, "2024-07-01"), 4.99)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
	})

	t.Run("restarting a finished book reuses the row", func(t *testing.T) {
		_, err := reading.Start(ctx, reader.ID, foundation.ID, date(t, "2024-03-01"))
		require.NoError(t, err)
		_, err = reading.Finish(ctx, reader.ID, foundation.ID, date(t, "2024-03-10"))
		require.NoError(t, err)

		e, err := reading.Start(ctx, reader.ID, foundation.ID, date(t, "2024-04-01"))
		require.NoError(t, err)
		assert.Equal(t, "2024-04-01", e.StartReadDate.String())
		assert.Nil(t, e.EndReadDate)
		assert.False(t, e.IsFinished)

		history, err := reading.History(ctx, reader.ID)
		require.NoError(t, err)
		assert.Empty(t, history)

		var rows int
		require.NoError(t, pool.QueryRow(ctx,
			`SELECT count(*) FROM acc_reading WHERE user_id = $1 AND book_id = $2`, reader.ID, foundation.ID).Scan(&rows))
		assert.Equal(t, 1, rows)

		_, err = reading.Start(ctx, reader.ID, 424242, date(t, "2024-04-01"))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("candidate functions", func(t *testing.T) {
		today := models.NewDate(time.Now())
		_, err := reading.Start(ctx, peer.ID, foundation.ID, today)
		require.NoError(t, err)
		_, err = reading.Start(ctx, peer.ID, dune.ID, today)
		require.NoError(t, err)

		collab, err := candidates.Collaborative(ctx, reader.ID, 5)
		require.NoError(t, err)
		assert.Equal(t, []int64{dune.ID}, collab)

		trending, err := candidates.Trending(ctx, 5)
		require.NoError(t, err)
		assert.Contains(t, trending, dune.ID)
	})

	t.Run("one comment per book", func(t *testing.T) {
		_, err := comments.Create(ctx, reader.ID, dune.ID, 8, nil)
		require.NoError(t, err)
		_, err = comments.Create(ctx, reader.ID, dune.ID, 3, nil)
		assert.ErrorIs(t, err, ErrDuplicate)

		st, err := comments.Stats(ctx, dune.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, st.TotalComments)
	})

	t.Run("account delete cascades", func(t *testing.T) {
		require.NoError(t, saved.Add(ctx, reader.ID, dune.ID))
		require.NoError(t, accounts.Delete(ctx, reader.ID))

		_, err := accounts.GetByID(ctx, reader.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		ids, err := saved.IDs(ctx, reader.ID)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})
}
