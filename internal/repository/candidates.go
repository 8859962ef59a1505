package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CandidateRepository вызывает SQL-функции рекомендаций из миграций.
type CandidateRepository struct {
	db *pgxpool.Pool
}

func NewCandidateRepository(db *pgxpool.Pool) *CandidateRepository {
	return &CandidateRepository{db: db}
}

func (r *CandidateRepository) Collaborative(ctx context.Context, accountID int64, limit int) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT book_id FROM get_collab_recs($1, $2)`, accountID, limit)
	if err != nil {
		return nil, err
	}
	return collectIDs(rows)
}

func (r *CandidateRepository) Trending(ctx context.Context, limit int) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT book_id FROM get_trending_books($1)`, limit)
	if err != nil {
		return nil, err
	}
	return collectIDs(rows)
}
