package repository

import (
	"context"
	"errors"
	"fmt"

	"alexandread/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ShelfRepository - множество (аккаунт, книга): закладки (saved_books) или прочитанное (read_books).
type ShelfRepository struct {
	db    *pgxpool.Pool
	table string
}

func NewSavedBooksRepository(db *pgxpool.Pool) *ShelfRepository {
	return &ShelfRepository{db: db, table: "saved_books"}
}

func NewReadBooksRepository(db *pgxpool.Pool) *ShelfRepository {
	return &ShelfRepository{db: db, table: "read_books"}
}

func (r *ShelfRepository) IDs(ctx context.Context, accountID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		fmt.Sprintf(`SELECT book_id FROM %s WHERE account_id = $1 ORDER BY created_at DESC, book_id`, r.table), accountID)
	if err != nil {
		logger.Log.Error("Ошибка получения полки (repo)", zap.String("table", r.table), zap.Error(err))
		return nil, err
	}
	ids, err := collectIDs(rows)
	if ids == nil {
		ids = []int64{}
	}
	return ids, err
}

// Add - upsert, повторное добавление не ошибка. Несуществующая книга - ErrNotFound.
func (r *ShelfRepository) Add(ctx context.Context, accountID, bookID int64) error {
	_, err := r.db.Exec(ctx,
		fmt.Sprintf(`INSERT INTO %s (account_id, book_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, r.table),
		accountID, bookID)
	if err = mapErr(err); err != nil && !errors.Is(err, ErrNotFound) {
		logger.Log.Error("Ошибка добавления на полку (repo)", zap.String("table", r.table), zap.Error(err))
	}
	return err
}

func (r *ShelfRepository) Remove(ctx context.Context, accountID, bookID int64) error {
	_, err := r.db.Exec(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE account_id = $1 AND book_id = $2`, r.table), accountID, bookID)
	if err != nil {
		logger.Log.Error("Ошибка удаления с полки (repo)", zap.String("table", r.table), zap.Error(err))
	}
	return err
}
