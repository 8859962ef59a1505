package repository

import (
	"context"
	"errors"

	"alexandread/internal/logger"
	"alexandread/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const readingColumns = `r.user_id, r.book_id, r.start_read_date, r.end_read_date, r.is_finished,
	b.id, b.title, b.author, b.genre, b.cover_image, b.summary, b.year, b.premium`

type ReadingRepository struct {
	db *pgxpool.Pool
}

func NewReadingRepository(db *pgxpool.Pool) *ReadingRepository {
	return &ReadingRepository{db: db}
}

func scanReading(row pgx.Row) (*models.ReadingEntry, error) {
	var (
		e models.ReadingEntry
		b models.BookSummary
	)
	err := row.Scan(&e.UserID, &e.BookID, &e.StartReadDate, &e.EndReadDate, &e.IsFinished,
		&b.ID, &b.Title, &b.Author, &b.Genre, &b.CoverImage, &b.Summary, &b.Year, &b.Premium)
	if err != nil {
		return nil, mapErr(err)
	}
	e.Book = &b
	return &e, nil
}

func (r *ReadingRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.ReadingEntry, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		logger.Log.Error("Ошибка получения списка чтения (repo)", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.ReadingEntry, 0)
	for rows.Next() {
		e, err := scanReading(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// Current - незавершённые книги, последние начатые сверху.
func (r *ReadingRepository) Current(ctx context.Context, accountID int64) ([]models.ReadingEntry, error) {
	return r.list(ctx, `SELECT `+readingColumns+`
	FROM acc_reading r JOIN books b ON b.id = r.book_id
	WHERE r.user_id = $1 AND NOT r.is_finished
	ORDER BY r.start_read_date DESC, r.book_id`, accountID)
}

// History - дочитанные книги, последние законченные сверху.
func (r *ReadingRepository) History(ctx context.Context, accountID int64) ([]models.ReadingEntry, error) {
	return r.list(ctx, `SELECT `+readingColumns+`
	FROM acc_reading r JOIN books b ON b.id = r.book_id
	WHERE r.user_id = $1 AND r.is_finished
	ORDER BY r.end_read_date DESC NULLS LAST, r.book_id`, accountID)
}

func (r *ReadingRepository) Get(ctx context.Context, accountID, bookID int64) (*models.ReadingEntry, error) {
	e, err := scanReading(r.db.QueryRow(ctx, `SELECT `+readingColumns+`
	FROM acc_reading r JOIN books b ON b.id = r.book_id
	WHERE r.user_id = $1 AND r.book_id = $2`, accountID, bookID))
	if err != nil && !errors.Is(err, ErrNotFound) {
		logger.Log.Error("Ошибка получения записи чтения (repo)", zap.Error(err))
	}
	return e, err
}

// Start вставляет запись или сбрасывает существующую строку на новый проход.
func (r *ReadingRepository) Start(ctx context.Context, accountID, bookID int64, today models.Date) (*models.ReadingEntry, error) {
	_, err := r.db.Exec(ctx, `
	INSERT INTO acc_reading (user_id, book_id, start_read_date, end_read_date, is_finished)
	VALUES ($1, $2, $3, NULL, FALSE)
	ON CONFLICT (user_id, book_id) DO UPDATE
	SET start_read_date = EXCLUDED.start_read_date, end_read_date = NULL, is_finished = FALSE`,
		accountID, bookID, today)
	if err = mapErr(err); err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Log.Error("Ошибка старта чтения (repo)", zap.Error(err))
		}
		return nil, err
	}
	return r.Get(ctx, accountID, bookID)
}

func (r *ReadingRepository) Finish(ctx context.Context, accountID, bookID int64, today models.Date) (*models.ReadingEntry, error) {
	tag, err := r.db.Exec(ctx, `
	UPDATE acc_reading SET end_read_date = $3, is_finished = TRUE
	WHERE user_id = $1 AND book_id = $2`, accountID, bookID, today)
	if err != nil {
		logger.Log.Error("Ошибка завершения чтения (repo)", zap.Error(err))
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, accountID, bookID)
}

// BookIDs - все книги из истории чтения (для исключения из рекомендаций).
func (r *ReadingRepository) BookIDs(ctx context.Context, accountID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT book_id FROM acc_reading WHERE user_id = $1`, accountID)
	if err != nil {
		return nil, err
	}
	return collectIDs(rows)
}
