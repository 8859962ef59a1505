package repository

import (
	"context"
	"errors"
	"strings"

	"alexandread/internal/logger"
	"alexandread/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	bookColumns    = `id, title, author, genre, year, summary, cover_image, content, premium, created_at`
	summaryColumns = `id, title, author, genre, cover_image, summary, year, premium`
)

type BookRepository struct {
	db *pgxpool.Pool
}

func NewBookRepository(db *pgxpool.Pool) *BookRepository {
	return &BookRepository{db: db}
}

func scanBook(row pgx.Row) (*models.Book, error) {
	var b models.Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Genre, &b.Year, &b.Summary,
		&b.CoverImage, &b.Content, &b.Premium, &b.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &b, nil
}

func collectSummaries(rows pgx.Rows) ([]models.BookSummary, error) {
	defer rows.Close()
	out := make([]models.BookSummary, 0)
	for rows.Next() {
		var s models.BookSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.Author, &s.Genre, &s.CoverImage, &s.Summary, &s.Year, &s.Premium); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func collectIDs(rows pgx.Rows) ([]int64, error) {
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *BookRepository) List(ctx context.Context) ([]models.BookSummary, error) {
	rows, err := r.db.Query(ctx, `SELECT `+summaryColumns+` FROM books ORDER BY title, id`)
	if err != nil {
		logger.Log.Error("Ошибка получения каталога (repo)", zap.Error(err))
		return nil, err
	}
	return collectSummaries(rows)
}

// Search ищет по подстроке в названии или авторе (без учёта регистра), опционально по жанру.
func (r *BookRepository) Search(ctx context.Context, s models.BookSearch) ([]models.BookSummary, error) {
	query := `SELECT ` + summaryColumns + ` FROM books WHERE TRUE`
	var args []interface{}

	if q := strings.TrimSpace(s.Query); q != "" {
		args = append(args, "%"+escapeLike(q)+"%")
		query += ` AND (title ILIKE $1 OR author ILIKE $1)`
	}
	if g := strings.TrimSpace(s.Genre); g != "" {
		args = append(args, escapeLike(g))
		query += ` AND genre ILIKE $` + itoa(len(args))
	}
	args = append(args, s.Limit)
	query += ` ORDER BY title, id LIMIT $` + itoa(len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		logger.Log.Error("Ошибка поиска книг (repo)", zap.Error(err))
		return nil, err
	}
	return collectSummaries(rows)
}

func (r *BookRepository) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	b, err := scanBook(r.db.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id))
	if err != nil && !errors.Is(err, ErrNotFound) {
		logger.Log.Error("Ошибка получения книги (repo)", zap.Error(err), zap.Int64("book_id", id))
	}
	return b, err
}

func (r *BookRepository) Create(ctx context.Context, in models.CreateBookRequest) (*models.Book, error) {
	logger.Log.Info("Создание книги (repo)", zap.String("title", in.Title))
	b, err := scanBook(r.db.QueryRow(ctx, `
	INSERT INTO books (title, author, genre, year, summary, cover_image, content, premium)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING `+bookColumns,
		in.Title, in.Author, nullIfEmpty(in.Genre), in.Year, nullIfEmpty(in.Summary),
		nullIfEmpty(in.CoverImage), nullIfEmpty(in.Content), in.Premium))
	if err != nil {
		logger.Log.Error("Ошибка создания книги (repo)", zap.Error(err))
	}
	return b, err
}

func (r *BookRepository) Update(ctx context.Context, id int64, in models.UpdateBookRequest) (*models.Book, error) {
	logger.Log.Info("Обновление книги (repo)", zap.Int64("book_id", id))

	var b setBuilder
	if in.Title != nil {
		b.add("title", *in.Title)
	}
	if in.Author != nil {
		b.add("author", *in.Author)
	}
	if in.Genre != nil {
		b.add("genre", nullIfEmpty(in.Genre))
	}
	if in.Year != nil {
		b.add("year", *in.Year)
	}
	if in.Summary != nil {
		b.add("summary", nullIfEmpty(in.Summary))
	}
	if in.CoverImage != nil {
		b.add("cover_image", nullIfEmpty(in.CoverImage))
	}
	if in.Content != nil {
		b.add("content", nullIfEmpty(in.Content))
	}
	if in.Premium != nil {
		b.add("premium", *in.Premium)
	}
	if b.empty() {
		return r.GetByID(ctx, id)
	}

	query, args := b.build("books", id, bookColumns)
	book, err := scanBook(r.db.QueryRow(ctx, query, args...))
	if err != nil && !errors.Is(err, ErrNotFound) {
		logger.Log.Error("Ошибка обновления книги (repo)", zap.Error(err), zap.Int64("book_id", id))
	}
	return book, err
}

func (r *BookRepository) Delete(ctx context.Context, id int64) error {
	logger.Log.Info("Удаление книги (repo)", zap.Int64("book_id", id))
	tag, err := r.db.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		logger.Log.Error("Ошибка удаления книги (repo)", zap.Error(err), zap.Int64("book_id", id))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// IDsByAuthor - книги с точным совпадением автора.
func (r *BookRepository) IDsByAuthor(ctx context.Context, author string, limit int) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM books WHERE author = $1 ORDER BY id LIMIT $2`, author, limit)
	if err != nil {
		return nil, err
	}
	return collectIDs(rows)
}

func (r *BookRepository) IDsByGenres(ctx context.Context, genres []string, limit int) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM books WHERE genre = ANY($1) ORDER BY id LIMIT $2`, genres, limit)
	if err != nil {
		return nil, err
	}
	return collectIDs(rows)
}

func (r *BookRepository) SummariesByIDs(ctx context.Context, ids []int64) ([]models.BookSummary, error) {
	rows, err := r.db.Query(ctx, `SELECT `+summaryColumns+` FROM books WHERE id = ANY($1)`, ids)
	if err != nil {
		logger.Log.Error("Ошибка получения книг по id (repo)", zap.Error(err))
		return nil, err
	}
	return collectSummaries(rows)
}
