package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"alexandread/internal/logger"
	"alexandread/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const commentColumns = `c.id, c.book_id, c.user_id, c.rating, c.comment, c.created_at, c.updated_at,
	a.id, a.name, a.email, a.avatar_url`

type CommentRepository struct {
	db *pgxpool.Pool
}

func NewCommentRepository(db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{db: db}
}

func scanComment(row pgx.Row) (*models.Comment, error) {
	var (
		c        models.Comment
		authorID *int64
		name     *string
		email    *string
		avatar   *string
	)
	err := row.Scan(&c.ID, &c.BookID, &c.UserID, &c.Rating, &c.Comment, &c.CreatedAt, &c.UpdatedAt,
		&authorID, &name, &email, &avatar)
	if err != nil {
		return nil, mapErr(err)
	}
	if authorID != nil {
		c.Account = &models.CommentAuthor{ID: *authorID, Name: name, AvatarURL: avatar}
		if email != nil {
			c.Account.Email = *email
		}
	}
	return &c, nil
}

func (r *CommentRepository) Stats(ctx context.Context, bookID int64) (*models.CommentStats, error) {
	var (
		avg   *float64
		total int
	)
	err := r.db.QueryRow(ctx,
		`SELECT AVG(rating)::float8, COUNT(*) FROM comments WHERE book_id = $1`, bookID,
	).Scan(&avg, &total)
	if err != nil {
		logger.Log.Error("Ошибка статистики комментариев (repo)", zap.Error(err), zap.Int64("book_id", bookID))
		return nil, err
	}
	return &models.CommentStats{AverageRating: avg, TotalComments: total}, nil
}

// List - комментарии по фильтру, новые сверху, плюс общее число подходящих.
func (r *CommentRepository) List(ctx context.Context, f models.CommentFilter) ([]models.Comment, int, error) {
	var (
		where []string
		args  []interface{}
	)
	if f.BookID != nil {
		args = append(args, *f.BookID)
		where = append(where, fmt.Sprintf("c.book_id = $%d", len(args)))
	}
	if f.UserID != nil {
		args = append(args, *f.UserID)
		where = append(where, fmt.Sprintf("c.user_id = $%d", len(args)))
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM comments c`+cond, args...).Scan(&total); err != nil {
		logger.Log.Error("Ошибка подсчёта комментариев (repo)", zap.Error(err))
		return nil, 0, err
	}

	args = append(args, f.Limit, f.Offset)
	query := `SELECT ` + commentColumns + `
	FROM comments c LEFT JOIN account a ON a.id = c.user_id` + cond +
		fmt.Sprintf(` ORDER BY c.created_at DESC, c.id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		logger.Log.Error("Ошибка получения комментариев (repo)", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	comments := make([]models.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, 0, err
		}
		comments = append(comments, *c)
	}
	return comments, total, rows.Err()
}

func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	c, err := scanComment(r.db.QueryRow(ctx, `SELECT `+commentColumns+`
	FROM comments c LEFT JOIN account a ON a.id = c.user_id WHERE c.id = $1`, id))
	if err != nil && !errors.Is(err, ErrNotFound) {
		logger.Log.Error("Ошибка получения комментария (repo)", zap.Error(err), zap.Int64("comment_id", id))
	}
	return c, err
}

func (r *CommentRepository) Exists(ctx context.Context, accountID, bookID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM comments WHERE user_id = $1 AND book_id = $2)`, accountID, bookID,
	).Scan(&exists)
	if err != nil {
		logger.Log.Error("Ошибка проверки комментария (repo)", zap.Error(err))
	}
	return exists, err
}

// Create вставляет комментарий; уникальный индекс (book_id, user_id) даёт ErrDuplicate при гонке.
func (r *CommentRepository) Create(ctx context.Context, accountID, bookID int64, rating int, text *string) (*models.Comment, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
	INSERT INTO comments (book_id, user_id, rating, comment)
	VALUES ($1, $2, $3, $4)
	RETURNING id`, bookID, accountID, rating, text).Scan(&id)
	if err != nil {
		err = mapErr(err)
		if !errors.Is(err, ErrDuplicate) {
			logger.Log.Error("Ошибка создания комментария (repo)", zap.Error(err))
		}
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *CommentRepository) Update(ctx context.Context, id int64, rating int, text *string) (*models.Comment, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE comments SET rating = $2, comment = $3, updated_at = now() WHERE id = $1`, id, rating, text)
	if err != nil {
		logger.Log.Error("Ошибка обновления комментария (repo)", zap.Error(err), zap.Int64("comment_id", id))
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		logger.Log.Error("Ошибка удаления комментария (repo)", zap.Error(err), zap.Int64("comment_id", id))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
