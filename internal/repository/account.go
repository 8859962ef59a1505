package repository

import (
	"context"
	"errors"
	"fmt"

	"alexandread/internal/logger"
	"alexandread/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const accountColumns = `id, email, password, pseudo, name, date_of_birth, region,
	favourite_book, favourite_author, favourite_genres, avatar_url, role,
	sub_value::float8, start_sub_date, end_sub_date, auto_renew, created_at`

type AccountRepository struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

func scanAccount(row pgx.Row) (*models.Account, error) {
	var a models.Account
	err := row.Scan(
		&a.ID, &a.Email, &a.PasswordHash, &a.Pseudo, &a.Name, &a.DateOfBirth, &a.Region,
		&a.FavouriteBook, &a.FavouriteAuthor, &a.FavouriteGenres, &a.AvatarURL, &a.Role,
		&a.Subscription.Value, &a.Subscription.Start, &a.Subscription.End, &a.Subscription.AutoRenew,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	return &a, nil
}

func (r *AccountRepository) Create(ctx context.Context, a *models.Account) (*models.Account, error) {
	logger.Log.Info("Создание аккаунта (repo)", zap.String("email", a.Email))
	query := `
	INSERT INTO account (email, password, pseudo, name, date_of_birth, region,
		favourite_book, favourite_author, favourite_genres, role)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING ` + accountColumns

	created, err := scanAccount(r.db.QueryRow(ctx, query,
		a.Email, a.PasswordHash, a.Pseudo, nullIfEmpty(a.Name), a.DateOfBirth, nullIfEmpty(a.Region),
		nullIfEmpty(a.FavouriteBook), nullIfEmpty(a.FavouriteAuthor), a.FavouriteGenres, a.Role,
	))
	if err != nil && !errors.Is(err, ErrDuplicate) {
		logger.Log.Error("Ошибка создания аккаунта (repo)", zap.Error(err))
	}
	return created, err
}

func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	a, err := scanAccount(r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM account WHERE id = $1`, id))
	if err != nil && !errors.Is(err, ErrNotFound) {
		logger.Log.Error("Ошибка получения аккаунта (repo)", zap.Error(err), zap.Int64("account_id", id))
	}
	return a, err
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	a, err := scanAccount(r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM account WHERE email = $1`, email))
	if err != nil && !errors.Is(err, ErrNotFound) {
		logger.Log.Error("Ошибка получения аккаунта по email (repo)", zap.Error(err))
	}
	return a, err
}

func (r *AccountRepository) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM account WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		logger.Log.Error("Ошибка проверки email (repo)", zap.Error(err))
	}
	return exists, err
}

// Preferences - любимые жанры и автор для рекомендаций.
func (r *AccountRepository) Preferences(ctx context.Context, id int64) (*models.Preferences, error) {
	var p models.Preferences
	err := r.db.QueryRow(ctx,
		`SELECT favourite_genres, favourite_author FROM account WHERE id = $1`, id,
	).Scan(&p.FavouriteGenres, &p.FavouriteAuthor)
	if err != nil {
		return nil, fmt.Errorf("account.Preferences: %w", mapErr(err))
	}
	return &p, nil
}

func (r *AccountRepository) Update(ctx context.Context, id int64, u models.AccountUpdate) (*models.Account, error) {
	logger.Log.Info("Обновление аккаунта (repo)", zap.Int64("account_id", id))

	var b setBuilder
	if u.Email != nil {
		b.add("email", *u.Email)
	}
	if u.Pseudo != nil {
		b.add("pseudo", *u.Pseudo)
	}
	if u.PasswordHash != nil {
		b.add("password", *u.PasswordHash)
	}
	if u.Name != nil {
		b.add("name", nullIfEmpty(u.Name))
	}
	if u.DateOfBirth != nil {
		b.add("date_of_birth", *u.DateOfBirth)
	} else if u.ClearBirthDate {
		b.add("date_of_birth", nil)
	}
	if u.Region != nil {
		b.add("region", nullIfEmpty(u.Region))
	}
	if u.FavouriteBook != nil {
		b.add("favourite_book", nullIfEmpty(u.FavouriteBook))
	}
	if u.FavouriteAuthor != nil {
		b.add("favourite_author", nullIfEmpty(u.FavouriteAuthor))
	}
	if u.FavouriteGenres != nil {
		if len(*u.FavouriteGenres) == 0 {
			b.add("favourite_genres", nil)
		} else {
			b.add("favourite_genres", *u.FavouriteGenres)
		}
	}

	if b.empty() {
		logger.Log.Warn("Нет полей для обновления аккаунта (repo)", zap.Int64("account_id", id))
		return r.GetByID(ctx, id)
	}

	query, args := b.build("account", id, accountColumns)
	a, err := scanAccount(r.db.QueryRow(ctx, query, args...))
	if err != nil && !errors.Is(err, ErrDuplicate) && !errors.Is(err, ErrNotFound) {
		logger.Log.Error("Ошибка обновления аккаунта (repo)", zap.Error(err), zap.Int64("account_id", id))
	}
	return a, err
}

func (r *AccountRepository) SetAvatar(ctx context.Context, id int64, url string) (*models.Account, error) {
	a, err := scanAccount(r.db.QueryRow(ctx,
		`UPDATE account SET avatar_url = $2 WHERE id = $1 RETURNING `+accountColumns, id, url))
	if err != nil && !errors.Is(err, ErrNotFound) {
		logger.Log.Error("Ошибка сохранения аватара (repo)", zap.Error(err), zap.Int64("account_id", id))
	}
	return a, err
}

// Delete удаляет аккаунт вместе с чтением, закладками, прочитанным и комментариями.
func (r *AccountRepository) Delete(ctx context.Context, id int64) error {
	logger.Log.Info("Удаление аккаунта (repo)", zap.Int64("account_id", id))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, q := range []string{
		`DELETE FROM acc_reading WHERE user_id = $1`,
		`DELETE FROM saved_books WHERE account_id = $1`,
		`DELETE FROM read_books WHERE account_id = $1`,
		`DELETE FROM comments WHERE user_id = $1`,
	} {
		if _, err := tx.Exec(ctx, q, id); err != nil {
			logger.Log.Error("Ошибка очистки данных аккаунта (repo)", zap.Error(err), zap.Int64("account_id", id))
			return err
		}
	}

	tag, err := tx.Exec(ctx, `DELETE FROM account WHERE id = $1`, id)
	if err != nil {
		logger.Log.Error("Ошибка удаления аккаунта (repo)", zap.Error(err), zap.Int64("account_id", id))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}
