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

const subscriptionColumns = `sub_value::float8, start_sub_date, end_sub_date, auto_renew`

// lapsedCond - подписка не активна на дату $today.
const lapsedCond = `(end_sub_date IS NULL OR end_sub_date < %s)`

// SubscriptionRepository хранит подписку в колонках таблицы account.
// Продление делается одним условным UPDATE, поэтому параллельные запросы не продлевают дважды.
type SubscriptionRepository struct {
	db *pgxpool.Pool
}

func NewSubscriptionRepository(db *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func scanSubscription(row pgx.Row) (*models.Subscription, error) {
	var s models.Subscription
	if err := row.Scan(&s.Value, &s.Start, &s.End, &s.AutoRenew); err != nil {
		return nil, mapErr(err)
	}
	return &s, nil
}

func (r *SubscriptionRepository) Get(ctx context.Context, accountID int64) (*models.Subscription, error) {
	s, err := scanSubscription(r.db.QueryRow(ctx,
		`SELECT `+subscriptionColumns+` FROM account WHERE id = $1`, accountID))
	if err != nil && !errors.Is(err, ErrNotFound) {
		logger.Log.Error("Ошибка чтения подписки (repo)", zap.Error(err), zap.Int64("account_id", accountID))
	}
	return s, err
}

// Start безусловно открывает новое окно подписки.
func (r *SubscriptionRepository) Start(ctx context.Context, accountID int64, start, end models.Date, value float64, autoRenew bool) (*models.Subscription, error) {
	s, err := scanSubscription(r.db.QueryRow(ctx, `
	UPDATE account
	SET start_sub_date = $2, end_sub_date = $3, sub_value = $4, auto_renew = $5
	WHERE id = $1
	RETURNING `+subscriptionColumns,
		accountID, start, end, value, autoRenew))
	if err != nil && !errors.Is(err, ErrNotFound) {
		logger.Log.Error("Ошибка оформления подписки (repo)", zap.Error(err), zap.Int64("account_id", accountID))
	}
	return s, err
}

// RenewIfLapsed продлевает подписку, только если включено автопродление и окно истекло.
// renewed=false без ошибки означает, что условие не выполнилось (или аккаунта нет).
func (r *SubscriptionRepository) RenewIfLapsed(ctx context.Context, accountID int64, today, end models.Date, defaultValue float64) (*models.Subscription, bool, error) {
	s, err := scanSubscription(r.db.QueryRow(ctx, `
	UPDATE account
	SET start_sub_date = $2, end_sub_date = $3, sub_value = COALESCE(sub_value, $4)
	WHERE id = $1 AND auto_renew AND `+fmt.Sprintf(lapsedCond, "$2")+`
	RETURNING `+subscriptionColumns,
		accountID, today, end, defaultValue))
	if errors.Is(err, ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		logger.Log.Error("Ошибка продления подписки (repo)", zap.Error(err), zap.Int64("account_id", accountID))
		return nil, false, err
	}
	return s, true, nil
}

// SetAutoRenew меняет флаг; при включении на истёкшей подписке в том же запросе открывает новое окно.
func (r *SubscriptionRepository) SetAutoRenew(ctx context.Context, accountID int64, autoRenew bool, today, end models.Date, defaultValue float64) (*models.Subscription, bool, error) {
	query := `
	WITH prev AS (
		SELECT id, ` + fmt.Sprintf(lapsedCond, "$3::date") + ` AS lapsed
		FROM account WHERE id = $1 FOR UPDATE
	)
	UPDATE account a
	SET auto_renew     = $2,
		start_sub_date = CASE WHEN $2 AND prev.lapsed THEN $3::date ELSE a.start_sub_date END,
		end_sub_date   = CASE WHEN $2 AND prev.lapsed THEN $4::date ELSE a.end_sub_date END,
		sub_value      = COALESCE(a.sub_value, $5)
	FROM prev
	WHERE a.id = prev.id
	RETURNING a.sub_value::float8, a.start_sub_date, a.end_sub_date, a.auto_renew, ($2 AND prev.lapsed)`

	var s models.Subscription
	var renewed bool
	err := r.db.QueryRow(ctx, query, accountID, autoRenew, today, end, defaultValue).
		Scan(&s.Value, &s.Start, &s.End, &s.AutoRenew, &renewed)
	if err != nil {
		err = mapErr(err)
		if !errors.Is(err, ErrNotFound) {
			logger.Log.Error("Ошибка изменения автопродления (repo)", zap.Error(err), zap.Int64("account_id", accountID))
		}
		return nil, false, err
	}
	return &s, renewed, nil
}

// RenewAllLapsed продлевает все истёкшие подписки с автопродлением, возвращает число строк.
func (r *SubscriptionRepository) RenewAllLapsed(ctx context.Context, today, end models.Date, defaultValue float64) (int64, error) {
	tag, err := r.db.Exec(ctx, `
	UPDATE account
	SET start_sub_date = $1, end_sub_date = $2, sub_value = COALESCE(sub_value, $3)
	WHERE auto_renew AND `+fmt.Sprintf(lapsedCond, "$1"),
		today, end, defaultValue)
	if err != nil {
		logger.Log.Error("Ошибка массового продления подписок (repo)", zap.Error(err))
		return 0, err
	}
	return tag.RowsAffected(), nil
}
