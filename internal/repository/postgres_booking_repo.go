package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/takumi/fukubukuro/internal/model"
)

// PostgresBookingRepo はPostgreSQLを使用した予約リポジトリ。
type PostgresBookingRepo struct {
	db *sql.DB
}

// NewPostgresBookingRepo はPostgresBookingRepoを生成する。
func NewPostgresBookingRepo(db *sql.DB) *PostgresBookingRepo {
	return &PostgresBookingRepo{db: db}
}

// CreateWithDecrement は在庫の条件付き減算と予約行の挿入を
// 単一トランザクションで実行する。
//
// 減算は「在庫が正の場合のみ」のUPDATEで表現する。対象行には行ロックが
// かかるため、同一バッグへの並行予約は直列化され、在庫K袋に対して
// ちょうどK件のUPDATEだけが行を変更する。変更行数0は在庫切れを意味し、
// ErrNoStockを返してロールバックする。減算と予約行は必ず揃って
// コミットされ、片方だけが残る状態は存在しない。
func (r *PostgresBookingRepo) CreateWithDecrement(ctx context.Context, booking *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE food_bags
		 SET available_bags = available_bags - 1, updated_at = now()
		 WHERE id = $1 AND available_bags > 0`,
		booking.BagID,
	)
	if err != nil {
		return fmt.Errorf("failed to decrement available bags: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNoStock
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO bookings (user_id, bag_id, created_at)
		 VALUES ($1, $2, now())
		 RETURNING id, created_at`,
		booking.UserID, booking.BagID,
	).Scan(&booking.ID, &booking.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// CountByBagID は指定バッグの予約件数を返す。
func (r *PostgresBookingRepo) CountByBagID(ctx context.Context, bagID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM bookings WHERE bag_id = $1`,
		bagID,
	).Scan(&count)
	if err != nil && err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

// compile-time interface check
var _ BookingRepository = (*PostgresBookingRepo)(nil)
