package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/takumi/fukubukuro/internal/model"
)

// PostgresFoodBagRepo はPostgreSQLを使用したフードバッグリポジトリ。
type PostgresFoodBagRepo struct {
	db *sql.DB
}

// NewPostgresFoodBagRepo はPostgresFoodBagRepoを生成する。
func NewPostgresFoodBagRepo(db *sql.DB) *PostgresFoodBagRepo {
	return &PostgresFoodBagRepo{db: db}
}

// Create はフードバッグを作成し、採番されたIDとタイムスタンプをbagに書き戻す。
func (r *PostgresFoodBagRepo) Create(ctx context.Context, bag *model.FoodBag) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO food_bags (name, description, image, price, available_bags, address, owner, until_time, created_at, updated_at)
		 VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, now(), now())
		 RETURNING id, created_at, updated_at`,
		bag.Name, bag.Description, bag.Image, bag.Price, bag.AvailableBags, bag.Address, bag.OwnerID, bag.UntilTime,
	).Scan(&bag.ID, &bag.CreatedAt, &bag.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert food bag: %w", err)
	}
	return nil
}

// FindByID は指定IDのフードバッグを取得する。見つからない場合はnilを返す。
func (r *PostgresFoodBagRepo) FindByID(ctx context.Context, id int64) (*model.FoodBag, error) {
	return r.findOne(ctx,
		`SELECT id, name, description, COALESCE(image, ''), price, available_bags, address, owner, until_time, created_at, updated_at
		 FROM food_bags WHERE id = $1`,
		id,
	)
}

// FindByOwnerAndID は所有者スコープでフードバッグを取得する。
// 「存在しない」と「所有していない」はどちらもnilを返す。
func (r *PostgresFoodBagRepo) FindByOwnerAndID(ctx context.Context, ownerID, id int64) (*model.FoodBag, error) {
	return r.findOne(ctx,
		`SELECT id, name, description, COALESCE(image, ''), price, available_bags, address, owner, until_time, created_at, updated_at
		 FROM food_bags WHERE id = $1 AND owner = $2`,
		id, ownerID,
	)
}

// Update はフードバッグの全フィールドを所有者スコープで上書きする。
// 取得と更新の間に削除された場合はErrNotFoundを返す。
func (r *PostgresFoodBagRepo) Update(ctx context.Context, bag *model.FoodBag) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE food_bags
		 SET name = $1, description = $2, image = NULLIF($3, ''), price = $4,
		     available_bags = $5, address = $6, until_time = $7, updated_at = now()
		 WHERE id = $8 AND owner = $9`,
		bag.Name, bag.Description, bag.Image, bag.Price, bag.AvailableBags, bag.Address, bag.UntilTime,
		bag.ID, bag.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update food bag: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete は所有者スコープでフードバッグを削除する。
// 対象が存在しない場合はErrNotFoundを返す。
func (r *PostgresFoodBagRepo) Delete(ctx context.Context, ownerID, id int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM food_bags WHERE id = $1 AND owner = $2`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete food bag: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAvailable はavailable_bags > 0のフードバッグを返す。
func (r *PostgresFoodBagRepo) ListAvailable(ctx context.Context) ([]*model.FoodBag, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, COALESCE(image, ''), price, available_bags, address, owner, until_time, created_at, updated_at
		 FROM food_bags WHERE available_bags > 0`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list food bags: %w", err)
	}
	defer rows.Close()

	var bags []*model.FoodBag
	for rows.Next() {
		bag := &model.FoodBag{}
		if err := rows.Scan(
			&bag.ID, &bag.Name, &bag.Description, &bag.Image, &bag.Price,
			&bag.AvailableBags, &bag.Address, &bag.OwnerID, &bag.UntilTime,
			&bag.CreatedAt, &bag.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan food bag: %w", err)
		}
		bags = append(bags, bag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate food bags: %w", err)
	}

	return bags, nil
}

// findOne は1件取得の共通処理。見つからない場合はnilを返す。
func (r *PostgresFoodBagRepo) findOne(ctx context.Context, query string, args ...any) (*model.FoodBag, error) {
	bag := &model.FoodBag{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&bag.ID, &bag.Name, &bag.Description, &bag.Image, &bag.Price,
		&bag.AvailableBags, &bag.Address, &bag.OwnerID, &bag.UntilTime,
		&bag.CreatedAt, &bag.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find food bag: %w", err)
	}

	return bag, nil
}

// compile-time interface check
var _ FoodBagRepository = (*PostgresFoodBagRepo)(nil)
