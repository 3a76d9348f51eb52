// Package foodbag はフードバッグ在庫のドメインロジックを提供する。
package foodbag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/takumi/fukubukuro/internal/authz"
	"github.com/takumi/fukubukuro/internal/model"
	"github.com/takumi/fukubukuro/internal/repository"
)

// Sanitizer は保存前にユーザー入力テキストからマークアップを除去する。
type Sanitizer interface {
	Sanitize(raw string) string
}

// CreateParams はフードバッグ作成の入力。
type CreateParams struct {
	Name          string
	Description   string
	Image         string
	Price         float64
	AvailableBags int
	Address       string
	UntilTime     time.Time
}

// UpdateParams は部分更新の入力。nilのフィールドは変更しない。
// フィールドが指定されていても値がゼロ値（空文字列・0・ゼロ時刻）の場合は
// 無視される。したがって数値フィールドをこの経路で0に設定することはできない。
type UpdateParams struct {
	Name          *string
	Description   *string
	Image         *string
	Price         *float64
	AvailableBags *int
	Address       *string
	UntilTime     *time.Time
}

// Service はフードバッグ在庫のサービス層。
type Service struct {
	bags      repository.FoodBagRepository
	sanitizer Sanitizer
}

// NewService はServiceを生成する。
func NewService(bags repository.FoodBagRepository, sanitizer Sanitizer) *Service {
	return &Service{
		bags:      bags,
		sanitizer: sanitizer,
	}
}

// Create は店舗ユーザーのフードバッグを登録する。
// AvailableBagsは指定値のまま保存する（0袋の出品も受け付ける）。
func (s *Service) Create(ctx context.Context, owner *model.User, params CreateParams) (*model.FoodBag, error) {
	if err := authz.Authorize(owner, authz.ActionCreateBag); err != nil {
		return nil, err
	}

	bag := &model.FoodBag{
		Name:          s.sanitizer.Sanitize(params.Name),
		Description:   s.sanitizer.Sanitize(params.Description),
		Image:         params.Image,
		Price:         params.Price,
		AvailableBags: params.AvailableBags,
		Address:       s.sanitizer.Sanitize(params.Address),
		OwnerID:       owner.ID,
		UntilTime:     params.UntilTime,
	}

	if err := s.bags.Create(ctx, bag); err != nil {
		return nil, fmt.Errorf("failed to create food bag: %w", err)
	}

	slog.Info("food bag created",
		slog.Int64("bag_id", bag.ID),
		slog.Int64("owner_id", owner.ID),
		slog.Int("available_bags", bag.AvailableBags),
	)

	return bag, nil
}

// Update は所有者によるフードバッグの部分更新を適用する。
// 対象が存在しない場合と呼び出し元が所有者でない場合は区別せず
// FORBIDDENを返す。非所有者にバッグの存在有無を漏らさない。
func (s *Service) Update(ctx context.Context, caller *model.User, bagID int64, params UpdateParams) (*model.FoodBag, error) {
	if err := authz.Authorize(caller, authz.ActionUpdateBag); err != nil {
		return nil, err
	}

	bag, err := s.bags.FindByOwnerAndID(ctx, caller.ID, bagID)
	if err != nil {
		return nil, fmt.Errorf("failed to find food bag: %w", err)
	}
	if bag == nil {
		slog.Warn("food bag update denied",
			slog.Int64("bag_id", bagID),
			slog.Int64("user_id", caller.ID),
			slog.String("reason", "not_owner_or_missing"),
		)
		return nil, model.NewForbiddenError()
	}

	s.applyUpdate(bag, params)

	if err := s.bags.Update(ctx, bag); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// 取得と更新の間に削除された場合も存在有無は漏らさない
			return nil, model.NewForbiddenError()
		}
		return nil, fmt.Errorf("failed to update food bag: %w", err)
	}

	slog.Info("food bag updated",
		slog.Int64("bag_id", bag.ID),
		slog.Int64("owner_id", caller.ID),
	)

	return bag, nil
}

// Delete は所有者によるフードバッグの削除を実行する。
// 不在と非所有は区別せずFORBIDDENを返す。
func (s *Service) Delete(ctx context.Context, caller *model.User, bagID int64) error {
	if err := authz.Authorize(caller, authz.ActionDeleteBag); err != nil {
		return err
	}

	if err := s.bags.Delete(ctx, caller.ID, bagID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			slog.Warn("food bag delete denied",
				slog.Int64("bag_id", bagID),
				slog.Int64("user_id", caller.ID),
				slog.String("reason", "not_owner_or_missing"),
			)
			return model.NewForbiddenError()
		}
		return fmt.Errorf("failed to delete food bag: %w", err)
	}

	slog.Info("food bag deleted",
		slog.Int64("bag_id", bagID),
		slog.Int64("owner_id", caller.ID),
	)

	return nil
}

// ListAvailable は在庫が残っているフードバッグの一覧を返す。認証不要。
func (s *Service) ListAvailable(ctx context.Context) ([]*model.FoodBag, error) {
	bags, err := s.bags.ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list food bags: %w", err)
	}
	return bags, nil
}

// GetByID は指定IDのフードバッグを取得する。
func (s *Service) GetByID(ctx context.Context, bagID int64) (*model.FoodBag, error) {
	bag, err := s.bags.FindByID(ctx, bagID)
	if err != nil {
		return nil, fmt.Errorf("failed to find food bag: %w", err)
	}
	if bag == nil {
		return nil, model.NewBagNotFoundError(bagID)
	}
	return bag, nil
}

// applyUpdate は指定されたフィールドのみを反映する。
// ゼロ値のフィールドは「未指定」と同じ扱いで無視する。
func (s *Service) applyUpdate(bag *model.FoodBag, params UpdateParams) {
	if params.Name != nil && *params.Name != "" {
		bag.Name = s.sanitizer.Sanitize(*params.Name)
	}
	if params.Description != nil && *params.Description != "" {
		bag.Description = s.sanitizer.Sanitize(*params.Description)
	}
	if params.Image != nil && *params.Image != "" {
		bag.Image = *params.Image
	}
	if params.Price != nil && *params.Price != 0 {
		bag.Price = *params.Price
	}
	if params.AvailableBags != nil && *params.AvailableBags != 0 {
		bag.AvailableBags = *params.AvailableBags
	}
	if params.Address != nil && *params.Address != "" {
		bag.Address = s.sanitizer.Sanitize(*params.Address)
	}
	if params.UntilTime != nil && !params.UntilTime.IsZero() {
		bag.UntilTime = *params.UntilTime
	}
}
