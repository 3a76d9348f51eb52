// Package booking はフードバッグ予約のドメインロジックを提供する。
package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/takumi/fukubukuro/internal/authz"
	"github.com/takumi/fukubukuro/internal/model"
	"github.com/takumi/fukubukuro/internal/repository"
)

// Collector は予約結果のメトリクス記録インターフェース。
type Collector interface {
	RecordBookingSuccess()
	RecordBookingSoldOut()
}

// Result は予約確定の内容。
type Result struct {
	Booking *model.Booking
	Message string
}

// Service はフードバッグ予約のサービス層。
//
// 在庫の減算と予約行の挿入の原子性はリポジトリのトランザクションが
// 保証する。ここではロール検査・対象の存在確認・結果の組み立てを行い、
// リクエスト単位の直列化には依存しない。
type Service struct {
	bags     repository.FoodBagRepository
	bookings repository.BookingRepository
	metrics  Collector
}

// NewService はServiceを生成する。metricsはnilでもよい。
func NewService(bags repository.FoodBagRepository, bookings repository.BookingRepository, metrics Collector) *Service {
	return &Service{
		bags:     bags,
		bookings: bookings,
		metrics:  metrics,
	}
}

// Book はクライアントのためにバッグ1袋を予約する。
//
// 在庫K袋のバッグにN件の予約が並行して到達した場合、成功するのは
// ちょうどK件で、予約行もK件だけ作成される。残りはSOLD_OUTで失敗し、
// 予約行を作成しない。
func (s *Service) Book(ctx context.Context, client *model.User, bagID int64) (*Result, error) {
	if err := authz.Authorize(client, authz.ActionBookBag); err != nil {
		return nil, err
	}

	bag, err := s.bags.FindByID(ctx, bagID)
	if err != nil {
		return nil, fmt.Errorf("failed to find food bag: %w", err)
	}
	if bag == nil {
		return nil, model.NewBagNotFoundError(bagID)
	}

	booking := &model.Booking{
		UserID: client.ID,
		BagID:  bag.ID,
	}

	if err := s.bookings.CreateWithDecrement(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrNoStock) {
			if s.metrics != nil {
				s.metrics.RecordBookingSoldOut()
			}
			slog.Info("booking rejected: sold out",
				slog.Int64("bag_id", bag.ID),
				slog.Int64("user_id", client.ID),
			)
			return nil, model.NewSoldOutError()
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordBookingSuccess()
	}
	slog.Info("food bag booked",
		slog.Int64("booking_id", booking.ID),
		slog.Int64("bag_id", bag.ID),
		slog.Int64("user_id", client.ID),
	)

	return &Result{
		Booking: booking,
		Message: fmt.Sprintf("User %s has booked a Food bag %s", client.Name, bag.Name),
	}, nil
}
