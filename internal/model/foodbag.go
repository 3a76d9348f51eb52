package model

import "time"

// FoodBag は店舗が出品する余剰食品の袋を表す。
// AvailableBagsは予約のたびに1ずつ減算される競合リソースで、
// いかなる経路でも負になってはならない。
type FoodBag struct {
	ID            int64
	Name          string
	Description   string
	Image         string // 画像参照。任意項目で、空文字列は未設定を表す。
	Price         float64
	AvailableBags int
	Address       string
	OwnerID       int64 // establishmentロールのユーザーを参照する
	UntilTime     time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Booking はクライアントがフードバッグを1袋予約した監査レコードを表す。
// 作成後は更新も削除もされない。あるバッグの予約件数は、
// そのバッグのAvailableBagsに適用された減算の総数と常に一致する。
type Booking struct {
	ID        int64
	UserID    int64
	BagID     int64
	CreatedAt time.Time
}
