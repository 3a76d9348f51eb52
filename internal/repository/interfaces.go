// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/takumi/fukubukuro/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成し、採番されたIDとタイムスタンプをuserに書き戻す。
	// email重複時はErrDuplicateEmailを返す。重複判定の最終防衛線は
	// ストレージの一意制約であり、並行した同一emailの登録は1件だけ成功する。
	Create(ctx context.Context, user *model.User) error

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.User, error)

	// FindByName は表示名が一致する最初のユーザーを取得する。見つからない場合はnilを返す。
	// 表示名に一意制約はないため、複数一致する場合はID順の先頭を返す。
	FindByName(ctx context.Context, name string) (*model.User, error)

	// FindByEmail は指定emailのユーザーを取得する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成し、採番されたIDをsessionに書き戻す。
	Create(ctx context.Context, session *model.Session) error

	// FindByToken は有効期限内のセッションを取得する。
	// 未知のトークンと期限切れのトークンはどちらもnilを返す。
	FindByToken(ctx context.Context, token string) (*model.Session, error)

	// DeleteByToken は指定トークンのセッションを削除する。
	// 対象が存在しない場合はErrNotFoundを返す。
	DeleteByToken(ctx context.Context, token string) error

	// DeleteExpired は期限切れセッションを削除し、削除件数を返す。冪等。
	DeleteExpired(ctx context.Context) (int64, error)
}

// FoodBagRepository はフードバッグデータの永続化インターフェース。
type FoodBagRepository interface {
	// Create はフードバッグを作成し、採番されたIDとタイムスタンプをbagに書き戻す。
	Create(ctx context.Context, bag *model.FoodBag) error

	// FindByID は指定IDのフードバッグを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.FoodBag, error)

	// FindByOwnerAndID は所有者スコープでフードバッグを取得する。
	// 「存在しない」と「所有していない」はどちらもnilを返し、区別しない。
	// 非所有者にバッグの存在有無を漏らさないための仕様。
	FindByOwnerAndID(ctx context.Context, ownerID, id int64) (*model.FoodBag, error)

	// Update はフードバッグの全フィールドを所有者スコープで上書きする。
	// 対象が存在しない場合はErrNotFoundを返す。
	Update(ctx context.Context, bag *model.FoodBag) error

	// Delete は所有者スコープでフードバッグを削除する。
	// 対象が存在しない場合はErrNotFoundを返す。
	Delete(ctx context.Context, ownerID, id int64) error

	// ListAvailable はavailable_bags > 0のフードバッグを返す。
	// 並び順はストレージ任せで保証しない。
	ListAvailable(ctx context.Context) ([]*model.FoodBag, error)
}

// BookingRepository は予約データの永続化インターフェース。
type BookingRepository interface {
	// CreateWithDecrement は対象バッグの在庫の条件付き減算と予約行の挿入を
	// 単一トランザクションで実行し、採番されたIDをbookingに書き戻す。
	// 在庫が0の場合はErrNoStockを返し、どちらの変更もコミットされない。
	// 減算は在庫が正の場合のみ行われるため、並行予約下でも在庫は負にならない。
	CreateWithDecrement(ctx context.Context, booking *model.Booking) error

	// CountByBagID は指定バッグの予約件数を返す。監査・検証用の読み取り専用操作。
	CountByBagID(ctx context.Context, bagID int64) (int, error)
}
