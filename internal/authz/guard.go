// Package authz はロールに基づく認可判定を提供する。
//
// 判定は状態を持たない純粋な関数で、ロールと操作の閉じた列挙に対する
// 網羅的なswitchで表現する。文字列比較による判定は行わない。
// 所有権の検証は対象リソースを知る在庫層が所有者スコープの照会で行う。
package authz

import (
	"log/slog"

	"github.com/takumi/fukubukuro/internal/model"
)

// Action は認可対象の操作を表す閉じた列挙。
type Action int

const (
	// ActionCreateBag はフードバッグの出品。establishmentのみ。
	ActionCreateBag Action = iota
	// ActionUpdateBag はフードバッグの更新。所有者のみ（在庫層で検証）。
	ActionUpdateBag
	// ActionDeleteBag はフードバッグの削除。所有者のみ（在庫層で検証）。
	ActionDeleteBag
	// ActionListBags は出品一覧の閲覧。未認証でも可。
	ActionListBags
	// ActionBookBag はフードバッグの予約。clientのみ。
	ActionBookBag
)

// String はログ出力用の操作名を返す。
func (a Action) String() string {
	switch a {
	case ActionCreateBag:
		return "create_bag"
	case ActionUpdateBag:
		return "update_bag"
	case ActionDeleteBag:
		return "delete_bag"
	case ActionListBags:
		return "list_bags"
	case ActionBookBag:
		return "book_bag"
	default:
		return "unknown"
	}
}

// Authorize はユーザーのロールがactionの要件を満たすかを判定する。
// 拒否は外部には一律のFORBIDDENとして返し、具体的な理由
// （ロール不一致か所有権不一致か）はログにのみ残す。
func Authorize(user *model.User, action Action) error {
	switch action {
	case ActionListBags:
		// 未認証でも閲覧できる
		return nil

	case ActionCreateBag:
		if user == nil {
			logDenial(user, action, "unauthenticated")
			return model.NewUnauthenticatedError()
		}
		if user.Role != model.RoleEstablishment {
			logDenial(user, action, "role_mismatch")
			return model.NewForbiddenError()
		}
		return nil

	case ActionBookBag:
		if user == nil {
			logDenial(user, action, "unauthenticated")
			return model.NewUnauthenticatedError()
		}
		if user.Role != model.RoleClient {
			logDenial(user, action, "role_mismatch")
			return model.NewForbiddenError()
		}
		return nil

	case ActionUpdateBag, ActionDeleteBag:
		// ロールは問わない。所有者本人かどうかは在庫層が検証する。
		if user == nil {
			logDenial(user, action, "unauthenticated")
			return model.NewUnauthenticatedError()
		}
		return nil
	}

	logDenial(user, action, "unknown_action")
	return model.NewForbiddenError()
}

// logDenial は認可拒否の内部記録を出力する。
func logDenial(user *model.User, action Action, reason string) {
	args := []any{
		slog.String("action", action.String()),
		slog.String("reason", reason),
	}
	if user != nil {
		args = append(args,
			slog.Int64("user_id", user.ID),
			slog.String("role", string(user.Role)),
		)
	}
	slog.Warn("authorization denied", args...)
}
