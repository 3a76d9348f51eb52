package repository

import (
	"context"
	"database/sql/driver"
	"errors"

	"github.com/lib/pq"
)

// ストレージ操作の結果を表す番兵エラー。サービス層でAPIエラー種別に変換される。
var (
	// ErrNotFound は対象レコードが存在しないことを表す。
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail はusers.emailの一意制約違反を表す。
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrNoStock は在庫0のバッグへの予約で条件付きUPDATEが空振りしたことを表す。
	ErrNoStock = errors.New("no available bags")
)

// uniqueViolation は一意制約違反のSQLSTATE。
const uniqueViolation = "23505"

// IsUnavailable はエラーがストレージの一時的な障害（接続断・タイムアウト等）
// によるものかを判定する。trueの場合のみ呼び出し側のリトライに意味がある。
func IsUnavailable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// クラス08: 接続例外、クラス57: 管理側からの切断
		switch pqErr.Code.Class() {
		case "08", "57":
			return true
		}
	}
	return false
}

// isUniqueViolation はエラーが一意制約違反かを判定する。
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}
