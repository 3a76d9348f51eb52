// Package model はドメインモデルを定義する。
package model

import "time"

// Role はユーザーの役割を表す閉じた列挙。作成時に確定し、以後変更されない。
type Role string

const (
	// RoleClient はフードバッグを予約できる利用者。
	RoleClient Role = "client"
	// RoleEstablishment はフードバッグを出品・管理できる店舗。
	RoleEstablishment Role = "establishment"
)

// ParseRole は外部入力の文字列をRoleに変換する。
// 未知の値に対してはfalseを返す。
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleClient:
		return RoleClient, true
	case RoleEstablishment:
		return RoleEstablishment, true
	default:
		return "", false
	}
}

// User はサービス利用ユーザーを表す。
// PasswordHashはargon2idのPHC形式文字列で、平文パスワードは保持しない。
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session はユーザーのログインセッションを表す。
// Tokenは外部に渡される資格情報で、暗号論的乱数から生成される。
// 同一ユーザーの並行セッションに制限はない。
type Session struct {
	ID        int64
	Token     string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}
