// Package identity はユーザー登録と資格情報検証のドメインロジックを提供する。
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/takumi/fukubukuro/internal/model"
	"github.com/takumi/fukubukuro/internal/repository"
)

// dummyHash は存在しないユーザー名に対する検証で消費するダミーハッシュ。
// ユーザーの有無で検証コストに差が出ないよう、どちらの分岐でも
// 同じ重さのハッシュ計算を1回行うために使う。
var dummyHash = mustHash("fukubukuro-dummy-credential")

func mustHash(password string) string {
	h, err := HashPassword(password)
	if err != nil {
		// crypto/randが使えない環境ではプロセスを継続できない
		panic(fmt.Sprintf("identity: failed to build dummy hash: %v", err))
	}
	return h
}

// Service はユーザー登録と資格情報検証のサービス層。
type Service struct {
	users repository.UserRepository
}

// NewService はServiceを生成する。
func NewService(users repository.UserRepository) *Service {
	return &Service{users: users}
}

// Signup は新規ユーザーを登録する。
// email重複の判定は事前照会ではなくストレージの一意制約に委ねるため、
// 並行した同一emailの登録はちょうど1件だけ成功し、残りはDUPLICATE_EMAILになる。
func (s *Service) Signup(ctx context.Context, name, email, password string, role model.Role) (*model.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, model.NewDuplicateEmailError()
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user registered",
		slog.Int64("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)

	return user, nil
}

// VerifyCredentials は表示名とパスワードでユーザーを認証する。
// 未知のユーザー名とパスワード不一致はどちらもINVALID_CREDENTIALSで、
// 呼び出し側から区別できない。どちらの分岐でもハッシュ検証を1回実行し、
// 応答時間からユーザーの存在が推測できないようにする。
func (s *Service) VerifyCredentials(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.users.FindByName(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if user == nil {
		VerifyPassword(dummyHash, password)
		return nil, model.NewInvalidCredentialsError()
	}

	if !VerifyPassword(user.PasswordHash, password) {
		return nil, model.NewInvalidCredentialsError()
	}

	return user, nil
}

// GetUserByID は指定IDのユーザーを取得する。
func (s *Service) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}
	return user, nil
}
