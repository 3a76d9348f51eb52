// Package session はセッショントークンの発行・解決・失効を提供する。
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/takumi/fukubukuro/internal/model"
	"github.com/takumi/fukubukuro/internal/repository"
)

// Config はセッションサービスの設定。
type Config struct {
	MaxAge int // セッション有効期間（秒）
}

// Collector はセッション発行のメトリクス記録インターフェース。
type Collector interface {
	RecordSessionCreated()
}

// Service はセッショントークンのライフサイクルを管理する。
// トークンの状態遷移は 発行 → 有効 → 失効 のみで、
// 有効期限切れは解決時の照会条件として扱われる。
type Service struct {
	sessions repository.SessionRepository
	users    repository.UserRepository
	metrics  Collector
	config   Config
}

// NewService はServiceを生成する。metricsはnilでもよい。
func NewService(sessions repository.SessionRepository, users repository.UserRepository, metrics Collector, config Config) *Service {
	return &Service{
		sessions: sessions,
		users:    users,
		metrics:  metrics,
		config:   config,
	}
}

// Create はユーザーに紐づくセッションを発行して永続化する。
// 同一ユーザーの並行セッションは制限しない。
func (s *Service) Create(ctx context.Context, userID int64) (*model.Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	session := &model.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Duration(s.config.MaxAge) * time.Second),
		CreatedAt: time.Now(),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordSessionCreated()
	}
	slog.Info("session created", slog.Int64("user_id", userID))

	return session, nil
}

// Resolve はトークンからユーザーを解決する。
// 未提示・未知・期限切れのトークンはいずれもUNAUTHENTICATED。
func (s *Service) Resolve(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, model.NewUnauthenticatedError()
	}

	session, err := s.sessions.FindByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return nil, model.NewUnauthenticatedError()
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUnauthenticatedError()
	}

	return user, nil
}

// Revoke はトークンを失効させる。未知のトークンはUNAUTHENTICATED。
func (s *Service) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return model.NewUnauthenticatedError()
	}

	if err := s.sessions.DeleteByToken(ctx, token); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.NewUnauthenticatedError()
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("session revoked")
	return nil
}

// generateToken は暗号論的に安全な256ビットのトークンを生成する。
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
