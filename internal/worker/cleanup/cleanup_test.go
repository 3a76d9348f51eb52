package cleanup

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
)

// --- モック定義 ---

type mockSessionDeleter struct {
	deleteExpiredFn func(ctx context.Context) (int64, error)
	calls           int
}

func (m *mockSessionDeleter) DeleteExpired(ctx context.Context) (int64, error) {
	m.calls++
	if m.deleteExpiredFn != nil {
		return m.deleteExpiredFn(ctx)
	}
	return 0, nil
}

type recordingCollector struct {
	cleaned int64
}

func (c *recordingCollector) RecordSessionsCleaned(count int64) {
	c.cleaned += count
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// --- テスト ---

func TestCleanupJob_Run_DeletesExpiredSessions(t *testing.T) {
	deleter := &mockSessionDeleter{
		deleteExpiredFn: func(ctx context.Context) (int64, error) {
			return 3, nil
		},
	}
	collector := &recordingCollector{}

	job := NewCleanupJob(deleter, collector, testLogger())

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if deleter.calls != 1 {
		t.Errorf("DeleteExpired called %d times, want 1", deleter.calls)
	}
	if collector.cleaned != 3 {
		t.Errorf("recorded cleaned count = %d, want 3", collector.cleaned)
	}
}

// 削除対象がなくてもエラーにならない（冪等性）。
func TestCleanupJob_Run_NothingToDelete(t *testing.T) {
	deleter := &mockSessionDeleter{}

	job := NewCleanupJob(deleter, nil, testLogger())

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	// 2回目も成功する
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("second Run returned error: %v", err)
	}
}

func TestCleanupJob_Run_PropagatesError(t *testing.T) {
	wantErr := errors.New("connection refused")
	deleter := &mockSessionDeleter{
		deleteExpiredFn: func(ctx context.Context) (int64, error) {
			return 0, wantErr
		},
	}

	job := NewCleanupJob(deleter, nil, testLogger())

	err := job.Run(context.Background())
	if err == nil {
		t.Fatal("Run returned nil error")
	}
	if !errors.Is(err, wantErr) {
		t.Errorf("error = %v, want wrapped %v", err, wantErr)
	}
}
