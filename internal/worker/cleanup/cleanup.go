// Package cleanup は期限切れセッションの自動削除ジョブを提供する。
// expires_atを超過したセッション行を日次バッチで削除する。
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// ExpiredSessionDeleter は期限切れセッションの削除を抽象化するインターフェース。
// repository.SessionRepositoryのサブセット。
type ExpiredSessionDeleter interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// SessionSweepJob は期限切れセッションの自動削除ジョブ。
// 日次実行のバッチジョブとして設計されており、冪等な削除処理を保証する。
type SessionSweepJob struct {
	sessions ExpiredSessionDeleter
	logger   *slog.Logger
}

// NewSessionSweepJob は新しいSessionSweepJobを生成する。
func NewSessionSweepJob(sessions ExpiredSessionDeleter, logger *slog.Logger) *SessionSweepJob {
	return &SessionSweepJob{
		sessions: sessions,
		logger:   logger,
	}
}

// Run は期限切れセッションを削除する。
// 冪等: 削除対象がない場合でもエラーにならない。
func (j *SessionSweepJob) Run(ctx context.Context) error {
	start := time.Now()

	deletedCount, err := j.sessions.DeleteExpired(ctx)
	if err != nil {
		j.logger.Error("セッションクリーンアップジョブの実行に失敗しました",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("セッションクリーンアップの実行に失敗: %w", err)
	}

	duration := time.Since(start)
	j.logger.Info("セッションクリーンアップジョブが完了しました",
		slog.Int64("deleted_count", deletedCount),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}
