// Package member はニュースレター登録（コミュニティ参加）を提供する。
package member

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"github.com/hitoshi/commune/internal/model"
	"github.com/hitoshi/commune/internal/repository"
)

// maxEmailLength は受け付けるメールアドレスの最大長。
const maxEmailLength = 255

// emailPattern は登録メールアドレスの形式チェック。
// 厳密なRFC検証ではなく、local@domain.tld の骨格だけを見る。
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Service はニュースレター登録のビジネスロジックを提供する。
type Service struct {
	joinRepo repository.JoinRepository
}

// NewService はServiceを生成する。
func NewService(joinRepo repository.JoinRepository) *Service {
	return &Service{joinRepo: joinRepo}
}

// Join はメールアドレスを検証して登録する。
// 形式不正はINVALID_EMAIL、登録済みはDUPLICATE_EMAILを返す。
func (s *Service) Join(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)

	if email == "" || len(email) > maxEmailLength || !emailPattern.MatchString(email) {
		return model.NewInvalidEmailError()
	}

	if err := s.joinRepo.Create(ctx, email); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.NewDuplicateEmailError()
		}
		return err
	}

	slog.Info("newsletter signup", slog.String("email", email))
	return nil
}
