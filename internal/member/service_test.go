package member

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hitoshi/commune/internal/model"
	"github.com/hitoshi/commune/internal/repository"
)

type mockJoinRepo struct {
	createFn func(ctx context.Context, email string) error
}

func (m *mockJoinRepo) Create(ctx context.Context, email string) error {
	if m.createFn != nil {
		return m.createFn(ctx, email)
	}
	return nil
}

var _ repository.JoinRepository = (*mockJoinRepo)(nil)

// 有効なメールアドレスが登録されることを検証
func TestJoin_ValidEmail(t *testing.T) {
	var saved string
	repo := &mockJoinRepo{
		createFn: func(ctx context.Context, email string) error {
			saved = email
			return nil
		},
	}
	svc := NewService(repo)

	if err := svc.Join(context.Background(), "jane@example.com"); err != nil {
		t.Fatalf("Join() error = %v", err)
	}
	if saved != "jane@example.com" {
		t.Errorf("saved email = %q, want %q", saved, "jane@example.com")
	}
}

// 前後の空白が除去されてから検証・登録されることを検証
func TestJoin_TrimsWhitespace(t *testing.T) {
	var saved string
	repo := &mockJoinRepo{
		createFn: func(ctx context.Context, email string) error {
			saved = email
			return nil
		},
	}
	svc := NewService(repo)

	if err := svc.Join(context.Background(), "  jane@example.com  "); err != nil {
		t.Fatalf("Join() error = %v", err)
	}
	if saved != "jane@example.com" {
		t.Errorf("saved email = %q, want trimmed", saved)
	}
}

// 不正な形式のメールアドレスが拒否されることを検証
func TestJoin_InvalidFormat(t *testing.T) {
	tests := []struct {
		name  string
		email string
	}{
		{"空文字", ""},
		{"空白のみ", "   "},
		{"アットマーク無し", "janeexample.com"},
		{"ドメインにドット無し", "jane@example"},
		{"空白を含む", "jane doe@example.com"},
		{"アットマーク二重", "jane@@example.com"},
		{"255文字超", strings.Repeat("a", 250) + "@example.com"},
	}

	svc := NewService(&mockJoinRepo{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Join(context.Background(), tt.email)

			var apiErr *model.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.Code != model.ErrCodeInvalidEmail {
				t.Errorf("error code = %q, want %q", apiErr.Code, model.ErrCodeInvalidEmail)
			}
			if apiErr.Message != "Please enter a valid email address." {
				t.Errorf("error message = %q", apiErr.Message)
			}
		})
	}
}

// 登録済みメールアドレスで専用エラーが返ることを検証
func TestJoin_DuplicateEmail(t *testing.T) {
	repo := &mockJoinRepo{
		createFn: func(ctx context.Context, email string) error {
			return repository.ErrDuplicateEmail
		},
	}
	svc := NewService(repo)

	err := svc.Join(context.Background(), "jane@example.com")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeDuplicateEmail {
		t.Errorf("error code = %q, want %q", apiErr.Code, model.ErrCodeDuplicateEmail)
	}
	if apiErr.Message != "This email is already on the list." {
		t.Errorf("error message = %q", apiErr.Message)
	}
}

// その他のリポジトリエラーはそのまま伝播することを検証
func TestJoin_RepoError(t *testing.T) {
	dbErr := errors.New("connection refused")
	repo := &mockJoinRepo{
		createFn: func(ctx context.Context, email string) error {
			return dbErr
		},
	}
	svc := NewService(repo)

	err := svc.Join(context.Background(), "jane@example.com")
	if !errors.Is(err, dbErr) {
		t.Errorf("error = %v, want wrapped %v", err, dbErr)
	}
}
