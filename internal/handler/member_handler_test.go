package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/commune/internal/model"
)

// --- モック定義 ---

type mockMemberService struct {
	joinFn func(ctx context.Context, email string) error
}

func (m *mockMemberService) Join(ctx context.Context, email string) error {
	if m.joinFn != nil {
		return m.joinFn(ctx, email)
	}
	return nil
}

// --- テスト ---

func TestMemberHandler_Join_Success(t *testing.T) {
	var capturedEmail string
	h := NewMemberHandler(&mockMemberService{
		joinFn: func(ctx context.Context, email string) error {
			capturedEmail = email
			return nil
		},
	})

	body := bytes.NewBufferString(`{"email":"taro@example.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/community-join", body)
	w := httptest.NewRecorder()

	h.Join(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if capturedEmail != "taro@example.com" {
		t.Errorf("email = %q, want %q", capturedEmail, "taro@example.com")
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if result["ok"] != true {
		t.Errorf("ok = %v, want true", result["ok"])
	}
}

func TestMemberHandler_Join_InvalidEmail_Returns400(t *testing.T) {
	h := NewMemberHandler(&mockMemberService{
		joinFn: func(ctx context.Context, email string) error {
			return model.NewInvalidEmailError()
		},
	})

	body := bytes.NewBufferString(`{"email":"not-an-email"}`)
	req := httptest.NewRequest(http.MethodPost, "/community-join", body)
	w := httptest.NewRecorder()

	h.Join(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if result["ok"] != false {
		t.Errorf("ok = %v, want false", result["ok"])
	}
	if result["error"] != "Please enter a valid email address." {
		t.Errorf("error = %q, want %q", result["error"], "Please enter a valid email address.")
	}
}

func TestMemberHandler_Join_DuplicateEmail_Returns409(t *testing.T) {
	h := NewMemberHandler(&mockMemberService{
		joinFn: func(ctx context.Context, email string) error {
			return model.NewDuplicateEmailError()
		},
	})

	body := bytes.NewBufferString(`{"email":"taro@example.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/community-join", body)
	w := httptest.NewRecorder()

	h.Join(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusConflict)
	}

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if result["error"] != "This email is already on the list." {
		t.Errorf("error = %q, want %q", result["error"], "This email is already on the list.")
	}
}

func TestMemberHandler_Join_RepositoryError_Returns500GenericMessage(t *testing.T) {
	h := NewMemberHandler(&mockMemberService{
		joinFn: func(ctx context.Context, email string) error {
			return errors.New("pq: connection refused")
		},
	})

	body := bytes.NewBufferString(`{"email":"taro@example.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/community-join", body)
	w := httptest.NewRecorder()

	h.Join(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusInternalServerError)
	}

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	// 内部エラーの詳細は漏らさない
	if result["error"] != "Something went wrong. Please try again." {
		t.Errorf("error = %q, want %q", result["error"], "Something went wrong. Please try again.")
	}
}

func TestMemberHandler_Join_MalformedBody_Returns400(t *testing.T) {
	h := NewMemberHandler(&mockMemberService{
		joinFn: func(ctx context.Context, email string) error {
			t.Fatal("service should not be called")
			return nil
		},
	})

	body := bytes.NewBufferString(`{not json`)
	req := httptest.NewRequest(http.MethodPost, "/community-join", body)
	w := httptest.NewRecorder()

	h.Join(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}
