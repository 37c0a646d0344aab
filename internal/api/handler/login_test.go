package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/orgstack/orghub/internal/session"
)

type mockSessions struct {
	fn func(email, password string) (*session.LoginResult, error)
}

func (m *mockSessions) Login(_ context.Context, email, password string) (*session.LoginResult, error) {
	return m.fn(email, password)
}

func TestLogin_Success(t *testing.T) {
	svc := &mockSessions{fn: func(email, password string) (*session.LoginResult, error) {
		if email != "a@x.com" || password != "pw123" {
			t.Fatalf("unexpected args: %s %s", email, password)
		}
		return &session.LoginResult{
			AccessToken: "header.payload.signature",
			TokenType:   "bearer",
			OrgID:       "Tesla",
		}, nil
	}}
	h := NewLoginHandler(svc)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, jsonReq(t, http.MethodPost, "/admin/login", map[string]string{
		"email":    "a@x.com",
		"password": "pw123",
	}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["access_token"] != "header.payload.signature" {
		t.Errorf("unexpected access_token: %v", body["access_token"])
	}
	if body["token_type"] != "bearer" {
		t.Errorf("expected bearer, got %v", body["token_type"])
	}
	if body["org_id"] != "Tesla" {
		t.Errorf("expected Tesla, got %v", body["org_id"])
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := &mockSessions{fn: func(_, _ string) (*session.LoginResult, error) {
		return nil, session.ErrInvalidCredentials
	}}
	h := NewLoginHandler(svc)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, jsonReq(t, http.MethodPost, "/admin/login", map[string]string{
		"email":    "a@x.com",
		"password": "wrong",
	}))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if code := errCode(t, rec); code != "INVALID_CREDENTIALS" {
		t.Errorf("expected INVALID_CREDENTIALS, got %s", code)
	}
}

func TestLogin_SameShapeForUnknownEmailAndWrongPassword(t *testing.T) {
	// Both failure modes come back as the identical error value, so the
	// endpoint cannot leak which admin emails exist.
	svc := &mockSessions{fn: func(_, _ string) (*session.LoginResult, error) {
		return nil, session.ErrInvalidCredentials
	}}
	h := NewLoginHandler(svc)

	rec1 := httptest.NewRecorder()
	h.ServeHTTP(rec1, jsonReq(t, http.MethodPost, "/admin/login", map[string]string{
		"email": "nobody@x.com", "password": "pw123",
	}))
	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, jsonReq(t, http.MethodPost, "/admin/login", map[string]string{
		"email": "a@x.com", "password": "wrong",
	}))

	if rec1.Code != rec2.Code {
		t.Errorf("status differs: %d vs %d", rec1.Code, rec2.Code)
	}
	if rec1.Body.String() != rec2.Body.String() {
		t.Errorf("body differs: %s vs %s", rec1.Body.String(), rec2.Body.String())
	}
}

func TestLogin_Validation(t *testing.T) {
	svc := &mockSessions{fn: func(_, _ string) (*session.LoginResult, error) {
		t.Fatal("service must not be called for invalid input")
		return nil, nil
	}}
	h := NewLoginHandler(svc)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing email", map[string]string{"password": "pw"}},
		{"bad email", map[string]string{"email": "not-an-email", "password": "pw"}},
		{"missing password", map[string]string{"email": "a@x.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, jsonReq(t, http.MethodPost, "/admin/login", tt.body))

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestLogin_StorageError(t *testing.T) {
	svc := &mockSessions{fn: func(_, _ string) (*session.LoginResult, error) {
		return nil, errors.New("connection refused")
	}}
	h := NewLoginHandler(svc)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, jsonReq(t, http.MethodPost, "/admin/login", map[string]string{
		"email":    "a@x.com",
		"password": "pw123",
	}))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
