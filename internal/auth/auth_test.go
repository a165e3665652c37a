// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/vodarchive/internal/config"
	"github.com/tomtom215/vodarchive/internal/models"
)

const testSecret = "this_is_a_very_long_secret_key_with_32_plus_characters"

func testSecurity(password string) *config.SecurityConfig {
	return &config.SecurityConfig{
		EditorPassword: password,
		JWTSecret:      testSecret,
		SessionTimeout: time.Hour,
	}
}

func TestNewJWTManager(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr bool
	}{
		{"valid secret", testSecret, false},
		{"empty secret", "", true},
		{"short secret", "too-short", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager, err := NewJWTManager(&config.SecurityConfig{JWTSecret: tt.secret, SessionTimeout: time.Hour})
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewJWTManager() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && manager == nil {
				t.Error("NewJWTManager() returned nil manager")
			}
		})
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	manager, err := NewJWTManager(testSecurity(""))
	if err != nil {
		t.Fatal(err)
	}

	token, expires, err := manager.GenerateToken(RoleEditor)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if d := time.Until(expires); d < 59*time.Minute || d > time.Hour {
		t.Errorf("expires in %v, want about 1h", d)
	}

	claims, err := manager.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.Role != RoleEditor || claims.Issuer != issuer || claims.ID == "" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestValidateToken_Rejects(t *testing.T) {
	manager, _ := NewJWTManager(testSecurity(""))
	other, _ := NewJWTManager(&config.SecurityConfig{JWTSecret: strings.Repeat("x", 40), SessionTimeout: time.Hour})
	foreign, _, _ := other.GenerateToken(RoleEditor)

	expiredManager, _ := NewJWTManager(testSecurity(""))
	expiredManager.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, _ := expiredManager.GenerateToken(RoleEditor)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Role: RoleEditor})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	for name, token := range map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": foreign,
		"expired":      expired,
		"alg none":     unsigned,
	} {
		if _, err := manager.ValidateToken(token); err == nil {
			t.Errorf("%s: ValidateToken() accepted the token", name)
		}
	}
}

func TestEditorLogin(t *testing.T) {
	editor, err := NewEditor(testSecurity("correct horse"))
	if err != nil {
		t.Fatalf("NewEditor() error = %v", err)
	}
	if !editor.Enabled() {
		t.Fatal("Enabled() = false with a password set")
	}

	if _, _, err := editor.Login("wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login(wrong) error = %v, want ErrInvalidCredentials", err)
	}
	token, _, err := editor.Login("correct horse")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if _, err := editor.Verify(token); err != nil {
		t.Errorf("Verify() error = %v", err)
	}
}

func TestEditorDisabled(t *testing.T) {
	editor, err := NewEditor(testSecurity(""))
	if err != nil {
		t.Fatalf("NewEditor() error = %v", err)
	}
	if editor.Enabled() {
		t.Fatal("Enabled() = true without a password")
	}
	if _, _, err := editor.Login("anything"); !errors.Is(err, ErrEditorDisabled) {
		t.Errorf("Login() error = %v, want ErrEditorDisabled", err)
	}
}

func TestEditorRequiresSecret(t *testing.T) {
	cfg := testSecurity("pw")
	cfg.JWTSecret = ""
	if _, err := NewEditor(cfg); err == nil {
		t.Error("NewEditor() without JWT_SECRET should fail")
	}
}

func TestRequireEditor(t *testing.T) {
	enabled, err := NewEditor(testSecurity("pw"))
	if err != nil {
		t.Fatal(err)
	}
	token, _, err := enabled.Login("pw")
	if err != nil {
		t.Fatal(err)
	}
	disabled, _ := NewEditor(testSecurity(""))

	tests := []struct {
		name     string
		editor   *Editor
		header   string
		cookie   string
		want     int
		wantCode string
	}{
		{name: "bearer token", editor: enabled, header: "Bearer " + token, want: http.StatusNoContent},
		{name: "cookie token", editor: enabled, cookie: token, want: http.StatusNoContent},
		{name: "missing token", editor: enabled, want: http.StatusUnauthorized, wantCode: "AUTHENTICATION_ERROR"},
		{name: "basic scheme", editor: enabled, header: "Basic abc", want: http.StatusUnauthorized, wantCode: "AUTHENTICATION_ERROR"},
		{name: "bad token", editor: enabled, header: "Bearer nope", want: http.StatusUnauthorized, wantCode: "AUTHENTICATION_ERROR"},
		{name: "disabled", editor: disabled, header: "Bearer " + token, want: http.StatusServiceUnavailable, wantCode: "EDITOR_DISABLED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotClaims bool
			h := NewMiddleware(tt.editor).RequireEditor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, gotClaims = ClaimsFromContext(r.Context())
				w.WriteHeader(http.StatusNoContent)
			}))

			req := httptest.NewRequest(http.MethodPost, "/api/v1/sync", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "token", Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.wantCode == "" {
				if !gotClaims {
					t.Error("handler did not see claims")
				}
				return
			}
			var resp models.APIResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != "error" || resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Errorf("response = %+v, want error code %s", resp, tt.wantCode)
			}
		})
	}
}
