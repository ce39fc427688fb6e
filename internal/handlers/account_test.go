package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2"

	"cardly/internal/templates"
	"cardly/models"
)

func postAccountForm(t *testing.T, sm *scs.SessionManager, handler http.HandlerFunc, target string, values url.Values, htmx bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		req.Header.Set(hxRequestHeader, "true")
	}
	ctx, err := sm.Load(req.Context(), "")
	if err != nil {
		t.Fatalf("failed to load session context: %v", err)
	}
	req = req.WithContext(ctx)
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestSignupProblem(t *testing.T) {
	tests := []struct {
		name string
		form accountForm
		want string
	}{
		{"valid", accountForm{Email: "a@example.com", Password: "longenough", Confirm: "longenough"}, ""},
		{"missing email", accountForm{Password: "longenough", Confirm: "longenough"}, msgInvalidEmail},
		{"email without at", accountForm{Email: "example.com", Password: "longenough", Confirm: "longenough"}, msgInvalidEmail},
		{"short password", accountForm{Email: "a@example.com", Password: "short", Confirm: "short"}, msgPasswordTooShort},
		{"mismatch", accountForm{Email: "a@example.com", Password: "longenough", Confirm: "different"}, msgPasswordMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.form.signupProblem(); got != tt.want {
				t.Fatalf("signupProblem() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSignupCreatesAccountOnConfiguredDefault(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	db, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)
	t.Cleanup(func() { ConfigureTemplates(templates.Builtin(), "") })
	ConfigureTemplates(templates.Builtin(), "template3")

	form := url.Values{
		"name":             {"Riley"},
		"email":            {"Riley@Example.com"},
		"password":         {"password123"},
		"confirm_password": {"password123"},
	}
	w := postAccountForm(t, sm, Signup, "/signup", form, false)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/app" {
		t.Fatalf("expected redirect to /app, got %d %q", w.Code, w.Header().Get("Location"))
	}

	var user models.User
	if err := db.Where("email = ?", "riley@example.com").First(&user).Error; err != nil {
		t.Fatalf("expected user to be created: %v", err)
	}
	if user.DefaultTemplate != "template3" {
		t.Fatalf("DefaultTemplate = %q, want template3", user.DefaultTemplate)
	}
}

func TestSignupRerendersOnRejection(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	db, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)
	if err := db.Create(&models.User{Email: "taken@example.com", PasswordHash: "hash"}).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	tests := []struct {
		name string
		form url.Values
		want string
	}{
		{"taken email", url.Values{"name": {"Ada"}, "email": {"TAKEN@example.com"}, "password": {"password123"}, "confirm_password": {"password123"}}, msgEmailTaken},
		{"mismatch", url.Values{"name": {"Ada"}, "email": {"ada@example.com"}, "password": {"password123"}, "confirm_password": {"password124"}}, msgPasswordMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postAccountForm(t, sm, Signup, "/signup", tt.form, true)
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", w.Code)
			}
			body := w.Body.String()
			if !strings.Contains(body, tt.want) {
				t.Fatalf("expected %q in body: %s", tt.want, body)
			}
			if strings.Contains(body, "<html") {
				t.Fatalf("htmx submission should get the partial: %s", body)
			}
			if !strings.Contains(body, `value="Ada"`) {
				t.Fatalf("expected name to be kept: %s", body)
			}
		})
	}
}

func TestLoginFlow(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	_, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)

	seed := httptest.NewRequest(http.MethodPost, "/signup", nil)
	if _, err := createUser(seed, "user@example.com", "User", "password123"); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	w := postAccountForm(t, sm, Login, "/login", url.Values{"email": {"user@example.com"}, "password": {"wrong"}}, false)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for a failed login, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Invalid email or password.") || !strings.Contains(body, "<title>Sign in</title>") {
		t.Fatalf("expected full page with failure message: %s", body)
	}

	w = postAccountForm(t, sm, Login, "/login", url.Values{"email": {"user@example.com"}}, false)
	if !strings.Contains(w.Body.String(), msgCredentialsRequired) {
		t.Fatalf("expected missing credentials message: %s", w.Body.String())
	}

	w = postAccountForm(t, sm, Login, "/login", url.Values{"email": {"USER@example.com"}, "password": {"password123"}}, true)
	if w.Code != http.StatusSeeOther || w.Header().Get("HX-Redirect") != "/app" {
		t.Fatalf("expected htmx redirect to /app, got %d %q", w.Code, w.Header().Get("HX-Redirect"))
	}
}

func TestAccountPostWithoutDependencies(t *testing.T) {
	_, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	original := database
	database = nil
	t.Cleanup(func() { database = original })

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	w := httptest.NewRecorder()
	Login(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}
