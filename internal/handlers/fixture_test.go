package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"
	"gorm.io/gorm"

	"cardly/models"
)

type apiFixture struct {
	t     *testing.T
	db    *gorm.DB
	sm    *scs.SessionManager
	owner *models.User
	other *models.User
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	db, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)

	owner := &models.User{Email: "owner@example.com", PasswordHash: "hash", Name: "Owner", DefaultTemplate: "template3"}
	other := &models.User{Email: "other@example.com", PasswordHash: "hash", Name: "Other"}
	for _, user := range []*models.User{owner, other} {
		if err := db.Create(user).Error; err != nil {
			t.Fatalf("failed to seed user: %v", err)
		}
	}
	return &apiFixture{t: t, db: db, sm: sm, owner: owner, other: other}
}

// do calls handler as user; a nil user sends an anonymous request.
func (f *apiFixture) do(handler http.HandlerFunc, method, target string, body any, user *models.User) *httptest.ResponseRecorder {
	f.t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			f.t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != nil {
		req = authenticateRequest(f.t, f.sm, req, user.ID)
	} else {
		ctx, err := f.sm.Load(req.Context(), "")
		if err != nil {
			f.t.Fatalf("failed to load session context: %v", err)
		}
		req = req.WithContext(ctx)
	}
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func authenticateRequest(t *testing.T, sm *scs.SessionManager, req *http.Request, userID uint) *http.Request {
	t.Helper()
	ctx, err := sm.Load(req.Context(), "")
	if err != nil {
		t.Fatalf("failed to load session context: %v", err)
	}
	req = req.WithContext(ctx)
	sm.Put(req.Context(), sessionUserIDKey, int(userID))
	sm.Put(req.Context(), sessionAuthenticatedKey, true)
	return req
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func ptr[T any](v T) *T {
	return &v
}
