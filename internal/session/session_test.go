package session

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/securecookie"
	"github.com/rs/zerolog"

	"voterz/internal/entity"
)

func newTestStore() *Store {
	return NewStore(Config{
		AuthKey:       securecookie.GenerateRandomKey(32),
		EncryptionKey: securecookie.GenerateRandomKey(32),
	})
}

// carry copies the cookies set on w onto a fresh request.
func carry(w *httptest.ResponseRecorder) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func TestSaveLoadClear(t *testing.T) {
	store := newTestStore()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/login", nil)
	if err := store.Save(w, r, entity.Session{Token: "jwt"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	r = carry(w)
	if got := store.Load(r); got.Token != "jwt" {
		t.Fatalf("Load() token = %q, want jwt", got.Token)
	}

	w = httptest.NewRecorder()
	if err := store.Clear(w, r); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if got := store.Load(carry(w)); got.Authenticated() {
		t.Errorf("session still authenticated after Clear: %+v", got)
	}
}

func TestLoadIgnoresForeignCookie(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/login", nil)
	if err := newTestStore().Save(w, r, entity.Session{Token: "jwt"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if got := newTestStore().Load(carry(w)); got.Authenticated() {
		t.Error("cookie signed with another key was accepted")
	}
}

func TestAlertsAreConsumedOnce(t *testing.T) {
	store := newTestStore()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	store.Alert(w, r, "Add questions first")

	r = carry(w)
	w = httptest.NewRecorder()
	got := store.Alerts(w, r)
	if len(got) != 1 || got[0] != "Add questions first" {
		t.Fatalf("Alerts() = %v", got)
	}

	if again := store.Alerts(httptest.NewRecorder(), carry(w)); len(again) != 0 {
		t.Errorf("alerts shown twice: %v", again)
	}
}

func TestContext(t *testing.T) {
	ctx := context.Background()
	if FromContext(ctx).Authenticated() {
		t.Error("empty context should be anonymous")
	}
	ctx = NewContext(ctx, entity.Session{Token: "t"})
	if FromContext(ctx).Token != "t" {
		t.Error("session not found in context")
	}
}

func TestAlertsLogsSaveFailure(t *testing.T) {
	store := newTestStore()

	var buf bytes.Buffer
	log := zerolog.New(&buf)
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(log.WithContext(r.Context()))
	w := httptest.NewRecorder()

	// A token past the cookie size limit makes every save of this session fail.
	if err := store.Save(w, r, entity.Session{Token: strings.Repeat("x", 5000)}); err == nil {
		t.Fatal("Save: expected an error for an oversized cookie")
	}
	if err := store.Alert(w, r, "hello"); err == nil {
		t.Fatal("Alert: expected an error for an oversized cookie")
	}

	got := store.Alerts(w, r)
	if len(got) != 1 || got[0] != "hello" {
		t.Errorf("Alerts() = %v, want [hello]", got)
	}
	if !strings.Contains(buf.String(), "failed to save session after reading alerts") {
		t.Errorf("expected the save failure to be logged, got %q", buf.String())
	}
}
