// Package session keeps the organiser's bearer token and pending alerts in a
// signed cookie.
package session

import (
	"context"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/rs/zerolog"

	"voterz/internal/entity"
)

const (
	cookieName = "app-session"
	tokenKey   = "token"
)

type Config struct {
	AuthKey       []byte
	EncryptionKey []byte
	Secure        bool
	MaxAge        int
}

type Store struct {
	store *sessions.CookieStore
}

func NewStore(cfg Config) *Store {
	keys := [][]byte{cfg.AuthKey}
	if len(cfg.EncryptionKey) > 0 {
		keys = append(keys, cfg.EncryptionKey)
	}
	store := sessions.NewCookieStore(keys...)
	maxAge := cfg.MaxAge
	if maxAge == 0 {
		maxAge = 86400
	}
	store.MaxAge(maxAge)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = cfg.Secure
	store.Options.SameSite = http.SameSiteLaxMode
	return &Store{store: store}
}

// Load returns the session of the request. A missing or tampered cookie
// yields an anonymous session.
func (s *Store) Load(r *http.Request) entity.Session {
	sess, err := s.store.Get(r, cookieName)
	if err != nil {
		return entity.Session{}
	}
	token, _ := sess.Values[tokenKey].(string)
	return entity.Session{Token: token}
}

func (s *Store) Save(w http.ResponseWriter, r *http.Request, es entity.Session) error {
	sess, _ := s.store.Get(r, cookieName)
	sess.Values[tokenKey] = es.Token
	return sess.Save(r, w)
}

// Clear drops the token. Pending alerts survive so the next page can show why.
func (s *Store) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, _ := s.store.Get(r, cookieName)
	delete(sess.Values, tokenKey)
	return sess.Save(r, w)
}

// Alert queues a message for the next rendered page.
func (s *Store) Alert(w http.ResponseWriter, r *http.Request, msg string) error {
	sess, _ := s.store.Get(r, cookieName)
	sess.AddFlash(msg)
	return sess.Save(r, w)
}

// Alerts returns and removes the queued messages.
func (s *Store) Alerts(w http.ResponseWriter, r *http.Request) []string {
	sess, err := s.store.Get(r, cookieName)
	if err != nil {
		return nil
	}
	flashes := sess.Flashes()
	if len(flashes) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(flashes))
	for _, f := range flashes {
		if m, ok := f.(string); ok {
			msgs = append(msgs, m)
		}
	}
	if err := sess.Save(r, w); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to save session after reading alerts")
	}
	return msgs
}

type contextKey struct{}

func NewContext(ctx context.Context, sess entity.Session) context.Context {
	return context.WithValue(ctx, contextKey{}, sess)
}

// FromContext returns the session placed by the auth middleware, or an
// anonymous one.
func FromContext(ctx context.Context) entity.Session {
	sess, _ := ctx.Value(contextKey{}).(entity.Session)
	return sess
}
