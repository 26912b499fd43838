package server

import (
	"crypto/sha256"
	"fmt"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog/hlog"
)

const sessionName = "top_movies"

// deriveKey returns a 32 byte key for purpose, or a random one when secret is empty
func deriveKey(secret, purpose string) ([]byte, error) {
	if secret == "" {
		key := securecookie.GenerateRandomKey(32)
		if key == nil {
			return nil, fmt.Errorf("failed to generate %s key", purpose)
		}
		return key, nil
	}
	sum := sha256.Sum256([]byte(purpose + ":" + secret))
	return sum[:], nil
}

// sessionManager carries one-shot flash messages across the redirect after a mutation
type sessionManager struct {
	store *sessions.CookieStore
}

func newSessionManager(key []byte, secure bool) *sessionManager {
	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &sessionManager{store: store}
}

// addFlash queues a message for the next page view.
// Must be called before the response is written.
func (m *sessionManager) addFlash(w http.ResponseWriter, r *http.Request, msg string) {
	// a cookie signed with another key decodes to a fresh session
	sess, _ := m.store.Get(r, sessionName)
	sess.AddFlash(msg)
	if err := sess.Save(r, w); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("Failed to save flash message")
	}
}

// flashes pops the queued messages
func (m *sessionManager) flashes(w http.ResponseWriter, r *http.Request) []string {
	sess, _ := m.store.Get(r, sessionName)
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := sess.Save(r, w); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("Failed to clear flash messages")
	}

	msgs := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			msgs = append(msgs, s)
		}
	}
	return msgs
}
