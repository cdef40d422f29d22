package session

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	cookieName = "wxa_session"

	keyAccessToken = "access_token"
	keyOrgID       = "org_id"
	keyDisplayName = "display_name"
)

// Admin is the authenticated operator bound to one browser session.
type Admin struct {
	AccessToken string
	OrgID       string
	DisplayName string
}

// Store wraps an encrypted cookie store holding one Admin per browser.
type Store struct {
	cookies *sessions.CookieStore
}

// NewStore builds the cookie store. secure controls the cookie's Secure
// flag; keep it on outside local development.
func NewStore(secret string, maxAge int, secure bool) *Store {
	cs := sessions.NewCookieStore([]byte(secret))
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Store{cookies: cs}
}

// Save writes the admin into the response's session cookie.
func (s *Store) Save(w http.ResponseWriter, r *http.Request, admin Admin) error {
	sess, _ := s.cookies.Get(r, cookieName)
	sess.Values[keyAccessToken] = admin.AccessToken
	sess.Values[keyOrgID] = admin.OrgID
	sess.Values[keyDisplayName] = admin.DisplayName
	return sess.Save(r, w)
}

// Get returns the admin for this request, or ok=false when the session is
// missing or incomplete.
func (s *Store) Get(r *http.Request) (Admin, bool) {
	sess, err := s.cookies.Get(r, cookieName)
	if err != nil {
		return Admin{}, false
	}
	token, _ := sess.Values[keyAccessToken].(string)
	orgID, _ := sess.Values[keyOrgID].(string)
	name, _ := sess.Values[keyDisplayName].(string)
	if token == "" || orgID == "" {
		return Admin{}, false
	}
	return Admin{AccessToken: token, OrgID: orgID, DisplayName: name}, true
}

// Clear expires the session cookie.
func (s *Store) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, _ := s.cookies.Get(r, cookieName)
	sess.Options.MaxAge = -1
	sess.Values = map[any]any{}
	return sess.Save(r, w)
}
