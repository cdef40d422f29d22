package handlers

import (
	"net/http"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/natjungquist/c1-wxautomator-backend/internal/application/ports"
	"github.com/natjungquist/c1-wxautomator-backend/internal/infrastructure/auth"
	"github.com/natjungquist/c1-wxautomator-backend/internal/infrastructure/session"
)

// AuthHandler runs the Webex authorization-code flow and owns the admin
// session lifecycle.
type AuthHandler struct {
	oauth       *oauth2.Config
	states      *auth.StateSigner
	sessions    *session.Store
	people      ports.Organizations
	redirectURL string
	log         zerolog.Logger
}

func NewAuthHandler(oauth *oauth2.Config, states *auth.StateSigner, sessions *session.Store, people ports.Organizations, redirectURL string, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		oauth:       oauth,
		states:      states,
		sessions:    sessions,
		people:      people,
		redirectURL: redirectURL,
		log:         log,
	}
}

// Login sends the browser to the Webex consent page with a signed state.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state, err := h.states.Issue()
	if err != nil {
		h.log.Error().Err(err).Msg("state issue failed")
		writeErr(w, http.StatusInternalServerError, "", "could not start login")
		return
	}
	http.Redirect(w, r, h.oauth.AuthCodeURL(state), http.StatusFound)
}

// Callback handles the provider redirect: verify state, derive the org from
// the authorization code, exchange it, look up the caller's name, and set
// the session cookie.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		writeErr(w, http.StatusUnauthorized, "", "Webex denied the authorization request: "+errParam)
		return
	}
	if err := h.states.Verify(r.URL.Query().Get("state")); err != nil {
		writeErr(w, http.StatusUnauthorized, "", err.Error())
		return
	}

	code := r.URL.Query().Get("code")
	orgID, err := auth.OrgIDFromCode(code)
	if err != nil {
		writeErr(w, http.StatusUnauthorized, "", err.Error())
		return
	}

	token, err := h.oauth.Exchange(r.Context(), code)
	if err != nil {
		h.log.Warn().Err(err).Msg("token exchange failed")
		writeErr(w, http.StatusUnauthorized, "", "could not exchange the authorization code")
		return
	}

	admin := session.Admin{AccessToken: token.AccessToken, OrgID: orgID}
	if me, err := h.people.GetMe(r.Context(), token.AccessToken); err == nil {
		admin.DisplayName = me.DisplayName
	} else {
		// Name lookup is cosmetic; the session works without it.
		h.log.Warn().Err(err).Msg("people/me lookup failed")
	}

	if err := h.sessions.Save(w, r, admin); err != nil {
		h.log.Error().Err(err).Msg("session save failed")
		writeErr(w, http.StatusInternalServerError, "", "could not establish a session")
		return
	}
	h.log.Info().Str("org_id", orgID).Msg("admin signed in")
	http.Redirect(w, r, h.redirectURL, http.StatusFound)
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(w, r); err != nil {
		writeErr(w, http.StatusInternalServerError, "", "could not clear the session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}
