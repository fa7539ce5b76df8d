package session

import "net/http"

const cookieName = "sprintbox_session"

// FromRequest resolves the caller's session from the cookie, minting a
// new session (and setting the cookie) for first-time clients.
func (m *Manager) FromRequest(w http.ResponseWriter, r *http.Request) *Session {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return m.Get(c.Value)
	}
	id := m.NewID()
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return m.Get(id)
}
