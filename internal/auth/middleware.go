package auth

import (
	"net/http"
	"strings"

	"github.com/spf13/cast"
	"github.com/zishang520/socket.io/servers/socket/v3"

	"sysmonbar/internal/netx"
)

// RequireAuth is a middleware that checks authentication for protected routes.
// Browser navigation is redirected to the login page, API calls get a 401.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, authenticated := IsAuthenticated(r); authenticated {
			next(w, r)
			return
		}
		if strings.HasPrefix(r.URL.Path, "/api/") {
			netx.Fail(w, http.StatusUnauthorized, "Not authenticated", nil)
			return
		}
		http.Redirect(w, r, "/pages/login.html", http.StatusSeeOther)
	}
}

// RequireAuthSocketIO is a middleware that checks authentication for protected Socket.IO endpoints
func RequireAuthSocketIO(client *socket.Socket, next func(*socket.ExtendedError)) {
	hs := client.Handshake()
	if _, ok := SocketUser(hs.Headers["Cookie"], hs.Auth); ok {
		next(nil)
		return
	}
	next(socket.NewExtendedError("Unauthorized", ""))
}

// SocketUser resolves the user of a socket.io handshake from its Cookie
// header or its auth.token field. It succeeds for everyone when no users are
// configured.
func SocketUser(cookieHeader any, handshakeAuth any) (string, bool) {
	if !Enabled() {
		return "", true
	}
	if token := cookieToken(cast.ToStringSlice(cookieHeader)); token != "" {
		if user, ok := ValidateSession(token); ok {
			return user, true
		}
	}
	if token := cast.ToString(cast.ToStringMap(handshakeAuth)["token"]); token != "" {
		return ValidateSession(token)
	}
	return "", false
}

func cookieToken(headers []string) string {
	for _, h := range headers {
		for _, p := range strings.Split(h, ";") {
			p = strings.TrimSpace(p)
			if v, ok := strings.CutPrefix(p, CookieName+"="); ok {
				return v
			}
		}
	}
	return ""
}
