package web

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"sysmonbar/internal/auth"
	"sysmonbar/internal/netx"
)

const maxLoginBody = 1 << 12

const msgAuthDisabled = "Authentication disabled"

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// StartLogin registers the session endpoints. While no user is configured the
// dashboard is open and /login hands out no session.
func StartLogin(mux *http.ServeMux, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	mux.HandleFunc("/login", netx.AllowMethod(http.MethodPost, login(logger)))
	mux.HandleFunc("/logout", netx.AllowMethod(http.MethodPost, logout))
	mux.HandleFunc("/check-auth", netx.AllowMethod(http.MethodGet, checkAuth))
}

func login(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !auth.Enabled() {
			netx.Reply(w, http.StatusOK, netx.Envelope{Message: msgAuthDisabled})
			return
		}

		var c credentials
		err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxLoginBody)).Decode(&c)
		if err != nil || c.Username == "" {
			netx.Fail(w, http.StatusBadRequest, "Invalid request format", nil)
			return
		}

		if !auth.VerifyPassword(c.Username, c.Password) {
			logger.Warn("dashboard login rejected", zap.String("user", c.Username), zap.String("remote", r.RemoteAddr))
			netx.Fail(w, http.StatusUnauthorized, "Invalid username or password", nil)
			return
		}

		token, err := auth.CreateSession(c.Username)
		if err != nil {
			netx.Fail(w, http.StatusInternalServerError, "Failed to create session", err)
			return
		}

		// Cookie for pages, token for the socket.io handshake
		auth.SetCookie(w, token)
		logger.Info("dashboard login", zap.String("user", c.Username))
		netx.Reply(w, http.StatusOK, netx.Envelope{Message: "Login successful", Username: c.Username, Token: token})
	}
}

func logout(w http.ResponseWriter, r *http.Request) {
	if token, ok := auth.GetTokenFromCookie(r); ok {
		auth.DeleteSession(token)
	}
	auth.ClearCookie(w)
	netx.Reply(w, http.StatusOK, netx.Envelope{Message: "Logout successful"})
}

func checkAuth(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.IsAuthenticated(r)
	switch {
	case !ok:
		netx.Fail(w, http.StatusUnauthorized, "Not authenticated", nil)
	case !auth.Enabled():
		netx.Reply(w, http.StatusOK, netx.Envelope{Message: msgAuthDisabled})
	default:
		netx.Reply(w, http.StatusOK, netx.Envelope{Message: "Authenticated", Username: username})
	}
}
