package app

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/frudas24/touchmouse/internal/web"
)

// RegisterRoutes wires API, websocket and static handlers onto the mux.
func (a *App) RegisterRoutes(mux *http.ServeMux, staticDir string) {
	if staticDir == "" {
		staticDir = filepath.Join("internal", "web", "static")
	}

	mux.HandleFunc("/login", a.handleLogin)
	mux.HandleFunc("/logout", a.handleLogout)
	mux.HandleFunc("/api/state", a.handleState)
	mux.Handle("/ws/pad", a.pad)
	if a.host != nil {
		mux.Handle("/ws", a.host)
	}
	mux.HandleFunc("/favicon.ico", handleFavicon)

	mux.Handle("/", staticFileServer(staticDir))
}

type loginRequest struct {
	Password string `json:"password"`
}

type stateResponse struct {
	PasswordMode  bool   `json:"passwordMode"`
	Authenticated bool   `json:"authenticated"`
	InputEnabled  bool   `json:"inputEnabled"`
	SmoothScroll  bool   `json:"smoothScroll"`
	ChannelReady  bool   `json:"channelReady"`
	PadConnected  bool   `json:"padConnected"`
	HostEnabled   bool   `json:"hostEnabled"`
	HostConnected bool   `json:"hostConnected"`
	HostURL       string `json:"hostUrl"`
}

// handleLogin authenticates the session.
func (a *App) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if !a.session.Authenticate(req.Password) {
		log.WithField("remote", r.RemoteAddr).Warn("app: login failed")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleLogout clears authentication state.
func (a *App) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	a.session.Logout()
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleState returns the session switches and connection status. Before login
// it only reports that a password is required.
func (a *App) handleState(w http.ResponseWriter, _ *http.Request) {
	snap := a.session.Snapshot()
	if !a.session.Authorized() {
		writeJSON(w, http.StatusUnauthorized, stateResponse{PasswordMode: snap.PasswordMode})
		return
	}
	resp := stateResponse{
		PasswordMode:  snap.PasswordMode,
		Authenticated: snap.Authenticated,
		InputEnabled:  snap.InputEnabled,
		SmoothScroll:  snap.SmoothScroll,
		ChannelReady:  a.channel.Ready(),
		PadConnected:  a.pad.Connected(),
		HostEnabled:   a.host != nil,
		HostURL:       a.cfg.HostURL,
	}
	if a.host != nil {
		resp.HostConnected = a.host.Connected()
	}
	writeJSON(w, http.StatusOK, resp)
}

// writeJSON encodes v as the response body with status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// staticFileServer returns a handler for static assets, preferring disk then embed.
func staticFileServer(staticDir string) http.Handler {
	if staticDir != "" {
		if info, err := os.Stat(staticDir); err == nil && info.IsDir() {
			return http.FileServer(http.Dir(staticDir))
		}
	}

	embedded, err := web.StaticFS()
	if err != nil {
		log.WithError(err).Error("app: static assets unavailable")
		return http.NotFoundHandler()
	}
	return http.FileServer(http.FS(embedded))
}

// handleFavicon avoids noisy 404s for the default browser request.
func handleFavicon(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
