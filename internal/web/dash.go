package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cast"
	"github.com/zishang520/socket.io/servers/socket/v3"
	"go.uber.org/zap"

	"sysmonbar/internal/auth"
	"sysmonbar/internal/netx"
	"sysmonbar/internal/system"
	"sysmonbar/internal/tray"
)

// DefaultRefreshRate is the push interval of a new dashboard session
const DefaultRefreshRate = 2 * time.Second

const infoTimeout = 3 * time.Second

// Emitter sends one socket.io event to a single client
type Emitter func(event string, data ...any)

// DashboardSession represents an active dashboard session
type DashboardSession struct {
	ID          string
	Username    string
	RefreshRate time.Duration
	emit        Emitter
	lastSent    time.Time
}

// SystemBasicInfo is sent once per connection
type SystemBasicInfo struct {
	Hostname string `json:"hostname"`
	OS       string `json:"os"`
	Kernel   string `json:"kernel"`
	CPU      string `json:"cpu"`
	Username string `json:"username"`
}

// MetricsPayload is the body of system_metrics events and /api/metrics
type MetricsPayload struct {
	system.SystemMetrics
	Labels map[tray.Item]string `json:"labels"`
}

// Dashboard pushes snapshots to socket.io clients. It is a Presenter and is
// fed by the UI consumer; Apply never waits on a client.
type Dashboard struct {
	mu       sync.RWMutex
	latest   system.SystemMetrics
	sampled  bool
	sessions map[string]*DashboardSession
	info     *SystemBasicInfo

	hostInfo func(ctx context.Context) (*system.SystemInfo, error)
	now      func() time.Time
	logger   *zap.Logger
}

// NewDashboard returns a Dashboard without sessions
func NewDashboard(logger *zap.Logger) *Dashboard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dashboard{
		sessions: make(map[string]*DashboardSession),
		hostInfo: system.GetSystemInfo,
		now:      time.Now,
		logger:   logger,
	}
}

// Register sets up the dashboard events and auth on a socket.io namespace
func (d *Dashboard) Register(ns *netx.Namespace) {
	ns.AddEvent("connect_dashboard", func(client *socket.Socket, data ...any) {
		hs := client.Handshake()
		username, _ := auth.SocketUser(hs.Headers["Cookie"], hs.Auth)
		d.Connect(string(client.Id()), username, emitterOf(client))
	})
	ns.AddEvent("set_refresh_rate", func(client *socket.Socket, data ...any) {
		d.SetRefreshRate(string(client.Id()), data...)
	})
	ns.AddEvent("refresh_data", func(client *socket.Socket, data ...any) {
		d.Refresh(string(client.Id()))
	})
	ns.AddEvent("disconnect", func(client *socket.Socket, data ...any) {
		d.Disconnect(string(client.Id()))
	})
	ns.RegisterEvents()

	ns.AddMiddleware(auth.RequireAuthSocketIO)
}

func emitterOf(client *socket.Socket) Emitter {
	return func(event string, data ...any) {
		client.Emit(event, data...)
	}
}

// Connect opens a session and sends the static info and the latest snapshot
func (d *Dashboard) Connect(id, username string, emit Emitter) {
	if username == "" {
		username = "Administrator"
	}
	session := &DashboardSession{
		ID:          id,
		Username:    username,
		RefreshRate: DefaultRefreshRate,
		emit:        emit,
	}

	d.mu.Lock()
	d.sessions[id] = session
	d.mu.Unlock()
	d.logger.Info("dashboard client connected", zap.String("client", id), zap.String("user", username))

	info, err := d.basicInfo()
	if err != nil {
		emit("dashboard_error", fmt.Sprintf("Failed to get system info: %v", err))
	} else {
		basic := *info
		basic.Username = username
		emit("basic_system_info", basic)
	}

	d.send(session)
	emit("dashboard_connected", map[string]any{
		"refresh_rate": formatRate(DefaultRefreshRate),
		"status":       "connected",
	})
}

// SetRefreshRate changes the push interval of a session. The payload is
// either {"rate": "5s"} or the bare rate string; "OFF" stops pushing.
func (d *Dashboard) SetRefreshRate(id string, data ...any) {
	session, ok := d.session(id)
	if !ok {
		return
	}
	if len(data) == 0 {
		session.emit("dashboard_error", "No refresh rate data provided")
		return
	}

	rateStr := cast.ToString(cast.ToStringMap(data[0])["rate"])
	if rateStr == "" {
		rateStr = cast.ToString(data[0])
	}
	if rateStr == "" {
		session.emit("dashboard_error", "Refresh rate is required")
		return
	}

	rate, err := ParseRefreshRate(rateStr)
	if err != nil {
		session.emit("dashboard_error", err.Error())
		return
	}

	d.mu.Lock()
	session.RefreshRate = rate
	d.mu.Unlock()

	session.emit("refresh_rate_updated", map[string]any{"rate": formatRate(rate)})
}

// Refresh sends the latest snapshot right away
func (d *Dashboard) Refresh(id string) {
	if session, ok := d.session(id); ok {
		d.send(session)
	}
}

// Disconnect drops a session
func (d *Dashboard) Disconnect(id string) {
	d.mu.Lock()
	_, ok := d.sessions[id]
	delete(d.sessions, id)
	d.mu.Unlock()

	if ok {
		d.logger.Info("dashboard client disconnected", zap.String("client", id))
	}
}

// SessionCount returns the number of connected dashboard sessions
func (d *Dashboard) SessionCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.sessions)
}

// Apply stores the snapshot and pushes it to every session whose refresh
// interval has elapsed.
func (d *Dashboard) Apply(s system.SystemMetrics) {
	now := d.now()
	payload := newPayload(s)

	d.mu.Lock()
	d.latest = s
	d.sampled = true
	var due []Emitter
	for _, session := range d.sessions {
		if session.RefreshRate > 0 && now.Sub(session.lastSent) >= session.RefreshRate {
			session.lastSent = now
			due = append(due, session.emit)
		}
	}
	d.mu.Unlock()

	for _, emit := range due {
		emit("system_metrics", payload)
	}
}

// Latest returns the last applied snapshot
func (d *Dashboard) Latest() (system.SystemMetrics, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.latest, d.sampled
}

// Routes registers the JSON API
func (d *Dashboard) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/api/metrics", netx.AllowMethod(http.MethodGet, auth.RequireAuth(d.handleMetrics)))
}

func (d *Dashboard) handleMetrics(w http.ResponseWriter, r *http.Request) {
	s, ok := d.Latest()
	if !ok {
		netx.Fail(w, http.StatusServiceUnavailable, "No metrics sampled yet", nil)
		return
	}
	netx.Reply(w, http.StatusOK, netx.Envelope{Message: "ok", Data: newPayload(s)})
}

func (d *Dashboard) session(id string) (*DashboardSession, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s, ok := d.sessions[id]
	return s, ok
}

func (d *Dashboard) send(session *DashboardSession) {
	s, ok := d.Latest()
	if !ok {
		session.emit("dashboard_error", "No metrics sampled yet")
		return
	}

	d.mu.Lock()
	session.lastSent = d.now()
	d.mu.Unlock()

	session.emit("system_metrics", newPayload(s))
}

func (d *Dashboard) basicInfo() (*SystemBasicInfo, error) {
	d.mu.RLock()
	info := d.info
	d.mu.RUnlock()
	if info != nil {
		return info, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), infoTimeout)
	defer cancel()
	si, err := d.hostInfo(ctx)
	if err != nil {
		return nil, err
	}

	info = &SystemBasicInfo{
		Hostname: si.Host,
		OS:       si.OS,
		Kernel:   si.Kernel,
		CPU:      si.CPU,
	}
	d.mu.Lock()
	d.info = info
	d.mu.Unlock()
	return info, nil
}

func newPayload(s system.SystemMetrics) MetricsPayload {
	return MetricsPayload{SystemMetrics: s, Labels: tray.Labels(s)}
}

var errRefreshRate = errors.New("invalid refresh rate format")

// ParseRefreshRate accepts "OFF" or a whole number of seconds like "5s".
func ParseRefreshRate(rate string) (time.Duration, error) {
	rate = strings.TrimSpace(rate)
	if strings.EqualFold(rate, "off") {
		return 0, nil
	}

	n, ok := strings.CutSuffix(rate, "s")
	if !ok {
		return 0, errRefreshRate
	}
	seconds, err := cast.ToIntE(n)
	if err != nil || seconds <= 0 {
		return 0, errRefreshRate
	}
	return time.Duration(seconds) * time.Second, nil
}

func formatRate(d time.Duration) string {
	if d <= 0 {
		return "OFF"
	}
	return fmt.Sprintf("%ds", int(d/time.Second))
}
