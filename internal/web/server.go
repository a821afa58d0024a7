// Package web serves the live dashboard: socket.io push, JSON API, login and
// static pages.
package web

import (
	"net/http"
	"time"

	"sysmonbar/internal/conf"
	"sysmonbar/internal/netx"
)

// DashboardNamespace is the socket.io namespace of the dashboard
const DashboardNamespace = "/dashboard"

// NewMux wires every dashboard route on a fresh mux
func NewMux(cfg conf.Dashboard, sock *netx.Socket, d *Dashboard) *http.ServeMux {
	mux := http.NewServeMux()

	d.Register(sock.Namespace(DashboardNamespace))
	mux.Handle("/socket.io/", sock.Handler())

	StartPages(mux, cfg.RootPath)
	StartAssets(mux, cfg.RootPath)
	StartIndex(mux, cfg.RootPath)
	StartLogin(mux, d.logger)
	d.Routes(mux)

	return mux
}

// NewServer returns the dashboard HTTP server on the process-wide socket.io
// server
func NewServer(cfg conf.Dashboard, d *Dashboard) *http.Server {
	return &http.Server{
		Addr:              cfg.Listen,
		Handler:           NewMux(cfg, netx.SetupGlobalServer(), d),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
