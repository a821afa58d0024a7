package web

import (
	"net/http"
	"path/filepath"

	"sysmonbar/internal/auth"
	"sysmonbar/internal/netx"
)

// StartPages serves <root>/pages under /pages/
func StartPages(mux *http.ServeMux, root string) {
	mux.Handle("/pages/", http.StripPrefix("/pages",
		http.FileServer(http.Dir(filepath.Join(root, "pages")))))
}

// StartAssets serves <root>/assets under /assets/
func StartAssets(mux *http.ServeMux, root string) {
	mux.Handle("/assets/", http.StripPrefix("/assets",
		http.FileServer(http.Dir(filepath.Join(root, "assets")))))
}

// StartIndex registers the dashboard page
func StartIndex(mux *http.ServeMux, root string) {
	index := filepath.Join(root, "index.html")
	mux.HandleFunc("/", netx.AllowMethod(http.MethodGet, auth.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, index)
	})))
}
