package httpapi

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// pages serves the frontend build from the static directory. Unknown paths
// fall back to index.html so client-side routes resolve.
func (h *Handler) pages() http.HandlerFunc {
	dir := h.opts.StaticDir
	return func(w http.ResponseWriter, r *http.Request) {
		if dir == "" || (r.Method != http.MethodGet && r.Method != http.MethodHead) {
			http.NotFound(w, r)
			return
		}

		name := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
		if fi, err := os.Stat(name); err == nil && !fi.IsDir() {
			http.ServeFile(w, r, name)
			return
		}

		index := filepath.Join(dir, "index.html")
		if _, err := os.Stat(index); err != nil {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, index)
	}
}
