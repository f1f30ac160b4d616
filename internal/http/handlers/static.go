package handlers

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// Static serves the presentation assets under dir. It is mounted as the
// router's NoRoute handler: GET and HEAD requests that resolve to a regular
// file are served, "/" maps to index.html, and everything else gets the JSON
// 404 envelope.
func Static(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if dir == "" || (c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
			NotFound(c)
			return
		}
		p, ok := resolveAsset(dir, c.Request.URL.Path)
		if !ok {
			NotFound(c)
			return
		}
		c.File(p)
	}
}

// Index serves dir/index.html.
func Index(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := resolveAsset(dir, "/")
		if !ok {
			NotFound(c)
			return
		}
		c.File(p)
	}
}

// NotFound writes the JSON 404 envelope.
func NotFound(c *gin.Context) {
	Fail(c, http.StatusNotFound, ErrCodeNotFound, MsgRouteNotFound)
}

// resolveAsset maps a URL path to a regular file inside dir. Paths are
// cleaned first, so traversal outside dir is impossible; directories resolve
// to their index.html. Dotfiles are never served.
func resolveAsset(dir, urlPath string) (string, bool) {
	clean := path.Clean("/" + urlPath)
	for _, seg := range strings.Split(clean, "/") {
		if strings.HasPrefix(seg, ".") {
			return "", false
		}
	}
	p := filepath.Join(dir, filepath.FromSlash(clean))
	fi, err := os.Stat(p)
	if err != nil {
		return "", false
	}
	if fi.IsDir() {
		p = filepath.Join(p, "index.html")
		if fi, err = os.Stat(p); err != nil {
			return "", false
		}
	}
	if !fi.Mode().IsRegular() {
		return "", false
	}
	return p, true
}
