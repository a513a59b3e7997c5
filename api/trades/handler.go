// Package trades exposes the trade template catalog over HTTP.
package trades

import (
	"net/http"

	"github.com/taktflow/taktd/api"
	"github.com/taktflow/taktd/core/catalog"
)

// NewListHandler returns an HTTP handler listing trade templates via GET /api/trades.
func NewListHandler(c *catalog.Catalog, token string) http.Handler {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		templates := make([]catalog.Template, 0)
		for _, code := range c.Codes() {
			if t, ok := c.Template(code); ok {
				templates = append(templates, t)
			}
		}
		api.WriteData(w, templates)
	})
	return api.RequireBearer(token, h)
}
