package handler

import (
	"net/http"
)

type IndexHandler struct {
	render *Renderer
}

func NewIndexHandler(render *Renderer) *IndexHandler {
	return &IndexHandler{render: render}
}

func (i *IndexHandler) Welcome(w http.ResponseWriter, r *http.Request) {
	i.render.Render(w, r, http.StatusOK, "welcome", map[string]any{"Nav": true})
}

// Health reports that the server is up. It does not probe the backend.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
