package handler

import (
	"bytes"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"voterz/internal/backend"
	"voterz/internal/editor"
	"voterz/internal/entity"
	"voterz/internal/session"
	"voterz/internal/templates"
)

const genericError = "An unexpected error occurred. Please try again later."

var funcMap = template.FuncMap{
	"percent": func(part, total int) int {
		if total == 0 {
			return 0
		}
		return int(float64(part) / float64(total) * 100)
	},
	"formatDate": func(s string) string {
		if s == "" {
			return "—"
		}
		t, err := entity.ParseDate(s)
		if err != nil {
			return s
		}
		return t.Format("Jan 2, 2006")
	},
	"since": func(s string) string {
		t, err := entity.ParseDate(s)
		if err != nil {
			return ""
		}
		return humanize.Time(t)
	},
	"comma": func(n int) string {
		return humanize.Comma(int64(n))
	},
	"add": func(a, b int) int {
		return a + b
	},
	"textField":   editor.TextField,
	"optionField": editor.OptionField,
}

// Renderer executes page templates inside the shared layout. Each page is
// parsed together with the layout so that "title" and "content" resolve to
// that page's definitions.
type Renderer struct {
	pages    map[string]*template.Template
	sessions *session.Store
}

func NewRenderer(sessions *session.Store) *Renderer {
	names, err := fs.Glob(templates.FS, "pages/*.html")
	if err != nil {
		panic(err)
	}
	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		key := strings.TrimSuffix(path.Base(name), ".html")
		pages[key] = template.Must(template.New(key).
			Funcs(funcMap).
			ParseFS(templates.FS, "layout.html", "navbar.html", name))
	}
	return &Renderer{pages: pages, sessions: sessions}
}

// Render writes page name with status. Queued alerts are consumed and shown
// together with data["Alert"], if set.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	log := zerolog.Ctx(r.Context())

	tmpl, ok := rd.pages[name]
	if !ok {
		log.Error().Str("template", name).Msg("unknown template")
		http.Error(w, genericError, http.StatusInternalServerError)
		return
	}

	if data == nil {
		data = map[string]any{}
	}
	alerts := rd.sessions.Alerts(w, r)
	if msg, _ := data["Alert"].(string); msg != "" {
		alerts = append(alerts, msg)
	}
	data["Alerts"] = alerts
	data["Authenticated"] = rd.sessions.Load(r).Authenticated()

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("failed to render page")
		http.Error(w, genericError, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// Error renders the error page for failures that leave nothing else to show.
func (rd *Renderer) Error(w http.ResponseWriter, r *http.Request, status int, msg, backURL string) {
	rd.Render(w, r, status, "error", map[string]any{
		"Nav":     session.FromContext(r.Context()).Authenticated(),
		"Message": msg,
		"BackURL": backURL,
	})
}

// alertFor picks the message shown for a failed backend call. Backend
// rejections carry their own message.
func alertFor(err error) string {
	return backend.Message(err, genericError)
}

// failureStatus is the status of a page re-rendered after a failed backend call.
func failureStatus(err error) int {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadGateway
}

func electionID(r *http.Request) (entity.ID, error) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		return "", errors.New("missing election id")
	}
	return entity.ID(id), nil
}

func electionPath(id entity.ID, suffix string) string {
	if suffix == "" {
		return "/election/" + id.String()
	}
	return "/election/" + id.String() + "/" + suffix
}

func redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// alert queues msg for the next page, logging if the cookie cannot be written.
func alert(sessions *session.Store, w http.ResponseWriter, r *http.Request, msg string) {
	if err := sessions.Alert(w, r, msg); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to save alert")
	}
}
