package server

import (
	"bytes"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodify/internal/web"
)

// StaticSite serves the web client: /login and /callback from templates, everything else from the asset root.
type StaticSite struct {
	templates *template.Template
	assets    http.Handler
	authURL   func() string
	complete  CompleteFunc
	logger    *log.Logger
}

// NewStaticSite creates a [StaticSite]. authURL supplies the provider link rendered on the login page.
//
// When complete is set, /callback finishes the login with the returned code and redirects to the
// page it returns. Without it the page only reports what the provider sent.
func NewStaticSite(root fs.FS, templates *template.Template, authURL func() string, complete CompleteFunc, logger *log.Logger) *StaticSite {
	return &StaticSite{
		templates: templates,
		assets:    http.FileServerFS(root),
		authURL:   authURL,
		complete:  complete,
		logger:    logger,
	}
}

// Routes returns the HTTP routes this handler serves.
func (s *StaticSite) Routes() []string {
	return []string{"GET /login", "GET /callback", "GET /"}
}

// ServeHTTP dispatches to the login page, the callback page, or the asset root.
func (s *StaticSite) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/login", "/login.html":
		s.render(w, "login.html", web.LoginPage{AuthURL: s.authURL()})
	case "/callback", "/callback.html":
		s.render(w, "callback.html", s.callbackPage(r))
	default:
		s.assets.ServeHTTP(w, r)
	}
}

func (s *StaticSite) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("failed to render page", "page", name, "err", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// callbackPage finishes the login, or describes what the provider sent back when there is no
// [CompleteFunc].
func (s *StaticSite) callbackPage(r *http.Request) web.CallbackPage {
	q := r.URL.Query()
	if s.complete != nil {
		redirect, err := s.complete(r.Context(), q.Get("code"))
		if err != nil {
			s.logger.Warn("login failed", "err", err)
			return web.CallbackPage{Title: "Login failed", Message: err.Error(), Redirect: redirect}
		}
		return web.CallbackPage{OK: true, Title: "Logged in", Message: "Taking you to moodify.", Redirect: redirect}
	}

	if q.Get("code") == "" {
		return web.CallbackPage{
			Title:    "Login failed",
			Message:  describeProviderError(q.Get("error")),
			Redirect: "/login",
		}
	}
	return web.CallbackPage{
		OK:      true,
		Title:   "Almost there",
		Message: "Spotify returned an authorization code. Finish signing in from the moodify client.",
	}
}

func describeProviderError(code string) string {
	switch code {
	case "":
		return "No authorization code was returned."
	case "access_denied":
		return "Access was denied on the Spotify consent page."
	default:
		return "Spotify reported: " + code
	}
}
