package server

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"net/http"
	"sync"

	"github.com/desertthunder/moodify/internal/web"
)

// ErrInvalidState is reported when a redirect carries a state other than the one issued.
var ErrInvalidState = errors.New("invalid state parameter")

// CompleteFunc finishes a login with the captured code and returns the page to send the user to.
type CompleteFunc func(ctx context.Context, code string) (redirect string, err error)

// RejectFunc abandons a login after a redirect that could not be trusted.
type RejectFunc func(ctx context.Context, cause error) (redirect string, err error)

// CallbackResult is what a [CallbackHandler] observed.
type CallbackResult struct {
	Redirect string
	Err      error
}

// CallbackHandler captures a single provider redirect for the CLI login flow.
//
// It validates the state parameter, passes the code to a [CompleteFunc], and reports the
// outcome once on [CallbackHandler.Result]. A state mismatch is reported through the
// [RejectFunc] but does not use up the handler. Requests after a matching one are rejected.
type CallbackHandler struct {
	state     string
	complete  CompleteFunc
	reject    RejectFunc
	templates *template.Template

	mu   sync.Mutex
	hit  bool
	once sync.Once
	ch   chan CallbackResult
}

// NewCallbackHandler creates a handler expecting state. An empty state disables the check.
// A nil reject reports the mismatch as is.
func NewCallbackHandler(state string, complete CompleteFunc, reject RejectFunc, templates *template.Template) *CallbackHandler {
	return &CallbackHandler{
		state:     state,
		complete:  complete,
		reject:    reject,
		templates: templates,
		ch:        make(chan CallbackResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *CallbackHandler) Routes() []string {
	return []string{"GET /callback"}
}

// ServeHTTP handles the provider redirect.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if h.state != "" && q.Get("state") != h.state {
		err := ErrInvalidState
		if h.reject != nil {
			if _, rerr := h.reject(r.Context(), err); rerr != nil {
				err = rerr
			}
		}
		h.send(CallbackResult{Err: err})
		h.render(w, http.StatusBadRequest, web.CallbackPage{Title: "Login failed", Message: err.Error()})
		return
	}

	h.mu.Lock()
	if h.hit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.hit = true
	h.mu.Unlock()

	redirect, err := h.complete(r.Context(), q.Get("code"))
	h.send(CallbackResult{Redirect: redirect, Err: err})

	if err != nil {
		h.render(w, http.StatusUnauthorized, web.CallbackPage{Title: "Login failed", Message: err.Error()})
		return
	}
	h.render(w, http.StatusOK, web.CallbackPage{OK: true, Title: "Logged in", Message: "You can close this window and return to the terminal."})
}

func (h *CallbackHandler) render(w http.ResponseWriter, status int, page web.CallbackPage) {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, "callback.html", page); err != nil {
		http.Error(w, page.Title, status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func (h *CallbackHandler) send(result CallbackResult) {
	h.once.Do(func() {
		h.ch <- result
		close(h.ch)
	})
}

// Result receives exactly one [CallbackResult] and is then closed.
func (h *CallbackHandler) Result() <-chan CallbackResult {
	return h.ch
}
