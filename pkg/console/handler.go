// Package console serves the SiteLens web UI.
//
// The console is the display surface around the auth gate: every
// interaction is one full request/response cycle, and protected pages
// re-check the gate on each cycle. Anonymous cycles are spent on the
// login flow; a cycle that processes a successful login still redirects
// rather than running protected functionality.
package console

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SiteLensProject/sitelens/pkg/analyzer"
	"github.com/SiteLensProject/sitelens/pkg/auth"
	"github.com/SiteLensProject/sitelens/pkg/history"
)

//go:embed templates/*.html static/*.css
var content embed.FS

// SessionCookie is the browser session cookie name.
const SessionCookie = "sitelens_session"

// Handler serves the console routes.
type Handler struct {
	gate      *auth.Gate
	sessions  *auth.SessionStore
	client    *analyzer.Client
	history   *history.Store
	templates *template.Template
	metrics   *Metrics
	logger    *slog.Logger
}

// NewHandler creates a console handler. metrics may be nil when the
// serve command runs without a metrics registry.
func NewHandler(gate *auth.Gate, sessions *auth.SessionStore, client *analyzer.Client, hist *history.Store, metrics *Metrics, logger *slog.Logger) (*Handler, error) {
	if logger == nil {
		logger = slog.Default()
	}

	funcMap := template.FuncMap{
		"formatTime":  formatTime,
		"statusClass": statusClass,
		"seconds": func(v float64) string {
			return fmt.Sprintf("%.1fs", v)
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(content, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Handler{
		gate:      gate,
		sessions:  sessions,
		client:    client,
		history:   hist,
		templates: tmpl,
		metrics:   metrics,
		logger:    logger,
	}, nil
}

// RegisterRoutes registers all console routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", h.handleIndex)
	mux.HandleFunc("/analyze", h.handleAnalyze)
	mux.HandleFunc("/login", h.handleLogin)
	mux.HandleFunc("/logout", h.handleLogout)
	mux.HandleFunc("/history", h.handleHistory)
	mux.HandleFunc("/history/clear", h.handleHistoryClear)
	mux.HandleFunc("/healthz", h.handleHealthz)

	staticFS, _ := fs.Sub(content, "static")
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
}

// session returns the caller's session, minting a cookie when absent.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (string, *auth.Session) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if sess := h.sessions.Get(c.Value); sess != nil {
			return c.Value, sess
		}
	}

	token, sess := h.sessions.Create()
	h.setCookie(w, token)
	return token, sess
}

func (h *Handler) setCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// admit runs the gate for a protected page. When the caller is not
// admitted it has already been redirected to the login flow. A nil
// submission never resolves credentials, so the gate cannot error here.
func (h *Handler) admit(w http.ResponseWriter, r *http.Request) (string, *auth.Session, bool) {
	token, sess := h.session(w, r)
	if admitted, _ := h.gate.RequireAuth(sess, nil); !admitted {
		http.Redirect(w, r, "/login", http.StatusFound)
		return "", nil, false
	}
	return token, sess, true
}

// Index: analyze form plus the most recent (or requested) result.

type indexData struct {
	User       string
	Connection analyzer.ConnectionInfo
	Result     *history.Entry
	Error      string
	History    []history.Entry
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	token, sess, ok := h.admit(w, r)
	if !ok {
		return
	}
	user, _ := sess.CurrentUser()

	data := indexData{
		User:       user,
		Connection: h.client.Info(r.Context()),
		Error:      r.URL.Query().Get("error"),
		History:    h.history.List(token),
	}

	if id := r.URL.Query().Get("result"); id != "" {
		if entry, found := h.history.Get(token, id); found {
			data.Result = &entry
		}
	}

	h.render(w, "index.html", data)
}

func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	token, sess, ok := h.admit(w, r)
	if !ok {
		return
	}
	user, _ := sess.CurrentUser()

	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/?error=Invalid+form", http.StatusFound)
		return
	}

	target := strings.TrimSpace(r.FormValue("url"))
	if target == "" {
		http.Redirect(w, r, "/?error=Please+enter+a+URL", http.StatusFound)
		return
	}
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = "https://" + target
	}

	req := analyzer.DefaultRequest(target)
	req.SessionID = "sitelens-session-" + user
	req.IncludeLogo = r.FormValue("logo") != ""
	req.IncludeColors = r.FormValue("colors") != ""
	req.IncludeBrand = r.FormValue("brand") != ""
	if fields := strings.TrimSpace(r.FormValue("fields")); fields != "" {
		for _, f := range strings.Split(fields, ",") {
			if f = strings.TrimSpace(f); f != "" {
				req.AdditionalFields = append(req.AdditionalFields, f)
			}
		}
	}

	h.logger.Info("analysis requested",
		slog.String("user", user),
		slog.String("url", target))

	result := h.client.Analyze(r.Context(), req)
	h.metrics.observeAnalysis(result.Status)

	entryID := h.history.Add(token, target, result)
	http.Redirect(w, r, "/?result="+url.QueryEscape(entryID), http.StatusFound)
}

// Login flow

type loginData struct {
	Error       string
	Unavailable bool
	ShowDemo    bool
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	token, sess := h.session(w, r)

	if r.Method == http.MethodPost {
		h.handleLoginSubmit(w, r, token, sess)
		return
	}

	if sess.Authenticated() {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	data := loginData{
		Unavailable: r.URL.Query().Get("unavailable") != "",
		ShowDemo:    h.gate.DemoOnly(),
	}
	if r.URL.Query().Get("failed") != "" {
		data.Error = "Invalid username or password."
	}

	h.render(w, "login.html", data)
}

func (h *Handler) handleLoginSubmit(w http.ResponseWriter, r *http.Request, token string, sess *auth.Session) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/login?failed=1", http.StatusFound)
		return
	}

	sub := &auth.Submission{
		Username: strings.TrimSpace(r.FormValue("username")),
		Password: r.FormValue("password"),
	}

	// The gate consumes this cycle even on success; the authenticated
	// session is only admitted on the next request.
	_, err := h.gate.RequireAuth(sess, sub)

	switch {
	case sess.Authenticated():
		h.metrics.observeLogin(outcomeSuccess)
		newToken, _ := h.sessions.Rotate(token)
		h.history.Transfer(token, newToken)
		h.setCookie(w, newToken)
		http.Redirect(w, r, "/", http.StatusFound)
	case err != nil:
		h.metrics.observeLogin(outcomeUnavailable)
		http.Redirect(w, r, "/login?unavailable=1", http.StatusFound)
	default:
		h.metrics.observeLogin(outcomeFailure)
		http.Redirect(w, r, "/login?failed=1", http.StatusFound)
	}
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	if c, err := r.Cookie(SessionCookie); err == nil {
		if sess := h.sessions.Get(c.Value); sess != nil {
			sess.Logout()
		}
		h.history.Clear(c.Value)
		h.sessions.Delete(c.Value)
	}

	http.Redirect(w, r, "/login", http.StatusFound)
}

// History pages

type historyData struct {
	User    string
	Entries []history.Entry
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	token, sess, ok := h.admit(w, r)
	if !ok {
		return
	}
	user, _ := sess.CurrentUser()

	h.render(w, "history.html", historyData{
		User:    user,
		Entries: h.history.List(token),
	})
}

func (h *Handler) handleHistoryClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/history", http.StatusFound)
		return
	}

	token, _, ok := h.admit(w, r)
	if !ok {
		return
	}

	h.history.Clear(token)
	http.Redirect(w, r, "/history", http.StatusFound)
}

func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

// Rendering helpers

func (h *Handler) render(w http.ResponseWriter, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("template render failed", slog.String("template", name), slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

// statusClass maps a service status to its badge CSS class.
func statusClass(status string) string {
	switch status {
	case analyzer.StatusSuccess:
		return "status-success"
	case analyzer.StatusPartial:
		return "status-partial"
	case analyzer.StatusProcessing:
		return "status-processing"
	case analyzer.StatusFailed:
		return "status-failed"
	default:
		return "status-unknown"
	}
}
