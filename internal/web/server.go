package web

import (
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"taskboard/internal/service"
)

const sessionCookie = "taskboard_session"

// Options configures the web server.
type Options struct {
	Tasks   *service.TaskService
	Queries *service.QueryService
	Flashes *service.FlashStore
	Logger  *log.Logger
}

// Server exposes the mutation and query endpoints over HTTP. Mutations are
// form-encoded POSTs answered with JSON for AJAX callers and a flash +
// redirect otherwise; queries are JSON GETs.
type Server struct {
	tasks   *service.TaskService
	queries *service.QueryService
	flashes *service.FlashStore
	logger  *log.Logger
	mux     *http.ServeMux
}

// NewServer wires the routes.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "web: ", log.LstdFlags)
	}

	s := &Server{
		tasks:   opts.Tasks,
		queries: opts.Queries,
		flashes: opts.Flashes,
		logger:  logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/tasks/create", s.handleCreate)
	mux.HandleFunc("/tasks/edit", s.handleEdit)
	mux.HandleFunc("/tasks/delete", s.handleDelete)
	mux.HandleFunc("/tasks/toggle", s.handleToggle)
	mux.HandleFunc("/tasks/get", s.handleGet)
	mux.HandleFunc("/tasks/stats", s.handleStats)
	mux.HandleFunc("/tasks/search", s.handleSearch)
	mux.HandleFunc("/tasks", s.handleList)
	mux.HandleFunc("/messages", s.handleMessages)
	mux.HandleFunc("/", s.handleHome)
	s.mux = mux
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// sessionID returns the caller's flash-session id, minting a cookie on
// first contact.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
	})
	return id
}

func originFrom(r *http.Request) service.Origin {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ip = host
	}
	return service.Origin{IP: ip, UserAgent: r.UserAgent()}
}

func isAJAX(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("X-Requested-With"), "xmlhttprequest")
}

// safeRedirectTarget returns the referring page only when its host matches
// the request host; anything else falls back to the landing page. This is
// the open-redirect guard.
func safeRedirectTarget(r *http.Request) string {
	referer := r.Referer()
	if referer == "" {
		return "/"
	}
	parsed, err := url.Parse(referer)
	if err != nil {
		return "/"
	}
	if parsed.Host != "" && parsed.Host != r.Host {
		return "/"
	}
	return referer
}

// formID mirrors intval: anything non-numeric collapses to 0, which the
// services reject as an invalid id.
func formID(r *http.Request, field string) uint {
	id, err := strconv.ParseUint(r.FormValue(field), 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}
