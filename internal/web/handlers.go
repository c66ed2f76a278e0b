package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"taskboard/internal/model"
	"taskboard/internal/service"
)

const genericQueryError = "a database error occurred"

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	s.mutation(w, r, func(r *http.Request) service.MutationResult {
		return s.tasks.Create(r.Context(), taskInputFromForm(r), originFrom(r))
	})
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	s.mutation(w, r, func(r *http.Request) service.MutationResult {
		return s.tasks.Edit(r.Context(), formID(r, "id"), taskInputFromForm(r), originFrom(r))
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.mutation(w, r, func(r *http.Request) service.MutationResult {
		return s.tasks.Delete(r.Context(), formID(r, "id"), originFrom(r))
	})
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	s.mutation(w, r, func(r *http.Request) service.MutationResult {
		expected := model.Status(r.FormValue("current_status"))
		return s.tasks.ToggleStatus(r.Context(), formID(r, "id"), expected, originFrom(r))
	})
}

// mutation runs one mutation handler and finishes the request the same way
// for all four: queue the flashes, then JSON for AJAX callers or a redirect
// back to the (host-checked) referring page.
func (s *Server) mutation(w http.ResponseWriter, r *http.Request, run func(*http.Request) service.MutationResult) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form input", http.StatusBadRequest)
		return
	}

	sessionID := s.sessionID(w, r)
	result := run(r)
	s.flashes.Push(sessionID, result.Flashes...)

	if isAJAX(r) {
		resp := mutationResponse{
			Success: result.OK(),
			Message: result.Message,
			Errors:  result.Errors,
		}
		if resp.Errors == nil {
			resp.Errors = []string{}
		}
		if result.OK() {
			resp.TaskID = result.TaskID
			resp.NewStatus = string(result.NewStatus)
		}
		writeJSON(w, http.StatusOK, resp)
		return
	}

	http.Redirect(w, r, safeRedirectTarget(r), http.StatusSeeOther)
}

func taskInputFromForm(r *http.Request) service.TaskInput {
	return service.TaskInput{
		Name:        r.FormValue("name"),
		Priority:    r.FormValue("priority"),
		CreatedDate: r.FormValue("created_date"),
		Deadline:    r.FormValue("deadline"),
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	q := r.URL.Query()
	filters := model.ListFilters{
		Status:         q.Get("status"),
		Priority:       q.Get("priority"),
		Search:         q.Get("search"),
		DeadlineFilter: q.Get("deadline_filter"),
		SortBy:         q.Get("sort_by"),
	}

	tasks, err := s.queries.List(r.Context(), filters)
	if err != nil {
		s.queryError(w, "list tasks", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    tasks,
		"total":   len(tasks),
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	id, _ := strconv.ParseUint(r.URL.Query().Get("id"), 10, 32)

	task, err := s.queries.Get(r.Context(), uint(id))
	if errors.Is(err, service.ErrNotFound) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": false,
			"error":   "task not found",
		})
		return
	}
	if err != nil {
		s.queryError(w, fmt.Sprintf("get task (id=%d)", id), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    task,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	stats, err := s.queries.Statistics(r.Context())
	if err != nil {
		s.queryError(w, "task statistics", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    stats,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	keyword := r.URL.Query().Get("q")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	tasks, err := s.queries.Search(r.Context(), keyword, limit)
	if err != nil {
		s.queryError(w, "search tasks", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    tasks,
		"keyword": keyword,
	})
}

// handleMessages drains the caller's queued flash messages.
func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	flashes := s.flashes.Drain(s.sessionID(w, r))
	if flashes == nil {
		flashes = []service.Flash{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"messages": flashes,
	})
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "taskboard")
}

// queryError logs the store failure with its operation context and answers
// with a generic message; raw diagnostics never reach the client.
func (s *Server) queryError(w http.ResponseWriter, op string, err error) {
	s.logger.Printf("%s: %v", op, err)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": false,
		"error":   genericQueryError,
		"data":    []interface{}{},
	})
}
