// Package api is the thin HTTP surface over the session manager. It performs
// no business logic: it decodes requests, extracts the pre-authenticated
// identity, invokes one manager operation and maps the outcome to a status
// code. Authentication itself is an external collaborator; the identity
// headers are trusted as-is.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"codelab/internal/catalog"
	"codelab/internal/session"
	"codelab/pkg/interfaces"
	"codelab/pkg/logger"
	"codelab/pkg/types"
)

// Identity headers supplied by the upstream auth layer.
const (
	headerUserID     = "X-User-Id"
	headerUserName   = "X-User-Name"
	headerUserEmail  = "X-User-Email"
	headerUserRole   = "X-User-Role"
	headerUserAvatar = "X-User-Avatar"
)

// Server exposes the session manager and template catalog over HTTP.
type Server struct {
	manager interfaces.SessionManager
	catalog interfaces.TemplateCatalog
	logger  logger.Logger
	router  *http.ServeMux
	started time.Time
}

// NewServer wires the routes. The server implements http.Handler.
func NewServer(manager interfaces.SessionManager, cat interfaces.TemplateCatalog, log logger.Logger) *Server {
	if log == nil {
		log = logger.Noop()
	}
	s := &Server{
		manager: manager,
		catalog: cat,
		logger:  log,
		router:  http.NewServeMux(),
		started: time.Now(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Handle("/api/sessions", s.corsMiddleware(s.jsonMiddleware(http.HandlerFunc(s.handleSessions))))
	s.router.Handle("/api/sessions/", s.corsMiddleware(s.jsonMiddleware(http.HandlerFunc(s.handleSessionByID))))
	s.router.Handle("/api/templates", s.corsMiddleware(s.jsonMiddleware(http.HandlerFunc(s.handleTemplates))))
	s.router.Handle("/health", s.corsMiddleware(s.jsonMiddleware(http.HandlerFunc(s.healthCheck))))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Request/response shapes.

type createSessionRequest struct {
	types.CreateSessionInput
	TemplateID string `json:"template_id,omitempty"`
}

type joinSessionRequest struct {
	Permission types.Permission `json:"permission,omitempty"`
	InviteCode string           `json:"invite_code,omitempty"`
}

type sessionResponse struct {
	Session *types.Session `json:"session"`
}

type listSessionsResponse struct {
	Sessions []*types.Session `json:"sessions"`
	Count    int              `json:"count"`
}

type listTemplatesResponse struct {
	Templates []*types.Template `json:"templates"`
	Count     int               `json:"count"`
}

type healthResponse struct {
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Uptime    string         `json:"uptime"`
	Sessions  map[string]int `json:"sessions"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// handleSessions serves POST /api/sessions and GET /api/sessions.
func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createSession(w, r)
	case http.MethodGet:
		s.listSessions(w, r)
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
	default:
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleSessionByID serves /api/sessions/{id} and /api/sessions/{id}/{action}.
func (s *Server) handleSessionByID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	parts := strings.SplitN(strings.Trim(path, "/"), "/", 2)
	if parts[0] == "" {
		s.sendError(w, "Session ID required", http.StatusBadRequest)
		return
	}
	sessionID := parts[0]

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			s.getSession(w, r, sessionID)
		case http.MethodPatch:
			s.updateSession(w, r, sessionID)
		case http.MethodDelete:
			s.endSession(w, r, sessionID)
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
		default:
			s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	action := parts[1]
	if action == "presence" {
		if r.Method != http.MethodPut {
			s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.updatePresence(w, r, sessionID)
		return
	}

	if r.Method != http.MethodPost {
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	identity, ok := s.identity(w, r)
	if !ok {
		return
	}

	switch action {
	case "join":
		s.joinSession(w, r, sessionID, identity)
	case "leave":
		s.writeResult(w, s.manager.LeaveSession(sessionID, identity.ID))
	case "start":
		s.writeResult(w, s.manager.StartSession(sessionID, identity.ID))
	case "pause":
		s.writeResult(w, s.manager.PauseSession(sessionID, identity.ID))
	case "resume":
		s.writeResult(w, s.manager.ResumeSession(sessionID, identity.ID))
	case "end":
		s.writeResult(w, s.manager.EndSession(sessionID, identity.ID))
	default:
		s.sendError(w, "Unknown session action", http.StatusNotFound)
	}
}

// createSession serves POST /api/sessions, optionally from a template.
func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.identity(w, r)
	if !ok {
		return
	}

	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	var (
		created *types.Session
		err     error
	)
	if req.TemplateID != "" {
		created, err = s.manager.CreateSessionFromTemplate(identity, req.TemplateID, req.CreateSessionInput)
	} else {
		created, err = s.manager.CreateSession(identity, req.CreateSessionInput)
	}
	if err != nil {
		s.sendError(w, err.Error(), statusForError(err))
		return
	}

	w.WriteHeader(http.StatusCreated)
	s.encode(w, sessionResponse{Session: created})
}

// listSessions serves GET /api/sessions for the calling user with optional
// type/status filters and paging.
func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.identity(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := types.ListFilter{
		Type:   types.SessionType(q.Get("type")),
		Status: types.SessionStatus(q.Get("status")),
		Limit:  parseIntParam(q.Get("limit")),
		Offset: parseIntParam(q.Get("offset")),
	}

	sessions := s.manager.ListUserSessions(identity.ID, filter)
	s.encode(w, listSessionsResponse{Sessions: sessions, Count: len(sessions)})
}

// getSession serves GET /api/sessions/{id}. Private sessions are only
// readable by their participants; public sessions by any authenticated user.
func (s *Server) getSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	identity, ok := s.identity(w, r)
	if !ok {
		return
	}

	found, err := s.manager.GetSession(sessionID)
	if err != nil {
		s.sendError(w, err.Error(), statusForError(err))
		return
	}

	if !found.IsPublic && found.Participant(identity.ID) == nil {
		s.sendError(w, "Not a participant of this session", http.StatusForbidden)
		return
	}
	s.encode(w, sessionResponse{Session: found})
}

// updateSession serves PATCH /api/sessions/{id}.
func (s *Server) updateSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	identity, ok := s.identity(w, r)
	if !ok {
		return
	}

	var patch types.UpdatePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.sendError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	updated, err := s.manager.UpdateSession(sessionID, identity.ID, patch)
	if err != nil {
		s.sendError(w, err.Error(), statusForError(err))
		return
	}
	s.encode(w, sessionResponse{Session: updated})
}

// endSession serves DELETE /api/sessions/{id} as an alias for the end action.
func (s *Server) endSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	identity, ok := s.identity(w, r)
	if !ok {
		return
	}
	s.writeResult(w, s.manager.EndSession(sessionID, identity.ID))
}

// joinSession serves POST /api/sessions/{id}/join.
func (s *Server) joinSession(w http.ResponseWriter, r *http.Request, sessionID string, identity types.Identity) {
	var req joinSessionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.sendError(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
	}

	result := s.manager.JoinSession(sessionID, types.JoinRequest{
		Identity:   identity,
		Permission: req.Permission,
	}, req.InviteCode)
	s.writeResult(w, result)
}

// updatePresence serves PUT /api/sessions/{id}/presence.
func (s *Server) updatePresence(w http.ResponseWriter, r *http.Request, sessionID string) {
	identity, ok := s.identity(w, r)
	if !ok {
		return
	}

	var update types.PresenceUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		s.sendError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	s.writeResult(w, s.manager.UpdatePresence(sessionID, identity.ID, update))
}

// handleTemplates serves GET and POST /api/templates.
func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		templates := s.catalog.List(types.TemplateFilter{
			Type:   types.SessionType(q.Get("type")),
			Limit:  parseIntParam(q.Get("limit")),
			Offset: parseIntParam(q.Get("offset")),
		})
		s.encode(w, listTemplatesResponse{Templates: templates, Count: len(templates)})
	case http.MethodPost:
		identity, ok := s.identity(w, r)
		if !ok {
			return
		}
		var input types.TemplateInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			s.sendError(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		input.CreatedBy = identity.ID
		template, err := s.catalog.Create(input)
		if err != nil {
			s.sendError(w, err.Error(), statusForError(err))
			return
		}
		w.WriteHeader(http.StatusCreated)
		s.encode(w, template)
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
	default:
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// healthCheck serves GET /health with registry counters.
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	s.encode(w, healthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Uptime:    time.Since(s.started).Round(time.Second).String(),
		Sessions:  s.manager.Stats(),
	})
}

// identity extracts the trusted identity headers, rejecting the request when
// the upstream auth layer supplied no user id.
func (s *Server) identity(w http.ResponseWriter, r *http.Request) (types.Identity, bool) {
	id := r.Header.Get(headerUserID)
	if id == "" {
		s.sendError(w, "Missing identity", http.StatusUnauthorized)
		return types.Identity{}, false
	}
	return types.Identity{
		ID:     id,
		Name:   r.Header.Get(headerUserName),
		Email:  r.Header.Get(headerUserEmail),
		Role:   r.Header.Get(headerUserRole),
		Avatar: r.Header.Get(headerUserAvatar),
	}, true
}

// writeResult maps an ActionResult to an HTTP response. Failed results keep
// their {success:false, message} body alongside the mapped status code.
func (s *Server) writeResult(w http.ResponseWriter, result types.ActionResult) {
	if !result.Success {
		w.WriteHeader(statusForError(result.Err))
	}
	s.encode(w, result)
}

// statusForError maps the manager's error taxonomy onto status codes:
// not-found 404, authorization 403, capacity and invalid transition 409,
// validation 400, anything unexpected 500.
func statusForError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case isAny(err, session.ErrSessionNotFound, session.ErrParticipantNotFound, catalog.ErrTemplateNotFound):
		return http.StatusNotFound
	case isAny(err, session.ErrUnauthorized, session.ErrInvalidInviteCode):
		return http.StatusForbidden
	case isAny(err, session.ErrSessionFull, session.ErrInvalidTransition, session.ErrSessionEnded, session.ErrSessionLimitReached):
		return http.StatusConflict
	case isAny(err, types.ErrInvalidTitle, types.ErrInvalidSessionType, types.ErrInvalidMaxParticipants,
		types.ErrInvalidTemplateName, types.ErrInvalidUserID, types.ErrInvalidPermission, catalog.ErrInvalidDuration):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func isAny(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (s *Server) encode(w http.ResponseWriter, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) sendError(w http.ResponseWriter, message string, code int) {
	w.WriteHeader(code)
	s.encode(w, errorResponse{
		Error:   http.StatusText(code),
		Code:    code,
		Message: message,
	})
}

func parseIntParam(raw string) int {
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// corsMiddleware allows browser clients on other origins to reach the API.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-User-Id, X-User-Name, X-User-Email, X-User-Role, X-User-Avatar")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// jsonMiddleware sets the response content type for all API responses.
func (s *Server) jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
