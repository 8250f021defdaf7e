package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codelab/internal/catalog"
	"codelab/internal/session"
	"codelab/pkg/logger"
	"codelab/pkg/types"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cat := catalog.New()
	manager := session.NewManager(cat, session.Config{}, logger.Noop())
	return NewServer(manager, cat, logger.Noop())
}

func doJSON(t *testing.T, s *Server, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
		req.Header.Set("X-User-Name", "User "+userID)
		req.Header.Set("X-User-Role", "student")
	}

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodeSession(t *testing.T, rec *httptest.ResponseRecorder) *types.Session {
	t.Helper()
	var resp sessionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Session)
	return resp.Session
}

func createTestSession(t *testing.T, s *Server, owner string, input types.CreateSessionInput) *types.Session {
	t.Helper()
	if input.Title == "" {
		input.Title = "API Session"
	}
	if input.Type == "" {
		input.Type = types.TypePairProgramming
	}
	rec := doJSON(t, s, http.MethodPost, "/api/sessions", owner, createSessionRequest{CreateSessionInput: input})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeSession(t, rec)
}

func TestCreateSessionEndpoint(t *testing.T) {
	s := newTestServer(t)

	created := createTestSession(t, s, "alice", types.CreateSessionInput{Title: "Graphs"})
	assert.Equal(t, "alice", created.OwnerID)
	assert.Equal(t, types.StatusCreated, created.Status)
}

func TestCreateSessionRequiresIdentity(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/sessions", "", createSessionRequest{
		CreateSessionInput: types.CreateSessionInput{Title: "x", Type: types.TypeInterview},
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateSessionValidationMapsTo400(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/sessions", "alice", createSessionRequest{
		CreateSessionInput: types.CreateSessionInput{Type: types.TypeInterview},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateFromTemplateEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/templates?type=interview", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var templates listTemplatesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&templates))
	require.NotEmpty(t, templates.Templates)

	rec = doJSON(t, s, http.MethodPost, "/api/sessions", "alice", createSessionRequest{
		CreateSessionInput: types.CreateSessionInput{Title: "From template"},
		TemplateID:         templates.Templates[0].ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeSession(t, rec)
	assert.Equal(t, types.TypeInterview, created.Type)
}

func TestGetSessionVisibility(t *testing.T) {
	s := newTestServer(t)
	private := createTestSession(t, s, "alice", types.CreateSessionInput{})
	public := createTestSession(t, s, "alice", types.CreateSessionInput{IsPublic: true})

	// Participants read private sessions.
	rec := doJSON(t, s, http.MethodGet, "/api/sessions/"+private.ID, "alice", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Non-participants cannot.
	rec = doJSON(t, s, http.MethodGet, "/api/sessions/"+private.ID, "bob", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Public sessions are readable by any authenticated user.
	rec = doJSON(t, s, http.MethodGet, "/api/sessions/"+public.ID, "bob", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/sessions/does-not-exist", "bob", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestJoinLifecycleEndpoints(t *testing.T) {
	s := newTestServer(t)
	created := createTestSession(t, s, "alice", types.CreateSessionInput{})

	rec := doJSON(t, s, http.MethodPost, "/api/sessions/"+created.ID+"/join", "bob", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result types.ActionResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.True(t, result.Success)
	require.NotNil(t, result.Session)
	assert.Len(t, result.Session.Participants, 2)

	rec = doJSON(t, s, http.MethodPost, "/api/sessions/"+created.ID+"/start", "alice", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Non-admin participant gets 403 on transitions.
	rec = doJSON(t, s, http.MethodPost, "/api/sessions/"+created.ID+"/pause", "bob", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/sessions/"+created.ID+"/end", "alice", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Ending twice is an invalid transition -> 409.
	rec = doJSON(t, s, http.MethodPost, "/api/sessions/"+created.ID+"/end", "alice", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestJoinWithInviteCode(t *testing.T) {
	s := newTestServer(t)
	created := createTestSession(t, s, "alice", types.CreateSessionInput{InviteCode: "SECRET"})

	rec := doJSON(t, s, http.MethodPost, "/api/sessions/"+created.ID+"/join", "bob",
		joinSessionRequest{InviteCode: "nope"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/sessions/"+created.ID+"/join", "bob",
		joinSessionRequest{InviteCode: "SECRET"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCapacityMapsTo409(t *testing.T) {
	s := newTestServer(t)
	created := createTestSession(t, s, "alice", types.CreateSessionInput{MaxParticipants: 1})

	rec := doJSON(t, s, http.MethodPost, "/api/sessions/"+created.ID+"/join", "bob", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUpdateSessionEndpoint(t *testing.T) {
	s := newTestServer(t)
	created := createTestSession(t, s, "alice", types.CreateSessionInput{})

	title := "Renamed"
	rec := doJSON(t, s, http.MethodPatch, "/api/sessions/"+created.ID, "alice",
		types.UpdatePatch{Title: &title})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Renamed", decodeSession(t, rec).Title)

	// A plain participant cannot update.
	rec = doJSON(t, s, http.MethodPost, "/api/sessions/"+created.ID+"/join", "bob", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, s, http.MethodPatch, "/api/sessions/"+created.ID, "bob",
		types.UpdatePatch{Title: &title})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPresenceEndpoint(t *testing.T) {
	s := newTestServer(t)
	created := createTestSession(t, s, "alice", types.CreateSessionInput{})

	typing := true
	rec := doJSON(t, s, http.MethodPut, "/api/sessions/"+created.ID+"/presence", "alice",
		types.PresenceUpdate{IsTyping: &typing})
	require.Equal(t, http.StatusOK, rec.Code)

	var result types.ActionResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	require.True(t, result.Success)
	assert.True(t, result.Session.Participant("alice").IsTyping)
}

func TestListSessionsEndpoint(t *testing.T) {
	s := newTestServer(t)
	for i := 0; i < 3; i++ {
		createTestSession(t, s, "alice", types.CreateSessionInput{Title: fmt.Sprintf("s%d", i)})
	}
	createTestSession(t, s, "bob", types.CreateSessionInput{})

	rec := doJSON(t, s, http.MethodGet, "/api/sessions", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp listSessionsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 3, resp.Count)

	rec = doJSON(t, s, http.MethodGet, "/api/sessions?limit=2", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = listSessionsResponse{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 2, resp.Count)
}

func TestTemplateCreateEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/templates", "admin", types.TemplateInput{
		Name: "Custom drill",
		Type: types.TypeGroupPractice,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created types.Template
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, "admin", created.CreatedBy)

	rec = doJSON(t, s, http.MethodPost, "/api/templates", "admin", types.TemplateInput{Type: types.TypeGroupPractice})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)
	createTestSession(t, s, "alice", types.CreateSessionInput{})

	rec := doJSON(t, s, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var health healthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, 1, health.Sessions["sessions_total"])
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodDelete, "/api/sessions", "alice", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
