package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/laneplan/internal/domain"
	"github.com/felixgeelhaar/laneplan/internal/graph"
	"github.com/felixgeelhaar/laneplan/internal/task"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	store, err := task.NewStore(task.NewSet(), func(set *task.Set) error {
		_, err := graph.Build(set)
		return err
	})
	require.NoError(t, err)

	return NewServer(store, nil, Config{Address: ":0"})
}

func doJSON(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func putTask(t *testing.T, s *Server, id string, deps ...string) *httptest.ResponseRecorder {
	t.Helper()
	depsJSON := "[]"
	if len(deps) > 0 {
		quoted := make([]string, len(deps))
		for i, d := range deps {
			quoted[i] = fmt.Sprintf("%q", d)
		}
		depsJSON = "[" + strings.Join(quoted, ",") + "]"
	}
	body := fmt.Sprintf(`{"id":%q,"title":"Task %s","size":"M","depends_on":%s}`, id, id, depsJSON)
	return doJSON(t, s, http.MethodPut, "/tasks/"+id, body)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestUpsertAndPlan(t *testing.T) {
	s := newTestServer(t)

	require.Equal(t, http.StatusOK, putTask(t, s, "a").Code)
	require.Equal(t, http.StatusOK, putTask(t, s, "b", "a").Code)
	require.Equal(t, http.StatusOK, putTask(t, s, "c", "a").Code)
	require.Equal(t, http.StatusOK, putTask(t, s, "d", "b", "c").Code)

	rec := doJSON(t, s, http.MethodGet, "/plan?batch_size=2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp planResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, []domain.TaskID{"a", "b", "d"}, resp.CriticalPath)
	assert.InDelta(t, 4.5, resp.TotalDays, 1e-9)
	require.Len(t, resp.Batches, 2)
	assert.Equal(t, []domain.TaskID{"a", "b"}, resp.Batches[0].Tasks)
	assert.Equal(t, []domain.TaskID{"c", "d"}, resp.Batches[1].Tasks)
}

func TestUpsertRejectsCycle(t *testing.T) {
	s := newTestServer(t)

	require.Equal(t, http.StatusOK, putTask(t, s, "a").Code)
	require.Equal(t, http.StatusOK, putTask(t, s, "b", "a").Code)

	// Making a depend on b closes a cycle; the committed set stays intact.
	rec := putTask(t, s, "a", "b")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "circular dependency")

	rec = doJSON(t, s, http.MethodGet, "/plan", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpsertRejectsUnknownDependency(t *testing.T) {
	s := newTestServer(t)

	rec := putTask(t, s, "a", "ghost")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGraphEndpointReportsBlockedView(t *testing.T) {
	s := newTestServer(t)

	require.Equal(t, http.StatusOK, putTask(t, s, "a").Code)
	require.Equal(t, http.StatusOK, putTask(t, s, "b", "a").Code)

	rec := doJSON(t, s, http.MethodGet, "/graph", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var tasks []graphTask
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	require.Len(t, tasks, 2)

	assert.False(t, tasks[0].Blocked)
	assert.Equal(t, []domain.TaskID{"b"}, tasks[0].Unblocks)
	assert.True(t, tasks[1].Blocked, "b waits on a")
}

func TestTransitionLifecycle(t *testing.T) {
	s := newTestServer(t)

	require.Equal(t, http.StatusOK, putTask(t, s, "a").Code)
	require.Equal(t, http.StatusOK, putTask(t, s, "b", "a").Code)

	// b cannot become ready while a is pending.
	rec := doJSON(t, s, http.MethodPost, "/tasks/b/status", `{"status":"ready"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	for _, status := range []string{"ready", "in_progress", "done"} {
		rec := doJSON(t, s, http.MethodPost, "/tasks/a/status", fmt.Sprintf(`{"status":%q}`, status))
		require.Equal(t, http.StatusNoContent, rec.Code, "transition to %s", status)
	}

	rec = doJSON(t, s, http.MethodPost, "/tasks/b/status", `{"status":"ready"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/tasks/b/status", `{"status":"bogus"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRemoveTask(t *testing.T) {
	s := newTestServer(t)

	require.Equal(t, http.StatusOK, putTask(t, s, "a").Code)
	require.Equal(t, http.StatusOK, putTask(t, s, "b", "a").Code)

	// a is still a dependency of b.
	rec := doJSON(t, s, http.MethodDelete, "/tasks/a", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doJSON(t, s, http.MethodDelete, "/tasks/b", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, s, http.MethodDelete, "/tasks/b", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPlanValidatesBatchSize(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, putTask(t, s, "a").Code)

	rec := doJSON(t, s, http.MethodGet, "/plan?batch_size=0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid batch size")
}

func TestEmptyStorePlanIsEmpty(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/plan", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp planResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.CriticalPath)
	assert.Empty(t, resp.Lanes)
}
