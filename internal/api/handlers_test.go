package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lifeos-proxy/internal/domain"
	"lifeos-proxy/internal/errors"
	"lifeos-proxy/internal/gateway"
	"lifeos-proxy/internal/normalize"
	"lifeos-proxy/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockForwarder struct {
	mock.Mock
}

func (m *mockForwarder) Forward(ctx context.Context, update gateway.UpdateRequest) (*gateway.RelayedResponse, error) {
	args := m.Called(ctx, update)
	if resp := args.Get(0); resp != nil {
		return resp.(*gateway.RelayedResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func cell(v interface{}) *domain.Cell {
	if v == nil {
		return nil
	}
	return &domain.Cell{V: v, F: fmt.Sprint(v)}
}

func trackerRow(date, start, task string) domain.Row {
	return domain.Row{C: []*domain.Cell{nil, cell("Work"), cell(date), cell(start), nil, nil, cell(task)}}
}

func statsRow(date string, done float64) domain.Row {
	return domain.Row{C: []*domain.Cell{cell(date), cell(done), cell(1.0), cell(0.0), cell(2.0), cell(done + 3), cell(50.0), cell(25.0)}}
}

func staticSource(tables map[string]*domain.Table) gateway.TableSource {
	return gateway.TableSourceFunc(func(_ context.Context, sheet string) (*gateway.Snapshot, error) {
		table, ok := tables[sheet]
		if !ok {
			return nil, errors.NewUpstreamStatusError("read sheet "+sheet, http.StatusNotFound)
		}
		return &gateway.Snapshot{Sheet: sheet, Table: table, FetchedAt: time.Date(2025, 3, 15, 2, 0, 0, 0, time.UTC)}, nil
	})
}

type testEnv struct {
	handler   http.Handler
	forwarder *mockForwarder
}

func setupTestServer(t *testing.T, source gateway.TableSource) *testEnv {
	t.Helper()

	n, err := normalize.New("Asia/Kolkata", "")
	require.NoError(t, err)
	ist, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	now := time.Date(2025, 3, 15, 23, 30, 0, 0, ist)

	forwarder := &mockForwarder{}
	service := services.NewTaskService(source, forwarder, n,
		services.Options{TasksSheet: "Tracker_Backup", StatsSheet: "Stats", MaxRows: 800},
		func() time.Time { return now })

	return &testEnv{handler: NewRouter(service, discardLogger()), forwarder: forwarder}
}

func defaultTables() map[string]*domain.Table {
	return map[string]*domain.Table{
		"Tracker_Backup": {Rows: []domain.Row{
			trackerRow("15/03/2025", "02:30 PM", "Review"),
			trackerRow("15/03/2025", "09:00 AM", "Standup"),
			trackerRow("16/03/2025", "07:00 AM", "Gym"),
			trackerRow("15/03/2025", "09:00 AM", "Email"),
		}},
		"Stats": {Rows: []domain.Row{
			statsRow("15/03/2025", 4),
			statsRow("", 9),
		}},
	}
}

func doGet(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func taskNames(t *testing.T, body map[string]interface{}) []string {
	t.Helper()
	raw, ok := body["tasks"].([]interface{})
	require.True(t, ok, "tasks should be a JSON array")
	names := make([]string, 0, len(raw))
	for _, item := range raw {
		names = append(names, item.(map[string]interface{})["task"].(string))
	}
	return names
}

func TestHandleTasks(t *testing.T) {
	env := setupTestServer(t, staticSource(defaultTables()))

	tests := []struct {
		name      string
		target    string
		wantTasks []string
		wantDebug bool
	}{
		{"today sorted with stable ties", "/tasks", []string{"Standup", "Email", "Review"}, false},
		{"tomorrow flag", "/tasks?tomorrow=1", []string{"Gym"}, false},
		{"tomorrow flag as true", "/tasks?tomorrow=true", []string{"Gym"}, false},
		{"debug flag", "/tasks?debug=1", []string{"Standup", "Email", "Review"}, true},
		{"unknown flag value", "/tasks?tomorrow=0", []string{"Standup", "Email", "Review"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(t, env.handler, tt.target)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

			body := decodeBody(t, w)
			assert.Equal(t, "ok", body["status"])
			assert.Equal(t, tt.wantTasks, taskNames(t, body))

			debug, hasDebug := body["debug"].(map[string]interface{})
			assert.Equal(t, tt.wantDebug, hasDebug)
			if tt.wantDebug {
				assert.Equal(t, "2025-03-15", debug["targetDay"])
				assert.Equal(t, "Asia/Kolkata", debug["timezone"])
				assert.EqualValues(t, 4, debug["totalRows"])
			}
		})
	}
}

func TestHandleTasks_EmptyDayIsArray(t *testing.T) {
	env := setupTestServer(t, staticSource(map[string]*domain.Table{"Tracker_Backup": {}}))

	w := doGet(t, env.handler, "/tasks")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","tasks":[]}`, w.Body.String())
}

func TestHandleTasks_ParsedDateIsUTC(t *testing.T) {
	env := setupTestServer(t, staticSource(map[string]*domain.Table{"Tracker_Backup": {Rows: []domain.Row{
		trackerRow("15/03/2025", "09:00 AM", "Standup"),
	}}}))

	w := doGet(t, env.handler, "/tasks")

	require.Equal(t, http.StatusOK, w.Code)
	tasks := decodeBody(t, w)["tasks"].([]interface{})
	require.Len(t, tasks, 1)
	// Midnight in Asia/Kolkata.
	assert.Equal(t, "2025-03-14T18:30:00Z", tasks[0].(map[string]interface{})["parsedDate"])
}

func TestHandleTasks_InvalidUpstream(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"status":"ok","table":{"rows":[]}}`))
	}))
	defer upstream.Close()

	source := gateway.NewGVizSource(upstream.Client(), func(string) string { return upstream.URL })
	env := setupTestServer(t, source)

	w := doGet(t, env.handler, "/tasks")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "error", body["status"])
	assert.Contains(t, body["message"], "invalid response")
}

func TestHandleTasks_UpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer upstream.Close()

	source := gateway.NewGVizSource(upstream.Client(), func(string) string { return upstream.URL })
	env := setupTestServer(t, source)

	w := doGet(t, env.handler, "/tasks")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "error", body["status"])
	assert.Contains(t, body["message"], "502")
}

func TestHandleUpdate(t *testing.T) {
	t.Run("relays the write-back answer", func(t *testing.T) {
		env := setupTestServer(t, staticSource(defaultTables()))
		env.forwarder.On("Forward", mock.Anything, gateway.UpdateRequest{TaskKey: "abc123", Status: "Done"}).
			Return(&gateway.RelayedResponse{StatusCode: http.StatusAccepted, Body: []byte(`{"result":"updated"}`)}, nil).Once()

		w := doGet(t, env.handler, "/update?taskKey=abc123&status=Done")

		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, `{"result":"updated"}`, w.Body.String())
		env.forwarder.AssertExpectations(t)
	})

	t.Run("relays error statuses unchanged", func(t *testing.T) {
		env := setupTestServer(t, staticSource(defaultTables()))
		env.forwarder.On("Forward", mock.Anything, mock.Anything).
			Return(&gateway.RelayedResponse{StatusCode: http.StatusNotFound, Body: []byte(`not here`)}, nil).Once()

		w := doGet(t, env.handler, "/update?taskKey=k&status=Done")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "not here", w.Body.String())
	})

	t.Run("forwards values verbatim", func(t *testing.T) {
		longKey := strings.Repeat("K", 200)
		verbatim := []struct {
			name   string
			target string
			want   gateway.UpdateRequest
		}{
			{"long key", "/update?taskKey=" + longKey + "&status=Done", gateway.UpdateRequest{TaskKey: longKey, Status: "Done"}},
			{"padded key", "/update?taskKey=%20T1%20&status=Done%20", gateway.UpdateRequest{TaskKey: " T1 ", Status: "Done "}},
			{"tab in status", "/update?taskKey=T1&status=In%09Progress", gateway.UpdateRequest{TaskKey: "T1", Status: "In\tProgress"}},
		}
		for _, tt := range verbatim {
			t.Run(tt.name, func(t *testing.T) {
				env := setupTestServer(t, staticSource(defaultTables()))
				env.forwarder.On("Forward", mock.Anything, tt.want).
					Return(&gateway.RelayedResponse{StatusCode: http.StatusOK, Body: []byte(`{"ok":true}`)}, nil).Once()

				w := doGet(t, env.handler, tt.target)

				assert.Equal(t, http.StatusOK, w.Code)
				assert.Equal(t, `{"ok":true}`, w.Body.String())
				env.forwarder.AssertExpectations(t)
			})
		}
	})

	missing := []struct {
		name   string
		target string
	}{
		{"missing status", "/update?taskKey=abc"},
		{"missing task key", "/update?status=Done"},
		{"both missing", "/update"},
		{"blank values", "/update?taskKey=%20&status="},
	}
	for _, tt := range missing {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestServer(t, staticSource(defaultTables()))

			w := doGet(t, env.handler, tt.target)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"error":"Missing taskKey or status"}`, w.Body.String())
			env.forwarder.AssertNotCalled(t, "Forward", mock.Anything, mock.Anything)
		})
	}

	t.Run("forwarding failure", func(t *testing.T) {
		env := setupTestServer(t, staticSource(defaultTables()))
		env.forwarder.On("Forward", mock.Anything, mock.Anything).
			Return(nil, errors.NewUpstreamUnavailableError("forward status update", fmt.Errorf("connection refused"))).Once()

		w := doGet(t, env.handler, "/update?taskKey=k&status=Done")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		body := decodeBody(t, w)
		assert.Contains(t, body["error"], "forward status update")
	})
}

func TestHandleStats(t *testing.T) {
	t.Run("dated rows only", func(t *testing.T) {
		env := setupTestServer(t, staticSource(defaultTables()))

		w := doGet(t, env.handler, "/stats")

		assert.Equal(t, http.StatusOK, w.Code)
		var body StatsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "ok", body.Status)
		require.Len(t, body.Stats, 1)
		assert.Equal(t, "15/03/2025", body.Stats[0].Date)
		assert.Equal(t, 4.0, body.Stats[0].Done)
		assert.Equal(t, 7.0, body.Stats[0].Total)
	})

	t.Run("source failure", func(t *testing.T) {
		env := setupTestServer(t, staticSource(map[string]*domain.Table{}))

		w := doGet(t, env.handler, "/stats")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		body := decodeBody(t, w)
		assert.Contains(t, body["error"], "read sheet Stats")
	})
}

func TestPreflight(t *testing.T) {
	env := setupTestServer(t, staticSource(defaultTables()))

	for _, path := range []string{"/tasks", "/update", "/anything"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, path, nil)
			w := httptest.NewRecorder()
			env.handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusNoContent, w.Code)
			assert.Empty(t, w.Body.String())
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "GET, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
			assert.Equal(t, "Content-Type", w.Header().Get("Access-Control-Allow-Headers"))
		})
	}
}

func TestDefaultRoute(t *testing.T) {
	env := setupTestServer(t, staticSource(defaultTables()))

	tests := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/"},
		{http.MethodGet, "/nope"},
		{http.MethodPost, "/tasks"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(""))
			w := httptest.NewRecorder()
			env.handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			var body PingResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, PingMessage, body.Message)
			assert.Equal(t, PingUsage, body.Usage)
		})
	}
}

func TestHandleHealth(t *testing.T) {
	env := setupTestServer(t, staticSource(defaultTables()))

	w := doGet(t, env.handler, "/healthz")

	assert.Equal(t, http.StatusOK, w.Code)
	var body HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, Version, body.Version)
}
