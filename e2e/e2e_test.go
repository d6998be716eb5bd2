//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"eventboard-go/internal/app"
	"eventboard-go/internal/config"
	"eventboard-go/pkg/logger"
)

type testEnv struct {
	app        *app.App
	server     *httptest.Server
	authServer *httptest.Server
}

func setupE2E(t *testing.T) *testEnv {
	t.Helper()

	dbCfg := config.DBConfig{
		Driver: config.DriverSQLite,
		DSN:    "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared",
	}
	if dsn := os.Getenv("E2E_DB_DSN"); dsn != "" {
		dbCfg = config.DBConfig{Driver: config.DriverPostgres, DSN: dsn}
	}

	authServer := newAuthServer(t)

	cfg := config.Config{
		HTTPPort:    "0",
		CORSOrigins: []string{"*"},
		DB:          dbCfg,
		Auth: config.AuthConfig{
			URL:     authServer.URL,
			APIKey:  "test-key",
			Timeout: 2 * time.Second,
		},
		Calendar: config.CalendarConfig{
			WeekStartsOnMonday:        true,
			InstanceLookupConcurrency: 4,
			CatalogCacheTTL:           time.Minute,
		},
	}

	application, err := app.NewWithConfig(context.Background(), cfg, logger.NewNop())
	if err != nil {
		authServer.Close()
		t.Fatalf("app init: %v", err)
	}

	if dbCfg.Driver == config.DriverPostgres {
		err := application.DB().Exec(
			"TRUNCATE TABLE instance_overrides, event_templates, categories, projects",
		).Error
		if err != nil {
			t.Fatalf("clean db: %v", err)
		}
	}

	return &testEnv{
		app:        application,
		server:     httptest.NewServer(application.Router()),
		authServer: authServer,
	}
}

func (e *testEnv) Close() {
	e.server.Close()
	e.authServer.Close()
	_ = e.app.Close()
}

func newAuthServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/user" || r.Header.Get("apikey") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
		if token == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":    token,
			"email": token + "@example.com",
			"user_metadata": map[string]interface{}{
				"name": "User " + token,
			},
		})
	}))
}

func requestJSON(t *testing.T, client *http.Client, method, url, token string, payload interface{}) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	return resp, respBody
}

func decode(t *testing.T, body []byte, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(body, dst); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type authMeResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type eventResponse struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Date         string `json:"date"`
	Priority     string `json:"priority"`
	Repeat       string `json:"repeat"`
	XP           int    `json:"xp"`
	IsComplete   bool   `json:"is_complete"`
	Requirements []struct {
		Text    string `json:"text"`
		Checked bool   `json:"checked"`
	} `json:"requirements"`
}

type progressResponse struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Percent   int `json:"percent"`
}

type occurrenceResponse struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
	Percent   int    `json:"percent"`
	IsVirtual bool   `json:"is_virtual"`
	Reference struct {
		Kind string `json:"kind"`
		Name string `json:"name"`
	} `json:"reference"`
}

type weekResponse struct {
	Start    string           `json:"start"`
	End      string           `json:"end"`
	Weekdays []string         `json:"weekdays"`
	Progress progressResponse `json:"progress"`
	Grid     struct {
		Placements []struct {
			Day        int                `json:"day"`
			Hour       int                `json:"hour"`
			Occurrence occurrenceResponse `json:"occurrence"`
		} `json:"placements"`
		Dashboard [][]occurrenceResponse `json:"dashboard"`
	} `json:"grid"`
	Categories []struct {
		Reference struct {
			Name string `json:"name"`
		} `json:"reference"`
		Progress progressResponse `json:"progress"`
	} `json:"categories"`
	Projects []struct {
		Project struct {
			Name string `json:"name"`
		} `json:"project"`
		Progress progressResponse `json:"progress"`
	} `json:"projects"`
}

func TestE2EHealthAndAuth(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}

	resp, _ := requestJSON(t, client, http.MethodGet, env.server.URL+"/api/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for health, got %d", resp.StatusCode)
	}

	resp, body := requestJSON(t, client, http.MethodGet, env.server.URL+"/api/auth/me", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}
	var envelope errorEnvelope
	decode(t, body, &envelope)
	if envelope.Error.Code != "invalid_token" {
		t.Fatalf("expected invalid_token, got %q", envelope.Error.Code)
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/auth/me", "alice", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for auth/me, got %d: %s", resp.StatusCode, body)
	}
	var me authMeResponse
	decode(t, body, &me)
	if me.ID != "alice" || me.Email != "alice@example.com" || me.Name != "User alice" {
		t.Fatalf("unexpected user %+v", me)
	}
}

func TestE2EWeekLifecycle(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	base := env.server.URL + "/api"

	resp, body := requestJSON(t, client, http.MethodPost, base+"/categories", "alice", map[string]string{
		"name":  "Health",
		"color": "#ff0000",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 for category, got %d: %s", resp.StatusCode, body)
	}

	resp, body = requestJSON(t, client, http.MethodPost, base+"/projects", "alice", map[string]string{"name": "Garden"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 for project, got %d: %s", resp.StatusCode, body)
	}

	resp, body = requestJSON(t, client, http.MethodPost, base+"/categories", "alice", map[string]string{"name": "Garden"})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for clashing name, got %d: %s", resp.StatusCode, body)
	}

	resp, body = requestJSON(t, client, http.MethodPost, base+"/events", "alice", map[string]interface{}{
		"title":          "Stretch",
		"date":           "2026-03-02",
		"time":           "from 7:00 AM to 7:30 AM",
		"category":       "Health",
		"repeat":         "Daily",
		"repeat_forever": true,
		"requirements":   []map[string]interface{}{{"text": "neck"}, {"text": "back"}},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 for event, got %d: %s", resp.StatusCode, body)
	}
	var stretch eventResponse
	decode(t, body, &stretch)
	if stretch.Priority != "Basic" || stretch.XP != 10 || len(stretch.Requirements) != 2 {
		t.Fatalf("unexpected defaults %+v", stretch)
	}

	resp, body = requestJSON(t, client, http.MethodPost, base+"/events", "alice", map[string]interface{}{
		"title":    "Plant beans",
		"date":     "2026-03-04",
		"category": "Garden",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 for project task, got %d: %s", resp.StatusCode, body)
	}

	resp, body = requestJSON(t, client, http.MethodPost, base+"/events", "alice", map[string]interface{}{
		"title": "Bad",
		"date":  "2026-02-30",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid date, got %d: %s", resp.StatusCode, body)
	}

	occurrenceURL := base + "/events/" + stretch.ID + "/occurrences/"
	resp, body = requestJSON(t, client, http.MethodPatch, occurrenceURL+"2026-03-03", "alice", map[string]interface{}{
		"is_complete": true,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for occurrence update, got %d: %s", resp.StatusCode, body)
	}

	resp, body = requestJSON(t, client, http.MethodPatch, occurrenceURL+"2026-03-04", "alice", map[string]interface{}{
		"requirements": []map[string]interface{}{{"text": "neck", "checked": true}, {"text": "back"}},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for requirements update, got %d: %s", resp.StatusCode, body)
	}

	resp, body = requestJSON(t, client, http.MethodDelete, occurrenceURL+"2026-03-06", "alice", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204 for occurrence delete, got %d: %s", resp.StatusCode, body)
	}

	resp, body = requestJSON(t, client, http.MethodPatch, occurrenceURL+"2026-03-01", "alice", map[string]interface{}{
		"is_complete": true,
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 before the anchor, got %d: %s", resp.StatusCode, body)
	}

	resp, body = requestJSON(t, client, http.MethodGet, base+"/calendar/week?start=2026-03-04", "alice", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for week, got %d: %s", resp.StatusCode, body)
	}
	var week weekResponse
	decode(t, body, &week)
	if week.Start != "2026-03-02" || week.End != "2026-03-09" || week.Weekdays[0] != "Monday" {
		t.Fatalf("unexpected week bounds %s..%s %v", week.Start, week.End, week.Weekdays)
	}
	// Six stretches (one deleted); the project task counts under Garden only.
	if week.Progress.Total != 6 || week.Progress.Completed != 1 {
		t.Fatalf("unexpected week progress %+v", week.Progress)
	}
	if len(week.Grid.Placements) != 6 {
		t.Fatalf("expected 6 placements, got %d", len(week.Grid.Placements))
	}
	if week.Grid.Placements[1].Occurrence.Date != "2026-03-03" || !week.Grid.Placements[1].Occurrence.Completed {
		t.Fatalf("expected Tuesday stretch completed, got %+v", week.Grid.Placements[1].Occurrence)
	}
	if week.Grid.Placements[2].Occurrence.Percent != 50 {
		t.Fatalf("expected Wednesday stretch at 50%%, got %+v", week.Grid.Placements[2].Occurrence)
	}
	if len(week.Grid.Dashboard[2]) != 1 || week.Grid.Dashboard[2][0].Reference.Kind != "project" {
		t.Fatalf("expected project task on Wednesday dashboard, got %+v", week.Grid.Dashboard[2])
	}
	if len(week.Projects) != 1 || week.Projects[0].Project.Name != "Garden" || week.Projects[0].Progress.Total != 1 {
		t.Fatalf("unexpected projects %+v", week.Projects)
	}

	resp, body = requestJSON(t, client, http.MethodGet, base+"/calendar/feed.ics", "alice", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for feed, got %d: %s", resp.StatusCode, body)
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/calendar") {
		t.Fatalf("unexpected content type %q", resp.Header.Get("Content-Type"))
	}
	if !strings.Contains(string(body), "RRULE:FREQ=DAILY") || !strings.Contains(string(body), "EXDATE;VALUE=DATE:20260306") {
		t.Fatalf("unexpected feed:\n%s", body)
	}

	resp, body = requestJSON(t, client, http.MethodDelete, base+"/events/"+stretch.ID+"/series", "alice", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204 for series delete, got %d: %s", resp.StatusCode, body)
	}

	resp, body = requestJSON(t, client, http.MethodGet, base+"/calendar/day?date=2026-03-04", "alice", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for day, got %d: %s", resp.StatusCode, body)
	}
	var day struct {
		Progress    progressResponse     `json:"progress"`
		Occurrences []occurrenceResponse `json:"occurrences"`
		Projects    []struct {
			Tasks []occurrenceResponse `json:"tasks"`
		} `json:"projects"`
	}
	decode(t, body, &day)
	if len(day.Occurrences) != 0 || day.Progress.Total != 0 {
		t.Fatalf("expected no scheduled entries left, got %+v", day)
	}
	if len(day.Projects) != 1 || len(day.Projects[0].Tasks) != 1 {
		t.Fatalf("expected the project task listed, got %+v", day.Projects)
	}
}

func TestE2EUsersAreIsolated(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	base := env.server.URL + "/api"

	resp, body := requestJSON(t, client, http.MethodPost, base+"/events", "alice", map[string]interface{}{
		"title": "Private",
		"date":  "2026-03-04",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, body)
	}
	var created eventResponse
	decode(t, body, &created)

	resp, _ = requestJSON(t, client, http.MethodGet, base+"/events/"+created.ID, "bob", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for another user, got %d", resp.StatusCode)
	}

	resp, body = requestJSON(t, client, http.MethodGet, base+"/calendar/week?start=2026-03-02", "bob", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var week weekResponse
	decode(t, body, &week)
	if week.Progress.Total != 0 {
		t.Fatalf("expected empty week for bob, got %+v", week.Progress)
	}
}

func TestE2EBoardNavigation(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	base := env.server.URL + "/api/calendar/board"

	resp, body := requestJSON(t, client, http.MethodPost, base+"/navigate", "alice", map[string]string{"start": "2026-03-04"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	var week weekResponse
	decode(t, body, &week)
	if week.Start != "2026-03-02" {
		t.Fatalf("expected snapped start, got %s", week.Start)
	}

	resp, body = requestJSON(t, client, http.MethodPost, base+"/navigate", "alice", map[string]string{"direction": "next"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	decode(t, body, &week)
	if week.Start != "2026-03-09" {
		t.Fatalf("expected next week, got %s", week.Start)
	}

	resp, body = requestJSON(t, client, http.MethodGet, base, "alice", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	decode(t, body, &week)
	if week.Start != "2026-03-09" {
		t.Fatalf("expected committed week kept, got %s", week.Start)
	}

	resp, _ = requestJSON(t, client, http.MethodPost, base+"/navigate", "alice", map[string]string{"direction": "sideways"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown direction, got %d", resp.StatusCode)
	}
}

func TestE2EResolutionFailureServesZeroWeek(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	if err := env.app.Close(); err != nil {
		t.Fatalf("close db: %v", err)
	}

	resp, body := requestJSON(t, client, http.MethodGet, env.server.URL+"/api/calendar/week?start=2026-03-02", "alice", nil)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d: %s", resp.StatusCode, body)
	}
	var payload struct {
		errorEnvelope
		Week weekResponse `json:"week"`
	}
	decode(t, body, &payload)
	if payload.Error.Code != "resolution_failed" {
		t.Fatalf("expected resolution_failed, got %q", payload.Error.Code)
	}
	if payload.Week.Start != "2026-03-02" || payload.Week.Progress.Total != 0 || len(payload.Week.Grid.Dashboard) != 7 {
		t.Fatalf("expected zero week payload, got %+v", payload.Week)
	}
}
