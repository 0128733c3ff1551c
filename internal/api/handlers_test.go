package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/uidraft/uidraft/internal/engine"
	"github.com/uidraft/uidraft/internal/export"
	"github.com/uidraft/uidraft/internal/model"
	"github.com/uidraft/uidraft/internal/session"
	"github.com/uidraft/uidraft/internal/store"
)

type fakeGithub struct {
	repos []export.Repo
	err   error
}

func (f *fakeGithub) ListRepos(context.Context, string) ([]export.Repo, error) {
	return f.repos, f.err
}

type fakeExporter struct {
	calls int
	err   error
}

func (f *fakeExporter) UpsertFile(context.Context, model.GithubConfig, string, int) error {
	f.calls++
	return f.err
}

func newTestServer(t *testing.T) (*Server, *fakeGithub, *fakeExporter) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := store.OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s, err := store.New(db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	gh := &fakeGithub{}
	exp := &fakeExporter{}
	orch := session.New(context.Background(), s, &engine.StubModelClient{},
		session.WithExporter(exp))
	return New(orch, gh, s), gh, exp
}

func doRequest(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var result map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode JSON: %v\nbody: %s", err, rr.Body.String())
	}
	return result
}

func TestState_FreshInstall(t *testing.T) {
	srv, _, _ := newTestServer(t)
	h := srv.Handler()

	rr := doRequest(t, h, "GET", "/api/state", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rr.Code, rr.Body.String())
	}

	result := decodeJSON(t, rr)
	if result["status"] != "IDLE" {
		t.Errorf("status = %v, want IDLE", result["status"])
	}
	if result["active_project_id"] == "" {
		t.Error("active_project_id should be assigned on startup")
	}
	if projects, ok := result["projects"].([]any); !ok || len(projects) != 0 {
		t.Errorf("projects = %v, want empty list", result["projects"])
	}
}

func TestSendMessage(t *testing.T) {
	srv, _, _ := newTestServer(t)
	h := srv.Handler()

	rr := doRequest(t, h, "POST", "/api/messages", `{"text":"a pricing table"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body: %s", rr.Code, rr.Body.String())
	}
	result := decodeJSON(t, rr)
	if result["version"] != float64(1) {
		t.Errorf("version = %v, want 1", result["version"])
	}
	if result["prompt"] != "a pricing table" {
		t.Errorf("prompt = %v", result["prompt"])
	}

	// State now carries the project with one version and both messages.
	state := decodeJSON(t, doRequest(t, h, "GET", "/api/state", ""))
	project, ok := state["project"].(map[string]any)
	if !ok {
		t.Fatalf("state has no project: %v", state)
	}
	if got := project["current_index"]; got != float64(0) {
		t.Errorf("current_index = %v, want 0", got)
	}
	if msgs, _ := project["messages"].([]any); len(msgs) != 2 {
		t.Errorf("messages len = %d, want 2", len(msgs))
	}
}

func TestSendMessage_Validation(t *testing.T) {
	srv, _, _ := newTestServer(t)
	h := srv.Handler()

	if rr := doRequest(t, h, "POST", "/api/messages", `{"image":"abc"}`); rr.Code != http.StatusBadRequest {
		t.Errorf("missing text: status = %d, want 400", rr.Code)
	}
	if rr := doRequest(t, h, "POST", "/api/messages", `{not json`); rr.Code != http.StatusBadRequest {
		t.Errorf("bad json: status = %d, want 400", rr.Code)
	}
}

func TestPreview(t *testing.T) {
	srv, _, _ := newTestServer(t)
	h := srv.Handler()

	if rr := doRequest(t, h, "GET", "/api/preview", ""); rr.Code != http.StatusNotFound {
		t.Errorf("empty project preview: status = %d, want 404", rr.Code)
	}

	doRequest(t, h, "POST", "/api/messages", `{"text":"a card"}`)

	rr := doRequest(t, h, "GET", "/api/preview", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
	if !strings.Contains(rr.Body.String(), "Stub Component") {
		t.Error("preview document missing component code")
	}

	if rr := doRequest(t, h, "GET", "/api/preview?version=1", ""); rr.Code != http.StatusOK {
		t.Errorf("version=1: status = %d, want 200", rr.Code)
	}
	if rr := doRequest(t, h, "GET", "/api/preview?version=9", ""); rr.Code != http.StatusNotFound {
		t.Errorf("version=9: status = %d, want 404", rr.Code)
	}
	if rr := doRequest(t, h, "GET", "/api/preview?version=abc", ""); rr.Code != http.StatusBadRequest {
		t.Errorf("version=abc: status = %d, want 400", rr.Code)
	}
}

func TestProjectLifecycle(t *testing.T) {
	srv, _, _ := newTestServer(t)
	h := srv.Handler()

	doRequest(t, h, "POST", "/api/messages", `{"text":"a card"}`)
	state := decodeJSON(t, doRequest(t, h, "GET", "/api/state", ""))
	firstID := state["active_project_id"].(string)

	rr := doRequest(t, h, "POST", "/api/projects", "")
	if rr.Code != http.StatusCreated {
		t.Fatalf("new project: status = %d", rr.Code)
	}
	newID := decodeJSON(t, rr)["id"].(string)
	if newID == firstID {
		t.Error("new project should get a fresh id")
	}

	if rr := doRequest(t, h, "POST", "/api/projects/nope/select", ""); rr.Code != http.StatusNotFound {
		t.Errorf("select unknown project: status = %d, want 404", rr.Code)
	}

	rr = doRequest(t, h, "POST", "/api/projects/"+firstID+"/select", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("select project: status = %d", rr.Code)
	}
	if got := decodeJSON(t, rr)["active_project_id"]; got != firstID {
		t.Errorf("active_project_id = %v, want %v", got, firstID)
	}

	rr = doRequest(t, h, "GET", "/api/projects", "")
	var projects []session.ProjectSummary
	if err := json.Unmarshal(rr.Body.Bytes(), &projects); err != nil {
		t.Fatalf("decode projects: %v", err)
	}
	if len(projects) != 1 || projects[0].Versions != 1 {
		t.Errorf("projects = %+v, want the one saved project", projects)
	}
}

func TestSelectVersion(t *testing.T) {
	srv, _, _ := newTestServer(t)
	h := srv.Handler()

	doRequest(t, h, "POST", "/api/messages", `{"text":"a card"}`)
	doRequest(t, h, "POST", "/api/messages", `{"text":"make it blue"}`)

	rr := doRequest(t, h, "POST", "/api/versions/0/select", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	project := decodeJSON(t, rr)["project"].(map[string]any)
	if got := project["current_index"]; got != float64(0) {
		t.Errorf("current_index = %v, want 0", got)
	}

	if rr := doRequest(t, h, "POST", "/api/versions/5/select", ""); rr.Code != http.StatusNotFound {
		t.Errorf("out of range: status = %d, want 404", rr.Code)
	}
	if rr := doRequest(t, h, "POST", "/api/versions/abc/select", ""); rr.Code != http.StatusBadRequest {
		t.Errorf("non-integer: status = %d, want 400", rr.Code)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	srv, _, _ := newTestServer(t)
	h := srv.Handler()

	result := decodeJSON(t, doRequest(t, h, "GET", "/api/config", ""))
	if result["branch"] != "main" {
		t.Errorf("default branch = %v, want main", result["branch"])
	}
	if result["token_set"] != false {
		t.Errorf("token_set = %v, want false", result["token_set"])
	}

	rr := doRequest(t, h, "PUT", "/api/config",
		`{"token":"ghp_x","owner":"octocat","repo":"playground"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("put config: status = %d", rr.Code)
	}

	result = decodeJSON(t, doRequest(t, h, "GET", "/api/config", ""))
	if result["token_set"] != true {
		t.Error("token_set should be true after save")
	}
	if result["owner"] != "octocat" {
		t.Errorf("owner = %v", result["owner"])
	}
	if _, leaked := result["token"]; leaked {
		t.Error("token must never be echoed")
	}

	// Saving without a token keeps the stored one.
	doRequest(t, h, "PUT", "/api/config", `{"owner":"octocat","repo":"other"}`)
	result = decodeJSON(t, doRequest(t, h, "GET", "/api/config", ""))
	if result["token_set"] != true {
		t.Error("empty token in update should keep the stored token")
	}
	if result["repo"] != "other" {
		t.Errorf("repo = %v, want other", result["repo"])
	}
}

func TestExportGithub(t *testing.T) {
	srv, _, exp := newTestServer(t)
	h := srv.Handler()

	if rr := doRequest(t, h, "POST", "/api/export/github", ""); rr.Code != http.StatusPreconditionFailed {
		t.Errorf("unconfigured: status = %d, want 412", rr.Code)
	}

	doRequest(t, h, "PUT", "/api/config", `{"token":"ghp_x","owner":"octocat","repo":"playground"}`)
	if rr := doRequest(t, h, "POST", "/api/export/github", ""); rr.Code != http.StatusBadRequest {
		t.Errorf("no component: status = %d, want 400", rr.Code)
	}

	doRequest(t, h, "POST", "/api/messages", `{"text":"a card"}`)
	if rr := doRequest(t, h, "POST", "/api/export/github", ""); rr.Code != http.StatusOK {
		t.Errorf("export: status = %d", rr.Code)
	}
	if exp.calls != 1 {
		t.Errorf("exporter calls = %d, want 1", exp.calls)
	}

	exp.err = errors.New("github down")
	if rr := doRequest(t, h, "POST", "/api/export/github", ""); rr.Code != http.StatusBadGateway {
		t.Errorf("failed export: status = %d, want 502", rr.Code)
	}
}

func TestShare(t *testing.T) {
	srv, _, _ := newTestServer(t)
	h := srv.Handler()

	if rr := doRequest(t, h, "GET", "/api/export/share", ""); rr.Code != http.StatusNotFound {
		t.Errorf("no component: status = %d, want 404", rr.Code)
	}

	doRequest(t, h, "POST", "/api/messages", `{"text":"a card"}`)
	rr := doRequest(t, h, "GET", "/api/export/share", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	raw := decodeJSON(t, rr)["url"].(string)
	if !strings.Contains(raw, "code=") || !strings.Contains(raw, "prompt=") {
		t.Errorf("share url = %q, missing params", raw)
	}
}

func TestShareImport(t *testing.T) {
	srv, _, _ := newTestServer(t)
	h := srv.Handler()

	code := `const Component = () => <div>shared</div>;`
	body := `{"code":"` + export.EncodeShareCode(code) + `","prompt":"a shared hero"}`
	rr := doRequest(t, h, "POST", "/api/share/import", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	component := decodeJSON(t, rr)
	if component["code"] != code {
		t.Errorf("code = %q, want decoded original", component["code"])
	}
	if component["version"] != float64(1) {
		t.Errorf("version = %v, want 1", component["version"])
	}

	// The imported component is now the active project's current version.
	rr = doRequest(t, h, "GET", "/api/state", "")
	state := decodeJSON(t, rr)
	project := state["project"].(map[string]any)
	if project["current_index"] != float64(0) || project["name"] != "a shared hero" {
		t.Errorf("project = %+v", project)
	}

	if rr := doRequest(t, h, "POST", "/api/share/import", `{"prompt":"x"}`); rr.Code != http.StatusBadRequest {
		t.Errorf("missing code: status = %d, want 400", rr.Code)
	}
	if rr := doRequest(t, h, "POST", "/api/share/import", `{"code":"!!!not-base64"}`); rr.Code != http.StatusBadRequest {
		t.Errorf("bad code: status = %d, want 400", rr.Code)
	}
}

func TestListRepos(t *testing.T) {
	srv, gh, _ := newTestServer(t)
	h := srv.Handler()

	// No token configured: empty list, not an error.
	rr := doRequest(t, h, "GET", "/api/github/repos", "")
	if rr.Code != http.StatusOK || strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Errorf("no token: status = %d, body = %q", rr.Code, rr.Body.String())
	}

	doRequest(t, h, "PUT", "/api/config", `{"token":"ghp_x","owner":"octocat","repo":"playground"}`)
	gh.repos = []export.Repo{{ID: 1, Name: "playground"}}

	rr = doRequest(t, h, "GET", "/api/github/repos", "")
	var repos []export.Repo
	if err := json.Unmarshal(rr.Body.Bytes(), &repos); err != nil {
		t.Fatalf("decode repos: %v", err)
	}
	if len(repos) != 1 || repos[0].Name != "playground" {
		t.Errorf("repos = %+v", repos)
	}

	// Upstream failure degrades to an empty list.
	gh.err = errors.New("github down")
	rr = doRequest(t, h, "GET", "/api/github/repos", "")
	if rr.Code != http.StatusOK || strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Errorf("upstream error: status = %d, body = %q", rr.Code, rr.Body.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	srv, _, _ := newTestServer(t)
	h := srv.Handler()

	rr := doRequest(t, h, "OPTIONS", "/api/state", "")
	if rr.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("missing CORS origin header")
	}
}
