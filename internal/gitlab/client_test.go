package gitlab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwarflabs/git-me/internal/apperr"
	"github.com/dwarflabs/git-me/internal/model"
)

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL, "token", srv.Client())
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewClientRequiresSetup(t *testing.T) {
	_, err := NewClient("", "token", nil)
	assert.True(t, errors.Is(err, apperr.ErrPrecondition))
	_, err = NewClient("https://gitlab.example.com", "", nil)
	assert.True(t, errors.Is(err, apperr.ErrPrecondition))
}

func TestProjectPaginatesAndMatches(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v4/projects", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "token", r.Header.Get("PRIVATE-TOKEN"))
		if r.URL.Query().Get("page") == "2" {
			writeJSON(w, []map[string]interface{}{
				{"id": 2, "path_with_namespace": "team/game", "ssh_url_to_repo": "git@host:team/game.git"},
			})
			return
		}
		w.Header().Set("X-Next-Page", "2")
		writeJSON(w, []map[string]interface{}{
			{"id": 1, "path_with_namespace": "team/tools", "ssh_url_to_repo": "git@host:team/tools.git"},
		})
	})
	c := newTestClient(t, mux)

	p, err := c.Project(context.Background(), "git@host:team/game.git")
	require.NoError(t, err)
	assert.Equal(t, 2, p.ID)

	_, err = c.Project(context.Background(), "git@host:team/missing.git")
	var nf *apperr.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, []string{"git@host:team/game.git", "git@host:team/tools.git"}, nf.Known)
	assert.Contains(t, err.Error(), "git remote set-url")
}

func TestUserMissListsAllUsernames(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v4/users", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("username") == "alice" {
			writeJSON(w, []map[string]interface{}{{"id": 10, "username": "alice", "name": "Alice A"}})
			return
		}
		if r.URL.Query().Get("username") != "" {
			writeJSON(w, []map[string]interface{}{})
			return
		}
		writeJSON(w, []map[string]interface{}{
			{"id": 11, "username": "bob", "name": "Bob"},
			{"id": 10, "username": "alice", "name": "Alice A"},
		})
	})
	c := newTestClient(t, mux)

	u, err := c.User(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, model.User{ID: 10, Username: "alice", Name: "Alice A"}, u)

	_, err = c.User(context.Background(), "zed")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.Equal(t, "unable to find user 'zed'; known values are:\n    alice\n    bob", err.Error())
}

func TestHeadCommit(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v4/projects/1/repository/branches/develop", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{"name": "develop", "commit": map[string]interface{}{"id": "abc123"}})
	})
	mux.HandleFunc("/api/v4/projects/1/repository/branches", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]interface{}{{"name": "master"}, {"name": "develop"}})
	})
	c := newTestClient(t, mux)

	id, err := c.HeadCommit(context.Background(), 1, "develop")
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)

	_, err = c.HeadCommit(context.Background(), 1, "nope")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	var nf *apperr.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, []string{"develop", "master"}, nf.Known)
}

func TestCreateAndUpdateMergeRequest(t *testing.T) {
	var created, updated map[string]interface{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v4/projects/1/merge_requests", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
		writeJSON(w, map[string]interface{}{"iid": 7, "title": created["title"], "web_url": "https://host/mr/7", "state": "opened"})
	})
	mux.HandleFunc("/api/v4/projects/1/merge_requests/7", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&updated))
		writeJSON(w, map[string]interface{}{"iid": 7, "title": updated["title"], "web_url": "https://host/mr/7", "state": "opened"})
	})
	c := newTestClient(t, mux)

	mr, err := c.CreateMergeRequest(context.Background(), 1, "feature/a", "develop", "WIP: feature/a")
	require.NoError(t, err)
	assert.Equal(t, 7, mr.IID)
	assert.Equal(t, "feature/a", created["source_branch"])
	assert.Equal(t, "develop", created["target_branch"])
	assert.Equal(t, true, created["remove_source_branch"])

	mr, err = c.UpdateMergeRequest(context.Background(), 1, 7, model.MergeRequestUpdate{
		Title: "feature/a", AssigneeID: 10, Description: "## Artists\n", Reopen: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "feature/a", mr.Title)
	assert.Equal(t, "reopen", updated["state_event"])
	assert.Equal(t, float64(10), updated["assignee_id"])
	assert.Equal(t, "## Artists\n", updated["description"])
}

func TestFindMergeRequest(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v4/projects/1/merge_requests", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("source_branch") {
		case "feature/a":
			writeJSON(w, []map[string]interface{}{
				{"iid": 9, "title": "WIP: feature/a", "state": "closed", "web_url": "u9"},
				{"iid": 3, "title": "feature/a", "state": "merged", "web_url": "u3"},
			})
		case "":
			writeJSON(w, []map[string]interface{}{{"iid": 4, "title": "WIP: feature/other", "state": "opened"}})
		default:
			writeJSON(w, []map[string]interface{}{})
		}
	})
	c := newTestClient(t, mux)

	mr, err := c.FindMergeRequest(context.Background(), 1, "feature/a")
	require.NoError(t, err)
	assert.Equal(t, 9, mr.IID)
	assert.Equal(t, model.MergeRequestClosed, mr.State)

	_, err = c.FindMergeRequest(context.Background(), 1, "feature/b")
	var nf *apperr.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, []string{"WIP: feature/other"}, nf.Known)
}

func TestTransportErrorsAreTyped(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v4/projects", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"message":"boom"}`)
	})
	c := newTestClient(t, mux)

	_, err := c.ListProjects(context.Background())
	assert.True(t, errors.Is(err, apperr.ErrTransport))
}
