package gitlab

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"indexdeploy/core"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, "group/index-repo", "secret")
	require.NoError(t, err)
	return client, server
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient("", "1", "tok")
	assert.Error(t, err)
	_, err = NewClient("https://gitlab.example.com", "", "tok")
	assert.Error(t, err)
	_, err = NewClient("https://gitlab.example.com", "1", "")
	assert.Error(t, err)
}

func TestCommit(t *testing.T) {
	var captured commitRequest
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v4/projects/group%2Findex-repo/repository/commits", r.URL.EscapedPath())
		assert.Equal(t, "secret", r.Header.Get("PRIVATE-TOKEN"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": "abc123"}`)
	}))

	actions := []core.CommitAction{
		{Action: core.ActionCreate, Path: "id-1.json", Content: "{}"},
		{Action: core.ActionDelete, Path: "id-2.json"},
	}
	sha, err := client.Commit(context.Background(), "main", "update index", actions)
	require.NoError(t, err)
	assert.Equal(t, "abc123", sha)

	assert.Equal(t, "main", captured.Branch)
	assert.Equal(t, "update index", captured.CommitMessage)
	require.Len(t, captured.Actions, 2)
	assert.Equal(t, core.ActionCreate, captured.Actions[0].Action)
	assert.Equal(t, core.ActionDelete, captured.Actions[1].Action)
}

func TestCommit_NoActions(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))
	_, err := client.Commit(context.Background(), "main", "msg", nil)
	assert.Error(t, err)
}

func TestCommit_ServerError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "branch protected"}`, http.StatusForbidden)
	}))
	_, err := client.Commit(context.Background(), "main", "msg",
		[]core.CommitAction{{Action: core.ActionDelete, Path: "x.json"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http 403")
	assert.Contains(t, err.Error(), "branch protected")
}

func TestRevert(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v4/projects/group%2Findex-repo/repository/commits/abc123/revert", r.URL.EscapedPath())

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "main", body["branch"])

		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": "revert456"}`)
	}))

	sha, err := client.Revert(context.Background(), "main", "abc123")
	require.NoError(t, err)
	assert.Equal(t, "revert456", sha)
}

func TestRevert_Failure(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "Sorry, we cannot revert this commit automatically."}`, http.StatusConflict)
	}))
	_, err := client.Revert(context.Background(), "main", "abc123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http 409")
}
