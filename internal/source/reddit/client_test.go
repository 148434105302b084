package reddit

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := New(Config{
		BaseURL:        srv.URL,
		UserAgent:      "test-agent",
		Timeout:        5 * time.Second,
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     10 * time.Millisecond,
	}, testLogger())

	return client, srv
}

func TestLogin(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/login", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "sirneon", r.PostForm.Get("user"))

		w.Write([]byte(`{"json":{"errors":[],"data":{"modhash":"abc123","cookie":"session"}}}`))
	}))

	err := client.Login(context.Background(), "sirneon", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "abc123", client.modhash)
}

func TestLogin_Rejected(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"json":{"errors":[["WRONG_PASSWORD","invalid password","passwd"]]}}`))
	}))

	err := client.Login(context.Background(), "sirneon", "wrong")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "WRONG_PASSWORD")
}

func TestUserComments(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/alice/comments.json", r.URL.Path)
		assert.Equal(t, "25", r.URL.Query().Get("limit"))

		w.Write([]byte(`{"data":{"children":[
			{"kind":"t1","data":{"id":"c1","author":"alice","body":"+PML [TMC] [C]","score":12,"link_id":"t3_xyz"}},
			{"kind":"more","data":{}},
			{"kind":"t1","data":{"id":"c2","author":"alice","body":"plain comment","score":3,"link_id":"t3_abc"}}
		]}}`))
	}))

	comments, err := client.UserComments(context.Background(), "alice", 25)
	require.NoError(t, err)

	require.Len(t, comments, 2)
	assert.Equal(t, "c1", comments[0].ID)
	assert.Equal(t, "alice", comments[0].Author)
	assert.Equal(t, 12, comments[0].Score)
	assert.Equal(t, "t3_xyz", comments[0].LinkID)
	assert.Equal(t, "c2", comments[1].ID)
}

func TestUserComments_RetriesOnServerError(t *testing.T) {
	var calls int
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"data":{"children":[]}}`))
	}))

	comments, err := client.UserComments(context.Background(), "alice", 10)
	require.NoError(t, err)
	assert.Empty(t, comments)
	assert.Equal(t, 3, calls)
}

func TestUserComments_ExhaustsRetries(t *testing.T) {
	var calls int
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	_, err := client.UserComments(context.Background(), "alice", 10)
	assert.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestSubmission(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/info.json", r.URL.Path)
		assert.Equal(t, "t3_xyz", r.URL.Query().Get("id"))

		w.Write([]byte(`{"data":{"children":[{"kind":"t3","data":{"id":"xyz","score":451}}]}}`))
	}))

	sub, err := client.Submission(context.Background(), "t3_xyz")
	require.NoError(t, err)
	assert.Equal(t, "xyz", sub.ID)
	assert.Equal(t, 451, sub.Score)
}

func TestSubmission_NotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"children":[]}}`))
	}))

	_, err := client.Submission(context.Background(), "t3_gone")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestEditPost(t *testing.T) {
	var form map[string][]string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/login" {
			w.Write([]byte(`{"json":{"errors":[],"data":{"modhash":"abc123"}}}`))
			return
		}

		assert.Equal(t, "/api/editusertext", r.URL.Path)
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		w.Write([]byte(`{"json":{"errors":[]}}`))
	}))

	ctx := context.Background()
	require.NoError(t, client.Login(ctx, "sirneon", "hunter2"))
	require.NoError(t, client.EditPost(ctx, "2bzehq", "| Player | Points |"))

	assert.Equal(t, "t3_2bzehq", form["thing_id"][0])
	assert.Equal(t, "| Player | Points |", form["text"][0])
	assert.Equal(t, "abc123", form["uh"][0])
}

func TestEditPost_RequiresLogin(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))

	err := client.EditPost(context.Background(), "2bzehq", "body")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
}
