package todoapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"todoctl/internal/apierr"
	"todoctl/internal/auth"
	"todoctl/internal/config"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *auth.Store) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cfg := &config.Config{Dir: t.TempDir(), BaseURL: srv.URL}
	tokens := auth.NewStore(cfg)
	return NewUnauthenticated(cfg, tokens), tokens
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprint(w, body)
}

func TestNewRequiresToken(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir(), BaseURL: "http://localhost:0"}
	_, err := New(cfg, auth.NewStore(cfg))
	require.True(t, apierr.IsUnauthorized(err))
	require.Contains(t, err.Error(), "todoctl login")
}

func TestSignInPersistsCredentials(t *testing.T) {
	client, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/signin", r.URL.Path)
		writeJSON(w, http.StatusOK,
			`{"user":{"id":"u1","email":"ada@example.com","name":"Ada"},"token":"tok-123"}`)
	})

	creds, err := client.SignIn(context.Background(), "ada@example.com", "pw")
	require.NoError(t, err)
	require.Equal(t, "tok-123", creds.Token)
	require.Equal(t, "u1", creds.User.ID)

	// Persisting the session is the transport's job.
	require.Equal(t, "tok-123", tokens.Token())
	require.Equal(t, "u1", tokens.UserID())
}

func TestSignInAccessTokenFallback(t *testing.T) {
	client, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK,
			`{"user":{"id":"u1","email":"ada@example.com","name":"Ada"},"access_token":"tok-456"}`)
	})

	creds, err := client.SignIn(context.Background(), "ada@example.com", "pw")
	require.NoError(t, err)
	require.Equal(t, "tok-456", creds.Token)
	require.Equal(t, "tok-456", tokens.Token())
}

func TestSignInNoToken(t *testing.T) {
	client, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"user":{"id":"u1"}}`)
	})

	_, err := client.SignIn(context.Background(), "ada@example.com", "pw")
	require.Error(t, err)
	require.Empty(t, tokens.Token())
}

func TestSignInRejected(t *testing.T) {
	client, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"detail":"Invalid credentials"}`)
	})

	_, err := client.SignIn(context.Background(), "ada@example.com", "wrong")
	require.True(t, apierr.IsUnauthorized(err))
	require.Empty(t, tokens.Token())
}

func TestBearerHeaderAttached(t *testing.T) {
	var gotAuth string
	client, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, `{"id":"u1","email":"ada@example.com","name":"Ada"}`)
	})
	require.NoError(t, tokens.SaveToken("tok-abc"))

	_, err := client.Me(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Bearer tok-abc", gotAuth)
}

func TestUnauthorizedEvictsToken(t *testing.T) {
	client, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"detail":"token expired"}`)
	})
	require.NoError(t, tokens.SaveToken("stale"))

	_, err := client.Me(context.Background())
	require.True(t, apierr.IsUnauthorized(err))
	// The stale token is gone; the next run starts signed out.
	require.Empty(t, tokens.Token())
}

func TestErrorDetailParsed(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, `{"detail":"Title too long"}`)
	})

	_, err := client.CreateTask(context.Background(), "u1", "bad", "")
	require.True(t, apierr.IsValidation(err))
	require.Equal(t, "Title too long", err.Error())
}

func TestErrorGenericMessage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.ListTasks(context.Background(), "u1")
	require.Error(t, err)
	require.Equal(t, "request failed with status 500", err.Error())
}

func TestNetworkErrorIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	cfg := &config.Config{Dir: t.TempDir(), BaseURL: srv.URL}
	client := NewUnauthenticated(cfg, auth.NewStore(cfg))
	srv.Close()

	_, err := client.ListTasks(context.Background(), "u1")
	require.Error(t, err)
	require.False(t, apierr.IsUnauthorized(err))
	require.False(t, apierr.IsValidation(err))
	require.False(t, apierr.IsNotFound(err))
	require.True(t, strings.HasPrefix(err.Error(), "request failed:"))
}

func TestDeleteTaskNoContent(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/api/users/u1/tasks/7", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.DeleteTask(context.Background(), "u1", 7))
}

func TestListTasks(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/users/u1/tasks", r.URL.Path)
		writeJSON(w, http.StatusOK,
			`[{"id":1,"user_id":"u1","title":"Buy milk","completed":false}]`)
	})

	tasks, err := client.ListTasks(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, "Buy milk", tasks[0].Title)
}

func TestCreateTaskOmitsEmptyDescription(t *testing.T) {
	var body map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(w, http.StatusCreated, `{"id":1,"user_id":"u1","title":"Buy milk"}`)
	})

	_, err := client.CreateTask(context.Background(), "u1", "Buy milk", "")
	require.NoError(t, err)
	require.Equal(t, "Buy milk", body["title"])
	_, hasDesc := body["description"]
	require.False(t, hasDesc)
}

func TestChatThreadIDOmittedUntilEstablished(t *testing.T) {
	var bodies []map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat/u1", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		bodies = append(bodies, body)
		writeJSON(w, http.StatusOK, `{"response":"ok","thread_id":"t9","message_id":"m1"}`)
	})

	reply, err := client.Chat(context.Background(), "u1", "first", "")
	require.NoError(t, err)
	require.Equal(t, "t9", reply.ThreadID)

	_, err = client.Chat(context.Background(), "u1", "second", reply.ThreadID)
	require.NoError(t, err)

	require.Len(t, bodies, 2)
	_, hasThread := bodies[0]["thread_id"]
	require.False(t, hasThread)
	require.Equal(t, "t9", bodies[1]["thread_id"])
}

func TestToggleTaskPath(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/api/users/u1/tasks/3/complete", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"id":3,"user_id":"u1","title":"t","completed":true}`)
	})

	task, err := client.ToggleTask(context.Background(), "u1", 3)
	require.NoError(t, err)
	require.True(t, task.Completed)
}
