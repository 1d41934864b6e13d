package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukydev/workshop-walkin/internal/auth"
)

func TestClient_Get_SetsBearerHeader(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, auth.NewStaticTokenSource("tok"))
	raw, err := client.Get(context.Background(), "/api/Services")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, `[]`, string(raw))
}

func TestClient_Get_MissingTokenFailsBeforeRequest(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewClient(server.URL, auth.NewStaticTokenSource(""))
	_, err := client.Get(context.Background(), "/api/Services")
	assert.ErrorIs(t, err, auth.ErrMissingToken)
	assert.False(t, called, "no request should be issued without a token")
}

func TestClient_Post_EncodesPayload(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, auth.NewStaticTokenSource("tok"))
	_, err := client.Post(context.Background(), "/api/Vehicles", map[string]string{"make": "Toyota"})
	require.NoError(t, err)
	assert.Equal(t, "Toyota", got["make"])
}

func TestClient_PostIdempotent_SetsKeyHeader(t *testing.T) {
	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get(IdempotencyHeader)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, auth.NewStaticTokenSource("tok"))
	_, err := client.PostIdempotent(context.Background(), "/api/Orders/walkin", map[string]int{"id": 1}, "key-123")
	require.NoError(t, err)
	assert.Equal(t, "key-123", gotKey)
}

func TestClient_PostUnauthenticated_OmitsBearerHeader(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	// Token source would fail; unauthenticated calls must not consult it.
	client := NewClient(server.URL, auth.NewStaticTokenSource(""))
	_, err := client.PostUnauthenticated(context.Background(), "/api/auth/register", map[string]string{})
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClient_ServerErrorIsTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, auth.NewStaticTokenSource("tok"))
	_, err := client.Get(context.Background(), "/api/Services")
	assert.ErrorIs(t, err, ErrTransport)
}

func TestClient_ClientErrorIsRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "mechanic at capacity", http.StatusConflict)
	}))
	defer server.Close()

	client := NewClient(server.URL, auth.NewStaticTokenSource("tok"))
	_, err := client.Post(context.Background(), "/api/Orders/walkin", map[string]int{})
	assert.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "mechanic at capacity")
}

func TestClient_NetworkFailureIsTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := NewClient(server.URL, auth.NewStaticTokenSource("tok"))
	_, err := client.Get(context.Background(), "/api/Services")
	assert.ErrorIs(t, err, ErrTransport)
}
