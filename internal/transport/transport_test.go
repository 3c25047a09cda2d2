package transport_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/petasbytes/nanocode/internal/telemetry"
	"github.com/petasbytes/nanocode/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostJSON_HappyPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		b, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"ping":1}`, string(b))
		_, _ = w.Write([]byte(`{"pong":1}`))
	}))
	defer srv.Close()

	out, err := transport.PostJSON(context.Background(), srv.Client(), srv.URL,
		map[string]string{"Authorization": "Bearer k"}, []byte(`{"ping":1}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"pong":1}`, string(out))
}

func TestPostJSON_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"slow down"}`))
	}))
	defer srv.Close()

	_, err := transport.PostJSON(context.Background(), srv.Client(), srv.URL, nil, []byte(`{}`))
	var se *transport.StatusError
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
	assert.Contains(t, se.Error(), "slow down")
}

func TestPostJSON_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := transport.PostJSON(ctx, nil, "http://127.0.0.1:1", nil, []byte(`{}`))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRecorder_PersistsBodiesWhenEnabled(t *testing.T) {
	base := t.TempDir()
	t.Setenv(telemetry.EnvArtifactsDir, base)
	t.Setenv(telemetry.EnvPersistPayloads, "1")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"answer":42}`))
	}))
	defer srv.Close()

	client := &http.Client{Transport: &transport.Recorder{}}
	ctx := telemetry.WithTurnID(context.Background(), "turn-rec")
	out, err := transport.PostJSON(ctx, client, srv.URL, map[string]string{"x-api-key": "secret"}, []byte(`{"q":1}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"answer":42}`, string(out), "response body must survive recording")

	req, err := os.ReadFile(filepath.Join(base, "payloads", "turn-rec-001-request.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"q":1}`, string(req))
	resp, err := os.ReadFile(filepath.Join(base, "payloads", "turn-rec-001-response.json"))
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(req)+string(resp), "secret"))
}

func TestRecorder_DisabledWritesNothing(t *testing.T) {
	base := t.TempDir()
	t.Setenv(telemetry.EnvArtifactsDir, base)
	t.Setenv(telemetry.EnvPersistPayloads, "0")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := transport.PostJSON(context.Background(), transport.NewClient(), srv.URL, nil, []byte(`{}`))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(base, "payloads"))
	assert.True(t, os.IsNotExist(err))
}
