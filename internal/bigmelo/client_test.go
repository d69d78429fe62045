package bigmelo

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedLog struct {
	msg  string
	args []any
}

type captureLogger struct {
	mu      sync.Mutex
	entries []recordedLog
}

func (l *captureLogger) log(msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, recordedLog{msg: msg, args: args})
}

func (l *captureLogger) Info(_ context.Context, msg string, args ...any)  { l.log(msg, args) }
func (l *captureLogger) Error(_ context.Context, msg string, args ...any) { l.log(msg, args) }
func (l *captureLogger) Warn(_ context.Context, msg string, args ...any)  { l.log(msg, args) }
func (l *captureLogger) Debug(_ context.Context, msg string, args ...any) { l.log(msg, args) }

func (l *captureLogger) all() []recordedLog {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]recordedLog(nil), l.entries...)
}

func TestIsSuccess(t *testing.T) {
	assert.True(t, IsSuccess(Envelope{Status: 200}))
	assert.True(t, IsSuccess(Envelope{Status: 299}))
	assert.True(t, IsSuccess(Envelope{Status: 304}))
	assert.False(t, IsSuccess(Envelope{Status: 199}))
	assert.False(t, IsSuccess(Envelope{Status: 301}))
	assert.False(t, IsSuccess(Envelope{Status: 404}))
	assert.False(t, IsSuccess(Envelope{Status: 500}))
}

func TestPost_TranslatesKeyCasingBothWays(t *testing.T) {
	var receivedBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		receivedBody = string(raw)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"first_name":"Ann"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, &captureLogger{})
	resp, err := c.Post(context.Background(), "/v1/x", map[string]any{"firstName": "Ann"})
	require.NoError(t, err)

	assert.JSONEq(t, `{"first_name":"Ann"}`, receivedBody)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, map[string]any{"firstName": "Ann"}, resp.Data)
}

func TestDo_ServerErrorReturnsEnvelopeAndLogs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	logger := &captureLogger{}
	c := NewClient(srv.URL, logger)

	resp, err := c.Get(context.Background(), "/v1/x")
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.Status)
	assert.Nil(t, resp.Data)

	entries := logger.all()
	require.Len(t, entries, 1)
	assert.Equal(t, "error status from api", entries[0].msg)

	fields := map[string]any{}
	for i := 0; i < len(entries[0].args)-1; i += 2 {
		if k, ok := entries[0].args[i].(string); ok {
			fields[k] = entries[0].args[i+1]
		}
	}
	assert.Equal(t, http.StatusInternalServerError, fields["status"])
	assert.Equal(t, srv.URL+"/v1/x", fields["url"])
	assert.Contains(t, fields["body"], "boom")
}

func TestDo_NotFoundIsNotLogged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	logger := &captureLogger{}
	c := NewClient(srv.URL, logger)

	resp, err := c.Get(context.Background(), "/v1/missing")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.Status)
	assert.Nil(t, resp.Data)
	assert.Empty(t, logger.all())
}

func TestGet_EmptyBodyYieldsNilData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, &captureLogger{})
	resp, err := c.Get(context.Background(), "/v1/empty")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Nil(t, resp.Data)
}

func TestDo_CallerHeadersOverrideDefaults(t *testing.T) {
	var gotAccept, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, &captureLogger{})
	_, err := c.Get(context.Background(), "/v1/x",
		WithHeader("Accept", "application/vnd.bigmelo+json"),
		WithBearer("abc"),
	)
	require.NoError(t, err)
	assert.Equal(t, "application/vnd.bigmelo+json", gotAccept)
	assert.Equal(t, "Bearer abc", gotAuth)
}

func TestDo_MalformedJSONLogsAndLeavesDataNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	logger := &captureLogger{}
	c := NewClient(srv.URL, logger)

	resp, err := c.Get(context.Background(), "/v1/x")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Nil(t, resp.Data)

	entries := logger.all()
	require.Len(t, entries, 1)
	assert.Equal(t, "error parsing response body", entries[0].msg)
}

func TestDo_NetworkFailurePropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL, &captureLogger{})
	_, err := c.Get(context.Background(), "/v1/x")
	assert.Error(t, err)
}
