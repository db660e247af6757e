package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func testServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(srv.URL, "qrm_testkey")
	return srv, client
}

func jsonResponse(data any) []byte {
	b, _ := json.Marshal(map[string]any{"data": data})
	return b
}

func TestClientSendsAuthAndRequestID(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer qrm_testkey", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Len(t, r.Header.Get("X-Request-ID"), 36)
		w.Write(jsonResponse(map[string]any{"id": "q-1", "title": "hello"}))
	})

	q, err := client.GetQuestion("q-1")
	require.NoError(t, err)
	assert.Equal(t, "q-1", q.ID)
}

func TestClientOmitsAuthWithoutKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write(jsonResponse(map[string]any{"api_key": "k", "user_id": "u-1", "username": "ada"}))
	}))
	t.Cleanup(srv.Close)

	_, err := NewClient(srv.URL, "").Login("ada")
	require.NoError(t, err)
}

func TestHTTPErrorEnvelope(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		b, _ := json.Marshal(map[string]any{
			"error": map[string]any{
				"code":    "NOT_FOUND",
				"message": "question not found",
			},
		})
		w.Write(b)
	})

	_, err := client.GetQuestion("nope")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND: question not found", err.Error())
}

func TestHTTPErrorDetailAndRawBody(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/questions/detail" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"detail":"title too short"}`))
			return
		}
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down\n"))
	})

	_, err := client.GetQuestion("detail")
	require.Error(t, err)
	assert.Equal(t, "title too short", err.Error())

	_, err = client.GetQuestion("raw")
	require.Error(t, err)
	assert.Equal(t, "HTTP 502: upstream down", err.Error())
}

func TestExtractAPIErrorBody(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
		ok   bool
	}{
		{name: "empty", body: "", ok: false},
		{name: "string error", body: `{"error":"  boom "}`, want: "boom", ok: true},
		{name: "code only", body: `{"error":{"code":"FORBIDDEN"}}`, want: "FORBIDDEN", ok: true},
		{name: "nested", body: `{"detail":{"error":{"code":"RATE_LIMITED","message":"slow down"}}}`, want: "RATE_LIMITED: slow down", ok: true},
		{name: "message key", body: `{"message":"nope"}`, want: "nope", ok: true},
		{name: "not json", body: `<html>`, ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := extractAPIErrorBody([]byte(tc.body))
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestClientHandlesMalformedJSON(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not-json"))
	})

	_, err := client.GetQuestion("q-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestBuildQuery(t *testing.T) {
	result := buildQuery("/api/tags", QueryParams{"limit": "10", "offset": "20"})
	assert.Contains(t, result, "/api/tags?")
	assert.Contains(t, result, "limit=10")
	assert.Contains(t, result, "offset=20")
}

func TestBuildQueryEmpty(t *testing.T) {
	assert.Equal(t, "/api/tags", buildQuery("/api/tags", nil))
	assert.Equal(t, "/api/tags", buildQuery("/api/tags", QueryParams{"keyword": ""}))
}

func TestNewClientCustomTimeout(t *testing.T) {
	client := NewClient("http://example.com/", "qrm_testkey", 5*time.Second)
	assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	assert.Equal(t, "http://example.com", client.BaseURL())

	clone := client.WithTimeout(time.Second)
	assert.Equal(t, time.Second, clone.httpClient.Timeout)
	assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
}

func TestDefaultBaseURLRequestTarget(t *testing.T) {
	var gotURL string
	client := NewClient(DefaultBaseURL, "qrm_testkey")
	client.httpClient.Transport = roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		gotURL = r.URL.String()
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"status":"ok"}`)),
			Header:     make(http.Header),
		}, nil
	})

	require.NoError(t, client.Health())
	assert.True(t, strings.HasPrefix(gotURL, DefaultBaseURL))
}

func TestHealthRejectsDegradedStatus(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/health", r.URL.Path)
		w.Write([]byte(`{"status":"degraded"}`))
	})

	err := client.Health()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "degraded")
}

func TestClientConcurrentRequests(t *testing.T) {
	var count atomic.Int32
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		count.Add(1)
		w.Write(jsonResponse(map[string]any{"success": true, "tags": []map[string]any{}}))
	})

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, err := client.SearchTags(fmt.Sprintf("go-%d", idx), 5)
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(workers), count.Load())
}

func TestLogin(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		var body LoginInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ada", body.Username)
		w.Write(jsonResponse(map[string]any{
			"api_key":  "qrm_newkey",
			"user_id":  "u-1",
			"username": "ada",
		}))
	})

	resp, err := client.Login("ada")
	require.NoError(t, err)
	assert.Equal(t, "qrm_newkey", resp.APIKey)
	assert.Equal(t, "u-1", resp.UserID)
}
