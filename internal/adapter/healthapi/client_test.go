package healthapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"biometrics/internal/domain"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestSample(t *testing.T) {
	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Check(t, is.Equal(r.URL.Path, "/v1/samples/weight"))
		assert.Check(t, is.Equal(r.URL.Query().Get("mode"), "dayAverage"))
		assert.Check(t, is.Equal(r.URL.Query().Get("at"), "2026-03-10T12:00:00Z"))
		_ = json.NewEncoder(w).Encode(map[string]any{"value": 81.25, "found": true})
	}))
	defer srv.Close()

	c, err := New(context.Background(), Config{BaseURL: srv.URL + "/"})
	assert.NilError(t, err)

	v, ok, err := c.Sample(context.Background(), domain.Weight, domain.QueryDayAverage, at)
	assert.NilError(t, err)
	assert.Check(t, ok)
	assert.Check(t, is.Equal(v, 81.25))
}

func TestSampleNoData(t *testing.T) {
	for _, tc := range []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"not found", func(w http.ResponseWriter, r *http.Request) { http.NotFound(w, r) }},
		{"found false", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"found":false}`))
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()
			c, err := New(context.Background(), Config{BaseURL: srv.URL})
			assert.NilError(t, err)

			_, ok, err := c.Sample(context.Background(), domain.Height, domain.QueryLatest, time.Now())
			assert.NilError(t, err)
			assert.Check(t, !ok)
		})
	}
}

func TestSampleErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/samples/height" {
			_, _ = w.Write([]byte(`not json`))
			return
		}
		http.Error(w, "permission denied", http.StatusForbidden)
	}))
	defer srv.Close()
	c, err := New(context.Background(), Config{BaseURL: srv.URL})
	assert.NilError(t, err)

	_, _, err = c.Sample(context.Background(), domain.Weight, domain.QueryLatest, time.Now())
	assert.Check(t, is.ErrorIs(err, domain.ErrProviderQuery))
	assert.Check(t, is.ErrorContains(err, "403"))

	_, _, err = c.Sample(context.Background(), domain.Height, domain.QueryLatest, time.Now())
	assert.Check(t, is.ErrorIs(err, domain.ErrProviderQuery))
}

func TestClientCredentials(t *testing.T) {
	var tokens atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		tokens.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"abc","token_type":"bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/v1/samples/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer abc" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"value":1700,"found":true}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, err := New(context.Background(), Config{
		BaseURL:      srv.URL,
		TokenURL:     srv.URL + "/token",
		ClientID:     "sync",
		ClientSecret: "secret",
	})
	assert.NilError(t, err)

	for i := 0; i < 2; i++ {
		v, ok, err := c.Sample(context.Background(), domain.RestingEnergy, domain.QueryLatest, time.Now())
		assert.NilError(t, err)
		assert.Check(t, ok)
		assert.Check(t, is.Equal(v, 1700.0))
	}
	assert.Check(t, is.Equal(tokens.Load(), int32(1)), "token should be cached")
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.Check(t, is.ErrorContains(err, "base url"))
}
