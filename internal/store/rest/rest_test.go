package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Muhammaduzair321/ip-checker/internal/domain"
)

// fakeTable mimics the subset of PostgREST the client uses.
type fakeTable struct {
	mu      sync.Mutex
	hosts   []string // oldest first
	status  int      // forced status when non-zero
	gotKey  string
	gotAuth string
	query   map[string]string
}

func (f *fakeTable) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.gotKey = r.Header.Get("apikey")
	f.gotAuth = r.Header.Get("Authorization")
	if f.status != 0 {
		w.WriteHeader(f.status)
		return
	}
	if r.URL.Path != "/hosts" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		f.query = map[string]string{
			"select": r.URL.Query().Get("select"),
			"order":  r.URL.Query().Get("order"),
			"limit":  r.URL.Query().Get("limit"),
		}
		out := make([]record, 0, len(f.hosts))
		for i := len(f.hosts) - 1; i >= 0; i-- {
			out = append(out, record{Host: f.hosts[i]})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	case http.MethodPost:
		var rec record
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.hosts = append(f.hosts, rec.Host)
		w.WriteHeader(http.StatusCreated)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestClient_AppendAndListRecent(t *testing.T) {
	table := &fakeTable{}
	srv := httptest.NewServer(table)
	defer srv.Close()

	c := NewClient(srv.URL+"/", "hosts", "secret")
	ctx := context.Background()

	require.NoError(t, c.Append(ctx, "a.com"))
	require.NoError(t, c.Append(ctx, "b.com"))

	got, err := c.ListRecent(ctx, 50)
	require.NoError(t, err)
	assert.Equal(t, []domain.CanonicalHost{"b.com", "a.com"}, got)

	assert.Equal(t, "secret", table.gotKey)
	assert.Equal(t, "Bearer secret", table.gotAuth)
	assert.Equal(t, map[string]string{"select": "host", "order": "created_at.desc", "limit": "50"}, table.query)
}

func TestClient_ListRecentTruncates(t *testing.T) {
	table := &fakeTable{hosts: []string{"a", "b", "c"}}
	srv := httptest.NewServer(table)
	defer srv.Close()

	got, err := NewClient(srv.URL, "hosts", "").ListRecent(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []domain.CanonicalHost{"c", "b"}, got)
	assert.Empty(t, table.gotKey)
}

func TestClient_ErrorStatuses(t *testing.T) {
	table := &fakeTable{status: http.StatusServiceUnavailable}
	srv := httptest.NewServer(table)
	defer srv.Close()

	c := NewClient(srv.URL, "hosts", "")
	ctx := context.Background()

	_, err := c.ListRecent(ctx, 50)
	assert.Error(t, err)
	assert.Error(t, c.Append(ctx, "x.com"))
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, "hosts", "").ListRecent(context.Background(), 50)
	assert.Error(t, err)
}
