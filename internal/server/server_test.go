package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pantrywatch/pantrywatch/pkg/expiry"
	"github.com/pantrywatch/pantrywatch/pkg/history"
	"github.com/pantrywatch/pantrywatch/pkg/storage"
)

type nullNotifier struct{}

func (nullNotifier) CancelAll(ctx context.Context) error { return nil }

func (nullNotifier) Schedule(ctx context.Context, req expiry.Request) error { return nil }

func newTestServer(t *testing.T, user, pass string) *Server {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sched := expiry.New(expiry.Config{
		History:  history.NewStore(db),
		Notifier: nullNotifier{},
	})
	return New(db, sched, user, pass)
}

func TestConvertEndpoint(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t, "", "").Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/convert", "application/json",
		strings.NewReader(`{"quantity":"2","unit":"kg","system":"imperial"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Quantity float64 `json:"quantity"`
		Unit     string  `json:"unit"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Equal(t, 4.41, out.Quantity)
	require.Equal(t, "lb", out.Unit)
}

func TestConvertEndpointRejectsBadInput(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t, "", "").Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/convert", "application/json",
		strings.NewReader(`{"quantity":"lots","unit":"kg","system":"imperial"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/api/convert", "application/json",
		strings.NewReader(`{"quantity":1,"unit":"kg","system":"nautical"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestScheduleEndpointAndHistory(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t, "", "").Handler())
	defer srv.Close()

	// An item expiring "today" according to the server's clock.
	today := time.Now().Format("2006-01-02")
	body := `{"items":[{"id":"milk-1","displayName":"Milk","expiryDate":"` + today + `"}]}`

	resp, err := http.Post(srv.URL+"/api/schedule", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out ScheduleResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Requests, 1)
	require.Equal(t, "milk-1", out.Requests[0].ItemID)
	require.Contains(t, out.Requests[0].Body, "expires today")

	// The dedup key shows up in the history listing.
	hresp, err := http.Get(srv.URL + "/api/history")
	require.NoError(t, err)
	defer hresp.Body.Close()
	var hist struct {
		Keys []string `json:"keys"`
	}
	require.NoError(t, json.NewDecoder(hresp.Body).Decode(&hist))
	require.Equal(t, []string{"milk-1_" + today}, hist.Keys)
}

func TestUnitPrefEndpoints(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t, "", "").Handler())
	defer srv.Close()

	// Defaults to metric when unset.
	resp, err := http.Get(srv.URL + "/api/prefs/units")
	require.NoError(t, err)
	var pref map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pref))
	resp.Body.Close()
	require.Equal(t, "metric", pref["system"])

	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/api/prefs/units", strings.NewReader(`{"system":"imperial"}`))
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/prefs/units")
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pref))
	resp.Body.Close()
	require.Equal(t, "imperial", pref["system"])
}

func TestBasicAuth(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t, "admin", "hunter2").Handler())
	defer srv.Close()

	// Healthz stays open.
	resp, err := http.Get(srv.URL + "/api/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/history")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/history", nil)
	req.SetBasicAuth("admin", "hunter2")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
