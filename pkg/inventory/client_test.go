package inventory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

const testUserID = "7b0f5f9e-4c1a-4f60-9f43-0e8a3a2a6f11"

func TestNewClientRejectsBadUserID(t *testing.T) {
	_, err := NewClient("http://localhost", "not-a-uuid", "")
	require.Error(t, err)
}

func TestExpiring(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/inventory/expiring", r.URL.Path)
		require.Equal(t, testUserID, r.URL.Query().Get("user_id"))
		require.Equal(t, "3", r.URL.Query().Get("days"))
		require.Equal(t, "Bearer sekrit", r.Header.Get("Authorization"))
		w.Write([]byte(`[
			{"inventory_id":"a1","food_name":"Milk","expiry_date":"2026-08-31","quantity":1000,"unit":"ml","freshness_status":"expiring_soon"},
			{"inventory_id":"b2","food_name":"Cheddar","expiry_date":"2026-09-02","quantity":250,"unit":"g"}
		]`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, testUserID, "sekrit")
	require.NoError(t, err)

	items, err := c.Expiring(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "a1", items[0].ID)
	require.Equal(t, "Milk", items[0].DisplayName)
	require.Equal(t, "2026-08-31", items[0].ExpiryDate)
	require.Equal(t, float64(1000), items[0].Quantity)
	require.Equal(t, "ml", items[0].Unit)
	require.Equal(t, "Cheddar", items[1].DisplayName)
}

func TestItemsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/inventory/items", r.URL.Path)
		w.Write([]byte(`{"total":1,"page":1,"items":[{"inventory_id":"x9","food_name":"Butter","expiry_date":"2026-09-10","quantity":250,"unit":"g"}]}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, testUserID, "")
	require.NoError(t, err)

	items, err := c.Items(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Butter", items[0].DisplayName)
}

func TestNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, testUserID, "")
	require.NoError(t, err)

	_, err = c.Expiring(context.Background(), 7)
	require.Error(t, err)
}
