package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(ClientConfig{APIKey: "key"})
	assert.Error(t, err)

	_, err = NewClient(ClientConfig{BaseURL: "https://example.test"})
	assert.Error(t, err)

	c, err := NewClient(ClientConfig{BaseURL: "https://example.test", APIKey: "key"})
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestClient_Transactions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/transactions", r.URL.Path)
		assert.Equal(t, "eq.user-1", r.URL.Query().Get("user_id"))
		assert.Equal(t, "*", r.URL.Query().Get("select"))
		assert.Equal(t, "date.desc", r.URL.Query().Get("order"))
		assert.Equal(t, "test-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"t1","user_id":"user-1","description":"Pizza Hut","amount":"24.50","date":"2026-08-30T12:00:00Z"},
			{"id":"t2","user_id":"user-1","description":"Uber ride","amount":"13.20","date":"2026-08-29T08:15:00Z","category":"Transportation"}
		]`))
	}))
	defer server.Close()

	c, err := NewClient(ClientConfig{BaseURL: server.URL, APIKey: "test-key"})
	require.NoError(t, err)

	txns, err := c.Transactions(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, "Pizza Hut", txns[0].Description)
	assert.Equal(t, "24.5", txns[0].Amount.String())
	assert.Equal(t, "Transportation", string(txns[1].Category))
}

func TestClient_BillReminders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/bill_reminders", r.URL.Path)
		assert.Equal(t, "due_date.asc", r.URL.Query().Get("order"))
		_, _ = w.Write([]byte(`[
			{"id":"b1","user_id":"user-1","title":"Rent","amount":"1200","due_date":"2026-09-03T00:00:00Z","recurring":true,"recurring_period":"monthly","paid":false}
		]`))
	}))
	defer server.Close()

	c, err := NewClient(ClientConfig{BaseURL: server.URL, APIKey: "test-key"})
	require.NoError(t, err)

	reminders, err := c.BillReminders(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, "Rent", reminders[0].Title)
	assert.True(t, reminders[0].Recurring)
}

func TestClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message":"permission denied"}`, http.StatusForbidden)
	}))
	defer server.Close()

	c, err := NewClient(ClientConfig{BaseURL: server.URL, APIKey: "test-key"})
	require.NoError(t, err)

	_, err = c.Budgets(context.Background(), "user-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestClient_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"}`))
	}))
	defer server.Close()

	c, err := NewClient(ClientConfig{BaseURL: server.URL, APIKey: "test-key"})
	require.NoError(t, err)

	_, err = c.Transactions(context.Background(), "user-1")
	assert.Error(t, err)
}

func TestClient_EmptyUserID(t *testing.T) {
	c, err := NewClient(ClientConfig{BaseURL: "https://example.test", APIKey: "key", Timeout: time.Second})
	require.NoError(t, err)

	_, err = c.Transactions(context.Background(), "")
	assert.Error(t, err)
}
