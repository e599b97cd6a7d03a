package frontacct

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oreem-dev/pouch-agent/pkg/session"
	"github.com/oreem-dev/pouch-agent/pkg/tools"
	"github.com/oreem-dev/pouch-agent/pkg/undo"
)

func newTestRegistry(t *testing.T, handler http.HandlerFunc) (*tools.Registry, *tools.Context, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(server.URL, 5*time.Second, nil)
	registry := tools.NewRegistry()
	RegisterAll(registry, client)

	tc := &tools.Context{
		Session: session.NewStore(),
		Undo:    undo.NewLedger(),
	}
	return registry, tc, server
}

func invoke(t *testing.T, registry *tools.Registry, tc *tools.Context, name string, args map[string]interface{}) (string, error) {
	t.Helper()
	op, ok := registry.Lookup(name)
	require.True(t, ok, "operation %s must be registered", name)
	return op.Handler(context.Background(), args, tc)
}

func TestRegisterAll_FullCatalogue(t *testing.T) {
	registry, _, _ := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {})

	// login + undo + 21 table rows + 2 bespoke handlers
	assert.Equal(t, 25, registry.Count())

	for _, name := range []string{
		"loginFrontAccounting", "undoLastOperation",
		"getBankAccounts", "getBankAccountById", "updateBankAccountById",
		"searchBankAccountsByOwner", "deleteBankAccountById", "deleteBankAccountFields",
		"getDimensions", "getDimensionById", "updateDimensionById", "deleteDimensionById",
		"getExchangeRatesUSD", "deleteExchangeRateById",
		"getGLAccounts", "getGLAccountByCode", "getGLAccountByName",
		"updateGLAccountById", "deleteGLAccountById",
		"getJournalEntries", "getJournalEntryByTypeAndId",
		"updateJournalEntryById", "deleteJournalEntryByTypeAndId",
		"getSales", "updateSalesOrderById",
	} {
		_, ok := registry.Lookup(name)
		assert.True(t, ok, "missing operation %s", name)
	}
}

func TestLogin_CommitsSessionOnlyOnSuccess(t *testing.T) {
	registry, tc, _ := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		json.NewDecoder(r.Body).Decode(&creds)
		if creds["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("bad credentials"))
			return
		}
		w.Write([]byte("ok"))
	})

	// Failed login must leave the session empty.
	_, err := invoke(t, registry, tc, "loginFrontAccounting", map[string]interface{}{
		"user": "admin", "password": "wrong", "companyId": "1",
	})
	require.Error(t, err)
	assert.False(t, tc.Session.IsAuthenticated())

	// Successful login populates it.
	result, err := invoke(t, registry, tc, "loginFrontAccounting", map[string]interface{}{
		"user": "admin", "password": "secret", "companyId": "1",
	})
	require.NoError(t, err)
	assert.Contains(t, result, "Login successful")
	assert.True(t, tc.Session.IsAuthenticated())

	headers, err := tc.Session.AuthHeaders()
	require.NoError(t, err)
	assert.Equal(t, "admin", headers["X-USER"])
	assert.Equal(t, "1", headers["X-COMPANY"])
}

func TestDelete_RecordsExactlyOneUndoEntry(t *testing.T) {
	registry, tc, _ := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/modules/api/bankaccounts/42", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})
	tc.Session.Set("admin", "secret", "1")

	result, err := invoke(t, registry, tc, "deleteBankAccountById", map[string]interface{}{"id": "42"})
	require.NoError(t, err)
	assert.Contains(t, result, "42")

	require.Equal(t, 1, tc.Undo.Len())
	entry, ok := tc.Undo.Pop()
	require.True(t, ok)
	assert.Equal(t, undo.ActionDelete, entry.Action)
	assert.Equal(t, "bankaccounts", entry.Resource)
	assert.Equal(t, "42", entry.ID)
}

func TestDelete_FailedCallRecordsNothing(t *testing.T) {
	registry, tc, _ := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte("account in use"))
	})
	tc.Session.Set("admin", "secret", "1")

	_, err := invoke(t, registry, tc, "deleteBankAccountById", map[string]interface{}{"id": "42"})
	require.Error(t, err)
	assert.Equal(t, 0, tc.Undo.Len())
}

func TestDeleteExchangeRate_CompoundResourceID(t *testing.T) {
	registry, tc, _ := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/modules/api/exchangerates/USD/7", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})
	tc.Session.Set("admin", "secret", "1")

	_, err := invoke(t, registry, tc, "deleteExchangeRateById", map[string]interface{}{
		"currency": "USD", "id": "7",
	})
	require.NoError(t, err)

	entry, ok := tc.Undo.Pop()
	require.True(t, ok)
	assert.Equal(t, "exchangerates", entry.Resource)
	assert.Equal(t, "USD/7", entry.ID)
}

func TestUpdate_RecordsUpdateEntry(t *testing.T) {
	registry, tc, _ := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"3"}`))
	})
	tc.Session.Set("admin", "secret", "1")

	result, err := invoke(t, registry, tc, "updateGLAccountById", map[string]interface{}{
		"id":      "3",
		"payload": map[string]interface{}{"account_name": "Petty Cash"},
	})
	require.NoError(t, err)
	assert.Contains(t, result, "Updated glaccounts/3")

	entry, ok := tc.Undo.Pop()
	require.True(t, ok)
	assert.Equal(t, undo.ActionUpdate, entry.Action)
}

func TestDeleteBankAccountFields_NullifiesSelectedFields(t *testing.T) {
	var gotPayload map[string]interface{}
	registry, tc, _ := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		json.NewDecoder(r.Body).Decode(&gotPayload)
		w.Write([]byte("{}"))
	})
	tc.Session.Set("admin", "secret", "1")

	result, err := invoke(t, registry, tc, "deleteBankAccountFields", map[string]interface{}{
		"id":     "5",
		"fields": []interface{}{"bank_name", "bank_address"},
	})
	require.NoError(t, err)
	assert.Contains(t, result, "bank_name")

	require.Len(t, gotPayload, 2)
	assert.Nil(t, gotPayload["bank_name"])
	assert.Nil(t, gotPayload["bank_address"])

	entry, ok := tc.Undo.Pop()
	require.True(t, ok)
	assert.Equal(t, undo.ActionUpdateFields, entry.Action)
	assert.Equal(t, []string{"bank_name", "bank_address"}, entry.ClearedFields)
}

func TestUndoLastOperation_Reports(t *testing.T) {
	registry, tc, _ := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("undo must never call the API")
	})

	// Empty ledger.
	result, err := invoke(t, registry, tc, "undoLastOperation", nil)
	require.NoError(t, err)
	assert.Equal(t, "No operations to undo.", result)

	// DELETE entry: not reversible, and popped.
	tc.Undo.Record(undo.Entry{Action: undo.ActionDelete, Resource: "bankaccounts", ID: "42"})
	result, err = invoke(t, registry, tc, "undoLastOperation", nil)
	require.NoError(t, err)
	assert.Contains(t, result, "Undo not supported for DELETE /bankaccounts/42")
	assert.Equal(t, 0, tc.Undo.Len())

	// Second call on the now-empty ledger.
	result, err = invoke(t, registry, tc, "undoLastOperation", nil)
	require.NoError(t, err)
	assert.Equal(t, "No operations to undo.", result)

	// Non-DELETE entry.
	tc.Undo.Record(undo.Entry{Action: undo.ActionUpdate, Resource: "glaccounts", ID: "3"})
	result, err = invoke(t, registry, tc, "undoLastOperation", nil)
	require.NoError(t, err)
	assert.Contains(t, result, "not implemented")
	assert.Contains(t, result, "UPDATE")
}

func TestSearchBankAccountsByOwner_SendsQuery(t *testing.T) {
	registry, tc, _ := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/modules/api/bankaccounts", r.URL.Path)
		assert.Equal(t, "Smith", r.URL.Query().Get("owner"))
		w.Write([]byte("[]"))
	})
	tc.Session.Set("admin", "secret", "1")

	_, err := invoke(t, registry, tc, "searchBankAccountsByOwner", map[string]interface{}{"owner": "Smith"})
	require.NoError(t, err)
}

func TestGetGLAccountByName_FiltersCaseInsensitively(t *testing.T) {
	registry, tc, _ := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"account_code":"100","account_name":"Petty Cash"},
			{"account_code":"200","account_name":"Accounts Receivable"},
			{"account_code":"300","account_name":"CASH AT BANK"}
		]`))
	})
	tc.Session.Set("admin", "secret", "1")

	result, err := invoke(t, registry, tc, "getGLAccountByName", map[string]interface{}{"account_name": "cash"})
	require.NoError(t, err)

	var matched []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(result), &matched))
	require.Len(t, matched, 2)
	assert.Equal(t, "100", matched[0]["account_code"])
	assert.Equal(t, "300", matched[1]["account_code"])
}

func TestGetGLAccountByName_NoMatchesRendersEmptyList(t *testing.T) {
	registry, tc, _ := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"account_code":"100","account_name":"Petty Cash"}]`))
	})
	tc.Session.Set("admin", "secret", "1")

	result, err := invoke(t, registry, tc, "getGLAccountByName", map[string]interface{}{"account_name": "inventory"})
	require.NoError(t, err)
	assert.JSONEq(t, "[]", result)
}

func TestJournalEntryByTypeAndId_PathTemplate(t *testing.T) {
	registry, tc, _ := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/modules/api/journal/gl/12", r.URL.Path)
		w.Write([]byte(`{"type":"gl","id":"12"}`))
	})
	tc.Session.Set("admin", "secret", "1")

	body, err := invoke(t, registry, tc, "getJournalEntryByTypeAndId", map[string]interface{}{
		"type": "gl", "id": "12",
	})
	require.NoError(t, err)
	assert.Contains(t, body, `"gl"`)
}
