package frontacct

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/oreem-dev/pouch-agent/pkg/tools"
	"github.com/oreem-dev/pouch-agent/pkg/undo"
)

// param is one declared string parameter of an endpoint.
type param struct {
	name        string
	description string
}

// endpoint is one row of the declarative operation table. A single generic
// handler interprets every row: build the URL from path and query
// parameters, perform the call, check the status, and on destructive
// success record exactly one undo entry before returning.
type endpoint struct {
	name         string
	description  string
	method       string
	path         string // template, e.g. "/bankaccounts/{id}"
	pathParams   []param
	queryParams  []param
	hasPayload   bool
	undoAction   undo.Action // empty when the operation is not destructive
	undoResource string
}

var endpoints = []endpoint{
	{
		name:        "getBankAccounts",
		description: "Fetches all bank accounts from the API using HTTP GET.",
		method:      "GET",
		path:        "/bankaccounts",
	},
	{
		name:        "getBankAccountById",
		description: "Fetches a specific bank account by its ID from the API.",
		method:      "GET",
		path:        "/bankaccounts/{id}",
		pathParams:  []param{{"id", "The ID of the bank account to fetch"}},
	},
	{
		name:         "updateBankAccountById",
		description:  "Updates a specific bank account by ID using PUT request.",
		method:       "PUT",
		path:         "/bankaccounts/{id}",
		pathParams:   []param{{"id", "The ID of the bank account to update"}},
		hasPayload:   true,
		undoAction:   undo.ActionUpdate,
		undoResource: "bankaccounts",
	},
	{
		name:        "searchBankAccountsByOwner",
		description: "Search bank accounts by owner name using HTTP GET.",
		method:      "GET",
		path:        "/bankaccounts",
		queryParams: []param{{"owner", "The name of the bank account owner to search for"}},
	},
	{
		name:         "deleteBankAccountById",
		description:  "Deletes a bank account by ID using DELETE /bankaccounts/{id}.",
		method:       "DELETE",
		path:         "/bankaccounts/{id}",
		pathParams:   []param{{"id", "The ID of the bank account to delete"}},
		undoAction:   undo.ActionDelete,
		undoResource: "bankaccounts",
	},
	{
		name:        "getDimensions",
		description: "Fetch dimensions data from the specified API endpoint using HTTP GET request.",
		method:      "GET",
		path:        "/dimensions",
	},
	{
		name:        "getDimensionById",
		description: "Fetch a single dimension by ID from the specified API endpoint using HTTP GET request.",
		method:      "GET",
		path:        "/dimensions/{id}",
		pathParams:  []param{{"id", "The ID of the dimension to fetch"}},
	},
	{
		name:         "updateDimensionById",
		description:  "Updates a specific dimension (cost center) by ID using PUT /dimensions/{id}.",
		method:       "PUT",
		path:         "/dimensions/{id}",
		pathParams:   []param{{"id", "The ID of the dimension to update"}},
		hasPayload:   true,
		undoAction:   undo.ActionUpdate,
		undoResource: "dimensions",
	},
	{
		name:         "deleteDimensionById",
		description:  "Deletes a specific dimension by ID using DELETE /dimensions/{id}.",
		method:       "DELETE",
		path:         "/dimensions/{id}",
		pathParams:   []param{{"id", "The ID of the dimension to delete"}},
		undoAction:   undo.ActionDelete,
		undoResource: "dimensions",
	},
	{
		name:        "getExchangeRatesUSD",
		description: "Fetches exchange rates for USD from the API.",
		method:      "GET",
		path:        "/exchangerates/usd",
	},
	{
		name:        "deleteExchangeRateById",
		description: "Deletes an exchange rate entry by currency and ID using DELETE /exchangerates/{currency}/{id}.",
		method:      "DELETE",
		path:        "/exchangerates/{currency}/{id}",
		pathParams: []param{
			{"currency", "The 3-letter currency code (e.g., 'USD', 'EUR')"},
			{"id", "The ID of the exchange rate entry to delete"},
		},
		undoAction:   undo.ActionDelete,
		undoResource: "exchangerates",
	},
	{
		name:        "getGLAccounts",
		description: "Fetch general ledger accounts (GL Accounts) from the specified API endpoint using HTTP GET request.",
		method:      "GET",
		path:        "/glaccounts",
	},
	{
		name:        "getGLAccountByCode",
		description: "Fetch a specific General Ledger account by its account code from the API.",
		method:      "GET",
		path:        "/glaccounts/{account_code}",
		pathParams:  []param{{"account_code", "The account code of the GL account to fetch"}},
	},
	{
		name:         "updateGLAccountById",
		description:  "Updates a General Ledger (GL) account by ID using PUT /glaccounts/{id}.",
		method:       "PUT",
		path:         "/glaccounts/{id}",
		pathParams:   []param{{"id", "The ID of the GL account to update"}},
		hasPayload:   true,
		undoAction:   undo.ActionUpdate,
		undoResource: "glaccounts",
	},
	{
		name:         "deleteGLAccountById",
		description:  "Deletes a GL account by ID using DELETE /glaccounts/{id}.",
		method:       "DELETE",
		path:         "/glaccounts/{id}",
		pathParams:   []param{{"id", "The ID of the GL account to delete"}},
		undoAction:   undo.ActionDelete,
		undoResource: "glaccounts",
	},
	{
		name:        "getJournalEntries",
		description: "Fetches all journal entries from the specified API endpoint using HTTP GET.",
		method:      "GET",
		path:        "/journal",
	},
	{
		name:        "getJournalEntryByTypeAndId",
		description: "Fetch a specific journal entry from the API using its type and ID.",
		method:      "GET",
		path:        "/journal/{type}/{id}",
		pathParams: []param{
			{"type", "The type of the journal entry (e.g., 'gl', 'bp', 'ar')"},
			{"id", "The ID of the journal entry to fetch"},
		},
	},
	{
		name:         "updateJournalEntryById",
		description:  "Updates a journal entry by ID using PUT /journal/{id}.",
		method:       "PUT",
		path:         "/journal/{id}",
		pathParams:   []param{{"id", "The ID of the journal entry to update"}},
		hasPayload:   true,
		undoAction:   undo.ActionUpdate,
		undoResource: "journal",
	},
	{
		name:        "deleteJournalEntryByTypeAndId",
		description: "Deletes a journal entry using DELETE /journal/{type}/{id}.",
		method:      "DELETE",
		path:        "/journal/{type}/{id}",
		pathParams: []param{
			{"type", "The type of the journal entry (e.g., 'gl', 'bp', 'ar')"},
			{"id", "The ID of the journal entry to delete"},
		},
		undoAction:   undo.ActionDelete,
		undoResource: "journal",
	},
	{
		name:        "getSales",
		description: "Fetches all sales records from the API using a GET request.",
		method:      "GET",
		path:        "/sales",
	},
	{
		name:         "updateSalesOrderById",
		description:  "Updates a sales order by ID using PUT /sales/{id}.",
		method:       "PUT",
		path:         "/sales/{id}",
		pathParams:   []param{{"id", "The ID of the sales order to update"}},
		hasPayload:   true,
		undoAction:   undo.ActionUpdate,
		undoResource: "sales",
	},
}

// schema derives the operation's input schema from its declared parameters.
func (e endpoint) schema() tools.InputSchema {
	props := map[string]tools.Property{}
	var required []string

	for _, p := range e.pathParams {
		props[p.name] = tools.Property{Type: "string", Description: p.description}
		required = append(required, p.name)
	}
	for _, p := range e.queryParams {
		props[p.name] = tools.Property{Type: "string", Description: p.description}
		required = append(required, p.name)
	}
	if e.hasPayload {
		props["payload"] = tools.Property{
			Type:        "object",
			Description: "Resource fields to write, passed through to the API unchanged",
		}
		required = append(required, "payload")
	}

	return tools.ObjectSchema(props, required...)
}

// handler builds the generic handler for one table row.
func (e endpoint) handler(c *Client) tools.Handler {
	return func(ctx context.Context, args map[string]interface{}, tc *tools.Context) (string, error) {
		path := e.path
		var idParts []string
		for _, p := range e.pathParams {
			value, _ := args[p.name].(string)
			path = strings.Replace(path, "{"+p.name+"}", url.PathEscape(value), 1)
			idParts = append(idParts, value)
		}

		var query url.Values
		for _, p := range e.queryParams {
			if value, ok := args[p.name].(string); ok {
				if query == nil {
					query = url.Values{}
				}
				query.Set(p.name, value)
			}
		}

		var body string
		var err error
		switch e.method {
		case "GET":
			body, err = c.Get(ctx, tc.Session, path, query)
		case "PUT":
			body, err = c.Put(ctx, tc.Session, path, args["payload"])
		case "DELETE":
			body, err = c.Delete(ctx, tc.Session, path)
		default:
			return "", fmt.Errorf("unsupported method %s for %s", e.method, e.name)
		}
		if err != nil {
			return "", err
		}

		resourceID := strings.Join(idParts, "/")
		if e.undoAction != "" {
			tc.Undo.Record(undo.Entry{
				Action:   e.undoAction,
				Resource: e.undoResource,
				ID:       resourceID,
			})
		}

		switch e.method {
		case "DELETE":
			return fmt.Sprintf("Deleted %s/%s successfully.", e.undoResource, resourceID), nil
		case "PUT":
			return fmt.Sprintf("Updated %s/%s successfully:\n%s", e.undoResource, resourceID, body), nil
		default:
			return body, nil
		}
	}
}

// RegisterAll populates the registry with the full accounting catalogue:
// the login and undo operations, every table row, and the two operations
// that need bespoke handlers.
func RegisterAll(registry *tools.Registry, client *Client) {
	registry.MustRegister(tools.Operation{
		Name:        "loginFrontAccounting",
		Description: "Logs into FrontAccounting and stores credentials for reuse.",
		Schema: tools.ObjectSchema(map[string]tools.Property{
			"user":      {Type: "string", Description: "FrontAccounting user name"},
			"password":  {Type: "string", Description: "FrontAccounting password"},
			"companyId": {Type: "string", Description: "Company the session is scoped to"},
		}, "user", "password", "companyId"),
		Handler: loginHandler(client),
	})

	registry.MustRegister(tools.Operation{
		Name:        "undoLastOperation",
		Description: "Undoes the last destructive operation if supported (like DELETE).",
		Schema:      tools.EmptySchema(),
		Handler:     undoHandler(),
	})

	for _, e := range endpoints {
		registry.MustRegister(tools.Operation{
			Name:        e.name,
			Description: e.description,
			Schema:      e.schema(),
			Handler:     e.handler(client),
		})
	}

	registry.MustRegister(tools.Operation{
		Name:        "deleteBankAccountFields",
		Description: "Deletes (nullifies) specific fields of a bank account using PUT /bankaccounts/{id}.",
		Schema: tools.ObjectSchema(map[string]tools.Property{
			"id": {Type: "string", Description: "The ID of the bank account"},
			"fields": {
				Type:        "array",
				Description: "Bank account fields to clear",
				Items:       &tools.Property{Type: "string", Enum: bankAccountClearableFields},
			},
		}, "id", "fields"),
		Handler: deleteBankAccountFieldsHandler(client),
	})

	registry.MustRegister(tools.Operation{
		Name:        "getGLAccountByName",
		Description: "Fetches all GL accounts and filters them by account_name (case-insensitive match).",
		Schema: tools.ObjectSchema(map[string]tools.Property{
			"account_name": {Type: "string", Description: "Substring of the account name to match"},
		}, "account_name"),
		Handler: glAccountByNameHandler(client),
	})
}
