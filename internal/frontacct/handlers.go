package frontacct

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/oreem-dev/pouch-agent/pkg/tools"
	"github.com/oreem-dev/pouch-agent/pkg/undo"
)

// bankAccountClearableFields are the only bank account fields the clearing
// operation may nullify.
var bankAccountClearableFields = []string{
	"bank_name",
	"bank_account_number",
	"bank_curr_code",
	"bank_address",
	"dflt_curr_act",
}

// loginHandler posts the credentials upstream and commits the session only
// after the upstream call reports success. A failed login leaves the prior
// session (or the empty state) untouched.
func loginHandler(c *Client) tools.Handler {
	return func(ctx context.Context, args map[string]interface{}, tc *tools.Context) (string, error) {
		user, _ := args["user"].(string)
		password, _ := args["password"].(string)
		companyID, _ := args["companyId"].(string)

		if err := c.Login(ctx, user, password); err != nil {
			return "", err
		}

		tc.Session.Set(user, password, companyID)
		return "Login successful.\nSession saved.", nil
	}
}

// undoHandler pops the most recent ledger entry and reports on it. No
// remote call is ever made here; reversal is unsupported.
func undoHandler() tools.Handler {
	return func(ctx context.Context, args map[string]interface{}, tc *tools.Context) (string, error) {
		entry, ok := tc.Undo.Pop()
		if !ok {
			return "No operations to undo.", nil
		}

		if entry.Action == undo.ActionDelete {
			return fmt.Sprintf("Undo not supported for DELETE /%s/%s.\nYou must manually recreate the deleted data.",
				entry.Resource, entry.ID), nil
		}

		return fmt.Sprintf("Undo for this action type (%s) is not implemented.", entry.Action), nil
	}
}

// deleteBankAccountFieldsHandler nullifies the selected fields with a PUT
// and records an UPDATE_FIELDS undo entry naming what was cleared.
func deleteBankAccountFieldsHandler(c *Client) tools.Handler {
	return func(ctx context.Context, args map[string]interface{}, tc *tools.Context) (string, error) {
		id, _ := args["id"].(string)
		rawFields, _ := args["fields"].([]interface{})

		fields := make([]string, 0, len(rawFields))
		payload := map[string]interface{}{}
		for _, raw := range rawFields {
			field, ok := raw.(string)
			if !ok {
				continue
			}
			fields = append(fields, field)
			payload[field] = nil
		}
		if len(fields) == 0 {
			return "", fmt.Errorf("no fields selected for clearing")
		}

		if _, err := c.Put(ctx, tc.Session, "/bankaccounts/"+url.PathEscape(id), payload); err != nil {
			return "", err
		}

		tc.Undo.Record(undo.Entry{
			Action:        undo.ActionUpdateFields,
			Resource:      "bankaccounts",
			ID:            id,
			ClearedFields: fields,
		})

		return fmt.Sprintf("Cleared fields [%s] in bank account %s.", strings.Join(fields, ", "), id), nil
	}
}

// glAccountByNameHandler fetches every GL account and filters client-side,
// since the API has no name query.
func glAccountByNameHandler(c *Client) tools.Handler {
	return func(ctx context.Context, args map[string]interface{}, tc *tools.Context) (string, error) {
		// Caser instances carry internal state, so each call gets its own.
		lower := cases.Lower(language.Und)
		name, _ := args["account_name"].(string)

		body, err := c.Get(ctx, tc.Session, "/glaccounts", nil)
		if err != nil {
			return "", err
		}

		var accounts []map[string]interface{}
		if err := json.Unmarshal([]byte(body), &accounts); err != nil {
			return "", fmt.Errorf("unexpected GL accounts response shape: %w", err)
		}

		needle := lower.String(name)
		matched := []map[string]interface{}{}
		for _, account := range accounts {
			accountName, _ := account["account_name"].(string)
			if strings.Contains(lower.String(accountName), needle) {
				matched = append(matched, account)
			}
		}

		rendered, err := json.MarshalIndent(matched, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to render filtered accounts: %w", err)
		}
		return string(rendered), nil
	}
}
