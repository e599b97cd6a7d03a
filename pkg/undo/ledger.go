// Package undo tracks the most recent destructive operations so the agent can
// report on them. It is a reporting aid only: nothing here calls the
// accounting API or reverses anything.
package undo

import "sync"

// Action classifies the destructive operation an Entry describes.
type Action string

const (
	ActionDelete       Action = "DELETE"
	ActionUpdate       Action = "UPDATE"
	ActionUpdateFields Action = "UPDATE_FIELDS"
)

// Entry describes one destructive operation that completed successfully.
type Entry struct {
	Action        Action
	Resource      string
	ID            string
	ClearedFields []string
}

// Ledger is a LIFO stack of undo entries. It grows without bound for the
// lifetime of the conversation; there is no eviction. Safe for concurrent
// use, since the MCP stdio transport dispatches tool calls from a worker
// pool.
type Ledger struct {
	mu      sync.Mutex
	entries []Entry
}

// NewLedger creates an empty Ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Record appends an entry.
func (l *Ledger) Record(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, e)
}

// Pop removes and returns the most recent entry. The second return value is
// false when the ledger is empty.
func (l *Ledger) Pop() (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.entries) == 0 {
		return Entry{}, false
	}
	last := l.entries[len(l.entries)-1]
	l.entries = l.entries[:len(l.entries)-1]
	return last, true
}

// Len returns the number of recorded entries.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
