/*
Package server implements msgpack IPC for the askserve matcher.

Clients write a stream of msgpack maps to stdin and read one msgpack map per
request from stdout. Every request carries an ID that is echoed back and an
action; a missing action means "query".

# IPC

Ask a question:

	{"id": "req_001", "action": "query", "q": "how to export activities"}

The best match and up to two alternatives come back with the time taken in microseconds:

	{"id": "req_001", "b": {"q": "...", "a": "AC101.rpt", "s": "Reports", "sc": 2.75}, "s": [], "c": 0, "t": 145}

"b" is nil when nothing scored high enough. Setting "x": true adds the scoring
reasons of every returned entry under "r".

Report whether an answer helped:

	{"id": "fb_001", "action": "feedback", "q": "how to export activities", "a": "AC101.rpt", "h": true}

Learned state can be moved in and out as an opaque msgpack snapshot:

	{"id": "s1", "action": "export"}
	{"id": "s2", "action": "import", "d": <bytes>}

The remaining actions are "health", "stats" and "reload" (re-read the knowledge base from disk).

Failures are reported as {"id", "e", "c"} with HTTP-like codes: 400 for bad
requests, 500 for internal errors, 503 when an action is unavailable.
*/
package server

import "github.com/bastiangx/askserve/pkg/suggest"

// Action names.
const (
	ActionQuery    = "query"
	ActionFeedback = "feedback"
	ActionExport   = "export"
	ActionImport   = "import"
	ActionHealth   = "health"
	ActionStats    = "stats"
	ActionReload   = "reload"
)

// Request is every field any action may use.
type Request struct {
	ID      string `msgpack:"id"`
	Action  string `msgpack:"action,omitempty"`
	Query   string `msgpack:"q,omitempty"`
	Answer  string `msgpack:"a,omitempty"`
	Helpful bool   `msgpack:"h,omitempty"`
	Explain bool   `msgpack:"x,omitempty"`
	Data    []byte `msgpack:"d,omitempty"`
}

// QueryResponse answers a query.
type QueryResponse struct {
	ID          string          `msgpack:"id"`
	Best        *suggest.Match  `msgpack:"b"`
	Suggestions []suggest.Match `msgpack:"s"`
	Count       int             `msgpack:"c"`
	TimeTaken   int64           `msgpack:"t"`
	Reasons     [][]string      `msgpack:"r,omitempty"`
}

// FeedbackResponse acknowledges feedback with the logged event ID.
type FeedbackResponse struct {
	ID      string `msgpack:"id"`
	Status  string `msgpack:"status"`
	EventID string `msgpack:"event"`
	Saved   bool   `msgpack:"saved"`
}

// StatusResponse is the reply for actions without a payload.
type StatusResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
}

// ExportResponse carries an encoded learned-state snapshot.
type ExportResponse struct {
	ID   string `msgpack:"id"`
	Data []byte `msgpack:"d"`
}

// StatsResponse reports engine and server counters.
type StatsResponse struct {
	ID    string         `msgpack:"id"`
	Stats map[string]int `msgpack:"stats"`
}

// ReloadResponse reports the size of the reloaded knowledge base.
type ReloadResponse struct {
	ID      string `msgpack:"id"`
	Status  string `msgpack:"status"`
	Entries int    `msgpack:"entries"`
}

// ErrorResponse holds basic error information
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
