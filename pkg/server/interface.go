/*
Package server implements msgpack IPC for word completion services.

The server reads a stream of msgpack maps from stdin and writes one msgpack
map per request to stdout. Every request carries an "id", echoed back, and a
"cmd" naming the operation.

# IPC

Completion requests send the text before the cursor:

	{"id": "req_001", "cmd": "complete", "p": "I like obs", "l": 5}

The server answers with the query it completed, where that query starts in
the text and the ranked suggestions:

	{"id": "req_001", "q": "obs", "o": 7, "s": [{"w": "obsidian", "r": 1, "k": "currentVault", "h": "obsidian"}], "c": 1, "t": 85}

Selections feed the ranking history:

	{"id": "sel_001", "cmd": "select", "w": "obsidian", "k": "currentVault"}

Sources are reloaded on demand. The current file sends its text along:

	{"id": "ref_001", "cmd": "refresh", "src": "currentFile", "path": "today.md", "text": "..."}
	{"id": "ref_002", "cmd": "refresh", "src": "customDictionary"}

And a health check reports the index sizes:

	{"id": "h_001", "cmd": "health"}

Failed requests get an error map instead:

	{"id": "req_001", "e": "unknown match strategy: \"fuzzy\"", "c": 400}

# Message Types

CompletionRequest and CompletionResponse handle completions. Strategy and
fuzzy settings are optional; the configured defaults apply otherwise.
SelectRequest and RefreshRequest answer with a StatusResponse.
*/
package server

// Commands understood by the server.
const (
	CmdComplete = "complete"
	CmdSelect   = "select"
	CmdRefresh  = "refresh"
	CmdHealth   = "health"
)

// Error codes of CompletionError.
const (
	CodeBadRequest = 400
	CodeInternal   = 500
)

// envelope is decoded first to route a request by its command.
type envelope struct {
	ID  string `msgpack:"id"`
	Cmd string `msgpack:"cmd"`
}

// CompletionRequest - completion of the text before the cursor
type CompletionRequest struct {
	ID   string `msgpack:"id"`
	Text string `msgpack:"p"`
	// Limit is capped by the server max_limit. Zero uses max_results.
	Limit    int    `msgpack:"l,omitempty"`
	Strategy string `msgpack:"m,omitempty"`
	// Fuzzy enables the fuzzy pass. FuzzyScore overrides min_fuzzy_score.
	Fuzzy       bool    `msgpack:"f,omitempty"`
	FuzzyScore  float64 `msgpack:"fs,omitempty"`
	FrontMatter string  `msgpack:"fm,omitempty"`
}

// CompletionSuggestion - one ranked suggestion
type CompletionSuggestion struct {
	Word        string `msgpack:"w"`
	Rank        uint16 `msgpack:"r"`
	Type        string `msgpack:"k"`
	Hit         string `msgpack:"h"`
	Description string `msgpack:"d,omitempty"`
	Aliased     bool   `msgpack:"a,omitempty"`
	CaretSymbol string `msgpack:"cs,omitempty"`
}

// CompletionResponse - completion response. TimeTaken is in microseconds.
type CompletionResponse struct {
	ID          string                 `msgpack:"id"`
	Query       string                 `msgpack:"q"`
	Offset      int                    `msgpack:"o"`
	Suggestions []CompletionSuggestion `msgpack:"s"`
	Count       int                    `msgpack:"c"`
	TimeTaken   int64                  `msgpack:"t"`
}

// SelectRequest - records that a suggestion was inserted
type SelectRequest struct {
	ID   string `msgpack:"id"`
	Word string `msgpack:"w"`
	Type string `msgpack:"k"`
}

// RefreshRequest - reloads one word source
type RefreshRequest struct {
	ID     string `msgpack:"id"`
	Source string `msgpack:"src"`
	Path   string `msgpack:"path,omitempty"`
	Text   string `msgpack:"text,omitempty"`
}

// StatusResponse - answer to select, refresh and health
type StatusResponse struct {
	ID      string         `msgpack:"id"`
	Status  string         `msgpack:"status"`
	Changed bool           `msgpack:"changed,omitempty"`
	Stats   map[string]int `msgpack:"stats,omitempty"`
}

// CompletionError holds basic error information for failed requests
type CompletionError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
