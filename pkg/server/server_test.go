package server

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/bastiangx/complements/pkg/config"
	"github.com/bastiangx/complements/pkg/history"
	"github.com/bastiangx/complements/pkg/index"
	"github.com/bastiangx/complements/pkg/model"
	"github.com/bastiangx/complements/pkg/suggest"
	"github.com/bastiangx/complements/pkg/tokenizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

type fakeRefresher struct {
	calls []RefreshRequest
	err   error
}

func (f *fakeRefresher) Refresh(source, path, text string) (bool, error) {
	f.calls = append(f.calls, RefreshRequest{Source: source, Path: path, Text: text})
	return f.err == nil, f.err
}

func newTestCompleter(t *testing.T) *suggest.Completer {
	t.Helper()
	words := index.NewIndexedWords()
	words.CurrentVault.Rebuild([]model.Word{
		{Value: "obsidian"},
		{Value: "observation"},
		{Value: "obsolete", Description: "no longer used"},
	})
	tok, err := tokenizer.Default.New(tokenizer.Options{})
	require.NoError(t, err)

	c := suggest.NewCompleter(words, tok, suggest.Prefix)
	c.SetHistory(history.NewStorage(nil, history.Config{}))
	return c
}

// run feeds requests to a fresh server and returns every raw response,
// the ready message first.
func run(t *testing.T, cfg *config.Config, refresher Refresher, requests ...map[string]any) []msgpack.RawMessage {
	t.Helper()
	var in bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, req := range requests {
		require.NoError(t, enc.Encode(req))
	}

	var out bytes.Buffer
	srv := NewServerWithIO(newTestCompleter(t), refresher, cfg, &in, &out)
	require.NoError(t, srv.Start())

	var responses []msgpack.RawMessage
	dec := msgpack.NewDecoder(&out)
	for {
		var raw msgpack.RawMessage
		err := dec.Decode(&raw)
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		responses = append(responses, raw)
	}
	require.Len(t, responses, len(requests)+1)
	return responses[1:]
}

func unmarshal[T any](t *testing.T, raw msgpack.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, msgpack.Unmarshal(raw, &v))
	return v
}

func TestReady(t *testing.T) {
	var out bytes.Buffer
	srv := NewServerWithIO(newTestCompleter(t), nil, nil, &bytes.Buffer{}, &out)
	require.NoError(t, srv.Start())

	var ready StatusResponse
	require.NoError(t, msgpack.Unmarshal(out.Bytes(), &ready))
	assert.Equal(t, "ready", ready.Status)
}

func TestComplete(t *testing.T) {
	responses := run(t, nil, nil,
		map[string]any{"id": "1", "cmd": "complete", "p": "I like obs", "l": 2},
		map[string]any{"id": "2", "cmd": "complete", "p": "see obso", "m": "partial"},
	)

	first := unmarshal[CompletionResponse](t, responses[0])
	assert.Equal(t, "1", first.ID)
	assert.Equal(t, "obs", first.Query)
	assert.Equal(t, 7, first.Offset)
	assert.Equal(t, 2, first.Count)
	assert.Equal(t, []CompletionSuggestion{
		{Word: "obsidian", Rank: 1, Type: "currentVault", Hit: "obsidian"},
		{Word: "obsolete", Rank: 2, Type: "currentVault", Hit: "obsolete", Description: "no longer used"},
	}, first.Suggestions)

	second := unmarshal[CompletionResponse](t, responses[1])
	assert.Equal(t, "obso", second.Query)
	assert.Equal(t, 4, second.Offset)
	require.Len(t, second.Suggestions, 1)
	assert.Equal(t, "obsolete", second.Suggestions[0].Word)
}

func TestCompleteLongText(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.MaxQuery = 8

	responses := run(t, cfg, nil,
		map[string]any{"id": "1", "cmd": "complete", "p": "aaaaaaaaaa obs"},
	)
	got := unmarshal[CompletionResponse](t, responses[0])
	assert.Equal(t, "obs", got.Query)
	assert.Equal(t, 11, got.Offset, "offset is relative to the full text")
}

func TestSelectRanksFirst(t *testing.T) {
	responses := run(t, nil, nil,
		map[string]any{"id": "1", "cmd": "select", "w": "observation", "k": "currentVault"},
		map[string]any{"id": "2", "cmd": "complete", "p": "obs"},
	)

	assert.Equal(t, StatusResponse{ID: "1", Status: "ok"}, unmarshal[StatusResponse](t, responses[0]))
	got := unmarshal[CompletionResponse](t, responses[1])
	require.NotEmpty(t, got.Suggestions)
	assert.Equal(t, "observation", got.Suggestions[0].Word)
}

func TestSelectCapitalizedSuggestion(t *testing.T) {
	responses := run(t, nil, nil,
		map[string]any{"id": "1", "cmd": "complete", "p": "Obso"},
		map[string]any{"id": "2", "cmd": "select", "w": "Obsolete", "k": "currentVault"},
		map[string]any{"id": "3", "cmd": "complete", "p": "Obs"},
	)

	first := unmarshal[CompletionResponse](t, responses[0])
	require.Len(t, first.Suggestions, 1)
	assert.Equal(t, "Obsolete", first.Suggestions[0].Word)

	got := unmarshal[CompletionResponse](t, responses[2])
	require.NotEmpty(t, got.Suggestions)
	assert.Equal(t, "Obsolete", got.Suggestions[0].Word)
}

func TestRequestErrors(t *testing.T) {
	refresher := &fakeRefresher{err: errors.New("disk on fire")}
	testCases := []struct {
		request      map[string]any
		expectedCode int
		description  string
	}{
		{map[string]any{"id": "a", "cmd": "complete", "p": ""}, CodeBadRequest, "Empty text"},
		{map[string]any{"id": "b", "cmd": "complete", "p": "obs", "m": "fuzzy"}, CodeBadRequest, "Unknown strategy"},
		{map[string]any{"id": "c", "cmd": "complete", "p": 42}, CodeBadRequest, "Wrong field type"},
		{map[string]any{"id": "d", "cmd": "select", "w": "obs", "k": "clipboard"}, CodeBadRequest, "Unknown word type"},
		{map[string]any{"id": "e", "cmd": "select"}, CodeBadRequest, "Missing word"},
		{map[string]any{"id": "f", "cmd": "refresh", "src": "currentVault"}, CodeInternal, "Refresh failure"},
		{map[string]any{"id": "g", "cmd": "shutdown"}, CodeBadRequest, "Unknown command"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			responses := run(t, nil, refresher, tc.request)
			got := unmarshal[CompletionError](t, responses[0])
			assert.Equal(t, tc.request["id"], got.ID)
			assert.Equal(t, tc.expectedCode, got.Code)
			assert.NotEmpty(t, got.Error)
		})
	}
}

func TestRefreshAndHealth(t *testing.T) {
	refresher := &fakeRefresher{}
	responses := run(t, nil, refresher,
		map[string]any{"id": "1", "cmd": "refresh", "src": "currentFile", "path": "today.md", "text": "hello"},
		map[string]any{"id": "2", "cmd": "health"},
	)

	refreshed := unmarshal[StatusResponse](t, responses[0])
	assert.True(t, refreshed.Changed)
	assert.Equal(t, []RefreshRequest{{Source: "currentFile", Path: "today.md", Text: "hello"}}, refresher.calls)

	health := unmarshal[StatusResponse](t, responses[1])
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 3, health.Stats["currentVault"])
	assert.Equal(t, 3, health.Stats["totalWords"])
}

func TestTail(t *testing.T) {
	testCases := []struct {
		text        string
		limit       int
		expected    string
		expectedCut int
		description string
	}{
		{"hello", 0, "hello", 0, "No limit"},
		{"hello", 10, "hello", 0, "Short text"},
		{"hello world", 5, "world", 6, "Cut"},
		{"héllo", 4, "llo", 3, "Rune boundary"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			got, cut := tail(tc.text, tc.limit)
			assert.Equal(t, tc.expected, got)
			assert.Equal(t, tc.expectedCut, cut)
		})
	}
}
