package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/complements/pkg/config"
	"github.com/bastiangx/complements/pkg/model"
	"github.com/bastiangx/complements/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Refresher reloads a word source by name.
type Refresher interface {
	Refresh(source, path, text string) (changed bool, err error)
}

// Server handles the IPC for word completions
type Server struct {
	completer suggest.ICompleter
	refresher Refresher
	config    *config.Config

	decoder *msgpack.Decoder
	writer  *bufio.Writer
	mu      sync.Mutex

	requests int
}

// NewServer creates a new completion server using stdin/stdout for IPC
func NewServer(completer suggest.ICompleter, refresher Refresher, cfg *config.Config) *Server {
	return NewServerWithIO(completer, refresher, cfg, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server reading requests from r and writing to w.
func NewServerWithIO(completer suggest.ICompleter, refresher Refresher, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Server{
		completer: completer,
		refresher: refresher,
		config:    cfg,
		decoder:   msgpack.NewDecoder(bufio.NewReader(r)),
		writer:    bufio.NewWriter(w),
	}
}

// Start begins listening for IPC requests. It returns nil once the input ends.
func (s *Server) Start() error {
	log.Debug("Starting Server.")

	// Signal that the server is ready
	s.sendResponse(StatusResponse{Status: "ready"})

	for {
		var raw msgpack.RawMessage
		if err := s.decoder.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				log.Debugf("Input closed after %d requests", s.requests)
				return nil
			}
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return fmt.Errorf("truncated request: %w", err)
			}
			log.Errorf("Decoding request: %v", err)
			s.sendError("", "Invalid msgpack request", CodeBadRequest)
			continue
		}
		s.requests++
		s.handleRequest(raw)
	}
}

// handleRequest routes one raw request by its command.
func (s *Server) handleRequest(raw msgpack.RawMessage) {
	var env envelope
	if err := msgpack.Unmarshal(raw, &env); err != nil {
		s.sendError("", "Request is not a map", CodeBadRequest)
		log.Errorf("Unmarshaling request: %v", err)
		return
	}

	switch env.Cmd {
	case CmdComplete:
		var req CompletionRequest
		if s.decode(raw, env.ID, &req) {
			s.handleComplete(req)
		}
	case CmdSelect:
		var req SelectRequest
		if s.decode(raw, env.ID, &req) {
			s.handleSelect(req)
		}
	case CmdRefresh:
		var req RefreshRequest
		if s.decode(raw, env.ID, &req) {
			s.handleRefresh(req)
		}
	case CmdHealth:
		s.sendResponse(StatusResponse{ID: env.ID, Status: "ok", Stats: s.completer.Stats()})
	default:
		s.sendError(env.ID, fmt.Sprintf("Unknown command: %q", env.Cmd), CodeBadRequest)
	}
}

func (s *Server) decode(raw msgpack.RawMessage, id string, v any) bool {
	if err := msgpack.Unmarshal(raw, v); err != nil {
		s.sendError(id, fmt.Sprintf("Malformed request: %v", err), CodeBadRequest)
		return false
	}
	return true
}

// handleComplete validates a completion request, completes the tail of its
// text and sends the ranked suggestions.
func (s *Server) handleComplete(req CompletionRequest) {
	if req.Text == "" {
		s.sendError(req.ID, "Missing 'p' parameter", CodeBadRequest)
		return
	}

	completion := s.config.Request(req.Limit)
	completion.FrontMatter = req.FrontMatter
	if req.Strategy != "" {
		strategy, err := suggest.StrategyFromName(req.Strategy)
		if err != nil {
			s.sendError(req.ID, err.Error(), CodeBadRequest)
			return
		}
		completion.Strategy = strategy
	}
	if req.Fuzzy {
		score := s.config.Match.MinFuzzyScore
		if req.FuzzyScore > 0 {
			score = req.FuzzyScore
		}
		completion.Fuzzy = &suggest.FuzzyOptions{MinMatchScore: score}
	}

	text, cut := tail(req.Text, s.config.Server.MaxQuery)

	start := time.Now()
	result := s.completer.Complete(text, completion)
	elapsed := time.Since(start)

	suggestions := make([]CompletionSuggestion, len(result.Words))
	for i, w := range result.Words {
		suggestions[i] = CompletionSuggestion{
			Word:        w.Value,
			Rank:        uint16(i + 1),
			Type:        string(w.Type),
			Hit:         w.Hit,
			Description: w.Description,
			Aliased:     w.MatchedAlias(),
			CaretSymbol: w.CaretSymbol,
		}
	}

	offset := 0
	if result.Query != "" {
		offset = result.Offset + cut
	}
	s.sendResponse(CompletionResponse{
		ID:          req.ID,
		Query:       result.Query,
		Offset:      offset,
		Suggestions: suggestions,
		Count:       len(suggestions),
		TimeTaken:   elapsed.Microseconds(),
	})
}

func (s *Server) handleSelect(req SelectRequest) {
	if req.Word == "" {
		s.sendError(req.ID, "Missing 'w' parameter", CodeBadRequest)
		return
	}
	wordType, err := model.ParseWordType(req.Type)
	if err != nil {
		s.sendError(req.ID, err.Error(), CodeBadRequest)
		return
	}
	s.completer.Select(model.Word{Value: req.Word, Type: wordType})
	s.sendResponse(StatusResponse{ID: req.ID, Status: "ok"})
}

func (s *Server) handleRefresh(req RefreshRequest) {
	if s.refresher == nil {
		s.sendError(req.ID, "Refresh is not available", CodeInternal)
		return
	}
	changed, err := s.refresher.Refresh(req.Source, req.Path, req.Text)
	if err != nil {
		log.Warnf("Refreshing %s: %v", req.Source, err)
		s.sendError(req.ID, err.Error(), CodeInternal)
		return
	}
	s.sendResponse(StatusResponse{ID: req.ID, Status: "ok", Changed: changed, Stats: s.completer.Stats()})
}

// sendResponse encodes response to the writer and flushes it.
func (s *Server) sendResponse(response any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := msgpack.NewEncoder(s.writer).Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
		return
	}
	if err := s.writer.Flush(); err != nil {
		log.Errorf("Writing response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.sendResponse(CompletionError{ID: id, Error: message, Code: code})
}

// tail keeps the last limit bytes of text, starting on a rune boundary, and
// returns how many bytes were cut.
func tail(text string, limit int) (string, int) {
	if limit <= 0 || len(text) <= limit {
		return text, 0
	}
	start := len(text) - limit
	for start < len(text) && !utf8.RuneStart(text[start]) {
		start++
	}
	return text[start:], start
}
