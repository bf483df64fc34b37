// Package cli handles cmd line input and suggestions for DBG and testing various features
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bastiangx/complements/pkg/suggest"
	"github.com/charmbracelet/log"
)

// InputHandler reads lines from stdin and prints the suggestions for the end
// of each line. Lines starting with ':' are commands:
//
//	:s N        select the Nth suggestion of the last result
//	:m NAME     switch the match strategy
//	:f SCORE    enable fuzzy matching up to SCORE, ":f off" disables it
//	:stats      print the index sizes
//	:q          quit
type InputHandler struct {
	completer    suggest.ICompleter
	request      suggest.Request
	in           io.Reader
	out          io.Writer
	last         suggest.Result
	requestCount int
}

// NewInputHandler handles initialization of the InputHandler with the request
// used for every completion.
func NewInputHandler(completer suggest.ICompleter, req suggest.Request) *InputHandler {
	return &InputHandler{
		completer: completer,
		request:   req,
		in:        os.Stdin,
		out:       os.Stdout,
	}
}

// WithIO replaces stdin and stdout.
func (h *InputHandler) WithIO(in io.Reader, out io.Writer) *InputHandler {
	h.in = in
	h.out = out
	return h
}

// Start begins the interface loop. It returns nil at the end of input or
// after :q.
func (h *InputHandler) Start() error {
	fmt.Fprintln(h.out, titleStyle.Render("complements CLI"))
	fmt.Fprintln(h.out, hintStyle.Render("type some text and press Enter to see the suggestions (:q to exit)"))

	scanner := bufio.NewScanner(h.in)
	for {
		fmt.Fprint(h.out, promptStyle.Render("> "))
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			return nil
		}
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if quit := h.handleLine(line); quit {
			return nil
		}
	}
}

// handleLine runs a command or completes the line. It reports whether to quit.
func (h *InputHandler) handleLine(line string) bool {
	if cmd, ok := strings.CutPrefix(line, ":"); ok {
		return h.handleCommand(strings.Fields(cmd))
	}
	h.complete(line)
	return false
}

func (h *InputHandler) handleCommand(fields []string) bool {
	if len(fields) == 0 {
		return false
	}
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch fields[0] {
	case "q", "quit":
		return true
	case "s", "select":
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 || n > len(h.last.Words) {
			fmt.Fprintln(h.out, renderError(fmt.Sprintf("no suggestion %q to select", arg)))
			return false
		}
		w := h.last.Words[n-1]
		h.completer.Select(w)
		fmt.Fprintln(h.out, hintStyle.Render(fmt.Sprintf("selected %s (%s)", w.Value, w.Type)))
	case "m", "strategy":
		strategy, err := suggest.StrategyFromName(arg)
		if err != nil {
			fmt.Fprintln(h.out, renderError(err.Error()))
			return false
		}
		h.request.Strategy = strategy
		fmt.Fprintln(h.out, hintStyle.Render("strategy: "+strategy.Name()))
	case "f", "fuzzy":
		if arg == "off" {
			h.request.Fuzzy = nil
			fmt.Fprintln(h.out, hintStyle.Render("fuzzy: off"))
			return false
		}
		score, err := strconv.ParseFloat(arg, 64)
		if err != nil || score <= 0 {
			fmt.Fprintln(h.out, renderError(fmt.Sprintf("invalid fuzzy score %q", arg)))
			return false
		}
		h.request.Fuzzy = &suggest.FuzzyOptions{MinMatchScore: score}
		fmt.Fprintln(h.out, hintStyle.Render(fmt.Sprintf("fuzzy: <= %g", score)))
	case "stats":
		fmt.Fprintln(h.out, renderStats(h.completer.Stats()))
	default:
		fmt.Fprintln(h.out, renderError(fmt.Sprintf("unknown command %q", fields[0])))
	}
	return false
}

// complete asks the completer for suggestions and prints them.
func (h *InputHandler) complete(text string) {
	h.requestCount++
	start := time.Now()
	result := h.completer.Complete(text, h.request)
	elapsed := time.Since(start)
	log.Debugf("Took [ %v ] for request %d", elapsed, h.requestCount)

	h.last = result
	if len(result.Words) == 0 {
		fmt.Fprintln(h.out, renderError(fmt.Sprintf("no suggestions for %q", text)))
		return
	}
	fmt.Fprintln(h.out, renderResult(result, elapsed))
}
