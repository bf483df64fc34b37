// Package suggest is the core, matching the query at the cursor against the indexed words and ranking them.
package suggest

import "github.com/bastiangx/complements/pkg/model"

// ICompleter defines the interface for word completion engines
type ICompleter interface {
	// Complete returns suggestions for the end of text
	Complete(text string, req Request) Result

	// Select records that a suggestion was inserted
	Select(w model.Word)

	// Stats returns statistics about the loaded indexes
	Stats() map[string]int
}

var _ ICompleter = (*Completer)(nil)
