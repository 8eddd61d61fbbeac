package lower

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/bluesky-social/oapigen/schema"
)

const (
	CodeUnknownFormat = "unknown-format"
	CodeNameConflict  = "name-conflict"
)

// Diagnostic is a non-fatal event raised while lowering or merging.
type Diagnostic struct {
	Code     string
	Category schema.Category
	Format   string
	Name     string
	Message  string
}

type Reporter interface {
	Report(Diagnostic)
}

// Diagnostics collects reported events and optionally logs them. Safe for concurrent use.
type Diagnostics struct {
	Logger *slog.Logger

	mu     sync.Mutex
	events []Diagnostic
}

func (d *Diagnostics) Report(diag Diagnostic) {
	d.mu.Lock()
	d.events = append(d.events, diag)
	d.mu.Unlock()

	if d.Logger != nil {
		attrs := []any{"code", diag.Code}
		if diag.Category != 0 {
			attrs = append(attrs, "category", diag.Category.String())
		}
		if diag.Format != "" {
			attrs = append(attrs, "format", diag.Format)
		}
		if diag.Name != "" {
			attrs = append(attrs, "name", diag.Name)
		}
		d.Logger.Warn(diag.Message, attrs...)
	}
}

// Events returns a copy of everything reported so far.
func (d *Diagnostics) Events() []Diagnostic {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.events)
}
