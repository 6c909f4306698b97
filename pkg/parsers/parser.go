// Package parsers turns the free-form text output of hardware
// introspection tools into device records. Parsing is total: malformed
// input degrades the returned status, it never produces an error.
package parsers

import (
	"github.com/sysmonitor/web-monitor/internal/models"
	"github.com/sysmonitor/web-monitor/pkg/errors"
)

// State describes the quality of a parse.
type State string

const (
	// StateOK - every line matched the expected grammar
	StateOK State = "ok"
	// StatePartial - some lines were skipped or records deduplicated
	StatePartial State = "partial"
	// StateEmpty - the output contained no records
	StateEmpty State = "empty"
)

// Status describes the data quality of one parse alongside whatever
// records were extracted.
type Status struct {
	State        State
	SkippedLines int
	Duplicates   int
}

// Parser extracts device records from one tool family's output.
type Parser interface {
	Kind() models.ToolKind
	Parse(raw []byte) ([]models.DeviceRecord, Status)
}

// Registry holds one parser per tool kind.
type Registry struct {
	parsers map[models.ToolKind]Parser
}

func NewRegistry(parsers ...Parser) *Registry {
	r := &Registry{parsers: make(map[models.ToolKind]Parser, len(parsers))}
	for _, p := range parsers {
		r.parsers[p.Kind()] = p
	}
	return r
}

// DefaultRegistry returns a registry with every built-in parser.
func DefaultRegistry() *Registry {
	return NewRegistry(NewLspciParser(), NewLshwParser(), NewNvidiaSMIParser())
}

func (r *Registry) Get(kind models.ToolKind) (Parser, error) {
	p, ok := r.parsers[kind]
	if !ok {
		return nil, errors.NewUnknownToolError(string(kind))
	}
	return p, nil
}

// statusFor derives the parse state from the record count and the
// skip/duplicate counters.
func statusFor(records int, skipped, duplicates int) Status {
	s := Status{SkippedLines: skipped, Duplicates: duplicates}
	switch {
	case records == 0:
		s.State = StateEmpty
	case skipped > 0 || duplicates > 0:
		s.State = StatePartial
	default:
		s.State = StateOK
	}
	return s
}

// dedupe keeps the last-seen record per identity key, preserving the
// position of the first occurrence, and reports how many were dropped.
func dedupe(records []models.DeviceRecord) ([]models.DeviceRecord, int) {
	index := make(map[string]int, len(records))
	out := make([]models.DeviceRecord, 0, len(records))
	duplicates := 0

	for _, r := range records {
		key := r.Key()
		if at, seen := index[key]; seen {
			out[at] = r
			duplicates++
			continue
		}
		index[key] = len(out)
		out = append(out, r)
	}

	return out, duplicates
}
