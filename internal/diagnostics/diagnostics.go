// Package diagnostics implements the error-handling policy shared by every
// fallible step of the application loader. A Handler is constructed once per
// load in either strict or report mode: strict aborts on the first problem,
// report records one message per failing file and lets the load continue with
// a fallback value.
package diagnostics

import (
	"fmt"
	"sort"
	"sync"
)

// Kind classifies a loader problem.
type Kind int

const (
	KindNotFound Kind = iota
	KindDecode
	KindSchema
	KindUnknownType
	KindRoleConflict
	KindEntryPointMissing
	KindInstanceValidation
)

// String returns a short identifier for the kind, used in error output.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not-found"
	case KindDecode:
		return "decode"
	case KindSchema:
		return "schema"
	case KindUnknownType:
		return "unknown-type"
	case KindRoleConflict:
		return "role-conflict"
	case KindEntryPointMissing:
		return "entry-point-missing"
	case KindInstanceValidation:
		return "instance-validation"
	}
	return "unknown"
}

// Error is a classified loader problem tied to a source file.
type Error struct {
	Kind    Kind
	Path    string
	Message string
}

func (e *Error) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// NewError builds a classified error that bypasses the strict/report fork.
// Used for faults that must abort regardless of mode.
func NewError(kind Kind, path, message string) *Error {
	return &Error{Kind: kind, Path: path, Message: message}
}

// ErrorSet maps a source file path to the diagnostic recorded for it.
// Each path holds exactly one message; a later write replaces the earlier one.
type ErrorSet map[string]string

// IsEmpty reports whether no diagnostics were recorded.
func (s ErrorSet) IsEmpty() bool { return len(s) == 0 }

// Paths returns the recorded paths in sorted order.
func (s ErrorSet) Paths() []string {
	paths := make([]string, 0, len(s))
	for p := range s {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Mode selects how a Handler reacts to problems.
type Mode int

const (
	// Strict aborts the load on the first problem.
	Strict Mode = iota
	// Report records problems and continues with fallback values.
	Report
)

// Handler applies the strict/report policy. It is safe for concurrent use:
// resolvers fan out one goroutine per configuration file and all of them
// report through the same handler.
type Handler struct {
	mode Mode

	mu  sync.Mutex
	set ErrorSet
}

// NewHandler returns a handler fixed to the given mode for its lifetime.
func NewHandler(mode Mode) *Handler {
	return &Handler{mode: mode, set: make(ErrorSet)}
}

// Mode returns the mode the handler was constructed with.
func (h *Handler) Mode() Mode { return h.mode }

// Problem routes one problem through the policy. In strict mode it returns a
// classified error and the caller must abort. In report mode it records the
// message under path and returns nil; the caller proceeds with its fallback.
func (h *Handler) Problem(kind Kind, path, message string) error {
	if h.mode == Strict {
		return &Error{Kind: kind, Path: path, Message: message}
	}
	h.mu.Lock()
	h.set[path] = message
	h.mu.Unlock()
	return nil
}

// Errors returns a copy of the accumulated diagnostics.
func (h *Handler) Errors() ErrorSet {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make(ErrorSet, len(h.set))
	for k, v := range h.set {
		out[k] = v
	}
	return out
}
