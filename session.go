package treelate

import (
	"context"
	"reflect"
	"sync"
)

// State describes the lifecycle of a Session's current translation.
type State int

const (
	// StateIdle means no translation has been requested yet.
	StateIdle State = iota
	// StateLoading means a translation is in flight.
	StateLoading
	// StateSuccess means Result holds the rebuilt tree.
	StateSuccess
	// StateError means the last translation failed as a whole. The error
	// state fully replaces any previously rendered output.
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Session drives a TreeTranslator reactively. Refresh retriggers only
// when the input tree or target language changes by identity, making
// repeated renders of the same tree a cheap fast path. After Close,
// results from in-flight translations are discarded; the requests
// themselves are not aborted.
type Session struct {
	tt *TreeTranslator

	mu       sync.Mutex
	state    State
	lastRoot Node
	lastLang string
	result   Node
	err      error
	closed   bool
	gen      uint64
}

// NewSession creates an idle Session over the given TreeTranslator.
func NewSession(tt *TreeTranslator) *Session {
	return &Session{tt: tt}
}

// Refresh starts a translation of root into lang if the inputs differ
// from the previous call. The returned channel closes when this refresh
// settles (including when its result is discarded); a no-op refresh
// returns an already-closed channel.
//
// The change check compares the root by identity, not structure: a tree
// mutated in place will not retrigger. Loading state is entered
// synchronously.
func (s *Session) Refresh(ctx context.Context, root Node, lang string) <-chan struct{} {
	s.mu.Lock()
	if s.closed || (s.state != StateIdle && sameNode(root, s.lastRoot) && lang == s.lastLang) {
		s.mu.Unlock()
		done := make(chan struct{})
		close(done)
		return done
	}

	s.lastRoot = root
	s.lastLang = lang
	s.state = StateLoading
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		res, err := s.tt.Translate(ctx, root, lang)

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed || s.gen != gen {
			// Unmounted or superseded; drop the result.
			return
		}
		if err != nil {
			s.state = StateError
			s.err = err
			s.result = nil
			return
		}
		s.state = StateSuccess
		s.err = nil
		s.result = res.Root
	}()
	return done
}

// sameNode reports whether two roots are the same node by identity.
// Opaque nodes can carry uncomparable values (maps, slices), so the
// comparison is guarded; an uncomparable root always reads as changed.
func sameNode(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if !reflect.ValueOf(a).Comparable() || !reflect.ValueOf(b).Comparable() {
		return false
	}
	return a == b
}

// Close marks the session unmounted. Subsequent refreshes are no-ops and
// in-flight results are discarded.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Result returns the last successfully rebuilt tree, or nil.
func (s *Session) Result() Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Err returns the error of the last failed translation, or nil.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
