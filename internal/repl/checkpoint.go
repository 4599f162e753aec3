package repl

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/funvibe/ruchy/internal/analyzer"
	"github.com/funvibe/ruchy/internal/evaluator"
	ts "github.com/funvibe/ruchy/internal/typesystem"
)

// snapshot is a deep copy of the session state. Its frame is sealed; it
// is copied again on restore, so one checkpoint can be restored any
// number of times.
type snapshot struct {
	env      *evaluator.Environment
	impls    map[string]*evaluator.TypeDescriptor
	typeEnv  *ts.TypeEnv
	analyzer *analyzer.AnalyzerProcessor
	oldest   int
	count    int
}

func (s *Session) snapshot() *snapshot {
	env, impls := evaluator.CloneState(s.env, s.ev.Impls)
	env.Seal()
	return &snapshot{
		env:      env,
		impls:    impls,
		typeEnv:  s.typeEnv.Clone(),
		analyzer: s.analyzer.Fork(),
		oldest:   s.oldest,
		count:    s.count,
	}
}

func (s *Session) apply(snap *snapshot) {
	s.env, s.ev.Impls = evaluator.CloneState(snap.env, snap.impls)
	s.typeEnv = snap.typeEnv.Clone()
	s.analyzer = snap.analyzer.Fork()
	s.oldest, s.count = snap.oldest, snap.count
}

// Checkpoint snapshots the bindings and returns the snapshot's id.
func (s *Session) Checkpoint() string {
	id := uuid.NewString()
	s.checkpoints[id] = s.snapshot()
	s.order = append(s.order, id)
	log.Debugf("checkpoint %s", id)
	return id
}

// Restore replaces the bindings with checkpoint id and returns to Normal.
func (s *Session) Restore(id string) error {
	snap, ok := s.checkpoints[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCheckpoint, id)
	}
	s.apply(snap)
	s.mode, s.pending = Normal, ""
	log.Debugf("restored %s", id)
	return nil
}

// Checkpoints returns the checkpoint ids, oldest first.
func (s *Session) Checkpoints() []string {
	return append([]string(nil), s.order...)
}

// lookupCheckpoint resolves a unique id prefix.
func (s *Session) lookupCheckpoint(prefix string) (string, error) {
	var match string
	for _, id := range s.order {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		if match != "" {
			return "", fmt.Errorf("checkpoint prefix %q is ambiguous", prefix)
		}
		match = id
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", ErrUnknownCheckpoint, prefix)
	}
	return match, nil
}
