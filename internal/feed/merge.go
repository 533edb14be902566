package feed

import (
	"github.com/google/uuid"

	"github.com/Makepad-fr/talentlink/internal/model"
)

// dedupe copies items keeping the first occurrence of every key.
func dedupe[T model.Item](items []T) []T {
	seen := make(map[int64]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.Key()]; ok {
			continue
		}
		seen[it.Key()] = struct{}{}
		out = append(out, it)
	}
	return out
}

func keys[T model.Item](items []T) map[int64]struct{} {
	m := make(map[int64]struct{}, len(items))
	for _, it := range items {
		m[it.Key()] = struct{}{}
	}
	return m
}

// sequence tracks which snapshots a reconciler has already applied. A
// snapshot from a different poller starts a new sequence.
type sequence struct {
	applied bool
	source  uuid.UUID
	last    uint64
}

// fresh reports whether the snapshot is newer than everything applied so far
// from its poller and, if so, records it.
func (s *sequence) fresh(source uuid.UUID, seq uint64) bool {
	if s.applied && source == s.source && seq <= s.last {
		return false
	}
	s.applied = true
	s.source = source
	s.last = seq
	return true
}
