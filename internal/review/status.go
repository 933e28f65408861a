package review

import (
	"cmp"
	"slices"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// StatusKind classifies a status message.
type StatusKind string

// Status kinds.
const (
	KindInfo    StatusKind = "info"
	KindSuccess StatusKind = "success"
	KindError   StatusKind = "error"
)

// Status is a transient message about a session operation.
type Status struct {
	ID        string     `json:"id"`
	Kind      StatusKind `json:"kind"`
	Text      string     `json:"text"`
	CreatedAt time.Time  `json:"created_at"`
	seq       uint64
}

// board keeps status messages until they expire.
type board struct {
	items *cache.Cache
	seq   atomic.Uint64
}

func newBoard(ttl time.Duration) *board {
	return &board{items: cache.New(ttl, 2*ttl)}
}

func (b *board) post(kind StatusKind, text string) Status {
	s := Status{
		ID:        uuid.NewString(),
		Kind:      kind,
		Text:      text,
		CreatedAt: time.Now(),
		seq:       b.seq.Add(1),
	}
	b.items.Set(s.ID, s, cache.DefaultExpiration)
	return s
}

// list returns unexpired messages, oldest first.
func (b *board) list() []Status {
	items := b.items.Items()

	out := make([]Status, 0, len(items))
	for _, item := range items {
		if s, ok := item.Object.(Status); ok {
			out = append(out, s)
		}
	}

	slices.SortFunc(out, func(a, b Status) int {
		return cmp.Compare(a.seq, b.seq)
	})
	return out
}
