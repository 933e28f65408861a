package review

import (
	"sync"

	"github.com/google/uuid"
)

// store holds session history keyed by record key. Every mutation replaces
// the whole Record value under the lock and readers receive copies.
type store struct {
	mu      sync.RWMutex
	records map[uuid.UUID]Record
	order   []uuid.UUID
	latest  map[string]uuid.UUID
	batch   []uuid.UUID
	info    *BatchInfo
}

func newStore() *store {
	return &store{
		records: make(map[uuid.UUID]Record),
		latest:  make(map[string]uuid.UUID),
	}
}

// load appends recs to history and makes them the current batch in one step.
func (s *store) load(info *BatchInfo, recs []Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch := make([]uuid.UUID, 0, len(recs))
	for _, r := range recs {
		s.records[r.Key] = r
		s.order = append(s.order, r.Key)
		s.latest[r.ID] = r.Key
		batch = append(batch, r.Key)
	}

	s.batch = batch
	s.info = info
}

// clearBatch drops the current batch reference. History is untouched.
func (s *store) clearBatch() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.batch = nil
	s.info = nil
}

// resolve finds the record key for id, which is either a record key or an
// image id. Image ids resolve to the most recently fetched record.
func (s *store) resolve(id string) (uuid.UUID, bool) {
	if key, err := uuid.Parse(id); err == nil {
		if _, ok := s.records[key]; ok {
			return key, true
		}
	}
	key, ok := s.latest[id]
	return key, ok
}

// update applies fn to the record resolved from id and stores the result
// when fn reports a change.
func (s *store) update(id string, fn func(Record) (Record, bool)) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, ok := s.resolve(id)
	if !ok {
		return Record{}, false
	}

	next, changed := fn(s.records[key])
	if changed {
		s.records[key] = next
	}
	return next, true
}

// merge replaces the record stored under key. Records dropped from the batch
// view still receive late analysis results.
func (s *store) merge(key uuid.UUID, fn func(Record) Record) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok {
		return Record{}, false
	}

	rec = fn(rec)
	s.records[key] = rec
	return rec, true
}

func (s *store) find(id string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key, ok := s.resolve(id)
	if !ok {
		return Record{}, false
	}
	return s.records[key], true
}

func (s *store) view() BatchView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	view := BatchView{Records: make([]Record, 0, len(s.batch))}
	if s.info != nil {
		info := *s.info
		view.Info = &info
	}
	for _, key := range s.batch {
		view.Records = append(view.Records, s.records[key])
	}
	return view
}

func (s *store) history() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.records[key])
	}
	return out
}

type counts struct {
	history   int
	batch     int
	analyzing int
	reviewed  int
}

func (s *store) counts() counts {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := counts{history: len(s.order), batch: len(s.batch)}
	for _, r := range s.records {
		if r.Analyzing() {
			c.analyzing++
		}
		if r.Reviewed() {
			c.reviewed++
		}
	}
	return c
}
