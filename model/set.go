package model

// Set is the output of one Compile call: records keyed by identity, in the
// order they were completed (nested records before their parents, then the
// root and the wrapper).
type Set struct {
	Root   string // root path segment, for example "person"
	Policy Policy

	keys    []string
	records map[string]*Record
}

func newSet(root string, p Policy) *Set {
	return &Set{Root: root, Policy: p, records: map[string]*Record{}}
}

// add registers r under its key unless the key is taken; the first record wins.
func (s *Set) add(r *Record) bool {
	if _, ok := s.records[r.Key]; ok {
		return false
	}
	s.records[r.Key] = r
	s.keys = append(s.keys, r.Key)
	return true
}

// Get returns the record registered under key.
func (s *Set) Get(key string) (*Record, bool) {
	if s == nil {
		return nil, false
	}
	r, ok := s.records[key]
	return r, ok
}

// Keys returns record keys in completion order.
func (s *Set) Keys() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.keys...)
}

// Records returns records in completion order.
func (s *Set) Records() []*Record {
	if s == nil {
		return nil
	}
	out := make([]*Record, 0, len(s.keys))
	for _, k := range s.keys {
		out = append(out, s.records[k])
	}
	return out
}

// Len reports the number of records, wrapper included.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// RootRecord returns the record of the root entity.
func (s *Set) RootRecord() (*Record, bool) { return s.Get(s.rootKey()) }

// Wrapper returns the synthetic wrapper record.
func (s *Set) Wrapper() (*Record, bool) { return s.Get(WrapperKey(s.rootKey())) }

func (s *Set) rootKey() string {
	if s == nil {
		return ""
	}
	return s.Root
}
