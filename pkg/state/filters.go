package state

// Filter is a named, ordered, typed search criterion. Name is unique within
// a session; Order drives both display and backend-query sequencing.
type Filter struct {
	Name  string      `json:"name"`
	Order int         `json:"order"`
	Type  string      `json:"type,omitempty"`
	Value interface{} `json:"value"`
}

// Well-known filter names.
const (
	FilterKeywordsInclude = "keywords-include"
	FilterKeywordsExclude = "keywords-exclude"
	FilterCodes           = "codes"
	FilterInventors       = "inventors"
	FilterAssignees       = "assignees"
	FilterDateRange       = "date-range"
)

// UpsertFilter adds a filter or, when one with the same name already exists,
// updates it in place. The uniqueness invariant is enforced here and nowhere
// else; callers never touch the slice directly. Adding a filter after results
// exist marks the search stale.
func (s *Session) UpsertFilter(f Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsertFilterLocked(f)
	s.markReloadLocked()
	s.notify()
}

func (s *Session) upsertFilterLocked(f Filter) {
	for i := range s.Filters {
		if s.Filters[i].Name == f.Name {
			s.Filters[i].Value = f.Value
			if f.Type != "" {
				s.Filters[i].Type = f.Type
			}
			if f.Order > 0 {
				s.Filters[i].Order = f.Order
			}
			return
		}
	}
	if f.Order <= 0 {
		f.Order = s.nextFilterOrderLocked()
	}
	s.Filters = append(s.Filters, f)
}

func (s *Session) nextFilterOrderLocked() int {
	max := 0
	for _, f := range s.Filters {
		if f.Order > max {
			max = f.Order
		}
	}
	return max + 1
}

// RemoveFilter drops the filter entirely.
func (s *Session) RemoveFilter(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Filters {
		if s.Filters[i].Name == name {
			s.Filters = append(s.Filters[:i:i], s.Filters[i+1:]...)
			s.markReloadLocked()
			s.notify()
			return
		}
	}
}

// ClearFilter empties a list-valued filter, keeping the entry and its order.
func (s *Session) ClearFilter(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Filters {
		if s.Filters[i].Name == name {
			s.Filters[i].Value = []string{}
			s.markReloadLocked()
			s.notify()
			return
		}
	}
}

// Filter returns a copy of the named filter.
func (s *Session) Filter(name string) (Filter, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.Filters {
		if f.Name == name {
			return f, true
		}
	}
	return Filter{}, false
}

// SortedFilters returns the filters ordered by their Order field, the
// sequence the upstream query is built in.
func (s *Session) SortedFilters() []Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Filter, len(s.Filters))
	copy(out, s.Filters)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Order < out[j-1].Order; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// AddKeyword appends a keyword to the include list, creating the filter on
// first use. Duplicate keywords are ignored.
func (s *Session) AddKeyword(keyword string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.keywordListLocked()
	for _, kw := range list {
		if kw == keyword {
			return
		}
	}
	s.upsertFilterLocked(Filter{
		Name:  FilterKeywordsInclude,
		Type:  "keywords",
		Value: append(list, keyword),
	})
	s.markReloadLocked()
	s.notify()
}

// RemoveKeyword deletes one keyword; the filter entry stays even when the
// list becomes empty.
func (s *Session) RemoveKeyword(keyword string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.keywordListLocked()
	next := make([]string, 0, len(list))
	for _, kw := range list {
		if kw != keyword {
			next = append(next, kw)
		}
	}
	s.upsertFilterLocked(Filter{
		Name:  FilterKeywordsInclude,
		Type:  "keywords",
		Value: next,
	})
	s.markReloadLocked()
	s.notify()
}

// SetKeywords replaces the include list wholesale (generation results).
func (s *Session) SetKeywords(keywords []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if keywords == nil {
		keywords = []string{}
	}
	s.upsertFilterLocked(Filter{
		Name:  FilterKeywordsInclude,
		Type:  "keywords",
		Value: keywords,
	})
	s.markReloadLocked()
	s.notify()
}

// Keywords returns the current include list.
func (s *Session) Keywords() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keywordListLocked()
}

func (s *Session) keywordListLocked() []string {
	for _, f := range s.Filters {
		if f.Name == FilterKeywordsInclude {
			return toStringList(f.Value)
		}
	}
	return nil
}

// toStringList tolerates both []string (in-process) and []interface{}
// (post-JSON round trip) filter values.
func toStringList(v interface{}) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
