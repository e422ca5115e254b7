package state

// totalPages derives the page count; nil results mean no search yet.
func totalPages(results []ResultItem, perPage int) int {
	if results == nil {
		return 0
	}
	if perPage <= 0 {
		perPage = defaultItemsPerPage
	}
	return (len(results) + perPage - 1) / perPage
}

// markReloadLocked flags the result set stale after a filter mutation.
// Must be called with s.mu held.
func (s *Session) markReloadLocked() {
	if s.SearchRan && s.Search.Results != nil {
		s.Search.ReloadRequired = true
	}
}

// BeginSearch increments and returns the search generation. Only the
// response carrying the latest generation may be applied, so a slow earlier
// request cannot overwrite a newer result set.
func (s *Session) BeginSearch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchGen++
	return s.searchGen
}

// ApplyResults installs a fresh result set if gen is still the latest
// generation. It reports whether the results were applied.
func (s *Session) ApplyResults(gen uint64, results []ResultItem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.searchGen {
		return false
	}
	if results == nil {
		results = []ResultItem{}
	}
	s.Search.Results = results
	s.Search.CurrentPage = 1
	s.Search.ActiveItem = 0
	s.Search.TotalPages = totalPages(results, s.Search.ItemsPerPage)
	s.Search.ReloadRequired = false
	s.SearchRan = true
	s.notify()
	return true
}

// SearchPatch is a partial update of the search subtree; nil fields are
// left untouched.
type SearchPatch struct {
	Results      *[]ResultItem
	CurrentPage  *int
	ActiveItem   *int
	ItemsPerPage *int
}

// UpdateSearchState merges a patch into the search subtree, recomputing
// TotalPages whenever results are present.
func (s *Session) UpdateSearchState(patch SearchPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if patch.Results != nil {
		s.Search.Results = *patch.Results
		s.SearchRan = s.SearchRan || s.Search.Results != nil
	}
	if patch.ItemsPerPage != nil && *patch.ItemsPerPage > 0 {
		s.Search.ItemsPerPage = *patch.ItemsPerPage
	}
	if patch.CurrentPage != nil {
		s.Search.CurrentPage = *patch.CurrentPage
	}
	if patch.ActiveItem != nil {
		s.Search.ActiveItem = *patch.ActiveItem
	}
	s.Search.TotalPages = totalPages(s.Search.Results, s.Search.ItemsPerPage)
	s.notify()
}

// NextPage advances one page, holding at the last page.
func (s *Session) NextPage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Search.CurrentPage >= s.Search.TotalPages {
		return
	}
	s.Search.CurrentPage++
	s.Search.ActiveItem = 0
	s.notify()
}

// PrevPage goes back one page, holding at the first page.
func (s *Session) PrevPage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Search.CurrentPage <= 1 {
		return
	}
	s.Search.CurrentPage--
	s.Search.ActiveItem = 0
	s.notify()
}

// SelectItem picks the active result on the current page. Out-of-range
// indexes are ignored.
func (s *Session) SelectItem(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.pageItemsLocked()) {
		return
	}
	s.Search.ActiveItem = index
	s.notify()
}

// SearchView is a consistent read of the paging fields together with the
// items visible on the current page.
type SearchView struct {
	CurrentPage int
	TotalPages  int
	ActiveItem  int
	Items       []ResultItem
}

// SearchView reads the paging state in one critical section. Callers
// outside the mutator path must use this instead of reading the Search
// fields directly; field reads race with concurrent mutations.
func (s *Session) SearchView() SearchView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SearchView{
		CurrentPage: s.Search.CurrentPage,
		TotalPages:  s.Search.TotalPages,
		ActiveItem:  s.Search.ActiveItem,
		Items:       s.pageItemsLocked(),
	}
}

// PageItems returns the slice of results visible on the current page.
func (s *Session) PageItems() []ResultItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageItemsLocked()
}

func (s *Session) pageItemsLocked() []ResultItem {
	if s.Search.Results == nil {
		return nil
	}
	perPage := s.Search.ItemsPerPage
	if perPage <= 0 {
		perPage = defaultItemsPerPage
	}
	start := (s.Search.CurrentPage - 1) * perPage
	if start < 0 || start >= len(s.Search.Results) {
		return nil
	}
	end := start + perPage
	if end > len(s.Search.Results) {
		end = len(s.Search.Results)
	}
	return s.Search.Results[start:end]
}
