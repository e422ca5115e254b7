package state

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

// Library identifies which record corpus a session searches.
type Library string

const (
	LibraryPatents Library = "patents"
	LibraryTTO     Library = "tto"
)

// MethodKind is how the user describes what they are looking for.
type MethodKind string

const (
	MethodBasic       MethodKind = "basic"
	MethodDescriptive MethodKind = "descriptive"
	MethodPatent      MethodKind = "patent"
)

// Description holds the free-text invention description and the bookkeeping
// around AI-assisted rewriting of it.
type Description struct {
	Value               string `json:"value"`
	PreviousValue       string `json:"previousValue"`
	IsValid             bool   `json:"isValid"`
	Improved            bool   `json:"improved"`
	ModificationSummary string `json:"modificationSummary"`
}

// Method captures the selected search method and its inputs.
type Method struct {
	Selected    MethodKind             `json:"selected"`
	Description Description            `json:"description"`
	Patent      map[string]interface{} `json:"patent"`
	SearchValue string                 `json:"searchValue"`
	Validated   bool                   `json:"validated"`
}

// ResultItem is one row returned by the upstream search API. The backend
// treats result documents as mostly opaque; only the fields the session
// logic needs are typed.
type ResultItem struct {
	ID                string                 `json:"id"`
	Title             string                 `json:"title"`
	Abstract          string                 `json:"abstract,omitempty"`
	Assignee          string                 `json:"assignee,omitempty"`
	PublicationNumber string                 `json:"publication_number,omitempty"`
	Date              string                 `json:"date,omitempty"`
	Score             float64                `json:"score,omitempty"`
	Extra             map[string]interface{} `json:"extra,omitempty"`
}

// SearchState is the result-view portion of a session. Results == nil means
// no search has ever completed.
type SearchState struct {
	Results        []ResultItem `json:"results"`
	CurrentPage    int          `json:"current_page"`
	TotalPages     int          `json:"total_pages"`
	ActiveItem     int          `json:"active_item"`
	ItemsPerPage   int          `json:"items_per_page"`
	ReloadRequired bool         `json:"reload_required"`
}

const defaultItemsPerPage = 10

// ChangeFunc observes a session after each mutation, receiving the
// serialized state tree. It runs synchronously on the mutating goroutine.
type ChangeFunc func(sessionID string, snapshot []byte)

// Session is the single mutable state tree behind one search session.
// All exported mutators serialize through an internal lock; there are no
// consistency guarantees beyond last-write-wins on each field.
type Session struct {
	ID        string      `json:"id"`
	Library   Library     `json:"library"`
	Method    Method      `json:"method"`
	Filters   []Filter    `json:"filters"`
	Search    SearchState `json:"search"`
	SearchRan bool        `json:"searchRan"`

	mu        sync.Mutex
	onChange  ChangeFunc
	searchGen uint64
}

// New returns a session with default (empty) state.
func New(id string) *Session {
	if id == "" {
		id = NewID()
	}
	return &Session{
		ID:      id,
		Filters: []Filter{},
		Search: SearchState{
			ItemsPerPage: defaultItemsPerPage,
			CurrentPage:  1,
		},
	}
}

// NewID returns an opaque session/fingerprint identifier (UUID v4).
func NewID() string {
	return uuid.NewString()
}

// OnChange registers the observer invoked after every mutation.
func (s *Session) OnChange(fn ChangeFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// notify must be called with s.mu held.
func (s *Session) notify() {
	if s.onChange == nil {
		return
	}
	data, err := json.Marshal(s)
	if err != nil {
		return
	}
	s.onChange(s.ID, data)
}

// QueryView is a consistent read of the inputs a search request is built
// from. Description is populated only for the descriptive method.
type QueryView struct {
	Library     Library
	Method      MethodKind
	SearchValue string
	Description string
}

// QueryView reads the query inputs in one critical section.
func (s *Session) QueryView() QueryView {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := QueryView{
		Library:     s.Library,
		Method:      s.Method.Selected,
		SearchValue: s.Method.SearchValue,
	}
	if s.Method.Selected == MethodDescriptive {
		v.Description = s.Method.Description.Value
	}
	return v
}

// Snapshot serializes the current state under the session lock.
func (s *Session) Snapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.Marshal(s)
}

// Load replaces the whole tree with a persisted snapshot. The search subtree
// is defensively defaulted: a zero ItemsPerPage falls back to the default,
// TotalPages is recomputed from Results, and SearchRan is derived from
// whether results were ever populated.
func (s *Session) Load(raw []byte) error {
	var doc struct {
		Library   Library     `json:"library"`
		Method    Method      `json:"method"`
		Filters   []Filter    `json:"filters"`
		Search    SearchState `json:"search"`
		SearchRan bool        `json:"searchRan"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.Library = doc.Library
	s.Method = doc.Method
	s.Filters = doc.Filters
	if s.Filters == nil {
		s.Filters = []Filter{}
	}
	s.Search = doc.Search
	if s.Search.ItemsPerPage <= 0 {
		s.Search.ItemsPerPage = defaultItemsPerPage
	}
	if s.Search.CurrentPage <= 0 {
		s.Search.CurrentPage = 1
	}
	s.Search.TotalPages = totalPages(s.Search.Results, s.Search.ItemsPerPage)
	s.SearchRan = doc.SearchRan || s.Search.Results != nil

	s.notify()
	return nil
}

// SetLibrary selects the record corpus.
func (s *Session) SetLibrary(lib Library) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Library = lib
	s.notify()
}

// SetMethod selects the search method.
func (s *Session) SetMethod(kind MethodKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Method.Selected = kind
	s.notify()
}

// SetDescription updates the invention description, retaining the previous
// value so an improvement can be rolled back client-side.
func (s *Session) SetDescription(value string, valid bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Method.Description.PreviousValue = s.Method.Description.Value
	s.Method.Description.Value = value
	s.Method.Description.IsValid = valid
	s.Method.Description.Improved = false
	s.Method.Description.ModificationSummary = ""
	s.notify()
}

// ApplyImprovedDescription records the AI-rewritten description.
func (s *Session) ApplyImprovedDescription(newValue, summary string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Method.Description.PreviousValue = s.Method.Description.Value
	s.Method.Description.Value = newValue
	s.Method.Description.Improved = true
	s.Method.Description.ModificationSummary = summary
	s.Method.Description.IsValid = newValue != ""
	s.notify()
}

// SetSearchValue stores the raw query text for the basic method.
func (s *Session) SetSearchValue(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Method.SearchValue = value
	s.notify()
}

// SetValidated marks the method step complete.
func (s *Session) SetValidated(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Method.Validated = v
	s.notify()
}

// SetPatent attaches the looked-up patent document for the patent method.
func (s *Session) SetPatent(data map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Method.Patent = data
	s.notify()
}
