package state

import "fmt"

// ErrUnknownPath rejects writes to paths outside the state schema. The
// dotted-path API deliberately refuses to create nested structure that the
// typed tree does not declare.
type ErrUnknownPath struct {
	Path string
}

func (e ErrUnknownPath) Error() string {
	return fmt.Sprintf("state: unknown path %q", e.Path)
}

// Set writes a value at a dotted path from the closed set of known leaf
// paths. It exists for generic event payloads; typed setters are preferred.
func (s *Session) Set(path string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch path {
	case "library":
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("state: path %q expects string, got %T", path, value)
		}
		s.Library = Library(v)
	case "method.selected":
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("state: path %q expects string, got %T", path, value)
		}
		s.Method.Selected = MethodKind(v)
	case "method.searchValue":
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("state: path %q expects string, got %T", path, value)
		}
		s.Method.SearchValue = v
	case "method.validated":
		v, ok := value.(bool)
		if !ok {
			return fmt.Errorf("state: path %q expects bool, got %T", path, value)
		}
		s.Method.Validated = v
	case "method.description.value":
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("state: path %q expects string, got %T", path, value)
		}
		s.Method.Description.PreviousValue = s.Method.Description.Value
		s.Method.Description.Value = v
	case "method.description.isValid":
		v, ok := value.(bool)
		if !ok {
			return fmt.Errorf("state: path %q expects bool, got %T", path, value)
		}
		s.Method.Description.IsValid = v
	case "search.active_item":
		v, ok := toInt(value)
		if !ok {
			return fmt.Errorf("state: path %q expects int, got %T", path, value)
		}
		s.Search.ActiveItem = v
	case "search.items_per_page":
		v, ok := toInt(value)
		if !ok || v <= 0 {
			return fmt.Errorf("state: path %q expects positive int, got %v", path, value)
		}
		s.Search.ItemsPerPage = v
		s.Search.TotalPages = totalPages(s.Search.Results, v)
	default:
		return ErrUnknownPath{Path: path}
	}

	s.notify()
	return nil
}

// toInt accepts int and float64, the two numeric shapes JSON decoding
// produces.
func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
