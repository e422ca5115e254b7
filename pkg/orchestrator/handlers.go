package orchestrator

import (
	"patent-scout-be/pkg/events"
	"patent-scout-be/pkg/state"
)

// registerHandlers binds the event vocabulary to state transitions. Events
// without a handler here (SEARCH_STARTED, SESSION_SAVED, ERROR_RAISED, ...)
// are observational: services and the sync layer subscribe to them, but
// they do not touch the tree.
func (rt *Runtime) registerHandlers() {
	s := rt.Session

	rt.Bus.On(events.LibrarySelected, func(e events.Event) {
		if lib, ok := payloadString(e, "library"); ok {
			s.SetLibrary(state.Library(lib))
		}
	})

	rt.Bus.On(events.MethodSelected, func(e events.Event) {
		if method, ok := payloadString(e, "method"); ok {
			s.SetMethod(state.MethodKind(method))
		}
	})

	rt.Bus.On(events.DescriptionUpdated, func(e events.Event) {
		value, _ := payloadString(e, "value")
		s.SetDescription(value, value != "")
	})

	rt.Bus.On(events.DescriptionImproveCompleted, func(e events.Event) {
		newValue, ok := payloadString(e, "newDescription")
		if !ok {
			return
		}
		summary, _ := payloadString(e, "modificationSummary")
		s.ApplyImprovedDescription(newValue, summary)
	})

	rt.Bus.On(events.KeywordsGenerateCompleted, func(e events.Event) {
		s.SetKeywords(payloadStringList(e, "keywords"))
	})

	rt.Bus.On(events.KeywordAdded, func(e events.Event) {
		if kw, ok := payloadString(e, "keyword"); ok {
			s.AddKeyword(kw)
		}
	})

	rt.Bus.On(events.KeywordRemoved, func(e events.Event) {
		// The remove affordance historically sends "item".
		kw, ok := payloadString(e, "item")
		if !ok {
			kw, ok = payloadString(e, "keyword")
		}
		if ok {
			s.RemoveKeyword(kw)
		}
	})

	rt.Bus.On(events.FilterAdded, rt.upsertFilterHandler)
	rt.Bus.On(events.FilterUpdated, rt.upsertFilterHandler)

	rt.Bus.On(events.FilterRemoved, func(e events.Event) {
		name, ok := payloadString(e, "name")
		if !ok {
			return
		}
		if clear, _ := e.Payload()["clear"].(bool); clear {
			s.ClearFilter(name)
			return
		}
		s.RemoveFilter(name)
	})

	rt.Bus.On(events.SearchPageNext, func(events.Event) {
		s.NextPage()
	})

	rt.Bus.On(events.SearchPagePrev, func(events.Event) {
		s.PrevPage()
	})

	rt.Bus.On(events.ResultSelected, func(e events.Event) {
		if index, ok := payloadInt(e, "index"); ok {
			s.SelectItem(index)
		}
	})
}

func (rt *Runtime) upsertFilterHandler(e events.Event) {
	name, ok := payloadString(e, "name")
	if !ok {
		return
	}
	filterType, _ := payloadString(e, "type")
	order, _ := payloadInt(e, "order")
	rt.Session.UpsertFilter(state.Filter{
		Name:  name,
		Order: order,
		Type:  filterType,
		Value: e.Payload()["value"],
	})
}

func payloadString(e events.Event, key string) (string, bool) {
	v, ok := e.Payload()[key].(string)
	return v, ok
}

func payloadInt(e events.Event, key string) (int, bool) {
	switch n := e.Payload()[key].(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

func payloadStringList(e events.Event, key string) []string {
	switch list := e.Payload()[key].(type) {
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
