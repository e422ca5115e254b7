// Command simulate walks a search session through its whole event flow
// in-process: library and method selection, keyword generation, filters,
// pagination. Useful for eyeballing the state tree after each step without
// a running server.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"patent-scout-be/pkg/debounce"
	"patent-scout-be/pkg/events"
	"patent-scout-be/pkg/orchestrator"
	"patent-scout-be/pkg/state"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

func main() {
	color.Cyan("🚀 Session event flow simulation\n")

	busLog := log.New(os.Stdout, "", log.LstdFlags)
	rt := orchestrator.NewRuntime("", busLog)

	saves := 0
	saver := debounce.New[struct{}](300*time.Millisecond, func(sessionID string, _ struct{}) {
		saves++
		color.Green("[autosave] flushed save #%d for %s", saves, sessionID)
	})
	rt.Session.OnChange(func(sessionID string, snapshot []byte) {
		saver.Trigger(sessionID, struct{}{})
	})

	step := func(label, eventType string, payload map[string]interface{}) {
		color.Yellow("\n[STEP] %s", label)
		rt.Emit(eventType, payload)
		dump(rt)
	}

	step("Select library", events.LibrarySelected, map[string]interface{}{"library": "patents"})
	step("Select method", events.MethodSelected, map[string]interface{}{"method": "descriptive"})
	step("Describe the invention", events.DescriptionUpdated, map[string]interface{}{
		"value": "A drone that recharges from power lines",
	})
	step("Apply generated keywords", events.KeywordsGenerateCompleted, map[string]interface{}{
		"keywords": []string{"drone", "inductive charging", "power line"},
	})
	step("Add a keyword", events.KeywordAdded, map[string]interface{}{"keyword": "uav"})
	step("Add assignee filter", events.FilterAdded, map[string]interface{}{
		"name": "assignee", "type": "list", "value": []string{"Boston Dynamics"},
	})
	step("Remove a keyword", events.KeywordRemoved, map[string]interface{}{"item": "drone"})

	// Search result application bypasses the bus; fake a page of results.
	gen := rt.Session.BeginSearch()
	results := fakeResults(25)
	if rt.Session.ApplyResults(gen, results) {
		color.Green("\n[SEARCH] %d results applied", len(results))
	}

	step("Next page", events.SearchPageNext, nil)
	step("Select third item", events.ResultSelected, map[string]interface{}{"index": 2})
	step("Previous page", events.SearchPagePrev, nil)

	// Let the debouncer flush the trailing save.
	time.Sleep(500 * time.Millisecond)
	color.Cyan("\nDone. %d debounced saves for %d events.", saves, 10)
}

func dump(rt *orchestrator.Runtime) {
	snapshot, err := rt.Session.Snapshot()
	if err != nil {
		color.Red("snapshot failed: %v", err)
		return
	}
	var pretty map[string]interface{}
	_ = json.Unmarshal(snapshot, &pretty)
	out, _ := json.MarshalIndent(map[string]interface{}{
		"library": pretty["library"],
		"method":  pretty["method"],
		"filters": pretty["filters"],
		"search":  pretty["search"],
	}, "", "  ")
	color.White("%s", out)
}

func fakeResults(n int) []state.ResultItem {
	items := make([]state.ResultItem, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, state.ResultItem{
			ID:    uuid.NewString(),
			Title: fmt.Sprintf("Patent %02d", i+1),
			Score: 1.0 - float64(i)*0.02,
		})
	}
	return items
}
