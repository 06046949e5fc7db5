package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func newTestRunner(searcher *fakeSearcher, store *fakeStore, gen *fakeGenerator, cooldown time.Duration) *Runner {
	r := NewRunner(caRegion(), searcher, &fakeEnricher{}, store, gen, cooldown)
	r.now = fixedNow
	return r
}

func setMetadata(store *fakeStore, lastRun time.Time, summary string) {
	store.cells[cellKey("Metadata CA", metadataRow, metadataTimeCol)] = lastRun.Format(metadataTimeLayout)
	store.cells[cellKey("Metadata CA", metadataRow, metadataSummaryCol)] = summary
}

func TestRunnerFirstRunExecutes(t *testing.T) {
	searcher := &fakeSearcher{}
	store := newFakeStore()
	gen := &fakeGenerator{response: "fresh briefing"}

	runner := newTestRunner(searcher, store, gen, 3*time.Hour)
	result, err := runner.Run(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}

	if result.Cached {
		t.Error("First run should not be cached")
	}
	if result.Summary != "fresh briefing" {
		t.Errorf("Expected fresh briefing, got '%s'", result.Summary)
	}
	if !result.LastRun.Equal(fixedNow()) {
		t.Errorf("Expected LastRun %v, got %v", fixedNow(), result.LastRun)
	}

	stamp := store.cells[cellKey("Metadata CA", metadataRow, metadataTimeCol)]
	if stamp != fixedNow().Format(metadataTimeLayout) {
		t.Errorf("Expected metadata timestamp '%s', got '%s'", fixedNow().Format(metadataTimeLayout), stamp)
	}
	summary := store.cells[cellKey("Metadata CA", metadataRow, metadataSummaryCol)]
	if summary != "fresh briefing" {
		t.Errorf("Expected metadata summary stored, got '%s'", summary)
	}
}

func TestRunnerInsideCooldownReturnsCached(t *testing.T) {
	searcher := &fakeSearcher{}
	store := newFakeStore()
	gen := &fakeGenerator{response: "should not be generated"}

	lastRun := fixedNow().Add(-1 * time.Hour)
	setMetadata(store, lastRun, "cached briefing")

	runner := newTestRunner(searcher, store, gen, 3*time.Hour)
	result, err := runner.Run(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}

	if !result.Cached {
		t.Error("Expected cached result inside cooldown window")
	}
	if result.Summary != "cached briefing" {
		t.Errorf("Expected stored summary, got '%s'", result.Summary)
	}
	if searcher.fetchCalls != 0 {
		t.Errorf("Expected no fetches inside cooldown, got %d", searcher.fetchCalls)
	}
	if len(gen.prompts) != 0 {
		t.Errorf("Expected no generation inside cooldown, got %d calls", len(gen.prompts))
	}
}

func TestRunnerOutsideCooldownRuns(t *testing.T) {
	searcher := &fakeSearcher{}
	store := newFakeStore()
	gen := &fakeGenerator{response: "new briefing"}

	setMetadata(store, fixedNow().Add(-4*time.Hour), "stale briefing")

	runner := newTestRunner(searcher, store, gen, 3*time.Hour)
	result, err := runner.Run(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}

	if result.Cached {
		t.Error("Expected a fresh run once the window has passed")
	}
	if result.Summary != "new briefing" {
		t.Errorf("Expected new briefing, got '%s'", result.Summary)
	}
}

func TestRunnerCooldownOverride(t *testing.T) {
	searcher := &fakeSearcher{}
	store := newFakeStore()
	gen := &fakeGenerator{response: "override briefing"}

	setMetadata(store, fixedNow().Add(-1*time.Hour), "cached briefing")

	runner := newTestRunner(searcher, store, gen, 3*time.Hour)

	// A shorter override lets the run through
	result, err := runner.Run(context.Background(), 30*time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if result.Cached {
		t.Error("Expected override to bypass the configured cooldown")
	}

	// A non-positive override keeps the configured cooldown
	setMetadata(store, fixedNow().Add(-1*time.Hour), "cached briefing")
	result, err = runner.Run(context.Background(), -1)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Cached {
		t.Error("Expected negative override to keep the configured cooldown")
	}
}

func TestRunnerFailureDoesNotAdvanceMetadata(t *testing.T) {
	searcher := &fakeSearcher{newsErr: errors.New("serpapi down")}
	store := newFakeStore()
	gen := &fakeGenerator{response: "unreachable"}

	lastRun := fixedNow().Add(-5 * time.Hour)
	setMetadata(store, lastRun, "old briefing")

	runner := newTestRunner(searcher, store, gen, 3*time.Hour)
	_, err := runner.Run(context.Background(), 0)
	if err == nil {
		t.Fatal("Expected error, got nil")
	}

	stamp := store.cells[cellKey("Metadata CA", metadataRow, metadataTimeCol)]
	if stamp != lastRun.Format(metadataTimeLayout) {
		t.Errorf("Metadata must not advance on failure, got '%s'", stamp)
	}
	summary := store.cells[cellKey("Metadata CA", metadataRow, metadataSummaryCol)]
	if summary != "old briefing" {
		t.Errorf("Stored summary must not change on failure, got '%s'", summary)
	}
}

func TestRunnerMalformedTimestampRuns(t *testing.T) {
	searcher := &fakeSearcher{}
	store := newFakeStore()
	gen := &fakeGenerator{response: "recovered briefing"}

	store.cells[cellKey("Metadata CA", metadataRow, metadataTimeCol)] = "yesterday-ish"
	store.cells[cellKey("Metadata CA", metadataRow, metadataSummaryCol)] = "old briefing"

	runner := newTestRunner(searcher, store, gen, 3*time.Hour)
	result, err := runner.Run(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}

	if result.Cached {
		t.Error("A malformed timestamp should be treated as never run")
	}
	if result.Summary != "recovered briefing" {
		t.Errorf("Expected fresh briefing, got '%s'", result.Summary)
	}
}

func TestRunnerConcurrentTriggersSingleRun(t *testing.T) {
	searcher := &fakeSearcher{}
	store := newFakeStore()
	gen := &fakeGenerator{response: "single briefing"}

	runner := newTestRunner(searcher, store, gen, 3*time.Hour)

	var wg sync.WaitGroup
	results := make([]Result, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = runner.Run(context.Background(), 0)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("Run %d failed: %v", i, err)
		}
	}

	if len(gen.prompts) != 1 {
		t.Fatalf("Expected exactly one pipeline execution, got %d", len(gen.prompts))
	}
	cached := 0
	for _, res := range results {
		if res.Summary != "single briefing" {
			t.Errorf("Expected both callers to get the briefing, got '%s'", res.Summary)
		}
		if res.Cached {
			cached++
		}
	}
	if cached != 1 {
		t.Errorf("Expected exactly one caller to get the cached result, got %d", cached)
	}
}

func TestRunnerLast(t *testing.T) {
	store := newFakeStore()
	lastRun := fixedNow().Add(-2 * time.Hour)
	setMetadata(store, lastRun, "last briefing")

	runner := newTestRunner(&fakeSearcher{}, store, &fakeGenerator{}, 3*time.Hour)
	result, err := runner.Last(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if !result.Cached {
		t.Error("Last should report the stored state as cached")
	}
	if result.Summary != "last briefing" {
		t.Errorf("Expected stored summary, got '%s'", result.Summary)
	}
	if !result.LastRun.Equal(lastRun) {
		t.Errorf("Expected LastRun %v, got %v", lastRun, result.LastRun)
	}
	if !strings.Contains(result.LastRun.Format(metadataTimeLayout), "12:30:00") {
		t.Errorf("Unexpected stored timestamp %v", result.LastRun)
	}
}
