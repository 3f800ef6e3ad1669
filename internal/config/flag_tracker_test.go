package config

import (
	"sync"
	"testing"
)

func TestFlagTrackerSetAndWasSet(t *testing.T) {
	ft := NewFlagTracker()

	if ft.WasSet("workers") {
		t.Error("Fresh tracker should report no flags set")
	}

	ft.Set("workers")
	if !ft.WasSet("workers") {
		t.Error("Expected workers to be reported as set")
	}
	if ft.WasSet("batch-size") {
		t.Error("Unset flag should not be reported as set")
	}
}

func TestFlagTrackerWithFlagsCopiesInput(t *testing.T) {
	initial := map[string]bool{"format": true}
	ft := NewFlagTrackerWithFlags(initial)

	initial["format"] = false
	if !ft.WasSet("format") {
		t.Error("Tracker should not share the caller's map")
	}

	all := ft.GetAll()
	all["output"] = true
	if ft.WasSet("output") {
		t.Error("GetAll should return a copy")
	}
}

func TestFlagTrackerWithNilFlags(t *testing.T) {
	ft := NewFlagTrackerWithFlags(nil)
	if ft.WasSet("anything") {
		t.Error("Nil-seeded tracker should report nothing set")
	}
	ft.Set("anything")
	if !ft.WasSet("anything") {
		t.Error("Set should work after nil seeding")
	}
}

func TestFlagTrackerMergeHelpers(t *testing.T) {
	ft := NewFlagTrackerWithFlags(map[string]bool{
		"similarity-threshold": true,
		"workers":              true,
		"force-rerun":          true,
		"format":               true,
		"languages":            true,
	})

	if got := ft.MergeFloat64(0.7, 0.9, "similarity-threshold"); got != 0.9 {
		t.Errorf("Expected explicit override 0.9, got %f", got)
	}
	if got := ft.MergeFloat64(0.7, 0.9, "max-size-ratio"); got != 0.7 {
		t.Errorf("Expected base 0.7 for unset flag, got %f", got)
	}
	if got := ft.MergeInt(0, 8, "workers"); got != 8 {
		t.Errorf("Expected explicit override 8, got %d", got)
	}
	if got := ft.MergeBool(false, true, "force-rerun"); !got {
		t.Error("Expected explicit override true")
	}
	if got := ft.MergeString("text", "json", "format"); got != "json" {
		t.Errorf("Expected explicit override json, got %s", got)
	}
	if got := ft.MergeStringSlice([]string{"c"}, []string{"go"}, "languages"); len(got) != 1 || got[0] != "go" {
		t.Errorf("Expected explicit override [go], got %v", got)
	}
	if got := ft.MergeStringSlice([]string{"c"}, nil, "languages"); len(got) != 1 || got[0] != "c" {
		t.Errorf("Expected base [c] for empty override, got %v", got)
	}
}

func TestFlagTrackerConcurrentAccess(t *testing.T) {
	ft := NewFlagTracker()
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			ft.Set("workers")
		}()
		go func() {
			defer wg.Done()
			ft.WasSet("workers")
		}()
	}
	wg.Wait()

	if !ft.WasSet("workers") {
		t.Error("Expected workers set after concurrent writes")
	}
}
