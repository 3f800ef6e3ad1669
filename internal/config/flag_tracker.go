package config

import (
	"sync"
)

// FlagTracker records which CLI flags were explicitly set so that merge
// helpers can apply flag-over-file precedence. Safe for concurrent use.
type FlagTracker struct {
	mu    sync.RWMutex
	flags map[string]bool
}

// NewFlagTracker creates an empty flag tracker
func NewFlagTracker() *FlagTracker {
	return &FlagTracker{
		flags: make(map[string]bool),
	}
}

// NewFlagTrackerWithFlags creates a flag tracker seeded with the flags a
// command reported as changed. The map is copied.
func NewFlagTrackerWithFlags(flags map[string]bool) *FlagTracker {
	copied := make(map[string]bool, len(flags))
	for k, v := range flags {
		copied[k] = v
	}
	return &FlagTracker{
		flags: copied,
	}
}

// Set marks a flag as explicitly set
func (ft *FlagTracker) Set(flagName string) {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	ft.flags[flagName] = true
}

// WasSet checks if a flag was explicitly set
func (ft *FlagTracker) WasSet(flagName string) bool {
	ft.mu.RLock()
	defer ft.mu.RUnlock()
	return ft.flags[flagName]
}

// GetAll returns a copy of all flags (safe for concurrent access)
func (ft *FlagTracker) GetAll() map[string]bool {
	ft.mu.RLock()
	defer ft.mu.RUnlock()

	result := make(map[string]bool, len(ft.flags))
	for k, v := range ft.flags {
		result[k] = v
	}
	return result
}

// MergeString returns override when the flag was explicitly set, else base
func (ft *FlagTracker) MergeString(base, override, flagName string) string {
	if ft.WasSet(flagName) {
		return override
	}
	return base
}

// MergeInt returns override when the flag was explicitly set, else base
func (ft *FlagTracker) MergeInt(base, override int, flagName string) int {
	if ft.WasSet(flagName) {
		return override
	}
	return base
}

// MergeBool returns override when the flag was explicitly set, else base
func (ft *FlagTracker) MergeBool(base, override bool, flagName string) bool {
	if ft.WasSet(flagName) {
		return override
	}
	return base
}

// MergeFloat64 returns override when the flag was explicitly set, else base
func (ft *FlagTracker) MergeFloat64(base, override float64, flagName string) float64 {
	if ft.WasSet(flagName) {
		return override
	}
	return base
}

// MergeStringSlice returns override when the flag was explicitly set and
// non-empty, else base
func (ft *FlagTracker) MergeStringSlice(base, override []string, flagName string) []string {
	if ft.WasSet(flagName) && len(override) > 0 {
		return override
	}
	return base
}
