package models

import "strings"

// Common ticket statuses shared by all adapters. Adapters normalize their
// native statuses into this set where a mapping exists; unknown statuses
// pass through unchanged so a new backend status never breaks the pipeline.
const (
	StatusNew     = "new"
	StatusOpen    = "open"
	StatusPending = "pending"
	StatusHold    = "hold"
	StatusSolved  = "solved"
	StatusClosed  = "closed"
)

// CommonStatuses returns the fixed status enumeration in lifecycle order.
func CommonStatuses() []string {
	return []string{StatusNew, StatusOpen, StatusPending, StatusHold, StatusSolved, StatusClosed}
}

// IsCommonStatus reports whether s is one of the common statuses,
// case-insensitively.
func IsCommonStatus(s string) bool {
	s = strings.ToLower(s)
	for _, c := range CommonStatuses() {
		if s == c {
			return true
		}
	}
	return false
}
