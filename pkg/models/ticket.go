// Package models defines the generic domain model shared across all
// ticketing adapters, plus the error taxonomy adapters must use.
//
// Entities are produced by adapter mappers (raw wire data to generic model)
// or constructed directly in tests. They are value records: nothing mutates
// them after creation except TeamName, which is resolved post-hoc once group
// data is available.
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// shortDescriptionLimit is the truncation point for ShortDescription.
const shortDescriptionLimit = 50

// EntityKey identifies an entity across adapters. Two entities from
// different adapters sharing a raw numeric id are distinct.
type EntityKey struct {
	ID      string
	Adapter string
}

// Ticket is the generic ticket record.
type Ticket struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// AssigneeID and GroupID are optional foreign references; empty
	// means absent.
	AssigneeID string `json:"assignee_id,omitempty"`
	GroupID    string `json:"group_id,omitempty"`

	URL         string `json:"url"`
	AdapterName string `json:"adapter_name"`

	// AdapterSpecific holds every raw field with no common-schema home,
	// verbatim, so the mapping stays lossless for adapter-specific
	// operations. Keys never collide with common-schema field names.
	AdapterSpecific map[string]any `json:"adapter_specific_data,omitempty"`

	// TeamName is derived, not part of identity. Filled in by a
	// resolution step once group data is available.
	TeamName string `json:"team_name,omitempty"`
}

// Key returns the identity of the ticket. Keys are comparable and usable
// as map keys; key equality is entity equality.
func (t *Ticket) Key() EntityKey {
	return EntityKey{ID: t.ID, Adapter: t.AdapterName}
}

// Equal reports whether two tickets are the same entity.
func (t *Ticket) Equal(o *Ticket) bool {
	return o != nil && t.Key() == o.Key()
}

// DaysSinceCreated returns the whole-day age of the ticket. Recomputed on
// every call, never cached.
func (t *Ticket) DaysSinceCreated() int {
	return daysSince(t.CreatedAt)
}

// DaysSinceUpdated returns whole days since the last update.
func (t *Ticket) DaysSinceUpdated() int {
	return daysSince(t.UpdatedAt)
}

func daysSince(ts time.Time) int {
	return int(time.Since(ts).Hours() / 24)
}

// ShortDescription returns the first 50 characters of the description,
// with an ellipsis when truncated.
func (t *Ticket) ShortDescription() string {
	r := []rune(t.Description)
	if len(r) <= shortDescriptionLimit {
		return t.Description
	}
	return string(r[:shortDescriptionLimit]) + "..."
}

// AdapterField reads a value from the adapter-specific bag.
func (t *Ticket) AdapterField(name string) (any, bool) {
	v, ok := t.AdapterSpecific[name]
	return v, ok
}

// MarshalJSON includes the derived fields so serialized tickets are
// self-contained for downstream consumers.
func (t *Ticket) MarshalJSON() ([]byte, error) {
	type alias Ticket
	return json.Marshal(struct {
		*alias
		ShortDescription string `json:"short_description"`
		DaysSinceCreated int    `json:"days_since_created"`
		DaysSinceUpdated int    `json:"days_since_updated"`
	}{
		alias:            (*alias)(t),
		ShortDescription: t.ShortDescription(),
		DaysSinceCreated: t.DaysSinceCreated(),
		DaysSinceUpdated: t.DaysSinceUpdated(),
	})
}

func (t *Ticket) String() string {
	title := t.Title
	if r := []rune(title); len(r) > 30 {
		title = string(r[:30]) + "..."
	}
	return fmt.Sprintf("Ticket(id=%s, status=%s, title=%q)", t.ID, t.Status, title)
}
