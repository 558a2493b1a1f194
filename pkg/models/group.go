package models

import "fmt"

// Group is the generic group/team record.
type Group struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	AdapterName     string         `json:"adapter_name"`
	AdapterSpecific map[string]any `json:"adapter_specific_data,omitempty"`
}

// Key returns the identity of the group.
func (g *Group) Key() EntityKey {
	return EntityKey{ID: g.ID, Adapter: g.AdapterName}
}

// Equal reports whether two groups are the same entity.
func (g *Group) Equal(o *Group) bool {
	return o != nil && g.Key() == o.Key()
}

// AdapterField reads a value from the adapter-specific bag.
func (g *Group) AdapterField(name string) (any, bool) {
	v, ok := g.AdapterSpecific[name]
	return v, ok
}

func (g *Group) String() string {
	return fmt.Sprintf("Group(id=%s, name=%q)", g.ID, g.Name)
}
