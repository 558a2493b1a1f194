package models

import "fmt"

// User is the generic user record.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`

	// GroupIDs lists the groups the user belongs to. Mappers filter out
	// null entries; order follows the wire data.
	GroupIDs []string `json:"group_ids,omitempty"`

	AdapterName     string         `json:"adapter_name"`
	AdapterSpecific map[string]any `json:"adapter_specific_data,omitempty"`
}

// Key returns the identity of the user.
func (u *User) Key() EntityKey {
	return EntityKey{ID: u.ID, Adapter: u.AdapterName}
}

// Equal reports whether two users are the same entity.
func (u *User) Equal(o *User) bool {
	return o != nil && u.Key() == o.Key()
}

// InGroup reports whether the user belongs to the given group.
func (u *User) InGroup(groupID string) bool {
	for _, id := range u.GroupIDs {
		if id == groupID {
			return true
		}
	}
	return false
}

// AdapterField reads a value from the adapter-specific bag.
func (u *User) AdapterField(name string) (any, bool) {
	v, ok := u.AdapterSpecific[name]
	return v, ok
}

func (u *User) String() string {
	return fmt.Sprintf("User(id=%s, name=%q, email=%q)", u.ID, u.Name, u.Email)
}
