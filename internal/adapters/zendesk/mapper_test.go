package zendesk

import (
	"testing"
	"time"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			name:  "rfc3339 with Z",
			input: "2024-03-15T10:30:00Z",
			want:  time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "rfc3339 with offset",
			input: "2024-03-15T10:30:00+02:00",
			want:  time.Date(2024, 3, 15, 10, 30, 0, 0, time.FixedZone("", 2*3600)),
		},
		{
			name:  "bare datetime",
			input: "2024-03-15T10:30:00",
			want:  time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseTime(tt.input)
			if !got.Equal(tt.want) {
				t.Errorf("parseTime(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTimeGarbageFallsBackToNow(t *testing.T) {
	before := time.Now()
	got := parseTime("not a timestamp")
	after := time.Now()
	if got.Before(before) || got.After(after) {
		t.Errorf("parseTime on garbage should return now, got %v", got)
	}
}

func TestMapTicket(t *testing.T) {
	raw := map[string]any{
		"id":          float64(12345),
		"subject":     "Printer on fire",
		"description": "The printer in room 4 is on fire",
		"status":      "Open",
		"created_at":  "2024-03-15T10:30:00Z",
		"updated_at":  "2024-03-16T08:00:00Z",
		"assignee_id": float64(42),
		"group_id":    nil,
		"url":         "https://acme.zendesk.com/api/v2/tickets/12345.json",
		"priority":    "high",
		"tags":        []any{"hardware", "urgent"},
		"via":         map[string]any{"channel": "email"},
	}

	ticket := mapTicket(raw)

	if ticket.ID != "12345" {
		t.Errorf("ID = %q, want stringified 12345", ticket.ID)
	}
	if ticket.Title != "Printer on fire" {
		t.Errorf("Title = %q", ticket.Title)
	}
	if ticket.Status != "open" {
		t.Errorf("Status = %q, want normalized open", ticket.Status)
	}
	if ticket.AssigneeID != "42" {
		t.Errorf("AssigneeID = %q, want 42", ticket.AssigneeID)
	}
	if ticket.GroupID != "" {
		t.Errorf("GroupID = %q, want empty for null", ticket.GroupID)
	}
	if ticket.AdapterName != "zendesk" {
		t.Errorf("AdapterName = %q", ticket.AdapterName)
	}
	want := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	if !ticket.CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, want %v", ticket.CreatedAt, want)
	}

	// Unmapped fields land verbatim in the adapter-specific bag.
	if ticket.AdapterSpecific["priority"] != "high" {
		t.Errorf("priority = %v", ticket.AdapterSpecific["priority"])
	}
	if via, ok := ticket.AdapterSpecific["via"].(map[string]any); !ok || via["channel"] != "email" {
		t.Errorf("via = %v, want nested structure preserved", ticket.AdapterSpecific["via"])
	}
	if _, ok := ticket.AdapterSpecific["subject"]; ok {
		t.Error("common fields must not leak into the adapter-specific bag")
	}
}

func TestMapTicketZeroForeignKeys(t *testing.T) {
	raw := map[string]any{
		"id":          float64(1),
		"assignee_id": float64(0),
		"group_id":    float64(0),
		"created_at":  "2024-03-15T10:30:00Z",
		"updated_at":  "2024-03-15T10:30:00Z",
	}
	ticket := mapTicket(raw)
	if ticket.AssigneeID != "" || ticket.GroupID != "" {
		t.Errorf("zero foreign keys should map to absent, got %q/%q",
			ticket.AssigneeID, ticket.GroupID)
	}
}

func TestMapUser(t *testing.T) {
	raw := map[string]any{
		"id":        float64(42),
		"name":      "Jo Agent",
		"email":     "jo@acme.com",
		"group_ids": []any{float64(1), nil, float64(2)},
		"role":      "agent",
		"time_zone": "Europe/Berlin",
	}

	user := mapUser(raw)

	if user.ID != "42" || user.Name != "Jo Agent" || user.Email != "jo@acme.com" {
		t.Errorf("user = %+v", user)
	}
	if len(user.GroupIDs) != 2 || user.GroupIDs[0] != "1" || user.GroupIDs[1] != "2" {
		t.Errorf("GroupIDs = %v, want null entries filtered", user.GroupIDs)
	}
	if user.AdapterSpecific["role"] != "agent" {
		t.Errorf("role = %v", user.AdapterSpecific["role"])
	}
}

func TestMapGroup(t *testing.T) {
	raw := map[string]any{
		"id":          float64(7),
		"name":        "Support",
		"description": "Front line",
		"deleted":     false,
	}

	group := mapGroup(raw)

	if group.ID != "7" || group.Name != "Support" || group.Description != "Front line" {
		t.Errorf("group = %+v", group)
	}
	if group.AdapterSpecific["deleted"] != false {
		t.Errorf("deleted = %v", group.AdapterSpecific["deleted"])
	}
}
