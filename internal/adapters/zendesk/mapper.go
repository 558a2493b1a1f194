package zendesk

import (
	"strings"
	"time"

	"github.com/goatkit/ticketq/internal/convert"
	"github.com/goatkit/ticketq/pkg/models"
)

// Common-schema fields per entity. Everything else in the raw payload is
// copied verbatim into AdapterSpecific, keeping the mapping lossless.
var (
	ticketCommonFields = map[string]bool{
		"id": true, "subject": true, "description": true, "status": true,
		"created_at": true, "updated_at": true, "assignee_id": true,
		"group_id": true, "url": true, "result_type": true,
	}
	userCommonFields = map[string]bool{
		"id": true, "name": true, "email": true, "group_ids": true,
		"result_type": true,
	}
	groupCommonFields = map[string]bool{
		"id": true, "name": true, "description": true, "result_type": true,
	}
)

// parseTime parses a Zendesk timestamp with a three-tier fallback:
// strict RFC 3339 first, then a bare date-time with any trailing Z
// stripped, then the current time. A bad timestamp degrades gracefully
// instead of aborting a whole ticket list.
func parseTime(s string) time.Time {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts
	}
	if ts, err := time.Parse("2006-01-02T15:04:05", strings.TrimSuffix(s, "Z")); err == nil {
		return ts
	}
	return time.Now()
}

func leftoverFields(raw map[string]any, common map[string]bool) map[string]any {
	extra := make(map[string]any)
	for k, v := range raw {
		if !common[k] {
			extra[k] = v
		}
	}
	return extra
}

func mapTicket(raw map[string]any) *models.Ticket {
	return &models.Ticket{
		ID:              convert.ToString(raw["id"], ""),
		Title:           convert.ToString(raw["subject"], ""),
		Description:     convert.ToString(raw["description"], ""),
		Status:          normalizeStatus(convert.ToString(raw["status"], "")),
		CreatedAt:       parseTime(convert.ToString(raw["created_at"], "")),
		UpdatedAt:       parseTime(convert.ToString(raw["updated_at"], "")),
		AssigneeID:      convert.ToRef(raw["assignee_id"]),
		GroupID:         convert.ToRef(raw["group_id"]),
		URL:             convert.ToString(raw["url"], ""),
		AdapterName:     adapterName,
		AdapterSpecific: leftoverFields(raw, ticketCommonFields),
	}
}

func mapUser(raw map[string]any) *models.User {
	return &models.User{
		ID:              convert.ToString(raw["id"], ""),
		Name:            convert.ToString(raw["name"], ""),
		Email:           convert.ToString(raw["email"], ""),
		GroupIDs:        convert.ToStringSlice(raw["group_ids"]),
		AdapterName:     adapterName,
		AdapterSpecific: leftoverFields(raw, userCommonFields),
	}
}

func mapGroup(raw map[string]any) *models.Group {
	return &models.Group{
		ID:              convert.ToString(raw["id"], ""),
		Name:            convert.ToString(raw["name"], ""),
		Description:     convert.ToString(raw["description"], ""),
		AdapterName:     adapterName,
		AdapterSpecific: leftoverFields(raw, groupCommonFields),
	}
}
