// AngelaMos | 2026
// dto.go

package audit

import (
	"time"
)

type EntryResponse struct {
	ID         string    `json:"id"`
	TenantID   *string   `json:"tenantId"`
	UserID     *string   `json:"userId"`
	Action     Action    `json:"action"`
	EntityType string    `json:"entityType"`
	EntityID   *string   `json:"entityId"`
	CreatedAt  time.Time `json:"createdAt"`
}

type ListParams struct {
	TenantID   string
	Action     string
	EntityType string
	Limit      int
	Offset     int
}

func ToEntryResponse(e *Entry) EntryResponse {
	return EntryResponse{
		ID:         e.ID,
		TenantID:   e.TenantID,
		UserID:     e.UserID,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		CreatedAt:  e.CreatedAt,
	}
}

func ToEntryResponseList(entries []Entry) []EntryResponse {
	responses := make([]EntryResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, ToEntryResponse(&entries[i]))
	}
	return responses
}
