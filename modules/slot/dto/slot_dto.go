package dto

import (
	"time"

	"github.com/SujalTripathi/slotswapper/modules/slot/entity"

	"github.com/google/uuid"
)

type CreateSlotRequest struct {
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    *string   `json:"status,omitempty"`
}

// UpdateSlotRequest carries partial edits; nil fields are left unchanged
type UpdateSlotRequest struct {
	Title     *string    `json:"title,omitempty"`
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Status    *string    `json:"status,omitempty"`
}

type SlotResponse struct {
	ID         uuid.UUID         `json:"id"`
	OwnerID    uuid.UUID         `json:"owner_id"`
	OwnerName  string            `json:"owner_name,omitempty"`
	OwnerEmail string            `json:"owner_email,omitempty"`
	Title      string            `json:"title"`
	StartTime  time.Time         `json:"start_time"`
	EndTime    time.Time         `json:"end_time"`
	Status     entity.SlotStatus `json:"status"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

func ToSlotResponse(slot *entity.Slot) *SlotResponse {
	return &SlotResponse{
		ID:        slot.ID,
		OwnerID:   slot.OwnerID,
		Title:     slot.Title,
		StartTime: slot.StartTime,
		EndTime:   slot.EndTime,
		Status:    slot.Status,
		CreatedAt: slot.CreatedAt,
		UpdatedAt: slot.UpdatedAt,
	}
}

func ToSlotWithOwnerResponse(slot *entity.SlotWithOwner) *SlotResponse {
	resp := ToSlotResponse(&slot.Slot)
	resp.OwnerName = slot.OwnerName
	resp.OwnerEmail = slot.OwnerEmail
	return resp
}
