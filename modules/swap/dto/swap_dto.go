package dto

import (
	"time"

	slotDto "github.com/SujalTripathi/slotswapper/modules/slot/dto"
	"github.com/SujalTripathi/slotswapper/modules/swap/entity"

	"github.com/google/uuid"
)

type CreateSwapRequest struct {
	MySlotID    uuid.UUID `json:"my_slot_id"`
	TheirSlotID uuid.UUID `json:"their_slot_id"`
}

type RespondToSwapRequest struct {
	Action string `json:"action"` // accept | reject
}

type SwapRequestResponse struct {
	ID                 uuid.UUID             `json:"id"`
	Reference          string                `json:"reference"`
	MySlot             *slotDto.SlotResponse `json:"my_slot"`
	TheirSlot          *slotDto.SlotResponse `json:"their_slot"`
	RequestingUserID   uuid.UUID             `json:"requesting_user_id"`
	RequestingUserName string                `json:"requesting_user_name,omitempty"`
	TargetUserID       uuid.UUID             `json:"target_user_id"`
	TargetUserName     string                `json:"target_user_name,omitempty"`
	Status             entity.SwapStatus     `json:"status"`
	RespondedAt        *time.Time            `json:"responded_at,omitempty"`
	CreatedAt          time.Time             `json:"created_at"`
}

type SwapRequestListResponse struct {
	Requests []SwapRequestResponse `json:"requests"`
	Total    int                   `json:"total"`
}

func ToSwapRequestResponse(details *entity.SwapRequestWithDetails) *SwapRequestResponse {
	return &SwapRequestResponse{
		ID:        details.ID,
		Reference: details.Reference,
		MySlot: &slotDto.SlotResponse{
			ID:        details.MySlotID,
			OwnerID:   details.MySlotOwnerID,
			Title:     details.MySlotTitle,
			StartTime: details.MySlotStartTime,
			EndTime:   details.MySlotEndTime,
			Status:    details.MySlotStatus,
		},
		TheirSlot: &slotDto.SlotResponse{
			ID:        details.TheirSlotID,
			OwnerID:   details.TheirSlotOwnerID,
			Title:     details.TheirSlotTitle,
			StartTime: details.TheirSlotStartTime,
			EndTime:   details.TheirSlotEndTime,
			Status:    details.TheirSlotStatus,
		},
		RequestingUserID:   details.RequestingUserID,
		RequestingUserName: details.RequestingUserName,
		TargetUserID:       details.TargetUserID,
		TargetUserName:     details.TargetUserName,
		Status:             details.Status,
		RespondedAt:        details.RespondedAt,
		CreatedAt:          details.CreatedAt,
	}
}
