package entity

import (
	"time"

	coreEntity "github.com/SujalTripathi/slotswapper/core/entity"
	slotEntity "github.com/SujalTripathi/slotswapper/modules/slot/entity"

	"github.com/google/uuid"
)

type SwapStatus string

const (
	SwapStatusPending   SwapStatus = "PENDING"
	SwapStatusAccepted  SwapStatus = "ACCEPTED"
	SwapStatusRejected  SwapStatus = "REJECTED"
	SwapStatusCancelled SwapStatus = "CANCELLED"
)

// IsTerminal reports whether the request has been resolved. A terminal
// request is immutable history.
func (s SwapStatus) IsTerminal() bool {
	return s == SwapStatusAccepted || s == SwapStatusRejected || s == SwapStatusCancelled
}

// SwapRequest is a proposal to exchange ownership of two slots between two users.
// Reference is a short human-readable code surfaced in notifications.
type SwapRequest struct {
	Reference        string     `db:"reference" json:"reference"`
	MySlotID         uuid.UUID  `db:"my_slot_id" json:"my_slot_id"`
	TheirSlotID      uuid.UUID  `db:"their_slot_id" json:"their_slot_id"`
	RequestingUserID uuid.UUID  `db:"requesting_user_id" json:"requesting_user_id"`
	TargetUserID     uuid.UUID  `db:"target_user_id" json:"target_user_id"`
	Status           SwapStatus `db:"status" json:"status"`
	RespondedAt      *time.Time `db:"responded_at" json:"responded_at"`
	coreEntity.BaseEntity
}

// SwapRequestWithDetails is a ledger row joined with both slot snapshots and
// the public identity of both parties
type SwapRequestWithDetails struct {
	SwapRequest
	MySlotOwnerID      uuid.UUID             `db:"my_slot_owner_id"`
	MySlotTitle        string                `db:"my_slot_title"`
	MySlotStartTime    time.Time             `db:"my_slot_start_time"`
	MySlotEndTime      time.Time             `db:"my_slot_end_time"`
	MySlotStatus       slotEntity.SlotStatus `db:"my_slot_status"`
	TheirSlotOwnerID   uuid.UUID             `db:"their_slot_owner_id"`
	TheirSlotTitle     string                `db:"their_slot_title"`
	TheirSlotStartTime time.Time             `db:"their_slot_start_time"`
	TheirSlotEndTime   time.Time             `db:"their_slot_end_time"`
	TheirSlotStatus    slotEntity.SlotStatus `db:"their_slot_status"`
	RequestingUserName string                `db:"requesting_user_name"`
	TargetUserName     string                `db:"target_user_name"`
}
