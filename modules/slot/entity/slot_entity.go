package entity

import (
	"time"

	coreEntity "github.com/SujalTripathi/slotswapper/core/entity"

	"github.com/google/uuid"
)

type SlotStatus string

const (
	SlotStatusBusy        SlotStatus = "BUSY"
	SlotStatusSwappable   SlotStatus = "SWAPPABLE"
	SlotStatusSwapPending SlotStatus = "SWAP_PENDING"
)

// IsValid reports whether the value is a member of the closed status enum
func (s SlotStatus) IsValid() bool {
	switch s {
	case SlotStatusBusy, SlotStatusSwappable, SlotStatusSwapPending:
		return true
	}
	return false
}

// manualTransitions are the status changes a slot owner may perform directly.
// Everything involving SWAP_PENDING belongs to the swap engine alone.
var manualTransitions = map[SlotStatus][]SlotStatus{
	SlotStatusBusy:      {SlotStatusSwappable},
	SlotStatusSwappable: {SlotStatusBusy},
}

// systemTransitions are the status changes driven by the swap lifecycle
var systemTransitions = map[SlotStatus][]SlotStatus{
	SlotStatusSwappable:   {SlotStatusSwapPending},
	SlotStatusSwapPending: {SlotStatusBusy, SlotStatusSwappable},
}

// CanTransition checks the transition table. Manual transitions are the
// owner-driven toggles; system transitions are reserved for the swap engine.
func CanTransition(from, to SlotStatus, manual bool) bool {
	table := systemTransitions
	if manual {
		table = manualTransitions
	}
	for _, allowed := range table[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Slot is a user's calendar booking, the unit of ownership that can be swapped
type Slot struct {
	OwnerID   uuid.UUID  `db:"owner_id" json:"owner_id"`
	Title     string     `db:"title" json:"title"`
	StartTime time.Time  `db:"start_time" json:"start_time"`
	EndTime   time.Time  `db:"end_time" json:"end_time"`
	Status    SlotStatus `db:"status" json:"status"`
	coreEntity.BaseEntity
}

// SlotWithOwner is a slot row joined with its owner's public identity
type SlotWithOwner struct {
	Slot
	OwnerName  string `db:"owner_name" json:"owner_name"`
	OwnerEmail string `db:"owner_email" json:"owner_email"`
}
