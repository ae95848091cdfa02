package service

import (
	"context"
	"strings"

	"github.com/SujalTripathi/slotswapper/core/errors"
	"github.com/SujalTripathi/slotswapper/core/logger"
	"github.com/SujalTripathi/slotswapper/modules/slot/dto"
	"github.com/SujalTripathi/slotswapper/modules/slot/entity"
	"github.com/SujalTripathi/slotswapper/modules/slot/repository"

	"github.com/google/uuid"
)

// SlotService handles slot CRUD and defends the status state machine on every
// manual mutation path. Only the swap engine may move slots into or out of
// SWAP_PENDING; this service rejects any such attempt.
type SlotService struct {
	repo repository.SlotRepositoryInterface
}

// SlotServiceInterface defines the service contract
type SlotServiceInterface interface {
	CreateSlot(ctx context.Context, ownerID uuid.UUID, req *dto.CreateSlotRequest) (*dto.SlotResponse, *errors.AppError)
	GetMySlots(ctx context.Context, ownerID uuid.UUID) ([]dto.SlotResponse, *errors.AppError)
	GetSlot(ctx context.Context, id uuid.UUID) (*dto.SlotResponse, *errors.AppError)
	UpdateSlot(ctx context.Context, slotID uuid.UUID, editorID uuid.UUID, req *dto.UpdateSlotRequest) (*dto.SlotResponse, *errors.AppError)
	DeleteSlot(ctx context.Context, slotID uuid.UUID, editorID uuid.UUID) *errors.AppError
}

func NewSlotService(repo repository.SlotRepositoryInterface) SlotServiceInterface {
	return &SlotService{repo: repo}
}

// CreateSlot creates a slot owned by the caller. Status defaults to BUSY; an
// explicit initial status must be BUSY or SWAPPABLE.
func (s *SlotService) CreateSlot(ctx context.Context, ownerID uuid.UUID, req *dto.CreateSlotRequest) (*dto.SlotResponse, *errors.AppError) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "title is required", nil)
	}
	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "start_time and end_time are required", nil)
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "end time must be after start time", nil)
	}

	status := entity.SlotStatusBusy
	if req.Status != nil {
		status = entity.SlotStatus(*req.Status)
		if !status.IsValid() {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid status", nil)
		}
		if status == entity.SlotStatusSwapPending {
			return nil, errors.NewAppError(errors.ErrInvalidOperation, "a slot cannot be created under negotiation", nil)
		}
	}

	slot := &entity.Slot{
		OwnerID:   ownerID,
		Title:     title,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    status,
	}
	if err := s.repo.Create(ctx, slot); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create slot", err)
	}

	return dto.ToSlotResponse(slot), nil
}

// GetMySlots returns the caller's slots ordered by start time
func (s *SlotService) GetMySlots(ctx context.Context, ownerID uuid.UUID) ([]dto.SlotResponse, *errors.AppError) {
	slots, err := s.repo.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get slots", err)
	}

	result := make([]dto.SlotResponse, 0, len(slots))
	for i := range slots {
		result = append(result, *dto.ToSlotResponse(&slots[i]))
	}
	return result, nil
}

// GetSlot retrieves a slot by ID
func (s *SlotService) GetSlot(ctx context.Context, id uuid.UUID) (*dto.SlotResponse, *errors.AppError) {
	slot, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get slot", err)
	}
	if slot == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "slot not found", nil)
	}
	return dto.ToSlotResponse(slot), nil
}

// UpdateSlot applies partial edits on behalf of the owner. The current status
// is re-read here, never taken from the caller; edits are rejected outright
// while the slot is locked by a pending swap. Time validation runs on the
// merged field set.
func (s *SlotService) UpdateSlot(ctx context.Context, slotID uuid.UUID, editorID uuid.UUID, req *dto.UpdateSlotRequest) (*dto.SlotResponse, *errors.AppError) {
	slot, err := s.repo.GetByID(ctx, slotID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get slot", err)
	}
	if slot == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "slot not found", nil)
	}
	if slot.OwnerID != editorID {
		return nil, errors.NewAppError(errors.ErrForbidden, "you do not own this slot", nil)
	}
	if slot.Status == entity.SlotStatusSwapPending {
		return nil, errors.NewAppError(errors.ErrInvalidOperation, "slot is locked by a pending swap", nil)
	}

	currentStatus := slot.Status

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "title cannot be empty", nil)
		}
		slot.Title = title
	}
	if req.StartTime != nil {
		slot.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		slot.EndTime = *req.EndTime
	}
	if !slot.EndTime.After(slot.StartTime) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "end time must be after start time", nil)
	}

	if req.Status != nil {
		newStatus := entity.SlotStatus(*req.Status)
		if !newStatus.IsValid() {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid status", nil)
		}
		if newStatus != currentStatus {
			if !entity.CanTransition(currentStatus, newStatus, true) {
				return nil, errors.NewAppError(errors.ErrInvalidOperation, "status change not allowed", nil)
			}
			slot.Status = newStatus
		}
	}

	if err := s.repo.Update(ctx, slot, currentStatus); err != nil {
		if err == repository.ErrStatusConflict {
			logger.Warn("SlotService:UpdateSlot:StatusConflict", "slot_id", slotID)
			return nil, errors.NewAppError(errors.ErrInvalidOperation, "slot is no longer available", nil)
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to update slot", err)
	}

	return dto.ToSlotResponse(slot), nil
}

// DeleteSlot removes a slot on behalf of the owner. Deletion is forbidden
// while the slot is under negotiation; the pending swap must be resolved or
// cancelled first.
func (s *SlotService) DeleteSlot(ctx context.Context, slotID uuid.UUID, editorID uuid.UUID) *errors.AppError {
	slot, err := s.repo.GetByID(ctx, slotID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to get slot", err)
	}
	if slot == nil {
		return errors.NewAppError(errors.ErrNotFound, "slot not found", nil)
	}
	if slot.OwnerID != editorID {
		return errors.NewAppError(errors.ErrForbidden, "you do not own this slot", nil)
	}
	if slot.Status == entity.SlotStatusSwapPending {
		return errors.NewAppError(errors.ErrInvalidOperation, "slot is locked by a pending swap", nil)
	}

	if err := s.repo.Delete(ctx, slotID, slot.Status); err != nil {
		if err == repository.ErrStatusConflict {
			logger.Warn("SlotService:DeleteSlot:StatusConflict", "slot_id", slotID)
			return errors.NewAppError(errors.ErrInvalidOperation, "slot is no longer available", nil)
		}
		return errors.NewAppError(errors.ErrInternalServer, "failed to delete slot", err)
	}
	return nil
}
