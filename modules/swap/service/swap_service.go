package service

import (
	"context"
	"fmt"

	"github.com/SujalTripathi/slotswapper/core/errors"
	"github.com/SujalTripathi/slotswapper/core/logger"
	"github.com/SujalTripathi/slotswapper/core/utils"
	notifDto "github.com/SujalTripathi/slotswapper/modules/notification/dto"
	notifService "github.com/SujalTripathi/slotswapper/modules/notification/service"
	slotDto "github.com/SujalTripathi/slotswapper/modules/slot/dto"
	slotEntity "github.com/SujalTripathi/slotswapper/modules/slot/entity"
	slotRepository "github.com/SujalTripathi/slotswapper/modules/slot/repository"
	"github.com/SujalTripathi/slotswapper/modules/swap/dto"
	"github.com/SujalTripathi/slotswapper/modules/swap/entity"
	"github.com/SujalTripathi/slotswapper/modules/swap/repository"

	"github.com/google/uuid"
)

const (
	ActionAccept = "accept"
	ActionReject = "reject"
)

// SwapService orchestrates the negotiation lifecycle: propose, accept, reject,
// cancel. Precondition failures are detected before any write; the multi-record
// writes themselves are delegated to the repository's transactions, whose
// compare-and-set guards are authoritative under concurrency.
type SwapService struct {
	repo         repository.SwapRepositoryInterface
	slotRepo     slotRepository.SlotRepositoryInterface
	notifService *notifService.NotificationService
}

// SwapServiceInterface defines the service contract
type SwapServiceInterface interface {
	GetSwappableSlots(ctx context.Context, viewerID uuid.UUID) ([]slotDto.SlotResponse, *errors.AppError)
	ProposeSwap(ctx context.Context, requesterID uuid.UUID, req *dto.CreateSwapRequest) (*dto.SwapRequestResponse, *errors.AppError)
	GetMySwapRequests(ctx context.Context, userID uuid.UUID) (*dto.SwapRequestListResponse, *errors.AppError)
	RespondToSwap(ctx context.Context, responderID uuid.UUID, requestID uuid.UUID, action string) (*dto.SwapRequestResponse, *errors.AppError)
	CancelSwap(ctx context.Context, requesterID uuid.UUID, requestID uuid.UUID) (*dto.SwapRequestResponse, *errors.AppError)
}

func NewSwapService(repo repository.SwapRepositoryInterface, slotRepo slotRepository.SlotRepositoryInterface, notifService *notifService.NotificationService) SwapServiceInterface {
	return &SwapService{
		repo:         repo,
		slotRepo:     slotRepo,
		notifService: notifService,
	}
}

// GetSwappableSlots lists the marketplace: every swappable slot except the
// viewer's own
func (s *SwapService) GetSwappableSlots(ctx context.Context, viewerID uuid.UUID) ([]slotDto.SlotResponse, *errors.AppError) {
	slots, err := s.repo.GetSwappableSlots(ctx, viewerID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get swappable slots", err)
	}

	result := make([]slotDto.SlotResponse, 0, len(slots))
	for i := range slots {
		result = append(result, *slotDto.ToSlotWithOwnerResponse(&slots[i]))
	}
	return result, nil
}

// ProposeSwap validates the proposal and, if it holds, locks both slots and
// records the PENDING request atomically. First precondition failure wins;
// nothing is written on failure.
func (s *SwapService) ProposeSwap(ctx context.Context, requesterID uuid.UUID, req *dto.CreateSwapRequest) (*dto.SwapRequestResponse, *errors.AppError) {
	if req.MySlotID == uuid.Nil || req.TheirSlotID == uuid.Nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "my_slot_id and their_slot_id are required", nil)
	}
	if req.MySlotID == req.TheirSlotID {
		return nil, errors.NewAppError(errors.ErrInvalidOperation, "cannot swap a slot with itself", nil)
	}

	mySlot, err := s.slotRepo.GetByID(ctx, req.MySlotID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get slot", err)
	}
	theirSlot, err := s.slotRepo.GetByID(ctx, req.TheirSlotID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get slot", err)
	}
	if mySlot == nil || theirSlot == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "one or both slots not found", nil)
	}

	if mySlot.OwnerID != requesterID {
		return nil, errors.NewAppError(errors.ErrForbidden, "you do not own the offered slot", nil)
	}
	if theirSlot.OwnerID == requesterID {
		return nil, errors.NewAppError(errors.ErrInvalidOperation, "cannot swap with your own slot", nil)
	}
	if mySlot.Status != slotEntity.SlotStatusSwappable || theirSlot.Status != slotEntity.SlotStatusSwappable {
		return nil, errors.NewAppError(errors.ErrInvalidOperation, "both slots must be swappable", nil)
	}

	swap := &entity.SwapRequest{
		Reference:        utils.NewSwapReference(),
		MySlotID:         req.MySlotID,
		TheirSlotID:      req.TheirSlotID,
		RequestingUserID: requesterID,
	}
	if err := s.repo.Propose(ctx, swap); err != nil {
		if err == repository.ErrSlotUnavailable {
			// Lost a race since the reads above; treat as the status precondition
			return nil, errors.NewAppError(errors.ErrInvalidOperation, "both slots must be swappable", nil)
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create swap request", err)
	}

	s.notify(ctx, swap.TargetUserID, "New swap proposal",
		fmt.Sprintf("Someone proposed swap %s for one of your calendar slots", swap.Reference),
		"swap_proposed", swap)

	return s.details(ctx, swap.ID)
}

// GetMySwapRequests returns all requests in which the user is requester or
// target, newest first
func (s *SwapService) GetMySwapRequests(ctx context.Context, userID uuid.UUID) (*dto.SwapRequestListResponse, *errors.AppError) {
	requests, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get swap requests", err)
	}

	result := make([]dto.SwapRequestResponse, 0, len(requests))
	for i := range requests {
		result = append(result, *dto.ToSwapRequestResponse(&requests[i]))
	}
	return &dto.SwapRequestListResponse{
		Requests: result,
		Total:    len(result),
	}, nil
}

// RespondToSwap resolves a PENDING request as its target. Accepting exchanges
// slot ownership and finalizes both slots to BUSY; rejecting releases both
// back to SWAPPABLE. A request can be resolved exactly once.
func (s *SwapService) RespondToSwap(ctx context.Context, responderID uuid.UUID, requestID uuid.UUID, action string) (*dto.SwapRequestResponse, *errors.AppError) {
	if action != ActionAccept && action != ActionReject {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "action must be accept or reject", nil)
	}

	swap, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get swap request", err)
	}
	if swap == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "swap request not found", nil)
	}
	if swap.TargetUserID != responderID {
		return nil, errors.NewAppError(errors.ErrForbidden, "only the target of the proposal may respond", nil)
	}
	if swap.Status != entity.SwapStatusPending {
		return nil, errors.NewAppError(errors.ErrInvalidOperation, "swap request already resolved", nil)
	}

	newStatus := entity.SwapStatusRejected
	exchangeOwners := false
	if action == ActionAccept {
		newStatus = entity.SwapStatusAccepted
		exchangeOwners = true
	}

	if err := s.repo.Resolve(ctx, requestID, newStatus, exchangeOwners); err != nil {
		if err == repository.ErrAlreadyResolved {
			return nil, errors.NewAppError(errors.ErrInvalidOperation, "swap request already resolved", nil)
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to resolve swap request", err)
	}

	title := "Swap rejected"
	notifType := "swap_rejected"
	message := fmt.Sprintf("Your swap proposal %s was rejected; your slot is swappable again", swap.Reference)
	if action == ActionAccept {
		title = "Swap accepted"
		notifType = "swap_accepted"
		message = fmt.Sprintf("Your swap proposal %s was accepted; the slots have traded owners", swap.Reference)
	}
	s.notify(ctx, swap.RequestingUserID, title, message, notifType, swap)

	return s.details(ctx, requestID)
}

// CancelSwap lets the requester withdraw a still-PENDING proposal; both slots
// are released back to SWAPPABLE and the request becomes CANCELLED
func (s *SwapService) CancelSwap(ctx context.Context, requesterID uuid.UUID, requestID uuid.UUID) (*dto.SwapRequestResponse, *errors.AppError) {
	swap, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get swap request", err)
	}
	if swap == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "swap request not found", nil)
	}
	if swap.RequestingUserID != requesterID {
		return nil, errors.NewAppError(errors.ErrForbidden, "only the requester may cancel the proposal", nil)
	}
	if swap.Status != entity.SwapStatusPending {
		return nil, errors.NewAppError(errors.ErrInvalidOperation, "swap request already resolved", nil)
	}

	if err := s.repo.Resolve(ctx, requestID, entity.SwapStatusCancelled, false); err != nil {
		if err == repository.ErrAlreadyResolved {
			return nil, errors.NewAppError(errors.ErrInvalidOperation, "swap request already resolved", nil)
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to cancel swap request", err)
	}

	s.notify(ctx, swap.TargetUserID, "Swap proposal withdrawn",
		fmt.Sprintf("Swap proposal %s for one of your slots was withdrawn", swap.Reference),
		"swap_cancelled", swap)

	return s.details(ctx, requestID)
}

func (s *SwapService) details(ctx context.Context, requestID uuid.UUID) (*dto.SwapRequestResponse, *errors.AppError) {
	details, err := s.repo.GetDetailsByID(ctx, requestID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load swap request", err)
	}
	if details == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "swap request not found", nil)
	}
	return dto.ToSwapRequestResponse(details), nil
}

// notify records an in-app notification; failures are logged, never fatal to
// the swap itself
func (s *SwapService) notify(ctx context.Context, userID uuid.UUID, title, message, notifType string, swap *entity.SwapRequest) {
	if s.notifService == nil {
		return
	}
	notification := &notifDto.CreateNotificationRequest{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    notifType,
		Data: map[string]interface{}{
			"swap_request_id": swap.ID.String(),
			"reference":       swap.Reference,
		},
	}
	if err := s.notifService.Create(ctx, notification); err != nil {
		logger.Error("SwapService:Notify:Error:", err)
	}
}
