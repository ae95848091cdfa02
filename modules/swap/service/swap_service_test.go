package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SujalTripathi/slotswapper/core/errors"
	slotEntity "github.com/SujalTripathi/slotswapper/modules/slot/entity"
	"github.com/SujalTripathi/slotswapper/modules/swap/dto"
	"github.com/SujalTripathi/slotswapper/modules/swap/entity"
	"github.com/SujalTripathi/slotswapper/modules/swap/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWorld is an in-memory stand-in for the slots and swap_requests tables.
// Both fake repositories share it under one mutex, mirroring how the real
// repositories serialize on the database: Propose and Resolve apply their
// compare-and-set guards atomically.
type fakeWorld struct {
	mu    sync.Mutex
	slots map[uuid.UUID]*slotEntity.Slot
	swaps map[uuid.UUID]*entity.SwapRequest
	users map[uuid.UUID]string
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{
		slots: make(map[uuid.UUID]*slotEntity.Slot),
		swaps: make(map[uuid.UUID]*entity.SwapRequest),
		users: make(map[uuid.UUID]string),
	}
}

func (w *fakeWorld) addUser(name string) uuid.UUID {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := uuid.New()
	w.users[id] = name
	return id
}

func (w *fakeWorld) addSlot(ownerID uuid.UUID, title string, status slotEntity.SlotStatus) *slotEntity.Slot {
	w.mu.Lock()
	defer w.mu.Unlock()
	slot := &slotEntity.Slot{
		OwnerID:   ownerID,
		Title:     title,
		StartTime: time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC),
		Status:    status,
	}
	slot.ID = uuid.New()
	w.slots[slot.ID] = slot
	return slot
}

func (w *fakeWorld) slotStatus(id uuid.UUID) slotEntity.SlotStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.slots[id].Status
}

func (w *fakeWorld) slotOwner(id uuid.UUID) uuid.UUID {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.slots[id].OwnerID
}

// fakeSlotRepo implements the slot repository reads the swap service uses
type fakeSlotRepo struct{ world *fakeWorld }

func (r *fakeSlotRepo) Create(ctx context.Context, slot *slotEntity.Slot) error { return nil }

func (r *fakeSlotRepo) GetByID(ctx context.Context, id uuid.UUID) (*slotEntity.Slot, error) {
	r.world.mu.Lock()
	defer r.world.mu.Unlock()
	slot, ok := r.world.slots[id]
	if !ok {
		return nil, nil
	}
	cp := *slot
	return &cp, nil
}

func (r *fakeSlotRepo) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]slotEntity.Slot, error) {
	return nil, nil
}

func (r *fakeSlotRepo) Update(ctx context.Context, slot *slotEntity.Slot, expectedStatus slotEntity.SlotStatus) error {
	return nil
}

func (r *fakeSlotRepo) Delete(ctx context.Context, id uuid.UUID, expectedStatus slotEntity.SlotStatus) error {
	return nil
}

// fakeSwapRepo implements SwapRepositoryInterface against the shared world
type fakeSwapRepo struct{ world *fakeWorld }

func (r *fakeSwapRepo) Propose(ctx context.Context, swap *entity.SwapRequest) error {
	r.world.mu.Lock()
	defer r.world.mu.Unlock()

	mySlot, ok := r.world.slots[swap.MySlotID]
	if !ok || mySlot.Status != slotEntity.SlotStatusSwappable {
		return repository.ErrSlotUnavailable
	}
	theirSlot, ok := r.world.slots[swap.TheirSlotID]
	if !ok || theirSlot.Status != slotEntity.SlotStatusSwappable {
		return repository.ErrSlotUnavailable
	}

	// Ownership is re-checked under the same lock as the status CAS, matching
	// the real repository's in-transaction guards
	if mySlot.OwnerID != swap.RequestingUserID {
		return repository.ErrSlotUnavailable
	}
	if theirSlot.OwnerID == swap.RequestingUserID {
		return repository.ErrSlotUnavailable
	}

	mySlot.Status = slotEntity.SlotStatusSwapPending
	theirSlot.Status = slotEntity.SlotStatusSwapPending

	swap.ID = uuid.New()
	swap.TargetUserID = theirSlot.OwnerID
	swap.Status = entity.SwapStatusPending
	swap.CreatedAt = time.Now()
	swap.UpdatedAt = time.Now()
	cp := *swap
	r.world.swaps[swap.ID] = &cp
	return nil
}

func (r *fakeSwapRepo) Resolve(ctx context.Context, requestID uuid.UUID, newStatus entity.SwapStatus, exchangeOwners bool) error {
	r.world.mu.Lock()
	defer r.world.mu.Unlock()

	swap, ok := r.world.swaps[requestID]
	if !ok || swap.Status != entity.SwapStatusPending {
		return repository.ErrAlreadyResolved
	}

	now := time.Now()
	swap.Status = newStatus
	swap.RespondedAt = &now

	mySlot := r.world.slots[swap.MySlotID]
	theirSlot := r.world.slots[swap.TheirSlotID]
	if exchangeOwners {
		mySlot.OwnerID, theirSlot.OwnerID = theirSlot.OwnerID, mySlot.OwnerID
		mySlot.Status = slotEntity.SlotStatusBusy
		theirSlot.Status = slotEntity.SlotStatusBusy
	} else {
		mySlot.Status = slotEntity.SlotStatusSwappable
		theirSlot.Status = slotEntity.SlotStatusSwappable
	}
	return nil
}

func (r *fakeSwapRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.SwapRequest, error) {
	r.world.mu.Lock()
	defer r.world.mu.Unlock()
	swap, ok := r.world.swaps[id]
	if !ok {
		return nil, nil
	}
	cp := *swap
	return &cp, nil
}

func (r *fakeSwapRepo) GetDetailsByID(ctx context.Context, id uuid.UUID) (*entity.SwapRequestWithDetails, error) {
	r.world.mu.Lock()
	defer r.world.mu.Unlock()
	swap, ok := r.world.swaps[id]
	if !ok {
		return nil, nil
	}
	return r.detailsLocked(swap), nil
}

func (r *fakeSwapRepo) GetByUserID(ctx context.Context, userID uuid.UUID) ([]entity.SwapRequestWithDetails, error) {
	r.world.mu.Lock()
	defer r.world.mu.Unlock()
	var result []entity.SwapRequestWithDetails
	for _, swap := range r.world.swaps {
		if swap.RequestingUserID == userID || swap.TargetUserID == userID {
			result = append(result, *r.detailsLocked(swap))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *fakeSwapRepo) GetSwappableSlots(ctx context.Context, viewerID uuid.UUID) ([]slotEntity.SlotWithOwner, error) {
	r.world.mu.Lock()
	defer r.world.mu.Unlock()
	var result []slotEntity.SlotWithOwner
	for _, slot := range r.world.slots {
		if slot.Status == slotEntity.SlotStatusSwappable && slot.OwnerID != viewerID {
			result = append(result, slotEntity.SlotWithOwner{
				Slot:      *slot,
				OwnerName: r.world.users[slot.OwnerID],
			})
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartTime.Before(result[j].StartTime)
	})
	return result, nil
}

func (r *fakeSwapRepo) detailsLocked(swap *entity.SwapRequest) *entity.SwapRequestWithDetails {
	mySlot := r.world.slots[swap.MySlotID]
	theirSlot := r.world.slots[swap.TheirSlotID]
	return &entity.SwapRequestWithDetails{
		SwapRequest:        *swap,
		MySlotOwnerID:      mySlot.OwnerID,
		MySlotTitle:        mySlot.Title,
		MySlotStartTime:    mySlot.StartTime,
		MySlotEndTime:      mySlot.EndTime,
		MySlotStatus:       mySlot.Status,
		TheirSlotOwnerID:   theirSlot.OwnerID,
		TheirSlotTitle:     theirSlot.Title,
		TheirSlotStartTime: theirSlot.StartTime,
		TheirSlotEndTime:   theirSlot.EndTime,
		TheirSlotStatus:    theirSlot.Status,
		RequestingUserName: r.world.users[swap.RequestingUserID],
		TargetUserName:     r.world.users[swap.TargetUserID],
	}
}

func newTestService(world *fakeWorld) SwapServiceInterface {
	return NewSwapService(&fakeSwapRepo{world: world}, &fakeSlotRepo{world: world}, nil)
}

func TestProposeSwap(t *testing.T) {
	ctx := context.Background()

	t.Run("locks both slots and opens a pending request", func(t *testing.T) {
		world := newFakeWorld()
		alice := world.addUser("Alice")
		bob := world.addUser("Bob")
		mine := world.addSlot(alice, "Alice 9am", slotEntity.SlotStatusSwappable)
		theirs := world.addSlot(bob, "Bob 2pm", slotEntity.SlotStatusSwappable)
		svc := newTestService(world)

		resp, appErr := svc.ProposeSwap(ctx, alice, &dto.CreateSwapRequest{
			MySlotID: mine.ID, TheirSlotID: theirs.ID,
		})
		require.Nil(t, appErr)
		assert.Equal(t, entity.SwapStatusPending, resp.Status)
		assert.Equal(t, alice, resp.RequestingUserID)
		assert.Equal(t, bob, resp.TargetUserID)
		assert.Equal(t, "Bob", resp.TargetUserName)
		assert.True(t, strings.HasPrefix(resp.Reference, "SW-"))
		assert.Equal(t, slotEntity.SlotStatusSwapPending, world.slotStatus(mine.ID))
		assert.Equal(t, slotEntity.SlotStatusSwapPending, world.slotStatus(theirs.ID))
	})

	t.Run("not found when either slot is missing", func(t *testing.T) {
		world := newFakeWorld()
		alice := world.addUser("Alice")
		mine := world.addSlot(alice, "Alice 9am", slotEntity.SlotStatusSwappable)
		svc := newTestService(world)

		_, appErr := svc.ProposeSwap(ctx, alice, &dto.CreateSwapRequest{
			MySlotID: mine.ID, TheirSlotID: uuid.New(),
		})
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrNotFound, appErr.Code)
	})

	t.Run("forbidden when offering a slot you do not own", func(t *testing.T) {
		world := newFakeWorld()
		alice := world.addUser("Alice")
		bob := world.addUser("Bob")
		carol := world.addUser("Carol")
		bobs := world.addSlot(bob, "Bob 2pm", slotEntity.SlotStatusSwappable)
		carols := world.addSlot(carol, "Carol 4pm", slotEntity.SlotStatusSwappable)
		svc := newTestService(world)

		_, appErr := svc.ProposeSwap(ctx, alice, &dto.CreateSwapRequest{
			MySlotID: bobs.ID, TheirSlotID: carols.ID,
		})
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrForbidden, appErr.Code)
	})

	t.Run("cannot swap with your own slot", func(t *testing.T) {
		world := newFakeWorld()
		alice := world.addUser("Alice")
		first := world.addSlot(alice, "Alice 9am", slotEntity.SlotStatusSwappable)
		second := world.addSlot(alice, "Alice 2pm", slotEntity.SlotStatusSwappable)
		svc := newTestService(world)

		_, appErr := svc.ProposeSwap(ctx, alice, &dto.CreateSwapRequest{
			MySlotID: first.ID, TheirSlotID: second.ID,
		})
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrInvalidOperation, appErr.Code)
		assert.Equal(t, "cannot swap with your own slot", appErr.Message)
	})

	t.Run("both slots must be swappable", func(t *testing.T) {
		world := newFakeWorld()
		alice := world.addUser("Alice")
		bob := world.addUser("Bob")
		mine := world.addSlot(alice, "Alice 9am", slotEntity.SlotStatusSwappable)
		theirs := world.addSlot(bob, "Bob 2pm", slotEntity.SlotStatusBusy)
		svc := newTestService(world)

		_, appErr := svc.ProposeSwap(ctx, alice, &dto.CreateSwapRequest{
			MySlotID: mine.ID, TheirSlotID: theirs.ID,
		})
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrInvalidOperation, appErr.Code)
		assert.Equal(t, "both slots must be swappable", appErr.Message)

		// Nothing was written
		assert.Equal(t, slotEntity.SlotStatusSwappable, world.slotStatus(mine.ID))
		assert.Equal(t, slotEntity.SlotStatusBusy, world.slotStatus(theirs.ID))
	})

	t.Run("ownership check precedes status check", func(t *testing.T) {
		world := newFakeWorld()
		alice := world.addUser("Alice")
		bob := world.addUser("Bob")
		bobs := world.addSlot(bob, "Bob 2pm", slotEntity.SlotStatusBusy)
		theirs := world.addSlot(bob, "Bob 4pm", slotEntity.SlotStatusBusy)
		svc := newTestService(world)

		// Both checks would fail; the ownership failure must win
		_, appErr := svc.ProposeSwap(ctx, alice, &dto.CreateSwapRequest{
			MySlotID: bobs.ID, TheirSlotID: theirs.ID,
		})
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrForbidden, appErr.Code)
	})

	t.Run("write guard catches a counterpart slot the requester now owns", func(t *testing.T) {
		world := newFakeWorld()
		alice := world.addUser("Alice")
		mine := world.addSlot(alice, "Alice 9am", slotEntity.SlotStatusSwappable)
		acquired := world.addSlot(alice, "Formerly Bob's 2pm", slotEntity.SlotStatusSwappable)
		repo := &fakeSwapRepo{world: world}

		// An earlier read saw another owner on the counterpart slot; by the
		// time the write runs, an accepted swap has handed it to the requester
		err := repo.Propose(ctx, &entity.SwapRequest{
			MySlotID:         mine.ID,
			TheirSlotID:      acquired.ID,
			RequestingUserID: alice,
		})
		assert.Equal(t, repository.ErrSlotUnavailable, err)

		// Nothing was written: no locks taken, no ledger row
		assert.Equal(t, slotEntity.SlotStatusSwappable, world.slotStatus(mine.ID))
		assert.Equal(t, slotEntity.SlotStatusSwappable, world.slotStatus(acquired.ID))
		assert.Empty(t, world.swaps)
	})

	t.Run("write guard catches an offered slot the requester lost", func(t *testing.T) {
		world := newFakeWorld()
		alice := world.addUser("Alice")
		bob := world.addUser("Bob")
		lost := world.addSlot(bob, "Formerly Alice's 9am", slotEntity.SlotStatusSwappable)
		theirs := world.addSlot(bob, "Bob 2pm", slotEntity.SlotStatusSwappable)
		repo := &fakeSwapRepo{world: world}

		err := repo.Propose(ctx, &entity.SwapRequest{
			MySlotID:         lost.ID,
			TheirSlotID:      theirs.ID,
			RequestingUserID: alice,
		})
		assert.Equal(t, repository.ErrSlotUnavailable, err)
		assert.Empty(t, world.swaps)
	})

	t.Run("crossed proposals settle cleanly", func(t *testing.T) {
		world := newFakeWorld()
		alice := world.addUser("Alice")
		bob := world.addUser("Bob")
		alices := world.addSlot(alice, "Alice 9am", slotEntity.SlotStatusSwappable)
		bobs := world.addSlot(bob, "Bob 2pm", slotEntity.SlotStatusSwappable)
		svc := newTestService(world)

		// A offers her slot for B's while B simultaneously offers his for hers
		var wg sync.WaitGroup
		results := make([]*errors.AppError, 2)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, results[0] = svc.ProposeSwap(ctx, alice, &dto.CreateSwapRequest{
				MySlotID: alices.ID, TheirSlotID: bobs.ID,
			})
		}()
		go func() {
			defer wg.Done()
			_, results[1] = svc.ProposeSwap(ctx, bob, &dto.CreateSwapRequest{
				MySlotID: bobs.ID, TheirSlotID: alices.ID,
			})
		}()
		wg.Wait()

		wins := 0
		for _, appErr := range results {
			if appErr == nil {
				wins++
			} else {
				assert.Equal(t, errors.ErrInvalidOperation, appErr.Code)
			}
		}
		assert.Equal(t, 1, wins)
		assert.Equal(t, slotEntity.SlotStatusSwapPending, world.slotStatus(alices.ID))
		assert.Equal(t, slotEntity.SlotStatusSwapPending, world.slotStatus(bobs.ID))
	})

	t.Run("only one of two racing proposals wins a slot", func(t *testing.T) {
		world := newFakeWorld()
		alice := world.addUser("Alice")
		bob := world.addUser("Bob")
		carol := world.addUser("Carol")
		alices := world.addSlot(alice, "Alice 9am", slotEntity.SlotStatusSwappable)
		bobs := world.addSlot(bob, "Bob 2pm", slotEntity.SlotStatusSwappable)
		carols := world.addSlot(carol, "Carol 4pm", slotEntity.SlotStatusSwappable)
		svc := newTestService(world)

		var wg sync.WaitGroup
		results := make([]*errors.AppError, 2)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, results[0] = svc.ProposeSwap(ctx, alice, &dto.CreateSwapRequest{
				MySlotID: alices.ID, TheirSlotID: carols.ID,
			})
		}()
		go func() {
			defer wg.Done()
			_, results[1] = svc.ProposeSwap(ctx, bob, &dto.CreateSwapRequest{
				MySlotID: bobs.ID, TheirSlotID: carols.ID,
			})
		}()
		wg.Wait()

		wins := 0
		for _, appErr := range results {
			if appErr == nil {
				wins++
			} else {
				assert.Equal(t, errors.ErrInvalidOperation, appErr.Code)
			}
		}
		assert.Equal(t, 1, wins)
		assert.Equal(t, slotEntity.SlotStatusSwapPending, world.slotStatus(carols.ID))
	})
}

func TestRespondToSwap(t *testing.T) {
	ctx := context.Background()

	// propose sets up Alice -> Bob and returns the request ID
	propose := func(t *testing.T, world *fakeWorld, svc SwapServiceInterface, alice, bob uuid.UUID, mine, theirs uuid.UUID) uuid.UUID {
		t.Helper()
		resp, appErr := svc.ProposeSwap(ctx, alice, &dto.CreateSwapRequest{
			MySlotID: mine, TheirSlotID: theirs,
		})
		require.Nil(t, appErr)
		return resp.ID
	}

	t.Run("accept exchanges ownership and finalizes both slots", func(t *testing.T) {
		world := newFakeWorld()
		alice := world.addUser("Alice")
		bob := world.addUser("Bob")
		mine := world.addSlot(alice, "Alice 9am", slotEntity.SlotStatusSwappable)
		theirs := world.addSlot(bob, "Bob 2pm", slotEntity.SlotStatusSwappable)
		svc := newTestService(world)
		requestID := propose(t, world, svc, alice, bob, mine.ID, theirs.ID)

		resp, appErr := svc.RespondToSwap(ctx, bob, requestID, ActionAccept)
		require.Nil(t, appErr)
		assert.Equal(t, entity.SwapStatusAccepted, resp.Status)
		assert.NotNil(t, resp.RespondedAt)

		assert.Equal(t, bob, world.slotOwner(mine.ID))
		assert.Equal(t, alice, world.slotOwner(theirs.ID))
		assert.Equal(t, slotEntity.SlotStatusBusy, world.slotStatus(mine.ID))
		assert.Equal(t, slotEntity.SlotStatusBusy, world.slotStatus(theirs.ID))
	})

	t.Run("reject releases both slots back to the marketplace", func(t *testing.T) {
		world := newFakeWorld()
		alice := world.addUser("Alice")
		bob := world.addUser("Bob")
		mine := world.addSlot(alice, "Alice 9am", slotEntity.SlotStatusSwappable)
		theirs := world.addSlot(bob, "Bob 2pm", slotEntity.SlotStatusSwappable)
		svc := newTestService(world)
		requestID := propose(t, world, svc, alice, bob, mine.ID, theirs.ID)

		resp, appErr := svc.RespondToSwap(ctx, bob, requestID, ActionReject)
		require.Nil(t, appErr)
		assert.Equal(t, entity.SwapStatusRejected, resp.Status)

		assert.Equal(t, alice, world.slotOwner(mine.ID))
		assert.Equal(t, bob, world.slotOwner(theirs.ID))
		assert.Equal(t, slotEntity.SlotStatusSwappable, world.slotStatus(mine.ID))
		assert.Equal(t, slotEntity.SlotStatusSwappable, world.slotStatus(theirs.ID))
	})

	t.Run("only the target may respond", func(t *testing.T) {
		world := newFakeWorld()
		alice := world.addUser("Alice")
		bob := world.addUser("Bob")
		mine := world.addSlot(alice, "Alice 9am", slotEntity.SlotStatusSwappable)
		theirs := world.addSlot(bob, "Bob 2pm", slotEntity.SlotStatusSwappable)
		svc := newTestService(world)
		requestID := propose(t, world, svc, alice, bob, mine.ID, theirs.ID)

		// The requester cannot answer their own proposal
		_, appErr := svc.RespondToSwap(ctx, alice, requestID, ActionAccept)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrForbidden, appErr.Code)
	})

	t.Run("rejects unknown action", func(t *testing.T) {
		world := newFakeWorld()
		svc := newTestService(world)

		_, appErr := svc.RespondToSwap(ctx, uuid.New(), uuid.New(), "maybe")
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
	})

	t.Run("second response hits a resolved request", func(t *testing.T) {
		world := newFakeWorld()
		alice := world.addUser("Alice")
		bob := world.addUser("Bob")
		mine := world.addSlot(alice, "Alice 9am", slotEntity.SlotStatusSwappable)
		theirs := world.addSlot(bob, "Bob 2pm", slotEntity.SlotStatusSwappable)
		svc := newTestService(world)
		requestID := propose(t, world, svc, alice, bob, mine.ID, theirs.ID)

		_, appErr := svc.RespondToSwap(ctx, bob, requestID, ActionAccept)
		require.Nil(t, appErr)

		_, appErr = svc.RespondToSwap(ctx, bob, requestID, ActionReject)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrInvalidOperation, appErr.Code)
		assert.Equal(t, "swap request already resolved", appErr.Message)

		// The accepted outcome stands
		assert.Equal(t, bob, world.slotOwner(mine.ID))
		assert.Equal(t, slotEntity.SlotStatusBusy, world.slotStatus(mine.ID))
	})

	t.Run("concurrent responses resolve exactly once", func(t *testing.T) {
		world := newFakeWorld()
		alice := world.addUser("Alice")
		bob := world.addUser("Bob")
		mine := world.addSlot(alice, "Alice 9am", slotEntity.SlotStatusSwappable)
		theirs := world.addSlot(bob, "Bob 2pm", slotEntity.SlotStatusSwappable)
		svc := newTestService(world)
		requestID := propose(t, world, svc, alice, bob, mine.ID, theirs.ID)

		var wg sync.WaitGroup
		results := make([]*errors.AppError, 2)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, results[0] = svc.RespondToSwap(ctx, bob, requestID, ActionAccept)
		}()
		go func() {
			defer wg.Done()
			_, results[1] = svc.RespondToSwap(ctx, bob, requestID, ActionReject)
		}()
		wg.Wait()

		wins := 0
		for _, appErr := range results {
			if appErr == nil {
				wins++
			} else {
				assert.Equal(t, errors.ErrInvalidOperation, appErr.Code)
			}
		}
		assert.Equal(t, 1, wins)
	})

	t.Run("not found for unknown request", func(t *testing.T) {
		world := newFakeWorld()
		bob := world.addUser("Bob")
		svc := newTestService(world)

		_, appErr := svc.RespondToSwap(ctx, bob, uuid.New(), ActionAccept)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrNotFound, appErr.Code)
	})
}

func TestCancelSwap(t *testing.T) {
	ctx := context.Background()

	t.Run("requester withdraws a pending proposal", func(t *testing.T) {
		world := newFakeWorld()
		alice := world.addUser("Alice")
		bob := world.addUser("Bob")
		mine := world.addSlot(alice, "Alice 9am", slotEntity.SlotStatusSwappable)
		theirs := world.addSlot(bob, "Bob 2pm", slotEntity.SlotStatusSwappable)
		svc := newTestService(world)

		created, appErr := svc.ProposeSwap(ctx, alice, &dto.CreateSwapRequest{
			MySlotID: mine.ID, TheirSlotID: theirs.ID,
		})
		require.Nil(t, appErr)

		resp, appErr := svc.CancelSwap(ctx, alice, created.ID)
		require.Nil(t, appErr)
		assert.Equal(t, entity.SwapStatusCancelled, resp.Status)
		assert.Equal(t, slotEntity.SlotStatusSwappable, world.slotStatus(mine.ID))
		assert.Equal(t, slotEntity.SlotStatusSwappable, world.slotStatus(theirs.ID))
	})

	t.Run("target may not cancel", func(t *testing.T) {
		world := newFakeWorld()
		alice := world.addUser("Alice")
		bob := world.addUser("Bob")
		mine := world.addSlot(alice, "Alice 9am", slotEntity.SlotStatusSwappable)
		theirs := world.addSlot(bob, "Bob 2pm", slotEntity.SlotStatusSwappable)
		svc := newTestService(world)

		created, appErr := svc.ProposeSwap(ctx, alice, &dto.CreateSwapRequest{
			MySlotID: mine.ID, TheirSlotID: theirs.ID,
		})
		require.Nil(t, appErr)

		_, appErr = svc.CancelSwap(ctx, bob, created.ID)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrForbidden, appErr.Code)
	})

	t.Run("cannot cancel a resolved request", func(t *testing.T) {
		world := newFakeWorld()
		alice := world.addUser("Alice")
		bob := world.addUser("Bob")
		mine := world.addSlot(alice, "Alice 9am", slotEntity.SlotStatusSwappable)
		theirs := world.addSlot(bob, "Bob 2pm", slotEntity.SlotStatusSwappable)
		svc := newTestService(world)

		created, appErr := svc.ProposeSwap(ctx, alice, &dto.CreateSwapRequest{
			MySlotID: mine.ID, TheirSlotID: theirs.ID,
		})
		require.Nil(t, appErr)

		_, appErr = svc.RespondToSwap(ctx, bob, created.ID, ActionAccept)
		require.Nil(t, appErr)

		_, appErr = svc.CancelSwap(ctx, alice, created.ID)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrInvalidOperation, appErr.Code)
	})
}

func TestGetSwappableSlots(t *testing.T) {
	ctx := context.Background()
	world := newFakeWorld()
	alice := world.addUser("Alice")
	bob := world.addUser("Bob")
	carol := world.addUser("Carol")
	world.addSlot(alice, "Alice 9am", slotEntity.SlotStatusSwappable)
	bobs := world.addSlot(bob, "Bob 2pm", slotEntity.SlotStatusSwappable)
	carols := world.addSlot(carol, "Carol 4pm", slotEntity.SlotStatusSwappable)
	world.addSlot(bob, "Bob busy", slotEntity.SlotStatusBusy)
	world.addSlot(carol, "Carol pending", slotEntity.SlotStatusSwapPending)
	svc := newTestService(world)

	resp, appErr := svc.GetSwappableSlots(ctx, alice)
	require.Nil(t, appErr)
	require.Len(t, resp, 2)

	ids := []uuid.UUID{resp[0].ID, resp[1].ID}
	assert.Contains(t, ids, bobs.ID)
	assert.Contains(t, ids, carols.ID)
	for _, slot := range resp {
		assert.NotEqual(t, alice, slot.OwnerID)
		assert.Equal(t, slotEntity.SlotStatusSwappable, slot.Status)
		assert.NotEmpty(t, slot.OwnerName)
	}
}

func TestGetMySwapRequests(t *testing.T) {
	ctx := context.Background()
	world := newFakeWorld()
	alice := world.addUser("Alice")
	bob := world.addUser("Bob")
	carol := world.addUser("Carol")
	aliceSlot := world.addSlot(alice, "Alice 9am", slotEntity.SlotStatusSwappable)
	bobSlot := world.addSlot(bob, "Bob 2pm", slotEntity.SlotStatusSwappable)
	carolSlot := world.addSlot(carol, "Carol 4pm", slotEntity.SlotStatusSwappable)
	carolSlot2 := world.addSlot(carol, "Carol 5pm", slotEntity.SlotStatusSwappable)
	svc := newTestService(world)

	_, appErr := svc.ProposeSwap(ctx, alice, &dto.CreateSwapRequest{
		MySlotID: aliceSlot.ID, TheirSlotID: bobSlot.ID,
	})
	require.Nil(t, appErr)

	_, appErr = svc.ProposeSwap(ctx, carol, &dto.CreateSwapRequest{
		MySlotID: carolSlot.ID, TheirSlotID: carolSlot2.ID,
	})
	require.NotNil(t, appErr) // own-slot proposals never enter the ledger

	resp, appErr := svc.GetMySwapRequests(ctx, alice)
	require.Nil(t, appErr)
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Requests, 1)
	assert.Equal(t, alice, resp.Requests[0].RequestingUserID)
	assert.Equal(t, bob, resp.Requests[0].TargetUserID)

	// Bob sees the same request as target
	bobView, appErr := svc.GetMySwapRequests(ctx, bob)
	require.Nil(t, appErr)
	assert.Equal(t, 1, bobView.Total)

	// Carol is involved in nothing
	carolView, appErr := svc.GetMySwapRequests(ctx, carol)
	require.Nil(t, appErr)
	assert.Equal(t, 0, carolView.Total)
}
