package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SujalTripathi/slotswapper/core/errors"
	"github.com/SujalTripathi/slotswapper/modules/slot/dto"
	"github.com/SujalTripathi/slotswapper/modules/slot/entity"
	"github.com/SujalTripathi/slotswapper/modules/slot/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSlotRepository is an in-memory SlotRepositoryInterface with the same
// compare-and-set semantics as the real one: writes succeed only when the
// stored status still matches the expected status.
type fakeSlotRepository struct {
	mu    sync.Mutex
	slots map[uuid.UUID]*entity.Slot
}

func newFakeSlotRepository() *fakeSlotRepository {
	return &fakeSlotRepository{slots: make(map[uuid.UUID]*entity.Slot)}
}

func (r *fakeSlotRepository) Create(ctx context.Context, slot *entity.Slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot.ID = uuid.New()
	slot.CreatedAt = time.Now()
	slot.UpdatedAt = time.Now()
	cp := *slot
	r.slots[slot.ID] = &cp
	return nil
}

func (r *fakeSlotRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, ok := r.slots[id]
	if !ok {
		return nil, nil
	}
	cp := *slot
	return &cp, nil
}

func (r *fakeSlotRepository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]entity.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []entity.Slot
	for _, slot := range r.slots {
		if slot.OwnerID == ownerID {
			result = append(result, *slot)
		}
	}
	return result, nil
}

func (r *fakeSlotRepository) Update(ctx context.Context, slot *entity.Slot, expectedStatus entity.SlotStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.slots[slot.ID]
	if !ok || stored.Status != expectedStatus {
		return repository.ErrStatusConflict
	}
	slot.UpdatedAt = time.Now()
	cp := *slot
	r.slots[slot.ID] = &cp
	return nil
}

func (r *fakeSlotRepository) Delete(ctx context.Context, id uuid.UUID, expectedStatus entity.SlotStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.slots[id]
	if !ok || stored.Status != expectedStatus {
		return repository.ErrStatusConflict
	}
	delete(r.slots, id)
	return nil
}

// seed inserts a slot directly, bypassing service validation
func (r *fakeSlotRepository) seed(ownerID uuid.UUID, status entity.SlotStatus) *entity.Slot {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot := &entity.Slot{
		OwnerID:   ownerID,
		Title:     "Team sync",
		StartTime: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 9, 1, 11, 0, 0, 0, time.UTC),
		Status:    status,
	}
	slot.ID = uuid.New()
	r.slots[slot.ID] = slot
	cp := *slot
	return &cp
}

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestCreateSlot(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	t.Run("defaults to BUSY", func(t *testing.T) {
		svc := NewSlotService(newFakeSlotRepository())
		resp, appErr := svc.CreateSlot(ctx, ownerID, &dto.CreateSlotRequest{
			Title: "Standup", StartTime: start, EndTime: end,
		})
		require.Nil(t, appErr)
		assert.Equal(t, entity.SlotStatusBusy, resp.Status)
		assert.Equal(t, ownerID, resp.OwnerID)
		assert.NotEqual(t, uuid.Nil, resp.ID)
	})

	t.Run("explicit SWAPPABLE allowed", func(t *testing.T) {
		svc := NewSlotService(newFakeSlotRepository())
		resp, appErr := svc.CreateSlot(ctx, ownerID, &dto.CreateSlotRequest{
			Title: "Standup", StartTime: start, EndTime: end, Status: strPtr("SWAPPABLE"),
		})
		require.Nil(t, appErr)
		assert.Equal(t, entity.SlotStatusSwappable, resp.Status)
	})

	t.Run("rejects SWAP_PENDING creation", func(t *testing.T) {
		svc := NewSlotService(newFakeSlotRepository())
		_, appErr := svc.CreateSlot(ctx, ownerID, &dto.CreateSlotRequest{
			Title: "Standup", StartTime: start, EndTime: end, Status: strPtr("SWAP_PENDING"),
		})
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrInvalidOperation, appErr.Code)
	})

	t.Run("rejects blank title", func(t *testing.T) {
		svc := NewSlotService(newFakeSlotRepository())
		_, appErr := svc.CreateSlot(ctx, ownerID, &dto.CreateSlotRequest{
			Title: "   ", StartTime: start, EndTime: end,
		})
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
	})

	t.Run("rejects end before start", func(t *testing.T) {
		svc := NewSlotService(newFakeSlotRepository())
		_, appErr := svc.CreateSlot(ctx, ownerID, &dto.CreateSlotRequest{
			Title: "Standup", StartTime: end, EndTime: start,
		})
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
	})

	t.Run("rejects zero-length slot", func(t *testing.T) {
		svc := NewSlotService(newFakeSlotRepository())
		_, appErr := svc.CreateSlot(ctx, ownerID, &dto.CreateSlotRequest{
			Title: "Standup", StartTime: start, EndTime: start,
		})
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
	})
}

func TestUpdateSlot(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("not found", func(t *testing.T) {
		svc := NewSlotService(newFakeSlotRepository())
		_, appErr := svc.UpdateSlot(ctx, uuid.New(), ownerID, &dto.UpdateSlotRequest{Title: strPtr("x")})
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrNotFound, appErr.Code)
	})

	t.Run("forbidden for non-owner", func(t *testing.T) {
		repo := newFakeSlotRepository()
		slot := repo.seed(ownerID, entity.SlotStatusBusy)
		svc := NewSlotService(repo)

		_, appErr := svc.UpdateSlot(ctx, slot.ID, uuid.New(), &dto.UpdateSlotRequest{Title: strPtr("x")})
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrForbidden, appErr.Code)
	})

	t.Run("locked while under negotiation", func(t *testing.T) {
		repo := newFakeSlotRepository()
		slot := repo.seed(ownerID, entity.SlotStatusSwapPending)
		svc := NewSlotService(repo)

		_, appErr := svc.UpdateSlot(ctx, slot.ID, ownerID, &dto.UpdateSlotRequest{Title: strPtr("x")})
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrInvalidOperation, appErr.Code)
	})

	t.Run("manual toggle busy to swappable", func(t *testing.T) {
		repo := newFakeSlotRepository()
		slot := repo.seed(ownerID, entity.SlotStatusBusy)
		svc := NewSlotService(repo)

		resp, appErr := svc.UpdateSlot(ctx, slot.ID, ownerID, &dto.UpdateSlotRequest{Status: strPtr("SWAPPABLE")})
		require.Nil(t, appErr)
		assert.Equal(t, entity.SlotStatusSwappable, resp.Status)
	})

	t.Run("rejects manual move into SWAP_PENDING", func(t *testing.T) {
		repo := newFakeSlotRepository()
		slot := repo.seed(ownerID, entity.SlotStatusSwappable)
		svc := NewSlotService(repo)

		_, appErr := svc.UpdateSlot(ctx, slot.ID, ownerID, &dto.UpdateSlotRequest{Status: strPtr("SWAP_PENDING")})
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrInvalidOperation, appErr.Code)
	})

	t.Run("validates merged times", func(t *testing.T) {
		repo := newFakeSlotRepository()
		slot := repo.seed(ownerID, entity.SlotStatusBusy)
		svc := NewSlotService(repo)

		// Move start past the stored end without touching end
		_, appErr := svc.UpdateSlot(ctx, slot.ID, ownerID, &dto.UpdateSlotRequest{
			StartTime: timePtr(slot.EndTime.Add(time.Hour)),
		})
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrInvalidInput, appErr.Code)

		// Moving both keeps the edit valid
		resp, appErr := svc.UpdateSlot(ctx, slot.ID, ownerID, &dto.UpdateSlotRequest{
			StartTime: timePtr(slot.EndTime.Add(time.Hour)),
			EndTime:   timePtr(slot.EndTime.Add(2 * time.Hour)),
		})
		require.Nil(t, appErr)
		assert.True(t, resp.EndTime.After(resp.StartTime))
	})

	t.Run("lost race surfaces as invalid operation", func(t *testing.T) {
		repo := newFakeSlotRepository()
		slot := repo.seed(ownerID, entity.SlotStatusSwappable)
		_ = NewSlotService(repo)

		// Simulate the swap engine locking the slot between read and write
		repo.mu.Lock()
		repo.slots[slot.ID].Status = entity.SlotStatusSwapPending
		repo.mu.Unlock()

		// Service re-reads, so hand it a stale view via direct repo write
		stale := *repo.slots[slot.ID]
		stale.Status = entity.SlotStatusSwappable
		err := repo.Update(ctx, &stale, entity.SlotStatusSwappable)
		assert.Equal(t, repository.ErrStatusConflict, err)
	})
}

func TestDeleteSlot(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("owner deletes busy slot", func(t *testing.T) {
		repo := newFakeSlotRepository()
		slot := repo.seed(ownerID, entity.SlotStatusBusy)
		svc := NewSlotService(repo)

		require.Nil(t, svc.DeleteSlot(ctx, slot.ID, ownerID))

		got, err := repo.GetByID(ctx, slot.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("forbidden for non-owner", func(t *testing.T) {
		repo := newFakeSlotRepository()
		slot := repo.seed(ownerID, entity.SlotStatusBusy)
		svc := NewSlotService(repo)

		appErr := svc.DeleteSlot(ctx, slot.ID, uuid.New())
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrForbidden, appErr.Code)
	})

	t.Run("forbidden while under negotiation", func(t *testing.T) {
		repo := newFakeSlotRepository()
		slot := repo.seed(ownerID, entity.SlotStatusSwapPending)
		svc := NewSlotService(repo)

		appErr := svc.DeleteSlot(ctx, slot.ID, ownerID)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrInvalidOperation, appErr.Code)

		got, err := repo.GetByID(ctx, slot.ID)
		require.NoError(t, err)
		assert.NotNil(t, got)
	})
}
