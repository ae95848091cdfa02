package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/SujalTripathi/slotswapper/core/database"
	"github.com/SujalTripathi/slotswapper/core/logger"
	"github.com/SujalTripathi/slotswapper/modules/slot/entity"

	"github.com/google/uuid"
)

// ErrStatusConflict is returned when a compare-and-set write finds the slot's
// status changed since it was read (another request won the race)
var ErrStatusConflict = errors.New("slot status changed concurrently")

// SlotRepository handles slot database operations (slots table)
type SlotRepository struct {
	DB database.Database
}

// SlotRepositoryInterface defines the repository contract
type SlotRepositoryInterface interface {
	Create(ctx context.Context, slot *entity.Slot) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Slot, error)
	GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]entity.Slot, error)
	Update(ctx context.Context, slot *entity.Slot, expectedStatus entity.SlotStatus) error
	Delete(ctx context.Context, id uuid.UUID, expectedStatus entity.SlotStatus) error
}

func NewSlotRepository(db database.Database) *SlotRepository {
	return &SlotRepository{DB: db}
}

func (r *SlotRepository) Create(ctx context.Context, slot *entity.Slot) error {
	query := `
		INSERT INTO slots (owner_id, title, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	row := r.DB.QueryRowContext(ctx, query,
		slot.OwnerID, slot.Title, slot.StartTime, slot.EndTime, slot.Status)
	if err := row.Scan(&slot.ID, &slot.CreatedAt, &slot.UpdatedAt); err != nil {
		logger.Error("SlotRepository:Create", err)
		return err
	}
	return nil
}

func (r *SlotRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Slot, error) {
	query := `
		SELECT id, owner_id, title, start_time, end_time, status, created_at, updated_at
		FROM slots WHERE id = $1
	`
	var slot entity.Slot
	err := r.DB.GetContext(ctx, &slot, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("SlotRepository:GetByID", err)
		return nil, err
	}
	return &slot, nil
}

func (r *SlotRepository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]entity.Slot, error) {
	query := `
		SELECT id, owner_id, title, start_time, end_time, status, created_at, updated_at
		FROM slots
		WHERE owner_id = $1
		ORDER BY start_time ASC
	`
	var slots []entity.Slot
	err := r.DB.SelectContext(ctx, &slots, query, ownerID)
	if err != nil {
		logger.Error("SlotRepository:GetByOwnerID", err)
		return nil, err
	}
	return slots, nil
}

// Update applies the full field set with a compare-and-set on the status the
// caller read. A raced row (status moved, e.g. into SWAP_PENDING) is reported
// as ErrStatusConflict and nothing is written.
func (r *SlotRepository) Update(ctx context.Context, slot *entity.Slot, expectedStatus entity.SlotStatus) error {
	query := `
		UPDATE slots
		SET title = $2, start_time = $3, end_time = $4, status = $5, updated_at = NOW()
		WHERE id = $1 AND status = $6
	`
	result, err := r.DB.SQLx().ExecContext(ctx, query,
		slot.ID, slot.Title, slot.StartTime, slot.EndTime, slot.Status, expectedStatus)
	if err != nil {
		logger.Error("SlotRepository:Update", err)
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		logger.Error("SlotRepository:Update - RowsAffected", err)
		return err
	}
	if rowsAffected == 0 {
		return ErrStatusConflict
	}
	return nil
}

// Delete removes the slot with a compare-and-set on the status the caller read
func (r *SlotRepository) Delete(ctx context.Context, id uuid.UUID, expectedStatus entity.SlotStatus) error {
	query := `DELETE FROM slots WHERE id = $1 AND status = $2`
	result, err := r.DB.SQLx().ExecContext(ctx, query, id, expectedStatus)
	if err != nil {
		logger.Error("SlotRepository:Delete", err)
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		logger.Error("SlotRepository:Delete - RowsAffected", err)
		return err
	}
	if rowsAffected == 0 {
		return ErrStatusConflict
	}
	return nil
}
