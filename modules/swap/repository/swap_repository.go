package repository

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SujalTripathi/slotswapper/core/database"
	"github.com/SujalTripathi/slotswapper/core/logger"
	slotEntity "github.com/SujalTripathi/slotswapper/modules/slot/entity"
	"github.com/SujalTripathi/slotswapper/modules/swap/entity"

	"github.com/google/uuid"
)

var (
	// ErrSlotUnavailable is returned when a slot's compare-and-set lock finds
	// it no longer SWAPPABLE (another proposal or an owner edit won the race)
	ErrSlotUnavailable = errors.New("slot is not swappable")

	// ErrAlreadyResolved is returned when the ledger row's compare-and-set
	// finds the request no longer PENDING
	ErrAlreadyResolved = errors.New("swap request already resolved")
)

// SwapRepository owns the swap_requests ledger and is the only code that moves
// slots into or out of SWAP_PENDING. Every multi-record write runs in a single
// transaction with compare-and-set status guards, so racing requests serialize
// at the database and the loser observes a clean conflict.
type SwapRepository struct {
	DB database.Database
}

// SwapRepositoryInterface defines the repository contract
type SwapRepositoryInterface interface {
	Propose(ctx context.Context, swap *entity.SwapRequest) error
	Resolve(ctx context.Context, requestID uuid.UUID, newStatus entity.SwapStatus, exchangeOwners bool) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.SwapRequest, error)
	GetDetailsByID(ctx context.Context, id uuid.UUID) (*entity.SwapRequestWithDetails, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]entity.SwapRequestWithDetails, error)
	GetSwappableSlots(ctx context.Context, viewerID uuid.UUID) ([]slotEntity.SlotWithOwner, error)
}

func NewSwapRepository(db database.Database) *SwapRepository {
	return &SwapRepository{DB: db}
}

// Propose locks both slots to SWAP_PENDING and inserts the PENDING ledger row
// as one transaction. The owners are re-captured under the transaction, never
// taken from the service's earlier reads, so ownership changes racing with the
// proposal (a just-accepted swap handing the counterpart slot to the requester)
// are caught here. Slots are locked in a fixed id order, so two crossed
// proposals cannot deadlock; the loser fails its CAS and rolls back with
// ErrSlotUnavailable.
func (r *SwapRepository) Propose(ctx context.Context, swap *entity.SwapRequest) error {
	tx, err := r.DB.SQLx().BeginTxx(ctx, nil)
	if err != nil {
		logger.Error("SwapRepository:Propose - BeginTx", err)
		return err
	}
	defer tx.Rollback()

	lockQuery := `
		UPDATE slots
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = $3
		RETURNING owner_id
	`

	lockOrder := []uuid.UUID{swap.MySlotID, swap.TheirSlotID}
	if bytes.Compare(lockOrder[1][:], lockOrder[0][:]) < 0 {
		lockOrder[0], lockOrder[1] = lockOrder[1], lockOrder[0]
	}

	owners := make(map[uuid.UUID]uuid.UUID, 2)
	for _, slotID := range lockOrder {
		var owner uuid.UUID
		err = tx.QueryRowContext(ctx, lockQuery,
			slotID, slotEntity.SlotStatusSwapPending, slotEntity.SlotStatusSwappable).Scan(&owner)
		if err != nil {
			if err == sql.ErrNoRows {
				return ErrSlotUnavailable
			}
			logger.Error("SwapRepository:Propose - LockSlot", err)
			return err
		}
		owners[slotID] = owner
	}

	if owners[swap.MySlotID] != swap.RequestingUserID {
		return ErrSlotUnavailable
	}
	if owners[swap.TheirSlotID] == swap.RequestingUserID {
		return ErrSlotUnavailable
	}
	swap.TargetUserID = owners[swap.TheirSlotID]
	swap.Status = entity.SwapStatusPending

	insertQuery := `
		INSERT INTO swap_requests (reference, my_slot_id, their_slot_id, requesting_user_id, target_user_id, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRowContext(ctx, insertQuery,
		swap.Reference, swap.MySlotID, swap.TheirSlotID, swap.RequestingUserID, swap.TargetUserID, swap.Status).
		Scan(&swap.ID, &swap.CreatedAt, &swap.UpdatedAt)
	if err != nil {
		logger.Error("SwapRepository:Propose - Insert", err)
		return err
	}

	if err := tx.Commit(); err != nil {
		logger.Error("SwapRepository:Propose - Commit", err)
		return err
	}
	return nil
}

// Resolve flips a PENDING request to its terminal status and applies the slot
// effects in one transaction. The ledger row update is a compare-and-set on
// PENDING, so of two concurrent responses exactly one applies; the other gets
// ErrAlreadyResolved and nothing is written.
//
// With exchangeOwners the two slots trade owner_id and finalize to BUSY
// (acceptance); otherwise both revert to SWAPPABLE with owners untouched
// (rejection or cancellation).
func (r *SwapRepository) Resolve(ctx context.Context, requestID uuid.UUID, newStatus entity.SwapStatus, exchangeOwners bool) error {
	tx, err := r.DB.SQLx().BeginTxx(ctx, nil)
	if err != nil {
		logger.Error("SwapRepository:Resolve - BeginTx", err)
		return err
	}
	defer tx.Rollback()

	resolveQuery := `
		UPDATE swap_requests
		SET status = $2, responded_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = $3
		RETURNING my_slot_id, their_slot_id
	`
	var mySlotID, theirSlotID uuid.UUID
	err = tx.QueryRowContext(ctx, resolveQuery, requestID, newStatus, entity.SwapStatusPending).
		Scan(&mySlotID, &theirSlotID)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrAlreadyResolved
		}
		logger.Error("SwapRepository:Resolve - UpdateRequest", err)
		return err
	}

	if exchangeOwners {
		var mySlotOwner, theirSlotOwner uuid.UUID
		ownerQuery := `SELECT owner_id FROM slots WHERE id = $1 FOR UPDATE`
		if err := tx.QueryRowContext(ctx, ownerQuery, mySlotID).Scan(&mySlotOwner); err != nil {
			logger.Error("SwapRepository:Resolve - ReadMySlotOwner", err)
			return err
		}
		if err := tx.QueryRowContext(ctx, ownerQuery, theirSlotID).Scan(&theirSlotOwner); err != nil {
			logger.Error("SwapRepository:Resolve - ReadTheirSlotOwner", err)
			return err
		}

		finalizeQuery := `
			UPDATE slots
			SET owner_id = $2, status = $3, updated_at = NOW()
			WHERE id = $1 AND status = $4
		`
		for _, upd := range []struct {
			slotID   uuid.UUID
			newOwner uuid.UUID
		}{
			{mySlotID, theirSlotOwner},
			{theirSlotID, mySlotOwner},
		} {
			result, err := tx.ExecContext(ctx, finalizeQuery,
				upd.slotID, upd.newOwner, slotEntity.SlotStatusBusy, slotEntity.SlotStatusSwapPending)
			if err != nil {
				logger.Error("SwapRepository:Resolve - ExchangeOwner", err)
				return err
			}
			rowsAffected, err := result.RowsAffected()
			if err != nil {
				logger.Error("SwapRepository:Resolve - RowsAffected", err)
				return err
			}
			if rowsAffected == 0 {
				// A pending request always holds both slots in SWAP_PENDING;
				// anything else means the ledger and slot store disagree.
				return fmt.Errorf("slot %s not locked by pending request %s", upd.slotID, requestID)
			}
		}
	} else {
		releaseQuery := `
			UPDATE slots
			SET status = $3, updated_at = NOW()
			WHERE id IN ($1, $2) AND status = $4
		`
		result, err := tx.ExecContext(ctx, releaseQuery,
			mySlotID, theirSlotID, slotEntity.SlotStatusSwappable, slotEntity.SlotStatusSwapPending)
		if err != nil {
			logger.Error("SwapRepository:Resolve - ReleaseSlots", err)
			return err
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			logger.Error("SwapRepository:Resolve - RowsAffected", err)
			return err
		}
		if rowsAffected != 2 {
			return fmt.Errorf("expected 2 slots locked by request %s, released %d", requestID, rowsAffected)
		}
	}

	if err := tx.Commit(); err != nil {
		logger.Error("SwapRepository:Resolve - Commit", err)
		return err
	}
	return nil
}

func (r *SwapRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.SwapRequest, error) {
	query := `
		SELECT id, reference, my_slot_id, their_slot_id, requesting_user_id, target_user_id,
		       status, responded_at, created_at, updated_at
		FROM swap_requests WHERE id = $1
	`
	var swap entity.SwapRequest
	err := r.DB.GetContext(ctx, &swap, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("SwapRepository:GetByID", err)
		return nil, err
	}
	return &swap, nil
}

const swapDetailsColumns = `
	sr.id, sr.reference, sr.my_slot_id, sr.their_slot_id, sr.requesting_user_id, sr.target_user_id,
	sr.status, sr.responded_at, sr.created_at, sr.updated_at,
	ms.owner_id AS my_slot_owner_id, ms.title AS my_slot_title,
	ms.start_time AS my_slot_start_time, ms.end_time AS my_slot_end_time,
	ms.status AS my_slot_status,
	ts.owner_id AS their_slot_owner_id, ts.title AS their_slot_title,
	ts.start_time AS their_slot_start_time, ts.end_time AS their_slot_end_time,
	ts.status AS their_slot_status,
	ru.name AS requesting_user_name, tu.name AS target_user_name
`

const swapDetailsJoins = `
	FROM swap_requests sr
	JOIN slots ms ON ms.id = sr.my_slot_id
	JOIN slots ts ON ts.id = sr.their_slot_id
	JOIN users ru ON ru.id = sr.requesting_user_id
	JOIN users tu ON tu.id = sr.target_user_id
`

func (r *SwapRepository) GetDetailsByID(ctx context.Context, id uuid.UUID) (*entity.SwapRequestWithDetails, error) {
	query := `SELECT ` + swapDetailsColumns + swapDetailsJoins + ` WHERE sr.id = $1`

	var details entity.SwapRequestWithDetails
	err := r.DB.GetContext(ctx, &details, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("SwapRepository:GetDetailsByID", err)
		return nil, err
	}
	return &details, nil
}

// GetByUserID returns requests in both directions for a user, newest first
func (r *SwapRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]entity.SwapRequestWithDetails, error) {
	query := `SELECT ` + swapDetailsColumns + swapDetailsJoins + `
		WHERE sr.requesting_user_id = $1 OR sr.target_user_id = $1
		ORDER BY sr.created_at DESC
	`

	var requests []entity.SwapRequestWithDetails
	err := r.DB.SelectContext(ctx, &requests, query, userID)
	if err != nil {
		logger.Error("SwapRepository:GetByUserID", err)
		return nil, err
	}
	return requests, nil
}

// GetSwappableSlots returns every SWAPPABLE slot not owned by the viewer,
// ordered by start time
func (r *SwapRepository) GetSwappableSlots(ctx context.Context, viewerID uuid.UUID) ([]slotEntity.SlotWithOwner, error) {
	query := `
		SELECT s.id, s.owner_id, s.title, s.start_time, s.end_time, s.status,
		       s.created_at, s.updated_at,
		       u.name AS owner_name, u.email AS owner_email
		FROM slots s
		JOIN users u ON u.id = s.owner_id
		WHERE s.status = $1 AND s.owner_id != $2
		ORDER BY s.start_time ASC
	`

	var slots []slotEntity.SlotWithOwner
	err := r.DB.SelectContext(ctx, &slots, query, slotEntity.SlotStatusSwappable, viewerID)
	if err != nil {
		logger.Error("SwapRepository:GetSwappableSlots", err)
		return nil, err
	}
	return slots, nil
}
