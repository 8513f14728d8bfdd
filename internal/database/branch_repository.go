package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/grandstay/hotelchain-backend/internal/models"
	"github.com/jmoiron/sqlx"
)

// BranchRepository handles branch and room-type database operations
type BranchRepository struct {
	db *sqlx.DB
}

// NewBranchRepository creates a new BranchRepository
func NewBranchRepository(db *sqlx.DB) *BranchRepository {
	return &BranchRepository{db: db}
}

// CreateBranch inserts a new branch.
func (r *BranchRepository) CreateBranch(branch *models.Branch) error {
	branch.ID = uuid.New()
	branch.CreatedAt = time.Now()
	branch.UpdatedAt = branch.CreatedAt

	_, err := r.db.Exec(`
		INSERT INTO branches (id, name, location, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		branch.ID, branch.Name, branch.Location, branch.CreatedAt, branch.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create branch: %w", err)
	}
	return nil
}

// GetBranchByID retrieves a branch. Returns (nil, nil) when not found.
func (r *BranchRepository) GetBranchByID(id uuid.UUID) (*models.Branch, error) {
	var branch models.Branch
	err := r.db.Get(&branch, `
		SELECT id, name, location, created_at, updated_at
		FROM branches WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get branch: %w", err)
	}
	return &branch, nil
}

// ListBranches returns all branches ordered by name.
func (r *BranchRepository) ListBranches() ([]models.Branch, error) {
	var branches []models.Branch
	err := r.db.Select(&branches, `
		SELECT id, name, location, created_at, updated_at
		FROM branches ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	return branches, nil
}

// CreateRoomType inserts a new room-type definition.
func (r *BranchRepository) CreateRoomType(rt *models.RoomType) error {
	rt.ID = uuid.New()
	rt.CreatedAt = time.Now()

	_, err := r.db.Exec(`
		INSERT INTO room_types (id, name, base_price, created_at)
		VALUES ($1, $2, $3, $4)`,
		rt.ID, rt.Name, rt.BasePrice, rt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create room type: %w", err)
	}
	return nil
}

// GetRoomTypeByID retrieves a room type. Returns (nil, nil) when not found.
func (r *BranchRepository) GetRoomTypeByID(id uuid.UUID) (*models.RoomType, error) {
	var rt models.RoomType
	err := r.db.Get(&rt, `
		SELECT id, name, base_price, created_at
		FROM room_types WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room type: %w", err)
	}
	return &rt, nil
}

// ListRoomTypes returns all room types ordered by name.
func (r *BranchRepository) ListRoomTypes() ([]models.RoomType, error) {
	var types []models.RoomType
	err := r.db.Select(&types, `
		SELECT id, name, base_price, created_at
		FROM room_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list room types: %w", err)
	}
	return types, nil
}
