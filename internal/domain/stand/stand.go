// Package stand holds the compost stand directory types: the stands
// participants deposit at, their administrator sets, and the deposit reports
// recorded against them.
package stand

import (
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyName indicates an empty stand name
var ErrEmptyName = errors.New("stand name cannot be empty")

// CompostStand is a physical deposit point. AdminIDs is the unordered set
// of administrator account ids; it may be empty, in which case deposit
// bonuses degenerate to depositor-only credit.
type CompostStand struct {
	ID        int32       `json:"id"`
	Name      string      `json:"name"`
	AdminIDs  []uuid.UUID `json:"admin_ids"`
	CreatedAt time.Time   `json:"created_at"`
}

// NewCompostStand creates a stand with the given external id and name
func NewCompostStand(id int32, name string) (*CompostStand, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	return &CompostStand{
		ID:        id,
		Name:      name,
		CreatedAt: time.Now(),
	}, nil
}

// ErrStandNotFound indicates missing compost stand
type ErrStandNotFound struct {
	StandID int32
}

func (e ErrStandNotFound) Error() string {
	return "compost stand not found: " + strconv.FormatInt(int64(e.StandID), 10)
}

// ErrDuplicateStand indicates stand id uniqueness violation
type ErrDuplicateStand struct {
	StandID int32
}

func (e ErrDuplicateStand) Error() string {
	return "compost stand already exists: " + strconv.FormatInt(int64(e.StandID), 10)
}
