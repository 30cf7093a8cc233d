package stand

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInvalidWeight indicates a non-positive deposit weight
var ErrInvalidWeight = errors.New("deposit weight must be positive")

// DryMatter is the three-valued observation of dry matter in a deposit
type DryMatter string

const (
	DryMatterYes  DryMatter = "yes"
	DryMatterSome DryMatter = "some"
	DryMatterNo   DryMatter = "no"
)

// QualityObservation carries the optional condition flags a depositor can
// report about the stand alongside a deposit. All fields are optional;
// nil means not observed.
type QualityObservation struct {
	DryMatter    *DryMatter `json:"dry_matter,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	Bugs         *bool      `json:"bugs,omitempty"`
	ScalesProblem *bool     `json:"scales_problem,omitempty"`
	Full         *bool      `json:"full,omitempty"`
	CleanAndTidy *bool      `json:"clean_and_tidy,omitempty"`
	CompostSmell *bool      `json:"compost_smell,omitempty"`
}

// DepositReport records one physical deposit event. Created once per
// deposit, immutable thereafter; the reward engine derives credit amounts
// from WeightKg and the configured rates.
type DepositReport struct {
	ID          uuid.UUID          `json:"id"`
	StandID     int32              `json:"stand_id"`
	DepositorID uuid.UUID          `json:"depositor_id"`
	WeightKg    decimal.Decimal    `json:"weight_kg"`
	Quality     QualityObservation `json:"quality"`
	CreatedAt   time.Time          `json:"created_at"`
}

// NewDepositReport creates a deposit report for the given stand and depositor
func NewDepositReport(standID int32, depositorID uuid.UUID, weightKg decimal.Decimal, quality QualityObservation) (*DepositReport, error) {
	if !weightKg.IsPositive() {
		return nil, ErrInvalidWeight
	}

	return &DepositReport{
		ID:          uuid.New(),
		StandID:     standID,
		DepositorID: depositorID,
		WeightKg:    weightKg,
		Quality:     quality,
		CreatedAt:   time.Now(),
	}, nil
}
