package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusOpen            Status = "OPEN"
	StatusWaitingHR       Status = "WAITING_HR"
	StatusWaitingDirector Status = "WAITING_DIRECTOR"
	StatusClosed          Status = "CLOSED"
)

type Action string

const (
	ActionSubmit          Action = "SUBMIT"
	ActionApproveHR       Action = "APPROVE_HR"
	ActionApproveDirector Action = "APPROVE_DIRECTOR"
	ActionReject          Action = "REJECT"
)

type ItemType string

const (
	ItemCurrent           ItemType = "CURRENT"
	ItemRetroactiveAdd    ItemType = "RETROACTIVE_ADD"
	ItemRetroactiveDeduct ItemType = "RETROACTIVE_DEDUCT"
)

type Period struct {
	ID             int64           `json:"id"`
	Month          int             `json:"month"`
	Year           int             `json:"year"`
	Status         Status          `json:"status"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	TotalHeadcount int             `json:"totalHeadcount"`
	ClosedAt       *time.Time      `json:"closedAt,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

type Payout struct {
	ID               int64           `json:"id"`
	PeriodID         int64           `json:"periodId"`
	CitizenID        string          `json:"citizenId"`
	MasterRateID     *int64          `json:"masterRateId"`
	RateSnapshot     decimal.Decimal `json:"ptsRateSnapshot"`
	CalculatedAmount decimal.Decimal `json:"calculatedAmount"`
	TotalPayable     decimal.Decimal `json:"totalPayable"`
	DeductedDays     decimal.Decimal `json:"deductedDays"`
	EligibleDays     decimal.Decimal `json:"eligibleDays"`
	Remark           string          `json:"remark"`
	Items            []PayoutItem    `json:"items,omitempty"`
}

type PayoutItem struct {
	ID             int64           `json:"id"`
	PayoutID       int64           `json:"payoutId"`
	ReferenceMonth int             `json:"referenceMonth"`
	ReferenceYear  int             `json:"referenceYear"`
	ItemType       ItemType        `json:"itemType"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description"`
}

// CalculationSummary reports one ProcessPeriodCalculation run.
type CalculationSummary struct {
	PeriodID       int64           `json:"periodId"`
	Evaluated      int             `json:"evaluated"`
	TotalHeadcount int             `json:"totalHeadcount"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
}
