package eligibility

import (
	"time"

	"github.com/shopspring/decimal"
)

type MasterRate struct {
	ID             int64           `json:"id"`
	ProfessionCode string          `json:"professionCode"`
	GroupNo        int             `json:"groupNo"`
	ItemNo         string          `json:"itemNo"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description"`
	IsActive       bool            `json:"isActive"`
}

type Eligibility struct {
	ID            int64      `json:"id"`
	CitizenID     string     `json:"citizenId"`
	MasterRateID  int64      `json:"masterRateId"`
	RequestID     *int64     `json:"requestId,omitempty"`
	EffectiveDate time.Time  `json:"effectiveDate"`
	ExpiryDate    *time.Time `json:"expiryDate,omitempty"`
	IsActive      bool       `json:"isActive"`
}

// FinalizeInput is what an approved request contributes to a new eligibility.
type FinalizeInput struct {
	RequestID       int64
	CitizenID       string
	ProfessionCode  string
	RequestedAmount decimal.Decimal
	EffectiveDate   time.Time
}
