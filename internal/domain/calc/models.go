package calc

import (
	"time"

	"github.com/shopspring/decimal"
)

type MovementType string

const (
	MovementEntry       MovementType = "ENTRY"
	MovementResign      MovementType = "RESIGN"
	MovementRetire      MovementType = "RETIRE"
	MovementDeath       MovementType = "DEATH"
	MovementTransferOut MovementType = "TRANSFER_OUT"
	MovementStudy       MovementType = "STUDY"
)

const (
	LicenseStatusActive = "ACTIVE"

	RemarkStudyLeave = "ลาศึกษาต่อ"
)

// Eligibility is one rate interval of a citizen. ExpiryDate nil means open-ended.
type Eligibility struct {
	ID            int64
	CitizenID     string
	MasterRateID  int64
	Amount        decimal.Decimal
	EffectiveDate time.Time
	ExpiryDate    *time.Time
	IsActive      bool
}

type Movement struct {
	ID            int64
	CitizenID     string
	Type          MovementType
	EffectiveDate time.Time
	Remark        string
}

type License struct {
	ID             int64
	CitizenID      string
	LicenseName    string
	LicenseType    string
	OccupationName string
	ValidFrom      time.Time
	ValidUntil     time.Time
	Status         string
}

type Leave struct {
	ID           int64
	CitizenID    string
	LeaveType    string
	StartDate    time.Time
	EndDate      time.Time
	DurationDays decimal.Decimal
	FiscalYear   int
	Status       string
	RefID        string
}

type Profile struct {
	CitizenID     string
	PositionName  string
	Specialist    string
	Expert        string
	SubDepartment string
}

type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type WorkPeriods struct {
	Periods []Period `json:"periods"`
	Remark  string   `json:"remark"`
}

type Result struct {
	CitizenID          string          `json:"citizenId"`
	Year               int             `json:"year"`
	Month              int             `json:"month"`
	NetPayment         decimal.Decimal `json:"netPayment"`
	TotalDeductionDays decimal.Decimal `json:"totalDeductionDays"`
	ValidLicenseDays   int             `json:"validLicenseDays"`
	EligibleDays       decimal.Decimal `json:"eligibleDays"`
	Remark             string          `json:"remark"`
	MasterRateID       *int64          `json:"masterRateId"`
	RateSnapshot       decimal.Decimal `json:"rateSnapshot"`
}

type RetroDetail struct {
	Month  int             `json:"month"`
	Year   int             `json:"year"`
	Diff   decimal.Decimal `json:"diff"`
	Remark string          `json:"remark"`
}

type RetroResult struct {
	TotalRetro decimal.Decimal `json:"totalRetro"`
	Details    []RetroDetail   `json:"details"`
}

type YearMonth struct {
	Year  int
	Month int
}

func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

func (ym YearMonth) Next() YearMonth {
	if ym.Month == 12 {
		return YearMonth{Year: ym.Year + 1, Month: 1}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month + 1}
}

// AddMonths moves ym by n months, n may be negative.
func (ym YearMonth) AddMonths(n int) YearMonth {
	t := time.Date(ym.Year, time.Month(ym.Month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	return YearMonth{Year: t.Year(), Month: int(t.Month())}
}
