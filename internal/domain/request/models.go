package request

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
	StatusReturned  Status = "RETURNED"
)

type ActionType string

const (
	ActionSubmit  ActionType = "SUBMIT"
	ActionApprove ActionType = "APPROVE"
	ActionReject  ActionType = "REJECT"
	ActionReturn  ActionType = "RETURN"
	ActionCancel  ActionType = "CANCEL"
)

// SubmitStepNo is the step recorded on SUBMIT actions, which happen before the chain starts.
const SubmitStepNo = 0

// WorkAttributes flags the duties that qualify the requester for an allowance group.
type WorkAttributes struct {
	OperatingRoom  bool `json:"operatingRoom,omitempty"`
	IntensiveCare  bool `json:"intensiveCare,omitempty"`
	Emergency      bool `json:"emergency,omitempty"`
	InfectiousWard bool `json:"infectiousWard,omitempty"`
	Psychiatric    bool `json:"psychiatric,omitempty"`
	Radiation      bool `json:"radiation,omitempty"`
}

type Request struct {
	ID              int64            `json:"id"`
	UserID          int64            `json:"userId"`
	CitizenID       string           `json:"citizenId"`
	PersonnelType   string           `json:"personnelType"`
	RequestType     string           `json:"requestType"`
	RequestedAmount *decimal.Decimal `json:"requestedAmount"`
	EffectiveDate   *time.Time       `json:"effectiveDate"`
	ProfessionCode  string           `json:"professionCode"`
	WorkAttributes  WorkAttributes   `json:"workAttributes"`
	// SubmissionData is an archived legacy form payload. It is stored and returned, never interpreted.
	SubmissionData json.RawMessage `json:"submissionData,omitempty"`
	Status         Status          `json:"status"`
	CurrentStep    int             `json:"currentStep"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

type Action struct {
	ID                int64      `json:"id"`
	RequestID         int64      `json:"requestId"`
	ActorID           int64      `json:"actorId"`
	StepNo            int        `json:"stepNo"`
	Action            ActionType `json:"action"`
	Comment           string     `json:"comment"`
	SignatureSnapshot []byte     `json:"-"`
	HasSignature      bool       `json:"hasSignature"`
	ActionDate        time.Time  `json:"actionDate"`
}

type CreateInput struct {
	CitizenID       string
	PersonnelType   string
	RequestType     string
	RequestedAmount *decimal.Decimal
	EffectiveDate   *time.Time
	ProfessionCode  string
	WorkAttributes  WorkAttributes
	SubmissionData  json.RawMessage
}

type ListFilter struct {
	UserID *int64
	Status Status
	Step   int
	Limit  int
	Offset int
}

type BatchFailure struct {
	ID     int64  `json:"id"`
	Reason string `json:"reason"`
}

type BatchResult struct {
	Success []int64        `json:"success"`
	Failed  []BatchFailure `json:"failed"`
}
