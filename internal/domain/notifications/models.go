package notifications

import "time"

const (
	TypeRequestSubmitted    = "REQUEST_SUBMITTED"
	TypeRequestStepApproved = "REQUEST_STEP_APPROVED"
	TypeRequestApproved     = "REQUEST_APPROVED"
	TypeRequestRejected     = "REQUEST_REJECTED"
	TypeRequestReturned     = "REQUEST_RETURNED"
)

type Notification struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"userId"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}
