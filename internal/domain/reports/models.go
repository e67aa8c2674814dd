package reports

import "time"

type Person struct {
	CitizenID  string
	FullName   string
	Position   string
	Department string
}

type Dashboard struct {
	PendingRequests     int         `json:"pendingRequests"`
	ReturnedRequests    int         `json:"returnedRequests"`
	PendingByStep       map[int]int `json:"pendingByStep"`
	ActiveEligibilities int         `json:"activeEligibilities"`
	OpenPeriods         int         `json:"openPeriods"`
}

type JobRun struct {
	ID          string         `json:"id"`
	JobType     string         `json:"jobType"`
	Status      string         `json:"status"`
	Details     map[string]any `json:"details"`
	StartedAt   time.Time      `json:"startedAt"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
}
