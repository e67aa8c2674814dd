package shared

import (
	"net/http"
	"strconv"
	"time"

	"pts/internal/requestctx"
)

// ParseDate accepts RFC3339 or YYYY-MM-DD.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}

// ParseYearMonth reads the year and month query parameters, defaulting to the month of now.
func ParseYearMonth(r *http.Request, now time.Time) (int, int, []ValidationIssue) {
	year, month := now.Year(), int(now.Month())
	var issues []ValidationIssue
	if raw := r.URL.Query().Get("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 2000 || v > 2600 {
			issues = append(issues, ValidationIssue{Field: "year", Reason: "must be a Gregorian year"})
		}
		year = v
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 12 {
			issues = append(issues, ValidationIssue{Field: "month", Reason: "must be between 1 and 12"})
		}
		month = v
	}
	return year, month, issues
}

func RequestID(r *http.Request) string {
	return requestctx.GetRequestID(r.Context())
}
