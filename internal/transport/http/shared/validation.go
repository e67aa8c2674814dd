package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"pts/internal/transport/http/api"
)

type ValidationIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeJSON decodes the request body into dst and runs its `validate` tags.
// On failure it writes the 400 envelope and returns false.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", RequestID(r))
			return false
		}
		api.Fail(w, http.StatusBadRequest, "invalid_json", "invalid request body", RequestID(r))
		return false
	}
	if issues := Validate(dst); len(issues) > 0 {
		FailValidation(w, RequestID(r), issues)
		return false
	}
	return true
}

// Validate runs struct tags and returns field issues sorted by field.
func Validate(v any) []ValidationIssue {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []ValidationIssue{{Reason: err.Error()}}
	}
	issues := make([]ValidationIssue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, ValidationIssue{Field: fe.Field(), Reason: reason(fe)})
	}
	sort.SliceStable(issues, func(i, j int) bool { return issues[i].Field < issues[j].Field })
	return issues
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	case "len":
		return "must have length " + fe.Param()
	case "numeric":
		return "must be numeric"
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "gt":
		return "must be greater than " + fe.Param()
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func FailValidation(w http.ResponseWriter, requestID string, issues []ValidationIssue) {
	api.FailWithDetails(
		w,
		http.StatusBadRequest,
		"validation_error",
		"payload validation failed",
		map[string]any{"fields": issues},
		requestID,
	)
}
