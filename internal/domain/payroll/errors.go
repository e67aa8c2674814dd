package payroll

import (
	"fmt"

	"pts/internal/domain/apperr"
)

var (
	ErrPeriodNotFound = apperr.NotFound("payroll period")
	ErrPeriodNotOpen  = fmt.Errorf("%w: cannot calculate: period is not OPEN", apperr.ErrInvalidTransition)
)
