package eligibility

import (
	"fmt"

	"pts/internal/domain/apperr"
)

var (
	ErrRateNotFound   = fmt.Errorf("%w: no master rate matches the requested amount", apperr.ErrDataIntegrity)
	ErrInvalidAmount  = fmt.Errorf("%w: requested amount must be positive", apperr.ErrValidation)
	ErrMissingEffDate = fmt.Errorf("%w: effective date is required", apperr.ErrValidation)
)
