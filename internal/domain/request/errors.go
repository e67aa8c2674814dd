package request

import (
	"fmt"

	"pts/internal/domain/apperr"
)

var (
	ErrRequestNotFound  = apperr.NotFound("request")
	ErrActionNotFound   = apperr.NotFound("request action")
	ErrSignatureMissing = fmt.Errorf("%w: signature not on file", apperr.ErrDataIntegrity)
	ErrBatchRole        = apperr.Forbidden("batch approval is limited to the director and finance head steps")
)
