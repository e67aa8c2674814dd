package request

import (
	"context"

	"pts/internal/platform/querier"
)

type StoreAPI interface {
	WithinTx(ctx context.Context, fn func(tx StoreAPI) error) error
	// Querier exposes the connection or transaction the store runs on, so collaborators can join it.
	Querier() querier.Querier

	CreateRequest(ctx context.Context, r Request) (Request, error)
	GetRequest(ctx context.Context, id int64) (Request, error)
	// LockRequest reads the request with SELECT ... FOR UPDATE.
	LockRequest(ctx context.Context, id int64) (Request, error)
	ListRequests(ctx context.Context, f ListFilter) ([]Request, error)
	UpdateRequestState(ctx context.Context, id int64, status Status, step int) error

	InsertAction(ctx context.Context, a Action) (Action, error)
	ListActions(ctx context.Context, requestID int64) ([]Action, error)
	GetAction(ctx context.Context, requestID, actionID int64) (Action, error)

	// GetSignature returns the stored signature image of a user, or nil if none is on file.
	GetSignature(ctx context.Context, userID int64) ([]byte, error)
	PutSignature(ctx context.Context, userID int64, image []byte) error
}
