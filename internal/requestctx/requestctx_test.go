package requestctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"pts/internal/domain/auth"
)

func TestRequestID(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", GetRequestID(ctx))
	assert.Equal(t, "req-1", GetRequestID(WithRequestID(ctx, "req-1")))
}

func TestActor(t *testing.T) {
	ctx := context.Background()
	_, ok := GetActor(ctx)
	assert.False(t, ok)
	assert.Nil(t, ActorID(ctx))

	ctx = WithActor(ctx, auth.Actor{UserID: 5, Role: auth.RoleDirector})
	actor, ok := GetActor(ctx)
	assert.True(t, ok)
	assert.Equal(t, auth.RoleDirector, actor.Role)
	if assert.NotNil(t, ActorID(ctx)) {
		assert.Equal(t, int64(5), *ActorID(ctx))
	}
}
