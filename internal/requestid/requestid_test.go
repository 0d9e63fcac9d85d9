package requestid

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	ctx, id := New(context.Background())
	assert.NotEmpty(t, id)
	assert.Equal(t, id, FromContext(ctx))
}

func TestFromContext_Missing(t *testing.T) {
	id := FromContext(context.Background())
	assert.NotEmpty(t, id)
}

func TestEnsure_KeepsExisting(t *testing.T) {
	ctx := WithRequestID(context.Background(), "layout-1")
	got, id := Ensure(ctx)
	assert.Equal(t, "layout-1", id)
	assert.Equal(t, ctx, got)

	_, fresh := Ensure(context.Background())
	assert.NotEmpty(t, fresh)
	assert.NotEqual(t, "layout-1", fresh)
}
