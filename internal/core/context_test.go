package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_RunIDContext(t *testing.T) {
	t.Run("Should set and get run id from context", func(t *testing.T) {
		ctx := context.Background()
		id := MustNewID()
		ctx = WithRunID(ctx, id)
		got, err := RunIDFromContext(ctx)
		assert.NoError(t, err)
		assert.Equal(t, id, got)
	})
	t.Run("Should error when run id not present", func(t *testing.T) {
		_, err := RunIDFromContext(context.Background())
		assert.ErrorContains(t, err, "run id not found")
	})
	t.Run("Should error when zero-value run id stored", func(t *testing.T) {
		ctx := WithRunID(context.Background(), ID(""))
		_, err := RunIDFromContext(ctx)
		assert.ErrorContains(t, err, "run id not found")
	})
}
