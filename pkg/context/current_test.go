package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrent(t *testing.T) {
	current := NewCurrent()
	current.Set("request_id", "abc")
	current.Set("attempt", 2)

	id, ok := current.GetString("request_id")
	assert.True(t, ok)
	assert.Equal(t, "abc", id)

	_, ok = current.GetString("attempt")
	assert.False(t, ok)
	assert.Equal(t, 2, current.Get("attempt"))
}

func TestRequestID(t *testing.T) {
	assert.Equal(t, "", RequestID(context.Background()))

	current := NewCurrent()
	current.Set("request_id", "abc")
	ctx := WithCurrent(context.Background(), current)

	assert.Equal(t, "abc", RequestID(ctx))
	assert.Same(t, current, GetCurrent(ctx))
}
