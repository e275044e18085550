package signal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignal_EmitInOrder(t *testing.T) {
	s := New[string]("storeView")
	var got []string
	s.Connect(func(_ context.Context, v string) { got = append(got, "first:"+v) })
	s.Connect(func(_ context.Context, v string) { got = append(got, "second:"+v) })

	s.Emit(context.Background(), "Acme")

	assert.Equal(t, "storeView", s.Name())
	assert.Equal(t, []string{"first:Acme", "second:Acme"}, got)
}

func TestSignal_NilAndEmpty(t *testing.T) {
	var s *Signal[int]
	assert.NotPanics(t, func() { s.Emit(context.Background(), 1) })
	assert.NotPanics(t, func() { New[int]("x").Emit(context.Background(), 1) })
}
