package stack

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStack(t *testing.T) {
	s := New()
	require.True(t, s.IsEmpty())
	require.Nil(t, s.Pop())
	require.Nil(t, s.Peek())

	s.Push(1)
	s.Push(2)
	s.Push(3)
	require.False(t, s.IsEmpty())
	require.Equal(t, 3, s.Peek())
	require.Equal(t, 3, s.Pop())
	require.Equal(t, 2, s.Pop())
	s.Push(4)
	require.Equal(t, 4, s.Pop())
	require.Equal(t, 1, s.Pop())
	require.True(t, s.IsEmpty())
}
