package ring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewCapacity(t *testing.T) {
	testCases := []struct {
		capacity int
		ok       bool
	}{
		{1, true},
		{2, true},
		{8, true},
		{128, true},
		{0, false},
		{-8, false},
		{5, false},
		{6, false},
		{1000, false},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("capacity %d", tc.capacity), func(t *testing.T) {
			r, err := New(tc.capacity)
			if tc.ok {
				require.NoError(t, err)
				require.Equal(t, tc.capacity, r.Capacity())
				require.Equal(t, 0, r.Index())
				return
			}
			require.Equal(t, ErrCapacity, err)
			require.Nil(t, r)
		})
	}
}

func TestMustNewPanics(t *testing.T) {
	require.Panics(t, func() { MustNew(5) })
	require.NotNil(t, MustNew(8))
}

func TestAdvanceSequence(t *testing.T) {
	const capacity = 8
	r := MustNew(capacity)
	for n := 1; n <= 3*capacity; n++ {
		require.Equal(t, n%capacity, r.Advance())
		require.Equal(t, n%capacity, r.Index())
	}
}

func TestAdvanceFullWrap(t *testing.T) {
	r := MustNew(8)
	for n := 0; n < 7; n++ {
		r.Advance()
	}
	require.Equal(t, 7, r.Index())
	require.Equal(t, 0, r.Advance())
	require.Equal(t, 1, r.Advance())
}

func TestAdvanceDeterministic(t *testing.T) {
	after := func(completions int) int {
		r := MustNew(16)
		for n := 0; n < completions; n++ {
			r.Advance()
		}
		return r.Index()
	}
	for _, completions := range []int{0, 1, 15, 16, 17, 100} {
		require.Equal(t, after(completions), after(completions))
		require.Equal(t, completions%16, after(completions))
	}
}

func TestSlotAliasesStorage(t *testing.T) {
	r := MustNew(4)
	for n := 0; n < 4; n++ {
		slot := r.Slot()
		require.Len(t, slot, 1)
		slot[0] = byte('a' + n)
		r.Advance()
	}
	require.Equal(t, []byte("abcd"), r.Bytes())
}

func TestSnapshotIsCopy(t *testing.T) {
	r := MustNew(4)
	r.Slot()[0] = 0x7f
	snap := r.Snapshot()
	r.Slot()[0] = 0x00
	require.Equal(t, byte(0x7f), snap[0])
	require.Equal(t, byte(0x00), r.Bytes()[0])
}

func TestView(t *testing.T) {
	r := MustNew(8)
	v := r.View()
	r.Slot()[0] = 0x42
	r.Advance()
	require.Equal(t, 8, v.Capacity())
	require.Equal(t, 1, v.Index())
	require.Equal(t, byte(0x42), v.Bytes()[0])
	require.Equal(t, byte(0x42), v.Snapshot()[0])
}
