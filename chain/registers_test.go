// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistersWithKeepsOrder(t *testing.T) {
	require := require.New(t)

	var regs Registers
	regs = regs.With(R6, Int64Value(42))
	regs = regs.With(R4, GroupElementValue([]byte{0x02}))
	regs = regs.With(R5, Int32Value(7))

	require.NoError(regs.Verify())
	require.Equal([]RegisterID{R4, R5, R6}, []RegisterID{regs[0].ID, regs[1].ID, regs[2].ID})

	// Overwriting a slot keeps a single entry.
	regs = regs.With(R5, Int32Value(8))
	require.Len(regs, 3)
	v, ok := regs.Get(R5)
	require.True(ok)
	epoch, err := v.AsInt32()
	require.NoError(err)
	require.Equal(int32(8), epoch)
}

func TestRegisterValueTypeMismatch(t *testing.T) {
	require := require.New(t)

	v := Int64Value(99)
	_, err := v.AsInt32()
	require.ErrorIs(err, ErrRegisterMismatch)
	_, err = v.AsGroupElement()
	require.ErrorIs(err, ErrRegisterMismatch)

	rate, err := v.AsInt64()
	require.NoError(err)
	require.Equal(int64(99), rate)

	// Repeated reads of the same register value are identical.
	again, err := v.AsInt64()
	require.NoError(err)
	require.Equal(rate, again)
}

func TestRegistersVerifyRejectsDuplicates(t *testing.T) {
	require := require.New(t)

	regs := Registers{
		{ID: R4, Value: Int64Value(1)},
		{ID: R4, Value: Int64Value(2)},
	}
	require.ErrorIs(regs.Verify(), errDuplicateEntry)

	regs = Registers{
		{ID: R5, Value: Int64Value(1)},
		{ID: R4, Value: Int64Value(2)},
	}
	require.ErrorIs(regs.Verify(), errUnsortedEntries)
}

func TestBoxCandidateVerify(t *testing.T) {
	require := require.New(t)

	c := BoxCandidate{GuardScript: []byte{0x01}}
	require.ErrorIs(c.Verify(), errZeroBoxValue)

	c.Value = 1
	c.GuardScript = nil
	require.ErrorIs(c.Verify(), errNoGuardScript)

	c.GuardScript = []byte{0x01}
	c.Tokens = []Token{{Amount: 0}}
	require.ErrorIs(c.Verify(), errZeroTokenAmount)

	c.Tokens = nil
	require.NoError(c.Verify())
}
