// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package builder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ids"

	"github.com/luxfi/oracle/chain"
	"github.com/luxfi/oracle/chain/chaintest"
)

var (
	testGuard   = []byte{0x01, 0x02}
	changeGuard = []byte{0xee}
)

func TestAssembleExactBalance(t *testing.T) {
	require := require.New(t)

	input := chaintest.Box(1_500_000, testGuard, 10)
	tx, err := Assemble(Plan{
		RequiredInputs: []chain.Box{input},
		Candidates: []chain.BoxCandidate{{
			Value:          500_000,
			GuardScript:    testGuard,
			CreationHeight: 11,
		}},
		Fee:            1_000_000,
		ChangeGuard:    changeGuard,
		CreationHeight: 11,
	})
	require.NoError(err)
	require.Len(tx.Outputs, 1)
	require.NoError(tx.SyntacticVerify())
}

func TestAssembleChangeBox(t *testing.T) {
	require := require.New(t)

	input := chaintest.Box(5_000_000, testGuard, 10)
	tx, err := Assemble(Plan{
		RequiredInputs: []chain.Box{input},
		Candidates: []chain.BoxCandidate{{
			Value:          500_000,
			GuardScript:    testGuard,
			CreationHeight: 11,
		}},
		Fee:            1_000_000,
		ChangeGuard:    changeGuard,
		CreationHeight: 11,
	})
	require.NoError(err)
	require.Len(tx.Outputs, 2)

	change := tx.Outputs[1]
	require.Equal(uint64(3_500_000), change.Value)
	require.Equal(changeGuard, change.GuardScript)
	require.Equal(uint64(11), change.CreationHeight)
}

func TestAssembleSelectsAdditionalInputs(t *testing.T) {
	require := require.New(t)

	required := chaintest.Box(100_000, testGuard, 10)
	funding := BoxSlice{
		chaintest.Box(400_000, testGuard, 9),
		chaintest.Box(2_000_000, testGuard, 9),
	}
	tx, err := Assemble(Plan{
		RequiredInputs: []chain.Box{required},
		Candidates: []chain.BoxCandidate{{
			Value:          500_000,
			GuardScript:    testGuard,
			CreationHeight: 11,
		}},
		Fee:            1_000_000,
		ChangeGuard:    changeGuard,
		CreationHeight: 11,
		Source:         funding,
	})
	require.NoError(err)
	require.Greater(len(tx.Inputs), 1)
	require.Equal(required.ID, tx.Inputs[0].ID)
	require.NoError(tx.SyntacticVerify())
}

func TestAssembleInsufficientFunds(t *testing.T) {
	require := require.New(t)

	_, err := Assemble(Plan{
		RequiredInputs: []chain.Box{chaintest.Box(100_000, testGuard, 10)},
		Candidates: []chain.BoxCandidate{{
			Value:          500_000,
			GuardScript:    testGuard,
			CreationHeight: 11,
		}},
		Fee:            1_000_000,
		ChangeGuard:    changeGuard,
		CreationHeight: 11,
		Source:         BoxSlice{chaintest.Box(200_000, testGuard, 9)},
	})
	require.ErrorIs(err, ErrInsufficientFunds)
}

func TestAssembleTokenSurplusToChange(t *testing.T) {
	require := require.New(t)

	tokenID := ids.GenerateTestID()
	input := chaintest.Box(5_000_000, testGuard, 10, chain.Token{ID: tokenID, Amount: 10})
	tx, err := Assemble(Plan{
		RequiredInputs: []chain.Box{input},
		Candidates: []chain.BoxCandidate{{
			Value:          500_000,
			GuardScript:    testGuard,
			Tokens:         []chain.Token{{ID: tokenID, Amount: 3}},
			CreationHeight: 11,
		}},
		Fee:            1_000_000,
		ChangeGuard:    changeGuard,
		CreationHeight: 11,
	})
	require.NoError(err)
	require.Len(tx.Outputs, 2)
	require.Equal(uint64(7), tx.Outputs[1].TokenAmount(tokenID))
}

func TestAssembleTokenSurplusWithoutChangeValue(t *testing.T) {
	require := require.New(t)

	tokenID := ids.GenerateTestID()
	input := chaintest.Box(1_500_000, testGuard, 10, chain.Token{ID: tokenID, Amount: 10})
	_, err := Assemble(Plan{
		RequiredInputs: []chain.Box{input},
		Candidates: []chain.BoxCandidate{{
			Value:          500_000,
			GuardScript:    testGuard,
			CreationHeight: 11,
		}},
		Fee:            1_000_000,
		ChangeGuard:    changeGuard,
		CreationHeight: 11,
	})
	require.ErrorIs(err, ErrConservationViolation)
}

func TestAssembleUncoveredToken(t *testing.T) {
	require := require.New(t)

	input := chaintest.Box(5_000_000, testGuard, 10)
	_, err := Assemble(Plan{
		RequiredInputs: []chain.Box{input},
		Candidates: []chain.BoxCandidate{{
			Value:          500_000,
			GuardScript:    testGuard,
			Tokens:         []chain.Token{{ID: ids.GenerateTestID(), Amount: 1}},
			CreationHeight: 11,
		}},
		Fee:            1_000_000,
		ChangeGuard:    changeGuard,
		CreationHeight: 11,
	})
	require.ErrorIs(err, ErrConservationViolation)
}

func TestAssembleMintedTokenAllowed(t *testing.T) {
	require := require.New(t)

	input := chaintest.Box(1_500_000, testGuard, 10)
	tx, err := Assemble(Plan{
		RequiredInputs: []chain.Box{input},
		Candidates: []chain.BoxCandidate{{
			Value:          500_000,
			GuardScript:    testGuard,
			Tokens:         []chain.Token{{ID: input.ID, Amount: 1_000_000}},
			CreationHeight: 11,
		}},
		Fee:            1_000_000,
		ChangeGuard:    changeGuard,
		CreationHeight: 11,
	})
	require.NoError(err)
	require.NoError(tx.SyntacticVerify())
}

func TestAssembleMalformedCandidate(t *testing.T) {
	require := require.New(t)

	_, err := Assemble(Plan{
		RequiredInputs: []chain.Box{chaintest.Box(1_500_000, testGuard, 10)},
		Candidates: []chain.BoxCandidate{{
			Value:          0,
			GuardScript:    testGuard,
			CreationHeight: 11,
		}},
		Fee:         1_000_000,
		ChangeGuard: changeGuard,
	})
	require.ErrorIs(err, ErrMalformedCandidate)
}

func TestSelectorPrefersFewestBoxes(t *testing.T) {
	require := require.New(t)

	boxes := []chain.Box{
		chaintest.Box(100, testGuard, 1),
		chaintest.Box(5_000, testGuard, 1),
		chaintest.Box(200, testGuard, 1),
	}
	selected, err := SimpleBoxSelector{}.Select(boxes, 4_000, nil)
	require.NoError(err)
	require.Len(selected, 1)
	require.Equal(uint64(5_000), selected[0].Value)
}

func TestSelectorTargetTokens(t *testing.T) {
	require := require.New(t)

	tokenID := ids.GenerateTestID()
	boxes := []chain.Box{
		chaintest.Box(1_000, testGuard, 1),
		chaintest.Box(1_000, testGuard, 1, chain.Token{ID: tokenID, Amount: 4}),
		chaintest.Box(1_000, testGuard, 1, chain.Token{ID: tokenID, Amount: 4}),
	}
	selected, err := SimpleBoxSelector{}.Select(boxes, 500, []chain.Token{{ID: tokenID, Amount: 6}})
	require.NoError(err)

	var total uint64
	for _, box := range selected {
		total += box.TokenAmount(tokenID)
	}
	require.GreaterOrEqual(total, uint64(6))
}
