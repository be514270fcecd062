// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/luxfi/ids"
	safemath "github.com/luxfi/math"

	"github.com/luxfi/oracle/utils/hashing"
)

var (
	ErrValueNotConserved = errors.New("transaction value not conserved")
	ErrTokenNotConserved = errors.New("transaction token amounts not conserved")

	errNoInputs        = errors.New("transaction has no inputs")
	errNoOutputs       = errors.New("transaction has no outputs")
	errDuplicateInput  = errors.New("duplicate transaction input")
	errInputOverflow   = errors.New("input value overflow")
	errOutputOverflow  = errors.New("output value overflow")
	errMalformedOutput = errors.New("malformed output candidate")
)

// UnsignedTx spends a set of boxes and creates a set of candidates.
// The fee is the value burned by the transaction: the sum of input
// values must equal the sum of output values plus the fee.
type UnsignedTx struct {
	Inputs  []Box          `serialize:"true" json:"inputs"`
	Outputs []BoxCandidate `serialize:"true" json:"outputs"`
	Fee     uint64         `serialize:"true" json:"fee"`
}

// MintedTokenID is the id a token minted by this transaction must use:
// the id of the first input box.
func (tx *UnsignedTx) MintedTokenID() ids.ID {
	if len(tx.Inputs) == 0 {
		return ids.Empty
	}
	return tx.Inputs[0].ID
}

// SyntacticVerify checks structural validity and the conservation
// rules: values balance exactly against the fee, and no token amount
// is created out of thin air except a single mint carrying the id of
// the first input box.
func (tx *UnsignedTx) SyntacticVerify() error {
	switch {
	case len(tx.Inputs) == 0:
		return errNoInputs
	case len(tx.Outputs) == 0:
		return errNoOutputs
	}

	inputIDs := make(map[ids.ID]struct{}, len(tx.Inputs))
	var inValue uint64
	inTokens := make(map[ids.ID]uint64)
	for _, in := range tx.Inputs {
		if _, ok := inputIDs[in.ID]; ok {
			return fmt.Errorf("%w: %s", errDuplicateInput, in.ID)
		}
		inputIDs[in.ID] = struct{}{}

		var err error
		if inValue, err = safemath.Add(inValue, in.Value); err != nil {
			return errInputOverflow
		}
		for _, tok := range in.Tokens {
			if inTokens[tok.ID], err = safemath.Add(inTokens[tok.ID], tok.Amount); err != nil {
				return errInputOverflow
			}
		}
	}

	var outValue uint64
	outTokens := make(map[ids.ID]uint64)
	for i := range tx.Outputs {
		out := &tx.Outputs[i]
		if err := out.Verify(); err != nil {
			return fmt.Errorf("%w: output %d: %s", errMalformedOutput, i, err)
		}
		var err error
		if outValue, err = safemath.Add(outValue, out.Value); err != nil {
			return errOutputOverflow
		}
		for _, tok := range out.Tokens {
			if outTokens[tok.ID], err = safemath.Add(outTokens[tok.ID], tok.Amount); err != nil {
				return errOutputOverflow
			}
		}
	}

	outPlusFee, err := safemath.Add(outValue, tx.Fee)
	if err != nil {
		return errOutputOverflow
	}
	if inValue != outPlusFee {
		return fmt.Errorf("%w: in %d != out %d + fee %d",
			ErrValueNotConserved, inValue, outValue, tx.Fee)
	}

	minted := tx.MintedTokenID()
	for tokenID, outAmount := range outTokens {
		if tokenID == minted {
			// Freshly minted; not backed by inputs.
			continue
		}
		if outAmount > inTokens[tokenID] {
			return fmt.Errorf("%w: token %s: in %d < out %d",
				ErrTokenNotConserved, tokenID, inTokens[tokenID], outAmount)
		}
	}
	return nil
}

// Bytes returns the canonical serialization of the transaction.
func (tx *UnsignedTx) Bytes() ([]byte, error) {
	return Codec.Marshal(CodecVersion, tx)
}

// Tx is an assembled transaction with its id and materialized output
// boxes. Output box ids are derived from the transaction id and the
// output index, so chained transactions can spend outputs before the
// transaction confirms.
type Tx struct {
	Unsigned UnsignedTx `serialize:"true" json:"unsigned"`

	ID      ids.ID `json:"id"`
	Outputs []Box  `json:"outputs"`
}

// NewTx verifies the unsigned transaction, computes its id and
// materializes its output boxes.
func NewTx(unsigned UnsignedTx) (*Tx, error) {
	if err := unsigned.SyntacticVerify(); err != nil {
		return nil, err
	}
	unsignedBytes, err := unsigned.Bytes()
	if err != nil {
		return nil, err
	}
	txID := ids.ID(hashing.ComputeHash256Array(unsignedBytes))

	outputs := make([]Box, len(unsigned.Outputs))
	for i, candidate := range unsigned.Outputs {
		outputs[i] = Box{
			BoxCandidate: candidate,
			ID:           OutputBoxID(txID, uint32(i)),
		}
	}
	return &Tx{
		Unsigned: unsigned,
		ID:       txID,
		Outputs:  outputs,
	}, nil
}

// OutputBoxID derives the id of the index-th output box of a
// transaction.
func OutputBoxID(txID ids.ID, index uint32) ids.ID {
	buf := make([]byte, len(txID)+4)
	copy(buf, txID[:])
	binary.BigEndian.PutUint32(buf[len(txID):], index)
	return ids.ID(hashing.ComputeHash256Array(buf))
}
