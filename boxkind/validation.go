// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package boxkind wraps raw boxes into validated per-role views. A
// wrapper validates once at construction; its getters are the only
// sanctioned way to read domain semantics out of a raw box.
package boxkind

import (
	"errors"
	"fmt"

	"github.com/luxfi/ids"
)

var (
	ErrTooFewTokens     = errors.New("too few tokens")
	ErrNFTMismatch      = errors.New("role NFT id mismatch")
	ErrNotSingleton     = errors.New("role NFT amount must be 1")
	ErrRewardTokenSlot  = errors.New("wrong reward token at position 1")
	ErrMissingRegister  = errors.New("missing required register")
	ErrMistypedRegister = errors.New("mistyped register value")
)

// ValidationError reports why a raw box could not be wrapped into the
// requested role.
type ValidationError struct {
	Kind  string
	BoxID ids.ID
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s box %s: %s", e.Kind, e.BoxID, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(kind string, boxID ids.ID, err error) *ValidationError {
	return &ValidationError{Kind: kind, BoxID: boxID, Err: err}
}
