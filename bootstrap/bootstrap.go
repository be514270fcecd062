// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package bootstrap mints the role tokens and creates the initial
// pool and refresh boxes of a new oracle pool in one chained
// transaction sequence.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	safemath "github.com/luxfi/math"

	"github.com/luxfi/oracle/boxkind"
	"github.com/luxfi/oracle/builder"
	"github.com/luxfi/oracle/chain"
	"github.com/luxfi/oracle/contracts"
	"github.com/luxfi/oracle/node"
)

// The sequence is fixed: six mints, then the pool box, then the
// refresh box.
const numTxs = 8

const initialEpochCounter = 1

var (
	errZeroTokenCount = errors.New("token count must be positive")
	errZeroBoxValue   = errors.New("box value must be positive")
	errRewardTooSmall = errors.New("reward token amount must exceed the pool box share")
	errBudgetOverflow = errors.New("funding budget overflow")
	errSignedTxDrift  = errors.New("signed transaction id differs from assembled id")
	errNoRewardChange = errors.New("reward change box not found")
)

// PartialError reports a submission failure after part of the
// sequence already reached the chain. Recovery is manual.
type PartialError struct {
	Submitted []ids.ID
	Err       error
}

func (e *PartialError) Error() string {
	submitted := make([]string, len(e.Submitted))
	for i, txID := range e.Submitted {
		submitted[i] = txID.String()
	}
	return fmt.Sprintf("bootstrap aborted after %d of %d submissions [%s]: %s",
		len(e.Submitted), numTxs, strings.Join(submitted, ", "), e.Err)
}

func (e *PartialError) Unwrap() error {
	return e.Err
}

// Config sets the minted supplies and per-transaction economics.
type Config struct {
	OracleTokenCount  uint64 `yaml:"oracle_token_count"`
	BallotTokenCount  uint64 `yaml:"ballot_token_count"`
	RewardTokenAmount uint64 `yaml:"reward_token_amount"`
	BoxValue          uint64 `yaml:"box_value"`
	Fee               uint64 `yaml:"fee"`
	InitialRate       int64  `yaml:"initial_rate"`
}

func (c *Config) Verify() error {
	switch {
	case c.OracleTokenCount == 0 || c.BallotTokenCount == 0:
		return errZeroTokenCount
	case c.BoxValue == 0:
		return errZeroBoxValue
	case c.RewardTokenAmount <= poolBoxRewardShare:
		return errRewardTooSmall
	case c.InitialRate <= 0:
		return errZeroBoxValue
	}
	return nil
}

// targetBalance is the funding a transaction must hold when i
// transactions of the sequence remain.
func (c *Config) targetBalance(i uint64) (uint64, error) {
	perTx, err := safemath.Add(c.BoxValue, c.Fee)
	if err != nil {
		return 0, errBudgetOverflow
	}
	total, err := safemath.Mul(i, perTx)
	if err != nil {
		return 0, errBudgetOverflow
	}
	return total, nil
}

// The pool box keeps a single reward token in its slot; the refresh
// box carries the rest of the minted supply.
const poolBoxRewardShare = 1

// Result carries the minted token ids and the submitted sequence.
type Result struct {
	Tokens contracts.TokenIDs
	TxIDs  []ids.ID
}

// Sequencer assembles, signs and submits the bootstrap sequence.
type Sequencer struct {
	log    log.Logger
	client node.Client
	params contracts.Parameters
	cfg    Config
}

func NewSequencer(
	logger log.Logger,
	client node.Client,
	params contracts.Parameters,
	cfg Config,
) *Sequencer {
	return &Sequencer{
		log:    logger,
		client: client,
		params: params,
		cfg:    cfg,
	}
}

// Run assembles and signs all eight transactions before anything is
// submitted; an assembly or signing failure therefore leaves the
// chain untouched. Submission is strictly sequential so every
// transaction only spends outputs of already-accepted predecessors.
func (s *Sequencer) Run(ctx context.Context) (*Result, error) {
	if err := s.cfg.Verify(); err != nil {
		return nil, err
	}

	height, err := s.client.CurrentHeight(ctx)
	if err != nil {
		return nil, err
	}
	walletGuard, err := s.client.WalletChangeGuard(ctx)
	if err != nil {
		return nil, err
	}
	funding, err := s.client.UnspentWalletBoxes(ctx)
	if err != nil {
		return nil, err
	}

	txs, result, err := s.assemble(height, walletGuard, funding)
	if err != nil {
		return nil, err
	}

	signed := make([]*chain.Tx, len(txs))
	for i, tx := range txs {
		st, err := s.client.SignTransaction(ctx, &tx.Unsigned)
		if err != nil {
			return nil, err
		}
		if st.ID != tx.ID {
			return nil, errSignedTxDrift
		}
		signed[i] = st
	}

	for i, tx := range signed {
		txID, err := s.client.SubmitTransaction(ctx, tx)
		if err != nil {
			return nil, &PartialError{Submitted: result.TxIDs[:i], Err: err}
		}
		s.log.Info("submitted bootstrap transaction",
			log.Int("step", i+1),
			log.Stringer("txID", txID),
		)
	}
	return result, nil
}

// assemble builds the full sequence against a local view of the
// wallet. Every transaction after the first spends the remainder box
// of its predecessor; the last two additionally spend the tracked
// token boxes minted earlier.
func (s *Sequencer) assemble(
	height uint64,
	walletGuard []byte,
	funding []chain.Box,
) ([]*chain.Tx, *Result, error) {
	budget, err := s.cfg.targetBalance(numTxs)
	if err != nil {
		return nil, nil, err
	}
	seed, err := builder.SimpleBoxSelector{}.Select(funding, budget, nil)
	if err != nil {
		return nil, nil, err
	}

	mints := []struct {
		name   string
		amount uint64
		dst    func(*contracts.TokenIDs) *ids.ID
	}{
		{"pool NFT", 1, func(t *contracts.TokenIDs) *ids.ID { return &t.PoolNFT }},
		{"refresh NFT", 1, func(t *contracts.TokenIDs) *ids.ID { return &t.RefreshNFT }},
		{"ballot tokens", s.cfg.BallotTokenCount, func(t *contracts.TokenIDs) *ids.ID { return &t.BallotToken }},
		{"update NFT", 1, func(t *contracts.TokenIDs) *ids.ID { return &t.UpdateNFT }},
		{"oracle tokens", s.cfg.OracleTokenCount, func(t *contracts.TokenIDs) *ids.ID { return &t.OracleToken }},
		{"reward tokens", s.cfg.RewardTokenAmount, func(t *contracts.TokenIDs) *ids.ID { return &t.RewardToken }},
	}

	var (
		result    = &Result{}
		txs       = make([]*chain.Tx, 0, numTxs)
		remainder = seed
		tracked   = make(map[string]chain.Box, 3)
	)
	for step, mint := range mints {
		remaining := uint64(numTxs - step - 1)
		nextBalance, err := s.cfg.targetBalance(remaining)
		if err != nil {
			return nil, nil, err
		}

		mintedID := remainder[0].ID
		candidates := []chain.BoxCandidate{{
			Value:          s.cfg.BoxValue,
			GuardScript:    walletGuard,
			Tokens:         []chain.Token{{ID: mintedID, Amount: mint.amount}},
			CreationHeight: height,
		}, {
			Value:          nextBalance,
			GuardScript:    walletGuard,
			CreationHeight: height,
		}}

		tx, err := s.assembleOne(remainder, candidates, walletGuard, height)
		if err != nil {
			return nil, nil, fmt.Errorf("minting %s: %w", mint.name, err)
		}
		txs = append(txs, tx)
		result.TxIDs = append(result.TxIDs, tx.ID)
		*mint.dst(&result.Tokens) = mintedID

		tracked[mint.name] = tx.Outputs[0]
		remainder = []chain.Box{tx.Outputs[1]}
	}

	poolTx, err := s.assemblePoolBox(remainder, tracked, walletGuard, height, result.Tokens)
	if err != nil {
		return nil, nil, err
	}
	txs = append(txs, poolTx)
	result.TxIDs = append(result.TxIDs, poolTx.ID)

	rewardChange, err := findTokenOutput(poolTx, walletGuard, result.Tokens.RewardToken)
	if err != nil {
		return nil, nil, err
	}
	remainder = []chain.Box{poolTx.Outputs[1]}

	refreshTx, err := s.assembleRefreshBox(remainder, tracked, rewardChange, walletGuard, height, result.Tokens)
	if err != nil {
		return nil, nil, err
	}
	txs = append(txs, refreshTx)
	result.TxIDs = append(result.TxIDs, refreshTx.ID)

	return txs, result, nil
}

func (s *Sequencer) assemblePoolBox(
	remainder []chain.Box,
	tracked map[string]chain.Box,
	walletGuard []byte,
	height uint64,
	tokens contracts.TokenIDs,
) (*chain.Tx, error) {
	nextBalance, err := s.cfg.targetBalance(1)
	if err != nil {
		return nil, err
	}

	inputs := append(remainder, tracked["pool NFT"], tracked["reward tokens"])
	candidates := []chain.BoxCandidate{
		boxkind.NewPoolBoxCandidate(
			s.params.Pool.GuardScript,
			s.cfg.InitialRate,
			initialEpochCounter,
			chain.Token{ID: tokens.PoolNFT, Amount: 1},
			chain.Token{ID: tokens.RewardToken, Amount: poolBoxRewardShare},
			s.cfg.BoxValue,
			height,
		),
		{
			Value:          nextBalance,
			GuardScript:    walletGuard,
			CreationHeight: height,
		},
	}
	tx, err := s.assembleOne(inputs, candidates, walletGuard, height)
	if err != nil {
		return nil, fmt.Errorf("creating pool box: %w", err)
	}
	return tx, nil
}

func (s *Sequencer) assembleRefreshBox(
	remainder []chain.Box,
	tracked map[string]chain.Box,
	rewardChange chain.Box,
	walletGuard []byte,
	height uint64,
	tokens contracts.TokenIDs,
) (*chain.Tx, error) {
	inputs := append(remainder, tracked["refresh NFT"], rewardChange)
	candidates := []chain.BoxCandidate{
		boxkind.NewRefreshBoxCandidate(
			s.params.Refresh.GuardScript,
			chain.Token{ID: tokens.RefreshNFT, Amount: 1},
			chain.Token{
				ID:     tokens.RewardToken,
				Amount: s.cfg.RewardTokenAmount - poolBoxRewardShare,
			},
			s.cfg.BoxValue,
			height,
		),
	}
	tx, err := s.assembleOne(inputs, candidates, walletGuard, height)
	if err != nil {
		return nil, fmt.Errorf("creating refresh box: %w", err)
	}
	return tx, nil
}

func (s *Sequencer) assembleOne(
	inputs []chain.Box,
	candidates []chain.BoxCandidate,
	walletGuard []byte,
	height uint64,
) (*chain.Tx, error) {
	unsigned, err := builder.Assemble(builder.Plan{
		RequiredInputs: inputs,
		Candidates:     candidates,
		Fee:            s.cfg.Fee,
		ChangeGuard:    walletGuard,
		CreationHeight: height,
	})
	if err != nil {
		return nil, err
	}
	return chain.NewTx(*unsigned)
}

// findTokenOutput locates the wallet-guarded output carrying the
// given token, the seed of the next transaction in the chain.
func findTokenOutput(tx *chain.Tx, guard []byte, tokenID ids.ID) (chain.Box, error) {
	for _, out := range tx.Outputs {
		if out.GuardedBy(guard) && out.TokenAmount(tokenID) > 0 {
			return out, nil
		}
	}
	return chain.Box{}, errNoRewardChange
}
