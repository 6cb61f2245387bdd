// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package farm implements the LXFarm precompile: a constant-product
// pool over a fixed pair of assets whose liquidity providers earn a
// third reward asset over time. Rewards are distributed through a
// scaled reward-per-share accumulator that is settled lazily, and
// claims are rate-limited by a per-account cooldown.
package farm

import (
	"errors"
	"math/big"

	"github.com/luxfi/geth/common"
)

// Precompile addresses for farm components
// LP-aligned format: 0x0000000000000000000000000000000000LPNUM
const (
	// LXFarm (LP-9090 series - pair pools with reward emission)
	LXFarmAddress = "0x0000000000000000000000000000000000009090" // LP-9090: LXFarm
)

// FarmAddr is the parsed precompile address.
var FarmAddr = common.HexToAddress(LXFarmAddress)

// Gas costs for farm operations
const (
	GasAddLiquidity    uint64 = 20_000 // Pull both pool assets, mint shares
	GasRemoveLiquidity uint64 = 20_000 // Burn shares, pay out both assets
	GasSwap            uint64 = 10_000 // Constant-product swap
	GasClaimRewards    uint64 = 15_000 // Settle and pay out rewards
	GasFundRewards     uint64 = 10_000 // Pull reward asset into the budget
	GasAdmin           uint64 = 8_000  // Owner parameter and withdrawal ops
	GasView            uint64 = 2_000  // Read-only queries
)

// Fee and reward parameters
const (
	BpsDenominator          uint64 = 10_000  // Basis point denominator
	DefaultTradeFeeBps      uint64 = 30      // 0.30% trade fee, retained in reserves
	DefaultProtocolFeeBps   uint64 = 5       // 0.05% protocol skim, tracked separately
	AddLiquiditySlippageBps uint64 = 100     // 1% tolerance on deposit ratio
	DefaultClaimLockSeconds uint64 = 86_400  // Cooldown armed after each claim
)

var (
	// RewardScale is the fixed-point scale of the reward-per-share
	// accumulator. Pending rewards divide it back out.
	RewardScale = big.NewInt(1_000_000_000_000_000_000)

	// MaxRewardRate caps SetRewardRate, in reward units per second.
	MaxRewardRate = big.NewInt(1_000_000_000_000_000_000)
)

// Errors - lifecycle and input validation
var (
	ErrNotInitialized     = errors.New("farm not initialized")
	ErrAlreadyInitialized = errors.New("farm already initialized")
	ErrInvalidParams      = errors.New("invalid farm parameters")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrUnsupportedAsset   = errors.New("asset not in pool")
	ErrProtectedAsset     = errors.New("cannot recover a pool or reward asset")
	ErrNoFeesAccrued      = errors.New("no protocol fees accrued")
)

// Errors - liquidity and swaps
var (
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	ErrInsufficientShares    = errors.New("insufficient shares")
	ErrSlippageExceeded      = errors.New("slippage tolerance exceeded")
)

// Errors - access control
var (
	ErrUnauthorized       = errors.New("caller not authorized")
	ErrOperationsDisabled = errors.New("operations disabled")
)

// Errors - rewards
var (
	ErrRewardsLocked      = errors.New("rewards locked by claim cooldown")
	ErrNoRewardsAvailable = errors.New("no rewards available")
	ErrRewardRateTooHigh  = errors.New("reward rate exceeds maximum")
	ErrBudgetExceeded     = errors.New("withdrawal would cut into the reward budget")
	ErrTransferFailed     = errors.New("asset transfer failed")
)

// FarmParams fixes the asset triple, ownership, and fee schedule when
// the farm is constructed. They do not change afterward.
type FarmParams struct {
	AssetA      common.Address
	AssetB      common.Address
	RewardAsset common.Address
	Owner       common.Address

	TradeFeeBps      uint64
	ProtocolFeeBps   uint64
	ClaimLockSeconds uint64
}

// Validate checks the parameter set is usable.
func (p *FarmParams) Validate() error {
	if p.Owner == (common.Address{}) {
		return errors.New("owner must be set")
	}
	if p.AssetA == p.AssetB {
		return errors.New("pool assets must differ")
	}
	if p.RewardAsset == p.AssetA || p.RewardAsset == p.AssetB {
		return errors.New("reward asset must differ from pool assets")
	}
	if p.TradeFeeBps > BpsDenominator || p.ProtocolFeeBps > BpsDenominator {
		return errors.New("fee exceeds denominator")
	}
	return nil
}

// PoolState is the pool-global state: reserves, outstanding shares, and
// the reward emission bookkeeping.
type PoolState struct {
	ReserveA    *big.Int
	ReserveB    *big.Int
	TotalShares *big.Int

	// Reward emission
	LastAccrualTime       uint64
	RewardPerShareStored  *big.Int // scaled by RewardScale
	RewardRate            *big.Int // reward units per second
	RemainingRewardBudget *big.Int

	// Protocol fee accumulators, one per pool asset
	ProtocolFeesA *big.Int
	ProtocolFeesB *big.Int
}

// NewPoolState returns an empty pool.
func NewPoolState() *PoolState {
	return &PoolState{
		ReserveA:              new(big.Int),
		ReserveB:              new(big.Int),
		TotalShares:           new(big.Int),
		RewardPerShareStored:  new(big.Int),
		RewardRate:            new(big.Int),
		RemainingRewardBudget: new(big.Int),
		ProtocolFeesA:         new(big.Int),
		ProtocolFeesB:         new(big.Int),
	}
}

// Account is the per-participant state: share balance, the accumulator
// snapshot already credited, settled-but-unclaimed rewards, and the
// claim cooldown deadline.
type Account struct {
	ShareBalance       *big.Int
	RewardPerSharePaid *big.Int
	AccruedReward      *big.Int
	ClaimUnlockTime    uint64
}

// NewAccount returns an account that has never participated.
func NewAccount() *Account {
	return &Account{
		ShareBalance:       new(big.Int),
		RewardPerSharePaid: new(big.Int),
		AccruedReward:      new(big.Int),
	}
}
