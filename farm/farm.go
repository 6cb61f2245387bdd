// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package farm

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"sync"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	log "github.com/luxfi/log"
	"github.com/zeebo/blake3"
)

// =============================================================================
// State Access
// =============================================================================

// StateDB is the subset of EVM state the farm reads and writes.
type StateDB interface {
	GetState(addr common.Address, key common.Hash) common.Hash
	SetState(addr common.Address, key common.Hash, value common.Hash)
	GetBalance(addr common.Address) *uint256.Int
	AddBalance(addr common.Address, amount *uint256.Int)
	SubBalance(addr common.Address, amount *uint256.Int)
	Exist(addr common.Address) bool
	CreateAccount(addr common.Address)
	Snapshot() int
	RevertToSnapshot(revid int)
	GetTimestamp() uint64
}

// Storage key prefixes
var (
	paramsPrefix  = []byte("farm/params")
	poolPrefix    = []byte("farm/pool")
	accountPrefix = []byte("farm/account")
	controlPrefix = []byte("farm/control")
	balancePrefix = []byte("farm/balance")
)

// makeStorageKey creates a unique storage key using BLAKE3
func makeStorageKey(prefix []byte, id []byte) common.Hash {
	hasher := blake3.New()
	hasher.Write(prefix)
	hasher.Write(id)
	var key common.Hash
	hasher.Digest().Read(key[:])
	return key
}

// Fixed storage slots
var (
	slotInitialized    = makeStorageKey(paramsPrefix, []byte("initialized"))
	slotAssetA         = makeStorageKey(paramsPrefix, []byte("assetA"))
	slotAssetB         = makeStorageKey(paramsPrefix, []byte("assetB"))
	slotRewardAsset    = makeStorageKey(paramsPrefix, []byte("rewardAsset"))
	slotOwner          = makeStorageKey(paramsPrefix, []byte("owner"))
	slotTradeFeeBps    = makeStorageKey(paramsPrefix, []byte("tradeFeeBps"))
	slotProtocolFeeBps = makeStorageKey(paramsPrefix, []byte("protocolFeeBps"))
	slotClaimLock      = makeStorageKey(paramsPrefix, []byte("claimLockSeconds"))

	slotReserveA     = makeStorageKey(poolPrefix, []byte("reserveA"))
	slotReserveB     = makeStorageKey(poolPrefix, []byte("reserveB"))
	slotTotalShares  = makeStorageKey(poolPrefix, []byte("totalShares"))
	slotAccrualTime  = makeStorageKey(poolPrefix, []byte("lastAccrualTime"))
	slotRewardPS     = makeStorageKey(poolPrefix, []byte("rewardPerShare"))
	slotRewardRate   = makeStorageKey(poolPrefix, []byte("rewardRate"))
	slotRewardBudget = makeStorageKey(poolPrefix, []byte("rewardBudget"))
	slotFeesA        = makeStorageKey(poolPrefix, []byte("protocolFeesA"))
	slotFeesB        = makeStorageKey(poolPrefix, []byte("protocolFeesB"))

	slotEnabled = makeStorageKey(controlPrefix, []byte("enabled"))
)

func getBig(db StateDB, slot common.Hash) *big.Int {
	value := db.GetState(FarmAddr, slot)
	return new(big.Int).SetBytes(value[:])
}

func putBig(db StateDB, slot common.Hash, v *big.Int) {
	var value common.Hash
	v.FillBytes(value[:])
	db.SetState(FarmAddr, slot, value)
}

func getUint64(db StateDB, slot common.Hash) uint64 {
	value := db.GetState(FarmAddr, slot)
	return binary.BigEndian.Uint64(value[24:])
}

func putUint64(db StateDB, slot common.Hash, v uint64) {
	var value common.Hash
	binary.BigEndian.PutUint64(value[24:], v)
	db.SetState(FarmAddr, slot, value)
}

func getAddress(db StateDB, slot common.Hash) common.Address {
	value := db.GetState(FarmAddr, slot)
	return common.BytesToAddress(value[:])
}

func putAddress(db StateDB, slot common.Hash, addr common.Address) {
	db.SetState(FarmAddr, slot, common.BytesToHash(addr.Bytes()))
}

func getBool(db StateDB, slot common.Hash) bool {
	value := db.GetState(FarmAddr, slot)
	return value[31] == 1
}

func putBool(db StateDB, slot common.Hash, v bool) {
	var value common.Hash
	if v {
		value[31] = 1
	}
	db.SetState(FarmAddr, slot, value)
}

// =============================================================================
// Farm Manager
// =============================================================================

// Farm executes all pool, reward, and admin operations against a
// StateDB. Operations are serialized by a single lock and either commit
// completely or leave state untouched.
type Farm struct {
	mu sync.RWMutex

	ledger  AssetLedger
	access  AccessController
	gate    PauseGate
	journal *Journal

	log log.Logger
}

// NewFarm wires a farm against its storage-backed ledger and controls.
func NewFarm() *Farm {
	control := NewStateControl()
	return NewFarmWith(NewStateLedger(FarmAddr), control, control, NewJournal(nil))
}

// NewFarmWith assembles a farm from explicit collaborators.
func NewFarmWith(ledger AssetLedger, access AccessController, gate PauseGate, journal *Journal) *Farm {
	return &Farm{
		ledger:  ledger,
		access:  access,
		gate:    gate,
		journal: journal,
		log:     log.NewTestLogger(log.InfoLevel),
	}
}

// Initialize writes the construction parameters and starts the accrual
// clock at the current time. It runs once; operations stay disabled
// until the owner enables them.
func (f *Farm) Initialize(db StateDB, params FarmParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if getBool(db, slotInitialized) {
		return ErrAlreadyInitialized
	}
	if err := params.Validate(); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidParams, err)
	}

	if !db.Exist(FarmAddr) {
		db.CreateAccount(FarmAddr)
	}

	putAddress(db, slotAssetA, params.AssetA)
	putAddress(db, slotAssetB, params.AssetB)
	putAddress(db, slotRewardAsset, params.RewardAsset)
	putAddress(db, slotOwner, params.Owner)
	putUint64(db, slotTradeFeeBps, params.TradeFeeBps)
	putUint64(db, slotProtocolFeeBps, params.ProtocolFeeBps)
	putUint64(db, slotClaimLock, params.ClaimLockSeconds)
	putUint64(db, slotAccrualTime, db.GetTimestamp())
	putBool(db, slotInitialized, true)

	f.log.Info("farm initialized",
		"assetA", params.AssetA,
		"assetB", params.AssetB,
		"rewardAsset", params.RewardAsset,
		"owner", params.Owner,
	)
	return nil
}

// getParams loads the construction parameters.
func (f *Farm) getParams(db StateDB) (*FarmParams, error) {
	if !getBool(db, slotInitialized) {
		return nil, ErrNotInitialized
	}
	return &FarmParams{
		AssetA:           getAddress(db, slotAssetA),
		AssetB:           getAddress(db, slotAssetB),
		RewardAsset:      getAddress(db, slotRewardAsset),
		Owner:            getAddress(db, slotOwner),
		TradeFeeBps:      getUint64(db, slotTradeFeeBps),
		ProtocolFeeBps:   getUint64(db, slotProtocolFeeBps),
		ClaimLockSeconds: getUint64(db, slotClaimLock),
	}, nil
}

// getPool loads the pool-global state.
func (f *Farm) getPool(db StateDB) *PoolState {
	return &PoolState{
		ReserveA:              getBig(db, slotReserveA),
		ReserveB:              getBig(db, slotReserveB),
		TotalShares:           getBig(db, slotTotalShares),
		LastAccrualTime:       getUint64(db, slotAccrualTime),
		RewardPerShareStored:  getBig(db, slotRewardPS),
		RewardRate:            getBig(db, slotRewardRate),
		RemainingRewardBudget: getBig(db, slotRewardBudget),
		ProtocolFeesA:         getBig(db, slotFeesA),
		ProtocolFeesB:         getBig(db, slotFeesB),
	}
}

// setPool persists the pool-global state.
func (f *Farm) setPool(db StateDB, pool *PoolState) {
	putBig(db, slotReserveA, pool.ReserveA)
	putBig(db, slotReserveB, pool.ReserveB)
	putBig(db, slotTotalShares, pool.TotalShares)
	putUint64(db, slotAccrualTime, pool.LastAccrualTime)
	putBig(db, slotRewardPS, pool.RewardPerShareStored)
	putBig(db, slotRewardRate, pool.RewardRate)
	putBig(db, slotRewardBudget, pool.RemainingRewardBudget)
	putBig(db, slotFeesA, pool.ProtocolFeesA)
	putBig(db, slotFeesB, pool.ProtocolFeesB)
}

func accountSlot(addr common.Address, field string) common.Hash {
	id := make([]byte, 0, len(addr)+len(field))
	id = append(id, addr.Bytes()...)
	id = append(id, field...)
	return makeStorageKey(accountPrefix, id)
}

// getAccount loads one participant's state.
func (f *Farm) getAccount(db StateDB, addr common.Address) *Account {
	return &Account{
		ShareBalance:       getBig(db, accountSlot(addr, "shares")),
		RewardPerSharePaid: getBig(db, accountSlot(addr, "paid")),
		AccruedReward:      getBig(db, accountSlot(addr, "accrued")),
		ClaimUnlockTime:    getUint64(db, accountSlot(addr, "unlock")),
	}
}

// setAccount persists one participant's state.
func (f *Farm) setAccount(db StateDB, addr common.Address, acct *Account) {
	putBig(db, accountSlot(addr, "shares"), acct.ShareBalance)
	putBig(db, accountSlot(addr, "paid"), acct.RewardPerSharePaid)
	putBig(db, accountSlot(addr, "accrued"), acct.AccruedReward)
	putUint64(db, accountSlot(addr, "unlock"), acct.ClaimUnlockTime)
}

// =============================================================================
// Reward Settlement
// =============================================================================

// settlePool folds reward emission since the last accrual into the
// accumulator and advances the accrual clock. With no shares
// outstanding only the clock moves, so idle periods emit nothing.
func settlePool(pool *PoolState, now uint64) {
	if pool.TotalShares.Sign() == 0 {
		pool.LastAccrualTime = now
		return
	}

	var elapsed uint64
	if now > pool.LastAccrualTime {
		elapsed = now - pool.LastAccrualTime
	}
	toDistribute := rewardAccrual(elapsed, pool.RewardRate, pool.RemainingRewardBudget)
	if toDistribute.Sign() > 0 {
		perShare := new(big.Int).Mul(toDistribute, RewardScale)
		perShare.Div(perShare, pool.TotalShares)
		pool.RewardPerShareStored.Add(pool.RewardPerShareStored, perShare)
		pool.RemainingRewardBudget.Sub(pool.RemainingRewardBudget, toDistribute)
	}
	pool.LastAccrualTime = now
}

// settleAccount credits the account's pending reward and refreshes its
// accumulator snapshot. Must run after settlePool.
func settleAccount(pool *PoolState, acct *Account) {
	pending := pendingReward(acct.ShareBalance, pool.RewardPerShareStored, acct.RewardPerSharePaid)
	if pending.Sign() > 0 {
		acct.AccruedReward.Add(acct.AccruedReward, pending)
	}
	acct.RewardPerSharePaid.Set(pool.RewardPerShareStored)
}

// =============================================================================
// Gate Helpers
// =============================================================================

func (f *Farm) requireEnabled(db StateDB) error {
	if !f.gate.OperationsEnabled(db) {
		return ErrOperationsDisabled
	}
	return nil
}

func (f *Farm) requireOwner(db StateDB, caller common.Address) error {
	if !f.access.IsOwner(db, caller) {
		return ErrUnauthorized
	}
	return nil
}

func (f *Farm) journalOp(now uint64, op string, caller common.Address, fields map[string]string) {
	if f.journal == nil {
		return
	}
	if err := f.journal.Append(now, op, caller, fields); err != nil {
		f.log.Warn("journal append failed", "op", op, "err", err)
	}
}

// =============================================================================
// View Functions
// =============================================================================

// GetReserves returns the current reserves of both pool assets.
func (f *Farm) GetReserves(db StateDB) (*big.Int, *big.Int) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return getBig(db, slotReserveA), getBig(db, slotReserveB)
}

// TotalShares returns the outstanding share supply.
func (f *Farm) TotalShares(db StateDB) *big.Int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return getBig(db, slotTotalShares)
}

// ShareBalanceOf returns the share balance of one participant.
func (f *Farm) ShareBalanceOf(db StateDB, addr common.Address) *big.Int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return getBig(db, accountSlot(addr, "shares"))
}

// GetRewardPerShare returns the committed accumulator value, scaled by
// RewardScale. Emission since the last settlement is not included.
func (f *Farm) GetRewardPerShare(db StateDB) *big.Int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return getBig(db, slotRewardPS)
}

// GetRewardBudget returns the undistributed reward budget.
func (f *Farm) GetRewardBudget(db StateDB) *big.Int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return getBig(db, slotRewardBudget)
}

// GetProtocolFees returns the accumulated protocol fees per pool asset.
func (f *Farm) GetProtocolFees(db StateDB) (*big.Int, *big.Int) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return getBig(db, slotFeesA), getBig(db, slotFeesB)
}

// ClaimUnlockTimeOf returns the time at which addr may claim again.
// Zero means the account has never claimed.
func (f *Farm) ClaimUnlockTimeOf(db StateDB, addr common.Address) uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return getUint64(db, accountSlot(addr, "unlock"))
}

// GetMaxRewardRate returns the protocol-wide reward rate cap.
func (f *Farm) GetMaxRewardRate() *big.Int {
	return new(big.Int).Set(MaxRewardRate)
}

// GetPoolState returns a copy of the full pool-global state.
func (f *Farm) GetPoolState(db StateDB) *PoolState {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.getPool(db)
}

// IsInitialized reports whether Initialize has run.
func (f *Farm) IsInitialized(db StateDB) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return getBool(db, slotInitialized)
}
