// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package farm

import (
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/stretchr/testify/require"
)

// Test addresses
var (
	testOwner   = common.HexToAddress("0x1111111111111111111111111111111111111111")
	testFunder  = common.HexToAddress("0x2222222222222222222222222222222222222222")
	testUser1   = common.HexToAddress("0x3333333333333333333333333333333333333333")
	testUser2   = common.HexToAddress("0x4444444444444444444444444444444444444444")
	testUser3   = common.HexToAddress("0x5555555555555555555555555555555555555555")
	testAssetA  = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	testAssetB  = common.HexToAddress("0x00000000000000000000000000000000000000bb")
	testReward  = common.HexToAddress("0x00000000000000000000000000000000000000cc")
	testForeign = common.HexToAddress("0x00000000000000000000000000000000000000dd")
)

// bigInt parses a decimal string, panicking on garbage. Keeps large
// constants in tests readable.
func bigInt(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("invalid big.Int string: " + s)
	}
	return v
}

type mockSnapshot struct {
	storage  map[common.Address]map[common.Hash]common.Hash
	balances map[common.Address]*uint256.Int
}

// mockStateDB implements StateDB over plain maps, with copy-on-snapshot
// revert support.
type mockStateDB struct {
	storage   map[common.Address]map[common.Hash]common.Hash
	balances  map[common.Address]*uint256.Int
	created   map[common.Address]bool
	timestamp uint64
	snapshots []mockSnapshot
}

func newMockStateDB() *mockStateDB {
	return &mockStateDB{
		storage:   make(map[common.Address]map[common.Hash]common.Hash),
		balances:  make(map[common.Address]*uint256.Int),
		created:   make(map[common.Address]bool),
		timestamp: 1_000_000,
	}
}

func (m *mockStateDB) GetState(addr common.Address, key common.Hash) common.Hash {
	if s, ok := m.storage[addr]; ok {
		return s[key]
	}
	return common.Hash{}
}

func (m *mockStateDB) SetState(addr common.Address, key common.Hash, value common.Hash) {
	if _, ok := m.storage[addr]; !ok {
		m.storage[addr] = make(map[common.Hash]common.Hash)
	}
	m.storage[addr][key] = value
}

func (m *mockStateDB) GetBalance(addr common.Address) *uint256.Int {
	if b, ok := m.balances[addr]; ok {
		return new(uint256.Int).Set(b)
	}
	return new(uint256.Int)
}

func (m *mockStateDB) AddBalance(addr common.Address, amount *uint256.Int) {
	m.balances[addr] = new(uint256.Int).Add(m.GetBalance(addr), amount)
}

func (m *mockStateDB) SubBalance(addr common.Address, amount *uint256.Int) {
	m.balances[addr] = new(uint256.Int).Sub(m.GetBalance(addr), amount)
}

func (m *mockStateDB) Exist(addr common.Address) bool {
	if m.created[addr] {
		return true
	}
	if _, ok := m.storage[addr]; ok {
		return true
	}
	_, ok := m.balances[addr]
	return ok
}

func (m *mockStateDB) CreateAccount(addr common.Address) {
	m.created[addr] = true
}

func (m *mockStateDB) Snapshot() int {
	snap := mockSnapshot{
		storage:  make(map[common.Address]map[common.Hash]common.Hash, len(m.storage)),
		balances: make(map[common.Address]*uint256.Int, len(m.balances)),
	}
	for addr, slots := range m.storage {
		copied := make(map[common.Hash]common.Hash, len(slots))
		for k, v := range slots {
			copied[k] = v
		}
		snap.storage[addr] = copied
	}
	for addr, b := range m.balances {
		snap.balances[addr] = new(uint256.Int).Set(b)
	}
	m.snapshots = append(m.snapshots, snap)
	return len(m.snapshots) - 1
}

func (m *mockStateDB) RevertToSnapshot(revid int) {
	snap := m.snapshots[revid]
	m.storage = snap.storage
	m.balances = snap.balances
	m.snapshots = m.snapshots[:revid]
}

func (m *mockStateDB) GetTimestamp() uint64 {
	return m.timestamp
}

func (m *mockStateDB) advance(seconds uint64) {
	m.timestamp += seconds
}

// testFarmParams is the parameter set most tests run with.
func testFarmParams() FarmParams {
	return FarmParams{
		AssetA:           testAssetA,
		AssetB:           testAssetB,
		RewardAsset:      testReward,
		Owner:            testOwner,
		TradeFeeBps:      DefaultTradeFeeBps,
		ProtocolFeeBps:   DefaultProtocolFeeBps,
		ClaimLockSeconds: DefaultClaimLockSeconds,
	}
}

// newTestFarm returns an initialized, enabled farm with funded user
// balances and the funder role granted to testFunder.
func newTestFarm(t *testing.T) (*Farm, *StateLedger, *mockStateDB) {
	t.Helper()

	ledger := NewStateLedger(FarmAddr)
	control := NewStateControl()
	f := NewFarmWith(ledger, control, control, NewJournal(nil))
	db := newMockStateDB()

	require.NoError(t, f.Initialize(db, testFarmParams()))
	require.NoError(t, f.SetOperationsEnabled(db, testOwner, true))
	require.NoError(t, f.SetAuthorizedFunder(db, testOwner, testFunder, true))

	seed := bigInt("1000000000")
	for _, user := range []common.Address{testUser1, testUser2, testUser3} {
		ledger.Credit(db, testAssetA, user, seed)
		ledger.Credit(db, testAssetB, user, seed)
	}
	ledger.Credit(db, testReward, testFunder, seed)

	return f, ledger, db
}

func TestInitialize(t *testing.T) {
	f := NewFarm()
	db := newMockStateDB()

	require.False(t, f.IsInitialized(db))
	require.NoError(t, f.Initialize(db, testFarmParams()))
	require.True(t, f.IsInitialized(db))

	pool := f.GetPoolState(db)
	require.Equal(t, db.GetTimestamp(), pool.LastAccrualTime)
	require.Zero(t, pool.TotalShares.Sign())

	err := f.Initialize(db, testFarmParams())
	require.ErrorIs(t, err, ErrAlreadyInitialized)
}

func TestInitializeRejectsBadParams(t *testing.T) {
	f := NewFarm()

	tests := []struct {
		name   string
		mutate func(*FarmParams)
	}{
		{"zero owner", func(p *FarmParams) { p.Owner = common.Address{} }},
		{"same pool assets", func(p *FarmParams) { p.AssetB = p.AssetA }},
		{"reward equals asset A", func(p *FarmParams) { p.RewardAsset = p.AssetA }},
		{"reward equals asset B", func(p *FarmParams) { p.RewardAsset = p.AssetB }},
		{"trade fee too high", func(p *FarmParams) { p.TradeFeeBps = BpsDenominator + 1 }},
		{"protocol fee too high", func(p *FarmParams) { p.ProtocolFeeBps = BpsDenominator + 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := testFarmParams()
			tt.mutate(&params)
			err := f.Initialize(newMockStateDB(), params)
			require.ErrorIs(t, err, ErrInvalidParams)
		})
	}
}

func TestStartsDisabled(t *testing.T) {
	f := NewFarm()
	db := newMockStateDB()
	require.NoError(t, f.Initialize(db, testFarmParams()))

	_, err := f.AddLiquidity(db, testUser1, bigInt("100"), bigInt("100"))
	require.ErrorIs(t, err, ErrOperationsDisabled)

	_, err = f.Swap(db, testUser1, testAssetA, bigInt("100"), nil)
	require.ErrorIs(t, err, ErrOperationsDisabled)

	_, err = f.ClaimRewards(db, testUser1)
	require.ErrorIs(t, err, ErrOperationsDisabled)

	err = f.FundRewards(db, testFunder, bigInt("100"))
	require.ErrorIs(t, err, ErrOperationsDisabled)

	// The owner can configure and activate while the gate is closed.
	require.NoError(t, f.SetRewardRate(db, testOwner, bigInt("5")))
	require.NoError(t, f.SetOperationsEnabled(db, testOwner, true))

	_, err = f.AddLiquidity(db, testUser1, bigInt("100"), bigInt("100"))
	require.NotErrorIs(t, err, ErrOperationsDisabled)
}

func TestUninitializedRejectsEverything(t *testing.T) {
	f := NewFarm()
	db := newMockStateDB()

	_, err := f.AddLiquidity(db, testUser1, bigInt("1"), bigInt("1"))
	require.ErrorIs(t, err, ErrNotInitialized)

	_, _, err = f.RemoveLiquidity(db, testUser1, bigInt("1"))
	require.ErrorIs(t, err, ErrNotInitialized)

	_, err = f.Swap(db, testUser1, testAssetA, bigInt("1"), nil)
	require.ErrorIs(t, err, ErrNotInitialized)

	_, err = f.ClaimRewards(db, testUser1)
	require.ErrorIs(t, err, ErrNotInitialized)

	err = f.FundRewards(db, testFunder, bigInt("1"))
	require.ErrorIs(t, err, ErrNotInitialized)

	err = f.SetRewardRate(db, testOwner, bigInt("1"))
	require.ErrorIs(t, err, ErrNotInitialized)

	err = f.SetOperationsEnabled(db, testOwner, true)
	require.ErrorIs(t, err, ErrNotInitialized)
}

func TestViewsOnEmptyFarm(t *testing.T) {
	f, _, db := newTestFarm(t)

	reserveA, reserveB := f.GetReserves(db)
	require.Zero(t, reserveA.Sign())
	require.Zero(t, reserveB.Sign())
	require.Zero(t, f.TotalShares(db).Sign())
	require.Zero(t, f.ShareBalanceOf(db, testUser1).Sign())
	require.Zero(t, f.GetRewardPerShare(db).Sign())
	require.Zero(t, f.Earned(db, testUser1).Sign())
	require.Zero(t, f.ClaimUnlockTimeOf(db, testUser1))
	require.Equal(t, MaxRewardRate, f.GetMaxRewardRate())
}

func TestAccrualClockAdvancesWithoutShares(t *testing.T) {
	f, _, db := newTestFarm(t)

	require.NoError(t, f.FundRewards(db, testFunder, bigInt("100000")))
	require.NoError(t, f.SetRewardRate(db, testOwner, bigInt("10")))

	// A long idle stretch with no shares outstanding distributes
	// nothing and burns none of the budget.
	db.advance(10_000)
	require.NoError(t, f.SetRewardRate(db, testOwner, bigInt("10")))

	pool := f.GetPoolState(db)
	require.Equal(t, db.GetTimestamp(), pool.LastAccrualTime)
	require.Zero(t, pool.RewardPerShareStored.Sign())
	require.Equal(t, bigInt("100000"), pool.RemainingRewardBudget)
}

// Small-number walkthrough: two matching-ratio deposits, then a swap
// tiny enough that both basis-point cuts floor to almost nothing.
func TestSmallPoolLifecycle(t *testing.T) {
	f, _, db := newTestFarm(t)

	minted, err := f.AddLiquidity(db, testUser1, bigInt("100"), bigInt("100"))
	require.NoError(t, err)
	require.Equal(t, bigInt("100"), minted)

	reserveA, reserveB := f.GetReserves(db)
	require.Equal(t, bigInt("100"), reserveA)
	require.Equal(t, bigInt("100"), reserveB)

	minted, err = f.AddLiquidity(db, testUser2, bigInt("50"), bigInt("50"))
	require.NoError(t, err)
	require.Equal(t, bigInt("50"), minted)
	require.Equal(t, bigInt("150"), f.TotalShares(db))

	// 10 in at 30bps prices floor(10*9970/10000) = 9, and the protocol
	// cut floors to zero: out = floor(9*150/159) = 8.
	out, err := f.Swap(db, testUser3, testAssetA, bigInt("10"), nil)
	require.NoError(t, err)
	require.Equal(t, bigInt("8"), out)

	reserveA, reserveB = f.GetReserves(db)
	require.Equal(t, bigInt("160"), reserveA)
	require.Equal(t, bigInt("142"), reserveB)

	feesA, feesB := f.GetProtocolFees(db)
	require.Zero(t, feesA.Sign())
	require.Zero(t, feesB.Sign())

	require.Equal(t, bigInt("100"), f.ShareBalanceOf(db, testUser1))
	require.Equal(t, bigInt("50"), f.ShareBalanceOf(db, testUser2))
}
