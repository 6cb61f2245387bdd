// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package farm

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

// startEmission funds the budget and sets the emission rate.
func startEmission(t *testing.T, f *Farm, db *mockStateDB, budget, rate string) {
	t.Helper()
	require.NoError(t, f.FundRewards(db, testFunder, bigInt(budget)))
	require.NoError(t, f.SetRewardRate(db, testOwner, bigInt(rate)))
}

func TestRewardAccrualSingleProvider(t *testing.T) {
	f, ledger, db := newTestFarm(t)

	_, err := f.AddLiquidity(db, testUser1, bigInt("100000"), bigInt("100000"))
	require.NoError(t, err)
	startEmission(t, f, db, "10000", "5")

	// Funding moved the whole budget into farm custody.
	require.Equal(t, bigInt("10000"), ledger.BalanceOf(db, testReward, FarmAddr))

	db.advance(100)
	require.Equal(t, bigInt("500"), f.Earned(db, testUser1))

	before := ledger.BalanceOf(db, testReward, testUser1)
	payout, err := f.ClaimRewards(db, testUser1)
	require.NoError(t, err)
	require.Equal(t, bigInt("500"), payout)
	require.Equal(t, bigInt("500"), new(big.Int).Sub(ledger.BalanceOf(db, testReward, testUser1), before))
	require.Equal(t, bigInt("9500"), f.GetRewardBudget(db))
	require.Zero(t, f.Earned(db, testUser1).Sign())
}

func TestRewardSplitsProportionally(t *testing.T) {
	f, _, db := newTestFarm(t)

	_, err := f.AddLiquidity(db, testUser1, bigInt("100000"), bigInt("100000"))
	require.NoError(t, err)
	_, err = f.AddLiquidity(db, testUser2, bigInt("50000"), bigInt("50000"))
	require.NoError(t, err)
	startEmission(t, f, db, "10000", "3")

	db.advance(1000)

	// 3000 emitted over 150000 shares: two thirds to the larger
	// provider, one third to the smaller.
	require.Equal(t, bigInt("2000"), f.Earned(db, testUser1))
	require.Equal(t, bigInt("1000"), f.Earned(db, testUser2))

	payout1, err := f.ClaimRewards(db, testUser1)
	require.NoError(t, err)
	payout2, err := f.ClaimRewards(db, testUser2)
	require.NoError(t, err)
	require.Equal(t, bigInt("2000"), payout1)
	require.Equal(t, bigInt("1000"), payout2)
}

func TestClaimCooldown(t *testing.T) {
	f, _, db := newTestFarm(t)

	_, err := f.AddLiquidity(db, testUser1, bigInt("100000"), bigInt("100000"))
	require.NoError(t, err)
	startEmission(t, f, db, "10000", "5")

	db.advance(100)
	payout, err := f.ClaimRewards(db, testUser1)
	require.NoError(t, err)
	require.Equal(t, bigInt("500"), payout)

	claimTime := db.GetTimestamp()
	require.Equal(t, claimTime+DefaultClaimLockSeconds, f.ClaimUnlockTimeOf(db, testUser1))

	// More accrues, but the cooldown blocks the claim.
	db.advance(100)
	require.True(t, f.Earned(db, testUser1).Sign() > 0)
	_, err = f.ClaimRewards(db, testUser1)
	require.ErrorIs(t, err, ErrRewardsLocked)

	// A claim exactly at the unlock time goes through and drains the
	// rest of the budget, so total payout equals total funding.
	db.advance(DefaultClaimLockSeconds - 100)
	payout, err = f.ClaimRewards(db, testUser1)
	require.NoError(t, err)
	require.Equal(t, bigInt("9500"), payout)
	require.Zero(t, f.GetRewardBudget(db).Sign())
}

func TestRejectedClaimLeavesStateUntouched(t *testing.T) {
	f, _, db := newTestFarm(t)

	_, err := f.AddLiquidity(db, testUser1, bigInt("100000"), bigInt("100000"))
	require.NoError(t, err)
	startEmission(t, f, db, "10000", "5")

	db.advance(100)
	_, err = f.ClaimRewards(db, testUser1)
	require.NoError(t, err)

	settled := f.GetPoolState(db)

	db.advance(100)
	_, err = f.ClaimRewards(db, testUser1)
	require.ErrorIs(t, err, ErrRewardsLocked)

	// The rejected claim settled nothing: budget and accrual clock
	// still read as of the successful claim.
	pool := f.GetPoolState(db)
	require.Equal(t, settled.RemainingRewardBudget, pool.RemainingRewardBudget)
	require.Equal(t, settled.LastAccrualTime, pool.LastAccrualTime)
	require.Equal(t, settled.RewardPerShareStored, pool.RewardPerShareStored)
}

func TestClaimNothingAccrued(t *testing.T) {
	f, _, db := newTestFarm(t)

	// Shares but no emission configured.
	_, err := f.AddLiquidity(db, testUser1, bigInt("100000"), bigInt("100000"))
	require.NoError(t, err)
	db.advance(1000)
	_, err = f.ClaimRewards(db, testUser1)
	require.ErrorIs(t, err, ErrNoRewardsAvailable)

	// Never participated.
	_, err = f.ClaimRewards(db, testUser3)
	require.ErrorIs(t, err, ErrNoRewardsAvailable)
}

func TestBudgetCapsEmission(t *testing.T) {
	f, _, db := newTestFarm(t)

	_, err := f.AddLiquidity(db, testUser1, bigInt("100000"), bigInt("100000"))
	require.NoError(t, err)
	startEmission(t, f, db, "300", "5")

	// 500 would accrue at the rate, but only 300 is funded.
	db.advance(100)
	require.Equal(t, bigInt("300"), f.Earned(db, testUser1))

	payout, err := f.ClaimRewards(db, testUser1)
	require.NoError(t, err)
	require.Equal(t, bigInt("300"), payout)
	require.Zero(t, f.GetRewardBudget(db).Sign())

	// Emission stays stopped until someone funds again.
	db.advance(1000)
	require.Zero(t, f.Earned(db, testUser1).Sign())

	require.NoError(t, f.FundRewards(db, testFunder, bigInt("400")))
	db.advance(100)
	require.Equal(t, bigInt("400"), f.Earned(db, testUser1))
}

func TestExitKeepsSettledRewards(t *testing.T) {
	f, _, db := newTestFarm(t)

	_, err := f.AddLiquidity(db, testUser1, bigInt("100000"), bigInt("100000"))
	require.NoError(t, err)
	startEmission(t, f, db, "10000", "5")

	db.advance(100)

	// A full exit settles 500 of rewards into the account.
	_, _, err = f.RemoveLiquidity(db, testUser1, bigInt("100000"))
	require.NoError(t, err)
	require.Zero(t, f.ShareBalanceOf(db, testUser1).Sign())
	require.Equal(t, bigInt("500"), f.Earned(db, testUser1))

	// Holding zero shares accrues nothing further but keeps the
	// settled amount claimable.
	db.advance(1000)
	require.Equal(t, bigInt("500"), f.Earned(db, testUser1))

	payout, err := f.ClaimRewards(db, testUser1)
	require.NoError(t, err)
	require.Equal(t, bigInt("500"), payout)
}

func TestLateJoinerEarnsNothingRetroactively(t *testing.T) {
	f, _, db := newTestFarm(t)

	_, err := f.AddLiquidity(db, testUser1, bigInt("100000"), bigInt("100000"))
	require.NoError(t, err)
	startEmission(t, f, db, "100000", "5")

	db.advance(100)

	_, err = f.AddLiquidity(db, testUser2, bigInt("100000"), bigInt("100000"))
	require.NoError(t, err)
	require.Zero(t, f.Earned(db, testUser2).Sign())

	db.advance(100)

	// First 500 went to user1 alone; the next 500 splits evenly.
	require.Equal(t, bigInt("750"), f.Earned(db, testUser1))
	require.Equal(t, bigInt("250"), f.Earned(db, testUser2))
}

func TestEmissionFloorDustStaysInCustody(t *testing.T) {
	f, ledger, db := newTestFarm(t)

	// Three shares cannot split 100 evenly: each settles 33, and the
	// floored remainder strands in custody, never claimable.
	_, err := f.AddLiquidity(db, testUser1, bigInt("3"), bigInt("3"))
	require.NoError(t, err)
	startEmission(t, f, db, "100", "1")

	db.advance(100)
	require.Equal(t, bigInt("99"), f.Earned(db, testUser1))

	payout, err := f.ClaimRewards(db, testUser1)
	require.NoError(t, err)
	require.Equal(t, bigInt("99"), payout)
	require.Zero(t, f.GetRewardBudget(db).Sign())
	require.Equal(t, bigInt("1"), ledger.BalanceOf(db, testReward, FarmAddr))
}

func TestFundRewardsAuthorization(t *testing.T) {
	f, ledger, db := newTestFarm(t)

	err := f.FundRewards(db, testUser1, bigInt("100"))
	require.ErrorIs(t, err, ErrUnauthorized)

	// The owner can always fund.
	ledger.Credit(db, testReward, testOwner, bigInt("100"))
	require.NoError(t, f.FundRewards(db, testOwner, bigInt("100")))

	// A revoked funder loses the role.
	require.NoError(t, f.SetAuthorizedFunder(db, testOwner, testFunder, false))
	err = f.FundRewards(db, testFunder, bigInt("100"))
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestFundRewardsValidation(t *testing.T) {
	f, _, db := newTestFarm(t)

	err := f.FundRewards(db, testFunder, bigInt("0"))
	require.ErrorIs(t, err, ErrInvalidAmount)

	err = f.FundRewards(db, testFunder, nil)
	require.ErrorIs(t, err, ErrInvalidAmount)

	// Funding more than the funder holds fails and leaves the budget
	// untouched.
	err = f.FundRewards(db, testFunder, bigInt("2000000000"))
	require.ErrorIs(t, err, ErrTransferFailed)
	require.Zero(t, f.GetRewardBudget(db).Sign())
}

func TestZeroClaimLockAllowsImmediateReclaim(t *testing.T) {
	ledger := NewStateLedger(FarmAddr)
	control := NewStateControl()
	f := NewFarmWith(ledger, control, control, NewJournal(nil))
	db := newMockStateDB()

	params := testFarmParams()
	params.ClaimLockSeconds = 0
	require.NoError(t, f.Initialize(db, params))
	require.NoError(t, f.SetOperationsEnabled(db, testOwner, true))
	require.NoError(t, f.SetAuthorizedFunder(db, testOwner, testFunder, true))
	ledger.Credit(db, testAssetA, testUser1, bigInt("100000"))
	ledger.Credit(db, testAssetB, testUser1, bigInt("100000"))
	ledger.Credit(db, testReward, testFunder, bigInt("10000"))

	_, err := f.AddLiquidity(db, testUser1, bigInt("100000"), bigInt("100000"))
	require.NoError(t, err)
	require.NoError(t, f.FundRewards(db, testFunder, bigInt("10000")))
	require.NoError(t, f.SetRewardRate(db, testOwner, bigInt("5")))

	db.advance(100)
	_, err = f.ClaimRewards(db, testUser1)
	require.NoError(t, err)

	db.advance(1)
	payout, err := f.ClaimRewards(db, testUser1)
	require.NoError(t, err)
	require.Equal(t, bigInt("5"), payout)
}
