// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package farm

import (
	"math/big"

	"github.com/luxfi/geth/common"
)

// ClaimRewards settles the caller and pays out their entire accrued
// reward, then arms the claim cooldown. An account that has withdrawn
// all shares keeps its settled rewards and may still claim them.
func (f *Farm) ClaimRewards(db StateDB, caller common.Address) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	params, err := f.getParams(db)
	if err != nil {
		return nil, err
	}
	if err := f.requireEnabled(db); err != nil {
		return nil, err
	}

	now := db.GetTimestamp()
	pool := f.getPool(db)
	settlePool(pool, now)
	acct := f.getAccount(db, caller)
	settleAccount(pool, acct)

	if now < acct.ClaimUnlockTime {
		return nil, ErrRewardsLocked
	}
	if acct.AccruedReward.Sign() == 0 {
		return nil, ErrNoRewardsAvailable
	}

	payout := new(big.Int).Set(acct.AccruedReward)
	acct.AccruedReward = new(big.Int)
	acct.ClaimUnlockTime = now + params.ClaimLockSeconds

	snapshot := db.Snapshot()
	if err := f.ledger.Transfer(db, params.RewardAsset, caller, payout); err != nil {
		db.RevertToSnapshot(snapshot)
		return nil, err
	}

	f.setPool(db, pool)
	f.setAccount(db, caller, acct)

	f.journalOp(now, "claimRewards", caller, map[string]string{
		"amount": payout.String(),
		"unlock": new(big.Int).SetUint64(acct.ClaimUnlockTime).String(),
	})
	f.log.Debug("rewards claimed", "caller", caller, "amount", payout)
	return payout, nil
}

// FundRewards pulls reward asset from an authorized funder into the
// undistributed budget. Emission already owed for elapsed time settles
// against the old budget first.
func (f *Farm) FundRewards(db StateDB, caller common.Address, amount *big.Int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	params, err := f.getParams(db)
	if err != nil {
		return err
	}
	if err := f.requireEnabled(db); err != nil {
		return err
	}
	if !f.access.IsAuthorizedFunder(db, caller) {
		return ErrUnauthorized
	}
	if !validAmount(amount) {
		return ErrInvalidAmount
	}

	now := db.GetTimestamp()
	pool := f.getPool(db)
	settlePool(pool, now)

	snapshot := db.Snapshot()
	if err := f.ledger.TransferFrom(db, params.RewardAsset, caller, amount); err != nil {
		db.RevertToSnapshot(snapshot)
		return err
	}

	pool.RemainingRewardBudget.Add(pool.RemainingRewardBudget, amount)
	f.setPool(db, pool)

	f.journalOp(now, "fundRewards", caller, map[string]string{
		"amount": amount.String(),
		"budget": pool.RemainingRewardBudget.String(),
	})
	f.log.Debug("rewards funded", "caller", caller, "amount", amount)
	return nil
}

// Earned returns the reward addr could claim right now: settled accrual
// plus the projection of emission since the last settlement. Nothing is
// committed. An address that never provided liquidity earns zero
// regardless of elapsed time or funding.
func (f *Farm) Earned(db StateDB, addr common.Address) *big.Int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	pool := f.getPool(db)
	projected := new(big.Int).Set(pool.RewardPerShareStored)
	if pool.TotalShares.Sign() > 0 {
		var elapsed uint64
		now := db.GetTimestamp()
		if now > pool.LastAccrualTime {
			elapsed = now - pool.LastAccrualTime
		}
		toDistribute := rewardAccrual(elapsed, pool.RewardRate, pool.RemainingRewardBudget)
		if toDistribute.Sign() > 0 {
			perShare := new(big.Int).Mul(toDistribute, RewardScale)
			perShare.Div(perShare, pool.TotalShares)
			projected.Add(projected, perShare)
		}
	}

	acct := f.getAccount(db, addr)
	pending := pendingReward(acct.ShareBalance, projected, acct.RewardPerSharePaid)
	return pending.Add(pending, acct.AccruedReward)
}
