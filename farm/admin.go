// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package farm

// Owner-gated operations. None of them consult the pause gate: the
// owner can always adjust rates, collect fees, and flip the gate
// itself, including while operations are disabled.

import (
	"math/big"

	"github.com/luxfi/geth/common"
)

// SetRewardRate changes the emission rate. Accrual owed under the old
// rate settles first, so the new rate only covers time from now on. A
// zero rate stops emission.
func (f *Farm) SetRewardRate(db StateDB, caller common.Address, newRate *big.Int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, err := f.getParams(db); err != nil {
		return err
	}
	if err := f.requireOwner(db, caller); err != nil {
		return err
	}
	if newRate == nil || newRate.Sign() < 0 || newRate.BitLen() > 256 {
		return ErrInvalidAmount
	}
	if newRate.Cmp(MaxRewardRate) > 0 {
		return ErrRewardRateTooHigh
	}

	now := db.GetTimestamp()
	pool := f.getPool(db)
	settlePool(pool, now)
	pool.RewardRate = new(big.Int).Set(newRate)
	f.setPool(db, pool)

	f.journalOp(now, "setRewardRate", caller, map[string]string{
		"rate": newRate.String(),
	})
	f.log.Info("reward rate updated", "rate", newRate)
	return nil
}

// WithdrawProtocolFees pays the accumulated protocol fees of both pool
// assets to the owner and resets the accumulators. The withdrawn
// amounts leave the reserves they were riding in, keeping the reserve
// slots equal to what the farm actually holds. When a reserve no
// longer covers its claim the withdrawal rejects and the claim stays
// accrued.
func (f *Farm) WithdrawProtocolFees(db StateDB, caller common.Address) (*big.Int, *big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	params, err := f.getParams(db)
	if err != nil {
		return nil, nil, err
	}
	if err := f.requireOwner(db, caller); err != nil {
		return nil, nil, err
	}

	pool := f.getPool(db)
	feesA := new(big.Int).Set(pool.ProtocolFeesA)
	feesB := new(big.Int).Set(pool.ProtocolFeesB)
	if feesA.Sign() == 0 && feesB.Sign() == 0 {
		return nil, nil, ErrNoFeesAccrued
	}

	// Accrued fees are claims on the reserves, and a run of one-sided
	// swaps can drain a reserve below its claim. The payout then waits
	// until trading replenishes the reserve; reserves stay positive
	// while shares are outstanding.
	remainA := new(big.Int).Sub(pool.ReserveA, feesA)
	remainB := new(big.Int).Sub(pool.ReserveB, feesB)
	if remainA.Sign() < 0 || remainB.Sign() < 0 {
		return nil, nil, ErrInsufficientLiquidity
	}
	if pool.TotalShares.Sign() > 0 && (remainA.Sign() == 0 || remainB.Sign() == 0) {
		return nil, nil, ErrInsufficientLiquidity
	}

	snapshot := db.Snapshot()
	if feesA.Sign() > 0 {
		if err := f.ledger.Transfer(db, params.AssetA, caller, feesA); err != nil {
			db.RevertToSnapshot(snapshot)
			return nil, nil, err
		}
	}
	if feesB.Sign() > 0 {
		if err := f.ledger.Transfer(db, params.AssetB, caller, feesB); err != nil {
			db.RevertToSnapshot(snapshot)
			return nil, nil, err
		}
	}

	pool.ReserveA.Sub(pool.ReserveA, feesA)
	pool.ReserveB.Sub(pool.ReserveB, feesB)
	pool.ProtocolFeesA = new(big.Int)
	pool.ProtocolFeesB = new(big.Int)
	f.setPool(db, pool)

	now := db.GetTimestamp()
	f.journalOp(now, "withdrawProtocolFees", caller, map[string]string{
		"feesA": feesA.String(),
		"feesB": feesB.String(),
	})
	f.log.Info("protocol fees withdrawn", "feesA", feesA, "feesB", feesB)
	return feesA, feesB, nil
}

// WithdrawExcessRewards pays out reward asset the farm holds beyond the
// undistributed budget, for example funding sent directly to the farm
// address. The budget itself can never be impaired: the held balance
// must strictly exceed budget plus the requested amount.
func (f *Farm) WithdrawExcessRewards(db StateDB, caller common.Address, amount *big.Int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	params, err := f.getParams(db)
	if err != nil {
		return err
	}
	if err := f.requireOwner(db, caller); err != nil {
		return err
	}
	if !validAmount(amount) {
		return ErrInvalidAmount
	}

	now := db.GetTimestamp()
	pool := f.getPool(db)
	settlePool(pool, now)

	held := f.ledger.BalanceOf(db, params.RewardAsset, FarmAddr)
	required := new(big.Int).Add(pool.RemainingRewardBudget, amount)
	if held.Cmp(required) <= 0 {
		return ErrBudgetExceeded
	}

	snapshot := db.Snapshot()
	if err := f.ledger.Transfer(db, params.RewardAsset, caller, amount); err != nil {
		db.RevertToSnapshot(snapshot)
		return err
	}
	f.setPool(db, pool)

	f.journalOp(now, "withdrawExcessRewards", caller, map[string]string{
		"amount": amount.String(),
	})
	f.log.Info("excess rewards withdrawn", "amount", amount)
	return nil
}

// RecoverForeignAsset transfers out an asset that is not part of the
// pool, for tokens misdirected to the farm address. Pool and reward
// assets are protected.
func (f *Farm) RecoverForeignAsset(db StateDB, caller common.Address, asset common.Address, amount *big.Int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	params, err := f.getParams(db)
	if err != nil {
		return err
	}
	if err := f.requireOwner(db, caller); err != nil {
		return err
	}
	if !validAmount(amount) {
		return ErrInvalidAmount
	}
	if asset == params.AssetA || asset == params.AssetB || asset == params.RewardAsset {
		return ErrProtectedAsset
	}

	snapshot := db.Snapshot()
	if err := f.ledger.Transfer(db, asset, caller, amount); err != nil {
		db.RevertToSnapshot(snapshot)
		return err
	}

	f.journalOp(db.GetTimestamp(), "recoverForeignAsset", caller, map[string]string{
		"asset":  asset.Hex(),
		"amount": amount.String(),
	})
	f.log.Info("foreign asset recovered", "asset", asset, "amount", amount)
	return nil
}

// SetAuthorizedFunder grants or revokes addr's right to call
// FundRewards.
func (f *Farm) SetAuthorizedFunder(db StateDB, caller common.Address, addr common.Address, enabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, err := f.getParams(db); err != nil {
		return err
	}
	if err := f.requireOwner(db, caller); err != nil {
		return err
	}

	f.access.SetAuthorizedFunder(db, addr, enabled)

	f.journalOp(db.GetTimestamp(), "setAuthorizedFunder", caller, map[string]string{
		"funder":  addr.Hex(),
		"enabled": boolString(enabled),
	})
	f.log.Info("funder authorization updated", "funder", addr, "enabled", enabled)
	return nil
}

// SetOperationsEnabled flips the pause gate. A fresh farm starts
// disabled, so enabling is the activation step that opens user
// operations.
func (f *Farm) SetOperationsEnabled(db StateDB, caller common.Address, enabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, err := f.getParams(db); err != nil {
		return err
	}
	if err := f.requireOwner(db, caller); err != nil {
		return err
	}

	f.gate.SetOperationsEnabled(db, enabled)

	f.journalOp(db.GetTimestamp(), "setOperationsEnabled", caller, map[string]string{
		"enabled": boolString(enabled),
	})
	f.log.Info("operations gate updated", "enabled", enabled)
	return nil
}

func boolString(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
