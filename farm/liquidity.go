// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package farm

import (
	"math/big"

	"github.com/luxfi/geth/common"
)

// AddLiquidity pulls both pool assets from the caller and mints shares.
// The first deposit sets the price; later deposits must match the
// current reserve ratio within AddLiquiditySlippageBps.
func (f *Farm) AddLiquidity(db StateDB, caller common.Address, amountA, amountB *big.Int) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	params, err := f.getParams(db)
	if err != nil {
		return nil, err
	}
	if err := f.requireEnabled(db); err != nil {
		return nil, err
	}
	if !validAmount(amountA) || !validAmount(amountB) {
		return nil, ErrInvalidAmount
	}

	now := db.GetTimestamp()
	pool := f.getPool(db)
	settlePool(pool, now)
	acct := f.getAccount(db, caller)
	settleAccount(pool, acct)

	minted, err := depositShares(amountA, amountB, pool.ReserveA, pool.ReserveB, pool.TotalShares)
	if err != nil {
		return nil, err
	}

	snapshot := db.Snapshot()
	if err := f.ledger.TransferFrom(db, params.AssetA, caller, amountA); err != nil {
		db.RevertToSnapshot(snapshot)
		return nil, err
	}
	if err := f.ledger.TransferFrom(db, params.AssetB, caller, amountB); err != nil {
		db.RevertToSnapshot(snapshot)
		return nil, err
	}

	pool.ReserveA.Add(pool.ReserveA, amountA)
	pool.ReserveB.Add(pool.ReserveB, amountB)
	pool.TotalShares.Add(pool.TotalShares, minted)
	acct.ShareBalance.Add(acct.ShareBalance, minted)

	f.setPool(db, pool)
	f.setAccount(db, caller, acct)

	f.journalOp(now, "addLiquidity", caller, map[string]string{
		"amountA": amountA.String(),
		"amountB": amountB.String(),
		"shares":  minted.String(),
	})
	f.log.Debug("liquidity added",
		"caller", caller,
		"amountA", amountA,
		"amountB", amountB,
		"shares", minted,
	)
	return minted, nil
}

// RemoveLiquidity burns the caller's shares and pays out both assets in
// proportion to the share of the pool burned.
func (f *Farm) RemoveLiquidity(db StateDB, caller common.Address, shareAmount *big.Int) (*big.Int, *big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	params, err := f.getParams(db)
	if err != nil {
		return nil, nil, err
	}
	if err := f.requireEnabled(db); err != nil {
		return nil, nil, err
	}
	if !validAmount(shareAmount) {
		return nil, nil, ErrInvalidAmount
	}

	now := db.GetTimestamp()
	pool := f.getPool(db)
	settlePool(pool, now)
	acct := f.getAccount(db, caller)
	settleAccount(pool, acct)

	if acct.ShareBalance.Cmp(shareAmount) < 0 {
		return nil, nil, ErrInsufficientShares
	}

	amountA, amountB := withdrawalAmounts(shareAmount, pool.TotalShares, pool.ReserveA, pool.ReserveB)
	if amountA.Sign() == 0 || amountB.Sign() == 0 {
		return nil, nil, ErrInsufficientLiquidity
	}

	snapshot := db.Snapshot()
	if err := f.ledger.Transfer(db, params.AssetA, caller, amountA); err != nil {
		db.RevertToSnapshot(snapshot)
		return nil, nil, err
	}
	if err := f.ledger.Transfer(db, params.AssetB, caller, amountB); err != nil {
		db.RevertToSnapshot(snapshot)
		return nil, nil, err
	}

	pool.ReserveA.Sub(pool.ReserveA, amountA)
	pool.ReserveB.Sub(pool.ReserveB, amountB)
	pool.TotalShares.Sub(pool.TotalShares, shareAmount)
	acct.ShareBalance.Sub(acct.ShareBalance, shareAmount)

	f.setPool(db, pool)
	f.setAccount(db, caller, acct)

	f.journalOp(now, "removeLiquidity", caller, map[string]string{
		"shares":  shareAmount.String(),
		"amountA": amountA.String(),
		"amountB": amountB.String(),
	})
	f.log.Debug("liquidity removed",
		"caller", caller,
		"shares", shareAmount,
		"amountA", amountA,
		"amountB", amountB,
	)
	return amountA, amountB, nil
}
