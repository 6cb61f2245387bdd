// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package farm

import (
	"math/big"

	"github.com/luxfi/geth/common"
)

// Swap trades amountIn of one pool asset for the other along the
// constant-product curve. The full input lands in the reserve; the
// protocol's cut of it is tracked in the fee accumulator as a claim the
// owner can withdraw later. Rejects rather than let the output drain
// its reserve.
func (f *Farm) Swap(db StateDB, caller common.Address, assetIn common.Address, amountIn, minAmountOut *big.Int) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	params, err := f.getParams(db)
	if err != nil {
		return nil, err
	}
	if err := f.requireEnabled(db); err != nil {
		return nil, err
	}
	if !validAmount(amountIn) {
		return nil, ErrInvalidAmount
	}
	if minAmountOut == nil {
		minAmountOut = new(big.Int)
	}
	if minAmountOut.Sign() < 0 {
		return nil, ErrInvalidAmount
	}

	var assetOut common.Address
	switch assetIn {
	case params.AssetA:
		assetOut = params.AssetB
	case params.AssetB:
		assetOut = params.AssetA
	default:
		return nil, ErrUnsupportedAsset
	}

	now := db.GetTimestamp()
	pool := f.getPool(db)
	settlePool(pool, now)
	acct := f.getAccount(db, caller)
	settleAccount(pool, acct)

	reserveIn, reserveOut := pool.ReserveA, pool.ReserveB
	feeAccumulator := pool.ProtocolFeesA
	if assetIn == params.AssetB {
		reserveIn, reserveOut = pool.ReserveB, pool.ReserveA
		feeAccumulator = pool.ProtocolFeesB
	}

	amountOut, protocolFee, err := swapOutput(amountIn, reserveIn, reserveOut, params.TradeFeeBps, params.ProtocolFeeBps)
	if err != nil {
		return nil, err
	}
	if amountOut.Sign() == 0 || amountOut.Cmp(reserveOut) >= 0 {
		return nil, ErrInsufficientLiquidity
	}
	if amountOut.Cmp(minAmountOut) < 0 {
		return nil, ErrSlippageExceeded
	}

	snapshot := db.Snapshot()
	if err := f.ledger.TransferFrom(db, assetIn, caller, amountIn); err != nil {
		db.RevertToSnapshot(snapshot)
		return nil, err
	}
	if err := f.ledger.Transfer(db, assetOut, caller, amountOut); err != nil {
		db.RevertToSnapshot(snapshot)
		return nil, err
	}

	reserveIn.Add(reserveIn, amountIn)
	reserveOut.Sub(reserveOut, amountOut)
	feeAccumulator.Add(feeAccumulator, protocolFee)

	f.setPool(db, pool)
	f.setAccount(db, caller, acct)

	f.journalOp(now, "swap", caller, map[string]string{
		"assetIn":     assetIn.Hex(),
		"amountIn":    amountIn.String(),
		"amountOut":   amountOut.String(),
		"protocolFee": protocolFee.String(),
	})
	f.log.Debug("swap executed",
		"caller", caller,
		"assetIn", assetIn,
		"amountIn", amountIn,
		"amountOut", amountOut,
	)
	return amountOut, nil
}

// GetAmountOut quotes a swap against the current reserves without
// executing it.
func (f *Farm) GetAmountOut(db StateDB, assetIn common.Address, amountIn *big.Int) (*big.Int, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	params, err := f.getParams(db)
	if err != nil {
		return nil, err
	}
	if !validAmount(amountIn) {
		return nil, ErrInvalidAmount
	}

	reserveIn := getBig(db, slotReserveA)
	reserveOut := getBig(db, slotReserveB)
	switch assetIn {
	case params.AssetA:
	case params.AssetB:
		reserveIn, reserveOut = reserveOut, reserveIn
	default:
		return nil, ErrUnsupportedAsset
	}

	amountOut, _, err := swapOutput(amountIn, reserveIn, reserveOut, params.TradeFeeBps, params.ProtocolFeeBps)
	if err != nil {
		return nil, err
	}
	return amountOut, nil
}
