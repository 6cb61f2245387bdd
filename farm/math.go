// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package farm

import "math/big"

var bpsDen = new(big.Int).SetUint64(BpsDenominator)

// mulDiv returns floor(a*b/den). den must be positive.
func mulDiv(a, b, den *big.Int) *big.Int {
	out := new(big.Int).Mul(a, b)
	return out.Div(out, den)
}

// bps returns floor(amount*numerator/10000).
func bps(amount *big.Int, numerator uint64) *big.Int {
	return mulDiv(amount, new(big.Int).SetUint64(numerator), bpsDen)
}

// minBig returns the smaller of a and b. The result aliases one of the
// arguments.
func minBig(a, b *big.Int) *big.Int {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

// swapOutput prices amountIn against the constant-product curve. The
// trade fee stays in the pool and the protocol fee is skimmed off the
// input before pricing; both are floored basis-point cuts. If the
// protocol cut would exceed what the trade fee left, it is clamped to
// the remainder and nothing is priced.
func swapOutput(amountIn, reserveIn, reserveOut *big.Int, tradeFeeBps, protocolFeeBps uint64) (amountOut, protocolFee *big.Int, err error) {
	if reserveIn.Sign() == 0 || reserveOut.Sign() == 0 {
		return nil, nil, ErrInsufficientLiquidity
	}

	afterTradeFee := bps(amountIn, BpsDenominator-tradeFeeBps)
	protocolFee = bps(amountIn, protocolFeeBps)

	netIn := new(big.Int)
	if protocolFee.Cmp(afterTradeFee) > 0 {
		protocolFee.Set(afterTradeFee)
	} else {
		netIn.Sub(afterTradeFee, protocolFee)
	}

	num := new(big.Int).Mul(netIn, reserveOut)
	den := new(big.Int).Add(reserveIn, netIn)
	amountOut = num.Div(num, den)
	return amountOut, protocolFee, nil
}

// depositShares computes the shares minted for a deposit. The first
// deposit takes the geometric mean of the two amounts; later deposits
// must match the current reserve ratio within AddLiquiditySlippageBps
// and mint the smaller proportional entitlement.
func depositShares(amountA, amountB, reserveA, reserveB, totalShares *big.Int) (*big.Int, error) {
	if totalShares.Sign() == 0 {
		product := new(big.Int).Mul(amountA, amountB)
		minted := new(big.Int).Sqrt(product)
		if minted.Sign() == 0 {
			return nil, ErrInsufficientLiquidity
		}
		return minted, nil
	}

	impliedB := mulDiv(amountA, reserveB, reserveA)
	minB := bps(impliedB, BpsDenominator-AddLiquiditySlippageBps)
	if amountB.Cmp(minB) < 0 {
		return nil, ErrSlippageExceeded
	}

	minted := minBig(
		mulDiv(amountA, totalShares, reserveA),
		mulDiv(amountB, totalShares, reserveB),
	)
	if minted.Sign() == 0 {
		return nil, ErrInsufficientLiquidity
	}
	return new(big.Int).Set(minted), nil
}

// withdrawalAmounts returns the proportional reserve payout for burning
// shareAmount out of totalShares.
func withdrawalAmounts(shareAmount, totalShares, reserveA, reserveB *big.Int) (amountA, amountB *big.Int) {
	amountA = mulDiv(shareAmount, reserveA, totalShares)
	amountB = mulDiv(shareAmount, reserveB, totalShares)
	return amountA, amountB
}

// rewardAccrual returns the reward emitted over elapsed seconds at
// rate, capped by the remaining budget.
func rewardAccrual(elapsed uint64, rate, budget *big.Int) *big.Int {
	if elapsed == 0 || rate.Sign() == 0 || budget.Sign() <= 0 {
		return new(big.Int)
	}
	out := new(big.Int).SetUint64(elapsed)
	out.Mul(out, rate)
	if out.Cmp(budget) > 0 {
		out.Set(budget)
	}
	return out
}

// pendingReward is the reward owed to shares for the accumulator travel
// from rpsPaid to rpsNow, clamped at zero.
func pendingReward(shares, rpsNow, rpsPaid *big.Int) *big.Int {
	if shares.Sign() == 0 {
		return new(big.Int)
	}
	delta := new(big.Int).Sub(rpsNow, rpsPaid)
	if delta.Sign() <= 0 {
		return new(big.Int)
	}
	delta.Mul(delta, shares)
	return delta.Div(delta, RewardScale)
}

// validAmount reports whether v is a usable positive amount that fits a
// 256-bit storage word.
func validAmount(v *big.Int) bool {
	return v != nil && v.Sign() > 0 && v.BitLen() <= 256
}
