// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package farm

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
)

// AssetLedger abstracts the fungible ledgers the pool settles against.
// One ledger serves every asset, keyed by asset address. A failed
// transfer must leave balances unchanged.
type AssetLedger interface {
	// BalanceOf returns owner's balance of asset.
	BalanceOf(db StateDB, asset, owner common.Address) *big.Int
	// Transfer moves amount from the farm's holdings to recipient.
	Transfer(db StateDB, asset, to common.Address, amount *big.Int) error
	// TransferFrom moves amount from owner into the farm's holdings.
	TransferFrom(db StateDB, asset, from common.Address, amount *big.Int) error
}

// StateLedger keeps token balances in the holder contract's storage and
// settles the zero asset against native EVM balances.
type StateLedger struct {
	holder common.Address
}

// NewStateLedger returns a ledger holding custody at [holder].
func NewStateLedger(holder common.Address) *StateLedger {
	return &StateLedger{holder: holder}
}

func balanceSlot(asset, owner common.Address) common.Hash {
	id := make([]byte, 0, len(asset)+len(owner))
	id = append(id, asset.Bytes()...)
	id = append(id, owner.Bytes()...)
	return makeStorageKey(balancePrefix, id)
}

// BalanceOf returns owner's balance of asset.
func (l *StateLedger) BalanceOf(db StateDB, asset, owner common.Address) *big.Int {
	if asset == (common.Address{}) {
		return db.GetBalance(owner).ToBig()
	}
	return getBig(db, balanceSlot(asset, owner))
}

// Transfer moves amount from the farm's holdings to recipient.
func (l *StateLedger) Transfer(db StateDB, asset, to common.Address, amount *big.Int) error {
	return l.move(db, asset, l.holder, to, amount)
}

// TransferFrom moves amount from owner into the farm's holdings.
func (l *StateLedger) TransferFrom(db StateDB, asset, from common.Address, amount *big.Int) error {
	return l.move(db, asset, from, l.holder, amount)
}

func (l *StateLedger) move(db StateDB, asset, from, to common.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return fmt.Errorf("%w: negative amount", ErrTransferFailed)
	}
	if asset == (common.Address{}) {
		value, overflow := uint256.FromBig(amount)
		if overflow {
			return fmt.Errorf("%w: amount exceeds native balance width", ErrTransferFailed)
		}
		if db.GetBalance(from).Cmp(value) < 0 {
			return fmt.Errorf("%w: insufficient native balance", ErrTransferFailed)
		}
		db.SubBalance(from, value)
		db.AddBalance(to, value)
		return nil
	}

	fromSlot := balanceSlot(asset, from)
	fromBalance := getBig(db, fromSlot)
	if fromBalance.Cmp(amount) < 0 {
		return fmt.Errorf("%w: insufficient %s balance", ErrTransferFailed, asset.Hex())
	}
	toSlot := balanceSlot(asset, to)
	putBig(db, fromSlot, fromBalance.Sub(fromBalance, amount))
	putBig(db, toSlot, new(big.Int).Add(getBig(db, toSlot), amount))
	return nil
}

// Credit mints amount of asset to owner. Used to seed balances at
// genesis and in tests.
func (l *StateLedger) Credit(db StateDB, asset, owner common.Address, amount *big.Int) {
	if asset == (common.Address{}) {
		value, _ := uint256.FromBig(amount)
		db.AddBalance(owner, value)
		return
	}
	slot := balanceSlot(asset, owner)
	putBig(db, slot, new(big.Int).Add(getBig(db, slot), amount))
}
