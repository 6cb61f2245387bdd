// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package farm

import (
	"github.com/luxfi/geth/common"
)

// AccessController answers the role checks behind privileged
// operations.
type AccessController interface {
	IsOwner(db StateDB, caller common.Address) bool
	IsAuthorizedFunder(db StateDB, caller common.Address) bool
	SetAuthorizedFunder(db StateDB, addr common.Address, enabled bool)
}

// PauseGate reports whether user-facing operations may run. The zero
// state is disabled, so a fresh farm accepts nothing until the owner
// turns it on.
type PauseGate interface {
	OperationsEnabled(db StateDB) bool
	SetOperationsEnabled(db StateDB, enabled bool)
}

// StateControl answers both role and pause checks from the farm's own
// storage. The owner is whoever Initialize recorded; funder grants and
// the enabled flag live under the control prefix.
type StateControl struct{}

// NewStateControl returns the storage-backed controller.
func NewStateControl() *StateControl {
	return &StateControl{}
}

func funderSlot(addr common.Address) common.Hash {
	id := make([]byte, 0, len("funder")+len(addr))
	id = append(id, "funder"...)
	id = append(id, addr.Bytes()...)
	return makeStorageKey(controlPrefix, id)
}

// IsOwner reports whether caller is the recorded owner. An unset owner
// matches nothing.
func (c *StateControl) IsOwner(db StateDB, caller common.Address) bool {
	owner := getAddress(db, slotOwner)
	if owner == (common.Address{}) {
		return false
	}
	return caller == owner
}

// IsAuthorizedFunder reports whether caller holds a funder grant. The
// owner is always a funder.
func (c *StateControl) IsAuthorizedFunder(db StateDB, caller common.Address) bool {
	if c.IsOwner(db, caller) {
		return true
	}
	return getBool(db, funderSlot(caller))
}

// SetAuthorizedFunder grants or revokes the funder role for addr.
func (c *StateControl) SetAuthorizedFunder(db StateDB, addr common.Address, enabled bool) {
	putBool(db, funderSlot(addr), enabled)
}

// OperationsEnabled reports whether user operations are enabled.
func (c *StateControl) OperationsEnabled(db StateDB) bool {
	return getBool(db, slotEnabled)
}

// SetOperationsEnabled flips the pause gate.
func (c *StateControl) SetOperationsEnabled(db StateDB, enabled bool) {
	putBool(db, slotEnabled, enabled)
}
