// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package contract defines the interfaces a stateful precompiled
// contract is written against: the state it may touch, the block
// context it executes in, and the configurator hook used to apply
// genesis/upgrade configuration.
package contract

import (
	"errors"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/markets/precompileconfig"
)

// ErrOutOfGas is returned when the supplied gas cannot cover an operation.
var ErrOutOfGas = errors.New("out of gas")

// StateDB is the subset of EVM state access available to precompiles.
type StateDB interface {
	GetState(addr common.Address, key common.Hash) common.Hash
	SetState(addr common.Address, key common.Hash, value common.Hash)

	GetBalance(addr common.Address) *uint256.Int
	AddBalance(addr common.Address, amount *uint256.Int)
	SubBalance(addr common.Address, amount *uint256.Int)

	Exist(addr common.Address) bool
	CreateAccount(addr common.Address)

	Snapshot() int
	RevertToSnapshot(int)
}

// ConfigurationBlockContext is the block context available while a
// precompile is being configured at an activation boundary.
type ConfigurationBlockContext interface {
	Number() *big.Int
	Timestamp() uint64
}

// BlockContext is the block context available during execution.
type BlockContext interface {
	ConfigurationBlockContext
}

// AccessibleState exposes the chain state a precompile may read and
// mutate while running.
type AccessibleState interface {
	GetStateDB() StateDB
	GetBlockContext() BlockContext
}

// StatefulPrecompiledContract is the interface every registered
// precompile implements.
type StatefulPrecompiledContract interface {
	// Run executes the precompiled contract.
	Run(
		accessibleState AccessibleState,
		caller common.Address,
		addr common.Address,
		input []byte,
		suppliedGas uint64,
		readOnly bool,
	) (ret []byte, remainingGas uint64, err error)

	// RequiredGas returns the gas needed to execute the given input.
	RequiredGas(input []byte) uint64
}

// Configurator applies a precompile's config to state when the
// precompile activates.
type Configurator interface {
	MakeConfig() precompileconfig.Config
	Configure(
		chainConfig precompileconfig.ChainConfig,
		precompileConfig precompileconfig.Config,
		state StateDB,
		blockContext ConfigurationBlockContext,
	) error
}

// DeductGas checks that [suppliedGas] covers [requiredGas] and returns
// the remainder.
func DeductGas(suppliedGas uint64, requiredGas uint64) (uint64, error) {
	if suppliedGas < requiredGas {
		return 0, ErrOutOfGas
	}
	return suppliedGas - requiredGas, nil
}
