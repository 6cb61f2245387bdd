// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package modules keeps the registry of stateful precompile modules and
// the address ranges reserved for them.
package modules

import (
	"bytes"

	"github.com/luxfi/geth/common"

	"github.com/luxfi/markets/contract"
)

// Module is the registration record for one stateful precompile: its
// config key, its fixed address, the contract implementation, and the
// configurator that applies its chain config.
type Module struct {
	// ConfigKey is the unique key this precompile uses in chain configs.
	ConfigKey string
	// Address is the fixed address the precompile executes at.
	Address common.Address
	// Contract is the precompile implementation.
	Contract contract.StatefulPrecompiledContract
	// Configurator applies the precompile's config at activation.
	Configurator contract.Configurator
}

// moduleArray sorts modules by address for deterministic iteration.
type moduleArray []Module

func (m moduleArray) Len() int { return len(m) }

func (m moduleArray) Swap(i, j int) { m[i], m[j] = m[j], m[i] }

func (m moduleArray) Less(i, j int) bool {
	return bytes.Compare(m[i].Address.Bytes(), m[j].Address.Bytes()) < 0
}
