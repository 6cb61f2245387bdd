// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package precompileconfig defines the interface chain configs use to
// enable, parameterize, and disable stateful precompiles at timestamp
// boundaries.
package precompileconfig

import "math/big"

// Config is the interface each precompile's JSON config implements.
type Config interface {
	// Key returns the unique key for this precompile in the chain config.
	Key() string
	// Timestamp returns the time at which this config activates, or nil
	// if it never does.
	Timestamp() *uint64
	// IsDisabled returns true if this config disables the precompile.
	IsDisabled() bool
	// Verify checks the config is internally consistent.
	Verify(chainConfig ChainConfig) error
	// Equal reports whether this config equals [other].
	Equal(other Config) bool
}

// ChainConfig supplies chain-level context to config verification.
type ChainConfig interface {
	// ChainID returns the chain's EVM chain ID.
	ChainID() *big.Int
}

// Upgrade is embedded by precompile configs to carry their activation
// timestamp and optional disable flag.
type Upgrade struct {
	BlockTimestamp *uint64 `json:"blockTimestamp,omitempty"`
	Disable        bool    `json:"disable,omitempty"`
}

// Timestamp returns the timestamp this upgrade activates at.
func (u *Upgrade) Timestamp() *uint64 {
	return u.BlockTimestamp
}

// IsDisabled returns true if the upgrade deactivates the precompile.
func (u *Upgrade) IsDisabled() bool {
	return u.Disable
}

// Equal reports whether two upgrades activate at the same time with the
// same disable flag.
func (u *Upgrade) Equal(other *Upgrade) bool {
	if other == nil {
		return false
	}
	if u.Disable != other.Disable {
		return false
	}
	if (u.BlockTimestamp == nil) != (other.BlockTimestamp == nil) {
		return false
	}
	if u.BlockTimestamp != nil && *u.BlockTimestamp != *other.BlockTimestamp {
		return false
	}
	return true
}
