// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"testing"

	"github.com/luxfi/geth/common"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/markets/farm"
	"github.com/luxfi/markets/modules"
)

func TestCatalogMatchesReservedRanges(t *testing.T) {
	for _, info := range AllPrecompiles {
		addr := common.HexToAddress(info.Address)
		require.True(t, modules.ReservedAddress(addr), "%s (%s) outside the reserved ranges", info.Name, info.Address)
	}
}

func TestFarmAddressMatchesCatalog(t *testing.T) {
	require.Equal(t, farm.FarmAddr, common.HexToAddress(LXFarm))
	require.Equal(t, farm.FarmAddr, GetPrecompileAddress("LX_FARM"))

	// The farm registers itself as a module at the cataloged address.
	_, ok := modules.GetPrecompileModuleByAddress(common.HexToAddress(LXFarm))
	require.True(t, ok)
}

func TestPrecompileAddress(t *testing.T) {
	// Markets LP numbers map straight into the trailing bytes.
	require.Equal(t, common.HexToAddress(LXFarm), PrecompileAddress(MarketsPage, 0, 0x90))
	require.Equal(t, common.HexToAddress(LXPool), PrecompileAddress(MarketsPage, 0, 0x10))

	// Out-of-range nibbles yield the zero address.
	require.Equal(t, common.Address{}, PrecompileAddress(16, 0, 0))
	require.Equal(t, common.Address{}, PrecompileAddress(MarketsPage, 16, 0))
}

func TestChainSlot(t *testing.T) {
	require.Equal(t, uint8(2), ChainSlot("C"))
	require.Equal(t, uint8(8), ChainSlot("Zoo"))
	require.Equal(t, uint8(0xFF), ChainSlot("unknown"))
}

func TestGetChainPrecompiles(t *testing.T) {
	cChain := GetChainPrecompiles("C")
	require.Len(t, cChain, len(AllPrecompiles))
	require.Nil(t, GetChainPrecompiles("Q"))

	require.True(t, IsPrecompileEnabled("C", common.HexToAddress(LXFarm)))
	require.True(t, IsPrecompileEnabled("Zoo", common.HexToAddress(LXFarm)))
	require.False(t, IsPrecompileEnabled("Q", common.HexToAddress(LXFarm)))

	require.Equal(t, common.Address{}, GetPrecompileAddress("UNKNOWN"))
}
