// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package farm

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/markets/contract"
	"github.com/luxfi/markets/modules"
	"github.com/luxfi/markets/precompileconfig"
)

var _ contract.Configurator = (*configurator)(nil)
var _ contract.StatefulPrecompiledContract = (*FarmContract)(nil)

// ConfigKey is the key used in json config files to specify this precompile config.
const ConfigKey = "farmConfig"

// FarmPrecompile is the singleton instance
var FarmPrecompile = &FarmContract{
	farm: NewFarm(),
}

// Module is the precompile module (LXFarm at LP-9090)
var Module = modules.Module{
	ConfigKey:    ConfigKey,
	Address:      FarmAddr,
	Contract:     FarmPrecompile,
	Configurator: &configurator{},
}

// Method selectors
const (
	SelectorAddLiquidity          uint32 = 0x01000000 // addLiquidity(uint256,uint256)
	SelectorRemoveLiquidity       uint32 = 0x02000000 // removeLiquidity(uint256)
	SelectorSwap                  uint32 = 0x03000000 // swap(address,uint256,uint256)
	SelectorClaimRewards          uint32 = 0x04000000 // claimRewards()
	SelectorFundRewards           uint32 = 0x05000000 // fundRewards(uint256)
	SelectorSetRewardRate         uint32 = 0x06000000 // setRewardRate(uint256)
	SelectorWithdrawProtocolFees  uint32 = 0x07000000 // withdrawProtocolFees()
	SelectorWithdrawExcessRewards uint32 = 0x08000000 // withdrawExcessRewards(uint256)
	SelectorRecoverForeignAsset   uint32 = 0x09000000 // recoverForeignAsset(address,uint256)
	SelectorSetAuthorizedFunder   uint32 = 0x0a000000 // setAuthorizedFunder(address,bool)
	SelectorSetOperationsEnabled  uint32 = 0x0b000000 // setOperationsEnabled(bool)

	SelectorEarned             uint32 = 0x10000000 // earned(address)
	SelectorGetReserves        uint32 = 0x11000000 // getReserves()
	SelectorGetRewardPerShare  uint32 = 0x12000000 // getRewardPerShare()
	SelectorTotalShares        uint32 = 0x13000000 // totalShares()
	SelectorShareBalanceOf     uint32 = 0x14000000 // shareBalanceOf(address)
	SelectorClaimUnlockTimeOf  uint32 = 0x15000000 // claimUnlockTimeOf(address)
	SelectorGetMaxRewardRate   uint32 = 0x16000000 // getMaxRewardRate()
	SelectorGetAmountOut       uint32 = 0x17000000 // getAmountOut(address,uint256)
	SelectorGetProtocolFees    uint32 = 0x18000000 // getProtocolFees()
	SelectorGetRewardBudget    uint32 = 0x19000000 // getRewardBudget()
)

type configurator struct{}

func init() {
	if err := modules.RegisterModule(Module); err != nil {
		panic(err)
	}
}

func (*configurator) MakeConfig() precompileconfig.Config {
	return new(Config)
}

func (*configurator) Configure(
	chainConfig precompileconfig.ChainConfig,
	cfg precompileconfig.Config,
	state contract.StateDB,
	blockContext contract.ConfigurationBlockContext,
) error {
	config, ok := cfg.(*Config)
	if !ok {
		return fmt.Errorf("expected config type %T, got %T: %v", &Config{}, cfg, cfg)
	}

	params := FarmParams{
		AssetA:           config.AssetA,
		AssetB:           config.AssetB,
		RewardAsset:      config.RewardAsset,
		Owner:            config.Owner,
		TradeFeeBps:      config.TradeFeeBps,
		ProtocolFeeBps:   config.ProtocolFeeBps,
		ClaimLockSeconds: config.ClaimLockSeconds,
	}
	if !config.hasExplicitFees {
		params.TradeFeeBps = DefaultTradeFeeBps
		params.ProtocolFeeBps = DefaultProtocolFeeBps
	}
	if params.ClaimLockSeconds == 0 {
		params.ClaimLockSeconds = DefaultClaimLockSeconds
	}

	db := &farmStateAdapter{stateDB: state, block: blockContext}
	if err := FarmPrecompile.farm.Initialize(db, params); err != nil {
		return err
	}
	for _, funder := range config.Funders {
		if err := FarmPrecompile.farm.SetAuthorizedFunder(db, params.Owner, funder, true); err != nil {
			return err
		}
	}
	return nil
}

// Config implements the precompileconfig.Config interface
type Config struct {
	Upgrade     precompileconfig.Upgrade `json:"upgrade,omitempty"`
	AssetA      common.Address           `json:"assetA,omitempty"`
	AssetB      common.Address           `json:"assetB,omitempty"`
	RewardAsset common.Address           `json:"rewardAsset,omitempty"`
	Owner       common.Address           `json:"owner,omitempty"`

	// Fee schedule. Both bps values are applied together: leave both
	// unset to get the defaults.
	TradeFeeBps      uint64 `json:"tradeFeeBps,omitempty"`
	ProtocolFeeBps   uint64 `json:"protocolFeeBps,omitempty"`
	ClaimLockSeconds uint64 `json:"claimLockSeconds,omitempty"`

	// Funders are granted the reward-funding role at activation.
	Funders []common.Address `json:"funders,omitempty"`

	hasExplicitFees bool
}

// SetFeeBps fixes an explicit fee schedule, including zero fees.
func (c *Config) SetFeeBps(tradeFeeBps, protocolFeeBps uint64) {
	c.TradeFeeBps = tradeFeeBps
	c.ProtocolFeeBps = protocolFeeBps
	c.hasExplicitFees = true
}

func (c *Config) Key() string {
	return ConfigKey
}

func (c *Config) Timestamp() *uint64 {
	return c.Upgrade.Timestamp()
}

func (c *Config) IsDisabled() bool {
	return c.Upgrade.Disable
}

func (c *Config) Equal(cfg precompileconfig.Config) bool {
	other, ok := cfg.(*Config)
	if !ok {
		return false
	}
	if len(c.Funders) != len(other.Funders) {
		return false
	}
	for i := range c.Funders {
		if c.Funders[i] != other.Funders[i] {
			return false
		}
	}
	return c.Upgrade.Equal(&other.Upgrade) &&
		c.AssetA == other.AssetA &&
		c.AssetB == other.AssetB &&
		c.RewardAsset == other.RewardAsset &&
		c.Owner == other.Owner &&
		c.TradeFeeBps == other.TradeFeeBps &&
		c.ProtocolFeeBps == other.ProtocolFeeBps &&
		c.ClaimLockSeconds == other.ClaimLockSeconds
}

func (c *Config) Verify(chainConfig precompileconfig.ChainConfig) error {
	params := FarmParams{
		AssetA:           c.AssetA,
		AssetB:           c.AssetB,
		RewardAsset:      c.RewardAsset,
		Owner:            c.Owner,
		TradeFeeBps:      c.TradeFeeBps,
		ProtocolFeeBps:   c.ProtocolFeeBps,
		ClaimLockSeconds: c.ClaimLockSeconds,
	}
	return params.Validate()
}

// FarmContract implements the LXFarm precompile
type FarmContract struct {
	farm *Farm
}

// Run executes the precompile
func (c *FarmContract) Run(
	accessibleState contract.AccessibleState,
	caller common.Address,
	addr common.Address,
	input []byte,
	suppliedGas uint64,
	readOnly bool,
) (ret []byte, remainingGas uint64, err error) {
	if len(input) < 4 {
		return nil, suppliedGas, fmt.Errorf("input too short")
	}

	selector := binary.BigEndian.Uint32(input[:4])
	data := input[4:]

	switch selector {
	case SelectorAddLiquidity:
		return c.runAddLiquidity(accessibleState, caller, data, suppliedGas, readOnly)
	case SelectorRemoveLiquidity:
		return c.runRemoveLiquidity(accessibleState, caller, data, suppliedGas, readOnly)
	case SelectorSwap:
		return c.runSwap(accessibleState, caller, data, suppliedGas, readOnly)
	case SelectorClaimRewards:
		return c.runClaimRewards(accessibleState, caller, suppliedGas, readOnly)
	case SelectorFundRewards:
		return c.runFundRewards(accessibleState, caller, data, suppliedGas, readOnly)
	case SelectorSetRewardRate:
		return c.runSetRewardRate(accessibleState, caller, data, suppliedGas, readOnly)
	case SelectorWithdrawProtocolFees:
		return c.runWithdrawProtocolFees(accessibleState, caller, suppliedGas, readOnly)
	case SelectorWithdrawExcessRewards:
		return c.runWithdrawExcessRewards(accessibleState, caller, data, suppliedGas, readOnly)
	case SelectorRecoverForeignAsset:
		return c.runRecoverForeignAsset(accessibleState, caller, data, suppliedGas, readOnly)
	case SelectorSetAuthorizedFunder:
		return c.runSetAuthorizedFunder(accessibleState, caller, data, suppliedGas, readOnly)
	case SelectorSetOperationsEnabled:
		return c.runSetOperationsEnabled(accessibleState, caller, data, suppliedGas, readOnly)
	case SelectorEarned:
		return c.runEarned(accessibleState, data, suppliedGas)
	case SelectorGetReserves:
		return c.runGetReserves(accessibleState, suppliedGas)
	case SelectorGetRewardPerShare:
		return c.runGetRewardPerShare(accessibleState, suppliedGas)
	case SelectorTotalShares:
		return c.runTotalShares(accessibleState, suppliedGas)
	case SelectorShareBalanceOf:
		return c.runShareBalanceOf(accessibleState, data, suppliedGas)
	case SelectorClaimUnlockTimeOf:
		return c.runClaimUnlockTimeOf(accessibleState, data, suppliedGas)
	case SelectorGetMaxRewardRate:
		return c.runGetMaxRewardRate(suppliedGas)
	case SelectorGetAmountOut:
		return c.runGetAmountOut(accessibleState, data, suppliedGas)
	case SelectorGetProtocolFees:
		return c.runGetProtocolFees(accessibleState, suppliedGas)
	case SelectorGetRewardBudget:
		return c.runGetRewardBudget(accessibleState, suppliedGas)
	default:
		return nil, suppliedGas, fmt.Errorf("unknown method selector: %x", selector)
	}
}

func (c *FarmContract) runAddLiquidity(
	state contract.AccessibleState,
	caller common.Address,
	input []byte,
	suppliedGas uint64,
	readOnly bool,
) ([]byte, uint64, error) {
	if readOnly {
		return nil, suppliedGas, fmt.Errorf("cannot write in read-only mode")
	}
	remainingGas, err := contract.DeductGas(suppliedGas, GasAddLiquidity)
	if err != nil {
		return nil, 0, err
	}
	if len(input) < 64 {
		return nil, remainingGas, fmt.Errorf("input too short")
	}

	amountA := new(big.Int).SetBytes(input[0:32])
	amountB := new(big.Int).SetBytes(input[32:64])

	minted, err := c.farm.AddLiquidity(adaptState(state), caller, amountA, amountB)
	if err != nil {
		return nil, remainingGas, err
	}
	return encodeBig(minted), remainingGas, nil
}

func (c *FarmContract) runRemoveLiquidity(
	state contract.AccessibleState,
	caller common.Address,
	input []byte,
	suppliedGas uint64,
	readOnly bool,
) ([]byte, uint64, error) {
	if readOnly {
		return nil, suppliedGas, fmt.Errorf("cannot write in read-only mode")
	}
	remainingGas, err := contract.DeductGas(suppliedGas, GasRemoveLiquidity)
	if err != nil {
		return nil, 0, err
	}
	if len(input) < 32 {
		return nil, remainingGas, fmt.Errorf("input too short")
	}

	shares := new(big.Int).SetBytes(input[0:32])

	amountA, amountB, err := c.farm.RemoveLiquidity(adaptState(state), caller, shares)
	if err != nil {
		return nil, remainingGas, err
	}
	return encodeBigPair(amountA, amountB), remainingGas, nil
}

func (c *FarmContract) runSwap(
	state contract.AccessibleState,
	caller common.Address,
	input []byte,
	suppliedGas uint64,
	readOnly bool,
) ([]byte, uint64, error) {
	if readOnly {
		return nil, suppliedGas, fmt.Errorf("cannot write in read-only mode")
	}
	remainingGas, err := contract.DeductGas(suppliedGas, GasSwap)
	if err != nil {
		return nil, 0, err
	}
	if len(input) < 96 {
		return nil, remainingGas, fmt.Errorf("input too short")
	}

	assetIn := common.BytesToAddress(input[12:32])
	amountIn := new(big.Int).SetBytes(input[32:64])
	minAmountOut := new(big.Int).SetBytes(input[64:96])

	amountOut, err := c.farm.Swap(adaptState(state), caller, assetIn, amountIn, minAmountOut)
	if err != nil {
		return nil, remainingGas, err
	}
	return encodeBig(amountOut), remainingGas, nil
}

func (c *FarmContract) runClaimRewards(
	state contract.AccessibleState,
	caller common.Address,
	suppliedGas uint64,
	readOnly bool,
) ([]byte, uint64, error) {
	if readOnly {
		return nil, suppliedGas, fmt.Errorf("cannot write in read-only mode")
	}
	remainingGas, err := contract.DeductGas(suppliedGas, GasClaimRewards)
	if err != nil {
		return nil, 0, err
	}

	amount, err := c.farm.ClaimRewards(adaptState(state), caller)
	if err != nil {
		return nil, remainingGas, err
	}
	return encodeBig(amount), remainingGas, nil
}

func (c *FarmContract) runFundRewards(
	state contract.AccessibleState,
	caller common.Address,
	input []byte,
	suppliedGas uint64,
	readOnly bool,
) ([]byte, uint64, error) {
	if readOnly {
		return nil, suppliedGas, fmt.Errorf("cannot write in read-only mode")
	}
	remainingGas, err := contract.DeductGas(suppliedGas, GasFundRewards)
	if err != nil {
		return nil, 0, err
	}
	if len(input) < 32 {
		return nil, remainingGas, fmt.Errorf("input too short")
	}

	amount := new(big.Int).SetBytes(input[0:32])
	if err := c.farm.FundRewards(adaptState(state), caller, amount); err != nil {
		return nil, remainingGas, err
	}
	return nil, remainingGas, nil
}

func (c *FarmContract) runSetRewardRate(
	state contract.AccessibleState,
	caller common.Address,
	input []byte,
	suppliedGas uint64,
	readOnly bool,
) ([]byte, uint64, error) {
	if readOnly {
		return nil, suppliedGas, fmt.Errorf("cannot write in read-only mode")
	}
	remainingGas, err := contract.DeductGas(suppliedGas, GasAdmin)
	if err != nil {
		return nil, 0, err
	}
	if len(input) < 32 {
		return nil, remainingGas, fmt.Errorf("input too short")
	}

	rate := new(big.Int).SetBytes(input[0:32])
	if err := c.farm.SetRewardRate(adaptState(state), caller, rate); err != nil {
		return nil, remainingGas, err
	}
	return nil, remainingGas, nil
}

func (c *FarmContract) runWithdrawProtocolFees(
	state contract.AccessibleState,
	caller common.Address,
	suppliedGas uint64,
	readOnly bool,
) ([]byte, uint64, error) {
	if readOnly {
		return nil, suppliedGas, fmt.Errorf("cannot write in read-only mode")
	}
	remainingGas, err := contract.DeductGas(suppliedGas, GasAdmin)
	if err != nil {
		return nil, 0, err
	}

	feesA, feesB, err := c.farm.WithdrawProtocolFees(adaptState(state), caller)
	if err != nil {
		return nil, remainingGas, err
	}
	return encodeBigPair(feesA, feesB), remainingGas, nil
}

func (c *FarmContract) runWithdrawExcessRewards(
	state contract.AccessibleState,
	caller common.Address,
	input []byte,
	suppliedGas uint64,
	readOnly bool,
) ([]byte, uint64, error) {
	if readOnly {
		return nil, suppliedGas, fmt.Errorf("cannot write in read-only mode")
	}
	remainingGas, err := contract.DeductGas(suppliedGas, GasAdmin)
	if err != nil {
		return nil, 0, err
	}
	if len(input) < 32 {
		return nil, remainingGas, fmt.Errorf("input too short")
	}

	amount := new(big.Int).SetBytes(input[0:32])
	if err := c.farm.WithdrawExcessRewards(adaptState(state), caller, amount); err != nil {
		return nil, remainingGas, err
	}
	return nil, remainingGas, nil
}

func (c *FarmContract) runRecoverForeignAsset(
	state contract.AccessibleState,
	caller common.Address,
	input []byte,
	suppliedGas uint64,
	readOnly bool,
) ([]byte, uint64, error) {
	if readOnly {
		return nil, suppliedGas, fmt.Errorf("cannot write in read-only mode")
	}
	remainingGas, err := contract.DeductGas(suppliedGas, GasAdmin)
	if err != nil {
		return nil, 0, err
	}
	if len(input) < 64 {
		return nil, remainingGas, fmt.Errorf("input too short")
	}

	asset := common.BytesToAddress(input[12:32])
	amount := new(big.Int).SetBytes(input[32:64])
	if err := c.farm.RecoverForeignAsset(adaptState(state), caller, asset, amount); err != nil {
		return nil, remainingGas, err
	}
	return nil, remainingGas, nil
}

func (c *FarmContract) runSetAuthorizedFunder(
	state contract.AccessibleState,
	caller common.Address,
	input []byte,
	suppliedGas uint64,
	readOnly bool,
) ([]byte, uint64, error) {
	if readOnly {
		return nil, suppliedGas, fmt.Errorf("cannot write in read-only mode")
	}
	remainingGas, err := contract.DeductGas(suppliedGas, GasAdmin)
	if err != nil {
		return nil, 0, err
	}
	if len(input) < 64 {
		return nil, remainingGas, fmt.Errorf("input too short")
	}

	funder := common.BytesToAddress(input[12:32])
	enabled := input[63] == 1
	if err := c.farm.SetAuthorizedFunder(adaptState(state), caller, funder, enabled); err != nil {
		return nil, remainingGas, err
	}
	return nil, remainingGas, nil
}

func (c *FarmContract) runSetOperationsEnabled(
	state contract.AccessibleState,
	caller common.Address,
	input []byte,
	suppliedGas uint64,
	readOnly bool,
) ([]byte, uint64, error) {
	if readOnly {
		return nil, suppliedGas, fmt.Errorf("cannot write in read-only mode")
	}
	remainingGas, err := contract.DeductGas(suppliedGas, GasAdmin)
	if err != nil {
		return nil, 0, err
	}
	if len(input) < 32 {
		return nil, remainingGas, fmt.Errorf("input too short")
	}

	enabled := input[31] == 1
	if err := c.farm.SetOperationsEnabled(adaptState(state), caller, enabled); err != nil {
		return nil, remainingGas, err
	}
	return nil, remainingGas, nil
}

func (c *FarmContract) runEarned(
	state contract.AccessibleState,
	input []byte,
	suppliedGas uint64,
) ([]byte, uint64, error) {
	remainingGas, err := contract.DeductGas(suppliedGas, GasView)
	if err != nil {
		return nil, 0, err
	}
	if len(input) < 32 {
		return nil, remainingGas, fmt.Errorf("input too short")
	}

	addr := common.BytesToAddress(input[12:32])
	return encodeBig(c.farm.Earned(adaptState(state), addr)), remainingGas, nil
}

func (c *FarmContract) runGetReserves(
	state contract.AccessibleState,
	suppliedGas uint64,
) ([]byte, uint64, error) {
	remainingGas, err := contract.DeductGas(suppliedGas, GasView)
	if err != nil {
		return nil, 0, err
	}
	reserveA, reserveB := c.farm.GetReserves(adaptState(state))
	return encodeBigPair(reserveA, reserveB), remainingGas, nil
}

func (c *FarmContract) runGetRewardPerShare(
	state contract.AccessibleState,
	suppliedGas uint64,
) ([]byte, uint64, error) {
	remainingGas, err := contract.DeductGas(suppliedGas, GasView)
	if err != nil {
		return nil, 0, err
	}
	return encodeBig(c.farm.GetRewardPerShare(adaptState(state))), remainingGas, nil
}

func (c *FarmContract) runTotalShares(
	state contract.AccessibleState,
	suppliedGas uint64,
) ([]byte, uint64, error) {
	remainingGas, err := contract.DeductGas(suppliedGas, GasView)
	if err != nil {
		return nil, 0, err
	}
	return encodeBig(c.farm.TotalShares(adaptState(state))), remainingGas, nil
}

func (c *FarmContract) runShareBalanceOf(
	state contract.AccessibleState,
	input []byte,
	suppliedGas uint64,
) ([]byte, uint64, error) {
	remainingGas, err := contract.DeductGas(suppliedGas, GasView)
	if err != nil {
		return nil, 0, err
	}
	if len(input) < 32 {
		return nil, remainingGas, fmt.Errorf("input too short")
	}

	addr := common.BytesToAddress(input[12:32])
	return encodeBig(c.farm.ShareBalanceOf(adaptState(state), addr)), remainingGas, nil
}

func (c *FarmContract) runClaimUnlockTimeOf(
	state contract.AccessibleState,
	input []byte,
	suppliedGas uint64,
) ([]byte, uint64, error) {
	remainingGas, err := contract.DeductGas(suppliedGas, GasView)
	if err != nil {
		return nil, 0, err
	}
	if len(input) < 32 {
		return nil, remainingGas, fmt.Errorf("input too short")
	}

	addr := common.BytesToAddress(input[12:32])
	unlock := c.farm.ClaimUnlockTimeOf(adaptState(state), addr)
	return encodeBig(new(big.Int).SetUint64(unlock)), remainingGas, nil
}

func (c *FarmContract) runGetMaxRewardRate(suppliedGas uint64) ([]byte, uint64, error) {
	remainingGas, err := contract.DeductGas(suppliedGas, GasView)
	if err != nil {
		return nil, 0, err
	}
	return encodeBig(c.farm.GetMaxRewardRate()), remainingGas, nil
}

func (c *FarmContract) runGetAmountOut(
	state contract.AccessibleState,
	input []byte,
	suppliedGas uint64,
) ([]byte, uint64, error) {
	remainingGas, err := contract.DeductGas(suppliedGas, GasView)
	if err != nil {
		return nil, 0, err
	}
	if len(input) < 64 {
		return nil, remainingGas, fmt.Errorf("input too short")
	}

	assetIn := common.BytesToAddress(input[12:32])
	amountIn := new(big.Int).SetBytes(input[32:64])
	amountOut, err := c.farm.GetAmountOut(adaptState(state), assetIn, amountIn)
	if err != nil {
		return nil, remainingGas, err
	}
	return encodeBig(amountOut), remainingGas, nil
}

func (c *FarmContract) runGetProtocolFees(
	state contract.AccessibleState,
	suppliedGas uint64,
) ([]byte, uint64, error) {
	remainingGas, err := contract.DeductGas(suppliedGas, GasView)
	if err != nil {
		return nil, 0, err
	}
	feesA, feesB := c.farm.GetProtocolFees(adaptState(state))
	return encodeBigPair(feesA, feesB), remainingGas, nil
}

func (c *FarmContract) runGetRewardBudget(
	state contract.AccessibleState,
	suppliedGas uint64,
) ([]byte, uint64, error) {
	remainingGas, err := contract.DeductGas(suppliedGas, GasView)
	if err != nil {
		return nil, 0, err
	}
	return encodeBig(c.farm.GetRewardBudget(adaptState(state))), remainingGas, nil
}

// RequiredGas returns the gas required for the precompile input
func (c *FarmContract) RequiredGas(input []byte) uint64 {
	if len(input) < 4 {
		return GasView
	}

	selector := binary.BigEndian.Uint32(input[:4])
	switch selector {
	case SelectorAddLiquidity:
		return GasAddLiquidity
	case SelectorRemoveLiquidity:
		return GasRemoveLiquidity
	case SelectorSwap:
		return GasSwap
	case SelectorClaimRewards:
		return GasClaimRewards
	case SelectorFundRewards:
		return GasFundRewards
	case SelectorSetRewardRate,
		SelectorWithdrawProtocolFees,
		SelectorWithdrawExcessRewards,
		SelectorRecoverForeignAsset,
		SelectorSetAuthorizedFunder,
		SelectorSetOperationsEnabled:
		return GasAdmin
	default:
		return GasView
	}
}

// farmStateAdapter adapts contract.StateDB to farm.StateDB
type farmStateAdapter struct {
	stateDB contract.StateDB
	block   contract.ConfigurationBlockContext
}

func adaptState(state contract.AccessibleState) *farmStateAdapter {
	return &farmStateAdapter{
		stateDB: state.GetStateDB(),
		block:   state.GetBlockContext(),
	}
}

func (a *farmStateAdapter) GetState(addr common.Address, key common.Hash) common.Hash {
	return a.stateDB.GetState(addr, key)
}

func (a *farmStateAdapter) SetState(addr common.Address, key common.Hash, value common.Hash) {
	a.stateDB.SetState(addr, key, value)
}

func (a *farmStateAdapter) GetBalance(addr common.Address) *uint256.Int {
	return a.stateDB.GetBalance(addr)
}

func (a *farmStateAdapter) AddBalance(addr common.Address, amount *uint256.Int) {
	a.stateDB.AddBalance(addr, amount)
}

func (a *farmStateAdapter) SubBalance(addr common.Address, amount *uint256.Int) {
	a.stateDB.SubBalance(addr, amount)
}

func (a *farmStateAdapter) Exist(addr common.Address) bool {
	return a.stateDB.Exist(addr)
}

func (a *farmStateAdapter) CreateAccount(addr common.Address) {
	a.stateDB.CreateAccount(addr)
}

func (a *farmStateAdapter) Snapshot() int {
	return a.stateDB.Snapshot()
}

func (a *farmStateAdapter) RevertToSnapshot(revid int) {
	a.stateDB.RevertToSnapshot(revid)
}

func (a *farmStateAdapter) GetTimestamp() uint64 {
	if a.block == nil {
		return 0
	}
	return a.block.Timestamp()
}

// Encoding helpers

func encodeBig(v *big.Int) []byte {
	result := make([]byte, 32)
	v.FillBytes(result)
	return result
}

func encodeBigPair(a, b *big.Int) []byte {
	result := make([]byte, 64)
	a.FillBytes(result[0:32])
	b.FillBytes(result[32:64])
	return result
}
