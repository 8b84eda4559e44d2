package types

import (
	"time"

	"cosmossdk.io/math"
)

const (
	// IntentScale is the fixed denominator intent weights must sum to.
	IntentScale = 1_000_000_000

	// SecondsPerYear is the annualization basis for fee accrual.
	SecondsPerYear = 365 * 24 * 60 * 60

	// BpsDenominator is the basis-point denominator used across fee and
	// slippage math.
	BpsDenominator = 10_000
)

// VaultType distinguishes vaults whose intents are stored in the clear from
// vaults whose intents arrive as ciphertext and resolve through the
// decryption oracle during preprocessing.
type VaultType uint8

const (
	VaultTypeTransparent VaultType = iota
	VaultTypeEncrypted
)

// FeeModelKind selects the performance-fee benchmark.
type FeeModelKind uint8

const (
	FeeModelAbsolute FeeModelKind = iota
	FeeModelSoftHurdle
	FeeModelHardHurdle
	FeeModelHighWaterMark
	FeeModelHurdleHWM
)

// FeeModel carries a vault's fee configuration. HighWaterMark is only
// meaningful for the HWM-based kinds and is updated by the liquidity
// orchestrator when the post-fee share price exceeds it.
type FeeModel struct {
	Kind              FeeModelKind   `json:"kind"`
	PerformanceFeeBps uint64         `json:"performance_fee_bps"`
	ManagementFeeBps  uint64         `json:"management_fee_bps"`
	HighWaterMark     math.LegacyDec `json:"high_water_mark"`
}

// Validate checks bps bounds and the HWM field.
func (f FeeModel) Validate() error {
	if f.Kind > FeeModelHurdleHWM {
		return ErrInvalidFeeModel.Wrapf("unknown kind %d", f.Kind)
	}
	if f.PerformanceFeeBps >= BpsDenominator {
		return ErrInvalidFeeModel.Wrapf("performance fee %d bps out of range", f.PerformanceFeeBps)
	}
	if f.ManagementFeeBps >= BpsDenominator {
		return ErrInvalidFeeModel.Wrapf("management fee %d bps out of range", f.ManagementFeeBps)
	}
	if f.HighWaterMark.IsNil() || f.HighWaterMark.IsNegative() {
		return ErrInvalidFeeModel.Wrap("high water mark must be set and non-negative")
	}
	return nil
}

// UsesHighWaterMark reports whether the model's benchmark reads the stored HWM.
func (f FeeModel) UsesHighWaterMark() bool {
	return f.Kind == FeeModelHighWaterMark || f.Kind == FeeModelHurdleHWM
}

// UsesHurdle reports whether the model's benchmark derives from the
// risk-free rate.
func (f FeeModel) UsesHurdle() bool {
	return f.Kind == FeeModelSoftHurdle || f.Kind == FeeModelHardHurdle || f.Kind == FeeModelHurdleHWM
}

// WeightedAsset is one entry of a curator intent.
type WeightedAsset struct {
	Denom  string   `json:"denom"`
	Weight math.Int `json:"weight"`
}

// ValidateIntent enforces the intent invariant: non-empty intents carry
// strictly positive weights over distinct assets summing exactly to
// IntentScale.
func ValidateIntent(intent []WeightedAsset) error {
	if len(intent) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(intent))
	sum := math.ZeroInt()
	for _, wa := range intent {
		if wa.Denom == "" {
			return ErrInvalidWeights.Wrap("empty denom")
		}
		if _, ok := seen[wa.Denom]; ok {
			return ErrInvalidWeights.Wrapf("duplicate asset %s", wa.Denom)
		}
		seen[wa.Denom] = struct{}{}
		if wa.Weight.IsNil() || !wa.Weight.IsPositive() {
			return ErrInvalidWeights.Wrapf("weight for %s must be positive", wa.Denom)
		}
		sum = sum.Add(wa.Weight)
	}
	if !sum.Equal(math.NewInt(IntentScale)) {
		return ErrInvalidWeights.Wrapf("weights sum to %s, want %d", sum, IntentScale)
	}
	return nil
}

// AssetHolding is one (asset, amount) entry of a vault portfolio, amount in
// asset base units.
type AssetHolding struct {
	Denom  string   `json:"denom"`
	Amount math.Int `json:"amount"`
}

// Vault is the per-vault persisted record. TotalAssets and TotalSupply are
// mutated only by the orchestration engine; the PIT fields are transient
// epoch-scoped snapshots used to price redemptions and deposits fairly.
type Vault struct {
	Id              uint64          `json:"id"`
	Curator         string          `json:"curator"`
	VaultType       VaultType       `json:"vault_type"`
	FeeModel        FeeModel        `json:"fee_model"`
	Intent          []WeightedAsset `json:"intent,omitempty"`
	EncryptedIntent []byte          `json:"encrypted_intent,omitempty"`
	Portfolio       []AssetHolding  `json:"portfolio,omitempty"`
	TargetPortfolio []AssetHolding  `json:"target_portfolio,omitempty"`

	// IdleBalance is un-deployed underlying held for the vault inside the
	// module account: the liquidity buffer plus not-yet-deployed deposits.
	IdleBalance math.Int `json:"idle_balance"`

	PendingDepositTotal math.Int `json:"pending_deposit_total"` // underlying units
	PendingRedeemTotal  math.Int `json:"pending_redeem_total"`  // shares

	TotalSupply math.Int `json:"total_supply"`
	TotalAssets math.Int `json:"total_assets"`

	// Epoch-scoped PIT snapshots, valid between preprocessing and the
	// liquidity run for the same epoch. Captured totals freeze the request
	// queues as of preprocessing; requests arriving later wait an epoch.
	TotalAssetsForRedeem  math.Int `json:"total_assets_for_redeem"`
	TotalAssetsForDeposit math.Int `json:"total_assets_for_deposit"`
	CapturedDepositTotal  math.Int `json:"captured_deposit_total"`
	CapturedRedeemShares  math.Int `json:"captured_redeem_shares"`

	// PlannedCashDelta is the underlying freed (positive) or consumed
	// (negative) by moving from the current to the target portfolio at the
	// prices quoted during postprocessing. Applied to IdleBalance once the
	// epoch's trades execute.
	PlannedCashDelta math.Int `json:"planned_cash_delta"`

	// LastSharePrice is the post-fee share price recorded at the end of the
	// previous epoch; the performance-fee benchmark base.
	LastSharePrice math.LegacyDec `json:"last_share_price"`

	Decommissioning bool `json:"decommissioning"`
	Decommissioned  bool `json:"decommissioned"`
}

// Active reports whether the vault still participates in epochs.
func (v Vault) Active() bool {
	return !v.Decommissioned
}

// OrderSide is the direction of a netted order.
type OrderSide uint8

const (
	OrderSideBuy OrderSide = iota
	OrderSideSell
)

// String implements fmt.Stringer
func (s OrderSide) String() string {
	if s == OrderSideBuy {
		return "buy"
	}
	return "sell"
}

// Order is one netted entry of an epoch's order book. Amount and
// EstimatedValue are in underlying units; netting guarantees at most one
// order per asset per epoch.
type Order struct {
	Denom          string    `json:"denom"`
	Side           OrderSide `json:"side"`
	Amount         math.Int  `json:"amount"`
	EstimatedValue math.Int  `json:"estimated_value"`
}

// OrderBook is the per-epoch netted trade list produced by the states
// orchestrator and consumed exactly once by the liquidity orchestrator.
type OrderBook struct {
	Epoch uint64  `json:"epoch"`
	Sells []Order `json:"sells,omitempty"`
	Buys  []Order `json:"buys,omitempty"`
}

// EpochState is the single global epoch record. Exactly one orchestrator
// owns it at a time: the states side while Phase != Idle, the liquidity
// side while Phase == Idle and LastProcessedEpoch < Counter.
type EpochState struct {
	Counter            uint64    `json:"counter"`
	Phase              Phase     `json:"phase"`
	Cursor             uint64    `json:"cursor"`
	LastEpochStart     time.Time `json:"last_epoch_start"`
	LastProcessedEpoch uint64    `json:"last_processed_epoch"`
}

// PendingDeposit is a queued deposit request. The underlying is escrowed in
// the module account when the request is submitted. Epoch is zero until the
// request is captured by preprocessing; a captured request can no longer be
// cancelled and settles when its epoch executes.
type PendingDeposit struct {
	VaultId   uint64   `json:"vault_id"`
	Depositor string   `json:"depositor"`
	Amount    math.Int `json:"amount"` // underlying units
	Epoch     uint64   `json:"epoch,omitempty"`
}

// PendingRedeem is a queued redemption request. The shares are escrowed out
// of the owner's balance when the request is submitted. Epoch semantics as
// for PendingDeposit.
type PendingRedeem struct {
	VaultId uint64   `json:"vault_id"`
	Owner   string   `json:"owner"`
	Shares  math.Int `json:"shares"`
	Epoch   uint64   `json:"epoch,omitempty"`
}

// AssetListing is one whitelist entry. A delisted asset flips to draining:
// no new intent may reference it and the liquidity orchestrator sells
// remaining exposure off.
type AssetListing struct {
	Denom    string `json:"denom"`
	Draining bool   `json:"draining"`
}
