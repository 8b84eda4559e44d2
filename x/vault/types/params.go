package types

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// MaxSlippageToleranceBps bounds the protocol-wide slippage parameter.
	MaxSlippageToleranceBps = 2_000

	// MaxBufferRatioBps bounds the liquidity buffer holdback.
	MaxBufferRatioBps = 2_000
)

// Params holds the protocol configuration consumed by both orchestrators.
// AutomationAddress is the only principal allowed to perform upkeep.
type Params struct {
	UnderlyingDenom      string   `json:"underlying_denom"`
	AutomationAddress    string   `json:"automation_address"`
	EpochDurationSeconds int64    `json:"epoch_duration_seconds"`
	MinibatchSize        uint64   `json:"minibatch_size"`
	SlippageToleranceBps uint64   `json:"slippage_tolerance_bps"`
	BufferRatioBps       uint64   `json:"buffer_ratio_bps"`
	DustThreshold        math.Int `json:"dust_threshold"`
	RiskFreeRateBps      uint64   `json:"risk_free_rate_bps"`
	DecimalsOffset       uint32   `json:"decimals_offset"`
}

// DefaultParams returns default parameters for the vault module. The dust
// threshold default assumes an 18-decimal-equivalent underlying; deployments
// on coarser denominations should scale it down.
func DefaultParams() Params {
	return Params{
		UnderlyingDenom:      "uusdc",
		AutomationAddress:    "",
		EpochDurationSeconds: 24 * 60 * 60,
		MinibatchSize:        20,
		SlippageToleranceBps: 50,                                // 0.5%
		BufferRatioBps:       100,                               // 1% of TVL held back
		DustThreshold:        math.NewIntWithDecimal(1, 16),     // 10^16
		RiskFreeRateBps:      400,                               // 4% annualized
		DecimalsOffset:       6,
	}
}

// Validate validates the set of params
func (p Params) Validate() error {
	if err := sdk.ValidateDenom(p.UnderlyingDenom); err != nil {
		return ErrInvalidParams.Wrapf("underlying denom: %s", err)
	}
	if p.AutomationAddress != "" {
		if _, err := sdk.AccAddressFromBech32(p.AutomationAddress); err != nil {
			return ErrInvalidParams.Wrapf("automation address: %s", err)
		}
	}
	if p.EpochDurationSeconds <= 0 {
		return ErrInvalidParams.Wrap("epoch duration must be positive")
	}
	if p.MinibatchSize == 0 {
		return ErrInvalidParams.Wrap("minibatch size must be positive")
	}
	if p.SlippageToleranceBps > MaxSlippageToleranceBps {
		return ErrInvalidParams.Wrapf("slippage tolerance %d bps exceeds max %d", p.SlippageToleranceBps, MaxSlippageToleranceBps)
	}
	if p.BufferRatioBps > MaxBufferRatioBps {
		return ErrInvalidParams.Wrapf("buffer ratio %d bps exceeds max %d", p.BufferRatioBps, MaxBufferRatioBps)
	}
	if p.DustThreshold.IsNil() || p.DustThreshold.IsNegative() {
		return ErrInvalidParams.Wrap("dust threshold must be set and non-negative")
	}
	if p.RiskFreeRateBps >= BpsDenominator {
		return ErrInvalidParams.Wrapf("risk free rate %d bps out of range", p.RiskFreeRateBps)
	}
	if p.DecimalsOffset > 18 {
		return ErrInvalidParams.Wrapf("decimals offset %d out of range", p.DecimalsOffset)
	}
	return nil
}
