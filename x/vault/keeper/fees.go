package keeper

import (
	"cosmossdk.io/math"

	"github.com/folio-chain/folio/x/vault/types"
)

// Fee engine. Pure functions over a vault snapshot; the liquidity
// orchestrator drives them once per epoch after deposits settle.
//
// Sequencing contract: the management fee is computed and subtracted from
// total assets before the performance fee is computed on the remainder.
// ApplyFees is the only entry point that guarantees this ordering.

// ManagementFee returns the epoch's management fee in underlying units:
// assets * bps * epochSeconds / (10_000 * secondsPerYear), floor-rounded.
func ManagementFee(assets math.Int, model types.FeeModel, epochSeconds int64) math.Int {
	if model.ManagementFeeBps == 0 || !assets.IsPositive() || epochSeconds <= 0 {
		return math.ZeroInt()
	}
	num := assets.
		Mul(math.NewIntFromUint64(model.ManagementFeeBps)).
		Mul(math.NewInt(epochSeconds))
	return num.Quo(math.NewInt(types.BpsDenominator * types.SecondsPerYear))
}

// PerformanceFee returns the epoch's performance fee in underlying units,
// computed on the post-management-fee asset base. lastSharePrice is the
// post-fee share price recorded at the previous epoch; it anchors the
// Absolute and hurdle benchmarks.
func PerformanceFee(
	assetsAfterMgmt math.Int,
	supply math.Int,
	model types.FeeModel,
	epochSeconds int64,
	riskFreeRateBps uint64,
	lastSharePrice math.LegacyDec,
) math.Int {
	if model.PerformanceFeeBps == 0 || !supply.IsPositive() || !assetsAfterMgmt.IsPositive() {
		return math.ZeroInt()
	}

	active := math.LegacyNewDecFromInt(assetsAfterMgmt).QuoInt(supply)

	var gain math.LegacyDec
	switch model.Kind {
	case types.FeeModelAbsolute:
		gain = active.Sub(lastSharePrice)
	case types.FeeModelSoftHurdle:
		// Soft hurdle: crossing the hurdle charges the fee on the whole
		// gain above the previous price, not just the excess.
		hurdle := hurdlePrice(lastSharePrice, riskFreeRateBps, epochSeconds)
		if active.LTE(hurdle) {
			return math.ZeroInt()
		}
		gain = active.Sub(lastSharePrice)
	case types.FeeModelHardHurdle:
		hurdle := hurdlePrice(lastSharePrice, riskFreeRateBps, epochSeconds)
		gain = active.Sub(hurdle)
	case types.FeeModelHighWaterMark:
		gain = active.Sub(model.HighWaterMark)
	case types.FeeModelHurdleHWM:
		hurdle := hurdlePrice(lastSharePrice, riskFreeRateBps, epochSeconds)
		benchmark := math.LegacyMaxDec(hurdle, model.HighWaterMark)
		gain = active.Sub(benchmark)
	default:
		return math.ZeroInt()
	}

	if !gain.IsPositive() {
		return math.ZeroInt()
	}

	// performanceFeeBps * gain * supply / 10_000, floor-rounded
	return gain.
		MulInt(supply).
		MulInt64(int64(model.PerformanceFeeBps)).
		QuoInt64(types.BpsDenominator).
		TruncateInt()
}

// hurdlePrice derives the risk-free benchmark price for one epoch:
// lastPrice * (10_000 * secondsPerYear + rfrBps * epochSeconds) /
// (10_000 * secondsPerYear).
func hurdlePrice(lastSharePrice math.LegacyDec, riskFreeRateBps uint64, epochSeconds int64) math.LegacyDec {
	basis := int64(types.BpsDenominator) * int64(types.SecondsPerYear)
	return lastSharePrice.
		MulInt64(basis + int64(riskFreeRateBps)*epochSeconds).
		QuoInt64(basis)
}

// FeeResult reports one epoch's fee application for a vault.
type FeeResult struct {
	ManagementFee  math.Int
	PerformanceFee math.Int
	AssetsAfter    math.Int
	SharePrice     math.LegacyDec
}

// ApplyFees computes both fees in the mandated order against the given
// asset base and returns the post-fee state. It does not mutate the vault.
func ApplyFees(
	assets math.Int,
	supply math.Int,
	model types.FeeModel,
	epochSeconds int64,
	riskFreeRateBps uint64,
	lastSharePrice math.LegacyDec,
) FeeResult {
	mgmt := ManagementFee(assets, model, epochSeconds)
	afterMgmt := assets.Sub(mgmt)

	perf := PerformanceFee(afterMgmt, supply, model, epochSeconds, riskFreeRateBps, lastSharePrice)
	after := afterMgmt.Sub(perf)

	price := math.LegacyZeroDec()
	if supply.IsPositive() {
		price = math.LegacyNewDecFromInt(after).QuoInt(supply)
	}

	return FeeResult{
		ManagementFee:  mgmt,
		PerformanceFee: perf,
		AssetsAfter:    after,
		SharePrice:     price,
	}
}
