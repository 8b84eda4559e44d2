package keeper

import (
	"context"

	"cosmossdk.io/math"

	"github.com/folio-chain/folio/x/vault/types"
)

// Rounding selects the direction of the final division in share/asset
// conversion.
type Rounding uint8

const (
	RoundFloor Rounding = iota
	RoundCeil
)

// virtualOffset returns 10^decimalsOffset, the artificial share liquidity
// that bounds first-depositor donation attacks: a pre-supply donation D can
// move the price captured by an attacker by at most
// D * supply / (supply + offset).
func virtualOffset(decimalsOffset uint32) math.Int {
	return math.NewIntWithDecimal(1, int(decimalsOffset))
}

// ConvertToAssets prices shares against a PIT asset snapshot:
// assets = shares * (pitAssets + 1) / (supply + 10^decimalsOffset).
func ConvertToAssets(shares, pitAssets, supply math.Int, decimalsOffset uint32, rounding Rounding) math.Int {
	num := shares.Mul(pitAssets.AddRaw(1))
	den := supply.Add(virtualOffset(decimalsOffset))
	return divide(num, den, rounding)
}

// ConvertToShares is the algebraic inverse of ConvertToAssets with the same
// virtual offset:
// shares = assets * (supply + 10^decimalsOffset) / (pitAssets + 1).
func ConvertToShares(assets, pitAssets, supply math.Int, decimalsOffset uint32, rounding Rounding) math.Int {
	num := assets.Mul(supply.Add(virtualOffset(decimalsOffset)))
	den := pitAssets.AddRaw(1)
	return divide(num, den, rounding)
}

func divide(num, den math.Int, rounding Rounding) math.Int {
	quo := num.Quo(den)
	if rounding == RoundCeil && !num.Mod(den).IsZero() {
		quo = quo.AddRaw(1)
	}
	return quo
}

// valuePortfolio prices a portfolio in underlying units at current adapter
// quotes, floor-rounded per position. A missing or non-positive quote is
// fatal to the enclosing phase step.
func (k Keeper) valuePortfolio(ctx context.Context, portfolio []types.AssetHolding) (math.Int, error) {
	total := math.ZeroInt()
	for _, holding := range portfolio {
		if holding.Amount.IsZero() {
			continue
		}
		price, err := k.priceAdapter.Quote(ctx, holding.Denom)
		if err != nil {
			return math.Int{}, types.ErrInvalidPrice.Wrapf("%s: %s", holding.Denom, err)
		}
		if price.IsNil() || !price.IsPositive() {
			return math.Int{}, types.ErrInvalidPrice.Wrapf("%s: quote %s", holding.Denom, price)
		}
		total = total.Add(price.MulInt(holding.Amount).TruncateInt())
	}
	return total, nil
}

// vaultPITValue is a vault's point-in-time total asset value: deployed
// portfolio at current quotes plus un-deployed underlying.
func (k Keeper) vaultPITValue(ctx context.Context, vault types.Vault) (math.Int, error) {
	deployed, err := k.valuePortfolio(ctx, vault.Portfolio)
	if err != nil {
		return math.Int{}, err
	}
	return deployed.Add(vault.IdleBalance), nil
}
