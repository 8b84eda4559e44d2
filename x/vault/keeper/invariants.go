package keeper

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/folio-chain/folio/x/vault/types"
)

// RegisterInvariants registers the vault module invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "intent-weights", IntentWeightsInvariant(k))
	ir.RegisterRoute(types.ModuleName, "non-negative-accounting", NonNegativeAccountingInvariant(k))
	ir.RegisterRoute(types.ModuleName, "pending-totals", PendingTotalsInvariant(k))
	ir.RegisterRoute(types.ModuleName, "netting-accumulators", NettingAccumulatorsInvariant(k))
}

// IntentWeightsInvariant checks that every stored intent still satisfies the
// weight invariant: positive weights over distinct assets summing to the
// intent scale.
func IntentWeightsInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var msg string
		broken := false
		k.IterateVaults(ctx, func(vault types.Vault) bool {
			if err := types.ValidateIntent(vault.Intent); err != nil {
				broken = true
				msg += fmt.Sprintf("vault %d: %s\n", vault.Id, err)
			}
			return false
		})
		return sdk.FormatInvariant(types.ModuleName, "intent-weights", msg), broken
	}
}

// NonNegativeAccountingInvariant checks that no vault accounting field has
// gone negative.
func NonNegativeAccountingInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var msg string
		broken := false
		k.IterateVaults(ctx, func(vault types.Vault) bool {
			fields := map[string]math.Int{
				"total_supply":          vault.TotalSupply,
				"total_assets":          vault.TotalAssets,
				"idle_balance":          vault.IdleBalance,
				"pending_deposit_total": vault.PendingDepositTotal,
				"pending_redeem_total":  vault.PendingRedeemTotal,
			}
			for name, value := range fields {
				if value.IsNil() || value.IsNegative() {
					broken = true
					msg += fmt.Sprintf("vault %d: %s is %s\n", vault.Id, name, value)
				}
			}
			return false
		})
		return sdk.FormatInvariant(types.ModuleName, "non-negative-accounting", msg), broken
	}
}

// PendingTotalsInvariant checks that each vault's cached pending totals match
// the request queues.
func PendingTotalsInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var msg string
		broken := false
		k.IterateVaults(ctx, func(vault types.Vault) bool {
			depositSum := math.ZeroInt()
			k.IteratePendingDeposits(ctx, vault.Id, func(pd types.PendingDeposit) bool {
				depositSum = depositSum.Add(pd.Amount)
				return false
			})
			redeemSum := math.ZeroInt()
			k.IteratePendingRedeems(ctx, vault.Id, func(pr types.PendingRedeem) bool {
				redeemSum = redeemSum.Add(pr.Shares)
				return false
			})
			if !depositSum.Equal(vault.PendingDepositTotal) {
				broken = true
				msg += fmt.Sprintf("vault %d: pending deposit total %s, queue sums to %s\n",
					vault.Id, vault.PendingDepositTotal, depositSum)
			}
			if !redeemSum.Equal(vault.PendingRedeemTotal) {
				broken = true
				msg += fmt.Sprintf("vault %d: pending redeem total %s, queue sums to %s\n",
					vault.Id, vault.PendingRedeemTotal, redeemSum)
			}
			return false
		})
		return sdk.FormatInvariant(types.ModuleName, "pending-totals", msg), broken
	}
}

// NettingAccumulatorsInvariant checks that no netting accumulator survives
// outside an in-flight epoch computation. The accumulators are populated
// during postprocessing and consumed when the book is built.
func NettingAccumulatorsInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		es := k.GetEpochState(ctx)
		if es.Phase != types.PhaseIdle {
			return sdk.FormatInvariant(types.ModuleName, "netting-accumulators", ""), false
		}
		var msg string
		broken := false
		k.iterateDeltas(ctx, func(denom string, delta math.Int) bool {
			broken = true
			msg += fmt.Sprintf("stale accumulator for %s: %s\n", denom, delta)
			return false
		})
		return sdk.FormatInvariant(types.ModuleName, "netting-accumulators", msg), broken
	}
}
