package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/folio-chain/folio/x/vault/types"
)

// BeginBlocker is called at the beginning of every block. The vault module
// does no block-synchronous work; it only refreshes the exported gauges.
func (k Keeper) BeginBlocker(ctx context.Context) error {
	active := 0
	k.IterateVaults(ctx, func(vault types.Vault) bool {
		if vault.Active() {
			active++
		}
		return false
	})
	moduleMetrics().VaultsActive.Set(float64(active))
	return nil
}

// EndBlocker is called at the end of every block. Epoch progression is driven
// by the off-chain automation principal, not by block processing; the
// EndBlocker only surfaces that work is waiting so automation can react to a
// single event stream.
func (k Keeper) EndBlocker(ctx context.Context) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if needed, action := k.CheckStatesUpkeep(ctx); needed {
		sdkCtx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeUpkeepNeeded,
				sdk.NewAttribute(types.AttributeKeyOrchestrator, "states"),
				sdk.NewAttribute(types.AttributeKeyAction, action.String()),
			),
		)
	}
	if k.CheckLiquidityUpkeep(ctx) {
		es := k.GetEpochState(ctx)
		sdkCtx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeUpkeepNeeded,
				sdk.NewAttribute(types.AttributeKeyOrchestrator, "liquidity"),
				sdk.NewAttribute(types.AttributeKeyEpoch, fmt.Sprintf("%d", es.Counter)),
			),
		)
	}
	return nil
}
