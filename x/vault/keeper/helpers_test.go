package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	testkeeper "github.com/folio-chain/folio/testutil/keeper"
	"github.com/folio-chain/folio/x/vault/keeper"
	"github.com/folio-chain/folio/x/vault/types"
)

var (
	autoAddr      = sdk.AccAddress("automation__________")
	curatorAddr   = sdk.AccAddress("curator_____________")
	depositorAddr = sdk.AccAddress("depositor___________")
	ownerAddr     = sdk.AccAddress("owner_______________")
)

// setupTest builds a keeper with automation enabled and a test-sized dust
// threshold, and whitelists the default trading assets.
func setupTest(t *testing.T) (*keeper.Keeper, sdk.Context, *testkeeper.Mocks) {
	t.Helper()
	k, ctx, mocks := testkeeper.VaultKeeper(t)

	params := k.GetParams(ctx)
	params.AutomationAddress = autoAddr.String()
	params.DustThreshold = math.NewInt(100)
	require.NoError(t, k.SetParams(ctx, params))

	k.SetAssetListing(ctx, types.AssetListing{Denom: "uatom"})
	k.SetAssetListing(ctx, types.AssetListing{Denom: "uosmo"})
	mocks.Prices.SetQuote("uatom", math.LegacyOneDec())
	mocks.Prices.SetQuote("uosmo", math.LegacyOneDec())

	return k, ctx, mocks
}

// makeVault appends a fresh zeroed vault and returns it.
func makeVault(t *testing.T, k *keeper.Keeper, ctx sdk.Context, vaultType types.VaultType) types.Vault {
	t.Helper()
	vault := types.Vault{
		Curator:               curatorAddr.String(),
		VaultType:             vaultType,
		FeeModel:              types.FeeModel{HighWaterMark: math.LegacyOneDec()},
		IdleBalance:           math.ZeroInt(),
		PendingDepositTotal:   math.ZeroInt(),
		PendingRedeemTotal:    math.ZeroInt(),
		TotalSupply:           math.ZeroInt(),
		TotalAssets:           math.ZeroInt(),
		TotalAssetsForRedeem:  math.ZeroInt(),
		TotalAssetsForDeposit: math.ZeroInt(),
		CapturedDepositTotal:  math.ZeroInt(),
		CapturedRedeemShares:  math.ZeroInt(),
		PlannedCashDelta:      math.ZeroInt(),
		LastSharePrice:        math.LegacyOneDec(),
	}
	id := k.AppendVault(ctx, vault)
	got, err := k.GetVault(ctx, id)
	require.NoError(t, err)
	return got
}

// runStatesCycle drives the states orchestrator from idle back to idle,
// following the action the machine reports as legal each step.
func runStatesCycle(t *testing.T, k *keeper.Keeper, ctx sdk.Context) types.EpochState {
	t.Helper()
	var es types.EpochState
	for i := 0; i < 100; i++ {
		action, ok := types.ActionForPhase(k.GetEpochState(ctx).Phase)
		require.True(t, ok)
		var err error
		es, err = k.PerformStatesUpkeep(ctx, autoAddr.String(), action)
		require.NoError(t, err)
		if es.Phase == types.PhaseIdle {
			return es
		}
	}
	t.Fatal("states cycle did not return to idle")
	return es
}

// runFullEpoch drives states and then liquidity for one epoch.
func runFullEpoch(t *testing.T, k *keeper.Keeper, ctx sdk.Context) types.EpochState {
	t.Helper()
	es := runStatesCycle(t, k, ctx)
	executed, epoch, err := k.PerformLiquidityUpkeep(ctx, autoAddr.String())
	require.NoError(t, err)
	require.True(t, executed)
	require.Equal(t, es.Counter, epoch)
	return k.GetEpochState(ctx)
}
