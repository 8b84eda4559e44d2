package keeper_test

import (
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/folio-chain/folio/x/vault/keeper"
	"github.com/folio-chain/folio/x/vault/types"
)

func TestLiquidityFirstEpochDeposit(t *testing.T) {
	k, ctx, mocks := setupTest(t)
	params := k.GetParams(ctx)

	vault := makeVault(t, k, ctx, types.VaultTypeTransparent)
	vault.PendingDepositTotal = math.NewInt(1_000_000)
	k.SetVault(ctx, vault)
	k.SetPendingDeposit(ctx, types.PendingDeposit{
		VaultId:   vault.Id,
		Depositor: depositorAddr.String(),
		Amount:    math.NewInt(1_000_000),
	})
	mocks.Bank.Fund(types.ModuleName, params.UnderlyingDenom, math.NewInt(1_000_000))

	runFullEpoch(t, k, ctx)

	got, err := k.GetVault(ctx, vault.Id)
	require.NoError(t, err)

	// First deposit against an empty vault mints at the virtual-offset
	// rate: one million underlying becomes 10^12 shares.
	require.Equal(t, math.NewIntWithDecimal(1, 12), got.TotalSupply)
	require.Equal(t, math.NewIntWithDecimal(1, 12), k.GetShareBalance(ctx, vault.Id, depositorAddr))
	require.Equal(t, math.NewInt(1_000_000), got.TotalAssets)
	require.Equal(t, math.NewInt(1_000_000), got.IdleBalance)
	require.True(t, got.PendingDepositTotal.IsZero())
	require.True(t, got.CapturedDepositTotal.IsZero())
	require.Equal(t, math.LegacyNewDecWithPrec(1, 6), got.LastSharePrice)

	_, found := k.GetPendingDeposit(ctx, vault.Id, depositorAddr)
	require.False(t, found)
}

func TestLiquidityIdempotent(t *testing.T) {
	k, ctx, mocks := setupTest(t)

	es := runStatesCycle(t, k, ctx)
	executed, epoch, err := k.PerformLiquidityUpkeep(ctx, autoAddr.String())
	require.NoError(t, err)
	require.True(t, executed)
	require.Equal(t, es.Counter, epoch)
	require.False(t, k.CheckLiquidityUpkeep(ctx))

	// Re-invoking the same epoch is a silent no-op.
	executed, epoch, err = k.PerformLiquidityUpkeep(ctx, autoAddr.String())
	require.NoError(t, err)
	require.False(t, executed)
	require.Equal(t, es.Counter, epoch)
	require.Empty(t, mocks.Execution.Executed)
}

func TestLiquidityRequiresIdleStates(t *testing.T) {
	k, ctx, _ := setupTest(t)

	_, err := k.PerformStatesUpkeep(ctx, autoAddr.String(), types.ActionPreprocessTransparentVaults)
	require.NoError(t, err)

	_, _, err = k.PerformLiquidityUpkeep(ctx, autoAddr.String())
	require.ErrorIs(t, err, types.ErrInvalidState)
}

func TestLiquiditySellsBeforeBuys(t *testing.T) {
	k, ctx, mocks := setupTest(t)

	k.SetEpochState(ctx, types.EpochState{
		Phase:          types.PhaseIdle,
		Counter:        1,
		LastEpochStart: ctx.BlockTime(),
	})
	k.SetOrderBook(ctx, types.OrderBook{
		Epoch: 1,
		Buys:  []types.Order{{Denom: "uosmo", Side: types.OrderSideBuy, Amount: math.NewInt(200_000), EstimatedValue: math.NewInt(200_000)}},
		Sells: []types.Order{{Denom: "uatom", Side: types.OrderSideSell, Amount: math.NewInt(100_000), EstimatedValue: math.NewInt(100_000)}},
	})

	executed, _, err := k.PerformLiquidityUpkeep(ctx, autoAddr.String())
	require.NoError(t, err)
	require.True(t, executed)

	require.Len(t, mocks.Execution.Executed, 2)
	require.Equal(t, types.OrderSideSell, mocks.Execution.Executed[0].Side)
	require.Equal(t, "uatom", mocks.Execution.Executed[0].Denom)
	require.Equal(t, types.OrderSideBuy, mocks.Execution.Executed[1].Side)

	// Bounds derive from the 50 bps tolerance: sells floor below par,
	// buys ceiling above it.
	require.Equal(t, math.NewInt(99_500), mocks.Execution.Executed[0].Bound)
	require.Equal(t, math.NewInt(201_000), mocks.Execution.Executed[1].Bound)
}

func TestLiquiditySlippageViolation(t *testing.T) {
	k, ctx, mocks := setupTest(t)

	k.SetEpochState(ctx, types.EpochState{
		Phase:          types.PhaseIdle,
		Counter:        1,
		LastEpochStart: ctx.BlockTime(),
	})
	k.SetOrderBook(ctx, types.OrderBook{
		Epoch: 1,
		Sells: []types.Order{{Denom: "uatom", Side: types.OrderSideSell, Amount: math.NewInt(100_000), EstimatedValue: math.NewInt(100_000)}},
	})

	// One unit under the floor fails the whole epoch.
	mocks.Execution.Fills["uatom"] = math.NewInt(99_499)
	_, _, err := k.PerformLiquidityUpkeep(ctx, autoAddr.String())
	require.ErrorIs(t, err, types.ErrSlippageExceeded)

	k.SetOrderBook(ctx, types.OrderBook{
		Epoch: 1,
		Buys:  []types.Order{{Denom: "uosmo", Side: types.OrderSideBuy, Amount: math.NewInt(100_000), EstimatedValue: math.NewInt(100_000)}},
	})
	mocks.Execution.Fills["uosmo"] = math.NewInt(100_501)
	_, _, err = k.PerformLiquidityUpkeep(ctx, autoAddr.String())
	require.ErrorIs(t, err, types.ErrSlippageExceeded)
}

func TestLiquidityDeployAndRedeem(t *testing.T) {
	k, ctx, mocks := setupTest(t)
	params := k.GetParams(ctx)
	epochStep := time.Duration(params.EpochDurationSeconds) * time.Second

	// Epoch 1: settle the initial deposit.
	vault := makeVault(t, k, ctx, types.VaultTypeTransparent)
	vault.PendingDepositTotal = math.NewInt(1_000_000)
	k.SetVault(ctx, vault)
	k.SetPendingDeposit(ctx, types.PendingDeposit{
		VaultId:   vault.Id,
		Depositor: depositorAddr.String(),
		Amount:    math.NewInt(1_000_000),
	})
	mocks.Bank.Fund(types.ModuleName, params.UnderlyingDenom, math.NewInt(1_000_000))
	runFullEpoch(t, k, ctx)

	// Epoch 2: deploy into a single-asset intent.
	got, err := k.GetVault(ctx, vault.Id)
	require.NoError(t, err)
	got.Intent = []types.WeightedAsset{{Denom: "uatom", Weight: math.NewInt(types.IntentScale)}}
	k.SetVault(ctx, got)

	ctx = ctx.WithBlockTime(ctx.BlockTime().Add(epochStep))
	runFullEpoch(t, k, ctx)

	got, err = k.GetVault(ctx, vault.Id)
	require.NoError(t, err)
	require.Len(t, got.Portfolio, 1)
	require.Equal(t, "uatom", got.Portfolio[0].Denom)
	// One percent of the million stays behind as the liquidity buffer.
	require.Equal(t, math.NewInt(990_000), got.Portfolio[0].Amount)
	require.Equal(t, math.NewInt(10_000), got.IdleBalance)
	require.Equal(t, math.NewInt(1_000_000), got.TotalAssets)
	require.True(t, got.PlannedCashDelta.IsZero())

	// Epoch 3: redeem half the shares.
	redeemShares := math.NewIntWithDecimal(5, 11)
	k.SetShareBalance(ctx, vault.Id, depositorAddr, math.NewIntWithDecimal(5, 11))
	got.PendingRedeemTotal = redeemShares
	k.SetVault(ctx, got)
	k.SetPendingRedeem(ctx, types.PendingRedeem{
		VaultId: vault.Id,
		Owner:   depositorAddr.String(),
		Shares:  redeemShares,
	})

	ctx = ctx.WithBlockTime(ctx.BlockTime().Add(epochStep))
	runFullEpoch(t, k, ctx)

	got, err = k.GetVault(ctx, vault.Id)
	require.NoError(t, err)

	// Half the supply redeems for half the snapshot value, funded by the
	// sell the rebalance queued.
	require.Equal(t, math.NewIntWithDecimal(5, 11), got.TotalSupply)
	require.Equal(t, math.NewInt(500_000), got.TotalAssets)
	require.Equal(t, math.NewInt(495_000), got.Portfolio[0].Amount)
	require.Equal(t, math.NewInt(5_000), got.IdleBalance)
	require.True(t, got.PendingRedeemTotal.IsZero())

	require.Equal(t, math.NewInt(500_000), mocks.Bank.GetBalance(ctx, depositorAddr, params.UnderlyingDenom).Amount)
	_, found := k.GetPendingRedeem(ctx, vault.Id, depositorAddr)
	require.False(t, found)

	// The rebalance sold down to the new target before paying out.
	last := mocks.Execution.Executed[len(mocks.Execution.Executed)-1]
	require.Equal(t, types.OrderSideSell, last.Side)
	require.Equal(t, math.NewInt(495_000), last.Amount)
}

func TestLiquidityRedeemSettlesBeforeDeposit(t *testing.T) {
	k, ctx, mocks := setupTest(t)
	params := k.GetParams(ctx)
	params.BufferRatioBps = 0
	require.NoError(t, k.SetParams(ctx, params))

	// 10^14 shares over 99 million underlying, with a 90%-of-supply redeem
	// and a fresh deposit captured in the same epoch. The redeemer must be
	// paid off the pre-deposit pool, the depositor priced off what remains.
	vault := makeVault(t, k, ctx, types.VaultTypeTransparent)
	vault.IdleBalance = math.NewInt(99_000_000)
	vault.TotalAssets = math.NewInt(99_000_000)
	vault.TotalSupply = math.NewIntWithDecimal(1, 14)
	vault.PendingRedeemTotal = math.NewIntWithDecimal(9, 13)
	vault.PendingDepositTotal = math.NewInt(10_000_000)
	k.SetVault(ctx, vault)
	k.SetPendingRedeem(ctx, types.PendingRedeem{
		VaultId: vault.Id,
		Owner:   ownerAddr.String(),
		Shares:  math.NewIntWithDecimal(9, 13),
	})
	k.SetPendingDeposit(ctx, types.PendingDeposit{
		VaultId:   vault.Id,
		Depositor: depositorAddr.String(),
		Amount:    math.NewInt(10_000_000),
	})
	mocks.Bank.Fund(types.ModuleName, params.UnderlyingDenom, math.NewInt(99_000_000))

	runFullEpoch(t, k, ctx)

	got, err := k.GetVault(ctx, vault.Id)
	require.NoError(t, err)

	// 9*10^13 shares against the 99M/10^14 snapshot floor to 89.1M; the
	// simultaneous deposit never inflates the payout.
	require.Equal(t, math.NewInt(89_100_000), mocks.Bank.GetBalance(ctx, ownerAddr, params.UnderlyingDenom).Amount)
	require.Equal(t, math.NewInt(9_900_000), got.TotalAssetsForDeposit)

	// The depositor's shares come from the post-redemption remainder:
	// 9.9M assets over the 10^13 shares that survived the redeem.
	minted := keeper.ConvertToShares(
		math.NewInt(10_000_000),
		math.NewInt(9_900_000),
		math.NewIntWithDecimal(1, 13),
		params.DecimalsOffset,
		keeper.RoundFloor,
	)
	require.Equal(t, minted, k.GetShareBalance(ctx, vault.Id, depositorAddr))
	require.Equal(t, math.NewIntWithDecimal(1, 13).Add(minted), got.TotalSupply)
	require.Equal(t, math.NewInt(19_900_000), got.TotalAssets)
	require.Equal(t, math.NewInt(19_900_000), got.IdleBalance)
	require.True(t, got.PendingRedeemTotal.IsZero())
	require.True(t, got.PendingDepositTotal.IsZero())
}

func TestLiquidityRedemptionUnderflow(t *testing.T) {
	k, ctx, mocks := setupTest(t)
	params := k.GetParams(ctx)

	// Stage a captured snapshot whose payout exceeds the liquid balance.
	// The epoch must fail its accounting check rather than pay out of thin
	// air.
	vault := makeVault(t, k, ctx, types.VaultTypeTransparent)
	vault.IdleBalance = math.NewInt(100)
	vault.TotalAssets = math.NewInt(1_000_000)
	vault.TotalAssetsForRedeem = math.NewInt(1_000_000)
	vault.TotalSupply = math.NewIntWithDecimal(1, 12)
	vault.PendingRedeemTotal = math.NewIntWithDecimal(1, 11)
	vault.CapturedRedeemShares = math.NewIntWithDecimal(1, 11)
	k.SetVault(ctx, vault)
	k.SetPendingRedeem(ctx, types.PendingRedeem{
		VaultId: vault.Id,
		Owner:   ownerAddr.String(),
		Shares:  math.NewIntWithDecimal(1, 11),
		Epoch:   1,
	})
	mocks.Bank.Fund(types.ModuleName, params.UnderlyingDenom, math.NewInt(1_000_000))

	k.SetEpochState(ctx, types.EpochState{
		Phase:          types.PhaseIdle,
		Counter:        1,
		LastEpochStart: ctx.BlockTime(),
	})

	_, _, err := k.PerformLiquidityUpkeep(ctx, autoAddr.String())
	require.ErrorIs(t, err, types.ErrAccountingUnderflow)
}

func TestLiquidityDecommissionWindDown(t *testing.T) {
	k, ctx, mocks := setupTest(t)
	params := k.GetParams(ctx)

	vault := makeVault(t, k, ctx, types.VaultTypeTransparent)
	vault.IdleBalance = math.NewInt(10_000)
	vault.TotalAssets = math.NewInt(1_010_000)
	vault.TotalSupply = math.NewIntWithDecimal(1, 12)
	vault.Portfolio = []types.AssetHolding{{Denom: "uatom", Amount: math.NewInt(1_000_000)}}
	vault.PendingRedeemTotal = math.NewIntWithDecimal(1, 12)
	vault.Decommissioning = true
	k.SetVault(ctx, vault)
	k.SetPendingRedeem(ctx, types.PendingRedeem{
		VaultId: vault.Id,
		Owner:   ownerAddr.String(),
		Shares:  math.NewIntWithDecimal(1, 12),
	})
	mocks.Bank.Fund(types.ModuleName, params.UnderlyingDenom, math.NewInt(1_010_000))

	runFullEpoch(t, k, ctx)

	got, err := k.GetVault(ctx, vault.Id)
	require.NoError(t, err)
	require.True(t, got.Decommissioned)
	require.True(t, got.TotalSupply.IsZero())
	require.True(t, got.TotalAssets.IsZero())
	require.True(t, got.IdleBalance.IsZero())
	require.Empty(t, got.Portfolio)

	// Full-supply redemption floors one unit short of the pot; the
	// residual dust lands in the curator's fee claim.
	require.Equal(t, math.NewInt(1_009_999), mocks.Bank.GetBalance(ctx, ownerAddr, params.UnderlyingDenom).Amount)
	require.Equal(t, math.NewInt(1), k.GetFeeBalance(ctx, curatorAddr))

	// The whole portfolio was sold off on the way down.
	require.Len(t, mocks.Execution.Executed, 1)
	require.Equal(t, types.OrderSideSell, mocks.Execution.Executed[0].Side)
	require.Equal(t, math.NewInt(1_000_000), mocks.Execution.Executed[0].Amount)
}
