package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/hashicorp/go-metrics"

	"github.com/folio-chain/folio/x/vault/types"
)

// Liquidity orchestrator: phase 2 of the epoch. Consumes the order book the
// states side produced: trades run first so proceeds are in hand, then
// redemptions settle against the pre-epoch snapshot, then deposits against
// the post-redemption snapshot, then fees. One call is one atomic unit of
// work; re-invocation within the same epoch is a no-op.

// CheckLiquidityUpkeep reports whether an unexecuted epoch is waiting.
func (k Keeper) CheckLiquidityUpkeep(ctx context.Context) bool {
	es := k.GetEpochState(ctx)
	return es.Phase == types.PhaseIdle && es.LastProcessedEpoch < es.Counter
}

// PerformLiquidityUpkeep executes the current epoch's book. Returns false
// without mutation when the epoch has already been executed.
func (k Keeper) PerformLiquidityUpkeep(ctx context.Context, performer string) (bool, uint64, error) {
	if err := k.authorizeUpkeep(ctx, performer); err != nil {
		return false, 0, err
	}

	es := k.GetEpochState(ctx)
	if es.Phase != types.PhaseIdle {
		return false, 0, types.ErrInvalidState.Wrapf(
			"states orchestrator mid-cycle in phase %s", es.Phase)
	}
	if es.LastProcessedEpoch >= es.Counter {
		return false, es.Counter, nil
	}
	epoch := es.Counter

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	params := k.GetParams(ctx)

	vaults := k.GetAllVaults(ctx)

	book, _ := k.GetOrderBook(ctx, epoch)

	// Sells before buys so underlying liquidity exists before it is spent.
	for _, order := range book.Sells {
		if err := k.executeOrder(ctx, order, params); err != nil {
			return false, 0, err
		}
	}
	for _, order := range book.Buys {
		if err := k.executeOrder(ctx, order, params); err != nil {
			return false, 0, err
		}
	}

	// With the epoch's trades done, move every vault onto its target
	// portfolio and realize the planned cash movement. Sell proceeds land
	// in the idle balances here, ahead of the redemption payouts that
	// consume them.
	for i := range vaults {
		if !vaults[i].Active() {
			continue
		}
		if err := applyPortfolioTransition(&vaults[i]); err != nil {
			return false, 0, err
		}
	}

	// Redemptions settle before deposits, priced off the pre-epoch
	// snapshot captured during preprocessing.
	for i := range vaults {
		if !vaults[i].Active() {
			continue
		}
		if err := k.settleRedemptions(ctx, &vaults[i], params, epoch); err != nil {
			return false, 0, err
		}
	}

	// Deposits settle last, priced off the post-redemption snapshot.
	for i := range vaults {
		if !vaults[i].Active() || vaults[i].Decommissioning {
			continue
		}
		if err := k.settleDeposits(ctx, &vaults[i], params, epoch); err != nil {
			return false, 0, err
		}
	}

	// Fee application: management first, performance on the remainder.
	for i := range vaults {
		if !vaults[i].Active() {
			continue
		}
		if err := k.applyVaultFees(ctx, &vaults[i], params); err != nil {
			return false, 0, err
		}
	}

	for i := range vaults {
		k.finalizeDecommission(ctx, &vaults[i])
		k.SetVault(ctx, vaults[i])
	}

	es.LastProcessedEpoch = epoch
	k.SetEpochState(ctx, es)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeEpochCompleted,
			sdk.NewAttribute(types.AttributeKeyEpoch, fmt.Sprintf("%d", epoch)),
		),
	)

	return true, epoch, nil
}

// settleRedemptions pays out every redeem request captured for this epoch.
// All requests price off the same pre-epoch snapshot so ordering within the
// queue cannot advantage anyone.
func (k Keeper) settleRedemptions(ctx context.Context, vault *types.Vault, params types.Params, epoch uint64) error {
	if vault.CapturedRedeemShares.IsZero() {
		// Mark to the epoch's valuation even when nothing is redeemed.
		vault.TotalAssets = vault.TotalAssetsForRedeem
		return nil
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	snapshotAssets := vault.TotalAssetsForRedeem
	snapshotSupply := vault.TotalSupply

	type settlement struct {
		owner  sdk.AccAddress
		shares math.Int
		payout math.Int
	}
	var settlements []settlement

	k.IteratePendingRedeems(ctx, vault.Id, func(pr types.PendingRedeem) bool {
		if pr.Epoch != epoch {
			return false
		}
		payout := ConvertToAssets(pr.Shares, snapshotAssets, snapshotSupply, params.DecimalsOffset, RoundFloor)
		settlements = append(settlements, settlement{
			owner:  sdk.MustAccAddressFromBech32(pr.Owner),
			shares: pr.Shares,
			payout: payout,
		})
		return false
	})

	totalShares := math.ZeroInt()
	totalPayout := math.ZeroInt()
	for _, s := range settlements {
		if s.payout.IsPositive() {
			coins := sdk.NewCoins(sdk.NewCoin(params.UnderlyingDenom, s.payout))
			if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, s.owner, coins); err != nil {
				return types.ErrInsufficientFunds.Wrapf("redeem payout: %s", err)
			}
		}
		k.DeletePendingRedeem(ctx, vault.Id, s.owner)
		totalShares = totalShares.Add(s.shares)
		totalPayout = totalPayout.Add(s.payout)

		sdkCtx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeRedemptionSettled,
				sdk.NewAttribute(types.AttributeKeyVaultID, fmt.Sprintf("%d", vault.Id)),
				sdk.NewAttribute(types.AttributeKeyOwner, s.owner.String()),
				sdk.NewAttribute(types.AttributeKeyShares, s.shares.String()),
				sdk.NewAttribute(types.AttributeKeyAmount, s.payout.String()),
			),
		)
		moduleMetrics().RedemptionsSettled.Inc()
	}

	vault.TotalSupply = vault.TotalSupply.Sub(totalShares)
	vault.TotalAssets = snapshotAssets.Sub(totalPayout)
	vault.IdleBalance = vault.IdleBalance.Sub(totalPayout)
	if vault.IdleBalance.IsNegative() {
		return types.ErrAccountingUnderflow.Wrapf(
			"vault %d: redemption payouts exceed idle balance", vault.Id)
	}
	vault.PendingRedeemTotal = vault.PendingRedeemTotal.Sub(totalShares)
	vault.CapturedRedeemShares = math.ZeroInt()
	return nil
}

// executeOrder runs one netted order through the execution adapter with the
// slippage bound derived from the protocol-wide tolerance.
func (k Keeper) executeOrder(ctx context.Context, order types.Order, params types.Params) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	var bound math.Int
	if order.Side == types.OrderSideSell {
		bound = order.Amount.MulRaw(types.BpsDenominator - int64(params.SlippageToleranceBps)).QuoRaw(types.BpsDenominator)
	} else {
		bound = order.Amount.MulRaw(types.BpsDenominator + int64(params.SlippageToleranceBps)).QuoRaw(types.BpsDenominator)
	}

	actual, err := k.executionAdapter.Execute(ctx, order.Side, order.Denom, order.Amount, bound)
	if err != nil {
		return types.ErrInsufficientFunds.Wrapf("%s %s: %s", order.Side, order.Denom, err)
	}
	if order.Side == types.OrderSideSell && actual.LT(bound) {
		return types.ErrSlippageExceeded.Wrapf(
			"sell %s: received %s, floor %s", order.Denom, actual, bound)
	}
	if order.Side == types.OrderSideBuy && actual.GT(bound) {
		return types.ErrSlippageExceeded.Wrapf(
			"buy %s: spent %s, ceiling %s", order.Denom, actual, bound)
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeOrderExecuted,
			sdk.NewAttribute(types.AttributeKeyDenom, order.Denom),
			sdk.NewAttribute(types.AttributeKeySide, order.Side.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, order.Amount.String()),
		),
	)
	moduleMetrics().OrdersExecuted.WithLabelValues(order.Side.String()).Inc()
	volume, _ := order.Amount.ToLegacyDec().Float64()
	moduleMetrics().OrderVolume.WithLabelValues(order.Side.String()).Add(volume)
	telemetry.IncrCounterWithLabels(
		[]string{types.ModuleName, "order_executed"},
		1,
		[]metrics.Label{
			telemetry.NewLabel("side", order.Side.String()),
			telemetry.NewLabel("denom", order.Denom),
		},
	)
	return nil
}

// applyPortfolioTransition moves the vault onto the target recorded during
// postprocessing and realizes the planned cash delta against the idle
// balance. Execution deviations within the slippage bound are absorbed by
// the liquidity buffer.
func applyPortfolioTransition(vault *types.Vault) error {
	if vault.TargetPortfolio == nil && vault.PlannedCashDelta.IsZero() {
		return nil
	}
	vault.Portfolio = vault.TargetPortfolio
	vault.TargetPortfolio = nil
	vault.IdleBalance = vault.IdleBalance.Add(vault.PlannedCashDelta)
	vault.PlannedCashDelta = math.ZeroInt()
	if vault.IdleBalance.IsNegative() {
		return types.ErrAccountingUnderflow.Wrapf(
			"vault %d: portfolio transition overdraws idle balance", vault.Id)
	}
	return nil
}

// settleDeposits mints shares for every deposit captured this epoch, priced
// off the post-redemption snapshot. All requests use the same snapshot
// supply, mirroring redemption settlement.
func (k Keeper) settleDeposits(ctx context.Context, vault *types.Vault, params types.Params, epoch uint64) error {
	if vault.CapturedDepositTotal.IsZero() {
		return nil
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	snapshotAssets := vault.TotalAssetsForDeposit
	snapshotSupply := vault.TotalSupply

	type settlement struct {
		depositor sdk.AccAddress
		amount    math.Int
		shares    math.Int
	}
	var settlements []settlement

	k.IteratePendingDeposits(ctx, vault.Id, func(pd types.PendingDeposit) bool {
		if pd.Epoch != epoch {
			return false
		}
		shares := ConvertToShares(pd.Amount, snapshotAssets, snapshotSupply, params.DecimalsOffset, RoundFloor)
		settlements = append(settlements, settlement{
			depositor: sdk.MustAccAddressFromBech32(pd.Depositor),
			amount:    pd.Amount,
			shares:    shares,
		})
		return false
	})

	totalShares := math.ZeroInt()
	totalAmount := math.ZeroInt()
	for _, s := range settlements {
		balance := k.GetShareBalance(ctx, vault.Id, s.depositor)
		k.SetShareBalance(ctx, vault.Id, s.depositor, balance.Add(s.shares))
		k.DeletePendingDeposit(ctx, vault.Id, s.depositor)
		totalShares = totalShares.Add(s.shares)
		totalAmount = totalAmount.Add(s.amount)

		sdkCtx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeDepositSettled,
				sdk.NewAttribute(types.AttributeKeyVaultID, fmt.Sprintf("%d", vault.Id)),
				sdk.NewAttribute(types.AttributeKeyDepositor, s.depositor.String()),
				sdk.NewAttribute(types.AttributeKeyAmount, s.amount.String()),
				sdk.NewAttribute(types.AttributeKeyShares, s.shares.String()),
			),
		)
		moduleMetrics().DepositsSettled.Inc()
	}

	vault.TotalSupply = vault.TotalSupply.Add(totalShares)
	vault.TotalAssets = vault.TotalAssets.Add(totalAmount)
	vault.IdleBalance = vault.IdleBalance.Add(totalAmount)
	vault.PendingDepositTotal = vault.PendingDepositTotal.Sub(totalAmount)
	vault.CapturedDepositTotal = math.ZeroInt()
	return nil
}

// applyVaultFees deducts the epoch's fees from the vault and credits the
// curator's claim, then rolls the share-price benchmarks forward.
func (k Keeper) applyVaultFees(ctx context.Context, vault *types.Vault, params types.Params) error {
	if !vault.TotalSupply.IsPositive() {
		return nil
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	res := ApplyFees(
		vault.TotalAssets,
		vault.TotalSupply,
		vault.FeeModel,
		params.EpochDurationSeconds,
		params.RiskFreeRateBps,
		vault.LastSharePrice,
	)

	totalFee := res.ManagementFee.Add(res.PerformanceFee)
	if totalFee.IsPositive() {
		vault.TotalAssets = res.AssetsAfter
		vault.IdleBalance = vault.IdleBalance.Sub(totalFee)
		if vault.IdleBalance.IsNegative() {
			return types.ErrAccountingUnderflow.Wrapf(
				"vault %d: fee %s exceeds idle balance", vault.Id, totalFee)
		}
		curator := sdk.MustAccAddressFromBech32(vault.Curator)
		k.AddFeeBalance(ctx, curator, totalFee)

		sdkCtx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeFeesAccrued,
				sdk.NewAttribute(types.AttributeKeyVaultID, fmt.Sprintf("%d", vault.Id)),
				sdk.NewAttribute(types.AttributeKeyMgmtFee, res.ManagementFee.String()),
				sdk.NewAttribute(types.AttributeKeyPerfFee, res.PerformanceFee.String()),
			),
		)
		mgmt, _ := res.ManagementFee.ToLegacyDec().Float64()
		perf, _ := res.PerformanceFee.ToLegacyDec().Float64()
		moduleMetrics().FeesAccrued.WithLabelValues("management").Add(mgmt)
		moduleMetrics().FeesAccrued.WithLabelValues("performance").Add(perf)
	}

	vault.LastSharePrice = res.SharePrice
	if vault.FeeModel.UsesHighWaterMark() && res.SharePrice.GT(vault.FeeModel.HighWaterMark) {
		vault.FeeModel.HighWaterMark = res.SharePrice
	}
	return nil
}

// finalizeDecommission retires a fully drained vault. Residual buffer dust
// is credited to the curator's fee claim.
func (k Keeper) finalizeDecommission(ctx context.Context, vault *types.Vault) {
	if !vault.Decommissioning || vault.Decommissioned {
		return
	}
	if !vault.TotalSupply.IsZero() || len(vault.Portfolio) > 0 {
		return
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if vault.IdleBalance.IsPositive() {
		curator := sdk.MustAccAddressFromBech32(vault.Curator)
		k.AddFeeBalance(ctx, curator, vault.IdleBalance)
		vault.IdleBalance = math.ZeroInt()
	}
	vault.TotalAssets = math.ZeroInt()
	vault.Decommissioned = true

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeVaultRemoved,
			sdk.NewAttribute(types.AttributeKeyVaultID, fmt.Sprintf("%d", vault.Id)),
		),
	)
	moduleMetrics().VaultsDecommissioned.Inc()
}
