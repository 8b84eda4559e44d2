package keeper

import (
	"context"
	"fmt"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/folio-chain/folio/x/vault/types"
)

// States orchestrator: phase 1 of the epoch. Walks all vaults in
// minibatches, captures PIT snapshots and pending-request totals, reserves
// the liquidity buffer, recomputes target portfolios from intents, and
// folds everything into the netted order book for the next epoch.

// CheckStatesUpkeep reports whether a states upkeep call would make
// progress, and the action selector it must carry. A new epoch is only
// needed once the epoch duration has elapsed while idle; mid-cycle the
// current phase always wants continuation.
func (k Keeper) CheckStatesUpkeep(ctx context.Context) (bool, types.UpkeepAction) {
	es := k.GetEpochState(ctx)
	action, ok := types.ActionForPhase(es.Phase)
	if !ok {
		return false, 0
	}
	if es.Phase != types.PhaseIdle {
		return true, action
	}
	params := k.GetParams(ctx)
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	elapsed := !sdkCtx.BlockTime().Before(es.LastEpochStart.Add(epochDuration(params)))
	return elapsed, action
}

// PerformStatesUpkeep advances the states orchestrator by exactly one
// minibatch. The action selector must match the phase being processed;
// any mismatch fails with ErrInvalidState before mutation.
func (k Keeper) PerformStatesUpkeep(ctx context.Context, performer string, action types.UpkeepAction) (types.EpochState, error) {
	if err := k.authorizeUpkeep(ctx, performer); err != nil {
		return types.EpochState{}, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	params := k.GetParams(ctx)
	es := k.GetEpochState(ctx)

	legal, ok := types.ActionForPhase(es.Phase)
	if !ok || action != legal {
		return types.EpochState{}, types.ErrInvalidState.Wrapf(
			"phase %s expects action %s, got %s", es.Phase, legal, action)
	}

	if es.Phase == types.PhaseIdle {
		deadline := es.LastEpochStart.Add(epochDuration(params))
		if sdkCtx.BlockTime().Before(deadline) {
			return types.EpochState{}, types.ErrEpochNotElapsed.Wrapf(
				"next epoch at %s", deadline)
		}
		es.Phase = types.PhasePreprocessingTransparentVaults
		es.Cursor = 0
		es.LastEpochStart = sdkCtx.BlockTime()
	}

	targetEpoch := es.Counter + 1

	var err error
	if es.Phase == types.PhaseBuildingOrders {
		es, err = k.finalizeOrders(ctx, es, targetEpoch)
	} else {
		es, err = k.processMinibatch(ctx, es, params, targetEpoch)
	}
	if err != nil {
		return types.EpochState{}, err
	}

	k.SetEpochState(ctx, es)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePhaseAdvanced,
			sdk.NewAttribute(types.AttributeKeyPhase, es.Phase.String()),
			sdk.NewAttribute(types.AttributeKeyCursor, fmt.Sprintf("%d", es.Cursor)),
			sdk.NewAttribute(types.AttributeKeyEpoch, fmt.Sprintf("%d", es.Counter)),
		),
	)
	moduleMetrics().Phase.Set(float64(es.Phase))

	return es, nil
}

// phaseVaultIDs returns the cursor-ordered vault list a phase walks.
func (k Keeper) phaseVaultIDs(ctx context.Context, phase types.Phase) []uint64 {
	transparent := types.VaultTypeTransparent
	encrypted := types.VaultTypeEncrypted
	switch phase {
	case types.PhasePreprocessingTransparentVaults, types.PhasePostprocessingTransparentVaults:
		return k.ActiveVaultIDs(ctx, &transparent)
	case types.PhasePreprocessingEncryptedVaults, types.PhasePostprocessingEncryptedVaults:
		return k.ActiveVaultIDs(ctx, &encrypted)
	default:
		return k.ActiveVaultIDs(ctx, nil)
	}
}

// processMinibatch applies the current phase's per-vault step to one
// cursor-bounded slice of vaults, then advances phase and resets the cursor
// once the slice is exhausted.
func (k Keeper) processMinibatch(ctx context.Context, es types.EpochState, params types.Params, targetEpoch uint64) (types.EpochState, error) {
	ids := k.phaseVaultIDs(ctx, es.Phase)

	start := es.Cursor
	if start > uint64(len(ids)) {
		start = uint64(len(ids))
	}
	end := start + params.MinibatchSize
	if end > uint64(len(ids)) {
		end = uint64(len(ids))
	}

	for _, id := range ids[start:end] {
		vault, err := k.GetVault(ctx, id)
		if err != nil {
			return types.EpochState{}, err
		}
		switch es.Phase {
		case types.PhasePreprocessingTransparentVaults, types.PhasePreprocessingEncryptedVaults:
			err = k.preprocessVault(ctx, &vault, targetEpoch)
		case types.PhaseBuffering:
			err = k.bufferVault(ctx, &vault, params)
		case types.PhasePostprocessingTransparentVaults, types.PhasePostprocessingEncryptedVaults:
			err = k.postprocessVault(ctx, &vault, params)
		}
		if err != nil {
			return types.EpochState{}, err
		}
		k.SetVault(ctx, vault)
	}
	es.Cursor = end

	if end >= uint64(len(ids)) {
		// Buffering may not start until every encrypted intent has come
		// back from the decryption oracle.
		if es.Phase == types.PhasePreprocessingEncryptedVaults && !k.allEncryptedIntentsResolved(ctx) {
			if start == end {
				return types.EpochState{}, types.ErrDecryptionPending
			}
			return es, nil
		}
		es.Phase = types.NextPhase(es.Phase)
		es.Cursor = 0
	}
	return es, nil
}

// preprocessVault captures the pre-epoch PIT value and freezes the pending
// request queues for this epoch. Encrypted intents are handed to the
// decryption oracle here.
func (k Keeper) preprocessVault(ctx context.Context, vault *types.Vault, targetEpoch uint64) error {
	pit, err := k.vaultPITValue(ctx, *vault)
	if err != nil {
		return err
	}
	vault.TotalAssetsForRedeem = pit

	capturedDeposits := math.ZeroInt()
	if !vault.Decommissioning {
		k.IteratePendingDeposits(ctx, vault.Id, func(pd types.PendingDeposit) bool {
			pd.Epoch = targetEpoch
			k.SetPendingDeposit(ctx, pd)
			capturedDeposits = capturedDeposits.Add(pd.Amount)
			return false
		})
	}
	vault.CapturedDepositTotal = capturedDeposits

	capturedRedeems := math.ZeroInt()
	k.IteratePendingRedeems(ctx, vault.Id, func(pr types.PendingRedeem) bool {
		pr.Epoch = targetEpoch
		k.SetPendingRedeem(ctx, pr)
		capturedRedeems = capturedRedeems.Add(pr.Shares)
		return false
	})
	vault.CapturedRedeemShares = capturedRedeems

	if vault.VaultType == types.VaultTypeEncrypted && len(vault.EncryptedIntent) > 0 {
		if err := k.decrypter.RequestDecryption(ctx, vault.Id, vault.EncryptedIntent); err != nil {
			return types.ErrDecryptionPending.Wrapf("vault %d: %s", vault.Id, err)
		}
	}
	return nil
}

// allEncryptedIntentsResolved reports whether every active encrypted vault
// with a pending ciphertext has a decrypted intent available.
func (k Keeper) allEncryptedIntentsResolved(ctx context.Context) bool {
	resolved := true
	encrypted := types.VaultTypeEncrypted
	for _, id := range k.ActiveVaultIDs(ctx, &encrypted) {
		vault, err := k.GetVault(ctx, id)
		if err != nil {
			return false
		}
		if len(vault.EncryptedIntent) == 0 {
			continue
		}
		if _, ok := k.decrypter.DecryptedIntent(ctx, vault.Id); !ok {
			resolved = false
			break
		}
	}
	return resolved
}

// bufferVault derives totalAssetsForDeposit: the post-redemption value with
// the protocol liquidity buffer held back from deployment.
func (k Keeper) bufferVault(ctx context.Context, vault *types.Vault, params types.Params) error {
	projectedPayout := ConvertToAssets(
		vault.CapturedRedeemShares,
		vault.TotalAssetsForRedeem,
		vault.TotalSupply,
		params.DecimalsOffset,
		RoundFloor,
	)
	postRedeem := vault.TotalAssetsForRedeem.Sub(projectedPayout)
	if postRedeem.IsNegative() {
		return types.ErrAccountingUnderflow.Wrapf("vault %d: projected payout exceeds assets", vault.Id)
	}
	holdback := postRedeem.MulRaw(int64(params.BufferRatioBps)).QuoRaw(types.BpsDenominator)
	vault.TotalAssetsForDeposit = postRedeem.Sub(holdback)
	return nil
}

// postprocessVault resolves the vault's effective intent, records the new
// target portfolio sized off totalAssetsForDeposit, and folds the vault's
// deltas into the global netting accumulators.
func (k Keeper) postprocessVault(ctx context.Context, vault *types.Vault, params types.Params) error {
	if vault.VaultType == types.VaultTypeEncrypted && len(vault.EncryptedIntent) > 0 {
		intent, ok := k.decrypter.DecryptedIntent(ctx, vault.Id)
		if !ok {
			return types.ErrDecryptionPending.Wrapf("vault %d", vault.Id)
		}
		if err := types.ValidateIntent(intent); err != nil {
			return err
		}
		vault.Intent = intent
		vault.EncryptedIntent = nil
	}

	target, err := k.targetPortfolio(ctx, *vault)
	if err != nil {
		return err
	}
	vault.TargetPortfolio = target

	net, err := k.accumulateVaultDeltas(ctx, *vault)
	if err != nil {
		return err
	}
	vault.PlannedCashDelta = net.Neg()
	return nil
}

// targetPortfolio sizes the vault's intent against totalAssetsForDeposit.
// Decommissioning vaults target empty (full drain); draining assets are
// excluded, their weight staying in cash until the curator re-submits.
func (k Keeper) targetPortfolio(ctx context.Context, vault types.Vault) ([]types.AssetHolding, error) {
	if vault.Decommissioning || len(vault.Intent) == 0 {
		return nil, nil
	}
	var target []types.AssetHolding
	for _, wa := range vault.Intent {
		if k.IsAssetDraining(ctx, wa.Denom) {
			continue
		}
		targetValue := wa.Weight.Mul(vault.TotalAssetsForDeposit).QuoRaw(types.IntentScale)
		if !targetValue.IsPositive() {
			continue
		}
		price, err := k.priceAdapter.Quote(ctx, wa.Denom)
		if err != nil {
			return nil, types.ErrInvalidPrice.Wrapf("%s: %s", wa.Denom, err)
		}
		if price.IsNil() || !price.IsPositive() {
			return nil, types.ErrInvalidPrice.Wrapf("%s: quote %s", wa.Denom, price)
		}
		amount := math.LegacyNewDecFromInt(targetValue).Quo(price).TruncateInt()
		if amount.IsZero() {
			continue
		}
		target = append(target, types.AssetHolding{Denom: wa.Denom, Amount: amount})
	}
	return target, nil
}

// finalizeOrders persists the epoch's netted book and advances the epoch
// counter, returning the machine to idle.
func (k Keeper) finalizeOrders(ctx context.Context, es types.EpochState, targetEpoch uint64) (types.EpochState, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	book := k.BuildOrderBook(ctx, targetEpoch)
	k.SetOrderBook(ctx, book)

	es.Counter = targetEpoch
	es.Phase = types.PhaseIdle
	es.Cursor = 0

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeOrdersBuilt,
			sdk.NewAttribute(types.AttributeKeyEpoch, fmt.Sprintf("%d", targetEpoch)),
			sdk.NewAttribute(types.AttributeKeyBuys, fmt.Sprintf("%d", len(book.Buys))),
			sdk.NewAttribute(types.AttributeKeySells, fmt.Sprintf("%d", len(book.Sells))),
		),
	)
	moduleMetrics().EpochsTotal.Inc()
	moduleMetrics().OrdersBuilt.Add(float64(len(book.Buys) + len(book.Sells)))

	return es, nil
}

func epochDuration(params types.Params) time.Duration {
	return time.Duration(params.EpochDurationSeconds) * time.Second
}
