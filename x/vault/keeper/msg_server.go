package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/folio-chain/folio/x/vault/types"
)

type msgServer struct {
	*Keeper
}

// NewMsgServerImpl returns an implementation of the vault MsgServer interface
func NewMsgServerImpl(keeper *Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ types.MsgServer = msgServer{}

// CreateVault opens a vault for a whitelisted curator.
func (k msgServer) CreateVault(ctx context.Context, msg *types.MsgCreateVault) (*types.MsgCreateVaultResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	curator := sdk.MustAccAddressFromBech32(msg.Curator)
	if !k.IsCuratorWhitelisted(ctx, curator) {
		return nil, types.ErrCuratorNotWhitelisted.Wrapf("curator %s", msg.Curator)
	}
	if es := k.GetEpochState(ctx); es.Phase != types.PhaseIdle {
		return nil, types.ErrSystemNotIdle.Wrapf("phase %s", es.Phase)
	}

	vault := types.Vault{
		Curator:               msg.Curator,
		VaultType:             msg.VaultType,
		FeeModel:              msg.FeeModel,
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

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeVaultCreated,
			sdk.NewAttribute(types.AttributeKeyVaultID, fmt.Sprintf("%d", id)),
			sdk.NewAttribute(types.AttributeKeyCurator, msg.Curator),
		),
	)
	moduleMetrics().VaultsActive.Inc()
	return &types.MsgCreateVaultResponse{VaultId: id}, nil
}

// SubmitIntent replaces the vault's target allocation. Only legal while the
// epoch machine is idle so a mid-cycle computation never sees two intents.
func (k msgServer) SubmitIntent(ctx context.Context, msg *types.MsgSubmitIntent) (*types.MsgSubmitIntentResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	vault, err := k.GetVault(ctx, msg.VaultId)
	if err != nil {
		return nil, err
	}
	if vault.Curator != msg.Curator {
		return nil, types.ErrNotAuthorized.Wrapf("signer %s is not the curator", msg.Curator)
	}
	if vault.Decommissioned {
		return nil, types.ErrVaultDecommissioned.Wrapf("vault %d", vault.Id)
	}
	if vault.Decommissioning {
		return nil, types.ErrVaultDecommissioning.Wrapf("vault %d", vault.Id)
	}
	if es := k.GetEpochState(ctx); es.Phase != types.PhaseIdle {
		return nil, types.ErrSystemNotIdle.Wrapf("phase %s", es.Phase)
	}

	switch vault.VaultType {
	case types.VaultTypeTransparent:
		if len(msg.Weights) == 0 {
			return nil, types.ErrInvalidWeights.Wrap("transparent vault requires clear weights")
		}
		for _, wa := range msg.Weights {
			if !k.IsAssetWhitelisted(ctx, wa.Denom) {
				return nil, types.ErrAssetNotWhitelisted.Wrapf("asset %s", wa.Denom)
			}
		}
		vault.Intent = msg.Weights
		vault.EncryptedIntent = nil
	case types.VaultTypeEncrypted:
		if len(msg.Ciphertext) == 0 {
			return nil, types.ErrInvalidWeights.Wrap("encrypted vault requires ciphertext")
		}
		vault.EncryptedIntent = msg.Ciphertext
		vault.Intent = nil
	}
	k.SetVault(ctx, vault)

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeIntentSubmitted,
			sdk.NewAttribute(types.AttributeKeyVaultID, fmt.Sprintf("%d", vault.Id)),
			sdk.NewAttribute(types.AttributeKeyCurator, msg.Curator),
		),
	)
	return &types.MsgSubmitIntentResponse{}, nil
}

// RequestDeposit escrows the underlying and queues the request. The request
// settles at the end of the next epoch that captures it.
func (k msgServer) RequestDeposit(ctx context.Context, msg *types.MsgRequestDeposit) (*types.MsgRequestDepositResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	vault, err := k.GetVault(ctx, msg.VaultId)
	if err != nil {
		return nil, err
	}
	if vault.Decommissioned {
		return nil, types.ErrVaultDecommissioned.Wrapf("vault %d", vault.Id)
	}
	if vault.Decommissioning {
		return nil, types.ErrVaultDecommissioning.Wrapf("vault %d accepts no new deposits", vault.Id)
	}
	depositor := sdk.MustAccAddressFromBech32(msg.Depositor)
	if _, found := k.GetPendingDeposit(ctx, msg.VaultId, depositor); found {
		return nil, types.ErrDuplicateRequest.Wrapf("depositor %s already queued in vault %d", msg.Depositor, vault.Id)
	}

	params := k.GetParams(ctx)
	coins := sdk.NewCoins(sdk.NewCoin(params.UnderlyingDenom, msg.Amount))
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, depositor, types.ModuleName, coins); err != nil {
		return nil, types.ErrInsufficientFunds.Wrapf("deposit escrow: %s", err)
	}

	k.SetPendingDeposit(ctx, types.PendingDeposit{
		VaultId:   msg.VaultId,
		Depositor: msg.Depositor,
		Amount:    msg.Amount,
	})
	vault.PendingDepositTotal = vault.PendingDepositTotal.Add(msg.Amount)
	k.SetVault(ctx, vault)

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeDepositRequested,
			sdk.NewAttribute(types.AttributeKeyVaultID, fmt.Sprintf("%d", vault.Id)),
			sdk.NewAttribute(types.AttributeKeyDepositor, msg.Depositor),
			sdk.NewAttribute(types.AttributeKeyAmount, msg.Amount.String()),
		),
	)
	return &types.MsgRequestDepositResponse{Amount: msg.Amount}, nil
}

// RequestRedeem escrows the shares out of the owner's balance and queues the
// request.
func (k msgServer) RequestRedeem(ctx context.Context, msg *types.MsgRequestRedeem) (*types.MsgRequestRedeemResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	vault, err := k.GetVault(ctx, msg.VaultId)
	if err != nil {
		return nil, err
	}
	if vault.Decommissioned {
		return nil, types.ErrVaultDecommissioned.Wrapf("vault %d", vault.Id)
	}
	owner := sdk.MustAccAddressFromBech32(msg.Owner)
	if _, found := k.GetPendingRedeem(ctx, msg.VaultId, owner); found {
		return nil, types.ErrDuplicateRequest.Wrapf("owner %s already queued in vault %d", msg.Owner, vault.Id)
	}
	balance := k.GetShareBalance(ctx, msg.VaultId, owner)
	if balance.LT(msg.Shares) {
		return nil, types.ErrInsufficientShares.Wrapf("balance %s, requested %s", balance, msg.Shares)
	}

	k.SetShareBalance(ctx, msg.VaultId, owner, balance.Sub(msg.Shares))
	k.SetPendingRedeem(ctx, types.PendingRedeem{
		VaultId: msg.VaultId,
		Owner:   msg.Owner,
		Shares:  msg.Shares,
	})
	vault.PendingRedeemTotal = vault.PendingRedeemTotal.Add(msg.Shares)
	k.SetVault(ctx, vault)

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRedeemRequested,
			sdk.NewAttribute(types.AttributeKeyVaultID, fmt.Sprintf("%d", vault.Id)),
			sdk.NewAttribute(types.AttributeKeyOwner, msg.Owner),
			sdk.NewAttribute(types.AttributeKeyShares, msg.Shares.String()),
		),
	)
	return &types.MsgRequestRedeemResponse{Shares: msg.Shares}, nil
}

// CancelDeposit refunds a still-uncaptured deposit request.
func (k msgServer) CancelDeposit(ctx context.Context, msg *types.MsgCancelDeposit) (*types.MsgCancelDepositResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	depositor := sdk.MustAccAddressFromBech32(msg.Depositor)
	pd, found := k.GetPendingDeposit(ctx, msg.VaultId, depositor)
	if !found {
		return nil, types.ErrRequestNotFound.Wrapf("no pending deposit for %s in vault %d", msg.Depositor, msg.VaultId)
	}
	if es := k.GetEpochState(ctx); es.Phase != types.PhaseIdle {
		return nil, types.ErrSystemNotIdle.Wrapf("phase %s", es.Phase)
	}
	if pd.Epoch != 0 {
		return nil, types.ErrSystemNotIdle.Wrapf("request captured for epoch %d", pd.Epoch)
	}
	vault, err := k.GetVault(ctx, msg.VaultId)
	if err != nil {
		return nil, err
	}

	params := k.GetParams(ctx)
	coins := sdk.NewCoins(sdk.NewCoin(params.UnderlyingDenom, pd.Amount))
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, depositor, coins); err != nil {
		return nil, types.ErrInsufficientFunds.Wrapf("deposit refund: %s", err)
	}
	k.DeletePendingDeposit(ctx, msg.VaultId, depositor)
	vault.PendingDepositTotal = vault.PendingDepositTotal.Sub(pd.Amount)
	k.SetVault(ctx, vault)

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRequestCancelled,
			sdk.NewAttribute(types.AttributeKeyVaultID, fmt.Sprintf("%d", vault.Id)),
			sdk.NewAttribute(types.AttributeKeyDepositor, msg.Depositor),
			sdk.NewAttribute(types.AttributeKeyAmount, pd.Amount.String()),
		),
	)
	return &types.MsgCancelDepositResponse{Refunded: pd.Amount}, nil
}

// CancelRedeem restores the shares of a still-uncaptured redeem request.
func (k msgServer) CancelRedeem(ctx context.Context, msg *types.MsgCancelRedeem) (*types.MsgCancelRedeemResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	owner := sdk.MustAccAddressFromBech32(msg.Owner)
	pr, found := k.GetPendingRedeem(ctx, msg.VaultId, owner)
	if !found {
		return nil, types.ErrRequestNotFound.Wrapf("no pending redeem for %s in vault %d", msg.Owner, msg.VaultId)
	}
	if es := k.GetEpochState(ctx); es.Phase != types.PhaseIdle {
		return nil, types.ErrSystemNotIdle.Wrapf("phase %s", es.Phase)
	}
	if pr.Epoch != 0 {
		return nil, types.ErrSystemNotIdle.Wrapf("request captured for epoch %d", pr.Epoch)
	}
	vault, err := k.GetVault(ctx, msg.VaultId)
	if err != nil {
		return nil, err
	}

	balance := k.GetShareBalance(ctx, msg.VaultId, owner)
	k.SetShareBalance(ctx, msg.VaultId, owner, balance.Add(pr.Shares))
	k.DeletePendingRedeem(ctx, msg.VaultId, owner)
	vault.PendingRedeemTotal = vault.PendingRedeemTotal.Sub(pr.Shares)
	k.SetVault(ctx, vault)

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRequestCancelled,
			sdk.NewAttribute(types.AttributeKeyVaultID, fmt.Sprintf("%d", vault.Id)),
			sdk.NewAttribute(types.AttributeKeyOwner, msg.Owner),
			sdk.NewAttribute(types.AttributeKeyShares, pr.Shares.String()),
		),
	)
	return &types.MsgCancelRedeemResponse{Restored: pr.Shares}, nil
}

// DecommissionVault blocks new inflows and refunds queued deposits. Requires
// a fully settled idle system so no captured request is stranded.
func (k msgServer) DecommissionVault(ctx context.Context, msg *types.MsgDecommissionVault) (*types.MsgDecommissionVaultResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	vault, err := k.GetVault(ctx, msg.VaultId)
	if err != nil {
		return nil, err
	}
	if msg.Signer != vault.Curator && msg.Signer != k.GetAuthority() {
		return nil, types.ErrNotAuthorized.Wrapf("signer %s is neither curator nor authority", msg.Signer)
	}
	if vault.Decommissioned {
		return nil, types.ErrVaultDecommissioned.Wrapf("vault %d", vault.Id)
	}
	if vault.Decommissioning {
		return nil, types.ErrVaultDecommissioning.Wrapf("vault %d already winding down", vault.Id)
	}
	es := k.GetEpochState(ctx)
	if es.Phase != types.PhaseIdle || es.LastProcessedEpoch < es.Counter {
		return nil, types.ErrSystemNotIdle.Wrapf("phase %s, epoch %d pending", es.Phase, es.Counter)
	}

	params := k.GetParams(ctx)
	var refundErr error
	k.IteratePendingDeposits(ctx, msg.VaultId, func(pd types.PendingDeposit) bool {
		depositor := sdk.MustAccAddressFromBech32(pd.Depositor)
		coins := sdk.NewCoins(sdk.NewCoin(params.UnderlyingDenom, pd.Amount))
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, depositor, coins); err != nil {
			refundErr = types.ErrInsufficientFunds.Wrapf("deposit refund: %s", err)
			return true
		}
		k.DeletePendingDeposit(ctx, msg.VaultId, depositor)
		vault.PendingDepositTotal = vault.PendingDepositTotal.Sub(pd.Amount)
		return false
	})
	if refundErr != nil {
		return nil, refundErr
	}

	vault.Decommissioning = true
	vault.Intent = nil
	vault.EncryptedIntent = nil
	k.SetVault(ctx, vault)

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeVaultDecommission,
			sdk.NewAttribute(types.AttributeKeyVaultID, fmt.Sprintf("%d", vault.Id)),
		),
	)
	moduleMetrics().VaultsActive.Dec()
	return &types.MsgDecommissionVaultResponse{}, nil
}

// PerformStatesUpkeep advances the states orchestrator by one minibatch.
func (k msgServer) PerformStatesUpkeep(ctx context.Context, msg *types.MsgPerformStatesUpkeep) (*types.MsgPerformStatesUpkeepResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	es, err := k.Keeper.PerformStatesUpkeep(ctx, msg.Performer, msg.Action)
	if err != nil {
		return nil, err
	}
	return &types.MsgPerformStatesUpkeepResponse{
		Phase:  es.Phase,
		Cursor: es.Cursor,
		Epoch:  es.Counter,
	}, nil
}

// PerformLiquidityUpkeep executes the current epoch's order book.
func (k msgServer) PerformLiquidityUpkeep(ctx context.Context, msg *types.MsgPerformLiquidityUpkeep) (*types.MsgPerformLiquidityUpkeepResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	executed, epoch, err := k.Keeper.PerformLiquidityUpkeep(ctx, msg.Performer)
	if err != nil {
		return nil, err
	}
	return &types.MsgPerformLiquidityUpkeepResponse{Executed: executed, Epoch: epoch}, nil
}

// UpdateParams replaces the module parameters.
func (k msgServer) UpdateParams(ctx context.Context, msg *types.MsgUpdateParams) (*types.MsgUpdateParamsResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if msg.Authority != k.GetAuthority() {
		return nil, types.ErrNotAuthorized.Wrapf("expected authority %s, got %s", k.GetAuthority(), msg.Authority)
	}
	if err := k.SetParams(ctx, msg.Params); err != nil {
		return nil, err
	}
	return &types.MsgUpdateParamsResponse{}, nil
}

// ListAsset adds an asset to the whitelist or re-activates a draining one.
func (k msgServer) ListAsset(ctx context.Context, msg *types.MsgListAsset) (*types.MsgListAssetResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if msg.Authority != k.GetAuthority() {
		return nil, types.ErrNotAuthorized.Wrapf("expected authority %s, got %s", k.GetAuthority(), msg.Authority)
	}
	k.SetAssetListing(ctx, types.AssetListing{Denom: msg.Denom})

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeAssetListed,
			sdk.NewAttribute(types.AttributeKeyDenom, msg.Denom),
		),
	)
	return &types.MsgListAssetResponse{}, nil
}

// DelistAsset flips a listed asset to draining. Existing exposure is sold
// off by subsequent epochs; new intents may no longer reference it.
func (k msgServer) DelistAsset(ctx context.Context, msg *types.MsgDelistAsset) (*types.MsgDelistAssetResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if msg.Authority != k.GetAuthority() {
		return nil, types.ErrNotAuthorized.Wrapf("expected authority %s, got %s", k.GetAuthority(), msg.Authority)
	}
	listing, found := k.GetAssetListing(ctx, msg.Denom)
	if !found {
		return nil, types.ErrAssetNotWhitelisted.Wrapf("asset %s", msg.Denom)
	}
	listing.Draining = true
	k.SetAssetListing(ctx, listing)

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeAssetDelisted,
			sdk.NewAttribute(types.AttributeKeyDenom, msg.Denom),
		),
	)
	return &types.MsgDelistAssetResponse{}, nil
}

// SetCurator grants or revokes vault-creation rights.
func (k msgServer) SetCurator(ctx context.Context, msg *types.MsgSetCurator) (*types.MsgSetCuratorResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if msg.Authority != k.GetAuthority() {
		return nil, types.ErrNotAuthorized.Wrapf("expected authority %s, got %s", k.GetAuthority(), msg.Authority)
	}
	curator := sdk.MustAccAddressFromBech32(msg.Curator)
	k.SetCuratorWhitelisted(ctx, curator, msg.Allowed)

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeCuratorSet,
			sdk.NewAttribute(types.AttributeKeyCurator, msg.Curator),
			sdk.NewAttribute(types.AttributeKeyAllowed, fmt.Sprintf("%t", msg.Allowed)),
		),
	)
	return &types.MsgSetCuratorResponse{}, nil
}

// WithdrawFees pays out the signer's accrued fee claim.
func (k msgServer) WithdrawFees(ctx context.Context, msg *types.MsgWithdrawFees) (*types.MsgWithdrawFeesResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	curator := sdk.MustAccAddressFromBech32(msg.Curator)
	amount := k.GetFeeBalance(ctx, curator)
	if !amount.IsPositive() {
		return nil, types.ErrInsufficientFunds.Wrapf("no accrued fees for %s", msg.Curator)
	}

	params := k.GetParams(ctx)
	coins := sdk.NewCoins(sdk.NewCoin(params.UnderlyingDenom, amount))
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, curator, coins); err != nil {
		return nil, types.ErrInsufficientFunds.Wrapf("fee payout: %s", err)
	}
	k.clearFeeBalance(ctx, curator)

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeFeesWithdrawn,
			sdk.NewAttribute(types.AttributeKeyCurator, msg.Curator),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		),
	)
	return &types.MsgWithdrawFeesResponse{Amount: amount}, nil
}
