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

func defaultFeeModel() types.FeeModel {
	return types.FeeModel{
		Kind:              types.FeeModelAbsolute,
		PerformanceFeeBps: 1000,
		ManagementFeeBps:  100,
		HighWaterMark:     math.LegacyOneDec(),
	}
}

// setupMsgServer whitelists the test curator so vault creation succeeds.
func setupMsgServer(t *testing.T) (types.MsgServer, *keeper.Keeper, sdk.Context, *testkeeper.Mocks) {
	t.Helper()
	k, ctx, mocks := setupTest(t)
	k.SetCuratorWhitelisted(ctx, curatorAddr, true)
	return keeper.NewMsgServerImpl(k), k, ctx, mocks
}

func createTestVault(t *testing.T, srv types.MsgServer, ctx sdk.Context) uint64 {
	t.Helper()
	resp, err := srv.CreateVault(ctx, types.NewMsgCreateVault(curatorAddr.String(), types.VaultTypeTransparent, defaultFeeModel()))
	require.NoError(t, err)
	return resp.VaultId
}

func TestCreateVaultCuratorGate(t *testing.T) {
	srv, k, ctx, _ := setupMsgServer(t)

	msg := types.NewMsgCreateVault(ownerAddr.String(), types.VaultTypeTransparent, defaultFeeModel())
	_, err := srv.CreateVault(ctx, msg)
	require.ErrorIs(t, err, types.ErrCuratorNotWhitelisted)

	k.SetCuratorWhitelisted(ctx, ownerAddr, true)
	resp, err := srv.CreateVault(ctx, msg)
	require.NoError(t, err)

	vault, err := k.GetVault(ctx, resp.VaultId)
	require.NoError(t, err)
	require.Equal(t, ownerAddr.String(), vault.Curator)
	require.True(t, vault.TotalSupply.IsZero())

	// Revocation closes the door again.
	k.SetCuratorWhitelisted(ctx, ownerAddr, false)
	_, err = srv.CreateVault(ctx, msg)
	require.ErrorIs(t, err, types.ErrCuratorNotWhitelisted)
}

func TestCreateVaultRequiresIdle(t *testing.T) {
	srv, k, ctx, _ := setupMsgServer(t)

	_, err := k.PerformStatesUpkeep(ctx, autoAddr.String(), types.ActionPreprocessTransparentVaults)
	require.NoError(t, err)

	_, err = srv.CreateVault(ctx, types.NewMsgCreateVault(curatorAddr.String(), types.VaultTypeTransparent, defaultFeeModel()))
	require.ErrorIs(t, err, types.ErrSystemNotIdle)
}

func TestSubmitIntentChecks(t *testing.T) {
	srv, k, ctx, _ := setupMsgServer(t)
	id := createTestVault(t, srv, ctx)

	weights := []types.WeightedAsset{{Denom: "uatom", Weight: math.NewInt(types.IntentScale)}}

	// Only the vault's curator may steer it.
	_, err := srv.SubmitIntent(ctx, types.NewMsgSubmitIntent(ownerAddr.String(), id, weights))
	require.ErrorIs(t, err, types.ErrNotAuthorized)

	// Unlisted assets are rejected before anything persists.
	_, err = srv.SubmitIntent(ctx, types.NewMsgSubmitIntent(curatorAddr.String(), id, []types.WeightedAsset{
		{Denom: "ujuno", Weight: math.NewInt(types.IntentScale)},
	}))
	require.ErrorIs(t, err, types.ErrAssetNotWhitelisted)

	_, err = srv.SubmitIntent(ctx, types.NewMsgSubmitIntent(curatorAddr.String(), id, weights))
	require.NoError(t, err)
	vault, err := k.GetVault(ctx, id)
	require.NoError(t, err)
	require.Len(t, vault.Intent, 1)

	// Mid-cycle resubmission is rejected so a computation sees one intent.
	_, err = k.PerformStatesUpkeep(ctx, autoAddr.String(), types.ActionPreprocessTransparentVaults)
	require.NoError(t, err)
	_, err = srv.SubmitIntent(ctx, types.NewMsgSubmitIntent(curatorAddr.String(), id, weights))
	require.ErrorIs(t, err, types.ErrSystemNotIdle)
}

func TestRequestDepositEscrow(t *testing.T) {
	srv, k, ctx, mocks := setupMsgServer(t)
	params := k.GetParams(ctx)
	id := createTestVault(t, srv, ctx)

	// Without funds the escrow transfer fails.
	_, err := srv.RequestDeposit(ctx, types.NewMsgRequestDeposit(depositorAddr.String(), id, math.NewInt(500)))
	require.ErrorIs(t, err, types.ErrInsufficientFunds)

	mocks.Bank.Fund(depositorAddr.String(), params.UnderlyingDenom, math.NewInt(1_000))
	_, err = srv.RequestDeposit(ctx, types.NewMsgRequestDeposit(depositorAddr.String(), id, math.NewInt(500)))
	require.NoError(t, err)

	require.Equal(t, math.NewInt(500), mocks.Bank.GetBalance(ctx, depositorAddr, params.UnderlyingDenom).Amount)
	vault, err := k.GetVault(ctx, id)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(500), vault.PendingDepositTotal)

	// One live request per depositor per vault.
	_, err = srv.RequestDeposit(ctx, types.NewMsgRequestDeposit(depositorAddr.String(), id, math.NewInt(100)))
	require.ErrorIs(t, err, types.ErrDuplicateRequest)
}

func TestRequestRedeemEscrowsShares(t *testing.T) {
	srv, k, ctx, _ := setupMsgServer(t)
	id := createTestVault(t, srv, ctx)

	_, err := srv.RequestRedeem(ctx, types.NewMsgRequestRedeem(ownerAddr.String(), id, math.NewInt(100)))
	require.ErrorIs(t, err, types.ErrInsufficientShares)

	k.SetShareBalance(ctx, id, ownerAddr, math.NewInt(250))
	_, err = srv.RequestRedeem(ctx, types.NewMsgRequestRedeem(ownerAddr.String(), id, math.NewInt(100)))
	require.NoError(t, err)

	require.Equal(t, math.NewInt(150), k.GetShareBalance(ctx, id, ownerAddr))
	vault, err := k.GetVault(ctx, id)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(100), vault.PendingRedeemTotal)

	_, err = srv.RequestRedeem(ctx, types.NewMsgRequestRedeem(ownerAddr.String(), id, math.NewInt(50)))
	require.ErrorIs(t, err, types.ErrDuplicateRequest)
}

func TestCancelDeposit(t *testing.T) {
	srv, k, ctx, mocks := setupMsgServer(t)
	params := k.GetParams(ctx)
	id := createTestVault(t, srv, ctx)

	_, err := srv.CancelDeposit(ctx, &types.MsgCancelDeposit{Depositor: depositorAddr.String(), VaultId: id})
	require.ErrorIs(t, err, types.ErrRequestNotFound)

	mocks.Bank.Fund(depositorAddr.String(), params.UnderlyingDenom, math.NewInt(500))
	_, err = srv.RequestDeposit(ctx, types.NewMsgRequestDeposit(depositorAddr.String(), id, math.NewInt(500)))
	require.NoError(t, err)

	resp, err := srv.CancelDeposit(ctx, &types.MsgCancelDeposit{Depositor: depositorAddr.String(), VaultId: id})
	require.NoError(t, err)
	require.Equal(t, math.NewInt(500), resp.Refunded)
	require.Equal(t, math.NewInt(500), mocks.Bank.GetBalance(ctx, depositorAddr, params.UnderlyingDenom).Amount)

	vault, err := k.GetVault(ctx, id)
	require.NoError(t, err)
	require.True(t, vault.PendingDepositTotal.IsZero())
}

func TestCancelDepositCapturedRequest(t *testing.T) {
	srv, k, ctx, mocks := setupMsgServer(t)
	params := k.GetParams(ctx)
	id := createTestVault(t, srv, ctx)

	mocks.Bank.Fund(depositorAddr.String(), params.UnderlyingDenom, math.NewInt(500))
	_, err := srv.RequestDeposit(ctx, types.NewMsgRequestDeposit(depositorAddr.String(), id, math.NewInt(500)))
	require.NoError(t, err)

	// Once the epoch starts the request is frozen until settlement.
	_, err = k.PerformStatesUpkeep(ctx, autoAddr.String(), types.ActionPreprocessTransparentVaults)
	require.NoError(t, err)
	_, err = srv.CancelDeposit(ctx, &types.MsgCancelDeposit{Depositor: depositorAddr.String(), VaultId: id})
	require.ErrorIs(t, err, types.ErrSystemNotIdle)

	// Captured requests stay uncancellable even once the machine idles:
	// they belong to the epoch awaiting execution.
	runStatesCycle(t, k, ctx)
	_, err = srv.CancelDeposit(ctx, &types.MsgCancelDeposit{Depositor: depositorAddr.String(), VaultId: id})
	require.ErrorIs(t, err, types.ErrSystemNotIdle)
}

func TestCancelRedeem(t *testing.T) {
	srv, k, ctx, _ := setupMsgServer(t)
	id := createTestVault(t, srv, ctx)

	_, err := srv.CancelRedeem(ctx, &types.MsgCancelRedeem{Owner: ownerAddr.String(), VaultId: id})
	require.ErrorIs(t, err, types.ErrRequestNotFound)

	k.SetShareBalance(ctx, id, ownerAddr, math.NewInt(250))
	_, err = srv.RequestRedeem(ctx, types.NewMsgRequestRedeem(ownerAddr.String(), id, math.NewInt(100)))
	require.NoError(t, err)

	resp, err := srv.CancelRedeem(ctx, &types.MsgCancelRedeem{Owner: ownerAddr.String(), VaultId: id})
	require.NoError(t, err)
	require.Equal(t, math.NewInt(100), resp.Restored)
	require.Equal(t, math.NewInt(250), k.GetShareBalance(ctx, id, ownerAddr))
}

func TestDecommissionVault(t *testing.T) {
	srv, k, ctx, mocks := setupMsgServer(t)
	params := k.GetParams(ctx)
	id := createTestVault(t, srv, ctx)

	mocks.Bank.Fund(depositorAddr.String(), params.UnderlyingDenom, math.NewInt(500))
	_, err := srv.RequestDeposit(ctx, types.NewMsgRequestDeposit(depositorAddr.String(), id, math.NewInt(500)))
	require.NoError(t, err)

	// A stranger may not wind the vault down.
	_, err = srv.DecommissionVault(ctx, &types.MsgDecommissionVault{Signer: ownerAddr.String(), VaultId: id})
	require.ErrorIs(t, err, types.ErrNotAuthorized)

	_, err = srv.DecommissionVault(ctx, &types.MsgDecommissionVault{Signer: curatorAddr.String(), VaultId: id})
	require.NoError(t, err)

	vault, err := k.GetVault(ctx, id)
	require.NoError(t, err)
	require.True(t, vault.Decommissioning)
	require.Nil(t, vault.Intent)

	// Queued deposits were refunded, not stranded.
	require.Equal(t, math.NewInt(500), mocks.Bank.GetBalance(ctx, depositorAddr, params.UnderlyingDenom).Amount)
	require.True(t, vault.PendingDepositTotal.IsZero())

	// Winding down twice is an error, as are new inflows.
	_, err = srv.DecommissionVault(ctx, &types.MsgDecommissionVault{Signer: curatorAddr.String(), VaultId: id})
	require.ErrorIs(t, err, types.ErrVaultDecommissioning)
	_, err = srv.RequestDeposit(ctx, types.NewMsgRequestDeposit(depositorAddr.String(), id, math.NewInt(100)))
	require.ErrorIs(t, err, types.ErrVaultDecommissioning)
	_, err = srv.SubmitIntent(ctx, types.NewMsgSubmitIntent(curatorAddr.String(), id, []types.WeightedAsset{
		{Denom: "uatom", Weight: math.NewInt(types.IntentScale)},
	}))
	require.ErrorIs(t, err, types.ErrVaultDecommissioning)
}

func TestDecommissionVaultRequiresSettledEpoch(t *testing.T) {
	srv, k, ctx, _ := setupMsgServer(t)
	id := createTestVault(t, srv, ctx)

	// An epoch has been computed but not executed: decommission must wait.
	runStatesCycle(t, k, ctx)
	_, err := srv.DecommissionVault(ctx, &types.MsgDecommissionVault{Signer: curatorAddr.String(), VaultId: id})
	require.ErrorIs(t, err, types.ErrSystemNotIdle)

	_, _, err = k.PerformLiquidityUpkeep(ctx, autoAddr.String())
	require.NoError(t, err)
	_, err = srv.DecommissionVault(ctx, &types.MsgDecommissionVault{Signer: curatorAddr.String(), VaultId: id})
	require.NoError(t, err)
}

func TestAuthorityGates(t *testing.T) {
	srv, k, ctx, _ := setupMsgServer(t)

	_, err := srv.UpdateParams(ctx, &types.MsgUpdateParams{Authority: curatorAddr.String(), Params: types.DefaultParams()})
	require.ErrorIs(t, err, types.ErrNotAuthorized)

	_, err = srv.ListAsset(ctx, &types.MsgListAsset{Authority: curatorAddr.String(), Denom: "ujuno"})
	require.ErrorIs(t, err, types.ErrNotAuthorized)

	_, err = srv.DelistAsset(ctx, &types.MsgDelistAsset{Authority: curatorAddr.String(), Denom: "uatom"})
	require.ErrorIs(t, err, types.ErrNotAuthorized)

	_, err = srv.SetCurator(ctx, &types.MsgSetCurator{Authority: curatorAddr.String(), Curator: ownerAddr.String(), Allowed: true})
	require.ErrorIs(t, err, types.ErrNotAuthorized)

	authority := k.GetAuthority()
	_, err = srv.ListAsset(ctx, &types.MsgListAsset{Authority: authority, Denom: "ujuno"})
	require.NoError(t, err)
	require.True(t, k.IsAssetWhitelisted(ctx, "ujuno"))

	_, err = srv.DelistAsset(ctx, &types.MsgDelistAsset{Authority: authority, Denom: "ujuno"})
	require.NoError(t, err)
	listing, found := k.GetAssetListing(ctx, "ujuno")
	require.True(t, found)
	require.True(t, listing.Draining)

	// Delisting something never listed is an error, not a silent create.
	_, err = srv.DelistAsset(ctx, &types.MsgDelistAsset{Authority: authority, Denom: "unknown"})
	require.ErrorIs(t, err, types.ErrAssetNotWhitelisted)
}

func TestWithdrawFees(t *testing.T) {
	srv, k, ctx, mocks := setupMsgServer(t)
	params := k.GetParams(ctx)

	_, err := srv.WithdrawFees(ctx, &types.MsgWithdrawFees{Curator: curatorAddr.String()})
	require.ErrorIs(t, err, types.ErrInsufficientFunds)

	k.AddFeeBalance(ctx, curatorAddr, math.NewInt(12_345))
	mocks.Bank.Fund(types.ModuleName, params.UnderlyingDenom, math.NewInt(12_345))

	resp, err := srv.WithdrawFees(ctx, &types.MsgWithdrawFees{Curator: curatorAddr.String()})
	require.NoError(t, err)
	require.Equal(t, math.NewInt(12_345), resp.Amount)
	require.Equal(t, math.NewInt(12_345), mocks.Bank.GetBalance(ctx, curatorAddr, params.UnderlyingDenom).Amount)
	require.True(t, k.GetFeeBalance(ctx, curatorAddr).IsZero())

	// The claim is spent; a second withdrawal has nothing to pay.
	_, err = srv.WithdrawFees(ctx, &types.MsgWithdrawFees{Curator: curatorAddr.String()})
	require.ErrorIs(t, err, types.ErrInsufficientFunds)
}

func TestUpkeepMessages(t *testing.T) {
	srv, _, ctx, _ := setupMsgServer(t)

	resp, err := srv.PerformStatesUpkeep(ctx, types.NewMsgPerformStatesUpkeep(autoAddr.String(), types.ActionPreprocessTransparentVaults))
	require.NoError(t, err)
	require.Equal(t, types.PhasePreprocessingEncryptedVaults, resp.Phase)

	_, err = srv.PerformLiquidityUpkeep(ctx, &types.MsgPerformLiquidityUpkeep{Performer: autoAddr.String()})
	require.ErrorIs(t, err, types.ErrInvalidState)
}
