package keeper

import (
	"context"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/folio-chain/folio/x/vault/types"
)

// InitGenesis initializes the vault module state from a genesis state
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) {
	if err := k.SetParams(ctx, genState.Params); err != nil {
		panic(err)
	}
	k.SetEpochState(ctx, genState.EpochState)
	k.SetNextVaultID(ctx, genState.NextVaultId)

	for _, vault := range genState.Vaults {
		k.SetVault(ctx, vault)
	}
	for _, listing := range genState.AssetListings {
		k.SetAssetListing(ctx, listing)
	}
	for _, curator := range genState.Curators {
		k.SetCuratorWhitelisted(ctx, sdk.MustAccAddressFromBech32(curator), true)
	}
	for _, sb := range genState.ShareBalances {
		k.SetShareBalance(ctx, sb.VaultId, sdk.MustAccAddressFromBech32(sb.Address), sb.Balance)
	}
	for _, pd := range genState.PendingDeposits {
		k.SetPendingDeposit(ctx, pd)
	}
	for _, pr := range genState.PendingRedeems {
		k.SetPendingRedeem(ctx, pr)
	}
}

// ExportGenesis returns the vault module's exported genesis state
func (k Keeper) ExportGenesis(ctx context.Context) *types.GenesisState {
	genState := &types.GenesisState{
		Params:      k.GetParams(ctx),
		EpochState:  k.GetEpochState(ctx),
		NextVaultId: k.GetNextVaultID(ctx),
		Vaults:      k.GetAllVaults(ctx),
	}
	genState.AssetListings = k.GetAllAssetListings(ctx)

	store := k.getStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, types.CuratorKey)
	defer iterator.Close()
	for ; iterator.Valid(); iterator.Next() {
		curator := sdk.AccAddress(iterator.Key()[len(types.CuratorKey):])
		genState.Curators = append(genState.Curators, curator.String())
	}

	k.IterateShareBalances(ctx, func(vaultID uint64, holder sdk.AccAddress, balance math.Int) bool {
		genState.ShareBalances = append(genState.ShareBalances, types.ShareBalance{
			VaultId: vaultID,
			Address: holder.String(),
			Balance: balance,
		})
		return false
	})

	for _, vault := range genState.Vaults {
		k.IteratePendingDeposits(ctx, vault.Id, func(pd types.PendingDeposit) bool {
			genState.PendingDeposits = append(genState.PendingDeposits, pd)
			return false
		})
		k.IteratePendingRedeems(ctx, vault.Id, func(pr types.PendingRedeem) bool {
			genState.PendingRedeems = append(genState.PendingRedeems, pr)
			return false
		})
	}
	return genState
}
