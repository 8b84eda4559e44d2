package keeper

import (
	"context"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/folio-chain/folio/x/vault/types"
)

// GetVault retrieves a vault record by id
func (k Keeper) GetVault(ctx context.Context, vaultID uint64) (types.Vault, error) {
	store := k.getStore(ctx)
	bz := store.Get(types.GetVaultKey(vaultID))
	if bz == nil {
		return types.Vault{}, types.ErrVaultNotFound.Wrapf("id %d", vaultID)
	}
	var vault types.Vault
	k.cdc.MustUnmarshal(bz, &vault)
	return vault, nil
}

// SetVault persists a vault record
func (k Keeper) SetVault(ctx context.Context, vault types.Vault) {
	store := k.getStore(ctx)
	store.Set(types.GetVaultKey(vault.Id), k.cdc.MustMarshal(&vault))
}

// GetNextVaultID returns the next unassigned vault id
func (k Keeper) GetNextVaultID(ctx context.Context) uint64 {
	store := k.getStore(ctx)
	bz := store.Get(types.VaultCountKey)
	if bz == nil {
		return 1
	}
	return sdk.BigEndianToUint64(bz)
}

// SetNextVaultID stores the next unassigned vault id
func (k Keeper) SetNextVaultID(ctx context.Context, id uint64) {
	store := k.getStore(ctx)
	store.Set(types.VaultCountKey, sdk.Uint64ToBigEndian(id))
}

// AppendVault assigns the next id to the vault and persists it
func (k Keeper) AppendVault(ctx context.Context, vault types.Vault) uint64 {
	id := k.GetNextVaultID(ctx)
	vault.Id = id
	k.SetVault(ctx, vault)
	k.SetNextVaultID(ctx, id+1)
	return id
}

// IterateVaults walks all vault records in id order. The callback returns
// true to stop.
func (k Keeper) IterateVaults(ctx context.Context, fn func(vault types.Vault) bool) {
	store := k.getStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, types.VaultKey)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var vault types.Vault
		k.cdc.MustUnmarshal(iterator.Value(), &vault)
		if fn(vault) {
			break
		}
	}
}

// GetAllVaults returns every vault record in id order
func (k Keeper) GetAllVaults(ctx context.Context) []types.Vault {
	var vaults []types.Vault
	k.IterateVaults(ctx, func(vault types.Vault) bool {
		vaults = append(vaults, vault)
		return false
	})
	return vaults
}

// ActiveVaultIDs returns the id-ordered list of vaults still participating
// in epochs, optionally filtered by vault type. The minibatch cursor indexes
// into this list.
func (k Keeper) ActiveVaultIDs(ctx context.Context, vaultType *types.VaultType) []uint64 {
	var ids []uint64
	k.IterateVaults(ctx, func(vault types.Vault) bool {
		if !vault.Active() {
			return false
		}
		if vaultType != nil && vault.VaultType != *vaultType {
			return false
		}
		ids = append(ids, vault.Id)
		return false
	})
	return ids
}

// GetShareBalance returns a holder's share balance in a vault
func (k Keeper) GetShareBalance(ctx context.Context, vaultID uint64, holder sdk.AccAddress) math.Int {
	store := k.getStore(ctx)
	bz := store.Get(types.GetShareBalanceKey(vaultID, holder))
	if bz == nil {
		return math.ZeroInt()
	}
	var balance math.Int
	if err := balance.Unmarshal(bz); err != nil {
		panic(err)
	}
	return balance
}

// SetShareBalance sets a holder's share balance, deleting the entry at zero
func (k Keeper) SetShareBalance(ctx context.Context, vaultID uint64, holder sdk.AccAddress, balance math.Int) {
	store := k.getStore(ctx)
	key := types.GetShareBalanceKey(vaultID, holder)
	if balance.IsZero() {
		store.Delete(key)
		return
	}
	bz, err := balance.Marshal()
	if err != nil {
		panic(err)
	}
	store.Set(key, bz)
}

// IterateShareBalances walks every holder position across all vaults. The
// callback returns true to stop.
func (k Keeper) IterateShareBalances(ctx context.Context, fn func(vaultID uint64, holder sdk.AccAddress, balance math.Int) bool) {
	store := k.getStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, types.ShareBalanceKey)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		suffix := iterator.Key()[len(types.ShareBalanceKey):]
		vaultID := sdk.BigEndianToUint64(suffix[:8])
		holder := sdk.AccAddress(suffix[8:])
		var balance math.Int
		if err := balance.Unmarshal(iterator.Value()); err != nil {
			panic(err)
		}
		if fn(vaultID, holder, balance) {
			break
		}
	}
}

// GetPendingDeposit returns a depositor's pending request, if any
func (k Keeper) GetPendingDeposit(ctx context.Context, vaultID uint64, depositor sdk.AccAddress) (types.PendingDeposit, bool) {
	store := k.getStore(ctx)
	bz := store.Get(types.GetPendingDepositKey(vaultID, depositor))
	if bz == nil {
		return types.PendingDeposit{}, false
	}
	var pd types.PendingDeposit
	k.cdc.MustUnmarshal(bz, &pd)
	return pd, true
}

// SetPendingDeposit persists a pending deposit request
func (k Keeper) SetPendingDeposit(ctx context.Context, pd types.PendingDeposit) {
	store := k.getStore(ctx)
	depositor := sdk.MustAccAddressFromBech32(pd.Depositor)
	store.Set(types.GetPendingDepositKey(pd.VaultId, depositor), k.cdc.MustMarshal(&pd))
}

// DeletePendingDeposit removes a pending deposit request
func (k Keeper) DeletePendingDeposit(ctx context.Context, vaultID uint64, depositor sdk.AccAddress) {
	store := k.getStore(ctx)
	store.Delete(types.GetPendingDepositKey(vaultID, depositor))
}

// IteratePendingDeposits walks a vault's pending deposits. The callback
// returns true to stop.
func (k Keeper) IteratePendingDeposits(ctx context.Context, vaultID uint64, fn func(pd types.PendingDeposit) bool) {
	store := k.getStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, types.GetPendingDepositPrefix(vaultID))
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var pd types.PendingDeposit
		k.cdc.MustUnmarshal(iterator.Value(), &pd)
		if fn(pd) {
			break
		}
	}
}

// GetPendingRedeem returns an owner's pending redeem request, if any
func (k Keeper) GetPendingRedeem(ctx context.Context, vaultID uint64, owner sdk.AccAddress) (types.PendingRedeem, bool) {
	store := k.getStore(ctx)
	bz := store.Get(types.GetPendingRedeemKey(vaultID, owner))
	if bz == nil {
		return types.PendingRedeem{}, false
	}
	var pr types.PendingRedeem
	k.cdc.MustUnmarshal(bz, &pr)
	return pr, true
}

// SetPendingRedeem persists a pending redeem request
func (k Keeper) SetPendingRedeem(ctx context.Context, pr types.PendingRedeem) {
	store := k.getStore(ctx)
	owner := sdk.MustAccAddressFromBech32(pr.Owner)
	store.Set(types.GetPendingRedeemKey(pr.VaultId, owner), k.cdc.MustMarshal(&pr))
}

// DeletePendingRedeem removes a pending redeem request
func (k Keeper) DeletePendingRedeem(ctx context.Context, vaultID uint64, owner sdk.AccAddress) {
	store := k.getStore(ctx)
	store.Delete(types.GetPendingRedeemKey(vaultID, owner))
}

// IteratePendingRedeems walks a vault's pending redeems. The callback
// returns true to stop.
func (k Keeper) IteratePendingRedeems(ctx context.Context, vaultID uint64, fn func(pr types.PendingRedeem) bool) {
	store := k.getStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, types.GetPendingRedeemPrefix(vaultID))
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var pr types.PendingRedeem
		k.cdc.MustUnmarshal(iterator.Value(), &pr)
		if fn(pr) {
			break
		}
	}
}
