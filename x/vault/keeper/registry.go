package keeper

import (
	"context"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/folio-chain/folio/x/vault/types"
)

// GetAssetListing returns a whitelist entry, if present
func (k Keeper) GetAssetListing(ctx context.Context, denom string) (types.AssetListing, bool) {
	store := k.getStore(ctx)
	bz := store.Get(types.GetAssetListingKey(denom))
	if bz == nil {
		return types.AssetListing{}, false
	}
	var listing types.AssetListing
	k.cdc.MustUnmarshal(bz, &listing)
	return listing, true
}

// SetAssetListing persists a whitelist entry
func (k Keeper) SetAssetListing(ctx context.Context, listing types.AssetListing) {
	store := k.getStore(ctx)
	store.Set(types.GetAssetListingKey(listing.Denom), k.cdc.MustMarshal(&listing))
}

// IsAssetWhitelisted reports whether the asset is listed and not draining
func (k Keeper) IsAssetWhitelisted(ctx context.Context, denom string) bool {
	listing, found := k.GetAssetListing(ctx, denom)
	return found && !listing.Draining
}

// IsAssetDraining reports whether the asset has been delisted and is being
// wound down
func (k Keeper) IsAssetDraining(ctx context.Context, denom string) bool {
	listing, found := k.GetAssetListing(ctx, denom)
	return found && listing.Draining
}

// IterateAssetListings walks the whitelist. The callback returns true to stop.
func (k Keeper) IterateAssetListings(ctx context.Context, fn func(listing types.AssetListing) bool) {
	store := k.getStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, types.AssetListingKey)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var listing types.AssetListing
		k.cdc.MustUnmarshal(iterator.Value(), &listing)
		if fn(listing) {
			break
		}
	}
}

// GetAllAssetListings returns the full whitelist
func (k Keeper) GetAllAssetListings(ctx context.Context) []types.AssetListing {
	var listings []types.AssetListing
	k.IterateAssetListings(ctx, func(listing types.AssetListing) bool {
		listings = append(listings, listing)
		return false
	})
	return listings
}

// GetFeeBalance returns a curator's accrued fee claim in underlying units
func (k Keeper) GetFeeBalance(ctx context.Context, curator sdk.AccAddress) math.Int {
	store := k.getStore(ctx)
	bz := store.Get(types.GetFeeBalanceKey(curator))
	if bz == nil {
		return math.ZeroInt()
	}
	var balance math.Int
	if err := balance.Unmarshal(bz); err != nil {
		panic(err)
	}
	return balance
}

// AddFeeBalance credits a curator's accrued fee claim
func (k Keeper) AddFeeBalance(ctx context.Context, curator sdk.AccAddress, amount math.Int) {
	if !amount.IsPositive() {
		return
	}
	balance := k.GetFeeBalance(ctx, curator).Add(amount)
	store := k.getStore(ctx)
	bz, err := balance.Marshal()
	if err != nil {
		panic(err)
	}
	store.Set(types.GetFeeBalanceKey(curator), bz)
}

// clearFeeBalance zeroes a curator's claim and returns what was accrued
func (k Keeper) clearFeeBalance(ctx context.Context, curator sdk.AccAddress) math.Int {
	balance := k.GetFeeBalance(ctx, curator)
	if balance.IsPositive() {
		k.getStore(ctx).Delete(types.GetFeeBalanceKey(curator))
	}
	return balance
}

// SetCuratorWhitelisted grants or revokes vault-creation rights
func (k Keeper) SetCuratorWhitelisted(ctx context.Context, curator sdk.AccAddress, allowed bool) {
	store := k.getStore(ctx)
	key := types.GetCuratorKey(curator)
	if allowed {
		store.Set(key, []byte{1})
		return
	}
	store.Delete(key)
}

// IsCuratorWhitelisted reports whether the address may open vaults
func (k Keeper) IsCuratorWhitelisted(ctx context.Context, curator sdk.AccAddress) bool {
	return k.getStore(ctx).Has(types.GetCuratorKey(curator))
}
