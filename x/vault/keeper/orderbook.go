package keeper

import (
	"context"
	"sort"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"

	"github.com/folio-chain/folio/x/vault/types"
)

// Order netting. Postprocessing folds every vault's signed per-asset delta
// (target value minus current value, underlying units) into a global
// accumulator; BuildOrders turns the accumulators into at most one buy or
// sell per asset, dropping dust.

// GetDelta returns the accumulated signed delta for an asset
func (k Keeper) GetDelta(ctx context.Context, denom string) math.Int {
	store := k.getStore(ctx)
	bz := store.Get(types.GetDeltaAccumulatorKey(denom))
	if bz == nil {
		return math.ZeroInt()
	}
	var delta math.Int
	if err := delta.Unmarshal(bz); err != nil {
		panic(err)
	}
	return delta
}

// AddDelta folds a vault's contribution into an asset's accumulator
func (k Keeper) AddDelta(ctx context.Context, denom string, delta math.Int) {
	if delta.IsZero() {
		return
	}
	total := k.GetDelta(ctx, denom).Add(delta)
	store := k.getStore(ctx)
	key := types.GetDeltaAccumulatorKey(denom)
	if total.IsZero() {
		store.Delete(key)
		return
	}
	bz, err := total.Marshal()
	if err != nil {
		panic(err)
	}
	store.Set(key, bz)
}

// iterateDeltas walks the accumulators in denom order
func (k Keeper) iterateDeltas(ctx context.Context, fn func(denom string, delta math.Int) bool) {
	store := k.getStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, types.DeltaAccumulatorKey)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		denom := string(iterator.Key()[len(types.DeltaAccumulatorKey):])
		var delta math.Int
		if err := delta.Unmarshal(iterator.Value()); err != nil {
			panic(err)
		}
		if fn(denom, delta) {
			break
		}
	}
}

// clearDeltas removes all accumulators after a book has been built
func (k Keeper) clearDeltas(ctx context.Context) {
	store := k.getStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, types.DeltaAccumulatorKey)
	defer iterator.Close()

	var keys [][]byte
	for ; iterator.Valid(); iterator.Next() {
		keys = append(keys, append([]byte(nil), iterator.Key()...))
	}
	for _, key := range keys {
		store.Delete(key)
	}
}

// accumulateVaultDeltas folds one vault's target-versus-current gap into the
// global accumulators and returns the vault's net value delta (positive
// means the vault consumes underlying to reach its target). Target and
// current positions are valued at the same quotes, so the folded deltas net
// exactly across vaults.
func (k Keeper) accumulateVaultDeltas(ctx context.Context, vault types.Vault) (math.Int, error) {
	target := make(map[string]math.Int, len(vault.TargetPortfolio))
	for _, holding := range vault.TargetPortfolio {
		target[holding.Denom] = holding.Amount
	}
	current := make(map[string]math.Int, len(vault.Portfolio))
	for _, holding := range vault.Portfolio {
		current[holding.Denom] = holding.Amount
	}

	denoms := make(map[string]struct{}, len(target)+len(current))
	for denom := range target {
		denoms[denom] = struct{}{}
	}
	for denom := range current {
		denoms[denom] = struct{}{}
	}

	net := math.ZeroInt()
	for denom := range denoms {
		targetAmt, ok := target[denom]
		if !ok {
			targetAmt = math.ZeroInt()
		}
		currentAmt, ok := current[denom]
		if !ok {
			currentAmt = math.ZeroInt()
		}
		if targetAmt.Equal(currentAmt) {
			continue
		}
		price, err := k.priceAdapter.Quote(ctx, denom)
		if err != nil {
			return math.Int{}, types.ErrInvalidPrice.Wrapf("%s: %s", denom, err)
		}
		if price.IsNil() || !price.IsPositive() {
			return math.Int{}, types.ErrInvalidPrice.Wrapf("%s: quote %s", denom, price)
		}
		delta := price.MulInt(targetAmt.Sub(currentAmt)).TruncateInt()
		k.AddDelta(ctx, denom, delta)
		net = net.Add(delta)
	}
	return net, nil
}

// BuildOrderBook converts the accumulated deltas into the epoch's netted
// order book. Deltas at or below the dust threshold produce no order; the
// comparison is strict, a delta exactly at the threshold is filtered.
// Sells are ordered draining assets first so delisted exposure drains
// preferentially.
func (k Keeper) BuildOrderBook(ctx context.Context, epoch uint64) types.OrderBook {
	params := k.GetParams(ctx)
	book := types.OrderBook{Epoch: epoch}

	k.iterateDeltas(ctx, func(denom string, delta math.Int) bool {
		size := delta.Abs()
		if size.LTE(params.DustThreshold) {
			return false
		}
		order := types.Order{
			Denom:          denom,
			Amount:         size,
			EstimatedValue: size,
		}
		if delta.IsPositive() {
			order.Side = types.OrderSideBuy
			book.Buys = append(book.Buys, order)
		} else {
			order.Side = types.OrderSideSell
			book.Sells = append(book.Sells, order)
		}
		return false
	})

	sort.SliceStable(book.Sells, func(i, j int) bool {
		di := k.IsAssetDraining(ctx, book.Sells[i].Denom)
		dj := k.IsAssetDraining(ctx, book.Sells[j].Denom)
		if di != dj {
			return di
		}
		return book.Sells[i].Denom < book.Sells[j].Denom
	})
	sort.SliceStable(book.Buys, func(i, j int) bool {
		return book.Buys[i].Denom < book.Buys[j].Denom
	})

	k.clearDeltas(ctx)
	return book
}

// GetOrderBook returns the netted book persisted for an epoch
func (k Keeper) GetOrderBook(ctx context.Context, epoch uint64) (types.OrderBook, bool) {
	store := k.getStore(ctx)
	bz := store.Get(types.GetOrderBookKey(epoch))
	if bz == nil {
		return types.OrderBook{}, false
	}
	var book types.OrderBook
	k.cdc.MustUnmarshal(bz, &book)
	return book, true
}

// SetOrderBook persists an epoch's netted book
func (k Keeper) SetOrderBook(ctx context.Context, book types.OrderBook) {
	store := k.getStore(ctx)
	store.Set(types.GetOrderBookKey(book.Epoch), k.cdc.MustMarshal(&book))
}
