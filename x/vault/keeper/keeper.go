package keeper

import (
	"context"

	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	"github.com/folio-chain/folio/x/vault/types"
)

// Keeper of the vault store
type Keeper struct {
	storeKey  storetypes.StoreKey
	cdc       *codec.LegacyAmino
	authority string

	bankKeeper       types.BankKeeper
	priceAdapter     types.PriceAdapter
	executionAdapter types.ExecutionAdapter
	decrypter        types.IntentDecrypter
}

// NewKeeper creates a new vault Keeper instance. The authority administers
// params and the asset whitelist; the adapters are the module's external
// collaborator boundaries.
func NewKeeper(
	cdc *codec.LegacyAmino,
	key storetypes.StoreKey,
	authority string,
	bankKeeper types.BankKeeper,
	priceAdapter types.PriceAdapter,
	executionAdapter types.ExecutionAdapter,
	decrypter types.IntentDecrypter,
) *Keeper {
	return &Keeper{
		storeKey:         key,
		cdc:              cdc,
		authority:        authority,
		bankKeeper:       bankKeeper,
		priceAdapter:     priceAdapter,
		executionAdapter: executionAdapter,
		decrypter:        decrypter,
	}
}

// GetAuthority returns the module's administrative authority address.
func (k Keeper) GetAuthority() string {
	return k.authority
}

// GetModuleAddress returns the module account address holding escrowed
// underlying.
func (k Keeper) GetModuleAddress() sdk.AccAddress {
	return authtypes.NewModuleAddress(types.ModuleName)
}

// getStore returns the KVStore for the vault module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.KVStore(k.storeKey)
}

// GetParams returns the current module parameters.
func (k Keeper) GetParams(ctx context.Context) types.Params {
	store := k.getStore(ctx)
	bz := store.Get(types.ParamsKey)
	if bz == nil {
		return types.DefaultParams()
	}
	var params types.Params
	k.cdc.MustUnmarshal(bz, &params)
	return params
}

// SetParams validates and persists the module parameters.
func (k Keeper) SetParams(ctx context.Context, params types.Params) error {
	if err := params.Validate(); err != nil {
		return err
	}
	store := k.getStore(ctx)
	store.Set(types.ParamsKey, k.cdc.MustMarshal(&params))
	return nil
}

// GetEpochState returns the global epoch record.
func (k Keeper) GetEpochState(ctx context.Context) types.EpochState {
	store := k.getStore(ctx)
	bz := store.Get(types.EpochStateKey)
	if bz == nil {
		return types.EpochState{Phase: types.PhaseIdle}
	}
	var es types.EpochState
	k.cdc.MustUnmarshal(bz, &es)
	return es
}

// SetEpochState persists the global epoch record.
func (k Keeper) SetEpochState(ctx context.Context, es types.EpochState) {
	store := k.getStore(ctx)
	store.Set(types.EpochStateKey, k.cdc.MustMarshal(&es))
}

// authorizeUpkeep checks the performer against the configured automation
// principal. An unset automation address disables upkeep entirely.
func (k Keeper) authorizeUpkeep(ctx context.Context, performer string) error {
	params := k.GetParams(ctx)
	if params.AutomationAddress == "" || performer != params.AutomationAddress {
		return types.ErrNotAuthorized.Wrapf("performer %s", performer)
	}
	return nil
}
