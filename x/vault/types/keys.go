package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// ModuleName defines the module name
	ModuleName = "vault"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName

	// QuerierRoute defines the module's query routing key
	QuerierRoute = ModuleName
)

// Store key prefixes
var (
	ParamsKey           = []byte{0x01} // key for module params
	EpochStateKey       = []byte{0x02} // key for the global epoch record
	VaultKey            = []byte{0x03} // prefix for vault records
	VaultCountKey       = []byte{0x04} // key for the vault id counter
	OrderBookKey        = []byte{0x05} // prefix for per-epoch order books
	PendingDepositKey   = []byte{0x06} // prefix for pending deposit requests
	PendingRedeemKey    = []byte{0x07} // prefix for pending redeem requests
	ShareBalanceKey     = []byte{0x08} // prefix for per-holder share balances
	AssetListingKey     = []byte{0x09} // prefix for the asset whitelist
	FeeBalanceKey       = []byte{0x0A} // prefix for accrued curator fee balances
	DeltaAccumulatorKey = []byte{0x0B} // prefix for per-epoch netting accumulators
	CuratorKey          = []byte{0x0C} // prefix for the curator whitelist
)

// GetVaultKey returns the store key for a vault record
func GetVaultKey(vaultID uint64) []byte {
	return append(VaultKey, sdk.Uint64ToBigEndian(vaultID)...)
}

// GetOrderBookKey returns the store key for an epoch's netted order book
func GetOrderBookKey(epoch uint64) []byte {
	return append(OrderBookKey, sdk.Uint64ToBigEndian(epoch)...)
}

// GetPendingDepositKey returns the store key for a depositor's pending request
func GetPendingDepositKey(vaultID uint64, depositor sdk.AccAddress) []byte {
	key := append(PendingDepositKey, sdk.Uint64ToBigEndian(vaultID)...)
	return append(key, depositor.Bytes()...)
}

// GetPendingDepositPrefix returns the iteration prefix for a vault's pending deposits
func GetPendingDepositPrefix(vaultID uint64) []byte {
	return append(PendingDepositKey, sdk.Uint64ToBigEndian(vaultID)...)
}

// GetPendingRedeemKey returns the store key for an owner's pending redeem request
func GetPendingRedeemKey(vaultID uint64, owner sdk.AccAddress) []byte {
	key := append(PendingRedeemKey, sdk.Uint64ToBigEndian(vaultID)...)
	return append(key, owner.Bytes()...)
}

// GetPendingRedeemPrefix returns the iteration prefix for a vault's pending redeems
func GetPendingRedeemPrefix(vaultID uint64) []byte {
	return append(PendingRedeemKey, sdk.Uint64ToBigEndian(vaultID)...)
}

// GetShareBalanceKey returns the store key for a holder's share balance
func GetShareBalanceKey(vaultID uint64, holder sdk.AccAddress) []byte {
	key := append(ShareBalanceKey, sdk.Uint64ToBigEndian(vaultID)...)
	return append(key, holder.Bytes()...)
}

// GetAssetListingKey returns the store key for a whitelisted asset
func GetAssetListingKey(denom string) []byte {
	return append(AssetListingKey, []byte(denom)...)
}

// GetFeeBalanceKey returns the store key for a curator's accrued fees
func GetFeeBalanceKey(curator sdk.AccAddress) []byte {
	return append(FeeBalanceKey, curator.Bytes()...)
}

// GetDeltaAccumulatorKey returns the store key for an asset's netting
// accumulator within the current epoch computation.
func GetDeltaAccumulatorKey(denom string) []byte {
	return append(DeltaAccumulatorKey, []byte(denom)...)
}

// GetCuratorKey returns the store key for a whitelisted curator
func GetCuratorKey(curator sdk.AccAddress) []byte {
	return append(CuratorKey, curator.Bytes()...)
}
