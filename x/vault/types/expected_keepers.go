package types

import (
	"context"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// BankKeeper defines the expected bank keeper for underlying escrow.
type BankKeeper interface {
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
}

// PriceAdapter quotes whitelisted assets in underlying units per asset base
// unit. Implementations must return an error when no reliable price exists;
// the orchestrators treat a zero or negative price as fatal to the enclosing
// phase step.
type PriceAdapter interface {
	Quote(ctx context.Context, denom string) (sdkmath.LegacyDec, error)
}

// ExecutionAdapter executes one netted order. For sells, bound is the
// minimum acceptable underlying proceeds; for buys, the maximum underlying
// spend. The returned amount is the underlying actually received or spent.
type ExecutionAdapter interface {
	Execute(ctx context.Context, side OrderSide, denom string, amount sdkmath.Int, bound sdkmath.Int) (sdkmath.Int, error)
}

// IntentDecrypter is the encrypted-intent oracle boundary. Requests are
// submitted during encrypted-vault preprocessing and must resolve before the
// buffering phase is entered.
type IntentDecrypter interface {
	RequestDecryption(ctx context.Context, vaultID uint64, ciphertext []byte) error
	DecryptedIntent(ctx context.Context, vaultID uint64) ([]WeightedAsset, bool)
}
