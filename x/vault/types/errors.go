package types

import (
	"cosmossdk.io/errors"
)

// Vault module sentinel errors
var (
	ErrNotAuthorized         = errors.Register(ModuleName, 1, "caller is not the automation principal")
	ErrInvalidState          = errors.Register(ModuleName, 2, "action does not match current phase")
	ErrEpochNotElapsed       = errors.Register(ModuleName, 3, "epoch duration has not elapsed")
	ErrVaultNotFound         = errors.Register(ModuleName, 4, "vault not found")
	ErrInvalidWeights        = errors.Register(ModuleName, 5, "intent weights do not sum to intent scale")
	ErrInvalidPrice          = errors.Register(ModuleName, 6, "price adapter returned no usable price")
	ErrSystemNotIdle         = errors.Register(ModuleName, 7, "request cannot be modified while an epoch is processing")
	ErrSlippageExceeded      = errors.Register(ModuleName, 8, "execution outside slippage bounds")
	ErrInsufficientShares    = errors.Register(ModuleName, 9, "insufficient share balance")
	ErrInsufficientFunds     = errors.Register(ModuleName, 10, "insufficient funds for execution")
	ErrInvalidAmount         = errors.Register(ModuleName, 11, "invalid amount")
	ErrAssetNotWhitelisted   = errors.Register(ModuleName, 12, "asset is not whitelisted")
	ErrCuratorNotWhitelisted = errors.Register(ModuleName, 13, "curator is not whitelisted")
	ErrVaultDecommissioning  = errors.Register(ModuleName, 14, "vault is decommissioning")
	ErrVaultDecommissioned   = errors.Register(ModuleName, 15, "vault is decommissioned")
	ErrInvalidFeeModel       = errors.Register(ModuleName, 16, "invalid fee model")
	ErrDecryptionPending     = errors.Register(ModuleName, 17, "encrypted intent decryption has not resolved")
	ErrInvalidAddress        = errors.Register(ModuleName, 18, "invalid address")
	ErrDuplicateRequest      = errors.Register(ModuleName, 19, "a pending request already exists")
	ErrAccountingUnderflow   = errors.Register(ModuleName, 20, "vault accounting would go negative")
	ErrInvalidParams         = errors.Register(ModuleName, 21, "invalid module params")
	ErrRequestNotFound       = errors.Register(ModuleName, 22, "no pending request found")
)
