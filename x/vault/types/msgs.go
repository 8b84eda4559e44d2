package types

import (
	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Message type names
const (
	TypeMsgCreateVault       = "create_vault"
	TypeMsgSubmitIntent      = "submit_intent"
	TypeMsgRequestDeposit    = "request_deposit"
	TypeMsgRequestRedeem     = "request_redeem"
	TypeMsgCancelDeposit     = "cancel_deposit"
	TypeMsgCancelRedeem      = "cancel_redeem"
	TypeMsgDecommissionVault = "decommission_vault"
)

var (
	_ sdk.Msg = &MsgCreateVault{}
	_ sdk.Msg = &MsgSubmitIntent{}
	_ sdk.Msg = &MsgRequestDeposit{}
	_ sdk.Msg = &MsgRequestRedeem{}
	_ sdk.Msg = &MsgCancelDeposit{}
	_ sdk.Msg = &MsgCancelRedeem{}
	_ sdk.Msg = &MsgDecommissionVault{}
)

// MsgCreateVault opens a new vault for a whitelisted curator.
type MsgCreateVault struct {
	Curator   string    `json:"curator"`
	VaultType VaultType `json:"vault_type"`
	FeeModel  FeeModel  `json:"fee_model"`
}

// NewMsgCreateVault creates a new MsgCreateVault instance
func NewMsgCreateVault(curator string, vaultType VaultType, feeModel FeeModel) *MsgCreateVault {
	return &MsgCreateVault{Curator: curator, VaultType: vaultType, FeeModel: feeModel}
}

// Route implements the sdk.Msg interface
func (msg MsgCreateVault) Route() string { return RouterKey }

// Type implements the sdk.Msg interface
func (msg MsgCreateVault) Type() string { return TypeMsgCreateVault }

// GetSigners implements the sdk.Msg interface
func (msg MsgCreateVault) GetSigners() []sdk.AccAddress {
	curator, err := sdk.AccAddressFromBech32(msg.Curator)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{curator}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgCreateVault) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgCreateVault) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Curator); err != nil {
		return sdkerrors.Wrapf(ErrInvalidAddress, "invalid curator address: %s", err)
	}
	if msg.VaultType > VaultTypeEncrypted {
		return sdkerrors.Wrapf(ErrInvalidAmount, "unknown vault type %d", msg.VaultType)
	}
	return msg.FeeModel.Validate()
}

// MsgSubmitIntent replaces a vault's target allocation. Transparent vaults
// carry Weights; encrypted vaults carry Ciphertext instead.
type MsgSubmitIntent struct {
	Curator    string          `json:"curator"`
	VaultId    uint64          `json:"vault_id"`
	Weights    []WeightedAsset `json:"weights,omitempty"`
	Ciphertext []byte          `json:"ciphertext,omitempty"`
}

// NewMsgSubmitIntent creates a new MsgSubmitIntent instance
func NewMsgSubmitIntent(curator string, vaultID uint64, weights []WeightedAsset) *MsgSubmitIntent {
	return &MsgSubmitIntent{Curator: curator, VaultId: vaultID, Weights: weights}
}

// Route implements the sdk.Msg interface
func (msg MsgSubmitIntent) Route() string { return RouterKey }

// Type implements the sdk.Msg interface
func (msg MsgSubmitIntent) Type() string { return TypeMsgSubmitIntent }

// GetSigners implements the sdk.Msg interface
func (msg MsgSubmitIntent) GetSigners() []sdk.AccAddress {
	curator, err := sdk.AccAddressFromBech32(msg.Curator)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{curator}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgSubmitIntent) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgSubmitIntent) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Curator); err != nil {
		return sdkerrors.Wrapf(ErrInvalidAddress, "invalid curator address: %s", err)
	}
	if len(msg.Weights) == 0 && len(msg.Ciphertext) == 0 {
		return sdkerrors.Wrap(ErrInvalidWeights, "intent is empty")
	}
	if len(msg.Weights) > 0 && len(msg.Ciphertext) > 0 {
		return sdkerrors.Wrap(ErrInvalidWeights, "intent cannot be both clear and encrypted")
	}
	return ValidateIntent(msg.Weights)
}

// MsgRequestDeposit queues a deposit; the underlying is escrowed into the
// module account immediately.
type MsgRequestDeposit struct {
	Depositor string   `json:"depositor"`
	VaultId   uint64   `json:"vault_id"`
	Amount    math.Int `json:"amount"`
}

// NewMsgRequestDeposit creates a new MsgRequestDeposit instance
func NewMsgRequestDeposit(depositor string, vaultID uint64, amount math.Int) *MsgRequestDeposit {
	return &MsgRequestDeposit{Depositor: depositor, VaultId: vaultID, Amount: amount}
}

// Route implements the sdk.Msg interface
func (msg MsgRequestDeposit) Route() string { return RouterKey }

// Type implements the sdk.Msg interface
func (msg MsgRequestDeposit) Type() string { return TypeMsgRequestDeposit }

// GetSigners implements the sdk.Msg interface
func (msg MsgRequestDeposit) GetSigners() []sdk.AccAddress {
	depositor, err := sdk.AccAddressFromBech32(msg.Depositor)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{depositor}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgRequestDeposit) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgRequestDeposit) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Depositor); err != nil {
		return sdkerrors.Wrapf(ErrInvalidAddress, "invalid depositor address: %s", err)
	}
	if msg.Amount.IsNil() || !msg.Amount.IsPositive() {
		return sdkerrors.Wrap(ErrInvalidAmount, "deposit amount must be positive")
	}
	return nil
}

// MsgRequestRedeem queues a redemption; the shares are escrowed out of the
// owner's balance immediately.
type MsgRequestRedeem struct {
	Owner   string   `json:"owner"`
	VaultId uint64   `json:"vault_id"`
	Shares  math.Int `json:"shares"`
}

// NewMsgRequestRedeem creates a new MsgRequestRedeem instance
func NewMsgRequestRedeem(owner string, vaultID uint64, shares math.Int) *MsgRequestRedeem {
	return &MsgRequestRedeem{Owner: owner, VaultId: vaultID, Shares: shares}
}

// Route implements the sdk.Msg interface
func (msg MsgRequestRedeem) Route() string { return RouterKey }

// Type implements the sdk.Msg interface
func (msg MsgRequestRedeem) Type() string { return TypeMsgRequestRedeem }

// GetSigners implements the sdk.Msg interface
func (msg MsgRequestRedeem) GetSigners() []sdk.AccAddress {
	owner, err := sdk.AccAddressFromBech32(msg.Owner)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{owner}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgRequestRedeem) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgRequestRedeem) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Owner); err != nil {
		return sdkerrors.Wrapf(ErrInvalidAddress, "invalid owner address: %s", err)
	}
	if msg.Shares.IsNil() || !msg.Shares.IsPositive() {
		return sdkerrors.Wrap(ErrInvalidAmount, "share amount must be positive")
	}
	return nil
}

// MsgCancelDeposit withdraws a pending deposit request. Only legal while the
// epoch machine is idle.
type MsgCancelDeposit struct {
	Depositor string `json:"depositor"`
	VaultId   uint64 `json:"vault_id"`
}

// Route implements the sdk.Msg interface
func (msg MsgCancelDeposit) Route() string { return RouterKey }

// Type implements the sdk.Msg interface
func (msg MsgCancelDeposit) Type() string { return TypeMsgCancelDeposit }

// GetSigners implements the sdk.Msg interface
func (msg MsgCancelDeposit) GetSigners() []sdk.AccAddress {
	depositor, err := sdk.AccAddressFromBech32(msg.Depositor)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{depositor}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgCancelDeposit) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgCancelDeposit) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Depositor); err != nil {
		return sdkerrors.Wrapf(ErrInvalidAddress, "invalid depositor address: %s", err)
	}
	return nil
}

// MsgCancelRedeem withdraws a pending redeem request. Only legal while the
// epoch machine is idle.
type MsgCancelRedeem struct {
	Owner   string `json:"owner"`
	VaultId uint64 `json:"vault_id"`
}

// Route implements the sdk.Msg interface
func (msg MsgCancelRedeem) Route() string { return RouterKey }

// Type implements the sdk.Msg interface
func (msg MsgCancelRedeem) Type() string { return TypeMsgCancelRedeem }

// GetSigners implements the sdk.Msg interface
func (msg MsgCancelRedeem) GetSigners() []sdk.AccAddress {
	owner, err := sdk.AccAddressFromBech32(msg.Owner)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{owner}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgCancelRedeem) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgCancelRedeem) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Owner); err != nil {
		return sdkerrors.Wrapf(ErrInvalidAddress, "invalid owner address: %s", err)
	}
	return nil
}

// MsgDecommissionVault blocks new inflows and winds the vault down over
// subsequent epochs. Signer must be the curator or the module authority.
type MsgDecommissionVault struct {
	Signer  string `json:"signer"`
	VaultId uint64 `json:"vault_id"`
}

// Route implements the sdk.Msg interface
func (msg MsgDecommissionVault) Route() string { return RouterKey }

// Type implements the sdk.Msg interface
func (msg MsgDecommissionVault) Type() string { return TypeMsgDecommissionVault }

// GetSigners implements the sdk.Msg interface
func (msg MsgDecommissionVault) GetSigners() []sdk.AccAddress {
	signer, err := sdk.AccAddressFromBech32(msg.Signer)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{signer}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgDecommissionVault) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgDecommissionVault) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Signer); err != nil {
		return sdkerrors.Wrapf(ErrInvalidAddress, "invalid signer address: %s", err)
	}
	return nil
}
