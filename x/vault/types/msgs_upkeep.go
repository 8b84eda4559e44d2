package types

import (
	sdkerrors "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Message type names for upkeep and administration
const (
	TypeMsgPerformStatesUpkeep    = "perform_states_upkeep"
	TypeMsgPerformLiquidityUpkeep = "perform_liquidity_upkeep"
	TypeMsgUpdateParams           = "update_params"
	TypeMsgListAsset              = "list_asset"
	TypeMsgDelistAsset            = "delist_asset"
	TypeMsgSetCurator             = "set_curator"
	TypeMsgWithdrawFees           = "withdraw_fees"
)

var (
	_ sdk.Msg = &MsgPerformStatesUpkeep{}
	_ sdk.Msg = &MsgPerformLiquidityUpkeep{}
	_ sdk.Msg = &MsgUpdateParams{}
	_ sdk.Msg = &MsgListAsset{}
	_ sdk.Msg = &MsgDelistAsset{}
	_ sdk.Msg = &MsgSetCurator{}
	_ sdk.Msg = &MsgWithdrawFees{}
)

// MsgPerformStatesUpkeep advances the states orchestrator by one minibatch.
// Action is the phase-specific selector; a mismatch against the current
// phase fails without mutation.
type MsgPerformStatesUpkeep struct {
	Performer string       `json:"performer"`
	Action    UpkeepAction `json:"action"`
}

// NewMsgPerformStatesUpkeep creates a new MsgPerformStatesUpkeep instance
func NewMsgPerformStatesUpkeep(performer string, action UpkeepAction) *MsgPerformStatesUpkeep {
	return &MsgPerformStatesUpkeep{Performer: performer, Action: action}
}

// Route implements the sdk.Msg interface
func (msg MsgPerformStatesUpkeep) Route() string { return RouterKey }

// Type implements the sdk.Msg interface
func (msg MsgPerformStatesUpkeep) Type() string { return TypeMsgPerformStatesUpkeep }

// GetSigners implements the sdk.Msg interface
func (msg MsgPerformStatesUpkeep) GetSigners() []sdk.AccAddress {
	performer, err := sdk.AccAddressFromBech32(msg.Performer)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{performer}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgPerformStatesUpkeep) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgPerformStatesUpkeep) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Performer); err != nil {
		return sdkerrors.Wrapf(ErrInvalidAddress, "invalid performer address: %s", err)
	}
	if msg.Action > ActionBuildOrders {
		return sdkerrors.Wrapf(ErrInvalidState, "unknown action %d", msg.Action)
	}
	return nil
}

// MsgPerformLiquidityUpkeep runs the liquidity orchestrator for the current
// epoch. Re-invocation within the same epoch is a no-op.
type MsgPerformLiquidityUpkeep struct {
	Performer string `json:"performer"`
}

// NewMsgPerformLiquidityUpkeep creates a new MsgPerformLiquidityUpkeep instance
func NewMsgPerformLiquidityUpkeep(performer string) *MsgPerformLiquidityUpkeep {
	return &MsgPerformLiquidityUpkeep{Performer: performer}
}

// Route implements the sdk.Msg interface
func (msg MsgPerformLiquidityUpkeep) Route() string { return RouterKey }

// Type implements the sdk.Msg interface
func (msg MsgPerformLiquidityUpkeep) Type() string { return TypeMsgPerformLiquidityUpkeep }

// GetSigners implements the sdk.Msg interface
func (msg MsgPerformLiquidityUpkeep) GetSigners() []sdk.AccAddress {
	performer, err := sdk.AccAddressFromBech32(msg.Performer)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{performer}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgPerformLiquidityUpkeep) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgPerformLiquidityUpkeep) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Performer); err != nil {
		return sdkerrors.Wrapf(ErrInvalidAddress, "invalid performer address: %s", err)
	}
	return nil
}

// MsgUpdateParams replaces the module params. Authority-gated.
type MsgUpdateParams struct {
	Authority string `json:"authority"`
	Params    Params `json:"params"`
}

// Route implements the sdk.Msg interface
func (msg MsgUpdateParams) Route() string { return RouterKey }

// Type implements the sdk.Msg interface
func (msg MsgUpdateParams) Type() string { return TypeMsgUpdateParams }

// GetSigners implements the sdk.Msg interface
func (msg MsgUpdateParams) GetSigners() []sdk.AccAddress {
	authority, err := sdk.AccAddressFromBech32(msg.Authority)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{authority}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgUpdateParams) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgUpdateParams) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return sdkerrors.Wrapf(ErrInvalidAddress, "invalid authority address: %s", err)
	}
	return msg.Params.Validate()
}

// MsgListAsset adds an asset to the whitelist. Authority-gated.
type MsgListAsset struct {
	Authority string `json:"authority"`
	Denom     string `json:"denom"`
}

// Route implements the sdk.Msg interface
func (msg MsgListAsset) Route() string { return RouterKey }

// Type implements the sdk.Msg interface
func (msg MsgListAsset) Type() string { return TypeMsgListAsset }

// GetSigners implements the sdk.Msg interface
func (msg MsgListAsset) GetSigners() []sdk.AccAddress {
	authority, err := sdk.AccAddressFromBech32(msg.Authority)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{authority}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgListAsset) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgListAsset) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return sdkerrors.Wrapf(ErrInvalidAddress, "invalid authority address: %s", err)
	}
	if err := sdk.ValidateDenom(msg.Denom); err != nil {
		return sdkerrors.Wrapf(ErrInvalidAmount, "invalid denom: %s", err)
	}
	return nil
}

// MsgDelistAsset flips a whitelisted asset to draining. Authority-gated.
type MsgDelistAsset struct {
	Authority string `json:"authority"`
	Denom     string `json:"denom"`
}

// Route implements the sdk.Msg interface
func (msg MsgDelistAsset) Route() string { return RouterKey }

// Type implements the sdk.Msg interface
func (msg MsgDelistAsset) Type() string { return TypeMsgDelistAsset }

// GetSigners implements the sdk.Msg interface
func (msg MsgDelistAsset) GetSigners() []sdk.AccAddress {
	authority, err := sdk.AccAddressFromBech32(msg.Authority)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{authority}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgDelistAsset) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgDelistAsset) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return sdkerrors.Wrapf(ErrInvalidAddress, "invalid authority address: %s", err)
	}
	if err := sdk.ValidateDenom(msg.Denom); err != nil {
		return sdkerrors.Wrapf(ErrInvalidAmount, "invalid denom: %s", err)
	}
	return nil
}

// MsgSetCurator grants or revokes a curator's right to open vaults.
// Authority-gated. Revocation does not touch existing vaults.
type MsgSetCurator struct {
	Authority string `json:"authority"`
	Curator   string `json:"curator"`
	Allowed   bool   `json:"allowed"`
}

// Route implements the sdk.Msg interface
func (msg MsgSetCurator) Route() string { return RouterKey }

// Type implements the sdk.Msg interface
func (msg MsgSetCurator) Type() string { return TypeMsgSetCurator }

// GetSigners implements the sdk.Msg interface
func (msg MsgSetCurator) GetSigners() []sdk.AccAddress {
	authority, err := sdk.AccAddressFromBech32(msg.Authority)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{authority}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgSetCurator) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgSetCurator) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return sdkerrors.Wrapf(ErrInvalidAddress, "invalid authority address: %s", err)
	}
	if _, err := sdk.AccAddressFromBech32(msg.Curator); err != nil {
		return sdkerrors.Wrapf(ErrInvalidAddress, "invalid curator address: %s", err)
	}
	return nil
}

// MsgWithdrawFees pays out the signer's accrued fee claim from the module
// account.
type MsgWithdrawFees struct {
	Curator string `json:"curator"`
}

// Route implements the sdk.Msg interface
func (msg MsgWithdrawFees) Route() string { return RouterKey }

// Type implements the sdk.Msg interface
func (msg MsgWithdrawFees) Type() string { return TypeMsgWithdrawFees }

// GetSigners implements the sdk.Msg interface
func (msg MsgWithdrawFees) GetSigners() []sdk.AccAddress {
	curator, err := sdk.AccAddressFromBech32(msg.Curator)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{curator}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgWithdrawFees) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgWithdrawFees) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Curator); err != nil {
		return sdkerrors.Wrapf(ErrInvalidAddress, "invalid curator address: %s", err)
	}
	return nil
}
