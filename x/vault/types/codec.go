package types

import (
	"github.com/cosmos/cosmos-sdk/codec"
	cdctypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// RegisterCodec registers the necessary interfaces and concrete types
func RegisterCodec(cdc *codec.LegacyAmino) {
	cdc.RegisterConcrete(&MsgCreateVault{}, "vault/MsgCreateVault", nil)
	cdc.RegisterConcrete(&MsgSubmitIntent{}, "vault/MsgSubmitIntent", nil)
	cdc.RegisterConcrete(&MsgRequestDeposit{}, "vault/MsgRequestDeposit", nil)
	cdc.RegisterConcrete(&MsgRequestRedeem{}, "vault/MsgRequestRedeem", nil)
	cdc.RegisterConcrete(&MsgCancelDeposit{}, "vault/MsgCancelDeposit", nil)
	cdc.RegisterConcrete(&MsgCancelRedeem{}, "vault/MsgCancelRedeem", nil)
	cdc.RegisterConcrete(&MsgDecommissionVault{}, "vault/MsgDecommissionVault", nil)
	cdc.RegisterConcrete(&MsgPerformStatesUpkeep{}, "vault/MsgPerformStatesUpkeep", nil)
	cdc.RegisterConcrete(&MsgPerformLiquidityUpkeep{}, "vault/MsgPerformLiquidityUpkeep", nil)
	cdc.RegisterConcrete(&MsgUpdateParams{}, "vault/MsgUpdateParams", nil)
	cdc.RegisterConcrete(&MsgListAsset{}, "vault/MsgListAsset", nil)
	cdc.RegisterConcrete(&MsgDelistAsset{}, "vault/MsgDelistAsset", nil)
	cdc.RegisterConcrete(&MsgSetCurator{}, "vault/MsgSetCurator", nil)
	cdc.RegisterConcrete(&MsgWithdrawFees{}, "vault/MsgWithdrawFees", nil)
}

// RegisterInterfaces registers the module's interfaces with the interface registry
func RegisterInterfaces(registry cdctypes.InterfaceRegistry) {
	registry.RegisterImplementations((*sdk.Msg)(nil),
		&MsgCreateVault{},
		&MsgSubmitIntent{},
		&MsgRequestDeposit{},
		&MsgRequestRedeem{},
		&MsgCancelDeposit{},
		&MsgCancelRedeem{},
		&MsgDecommissionVault{},
		&MsgPerformStatesUpkeep{},
		&MsgPerformLiquidityUpkeep{},
		&MsgUpdateParams{},
		&MsgListAsset{},
		&MsgDelistAsset{},
		&MsgSetCurator{},
		&MsgWithdrawFees{},
	)
}

var (
	amino     = codec.NewLegacyAmino()
	ModuleCdc = codec.NewAminoCodec(amino)
)

// Amino exposes the raw legacy amino codec for keeper state encoding.
func Amino() *codec.LegacyAmino {
	return amino
}

func init() {
	RegisterCodec(amino)
	amino.Seal()
}
