package types

import (
	"context"

	"cosmossdk.io/math"
	gogogrpc "github.com/cosmos/gogoproto/grpc"
)

// MsgServer defines the message server interface
type MsgServer interface {
	CreateVault(context.Context, *MsgCreateVault) (*MsgCreateVaultResponse, error)
	SubmitIntent(context.Context, *MsgSubmitIntent) (*MsgSubmitIntentResponse, error)
	RequestDeposit(context.Context, *MsgRequestDeposit) (*MsgRequestDepositResponse, error)
	RequestRedeem(context.Context, *MsgRequestRedeem) (*MsgRequestRedeemResponse, error)
	CancelDeposit(context.Context, *MsgCancelDeposit) (*MsgCancelDepositResponse, error)
	CancelRedeem(context.Context, *MsgCancelRedeem) (*MsgCancelRedeemResponse, error)
	DecommissionVault(context.Context, *MsgDecommissionVault) (*MsgDecommissionVaultResponse, error)
	PerformStatesUpkeep(context.Context, *MsgPerformStatesUpkeep) (*MsgPerformStatesUpkeepResponse, error)
	PerformLiquidityUpkeep(context.Context, *MsgPerformLiquidityUpkeep) (*MsgPerformLiquidityUpkeepResponse, error)
	UpdateParams(context.Context, *MsgUpdateParams) (*MsgUpdateParamsResponse, error)
	ListAsset(context.Context, *MsgListAsset) (*MsgListAssetResponse, error)
	DelistAsset(context.Context, *MsgDelistAsset) (*MsgDelistAssetResponse, error)
	SetCurator(context.Context, *MsgSetCurator) (*MsgSetCuratorResponse, error)
	WithdrawFees(context.Context, *MsgWithdrawFees) (*MsgWithdrawFeesResponse, error)
}

// Response types

// MsgCreateVaultResponse defines the response for CreateVault
type MsgCreateVaultResponse struct {
	VaultId uint64 `json:"vault_id"`
}

// MsgSubmitIntentResponse defines the response for SubmitIntent
type MsgSubmitIntentResponse struct{}

// MsgRequestDepositResponse defines the response for RequestDeposit
type MsgRequestDepositResponse struct {
	Amount math.Int `json:"amount"`
}

// MsgRequestRedeemResponse defines the response for RequestRedeem
type MsgRequestRedeemResponse struct {
	Shares math.Int `json:"shares"`
}

// MsgCancelDepositResponse defines the response for CancelDeposit
type MsgCancelDepositResponse struct {
	Refunded math.Int `json:"refunded"`
}

// MsgCancelRedeemResponse defines the response for CancelRedeem
type MsgCancelRedeemResponse struct {
	Restored math.Int `json:"restored"`
}

// MsgDecommissionVaultResponse defines the response for DecommissionVault
type MsgDecommissionVaultResponse struct{}

// MsgPerformStatesUpkeepResponse reports the phase and cursor after the
// minibatch completed.
type MsgPerformStatesUpkeepResponse struct {
	Phase  Phase  `json:"phase"`
	Cursor uint64 `json:"cursor"`
	Epoch  uint64 `json:"epoch"`
}

// MsgPerformLiquidityUpkeepResponse reports whether the call executed or was
// an idempotent no-op.
type MsgPerformLiquidityUpkeepResponse struct {
	Executed bool   `json:"executed"`
	Epoch    uint64 `json:"epoch"`
}

// MsgUpdateParamsResponse defines the response for UpdateParams
type MsgUpdateParamsResponse struct{}

// MsgListAssetResponse defines the response for ListAsset
type MsgListAssetResponse struct{}

// MsgDelistAssetResponse defines the response for DelistAsset
type MsgDelistAssetResponse struct{}

// MsgSetCuratorResponse defines the response for SetCurator
type MsgSetCuratorResponse struct{}

// MsgWithdrawFeesResponse defines the response for WithdrawFees
type MsgWithdrawFeesResponse struct {
	Amount math.Int `json:"amount"`
}

// Placeholder for protobuf service descriptor
var _Msg_serviceDesc = struct{}{}

// RegisterMsgServer wires the handler implementation into the router. The
// messages are amino encoded and routed by legacy type name, so there is no
// grpc service descriptor to install.
func RegisterMsgServer(s gogogrpc.Server, srv MsgServer) {
	_ = _Msg_serviceDesc
}
