package types

import "fmt"

// Hand-written messages still need the gogoproto surface to satisfy sdk.Msg
// and the interface registry. State encoding itself goes through the module
// amino codec.

func (msg *MsgCreateVault) Reset()         { *msg = MsgCreateVault{} }
func (msg *MsgCreateVault) String() string { return fmt.Sprintf("%+v", *msg) }
func (*MsgCreateVault) ProtoMessage()      {}

func (msg *MsgSubmitIntent) Reset()         { *msg = MsgSubmitIntent{} }
func (msg *MsgSubmitIntent) String() string { return fmt.Sprintf("%+v", *msg) }
func (*MsgSubmitIntent) ProtoMessage()      {}

func (msg *MsgRequestDeposit) Reset()         { *msg = MsgRequestDeposit{} }
func (msg *MsgRequestDeposit) String() string { return fmt.Sprintf("%+v", *msg) }
func (*MsgRequestDeposit) ProtoMessage()      {}

func (msg *MsgRequestRedeem) Reset()         { *msg = MsgRequestRedeem{} }
func (msg *MsgRequestRedeem) String() string { return fmt.Sprintf("%+v", *msg) }
func (*MsgRequestRedeem) ProtoMessage()      {}

func (msg *MsgCancelDeposit) Reset()         { *msg = MsgCancelDeposit{} }
func (msg *MsgCancelDeposit) String() string { return fmt.Sprintf("%+v", *msg) }
func (*MsgCancelDeposit) ProtoMessage()      {}

func (msg *MsgCancelRedeem) Reset()         { *msg = MsgCancelRedeem{} }
func (msg *MsgCancelRedeem) String() string { return fmt.Sprintf("%+v", *msg) }
func (*MsgCancelRedeem) ProtoMessage()      {}

func (msg *MsgDecommissionVault) Reset()         { *msg = MsgDecommissionVault{} }
func (msg *MsgDecommissionVault) String() string { return fmt.Sprintf("%+v", *msg) }
func (*MsgDecommissionVault) ProtoMessage()      {}

func (msg *MsgPerformStatesUpkeep) Reset()         { *msg = MsgPerformStatesUpkeep{} }
func (msg *MsgPerformStatesUpkeep) String() string { return fmt.Sprintf("%+v", *msg) }
func (*MsgPerformStatesUpkeep) ProtoMessage()      {}

func (msg *MsgPerformLiquidityUpkeep) Reset()         { *msg = MsgPerformLiquidityUpkeep{} }
func (msg *MsgPerformLiquidityUpkeep) String() string { return fmt.Sprintf("%+v", *msg) }
func (*MsgPerformLiquidityUpkeep) ProtoMessage()      {}

func (msg *MsgUpdateParams) Reset()         { *msg = MsgUpdateParams{} }
func (msg *MsgUpdateParams) String() string { return fmt.Sprintf("%+v", *msg) }
func (*MsgUpdateParams) ProtoMessage()      {}

func (msg *MsgListAsset) Reset()         { *msg = MsgListAsset{} }
func (msg *MsgListAsset) String() string { return fmt.Sprintf("%+v", *msg) }
func (*MsgListAsset) ProtoMessage()      {}

func (msg *MsgDelistAsset) Reset()         { *msg = MsgDelistAsset{} }
func (msg *MsgDelistAsset) String() string { return fmt.Sprintf("%+v", *msg) }
func (*MsgDelistAsset) ProtoMessage()      {}

func (msg *MsgSetCurator) Reset()         { *msg = MsgSetCurator{} }
func (msg *MsgSetCurator) String() string { return fmt.Sprintf("%+v", *msg) }
func (*MsgSetCurator) ProtoMessage()      {}

func (msg *MsgWithdrawFees) Reset()         { *msg = MsgWithdrawFees{} }
func (msg *MsgWithdrawFees) String() string { return fmt.Sprintf("%+v", *msg) }
func (*MsgWithdrawFees) ProtoMessage()      {}
