package types

// Event types for the vault module
const (
	EventTypeVaultCreated      = "vault_created"
	EventTypeIntentSubmitted   = "intent_submitted"
	EventTypeDepositRequested  = "deposit_requested"
	EventTypeRedeemRequested   = "redeem_requested"
	EventTypeRequestCancelled  = "request_cancelled"
	EventTypePhaseAdvanced     = "phase_advanced"
	EventTypeEpochCompleted    = "epoch_completed"
	EventTypeOrdersBuilt       = "orders_built"
	EventTypeOrderExecuted     = "order_executed"
	EventTypeRedemptionSettled = "redemption_settled"
	EventTypeDepositSettled    = "deposit_settled"
	EventTypeFeesAccrued       = "fees_accrued"
	EventTypeVaultDecommission = "vault_decommissioning"
	EventTypeVaultRemoved      = "vault_decommissioned"
	EventTypeAssetListed       = "asset_listed"
	EventTypeAssetDelisted     = "asset_delisted"
	EventTypeCuratorSet        = "curator_set"
	EventTypeFeesWithdrawn     = "fees_withdrawn"
	EventTypeUpkeepNeeded      = "upkeep_needed"

	AttributeKeyVaultID     = "vault_id"
	AttributeKeyCurator     = "curator"
	AttributeKeyEpoch       = "epoch"
	AttributeKeyPhase       = "phase"
	AttributeKeyCursor      = "cursor"
	AttributeKeyDenom       = "denom"
	AttributeKeySide        = "side"
	AttributeKeyAmount      = "amount"
	AttributeKeyShares      = "shares"
	AttributeKeyDepositor   = "depositor"
	AttributeKeyOwner       = "owner"
	AttributeKeyBuys        = "buys"
	AttributeKeySells       = "sells"
	AttributeKeyMgmtFee     = "management_fee"
	AttributeKeyPerfFee     = "performance_fee"
	AttributeKeyAction       = "action"
	AttributeKeyAllowed      = "allowed"
	AttributeKeyOrchestrator = "orchestrator"
)
