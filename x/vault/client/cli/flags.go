package cli

// Flag names for vault transaction commands
const (
	FlagEncrypted = "encrypted"
)
