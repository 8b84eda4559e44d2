package cli

import (
	"github.com/spf13/cobra"
)

// GetQueryCmd returns the cli query commands for the vault module. State is
// read through the node's store query endpoints; the module exposes no
// dedicated query service.
func GetQueryCmd() *cobra.Command {
	return nil
}
