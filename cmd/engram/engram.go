// Package engramcmder
package engramcmder

import (
	"github.com/spf13/cobra"

	servecmder "github.com/pulsespark/engram/cmd/engram/serve"
	versioncmder "github.com/pulsespark/engram/cmd/version"
)

const engramLongDesc string = `Engram is a memory engine for your agents.

It stores small text memories per user and retrieves them with semantic,
lexical, or hybrid search.

Run the service using:
  engram serve         Run the memory API server`

const engramShortDesc string = "Engram - Agent Memory Engine"

func NewEngramCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "engram",
		Short: engramShortDesc,
		Long:  engramLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
