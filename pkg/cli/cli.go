package cli

import (
	"github.com/spf13/cobra"
)

// Build information (injected at compile time via ldflags)
var Version = "dev"

var (
	gatewayAddr string
	productTag  string
	jsonOutput  bool
)

// NewRootCommand builds the meridian CLI command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:     "meridian",
		Short:   "Operator CLI for the meridian search cluster",
		Version: Version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	root.PersistentFlags().StringVar(&gatewayAddr, "addr", "http://localhost:1994", "gateway base URL")
	root.PersistentFlags().StringVar(&productTag, "product", "", "product tag for system index access")
	root.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print raw JSON responses")

	root.AddCommand(newResolveCommand())
	root.AddCommand(newDataStreamsCommand())
	root.AddCommand(newDateMathCommand())
	root.AddCommand(newStateCommand())

	return root
}

func client() *Client {
	return NewClient(gatewayAddr, productTag)
}
