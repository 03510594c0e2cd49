package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meridiandb/meridian/pkg/resolver"
)

type resolveFlags struct {
	ignoreUnavailable  bool
	allowNoIndices     bool
	expandWildcards    string
	ignoreAliases      bool
	ignoreThrottled    bool
	includeDataStreams bool
	routing            string
}

func (f *resolveFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.ignoreUnavailable, "ignore-unavailable", false, "skip missing concrete names")
	cmd.Flags().BoolVar(&f.allowNoIndices, "allow-no-indices", true, "permit an empty result")
	cmd.Flags().StringVar(&f.expandWildcards, "expand-wildcards", "open", "wildcard expansion: comma list of open,closed,hidden,all,none")
	cmd.Flags().BoolVar(&f.ignoreAliases, "ignore-aliases", false, "treat aliases as absent")
	cmd.Flags().BoolVar(&f.ignoreThrottled, "ignore-throttled", false, "exclude frozen indices")
	cmd.Flags().BoolVar(&f.includeDataStreams, "include-data-streams", true, "admit data streams")
}

func (f *resolveFlags) options() resolver.Options {
	o := resolver.Options{
		IgnoreUnavailable:             f.ignoreUnavailable,
		AllowNoIndices:                f.allowNoIndices,
		AllowAliasesToMultipleIndices: true,
		IgnoreAliases:                 f.ignoreAliases,
		IgnoreThrottled:               f.ignoreThrottled,
		ExpandWildcardExpressions:     true,
	}
	for _, token := range strings.Split(f.expandWildcards, ",") {
		switch strings.TrimSpace(token) {
		case "open":
			o.ExpandWildcardsOpen = true
		case "closed":
			o.ExpandWildcardsClosed = true
		case "hidden":
			o.ExpandWildcardsHidden = true
		case "all":
			o.ExpandWildcardsOpen = true
			o.ExpandWildcardsClosed = true
			o.ExpandWildcardsHidden = true
		case "none":
			o.ExpandWildcardExpressions = false
		}
	}
	return o
}

type resolveBody struct {
	Expressions        []string         `json:"expressions"`
	Options            resolver.Options `json:"options"`
	IncludeDataStreams bool             `json:"include_data_streams"`
	Routing            string           `json:"routing,omitempty"`
}

func newResolveCommand() *cobra.Command {
	flags := &resolveFlags{}
	cmd := &cobra.Command{
		Use:   "resolve <expression>...",
		Short: "Resolve index expressions to concrete indices",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				Version int64 `json:"version"`
				Indices []struct {
					Name string `json:"name"`
					UUID string `json:"uuid"`
				} `json:"indices"`
			}
			err := client().do("POST", "/api/v1/resolve/indices", resolveBody{
				Expressions:        args,
				Options:            flags.options(),
				IncludeDataStreams: flags.includeDataStreams,
			}, &result)
			if err != nil {
				return err
			}
			if jsonOutput {
				return json.NewEncoder(os.Stdout).Encode(result)
			}
			for _, index := range result.Indices {
				fmt.Printf("%s\t%s\n", index.Name, index.UUID)
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newDataStreamsCommand() *cobra.Command {
	flags := &resolveFlags{}
	cmd := &cobra.Command{
		Use:   "datastreams [expression]...",
		Short: "Resolve expressions to data stream names",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				Version     int64    `json:"version"`
				DataStreams []string `json:"data_streams"`
			}
			err := client().do("POST", "/api/v1/resolve/datastreams", resolveBody{
				Expressions: args,
				Options:     flags.options(),
			}, &result)
			if err != nil {
				return err
			}
			if jsonOutput {
				return json.NewEncoder(os.Stdout).Encode(result)
			}
			for _, name := range result.DataStreams {
				fmt.Println(name)
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newDateMathCommand() *cobra.Command {
	var at int64
	cmd := &cobra.Command{
		Use:   "datemath <expression>",
		Short: "Resolve a date math expression locally",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resolved string
			var err error
			if at != 0 {
				resolved, err = resolver.ResolveDateMathAt(args[0], at)
			} else {
				resolved, err = resolver.ResolveDateMath(args[0])
			}
			if err != nil {
				return err
			}
			fmt.Println(resolved)
			return nil
		},
	}
	cmd.Flags().Int64Var(&at, "at", 0, "resolve against this time (ms since epoch) instead of now")
	return cmd
}
