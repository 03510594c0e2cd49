package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meridiandb/meridian/pkg/metadata"
)

func newStateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect and publish the cluster naming snapshot",
	}
	cmd.AddCommand(newStateVersionCommand())
	cmd.AddCommand(newStatePublishCommand())
	return cmd
}

func newStateVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the current snapshot version",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				Version int64 `json:"version"`
			}
			if err := client().do("GET", "/api/v1/state/version", nil, &result); err != nil {
				return err
			}
			fmt.Println(result.Version)
			return nil
		},
	}
}

func newStatePublishCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish a snapshot document from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			var doc metadata.Document
			if err := json.Unmarshal(raw, &doc); err != nil {
				return fmt.Errorf("invalid state document: %w", err)
			}

			var result struct {
				Version int64 `json:"version"`
			}
			if err := client().do("PUT", "/api/v1/state", &doc, &result); err != nil {
				return err
			}
			fmt.Printf("published version %d\n", result.Version)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "path to the snapshot JSON document")
	cmd.MarkFlagRequired("file")
	return cmd
}
