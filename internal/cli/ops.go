package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/fixsweep/internal/logging"
	"github.com/yaklabco/fixsweep/pkg/patch"
)

type opsFlags struct {
	format string
}

const formatJSON = "json"

// opInfo represents an operation kind in JSON output.
type opInfo struct {
	Kind    string   `json:"kind"`
	Aliases []string `json:"aliases"`
	Summary string   `json:"summary"`
}

func newOpsCommand() *cobra.Command {
	flags := &opsFlags{}

	cmd := &cobra.Command{
		Use:   "ops",
		Short: "List supported operation kinds",
		Long: `List every operation kind a plan can use, with its aliases and a
one-line description of its semantics.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kinds := patch.Kinds()

			// Handle JSON output format.
			if flags.format == formatJSON {
				return outputOpsJSON(cmd, kinds)
			}

			// Default to text output.
			logger := logging.NewInteractive()

			logger.Info("supported operations")

			for _, info := range kinds {
				aliases := "-"
				if len(info.Aliases) > 0 {
					aliases = strings.Join(info.Aliases, ", ")
				}

				logger.Info(string(info.Kind),
					logging.FieldAliases, aliases,
					logging.FieldSummary, info.Summary,
				)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text",
		"output format: text, json")

	return cmd
}

// outputOpsJSON outputs operation kinds as a JSON array.
func outputOpsJSON(cmd *cobra.Command, kinds []patch.KindInfo) error {
	infos := make([]opInfo, 0, len(kinds))
	for _, info := range kinds {
		infos = append(infos, opInfo{
			Kind:    string(info.Kind),
			Aliases: info.Aliases,
			Summary: info.Summary,
		})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("encoding operations: %w", err)
	}
	return nil
}
