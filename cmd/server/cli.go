package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <text>",
		Short: "Classify a message without storing it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			result := a.activities.Classify(cmd.Context(), strings.Join(args, " "))
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(map[string]any{
				"category":     result.Category,
				"subtype":      result.Subtype,
				"autoDetected": result.AutoDetected,
				"details":      result.Details.Map(),
			})
		},
	}
}

func newExportCmd() *cobra.Command {
	var (
		userID string
		days   int
		out    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a user's activities as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			var w io.Writer = cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			rows, err := a.exports.Export(cmd.Context(), userID, days, w)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "exported %d activities\n", rows)
			return nil
		},
	}
	cmd.Flags().StringVarP(&userID, "user", "u", "", "Telegram user id (required)")
	cmd.Flags().IntVarP(&days, "days", "d", 0, "Number of days to export (default 30)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file, stdout when empty")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
