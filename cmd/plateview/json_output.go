package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// writeJSON emits v on the command's stdout for the --json flag, indented
// and without HTML escaping.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
