package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var convertCompact bool

// convertCmd represents the convert command.
var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Print the Notion blocks for markdown text",
	Long: `Convert markdown text to Notion blocks and print them as JSON.

Reads the file argument, or stdin when no file is given. Nothing is sent to
Notion; use this to check how a summary will be laid out.

Examples:
  slack-notion convert summary.md
  echo "# Title" | slack-notion convert`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().BoolVar(&convertCompact, "compact", false, "print JSON on one line")
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := getConfig()
	if err != nil {
		return err
	}

	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	page := newTransformer(cfg).Page("", text)

	var out []byte
	if convertCompact {
		out, err = json.Marshal(page.Children)
	} else {
		out, err = json.MarshalIndent(page.Children, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal blocks: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

// readInput reads the first argument as a file, or the command's input when
// there is none.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}
