package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/adamancini/slack-notion-mcp/internal/config"
	"github.com/adamancini/slack-notion-mcp/internal/state"
)

// withConfig installs c as the loaded configuration for the test.
func withConfig(t *testing.T, c *config.Config) {
	t.Helper()
	original := cfg
	cfg = c
	t.Cleanup(func() { cfg = original })
}

// testCmd returns cmd with its output captured and its input set to in.
func testCmd(cmd *cobra.Command, in string) (*cobra.Command, *bytes.Buffer) {
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader(in))
	return cmd, &out
}

// =============================================================================
// Configuration and version
// =============================================================================

func TestGetConfig_NilConfig(t *testing.T) {
	withConfig(t, nil)

	result, err := getConfig()
	if err != ErrNoConfig {
		t.Errorf("getConfig() error = %v; want %v", err, ErrNoConfig)
	}
	if result != nil {
		t.Errorf("getConfig() result = %v; want nil", result)
	}
}

func TestGetConfig_SetConfig(t *testing.T) {
	testConfig := config.DefaultConfig()
	withConfig(t, testConfig)

	result, err := getConfig()
	if err != nil {
		t.Errorf("getConfig() unexpected error: %v", err)
	}
	if result != testConfig {
		t.Errorf("getConfig() result = %v; want %v", result, testConfig)
	}
}

func TestSetVersion(t *testing.T) {
	origVersion, origCommit, origDate := version, commit, date
	defer SetVersion(origVersion, origCommit, origDate)

	SetVersion("1.2.3", "abc123", "2026-01-15")

	if version != "1.2.3" {
		t.Errorf("version = %q; want %q", version, "1.2.3")
	}
	if commit != "abc123" {
		t.Errorf("commit = %q; want %q", commit, "abc123")
	}
	if date != "2026-01-15" {
		t.Errorf("date = %q; want %q", date, "2026-01-15")
	}
	if rootCmd.Version != "1.2.3" {
		t.Errorf("rootCmd.Version = %q; want %q", rootCmd.Version, "1.2.3")
	}
	if !strings.Contains(versionTemplate(), "abc123") {
		t.Errorf("versionTemplate() = %q; want commit", versionTemplate())
	}
}

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		if _, err := newLogger(level); err != nil {
			t.Errorf("newLogger(%q) error = %v", level, err)
		}
	}
	if _, err := newLogger("loud"); err == nil {
		t.Error("newLogger(\"loud\") expected error")
	}
}

// =============================================================================
// Command structure
// =============================================================================

func TestRootCommand_HasExpectedSubcommands(t *testing.T) {
	expectedCommands := []string{"init", "serve", "convert", "publish", "history"}

	for _, cmdName := range expectedCommands {
		found := false
		for _, cmd := range rootCmd.Commands() {
			if cmd.Name() == cmdName {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("rootCmd missing expected subcommand: %s", cmdName)
		}
	}
}

func TestRootCommand_HasExpectedFlags(t *testing.T) {
	if rootCmd.PersistentFlags().Lookup("config") == nil {
		t.Error("rootCmd missing --config flag")
	}

	verboseFlag := rootCmd.PersistentFlags().Lookup("verbose")
	if verboseFlag == nil {
		t.Fatal("rootCmd missing --verbose flag")
	}
	if verboseFlag.Shorthand != "v" {
		t.Errorf("--verbose shorthand = %q; want 'v'", verboseFlag.Shorthand)
	}
}

func TestCommands_HaveExpectedFlags(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		flags []string
	}{
		{initCmd, []string{"path", "parent-page", "thread-workers", "force"}},
		{serveCmd, []string{"http"}},
		{convertCmd, []string{"compact"}},
		{publishCmd, []string{"title", "dry-run"}},
		{historyCmd, []string{"limit"}},
	}

	for _, tt := range tests {
		t.Run(tt.cmd.Name(), func(t *testing.T) {
			for _, name := range tt.flags {
				if tt.cmd.Flags().Lookup(name) == nil {
					t.Errorf("%s missing --%s flag", tt.cmd.Name(), name)
				}
			}
		})
	}
}

func TestPublishCommand_TitleRequired(t *testing.T) {
	flag := publishCmd.Flags().Lookup("title")
	if flag == nil {
		t.Fatal("publishCmd missing --title flag")
	}
	if _, ok := flag.Annotations[cobra.BashCompOneRequiredFlag]; !ok {
		t.Error("--title should be required")
	}
}

func TestCommandDescriptions(t *testing.T) {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			continue
		}
		if cmd.Short == "" {
			t.Errorf("%s has no short description", cmd.Name())
		}
		if cmd.Long == "" {
			t.Errorf("%s has no long description", cmd.Name())
		}
	}
}

// =============================================================================
// convert
// =============================================================================

func TestRunConvert_Stdin(t *testing.T) {
	withConfig(t, config.DefaultConfig())
	cmd, out := testCmd(convertCmd, "# Title\n- **bold** item\n")

	if err := runConvert(cmd, nil); err != nil {
		t.Fatalf("runConvert() error = %v", err)
	}

	var blocks []map[string]any
	if err := json.Unmarshal(out.Bytes(), &blocks); err != nil {
		t.Fatalf("output is not a JSON array: %v\n%s", err, out.String())
	}
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2:\n%s", len(blocks), out.String())
	}
	if blocks[0]["type"] != "heading_1" {
		t.Errorf("blocks[0].type = %v; want heading_1", blocks[0]["type"])
	}
	if blocks[1]["type"] != "bulleted_list_item" {
		t.Errorf("blocks[1].type = %v; want bulleted_list_item", blocks[1]["type"])
	}
}

func TestRunConvert_File(t *testing.T) {
	withConfig(t, config.DefaultConfig())

	path := filepath.Join(t.TempDir(), "summary.md")
	if err := os.WriteFile(path, []byte("---\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cmd, out := testCmd(convertCmd, "")

	if err := runConvert(cmd, []string{path}); err != nil {
		t.Fatalf("runConvert() error = %v", err)
	}
	if !strings.Contains(out.String(), `"divider"`) {
		t.Errorf("output missing divider block:\n%s", out.String())
	}
}

func TestRunConvert_MissingFile(t *testing.T) {
	withConfig(t, config.DefaultConfig())
	cmd, _ := testCmd(convertCmd, "")

	if err := runConvert(cmd, []string{filepath.Join(t.TempDir(), "missing.md")}); err == nil {
		t.Error("runConvert() expected error for missing file")
	}
}

// =============================================================================
// publish
// =============================================================================

func TestRunPublish_DryRun(t *testing.T) {
	withConfig(t, config.DefaultConfig())
	publishTitle, publishDryRun = "Weekly sync", true
	defer func() { publishTitle, publishDryRun = "", false }()

	cmd, out := testCmd(publishCmd, "# Decisions\n- ship it\n- write docs\n")

	if err := runPublish(cmd, nil); err != nil {
		t.Fatalf("runPublish() error = %v", err)
	}
	if !strings.Contains(out.String(), `"Weekly sync" with 3 blocks`) {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestRunPublish_MissingCredentials(t *testing.T) {
	withConfig(t, config.DefaultConfig())
	publishTitle = "Weekly sync"
	defer func() { publishTitle = "" }()

	cmd, _ := testCmd(publishCmd, "text")

	err := runPublish(cmd, nil)
	if err == nil {
		t.Fatal("runPublish() expected error")
	}
	if !strings.Contains(err.Error(), config.EnvNotionParent) {
		t.Errorf("error = %q; want it to name %s", err, config.EnvNotionParent)
	}
}

// =============================================================================
// history
// =============================================================================

func TestRunHistory(t *testing.T) {
	c := config.DefaultConfig()
	c.State.DBPath = filepath.Join(t.TempDir(), "state", "history.db")
	withConfig(t, c)

	db, err := openHistory(c)
	if err != nil {
		t.Fatalf("openHistory() error = %v", err)
	}
	for _, title := range []string{"older", "newer"} {
		if err := db.RecordPublish(&state.Publish{Title: title, URL: "https://www.notion.so/" + title, Blocks: 1}); err != nil {
			t.Fatalf("RecordPublish: %v", err)
		}
		time.Sleep(time.Millisecond)
	}
	db.Close()

	cmd, out := testCmd(historyCmd, "")
	if err := runHistory(cmd, nil); err != nil {
		t.Fatalf("runHistory() error = %v", err)
	}

	output := out.String()
	newer := strings.Index(output, "newer")
	older := strings.Index(output, "older")
	if newer < 0 || older < 0 || newer > older {
		t.Errorf("expected newest first:\n%s", output)
	}
	if !strings.Contains(output, "1 block ") {
		t.Errorf("expected singular block count:\n%s", output)
	}
}

func TestPrintHistory_Empty(t *testing.T) {
	var buf bytes.Buffer
	printHistory(&buf, nil)
	if !strings.Contains(buf.String(), "No pages published yet.") {
		t.Errorf("printHistory(nil) = %q", buf.String())
	}
}

func TestPluralize(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "blocks"},
		{1, "block"},
		{2, "blocks"},
	}

	for _, tc := range tests {
		if got := pluralize(tc.n, "block", "blocks"); got != tc.want {
			t.Errorf("pluralize(%d) = %q; want %q", tc.n, got, tc.want)
		}
	}
}

// =============================================================================
// init
// =============================================================================

func TestRunInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	initPath, initParentPage, initThreadWorkers, initForce = path,
		"https://www.notion.so/Team-1234567890abcdef1234567890abcdef?pvs=4", 2, false
	defer func() {
		initPath, initParentPage, initThreadWorkers, initForce = ".slack-notion.yaml", "", config.DefaultThreadWorkers, false
	}()

	cmd, out := testCmd(initCmd, "")
	if err := runInit(cmd, nil); err != nil {
		t.Fatalf("runInit() error = %v", err)
	}
	if !strings.Contains(out.String(), "Wrote "+path) {
		t.Errorf("unexpected output: %q", out.String())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	content := string(data)
	for _, want := range []string{
		"1234567890abcdef1234567890abcdef",
		"${SLACK_BOT_TOKEN}",
		"${NOTION_API_KEY}",
		"thread_workers: 2",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("config missing %q:\n%s", want, content)
		}
	}

	if err := runInit(cmd, nil); err == nil {
		t.Error("runInit() should refuse to overwrite without --force")
	}

	initForce = true
	if err := runInit(cmd, nil); err != nil {
		t.Errorf("runInit() with --force error = %v", err)
	}
}

func TestRunInit_InvalidWorkers(t *testing.T) {
	initPath, initThreadWorkers = filepath.Join(t.TempDir(), "config.yaml"), 0
	defer func() { initPath, initThreadWorkers = ".slack-notion.yaml", config.DefaultThreadWorkers }()

	cmd, _ := testCmd(initCmd, "")
	if err := runInit(cmd, nil); err == nil {
		t.Error("runInit() expected error for zero workers")
	}
}
