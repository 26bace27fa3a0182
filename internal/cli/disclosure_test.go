package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
)

func newTestCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("basic", "", "a basic flag")
	cmd.Flags().String("expert", "", "an expert-only flag")
	AdvancedFlags(cmd, "expert")
	return cmd
}

func TestAdvancedFlagsHiddenByDefault(t *testing.T) {
	cmd := newTestCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--help"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if bytes.Contains(buf.Bytes(), []byte("--expert")) {
		t.Error("expected --expert to be hidden from default help output")
	}
	if !bytes.Contains(buf.Bytes(), []byte("--basic")) {
		t.Error("expected --basic to remain visible")
	}
}

func TestAdvancedFlagsRevealedWithShowAdvanced(t *testing.T) {
	cmd := newTestCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--show-advanced", "--help"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("--expert")) {
		t.Error("expected --expert to be revealed with --show-advanced")
	}
}
