package app

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootCommand(t *testing.T) {
	if RootCmd.Use != "dirsnap" {
		t.Errorf("expected Use to be 'dirsnap', got '%s'", RootCmd.Use)
	}
	if RootCmd.Short == "" {
		t.Error("expected Short description to be set")
	}
	if RootCmd.Long == "" {
		t.Error("expected Long description to be set")
	}
	if !RootCmd.SilenceUsage {
		t.Error("expected SilenceUsage to be true")
	}
	if !RootCmd.SilenceErrors {
		t.Error("expected SilenceErrors to be true")
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	commands := RootCmd.Commands()

	expectedCommands := []string{"track", "recover", "list", "history"}
	foundCommands := make(map[string]bool)

	for _, cmd := range commands {
		foundCommands[cmd.Use] = true
	}

	for _, expected := range expectedCommands {
		if !foundCommands[expected] {
			t.Errorf("expected command '%s' to be registered", expected)
		}
	}
}

func TestStoreCommandsRequireInput(t *testing.T) {
	for _, name := range []string{"track", "recover", "list", "history"} {
		cmd, _, err := RootCmd.Find([]string{name})
		if err != nil {
			t.Fatalf("Find(%s): %v", name, err)
		}
		if cmd.Flags().Lookup("input") == nil {
			t.Errorf("command %s is missing the --input flag", name)
		}
		if cmd.Flags().Lookup("output") == nil {
			t.Errorf("command %s is missing the --output flag", name)
		}
	}
}

func TestRecoverRequiresPoint(t *testing.T) {
	cmd, _, err := RootCmd.Find([]string{"recover"})
	if err != nil {
		t.Fatal(err)
	}
	if cmd.Flags().Lookup("recover-point") == nil {
		t.Fatal("recover is missing the --recover-point flag")
	}
}

func TestHelpExitsZero(t *testing.T) {
	var buf bytes.Buffer
	RootCmd.SetOut(&buf)
	defer RootCmd.SetOut(nil)
	RootCmd.SetErr(bytes.NewBuffer(nil))
	defer RootCmd.SetErr(nil)

	RootCmd.SetArgs([]string{"--help"})
	if err := Execute(); err != nil {
		t.Errorf("expected --help to succeed, got error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Usage:") {
		t.Errorf("expected help output to contain 'Usage:', got: %s", out)
	}
	if !strings.Contains(out, "track") || !strings.Contains(out, "recover") {
		t.Error("expected help output to list subcommands")
	}
}
