// ABOUTME: Tests for list and recent commands
// ABOUTME: Verifies command structure and flag defaults

package commands

import (
	"testing"
)

func TestNewListCmd(t *testing.T) {
	cmd := NewListCmd()

	if cmd.Use != "list" {
		t.Errorf("Use = %q, want %q", cmd.Use, "list")
	}

	if cmd.Short == "" {
		t.Error("Short description should not be empty")
	}
}

func TestListCmd_Flags(t *testing.T) {
	cmd := NewListCmd()

	categoryFlag := cmd.Flags().Lookup("category")
	if categoryFlag == nil {
		t.Fatal("--category flag not found")
	}

	limitFlag := cmd.Flags().Lookup("limit")
	if limitFlag == nil {
		t.Fatal("--limit flag not found")
	}
	if limitFlag.DefValue != "50" {
		t.Errorf("--limit default = %q, want %q", limitFlag.DefValue, "50")
	}
}

func TestNewRecentCmd(t *testing.T) {
	cmd := NewRecentCmd()

	if cmd.Use != "recent" {
		t.Errorf("Use = %q, want %q", cmd.Use, "recent")
	}

	limitFlag := cmd.Flags().Lookup("limit")
	if limitFlag == nil {
		t.Fatal("--limit flag not found")
	}
	if limitFlag.DefValue != "10" {
		t.Errorf("--limit default = %q, want %q", limitFlag.DefValue, "10")
	}
}

func TestNewRebuildCmd(t *testing.T) {
	cmd := NewRebuildCmd()

	if cmd.Use != "rebuild" {
		t.Errorf("Use = %q, want %q", cmd.Use, "rebuild")
	}

	yesFlag := cmd.Flags().Lookup("yes")
	if yesFlag == nil {
		t.Fatal("--yes flag not found")
	}
	if yesFlag.DefValue != "false" {
		t.Errorf("--yes default = %q, want %q", yesFlag.DefValue, "false")
	}
}

func TestNewDeleteCmd(t *testing.T) {
	cmd := NewDeleteCmd()

	if cmd.Use != "delete <document-id>" {
		t.Errorf("Use = %q, want %q", cmd.Use, "delete <document-id>")
	}

	if cmd.Args == nil {
		t.Error("Args validator should be set")
	}
}
