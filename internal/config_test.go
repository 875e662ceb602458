package internal

import "testing"

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestConfig_MissingVaultPath(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Vault.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty vault path must fail validation")
	}
}

func TestConfig_MissingCatalogPath(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Catalog.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty catalog path must fail validation")
	}
}

func TestConfig_MissingTrackerDir(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Tracker.Dir = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty tracker dir must fail validation")
	}
}

func TestConfig_OptionalCollaborators(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Settings.Path = ""
	cfg.Templates.Dir = ""
	cfg.Commands.Dir = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("settings, templates, and commands are optional: %v", err)
	}
}
