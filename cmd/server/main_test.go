package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"vaultsim/internal/adapter/repo/memory"
	"vaultsim/internal/platform/config"
)

func TestNewLogger_Formats(t *testing.T) {
	var buf bytes.Buffer
	newLogger(config.Server{LogLevel: "info", LogFormat: "json"}, &buf).Info("hello", "vault_id", "v1")
	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected json log line, got %q: %v", buf.String(), err)
	}
	if line["vault_id"] != "v1" {
		t.Fatalf("expected vault_id attr, got %v", line)
	}

	buf.Reset()
	newLogger(config.Server{LogLevel: "warn", LogFormat: "text"}, &buf).Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info should be dropped at warn level, got %q", buf.String())
	}
}

func TestSeedDemoVault_Idempotent(t *testing.T) {
	store := memory.NewStore()
	repos := memoryRepos(store)
	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	ctx := context.Background()

	if err := seedDemoVault(ctx, repos, now); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := seedDemoVault(ctx, repos, now.Add(time.Hour)); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	snap, ok := store.Snapshot(demoVaultID)
	if !ok {
		t.Fatalf("expected demo vault stored")
	}
	if snap.Vault.Version != 1 || len(snap.Dwellers) != 4 || len(snap.Rooms) != 5 {
		t.Fatalf("unexpected demo vault: version=%d dwellers=%d rooms=%d", snap.Vault.Version, len(snap.Dwellers), len(snap.Rooms))
	}
	if !snap.Vault.NextTickAt.Equal(now) {
		t.Fatalf("expected demo vault due at seed time, got %v", snap.Vault.NextTickAt)
	}
}
