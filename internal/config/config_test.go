package config

import (
	"testing"
	"time"
)

func TestLoadRequiresEndpoint(t *testing.T) {
	t.Setenv("UAMIRROR_ENDPOINT", "")
	if _, err := Load(); err == nil {
		t.Error("Load should fail without UAMIRROR_ENDPOINT")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("UAMIRROR_ENDPOINT", "opc.tcp://plc:4840")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Endpoint != "opc.tcp://plc:4840" {
		t.Errorf("Endpoint = %q", cfg.Endpoint)
	}
	if cfg.SecurityPolicy != "None" || cfg.SecurityMode != "None" {
		t.Errorf("security defaults = %q/%q, want None/None", cfg.SecurityPolicy, cfg.SecurityMode)
	}
	if cfg.ConnectAttempts != 3 {
		t.Errorf("ConnectAttempts = %d, want 3", cfg.ConnectAttempts)
	}
	if cfg.ConnectBackoff != 500*time.Millisecond {
		t.Errorf("ConnectBackoff = %v, want 500ms", cfg.ConnectBackoff)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("UAMIRROR_ENDPOINT", "opc.tcp://plc:4840")
	t.Setenv("UAMIRROR_SECURITY_POLICY", "Basic256Sha256")
	t.Setenv("UAMIRROR_SECURITY_MODE", "SignAndEncrypt")
	t.Setenv("UAMIRROR_CONNECT_ATTEMPTS", "5")
	t.Setenv("UAMIRROR_CONNECT_BACKOFF", "2s")
	t.Setenv("UAMIRROR_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SecurityPolicy != "Basic256Sha256" {
		t.Errorf("SecurityPolicy = %q", cfg.SecurityPolicy)
	}
	if cfg.SecurityMode != "SignAndEncrypt" {
		t.Errorf("SecurityMode = %q", cfg.SecurityMode)
	}
	if cfg.ConnectAttempts != 5 {
		t.Errorf("ConnectAttempts = %d", cfg.ConnectAttempts)
	}
	if cfg.ConnectBackoff != 2*time.Second {
		t.Errorf("ConnectBackoff = %v", cfg.ConnectBackoff)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestEnvHelpersIgnoreGarbage(t *testing.T) {
	t.Setenv("UAMIRROR_ENDPOINT", "opc.tcp://plc:4840")
	t.Setenv("UAMIRROR_CONNECT_ATTEMPTS", "many")
	t.Setenv("UAMIRROR_CONNECT_BACKOFF", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ConnectAttempts != 3 {
		t.Errorf("ConnectAttempts = %d, want fallback 3", cfg.ConnectAttempts)
	}
	if cfg.ConnectBackoff != 500*time.Millisecond {
		t.Errorf("ConnectBackoff = %v, want fallback 500ms", cfg.ConnectBackoff)
	}
}
