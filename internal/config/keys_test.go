package config

import (
	"strings"
	"testing"
)

func TestLookup_Exists(t *testing.T) {
	spec := Lookup("log-dir")
	if spec == nil {
		t.Fatal("expected to find key 'log-dir', got nil")
	}
	if spec.Name != "log-dir" {
		t.Errorf("expected Name %q, got %q", "log-dir", spec.Name)
	}
}

func TestLookup_CaseInsensitive(t *testing.T) {
	spec := Lookup("LOG-DIR")
	if spec == nil {
		t.Fatal("expected case-insensitive lookup to succeed")
	}
	if spec.Name != "log-dir" {
		t.Errorf("expected Name %q, got %q", "log-dir", spec.Name)
	}
}

func TestLookup_NotFound(t *testing.T) {
	spec := Lookup("nonexistent-key")
	if spec != nil {
		t.Errorf("expected nil for unknown key, got %+v", spec)
	}
}

func TestKeys_AllHaveGetAndSet(t *testing.T) {
	for _, k := range Keys {
		if k.Get == nil {
			t.Errorf("key %q has nil Get function", k.Name)
		}
		if k.Set == nil {
			t.Errorf("key %q has nil Set function", k.Name)
		}
		if k.Description == "" {
			t.Errorf("key %q has empty Description", k.Name)
		}
	}
}

func TestKeys_SetFlowsThroughResolve(t *testing.T) {
	noEnv := func(string) string { return "" }
	tests := []struct {
		key   string
		value string
		get   func(Settings) string
	}{
		{"log-dir", "/srv/audit", func(s Settings) string { return s.LogDir }},
		{"remote-dir", "/opt/audit/archive", func(s Settings) string { return s.RemoteDir }},
		{"ansible-bin", "/usr/local/bin/ansible", func(s Settings) string { return s.AnsibleBin }},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			k := Lookup(tt.key)
			if k == nil {
				t.Fatalf("key %q not registered", tt.key)
			}
			cfg := &Config{}
			k.Set(cfg, tt.value)
			if got := k.Get(cfg); got != tt.value {
				t.Errorf("Get after Set = %q, want %q", got, tt.value)
			}
			if got := tt.get(cfg.Resolve(noEnv)); got != tt.value {
				t.Errorf("resolved %s = %q, want %q", tt.key, got, tt.value)
			}
		})
	}
}

func TestKeys_UnsetFallsBackToDefaults(t *testing.T) {
	s := (&Config{}).Resolve(func(string) string { return "" })

	want := Settings{
		LogDir:          "/var/log/ansible_audit",
		RemoteDir:       "/var/log/ansible_audit",
		AnsibleBin:      "ansible",
		LogDirDefaulted: true,
	}
	if s != want {
		t.Errorf("Resolve() = %+v, want %+v", s, want)
	}
}

func TestKeys_LogDirLosesToEnvironment(t *testing.T) {
	cfg := &Config{}
	Lookup("log-dir").Set(cfg, "/srv/audit")

	s := cfg.Resolve(func(key string) string {
		if key == EnvLogDir {
			return "/tmp/audit"
		}
		return ""
	})
	if s.LogDir != "/tmp/audit" || s.LogDirDefaulted {
		t.Errorf("expected %s to win, got %+v", EnvLogDir, s)
	}
}

func TestKeyNames(t *testing.T) {
	names := KeyNames()
	if len(names) != len(Keys) {
		t.Fatalf("expected %d names, got %d", len(Keys), len(names))
	}
	for i, name := range names {
		if name != Keys[i].Name {
			t.Errorf("index %d: expected %q, got %q", i, Keys[i].Name, name)
		}
	}
}

func TestKeysHelp_ContainsAllKeys(t *testing.T) {
	help := KeysHelp()
	if !strings.Contains(help, "Available keys:") {
		t.Error("expected 'Available keys:' header in help output")
	}
	for _, k := range Keys {
		if !strings.Contains(help, k.Name) {
			t.Errorf("expected key %q in help output", k.Name)
		}
		if !strings.Contains(help, k.Description) {
			t.Errorf("expected description %q in help output", k.Description)
		}
	}
}
