package config

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tu "aashub/internal/testutil"
)

// clearEnv unsets every variable applyEnv reads for the test's duration.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"AASHUB_ADDR", "SERVER_ADDRESS", "AASHUB_LOG_LEVEL", "AASHUB_DB_DRIVER", "AASHUB_DB_DSN",
		"AASHUB_JWT_SECRET", "MAIL_ADDRESS", "MAIL_PASSWORD", "MAIL_SMTP", "SMTP_PORT", "VERIFICATION_ENABLED",
	} {
		t.Cleanup(tu.WithEnv(t, k, ""))
	}
}

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	tmp := t.TempDir()
	clearEnv(t)
	defer tu.WithEnv(t, "HOME", tmp)()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Server.Addr != "0.0.0.0:3000" || cfg.UI.Mount != "#app" || cfg.Database.Driver != "sqlite" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if want := filepath.Join(tmp, ".aashub", "aashub.db"); cfg.Database.DSN != want {
		t.Fatalf("DSN = %q, want %q", cfg.Database.DSN, want)
	}
	if ttl, _ := cfg.Auth.TTL(); ttl != 24*time.Hour {
		t.Fatalf("TTL = %v", ttl)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	tmp := t.TempDir()
	clearEnv(t)
	p := filepath.Join(tmp, "config.yaml")
	yml := "server:\n  addr: 127.0.0.1:9000\nui:\n  title: Hub\n  theme: dark\ndatabase:\n  driver: mysql\n  dsn: user:pw@tcp(db)/aashub\nverification:\n  enabled: true\n"
	if err := os.WriteFile(p, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	defer tu.WithEnv(t, "AASHUB_ADDR", "0.0.0.0:8080")()
	defer tu.WithEnv(t, "SMTP_PORT", "587")()
	defer tu.WithEnv(t, "VERIFICATION_ENABLED", "false")()

	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Server.Addr != "0.0.0.0:8080" {
		t.Fatalf("env must override file, got %q", cfg.Server.Addr)
	}
	if cfg.UI.Title != "Hub" || cfg.UI.Theme != "dark" || cfg.UI.Mount != "#app" {
		t.Fatalf("unexpected ui: %+v", cfg.UI)
	}
	if cfg.Database.Driver != "mysql" || cfg.Database.DSN != "user:pw@tcp(db)/aashub" {
		t.Fatalf("unexpected database: %+v", cfg.Database)
	}
	if cfg.Mail.SMTPPort != 587 || cfg.Verification.Enabled {
		t.Fatalf("unexpected env overrides: %+v %+v", cfg.Mail, cfg.Verification)
	}
}

func TestLoad_InvalidSettings(t *testing.T) {
	tmp := t.TempDir()
	clearEnv(t)
	cases := map[string]string{
		"driver":  "database:\n  driver: postgres\n",
		"ttl":     "auth:\n  token_ttl: forever\n",
		"cost":    "auth:\n  bcrypt_cost: 2\n",
		"level":   "log:\n  level: loud\n",
		"yaml":    "server: [\n",
		"address": "server:\n  addr: \"\"\n",
	}
	for name, yml := range cases {
		t.Run(name, func(t *testing.T) {
			p := filepath.Join(tmp, name+".yaml")
			if err := os.WriteFile(p, []byte(yml), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(p); err == nil {
				t.Fatalf("expected error for %s", name)
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	tmp := t.TempDir()
	clearEnv(t)
	if err := LoadEnvFile(filepath.Join(tmp, "missing.env")); err != nil {
		t.Fatalf("missing env file must be ignored: %v", err)
	}
	p := filepath.Join(tmp, ".env")
	if err := os.WriteFile(p, []byte("MAIL_SMTP=smtp.example.com\nVERIFICATION_ENABLED=true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := LoadEnvFile(p); err != nil {
		t.Fatalf("LoadEnvFile error: %v", err)
	}
	cfg, err := Load(filepath.Join(tmp, "none.yaml"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Mail.SMTPHost != "smtp.example.com" || !cfg.Verification.Enabled {
		t.Fatalf("env file not applied: %+v %+v", cfg.Mail, cfg.Verification)
	}
}

func TestLoadSecret(t *testing.T) {
	tmp := t.TempDir()
	if s, err := (AuthConfig{Secret: "inline"}).LoadSecret(); err != nil || s != "inline" {
		t.Fatalf("inline secret: %q %v", s, err)
	}
	p := filepath.Join(tmp, "privatekey.txt")
	if err := os.WriteFile(p, []byte("  filesecret\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if s, err := (AuthConfig{SecretFile: p}).LoadSecret(); err != nil || s != "filesecret" {
		t.Fatalf("file secret: %q %v", s, err)
	}
	if _, err := (AuthConfig{}).LoadSecret(); err == nil {
		t.Fatalf("expected error without secret")
	}
}

func TestSaveThenLoad(t *testing.T) {
	tmp := t.TempDir()
	clearEnv(t)
	p := filepath.Join(tmp, "nested", "config.yaml")
	in := Default()
	in.UI.Title = "Saved"
	in.Database.DSN = "file.db"
	if err := Save(p, in); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	out, err := Load(p)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if out.UI.Title != "Saved" || out.Database.DSN != "file.db" {
		t.Fatalf("unexpected config: %+v", out)
	}
}

func TestSchema(t *testing.T) {
	b, err := MarshalSchema(Schema())
	if err != nil {
		t.Fatalf("MarshalSchema error: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("schema is not JSON: %v", err)
	}
	props, ok := m["properties"].(map[string]any)
	if !ok {
		t.Fatalf("schema has no properties: %s", b)
	}
	for _, k := range []string{"server", "ui", "database", "auth", "mail", "verification"} {
		if _, ok := props[k]; !ok {
			t.Fatalf("schema missing %q", k)
		}
	}
	if !strings.Contains(string(b), "mysql") {
		t.Fatalf("expected driver enum in schema")
	}
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	tmp := t.TempDir()
	clearEnv(t)
	p := filepath.Join(tmp, "config.yaml")
	if err := os.WriteFile(p, []byte("ui:\n  title: One\ndatabase:\n  dsn: x.db\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	got := make(chan Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, p, func(c Config, err error) {
			if err == nil {
				got <- c
			}
		})
	}()

	// give the watcher time to register before writing
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(p, []byte("ui:\n  title: Two\ndatabase:\n  dsn: x.db\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case c := <-got:
		if c.UI.Title != "Two" {
			t.Fatalf("reloaded title = %q", c.UI.Title)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("no reload after write")
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Watch error: %v", err)
	}
}
