package config

import (
	"testing"
	"time"
)

func TestViperFromBytes(t *testing.T) {
	raw := []byte(`
app:
  name: shopbite
  debug: true
  workers: 4
  ratio: 0.5
  timeout_seconds: 15
  hosts: "a.local, b.local,,c.local"
`)

	cfg, err := NewViperFromBytes("yaml", raw)
	if err != nil {
		t.Fatalf("init config: %v", err)
	}
	t.Cleanup(func() { cfg.Close() })

	if got := cfg.GetString("app.name"); got != "shopbite" {
		t.Fatalf("GetString = %q", got)
	}
	if !cfg.GetBool("app.debug") {
		t.Fatal("GetBool = false, want true")
	}
	if got := cfg.GetInt("app.workers"); got != 4 {
		t.Fatalf("GetInt = %d", got)
	}
	if got := cfg.GetFloat64("app.ratio"); got != 0.5 {
		t.Fatalf("GetFloat64 = %v", got)
	}
	if got := cfg.GetSecond("app.timeout_seconds"); got != 15*time.Second {
		t.Fatalf("GetSecond = %v", got)
	}

	hosts := cfg.GetArray("app.hosts")
	if len(hosts) != 3 || hosts[0] != "a.local" || hosts[1] != "b.local" || hosts[2] != "c.local" {
		t.Fatalf("GetArray = %v", hosts)
	}

	if got := cfg.GetString("app.missing"); got != "" {
		t.Fatalf("missing key should yield zero value, got %q", got)
	}
}
