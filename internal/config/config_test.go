package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yaml")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Granularity != "daily" || c.SearchLimit != 100 || c.HistogramBins != 30 || c.HTTPAddr != ":8080" || c.AppEnv != "dev" {
		t.Fatalf("defaults = %+v", c)
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	in := &Global{
		DataPath:       "/data/prsa.csv",
		DefaultStation: "Changping",
		Granularity:    "weekly",
		SearchLimit:    25,
		HistogramBins:  12,
		HTTPAddr:       "127.0.0.1:9000",
		AppEnv:         "prod",
		LogLevel:       "debug",
	}
	if err := Save(in, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	out, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *out != *in {
		t.Fatalf("round trip = %+v, want %+v", out, in)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("default_station: Dongsi\nsearch_limit: 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("AQDASH_SEARCH_LIMIT", "42")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.DefaultStation != "Dongsi" || c.SearchLimit != 42 {
		t.Fatalf("got %+v", c)
	}
}

func TestLoad_RejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("app_env: staging\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Fatalf("expected app_env error")
	}
	broken := filepath.Join(dir, "broken.yaml")
	if err := os.WriteFile(broken, []byte("search_limit: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(broken); err == nil {
		t.Fatalf("expected parse error")
	}
}
