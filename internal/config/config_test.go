package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadParsesCvars(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	body := "cl_predict: false\ncl_showclamp: true\nmap_noareas: true\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Predict() {
		t.Fatalf("expected cl_predict false")
	}
	if !cfg.ClShowclamp || !cfg.MapNoareas {
		t.Fatalf("expected showclamp and noareas true, got %+v", cfg)
	}
	if cfg.ClTimedemo || cfg.SvEntfile {
		t.Fatalf("expected unset bools to default false")
	}
}

func TestPredictDefaultsTrueWhenUnset(t *testing.T) {
	cfg := &Config{}
	if !cfg.Predict() {
		t.Fatalf("expected cl_predict to default true when omitted")
	}
}

func TestInterpConfigCarriesTimedemoAndShowclamp(t *testing.T) {
	cfg := &Config{ClTimedemo: true, ClShowclamp: true}
	ic := cfg.InterpConfig(nil)
	if !ic.Timedemo || !ic.ShowClamp {
		t.Fatalf("expected derived interp.Config to carry both cvars, got %+v", ic)
	}
}
