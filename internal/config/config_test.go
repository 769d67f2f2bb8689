package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_PluginEnvironment(t *testing.T) {
	t.Setenv("hosts", "6:host1.example,A:host2.example")
	t.Setenv("names", "H1,H2")
	t.Setenv("ping_args2", "-q")
	t.Setenv("fork", "yes")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	p := cfg.Plugin
	if p.Hosts != "6:host1.example,A:host2.example" || p.Names != "H1,H2" {
		t.Fatalf("hosts/names wrong: %+v", p)
	}
	if p.Ping != "ping" || p.Ping6 != "ping6" || p.HostCommand != "host" {
		t.Fatalf("command defaults wrong: %+v", p)
	}
	if p.PingArgs != "-c 2 -w 1" || p.PingArgs2 != "-q" {
		t.Fatalf("ping args wrong: %+v", p)
	}
	if !p.ForkEnabled() {
		t.Fatalf("want fork enabled for %q", p.Fork)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Env != "prod" || cfg.Probe.Backend != BackendExec {
		t.Fatalf("defaults wrong: %+v", cfg)
	}
	if cfg.GetProbeTimeout() != 0 || cfg.Probe.MaxParallel != 0 {
		t.Fatalf("probe defaults wrong: %+v", cfg.Probe)
	}
	if cfg.GetNativeInterval() != time.Second || cfg.Probe.Native.Count != 2 {
		t.Fatalf("native defaults wrong: %+v", cfg.Probe.Native)
	}
	if len(cfg.Kafka.Brokers) != 0 || cfg.Kafka.Topic != "multiping-results" {
		t.Fatalf("kafka defaults wrong: %+v", cfg.Kafka)
	}
	if cfg.Plugin.ForkEnabled() {
		t.Fatalf("fork should be off by default")
	}
}

func TestLoad_AppEnvironment(t *testing.T) {
	t.Setenv("MULTIPING_ENV", "dev")
	t.Setenv("MULTIPING_PROBE_TIMEOUT", "7")
	t.Setenv("MULTIPING_PROBE_BACKEND", "native")
	t.Setenv("MULTIPING_KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Env != "dev" || cfg.Probe.Backend != BackendNative {
		t.Fatalf("env overrides wrong: %+v", cfg)
	}
	if cfg.GetProbeTimeout() != 7*time.Second {
		t.Fatalf("want 7s timeout, got %s", cfg.GetProbeTimeout())
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "k2:9092" {
		t.Fatalf("brokers wrong: %v", cfg.Kafka.Brokers)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "multiping.yaml")
	data := []byte("env: local\nprobe:\n  max_parallel: 4\n  native:\n    count: 5\nkafka:\n  brokers: [\"localhost:9092\"]\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Env != "local" || cfg.Probe.MaxParallel != 4 || cfg.Probe.Native.Count != 5 {
		t.Fatalf("file values wrong: %+v", cfg)
	}
	if len(cfg.Kafka.Brokers) != 1 {
		t.Fatalf("brokers wrong: %v", cfg.Kafka.Brokers)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("want error for missing config file")
	}
}

func TestLoad_UnknownBackend(t *testing.T) {
	t.Setenv("MULTIPING_PROBE_BACKEND", "carrier-pigeon")
	if _, err := Load(""); err == nil {
		t.Fatalf("want error for unknown backend")
	}
}

func TestForkEnabled(t *testing.T) {
	for value, want := range map[string]bool{
		"yes": true, "1": true, "TRUE": true, " on ": true,
		"no": false, "0": false, "": false, "off": false,
	} {
		if got := (PluginConfig{Fork: value}).ForkEnabled(); got != want {
			t.Errorf("fork=%q: want %v, got %v", value, want, got)
		}
	}
}
