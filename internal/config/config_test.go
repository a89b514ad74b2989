package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "displayd.conf")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.conf"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 13666 {
		t.Fatalf("want default port, got %d", cfg.Server.Port)
	}
}

func TestLoadServerSection(t *testing.T) {
	path := writeTemp(t, `
[server]
Port = 6545
Driver = console
Driver = curses
Hello = "Welcome"
Hello = "to displayd"
AutoRotate = off
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 6545 {
		t.Fatalf("got port %d", cfg.Server.Port)
	}
	if len(cfg.Server.Drivers) != 2 || cfg.Server.Drivers[0] != "console" {
		t.Fatalf("got drivers %#v", cfg.Server.Drivers)
	}
	if len(cfg.Server.Hello) != 2 {
		t.Fatalf("got hello %#v", cfg.Server.Hello)
	}
	if cfg.Server.AutoRotate {
		t.Fatalf("want AutoRotate off")
	}
}

func TestDriverSectionGetter(t *testing.T) {
	path := writeTemp(t, `
[console]
Width = 20
Height = 4
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	get := cfg.DriverGetter("console")
	if v, ok := get("Width"); !ok || v != "20" {
		t.Fatalf("got %q %v", v, ok)
	}
}

func TestParseTristate(t *testing.T) {
	cases := map[string]Tristate{
		"off": TristateOff, "0": TristateOff, "no": TristateOff,
		"on": TristateOn, "1": TristateOn, "yes": TristateOn,
		"2": TristateThird,
	}
	for in, want := range cases {
		got, _, err := ParseTristate(in, "")
		if err != nil || got != want {
			t.Fatalf("ParseTristate(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
}

func TestSplitDriverArgs(t *testing.T) {
	name, args, err := SplitDriverArgs(`console --width 20 --height 4`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "console" || len(args) != 4 {
		t.Fatalf("got %q %#v", name, args)
	}
}
