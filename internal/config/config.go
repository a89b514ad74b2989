// Package config loads the daemon's INI configuration file: sections
// [server] and [menu], plus one section per driver named by the
// driver (§6). No example in the dependency corpus parses INI, so this
// scanner is hand-rolled rather than grounded on a vendored library
// (see DESIGN.md); it otherwise follows the teacher's os.ReadFile-based
// loading style, with a single Load entry point.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/shlex"
)

// Server holds the [server] and [menu] sections plus the declared
// driver load order (§6 recognised keys).
type Server struct {
	Port          int
	Bind          string
	User          string
	DriverPath    string
	Drivers       []string // repeatable Driver key, declaration order
	WaitTime      int
	Foreground    bool
	ServerScreen  Tristate
	Backlight     Tristate
	Heartbeat     Tristate
	AutoRotate    bool
	TitleSpeed    int
	FrameInterval int
	ReportToSyslog bool
	ReportLevel   int
	Hello         []string
	GoodBye       []string

	ToggleRotateKey string
	PrevScreenKey   string
	NextScreenKey   string
	ScrollUpKey     string
	ScrollDownKey   string

	MenuKey        string
	EnterKey       string
	UpKey          string
	DownKey        string
	LeftKey        string
	RightKey       string
	PermissiveGoto bool
}

// Tristate is a parsed off/on/third-state INI value (§6: "0/off/false/no/n
// -> false, 1/on/true/yes/y -> true, 2 or a user-named third state ->
// the third state").
type Tristate int

const (
	TristateOff Tristate = iota
	TristateOn
	TristateThird
)

// Config is the full parsed file: the server section plus one raw
// section per driver, accessed through a ConfigGetter closure so
// drivers stay decoupled from this package's types (matches
// internal/driver.ConfigGetter).
type Config struct {
	Server  Server
	drivers map[string]map[string][]string
}

// DriverGetter returns a closure internal/driver.Load can pass a driver
// constructor: it reads the single most-recently-declared value for key
// from that driver's section.
func (c *Config) DriverGetter(name string) func(key string) (string, bool) {
	return func(key string) (string, bool) {
		vals, ok := c.drivers[name][key]
		if !ok || len(vals) == 0 {
			return "", false
		}
		return vals[len(vals)-1], true
	}
}

// Default returns a Config with the spec's documented defaults applied
// where the file is silent.
func Default() *Config {
	return &Config{
		Server: Server{
			Port:          13666,
			Bind:          "0.0.0.0",
			WaitTime:      8,
			AutoRotate:    true,
			TitleSpeed:    1,
			FrameInterval: 125,
			ReportLevel:   2,
			ToggleRotateKey: "",
			MenuKey:         "Menu",
			EnterKey:        "Enter",
			UpKey:           "Up",
			DownKey:         "Down",
			LeftKey:         "Left",
			RightKey:        "Right",
		},
		drivers: map[string]map[string][]string{},
	}
}

// Load reads path and merges it over Default(). A missing file is not
// an error — matches the teacher's LoadFrom "no file -> empty config"
// behaviour, since a freshly installed daemon should still start.
func Load(path string) (*Config, error) {
	cfg := Default()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	defer f.Close()
	if err := parseInto(cfg, f); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func parseInto(cfg *Config, f *os.File) error {
	scanner := bufio.NewScanner(f)
	section := "server"
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			continue
		}
		key, val, ok := splitKV(line)
		if !ok {
			return fmt.Errorf("line %d: expected key=value, got %q", lineNo, line)
		}
		if err := cfg.apply(section, key, val); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	return scanner.Err()
}

func splitKV(line string) (key, val string, ok bool) {
	i := strings.IndexAny(line, "=")
	if i < 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:]), true
}

func (c *Config) apply(section, key, val string) error {
	switch section {
	case "server":
		return c.applyServer(key, val)
	case "menu":
		return c.applyMenu(key, val)
	default:
		if c.drivers[section] == nil {
			c.drivers[section] = map[string][]string{}
		}
		c.drivers[section][key] = append(c.drivers[section][key], val)
		return nil
	}
}

func (c *Config) applyServer(key, val string) error {
	s := &c.Server
	switch key {
	case "Port":
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("Port: %w", err)
		}
		s.Port = n
	case "Bind":
		s.Bind = val
	case "User":
		s.User = val
	case "DriverPath":
		s.DriverPath = val
	case "Driver":
		s.Drivers = append(s.Drivers, val)
	case "WaitTime":
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("WaitTime: %w", err)
		}
		s.WaitTime = n
	case "Foreground":
		b, _, err := ParseTristate(val, "")
		if err != nil {
			return err
		}
		s.Foreground = b == TristateOn
	case "ServerScreen":
		t, _, err := ParseTristate(val, "blank")
		if err != nil {
			return err
		}
		s.ServerScreen = t
	case "Backlight":
		t, _, err := ParseTristate(val, "")
		if err != nil {
			return err
		}
		s.Backlight = t
	case "Heartbeat":
		t, _, err := ParseTristate(val, "")
		if err != nil {
			return err
		}
		s.Heartbeat = t
	case "AutoRotate":
		t, _, err := ParseTristate(val, "")
		if err != nil {
			return err
		}
		s.AutoRotate = t == TristateOn
	case "TitleSpeed":
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("TitleSpeed: %w", err)
		}
		s.TitleSpeed = n
	case "FrameInterval":
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("FrameInterval: %w", err)
		}
		s.FrameInterval = n
	case "ReportToSyslog":
		t, _, err := ParseTristate(val, "")
		if err != nil {
			return err
		}
		s.ReportToSyslog = t == TristateOn
	case "ReportLevel":
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("ReportLevel: %w", err)
		}
		s.ReportLevel = n
	case "Hello":
		s.Hello = append(s.Hello, val)
	case "GoodBye":
		s.GoodBye = append(s.GoodBye, val)
	case "ToggleRotateKey":
		s.ToggleRotateKey = val
	case "PrevScreenKey":
		s.PrevScreenKey = val
	case "NextScreenKey":
		s.NextScreenKey = val
	case "ScrollUpKey":
		s.ScrollUpKey = val
	case "ScrollDownKey":
		s.ScrollDownKey = val
	default:
		return fmt.Errorf("unknown [server] key %q", key)
	}
	return nil
}

func (c *Config) applyMenu(key, val string) error {
	s := &c.Server
	switch key {
	case "MenuKey":
		s.MenuKey = val
	case "EnterKey":
		s.EnterKey = val
	case "UpKey":
		s.UpKey = val
	case "DownKey":
		s.DownKey = val
	case "LeftKey":
		s.LeftKey = val
	case "RightKey":
		s.RightKey = val
	case "PermissiveGoto":
		t, _, err := ParseTristate(val, "")
		if err != nil {
			return err
		}
		s.PermissiveGoto = t == TristateOn
	default:
		return fmt.Errorf("unknown [menu] key %q", key)
	}
	return nil
}

// ParseTristate implements the §6 tristate grammar. thirdName, if
// non-empty, is accepted as a case-insensitive alias for the third
// state in addition to the literal "2".
func ParseTristate(val, thirdName string) (Tristate, string, error) {
	switch strings.ToLower(val) {
	case "0", "off", "false", "no", "n":
		return TristateOff, "", nil
	case "1", "on", "true", "yes", "y":
		return TristateOn, "", nil
	case "2":
		return TristateThird, "", nil
	}
	if thirdName != "" && strings.EqualFold(val, thirdName) {
		return TristateThird, thirdName, nil
	}
	return 0, "", fmt.Errorf("not a tristate value: %q", val)
}

// SplitDriverArgs splits a `Driver <name> <args...>` config value into
// argv using shell-style word splitting, the same library the teacher
// used to split shell commands before that concern was retired for this
// domain (see DESIGN.md).
func SplitDriverArgs(val string) (name string, args []string, err error) {
	fields, err := shlex.Split(val)
	if err != nil {
		return "", nil, err
	}
	if len(fields) == 0 {
		return "", nil, fmt.Errorf("empty Driver value")
	}
	return fields[0], fields[1:], nil
}
