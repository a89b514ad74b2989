// Command displayd is a character-cell display server: clients connect
// over TCP, declare screens and widgets with a line protocol, and the
// daemon renders one screen at a time to a loaded output driver,
// rotating by priority and routing hardware keys back to clients and
// its own menu tree.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	_ "displayd/internal/driver/console"

	"displayd/internal/config"
	"displayd/internal/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		drivers    []string
		foreground bool
		addr       string
		port       int
		user       string
		waitTime   int
		syslog     bool
		reportLvl  int
		rotate     bool
	)

	cmd := &cobra.Command{
		Use:   "displayd",
		Short: "Character-cell display server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			applyFlagOverrides(cfg, cmd.Flags(), drivers, foreground, addr, port, user, waitTime, syslog, reportLvl, rotate)

			stateDir := os.TempDir()
			logger := log.New(os.Stderr, "displayd: ", log.LstdFlags)
			srv := server.New(cfg, stateDir, logger)
			return srv.Run()
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "/etc/displayd.conf", "configuration file")
	flags.StringArrayVarP(&drivers, "driver", "d", nil, "output driver to load (repeatable)")
	flags.BoolVarP(&foreground, "foreground", "f", false, "run in the foreground")
	flags.StringVarP(&addr, "addr", "a", "", "bind address")
	flags.IntVarP(&port, "port", "p", 0, "listen port")
	flags.StringVarP(&user, "user", "u", "", "drop privileges to this user")
	flags.IntVarP(&waitTime, "waittime", "w", 0, "seconds to wait for a driver at startup")
	flags.BoolVarP(&syslog, "syslog", "s", false, "report to syslog")
	flags.IntVarP(&reportLvl, "reportlevel", "r", -1, "log verbosity 0..5")
	flags.BoolVarP(&rotate, "rotate", "i", true, "enable screen autorotation")

	return cmd
}

// applyFlagOverrides layers explicitly-set CLI flags over the loaded
// config, per spec.md §6 (flags win over the config file).
func applyFlagOverrides(cfg *config.Config, flags *pflag.FlagSet, drivers []string, foreground bool, addr string, port int, user string, waitTime int, syslog bool, reportLvl int, rotate bool) {
	if flags.Changed("driver") {
		cfg.Server.Drivers = drivers
	}
	if flags.Changed("foreground") {
		cfg.Server.Foreground = foreground
	}
	if flags.Changed("addr") {
		cfg.Server.Bind = addr
	}
	if flags.Changed("port") {
		cfg.Server.Port = port
	}
	if flags.Changed("user") {
		cfg.Server.User = user
	}
	if flags.Changed("waittime") {
		cfg.Server.WaitTime = waitTime
	}
	if flags.Changed("syslog") {
		cfg.Server.ReportToSyslog = syslog
	}
	if flags.Changed("reportlevel") {
		cfg.Server.ReportLevel = reportLvl
	}
	if flags.Changed("rotate") {
		cfg.Server.AutoRotate = rotate
	}
}
