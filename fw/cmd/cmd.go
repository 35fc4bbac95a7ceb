package cmd

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ndn-go/forwarder/fw/core"
	"github.com/ndn-go/forwarder/std/utils"
	"github.com/ndn-go/forwarder/std/utils/toolutils"
)

var config = core.DefaultConfig()

var CmdRun = &cobra.Command{
	Use:     "run CONFIG-FILE",
	Short:   "Run the NDN forwarding daemon",
	GroupID: "run",
	Version: utils.Version,
	Args:    cobra.ExactArgs(1),
	Run:     run,
}

// Registers command-line flags for enabling CPU, memory, and block profiling in the Core configuration by specifying output file paths.
func init() {
	CmdRun.Flags().StringVar(&config.Core.CpuProfile, "cpu-profile", "", "Write CPU profile to file")
	CmdRun.Flags().StringVar(&config.Core.MemProfile, "mem-profile", "", "Write memory profile to file")
	CmdRun.Flags().StringVar(&config.Core.BlockProfile, "block-profile", "", "Write block profile to file")
}

// Initializes and starts the forwarding daemon using the provided configuration file, handles graceful shutdown on interrupt signals, and logs the exit.
func run(cmd *cobra.Command, args []string) {
	configfile := args[0]
	config.Core.BaseDir = filepath.Dir(configfile)

	if err := toolutils.ReadYaml(config, configfile); err != nil {
		core.Log.Fatal("cmd", "failed to read config file", "file", configfile, "err", err)
	}
	core.ApplyLogLevel(config)

	d := NewDaemon(config)
	if err := d.Start(); err != nil {
		core.Log.Fatal(d, "failed to start", "err", err)
	}

	sigChannel := make(chan os.Signal, 1)
	signal.Notify(sigChannel, os.Interrupt, syscall.SIGTERM, syscall.SIGUSR1)
	for sig := range sigChannel {
		if sig == syscall.SIGUSR1 {
			utils.PrintStackTrace()
			continue
		}
		core.Log.Info(d, "Received signal - exit", "signal", sig)
		break
	}

	d.Stop()
}
