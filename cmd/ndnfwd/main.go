package main

import (
	"github.com/spf13/cobra"

	"github.com/ndn-go/forwarder/fw/cmd"
	"github.com/ndn-go/forwarder/std/utils"
)

var root = &cobra.Command{
	Use:     "ndnfwd",
	Short:   "NDN forwarding daemon",
	Version: utils.Version,
}

func init() {
	root.AddGroup(&cobra.Group{ID: "run", Title: "Run:"})
	root.AddCommand(cmd.CmdRun, cmd.CmdStatus)
}

func main() {
	root.Execute()
}
