package cmd

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/ndn-go/forwarder/fw/core"
	"github.com/ndn-go/forwarder/std/utils/toolutils"
)

var statusAddr string

var CmdStatus = &cobra.Command{
	Use:     "status",
	Short:   "Print a running forwarder's status",
	GroupID: "run",
	Args:    cobra.NoArgs,
	Run:     runStatus,
}

func init() {
	CmdStatus.Flags().StringVar(&statusAddr, "addr", "http://127.0.0.1:6363/status", "status endpoint URL")
}

func runStatus(cmd *cobra.Command, args []string) {
	resp, err := http.Get(statusAddr)
	if err != nil {
		core.Log.Fatal("cmd", "failed to reach status endpoint", "addr", statusAddr, "err", err)
	}
	defer resp.Body.Close()

	var snap struct {
		Faces     int
		Interests uint64
		Data      uint64
		Drops     uint64
	}
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		core.Log.Fatal("cmd", "failed to decode status response", "err", err)
	}

	p := toolutils.StatusPrinter{File: os.Stdout, Padding: 12}
	p.Print("faces", snap.Faces)
	p.Print("interests", snap.Interests)
	p.Print("data", snap.Data)
	p.Print("drops", snap.Drops)
}
