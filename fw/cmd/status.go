package cmd

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/gorilla/schema"

	"github.com/ndn-go/forwarder/fw/core"
)

var statusDecoder = schema.NewDecoder()

// statusQuery holds the optional query parameters accepted by /status:
// pretty=true indents the JSON response. Any other query key is rejected
// with 400 Bad Request.
type statusQuery struct {
	Pretty bool `schema:"pretty"`
}

// startStatusServer brings up the HTTP status endpoint declared by
// Config.Core.StatusListen, serving the forwarder's Snapshot as JSON.
func (d *Daemon) startStatusServer() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", d.handleStatus)

	ln, err := net.Listen("tcp", d.cfg.Core.StatusListen)
	if err != nil {
		return err
	}

	d.statusSv = &http.Server{Handler: mux}
	go func() {
		if err := d.statusSv.Serve(ln); err != nil && err != http.ErrServerClosed {
			core.Log.Warn("daemon", "status server exited", "err", err)
		}
	}()
	core.Log.Info("daemon", "status endpoint listening", "addr", d.cfg.Core.StatusListen)
	return nil
}

func (d *Daemon) handleStatus(w http.ResponseWriter, r *http.Request) {
	var q statusQuery
	if err := r.ParseForm(); err == nil {
		if err := statusDecoder.Decode(&q, r.Form); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	snap := d.fwd.Snapshot()

	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	if q.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(snap); err != nil {
		core.Log.Warn("daemon", "failed to write status response", "err", err)
	}
}
