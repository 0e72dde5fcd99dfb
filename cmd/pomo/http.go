package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/CoMfUcIoS/pomo/internal/obs"
	"github.com/CoMfUcIoS/pomo/internal/web"
)

// startMetricsServer serves Prometheus metrics plus lightweight dashboard & state endpoints.
func startMetricsServer(addr string, w *watcher) {
	mux := http.NewServeMux()
	mux.Handle("/pomo/metrics", promhttp.Handler())
	mux.HandleFunc("/pomo/api/state", func(wr http.ResponseWriter, r *http.Request) {
		st := collectStats(w.store)
		wr.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(wr).Encode(st)
	})
	mux.HandleFunc("/pomo/dashboard", func(wr http.ResponseWriter, r *http.Request) {
		st := collectStats(w.store)
		wr.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := web.Render(wr, "dashboard", st.ToTemplateMap()); err != nil {
			wr.WriteHeader(http.StatusNotImplemented)
			_, _ = wr.Write([]byte("dashboard template missing"))
			return
		}
	})
	mux.HandleFunc("/healthz", func(wr http.ResponseWriter, r *http.Request) {
		wr.WriteHeader(http.StatusOK)
		_, _ = wr.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(wr http.ResponseWriter, r *http.Request) {
		if w.isClosing() || !w.isReady() {
			wr.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		wr.WriteHeader(http.StatusOK)
		_, _ = wr.Write([]byte("ready"))
	})
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		obs.Error("metrics.server", obs.Fields{"err": err.Error(), "addr": addr})
	}
}
