package app

import (
	"context"
	"net/http"
	"time"

	"github.com/studenton/studenton/internal/metrics"
	"github.com/studenton/studenton/internal/store"
)

type HTTPServer struct {
	srv *http.Server
}

// StartHTTP serves the operational endpoints: /healthz pings the
// persistence handle, /metrics exposes prometheus. Shuts down when ctx is
// cancelled.
func StartHTTP(ctx context.Context, addr string, st *store.Store) *HTTPServer {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := st.Ping(); err != nil {
			http.Error(w, "storage not ok: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	})

	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		_ = srv.ListenAndServe()
	}()

	go func() {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
	}()

	return &HTTPServer{srv: srv}
}
