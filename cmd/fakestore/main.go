package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"

	"github.com/five82/shelf/internal/fakestore"
)

func main() {
	os.Exit(run())
}

func run() int {
	addr := flag.String("addr", "127.0.0.1:8099", "listen address")
	delay := flag.Duration("delay", 0, "artificial latency added to every API response")
	failStatus := flag.Int("fail", 0, "answer every API request with this HTTP status (0 disables)")
	corrupt := flag.Bool("corrupt", false, "serve malformed JSON bodies")
	flag.Parse()

	gin.SetMode(gin.ReleaseMode)

	srv := fakestore.NewDefault()
	srv.SetDelay(*delay)
	srv.SetFailStatus(*failStatus)
	srv.SetCorrupt(*corrupt)

	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("fakestore listening on http://%s", *addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Printf("fakestore: %v", err)
			return 1
		}
	case <-ctx.Done():
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("fakestore shutdown: %v", err)
		return 1
	}
	return 0
}
