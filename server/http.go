package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/echowaves/chat/server/logs"
	"github.com/echowaves/chat/server/store"
	"github.com/echowaves/chat/server/store/types"
)

// How long to wait for in-flight requests on shutdown.
const shutdownTimeout = 5 * time.Second

func listenAndServe(addr string, handler http.Handler, stop <-chan bool) error {
	shuttingDown := false

	httpdone := make(chan bool)

	server := &http.Server{Addr: addr, Handler: handler}

	go func() {
		logs.Info.Printf("Listening for HTTP connections on [%s]", server.Addr)
		err := server.ListenAndServe()
		if err != nil {
			if shuttingDown {
				logs.Info.Println("HTTP server: stopped")
			} else {
				logs.Err.Println("HTTP server: failed", err)
			}
		}
		httpdone <- true
	}()

	// Wait for either a termination signal or an error
loop:
	for {
		select {
		case <-stop:
			// Flip the flag that we are terminating and close the Accept-ing socket, so no new connections are possible.
			shuttingDown = true
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			err := server.Shutdown(ctx)
			cancel()
			if err != nil {
				// Failure/timeout shutting down the server gracefully.
				return err
			}

			// Wait for http server to stop Accept()-ing connections.
			<-httpdone
			break loop

		case <-httpdone:
			break loop
		}
	}
	return nil
}

func signalHandler() <-chan bool {
	stop := make(chan bool)

	signchan := make(chan os.Signal, 1)
	signal.Notify(signchan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		// Wait for a signal. Don't care which signal it is.
		sig := <-signchan
		logs.Info.Printf("Signal received: '%s', shutting down", sig)
		stop <- true
	}()

	return stop
}

type healthStatus struct {
	Status    string    `json:"status"`
	Adapter   string    `json:"adapter,omitempty"`
	DbVersion int       `json:"db_version,omitempty"`
	Timestamp time.Time `json:"ts"`
}

// serveHealth reports if the database connection is open.
func serveHealth(wrt http.ResponseWriter, req *http.Request) {
	status := healthStatus{Status: "ok", Timestamp: types.TimeNow()}
	code := http.StatusOK
	if store.Store.IsOpen() {
		status.Adapter = store.Store.GetAdapterName()
		status.DbVersion = store.Store.GetDbVersion()
	} else {
		status.Status = "db unavailable"
		code = http.StatusServiceUnavailable
	}

	wrt.Header().Set("Content-Type", "application/json; charset=utf-8")
	wrt.WriteHeader(code)
	json.NewEncoder(wrt).Encode(&status)
}

func itoa(val int) string {
	return strconv.Itoa(val)
}
