// Package main is the conversation membership and moderation server. It loads the
// configuration, opens the database, initializes attachment, push and moderation
// subsystems and serves server status over HTTP.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"io"
	"net/http"
	"os"
	"runtime"
	"strings"

	"github.com/echowaves/chat/server/logs"
	"github.com/echowaves/chat/server/metrics"
	"github.com/echowaves/chat/server/moderation"
	"github.com/echowaves/chat/server/push"
	"github.com/echowaves/chat/server/store"
	"github.com/gorilla/handlers"
	jcr "github.com/tinode/jsonco"

	// Attachment handlers.
	_ "github.com/echowaves/chat/server/media/fs"
	_ "github.com/echowaves/chat/server/media/s3"

	// Push notifications.
	_ "github.com/echowaves/chat/server/push/nats"
	_ "github.com/echowaves/chat/server/push/stdout"
)

const (
	// Server version.
	currentVersion = "0.3"

	defaultListen      = ":6060"
	defaultMetricsPath = "/metrics"
	defaultHealthPath  = "/healthz"
)

// Build timestamp defined by the compiler.
var buildstamp = ""

type mediaConfig struct {
	// The name of the handler to use for attachments.
	UseHandler string `json:"use_handler"`
	// Individual handler config params to pass to handlers unchanged.
	Handlers map[string]json.RawMessage `json:"handlers"`
}

// Contents of the configuration file.
type configType struct {
	// HTTP(S) address:port to listen on for status requests.
	Listen string `json:"listen"`
	// URL path for exposing runtime stats in prometheus format. Default: "/metrics".
	MetricsPath string `json:"metrics_path"`
	// Comma-separated flags of the standard logger.
	LogFlags string `json:"log_flags"`
	// ID of this server instance used by the unique ID generator, 0..1023.
	WorkerId int `json:"worker_id"`

	// Configs for subsystems
	StoreConfig json.RawMessage `json:"store_config"`
	Media       *mediaConfig    `json:"media"`
	Push        json.RawMessage `json:"push"`
	Moderation  json.RawMessage `json:"moderation"`
}

// parseConfig reads configuration which may contain comments.
func parseConfig(r io.Reader) (*configType, error) {
	var config configType
	jr := jcr.New(r)
	if err := json.NewDecoder(jr).Decode(&config); err != nil {
		switch jerr := err.(type) {
		case *json.UnmarshalTypeError:
			lnum, cnum, _ := jr.LineAndChar(jerr.Offset)
			return nil, errors.New("unmarshal error in config file in " + jerr.Field + " at " +
				itoa(lnum) + ":" + itoa(cnum) + ": " + jerr.Error())
		case *json.SyntaxError:
			lnum, cnum, _ := jr.LineAndChar(jerr.Offset)
			return nil, errors.New("syntax error in config file at " +
				itoa(lnum) + ":" + itoa(cnum) + ": " + jerr.Error())
		default:
			return nil, errors.New("failed to parse config file: " + err.Error())
		}
	}

	if config.Listen == "" {
		config.Listen = defaultListen
	}
	if config.MetricsPath == "" {
		config.MetricsPath = defaultMetricsPath
	} else if !strings.HasPrefix(config.MetricsPath, "/") {
		config.MetricsPath = "/" + config.MetricsPath
	}
	return &config, nil
}

func main() {
	executable, _ := os.Executable()

	var configfile = flag.String("config", "convo.conf", "Path to config file.")
	var listenOn = flag.String("listen", "", "Override address and port to listen on for status requests.")
	var logFlags = flag.String("log_flags", "", "Comma-separated list of log flags (as defined in https://golang.org/pkg/log/#pkg-constants without the L prefix)")
	flag.Parse()

	file, err := os.Open(*configfile)
	if err != nil {
		logs.Err.Fatal("Failed to read config file: ", err)
	}
	config, err := parseConfig(file)
	file.Close()
	if err != nil {
		logs.Err.Fatal(err)
	}

	if *logFlags != "" {
		config.LogFlags = *logFlags
	}
	logs.Init(os.Stderr, config.LogFlags)

	logs.Info.Printf("Server v%s:%s:%s; pid %d; %d process(es)",
		currentVersion, executable, buildstamp, os.Getpid(), runtime.GOMAXPROCS(runtime.NumCPU()))
	logs.Info.Printf("Using config from '%s'", *configfile)

	if *listenOn != "" {
		config.Listen = *listenOn
	}

	err = store.Store.Open(config.WorkerId, config.StoreConfig)
	logs.Info.Println("DB adapter", store.Store.GetAdapterName(), store.Store.GetAdapterVersion())
	if err != nil {
		logs.Err.Fatal("Failed to connect to DB: ", err)
	}
	defer func() {
		store.Store.Close()
		logs.Info.Println("Closed database connection(s)")
	}()

	if config.Media != nil && config.Media.UseHandler != "" {
		if err = store.Store.UseMediaHandler(config.Media.UseHandler,
			string(config.Media.Handlers[config.Media.UseHandler])); err != nil {
			logs.Err.Fatalf("Failed to init media handler '%s': %s", config.Media.UseHandler, err)
		}
		logs.Info.Println("Media handler:", config.Media.UseHandler)
	} else {
		logs.Warn.Println("Media handler is not configured, attachments of removed messages stay accessible")
	}

	enabledPush, err := push.Init(config.Push)
	if err != nil {
		logs.Err.Fatal("Failed to initialize push notifications: ", err)
	}
	defer push.Stop()
	logs.Info.Printf("Enabled push handlers: %s", strings.Join(enabledPush, ", "))

	if err = moderation.Init(config.Moderation); err != nil {
		logs.Err.Fatal("Failed to initialize moderation: ", err)
	}
	defer moderation.Shutdown()

	if err = metrics.RegisterServer(currentVersion, store.Store.IsOpen, store.Store.DbStats()); err != nil {
		logs.Err.Fatal("Failed to register metrics: ", err)
	}

	mux := http.NewServeMux()
	mux.Handle(config.MetricsPath, metrics.Handler())
	mux.HandleFunc(defaultHealthPath, serveHealth)
	logs.Info.Printf("Metrics at '%s', health check at '%s'", config.MetricsPath, defaultHealthPath)

	if err = listenAndServe(config.Listen, handlers.CombinedLoggingHandler(os.Stdout, mux), signalHandler()); err != nil {
		logs.Err.Fatal(err)
	}
	logs.Info.Println("All done, good bye")
}
