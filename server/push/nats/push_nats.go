// Package nats implements push notifications by publishing receipts to NATS.
// Every receipt is published as JSON to the subject "<prefix>.<conversation id>"
// so subscribers can listen to a single conversation or to all of them with "<prefix>.*".
package nats

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/echowaves/chat/server/logs"
	"github.com/echowaves/chat/server/push"
	libnats "github.com/nats-io/nats.go"
)

var handler natsPush

const (
	defaultBuffer  = 1024
	defaultPrefix  = "convo"
	defaultTimeout = 5 * time.Second
)

// publisher is the subset of *nats.Conn used by the handler.
type publisher interface {
	Publish(subj string, data []byte) error
	Drain() error
}

type natsPush struct {
	initialized bool
	input       chan *push.Receipt
	stop        chan bool
	done        chan struct{}

	prefix string
	conn   publisher
}

type configType struct {
	Enabled bool `json:"enabled"`
	// NATS server URL, nats://127.0.0.1:4222 by default.
	URL string `json:"url"`
	// Subject prefix.
	Prefix string `json:"prefix"`
	Buffer int    `json:"buffer"`
	// Connection name reported to the NATS server.
	Name string `json:"name"`
	// Connect timeout in seconds.
	Timeout int `json:"timeout"`
}

// Init initializes the handler
func (*natsPush) Init(jsonconf json.RawMessage) (bool, error) {
	if handler.initialized {
		return false, errors.New("already initialized")
	}

	var config configType
	if err := json.Unmarshal(jsonconf, &config); err != nil {
		return false, errors.New("failed to parse config: " + err.Error())
	}

	handler.initialized = true

	if !config.Enabled {
		return false, nil
	}

	if config.URL == "" {
		config.URL = libnats.DefaultURL
	}
	timeout := defaultTimeout
	if config.Timeout > 0 {
		timeout = time.Duration(config.Timeout) * time.Second
	}

	opts := []libnats.Option{
		libnats.Timeout(timeout),
		libnats.MaxReconnects(-1),
		libnats.DisconnectErrHandler(func(_ *libnats.Conn, err error) {
			if err != nil {
				logs.Warn.Println("push nats: disconnected", err)
			}
		}),
		libnats.ReconnectHandler(func(nc *libnats.Conn) {
			logs.Info.Println("push nats: reconnected to", nc.ConnectedUrl())
		}),
	}
	if config.Name != "" {
		opts = append(opts, libnats.Name(config.Name))
	}

	nc, err := libnats.Connect(config.URL, opts...)
	if err != nil {
		return false, err
	}

	handler.start(nc, config.Prefix, config.Buffer)
	return true, nil
}

// start launches the publishing goroutine.
func (h *natsPush) start(conn publisher, prefix string, buffer int) {
	if prefix == "" {
		prefix = defaultPrefix
	}
	if buffer <= 0 {
		buffer = defaultBuffer
	}

	h.conn = conn
	h.prefix = prefix
	h.input = make(chan *push.Receipt, buffer)
	h.stop = make(chan bool, 1)
	h.done = make(chan struct{})

	go func() {
		defer close(h.done)
		for {
			select {
			case rcpt := <-h.input:
				if err := h.publish(rcpt); err != nil {
					logs.Warn.Println("push nats: failed to publish", err)
				}
			case <-h.stop:
				if err := h.conn.Drain(); err != nil {
					logs.Warn.Println("push nats: drain", err)
				}
				return
			}
		}
	}()
}

// Subject returns the subject receipts of the conversation are published to.
func (h *natsPush) Subject(conv string) string {
	return h.prefix + "." + conv
}

func (h *natsPush) publish(rcpt *push.Receipt) error {
	if rcpt == nil || rcpt.Channel == "" {
		return errors.New("receipt has no conversation")
	}
	data, err := json.Marshal(rcpt)
	if err != nil {
		return err
	}
	return h.conn.Publish(h.Subject(rcpt.Channel), data)
}

// IsReady checks if the handler is initialized.
func (*natsPush) IsReady() bool {
	return handler.input != nil
}

// Push returns a channel that the server will use to send messages to.
// If the adapter blocks, the message will be dropped.
func (*natsPush) Push() chan<- *push.Receipt {
	return handler.input
}

// Stop drains the connection and terminates the handler's worker.
func (*natsPush) Stop() {
	handler.stop <- true
	<-handler.done
}

func init() {
	push.Register("nats", &handler)
}
