package nats

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/echowaves/chat/server/push"
	"github.com/google/go-cmp/cmp"
)

type published struct {
	subject string
	data    []byte
}

type fakeConn struct {
	mu      sync.Mutex
	msgs    []published
	fail    error
	drained bool
	sent    chan struct{}
}

func (c *fakeConn) Publish(subj string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail == nil {
		c.msgs = append(c.msgs, published{subj, data})
	}
	c.sent <- struct{}{}
	return c.fail
}

func (c *fakeConn) Drain() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drained = true
	return nil
}

func TestPublish(t *testing.T) {
	conn := &fakeConn{sent: make(chan struct{}, 4)}
	h := &natsPush{}
	h.start(conn, "", 0)

	if h.prefix != defaultPrefix || cap(h.input) != defaultBuffer {
		t.Errorf("defaults not applied: '%s' %d", h.prefix, cap(h.input))
	}

	rcpt := &push.Receipt{Channel: "abc", Payload: push.Payload{What: push.ActMsg, Conversation: "abc", From: "usr"}}
	h.input <- rcpt

	select {
	case <-conn.sent:
	case <-time.After(time.Second):
		t.Fatal("receipt was not published")
	}

	h.stop <- true
	<-h.done

	if !conn.drained {
		t.Error("connection not drained on stop")
	}
	if len(conn.msgs) != 1 {
		t.Fatalf("expected 1 published message, got %d", len(conn.msgs))
	}
	if conn.msgs[0].subject != "convo.abc" {
		t.Errorf("subject: got '%s'", conn.msgs[0].subject)
	}
	var got push.Receipt
	if err := json.Unmarshal(conn.msgs[0].data, &got); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(rcpt.Payload, got.Payload); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestPublishErrors(t *testing.T) {
	conn := &fakeConn{sent: make(chan struct{}, 4), fail: errors.New("no responders")}
	h := &natsPush{conn: conn, prefix: "p"}

	if err := h.publish(&push.Receipt{}); err == nil {
		t.Error("receipt without conversation accepted")
	}
	if err := h.publish(nil); err == nil {
		t.Error("nil receipt accepted")
	}
	if err := h.publish(&push.Receipt{Channel: "c"}); err == nil {
		t.Error("publish error swallowed")
	}
	if h.Subject("xyz") != "p.xyz" {
		t.Errorf("subject: got '%s'", h.Subject("xyz"))
	}
}

func TestInitDisabled(t *testing.T) {
	saved := handler
	defer func() { handler = saved }()
	handler = natsPush{}

	ok, err := handler.Init(json.RawMessage(`{"enabled":false}`))
	if ok || err != nil {
		t.Errorf("disabled handler: %v, %v", ok, err)
	}
	if _, err := handler.Init(json.RawMessage(`{"enabled":false}`)); err == nil {
		t.Error("second Init must fail")
	}
	if handler.IsReady() {
		t.Error("disabled handler must not be ready")
	}
}
