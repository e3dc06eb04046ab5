package stdout

import (
	"bufio"
	"encoding/json"
	"io"
	"testing"

	"github.com/echowaves/chat/server/push"
)

func TestStdoutPush(t *testing.T) {
	pr, pw := io.Pipe()
	handler.out = pw

	ok, err := handler.Init(json.RawMessage(`{"enabled":true,"buffer":4}`))
	if !ok || err != nil {
		t.Fatalf("Init: %v, %v", ok, err)
	}
	if !handler.IsReady() {
		t.Fatal("handler not ready")
	}
	if _, err := handler.Init(json.RawMessage(`{"enabled":true}`)); err == nil {
		t.Error("second Init must fail")
	}

	handler.Push() <- &push.Receipt{Channel: "conv", Payload: push.Payload{What: push.ActRead}}

	line, err := bufio.NewReader(pr).ReadString('\n')
	if err != nil {
		t.Fatal(err)
	}
	var got push.Receipt
	if err := json.Unmarshal([]byte(line), &got); err != nil {
		t.Fatalf("output is not JSON: %s", line)
	}
	if got.Channel != "conv" || got.Payload.What != push.ActRead {
		t.Errorf("unexpected receipt: %+v", got)
	}

	handler.Stop()
}
