package validate

import (
	"strings"
	"testing"
)

func TestSignUp(t *testing.T) {
	cases := []struct {
		name  string
		req   SignUp
		valid bool
		want  string
	}{
		{"ok", SignUp{Login: "alice.b-c_d@x", Name: "Alice", Email: "alice@example.com"}, true, ""},
		{"short login", SignUp{Login: "al", Email: "alice@example.com"}, false, "login is too short"},
		{"bad login", SignUp{Login: "alice smith", Email: "alice@example.com"}, false, "login use only"},
		{"bad name", SignUp{Login: "alice", Name: "<b>", Email: "alice@example.com"}, false, "name avoid"},
		{"bad email", SignUp{Login: "alice", Email: "not-an-email"}, false, "email should look like"},
		{"honeypot", SignUp{Login: "alice", Email: "alice@example.com", Something: "spam"}, false, "something must be blank"},
	}
	for _, tc := range cases {
		err := Struct(&tc.req)
		if tc.valid {
			if err != nil {
				t.Errorf("%s: unexpected error %v", tc.name, err)
			}
			continue
		}
		if err == nil {
			t.Errorf("%s: expected an error", tc.name)
		} else if !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: error '%v' does not mention '%s'", tc.name, err, tc.want)
		}
	}
}

func TestPostMessage(t *testing.T) {
	ok := PostMessage{User: "u", Conversation: "c", Body: "hello"}
	if err := Struct(&ok); err != nil {
		t.Errorf("valid message rejected: %v", err)
	}

	withFile := ok
	withFile.AttachmentType = "image/png"
	withFile.AttachmentSize = 1024
	if err := Struct(&withFile); err != nil {
		t.Errorf("valid attachment rejected: %v", err)
	}

	withFile.AttachmentType = "application/x-msdownload"
	if err := Struct(&withFile); err == nil {
		t.Error("executable attachment accepted")
	}

	withFile.AttachmentType = "image/png"
	withFile.AttachmentSize = MaxAttachmentSize + 1
	if err := Struct(&withFile); err == nil {
		t.Error("oversized attachment accepted")
	}

	empty := PostMessage{User: "u", Conversation: "c"}
	if err := Struct(&empty); err == nil || !strings.Contains(err.Error(), "body is required") {
		t.Errorf("empty body: got %v", err)
	}
}

func TestTag(t *testing.T) {
	if err := Struct(&Tag{Conversation: "c", Tags: []string{"news"}}); err != nil {
		t.Errorf("valid tag rejected: %v", err)
	}
	if err := Struct(&Tag{Conversation: "c", Tags: []string{""}}); err == nil {
		t.Error("empty tag accepted")
	}
	if err := Struct(&Tag{Conversation: "c"}); err == nil {
		t.Error("missing tags accepted")
	}
}

func TestFollow(t *testing.T) {
	if err := Struct(&Follow{User: "u", Conversation: "c"}); err != nil {
		t.Errorf("follow without token rejected: %v", err)
	}
	if err := Struct(&Follow{User: "u"}); err == nil {
		t.Error("follow without conversation accepted")
	}
}
