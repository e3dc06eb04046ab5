package media

import (
	"testing"

	"github.com/echowaves/chat/server/store/types"
)

func TestAttachmentPrefix(t *testing.T) {
	msgId := types.Uid(12345)
	id := msgId.String()

	cases := []struct {
		root     string
		msgId    types.Uid
		expected string
	}{
		{"", msgId, id + "/"},
		{"attachments", msgId, "attachments/" + id + "/"},
		{"/attachments/", msgId, "attachments/" + id + "/"},
		{"a/b", msgId, "a/b/" + id + "/"},
		{"attachments", types.ZeroUid, ""},
	}

	for _, tc := range cases {
		if got := AttachmentPrefix(tc.root, tc.msgId); got != tc.expected {
			t.Errorf("AttachmentPrefix(%q, %v) = %q, want %q", tc.root, tc.msgId, got, tc.expected)
		}
	}
}
