// Package media defines an interface which must be implemented by attachment storage handlers.
package media

import (
	"path"
	"strings"

	"github.com/echowaves/chat/server/store/types"
)

// Handler is an interface which must be implemented by media handlers.
type Handler interface {
	// Init initializes the media handler.
	Init(jsconf string) error

	// RestrictAccess makes all attachments of the given message inaccessible to readers.
	// Calling it for a message without attachments is not an error.
	RestrictAccess(msgId types.Uid) error
}

// AttachmentPrefix returns the storage location of the message's attachments relative to
// the handler's root: attachments of a message are stored under a directory named by the
// message ID.
func AttachmentPrefix(root string, msgId types.Uid) string {
	if msgId.IsZero() {
		return ""
	}
	root = strings.Trim(root, "/")
	if root == "" {
		return msgId.String() + "/"
	}
	return path.Join(root, msgId.String()) + "/"
}
