// Package fs implements media interface for attachments stored in a file system.
package fs

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/echowaves/chat/server/logs"
	"github.com/echowaves/chat/server/store"
	"github.com/echowaves/chat/server/store/types"
)

const (
	defaultUploadDir = "./public/attachments"
	handlerName      = "fs"
)

type configType struct {
	UploadDir string `json:"upload_dir"`
}

type fshandler struct {
	uploadDir string
}

// Init initializes the media handler.
func (fh *fshandler) Init(jsconf string) error {
	var conf configType
	if jsconf != "" {
		if err := json.Unmarshal([]byte(jsconf), &conf); err != nil {
			return errors.New("failed to parse config: " + err.Error())
		}
	}

	fh.uploadDir = conf.UploadDir
	if fh.uploadDir == "" {
		fh.uploadDir = defaultUploadDir
	}
	return os.MkdirAll(fh.uploadDir, 0777)
}

// RestrictAccess removes all permissions from the message's attachment directory and
// everything in it.
func (fh *fshandler) RestrictAccess(msgId types.Uid) error {
	if msgId.IsZero() {
		return types.ErrMalformed
	}

	root := filepath.Join(fh.uploadDir, msgId.String())
	if _, err := os.Lstat(root); err != nil {
		if os.IsNotExist(err) {
			// Message has no attachments.
			return nil
		}
		return err
	}

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return err
	}

	// Children first, otherwise the walk would lock itself out.
	for i := len(paths) - 1; i >= 0; i-- {
		if err := os.Chmod(paths[i], 0); err != nil {
			return err
		}
	}

	logs.Info.Println("fs: restricted access to", root)
	return nil
}

func init() {
	store.RegisterMediaHandler(handlerName, &fshandler{})
}
