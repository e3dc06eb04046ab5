package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/echowaves/chat/server/store/types"
)

func TestInitDefaultsAndCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "attachments")

	fh := &fshandler{}
	if err := fh.Init(`{"upload_dir": "` + dir + `"}`); err != nil {
		t.Fatal(err)
	}
	if fh.uploadDir != dir {
		t.Errorf("uploadDir = %q, want %q", fh.uploadDir, dir)
	}
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		t.Errorf("upload dir was not created: %v", err)
	}

	if err := fh.Init(`{bad json`); err == nil {
		t.Error("expected config parsing error")
	}
}

func TestRestrictAccess(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}

	base := t.TempDir()
	fh := &fshandler{uploadDir: base}
	msgId := types.Uid(4242)

	dir := filepath.Join(base, msgId.String(), "thumb")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	file := filepath.Join(dir, "pic.jpg")
	if err := os.WriteFile(file, []byte("jpeg"), 0644); err != nil {
		t.Fatal(err)
	}
	// Let TempDir cleanup remove the locked tree.
	t.Cleanup(func() {
		os.Chmod(filepath.Join(base, msgId.String()), 0755)
		os.Chmod(dir, 0755)
		os.Chmod(file, 0644)
	})

	if err := fh.RestrictAccess(msgId); err != nil {
		t.Fatal(err)
	}

	st, err := os.Stat(filepath.Join(base, msgId.String()))
	if err != nil {
		t.Fatal(err)
	}
	if st.Mode().Perm() != 0 {
		t.Errorf("directory mode = %v, want 0", st.Mode().Perm())
	}
	if _, err := os.ReadFile(file); err == nil {
		t.Error("attachment is still readable")
	}
}

func TestRestrictAccessNoAttachments(t *testing.T) {
	fh := &fshandler{uploadDir: t.TempDir()}
	if err := fh.RestrictAccess(types.Uid(1)); err != nil {
		t.Errorf("missing attachment dir should not be an error, got %v", err)
	}
	if err := fh.RestrictAccess(types.ZeroUid); err != types.ErrMalformed {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}
