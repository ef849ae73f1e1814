//go:build windows

package configstore

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp")
	if err != nil {
		return errors.WithMessage(err, "failed to create temp file")
	}
	tmpName := tmpFile.Name()

	if _, err = tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpName)

		return errors.WithMessage(err, "failed to write temp file")
	}
	if err = tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpName)

		return errors.WithMessage(err, "failed to sync temp file")
	}
	if err = tmpFile.Close(); err != nil {
		_ = os.Remove(tmpName)

		return errors.WithMessage(err, "failed to close temp file")
	}
	if err = os.Chmod(tmpName, perm); err != nil {
		_ = os.Remove(tmpName)

		return errors.WithMessage(err, "failed to chmod temp file")
	}

	if err = os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)

		return errors.WithMessage(err, "failed to rename temp file")
	}

	return nil
}
