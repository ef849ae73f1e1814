package utils

import (
	"github.com/otiai10/copy"
)

func Copy(src string, dst string) error {
	return copy.Copy(src, dst)
}
