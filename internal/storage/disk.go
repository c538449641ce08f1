// Package storage measures the on-disk footprint of index directories.
package storage

import (
	"io/fs"
	"os"
	"path/filepath"
)

// IndexSize returns the total size in bytes of the files under the given paths.
// Each path may be a file or a directory (recursively summed).
// Empty and missing paths contribute 0; other errors are returned.
func IndexSize(paths ...string) (int64, error) {
	var total int64
	for _, p := range paths {
		if p == "" {
			continue
		}
		err := filepath.WalkDir(p, func(_ string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			total += info.Size()
			return nil
		})
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return 0, err
		}
	}
	return total, nil
}
