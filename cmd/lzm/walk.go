// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo (adapted)

package main

import (
	"os"
	"sort"

	"github.com/spf13/afero"
)

// walkFiles lists every regular file under root, matching process_dir's
// fts_read loop: directories and any other non-regular entries are
// skipped, only regular files are handed to the caller. Files whose names
// start with a dot are listed like any other. afero has no notion of a
// symlink, so that case simply can't occur here.
func walkFiles(fs afero.Fs, root string) ([]string, error) {
	var files []string

	err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
