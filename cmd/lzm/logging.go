// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo (adapted)

package main

import (
	"io"

	"github.com/sirupsen/logrus"
)

// newLogger builds the logger used for -v output: plain text, no
// timestamps (the original's -v messages are one-shot per-file status
// lines, not a timestamped log stream), info level by default and debug
// once -v is set.
func newLogger(out io.Writer, verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.Out = out
	logger.Formatter = &logrus.TextFormatter{
		DisableTimestamp: true,
		DisableColors:    true,
	}
	logger.Level = logrus.InfoLevel
	if verbose {
		logger.Level = logrus.DebugLevel
	}
	return logger
}
