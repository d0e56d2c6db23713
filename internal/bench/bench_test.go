// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo (adapted)

package bench

import (
	"bytes"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/lzmcodec/lzm"
)

type capturedLogger struct {
	logger *logrus.Logger
	buf    *bytes.Buffer
}

func logrusTestLogger() capturedLogger {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.Out = &buf
	logger.Level = logrus.DebugLevel
	return capturedLogger{logger: logger, buf: &buf}
}

func testConfig() Config {
	return Config{
		Format:        lzm.FormatLZM1,
		Trials:        1,
		TrialDuration: 5 * time.Millisecond,
		Workers:       2,
	}
}

func TestRunLevel_RoundTripsAndReportsRates(t *testing.T) {
	data := bytes.Repeat([]byte("benchmark payload, repeated so it compresses"), 500)

	res, err := RunLevel(data, 4096, lzm.LevelFast, testConfig())
	require.NoError(t, err)

	require.Positive(t, res.CompressedSize)
	require.Positive(t, res.CompressMBs)
	require.Positive(t, res.DecompressMBs)
	require.Positive(t, res.RatioPercent)
}

func TestRunLevel_SingleChunkSmallerThanChunkSize(t *testing.T) {
	data := []byte("short payload")

	res, err := RunLevel(data, 4096, lzm.LevelHigh3, testConfig())
	require.NoError(t, err)
	require.Positive(t, res.CompressedSize)
}

func TestRunLevel_EmptyData(t *testing.T) {
	res, err := RunLevel(nil, 4096, lzm.LevelFast, testConfig())
	require.NoError(t, err)
	require.Zero(t, res.RatioPercent)
}

func TestRunLevel_MultiChunkWithRemainder(t *testing.T) {
	data := bytes.Repeat([]byte{0xAB, 0xCD, 0xEF, 0x01}, 3000)

	res, err := RunLevel(data, 1024, lzm.LevelHigh2, testConfig())
	require.NoError(t, err)
	require.Equal(t, lzm.LevelHigh2, res.Level)
}

func TestRunLevel_TrialsClampedToMax(t *testing.T) {
	cfg := testConfig()
	cfg.Trials = 1000

	data := bytes.Repeat([]byte("clamp trials"), 50)
	_, err := RunLevel(data, 4096, lzm.LevelFast, cfg)
	require.NoError(t, err)
}

func TestRunLevel_DefaultsAppliedForZeroConfig(t *testing.T) {
	data := bytes.Repeat([]byte("zero config defaults"), 20)
	cfg := Config{TrialDuration: 5 * time.Millisecond, Trials: 1}

	_, err := RunLevel(data, 512, lzm.LevelFast, cfg)
	require.NoError(t, err)
}

func TestRunLevel_LogsPerTrialRateWhenLoggerSet(t *testing.T) {
	logger := logrusTestLogger()
	cfg := testConfig()
	cfg.Logger = logger.logger

	data := bytes.Repeat([]byte("logged benchmark payload"), 100)
	_, err := RunLevel(data, 2048, lzm.LevelFast, cfg)
	require.NoError(t, err)

	require.Contains(t, logger.buf.String(), "MB/s")
}
