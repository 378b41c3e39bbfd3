package log

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/udex/internal/config"
)

func TestFormatterPattern(t *testing.T) {
	f := &formatter{pattern: "%time [%level] %field %msg%n", time: "15:04:05"}
	entry := &logrus.Entry{
		Time:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "hash collision",
		Data:    logrus.Fields{"url": "SIM VFB.A", "hash": uint64(42)},
	}

	out, err := f.Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "03:04:05 [WARNING] hash=42,url=SIM VFB.A hash collision\n", string(out))
}

func TestFormatterWithoutCaller(t *testing.T) {
	f := &formatter{pattern: "%caller %func", time: time.RFC3339}
	out, err := f.Format(&logrus.Entry{Data: logrus.Fields{}})
	require.NoError(t, err)
	assert.Equal(t, "unknown unknown", string(out))
}

func TestAdapterWritesThroughMultiWriter(t *testing.T) {
	var first, second bytes.Buffer
	l := newLogrusAdapter(config.LogConfig{Level: "debug", Pattern: "%level %msg%n"},
		NewMultiWriter().Add(&first).Add(&second))

	l.WithField("source_id", 6403).Debugf("decoded %d sub-payloads", 12)

	assert.Equal(t, "DEBUG decoded 12 sub-payloads\n", first.String())
	assert.Equal(t, first.String(), second.String())
	assert.True(t, l.IsDebugEnabled())
	assert.False(t, l.IsTraceEnabled())
}

func TestAdapterLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := newLogrusAdapter(config.LogConfig{Level: "warn", Pattern: "%msg%n"}, NewMultiWriter().Add(&buf))

	l.Info("dropped")
	l.WithError(errors.New("boom")).Warn("kept")

	assert.Equal(t, "kept\n", buf.String())
	assert.False(t, l.IsInfoEnabled())
}

func TestInitRejectsInvalidLevel(t *testing.T) {
	err := Init(config.LogConfig{Level: "verbose"})
	assert.Error(t, err)
}

func TestInitWithFileOutput(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "udex.log")
	err := Init(config.LogConfig{
		Level:   "info",
		Pattern: "[%level] %msg%n",
		Outputs: config.LogOutputsConfig{
			File: config.FileOutputConfig{Enabled: true, Path: logPath},
		},
	})
	require.NoError(t, err)

	GetLogger().Info("registered description")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "[INFO] registered description"))
}

func TestInitFileOutputRequiresPath(t *testing.T) {
	err := Init(config.LogConfig{
		Level:   "info",
		Outputs: config.LogOutputsConfig{File: config.FileOutputConfig{Enabled: true}},
	})
	assert.Error(t, err)
}

func TestGetLoggerFallback(t *testing.T) {
	mu.Lock()
	logger = nil
	mu.Unlock()

	l := GetLogger()
	require.NotNil(t, l)
	assert.True(t, l.IsInfoEnabled())
	assert.Same(t, l, GetLogger())
}
