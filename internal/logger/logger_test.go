package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParsesLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected logrus.Level
	}{
		{level: "debug", expected: logrus.DebugLevel},
		{level: "warning", expected: logrus.WarnLevel},
		{level: "error", expected: logrus.ErrorLevel},
		{level: "nonsense", expected: logrus.InfoLevel},
		{level: "", expected: logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l := New(Settings{Level: tt.level})
			assert.Equal(t, tt.expected, l.GetLevel())
			assert.Equal(t, os.Stdout, l.Out)
		})
	}
}

func TestNewWritesRotatingFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "smartlio.log")

	l := New(Settings{Level: "info", FilePath: logPath, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1})
	require.NotNil(t, l)

	l.WithFields(logrus.Fields{"member_id": 7}).Info("location updated")
	l.Debug("hidden at info level")

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)

	output := string(content)
	assert.Contains(t, output, `"msg":"location updated"`)
	assert.Contains(t, output, `"member_id":7`)
	assert.NotContains(t, output, "hidden at info level")
}
