package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithOutput(t *testing.T) {
	tests := map[string]struct {
		level   string
		format  string
		wantLvl logrus.Level
		wantErr bool
	}{
		"info text":      {level: "info", format: "text", wantLvl: logrus.InfoLevel},
		"debug json":     {level: "debug", format: "json", wantLvl: logrus.DebugLevel},
		"empty format":   {level: "warn", format: "", wantLvl: logrus.WarnLevel},
		"invalid level":  {level: "loud", format: "text", wantErr: true},
		"invalid format": {level: "info", format: "xml", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := NewWithOutput(&buf, tt.level, tt.format)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLvl, logger.GetLevel())
		})
	}
}

func TestComponentField(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithOutput(&buf, "info", FormatJSON)
	require.NoError(t, err)

	Component(logger, "executor").Info("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "executor", line["component"])
	assert.Equal(t, "hello", line["msg"])
}

func TestComponentNilLogger(t *testing.T) {
	entry := Component(nil, "orchestrator")
	require.NotNil(t, entry)
	entry.Info("dropped")
}
