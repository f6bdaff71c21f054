package manifest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ssd-validator/internal/executor"
	"ssd-validator/internal/suite"
	"ssd-validator/internal/system"
	"ssd-validator/pkg/types"
)

func buildSuite(t *testing.T) *suite.Suite {
	t.Helper()
	exec := executor.Func(func(_ context.Context, cmd executor.Command) executor.Result {
		if cmd.Name == "broken" {
			return executor.FailedWith(cmd, "", assert.AnError)
		}
		return executor.Succeeded(cmd, "ok")
	})
	mk := func(name, program string, destructive bool) suite.Check {
		return suite.Check{
			Name:        name,
			Destructive: destructive,
			Build:       func(types.Device) executor.Command { return executor.Plain(program) },
		}
	}

	s, err := suite.New("Security_Results", exec, []suite.Check{
		mk("read_smart_log", "nvme", false),
		mk("check_firmware_security", "broken", false),
		mk("secure_erase", "nvme", true),
	}, suite.Family("security"))
	require.NoError(t, err)
	s.RunAll(context.Background(), types.Device{Path: "/dev/nvme0n1"})
	return s
}

func TestBuild(t *testing.T) {
	dev := types.Device{Path: "/dev/nvme0n1", Model: "Test SSD"}
	info := &system.SystemInfo{
		OS:       "linux",
		Platform: system.PlatformLinux,
		Tools: []system.ToolStatus{
			{Name: "nvme", Available: true},
			{Name: "ioping", Available: false},
		},
	}

	b := New(dev, info, false)
	_, err := uuid.Parse(b.RunID())
	require.NoError(t, err)

	m := b.Build([]Suite{buildSuite(t)}, time.Now())

	assert.Equal(t, "ssd-validator", m.Service)
	assert.Equal(t, dev, m.Device)
	assert.Equal(t, []string{"nvme"}, m.SystemInfo.AvailableTools)
	assert.Equal(t, []string{"ioping"}, m.SystemInfo.MissingTools)
	assert.Equal(t, types.RunSummary{
		TotalSuites:   1,
		TotalChecks:   3,
		OKChecks:      1,
		FailedChecks:  1,
		SkippedChecks: 1,
	}, m.Summary)

	require.Len(t, m.Suites, 1)
	assert.Equal(t, "security", m.Suites[0].Family)
	assert.Equal(t, filepath.Join("Security_Results", "secure_erase.txt"), m.Suites[0].Checks[2].File)
	assert.Equal(t, "skipped", m.Suites[0].Checks[2].Status)
}

func TestWriteAndRead(t *testing.T) {
	base := filepath.Join(t.TempDir(), "SSD_Test_Results")
	b := New(types.Device{Path: "/dev/nvme0n1"}, nil, true)
	m := b.Build([]Suite{buildSuite(t)}, time.Now())

	path, err := Write(base, m)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, FileName), path)

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, m.RunID, got.RunID)
	assert.Equal(t, m.Summary, got.Summary)
	assert.True(t, got.SystemInfo.AllowDestructive)
	assert.Equal(t, "read_smart_log", got.Suites[0].Checks[0].Name)

	_, err = Read(filepath.Join(base, "missing.yaml"))
	assert.Error(t, err)
}
