package executor

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ssd-validator/internal/privilege"
)

func writeExe(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o755), "write %s", path)
}

func TestRunnerExecute(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh scripts")
	}

	tmp := t.TempDir()

	ok := filepath.Join(tmp, "ok.sh")
	writeExe(t, ok, "#!/bin/sh\nprintf 'OK'\n")

	boom := filepath.Join(tmp, "boom.sh")
	writeExe(t, boom, "#!/bin/sh\necho boom 1>&2\nexit 1\n")

	echoArgs := filepath.Join(tmp, "echoargs.sh")
	writeExe(t, echoArgs, "#!/bin/sh\nprintf '%s|' \"$@\"\n")

	sleeper := filepath.Join(tmp, "sleep.sh")
	writeExe(t, sleeper, "#!/bin/sh\nsleep 2\n")

	tests := map[string]struct {
		cmd        Command
		timeout    time.Duration
		wantFailed bool
		wantText   string
		contains   []string
	}{
		"success": {
			cmd:      Plain(ok),
			wantText: "OK",
		},
		"non-zero exit keeps stderr": {
			cmd:        Plain(boom),
			wantFailed: true,
			contains:   []string{"Error executing command", "boom"},
		},
		"arguments are not shell interpreted": {
			cmd:      Plain(echoArgs, "a b", "$(id)", "x;y"),
			wantText: "a b|$(id)|x;y|",
		},
		"missing binary": {
			cmd:        Plain(filepath.Join(tmp, "missing")),
			wantFailed: true,
			contains:   []string{"Error executing command", "missing"},
		},
		"timeout": {
			cmd:        Plain(sleeper),
			timeout:    200 * time.Millisecond,
			wantFailed: true,
			contains:   []string{"deadline"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			r := NewRunner(WithTimeout(tt.timeout))
			res := r.Execute(context.Background(), tt.cmd)

			assert.Equal(t, tt.wantFailed, res.Failed())
			if tt.wantText != "" {
				assert.Equal(t, tt.wantText, res.Text())
			}
			for _, frag := range tt.contains {
				assert.Contains(t, res.Text(), frag)
			}
		})
	}
}

func TestRunnerTimeoutIsDeadlineExceeded(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh scripts")
	}

	sleeper := filepath.Join(t.TempDir(), "sleep.sh")
	writeExe(t, sleeper, "#!/bin/sh\nsleep 2\n")

	res := NewRunner(WithTimeout(100 * time.Millisecond)).Execute(context.Background(), Plain(sleeper))
	require.True(t, res.Failed())
	assert.ErrorIs(t, res.Err, context.DeadlineExceeded)
}

func TestRunnerFilter(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh scripts")
	}

	tmp := t.TempDir()
	report := filepath.Join(tmp, "report.sh")
	writeExe(t, report, `#!/bin/sh
echo "Model Number: Example"
echo "Temperature: 41 Celsius"
echo "Firmware Version: 1B2QGXA7"
echo "warning: partial" 1>&2
exit 4
`)

	tests := map[string]struct {
		cmd        Command
		wantFailed bool
		wantText   string
	}{
		"substring": {
			cmd:      Plain(report).Grep("Temperature"),
			wantText: "Temperature: 41 Celsius\nwarning: partial\n",
		},
		"ignore case": {
			cmd:      Plain(report).GrepI("firmware"),
			wantText: "Firmware Version: 1B2QGXA7\nwarning: partial\n",
		},
		"regexp": {
			cmd:      Plain(report).GrepE("Model|Temp"),
			wantText: "Model Number: Example\nTemperature: 41 Celsius\nwarning: partial\n",
		},
		"no match": {
			cmd:        Plain(report).Grep("Sanitize"),
			wantFailed: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			res := NewRunner().Execute(context.Background(), tt.cmd)
			assert.Equal(t, tt.wantFailed, res.Failed())
			if tt.wantFailed {
				assert.ErrorIs(t, res.Err, ErrNoFilterMatch)
				return
			}
			assert.Equal(t, tt.wantText, res.Text())
		})
	}
}

func TestRunnerFilterKeepsStartFailure(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "smartctl")
	res := NewRunner().Execute(context.Background(), Plain(missing, "-a", "/dev/nvme0n1").Grep("Temperature"))

	require.True(t, res.Failed())
	assert.NotErrorIs(t, res.Err, ErrNoFilterMatch)
	assert.ErrorIs(t, res.Err, os.ErrNotExist)
	assert.NotContains(t, res.Text(), ErrNoFilterMatch.Error())
}

func TestRunnerElevated(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh scripts")
	}

	tmp := t.TempDir()

	// stands in for sudo: keeps a timestamp file like sudo's ticket cache and
	// only reads the password when the ticket is missing or -k is given
	fakeSudo := filepath.Join(tmp, "sudo.sh")
	writeExe(t, fakeSudo, `#!/bin/sh
ticket="$(dirname "$0")/ticket"
fresh=no
while [ "$1" != "--" ]; do
  [ "$1" = "-k" ] && fresh=yes
  shift
done
shift
if [ "$fresh" = no ] && [ -f "$ticket" ]; then
  exec "$@"
fi
read pw
if [ "$pw" != "s3cret" ]; then
  echo "Sorry, try again." 1>&2
  exit 1
fi
touch "$ticket"
exec "$@"
`)

	echoArgs := filepath.Join(tmp, "echoargs.sh")
	writeExe(t, echoArgs, "#!/bin/sh\nprintf '%s|' \"$@\"\n")

	notRoot := func() bool { return false }

	t.Run("credential piped on stdin", func(t *testing.T) {
		cred, err := privilege.NewCredential([]byte("s3cret"))
		require.NoError(t, err)
		defer cred.Release()

		r := NewRunner(WithCredential(cred), WithSudoPath(fakeSudo), WithRootCheck(notRoot))
		res := r.Execute(context.Background(), Elevated(echoArgs, "-n", "/dev/nvme0n1"))

		require.False(t, res.Failed(), res.Text())
		assert.Equal(t, "-n|/dev/nvme0n1|", res.Output)
		assert.NotContains(t, res.Command, "s3cret")
	})

	t.Run("tool never sees the secret on stdin", func(t *testing.T) {
		readStdin := filepath.Join(tmp, "readstdin.sh")
		writeExe(t, readStdin, "#!/bin/sh\nprintf 'stdin=[%s]' \"$(cat)\"\n")

		cred, err := privilege.NewCredential([]byte("s3cret"))
		require.NoError(t, err)
		defer cred.Release()

		r := NewRunner(WithCredential(cred), WithSudoPath(fakeSudo), WithRootCheck(notRoot))
		// the second call runs with a cached ticket in place
		for i := 0; i < 2; i++ {
			res := r.Execute(context.Background(), Elevated(readStdin))
			require.False(t, res.Failed(), res.Text())
			assert.Equal(t, "stdin=[]", res.Output)
		}
	})

	t.Run("wrong credential", func(t *testing.T) {
		cred, err := privilege.NewCredential([]byte("nope"))
		require.NoError(t, err)
		defer cred.Release()

		r := NewRunner(WithCredential(cred), WithSudoPath(fakeSudo), WithRootCheck(notRoot))
		res := r.Execute(context.Background(), Elevated(echoArgs))

		assert.True(t, res.Failed())
		assert.Contains(t, res.Text(), "Sorry, try again.")
	})

	t.Run("released credential", func(t *testing.T) {
		cred, err := privilege.NewCredential([]byte("s3cret"))
		require.NoError(t, err)
		cred.Release()

		r := NewRunner(WithCredential(cred), WithSudoPath(fakeSudo), WithRootCheck(notRoot))
		res := r.Execute(context.Background(), Elevated(echoArgs))

		assert.True(t, res.Failed())
		assert.ErrorIs(t, res.Err, privilege.ErrReleased)
	})

	t.Run("root skips sudo", func(t *testing.T) {
		r := NewRunner(WithSudoPath(filepath.Join(tmp, "absent")), WithRootCheck(func() bool { return true }))
		res := r.Execute(context.Background(), Elevated(echoArgs, "x"))

		require.False(t, res.Failed(), res.Text())
		assert.Equal(t, "x|", res.Output)
	})
}

func TestCommandString(t *testing.T) {
	tests := map[string]struct {
		cmd  Command
		want string
	}{
		"plain": {
			cmd:  Plain("lsblk", "-d"),
			want: "lsblk -d",
		},
		"elevated with filter": {
			cmd:  Elevated("smartctl", "-a", "/dev/nvme0n1").Grep("Temperature"),
			want: "sudo smartctl -a /dev/nvme0n1 | grep Temperature",
		},
		"quoted args": {
			cmd:  Plain("fio", "--name=a b"),
			want: "fio '--name=a b'",
		},
		"masked": {
			cmd:  Elevated("nvme", "format", "/dev/nvme0n1", "--key=hunter2").Mask("hunter2"),
			want: "sudo nvme format /dev/nvme0n1 --key=****",
		},
		"case-insensitive filter": {
			cmd:  Plain("nvme", "id-ctrl", "/dev/nvme0n1").GrepI("sanitize"),
			want: "nvme id-ctrl /dev/nvme0n1 | grep -i sanitize",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cmd.String())
		})
	}
}

func TestResultText(t *testing.T) {
	ok := Succeeded(Plain("true"), "fine\n")
	assert.False(t, ok.Failed())
	assert.Equal(t, "fine\n", ok.Text())

	failed := FailedWith(Plain("false"), "details\n", assert.AnError)
	assert.True(t, failed.Failed())
	assert.Equal(t, "Error executing command: false: "+assert.AnError.Error()+"\ndetails", failed.Text())
}

func TestFilterInvalidRegexp(t *testing.T) {
	f := &Filter{Pattern: "(", Regexp: true}
	_, err := f.Matcher()
	require.Error(t, err)

	res := NewRunner().Execute(context.Background(), Plain("true").GrepE("("))
	assert.True(t, res.Failed())
}
