package results

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	tests := map[string]string{
		"NVMe Device Inforamation": "nvme_device_inforamation.txt",
		"Sequential_Read":          "sequential_read.txt",
		"SMART Attributes":         "smart_attributes.txt",
		"Read _Latency_Test":       "read__latency_test.txt",
		"x":                        "x.txt",
	}

	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, want, FileName(name))
		})
	}
}

func TestWriteSuiteLayout(t *testing.T) {
	base := t.TempDir()
	store := New(base, nil)

	err := store.WriteSuite("nvme-cli", []Entry{
		{Name: "NVMe Device Inforamation", Text: "Node SN Model\n"},
	})
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(base, "nvme-cli", "nvme_device_inforamation.txt"))
	require.NoError(t, err)

	want := "NVMe Device Inforamation\n" +
		"========================================\n" +
		"Node SN Model\n"
	assert.Equal(t, []byte(want), got)
}

func TestWriteSuiteIdempotent(t *testing.T) {
	base := t.TempDir()
	store := New(base, nil)

	require.NoError(t, store.WriteSuite("smartctl", []Entry{
		{Name: "SMART Health", Text: "first"},
		{Name: "Error Log", Text: "first"},
	}))
	require.NoError(t, store.WriteSuite("smartctl", []Entry{
		{Name: "SMART Health", Text: "second"},
		{Name: "Error Log", Text: "second"},
	}))

	files, err := os.ReadDir(filepath.Join(base, "smartctl"))
	require.NoError(t, err)
	assert.Len(t, files, 2)

	got, err := os.ReadFile(store.Path("smartctl", "SMART Health"))
	require.NoError(t, err)
	assert.Equal(t, Format("SMART Health", "second"), string(got))
}

func TestWriteSuiteNamespaced(t *testing.T) {
	base := t.TempDir()
	store := New(base, nil)

	require.NoError(t, store.WriteSuite("A", []Entry{{Name: "x", Text: "from A"}}))
	require.NoError(t, store.WriteSuite("B", []Entry{{Name: "x", Text: "from B"}}))

	a, err := os.ReadFile(filepath.Join(base, "A", "x.txt"))
	require.NoError(t, err)
	b, err := os.ReadFile(filepath.Join(base, "B", "x.txt"))
	require.NoError(t, err)

	assert.Contains(t, string(a), "from A")
	assert.Contains(t, string(b), "from B")
}

func TestWriteSuiteErrors(t *testing.T) {
	base := t.TempDir()

	// a regular file where the suite directory should be
	blocker := filepath.Join(base, "blocked")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	store := New(base, nil)
	assert.Error(t, store.WriteSuite("blocked", []Entry{{Name: "a", Text: "b"}}))
	assert.Error(t, store.WriteSuite("", nil))
}
