package privilege

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCredential(t *testing.T) {
	_, err := NewCredential(nil)
	require.ErrorIs(t, err, ErrEmpty)

	src := []byte("hunter2")
	cred, err := NewCredential(src)
	require.NoError(t, err)

	// the handle owns a copy
	src[0] = 'X'
	r, err := cred.Reader()
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "hunter2\n", string(got))
}

func TestCredentialReaderSmallBuffer(t *testing.T) {
	cred, err := NewCredential([]byte("abc"))
	require.NoError(t, err)

	r, err := cred.Reader()
	require.NoError(t, err)

	var sb strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		sb.Write(buf[:n])
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}
	assert.Equal(t, "abc\n", sb.String())
}

func TestCredentialRelease(t *testing.T) {
	cred, err := NewCredential([]byte("secret"))
	require.NoError(t, err)

	r, err := cred.Reader()
	require.NoError(t, err)

	cred.Release()
	cred.Release()
	assert.True(t, cred.Released())

	_, err = r.Read(make([]byte, 8))
	assert.ErrorIs(t, err, ErrReleased)

	_, err = cred.Reader()
	assert.ErrorIs(t, err, ErrReleased)

	var nilCred *Credential
	nilCred.Release()
}

func TestCredentialNeverFormatted(t *testing.T) {
	cred, err := NewCredential([]byte("topsecret"))
	require.NoError(t, err)

	for _, s := range []string{
		fmt.Sprint(cred),
		fmt.Sprintf("%v", cred),
		fmt.Sprintf("%#v", cred),
		fmt.Sprintf("%s", cred),
	} {
		assert.NotContains(t, s, "topsecret")
	}
}

func TestReadFrom(t *testing.T) {
	tests := map[string]struct {
		input   string
		want    string
		wantErr error
	}{
		"line with newline": {input: "pw\nignored\n", want: "pw\n"},
		"crlf":              {input: "pw\r\n", want: "pw\n"},
		"no newline":        {input: "pw", want: "pw\n"},
		"empty":             {input: "", wantErr: ErrEmpty},
		"blank line":        {input: "\n", wantErr: ErrEmpty},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cred, err := ReadFrom(strings.NewReader(tt.input))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			r, err := cred.Reader()
			require.NoError(t, err)
			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}
