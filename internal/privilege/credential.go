// Package privilege holds the elevation credential for the lifetime of a run.
//
// The secret is kept in a single byte slice that is zeroed on Release. It is
// only ever handed to a child process through its stdin and never appears in
// argv, logs or persisted output.
package privilege

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// ErrReleased is returned when a released credential is used
var ErrReleased = errors.New("credential already released")

// ErrEmpty is returned when an empty secret is supplied
var ErrEmpty = errors.New("empty credential")

// Credential is a scoped handle to the elevation secret
type Credential struct {
	mu       sync.Mutex
	secret   []byte
	released bool
}

// NewCredential copies secret into a new handle
func NewCredential(secret []byte) (*Credential, error) {
	if len(secret) == 0 {
		return nil, ErrEmpty
	}
	buf := make([]byte, len(secret))
	copy(buf, secret)
	return &Credential{secret: buf}, nil
}

// Reader returns a reader yielding the secret followed by a newline, the
// format sudo -S expects on stdin. The reader fails once the credential is
// released.
func (c *Credential) Reader() (io.Reader, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return nil, ErrReleased
	}
	return &secretReader{cred: c}, nil
}

// Release zeroes the secret. It is safe to call more than once and on nil.
func (c *Credential) Release() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.secret {
		c.secret[i] = 0
	}
	c.secret = nil
	c.released = true
}

// Released reports whether Release has been called
func (c *Credential) Released() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.released
}

// String never reveals the secret
func (c *Credential) String() string {
	return "[redacted]"
}

// GoString never reveals the secret
func (c *Credential) GoString() string {
	return "privilege.Credential{[redacted]}"
}

type secretReader struct {
	cred *Credential
	off  int
}

func (r *secretReader) Read(p []byte) (int, error) {
	r.cred.mu.Lock()
	defer r.cred.mu.Unlock()
	if r.cred.released {
		return 0, ErrReleased
	}

	total := len(r.cred.secret) + 1
	if r.off >= total {
		return 0, io.EOF
	}

	n := 0
	for n < len(p) && r.off < total {
		if r.off < len(r.cred.secret) {
			p[n] = r.cred.secret[r.off]
		} else {
			p[n] = '\n'
		}
		n++
		r.off++
	}
	return n, nil
}

// ReadFrom builds a credential from the first line of r, for --password-stdin
func ReadFrom(r io.Reader) (*Credential, error) {
	line, err := bufio.NewReader(r).ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading credential: %w", err)
	}
	defer zero(line)

	trimmed := []byte(strings.TrimRight(string(line), "\r\n"))
	defer zero(trimmed)

	return NewCredential(trimmed)
}

// Prompt asks for the credential on the terminal without echoing it. When in
// is not a terminal the first line of input is used instead.
func Prompt(in *os.File, out io.Writer, prompt string) (*Credential, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return ReadFrom(in)
	}

	fmt.Fprint(out, prompt)
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}
	defer zero(secret)

	return NewCredential(secret)
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
