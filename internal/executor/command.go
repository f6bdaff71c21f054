// Package executor runs external diagnostic tools as argument vectors, with
// optional privilege elevation, and reports every outcome as a Result value.
package executor

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

const maskedValue = "****"

// Executor runs one command and always returns a Result
type Executor interface {
	Execute(ctx context.Context, cmd Command) Result
}

// Func adapts a plain function to the Executor interface
type Func func(ctx context.Context, cmd Command) Result

// Execute calls f
func (f Func) Execute(ctx context.Context, cmd Command) Result {
	return f(ctx, cmd)
}

// Command is a single tool invocation
type Command struct {
	Name     string
	Args     []string
	Elevated bool
	// Filter keeps only matching stdout lines, in place of a grep pipeline
	Filter *Filter
	// Sensitive values are masked wherever the command is rendered
	Sensitive []string
}

// Elevated builds a command that must run with administrator privilege
func Elevated(name string, args ...string) Command {
	return Command{Name: name, Args: args, Elevated: true}
}

// Plain builds a command that runs as the current user
func Plain(name string, args ...string) Command {
	return Command{Name: name, Args: args}
}

// Grep returns a copy of c whose output is filtered by a substring match
func (c Command) Grep(pattern string) Command {
	c.Filter = &Filter{Pattern: pattern}
	return c
}

// GrepI returns a copy of c filtered by a case-insensitive substring match
func (c Command) GrepI(pattern string) Command {
	c.Filter = &Filter{Pattern: pattern, IgnoreCase: true}
	return c
}

// GrepE returns a copy of c filtered by a regular expression
func (c Command) GrepE(pattern string) Command {
	c.Filter = &Filter{Pattern: pattern, Regexp: true}
	return c
}

// Mask returns a copy of c with values hidden from its rendered form
func (c Command) Mask(values ...string) Command {
	c.Sensitive = append(append([]string(nil), c.Sensitive...), values...)
	return c
}

// Argv returns the full argument vector, program first
func (c Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

// String renders the command for logs and failure text
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+4)
	if c.Elevated {
		parts = append(parts, "sudo")
	}
	for _, a := range c.Argv() {
		parts = append(parts, quote(c.mask(a)))
	}
	s := strings.Join(parts, " ")
	if c.Filter != nil {
		s += " | " + c.Filter.String()
	}
	return s
}

func (c Command) mask(arg string) string {
	for _, v := range c.Sensitive {
		if v != "" && strings.Contains(arg, v) {
			arg = strings.ReplaceAll(arg, v, maskedValue)
		}
	}
	return arg
}

func quote(s string) string {
	if s == "" {
		return "''"
	}
	if strings.ContainsAny(s, " \t\"'|&;$<>()*?") {
		return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
	}
	return s
}

// Filter selects output lines
type Filter struct {
	Pattern    string
	IgnoreCase bool
	Regexp     bool
}

func (f *Filter) String() string {
	flags := ""
	if f.IgnoreCase {
		flags += "i"
	}
	if f.Regexp {
		flags += "E"
	}
	if flags != "" {
		return fmt.Sprintf("grep -%s %s", flags, quote(f.Pattern))
	}
	return "grep " + quote(f.Pattern)
}

// Matcher compiles the filter into a line predicate
func (f *Filter) Matcher() (func(string) bool, error) {
	if f.Regexp {
		expr := f.Pattern
		if f.IgnoreCase {
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid filter %q: %w", f.Pattern, err)
		}
		return re.MatchString, nil
	}
	if f.IgnoreCase {
		p := strings.ToLower(f.Pattern)
		return func(line string) bool {
			return strings.Contains(strings.ToLower(line), p)
		}, nil
	}
	return func(line string) bool {
		return strings.Contains(line, f.Pattern)
	}, nil
}

// Apply keeps matching lines of out. matched is false when nothing matched.
func (f *Filter) Apply(out string) (filtered string, matched bool, err error) {
	match, err := f.Matcher()
	if err != nil {
		return "", false, err
	}

	var sb strings.Builder
	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}
		if match(line) {
			sb.WriteString(line)
			sb.WriteByte('\n')
			matched = true
		}
	}
	return sb.String(), matched, nil
}

// Result is the outcome of one command. A nil Err is success.
type Result struct {
	Output  string
	Command string
	Err     error
}

// Succeeded builds a successful result
func Succeeded(cmd Command, output string) Result {
	return Result{Output: output, Command: cmd.String()}
}

// FailedWith builds a failure result
func FailedWith(cmd Command, output string, err error) Result {
	return Result{Output: output, Command: cmd.String(), Err: err}
}

// Failed reports whether the command failed
func (r Result) Failed() bool {
	return r.Err != nil
}

// Text is the display body stored for a check
func (r Result) Text() string {
	if r.Err == nil {
		return r.Output
	}
	text := fmt.Sprintf("Error executing command: %s: %v", r.Command, r.Err)
	if out := strings.TrimRight(r.Output, "\n"); out != "" {
		text += "\n" + out
	}
	return text
}
