package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/illarion/seedlock/internal/config"
	"github.com/illarion/seedlock/internal/crypto"
	"golang.org/x/term"
)

// Console reads answers and passwords from the user. Secrets are read
// without echo when the input is a terminal.
type Console struct {
	in     *bufio.Reader
	out    io.Writer
	fd     int
	getenv func(string) string
}

// NewConsole returns a Console bound to the process stdin and stdout.
func NewConsole() *Console {
	return &Console{
		in:     bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		fd:     int(os.Stdin.Fd()),
		getenv: os.Getenv,
	}
}

func newTestConsole(in io.Reader, out io.Writer, env map[string]string) *Console {
	return &Console{
		in:     bufio.NewReader(in),
		out:    out,
		fd:     -1,
		getenv: func(k string) string { return env[k] },
	}
}

// Printf writes formatted output.
func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// Println writes a line of output.
func (c *Console) Println(args ...any) {
	fmt.Fprintln(c.out, args...)
}

// ReadLine prints prompt and returns the next input line, trimmed.
func (c *Console) ReadLine(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ReadPassword reads a password without echoing it.
func (c *Console) ReadPassword(prompt string) ([]byte, error) {
	if !term.IsTerminal(c.fd) {
		line, err := c.ReadLine(prompt)
		if err != nil {
			return nil, fmt.Errorf("failed to read password: %w", err)
		}
		return []byte(line), nil
	}

	fmt.Fprint(c.out, prompt)
	password, err := term.ReadPassword(c.fd)
	fmt.Fprintln(c.out)
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	return password, nil
}

// ReadPasswordConfirm reads a new password twice. The pair is returned
// unchecked so the policy can report a mismatch itself.
func (c *Console) ReadPasswordConfirm() (pw, confirm []byte, err error) {
	if env := c.envPassword(); env != nil {
		return env, append([]byte(nil), env...), nil
	}
	pw, err = c.ReadPassword("New password: ")
	if err != nil {
		return nil, nil, err
	}
	confirm, err = c.ReadPassword("Confirm password: ")
	if err != nil {
		crypto.ClearBytes(pw)
		return nil, nil, err
	}
	return pw, confirm, nil
}

// GetPassword returns the password from SEEDLOCK_PASSWORD or prompts for it.
// The caller clears the returned bytes.
func (c *Console) GetPassword(prompt string) ([]byte, error) {
	if env := c.envPassword(); env != nil {
		return env, nil
	}
	return c.ReadPassword(prompt)
}

// Confirm asks a yes/no question; anything but y or yes is a no.
func (c *Console) Confirm(prompt string) bool {
	answer, err := c.ReadLine(prompt + " [y/N]: ")
	if err != nil {
		return false
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}

func (c *Console) envPassword() []byte {
	password := c.getenv(config.EnvPassword)
	if password == "" {
		return nil
	}
	return []byte(password)
}
