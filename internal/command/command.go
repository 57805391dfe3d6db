// Package command executes user-configured hook commands as
// fire-and-forget side effects of a switch decision.
package command

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"unicode/utf8"

	shlex "github.com/anmitsu/go-shlex"

	"github.com/rajohns08/display-switch/internal/logger"
)

// Tokenize splits a command line using POSIX shell quoting rules.
func Tokenize(commandLine string) ([]string, error) {
	return shlex.Split(commandLine, true)
}

// Run executes a shell-style command line and waits for it to exit. An
// empty or whitespace-only command is a successful no-op. The child
// never inherits stdin, so a command expecting interactive input fails
// instead of hanging the daemon.
//
// Failures (bad quoting, spawn errors, non-zero exit, signal
// termination) come back as a single recoverable error whose message
// carries the captured output; callers log it and move on.
func Run(commandLine string) error {
	arguments, err := Tokenize(commandLine)
	if err != nil {
		return fmt.Errorf("parsing command: %w", err)
	}
	if len(arguments) == 0 {
		return nil
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(arguments[0], arguments[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	if err == nil {
		logger.Infof("External command '%s' executed successfully", commandLine)
		return nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return fmt.Errorf("starting command: %w", err)
	}

	status := "exited because of a signal"
	if code := exitErr.ExitCode(); code >= 0 {
		status = fmt.Sprintf("exited with status %d", code)
	}

	return fmt.Errorf("%s; %s; %s", status,
		renderOutput("stdout", stdout.Bytes()),
		renderOutput("stderr", stderr.Bytes()))
}

// renderOutput describes one captured stream for a failure message.
// Output that is not valid UTF-8 is still reported as present rather
// than dropped.
func renderOutput(name string, output []byte) string {
	if len(output) == 0 {
		return "no " + name
	}
	if !utf8.Valid(output) {
		return name + " was not valid UTF-8"
	}
	return fmt.Sprintf("%s = [%s]", name, strings.TrimRight(string(output), "\n"))
}
