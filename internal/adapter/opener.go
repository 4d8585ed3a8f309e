package adapter

import (
	"errors"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
)

// ErrEmptyURL is returned when there is nothing to open.
var ErrEmptyURL = errors.New("empty url")

// Opener hands URLs (flag images, map links) to an external program
type Opener struct {
	command string   // configured opener, empty for system default
	args    []string // additional arguments placed before the URL
	goos    string
	start   func(name string, args ...string) error
	logger  *slog.Logger
}

// NewOpener creates an Opener. command may carry arguments, e.g.
// "firefox --new-tab".
func NewOpener(command string, logger *slog.Logger) *Opener {
	if logger == nil {
		logger = slog.Default()
	}

	var name string
	var args []string
	if fields := strings.Fields(command); len(fields) > 0 {
		name, args = fields[0], fields[1:]
	}

	return &Opener{
		command: name,
		args:    args,
		goos:    runtime.GOOS,
		start:   startDetached,
		logger:  logger,
	}
}

// Open launches url with the configured command or the system default
func (o *Opener) Open(url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return ErrEmptyURL
	}

	name, args := o.commandFor(url)
	o.logger.Info("opening url", "command", name, "args", args)
	if err := o.start(name, args...); err != nil {
		o.logger.Error("failed to open url", "command", name, "error", err)
		return err
	}
	return nil
}

// commandFor resolves the program and arguments for url
func (o *Opener) commandFor(url string) (string, []string) {
	if o.command != "" {
		args := append(append([]string{}, o.args...), url)
		return o.command, args
	}

	switch o.goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "cmd", []string{"/c", "start", "", url}
	default:
		// Linux and other Unix-like systems
		return "xdg-open", []string{url}
	}
}

// startDetached starts the command without waiting for it to exit
func startDetached(name string, args ...string) error {
	if _, err := exec.LookPath(name); err != nil {
		return err
	}
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
