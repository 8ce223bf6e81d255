package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"edgedeploy/internal/reconciler"
)

// EnvGitHubOutput names the file step outputs are appended to.
const EnvGitHubOutput = "GITHUB_OUTPUT"

// Names of the step outputs of a deploy run.
const (
	OutputSetup       = "setup"
	OutputImage       = "image"
	OutputActions     = "actions"
	OutputDeployments = "deployments"
)

// OutputWriter publishes step outputs, either appended to the file named by
// GITHUB_OUTPUT or as set-output workflow commands.
type OutputWriter struct {
	out  io.Writer
	file string
}

// NewOutputWriter returns an OutputWriter that falls back to out when
// GITHUB_OUTPUT is not set.
func NewOutputWriter(out io.Writer) *OutputWriter {
	return &OutputWriter{out: out, file: os.Getenv(EnvGitHubOutput)}
}

// Set publishes one output.
func (w *OutputWriter) Set(name, value string) error {
	if w.file == "" {
		_, err := fmt.Fprintf(w.out, "::set-output name=%s::%s\n", name, escapeOutput(value))
		return err
	}

	f, err := os.OpenFile(w.file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", EnvGitHubOutput, err)
	}
	defer f.Close()

	var line string
	if strings.ContainsAny(value, "\r\n") {
		delimiter := "ghadelimiter_" + uuid.New().String()
		line = fmt.Sprintf("%s<<%s\n%s\n%s\n", name, delimiter, value, delimiter)
	} else {
		line = fmt.Sprintf("%s=%s\n", name, value)
	}
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("failed to write output %s: %w", name, err)
	}
	return nil
}

// SetTarget publishes the outputs known before the run starts.
func (w *OutputWriter) SetTarget(setup, image string) error {
	if err := w.Set(OutputSetup, setup); err != nil {
		return err
	}
	return w.Set(OutputImage, image)
}

// SetResult publishes the actions taken and the deployment coordinates.
func (w *OutputWriter) SetResult(res *reconciler.RunResult) error {
	if err := w.Set(OutputActions, strings.Join(res.ActionNames(), ",")); err != nil {
		return err
	}
	return w.Set(OutputDeployments, strings.Join(res.Deployments, ","))
}

func escapeOutput(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	return strings.ReplaceAll(s, "\n", "%0A")
}
