// Package transform implements the compile/minify pipeline by shelling out
// to the configured external commands.
package transform

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/bale/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Transformer = (*Pipeline)(nil)

// Pipeline implements ports.Transformer using os/exec. The compile command
// receives source paths as trailing arguments and writes output to stdout;
// minify commands read stdin and write stdout.
type Pipeline struct {
	compileCmd []string
	minifyCmd  map[domain.Kind][]string
	minify     bool
	logger     ports.Logger
}

// NewPipeline creates a Pipeline from the loaded settings.
func NewPipeline(settings domain.Settings, logger ports.Logger) *Pipeline {
	return &Pipeline{
		compileCmd: settings.CompileCommand,
		minifyCmd:  settings.MinifyCommand,
		minify:     settings.Minify,
		logger:     logger,
	}
}

// Compile runs the compile command over the given source files and returns
// its stdout. Only style groups carry compilable (LESS) sources.
func (p *Pipeline) Compile(ctx context.Context, kind domain.Kind, sources []string) ([]byte, error) {
	if len(p.compileCmd) == 0 {
		return nil, zerr.With(domain.ErrTransformFailed, "reason", "no compile command configured")
	}

	args := make([]string, 0, len(p.compileCmd)-1+len(sources))
	args = append(args, p.compileCmd[1:]...)
	args = append(args, sources...)

	return p.run(ctx, p.compileCmd[0], args, nil)
}

// Minify pipes the input through the kind's minify command and returns its
// stdout. With no command configured the input passes through unchanged.
func (p *Pipeline) Minify(ctx context.Context, kind domain.Kind, input []byte) ([]byte, error) {
	cmd, ok := p.minifyCmd[kind]
	if !ok || len(cmd) == 0 {
		return input, nil
	}
	return p.run(ctx, cmd[0], cmd[1:], input)
}

// Fingerprint returns the ordered transform identifiers for the kind. The
// build cache hashes these so changing a command or its flags invalidates
// cached artifacts.
func (p *Pipeline) Fingerprint(kind domain.Kind) []string {
	var ids []string
	if kind == domain.KindStyle && len(p.compileCmd) > 0 {
		ids = append(ids, "compile:"+strings.Join(p.compileCmd, " "))
	}
	if p.minify {
		if cmd, ok := p.minifyCmd[kind]; ok && len(cmd) > 0 {
			ids = append(ids, "minify:"+strings.Join(cmd, " "))
		}
	}
	return ids
}

func (p *Pipeline) run(ctx context.Context, name string, args []string, stdin []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec // commands come from trusted configuration

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		p.logStderr(name, stderr.String())
		wrapped := zerr.Wrap(domain.ErrTransformFailed, err.Error())
		return nil, zerr.With(zerr.With(wrapped, "command", name), "exit_code", exitCode)
	}

	return stdout.Bytes(), nil
}

func (p *Pipeline) logStderr(name, out string) {
	for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
		if line != "" {
			p.logger.Warn(name + ": " + line)
		}
	}
}
