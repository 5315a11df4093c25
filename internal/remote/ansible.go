package remote

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"al.essio.dev/pkg/shellescape"
)

// DefaultAnsibleBin is the ansible executable looked up on PATH.
const DefaultAnsibleBin = "ansible"

// AnsiblePusher implements Pusher with ansible ad-hoc commands.
type AnsiblePusher struct {
	bin    string
	run    Runner
	logger *slog.Logger
}

// AnsibleOption configures an AnsiblePusher.
type AnsibleOption func(*AnsiblePusher)

// WithRunner replaces the command executor. Intended for testing.
func WithRunner(run Runner) AnsibleOption {
	return func(p *AnsiblePusher) { p.run = run }
}

// WithLogger sets the logger used for command output.
func WithLogger(logger *slog.Logger) AnsibleOption {
	return func(p *AnsiblePusher) { p.logger = logger }
}

// NewAnsiblePusher returns a pusher invoking bin. An empty bin selects
// DefaultAnsibleBin.
func NewAnsiblePusher(bin string, opts ...AnsibleOption) *AnsiblePusher {
	if bin == "" {
		bin = DefaultAnsibleBin
	}
	p := &AnsiblePusher{bin: bin, run: ExecRunner, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// EnsureDir runs "mkdir -p" followed by chmod through the shell module.
func (p *AnsiblePusher) EnsureDir(ctx context.Context, host, dir string, mode fs.FileMode) error {
	quoted := shellescape.Quote(dir)
	script := fmt.Sprintf("mkdir -p %s && chmod %o %s", quoted, mode.Perm(), quoted)
	_, err := p.adhoc(ctx, host, "shell", script)
	return err
}

// CopyFile transfers src to dst through the copy module.
func (p *AnsiblePusher) CopyFile(ctx context.Context, host, src, dst string, mode fs.FileMode) error {
	moduleArgs := fmt.Sprintf("src=%s dest=%s mode=%04o",
		shellescape.Quote(src), shellescape.Quote(dst), mode.Perm())
	out, err := p.adhoc(ctx, host, "copy", moduleArgs)
	if err != nil {
		return err
	}
	p.logger.Debug("ansible copy finished", "host", host, "stdout", strings.TrimSpace(out))
	return nil
}

func (p *AnsiblePusher) adhoc(ctx context.Context, host, module, moduleArgs string) (string, error) {
	args := []string{host, "-m", module, "-a", moduleArgs}
	stdout, stderr, err := p.run(ctx, p.bin, args...)
	if err != nil {
		return "", newCommandError(append([]string{p.bin}, args...), stdout, stderr, err)
	}
	return string(stdout), nil
}
