package render

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-shellwords"

	"github.com/matzehuels/scenegen/pkg/errors"
	"github.com/matzehuels/scenegen/pkg/scene"
)

// Command runs an external engine once per view. The command line is split
// like a POSIX shell would split it; these placeholders are then replaced in
// every argument:
//
//	{scene}   path of the scene description JSON
//	{dir}     output directory
//	{prefix}  output path without suffix, e.g. output/test/test0_1
//
// The engine should write the files named by scene.Paths. A stdout line of
// the form "depth_scale: 0.42" (or "depth_scale=0.42") reports the depth
// scale.
type Command struct {
	args   []string
	env    []string
	logger *log.Logger
}

// NewCommand parses line. Environment variables in line are expanded.
func NewCommand(line string, logger *log.Logger) (*Command, error) {
	p := shellwords.NewParser()
	p.ParseEnv = true
	args, err := p.Parse(line)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidOptions, err, "parse engine command %q", line)
	}
	if len(args) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidOptions, "empty engine command")
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Command{args: args, logger: logger}, nil
}

// WithEnv returns a copy of c that adds env (KEY=value) to the engine's
// environment.
func (c *Command) WithEnv(env ...string) *Command {
	cp := *c
	cp.env = append(append([]string(nil), c.env...), env...)
	return &cp
}

// Args returns the parsed command line before placeholder expansion.
func (c *Command) Args() []string {
	return append([]string(nil), c.args...)
}

// Render writes the scene description and runs the engine for it.
func (c *Command) Render(ctx context.Context, req Request) (Result, error) {
	scenePath, err := WriteScene(req)
	if err != nil {
		return Result{}, err
	}

	args := c.expand(req.Paths, scenePath)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	if len(c.env) > 0 {
		cmd.Env = append(os.Environ(), c.env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.logger.Debug("running engine", "prefix", req.Paths.Prefix(), "cmd", strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
		return Result{}, errors.Wrap(errors.ErrCodeRenderFailed, err,
			"engine failed for %s: %s", req.Paths.Prefix(), tail(stderr.String(), 512))
	}

	res := Result{Outputs: map[string]string{scene.OutputScene: scenePath}}
	for name, path := range req.Paths.All() {
		if _, err := os.Stat(path); err == nil {
			res.Outputs[name] = path
		}
	}
	if scale, ok := parseDepthScale(stdout.Bytes()); ok {
		res.DepthScale = scale
		c.logger.Info("Depth scale", "prefix", req.Paths.Prefix(), "scale", scale)
	}
	return res, nil
}

func (c *Command) expand(p scene.Paths, scenePath string) []string {
	r := strings.NewReplacer(
		"{scene}", scenePath,
		"{dir}", p.Dir,
		"{prefix}", filepath.Join(p.Dir, p.Prefix()),
	)
	out := make([]string, len(c.args))
	for i, a := range c.args {
		out[i] = r.Replace(a)
	}
	return out
}

var depthScaleRe = regexp.MustCompile(`(?i)^\s*depth[_ ]scale\s*[:=]\s*([-+0-9.eE]+)\s*$`)

// parseDepthScale returns the last depth scale reported in out.
func parseDepthScale(out []byte) (float64, bool) {
	var scale float64
	found := false
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		m := depthScaleRe.FindStringSubmatch(sc.Text())
		if m == nil {
			continue
		}
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			scale, found = v, true
		}
	}
	return scale, found
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
