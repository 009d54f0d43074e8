// Package invoke runs the driver subprocess against a target module.
//
// One driver run happens per resolved toolchain group. Every run walks a
// small state machine so failures are attributable to a stage: building the
// driver, invoking it, or the driver's own verdict.
package invoke

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/dynalint/dynalint/internal/build"
	oerrors "github.com/dynalint/dynalint/internal/errors"
	"github.com/dynalint/dynalint/internal/gotool"
	"github.com/dynalint/dynalint/internal/output"
	"github.com/dynalint/dynalint/internal/resolve"
)

// State names one stage of a driver run.
type State string

// Driver run states.
const (
	StateIdle      State = "idle"
	StateBuilding  State = "building"
	StateInvoking  State = "invoking"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
	StateCrashed   State = "crashed"
)

// Request describes one check run across the resolved toolchain groups.
type Request struct {
	// Groups holds the artifact paths to load, one group per toolchain.
	Groups []resolve.Group

	// TargetDir is the directory the driver runs in, normally the target
	// module root.
	TargetDir string

	// Patterns are the package patterns handed to the driver. Defaults to
	// "./..." when empty.
	Patterns []string

	// DriverFlags are passed to the driver verbatim, before the patterns,
	// so analyzer flags parse ahead of the package list.
	DriverFlags []string

	// JSON requests structured driver output, passed through unmodified.
	JSON bool

	// Fix applies suggested fixes, then verifies with a clean run.
	Fix bool

	// List makes the driver enumerate its loaded analyzers instead of
	// running them.
	List bool

	// KeepGoing runs every group even after failures and reports them
	// together at the end.
	KeepGoing bool

	// Timeout bounds each driver run. Zero means no limit.
	Timeout time.Duration
}

// Invoker launches driver subprocesses.
type Invoker struct {
	// Builder materializes missing driver binaries.
	Builder *build.Builder

	// Env seeds the driver environment; nil means the inherited one.
	Env []string

	// Stdout and Stderr receive the driver's output; nil means the
	// process's own streams.
	Stdout io.Writer
	Stderr io.Writer
}

// Run drives every toolchain group through the state machine. Without
// KeepGoing the first failing group aborts the run.
func (inv *Invoker) Run(ctx context.Context, req Request) error {
	var failures []error
	for _, group := range req.Groups {
		err := inv.runGroup(ctx, group, req)
		if err == nil {
			continue
		}
		if !req.KeepGoing {
			return err
		}
		failures = append(failures, err)
	}

	if len(failures) > 0 {
		output.Error("driver runs failed", "failed", len(failures), "total", len(req.Groups))
		return oerrors.Batch(failures...)
	}
	return nil
}

func (inv *Invoker) runGroup(ctx context.Context, group resolve.Group, req Request) error {
	tcLog := output.ToolchainLogger(group.Toolchain.String())
	state := StateIdle
	transition := func(next State) {
		tcLog.Debug("driver state", "from", string(state), "to", string(next))
		state = next
	}

	transition(StateBuilding)
	driverBin, err := inv.Builder.EnsureDriver(ctx, group.Toolchain)
	if err != nil {
		transition(StateFailed)
		return err
	}

	transition(StateInvoking)
	if err := inv.exec(ctx, driverBin, group, req, req.Fix); err != nil {
		transition(failureState(err))
		return err
	}

	if req.Fix {
		// Applied fixes must survive a clean run; a failure here is the
		// distinct verification error, never the fix pass's own result.
		if err := inv.exec(ctx, driverBin, group, req, false); err != nil {
			transition(failureState(err))
			return fmt.Errorf("%w: %w", oerrors.ErrFixVerification, err)
		}
	}

	transition(StateSucceeded)
	return nil
}

// exec launches one driver subprocess and classifies its termination.
func (inv *Invoker) exec(ctx context.Context, driverBin string, group resolve.Group, req Request, fix bool) error {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, driverBin, driverArgs(req, fix)...)
	cmd.Dir = req.TargetDir
	cmd.Env = inv.environ(group, req)
	cmd.Stdout = inv.stdout()
	cmd.Stderr = inv.stderr()

	output.Debug("running driver", "bin", driverBin, "args", strings.Join(cmd.Args[1:], " "))

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return fmt.Errorf("%w: %w", oerrors.ErrInvocation, err)
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		if req.Timeout > 0 && errors.Is(ctxErr, context.DeadlineExceeded) {
			return &oerrors.CrashError{Signal: fmt.Sprintf("killed after %s timeout", req.Timeout)}
		}
		return ctxErr
	}

	if ps := exitErr.ProcessState; ps != nil && !ps.Exited() {
		return &oerrors.CrashError{Signal: ps.String()}
	}
	return &oerrors.RuntimeError{ExitCode: exitErr.ExitCode()}
}

// driverArgs assembles the driver argv: mode flags, then the caller's
// verbatim flags, then package patterns.
func driverArgs(req Request, fix bool) []string {
	var args []string
	if req.JSON {
		args = append(args, "-json")
	}
	if fix {
		args = append(args, "-fix")
	}
	args = append(args, req.DriverFlags...)
	if req.List {
		return args
	}
	if len(req.Patterns) == 0 {
		return append(args, "./...")
	}
	return append(args, req.Patterns...)
}

// environ builds the driver environment: DYNALINT_GOFLAGS appended to
// GOFLAGS, GOROOT dropped, GOTOOLCHAIN pinned to the group's channel, and
// the artifact list published as DYNALINT_LIBS.
func (inv *Invoker) environ(group resolve.Group, req Request) []string {
	base := inv.Env
	if base == nil {
		base = os.Environ()
	}

	env := append([]string(nil), base...)
	if extra, ok := gotool.Get(env, "DYNALINT_GOFLAGS"); ok && extra != "" {
		flags, _ := gotool.Get(env, "GOFLAGS")
		env = gotool.Set(env, "GOFLAGS", strings.TrimSpace(flags+" "+extra))
	}
	env = gotool.Environ(env, group.Toolchain)

	libs, _ := json.Marshal(group.Paths)
	env = gotool.Set(env, "DYNALINT_LIBS", string(libs))
	if req.List {
		env = gotool.Set(env, "DYNALINT_LIST", "1")
	}
	return env
}

func failureState(err error) State {
	if errors.Is(err, oerrors.ErrCrash) {
		return StateCrashed
	}
	return StateFailed
}

func (inv *Invoker) stdout() io.Writer {
	if inv.Stdout != nil {
		return inv.Stdout
	}
	return os.Stdout
}

func (inv *Invoker) stderr() io.Writer {
	if inv.Stderr != nil {
		return inv.Stderr
	}
	return os.Stderr
}
