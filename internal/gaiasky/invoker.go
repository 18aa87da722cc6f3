package gaiasky

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/orbitcam/internal/gateway"
	"github.com/Faultbox/orbitcam/internal/metrics"
	"github.com/Faultbox/orbitcam/pkg/math"
)

// Invoker delivers commands to the host.
type Invoker interface {
	Invoke(ctx context.Context, cmd Command) (gateway.Value, error)
}

// Remote sends commands over a py4j gateway connection.
type Remote struct {
	client  *gateway.Client
	metrics *metrics.Metrics
	log     *zap.Logger
}

// NewRemote wraps a connected gateway client. m and log may be nil.
func NewRemote(client *gateway.Client, m *metrics.Metrics, log *zap.Logger) *Remote {
	if log == nil {
		log = zap.NewNop()
	}
	return &Remote{client: client, metrics: m, log: log}
}

// Invoke sends cmd to the entry point. Vector arguments become
// java.util.ArrayList objects that are released once the call returns.
func (r *Remote) Invoke(ctx context.Context, cmd Command) (gateway.Value, error) {
	start := time.Now()
	v, err := r.invoke(ctx, cmd)
	elapsed := time.Since(start)

	r.metrics.ObserveCommand(cmd.Method, elapsed, err)
	if err != nil {
		r.log.Error("host command failed", zap.Stringer("cmd", cmd), zap.Error(err))
		return v, err
	}
	r.log.Debug("host command", zap.Stringer("cmd", cmd), zap.Duration("took", elapsed))
	return v, nil
}

func (r *Remote) invoke(ctx context.Context, cmd Command) (v gateway.Value, err error) {
	args := make([]any, len(cmd.Args))
	var refs []gateway.Ref
	// Lists live in the host's object table until released, whatever the
	// outcome of the call, so release even after cancellation.
	defer func() {
		if len(refs) == 0 {
			return
		}
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ReleaseTimeout)
		defer cancel()
		for _, ref := range refs {
			if rerr := r.client.Release(rctx, ref); rerr != nil && err == nil {
				err = fmt.Errorf("releasing %s argument: %w", cmd.Method, rerr)
			}
		}
	}()

	for i, a := range cmd.Args {
		vec, ok := a.(math.Vec3)
		if !ok {
			args[i] = a
			continue
		}
		ref, lerr := r.client.NewList(ctx, vec.X, vec.Y, vec.Z)
		if lerr != nil {
			return gateway.Value{}, fmt.Errorf("marshalling %s argument %d: %w", cmd.Method, i, lerr)
		}
		refs = append(refs, ref)
		args[i] = ref
	}

	return r.client.CallEntryPoint(ctx, cmd.Method, args...)
}

// ReleaseTimeout bounds freeing argument lists once a call is over.
const ReleaseTimeout = 5 * time.Second

// DefaultUnitToMeter is the internal-unit-to-metre factor of a stock Gaia
// Sky installation.
const DefaultUnitToMeter = 1e9

// Recorder keeps every command instead of sending it. It is used for dry
// runs and tests.
type Recorder struct {
	// UnitToMeter answers getInternalUnitToMeterConversion.
	UnitToMeter float64
	// Out, when set, receives one line per command.
	Out io.Writer
	// FailOn makes Invoke fail for the given method.
	FailOn string

	mu       sync.Mutex
	commands []Command
}

// NewRecorder creates a recorder answering with the stock unit factor.
func NewRecorder(out io.Writer) *Recorder {
	return &Recorder{UnitToMeter: DefaultUnitToMeter, Out: out}
}

// Invoke records cmd.
func (r *Recorder) Invoke(ctx context.Context, cmd Command) (gateway.Value, error) {
	if err := ctx.Err(); err != nil {
		return gateway.Value{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailOn != "" && cmd.Method == r.FailOn {
		return gateway.Value{}, &gateway.JavaError{Method: cmd.Method, Message: "rejected by recorder"}
	}

	r.commands = append(r.commands, cmd)
	if r.Out != nil {
		fmt.Fprintf(r.Out, "%3d  %s\n", len(r.commands), cmd)
	}

	if cmd.Method == MethodGetUnitToMeter {
		return gateway.Value{Kind: gateway.KindDouble, Float: r.UnitToMeter}, nil
	}
	return gateway.Value{Kind: gateway.KindVoid}, nil
}

// Commands returns a copy of the recorded commands.
func (r *Recorder) Commands() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Command(nil), r.commands...)
}

// Methods returns the recorded method names in order.
func (r *Recorder) Methods() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.commands))
	for i, c := range r.commands {
		names[i] = c.Method
	}
	return names
}
