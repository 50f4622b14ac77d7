package monitor

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/rileyhilliard/rigmon/internal/dashboard"
	"github.com/rileyhilliard/rigmon/internal/device"
	"github.com/rileyhilliard/rigmon/internal/logger"
	"github.com/rileyhilliard/rigmon/internal/protocol"
)

// Poller runs one refresh cycle against the device.
//
// Poll returns one result per command. A reply that fails to decode, or a
// request cut short by the cycle deadline, only marks its own section
// unavailable. Any other fetch error is fatal and returned as the error.
type Poller interface {
	Poll(ctx context.Context) ([]dashboard.Result, error)
}

// SequentialPoller issues the commands one after another on a fresh
// connection each. A cycle can block for up to one idle timeout per command.
type SequentialPoller struct {
	fetcher device.Fetcher
	log     logger.Logger
}

// NewSequentialPoller creates the default poller.
func NewSequentialPoller(fetcher device.Fetcher, log logger.Logger) *SequentialPoller {
	if log == nil {
		log = logger.Noop()
	}
	return &SequentialPoller{fetcher: fetcher, log: log}
}

// Poll implements Poller.
func (p *SequentialPoller) Poll(ctx context.Context) ([]dashboard.Result, error) {
	cmds := device.Commands()
	results := make([]dashboard.Result, 0, len(cmds))
	for _, cmd := range cmds {
		r, err := fetchOne(ctx, p.fetcher, cmd, p.log)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

// ParallelPoller issues all commands at once and waits for every reply, so a
// cycle takes about one idle timeout instead of four. Results keep command
// order.
type ParallelPoller struct {
	fetcher device.Fetcher
	log     logger.Logger
}

// NewParallelPoller creates a poller that runs the requests concurrently.
func NewParallelPoller(fetcher device.Fetcher, log logger.Logger) *ParallelPoller {
	if log == nil {
		log = logger.Noop()
	}
	return &ParallelPoller{fetcher: fetcher, log: log}
}

// Poll implements Poller.
func (p *ParallelPoller) Poll(ctx context.Context) ([]dashboard.Result, error) {
	cmds := device.Commands()
	results := make([]dashboard.Result, len(cmds))
	errs := make([]error, len(cmds))

	var wg sync.WaitGroup
	for i, cmd := range cmds {
		wg.Add(1)
		go func(i int, cmd device.Command) {
			defer wg.Done()
			results[i], errs[i] = fetchOne(ctx, p.fetcher, cmd, p.log)
		}(i, cmd)
	}
	wg.Wait()

	// Report the first fatal error in command order.
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// fetchOne requests and decodes a single command.
func fetchOne(ctx context.Context, fetcher device.Fetcher, cmd device.Command, log logger.Logger) (dashboard.Result, error) {
	kind, ok := protocol.KindOf(cmd)
	if !ok {
		return dashboard.Result{}, stderrors.New("unsupported command: " + string(cmd))
	}

	start := time.Now()
	raw, err := fetcher.Request(ctx, cmd)
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) {
			log.Warn("%s: cycle deadline hit after %s", cmd, time.Since(start).Round(time.Millisecond))
			return dashboard.Result{Kind: kind, Err: err}, nil
		}
		return dashboard.Result{}, err
	}

	rec, err := protocol.Decode(kind, raw)
	if err != nil {
		log.Warn("%s: %d byte reply not decoded: %v", cmd, len(raw), err)
		return dashboard.Result{Kind: kind, Err: err}, nil
	}
	log.Debug("%s: decoded in %s", cmd, time.Since(start).Round(time.Millisecond))
	return dashboard.Result{Kind: kind, Record: rec}, nil
}
