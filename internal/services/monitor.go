package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sysmonitor/web-monitor/internal/config"
	"github.com/sysmonitor/web-monitor/internal/models"
	srvErrors "github.com/sysmonitor/web-monitor/pkg/errors"
	"github.com/sysmonitor/web-monitor/pkg/parsers"
	"github.com/sysmonitor/web-monitor/pkg/runner"
	"github.com/sysmonitor/web-monitor/pkg/scheduler"
)

// Tool binds a tool kind to the executable spec the runner invokes for
// it. Argument lists are fixed here and never carry request input.
type Tool struct {
	Kind models.ToolKind
	Spec runner.Spec
}

// ToolsFromConfig builds the tool set for the configured executable
// paths.
func ToolsFromConfig(cfg config.Monitor) []Tool {
	return []Tool{
		{Kind: models.ToolLspci, Spec: runner.Spec{Path: cfg.LspciPath, Args: []string{"-vk"}}},
		{Kind: models.ToolLshw, Spec: runner.Spec{Path: cfg.LshwPath, Args: []string{"-quiet"}}},
		{Kind: models.ToolNvidiaSMI, Spec: runner.Spec{Path: cfg.NvidiaSMIPath, Args: parsers.NvidiaSMIQueryArgs}},
	}
}

// Monitor owns the collection cycle: it triggers on a fixed interval and
// on demand, runs the tools, parses and merges their output, and
// publishes the snapshot. At most one cycle is in flight; triggers
// arriving during a cycle coalesce into a single follow-up cycle.
type Monitor struct {
	tools     []Tool
	runner    *runner.Runner
	parsers   *parsers.Registry
	cache     *SnapshotCache
	scheduler *scheduler.Scheduler
	interval  time.Duration

	// trigger holds at most one pending on-demand request; a full slot
	// is the coalescing point.
	trigger chan any
	close   chan any
	done    chan any

	stopOnce sync.Once
	mu       sync.Mutex
	stopped  bool

	log *zap.SugaredLogger
}

func NewMonitor(cfg config.Monitor, s *scheduler.Scheduler, cache *SnapshotCache, registry *parsers.Registry) *Monitor {
	return &Monitor{
		tools:     ToolsFromConfig(cfg),
		runner:    runner.New(cfg.ToolTimeout, cfg.MaxOutputBytes),
		parsers:   registry,
		cache:     cache,
		scheduler: s,
		interval:  cfg.RefreshInterval,
		trigger:   make(chan any, 1),
		close:     make(chan any),
		done:      make(chan any),
		log:       zap.S().Named("monitor"),
	}
}

// Start launches the refresh loop. The first cycle runs immediately so
// the cache leaves its uninitialized state without waiting a full
// interval.
func (m *Monitor) Start() {
	go m.run()
}

// Stop ends the refresh loop and waits for an in-flight cycle to finish.
func (m *Monitor) Stop() {
	m.mu.Lock()
	m.stopped = true
	m.mu.Unlock()

	m.stopOnce.Do(func() { close(m.close) })
	<-m.done
}

// Refresh requests an immediate collection cycle. The returned flag is
// true when a new cycle was queued and false when the request coalesced
// into one already pending or in flight.
func (m *Monitor) Refresh() (bool, error) {
	m.mu.Lock()
	stopped := m.stopped
	m.mu.Unlock()
	if stopped {
		return false, srvErrors.NewMonitorStoppedError()
	}

	select {
	case m.trigger <- struct{}{}:
		return true, nil
	default:
		return false, nil
	}
}

// Snapshot returns the current published snapshot.
func (m *Monitor) Snapshot() (*models.Snapshot, error) {
	s, ok := m.cache.Current()
	if !ok {
		return nil, srvErrors.NewSnapshotNotReadyError()
	}
	return s, nil
}

func (m *Monitor) run() {
	defer close(m.done)

	tick := time.NewTicker(m.interval)
	defer func() {
		tick.Stop()
		m.log.Info("refresh loop stopped")
	}()

	m.cycle()

	for {
		select {
		case <-tick.C:
		case <-m.trigger:
		case <-m.close:
			return
		}

		select {
		case <-m.close:
			return
		default:
		}

		m.cycle()
	}
}

// cycle runs one full collect-parse-merge-publish pass. A cycle always
// publishes, even when every tool failed: an empty snapshot with failure
// reports is meaningful and must not stall readers.
func (m *Monitor) cycle() {
	start := time.Now()

	type pending struct {
		kind   models.ToolKind
		future *scheduler.Future[scheduler.Result[any]]
	}

	futures := make([]pending, 0, len(m.tools))
	for _, tool := range m.tools {
		futures = append(futures, pending{
			kind: tool.Kind,
			future: m.scheduler.AddWork(func(ctx context.Context) (any, error) {
				return m.collect(ctx, tool), nil
			}),
		})
	}

	collections := make([]models.ToolCollection, 0, len(futures))
	for _, p := range futures {
		select {
		case result := <-p.future.C():
			if collection, ok := result.Data.(models.ToolCollection); ok {
				collections = append(collections, collection)
			}
		case <-m.close:
			for _, rest := range futures {
				rest.future.Stop()
			}
			return
		}
	}

	snapshot := models.Merge(collections, time.Now())
	m.cache.Publish(snapshot)

	m.log.Infow("published snapshot",
		"id", snapshot.ID,
		"devices", len(snapshot.Devices),
		"degraded", snapshot.Degraded(),
		"elapsed", time.Since(start),
	)
}

// collect runs one tool and parses its output into a collection. Every
// failure mode becomes report state; collect itself cannot fail.
func (m *Monitor) collect(ctx context.Context, tool Tool) models.ToolCollection {
	result := m.runner.Run(ctx, tool.Spec)

	report := models.ToolReport{
		Duration:  result.Elapsed,
		Truncated: result.Truncated,
	}

	switch result.Status {
	case runner.StatusNotFound:
		report.State = models.ToolStateNotFound
		report.Error = result.Err
	case runner.StatusTimeout:
		report.State = models.ToolStateTimeout
		report.Error = result.Err
	case runner.StatusNonZeroExit:
		report.State = models.ToolStateFailed
		report.Error = result.Err
		if stderr := firstLine(result.Stderr); stderr != "" {
			report.Error += ": " + stderr
		}
	}

	if result.Failed() {
		m.log.Warnw("tool collection failed",
			"tool", tool.Kind, "state", report.State, "error", report.Error)
		return models.ToolCollection{Kind: tool.Kind, Report: report}
	}

	parser, err := m.parsers.Get(tool.Kind)
	if err != nil {
		report.State = models.ToolStateFailed
		report.Error = err.Error()
		return models.ToolCollection{Kind: tool.Kind, Report: report}
	}

	records, status := parser.Parse(result.Stdout)
	report.Records = len(records)
	report.SkippedLines = status.SkippedLines
	report.Duplicates = status.Duplicates

	switch {
	case status.State == parsers.StateEmpty:
		report.State = models.ToolStateEmpty
	case status.State == parsers.StatePartial || result.Truncated:
		report.State = models.ToolStatePartial
	default:
		report.State = models.ToolStateOK
	}

	return models.ToolCollection{Kind: tool.Kind, Records: records, Report: report}
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
