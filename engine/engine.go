package engine

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/davidemerli/polimi-progetto-api-2019/command"
	"github.com/davidemerli/polimi-progetto-api-2019/graph"
	"github.com/davidemerli/polimi-progetto-api-2019/metric"
	"github.com/davidemerli/polimi-progetto-api-2019/report"
)

// Engine runs the scanner -> store -> emitter pipeline.
type Engine struct {
	scanner *command.Scanner
	store   *graph.Store
	emitter *report.Emitter
	metrics *metric.Metrics
	logger  *slog.Logger

	lastRecomputes uint64
}

// New creates an engine over the given pipeline stages. metrics may be nil
// to disable instrumentation; a nil logger falls back to slog.Default().
func New(
	scanner *command.Scanner,
	store *graph.Store,
	emitter *report.Emitter,
	metrics *metric.Metrics,
	logger *slog.Logger,
) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		scanner: scanner,
		store:   store,
		emitter: emitter,
		metrics: metrics,
		logger:  logger,
	}
}

// Run processes commands until end, EOF, or context cancellation, then
// flushes the emitter. The end command and EOF are equivalent: both flush
// and return nil.
func (e *Engine) Run(ctx context.Context) error {
	started := time.Now()
	commands := 0

	for {
		if err := ctx.Err(); err != nil {
			_ = e.emitter.Flush()
			return err
		}

		cmd, err := e.scanner.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			_ = e.emitter.Flush()
			return err
		}

		commands++
		if e.dispatch(cmd) {
			break
		}
		if err := e.emitter.Err(); err != nil {
			return err
		}
	}

	if err := e.emitter.Flush(); err != nil {
		return err
	}

	if e.metrics != nil {
		e.metrics.LinesConsumed.Add(float64(e.scanner.Line()))
	}

	stats := e.store.Stats()
	e.logger.Info("run complete",
		"commands", commands,
		"lines", e.scanner.Line(),
		"entities", stats.Entities,
		"relations", stats.Relations,
		"recomputes", stats.Recomputes,
		"elapsed", time.Since(started))
	return nil
}

// dispatch applies one command to the store. Reports whether the run
// should stop (the end command).
func (e *Engine) dispatch(cmd command.Command) bool {
	switch cmd.Verb {
	case command.VerbAddEntity:
		applied := e.store.AddEntity(cmd.Args[0])
		e.observe(cmd.Verb, applied)

	case command.VerbDelEntity:
		applied := e.store.DeleteEntity(cmd.Args[0])
		e.observe(cmd.Verb, applied)

	case command.VerbAddRelation:
		applied := e.store.AddRelation(cmd.Args[0], cmd.Args[1], cmd.Args[2])
		e.observe(cmd.Verb, applied)

	case command.VerbDelRelation:
		applied := e.store.DeleteRelation(cmd.Args[0], cmd.Args[1], cmd.Args[2])
		e.observe(cmd.Verb, applied)

	case command.VerbReport:
		started := time.Now()
		e.store.Report(e.emitter)
		if e.metrics != nil {
			e.metrics.ReportDuration.Observe(time.Since(started).Seconds())
			e.metrics.ReportsEmitted.Inc()
		}
		e.observe(cmd.Verb, true)

	case command.VerbEnd:
		e.observe(cmd.Verb, true)
		return true
	}
	return false
}

// observe records the command outcome and refreshes store gauges.
func (e *Engine) observe(verb command.Verb, applied bool) {
	if e.metrics == nil {
		return
	}

	outcome := "applied"
	if !applied {
		outcome = "noop"
	}
	e.metrics.CommandsProcessed.WithLabelValues(verb.String(), outcome).Inc()

	stats := e.store.Stats()
	e.metrics.EntitiesLive.Set(float64(stats.Entities))
	e.metrics.RelationsLive.Set(float64(stats.Relations))
	e.metrics.RelationTypesLive.Set(float64(stats.Types))
	if delta := stats.Recomputes - e.lastRecomputes; delta > 0 {
		e.metrics.IndexRecomputes.Add(float64(delta))
		e.lastRecomputes = stats.Recomputes
	}
}
