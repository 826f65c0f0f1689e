package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/polaris/pkg/errors"
	"github.com/matzehuels/polaris/pkg/pipeline"
)

// newLogger writes timestamped records ("14:32:01.45") at level and above.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one render of a radar document for the watcher log.
type progress struct {
	logger *log.Logger
	input  string
	start  time.Time
}

func newProgress(l *log.Logger, input string) *progress {
	return &progress{logger: l, input: input, start: time.Now()}
}

// done logs the size of the rendered radar and how many formats were
// served from the cache.
func (p *progress) done(res *pipeline.Result) {
	p.logger.Info("rendered",
		"input", p.input,
		"entities", res.Stats.Entities,
		"dimensions", res.Stats.Dimensions,
		"rings", res.Stats.Stages,
		"cached", len(res.CacheInfo.Hits),
		"elapsed", time.Since(p.start).Round(time.Millisecond))
}

// failed logs why the document could not be rendered. Validation
// problems keep their one-per-line layout.
func (p *progress) failed(err error) {
	p.logger.Warn("render failed", "input", p.input, "err", errors.UserMessage(err))
}
