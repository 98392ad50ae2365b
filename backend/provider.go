package backend

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// Provider executes queries against one configured backend and returns
// canonical tasks. It is immutable after New: successive queries share
// nothing but the config, so every call is a fresh snapshot.
type Provider struct {
	cfg    Config
	env    []string
	logger *log.Logger
	now    func() time.Time
}

// Option configures a Provider.
type Option func(*Provider)

// WithEnv appends environment entries ("KEY=value") to the backend
// process environment, typically a credential resolved from the keyring.
func WithEnv(env []string) Option {
	return func(p *Provider) { p.env = env }
}

// WithLogger routes the provider's diagnostics (dropped dates, skipped
// records, command traces) to the given logger.
func WithLogger(logger *log.Logger) Option {
	return func(p *Provider) { p.logger = logger }
}

// WithNow fixes the clock used for urgency synthesis. Tests use this;
// everything else runs on time.Now.
func WithNow(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

// New validates cfg, fills in its type's defaults, and returns a
// Provider ready to query.
func New(cfg Config, opts ...Option) (*Provider, error) {
	cfg, err := withDefaults(cfg)
	if err != nil {
		return nil, err
	}
	p := &Provider{
		cfg:    cfg,
		logger: log.New(io.Discard),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Config returns the effective backend configuration, defaults included.
func (p *Provider) Config() Config {
	return p.cfg
}

// Query runs one backend invocation and normalizes its output into
// canonical tasks. The error is an *ExecError when the backend process or
// its payload is at fault; field-level gaps never error.
func (p *Provider) Query(ctx context.Context, query string) ([]Task, error) {
	p.logger.Debug("running backend query",
		"type", p.cfg.Type, "command", p.cfg.Command, "query", query)

	records, skipped, err := runQuery(ctx, p.cfg, query, p.env)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		p.logger.Warn("skipped records that were not JSON objects",
			"count", skipped)
	}

	m := newMapper(p.cfg, p.now(), func(field, value string, err error) {
		p.logger.Warn("dropped unparsable date",
			"field", field, "value", value, "err", err)
	})
	tasks := make([]Task, 0, len(records))
	for _, rec := range records {
		tasks = append(tasks, m.task(rec))
	}
	p.logger.Debug("backend query complete", "tasks", len(tasks))
	return tasks, nil
}
