package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/iter"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"ozzus/multiping/internal/checks"
	"ozzus/multiping/internal/domain"
	"ozzus/multiping/internal/hostspec"
	"ozzus/multiping/internal/repository"
)

type Config struct {
	Hosts        string
	Names        string
	PingCommand  string
	Ping6Command string
	PingArgs     string
	PingArgs2    string
	Fork         bool
	// MaxParallel caps concurrent probes when Fork is set; 0 means one
	// goroutine per target.
	MaxParallel int
	Metric      domain.Metric
}

// ProbeService turns the host configuration into probe targets and probes
// them.
type ProbeService struct {
	log      *slog.Logger
	resolver checks.Resolver
	prober   checks.Prober
	cfg      Config
}

func NewProbeService(
	resolver checks.Resolver,
	prober checks.Prober,
	cfg Config,
	log *slog.Logger,
) *ProbeService {
	if cfg.PingCommand == "" {
		cfg.PingCommand = "ping"
	}
	if cfg.Ping6Command == "" {
		cfg.Ping6Command = "ping6"
	}
	if cfg.Metric == "" {
		cfg.Metric = domain.MetricLatency
	}
	if log == nil {
		log = slog.Default()
	}

	return &ProbeService{
		log:      log,
		resolver: resolver,
		prober:   prober,
		cfg:      cfg,
	}
}

func (s *ProbeService) Metric() domain.Metric {
	return s.cfg.Metric
}

// Run enumerates the targets and probes every one of them. Results follow
// enumeration order.
func (s *ProbeService) Run(ctx context.Context) []domain.ProbeResult {
	return s.Collect(ctx, s.Enumerate(ctx))
}

// Enumerate builds the flat target list: one target per unresolved spec, one
// per resolved address otherwise. A spec that resolves to nothing contributes
// no target.
func (s *ProbeService) Enumerate(ctx context.Context) []domain.ProbeTarget {
	specs := hostspec.Parse(s.cfg.Hosts)
	names := s.labels(specs)
	resolved := s.resolveAll(ctx, specs)

	targets := make([]domain.ProbeTarget, 0, len(specs))
	for i, spec := range specs {
		command := s.cfg.PingCommand
		if spec.UseIPv6() {
			command = s.cfg.Ping6Command
		}

		if !spec.NeedsResolve() {
			targets = append(targets, domain.ProbeTarget{
				Label:       names[i],
				Address:     spec.Address,
				PingCommand: command,
			})
			continue
		}

		if len(resolved[i]) == 0 {
			s.log.Debug("host resolved to no addresses",
				"host", spec.Address,
				"type", spec.RecordType,
			)
		}

		for _, addr := range resolved[i] {
			targets = append(targets, domain.ProbeTarget{
				Label:       domain.ExpandedLabel(names[i], addr),
				Address:     addr,
				PingCommand: command,
			})
		}
	}

	s.log.Debug("targets enumerated",
		"specs", len(specs),
		"targets", len(targets),
	)

	return targets
}

// Collect probes targets, one after another or concurrently when Fork is
// set, and returns once every probe has finished.
func (s *ProbeService) Collect(ctx context.Context, targets []domain.ProbeTarget) []domain.ProbeResult {
	if len(targets) == 0 {
		return []domain.ProbeResult{}
	}

	if !s.cfg.Fork {
		results := make([]domain.ProbeResult, 0, len(targets))
		for i := range targets {
			results = append(results, s.probe(ctx, &targets[i]))
		}
		return results
	}

	workers := s.cfg.MaxParallel
	if workers <= 0 || workers > len(targets) {
		workers = len(targets)
	}

	mapper := iter.Mapper[domain.ProbeTarget, domain.ProbeResult]{MaxGoroutines: workers}
	return mapper.Map(targets, func(target *domain.ProbeTarget) domain.ProbeResult {
		return s.probe(ctx, target)
	})
}

// Publish sends the results of one run to repo.
func (s *ProbeService) Publish(
	ctx context.Context,
	repo repository.ResultRepository,
	startedAt time.Time,
	results []domain.ProbeResult,
) error {
	report := domain.RunReport{
		RunID:      uuid.NewString(),
		Metric:     s.cfg.Metric,
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
		Results:    results,
	}

	return repo.SendReport(ctx, report)
}

func (s *ProbeService) probe(ctx context.Context, target *domain.ProbeTarget) domain.ProbeResult {
	output := s.prober.Probe(ctx, target.PingCommand, s.cfg.PingArgs, target.Address, s.cfg.PingArgs2)

	value, ok := checks.ParseOutput(s.cfg.Metric, output)
	if !ok {
		s.log.Debug("no statistic in ping output",
			"label", target.Label,
			"address", target.Address,
			"metric", s.cfg.Metric,
		)
	}

	return domain.ProbeResult{
		Target: *target,
		Value:  value,
		Valid:  ok,
	}
}

// labels pairs every spec with its configured name. A name list of another
// length than the host list is ignored with a warning, and addresses are used
// instead.
func (s *ProbeService) labels(specs []domain.HostSpec) []string {
	labels := make([]string, len(specs))
	for i, spec := range specs {
		labels[i] = spec.Address
	}

	names := hostspec.Split(s.cfg.Names)
	if len(names) == 0 {
		return labels
	}

	if len(names) != len(specs) {
		s.log.Warn("names and hosts differ in count, using addresses as names",
			"hosts", len(specs),
			"names", len(names),
		)
		return labels
	}

	copy(labels, names)

	return labels
}

// resolveAll resolves every spec that needs it exactly once. Identical
// lookups in flight at the same time share one resolver call.
func (s *ProbeService) resolveAll(ctx context.Context, specs []domain.HostSpec) [][]string {
	resolved := make([][]string, len(specs))

	var lookups singleflight.Group
	g, gctx := errgroup.WithContext(ctx)
	if !s.cfg.Fork {
		g.SetLimit(1)
	}

	for i, spec := range specs {
		if !spec.NeedsResolve() {
			continue
		}

		g.Go(func() error {
			v, _, _ := lookups.Do(spec.RecordType+" "+spec.Address, func() (interface{}, error) {
				return s.resolver.Resolve(gctx, spec.RecordType, spec.Address), nil
			})
			resolved[i], _ = v.([]string)
			return nil
		})
	}

	_ = g.Wait()

	return resolved
}
