package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riskibarqy/brawl-tracker/internal/domain/ranked"
	"github.com/riskibarqy/brawl-tracker/internal/platform/logging"
	"github.com/riskibarqy/brawl-tracker/internal/platform/metrics"
)

const defaultResolveAttemptTimeout = 10 * time.Second

// AttemptOutcome is how one source attempt ended. Only OutcomeHit stops the chain.
type AttemptOutcome string

const (
	OutcomeHit         AttemptOutcome = "hit"
	OutcomeMiss        AttemptOutcome = "miss"
	OutcomeUnavailable AttemptOutcome = "unavailable"
	OutcomeMalformed   AttemptOutcome = "malformed"
)

// ResolveAttempt is the diagnostic record of one source attempt.
type ResolveAttempt struct {
	Source  ranked.Source
	Target  string
	Outcome AttemptOutcome
	Detail  string
}

func (a ResolveAttempt) String() string {
	if a.Detail == "" {
		return fmt.Sprintf("%s %s: %s", a.Source, a.Target, a.Outcome)
	}
	return fmt.Sprintf("%s %s: %s (%s)", a.Source, a.Target, a.Outcome, a.Detail)
}

type RankedResolution struct {
	Snapshot *ranked.Snapshot
	Attempts []ResolveAttempt
}

type RankedResolverConfig struct {
	Pages     ProfilePageSource
	Mirrors   RankedMirrorSource
	Extractor ranked.StatExtractor
	// AttemptTimeout bounds each outbound request; expiry fails only that attempt.
	AttemptTimeout time.Duration
	Logger         *logging.Logger
	Metrics        *metrics.Manager
}

// RankedResolver finds a player's ranked score on the secondary sources when the
// primary payload carries none. Sources are tried one after another.
type RankedResolver struct {
	pages     ProfilePageSource
	mirrors   RankedMirrorSource
	extractor ranked.StatExtractor
	timeout   time.Duration
	logger    *logging.Logger
	metrics   *metrics.Manager
}

func NewRankedResolver(cfg RankedResolverConfig) *RankedResolver {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	extractor := cfg.Extractor
	if extractor == nil {
		extractor = ranked.NewPatternStatExtractor()
	}
	timeout := cfg.AttemptTimeout
	if timeout <= 0 {
		timeout = defaultResolveAttemptTimeout
	}
	return &RankedResolver{
		pages:     cfg.Pages,
		mirrors:   cfg.Mirrors,
		extractor: extractor,
		timeout:   timeout,
		logger:    logger,
		metrics:   cfg.Metrics,
	}
}

// GetExternalRankedSnapshot returns nil when no source yields an acceptable snapshot.
func (r *RankedResolver) GetExternalRankedSnapshot(ctx context.Context, tag string, forceRefresh bool) *ranked.Snapshot {
	return r.Resolve(ctx, tag, forceRefresh).Snapshot
}

// Resolve walks the profile page then every mirror endpoint and stops at the first hit.
func (r *RankedResolver) Resolve(ctx context.Context, tag string, forceRefresh bool) RankedResolution {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankedResolver.Resolve")
	defer span.End()

	tag = ranked.NormalizeTag(tag)
	var resolution RankedResolution

	if r.pages != nil {
		snapshot, attempt := r.tryProfilePage(ctx, tag, forceRefresh)
		r.record(ctx, tag, &resolution, attempt)
		if snapshot != nil {
			resolution.Snapshot = snapshot
			return resolution
		}
	}

	if r.mirrors != nil {
		for _, endpoint := range r.mirrors.Endpoints(tag) {
			if ctx.Err() != nil {
				break
			}
			snapshot, attempt := r.tryMirror(ctx, tag, endpoint, forceRefresh)
			r.record(ctx, tag, &resolution, attempt)
			if snapshot != nil {
				resolution.Snapshot = snapshot
				return resolution
			}
		}
	}
	return resolution
}

func (r *RankedResolver) tryProfilePage(ctx context.Context, tag string, forceRefresh bool) (*ranked.Snapshot, ResolveAttempt) {
	attempt := ResolveAttempt{Source: ranked.SourceScrape, Target: "profile/" + ranked.TagWithoutMarker(tag)}

	attemptCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	page, err := r.pages.FetchProfilePage(attemptCtx, tag, forceRefresh)
	if err != nil {
		attempt.Outcome, attempt.Detail = OutcomeUnavailable, err.Error()
		return nil, attempt
	}

	stats, err := ranked.ParseProfilePage(page, r.extractor)
	if errors.Is(err, ranked.ErrBotChallenge) {
		attempt.Outcome, attempt.Detail = OutcomeUnavailable, err.Error()
		return nil, attempt
	}
	if err != nil {
		attempt.Outcome, attempt.Detail = OutcomeMalformed, err.Error()
		return nil, attempt
	}
	if !stats.Found() {
		attempt.Outcome = OutcomeMiss
		return nil, attempt
	}

	snapshot := &ranked.Snapshot{
		Score:  stats.Current,
		Source: ranked.SourceScrape,
		Origin: attempt.Target,
	}
	if stats.Peak > 0 {
		peak := stats.Peak
		snapshot.PeakScore = &peak
	}
	attempt.Outcome = OutcomeHit
	attempt.Detail = fmt.Sprintf("current=%d peak=%d", stats.Current, stats.Peak)
	return snapshot, attempt
}

func (r *RankedResolver) tryMirror(ctx context.Context, tag string, endpoint MirrorEndpoint, forceRefresh bool) (*ranked.Snapshot, ResolveAttempt) {
	attempt := ResolveAttempt{Source: ranked.SourceMirror, Target: endpoint.Label}
	if attempt.Target == "" {
		attempt.Target = "mirror"
	}

	attemptCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	doc, err := r.mirrors.FetchJSON(attemptCtx, endpoint, forceRefresh)
	if err != nil {
		attempt.Outcome, attempt.Detail = OutcomeUnavailable, err.Error()
		return nil, attempt
	}

	record, ok := ranked.SelectTaggedRecord(doc, tag)
	if !ok {
		attempt.Outcome, attempt.Detail = OutcomeMalformed, "no record tagged "+tag
		return nil, attempt
	}

	snapshot := ranked.SnapshotFromRecord(record, ranked.SourceMirror, attempt.Target)
	if !snapshot.Acceptable() {
		attempt.Outcome = OutcomeMiss
		return nil, attempt
	}
	attempt.Outcome = OutcomeHit
	attempt.Detail = fmt.Sprintf("score=%d", snapshot.Score)
	return &snapshot, attempt
}

func (r *RankedResolver) record(ctx context.Context, tag string, resolution *RankedResolution, attempt ResolveAttempt) {
	resolution.Attempts = append(resolution.Attempts, attempt)
	r.metrics.IncResolveAttempt(string(attempt.Source), string(attempt.Outcome))
	r.logger.DebugContext(ctx, "ranked resolve attempt", "tag", tag, "attempt", attempt.String())
}
