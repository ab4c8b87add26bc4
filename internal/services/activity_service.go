package services

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/errgroup"

	"github.com/vytor/chessactivity/internal/activity"
	"github.com/vytor/chessactivity/internal/chesscom"
	"github.com/vytor/chessactivity/internal/errors"
	"github.com/vytor/chessactivity/internal/logger"
	"github.com/vytor/chessactivity/internal/metrics"
	"github.com/vytor/chessactivity/internal/models"
	"github.com/vytor/chessactivity/internal/period"
	"github.com/vytor/chessactivity/internal/repository"
)

var usernameRe = regexp.MustCompile(`^[a-z0-9_-]{1,50}$`)

// ActivityReport is the result of one analysis run.
type ActivityReport struct {
	Username   string           `json:"username"`
	Profile    *models.Profile  `json:"profile,omitempty"`
	Range      period.DateRange `json:"range"`
	AsOf       time.Time        `json:"-"`
	Metrics    activity.Metrics `json:"metrics"`
	Hourly     [24]int          `json:"hourly"`
	GamesFound bool             `json:"games_found"`
}

// ActivityService fetches a player's games for a period and analyzes them
type ActivityService interface {
	Analyze(ctx context.Context, username, periodExpr string) (*ActivityReport, error)
	// Sync fills the archive cache for the closed months of the period and
	// returns how many months were fetched.
	Sync(ctx context.Context, username, periodExpr string) (int, error)
	CachedMonths(ctx context.Context, username string) ([]models.CachedMonth, error)
	// InvalidateUser forgets the cached profile and archive pages of a user.
	InvalidateUser(ctx context.Context, username string) (int, error)
}

type activityService struct {
	client   chesscom.ClientInterface
	archives repository.ArchiveRepository
	resolver *period.Resolver
	cfg      ActivityConfig
	profiles *expirable.LRU[string, *models.Profile]
}

// NewActivityService creates a new ActivityService. archives may be nil, in
// which case nothing is cached on disk.
func NewActivityService(client chesscom.ClientInterface, archives repository.ArchiveRepository, resolver *period.Resolver, cfg ActivityConfig) ActivityService {
	cfg = cfg.withDefaults()
	if resolver == nil {
		resolver = period.NewResolver(period.WithLocation(cfg.Location))
	}
	return &activityService{
		client:   client,
		archives: archives,
		resolver: resolver,
		cfg:      cfg,
		profiles: expirable.NewLRU[string, *models.Profile](cfg.ProfileCacheSize, nil, cfg.ProfileCacheTTL),
	}
}

// NormalizeUsername trims and lowercases a Chess.com username and rejects
// anything that cannot be one.
func NormalizeUsername(username string) (string, error) {
	u := strings.ToLower(strings.TrimSpace(username))
	if u == "" {
		return "", errors.NewValidationError("username", "cannot be empty")
	}
	if !usernameRe.MatchString(u) {
		return "", errors.NewValidationError("username", "may only contain letters, digits, '_' and '-'")
	}
	return u, nil
}

func (s *activityService) Analyze(ctx context.Context, username, periodExpr string) (*ActivityReport, error) {
	user, err := NormalizeUsername(username)
	if err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx).WithPrefix("activity").WithField("username", user)

	rng, err := s.resolver.Resolve(periodExpr)
	if err != nil {
		log.Debug("rejected period %q", periodExpr)
		return nil, err
	}
	log = log.WithField("range", rng.String())
	ctx = logger.NewContext(ctx, log)

	profile, err := s.profile(ctx, user)
	if err != nil {
		return nil, err
	}

	months := s.monthsToFetch(ctx, user, rng)
	pages, err := s.fetchMonths(ctx, user, months)
	if err != nil {
		return nil, err
	}

	analyzer := activity.NewAnalyzer(activity.WithLocation(s.cfg.Location))
	for _, page := range pages {
		inRange := filterRange(page, rng, s.cfg.Location)
		if len(inRange) > 0 {
			analyzer.AddGames(inRange)
		}
	}

	report := &ActivityReport{
		Username:   user,
		Profile:    profile,
		Range:      rng,
		AsOf:       s.resolver.Today(),
		Metrics:    analyzer.Analyze(),
		Hourly:     analyzer.HourlyDistribution(),
		GamesFound: analyzer.Len() > 0,
	}
	log.Info("analyzed %d games across %d months", analyzer.Len(), len(months))
	return report, nil
}

func (s *activityService) Sync(ctx context.Context, username, periodExpr string) (int, error) {
	user, err := NormalizeUsername(username)
	if err != nil {
		return 0, err
	}
	log := logger.FromContext(ctx).WithPrefix("activity").WithField("username", user)

	if !s.cacheEnabled() {
		log.Debug("archive cache disabled, nothing to sync")
		return 0, nil
	}

	rng, err := s.resolver.Resolve(periodExpr)
	if err != nil {
		return 0, err
	}

	current := s.currentMonth()
	synced := 0
	for _, month := range s.monthsToFetch(ctx, user, rng) {
		if !month.Before(current) {
			continue
		}
		if _, ok, err := s.archives.GetMonth(ctx, user, month); err == nil && ok {
			continue
		}
		games, err := s.client.FetchMonthly(ctx, user, month)
		if err != nil {
			log.Warn("failed to sync month=%s: %v", month, err)
			return synced, err
		}
		if err := s.archives.SaveMonth(ctx, user, month, chesscom.ToRecords(games)); err != nil {
			return synced, errors.NewInternalError(err)
		}
		synced++
	}

	log.Info("synced %d months", synced)
	return synced, nil
}

func (s *activityService) CachedMonths(ctx context.Context, username string) ([]models.CachedMonth, error) {
	user, err := NormalizeUsername(username)
	if err != nil {
		return nil, err
	}
	if s.archives == nil {
		return nil, nil
	}
	months, err := s.archives.CachedMonths(ctx, user)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return months, nil
}

func (s *activityService) InvalidateUser(ctx context.Context, username string) (int, error) {
	user, err := NormalizeUsername(username)
	if err != nil {
		return 0, err
	}
	s.profiles.Remove(user)
	if s.archives == nil {
		return 0, nil
	}
	n, err := s.archives.DeleteUser(ctx, user)
	if err != nil {
		logger.FromContext(ctx).Error("failed to clear cache for %s: %v", user, err)
		return 0, errors.NewInternalError(err)
	}
	return n, nil
}

func (s *activityService) profile(ctx context.Context, user string) (*models.Profile, error) {
	if p, ok := s.profiles.Get(user); ok {
		metrics.ProfileCacheHits.Inc()
		return p, nil
	}
	p, err := s.client.FetchProfile(ctx, user)
	if err != nil {
		logger.FromContext(ctx).Warn("profile lookup failed: %v", err)
		if errors.HasCode(err, errors.ErrCodeNotFound) || errors.HasCode(err, errors.ErrCodeUpstream) {
			return nil, err
		}
		return nil, errors.NewUpstreamError("profile lookup failed", err)
	}
	s.profiles.Add(user, p)
	return p, nil
}

// firstArchiveMonth bounds how far back a range is enumerated; Chess.com has
// no game archives before it.
var firstArchiveMonth = models.YearMonth{Year: 2005, Month: time.January}

// monthsToFetch lists the archive pages that can hold games of rng. Pages are
// UTC months, so outside UTC a neighbouring month may be included. The span is
// clamped to [firstArchiveMonth, current month]. If the archive list is
// unavailable every month of the span is tried.
func (s *activityService) monthsToFetch(ctx context.Context, user string, rng period.DateRange) []models.YearMonth {
	log := logger.FromContext(ctx)

	first, last := rng.UTCMonths(s.cfg.Location)
	if first.Before(firstArchiveMonth) {
		first = firstArchiveMonth
	}
	if current := s.currentMonth(); current.Before(last) {
		last = current
	}
	if last.Before(first) {
		log.Debug("range %s has no archive months", rng)
		return nil
	}

	urls, err := s.client.FetchArchives(ctx, user)
	if err != nil {
		months := period.MonthsBetween(first, last)
		log.Warn("archive list unavailable, trying all %d months: %v", len(months), err)
		return months
	}

	var out []models.YearMonth
	for _, ym := range chesscom.ArchiveMonths(urls) {
		if !ym.Before(first) && !last.Before(ym) {
			out = append(out, ym)
		}
	}
	log.Debug("%d archive months between %s and %s", len(out), first, last)
	return out
}

// fetchMonths loads every month concurrently and returns the pages in the
// order of months. A failing month counts as empty unless all of them fail.
func (s *activityService) fetchMonths(ctx context.Context, user string, months []models.YearMonth) ([][]models.GameRecord, error) {
	log := logger.FromContext(ctx)
	pages := make([][]models.GameRecord, len(months))
	failures := make([]error, len(months))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.MaxConcurrent)
	for i, month := range months {
		i, month := i, month
		g.Go(func() error {
			recs, err := s.fetchMonth(gctx, user, month)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				log.Warn("skipping month=%s: %v", month, err)
				failures[i] = err
				return nil
			}
			pages[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	failed := 0
	var firstErr error
	for _, err := range failures {
		if err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if len(months) > 0 && failed == len(months) {
		return nil, errors.NewUpstreamError("could not fetch any game archive", firstErr)
	}
	return pages, nil
}

func (s *activityService) fetchMonth(ctx context.Context, user string, month models.YearMonth) ([]models.GameRecord, error) {
	log := logger.FromContext(ctx).WithField("month", month.String())
	cacheable := s.cacheEnabled() && month.Before(s.currentMonth())

	if cacheable {
		recs, ok, err := s.archives.GetMonth(ctx, user, month)
		switch {
		case err != nil:
			log.Warn("archive cache read failed: %v", err)
		case ok:
			metrics.ArchiveCacheHits.Inc()
			return recs, nil
		}
		metrics.ArchiveCacheMisses.Inc()
	}

	games, err := s.client.FetchMonthly(ctx, user, month)
	if err != nil {
		return nil, err
	}
	recs := chesscom.ToRecords(games)

	if cacheable {
		if err := s.archives.SaveMonth(ctx, user, month, recs); err != nil {
			log.Warn("archive cache write failed: %v", err)
		}
	}
	return recs, nil
}

func (s *activityService) cacheEnabled() bool {
	return s.cfg.UseCache && s.archives != nil
}

// currentMonth is the archive page that is still open. Pages are UTC months.
func (s *activityService) currentMonth() models.YearMonth {
	return models.NewYearMonth(s.resolver.Now().UTC())
}

// filterRange keeps records that end inside rng. Records without an end time
// cannot be placed and are kept so they still count towards the totals.
func filterRange(recs []models.GameRecord, rng period.DateRange, loc *time.Location) []models.GameRecord {
	out := make([]models.GameRecord, 0, len(recs))
	for _, r := range recs {
		if !r.HasEndTime() || rng.Contains(*r.EndTime, loc) {
			out = append(out, r)
		}
	}
	return out
}
