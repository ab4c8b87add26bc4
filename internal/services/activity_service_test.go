package services_test

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vytor/chessactivity/internal/chesscom"
	"github.com/vytor/chessactivity/internal/errors"
	"github.com/vytor/chessactivity/internal/models"
	"github.com/vytor/chessactivity/internal/period"
	"github.com/vytor/chessactivity/internal/services"
	"github.com/vytor/chessactivity/internal/testutil/mocks"
)

var (
	jan = models.YearMonth{Year: 2024, Month: time.January}
	feb = models.YearMonth{Year: 2024, Month: time.February}
	mar = models.YearMonth{Year: 2024, Month: time.March}

	archiveURLs = []string{
		"https://api.chess.com/pub/player/hikaru/games/2024/01",
		"https://api.chess.com/pub/player/hikaru/games/2024/02",
		"https://api.chess.com/pub/player/hikaru/games/2024/03",
	}
)

func fixedResolver() *period.Resolver {
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	return period.NewResolver(period.WithClock(func() time.Time { return now }))
}

func mg(t *testing.T, ts, timeClass string) chesscom.MonthlyGame {
	t.Helper()
	end, err := time.Parse(time.RFC3339, ts)
	require.NoError(t, err)
	unix := end.Unix()
	return chesscom.MonthlyGame{URL: "https://www.chess.com/game/live/" + ts, TimeClass: timeClass, EndTime: &unix}
}

func newService(client *mocks.MockChessClient, repo *mocks.MockArchiveRepository) services.ActivityService {
	cfg := services.ActivityConfig{MaxConcurrent: 2, UseCache: repo != nil}
	if repo == nil {
		return services.NewActivityService(client, nil, fixedResolver(), cfg)
	}
	return services.NewActivityService(client, repo, fixedResolver(), cfg)
}

func expectProfile(client *mocks.MockChessClient) {
	client.On("FetchProfile", mock.Anything, "hikaru").
		Return(&models.Profile{Username: "hikaru", PlayerID: 1}, nil)
}

func TestAnalyze_CalendarMonth(t *testing.T) {
	client := new(mocks.MockChessClient)
	expectProfile(client)
	client.On("FetchArchives", mock.Anything, "hikaru").Return(archiveURLs, nil)
	client.On("FetchMonthly", mock.Anything, "hikaru", feb).Return([]chesscom.MonthlyGame{
		mg(t, "2024-02-03T10:00:00Z", "blitz"),
		mg(t, "2024-02-03T11:00:00Z", "blitz"),
		{URL: "untimed", TimeClass: "daily"},
	}, nil)

	report, err := newService(client, nil).Analyze(context.Background(), "  Hikaru ", "2024-02")
	require.NoError(t, err)

	assert.Equal(t, "hikaru", report.Username)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), report.Range.Start)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), report.Range.End)
	assert.True(t, report.GamesFound)
	assert.Equal(t, 3, report.Metrics.Summary.TotalGames)
	assert.Equal(t, 1, report.Metrics.Summary.ActiveDays)
	assert.Equal(t, 1, report.Hourly[10])
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), report.AsOf)
	client.AssertExpectations(t)
	client.AssertNotCalled(t, "FetchMonthly", mock.Anything, "hikaru", jan)
}

func TestAnalyze_TrailingDaysFiltersRange(t *testing.T) {
	client := new(mocks.MockChessClient)
	expectProfile(client)
	client.On("FetchArchives", mock.Anything, "hikaru").Return(archiveURLs, nil)
	client.On("FetchMonthly", mock.Anything, "hikaru", feb).Return([]chesscom.MonthlyGame{
		mg(t, "2024-02-10T10:00:00Z", "blitz"), // before the window
		mg(t, "2024-02-20T10:00:00Z", "rapid"),
	}, nil)
	client.On("FetchMonthly", mock.Anything, "hikaru", mar).Return([]chesscom.MonthlyGame{
		mg(t, "2024-03-01T09:00:00Z", "blitz"),
	}, nil)

	report, err := newService(client, nil).Analyze(context.Background(), "hikaru", "30d")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC), report.Range.Start)
	assert.Equal(t, 2, report.Metrics.Summary.TotalGames)
	require.Len(t, report.Metrics.TimeControl, 2)
	assert.Equal(t, "rapid", report.Metrics.TimeControl[0].Format)
	assert.Equal(t, "blitz", report.Metrics.TimeControl[1].Format)
	assert.Equal(t, "2024-03-01", report.Metrics.Patterns.LastActive)
}

func TestAnalyze_DefaultPeriod(t *testing.T) {
	client := new(mocks.MockChessClient)
	expectProfile(client)
	client.On("FetchArchives", mock.Anything, "hikaru").Return([]string{}, nil)

	report, err := newService(client, nil).Analyze(context.Background(), "hikaru", "")
	require.NoError(t, err)
	assert.Equal(t, 30, report.Range.Days())
	assert.False(t, report.GamesFound)
	assert.Equal(t, 0, report.Metrics.Summary.TotalGames)
	client.AssertNotCalled(t, "FetchMonthly", mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalyze_InvalidPeriod(t *testing.T) {
	client := new(mocks.MockChessClient)

	_, err := newService(client, nil).Analyze(context.Background(), "hikaru", "2024-13")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidPeriod))
	client.AssertNotCalled(t, "FetchProfile", mock.Anything, mock.Anything)
}

func TestAnalyze_InvalidUsername(t *testing.T) {
	client := new(mocks.MockChessClient)
	svc := newService(client, nil)

	for _, name := range []string{"", "   ", "../etc", "a b"} {
		_, err := svc.Analyze(context.Background(), name, "30d")
		require.Error(t, err, name)
		assert.True(t, errors.HasCode(err, errors.ErrCodeValidation), name)
	}
}

func TestAnalyze_UnknownUser(t *testing.T) {
	client := new(mocks.MockChessClient)
	client.On("FetchProfile", mock.Anything, "ghost").Return(nil, errors.NewNotFoundError("user", "ghost"))

	_, err := newService(client, nil).Analyze(context.Background(), "ghost", "30d")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
	client.AssertNotCalled(t, "FetchArchives", mock.Anything, mock.Anything)
}

func TestAnalyze_PartialFailureIsTolerated(t *testing.T) {
	client := new(mocks.MockChessClient)
	expectProfile(client)
	client.On("FetchArchives", mock.Anything, "hikaru").Return(archiveURLs, nil)
	client.On("FetchMonthly", mock.Anything, "hikaru", feb).Return(nil, stderrors.New("boom"))
	client.On("FetchMonthly", mock.Anything, "hikaru", mar).Return([]chesscom.MonthlyGame{
		mg(t, "2024-03-02T09:00:00Z", "blitz"),
	}, nil)

	report, err := newService(client, nil).Analyze(context.Background(), "hikaru", "30d")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Metrics.Summary.TotalGames)
}

func TestAnalyze_AllMonthsFail(t *testing.T) {
	client := new(mocks.MockChessClient)
	expectProfile(client)
	client.On("FetchArchives", mock.Anything, "hikaru").Return(nil, stderrors.New("archives down"))
	client.On("FetchMonthly", mock.Anything, "hikaru", mock.Anything).Return(nil, stderrors.New("boom"))

	_, err := newService(client, nil).Analyze(context.Background(), "hikaru", "30d")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeUpstream))
	client.AssertCalled(t, "FetchMonthly", mock.Anything, "hikaru", feb)
	client.AssertCalled(t, "FetchMonthly", mock.Anything, "hikaru", mar)
}

func TestAnalyze_ProfileIsCached(t *testing.T) {
	client := new(mocks.MockChessClient)
	client.On("FetchProfile", mock.Anything, "hikaru").
		Return(&models.Profile{Username: "hikaru"}, nil).Once()
	client.On("FetchArchives", mock.Anything, "hikaru").Return([]string{}, nil)

	svc := newService(client, nil)
	_, err := svc.Analyze(context.Background(), "hikaru", "30d")
	require.NoError(t, err)
	_, err = svc.Analyze(context.Background(), "HIKARU", "30d")
	require.NoError(t, err)

	client.AssertNumberOfCalls(t, "FetchProfile", 1)
}

func TestAnalyze_ArchiveCache(t *testing.T) {
	client := new(mocks.MockChessClient)
	repo := new(mocks.MockArchiveRepository)
	expectProfile(client)
	client.On("FetchArchives", mock.Anything, "hikaru").Return(archiveURLs, nil)

	// January is cached, February is a closed month not cached yet, March is current.
	repo.On("GetMonth", mock.Anything, "hikaru", jan).
		Return([]models.GameRecord{{TimeControl: "bullet"}}, true, nil)
	repo.On("GetMonth", mock.Anything, "hikaru", feb).Return(nil, false, nil)
	client.On("FetchMonthly", mock.Anything, "hikaru", feb).Return([]chesscom.MonthlyGame{
		mg(t, "2024-02-02T10:00:00Z", "blitz"),
	}, nil)
	repo.On("SaveMonth", mock.Anything, "hikaru", feb, mock.Anything).Return(nil)
	client.On("FetchMonthly", mock.Anything, "hikaru", mar).Return([]chesscom.MonthlyGame{}, nil)

	report, err := newService(client, repo).Analyze(context.Background(), "hikaru", "60d")
	require.NoError(t, err)
	assert.Equal(t, 2, report.Metrics.Summary.TotalGames)

	client.AssertNotCalled(t, "FetchMonthly", mock.Anything, "hikaru", jan)
	repo.AssertNotCalled(t, "GetMonth", mock.Anything, "hikaru", mar)
	repo.AssertNotCalled(t, "SaveMonth", mock.Anything, "hikaru", mar, mock.Anything)
	repo.AssertExpectations(t)
}

func TestSync_OnlyClosedUncachedMonths(t *testing.T) {
	client := new(mocks.MockChessClient)
	repo := new(mocks.MockArchiveRepository)
	client.On("FetchArchives", mock.Anything, "hikaru").Return(archiveURLs, nil)
	repo.On("GetMonth", mock.Anything, "hikaru", jan).Return([]models.GameRecord{}, true, nil)
	repo.On("GetMonth", mock.Anything, "hikaru", feb).Return(nil, false, nil)
	client.On("FetchMonthly", mock.Anything, "hikaru", feb).Return([]chesscom.MonthlyGame{
		mg(t, "2024-02-02T10:00:00Z", "blitz"),
	}, nil)
	repo.On("SaveMonth", mock.Anything, "hikaru", feb, mock.Anything).Return(nil)

	n, err := newService(client, repo).Sync(context.Background(), "hikaru", "60d")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	client.AssertNotCalled(t, "FetchMonthly", mock.Anything, "hikaru", mar)
	client.AssertNotCalled(t, "FetchMonthly", mock.Anything, "hikaru", jan)
}

func TestSync_CacheDisabled(t *testing.T) {
	client := new(mocks.MockChessClient)

	n, err := newService(client, nil).Sync(context.Background(), "hikaru", "60d")
	require.NoError(t, err)
	assert.Zero(t, n)
	client.AssertNotCalled(t, "FetchArchives", mock.Anything, mock.Anything)
}

func TestInvalidateUser(t *testing.T) {
	client := new(mocks.MockChessClient)
	repo := new(mocks.MockArchiveRepository)
	client.On("FetchProfile", mock.Anything, "hikaru").Return(&models.Profile{Username: "hikaru"}, nil).Twice()
	client.On("FetchArchives", mock.Anything, "hikaru").Return([]string{}, nil)
	repo.On("DeleteUser", mock.Anything, "hikaru").Return(3, nil)

	svc := newService(client, repo)
	_, err := svc.Analyze(context.Background(), "hikaru", "30d")
	require.NoError(t, err)

	n, err := svc.InvalidateUser(context.Background(), "Hikaru")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = svc.Analyze(context.Background(), "hikaru", "30d")
	require.NoError(t, err)
	client.AssertNumberOfCalls(t, "FetchProfile", 2)
}

func TestAnalyze_NonUTCLocationFetchesPreviousUTCMonth(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	resolver := period.NewResolver(
		period.WithLocation(tokyo),
		period.WithClock(func() time.Time { return now }),
	)
	apr := models.YearMonth{Year: 2024, Month: time.April}
	may := models.YearMonth{Year: 2024, Month: time.May}

	client := new(mocks.MockChessClient)
	expectProfile(client)
	client.On("FetchArchives", mock.Anything, "hikaru").Return([]string{
		"https://api.chess.com/pub/player/hikaru/games/2024/04",
		"https://api.chess.com/pub/player/hikaru/games/2024/05",
	}, nil)
	client.On("FetchMonthly", mock.Anything, "hikaru", apr).Return([]chesscom.MonthlyGame{
		mg(t, "2024-04-20T10:00:00Z", "rapid"), // April in Tokyo too
		mg(t, "2024-04-30T20:00:00Z", "blitz"), // 2024-05-01 05:00 in Tokyo
	}, nil)
	client.On("FetchMonthly", mock.Anything, "hikaru", may).Return([]chesscom.MonthlyGame{
		mg(t, "2024-05-10T10:00:00Z", "blitz"),
	}, nil)

	svc := services.NewActivityService(client, nil, resolver, services.ActivityConfig{Location: tokyo})
	report, err := svc.Analyze(context.Background(), "hikaru", "2024-05")
	require.NoError(t, err)

	assert.Equal(t, 2, report.Metrics.Summary.TotalGames)
	assert.Equal(t, 1, report.Hourly[5])
	assert.Equal(t, "2024-05-01", report.Metrics.Patterns.MostActiveDay)
	client.AssertCalled(t, "FetchMonthly", mock.Anything, "hikaru", apr)
}

func TestAnalyze_HugeWindowIsBounded(t *testing.T) {
	client := new(mocks.MockChessClient)
	expectProfile(client)
	client.On("FetchArchives", mock.Anything, "hikaru").Return(archiveURLs, nil)
	client.On("FetchMonthly", mock.Anything, "hikaru", mock.Anything).Return([]chesscom.MonthlyGame{}, nil)

	report, err := newService(client, nil).Analyze(context.Background(), "hikaru", "99999999d")
	require.NoError(t, err)
	assert.Equal(t, 99999999, report.Range.Days())
	client.AssertNumberOfCalls(t, "FetchMonthly", 3)
}

func TestAnalyze_HugeWindowWithoutArchiveList(t *testing.T) {
	client := new(mocks.MockChessClient)
	expectProfile(client)
	client.On("FetchArchives", mock.Anything, "hikaru").Return(nil, stderrors.New("archives down"))
	client.On("FetchMonthly", mock.Anything, "hikaru", mock.Anything).Return([]chesscom.MonthlyGame{}, nil)

	_, err := newService(client, nil).Analyze(context.Background(), "hikaru", "99999999d")
	require.NoError(t, err)

	// 2005-01 through 2024-03
	client.AssertNumberOfCalls(t, "FetchMonthly", 19*12+3)
	client.AssertNotCalled(t, "FetchMonthly", mock.Anything, "hikaru", models.YearMonth{Year: 2004, Month: time.December})
}

func TestAnalyze_FutureMonthFetchesNothing(t *testing.T) {
	client := new(mocks.MockChessClient)
	expectProfile(client)

	report, err := newService(client, nil).Analyze(context.Background(), "hikaru", "2030-01")
	require.NoError(t, err)
	assert.False(t, report.GamesFound)
	client.AssertNotCalled(t, "FetchArchives", mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "FetchMonthly", mock.Anything, mock.Anything, mock.Anything)
}
