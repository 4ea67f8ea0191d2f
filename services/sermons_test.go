package services

import (
	"context"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"churchcms/models"
	"churchcms/siteconfig"
	"churchcms/store"
)

func newSermons(t *testing.T) (*SermonService, *siteconfig.Service) {
	t.Helper()
	mem := store.NewMemory()
	config := siteconfig.NewService(mem, nil, quietLogger())
	return NewSermonService(mem, config, quietLogger()), config
}

func createSermon(t *testing.T, svc *SermonService, title, date string, extra string) *models.Sermon {
	t.Helper()
	body := fmt.Sprintf(`{"title":%q,"preacher":"Pastor Ray","date":%q%s}`, title, date, extra)
	s, err := svc.Create(context.Background(), editor, []byte(body))
	require.NoError(t, err)
	return s
}

func latestTitles(t *testing.T, svc *SermonService) []string {
	t.Helper()
	all, err := svc.List(context.Background(), nil, url.Values{})
	require.NoError(t, err)
	var out []string
	for _, s := range all {
		if s.IsLatest {
			out = append(out, s.Title)
		}
	}
	return out
}

func TestSermonCreateRequiresDate(t *testing.T) {
	svc, _ := newSermons(t)
	_, err := svc.Create(context.Background(), editor, []byte(`{"title":"Grace","preacher":"Pastor Ray"}`))
	assertKind(t, models.KindValidation, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Details, "date is required")
}

func TestSermonCreateRejectsBadDate(t *testing.T) {
	svc, _ := newSermons(t)
	_, err := svc.Create(context.Background(), editor, []byte(`{"title":"Grace","preacher":"Pastor Ray","date":"next sunday"}`))
	assertKind(t, models.KindValidation, err)
}

func TestSermonCreateDefaults(t *testing.T) {
	svc, _ := newSermons(t)
	s := createSermon(t, svc, "Grace", "2025-01-05", "")
	assert.NotNil(t, s.Tags)
	assert.NotNil(t, s.BibleReferences)
	assert.False(t, s.IsLatest)
	assert.Equal(t, 2025, s.Date.Year())
}

func TestSermonLatestIsExclusive(t *testing.T) {
	svc, _ := newSermons(t)
	ctx := context.Background()

	a := createSermon(t, svc, "A", "2025-01-05", `,"isLatest":true,"isLive":true`)
	assert.Equal(t, []string{"A"}, latestTitles(t, svc))

	createSermon(t, svc, "B", "2025-01-12", `,"isLatest":true`)
	assert.Equal(t, []string{"B"}, latestTitles(t, svc))

	stored, err := svc.Get(ctx, nil, a.ID.Hex())
	require.NoError(t, err)
	assert.False(t, stored.IsLive, "live flag is cleared with latest")

	_, err = svc.Update(ctx, pastor, a.ID.Hex(), []byte(`{"isLatest":true}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, latestTitles(t, svc))
}

func TestSermonUpdateWithoutLatestKeepsOthers(t *testing.T) {
	svc, _ := newSermons(t)
	createSermon(t, svc, "A", "2025-01-05", `,"isLatest":true`)
	b := createSermon(t, svc, "B", "2025-01-12", "")

	_, err := svc.Update(context.Background(), editor, b.ID.Hex(), []byte(`{"title":"B2"}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, latestTitles(t, svc))
}

func TestSermonLatest(t *testing.T) {
	svc, _ := newSermons(t)
	ctx := context.Background()

	got, err := svc.Latest(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	createSermon(t, svc, "Old", "2024-12-29", "")
	createSermon(t, svc, "New", "2025-01-12", "")
	createSermon(t, svc, "Mid", "2025-01-05", "")

	got, err = svc.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "New", got.Title, "falls back to most recent by date")

	createSermon(t, svc, "Flagged", "2024-01-01", `,"isLatest":true`)
	got, err = svc.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Flagged", got.Title)
}

func TestSermonRecentUsesSettings(t *testing.T) {
	svc, config := newSermons(t)
	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		createSermon(t, svc, fmt.Sprintf("S%d", i), fmt.Sprintf("2025-01-0%d", i), "")
	}

	recent, err := svc.Recent(ctx)
	require.NoError(t, err)
	require.Len(t, recent, siteconfig.DefaultLatestSermonsCount)
	assert.Equal(t, "S5", recent[0].Title)

	_, err = config.WriteSection(ctx, siteconfig.Settings, siteconfig.Display, []byte(`{"latestSermonsCount":2}`), mainAdmin)
	require.NoError(t, err)
	recent, err = svc.Recent(ctx)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}

func TestSermonListFilters(t *testing.T) {
	svc, _ := newSermons(t)
	ctx := context.Background()
	createSermon(t, svc, "A", "2025-01-05", `,"category":"faith","series":"Romans"`)
	createSermon(t, svc, "B", "2025-01-12", `,"category":"hope","isLive":true`)
	createSermon(t, svc, "C", "2025-01-19", `,"category":"faith"`)

	faith, err := svc.List(ctx, nil, url.Values{"category": {"faith"}})
	require.NoError(t, err)
	require.Len(t, faith, 2)
	assert.Equal(t, "C", faith[0].Title, "newest first")

	romans, err := svc.List(ctx, nil, url.Values{"series": {"Romans"}})
	require.NoError(t, err)
	assert.Len(t, romans, 1)

	live, err := svc.List(ctx, nil, url.Values{"live": {"true"}})
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, "B", live[0].Title)
}

func TestSermonEndLive(t *testing.T) {
	svc, _ := newSermons(t)
	ctx := context.Background()

	got, err := svc.EndLive(ctx, editor)
	require.NoError(t, err)
	assert.Nil(t, got, "nothing live")

	createSermon(t, svc, "Previous", "2025-01-05", `,"isLatest":true`)
	overflow := createSermon(t, svc, "Overflow room", "2025-01-01", `,"isLive":true`)
	live := createSermon(t, svc, "Streaming", "2025-01-12", `,"isLive":true`)

	_, err = svc.EndLive(ctx, viewer)
	assertKind(t, models.KindForbidden, err)

	got, err = svc.EndLive(ctx, pastor)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, live.ID, got.ID)
	assert.False(t, got.IsLive)
	assert.True(t, got.IsLatest)
	assert.Equal(t, []string{"Streaming"}, latestTitles(t, svc))

	stored, err := svc.Get(ctx, nil, live.ID.Hex())
	require.NoError(t, err)
	assert.False(t, stored.IsLive)

	other, err := svc.Get(ctx, nil, overflow.ID.Hex())
	require.NoError(t, err)
	assert.True(t, other.IsLive, "ending a stream only moves the latest flag on other sermons")
}

func TestSermonLatestPrefersNewestFlagged(t *testing.T) {
	svc, _ := newSermons(t)
	ctx := context.Background()
	older := createSermon(t, svc, "Older", "2025-02-01", "")
	newer := createSermon(t, svc, "Newer", "2025-03-01", "")
	createSermon(t, svc, "Unflagged", "2025-04-01", "")

	// both flagged, as two racing latest writes can leave them
	for _, s := range []*models.Sermon{newer, older} {
		require.NoError(t, svc.coll.Set(ctx, s.ID, bson.M{"isLatest": true}))
	}

	got, err := svc.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, newer.ID, got.ID)
}
