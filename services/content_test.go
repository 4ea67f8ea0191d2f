package services

import (
	"context"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"churchcms/models"
	"churchcms/siteconfig"
	"churchcms/store"
)

func TestEventUpcomingAndPast(t *testing.T) {
	svc := NewEventService(store.NewMemory(), quietLogger())
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	ctx := context.Background()
	for _, d := range []string{"2025-05-01", "2025-07-01", "2025-05-20", "2025-06-15"} {
		_, err := svc.Create(ctx, pastor, []byte(fmt.Sprintf(`{"title":"Event %s","date":%q}`, d, d)))
		require.NoError(t, err)
	}

	upcoming, err := svc.List(ctx, nil, url.Values{"upcoming": {"true"}})
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.Equal(t, "Event 2025-06-15", upcoming[0].Title, "soonest first")

	past, err := svc.List(ctx, nil, url.Values{"past": {"true"}})
	require.NoError(t, err)
	require.Len(t, past, 2)
	assert.Equal(t, "Event 2025-05-20", past[0].Title, "most recent first")
}

func TestEventDefaults(t *testing.T) {
	svc := NewEventService(store.NewMemory(), quietLogger())
	ev, err := svc.Create(context.Background(), editor, []byte(`{"title":"Prayer Night","date":"2025-06-01T19:00:00Z"}`))
	require.NoError(t, err)
	assert.True(t, ev.IsActive)
	assert.Equal(t, []string{}, ev.Tags)

	ev, err = svc.Create(context.Background(), editor, []byte(`{"title":"Retired","date":"2025-06-01","isActive":false}`))
	require.NoError(t, err)
	assert.False(t, ev.IsActive, "explicit value wins over the default")
}

func newMinistries(t *testing.T) (*MinistryService, *siteconfig.Service) {
	t.Helper()
	mem := store.NewMemory()
	config := siteconfig.NewService(mem, nil, quietLogger())
	return NewMinistryService(mem, config, quietLogger()), config
}

func TestMinistrySlugDerivedFromName(t *testing.T) {
	svc, _ := newMinistries(t)
	ctx := context.Background()
	m, err := svc.Create(ctx, editor, []byte(`{"name":"Men's Fellowship"}`))
	require.NoError(t, err)
	assert.Equal(t, "mens-fellowship", m.Slug)
	assert.True(t, m.IsActive)

	got, err := svc.GetBySlug(ctx, "mens-fellowship")
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)

	_, err = svc.Create(ctx, editor, []byte(`{"name":"Youth","slug":"Not A Slug"}`))
	assertKind(t, models.KindValidation, err)
}

func TestMinistryUniqueNameAndSlug(t *testing.T) {
	svc, _ := newMinistries(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, editor, []byte(`{"name":"Youth","slug":"youth"}`))
	require.NoError(t, err)

	_, err = svc.Create(ctx, editor, []byte(`{"name":"Youth","slug":"youth-2"}`))
	assertKind(t, models.KindConflict, err)
	_, err = svc.Create(ctx, editor, []byte(`{"name":"Young People","slug":"youth"}`))
	assertKind(t, models.KindConflict, err)

	other, err := svc.Create(ctx, editor, []byte(`{"name":"Choir"}`))
	require.NoError(t, err)
	_, err = svc.Update(ctx, editor, other.ID.Hex(), []byte(`{"slug":"youth"}`))
	assertKind(t, models.KindConflict, err)

	_, err = svc.Update(ctx, editor, other.ID.Hex(), []byte(`{"description":"Sings on Sundays"}`))
	assert.NoError(t, err, "an entity doesn't conflict with itself")
}

func TestMinistryPublicList(t *testing.T) {
	svc, config := newMinistries(t)
	ctx := context.Background()
	for i := 0; i < 8; i++ {
		_, err := svc.Create(ctx, editor, []byte(fmt.Sprintf(`{"name":"Ministry %d"}`, i)))
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, editor, []byte(`{"name":"Closed","isActive":false}`))
	require.NoError(t, err)

	all, err := svc.List(ctx, nil, url.Values{})
	require.NoError(t, err)
	assert.Len(t, all, 9)

	public, err := svc.List(ctx, nil, url.Values{"public": {"true"}})
	require.NoError(t, err)
	assert.Len(t, public, siteconfig.DefaultMinistriesCount)
	for _, m := range public {
		assert.True(t, m.IsActive)
	}

	_, err = config.WriteSection(ctx, siteconfig.Settings, siteconfig.Display, []byte(`{"ministriesCount":3}`), mainAdmin)
	require.NoError(t, err)
	public, err = svc.List(ctx, nil, url.Values{"public": {"true"}})
	require.NoError(t, err)
	assert.Len(t, public, 3)
}

func TestMinistryGalleryVideosValidated(t *testing.T) {
	svc, _ := newMinistries(t)
	_, err := svc.Create(context.Background(), editor, []byte(`{"name":"Media","galleryVideos":[{"title":"missing url"}]}`))
	assertKind(t, models.KindValidation, err)

	m, err := svc.Create(context.Background(), editor, []byte(`{"name":"Media","galleryVideos":[
		{"youtubeUrl":"https://youtu.be/b","order":2},
		{"youtubeUrl":"https://youtu.be/a","order":1}]}`))
	require.NoError(t, err)
	require.Len(t, m.GalleryVideos, 2)
	assert.Equal(t, "https://youtu.be/a", m.GalleryVideos[0].YoutubeURL)
}

func TestPrayerRequestSubmission(t *testing.T) {
	svc := NewPrayerService(store.NewMemory(), quietLogger())
	ctx := context.Background()

	pr, err := svc.Create(ctx, nil, []byte(`{"name":"Sam","email":"sam@example.com","title":"Healing","description":"For my mother","status":"answered","assignedTo":"p1"}`))
	require.NoError(t, err)
	assert.Equal(t, models.PrayerPending, pr.Status)
	assert.Equal(t, models.UrgencyNormal, pr.Urgency)
	assert.Empty(t, pr.AssignedTo)

	_, err = svc.Create(ctx, nil, []byte(`{"name":"Sam","email":"sam@example.com","title":"x","description":"y","urgency":"extreme"}`))
	assertKind(t, models.KindValidation, err)
	_, err = svc.Create(ctx, nil, []byte(`{"name":"Sam","email":"not-an-email","title":"x","description":"y"}`))
	assertKind(t, models.KindValidation, err)

	n, err := svc.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestPrayerRequestAccess(t *testing.T) {
	svc := NewPrayerService(store.NewMemory(), quietLogger())
	ctx := context.Background()
	pr, err := svc.Create(ctx, nil, []byte(`{"name":"Sam","email":"sam@example.com","title":"Healing","description":"For my mother","urgency":"high"}`))
	require.NoError(t, err)

	_, err = svc.List(ctx, nil, url.Values{})
	assertKind(t, models.KindUnauthenticated, err)
	_, err = svc.List(ctx, editor, url.Values{})
	assertKind(t, models.KindForbidden, err)
	list, err := svc.List(ctx, pastor, url.Values{"urgency": {"high"}})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.Update(ctx, admin, pr.ID.Hex(), []byte(`{"status":"praying"}`))
	assertKind(t, models.KindForbidden, err)
	updated, err := svc.Update(ctx, pastor, pr.ID.Hex(), []byte(`{"status":"praying","assignedTo":"p1"}`))
	require.NoError(t, err)
	assert.Equal(t, models.PrayerPraying, updated.Status)
	assert.Equal(t, "p1", updated.AssignedTo)

	assertKind(t, models.KindForbidden, svc.Delete(ctx, pastor, pr.ID.Hex()))
	require.NoError(t, svc.Delete(ctx, mainAdmin, pr.ID.Hex()))
}

func TestPrayerRequestUpdateKeepsSubmission(t *testing.T) {
	svc := NewPrayerService(store.NewMemory(), quietLogger())
	ctx := context.Background()
	pr, err := svc.Create(ctx, nil, []byte(`{"name":"Sam","email":"sam@example.com","title":"Healing","description":"For my mother","urgency":"high"}`))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, pastor, pr.ID.Hex(), []byte(`{"name":"Someone else","email":"other@example.org","description":"rewritten","urgency":"low","status":"answered"}`))
	require.NoError(t, err)
	assert.Equal(t, models.PrayerAnswered, updated.Status)

	stored, err := svc.Get(ctx, pastor, pr.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Sam", stored.Name)
	assert.Equal(t, "sam@example.com", stored.Email)
	assert.Equal(t, "For my mother", stored.Description)
	assert.Equal(t, models.UrgencyHigh, stored.Urgency)
	assert.Equal(t, models.PrayerAnswered, stored.Status)
	assert.Equal(t, pr.ID, stored.ID)
}

func TestContactAccess(t *testing.T) {
	svc := NewContactService(store.NewMemory(), quietLogger())
	ctx := context.Background()
	c, err := svc.Create(ctx, nil, []byte(`{"name":"Ann","email":"ann@example.com","message":"Hello"}`))
	require.NoError(t, err)

	_, err = svc.Get(ctx, viewer, c.ID.Hex())
	assertKind(t, models.KindForbidden, err)
	_, err = svc.Get(ctx, pastor, c.ID.Hex())
	require.NoError(t, err)

	assertKind(t, models.KindForbidden, svc.Delete(ctx, admin, c.ID.Hex()))
	require.NoError(t, svc.Delete(ctx, mainAdmin, c.ID.Hex()))
}

func TestPages(t *testing.T) {
	svc := NewPageService(store.NewMemory(), quietLogger())
	ctx := context.Background()

	_, err := svc.Create(ctx, editor, []byte(`{"slug":"our-story","title":"Our Story","content":"..."}`))
	assertKind(t, models.KindForbidden, err)

	p, err := svc.Create(ctx, mainAdmin, []byte(`{"slug":"Our-Story","title":"Our Story","content":"...","isSystem":true}`))
	require.NoError(t, err)
	assert.Equal(t, "our-story", p.Slug)
	assert.False(t, p.IsSystem, "isSystem can't be set through the API")

	_, err = svc.Create(ctx, mainAdmin, []byte(`{"slug":"our-story","title":"Again","content":"..."}`))
	assertKind(t, models.KindConflict, err)

	updated, err := svc.Update(ctx, editor, p.ID.Hex(), []byte(`{"content":"Founded in 1990"}`))
	require.NoError(t, err)
	assert.Equal(t, "Founded in 1990", updated.Content)

	got, err := svc.GetBySlug(ctx, "OUR-STORY")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = svc.GetBySlug(ctx, "missing")
	assertKind(t, models.KindNotFound, err)
}

func TestSystemPages(t *testing.T) {
	svc := NewPageService(store.NewMemory(), quietLogger())
	ctx := context.Background()

	created, err := svc.EnsureSystem(ctx, models.Page{Slug: "about", Title: "About Us", Content: "About our church"})
	require.NoError(t, err)
	assert.True(t, created)
	created, err = svc.EnsureSystem(ctx, models.Page{Slug: "about", Title: "About Us", Content: "About our church"})
	require.NoError(t, err)
	assert.False(t, created)

	about, err := svc.GetBySlug(ctx, "about")
	require.NoError(t, err)
	assert.True(t, about.IsSystem)

	assertKind(t, models.KindForbidden, svc.Delete(ctx, mainAdmin, about.ID.Hex()))

	updated, err := svc.Update(ctx, mainAdmin, about.ID.Hex(), []byte(`{"isSystem":false,"title":"About"}`))
	require.NoError(t, err)
	assert.True(t, updated.IsSystem)

	plain, err := svc.Create(ctx, mainAdmin, []byte(`{"slug":"giving","title":"Giving","content":"Give"}`))
	require.NoError(t, err)
	created, err = svc.EnsureSystem(ctx, models.Page{Slug: "giving", Title: "Giving", Content: "Give"})
	require.NoError(t, err)
	assert.True(t, created)
	assertKind(t, models.KindForbidden, svc.Delete(ctx, mainAdmin, plain.ID.Hex()))
}

func TestPastorList(t *testing.T) {
	svc := NewPastorService(store.NewMemory(), quietLogger())
	ctx := context.Background()

	_, err := svc.Create(ctx, admin, []byte(`{"name":"Ray"}`))
	assertKind(t, models.KindForbidden, err)

	_, err = svc.Create(ctx, mainAdmin, []byte(`{"name":"Ray","title":"Senior Pastor"}`))
	require.NoError(t, err)
	_, err = svc.Create(ctx, mainAdmin, []byte(`{"name":"Former","isActive":false}`))
	require.NoError(t, err)

	public, err := svc.List(ctx, nil, url.Values{})
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "Ray", public[0].Name)

	_, err = svc.List(ctx, editor, url.Values{"all": {"true"}})
	assertKind(t, models.KindForbidden, err)
	all, err := svc.List(ctx, mainAdmin, url.Values{"all": {"true"}})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDashboardStats(t *testing.T) {
	mem := store.NewMemory()
	prayers := NewPrayerService(mem, quietLogger())
	contacts := NewContactService(mem, quietLogger())
	stats := NewStatsService(mem)
	ctx := context.Background()

	_, err := prayers.Create(ctx, nil, []byte(`{"name":"Sam","email":"sam@example.com","title":"t","description":"d"}`))
	require.NoError(t, err)
	_, err = contacts.Create(ctx, nil, []byte(`{"name":"Ann","email":"ann@example.com","message":"Hello"}`))
	require.NoError(t, err)

	_, err = stats.Dashboard(ctx, nil)
	assertKind(t, models.KindUnauthenticated, err)

	got, err := stats.Dashboard(ctx, viewer)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.PrayerRequests)
	assert.Equal(t, int64(1), got.PendingPrayers)
	assert.Equal(t, int64(1), got.Contacts)
	assert.Zero(t, got.Sermons)
}
