package siteconfig

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"churchcms/models"
	"churchcms/store"
)

func newCachedService(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewService(store.NewMemory(), NewRedisCache(client, time.Minute), quietLogger()), mr
}

func TestRedisCacheRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cache := NewRedisCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)
	ctx := context.Background()

	var nav models.Navbar
	hit, version, err := cache.Get(ctx, Navbar, &nav)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Zero(t, version)

	require.NoError(t, cache.Set(ctx, Navbar, defaultNavbar(), version))
	assert.True(t, mr.Exists("siteconfig:navbar"))
	assert.Equal(t, time.Minute, mr.TTL("siteconfig:navbar"))

	hit, _, err = cache.Get(ctx, Navbar, &nav)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Len(t, nav.Items, 6)

	require.NoError(t, cache.Invalidate(ctx, Navbar))
	assert.False(t, mr.Exists("siteconfig:navbar"))
	hit, version, err = cache.Get(ctx, Navbar, &nav)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.EqualValues(t, 1, version)
}

func TestRedisCacheDropsValuesLoadedBeforeAWrite(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := NewRedisCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)
	ctx := context.Background()

	// a reader misses and loads from the store...
	var footer models.Footer
	hit, version, err := cache.Get(ctx, Footer, &footer)
	require.NoError(t, err)
	require.False(t, hit)

	// ...a writer commits and invalidates before the reader stores its copy
	require.NoError(t, cache.Invalidate(ctx, Footer))
	require.NoError(t, cache.Set(ctx, Footer, &models.Footer{ChurchName: "Stale"}, version))
	assert.False(t, mr.Exists("siteconfig:footer"))

	_, current, err := cache.Get(ctx, Footer, &footer)
	require.NoError(t, err)
	require.NoError(t, cache.Set(ctx, Footer, &models.Footer{ChurchName: "Fresh"}, current))
	hit, _, err = cache.Get(ctx, Footer, &footer)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "Fresh", footer.ChurchName)
}

func TestServiceCachesStoredValues(t *testing.T) {
	svc, mr := newCachedService(t)
	ctx := context.Background()

	// defaults are not cached
	_, err := svc.Read(ctx, Footer)
	require.NoError(t, err)
	assert.False(t, mr.Exists("siteconfig:footer"))

	_, err = svc.Write(ctx, Footer, []byte(`{"churchName":"Grace"}`), editor)
	require.NoError(t, err)

	v, err := svc.Read(ctx, Footer)
	require.NoError(t, err)
	assert.Equal(t, "Grace", v.(*models.Footer).ChurchName)
	assert.True(t, mr.Exists("siteconfig:footer"))

	// a write drops the cached copy so the next read sees it
	_, err = svc.Write(ctx, Footer, []byte(`{"churchName":"Hope"}`), editor)
	require.NoError(t, err)
	assert.False(t, mr.Exists("siteconfig:footer"))

	v, err = svc.Read(ctx, Footer)
	require.NoError(t, err)
	assert.Equal(t, "Hope", v.(*models.Footer).ChurchName)
}

func TestServiceToleratesCacheOutage(t *testing.T) {
	svc, mr := newCachedService(t)
	ctx := context.Background()

	_, err := svc.Write(ctx, Settings, []byte(`{"name":"Grace"}`), editor)
	require.NoError(t, err)

	mr.Close()

	settings, err := svc.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Grace", settings.Name)

	_, err = svc.Write(ctx, Settings, []byte(`{"name":"Hope"}`), editor)
	require.NoError(t, err)
}
