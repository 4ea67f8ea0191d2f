package services

import (
	"context"
	"net/url"
	"sort"

	"github.com/sirupsen/logrus"

	"churchcms/access"
	"churchcms/models"
	"churchcms/siteconfig"
	"churchcms/store"
	"churchcms/utils"
)

const MinistriesCollection = "ministries"

type MinistryService struct {
	*Resource[models.Ministry, *models.Ministry]
	config *siteconfig.Service
}

func NewMinistryService(s store.Store, config *siteconfig.Service, log *logrus.Logger) *MinistryService {
	svc := &MinistryService{config: config}
	svc.Resource = NewResource[models.Ministry](s, ResourceConfig[models.Ministry]{
		Name:       "Ministry",
		Collection: MinistriesCollection,
		Ops: Ops{
			Create: access.MinistryCreate,
			Update: access.MinistryUpdate,
			Delete: access.MinistryDelete,
		},
		Unique: []string{"name", "slug"},
		Sort:   []store.SortField{{Field: "name"}},
		Hooks: Hooks[models.Ministry]{
			Defaults: func(v *models.Ministry) {
				v.IsActive = true
				v.Activities = []string{}
				v.GalleryImages = []string{}
				v.GalleryVideos = []models.GalleryVideo{}
			},
			Sanitize:  sanitizeMinistry,
			ListQuery: svc.listQuery,
		},
	}, log)
	return svc
}

func sanitizeMinistry(_, after *models.Ministry) error {
	if after.Slug == "" {
		after.Slug = utils.Slugify(after.Name)
	}
	sort.SliceStable(after.GalleryVideos, func(i, j int) bool {
		return after.GalleryVideos[i].Order < after.GalleryVideos[j].Order
	})
	return nil
}

// listQuery serves ?public=true: active ministries only, capped at
// settings.ministriesCount unless an explicit limit is given.
func (s *MinistryService) listQuery(ctx context.Context, _ *access.Principal, params url.Values, q store.Query) (store.Query, error) {
	if params.Get("public") != "true" {
		return q, nil
	}
	q.Filter = append(q.Filter, store.Eq("isActive", true))
	if q.Limit == 0 {
		limit := int64(siteconfig.DefaultMinistriesCount)
		if s.config != nil {
			settings, err := s.config.Settings(ctx)
			if err != nil {
				return q, err
			}
			if settings.MinistriesCount > 0 {
				limit = int64(settings.MinistriesCount)
			}
		}
		q.Limit = limit
	}
	return q, nil
}

// GetBySlug returns a ministry by its slug.
func (s *MinistryService) GetBySlug(ctx context.Context, slug string) (*models.Ministry, error) {
	return s.FindOne(ctx, store.Query{Filter: store.Where(store.Eq("slug", slug))}, slug)
}
