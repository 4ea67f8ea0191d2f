package services

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	"churchcms/access"
	"churchcms/models"
	"churchcms/store"
)

const PagesCollection = "pages"

type PageService struct {
	*Resource[models.Page, *models.Page]
}

func NewPageService(s store.Store, log *logrus.Logger) *PageService {
	return &PageService{NewResource[models.Page](s, ResourceConfig[models.Page]{
		Name:       "Page",
		Collection: PagesCollection,
		Ops: Ops{
			Create: access.PageCreate,
			Update: access.PageUpdate,
			Delete: access.PageDelete,
		},
		Unique: []string{"slug"},
		Sort:   []store.SortField{{Field: "slug"}},
		Hooks: Hooks[models.Page]{
			Sanitize: func(before, after *models.Page) error {
				after.Slug = strings.ToLower(strings.TrimSpace(after.Slug))
				after.IsSystem = before != nil && before.IsSystem
				return nil
			},
			DeleteGuard: func(v *models.Page) error {
				if v.IsSystem {
					return models.NewForbiddenError("system pages cannot be deleted")
				}
				return nil
			},
		},
	}, log)}
}

// GetBySlug is the public lookup used to render /p/{slug}.
func (s *PageService) GetBySlug(ctx context.Context, slug string) (*models.Page, error) {
	slug = strings.ToLower(slug)
	return s.FindOne(ctx, store.Query{Filter: store.Where(store.Eq("slug", slug))}, slug)
}

// EnsureSystem inserts a system page when no page holds its slug yet. An existing
// page with that slug is marked as a system page.
func (s *PageService) EnsureSystem(ctx context.Context, page models.Page) (bool, error) {
	existing, err := s.GetBySlug(ctx, page.Slug)
	if err == nil {
		if existing.IsSystem {
			return false, nil
		}
		if err := s.coll.Set(ctx, existing.ID, bson.M{"isSystem": true}); err != nil {
			return false, models.NewInternalError(err)
		}
		return true, nil
	}
	if models.KindOf(err) != models.KindNotFound {
		return false, err
	}
	page.Stamp(s.now().UTC())
	page.IsSystem = true
	if err := models.Validate(&page); err != nil {
		return false, err
	}
	if err := s.coll.Insert(ctx, &page); err != nil {
		return false, s.writeError(err)
	}
	return true, nil
}
