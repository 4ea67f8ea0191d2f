package services

import (
	"context"
	"net/url"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	"churchcms/access"
	"churchcms/models"
	"churchcms/siteconfig"
	"churchcms/store"
)

const SermonsCollection = "sermons"

type SermonService struct {
	*Resource[models.Sermon, *models.Sermon]
	config *siteconfig.Service
}

func NewSermonService(s store.Store, config *siteconfig.Service, log *logrus.Logger) *SermonService {
	svc := &SermonService{config: config}
	svc.Resource = NewResource[models.Sermon](s, ResourceConfig[models.Sermon]{
		Name:       "Sermon",
		Collection: SermonsCollection,
		Ops: Ops{
			Create: access.SermonCreate,
			Update: access.SermonUpdate,
			Delete: access.SermonDelete,
		},
		Sort: []store.SortField{{Field: "date", Desc: true}},
		Hooks: Hooks[models.Sermon]{
			Defaults: func(v *models.Sermon) {
				v.Tags = []string{}
				v.BibleReferences = []string{}
			},
			BeforeWrite: svc.claimLatest,
			ListQuery: func(_ context.Context, _ *access.Principal, params url.Values, q store.Query) (store.Query, error) {
				if c := params.Get("category"); c != "" {
					q.Filter = append(q.Filter, store.Eq("category", c))
				}
				if s := params.Get("series"); s != "" {
					q.Filter = append(q.Filter, store.Eq("series", s))
				}
				if params.Get("live") == "true" {
					q.Filter = append(q.Filter, store.Eq("isLive", true))
				}
				return q, nil
			},
		},
	}, log)
	return svc
}

// claimLatest clears isLatest and isLive on every other sermon before v is
// written with isLatest set, so at most one sermon is ever flagged latest.
func (s *SermonService) claimLatest(ctx context.Context, v *models.Sermon) error {
	if !v.IsLatest {
		return nil
	}
	return s.clearExcept(ctx, v, bson.M{"isLatest": false, "isLive": false})
}

// clearExcept applies flags to every sermon other than v.
func (s *SermonService) clearExcept(ctx context.Context, v *models.Sermon, flags bson.M) error {
	_, err := s.coll.SetMany(ctx, store.Where(store.Ne("_id", v.ID)), flags)
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Latest returns the sermon flagged latest, else the most recent by date, else nil.
func (s *SermonService) Latest(ctx context.Context) (*models.Sermon, error) {
	v, err := s.FindOne(ctx, store.Query{Filter: store.Where(store.Eq("isLatest", true))}.SortBy("date", true), "latest")
	if err == nil {
		return v, nil
	}
	if models.KindOf(err) != models.KindNotFound {
		return nil, err
	}
	v, err = s.FindOne(ctx, store.Query{}.SortBy("date", true), "latest")
	if models.KindOf(err) == models.KindNotFound {
		return nil, nil
	}
	return v, err
}

// Recent returns the newest sermons, as many as settings.latestSermonsCount.
func (s *SermonService) Recent(ctx context.Context) ([]models.Sermon, error) {
	limit := int64(siteconfig.DefaultLatestSermonsCount)
	if s.config != nil {
		settings, err := s.config.Settings(ctx)
		if err != nil {
			return nil, err
		}
		if settings.LatestSermonsCount > 0 {
			limit = int64(settings.LatestSermonsCount)
		}
	}
	return s.Find(ctx, store.Query{Limit: limit}.SortBy("date", true))
}

// EndLive ends the current live stream: the most recent live sermon stops being
// live and becomes the latest sermon. Returns nil when nothing is live.
func (s *SermonService) EndLive(ctx context.Context, p *access.Principal) (*models.Sermon, error) {
	if err := access.Check(p, access.SermonEndLive); err != nil {
		return nil, err
	}
	live, err := s.FindOne(ctx, store.Query{Filter: store.Where(store.Eq("isLive", true))}.SortBy("date", true), "live")
	if models.KindOf(err) == models.KindNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := s.clearExcept(ctx, live, bson.M{"isLatest": false}); err != nil {
		return nil, err
	}
	live.IsLive = false
	live.IsLatest = true
	live.Touch(s.now().UTC())
	if err := s.coll.Set(ctx, live.ID, bson.M{"isLive": false, "isLatest": true, "updatedAt": live.UpdatedAt}); err != nil {
		return nil, models.NewInternalError(err)
	}
	s.log.WithField("id", live.ID.Hex()).Info("live sermon ended")
	return live, nil
}
