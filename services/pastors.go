package services

import (
	"context"
	"net/url"

	"github.com/sirupsen/logrus"

	"churchcms/access"
	"churchcms/models"
	"churchcms/store"
)

const PastorsCollection = "pastors"

type PastorService struct {
	*Resource[models.Pastor, *models.Pastor]
}

func NewPastorService(s store.Store, log *logrus.Logger) *PastorService {
	return &PastorService{NewResource[models.Pastor](s, ResourceConfig[models.Pastor]{
		Name:       "Pastor",
		Collection: PastorsCollection,
		Ops: Ops{
			Create: access.PastorCreate,
			Update: access.PastorUpdate,
			Delete: access.PastorDelete,
		},
		Sort: []store.SortField{{Field: "createdAt"}},
		Hooks: Hooks[models.Pastor]{
			Defaults: func(v *models.Pastor) {
				v.IsActive = true
			},
			ListQuery: pastorListQuery,
		},
	}, log)}
}

// pastorListQuery hides inactive pastors unless ?all=true is passed by someone
// allowed to manage them.
func pastorListQuery(_ context.Context, p *access.Principal, params url.Values, q store.Query) (store.Query, error) {
	if params.Get("all") == "true" {
		if err := access.Check(p, access.PastorUpdate); err != nil {
			return q, err
		}
		return q, nil
	}
	q.Filter = append(q.Filter, store.Eq("isActive", true))
	return q, nil
}
