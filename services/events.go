package services

import (
	"context"
	"net/url"

	"github.com/sirupsen/logrus"

	"churchcms/access"
	"churchcms/models"
	"churchcms/store"
)

const EventsCollection = "events"

type EventService struct {
	*Resource[models.Event, *models.Event]
}

func NewEventService(s store.Store, log *logrus.Logger) *EventService {
	svc := &EventService{}
	svc.Resource = NewResource[models.Event](s, ResourceConfig[models.Event]{
		Name:       "Event",
		Collection: EventsCollection,
		Ops: Ops{
			Create: access.EventCreate,
			Update: access.EventUpdate,
			Delete: access.EventDelete,
		},
		Sort: []store.SortField{{Field: "date"}},
		Hooks: Hooks[models.Event]{
			Defaults: func(v *models.Event) {
				v.Tags = []string{}
				v.IsActive = true
			},
			ListQuery: svc.listQuery,
		},
	}, log)
	return svc
}

// listQuery splits events at the current time: ?upcoming=true lists future events
// soonest first, ?past=true lists past events newest first.
func (s *EventService) listQuery(_ context.Context, _ *access.Principal, params url.Values, q store.Query) (store.Query, error) {
	now := s.now().UTC()
	switch {
	case params.Get("upcoming") == "true":
		q.Filter = append(q.Filter, store.Gte("date", now))
		q.Sort = []store.SortField{{Field: "date"}}
	case params.Get("past") == "true":
		q.Filter = append(q.Filter, store.Lt("date", now))
		q.Sort = []store.SortField{{Field: "date", Desc: true}}
	}
	if c := params.Get("category"); c != "" {
		q.Filter = append(q.Filter, store.Eq("category", c))
	}
	if params.Get("featured") == "true" {
		q.Filter = append(q.Filter, store.Eq("featured", true))
	}
	return q, nil
}
