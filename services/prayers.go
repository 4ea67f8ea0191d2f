package services

import (
	"context"
	"net/url"

	"github.com/sirupsen/logrus"

	"churchcms/access"
	"churchcms/models"
	"churchcms/store"
)

const PrayerRequestsCollection = "prayer_requests"

type PrayerService struct {
	*Resource[models.PrayerRequest, *models.PrayerRequest]
}

// NewPrayerService builds the prayer request resource. Anyone may submit a
// request; reading and handling them is restricted.
func NewPrayerService(s store.Store, log *logrus.Logger) *PrayerService {
	return &PrayerService{NewResource[models.PrayerRequest](s, ResourceConfig[models.PrayerRequest]{
		Name:       "Prayer request",
		Collection: PrayerRequestsCollection,
		Ops: Ops{
			List:   access.PrayerList,
			Get:    access.PrayerGet,
			Update: access.PrayerUpdate,
			Delete: access.PrayerDelete,
		},
		Sort: []store.SortField{{Field: "createdAt", Desc: true}},
		Hooks: Hooks[models.PrayerRequest]{
			Defaults: func(v *models.PrayerRequest) {
				v.Urgency = models.UrgencyNormal
				v.Status = models.PrayerPending
			},
			Sanitize: func(before, after *models.PrayerRequest) error {
				if before == nil {
					// submitters can't triage their own request
					after.Status = models.PrayerPending
					after.AssignedTo = ""
				} else {
					// handling a request only moves its status and assignment
					status, assignedTo := after.Status, after.AssignedTo
					*after = *before
					after.Status, after.AssignedTo = status, assignedTo
				}
				if after.Urgency == "" {
					after.Urgency = models.UrgencyNormal
				}
				return nil
			},
			ListQuery: func(_ context.Context, _ *access.Principal, params url.Values, q store.Query) (store.Query, error) {
				if st := params.Get("status"); st != "" {
					q.Filter = append(q.Filter, store.Eq("status", st))
				}
				if u := params.Get("urgency"); u != "" {
					q.Filter = append(q.Filter, store.Eq("urgency", u))
				}
				return q, nil
			},
		},
	}, log)}
}

// Pending counts requests nobody has picked up yet.
func (s *PrayerService) Pending(ctx context.Context) (int64, error) {
	return s.Count(ctx, store.Where(store.Eq("status", models.PrayerPending)))
}
