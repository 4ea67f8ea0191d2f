package services

import (
	"context"
	"time"

	"churchcms/access"
	"churchcms/models"
	"churchcms/store"
)

// DashboardStats are the aggregate counts shown on the admin dashboard.
type DashboardStats struct {
	Sermons        int64 `json:"sermons"`
	Events         int64 `json:"events"`
	UpcomingEvents int64 `json:"upcomingEvents"`
	Ministries     int64 `json:"ministries"`
	PrayerRequests int64 `json:"prayerRequests"`
	PendingPrayers int64 `json:"pendingPrayers"`
	Contacts       int64 `json:"contacts"`
	Pages          int64 `json:"pages"`
	Pastors        int64 `json:"pastors"`
	Users          int64 `json:"users"`
}

type StatsService struct {
	store store.Store
	now   func() time.Time
}

func NewStatsService(s store.Store) *StatsService {
	return &StatsService{store: s, now: time.Now}
}

func (s *StatsService) Dashboard(ctx context.Context, p *access.Principal) (*DashboardStats, error) {
	if err := access.Check(p, access.DashboardRead); err != nil {
		return nil, err
	}
	var out DashboardStats
	counts := []struct {
		dst        *int64
		collection string
		filter     store.Filter
	}{
		{&out.Sermons, SermonsCollection, nil},
		{&out.Events, EventsCollection, nil},
		{&out.UpcomingEvents, EventsCollection, store.Where(store.Gte("date", s.now().UTC()))},
		{&out.Ministries, MinistriesCollection, nil},
		{&out.PrayerRequests, PrayerRequestsCollection, nil},
		{&out.PendingPrayers, PrayerRequestsCollection, store.Where(store.Eq("status", models.PrayerPending))},
		{&out.Contacts, ContactsCollection, nil},
		{&out.Pages, PagesCollection, nil},
		{&out.Pastors, PastorsCollection, nil},
		{&out.Users, UsersCollection, nil},
	}
	for _, c := range counts {
		n, err := s.store.Collection(c.collection).Count(ctx, c.filter)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		*c.dst = n
	}
	return &out, nil
}
