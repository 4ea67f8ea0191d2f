// Package services implements the collection operations of the CMS on top of
// the store. Every mutation goes through the access policy first.
package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"churchcms/siteconfig"
	"churchcms/store"
)

// Options configures the collaborators of a Set.
type Options struct {
	JWTSecret  string
	SessionTTL time.Duration

	// Objects is nil when object storage is not configured.
	Objects         ObjectStore
	Bucket          string
	UploadPublicURL string
}

// Set is every service of the application over one store.
type Set struct {
	Config     *siteconfig.Service
	Sermons    *SermonService
	Events     *EventService
	Ministries *MinistryService
	Prayers    *PrayerService
	Contacts   *ContactService
	Pages      *PageService
	Users      *UserService
	Pastors    *PastorService
	Auth       *AuthService
	Uploads    *UploadService
	Stats      *StatsService
}

// New wires the services. cache may be nil.
func New(s store.Store, cache siteconfig.Cache, opts Options, log *logrus.Logger) *Set {
	config := siteconfig.NewService(s, cache, log)
	users := NewUserService(s, log)
	return &Set{
		Config:     config,
		Sermons:    NewSermonService(s, config, log),
		Events:     NewEventService(s, log),
		Ministries: NewMinistryService(s, config, log),
		Prayers:    NewPrayerService(s, log),
		Contacts:   NewContactService(s, log),
		Pages:      NewPageService(s, log),
		Users:      users,
		Pastors:    NewPastorService(s, log),
		Auth:       NewAuthService(users, opts.JWTSecret, opts.SessionTTL, log),
		Uploads:    NewUploadService(opts.Objects, opts.Bucket, opts.UploadPublicURL, log),
		Stats:      NewStatsService(s),
	}
}

// EnsureIndexes creates the unique indexes of every collection.
func (set *Set) EnsureIndexes(ctx context.Context) error {
	for _, r := range []interface {
		Collection() store.Collection
		Indexes() []store.Index
	}{set.Users, set.Pages, set.Ministries} {
		for _, idx := range r.Indexes() {
			if err := r.Collection().EnsureIndex(ctx, idx); err != nil {
				return err
			}
		}
	}
	return nil
}
