// Command init-db prepares a MongoDB database for the CMS: it creates the
// unique indexes, ensures the main admin account and the system pages exist,
// and prints the collection counts. Running it again changes nothing.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"churchcms/config"
	"churchcms/models"
	"churchcms/services"
	"churchcms/store"
)

var systemPages = []models.Page{
	{Slug: "about", Title: "About Us", Content: "Tell visitors who you are."},
	{Slug: "giving", Title: "Giving", Content: "Explain how to support the church."},
}

var countedCollections = []string{
	services.UsersCollection,
	services.PagesCollection,
	services.SermonsCollection,
	services.EventsCollection,
	services.MinistriesCollection,
	services.PastorsCollection,
	services.PrayerRequestsCollection,
	services.ContactsCollection,
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := config.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client, db, err := config.ConnectDB(ctx, cfg.Database, log)
	if err != nil {
		log.WithError(err).Fatal("database unavailable")
	}
	defer client.Disconnect(context.Background())

	st := store.NewMongo(db)
	if err := seed(ctx, st, cfg.Seed, cfg.Auth.JWTSecret, log); err != nil {
		log.WithError(err).Error("initialization failed")
		os.Exit(1)
	}
	if err := printCounts(ctx, st); err != nil {
		log.WithError(err).Error("counting collections failed")
		os.Exit(1)
	}
}

func seed(ctx context.Context, st store.Store, c config.SeedConfig, secret string, log *logrus.Logger) error {
	set := services.New(st, nil, services.Options{JWTSecret: secret}, log)
	if err := set.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("indexes: %w", err)
	}
	log.Info("indexes ready")

	if c.AdminEmail == "" {
		log.Warn("SEED_ADMIN_EMAIL not set, skipping main admin")
	} else {
		changed, err := set.Users.EnsureMainAdmin(ctx, c.AdminEmail, c.AdminName, c.AdminPassword)
		if err != nil {
			return fmt.Errorf("main admin: %w", err)
		}
		log.WithFields(logrus.Fields{"email": c.AdminEmail, "changed": changed}).Info("main admin ready")
	}

	for _, page := range systemPages {
		changed, err := set.Pages.EnsureSystem(ctx, page)
		if err != nil {
			return fmt.Errorf("system page %s: %w", page.Slug, err)
		}
		log.WithFields(logrus.Fields{"slug": page.Slug, "changed": changed}).Info("system page ready")
	}
	return nil
}

func printCounts(ctx context.Context, st store.Store) error {
	fmt.Println()
	for _, name := range countedCollections {
		n, err := st.Collection(name).Count(ctx, nil)
		if err != nil {
			return err
		}
		fmt.Printf("  %-18s %d\n", name, n)
	}
	return nil
}
