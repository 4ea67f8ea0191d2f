package siteconfig

import "churchcms/models"

// Default counts used when settings carry no explicit value.
const (
	DefaultLatestSermonsCount  = 3
	DefaultUpcomingEventsCount = 3
	DefaultMinistriesCount     = 6
	DefaultPastorsCount        = 4
)

func defaultSettings() *models.Settings {
	return &models.Settings{
		Name:        "PGMI Church",
		Tagline:     "Spreading God's Love and Building Community",
		Description: "A place where faith comes alive, community thrives, and God's love transforms lives. Join us on this incredible journey of spiritual growth and discovery.",
		Address: models.Address{
			Street:  "123 Church Street",
			City:    "City",
			State:   "State",
			ZipCode: "12345",
			Country: "United States",
		},
		Contact: models.ChurchContact{
			Phone:       "(555) 123-4567",
			Email:       "info@pgmichurch.org",
			OfficeHours: "Monday - Friday: 9:00 AM - 5:00 PM, Saturday: 9:00 AM - 12:00 PM",
		},
		SocialMedia: models.SocialMedia{
			Facebook:  "https://facebook.com/pgmichurch",
			Instagram: "https://instagram.com/pgmichurch",
			Youtube:   "https://youtube.com/pgmichurch",
			Twitter:   "https://twitter.com/pgmichurch",
		},
		ServiceTimes: models.ServiceTimes{
			Sunday:    "10:00 AM - 11:30 AM",
			Wednesday: "7:00 PM - 8:30 PM",
			Friday:    "7:00 PM - 8:30 PM",
		},
		Mission: "To spread God's love, build meaningful relationships, and help each person discover their purpose in God's plan.",
		Vision:  "To be a beacon of hope in our community, known for our love, service, and commitment to God's Word.",
		Values: []string{
			"Biblical Teaching", "Community", "Service", "Excellence",
			"Prayer", "Worship", "Missions", "Stewardship",
		},
		ShowLatestSermons:   true,
		LatestSermonsCount:  DefaultLatestSermonsCount,
		ShowUpcomingEvents:  true,
		UpcomingEventsCount: DefaultUpcomingEventsCount,
		ShowMinistries:      true,
		MinistriesCount:     DefaultMinistriesCount,
		ShowPastors:         true,
		PastorsCount:        DefaultPastorsCount,
	}
}

func defaultNavbar() *models.Navbar {
	return &models.Navbar{
		Items: []models.NavbarItem{
			{ID: "1", Label: "Home", Href: "/", Order: 1, Visible: true},
			{ID: "2", Label: "About", Href: "/about", Order: 2, Visible: true},
			{ID: "3", Label: "Ministries", Href: "/ministries", Order: 3, Visible: true},
			{ID: "4", Label: "Sermons", Href: "/sermons", Order: 4, Visible: true},
			{ID: "5", Label: "Events", Href: "/events", Order: 5, Visible: true},
			{ID: "6", Label: "Contact", Href: "/contact", Order: 6, Visible: true},
		},
	}
}

func defaultFooter() *models.Footer {
	return &models.Footer{
		ChurchName:  "PGMI Church",
		Tagline:     "Perfecting Grace Ministries International",
		Description: "A place where faith comes alive, community thrives, and God's love transforms lives.",
		QuickLinks: []models.QuickLink{
			{Label: "About Us", Href: "/about", Enabled: true},
			{Label: "Ministries", Href: "/ministries", Enabled: true},
			{Label: "Sermons", Href: "/sermons", Enabled: true},
			{Label: "Events", Href: "/events", Enabled: true},
			{Label: "Contact", Href: "/contact", Enabled: true},
			{Label: "Prayer Requests", Href: "/prayer", Enabled: true},
		},
		Copyright: "© 2024 PGMI Church. All rights reserved.",
	}
}

func defaultHomepage() *models.HomepageContent {
	return &models.HomepageContent{
		Welcome: models.Welcome{
			Title:   "Welcome Home",
			Content: "At PGMI Church, we believe...",
		},
		CallToAction: models.CallToAction{
			Title:   "Join Us This Sunday",
			Content: "Experience the love of Christ...",
			Button1: models.Button{Text: "Get in Touch", Link: "/contact"},
			Button2: models.Button{Text: "View Events", Link: "/events"},
		},
	}
}
