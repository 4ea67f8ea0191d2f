package models

import "time"

type Address struct {
	Street  string `bson:"street" json:"street"`
	City    string `bson:"city" json:"city"`
	State   string `bson:"state" json:"state"`
	ZipCode string `bson:"zipCode" json:"zipCode"`
	Country string `bson:"country" json:"country"`
}

type ChurchContact struct {
	Phone       string `bson:"phone" json:"phone"`
	Email       string `bson:"email" json:"email" validate:"omitempty,email"`
	OfficeHours string `bson:"officeHours" json:"officeHours"`
}

type SocialMedia struct {
	Facebook  string `bson:"facebook" json:"facebook"`
	Instagram string `bson:"instagram" json:"instagram"`
	Youtube   string `bson:"youtube" json:"youtube"`
	Twitter   string `bson:"twitter" json:"twitter"`
}

type ServiceTimes struct {
	Sunday    string `bson:"sunday" json:"sunday"`
	Wednesday string `bson:"wednesday" json:"wednesday"`
	Friday    string `bson:"friday" json:"friday"`
}

// Settings is the site-wide church profile plus the homepage display toggles.
type Settings struct {
	Name         string        `bson:"name" json:"name"`
	Tagline      string        `bson:"tagline" json:"tagline"`
	Description  string        `bson:"description" json:"description"`
	Address      Address       `bson:"address" json:"address"`
	Contact      ChurchContact `bson:"contact" json:"contact"`
	SocialMedia  SocialMedia   `bson:"socialMedia" json:"socialMedia"`
	ServiceTimes ServiceTimes  `bson:"serviceTimes" json:"serviceTimes"`
	Mission      string        `bson:"mission" json:"mission"`
	Vision       string        `bson:"vision" json:"vision"`
	Values       []string      `bson:"values" json:"values"`

	ShowLatestSermons   bool `bson:"showLatestSermons" json:"showLatestSermons"`
	LatestSermonsCount  int  `bson:"latestSermonsCount" json:"latestSermonsCount" validate:"gte=0"`
	ShowUpcomingEvents  bool `bson:"showUpcomingEvents" json:"showUpcomingEvents"`
	UpcomingEventsCount int  `bson:"upcomingEventsCount" json:"upcomingEventsCount" validate:"gte=0"`
	ShowMinistries      bool `bson:"showMinistries" json:"showMinistries"`
	MinistriesCount     int  `bson:"ministriesCount" json:"ministriesCount" validate:"gte=0"`
	ShowPastors         bool `bson:"showPastors" json:"showPastors"`
	PastorsCount        int  `bson:"pastorsCount" json:"pastorsCount" validate:"gte=0"`

	UpdatedAt *time.Time `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

type NavbarItem struct {
	ID      string `bson:"id" json:"id" validate:"required"`
	Label   string `bson:"label" json:"label" validate:"required"`
	Href    string `bson:"href" json:"href" validate:"required"`
	Order   int    `bson:"order" json:"order"`
	Visible bool   `bson:"visible" json:"visible"`
}

type Navbar struct {
	Items     []NavbarItem `bson:"items" json:"items" validate:"dive"`
	UpdatedAt *time.Time   `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

type QuickLink struct {
	Label   string `bson:"label" json:"label" validate:"required"`
	Href    string `bson:"href" json:"href" validate:"required"`
	Enabled bool   `bson:"enabled" json:"enabled"`
}

type Footer struct {
	ChurchName  string        `bson:"churchName" json:"churchName"`
	Tagline     string        `bson:"tagline" json:"tagline"`
	Description string        `bson:"description" json:"description"`
	Address     Address       `bson:"address" json:"address"`
	Contact     ChurchContact `bson:"contact" json:"contact"`
	SocialMedia SocialMedia   `bson:"socialMedia" json:"socialMedia"`
	QuickLinks  []QuickLink   `bson:"quickLinks" json:"quickLinks" validate:"dive"`
	Copyright   string        `bson:"copyright" json:"copyright"`
	UpdatedAt   *time.Time    `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

type Button struct {
	Text string `bson:"text" json:"text"`
	Link string `bson:"link" json:"link"`
}

type Welcome struct {
	Title   string `bson:"title" json:"title"`
	Content string `bson:"content" json:"content"`
}

type CallToAction struct {
	Title   string `bson:"title" json:"title"`
	Content string `bson:"content" json:"content"`
	Button1 Button `bson:"button1" json:"button1"`
	Button2 Button `bson:"button2" json:"button2"`
}

// HomepageContent holds the editable homepage copy.
type HomepageContent struct {
	Welcome      Welcome      `bson:"welcome" json:"welcome"`
	CallToAction CallToAction `bson:"callToAction" json:"callToAction"`
	UpdatedAt    *time.Time   `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}
