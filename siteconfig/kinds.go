package siteconfig

import (
	"churchcms/access"
	"churchcms/models"
)

// Kind identifies one singleton configuration document.
type Kind string

const (
	Settings Kind = "settings"
	Navbar   Kind = "navbar"
	Footer   Kind = "footer"
	Homepage Kind = "homepage"
)

// Section names an allow-listed subset of a kind with its own requirement.
type Section string

const Display Section = "display"

type kindSpec struct {
	write    access.Operation
	zero     func() interface{}
	defaults func() interface{}
}

var kinds = map[Kind]kindSpec{
	Settings: {
		write:    access.SettingsWrite,
		zero:     func() interface{} { return &models.Settings{} },
		defaults: func() interface{} { return defaultSettings() },
	},
	Navbar: {
		write:    access.NavbarWrite,
		zero:     func() interface{} { return &models.Navbar{} },
		defaults: func() interface{} { return defaultNavbar() },
	},
	Footer: {
		write:    access.FooterWrite,
		zero:     func() interface{} { return &models.Footer{} },
		defaults: func() interface{} { return defaultFooter() },
	},
	Homepage: {
		write:    access.HomepageWrite,
		zero:     func() interface{} { return &models.HomepageContent{} },
		defaults: func() interface{} { return defaultHomepage() },
	},
}

type sectionSpec struct {
	kind  Kind
	write access.Operation
	keys  map[string]bool
}

var sections = map[Section]sectionSpec{
	Display: {
		kind:  Settings,
		write: access.SettingsDisplayWrite,
		keys: map[string]bool{
			"showLatestSermons":   true,
			"latestSermonsCount":  true,
			"showUpcomingEvents":  true,
			"upcomingEventsCount": true,
			"showMinistries":      true,
			"ministriesCount":     true,
			"showPastors":         true,
			"pastorsCount":        true,
		},
	},
}

// ParseKind reports whether s names a known kind.
func ParseKind(s string) (Kind, error) {
	if _, ok := kinds[Kind(s)]; !ok {
		return "", models.NewNotFoundError("Config", s)
	}
	return Kind(s), nil
}

// Kinds lists every known kind.
func Kinds() []Kind {
	return []Kind{Settings, Navbar, Footer, Homepage}
}

// Default returns a fresh copy of the default value of kind.
func Default(kind Kind) interface{} {
	ks, ok := kinds[kind]
	if !ok {
		return nil
	}
	return ks.defaults()
}
