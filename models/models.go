package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document fields shared by every collection entity.
type Document struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (d *Document) DocumentID() primitive.ObjectID { return d.ID }

// Stamp assigns a fresh identifier and creation time.
func (d *Document) Stamp(now time.Time) {
	d.ID = primitive.NewObjectID()
	d.CreatedAt = now
	d.UpdatedAt = now
}

func (d *Document) Touch(now time.Time) { d.UpdatedAt = now }

// Sermon is a preached message, optionally live streamed.
type Sermon struct {
	Document        `bson:",inline"`
	Title           string   `bson:"title" json:"title" validate:"required"`
	Preacher        string   `bson:"preacher" json:"preacher" validate:"required"`
	Date            Date     `bson:"date" json:"date" validate:"required"`
	Duration        string   `bson:"duration,omitempty" json:"duration,omitempty"`
	Category        string   `bson:"category,omitempty" json:"category,omitempty"`
	Series          string   `bson:"series,omitempty" json:"series,omitempty"`
	Description     string   `bson:"description,omitempty" json:"description,omitempty"`
	Thumbnail       string   `bson:"thumbnail,omitempty" json:"thumbnail,omitempty"`
	VideoURL        string   `bson:"videoUrl,omitempty" json:"videoUrl,omitempty" validate:"omitempty,url"`
	AudioURL        string   `bson:"audioUrl,omitempty" json:"audioUrl,omitempty" validate:"omitempty,url"`
	DownloadURL     string   `bson:"downloadUrl,omitempty" json:"downloadUrl,omitempty" validate:"omitempty,url"`
	Tags            []string `bson:"tags" json:"tags"`
	Views           int      `bson:"views" json:"views" validate:"gte=0"`
	Downloads       int      `bson:"downloads" json:"downloads" validate:"gte=0"`
	IsLive          bool     `bson:"isLive" json:"isLive"`
	IsLatest        bool     `bson:"isLatest" json:"isLatest"`
	LiveStreamURL   string   `bson:"liveStreamUrl,omitempty" json:"liveStreamUrl,omitempty"`
	SermonNotes     string   `bson:"sermonNotes,omitempty" json:"sermonNotes,omitempty"`
	BibleReferences []string `bson:"bibleReferences" json:"bibleReferences"`
}

// Event is a dated church event.
type Event struct {
	Document     `bson:",inline"`
	Title        string   `bson:"title" json:"title" validate:"required"`
	Date         Date     `bson:"date" json:"date" validate:"required"`
	Time         string   `bson:"time,omitempty" json:"time,omitempty"`
	Location     string   `bson:"location,omitempty" json:"location,omitempty"`
	Category     string   `bson:"category,omitempty" json:"category,omitempty"`
	Series       string   `bson:"series,omitempty" json:"series,omitempty"`
	Description  string   `bson:"description,omitempty" json:"description,omitempty"`
	Image        string   `bson:"image,omitempty" json:"image,omitempty"`
	Attendees    int      `bson:"attendees" json:"attendees" validate:"gte=0"`
	MaxAttendees int      `bson:"maxAttendees,omitempty" json:"maxAttendees,omitempty" validate:"gte=0"`
	IsRecurring  bool     `bson:"isRecurring" json:"isRecurring"`
	Recurrence   string   `bson:"recurrence,omitempty" json:"recurrence,omitempty"`
	Registration bool     `bson:"registration" json:"registration"`
	Tags         []string `bson:"tags" json:"tags"`
	Featured     bool     `bson:"featured" json:"featured"`
	IsActive     bool     `bson:"isActive" json:"isActive"`
}

// GalleryVideo is a YouTube video shown on a ministry page.
type GalleryVideo struct {
	YoutubeURL string `bson:"youtubeUrl" json:"youtubeUrl" validate:"required,url"`
	Thumbnail  string `bson:"thumbnail,omitempty" json:"thumbnail,omitempty"`
	Title      string `bson:"title,omitempty" json:"title,omitempty"`
	Order      int    `bson:"order" json:"order"`
}

type Ministry struct {
	Document        `bson:",inline"`
	Name            string         `bson:"name" json:"name" validate:"required"`
	Slug            string         `bson:"slug" json:"slug" validate:"required,slug"`
	Description     string         `bson:"description,omitempty" json:"description,omitempty"`
	LongDescription string         `bson:"longDescription,omitempty" json:"longDescription,omitempty"`
	Icon            string         `bson:"icon,omitempty" json:"icon,omitempty"`
	Color           string         `bson:"color,omitempty" json:"color,omitempty"`
	MeetingTime     string         `bson:"meetingTime,omitempty" json:"meetingTime,omitempty"`
	Location        string         `bson:"location,omitempty" json:"location,omitempty"`
	Leader          string         `bson:"leader,omitempty" json:"leader,omitempty"`
	Contact         string         `bson:"contact,omitempty" json:"contact,omitempty"`
	Activities      []string       `bson:"activities" json:"activities"`
	Image           string         `bson:"image,omitempty" json:"image,omitempty"`
	GalleryImages   []string       `bson:"galleryImages" json:"galleryImages"`
	GalleryVideos   []GalleryVideo `bson:"galleryVideos" json:"galleryVideos" validate:"dive"`
	IsActive        bool           `bson:"isActive" json:"isActive"`
}

// Prayer request urgency and status values.
const (
	UrgencyLow      = "low"
	UrgencyNormal   = "normal"
	UrgencyHigh     = "high"
	UrgencyCritical = "critical"

	PrayerPending  = "pending"
	PrayerPraying  = "praying"
	PrayerAnswered = "answered"
	PrayerClosed   = "closed"
)

type PrayerRequest struct {
	Document     `bson:",inline"`
	Name         string `bson:"name" json:"name" validate:"required"`
	Email        string `bson:"email" json:"email" validate:"required,email"`
	Phone        string `bson:"phone,omitempty" json:"phone,omitempty"`
	RequestType  string `bson:"requestType,omitempty" json:"requestType,omitempty"`
	Title        string `bson:"title" json:"title" validate:"required"`
	Description  string `bson:"description" json:"description" validate:"required"`
	Urgency      string `bson:"urgency" json:"urgency" validate:"oneof=low normal high critical"`
	IsAnonymous  bool   `bson:"isAnonymous" json:"isAnonymous"`
	AllowSharing bool   `bson:"allowSharing" json:"allowSharing"`
	Status       string `bson:"status" json:"status" validate:"oneof=pending praying answered closed"`
	AssignedTo   string `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"` // user id of a pastor
}

// Contact is a message left through the public contact form.
type Contact struct {
	Document `bson:",inline"`
	Name     string `bson:"name" json:"name" validate:"required"`
	Email    string `bson:"email" json:"email" validate:"required,email"`
	Phone    string `bson:"phone,omitempty" json:"phone,omitempty"`
	Message  string `bson:"message" json:"message" validate:"required"`
}

// Page is a free-form content page served under /p/{slug}.
type Page struct {
	Document `bson:",inline"`
	Slug     string `bson:"slug" json:"slug" validate:"required,slug"`
	Title    string `bson:"title" json:"title" validate:"required"`
	Content  string `bson:"content" json:"content" validate:"required"`
	IsSystem bool   `bson:"isSystem" json:"isSystem"` // system pages cannot be deleted
}

type PastorSocialMedia struct {
	Facebook  string `bson:"facebook,omitempty" json:"facebook,omitempty"`
	Twitter   string `bson:"twitter,omitempty" json:"twitter,omitempty"`
	Instagram string `bson:"instagram,omitempty" json:"instagram,omitempty"`
	Youtube   string `bson:"youtube,omitempty" json:"youtube,omitempty"`
	Tiktok    string `bson:"tiktok,omitempty" json:"tiktok,omitempty"`
}

type Pastor struct {
	Document    `bson:",inline"`
	Name        string            `bson:"name" json:"name" validate:"required"`
	Title       string            `bson:"title,omitempty" json:"title,omitempty"`
	Role        string            `bson:"role,omitempty" json:"role,omitempty"`
	Bio         string            `bson:"bio,omitempty" json:"bio,omitempty"`
	Image       string            `bson:"image,omitempty" json:"image,omitempty"`
	Email       string            `bson:"email,omitempty" json:"email,omitempty" validate:"omitempty,email"`
	Phone       string            `bson:"phone,omitempty" json:"phone,omitempty"`
	SocialMedia PastorSocialMedia `bson:"socialMedia" json:"socialMedia"`
	IsActive    bool              `bson:"isActive" json:"isActive"`
}
