package access

// Operation names a protected action.
type Operation string

const (
	SettingsWrite        Operation = "settings.write"
	SettingsDisplayWrite Operation = "settings.display.write"
	HomepageWrite        Operation = "homepage.write"
	NavbarWrite          Operation = "navbar.write"
	FooterWrite          Operation = "footer.write"

	SermonCreate  Operation = "sermon.create"
	SermonUpdate  Operation = "sermon.update"
	SermonDelete  Operation = "sermon.delete"
	SermonEndLive Operation = "sermon.endLive"

	EventCreate Operation = "event.create"
	EventUpdate Operation = "event.update"
	EventDelete Operation = "event.delete"

	MinistryCreate Operation = "ministry.create"
	MinistryUpdate Operation = "ministry.update"
	MinistryDelete Operation = "ministry.delete"

	PrayerList   Operation = "prayer.list"
	PrayerGet    Operation = "prayer.get"
	PrayerUpdate Operation = "prayer.update"
	PrayerDelete Operation = "prayer.delete"

	ContactList   Operation = "contact.list"
	ContactGet    Operation = "contact.get"
	ContactUpdate Operation = "contact.update"
	ContactDelete Operation = "contact.delete"

	PageCreate Operation = "page.create"
	PageUpdate Operation = "page.update"
	PageDelete Operation = "page.delete"

	UserList   Operation = "user.list"
	UserGet    Operation = "user.get"
	UserCreate Operation = "user.create"
	UserUpdate Operation = "user.update"
	UserDelete Operation = "user.delete"

	PastorCreate Operation = "pastor.create"
	PastorUpdate Operation = "pastor.update"
	PastorDelete Operation = "pastor.delete"

	UploadCreate  Operation = "upload.create"
	DashboardRead Operation = "dashboard.read"
)

var (
	contentEditors = Roles(Admin, Editor)
	contentStaff   = Roles(Admin, Editor, Pastor)
)

// Policy maps every protected operation to its requirement.
var Policy = map[Operation]Requirement{
	SettingsWrite:        contentEditors,
	HomepageWrite:        contentEditors,
	NavbarWrite:          contentEditors,
	FooterWrite:          contentEditors,
	SettingsDisplayWrite: MainAdminOnly(),

	SermonCreate:  contentStaff,
	SermonUpdate:  contentStaff,
	SermonDelete:  contentStaff,
	SermonEndLive: contentStaff,

	EventCreate: contentStaff,
	EventUpdate: contentStaff,
	EventDelete: contentStaff,

	MinistryCreate: contentStaff,
	MinistryUpdate: contentStaff,
	MinistryDelete: contentStaff,

	PrayerList:   Roles(Admin, Pastor),
	PrayerGet:    Roles(Admin, Pastor),
	PrayerUpdate: Roles(Pastor),
	PrayerDelete: MainAdminOnly(),

	ContactList:   contentStaff,
	ContactGet:    contentStaff,
	ContactUpdate: MainAdminOnly(),
	ContactDelete: MainAdminOnly(),

	PageCreate: MainAdminOnly(),
	PageUpdate: contentEditors,
	PageDelete: MainAdminOnly(),

	UserList:   Roles(Admin),
	UserGet:    Roles(Admin),
	UserCreate: MainAdminOnly(),
	UserUpdate: MainAdminOnly(),
	UserDelete: MainAdminOnly(),

	PastorCreate: MainAdminOnly(),
	PastorUpdate: MainAdminOnly(),
	PastorDelete: MainAdminOnly(),

	UploadCreate:  contentStaff,
	DashboardRead: Roles(Admin, Editor, Pastor, Viewer),
}

// RequirementFor returns the requirement of op. Unknown operations get an empty
// role set, which only the main admin satisfies.
func RequirementFor(op Operation) Requirement {
	if req, ok := Policy[op]; ok {
		return req
	}
	return Roles()
}

// Check decides op for p and returns the denial as an error, or nil.
func Check(p *Principal, op Operation) error {
	return Decide(p, RequirementFor(op)).Err()
}
