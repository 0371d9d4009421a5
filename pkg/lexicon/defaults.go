package lexicon

// DefaultSynonyms is the built-in vocabulary for the camp management help desk.
var DefaultSynonyms = SynonymTable{
	"export":   {"download", "extract", "save", "output"},
	"report":   {"reports", "listing", "summary"},
	"setup":    {"configure", "configuration", "settings", "set"},
	"register": {"registration", "enroll", "enrollment", "signup"},
	"camper":   {"campers", "child", "children", "participant", "attendee"},
	"payment":  {"payments", "pay", "invoice", "billing", "refund", "deposit"},
	"email":    {"emails", "message", "mail", "notify", "notification"},
	"schedule": {"schedules", "calendar", "session", "sessions", "timetable"},
	"staff":    {"counselor", "counselors", "employee", "employees"},
	"activity": {"activities", "program", "programs", "elective"},
	"delete":   {"remove", "erase"},
	"add":      {"create", "new", "insert"},
	"change":   {"edit", "modify", "update"},
	"find":     {"search", "lookup", "locate"},
}

// DefaultCategories mirror the subjects used by the shipped knowledge base.
var DefaultCategories = []Category{
	{
		Name:           "Reports",
		Weight:         1.5,
		Terms:          []string{"report", "reports", "export", "print"},
		RelatedTerms:   []string{"rpt", "listing", "summary", "download"},
		ContextPhrases: []string{"run a report", "print a report", "starting with"},
	},
	{
		Name:           "Master Setup",
		Weight:         1.2,
		Terms:          []string{"setup", "master", "configure", "configuration", "settings"},
		RelatedTerms:   []string{"option", "options", "default", "defaults"},
		ContextPhrases: []string{"master setup", "set up"},
	},
	{
		Name:           "Registration",
		Weight:         1.2,
		Terms:          []string{"registration", "register", "enroll", "enrollment"},
		RelatedTerms:   []string{"signup", "application", "waitlist"},
		ContextPhrases: []string{"sign up", "online registration"},
	},
	{
		Name:           "Financial",
		Weight:         1.2,
		Terms:          []string{"payment", "payments", "invoice", "billing", "refund"},
		RelatedTerms:   []string{"deposit", "balance", "charge", "fee", "fees"},
		ContextPhrases: []string{"credit card", "make a payment"},
	},
	{
		Name:           "Communications",
		Weight:         1.0,
		Terms:          []string{"email", "emails", "message", "letter"},
		RelatedTerms:   []string{"mail", "notify", "notification", "template"},
		ContextPhrases: []string{"mass email", "send an email"},
	},
	{
		Name:           "Scheduling",
		Weight:         1.0,
		Terms:          []string{"schedule", "schedules", "session", "sessions", "calendar"},
		RelatedTerms:   []string{"timetable", "period", "week"},
		ContextPhrases: []string{"session dates"},
	},
	{
		Name:           "Staff",
		Weight:         1.0,
		Terms:          []string{"staff", "counselor", "counselors", "employee"},
		RelatedTerms:   []string{"hire", "hiring", "cabin"},
		ContextPhrases: []string{"staff member"},
	},
}

// Default returns a Lexicon built from the built-in tables.
func Default() *Lexicon {
	return New(DefaultSynonyms, DefaultCategories)
}
