package newtablinks

// Status is the lifecycle state of a Link. Only published links are ever
// visible through the read API.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusTrashed   Status = "trashed"
)

// Screenshot holds pre-rendered image URLs at the four fixed size labels.
// A variant that has not been rendered is the empty string.
type Screenshot struct {
	Full      string
	Large     string
	Medium    string
	Thumbnail string
}

// Empty reports whether no variant has been rendered yet.
func (s Screenshot) Empty() bool {
	return s.Full == "" && s.Large == "" && s.Medium == "" && s.Thumbnail == ""
}

// Link is the core record stored in SQLite: one curated entry shown on
// the extension's new-tab page. Title and URL are kept exactly as the
// author entered them; output encoding happens at serialization time.
type Link struct {
	ID         int64
	Title      string
	URL        string
	Status     Status
	Screenshot Screenshot
	CreatedAt  string
	UpdatedAt  string
}

// SiteInfo is the singleton display settings record consumed by the
// new-tab page. Both fields default to empty strings.
type SiteInfo struct {
	Name string
	Logo string
}
