package mediawiki

// Status is embedded in every tool result. Success is always present; Error
// is set only when Success is false.
type Status struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// OK reports whether the result is a success.
func (s Status) OK() bool { return s.Success }

// Failure returns the failure message, or "" for a success.
func (s Status) Failure() string { return s.Error }

// SetFailure turns the result into a failure carrying msg.
func (s *Status) SetFailure(msg string) {
	s.Success = false
	s.Error = msg
}

func succeeded() Status { return Status{Success: true} }

func failed(msg string) Status { return Status{Success: false, Error: msg} }

// Outcome is implemented by every tool result.
type Outcome interface {
	OK() bool
	Failure() string
}

// ========== Search ==========

// SearchArgs contains parameters for full-text search
type SearchArgs struct {
	Query string `json:"query" jsonschema:"Search text to look for in page titles and content"`
}

// SearchResult is the result of a full-text search
type SearchResult struct {
	Status
	Results []SearchHit `json:"results"`
}

// SearchHit is one search match
type SearchHit struct {
	Title     string `json:"title"`
	Snippet   string `json:"snippet"`
	Size      int    `json:"size"`
	WordCount int    `json:"wordcount"`
}

// ========== Page content ==========

// GetPageContentArgs contains parameters for reading a page
type GetPageContentArgs struct {
	Title string `json:"title" jsonschema:"Exact page title, including any namespace prefix"`
}

// PageContentResult is the latest revision text of a page
type PageContentResult struct {
	Status
	Title   string `json:"title,omitempty"`
	Content string `json:"content"`
	PageID  int    `json:"pageid,omitempty"`
}

// ========== Page info ==========

// GetPageInfoArgs contains parameters for reading page metadata
type GetPageInfoArgs struct {
	Title string `json:"title" jsonschema:"Exact page title, including any namespace prefix"`
}

// PageInfoResult is page metadata without content
type PageInfoResult struct {
	Status
	Title     string `json:"title,omitempty"`
	PageID    int    `json:"pageid,omitempty"`
	Length    int    `json:"length"`
	LastRevID int    `json:"lastrevid"`
	Touched   string `json:"touched,omitempty"`
}

// ========== Recent changes ==========

// RecentChangesArgs contains parameters for the recent changes feed
type RecentChangesArgs struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum changes to return (default 10, max 100)"`
}

// RecentChangesResult lists recent edits, newest first
type RecentChangesResult struct {
	Status
	Changes []RecentChange `json:"changes"`
}

// RecentChange is one entry of the recent changes feed
type RecentChange struct {
	Title     string `json:"title"`
	User      string `json:"user"`
	Timestamp string `json:"timestamp"`
	Comment   string `json:"comment"`
}

// ========== Site info ==========

// SiteInfoArgs is empty; the tool takes no parameters
type SiteInfoArgs struct{}

// SiteInfoResult is general information about the wiki
type SiteInfoResult struct {
	Status
	SiteName               string `json:"sitename,omitempty"`
	ServerName             string `json:"servername,omitempty"`
	MainPage               string `json:"mainpage,omitempty"`
	ImageWhitelistEnabled  bool   `json:"imagewhitelistenabled"`
	LangAllowUserTemplates bool   `json:"langallowusertemplates"`
}

// ========== List pages ==========

// ListPagesArgs contains parameters for listing all pages
type ListPagesArgs struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum pages to return (default 50, max 500)"`
}

// ListPagesResult lists pages in title order
type ListPagesResult struct {
	Status
	Pages []PageSummary `json:"pages"`
}

// PageSummary is one entry of the page list
type PageSummary struct {
	Title     string `json:"title"`
	PageID    int    `json:"pageid"`
	Size      int    `json:"size"`
	Timestamp string `json:"timestamp"`
}

// ========== Edit ==========

// EditPageArgs contains parameters for creating or replacing a page
type EditPageArgs struct {
	Title   string `json:"title" jsonschema:"Page title to create or overwrite"`
	Content string `json:"content" jsonschema:"Full wikitext of the page"`
	Summary string `json:"summary,omitempty" jsonschema:"Edit summary (default empty)"`
}

// EditResult is the outcome of an edit
type EditResult struct {
	Status
	Title    string `json:"title,omitempty"`
	PageID   int    `json:"pageid,omitempty"`
	NewRevID int    `json:"newrevid,omitempty"`
	NewPage  bool   `json:"new,omitempty"`
}

// DraftPageArgs contains parameters for creating or updating a draft
type DraftPageArgs struct {
	Title   string `json:"title" jsonschema:"Page title without the Draft: prefix"`
	Content string `json:"content" jsonschema:"Full wikitext of the draft"`
	Summary string `json:"summary,omitempty" jsonschema:"Edit summary (default empty)"`
}

// ========== Delete ==========

// DeletePageArgs contains parameters for deleting a page
type DeletePageArgs struct {
	Title  string `json:"title" jsonschema:"Page title to delete"`
	Reason string `json:"reason,omitempty" jsonschema:"Reason recorded in the deletion log (default empty)"`
}

// DeleteResult is the outcome of a deletion
type DeleteResult struct {
	Status
	Title  string `json:"title,omitempty"`
	Reason string `json:"reason,omitempty"`
	LogID  int    `json:"logid,omitempty"`
}
