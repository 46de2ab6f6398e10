package mediawiki

import (
	"encoding/json"
	"sort"
)

// Typed views of the api.php JSON responses (formatversion=1). Fields the
// normalizer treats as optional are pointers or raw messages so that absence
// can be told apart from a zero value.

type apiErrorBody struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

type errorEnvelope struct {
	Error *apiErrorBody `json:"error"`
}

// flag is a MediaWiki boolean: present (usually as "") means true.
type flag json.RawMessage

func (f flag) Set() bool {
	return len(f) > 0 && string(f) != "false" && string(f) != "null"
}

func (f *flag) UnmarshalJSON(data []byte) error {
	*f = append((*f)[:0], data...)
	return nil
}

type searchResponse struct {
	Query *struct {
		Search []struct {
			Title     string `json:"title"`
			Snippet   string `json:"snippet"`
			Size      int    `json:"size"`
			WordCount int    `json:"wordcount"`
		} `json:"search"`
	} `json:"query"`
}

type revision struct {
	Content *string `json:"*"`
	Slots   map[string]struct {
		Content *string `json:"*"`
	} `json:"slots"`
}

// text returns the revision wikitext from either the legacy top-level field
// or the main slot.
func (r revision) text() string {
	if r.Content != nil {
		return *r.Content
	}
	if main, ok := r.Slots["main"]; ok && main.Content != nil {
		return *main.Content
	}
	return ""
}

type pageEntry struct {
	PageID    int        `json:"pageid"`
	Title     string     `json:"title"`
	Missing   flag       `json:"missing"`
	Invalid   flag       `json:"invalid"`
	Length    int        `json:"length"`
	LastRevID *int       `json:"lastrevid"`
	Touched   string     `json:"touched"`
	Revisions []revision `json:"revisions"`
}

type pagesResponse struct {
	Query *struct {
		Pages map[string]pageEntry `json:"pages"`
	} `json:"query"`
}

// firstPage returns the page with the lowest key. A single-title query
// yields one entry; the ordering only matters for malformed responses.
func (r pagesResponse) firstPage() (pageEntry, bool) {
	if r.Query == nil || len(r.Query.Pages) == 0 {
		return pageEntry{}, false
	}
	keys := make([]string, 0, len(r.Query.Pages))
	for k := range r.Query.Pages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return r.Query.Pages[keys[0]], true
}

type recentChangesResponse struct {
	Query *struct {
		RecentChanges []struct {
			Title     string  `json:"title"`
			User      string  `json:"user"`
			Timestamp string  `json:"timestamp"`
			Comment   *string `json:"comment"`
		} `json:"recentchanges"`
	} `json:"query"`
}

type siteInfoResponse struct {
	Query *struct {
		General *struct {
			SiteName               string `json:"sitename"`
			ServerName             string `json:"servername"`
			MainPage               string `json:"mainpage"`
			ImageWhitelistEnabled  flag   `json:"imagewhitelistenabled"`
			LangAllowUserTemplates flag   `json:"langallowusertemplates"`
		} `json:"general"`
	} `json:"query"`
}

type allPagesResponse struct {
	Query *struct {
		AllPages []struct {
			Title     string `json:"title"`
			PageID    int    `json:"pageid"`
			Size      int    `json:"size"`
			Timestamp string `json:"timestamp"`
		} `json:"allpages"`
	} `json:"query"`
}

type tokensResponse struct {
	Query *struct {
		Tokens *struct {
			CSRFToken string `json:"csrftoken"`
		} `json:"tokens"`
	} `json:"query"`
}

type editResponse struct {
	Edit *struct {
		Result   string `json:"result"`
		PageID   int    `json:"pageid"`
		Title    string `json:"title"`
		NewRevID int    `json:"newrevid"`
		New      flag   `json:"new"`
	} `json:"edit"`
}

type deleteResponse struct {
	Delete *struct {
		Title  string `json:"title"`
		Reason string `json:"reason"`
		LogID  int    `json:"logid"`
	} `json:"delete"`
}
