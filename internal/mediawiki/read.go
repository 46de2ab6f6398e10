package mediawiki

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	apierrors "github.com/olgasafonova/mediawiki-mcp-server/internal/errors"
	"github.com/olgasafonova/mediawiki-mcp-server/metrics"
)

// Search runs a full-text search and returns up to SearchLimit hits.
func (c *Client) Search(ctx context.Context, query string) ([]SearchHit, error) {
	if err := validateQuery(query); err != nil {
		return nil, err
	}

	params := url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"srsearch": {query},
		"srlimit":  {strconv.Itoa(SearchLimit)},
	}

	var resp searchResponse
	if err := c.query(ctx, params, &resp); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	if resp.Query == nil {
		return nil, invalidResponse("search: missing query")
	}

	hits := make([]SearchHit, 0, len(resp.Query.Search))
	for _, s := range resp.Query.Search {
		hits = append(hits, SearchHit{
			Title:     s.Title,
			Snippet:   s.Snippet,
			Size:      s.Size,
			WordCount: s.WordCount,
		})
	}
	return hits, nil
}

// GetPageContent returns the wikitext of the latest revision of title.
func (c *Client) GetPageContent(ctx context.Context, title string) (PageContentResult, error) {
	if err := validateTitle(title); err != nil {
		return PageContentResult{}, err
	}

	params := url.Values{
		"action": {"query"},
		"titles": {title},
		"prop":   {"revisions"},
		"rvprop": {"content"},
	}

	page, err := c.singlePage(ctx, params, title)
	if err != nil {
		return PageContentResult{}, fmt.Errorf("get page content: %w", err)
	}

	var text string
	if len(page.Revisions) > 0 {
		text = page.Revisions[0].text()
	}
	metrics.ObserveContentSize("read", len(text))

	return PageContentResult{
		Status:  succeeded(),
		Title:   page.Title,
		Content: text,
		PageID:  page.PageID,
	}, nil
}

// GetPageInfo returns metadata for title without its content.
func (c *Client) GetPageInfo(ctx context.Context, title string) (PageInfoResult, error) {
	if err := validateTitle(title); err != nil {
		return PageInfoResult{}, err
	}

	params := url.Values{
		"action": {"query"},
		"titles": {title},
		"prop":   {"info|revisions"},
	}

	page, err := c.singlePage(ctx, params, title)
	if err != nil {
		return PageInfoResult{}, fmt.Errorf("get page info: %w", err)
	}

	lastRev := 0
	if page.LastRevID != nil {
		lastRev = *page.LastRevID
	}

	return PageInfoResult{
		Status:    succeeded(),
		Title:     page.Title,
		PageID:    page.PageID,
		Length:    page.Length,
		LastRevID: lastRev,
		Touched:   page.Touched,
	}, nil
}

// singlePage runs a titles= query and returns the one page it describes.
// An empty page set and a page flagged missing both yield NotFoundError.
func (c *Client) singlePage(ctx context.Context, params url.Values, title string) (pageEntry, error) {
	var resp pagesResponse
	if err := c.query(ctx, params, &resp); err != nil {
		return pageEntry{}, err
	}
	if resp.Query == nil {
		return pageEntry{}, invalidResponse("missing query")
	}

	page, ok := resp.firstPage()
	if !ok || page.Missing.Set() || page.Invalid.Set() {
		return pageEntry{}, apierrors.NewNotFoundError(title)
	}
	return page, nil
}

// GetRecentChanges returns the newest edits on the wiki. limit is clamped
// to MaxRecentChangesLimit; non-positive values use the default.
func (c *Client) GetRecentChanges(ctx context.Context, limit int) ([]RecentChange, error) {
	limit = normalizeLimit(limit, DefaultRecentChangesLimit, MaxRecentChangesLimit)

	params := url.Values{
		"action":  {"query"},
		"list":    {"recentchanges"},
		"rclimit": {strconv.Itoa(limit)},
		"rcprop":  {"title|timestamp|user|comment"},
	}

	var resp recentChangesResponse
	if err := c.query(ctx, params, &resp); err != nil {
		return nil, fmt.Errorf("get recent changes: %w", err)
	}
	if resp.Query == nil {
		return nil, invalidResponse("recent changes: missing query")
	}

	changes := make([]RecentChange, 0, len(resp.Query.RecentChanges))
	for _, rc := range resp.Query.RecentChanges {
		change := RecentChange{
			Title:     rc.Title,
			User:      rc.User,
			Timestamp: rc.Timestamp,
		}
		if rc.Comment != nil {
			change.Comment = *rc.Comment
		}
		changes = append(changes, change)
	}
	return changes, nil
}

// GetSiteInfo returns general information about the wiki.
func (c *Client) GetSiteInfo(ctx context.Context) (SiteInfoResult, error) {
	params := url.Values{
		"action": {"query"},
		"meta":   {"siteinfo"},
		"siprop": {"general|namespaces"},
	}

	var resp siteInfoResponse
	if err := c.query(ctx, params, &resp); err != nil {
		return SiteInfoResult{}, fmt.Errorf("get site info: %w", err)
	}
	if resp.Query == nil || resp.Query.General == nil {
		return SiteInfoResult{}, invalidResponse("site info: missing general")
	}

	g := resp.Query.General
	return SiteInfoResult{
		Status:                 succeeded(),
		SiteName:               g.SiteName,
		ServerName:             g.ServerName,
		MainPage:               g.MainPage,
		ImageWhitelistEnabled:  g.ImageWhitelistEnabled.Set(),
		LangAllowUserTemplates: g.LangAllowUserTemplates.Set(),
	}, nil
}

// ListAllPages lists pages in title order. limit is clamped to
// MaxListPagesLimit; non-positive values use the default.
func (c *Client) ListAllPages(ctx context.Context, limit int) ([]PageSummary, error) {
	limit = normalizeLimit(limit, DefaultListPagesLimit, MaxListPagesLimit)

	params := url.Values{
		"action":  {"query"},
		"list":    {"allpages"},
		"aplimit": {strconv.Itoa(limit)},
		"approp":  {"size|timestamp|ids"},
	}

	var resp allPagesResponse
	if err := c.query(ctx, params, &resp); err != nil {
		return nil, fmt.Errorf("list all pages: %w", err)
	}
	if resp.Query == nil {
		return nil, invalidResponse("all pages: missing query")
	}

	pages := make([]PageSummary, 0, len(resp.Query.AllPages))
	for _, p := range resp.Query.AllPages {
		pages = append(pages, PageSummary{
			Title:     p.Title,
			PageID:    p.PageID,
			Size:      p.Size,
			Timestamp: p.Timestamp,
		})
	}
	return pages, nil
}
