package mediawiki

import (
	"context"

	apierrors "github.com/olgasafonova/mediawiki-mcp-server/internal/errors"
)

// MCP Tool wrapper methods
// These methods adapt the client methods to the tool result contract: every
// error becomes a result with success=false, so none of them return an error.

// SearchMCP is the MCP wrapper for Search
func (c *Client) SearchMCP(ctx context.Context, args SearchArgs) SearchResult {
	hits, err := c.Search(ctx, args.Query)
	if err != nil {
		return SearchResult{Status: c.failure("search", err)}
	}
	return SearchResult{Status: succeeded(), Results: hits}
}

// GetPageContentMCP is the MCP wrapper for GetPageContent
func (c *Client) GetPageContentMCP(ctx context.Context, args GetPageContentArgs) PageContentResult {
	result, err := c.GetPageContent(ctx, args.Title)
	if err != nil {
		return PageContentResult{Status: c.failure("get_page_content", err)}
	}
	return result
}

// GetPageInfoMCP is the MCP wrapper for GetPageInfo
func (c *Client) GetPageInfoMCP(ctx context.Context, args GetPageInfoArgs) PageInfoResult {
	result, err := c.GetPageInfo(ctx, args.Title)
	if err != nil {
		return PageInfoResult{Status: c.failure("get_page_info", err)}
	}
	return result
}

// GetRecentChangesMCP is the MCP wrapper for GetRecentChanges
func (c *Client) GetRecentChangesMCP(ctx context.Context, args RecentChangesArgs) RecentChangesResult {
	changes, err := c.GetRecentChanges(ctx, args.Limit)
	if err != nil {
		return RecentChangesResult{Status: c.failure("get_recent_changes", err)}
	}
	return RecentChangesResult{Status: succeeded(), Changes: changes}
}

// GetSiteInfoMCP is the MCP wrapper for GetSiteInfo
func (c *Client) GetSiteInfoMCP(ctx context.Context, _ SiteInfoArgs) SiteInfoResult {
	result, err := c.GetSiteInfo(ctx)
	if err != nil {
		return SiteInfoResult{Status: c.failure("get_site_info", err)}
	}
	return result
}

// ListAllPagesMCP is the MCP wrapper for ListAllPages
func (c *Client) ListAllPagesMCP(ctx context.Context, args ListPagesArgs) ListPagesResult {
	pages, err := c.ListAllPages(ctx, args.Limit)
	if err != nil {
		return ListPagesResult{Status: c.failure("list_all_pages", err)}
	}
	return ListPagesResult{Status: succeeded(), Pages: pages}
}

// EditPageMCP is the MCP wrapper for EditPage
func (c *Client) EditPageMCP(ctx context.Context, args EditPageArgs) EditResult {
	result, err := c.EditPage(ctx, args)
	if err != nil {
		return EditResult{Status: c.failure("edit_page", err)}
	}
	return result
}

// DeletePageMCP is the MCP wrapper for DeletePage
func (c *Client) DeletePageMCP(ctx context.Context, args DeletePageArgs) DeleteResult {
	result, err := c.DeletePage(ctx, args)
	if err != nil {
		return DeleteResult{Status: c.failure("delete_page", err)}
	}
	return result
}

// CreateDraftPageMCP is the MCP wrapper for CreateDraftPage
func (c *Client) CreateDraftPageMCP(ctx context.Context, args DraftPageArgs) EditResult {
	result, err := c.CreateDraftPage(ctx, args)
	if err != nil {
		return EditResult{Status: c.failure("create_draft_page", err)}
	}
	return result
}

// EditDraftPageMCP is the MCP wrapper for EditDraftPage
func (c *Client) EditDraftPageMCP(ctx context.Context, args DraftPageArgs) EditResult {
	result, err := c.EditDraftPage(ctx, args)
	if err != nil {
		return EditResult{Status: c.failure("edit_draft_page", err)}
	}
	return result
}

// failure converts err into a failed Status carrying the caller-facing
// message. The full error chain is only logged.
func (c *Client) failure(op string, err error) Status {
	c.logger.Debug("Operation failed",
		"operation", op,
		"code", apierrors.Code(err),
		"error", err)
	return failed(apierrors.Message(err))
}
