package mediawiki

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	apierrors "github.com/olgasafonova/mediawiki-mcp-server/internal/errors"
	"github.com/olgasafonova/mediawiki-mcp-server/metrics"
)

// Draft conventions applied by CreateDraftPage and EditDraftPage.
const (
	DraftPrefix = "Draft:"
	DraftBanner = "{{Under review}}\n\n"

	draftCreatedSummary = "Created draft for review"
	draftUpdatedSummary = "Updated draft for review"
)

// csrfToken fetches a fresh edit token. Tokens are never cached; each
// mutation pays for its own round trip.
func (c *Client) csrfToken(ctx context.Context) (string, error) {
	params := url.Values{
		"action": {"query"},
		"meta":   {"tokens"},
		"type":   {"csrf"},
	}

	var resp tokensResponse
	if err := c.query(ctx, params, &resp); err != nil {
		metrics.TokenFailures.Inc()
		return "", err
	}
	if resp.Query == nil || resp.Query.Tokens == nil || resp.Query.Tokens.CSRFToken == "" {
		metrics.TokenFailures.Inc()
		return "", &apierrors.TokenError{}
	}
	return resp.Query.Tokens.CSRFToken, nil
}

// EditPage creates title or replaces its content.
func (c *Client) EditPage(ctx context.Context, args EditPageArgs) (EditResult, error) {
	result, err := c.edit(ctx, args)
	metrics.RecordMutation("edit", err == nil)
	return result, err
}

func (c *Client) edit(ctx context.Context, args EditPageArgs) (EditResult, error) {
	if err := validateTitle(args.Title); err != nil {
		return EditResult{}, err
	}

	token, err := c.csrfToken(ctx)
	if err != nil {
		return EditResult{}, fmt.Errorf("edit page: %w", err)
	}

	params := url.Values{
		"action":  {"edit"},
		"title":   {args.Title},
		"text":    {args.Content},
		"token":   {token},
		"summary": {args.Summary},
	}

	var resp editResponse
	if err := c.submit(ctx, params, &resp); err != nil {
		return EditResult{}, fmt.Errorf("edit page: %w", err)
	}
	if resp.Edit == nil {
		return EditResult{}, invalidResponse("edit: missing edit object")
	}
	if resp.Edit.Result != "Success" {
		return EditResult{}, apierrors.NewResponseError(apierrors.MsgEditFailed, "edit result: "+resp.Edit.Result)
	}

	metrics.ObserveContentSize("edit", len(args.Content))
	c.logger.Info("Page edited",
		"title", resp.Edit.Title,
		"pageid", resp.Edit.PageID,
		"newrevid", resp.Edit.NewRevID,
		"new", resp.Edit.New.Set())

	return EditResult{
		Status:   succeeded(),
		Title:    resp.Edit.Title,
		PageID:   resp.Edit.PageID,
		NewRevID: resp.Edit.NewRevID,
		NewPage:  resp.Edit.New.Set(),
	}, nil
}

// DeletePage removes title, recording reason in the deletion log.
func (c *Client) DeletePage(ctx context.Context, args DeletePageArgs) (DeleteResult, error) {
	result, err := c.delete(ctx, args)
	metrics.RecordMutation("delete", err == nil)
	return result, err
}

func (c *Client) delete(ctx context.Context, args DeletePageArgs) (DeleteResult, error) {
	if err := validateTitle(args.Title); err != nil {
		return DeleteResult{}, err
	}

	token, err := c.csrfToken(ctx)
	if err != nil {
		return DeleteResult{}, fmt.Errorf("delete page: %w", err)
	}

	params := url.Values{
		"action": {"delete"},
		"title":  {args.Title},
		"reason": {args.Reason},
		"token":  {token},
	}

	var resp deleteResponse
	if err := c.submit(ctx, params, &resp); err != nil {
		return DeleteResult{}, fmt.Errorf("delete page: %w", err)
	}
	if resp.Delete == nil || resp.Delete.Title == "" {
		return DeleteResult{}, apierrors.NewResponseError(apierrors.MsgDeleteFailed, "delete: missing title")
	}

	c.logger.Info("Page deleted",
		"title", resp.Delete.Title,
		"logid", resp.Delete.LogID)

	return DeleteResult{
		Status: succeeded(),
		Title:  resp.Delete.Title,
		Reason: resp.Delete.Reason,
		LogID:  resp.Delete.LogID,
	}, nil
}

// CreateDraftPage writes a new page in the Draft namespace with the review
// banner prepended.
func (c *Client) CreateDraftPage(ctx context.Context, args DraftPageArgs) (EditResult, error) {
	result, err := c.edit(ctx, draftEdit(args, draftCreatedSummary))
	metrics.RecordMutation("draft_create", err == nil)
	return result, err
}

// EditDraftPage replaces the content of an existing draft.
func (c *Client) EditDraftPage(ctx context.Context, args DraftPageArgs) (EditResult, error) {
	result, err := c.edit(ctx, draftEdit(args, draftUpdatedSummary))
	metrics.RecordMutation("draft_update", err == nil)
	return result, err
}

// draftEdit rewrites draft arguments into a plain edit.
func draftEdit(args DraftPageArgs, defaultSummary string) EditPageArgs {
	summary := defaultSummary
	if args.Summary != "" {
		summary = "Draft: " + args.Summary
	}
	return EditPageArgs{
		Title:   draftTitle(args.Title),
		Content: draftContent(args.Content),
		Summary: summary,
	}
}

// draftTitle puts title in the Draft namespace. The namespace name is
// matched case-insensitively and rewritten to its canonical form.
func draftTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return title
	}
	if len(title) >= len(DraftPrefix) && strings.EqualFold(title[:len(DraftPrefix)], DraftPrefix) {
		title = strings.TrimSpace(title[len(DraftPrefix):])
	}
	return DraftPrefix + title
}

func draftContent(content string) string {
	if strings.HasPrefix(content, DraftBanner) {
		return content
	}
	return DraftBanner + content
}
