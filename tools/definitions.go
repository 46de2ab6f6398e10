package tools

// AllTools contains all tool specifications for the MediaWiki MCP server.
// Tools are organized by category for easier maintenance.
// Tool descriptions follow a structured format for optimal LLM tool selection:
// - USE WHEN: Natural language triggers
// - NOT FOR: Disambiguation from similar tools
// - PARAMETERS: Key arguments with defaults
// - RETURNS: What the tool returns
var AllTools = []ToolSpec{
	// ==========================================================================
	// SEARCH TOOLS
	// ==========================================================================
	{
		Name:     "mediawiki_search_pages",
		Method:   "Search",
		Title:    "Search Pages",
		Category: "search",
		Description: `Full-text search ACROSS the wiki for pages containing specific text.

USE WHEN: User asks "find pages about X", "where is X documented", "search the wiki for X", or doesn't know which page holds the information.

NOT FOR: Reading a page whose title is known (use mediawiki_get_page_content). Not for browsing every page (use mediawiki_list_all_pages).

PARAMETERS:
- query: Search text (required)

RETURNS: Up to 20 hits with title, highlighted snippet, size in bytes and word count.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},

	// ==========================================================================
	// READ TOOLS
	// ==========================================================================
	{
		Name:     "mediawiki_get_page_content",
		Method:   "GetPageContent",
		Title:    "Get Page Content",
		Category: "read",
		Description: `Retrieve the wikitext of the latest revision of a page.

USE WHEN: User says "show me the X page", "what's on the Main Page", "read the FAQ".

NOT FOR: Metadata such as size or last edit (use mediawiki_get_page_info). Not for finding pages (use mediawiki_search_pages).

PARAMETERS:
- title: Exact page title including namespace prefix (required)

RETURNS: Title, page ID and raw wikitext. Fails with "Page not found" for missing pages.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "mediawiki_get_page_info",
		Method:   "GetPageInfo",
		Title:    "Get Page Info",
		Category: "read",
		Description: `Get page metadata without content.

USE WHEN: User asks "when was X last edited", "how big is the FAQ", "does page X exist".

NOT FOR: Getting page content (use mediawiki_get_page_content). Not for wiki-wide activity (use mediawiki_get_recent_changes).

PARAMETERS:
- title: Exact page title including namespace prefix (required)

RETURNS: Title, page ID, length in bytes, last revision ID and last touched timestamp.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},

	// ==========================================================================
	// DISCOVERY TOOLS
	// ==========================================================================
	{
		Name:     "mediawiki_get_recent_changes",
		Method:   "GetRecentChanges",
		Title:    "Get Recent Changes",
		Category: "discovery",
		Description: `Get the most recent edits across the entire wiki, newest first.

USE WHEN: User asks "what's been changed recently", "show wiki activity", "who's been editing".

NOT FOR: Metadata of one page (use mediawiki_get_page_info).

PARAMETERS:
- limit: Max changes (default 10, max 100)

RETURNS: Changes with title, user, timestamp and edit comment.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "mediawiki_list_all_pages",
		Method:   "ListAllPages",
		Title:    "List All Pages",
		Category: "discovery",
		Description: `List wiki pages in title order.

USE WHEN: User asks "list all pages", "what pages exist", "give me an index of the wiki".

NOT FOR: Finding pages by content (use mediawiki_search_pages).

PARAMETERS:
- limit: Max pages (default 50, max 500)

RETURNS: Pages with title, page ID, size and timestamp.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "mediawiki_get_site_info",
		Method:   "GetSiteInfo",
		Title:    "Get Site Info",
		Category: "discovery",
		Description: `Get general information about the wiki itself.

USE WHEN: User asks "what wiki is this", "what's the main page", "which server hosts the wiki".

NOT FOR: Information about a specific page (use mediawiki_get_page_info).

PARAMETERS: none

RETURNS: Site name, server name, main page title and configuration flags.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},

	// ==========================================================================
	// WRITE TOOLS
	// ==========================================================================
	{
		Name:     "mediawiki_create_or_edit_page",
		Method:   "EditPage",
		Title:    "Create or Edit Page",
		Category: "write",
		Description: `Create a new page or replace the entire content of an existing one.

USE WHEN: User says "create a page called X", "rewrite the About page", "replace the content of X".

NOT FOR: Work that should be reviewed before publishing (use mediawiki_create_draft_page). Not for removing pages (use mediawiki_delete_page).

PARAMETERS:
- title: Page name (required)
- content: Full new wikitext (required)
- summary: Edit summary (optional)

RETURNS: Title, page ID, new revision ID and whether the page was newly created.

WARNING: This overwrites the entire page content.`,
		ReadOnly:    false,
		Destructive: true,
		Idempotent:  false,
		OpenWorld:   true,
	},
	{
		Name:     "mediawiki_delete_page",
		Method:   "DeletePage",
		Title:    "Delete Page",
		Category: "write",
		Description: `Delete a page from the wiki.

USE WHEN: User says "delete page X", "remove the obsolete FAQ", "get rid of the spam page".

NOT FOR: Blanking or rewriting content (use mediawiki_create_or_edit_page).

PARAMETERS:
- title: Page name (required)
- reason: Reason recorded in the deletion log (optional)

RETURNS: Deleted title, reason and deletion log ID.

WARNING: Requires delete rights on the wiki.`,
		ReadOnly:    false,
		Destructive: true,
		Idempotent:  false,
		OpenWorld:   true,
	},
	{
		Name:     "mediawiki_create_draft_page",
		Method:   "CreateDraftPage",
		Title:    "Create Draft Page",
		Category: "write",
		Description: `Create a page in the Draft namespace, marked for review.

USE WHEN: User says "draft a page about X", "prepare a page for review", "write a proposal page".

NOT FOR: Publishing directly (use mediawiki_create_or_edit_page). Not for revising an existing draft (use mediawiki_edit_draft_page).

PARAMETERS:
- title: Page name without the "Draft:" prefix (required)
- content: Draft wikitext (required)
- summary: Edit summary (optional, prefixed with "Draft: ")

RETURNS: Draft title, page ID, new revision ID and whether the page was newly created.

NOTE: The title is prefixed with "Draft:" and the content with an {{Under review}} banner.`,
		ReadOnly:    false,
		Destructive: false,
		Idempotent:  false,
		OpenWorld:   true,
	},
	{
		Name:     "mediawiki_edit_draft_page",
		Method:   "EditDraftPage",
		Title:    "Edit Draft Page",
		Category: "write",
		Description: `Replace the content of an existing draft page.

USE WHEN: User says "update my draft", "revise the draft for X", "apply the review feedback to the draft".

NOT FOR: Starting a new draft (use mediawiki_create_draft_page). Not for published pages (use mediawiki_create_or_edit_page).

PARAMETERS:
- title: Draft name, with or without the "Draft:" prefix (required)
- content: New draft wikitext (required)
- summary: Edit summary (optional, prefixed with "Draft: ")

RETURNS: Draft title, page ID, new revision ID.`,
		ReadOnly:    false,
		Destructive: false,
		Idempotent:  false,
		OpenWorld:   true,
	},
}
