package mediawiki

import "encoding/json"

// A failed result serializes as its Status alone, so callers never see zero
// payload fields next to an error.

func marshalResult[T any](s Status, payload T) ([]byte, error) {
	if !s.Success {
		return json.Marshal(s)
	}
	return json.Marshal(payload)
}

func (r SearchResult) MarshalJSON() ([]byte, error) {
	type plain SearchResult
	return marshalResult(r.Status, plain(r))
}

func (r PageContentResult) MarshalJSON() ([]byte, error) {
	type plain PageContentResult
	return marshalResult(r.Status, plain(r))
}

func (r PageInfoResult) MarshalJSON() ([]byte, error) {
	type plain PageInfoResult
	return marshalResult(r.Status, plain(r))
}

func (r RecentChangesResult) MarshalJSON() ([]byte, error) {
	type plain RecentChangesResult
	return marshalResult(r.Status, plain(r))
}

func (r SiteInfoResult) MarshalJSON() ([]byte, error) {
	type plain SiteInfoResult
	return marshalResult(r.Status, plain(r))
}

func (r ListPagesResult) MarshalJSON() ([]byte, error) {
	type plain ListPagesResult
	return marshalResult(r.Status, plain(r))
}

func (r EditResult) MarshalJSON() ([]byte, error) {
	type plain EditResult
	return marshalResult(r.Status, plain(r))
}

func (r DeleteResult) MarshalJSON() ([]byte, error) {
	type plain DeleteResult
	return marshalResult(r.Status, plain(r))
}
