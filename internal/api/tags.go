package api

import (
	"fmt"
	"strings"
)

// SearchTags looks up tags whose name matches keyword. The server decides
// ranking; callers must keep the returned order.
func (c *Client) SearchTags(keyword string, limit int) (*TagSearchResult, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return &TagSearchResult{Success: true}, nil
	}
	params := QueryParams{"keyword": keyword}
	if limit > 0 {
		params["limit"] = fmt.Sprintf("%d", limit)
	}
	data, err := c.get(buildQuery("/api/tags/search", params))
	if err != nil {
		return nil, err
	}
	return decodeOne[TagSearchResult](data)
}

// ListTags returns the tag catalogue, most used first.
func (c *Client) ListTags(limit, offset int) ([]Tag, error) {
	params := QueryParams{}
	if limit > 0 {
		params["limit"] = fmt.Sprintf("%d", limit)
	}
	if offset > 0 {
		params["offset"] = fmt.Sprintf("%d", offset)
	}
	data, err := c.get(buildQuery("/api/tags", params))
	if err != nil {
		return nil, err
	}
	return decodeList[Tag](data)
}
