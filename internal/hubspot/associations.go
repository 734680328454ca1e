package hubspot

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

func associationsPath(fromType, fromID, toType string) string {
	return "/crm/v4/objects/" + url.PathEscape(fromType) + "/" + url.PathEscape(fromID) +
		"/associations/" + url.PathEscape(toType)
}

// CreateAssociation links two records with the portal's default association type.
func (c *Client) CreateAssociation(ctx context.Context, fromType, fromID, toType, toID string) error {
	path := "/crm/v4/objects/" + url.PathEscape(fromType) + "/" + url.PathEscape(fromID) +
		"/associations/default/" + url.PathEscape(toType) + "/" + url.PathEscape(toID)
	return c.do(ctx, http.MethodPut, path, nil, nil)
}

// RemoveAssociation deletes every association between the two records.
func (c *Client) RemoveAssociation(ctx context.Context, fromType, fromID, toType, toID string) error {
	path := associationsPath(fromType, fromID, toType) + "/" + url.PathEscape(toID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

type associationsPage struct {
	Results []struct {
		ToObjectID int64 `json:"toObjectId"`
	} `json:"results"`
	Paging *Paging `json:"paging,omitempty"`
}

// ListAssociations returns the ids of every toType record linked to the
// given record, following pagination.
func (c *Client) ListAssociations(ctx context.Context, fromType, fromID, toType string) ([]string, error) {
	var ids []string
	after := ""
	for {
		q := url.Values{}
		q.Set("limit", "500")
		if after != "" {
			q.Set("after", after)
		}

		var page associationsPage
		if err := c.do(ctx, http.MethodGet, associationsPath(fromType, fromID, toType)+"?"+q.Encode(), nil, &page); err != nil {
			return nil, err
		}
		for _, r := range page.Results {
			ids = append(ids, strconv.FormatInt(r.ToObjectID, 10))
		}

		if page.Paging == nil || page.Paging.Next == nil || page.Paging.Next.After == "" {
			return ids, nil
		}
		after = page.Paging.Next.After
	}
}
