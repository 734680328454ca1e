package hubspot

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// batchReadLimit is the maximum number of inputs HubSpot accepts per batch call.
const batchReadLimit = 100

func objectsPath(objectType string) string {
	return "/crm/v3/objects/" + url.PathEscape(objectType)
}

func (c *Client) SearchObjects(ctx context.Context, objectType string, req SearchRequest) (*SearchResponse, error) {
	if req.FilterGroups == nil {
		req.FilterGroups = []FilterGroup{}
	}
	var resp SearchResponse
	if err := c.do(ctx, http.MethodPost, objectsPath(objectType)+"/search", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetObject(ctx context.Context, objectType, id string, properties []string) (*Object, error) {
	path := objectsPath(objectType) + "/" + url.PathEscape(id)
	if len(properties) > 0 {
		q := url.Values{}
		q.Set("properties", strings.Join(properties, ","))
		path += "?" + q.Encode()
	}
	var obj Object
	if err := c.do(ctx, http.MethodGet, path, nil, &obj); err != nil {
		return nil, err
	}
	return &obj, nil
}

type batchReadInput struct {
	ID string `json:"id"`
}

type batchReadRequest struct {
	Properties []string         `json:"properties,omitempty"`
	Inputs     []batchReadInput `json:"inputs"`
}

type batchReadResponse struct {
	Status  string   `json:"status"`
	Results []Object `json:"results"`
}

// BatchReadObjects returns the records among ids that still resolve.
// Archived or unknown ids are silently absent from the result.
func (c *Client) BatchReadObjects(ctx context.Context, objectType string, ids []string, properties []string) ([]Object, error) {
	var objects []Object
	for start := 0; start < len(ids); start += batchReadLimit {
		end := min(start+batchReadLimit, len(ids))

		req := batchReadRequest{Properties: properties}
		for _, id := range ids[start:end] {
			req.Inputs = append(req.Inputs, batchReadInput{ID: id})
		}

		var resp batchReadResponse
		if err := c.do(ctx, http.MethodPost, objectsPath(objectType)+"/batch/read", req, &resp); err != nil {
			return nil, fmt.Errorf("batch read %s: %w", objectType, err)
		}
		objects = append(objects, resp.Results...)
	}
	return objects, nil
}

type propertiesBody struct {
	Properties map[string]string `json:"properties"`
}

func (c *Client) CreateObject(ctx context.Context, objectType string, properties map[string]string) (*Object, error) {
	var obj Object
	if err := c.do(ctx, http.MethodPost, objectsPath(objectType), propertiesBody{Properties: properties}, &obj); err != nil {
		return nil, err
	}
	return &obj, nil
}

func (c *Client) UpdateObject(ctx context.Context, objectType, id string, properties map[string]string) (*Object, error) {
	var obj Object
	path := objectsPath(objectType) + "/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodPatch, path, propertiesBody{Properties: properties}, &obj); err != nil {
		return nil, err
	}
	return &obj, nil
}

// DeleteObject archives the record.
func (c *Client) DeleteObject(ctx context.Context, objectType, id string) error {
	return c.do(ctx, http.MethodDelete, objectsPath(objectType)+"/"+url.PathEscape(id), nil, nil)
}
