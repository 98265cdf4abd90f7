package netbox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/siteprov/siteprov/internal/inventory"
)

var _ inventory.Repository = (*Client)(nil)

// page is the paginated list envelope of every NetBox collection.
type page struct {
	Count   int      `json:"count"`
	Results []object `json:"results"`
}

// object holds the fields of any NetBox object that identify it.
type object struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Model   string `json:"model"`
	Slug    string `json:"slug"`
	Prefix  string `json:"prefix"`
	Address string `json:"address"`
}

func (o object) record(kind inventory.Kind) inventory.Record {
	key := o.Name
	switch kind {
	case inventory.KindDeviceType:
		key = o.Model
	case inventory.KindPrefix:
		key = o.Prefix
	case inventory.KindIPAddress:
		key = o.Address
	}
	return inventory.Record{ID: o.ID, Key: key, Slug: o.Slug}
}

func collectionPath(kind inventory.Kind) string {
	return kind.Endpoint() + "/"
}

func objectPath(kind inventory.Kind, id int64) string {
	return kind.Endpoint() + "/" + strconv.FormatInt(id, 10) + "/"
}

// Find returns the first object of kind matching filter, or nil.
func (c *Client) Find(ctx context.Context, kind inventory.Kind, filter inventory.Filter) (*inventory.Record, error) {
	start := time.Now()

	p, err := c.getPage(ctx, kind, filter, 1, 0)
	if err != nil {
		c.metrics.observe("find", kind, resultError, start)
		return nil, err
	}
	if len(p.Results) == 0 {
		c.metrics.observe("find", kind, resultMiss, start)
		return nil, nil
	}

	c.metrics.observe("find", kind, resultSuccess, start)
	rec := p.Results[0].record(kind)
	return &rec, nil
}

// List returns every object of kind matching filter, following pagination.
func (c *Client) List(ctx context.Context, kind inventory.Kind, filter inventory.Filter) ([]inventory.Record, error) {
	start := time.Now()
	var out []inventory.Record

	for offset := 0; ; {
		p, err := c.getPage(ctx, kind, filter, c.pageSize, offset)
		if err != nil {
			c.metrics.observe("list", kind, resultError, start)
			return nil, err
		}
		for _, o := range p.Results {
			out = append(out, o.record(kind))
		}
		offset += len(p.Results)
		if len(p.Results) == 0 || offset >= p.Count {
			break
		}
	}

	c.metrics.observe("list", kind, resultSuccess, start)
	return out, nil
}

func (c *Client) getPage(ctx context.Context, kind inventory.Kind, filter inventory.Filter, limit, offset int) (*page, error) {
	path := collectionPath(kind)
	resp, err := c.do(ctx, http.MethodGet, path, func(r *resty.Request) {
		r.SetQueryParams(filter).
			SetQueryParam("limit", strconv.Itoa(limit)).
			SetQueryParam("offset", strconv.Itoa(offset))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", kind, err)
	}
	if !resp.IsSuccess() {
		return nil, newAPIError(http.MethodGet, path, resp.StatusCode(), resp.Body())
	}

	var p page
	if err := json.Unmarshal(resp.Body(), &p); err != nil {
		return nil, fmt.Errorf("failed to decode %s list: %w", kind, err)
	}
	return &p, nil
}

// Create posts obj to its collection. A 400 response reporting that the object
// already exists yields AlreadyExists.
func (c *Client) Create(ctx context.Context, obj inventory.Object) inventory.CreateResult {
	kind := obj.Kind()
	path := collectionPath(kind)
	start := time.Now()

	resp, err := c.do(ctx, http.MethodPost, path, func(r *resty.Request) {
		r.SetBody(obj)
	})
	if err != nil {
		c.metrics.observe("create", kind, resultError, start)
		return inventory.FailedResult(err)
	}

	status := resp.StatusCode()
	switch {
	case status == http.StatusCreated || status == http.StatusOK:
		var created object
		if err := json.Unmarshal(resp.Body(), &created); err != nil || created.ID == 0 {
			c.metrics.observe("create", kind, resultError, start)
			return inventory.FailedResult(&inventory.CreationError{
				Kind:    kind,
				Status:  status,
				Message: "response carries no object id",
			})
		}
		c.metrics.observe("create", kind, resultSuccess, start)
		return inventory.CreatedResult(created.ID)
	case isDuplicate(status, resp.Body()):
		c.metrics.observe("create", kind, resultDuplicate, start)
		return inventory.DuplicateResult()
	default:
		c.metrics.observe("create", kind, resultError, start)
		return inventory.FailedResult(&inventory.CreationError{
			Kind:    kind,
			Status:  status,
			Message: responseMessage(resp.Body()),
		})
	}
}

// Update patches the object of kind with the given id.
func (c *Client) Update(ctx context.Context, kind inventory.Kind, id int64, patch any) error {
	path := objectPath(kind, id)
	start := time.Now()

	resp, err := c.do(ctx, http.MethodPatch, path, func(r *resty.Request) {
		r.SetBody(patch)
	})
	if err != nil {
		c.metrics.observe("update", kind, resultError, start)
		return fmt.Errorf("failed to update %s %d: %w", kind, id, err)
	}
	if !resp.IsSuccess() {
		c.metrics.observe("update", kind, resultError, start)
		return fmt.Errorf("failed to update %s %d: %w", kind, id,
			newAPIError(http.MethodPatch, path, resp.StatusCode(), resp.Body()))
	}

	c.metrics.observe("update", kind, resultSuccess, start)
	return nil
}
