package oadr3

import (
	"context"
)

// Resource is a device or asset managed by a VEN.
type Resource struct {
	ID                   string      `json:"id,omitempty"`
	CreatedDateTime      Time        `json:"createdDateTime,omitzero"`
	ModificationDateTime Time        `json:"modificationDateTime,omitzero"`
	ObjectType           string      `json:"objectType,omitempty"`
	ResourceName         string      `json:"resourceName" validate:"required"`
	VenID                string      `json:"venID,omitempty"`
	Attributes           []ValuesMap `json:"attributes,omitempty" validate:"omitempty,dive"`
	Targets              []Target    `json:"targets,omitempty" validate:"omitempty,dive"`
}

// ResourceParams filters [Client.SearchResources].
type ResourceParams struct {
	ResourceName string   `url:"resourceName,omitempty"`
	Targets      []string `url:"targets,omitempty"`
	Page
}

// SearchResources lists the resources of a VEN.
func (c *Client) SearchResources(ctx context.Context, venID string, params ResourceParams) (*Response[[]Resource], error) {
	if err := checkID("search resources", "venID", venID); err != nil {
		return nil, err
	}

	return search[Resource](ctx, c, objectPath("vens", venID, "resources"), params)
}

// CreateResource adds a resource to a VEN.
func (c *Client) CreateResource(ctx context.Context, venID string, resource *Resource) (*Response[Resource], error) {
	if err := checkID("create resource", "venID", venID); err != nil {
		return nil, err
	}

	return create(ctx, c, objectPath("vens", venID, "resources"), resource)
}

// Resource retrieves a resource of a VEN by id.
func (c *Client) Resource(ctx context.Context, venID, resourceID string) (*Response[Resource], error) {
	if err := checkResourceIDs("get resource", venID, resourceID); err != nil {
		return nil, err
	}

	return fetch[Resource](ctx, c, objectPath("vens", venID, "resources", resourceID))
}

// UpdateResource replaces a resource of a VEN.
func (c *Client) UpdateResource(ctx context.Context, venID, resourceID string, resource *Resource) (*Response[Resource], error) {
	if err := checkResourceIDs("update resource", venID, resourceID); err != nil {
		return nil, err
	}

	return update(ctx, c, objectPath("vens", venID, "resources", resourceID), resource)
}

// DeleteResource removes a resource from a VEN.
func (c *Client) DeleteResource(ctx context.Context, venID, resourceID string) (*Response[Resource], error) {
	if err := checkResourceIDs("delete resource", venID, resourceID); err != nil {
		return nil, err
	}

	return remove[Resource](ctx, c, objectPath("vens", venID, "resources", resourceID))
}

func checkResourceIDs(op, venID, resourceID string) error {
	if err := checkID(op, "venID", venID); err != nil {
		return err
	}

	return checkID(op, "resourceID", resourceID)
}
