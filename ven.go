package oadr3

import (
	"context"
	"iter"
)

// ValuesMap is a named list of values attached to a VEN or resource.
type ValuesMap struct {
	Type   string `json:"type" validate:"required"`
	Values []any  `json:"values"`
}

// Ven is a Virtual End Node registered with the VTN.
type Ven struct {
	ID                   string      `json:"id,omitempty"`
	CreatedDateTime      Time        `json:"createdDateTime,omitzero"`
	ModificationDateTime Time        `json:"modificationDateTime,omitzero"`
	ObjectType           string      `json:"objectType,omitempty"`
	VenName              string      `json:"venName" validate:"required"`
	Attributes           []ValuesMap `json:"attributes,omitempty" validate:"omitempty,dive"`
	Targets              []Target    `json:"targets,omitempty" validate:"omitempty,dive"`
	Resources            []Resource  `json:"resources,omitempty" validate:"omitempty,dive"`
}

// VenParams filters [Client.SearchVens].
type VenParams struct {
	VenName string   `url:"venName,omitempty"`
	Targets []string `url:"targets,omitempty"`
	Page
}

// SearchVens lists the VENs visible to the client.
func (c *Client) SearchVens(ctx context.Context, params VenParams) (*Response[[]Ven], error) {
	return search[Ven](ctx, c, "/vens", params)
}

// VensIter returns an iterator over all VENs matching params.
func (c *Client) VensIter(ctx context.Context, params VenParams) iter.Seq2[Ven, error] {
	return iterate[Ven](ctx, func(ctx context.Context, p Page) (*Response[[]Ven], error) {
		params.Page = p
		return c.SearchVens(ctx, params)
	})
}

// CreateVen registers a new VEN.
func (c *Client) CreateVen(ctx context.Context, ven *Ven) (*Response[Ven], error) {
	return create(ctx, c, "/vens", ven)
}

// Ven retrieves a VEN by id.
func (c *Client) Ven(ctx context.Context, venID string) (*Response[Ven], error) {
	if err := checkID("get ven", "venID", venID); err != nil {
		return nil, err
	}

	return fetch[Ven](ctx, c, objectPath("vens", venID))
}

// UpdateVen replaces the VEN with the given id.
func (c *Client) UpdateVen(ctx context.Context, venID string, ven *Ven) (*Response[Ven], error) {
	if err := checkID("update ven", "venID", venID); err != nil {
		return nil, err
	}

	return update(ctx, c, objectPath("vens", venID), ven)
}

// DeleteVen deletes the VEN with the given id.
func (c *Client) DeleteVen(ctx context.Context, venID string) (*Response[Ven], error) {
	if err := checkID("delete ven", "venID", venID); err != nil {
		return nil, err
	}

	return remove[Ven](ctx, c, objectPath("vens", venID))
}
