package oadr3

import (
	"context"
	"encoding/json"
	"iter"
)

// Target restricts an object to VENs or resources matching a type and values.
type Target struct {
	Type   string   `json:"type" validate:"required"`
	Values []string `json:"values" validate:"required,min=1"`
}

// IntervalPeriod defines the start and duration of an interval.
type IntervalPeriod struct {
	// Start is the start time of the interval.
	Start Time `json:"start"`
	// Duration is an ISO 8601 duration such as "PT1H".
	Duration string `json:"duration,omitempty"`
	// RandomizeStart is an ISO 8601 duration bounding a random start offset.
	RandomizeStart string `json:"randomizeStart,omitempty"`
}

// ProgramDescription links to a human readable description of a program.
type ProgramDescription struct {
	URL string `json:"URL" validate:"required"`
}

// Program represents a demand-response program offered by a VTN.
type Program struct {
	// ID is assigned by the VTN.
	ID                   string `json:"id,omitempty"`
	CreatedDateTime      Time   `json:"createdDateTime,omitzero"`
	ModificationDateTime Time   `json:"modificationDateTime,omitzero"`
	ObjectType           string `json:"objectType,omitempty"`
	// ProgramName is the short name that uniquely identifies the program.
	ProgramName      string `json:"programName" validate:"required"`
	ProgramLongName  string `json:"programLongName,omitempty"`
	RetailerName     string `json:"retailerName,omitempty"`
	RetailerLongName string `json:"retailerLongName,omitempty"`
	ProgramType      string `json:"programType,omitempty"`
	// Country is an ISO 3166-1 alpha-2 code.
	Country string `json:"country,omitempty"`
	// PrincipalSubdivision is an ISO 3166-2 code.
	PrincipalSubdivision string               `json:"principalSubdivision,omitempty"`
	TimeZoneOffset       string               `json:"timeZoneOffset,omitempty"`
	IntervalPeriod       *IntervalPeriod      `json:"intervalPeriod,omitempty"`
	ProgramDescriptions  []ProgramDescription `json:"programDescriptions,omitempty" validate:"omitempty,dive"`
	BindingEvents        *bool                `json:"bindingEvents,omitempty"`
	LocalPrice           *bool                `json:"localPrice,omitempty"`
	PayloadDescriptors   []json.RawMessage    `json:"payloadDescriptors,omitempty"`
	Targets              []Target             `json:"targets,omitempty" validate:"omitempty,dive"`
}

// ProgramParams filters [Client.SearchPrograms].
type ProgramParams struct {
	// Targets restricts results to programs carrying these target values.
	Targets []string `url:"targets,omitempty"`
	Page
}

// SearchPrograms lists the programs visible to the client.
func (c *Client) SearchPrograms(ctx context.Context, params ProgramParams) (*Response[[]Program], error) {
	return search[Program](ctx, c, "/programs", params)
}

// ProgramsIter returns an iterator over all programs matching params.
// The pagination fields of params are managed by the iterator.
func (c *Client) ProgramsIter(ctx context.Context, params ProgramParams) iter.Seq2[Program, error] {
	return iterate[Program](ctx, func(ctx context.Context, p Page) (*Response[[]Program], error) {
		params.Page = p
		return c.SearchPrograms(ctx, params)
	})
}

// CreateProgram creates a new program.
func (c *Client) CreateProgram(ctx context.Context, program *Program) (*Response[Program], error) {
	return create(ctx, c, "/programs", program)
}

// Program retrieves a program by id.
func (c *Client) Program(ctx context.Context, programID string) (*Response[Program], error) {
	if err := checkID("get program", "programID", programID); err != nil {
		return nil, err
	}

	return fetch[Program](ctx, c, objectPath("programs", programID))
}

// UpdateProgram replaces the program with the given id.
func (c *Client) UpdateProgram(ctx context.Context, programID string, program *Program) (*Response[Program], error) {
	if err := checkID("update program", "programID", programID); err != nil {
		return nil, err
	}

	return update(ctx, c, objectPath("programs", programID), program)
}

// DeleteProgram deletes the program with the given id.
func (c *Client) DeleteProgram(ctx context.Context, programID string) (*Response[Program], error) {
	if err := checkID("delete program", "programID", programID); err != nil {
		return nil, err
	}

	return remove[Program](ctx, c, objectPath("programs", programID))
}
