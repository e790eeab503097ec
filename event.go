package oadr3

import (
	"context"
	"encoding/json"
	"iter"
)

// IntervalValue is a typed set of values carried by an event or report interval.
type IntervalValue struct {
	Type   string `json:"type" validate:"required"`
	Values []any  `json:"values"`
}

// Interval is one period of an event or report with its payload values.
type Interval struct {
	ID             int             `json:"id"`
	IntervalPeriod *IntervalPeriod `json:"intervalPeriod,omitempty"`
	Payloads       []IntervalValue `json:"payloads" validate:"omitempty,dive"`
}

// Event is an instruction from the VTN to VENs enrolled in a program.
type Event struct {
	ID                   string `json:"id,omitempty"`
	CreatedDateTime      Time   `json:"createdDateTime,omitzero"`
	ModificationDateTime Time   `json:"modificationDateTime,omitzero"`
	ObjectType           string `json:"objectType,omitempty"`
	// ProgramID references the program this event belongs to.
	ProgramID string `json:"programID" validate:"required"`
	EventName string `json:"eventName" validate:"required"`
	// Priority orders overlapping events, 0 being the highest.
	Priority           *int              `json:"priority,omitempty" validate:"omitempty,min=0"`
	Targets            []Target          `json:"targets,omitempty" validate:"omitempty,dive"`
	ReportDescriptors  []json.RawMessage `json:"reportDescriptors,omitempty"`
	PayloadDescriptors []json.RawMessage `json:"payloadDescriptors,omitempty"`
	IntervalPeriod     *IntervalPeriod   `json:"intervalPeriod,omitempty"`
	Intervals          []Interval        `json:"intervals,omitempty" validate:"omitempty,dive"`
}

// EventParams filters [Client.SearchEvents].
type EventParams struct {
	ProgramID string   `url:"programID,omitempty"`
	Targets   []string `url:"targets,omitempty"`
	Page
}

// SearchEvents lists events, optionally restricted to one program.
func (c *Client) SearchEvents(ctx context.Context, params EventParams) (*Response[[]Event], error) {
	return search[Event](ctx, c, "/events", params)
}

// EventsIter returns an iterator over all events matching params.
func (c *Client) EventsIter(ctx context.Context, params EventParams) iter.Seq2[Event, error] {
	return iterate[Event](ctx, func(ctx context.Context, p Page) (*Response[[]Event], error) {
		params.Page = p
		return c.SearchEvents(ctx, params)
	})
}

// CreateEvent creates a new event.
func (c *Client) CreateEvent(ctx context.Context, event *Event) (*Response[Event], error) {
	return create(ctx, c, "/events", event)
}

// Event retrieves an event by id.
func (c *Client) Event(ctx context.Context, eventID string) (*Response[Event], error) {
	if err := checkID("get event", "eventID", eventID); err != nil {
		return nil, err
	}

	return fetch[Event](ctx, c, objectPath("events", eventID))
}

// UpdateEvent replaces the event with the given id.
func (c *Client) UpdateEvent(ctx context.Context, eventID string, event *Event) (*Response[Event], error) {
	if err := checkID("update event", "eventID", eventID); err != nil {
		return nil, err
	}

	return update(ctx, c, objectPath("events", eventID), event)
}

// DeleteEvent deletes the event with the given id.
func (c *Client) DeleteEvent(ctx context.Context, eventID string) (*Response[Event], error) {
	if err := checkID("delete event", "eventID", eventID); err != nil {
		return nil, err
	}

	return remove[Event](ctx, c, objectPath("events", eventID))
}
