package oadr3

import (
	"context"
	"encoding/json"
	"iter"
)

// ReportResource carries the intervals reported for one resource.
type ReportResource struct {
	ResourceName   string          `json:"resourceName" validate:"required"`
	IntervalPeriod *IntervalPeriod `json:"intervalPeriod,omitempty"`
	Intervals      []Interval      `json:"intervals" validate:"omitempty,dive"`
}

// Report is data sent by a VEN in response to an event.
type Report struct {
	ID                   string `json:"id,omitempty"`
	CreatedDateTime      Time   `json:"createdDateTime,omitzero"`
	ModificationDateTime Time   `json:"modificationDateTime,omitzero"`
	ObjectType           string `json:"objectType,omitempty"`
	ProgramID            string `json:"programID" validate:"required"`
	EventID              string `json:"eventID,omitempty"`
	// ClientName identifies the VEN that produced the report.
	ClientName         string            `json:"clientName" validate:"required"`
	ReportName         string            `json:"reportName" validate:"required"`
	PayloadDescriptors []json.RawMessage `json:"payloadDescriptors,omitempty"`
	Resources          []ReportResource  `json:"resources" validate:"omitempty,dive"`
}

// ReportParams filters [Client.SearchReports].
type ReportParams struct {
	ProgramID  string `url:"programID,omitempty"`
	EventID    string `url:"eventID,omitempty"`
	ClientName string `url:"clientName,omitempty"`
	Page
}

// SearchReports lists reports matching params.
func (c *Client) SearchReports(ctx context.Context, params ReportParams) (*Response[[]Report], error) {
	return search[Report](ctx, c, "/reports", params)
}

// ReportsIter returns an iterator over all reports matching params.
func (c *Client) ReportsIter(ctx context.Context, params ReportParams) iter.Seq2[Report, error] {
	return iterate[Report](ctx, func(ctx context.Context, p Page) (*Response[[]Report], error) {
		params.Page = p
		return c.SearchReports(ctx, params)
	})
}

// CreateReport creates a new report.
func (c *Client) CreateReport(ctx context.Context, report *Report) (*Response[Report], error) {
	return create(ctx, c, "/reports", report)
}

// Report retrieves a report by id.
func (c *Client) Report(ctx context.Context, reportID string) (*Response[Report], error) {
	if err := checkID("get report", "reportID", reportID); err != nil {
		return nil, err
	}

	return fetch[Report](ctx, c, objectPath("reports", reportID))
}

// UpdateReport replaces the report with the given id.
func (c *Client) UpdateReport(ctx context.Context, reportID string, report *Report) (*Response[Report], error) {
	if err := checkID("update report", "reportID", reportID); err != nil {
		return nil, err
	}

	return update(ctx, c, objectPath("reports", reportID), report)
}

// DeleteReport deletes the report with the given id.
func (c *Client) DeleteReport(ctx context.Context, reportID string) (*Response[Report], error) {
	if err := checkID("delete report", "reportID", reportID); err != nil {
		return nil, err
	}

	return remove[Report](ctx, c, objectPath("reports", reportID))
}
