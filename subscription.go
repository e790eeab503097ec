package oadr3

import (
	"context"
)

// ObjectType names the kinds of objects a subscription can observe.
type ObjectType string

const (
	ObjectTypeProgram      ObjectType = "PROGRAM"
	ObjectTypeEvent        ObjectType = "EVENT"
	ObjectTypeReport       ObjectType = "REPORT"
	ObjectTypeSubscription ObjectType = "SUBSCRIPTION"
	ObjectTypeVen          ObjectType = "VEN"
	ObjectTypeResource     ObjectType = "RESOURCE"
)

// Operation is an action on an object that triggers a notification.
type Operation string

const (
	OperationGet    Operation = "GET"
	OperationPost   Operation = "POST"
	OperationPut    Operation = "PUT"
	OperationDelete Operation = "DELETE"
)

// ObjectOperation describes which operations on which objects are delivered
// to a callback URL.
type ObjectOperation struct {
	Objects    []ObjectType `json:"objects" validate:"required,min=1"`
	Operations []Operation  `json:"operations" validate:"required,min=1"`
	// CallbackURL receives the notifications.
	CallbackURL string `json:"callbackUrl" validate:"required,url"`
	BearerToken string `json:"bearerToken,omitempty"`
}

// Subscription registers a client for notifications about object changes.
type Subscription struct {
	ID                   string            `json:"id,omitempty"`
	CreatedDateTime      Time              `json:"createdDateTime,omitzero"`
	ModificationDateTime Time              `json:"modificationDateTime,omitzero"`
	ObjectType           string            `json:"objectType,omitempty"`
	ClientName           string            `json:"clientName" validate:"required"`
	ProgramID            string            `json:"programID" validate:"required"`
	ObjectOperations     []ObjectOperation `json:"objectOperations" validate:"required,min=1,dive"`
	Targets              []Target          `json:"targets,omitempty" validate:"omitempty,dive"`
}

// SubscriptionParams filters [Client.SearchSubscriptions].
type SubscriptionParams struct {
	ProgramID  string       `url:"programID,omitempty"`
	ClientName string       `url:"clientName,omitempty"`
	Targets    []string     `url:"targets,omitempty"`
	Objects    []ObjectType `url:"objects,omitempty"`
	Page
}

// SearchSubscriptions lists subscriptions matching params.
func (c *Client) SearchSubscriptions(ctx context.Context, params SubscriptionParams) (*Response[[]Subscription], error) {
	return search[Subscription](ctx, c, "/subscriptions", params)
}

// CreateSubscription creates a new subscription.
func (c *Client) CreateSubscription(ctx context.Context, sub *Subscription) (*Response[Subscription], error) {
	return create(ctx, c, "/subscriptions", sub)
}

// Subscription retrieves a subscription by id.
func (c *Client) Subscription(ctx context.Context, subscriptionID string) (*Response[Subscription], error) {
	if err := checkID("get subscription", "subscriptionID", subscriptionID); err != nil {
		return nil, err
	}

	return fetch[Subscription](ctx, c, objectPath("subscriptions", subscriptionID))
}

// UpdateSubscription replaces the subscription with the given id.
func (c *Client) UpdateSubscription(ctx context.Context, subscriptionID string, sub *Subscription) (*Response[Subscription], error) {
	if err := checkID("update subscription", "subscriptionID", subscriptionID); err != nil {
		return nil, err
	}

	return update(ctx, c, objectPath("subscriptions", subscriptionID), sub)
}

// DeleteSubscription deletes the subscription with the given id.
func (c *Client) DeleteSubscription(ctx context.Context, subscriptionID string) (*Response[Subscription], error) {
	if err := checkID("delete subscription", "subscriptionID", subscriptionID); err != nil {
		return nil, err
	}

	return remove[Subscription](ctx, c, objectPath("subscriptions", subscriptionID))
}
