package oadr3

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// maxPageLimit is the largest limit a VTN accepts on search endpoints.
const maxPageLimit = 50

// newValidator returns a validator reporting fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	return v
}

// checkValue validates a struct, or every element of a slice of structs.
func (c *Client) checkValue(v any) error {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := range rv.Len() {
			if err := c.checkValue(rv.Index(i).Interface()); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
		}
		return nil
	case reflect.Struct:
		return c.validate.Struct(rv.Interface())
	default:
		return nil
	}
}

// checkArgument validates caller input before anything is sent.
func (c *Client) checkArgument(op string, v any) error {
	if err := c.checkValue(v); err != nil {
		return argumentError(op, err)
	}

	return nil
}

// checkID rejects blank object identifiers.
func checkID(op, name, id string) error {
	if strings.TrimSpace(id) == "" {
		return argumentErrorf(op, "%s cannot be empty", name)
	}

	return nil
}

// checkPayload validates the payload of a successful response.
func checkPayload[T any](c *Client, op string, resp *Response[T]) error {
	if !resp.Success() || resp.Payload == nil {
		return nil
	}

	if err := c.checkValue(resp.Payload); err != nil {
		return &Error{Kind: ErrProtocol, Op: op, Status: resp.Status, Err: err}
	}

	return nil
}
