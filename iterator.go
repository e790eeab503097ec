package oadr3

import (
	"context"
	"iter"
)

// pageFunc fetches a single page of items T.
type pageFunc[T any] func(context.Context, Page) (*Response[[]T], error)

// iterate returns an iterator that walks through all pages using the provided fetcher.
// A server-reported problem ends the iteration with its [APIError].
func iterate[T any](ctx context.Context, fetch pageFunc[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		skip := 0

		for {
			resp, err := fetch(ctx, Page{Skip: Ptr(skip), Limit: Ptr(maxPageLimit)})
			if err != nil {
				yield(*new(T), err)
				return
			}
			if err := resp.Err(); err != nil {
				yield(*new(T), err)
				return
			}

			var items []T
			if resp.Payload != nil {
				items = *resp.Payload
			}

			for _, item := range items {
				if !yield(item, nil) {
					return
				}
			}

			if len(items) < maxPageLimit {
				return
			}
			skip += len(items)
		}
	}
}
