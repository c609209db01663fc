package services

import (
	"context"
	"errors"
	"fmt"

	"healthconsultant/internal/domain"
)

// pageOrProbe fetches q's page. When the page lies past the end it fetches
// the first page instead, so callers still learn the real total and can
// render pagination controls around an empty listing.
func pageOrProbe[T any](ctx context.Context, page int, fetch func(ctx context.Context, page int) (domain.Page[T], error)) (domain.Page[T], error) {
	res, err := fetch(ctx, page)
	if err == nil {
		return res, nil
	}
	if !errors.Is(err, domain.ErrPageOutOfRange) {
		return domain.Page[T]{}, err
	}
	first, err := fetch(ctx, 1)
	if err != nil {
		return domain.Page[T]{}, fmt.Errorf("probe first page: %w", err)
	}
	return domain.Page[T]{Items: []T{}, Total: first.Total}, nil
}
