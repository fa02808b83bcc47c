package api

import (
	"context"
	"strings"
	"time"

	"github.com/rpupo63/consultancy-site-backend/models"
)

type slugLookup func(ctx context.Context, base string) ([]string, error)

// resolveSlug picks the slug to store. An explicit slug is normalized; with
// none, an existing row keeps its slug and a new row derives one from
// source. Taken slugs get a -2, -3, ... suffix. current is the row's own
// slug and never counts as taken.
func resolveSlug(ctx context.Context, lookup slugLookup, requested *string, source, prefix, current string, now time.Time) (string, error) {
	var base string
	switch {
	case requested != nil && strings.TrimSpace(*requested) != "":
		base = models.Slugify(*requested)
	case current != "":
		return current, nil
	default:
		base = models.BaseSlug(source, prefix, now)
	}
	if base == current {
		return current, nil
	}

	taken, err := lookup(ctx, base)
	if err != nil {
		return "", err
	}
	others := taken[:0]
	for _, s := range taken {
		if s != current {
			others = append(others, s)
		}
	}
	return models.NextFreeSlug(base, others), nil
}
