// Package home composes the landing page from the category lists.
package home

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"golang.org/x/sync/errgroup"

	"reel/catalog"
)

type Lister interface {
	ListByCategory(ctx context.Context, cat catalog.Category) ([]catalog.Item, error)
}

// Section is one category row of the landing page.
type Section struct {
	Category catalog.Category `json:"category"`
	Title    string           `json:"title"`
	Items    []catalog.Item   `json:"items"`
}

type Home struct {
	Sections []Section `json:"sections"`
}

// Load fetches every category concurrently. The first failure cancels the
// rest and no partial result is returned.
func Load(ctx context.Context, l Lister) (*Home, error) {
	cats := catalog.Categories()
	sections := make([]Section, len(cats))

	g, ctx := errgroup.WithContext(ctx)
	for i, cat := range cats {
		i, cat := i, cat
		g.Go(func() error {
			items, err := l.ListByCategory(ctx, cat)
			if err != nil {
				return fmt.Errorf("load %s: %w", cat, err)
			}
			sections[i] = Section{Category: cat, Title: cat.Title(), Items: items}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.WithError(err).Error("home load failed")
		return nil, err
	}

	log.WithField("categories", len(sections)).Debug("home loaded")
	return &Home{Sections: sections}, nil
}

// Items returns the items of one category.
func (h *Home) Items(cat catalog.Category) []catalog.Item {
	for _, s := range h.Sections {
		if s.Category == cat {
			return s.Items
		}
	}
	return nil
}

var bannerSources = []catalog.Category{
	catalog.TrendingMovies,
	catalog.TrendingSeries,
	catalog.PopularMovies,
}

// BannerSet picks the carousel items: trending movies, trending series and
// popular movies in that order, skipping items without a backdrop and
// duplicates, capped at size.
func BannerSet(h *Home, size int) []catalog.Item {
	if h == nil || size <= 0 {
		return nil
	}

	seen := make(map[string]bool)
	out := make([]catalog.Item, 0, size)
	for _, cat := range bannerSources {
		for _, it := range h.Items(cat) {
			if it.BackdropPath == "" || seen[it.Key()] {
				continue
			}
			seen[it.Key()] = true
			out = append(out, it)
			if len(out) == size {
				return out
			}
		}
	}
	return out
}
