// Package search ranks recently edited content of every collection against a
// free-text query.
package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"
	"golang.org/x/sync/errgroup"

	"github.com/hillview-school/school-cms/internal/content"
	pkgerrors "github.com/hillview-school/school-cms/pkg/errors"
	"github.com/hillview-school/school-cms/pkg/logger"
	"github.com/hillview-school/school-cms/pkg/pagination"
)

// perSourceLimit bounds how many recent records each collection contributes.
const perSourceLimit = pagination.MaxLimit

// Source is a collection that can list its recent records.
type Source interface {
	Entity() string
	Recent(ctx context.Context, limit int) ([]content.Summary, error)
}

type Hit struct {
	Entity    string    `json:"entity"`
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Score     int       `json:"score"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Service struct {
	sources []Source
	logg    *logger.Logger
}

func NewService(logg *logger.Logger, sources ...Source) (*Service, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("at least one search source required")
	}
	return &Service{sources: sources, logg: logg}, nil
}

// Search returns up to limit hits, best match first. An empty query returns
// the most recently updated records instead.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	limit = pagination.NormalizeLimit(limit)

	summaries, err := s.collect(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		sort.SliceStable(summaries, func(i, j int) bool {
			return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
		})
		hits := make([]Hit, 0, min(limit, len(summaries)))
		for _, sum := range summaries[:min(limit, len(summaries))] {
			hits = append(hits, hitFrom(sum, 0))
		}
		return hits, nil
	}

	matches := fuzzy.FindFrom(query, titles(summaries))
	hits := make([]Hit, 0, min(limit, len(matches)))
	for _, m := range matches {
		if len(hits) == limit {
			break
		}
		hits = append(hits, hitFrom(summaries[m.Index], m.Score))
	}
	return hits, nil
}

// collect fetches every source concurrently. Results keep source order.
func (s *Service) collect(ctx context.Context) ([]content.Summary, error) {
	perSource := make([][]content.Summary, len(s.sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range s.sources {
		g.Go(func() error {
			rows, err := src.Recent(gctx, perSourceLimit)
			if err != nil {
				return fmt.Errorf("%s: %w", src.Entity(), err)
			}
			perSource[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, pkgerrors.Internal(err, "search sources")
	}

	var out []content.Summary
	for _, rows := range perSource {
		out = append(out, rows...)
	}
	return out, nil
}

type titles []content.Summary

func (t titles) String(i int) string { return t[i].Title }
func (t titles) Len() int            { return len(t) }

func hitFrom(sum content.Summary, score int) Hit {
	return Hit{Entity: sum.Entity, ID: sum.ID, Title: sum.Title, Score: score, UpdatedAt: sum.UpdatedAt}
}
