package advise

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/brequin/brequin/advise/catalog"
	"github.com/brequin/brequin/advise/chain"
	"github.com/brequin/brequin/advise/requirement"
)

type resolution struct {
	prerequisites chain.Prerequisites
	errs          requirement.Errors
	// unresolved were still to be fetched when the round limit was hit.
	unresolved []string
}

// resolvePrerequisites fetches the prerequisite trees of codes and of
// every course those trees reference, one batched round per level.
func resolvePrerequisites(ctx context.Context, cat catalog.Catalog, codes []string, o options) (resolution, error) {
	res := resolution{prerequisites: make(chain.Prerequisites)}
	fetched := make(map[string]bool)

	var frontier []string
	for _, code := range codes {
		if !slices.Contains(frontier, code) {
			frontier = append(frontier, code)
		}
	}

	for round := 0; len(frontier) > 0; round++ {
		if round == o.maxRounds {
			res.unresolved = frontier
			o.logger.Warn("stopped resolving prerequisites",
				slog.Int("rounds", round),
				slog.Int("unresolved", len(frontier)))
			break
		}
		for _, code := range frontier {
			fetched[code] = true
		}

		courses, err := fetchCourses(ctx, cat, frontier, o.parallelism)
		if err != nil {
			return res, err
		}
		o.logger.Debug("resolved prerequisite round",
			slog.Int("round", round),
			slog.Int("requested", len(frontier)),
			slog.Int("found", len(courses)))

		var next []string
		for _, code := range frontier {
			course, ok := courses[code]
			if !ok || strings.TrimSpace(course.Prerequisites) == "" {
				continue
			}
			tree, err := requirement.Parse(course.Prerequisites)
			if err != nil {
				res.errs = append(res.errs, &PrerequisiteError{Course: code, Err: err})
				continue
			}
			res.prerequisites[code] = tree
			for _, ref := range requirement.Courses(tree) {
				if !fetched[ref] && !slices.Contains(next, ref) {
					next = append(next, ref)
				}
			}
		}
		frontier = next
	}
	return res, nil
}

// fetchCourses looks codes up in up to parallelism concurrent batches.
func fetchCourses(ctx context.Context, cat catalog.Catalog, codes []string, parallelism int) (map[string]catalog.Course, error) {
	chunks := split(codes, parallelism)
	results := make([]map[string]catalog.Course, len(chunks))

	g, gCtx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		g.Go(func() error {
			found, err := cat.Courses(gCtx, chunk)
			if err != nil {
				return fmt.Errorf("looking up courses: %w", err)
			}
			results[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make(map[string]catalog.Course, len(codes))
	for _, found := range results {
		for code, course := range found {
			merged[code] = course
		}
	}
	return merged, nil
}

func split(codes []string, n int) [][]string {
	if len(codes) == 0 {
		return nil
	}
	size := (len(codes) + n - 1) / n
	var chunks [][]string
	for start := 0; start < len(codes); start += size {
		end := min(start+size, len(codes))
		chunks = append(chunks, codes[start:end])
	}
	return chunks
}
