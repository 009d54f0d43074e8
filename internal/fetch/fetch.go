// Package fetch materializes declared plugin sources into local directories.
//
// Remote sources are cloned into a content-addressed cache keyed by
// (url, revision) and reused across runs; local sources are path globs
// expanded under the workspace root. Either kind is then narrowed by the
// entry's sub-package patterns to the candidate package directories.
package fetch

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	oerrors "github.com/dynalint/dynalint/internal/errors"
	"github.com/dynalint/dynalint/internal/metadata"
)

// fetchConcurrency bounds parallel clones; same-key clones additionally
// serialize on the clone directory's lock file.
const fetchConcurrency = 4

// Source is one materialized plugin source.
type Source struct {
	Entry    metadata.Entry
	Root     string
	Packages []string
}

// Fetcher materializes metadata entries.
type Fetcher struct {
	// CacheDir is the cache root; clones live under CacheDir/sources.
	CacheDir string

	// WorkspaceRoot anchors local path entries and bounds their expansion.
	WorkspaceRoot string
}

// Fetch materializes every entry. A failing entry does not abort its
// siblings: the returned sources cover the entries that succeeded, and the
// error aggregates the per-entry failures. Configuration problems (bad
// globs) and context cancellation abort the whole batch.
func (f *Fetcher) Fetch(ctx context.Context, entries []metadata.Entry) ([]Source, error) {
	results := make([][]Source, len(entries))
	failures := make([]*oerrors.FetchError, len(entries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, entry := range entries {
		g.Go(func() error {
			srcs, err := f.fetchEntry(ctx, entry)
			if err != nil {
				var fe *oerrors.FetchError
				if errors.As(err, &fe) {
					failures[i] = fe
					return nil
				}
				return err
			}
			results[i] = srcs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var sources []Source
	for _, srcs := range results {
		sources = append(sources, srcs...)
	}
	var collected []*oerrors.FetchError
	for _, fe := range failures {
		if fe != nil {
			collected = append(collected, fe)
		}
	}
	if len(collected) > 0 {
		return sources, &oerrors.FetchErrors{Errs: collected}
	}
	return sources, nil
}

func (f *Fetcher) fetchEntry(ctx context.Context, entry metadata.Entry) ([]Source, error) {
	if entry.IsGit() {
		root, err := f.ensureClone(ctx, entry)
		if err != nil {
			return nil, wrapFetch(entry.Git, err)
		}
		packages, err := expandPackages(root, entry.Pattern)
		if err != nil {
			return nil, err
		}
		if len(packages) == 0 {
			return nil, &oerrors.FetchError{
				Source: entry.Git,
				Err:    errors.New("pattern matched no package directories"),
			}
		}
		return []Source{{Entry: entry, Root: root, Packages: packages}}, nil
	}

	roots, err := f.expandLocal(entry)
	if err != nil {
		return nil, err
	}
	sources := make([]Source, 0, len(roots))
	for _, root := range roots {
		packages, err := expandPackages(root, entry.Pattern)
		if err != nil {
			return nil, err
		}
		if len(packages) == 0 {
			continue
		}
		sources = append(sources, Source{Entry: entry, Root: root, Packages: packages})
	}
	if len(sources) == 0 {
		return nil, &oerrors.FetchError{
			Source: entry.Path,
			Err:    errors.New("path pattern matched no package directories"),
		}
	}
	return sources, nil
}

// wrapFetch keeps configuration errors and cancellation distinct from
// genuine fetch failures so the caller can abort instead of collecting.
func wrapFetch(source string, err error) error {
	if errors.Is(err, oerrors.ErrConfiguration) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &oerrors.FetchError{Source: source, Err: err}
}
