package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"

	"github.com/dynalint/dynalint/internal/lockfile"
	"github.com/dynalint/dynalint/internal/metadata"
)

// fetchAttempts bounds transient-failure retries per network operation.
const fetchAttempts = 3

var retryInterval = 500 * time.Millisecond

// cacheKey addresses a clone by what was asked for, so the same URL pinned
// to two revisions gets two independent clones.
func cacheKey(url, ref string) string {
	sum := sha256.Sum256([]byte(url + "\x00" + ref))
	return hex.EncodeToString(sum[:8])
}

// ensureClone materializes the entry's repository at the requested revision
// and returns the clone directory. Concurrent fetches of the same key
// serialize on the clone's lock file; a clone already at an immutable
// revision (tag or rev) is reused without touching the network.
func (f *Fetcher) ensureClone(ctx context.Context, entry metadata.Entry) (string, error) {
	ref, _ := entry.Ref()
	dir := filepath.Join(f.CacheDir, "sources", cacheKey(entry.Git, ref))

	unlock, err := lockfile.Acquire(ctx, dir+".lock")
	if err != nil {
		return "", err
	}
	defer unlock()

	fresh := false
	repo, err := git.PlainOpen(dir)
	switch {
	case errors.Is(err, git.ErrRepositoryNotExists):
		if repo, err = f.clone(ctx, entry, dir); err != nil {
			return "", err
		}
		fresh = true
	case err != nil:
		return "", fmt.Errorf("opening cached clone %s: %w", dir, err)
	}

	if err := f.checkout(ctx, repo, entry, fresh); err != nil {
		return "", err
	}
	return dir, nil
}

func (f *Fetcher) clone(ctx context.Context, entry metadata.Entry, dir string) (*git.Repository, error) {
	opts := &git.CloneOptions{URL: entry.Git, Tags: git.AllTags}
	ref, kind := entry.Ref()
	switch kind {
	case "branch":
		opts.ReferenceName = plumbing.NewBranchReferenceName(ref)
		opts.SingleBranch = true
	case "tag":
		opts.ReferenceName = plumbing.NewTagReferenceName(ref)
		opts.SingleBranch = true
	}

	var repo *git.Repository
	op := func() error {
		var err error
		repo, err = git.PlainCloneContext(ctx, dir, false, opts)
		if err != nil {
			// Leave no partial clone behind for the next attempt to trip on.
			os.RemoveAll(dir)
			if isPermanent(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		return nil
	}
	if err := backoff.Retry(op, retryPolicy(ctx)); err != nil {
		return nil, fmt.Errorf("cloning %s: %w", entry.Git, err)
	}
	return repo, nil
}

// checkout pins the worktree to the entry's revision. fresh marks a clone
// made in this call, which is already up to date and needs no refetch.
func (f *Fetcher) checkout(ctx context.Context, repo *git.Repository, entry metadata.Entry, fresh bool) error {
	ref, kind := entry.Ref()
	switch kind {
	case "tag", "rev":
		if hash, err := repo.ResolveRevision(plumbing.Revision(ref)); err == nil {
			return checkoutHash(repo, *hash)
		}
		if err := f.fetchOrigin(ctx, repo, entry.Git); err != nil {
			return err
		}
		hash, err := repo.ResolveRevision(plumbing.Revision(ref))
		if err != nil {
			return fmt.Errorf("revision %q not found in %s: %w", ref, entry.Git, err)
		}
		return checkoutHash(repo, *hash)

	case "branch":
		if !fresh {
			if err := f.fetchOrigin(ctx, repo, entry.Git); err != nil {
				return err
			}
		}
		hash, err := repo.ResolveRevision(plumbing.Revision("refs/remotes/origin/" + ref))
		if err != nil {
			return fmt.Errorf("branch %q not found in %s: %w", ref, entry.Git, err)
		}
		return checkoutHash(repo, *hash)

	default:
		if !fresh {
			if err := f.fetchOrigin(ctx, repo, entry.Git); err != nil {
				return err
			}
		}
		if head, err := repo.Reference(plumbing.NewRemoteHEADReferenceName("origin"), true); err == nil {
			return checkoutHash(repo, head.Hash())
		}
		head, err := repo.Head()
		if err != nil {
			return fmt.Errorf("resolving default branch of %s: %w", entry.Git, err)
		}
		return checkoutHash(repo, head.Hash())
	}
}

func (f *Fetcher) fetchOrigin(ctx context.Context, repo *git.Repository, url string) error {
	op := func() error {
		err := repo.FetchContext(ctx, &git.FetchOptions{
			RemoteName: "origin",
			Tags:       git.AllTags,
			Force:      true,
		})
		if err == nil || errors.Is(err, git.NoErrAlreadyUpToDate) {
			return nil
		}
		if isPermanent(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	if err := backoff.Retry(op, retryPolicy(ctx)); err != nil {
		return fmt.Errorf("fetching %s: %w", url, err)
	}
	return nil
}

func checkoutHash(repo *git.Repository, hash plumbing.Hash) error {
	if head, err := repo.Head(); err == nil && head.Hash() == hash {
		return nil
	}
	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("opening worktree: %w", err)
	}
	if err := wt.Checkout(&git.CheckoutOptions{Hash: hash, Force: true}); err != nil {
		return fmt.Errorf("checking out %s: %w", hash, err)
	}
	return nil
}

// isPermanent reports whether retrying the operation cannot help: the
// repository or revision does not exist, or the server rejected us.
func isPermanent(err error) bool {
	if errors.Is(err, plumbing.ErrReferenceNotFound) ||
		errors.Is(err, transport.ErrRepositoryNotFound) ||
		errors.Is(err, transport.ErrAuthenticationRequired) ||
		errors.Is(err, transport.ErrAuthorizationFailed) {
		return true
	}
	var refSpecErr git.NoMatchingRefSpecError
	return errors.As(err, &refSpecErr)
}

func retryPolicy(ctx context.Context) backoff.BackOffContext {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = retryInterval
	policy := backoff.WithMaxRetries(exp, fetchAttempts-1)
	return backoff.WithContext(policy, ctx)
}
