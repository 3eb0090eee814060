package gitsource

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"slices"
	"strings"
	"sync"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"

	"lipidhq/fragrules/pkg/config"
	"lipidhq/fragrules/pkg/rules"
)

// ErrUnknownRef is returned when a ref names no commit in the repository.
var ErrUnknownRef = errors.New("unknown git ref")

// CommitInfo describes the commit a Snapshot was read from.
type CommitInfo struct {
	SHA       string    `json:"sha" yaml:"sha"`
	Author    string    `json:"author" yaml:"author"`
	Email     string    `json:"email" yaml:"email"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Message   string    `json:"message" yaml:"message"`
}

// ShortSHA returns the first 12 characters of the commit hash.
func (c CommitInfo) ShortSHA() string {
	if len(c.SHA) > 12 {
		return c.SHA[:12]
	}
	return c.SHA
}

// File is one rule file from a commit's tree.
type File struct {
	// Path is slash-separated and relative to the repository root.
	Path    string
	Content []byte
}

// Snapshot is the set of rule files in one commit.
type Snapshot struct {
	Ref    string
	Commit CommitInfo
	Files  []File
}

// Repository reads rule files from a git repository.
// It is safe for concurrent use.
type Repository struct {
	cfg    config.GitConfig
	remote bool

	mu   sync.RWMutex
	repo *gogit.Repository
}

// Open opens cfg.Repository. An existing local directory is opened in place
// (any directory inside a work tree works); anything else is treated as a
// remote URL and cloned into memory.
func Open(ctx context.Context, cfg *config.GitConfig) (*Repository, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Repository == "" {
		return nil, fmt.Errorf("repository cannot be empty")
	}

	r := &Repository{cfg: *cfg}
	if info, err := os.Stat(cfg.Repository); err == nil && info.IsDir() {
		repo, err := gogit.PlainOpenWithOptions(cfg.Repository, &gogit.PlainOpenOptions{DetectDotGit: true})
		if err != nil {
			return nil, fmt.Errorf("failed to open repository %s: %w", cfg.Repository, err)
		}
		r.repo = repo
		return r, nil
	}

	auth, err := AuthMethod(&cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to get auth: %w", err)
	}
	repo, err := gogit.CloneContext(ctx, memory.NewStorage(), nil, &gogit.CloneOptions{
		URL:  cfg.Repository,
		Auth: auth,
		Tags: gogit.AllTags,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to clone repository %s: %w", cfg.Repository, err)
	}
	r.repo = repo
	r.remote = true
	return r, nil
}

// Snapshot returns the rule files of the commit ref resolves to. An empty
// ref uses the configured ref. Files are sorted by path.
func (r *Repository) Snapshot(ref string) (*Snapshot, error) {
	if ref == "" {
		ref = r.cfg.Ref
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	hash, err := r.resolve(ref)
	if err != nil {
		return nil, err
	}
	commit, err := r.repo.CommitObject(hash)
	if err != nil {
		return nil, fmt.Errorf("failed to get commit %s: %w", hash, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to get tree of %s: %w", hash, err)
	}

	prefix := strings.Trim(r.cfg.Path, "/")
	if prefix != "" {
		if tree, err = tree.Tree(prefix); err != nil {
			return nil, fmt.Errorf("path %q at %s: %w", prefix, ref, err)
		}
	}

	var files []File
	err = tree.Files().ForEach(func(f *object.File) error {
		if f.Mode == filemode.Symlink || !rules.IsRuleFile(f.Name) {
			return nil
		}
		content, err := f.Contents()
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", f.Name, err)
		}
		files = append(files, File{
			Path:    path.Join(prefix, f.Name),
			Content: []byte(content),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(files, func(a, b File) int { return strings.Compare(a.Path, b.Path) })

	return &Snapshot{
		Ref: ref,
		Commit: CommitInfo{
			SHA:       commit.Hash.String(),
			Author:    commit.Author.Name,
			Email:     commit.Author.Email,
			Timestamp: commit.Author.When,
			Message:   strings.TrimSpace(commit.Message),
		},
		Files: files,
	}, nil
}

// resolve turns a branch, tag, or hash into a commit hash. Branches of a
// cloned repository are also looked up under the origin remote.
func (r *Repository) resolve(ref string) (plumbing.Hash, error) {
	candidates := []string{ref}
	if r.remote && ref != "HEAD" {
		candidates = append(candidates, "refs/remotes/origin/"+ref)
	}
	for _, c := range candidates {
		hash, err := r.repo.ResolveRevision(plumbing.Revision(c))
		if err == nil {
			return *hash, nil
		}
	}
	return plumbing.ZeroHash, fmt.Errorf("%w: %s", ErrUnknownRef, ref)
}

// Location returns the repository URL or path.
func (r *Repository) Location() string {
	return r.cfg.Repository
}
