package github

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	derrors "github.com/devforge/devforge/internal/errors"

	"github.com/go-git/go-git/v5"
)

var repoPart = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Repo identifies a GitHub repository.
type Repo struct {
	Owner string
	Name  string
}

func (r Repo) String() string { return r.Owner + "/" + r.Name }

// ParseRepo accepts owner/repo or a GitHub remote URL in https, ssh or
// scp-like form.
func ParseRepo(s string) (Repo, error) {
	ref := strings.TrimSpace(s)
	ref = strings.TrimSuffix(ref, "/")
	ref = strings.TrimSuffix(ref, ".git")

	switch {
	case strings.Contains(ref, "://"):
		// https://github.com/owner/repo, ssh://git@github.com/owner/repo
		rest := ref[strings.Index(ref, "://")+3:]
		i := strings.Index(rest, "/")
		if i < 0 {
			return Repo{}, fmt.Errorf("%w: %q", derrors.ErrInvalidRepo, s)
		}
		ref = rest[i+1:]
	case strings.HasPrefix(ref, "git@"):
		// git@github.com:owner/repo
		i := strings.Index(ref, ":")
		if i < 0 {
			return Repo{}, fmt.Errorf("%w: %q", derrors.ErrInvalidRepo, s)
		}
		ref = ref[i+1:]
	}

	parts := strings.Split(ref, "/")
	if len(parts) != 2 || !repoPart.MatchString(parts[0]) || !repoPart.MatchString(parts[1]) {
		return Repo{}, fmt.Errorf("%w: %q", derrors.ErrInvalidRepo, s)
	}
	return Repo{Owner: parts[0], Name: parts[1]}, nil
}

// DetectRepo reads the origin remote of the git repository containing dir.
func DetectRepo(dir string) (Repo, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return Repo{}, fmt.Errorf("%w: %s is not inside a git repository (use --repo owner/repo)", derrors.ErrInvalidRepo, dir)
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		if errors.Is(err, git.ErrRemoteNotFound) {
			return Repo{}, fmt.Errorf("%w: no origin remote configured (use --repo owner/repo)", derrors.ErrInvalidRepo)
		}
		return Repo{}, fmt.Errorf("failed to read origin remote: %w", err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return Repo{}, fmt.Errorf("%w: origin remote has no URL", derrors.ErrInvalidRepo)
	}
	return ParseRepo(urls[0])
}
