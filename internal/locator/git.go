// SPDX-License-Identifier: MPL-2.0

package locator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/jhipster/generator-jhipster-sub006/internal/blueprint"
)

// namePlaceholder is replaced by the package name in GitInstaller.URLTemplate.
const namePlaceholder = "{name}"

// GitInstaller clones a blueprint repository into the package cache.
// With a version it checks out the tag "v<version>" or "<version>".
type GitInstaller struct {
	// URLTemplate builds the clone URL, e.g. "https://github.com/jhipster/{name}.git".
	URLTemplate string

	auth transport.AuthMethod
}

// NewGitInstaller creates a GitInstaller. A GITHUB_TOKEN or GIT_TOKEN in the
// environment is used for HTTPS authentication.
func NewGitInstaller(urlTemplate string) *GitInstaller {
	g := &GitInstaller{URLTemplate: urlTemplate}
	switch {
	case os.Getenv("GITHUB_TOKEN") != "":
		g.auth = &http.BasicAuth{Username: "x-access-token", Password: os.Getenv("GITHUB_TOKEN")}
	case os.Getenv("GIT_TOKEN") != "":
		g.auth = &http.BasicAuth{Username: "git", Password: os.Getenv("GIT_TOKEN")}
	}
	return g
}

// URL returns the clone URL of bp.
func (g *GitInstaller) URL(bp blueprint.Descriptor) string {
	return strings.ReplaceAll(g.URLTemplate, namePlaceholder, bp.Name)
}

// Install implements Installer.
func (g *GitInstaller) Install(ctx context.Context, bp blueprint.Descriptor, dir string) (string, error) {
	if g.URLTemplate == "" {
		return "", ErrNotInstalled
	}

	dest := filepath.Join(dir, filepath.FromSlash(bp.Name))
	if _, err := git.PlainOpen(dest); err == nil {
		return dest, nil
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("failed to create parent directory: %w", err)
	}

	url := g.URL(bp)
	var lastErr error
	for _, ref := range referenceNames(bp.Version) {
		_, err := git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{
			URL:           url,
			Auth:          g.auth,
			ReferenceName: ref,
			SingleBranch:  true,
			Depth:         1,
		})
		if err == nil {
			return dest, nil
		}
		lastErr = err
		_ = os.RemoveAll(dest)
		if ctx.Err() != nil {
			break
		}
	}

	if lastErr == nil {
		lastErr = errors.New("no reference to clone")
	}
	return "", fmt.Errorf("failed to clone %s: %w", url, lastErr)
}

// referenceNames lists the refs tried for version; an empty version clones the default branch.
func referenceNames(version string) []plumbing.ReferenceName {
	if version == "" {
		return []plumbing.ReferenceName{""}
	}
	if noV, found := strings.CutPrefix(version, "v"); found {
		return []plumbing.ReferenceName{plumbing.NewTagReferenceName(version), plumbing.NewTagReferenceName(noV)}
	}
	return []plumbing.ReferenceName{plumbing.NewTagReferenceName("v" + version), plumbing.NewTagReferenceName(version)}
}
