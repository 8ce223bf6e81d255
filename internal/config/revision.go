package config

import (
	"strings"

	"github.com/distribution/reference"

	"edgedeploy/internal/api"
)

// EnvGitHubRef names the git ref the workflow runs for.
const EnvGitHubRef = "GITHUB_REF"

// ImageRevision derives an image tag from a git ref:
//
//	refs/heads/master     -> latest
//	refs/tags/v1.2        -> v1.2
//	refs/heads/feature/x  -> feature-x
//	refs/pull/12/merge    -> pr-12-merge
func ImageRevision(ref string) (string, error) {
	if ref == "refs/heads/master" {
		return "latest", nil
	}
	tokens := strings.Split(ref, "/")
	if len(tokens) < 3 || tokens[0] != "refs" {
		return "", api.NewConfigurationError(EnvGitHubRef, "cannot derive an image revision from ref %q", ref)
	}
	if tokens[1] == "tags" {
		return tokens[len(tokens)-1], nil
	}
	rev := strings.Join(tokens[2:], "-")
	if tokens[1] == "pull" {
		rev = "pr-" + rev
	}
	return rev, nil
}

// HasTag reports whether image carries a tag or digest. A registry port is
// not mistaken for a tag.
func HasTag(image string) (bool, error) {
	ref, err := reference.Parse(image)
	if err != nil {
		return false, api.NewConfigurationError("app.image_path", "invalid image reference %q: %v", image, err)
	}
	if _, ok := ref.(reference.Tagged); ok {
		return true, nil
	}
	_, ok := ref.(reference.Digested)
	return ok, nil
}

// ResolveImage returns image fully tagged. An image that already has a tag
// is returned unchanged; otherwise tag is used, or the revision derived from
// ref when tag is empty.
func ResolveImage(image, tag, ref string) (string, error) {
	tagged, err := HasTag(image)
	if err != nil {
		return "", err
	}
	if tagged {
		return image, nil
	}
	if tag == "" {
		if ref == "" {
			return "", api.NewConfigurationError("app.image_path", "image %s has no tag and neither an image tag nor %s is set", image, EnvGitHubRef)
		}
		rev, err := ImageRevision(ref)
		if err != nil {
			return "", err
		}
		tag = rev
	}

	resolved := image + ":" + tag
	if _, err := reference.Parse(resolved); err != nil {
		return "", api.NewConfigurationError("app.image_path", "tag %q is not a valid image tag: %v", tag, err)
	}
	return resolved, nil
}
