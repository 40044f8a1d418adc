package git

import (
	"fmt"
	"strings"

	"github.com/blang/semver/v4"
)

// LatestTag returns the newest tag according to git version sorting, or an
// empty string when the repository has no tags.
func (r *Runner) LatestTag() (string, error) {
	stdout, stderr, err := r.Run("tag", "--sort=-version:refname")
	if err != nil {
		return "", fmt.Errorf("list tags: %w (%s)", err, strings.TrimSpace(stderr))
	}

	for _, line := range strings.Split(stdout, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line, nil
		}
	}
	return "", nil
}

// NextMinorTag computes the next minor version tag after latest. An empty
// latest yields the initial 0.1.0 tag.
func NextMinorTag(latest string) (string, error) {
	if latest == "" {
		return "0.1.0", nil
	}

	version, err := semver.Parse(strings.TrimPrefix(strings.TrimSpace(latest), "v"))
	if err != nil {
		return "", fmt.Errorf("latest tag %q is not valid semantic versioning: %w", latest, err)
	}

	version.Minor++
	version.Patch = 0
	version.Pre = nil
	version.Build = nil
	return version.String(), nil
}

// CreateTag creates a lightweight tag at HEAD.
func (r *Runner) CreateTag(name string, suppress bool) error {
	return r.RunAttached(suppress, nil, "tag", name)
}
