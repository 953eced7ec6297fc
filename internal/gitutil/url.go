// Package gitutil holds small helpers for working with GitHub coordinates.
package gitutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var prURLPattern = regexp.MustCompile(`github\.com/([^/]+)/([^/]+)/pull/(\d+)$`)

// ParsePullRequestURL extracts owner, repository and pull request number from
// a URL of the form https://github.com/{owner}/{repo}/pull/{number}. The
// scheme and a trailing slash are optional.
func ParsePullRequestURL(url string) (owner, repo string, number int, err error) {
	matches := prURLPattern.FindStringSubmatch(strings.TrimSuffix(url, "/"))
	if len(matches) != 4 {
		return "", "", 0, fmt.Errorf("invalid pull request URL format: %s", url)
	}

	number, err = strconv.Atoi(matches[3])
	if err != nil || number <= 0 {
		return "", "", 0, fmt.Errorf("invalid pull request number %q", matches[3])
	}

	return matches[1], matches[2], number, nil
}
