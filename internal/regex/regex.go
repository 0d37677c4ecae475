package regex

import "regexp"

var (
	// Pull request reference patterns
	PullRequestURL    = regexp.MustCompile(`^https://github\.com/([^/\s#]+)/([^/\s#]+)/pull/(\d+)/?$`)
	PullRequestTriple = regexp.MustCompile(`^([^/\s#]+)/([^/\s#]+)[#/](\d+)$`)
)
