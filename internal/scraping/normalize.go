package scraping

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// rewriteRule maps a listing or search URL to the canonical single-posting URL.
type rewriteRule struct {
	host    string // host suffix
	path    *regexp.Regexp
	param   string
	idMatch *regexp.Regexp
	target  string // fmt template receiving the job id
}

var (
	numericID = regexp.MustCompile(`^\d+$`)
	hexID     = regexp.MustCompile(`^[0-9a-fA-F]+$`)
)

var rewriteRules = []rewriteRule{
	{host: "linkedin.com", path: regexp.MustCompile(`^/jobs/collections`), param: "currentJobId", idMatch: numericID, target: "https://www.linkedin.com/jobs/view/%s"},
	{host: "linkedin.com", path: regexp.MustCompile(`^/jobs/search`), param: "currentJobId", idMatch: numericID, target: "https://www.linkedin.com/jobs/view/%s"},
	{host: "indeed.com", path: regexp.MustCompile(`^/`), param: "vjk", idMatch: hexID, target: "https://www.indeed.com/viewjob?jk=%s"},
	{host: "indeed.com", path: regexp.MustCompile(`^/viewjob`), param: "jk", idMatch: hexID, target: "https://www.indeed.com/viewjob?jk=%s"},
}

// NormalizeURL rewrites known listing URLs into direct posting URLs. URLs that
// match no rule, or cannot be parsed, are returned trimmed but otherwise unchanged.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return raw
	}

	host := strings.ToLower(parsed.Hostname())
	query := parsed.Query()
	for _, rule := range rewriteRules {
		if !hostMatches(host, rule.host) || !rule.path.MatchString(parsed.Path) {
			continue
		}
		id := query.Get(rule.param)
		if id == "" || !rule.idMatch.MatchString(id) {
			continue
		}
		return fmt.Sprintf(rule.target, id)
	}
	return raw
}

func hostMatches(host, suffix string) bool {
	return host == suffix || strings.HasSuffix(host, "."+suffix)
}
