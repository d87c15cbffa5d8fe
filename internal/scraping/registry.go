package scraping

import (
	"net/url"
	"strings"
	"sync"
)

// GenericStrategy is the name reported when no site strategy matched.
const GenericStrategy = "generic"

// Strategy describes how to scrape one job board.
type Strategy struct {
	Name      string
	Hosts     []string          // host suffixes, e.g. "linkedin.com"
	Headers   map[string]string // extra request headers
	Selectors []string          // tried in order; first one yielding enough text wins
}

// Registry maps hosts to strategies. It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	strategies []Strategy
}

// NewRegistry creates a registry holding the given strategies in lookup order.
func NewRegistry(strategies ...Strategy) *Registry {
	return &Registry{strategies: append([]Strategy(nil), strategies...)}
}

// DefaultRegistry returns a registry with the built-in LinkedIn, Indeed and Glassdoor strategies.
func DefaultRegistry() *Registry {
	return NewRegistry(LinkedInStrategy(), IndeedStrategy(), GlassdoorStrategy())
}

// Register adds a strategy. Later registrations are consulted after earlier ones.
func (r *Registry) Register(s Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies = append(r.strategies, s)
}

// Lookup returns the strategy whose host list matches the URL.
func (r *Registry) Lookup(rawURL string) (Strategy, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return Strategy{}, false
	}
	host := strings.ToLower(parsed.Hostname())

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.strategies {
		for _, h := range s.Hosts {
			if hostMatches(host, strings.ToLower(h)) {
				return s, true
			}
		}
	}
	return Strategy{}, false
}

// Names lists registered strategy names in lookup order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.strategies))
	for _, s := range r.strategies {
		names = append(names, s.Name)
	}
	return names
}

// LinkedInStrategy targets public LinkedIn job view pages.
func LinkedInStrategy() Strategy {
	return Strategy{
		Name:  "linkedin",
		Hosts: []string{"linkedin.com"},
		Headers: map[string]string{
			"Referer":        "https://www.linkedin.com/",
			"Sec-Fetch-Dest": "document",
			"Sec-Fetch-Mode": "navigate",
			"Sec-Fetch-Site": "same-origin",
		},
		Selectors: []string{
			"div.description__text",
			"div.show-more-less-html__markup",
			`div[data-test-id="job-description"]`,
			"div.jobs-description__content",
			"div.jobs-box__html-content",
			"section.jobs-description",
			"div.jobs-description-content__text",
			"div.job-view-layout",
			"div.jobs-details__main-content",
			`div[class*="description"]`,
			`div[class*="job"]`,
		},
	}
}

// IndeedStrategy targets Indeed viewjob pages.
func IndeedStrategy() Strategy {
	return Strategy{
		Name:  "indeed",
		Hosts: []string{"indeed.com"},
		Selectors: []string{
			`div[data-testid="jobsearch-JobComponent-description"]`,
			"div.jobsearch-jobDescriptionText",
			"div.jobsearch-JobComponent-description",
			"div#jobDescriptionText",
			"div.jobsearch-SerpJobCard-description",
			"div.job-snippet",
			"span[title]",
			"div.summary",
			`div[class*="description"]`,
			`div[class*="job"]`,
			`div[id*="description"]`,
			`div[id*="job"]`,
		},
	}
}

// GlassdoorStrategy targets Glassdoor job listing pages.
func GlassdoorStrategy() Strategy {
	return Strategy{
		Name:  "glassdoor",
		Hosts: []string{"glassdoor.com"},
		Selectors: []string{
			"div.jobDescriptionContent",
			`div[data-test="jobDescription"]`,
			"div.desc",
			"div.jobDescription",
			`section[data-test="description"]`,
		},
	}
}
