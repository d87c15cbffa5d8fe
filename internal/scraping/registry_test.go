package scraping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry_Lookup(t *testing.T) {
	registry := DefaultRegistry()

	tests := []struct {
		url  string
		want string
		ok   bool
	}{
		{"https://www.linkedin.com/jobs/view/1", "linkedin", true},
		{"https://ca.indeed.com/viewjob?jk=1", "indeed", true},
		{"https://www.glassdoor.com/job-listing/x", "glassdoor", true},
		{"https://notlinkedin.com/jobs/view/1", "", false},
		{"https://boards.greenhouse.io/acme/jobs/1", "", false},
		{"://bad", "", false},
	}

	for _, tt := range tests {
		strategy, ok := registry.Lookup(tt.url)
		assert.Equal(t, tt.ok, ok, tt.url)
		assert.Equal(t, tt.want, strategy.Name, tt.url)
	}
}

func TestRegistry_Register(t *testing.T) {
	registry := NewRegistry()
	registry.Register(Strategy{Name: "acme", Hosts: []string{"careers.acme.test"}, Selectors: []string{"#posting"}})

	strategy, ok := registry.Lookup("https://careers.acme.test/jobs/1")
	require.True(t, ok)
	assert.Equal(t, []string{"#posting"}, strategy.Selectors)
	assert.Equal(t, []string{"acme"}, registry.Names())
}

func TestLinkedInStrategy_SendsNavigationHeaders(t *testing.T) {
	s := LinkedInStrategy()
	assert.Equal(t, "https://www.linkedin.com/", s.Headers["Referer"])
	assert.Equal(t, "div.description__text", s.Selectors[0])
}
