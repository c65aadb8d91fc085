package research

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeWebsite(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		wantWebsite string
		wantDomain  string
	}{
		{"bare domain", "acme.com", "https://acme.com", "acme.com"},
		{"already https", "https://acme.com", "https://acme.com", "acme.com"},
		{"http kept", "http://acme.com", "http://acme.com", "acme.com"},
		{"path stripped from domain", "https://acme.com/about/team", "https://acme.com/about/team", "acme.com"},
		{"bare domain with path", "acme.com/about", "https://acme.com/about", "acme.com"},
		{"surrounding whitespace", "  acme.com  ", "https://acme.com", "acme.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			website, domain := NormalizeWebsite(tt.in)
			assert.Equal(t, tt.wantWebsite, website)
			assert.Equal(t, tt.wantDomain, domain)
		})
	}
}

func TestNormalizeWebsite_Idempotent(t *testing.T) {
	once, _ := NormalizeWebsite("acme.com/about")
	twice, domain := NormalizeWebsite(once)
	assert.Equal(t, once, twice)
	assert.Equal(t, "acme.com", domain)
}
