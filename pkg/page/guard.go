package page

import (
	"fmt"

	"github.com/gobwas/glob"
)

// URLGuard decides which pages may not be scripted.
type URLGuard struct {
	patterns []glob.Glob
}

// NewURLGuard compiles the protected URL patterns.
func NewURLGuard(patterns []string) (*URLGuard, error) {
	g := &URLGuard{}
	for _, p := range patterns {
		compiled, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid protected pattern %q: %w", p, err)
		}
		g.patterns = append(g.patterns, compiled)
	}
	return g, nil
}

// Blocks reports whether url matches a protected pattern. A nil guard
// blocks nothing.
func (g *URLGuard) Blocks(url string) bool {
	if g == nil {
		return false
	}
	for _, p := range g.patterns {
		if p.Match(url) {
			return true
		}
	}
	return false
}
