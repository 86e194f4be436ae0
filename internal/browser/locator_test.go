package browser

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSession overrides only the probe used by Locate; other Session methods
// are never reached in these tests.
type stubSession struct {
	Session
	present map[string]bool
	failing map[string]bool
	probes  []string
}

func (s *stubSession) Exists(_ context.Context, selector string) (bool, error) {
	s.probes = append(s.probes, selector)
	if s.failing[selector] {
		return false, fmt.Errorf("probe failed")
	}
	return s.present[selector], nil
}

func TestIsXPath(t *testing.T) {
	assert.True(t, IsXPath(`//a[contains(text(), 'Apply')]`))
	assert.True(t, IsXPath(`(//a[contains(text(), 'Apply')])[2]`))
	assert.False(t, IsXPath(`input[type='email']`))
	assert.False(t, IsXPath(`.job-title`))
	assert.False(t, IsXPath(""))
}

func TestLocate_FirstStrategyWins(t *testing.T) {
	s := &stubSession{present: map[string]bool{
		`input[type='email']`:  true,
		`input[name*='email']`: true,
	}}

	selector, ok := Locate(context.Background(), s, FieldEmail)

	require.True(t, ok)
	assert.Equal(t, `input[type='email']`, selector)
	// Probing stops at the first match.
	assert.Equal(t, []string{`input[type='email']`}, s.probes)
}

func TestLocate_FallsThroughToLaterStrategy(t *testing.T) {
	s := &stubSession{present: map[string]bool{
		`input[id*='email']`: true,
	}}

	selector, ok := Locate(context.Background(), s, FieldEmail)

	require.True(t, ok)
	assert.Equal(t, `input[id*='email']`, selector)
}

func TestLocate_ProbeErrorCountsAsNonMatch(t *testing.T) {
	s := &stubSession{
		present: map[string]bool{`input[name*='email']`: true},
		failing: map[string]bool{`input[type='email']`: true},
	}

	selector, ok := Locate(context.Background(), s, FieldEmail)

	require.True(t, ok)
	assert.Equal(t, `input[name*='email']`, selector)
}

func TestLocate_NoMatch(t *testing.T) {
	s := &stubSession{}

	_, ok := Locate(context.Background(), s, FieldSignOutLink)

	assert.False(t, ok)
}

func TestSelectors_EveryFieldHasStrategies(t *testing.T) {
	for field := range locators {
		assert.NotEmpty(t, Selectors(field), "field %s has no locator strategies", field)
	}
}

func TestFindExpr_Dialects(t *testing.T) {
	assert.Contains(t, findExpr(`input[type='email']`), "document.querySelector")
	assert.Contains(t, findExpr(`//a[contains(text(), 'Sign Out')]`), "document.evaluate")
}
