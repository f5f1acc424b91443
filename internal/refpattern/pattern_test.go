package refpattern

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPatternMatch(t *testing.T) {
	tests := []struct {
		pattern string
		name    string
		want    bool
	}{
		{"main", "main", true},
		{"main", "maintenance", false},
		{"main", "omain", false},
		{"*", "anything", true},
		{"*", "", true},
		{"feature/*", "feature/login", true},
		{"feature/*", "feature/", true},
		{"feature/*", "bugfix/login", false},
		// The wildcard crosses separators
		{"feature/*", "feature/auth/tokens", true},
		{"*-wip", "login-wip", true},
		{"*-wip", "wip-login", false},
		{"release-*-hotfix", "release-1.2-hotfix", true},
		{"release-*-hotfix", "release-hotfix", false},
		{"a*b*c", "aXbYc", true},
		{"a*b*c", "abc", true},
		{"a*b*c", "acb", false},
		{"a*a", "a", false},
		// Every non-wildcard character is literal, including regex metacharacters
		{"v1.2", "v1.2", true},
		{"v1.2", "v1x2", false},
		{"fix[1]", "fix[1]", true},
		{"fix[1]", "fix1", false},
		{"", "", true},
		{"", "main", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"_"+tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Compile(tt.pattern).Match(tt.name))
		})
	}
}

func TestPatternIsLiteral(t *testing.T) {
	require.True(t, Compile("main").IsLiteral())
	require.True(t, Compile("feature/login").IsLiteral())
	require.False(t, Compile("feature/*").IsLiteral())
	require.False(t, Compile("*").IsLiteral())
}

func TestPatternString(t *testing.T) {
	require.Equal(t, "feature/*", Compile("feature/*").String())
}
