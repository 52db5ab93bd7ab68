package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		raw  string
		want Kind
	}{
		{"__pycache__", KindName},
		{"build", KindName},
		{"*.pyc", KindSuffixGlob},
		{"*~", KindSuffixGlob},
		{"venv", KindEnvironment},
		{".venv", KindEnvironment},
		{"env", KindEnvironment},
		{".env", KindEnvironment},
		{"virtualenv", KindEnvironment},
		{".virtualenv", KindEnvironment},
		{"vendor/generated", KindSubstring},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.raw).Kind)
		})
	}
}

func TestShouldExclude_FinalSegment(t *testing.T) {
	// Any pattern equal to the final segment must exclude the path.
	tests := []struct {
		path    string
		pattern string
	}{
		{"/proj/__pycache__", "__pycache__"},
		{"/proj/build", "build"},
		{"/proj/sub/dist", "dist"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			patterns := ClassifyAll([]string{tt.pattern})
			assert.True(t, ShouldExclude(tt.path, patterns))
		})
	}
}

func TestShouldExclude_AnySegment(t *testing.T) {
	patterns := ClassifyAll([]string{"node_modules"})

	assert.True(t, ShouldExclude("/proj/node_modules/pkg/index.js", patterns))
	assert.True(t, ShouldExclude("/proj/node_modules", patterns))
	assert.False(t, ShouldExclude("/proj/src/app.py", patterns))
}

func TestShouldExclude_SuffixGlob(t *testing.T) {
	patterns := ClassifyAll([]string{"*.pyc"})

	assert.True(t, ShouldExclude("/proj/mod.pyc", patterns))
	assert.True(t, ShouldExclude("/proj/deep/nested/cache.pyc", patterns))
	assert.False(t, ShouldExclude("/proj/mod.py", patterns))
	assert.False(t, ShouldExclude("/proj/pyc", patterns))
}

func TestShouldExclude_EnvironmentHeuristic(t *testing.T) {
	patterns := ClassifyAll([]string{"venv"})

	tests := []struct {
		path string
		want bool
	}{
		{"/proj/venv", true},
		{"/proj/venv/lib/site.py", true},
		// "venv_" prefixed and "_venv" suffixed directory names count too.
		{"/proj/venv_py311", true},
		{"/proj/project_venv", true},
		{"/proj/venv_old/bin", true},
		{"/proj/src/main.py", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldExclude(tt.path, patterns))
		})
	}
}

func TestShouldExclude_SubstringFallback(t *testing.T) {
	// The substring fallback is intentionally broad: "env" matches any path
	// containing "environment". This looseness is documented behavior.
	patterns := ClassifyAll([]string{"env"})

	assert.True(t, ShouldExclude("/proj/environment.py", patterns))
	assert.True(t, ShouldExclude("/proj/test_environments/case.py", patterns))
	assert.False(t, ShouldExclude("/proj/src/main.py", patterns))
}

func TestShouldExclude_CaseSensitive(t *testing.T) {
	patterns := ClassifyAll([]string{"Build"})

	assert.True(t, ShouldExclude("/proj/Build", patterns))
	assert.False(t, ShouldExclude("/proj/build", patterns))
}

func TestShouldExclude_EmptyPatternList(t *testing.T) {
	assert.False(t, ShouldExclude("/proj/venv/anything", nil))
	assert.False(t, ShouldExclude("/proj/venv/anything", []Pattern{}))
}

func TestShouldExclude_AnyMatchShortCircuits(t *testing.T) {
	patterns := ClassifyAll([]string{"nomatch", "*.log", "alsonomatch"})

	assert.True(t, ShouldExclude("/proj/debug.log", patterns))
}
