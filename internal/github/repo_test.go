package github

import (
	"errors"
	"testing"

	derrors "github.com/devforge/devforge/internal/errors"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRepo(t *testing.T) {
	valid := map[string]Repo{
		"acme/api":                              {"acme", "api"},
		"https://github.com/acme/api":           {"acme", "api"},
		"https://github.com/acme/api.git":       {"acme", "api"},
		"https://github.com/acme/api/":          {"acme", "api"},
		"git@github.com:acme/api.git":           {"acme", "api"},
		"ssh://git@github.com/acme/my.repo.git": {"acme", "my.repo"},
		"  acme/api-2  ":                        {"acme", "api-2"},
	}
	for input, expected := range valid {
		got, err := ParseRepo(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, got, input)
	}

	for _, input := range []string{"", "acme", "acme/api/extra", "https://github.com", "acme/ api", "git@github.com"} {
		_, err := ParseRepo(input)
		assert.True(t, errors.Is(err, derrors.ErrInvalidRepo), "input %q: got %v", input, err)
	}
}

func TestRepoString(t *testing.T) {
	assert.Equal(t, "acme/api", Repo{Owner: "acme", Name: "api"}.String())
}

func TestDetectRepo(t *testing.T) {
	dir := t.TempDir()
	r, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	_, err = DetectRepo(dir)
	assert.True(t, errors.Is(err, derrors.ErrInvalidRepo), "no origin: got %v", err)

	_, err = r.CreateRemote(&config.RemoteConfig{Name: "origin", URLs: []string{"git@github.com:acme/api.git"}})
	require.NoError(t, err)

	got, err := DetectRepo(dir)
	require.NoError(t, err)
	assert.Equal(t, Repo{Owner: "acme", Name: "api"}, got)
}

func TestDetectRepoOutsideGit(t *testing.T) {
	_, err := DetectRepo(t.TempDir())
	assert.True(t, errors.Is(err, derrors.ErrInvalidRepo))
}
