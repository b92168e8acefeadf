package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultSiteLoads(t *testing.T) {
	t.Parallel()

	site, err := Default()
	require.NoError(t, err)
	require.Equal(t, "Simon Ting", site.Navigation.BrandName)
	require.Len(t, site.Navigation.Links, 7)
	require.Len(t, site.Projects.Items, 4)
	require.NotEmpty(t, site.SideProject.Disclaimer)
	require.NotEmpty(t, site.Timeline.Activities)
}

func TestLoadOverrideFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "site.yaml")
	doc := "site:\n  title: Custom\nnavigation:\n  links:\n    - { label: Home, href: \"#top\" }\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	site, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "Custom", site.Meta.Title)

	_, err = Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestParseRejectsUnknownKeysAndMissingFields(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("site:\n  title: X\n  subtitle: typo\nnavigation:\n  links: [{label: a, href: b}]\n"))
	require.Error(t, err)

	_, err = Parse([]byte("site:\n  title: \"\"\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "site.title is required")
	require.Contains(t, err.Error(), "navigation.links must not be empty")
}

func TestMarkdownSanitizes(t *testing.T) {
	t.Parallel()

	out := string(Markdown("**bold** <script>alert(1)</script> [link](https://example.com)"))
	require.Contains(t, out, "<strong>bold</strong>")
	require.NotContains(t, out, "<script>")
	require.True(t, strings.Contains(out, `rel="nofollow`), out)
}
