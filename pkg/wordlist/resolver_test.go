package wordlist

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsWordlist(t *testing.T) {
	tests := map[string]bool{
		"common.txt":       true,
		"words.list":       true,
		"names.dict":       true,
		"params.csv":       true,
		"wordlist":         true,
		"README.md":        false,
		"readme.txt":       false,
		"LICENSE":          false,
		"index.html":       false,
		"meta.json":        false,
		"archive.tar":      false,
		"sitemap.xml.list": false,
	}
	for name, want := range tests {
		assert.Equal(t, want, IsWordlist(name), name)
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		path, name string
		want       Category
	}{
		{"/sl/Discovery/Web-Content/common.txt", "common.txt", CategoryWebContent},
		{"/w/admin-panels.txt", "admin-panels.txt", CategoryAdmin},
		{"/w/swagger.txt", "swagger.txt", CategoryAPI},
		{"/w/dirs.txt", "dirs.txt", CategoryDirectory},
		{"/w/backup-files.txt", "backup-files.txt", CategoryFile},
		{"/w/usernames.txt", "usernames.txt", CategoryUser},
		{"/w/pwd.txt", "pwd.txt", CategoryPassword},
		{"/w/params.txt", "params.txt", CategoryParameter},
		{"/w/big.txt", "big.txt", CategoryGeneric},
		{"/w/zzz.txt", "zzz.txt", CategoryOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Categorize(tt.path, tt.name), tt.name)
	}
}

func seedTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Discovery", "Web-Content", "common.txt"), "a\nb\n")
	writeFile(t, filepath.Join(root, "Discovery", "Web-Content", "admin-panels.txt"), "admin\n")
	writeFile(t, filepath.Join(root, "Discovery", "Web-Content", "api", "api-endpoints.txt"), "v1\n")
	writeFile(t, filepath.Join(root, "Usernames", "top-usernames.txt"), "root\n")
	writeFile(t, filepath.Join(root, "README.md"), "docs\n")
	return root
}

func TestResolver_All(t *testing.T) {
	root := seedTree(t)
	r := NewResolver([]string{root, filepath.Join(root, "does-not-exist")}, nil)

	entries := r.All()
	require.Len(t, entries, 4)
	for _, e := range entries {
		assert.NotEqual(t, "README.md", e.Filename)
		assert.Positive(t, e.Size)
		assert.False(t, strings.HasPrefix(e.RelPath, "/"))
	}
	assert.Len(t, r.ByCategory(CategoryWebContent), 3)

	writeFile(t, filepath.Join(root, "extra.txt"), "x\n")
	assert.Len(t, r.All(), 4, "scan is cached")
	r.Refresh()
	assert.Len(t, r.All(), 5)
}

func TestResolver_Search(t *testing.T) {
	r := NewResolver([]string{seedTree(t)}, nil)

	got := r.Search([]string{"admin"}, 10)
	require.NotEmpty(t, got)
	assert.Equal(t, "admin-panels.txt", got[0].Filename)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}

	assert.Len(t, r.Search([]string{"admin"}, 1), 1)
}
