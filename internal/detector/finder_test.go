package detector

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrarca/dependency-detector/internal/provider"
)

func directories(tree *EvaluationTree) []string {
	var dirs []string
	for _, node := range tree.AsFlatList() {
		dirs = append(dirs, node.Directory())
	}
	return dirs
}

func fakeRepo() *provider.FakeProvider {
	p := provider.NewFakeProvider()
	p.AddFile("/src/go.mod", "module example.com/app")
	p.AddFile("/src/cmd/app/main.go", "package main")
	p.AddFile("/src/internal/store/store.go", "package store")
	p.AddDir("/src/node_modules/left-pad")
	p.AddDir("/src/.git/objects")
	return p
}

func TestFindTree_SortedPreOrder(t *testing.T) {
	tree, err := FindTree(fakeRepo(), "/src", DefaultFinderOptions(), nil)
	require.NoError(t, err)
	require.NotNil(t, tree)

	assert.Equal(t, []string{
		"/src",
		"/src/cmd",
		"/src/cmd/app",
		"/src/internal",
		"/src/internal/store",
	}, directories(tree))

	store := tree.AsFlatList()[4]
	assert.Equal(t, 2, store.Depth())
	assert.Equal(t, "internal/store", store.RelativePath())
	assert.Equal(t, "/src/internal", store.Parent().Directory())
}

func TestFindTree_ExcludePatterns(t *testing.T) {
	tests := []struct {
		name     string
		opts     FinderOptions
		expected []string
	}{
		{
			name:     "exclude by name",
			opts:     FinderOptions{ExcludeDefaults: true, MaxDepth: Unlimited, ExcludePatterns: []string{"cmd"}},
			expected: []string{"/src", "/src/internal", "/src/internal/store"},
		},
		{
			name:     "exclude by relative glob",
			opts:     FinderOptions{ExcludeDefaults: true, MaxDepth: Unlimited, ExcludePatterns: []string{"internal/*"}},
			expected: []string{"/src", "/src/cmd", "/src/cmd/app", "/src/internal"},
		},
		{
			name: "defaults disabled",
			opts: FinderOptions{MaxDepth: Unlimited},
			expected: []string{
				"/src", "/src/.git", "/src/.git/objects", "/src/cmd", "/src/cmd/app",
				"/src/internal", "/src/internal/store", "/src/node_modules", "/src/node_modules/left-pad",
			},
		},
		{
			name:     "max depth",
			opts:     FinderOptions{ExcludeDefaults: true, MaxDepth: 1},
			expected: []string{"/src", "/src/cmd", "/src/internal"},
		},
		{
			name:     "root only",
			opts:     FinderOptions{ExcludeDefaults: true, MaxDepth: 0},
			expected: []string{"/src"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := FindTree(fakeRepo(), "/src", tt.opts, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, directories(tree))
		})
	}
}

func TestFindTree_SkipVendored(t *testing.T) {
	p := provider.NewFakeProvider()
	p.AddFile("/src/go.mod", "module example.com/app")
	p.AddDir("/src/vendor/github.com/pkg/errors")
	p.AddDir("/src/pkg")

	tree, err := FindTree(p, "/src", FinderOptions{MaxDepth: Unlimited, SkipVendored: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"/src", "/src/pkg"}, directories(tree))
}

func TestFindTree_RespectGitignore(t *testing.T) {
	p := provider.NewFakeProvider()
	p.AddFile("/src/.gitignore", "generated/\n")
	p.AddDir("/src/generated/client")
	p.AddFile("/src/service/.gitignore", "fixtures\n")
	p.AddDir("/src/service/fixtures")
	p.AddDir("/src/service/api")
	p.AddDir("/src/tools/fixtures")

	tree, err := FindTree(p, "/src", FinderOptions{MaxDepth: Unlimited, RespectGitignore: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/src",
		"/src/service",
		"/src/service/api",
		"/src/tools",
		"/src/tools/fixtures",
	}, directories(tree))
}

func TestFindTree_AbsentRoot(t *testing.T) {
	p := fakeRepo()

	tree, err := FindTree(p, "/does/not/exist", DefaultFinderOptions(), nil)
	assert.NoError(t, err)
	assert.Nil(t, tree)

	tree, err = FindTree(p, "/src/go.mod", DefaultFinderOptions(), nil)
	assert.NoError(t, err)
	assert.Nil(t, tree, "a file is not a search root")

	tree, err = FindTree(p, "/src/node_modules", DefaultFinderOptions(), nil)
	assert.NoError(t, err)
	assert.Nil(t, tree, "an excluded root yields no tree")

	p.MakeUnreadable("/src")
	tree, err = FindTree(p, "/src", DefaultFinderOptions(), nil)
	assert.NoError(t, err)
	assert.Nil(t, tree)
}

func TestFindTree_UnreadableSubdirectoryIsFatal(t *testing.T) {
	p := fakeRepo()
	p.MakeUnreadable("/src/internal/store")

	tree, err := FindTree(p, "/src", DefaultFinderOptions(), nil)
	assert.Nil(t, tree)

	var listErr *DirectoryListError
	require.ErrorAs(t, err, &listErr)
	assert.Equal(t, "/src/internal/store", listErr.Path)
	assert.True(t, errors.Is(err, os.ErrPermission))
}

func TestFindTree_Symlinks(t *testing.T) {
	p := provider.NewFakeProvider()
	p.AddDir("/src/real/pkg")
	p.AddSymlink("/src/zlink", "/src/real")
	p.AddSymlink("/src/real/pkg/loop", "/src")

	tree, err := FindTree(p, "/src", FinderOptions{MaxDepth: Unlimited}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"/src", "/src/real", "/src/real/pkg"}, directories(tree))

	tree, err = FindTree(p, "/src", FinderOptions{MaxDepth: Unlimited, FollowSymlinks: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"/src", "/src/real", "/src/real/pkg"}, directories(tree),
		"symlinks to directories already in the tree are not followed again")
}

func TestFindTree_RealFilesystem(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "go.mod"), []byte("module a\n"), 0644))
	require.NoError(t, os.Symlink(root, filepath.Join(root, "a", "b", "cycle")))

	tree, err := FindTree(provider.NewFSProvider(root), root, FinderOptions{MaxDepth: Unlimited, FollowSymlinks: true}, nil)
	require.NoError(t, err)
	require.NotNil(t, tree)
	assert.Equal(t, []string{root, filepath.Join(root, "a"), filepath.Join(root, "a", "b")}, directories(tree))
}
