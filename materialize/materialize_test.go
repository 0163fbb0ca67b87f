package materialize_test

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blueprint/materialize"
	"blueprint/structure"
)

func node(t *testing.T, doc string) *structure.Node {
	t.Helper()
	n, err := structure.Decode(strings.NewReader(doc))
	require.NoError(t, err)
	return n
}

// listTree returns every path under root, directories suffixed with "/".
func listTree(t *testing.T, root string) []string {
	t.Helper()
	var out []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		rel, _ := filepath.Rel(root, p)
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			rel += "/"
		}
		out = append(out, rel)
		return nil
	})
	require.NoError(t, err)
	sort.Strings(out)
	return out
}

func TestCreateExactTree(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, materialize.Create(root, node(t, `{"src":{"index.js":null},"README.md":null}`)))

	assert.Equal(t, []string{"README.md", "src/", "src/index.js"}, listTree(t, root))
	for _, f := range []string{"README.md", "src/index.js"} {
		info, err := os.Stat(filepath.Join(root, f))
		require.NoError(t, err)
		assert.Zero(t, info.Size(), f)
	}
}

func TestCreateMakesMissingRootAndParents(t *testing.T) {
	root := filepath.Join(t.TempDir(), "a", "b", "project")
	require.NoError(t, materialize.Create(root, node(t, `{"x":{}}`)))
	assert.Equal(t, []string{"x/"}, listTree(t, root))
}

func TestCreateEmptyNode(t *testing.T) {
	root := filepath.Join(t.TempDir(), "empty")
	var events []materialize.Event
	err := materialize.CreateWithProgress(context.Background(), root, structure.New(), func(e materialize.Event) {
		events = append(events, e)
	})
	require.NoError(t, err)
	assert.DirExists(t, root)
	assert.Empty(t, events)
	assert.Empty(t, listTree(t, root))
}

func TestCreateOnlyEmptyDirs(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, materialize.Create(root, node(t, `{"a":{},"b":{"c":{}}}`)))
	assert.Equal(t, []string{"a/", "b/", "b/c/"}, listTree(t, root))
}

func TestCreateIsIdempotentAndTruncates(t *testing.T) {
	root := t.TempDir()
	n := node(t, `{"src":{"main.go":null}}`)
	require.NoError(t, materialize.Create(root, n))

	target := filepath.Join(root, "src", "main.go")
	require.NoError(t, os.WriteFile(target, []byte("package main\n"), 0644))

	require.NoError(t, materialize.Create(root, n))
	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestCreateFileWhereDirectoryWanted(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "src"), nil, 0644))

	err := materialize.Create(root, node(t, `{"src":{"index.js":null}}`))
	require.Error(t, err)

	var ioErr *materialize.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, filepath.Join(root, "src"), ioErr.Path)
	assert.ErrorIs(t, err, materialize.ErrNotDirectory)
}

func TestCreateDirectoryWhereFileWanted(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "README.md"), 0755))

	err := materialize.Create(root, node(t, `{"README.md":null}`))
	var ioErr *materialize.IOError
	assert.ErrorAs(t, err, &ioErr)
}

func TestCreateRootIsFile(t *testing.T) {
	root := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(root, nil, 0644))

	err := materialize.Create(root, node(t, `{"a":null}`))
	var ioErr *materialize.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "mkdir", ioErr.Op)
}

func TestCreatePartialStateIsKept(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "b"), nil, 0644))

	err := materialize.Create(root, node(t, `{"a":{},"b":{"c":null},"d":null}`))
	require.Error(t, err)
	assert.DirExists(t, filepath.Join(root, "a"))
	assert.NoFileExists(t, filepath.Join(root, "d"))
}

func TestCreateWithProgressFourItems(t *testing.T) {
	root := t.TempDir()
	var events []materialize.Event
	err := materialize.CreateWithProgress(context.Background(), root,
		node(t, `{"src":{"index.js":null,"lib":{}},"README.md":null}`),
		func(e materialize.Event) { events = append(events, e) })
	require.NoError(t, err)

	require.Len(t, events, 4)
	labels := make([]string, len(events))
	for i, e := range events {
		labels[i] = e.Label
		if i > 0 {
			assert.GreaterOrEqual(t, e.Percent, events[i-1].Percent)
		}
		assert.GreaterOrEqual(t, e.Percent, materialize.ProgressStart)
	}
	assert.Equal(t, []string{"src", "index.js", "lib", "README.md"}, labels)
	assert.Equal(t, []int{45, 60, 75, 90}, []int{events[0].Percent, events[1].Percent, events[2].Percent, events[3].Percent})
	assert.LessOrEqual(t, events[3].Percent, 90)
}

func TestCreateWithProgressFloorsPercent(t *testing.T) {
	var events []materialize.Event
	err := materialize.CreateWithProgress(context.Background(), t.TempDir(),
		node(t, `{"a":null,"b":null,"c":null,"d":null,"e":null,"f":null,"g":null}`),
		func(e materialize.Event) { events = append(events, e) })
	require.NoError(t, err)
	require.Len(t, events, 7)
	// 30 + 1/7*60 = 38.57
	assert.Equal(t, 38, events[0].Percent)
	assert.Equal(t, 90, events[6].Percent)
}

func TestCreateWithProgressCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	root := t.TempDir()

	var events []materialize.Event
	err := materialize.CreateWithProgress(ctx, root, node(t, `{"a":null,"b":null,"c":null}`),
		func(e materialize.Event) {
			events = append(events, e)
			cancel()
		})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Len(t, events, 1)
	assert.FileExists(t, filepath.Join(root, "a"))
	assert.NoFileExists(t, filepath.Join(root, "b"))
}

type mapLookup map[string]*structure.Node

func (m mapLookup) Get(name string) (*structure.Node, bool) {
	n, ok := m[name]
	return n, ok
}

func TestCreateByName(t *testing.T) {
	root := filepath.Join(t.TempDir(), "out")
	presets := mapLookup{"web": node(t, `{"index.html":null}`)}

	err := materialize.CreateByName(context.Background(), presets, "nope", root, nil)
	assert.ErrorIs(t, err, materialize.ErrUnknownPreset)
	assert.NoDirExists(t, root)

	require.NoError(t, materialize.CreateByName(context.Background(), presets, "web", root, nil))
	assert.FileExists(t, filepath.Join(root, "index.html"))
}

func TestPermissionsApplied(t *testing.T) {
	root := t.TempDir()
	err := materialize.Create(root, node(t, `{"run.sh":null}`), materialize.WithFilePerm(0600))
	require.NoError(t, err)
	info, err := os.Stat(filepath.Join(root, "run.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestCheckPath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	assert.Equal(t, materialize.PathEmpty, materialize.CheckPath("  "))
	assert.Equal(t, materialize.PathValid, materialize.CheckPath(dir))
	assert.Equal(t, materialize.PathNotDirectory, materialize.CheckPath(file))
	assert.Equal(t, materialize.PathWillCreate, materialize.CheckPath(filepath.Join(dir, "new")))
	assert.Equal(t, materialize.PathInvalid, materialize.CheckPath(filepath.Join(dir, "x", "y")))

	assert.True(t, materialize.PathWillCreate.Usable())
	assert.False(t, materialize.PathNotDirectory.Usable())
	assert.Equal(t, "Valid directory", materialize.PathValid.Message())
}
