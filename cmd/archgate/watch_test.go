package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/viant/archgate/config"
	"go.uber.org/zap"
)

// syncBuffer guards a buffer written by the watch loop and read by the test
type syncBuffer struct {
	mux    sync.Mutex
	buffer bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mux.Lock()
	defer b.mux.Unlock()
	return b.buffer.Write(p)
}

func (b *syncBuffer) String() string {
	b.mux.Lock()
	defer b.mux.Unlock()
	return b.buffer.String()
}

func TestCli_Watch(t *testing.T) {
	root := filepath.Join(t.TempDir(), "gate")
	writeTree(t, root, map[string]string{"domain/a.py": "import domain.b\n", "domain/b.py": "", "infrastructure/db.py": ""})
	stdout := &syncBuffer{}
	c := &cli{stdout: stdout, stderr: &bytes.Buffer{}, logger: zap.NewNop()}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- c.watch(ctx, config.NewDefaultConfig(), root)
	}()
	reports := func() int {
		return strings.Count(stdout.String(), " modules, ")
	}
	if !assert.Eventually(t, func() bool { return reports() == 1 }, 5*time.Second, 20*time.Millisecond) {
		return
	}
	assert.Contains(t, stdout.String(), "PASSED: 3 modules")

	writeTree(t, root, map[string]string{"domain/extra.py": "import infrastructure.db\n"})
	if !assert.Eventually(t, func() bool { return reports() >= 2 }, 5*time.Second, 20*time.Millisecond) {
		return
	}
	assert.Contains(t, stdout.String(), "domain.extra:1: import of infrastructure.db violates layer:domain")
	assert.Contains(t, stdout.String(), "FAILED: 4 modules")

	cancel()
	select {
	case err := <-done:
		assert.Nil(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestIsSourceEvent(t *testing.T) {
	var testCases = []struct {
		description string
		event       fsnotify.Event
		expect      bool
	}{
		{description: "write py", event: fsnotify.Event{Name: "domain/a.py", Op: fsnotify.Write}, expect: true},
		{description: "create stub", event: fsnotify.Event{Name: "domain/a.pyi", Op: fsnotify.Create}, expect: true},
		{description: "remove py", event: fsnotify.Event{Name: "domain/a.py", Op: fsnotify.Remove}, expect: true},
		{description: "rename py", event: fsnotify.Event{Name: "domain/a.py", Op: fsnotify.Rename}, expect: true},
		{description: "chmod py", event: fsnotify.Event{Name: "domain/a.py", Op: fsnotify.Chmod}},
		{description: "compiled", event: fsnotify.Event{Name: "domain/__pycache__/a.cpython-312.pyc", Op: fsnotify.Create}},
		{description: "text file", event: fsnotify.Event{Name: "README.md", Op: fsnotify.Write}},
		{description: "directory", event: fsnotify.Event{Name: "domain/model", Op: fsnotify.Create}},
	}
	extensions := []string{".py", ".pyi"}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, isSourceEvent(extensions, testCase.event), testCase.description)
	}
}

func TestAddDirsRecursive(t *testing.T) {
	var testCases = []struct {
		description string
		dirs        []string
		expect      []string
	}{
		{
			description: "nested packages",
			dirs:        []string{"domain/model", "usecases/scene/ports"},
			expect:      []string{".", "domain", "domain/model", "usecases", "usecases/scene", "usecases/scene/ports"},
		},
		{
			description: "hidden and cache directories",
			dirs:        []string{"domain/__pycache__", ".git/objects", "usecases/.mypy_cache", "adapters"},
			expect:      []string{".", "adapters", "domain", "usecases"},
		},
	}
	for _, testCase := range testCases {
		root := t.TempDir()
		for _, dir := range testCase.dirs {
			if !assert.Nil(t, os.MkdirAll(filepath.Join(root, filepath.FromSlash(dir)), 0o755), testCase.description) {
				t.FailNow()
			}
		}
		watcher, err := fsnotify.NewWatcher()
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		assert.Nil(t, addDirsRecursive(watcher, root), testCase.description)
		var actual []string
		for _, location := range watcher.WatchList() {
			relative, err := filepath.Rel(root, location)
			assert.Nil(t, err, testCase.description)
			actual = append(actual, filepath.ToSlash(relative))
		}
		sort.Strings(actual)
		assert.Equal(t, testCase.expect, actual, testCase.description)
		assert.Nil(t, watcher.Close(), testCase.description)
	}

	watcher, err := fsnotify.NewWatcher()
	if !assert.Nil(t, err) {
		return
	}
	defer watcher.Close()
	assert.NotNil(t, addDirsRecursive(watcher, filepath.Join(t.TempDir(), "missing")))
}
