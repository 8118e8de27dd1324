package repository_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/archgate/inspector/repository"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		location := filepath.Join(root, filepath.FromSlash(name))
		if !assert.Nil(t, os.MkdirAll(filepath.Dir(location), 0o755)) {
			t.FailNow()
		}
		if !assert.Nil(t, os.WriteFile(location, []byte(content), 0o644)) {
			t.FailNow()
		}
	}
}

func TestDetector_DetectProject(t *testing.T) {
	var testCases = []struct {
		description      string
		files            map[string]string
		path             string
		expectName       string
		expectType       string
		expectSourceRoot string
		expectRelative   string
	}{
		{
			description: "src layout with pyproject",
			files: map[string]string{
				"pyproject.toml":                      "[build-system]\nrequires = []\n\n[project]\nname = \"vln-carla2\"\nversion = \"0.1.0\"\n",
				"src/vln_carla2/__init__.py":          "",
				"src/vln_carla2/domain/model.py":      "",
				"src/vln_carla2/usecases/__init__.py": "",
			},
			path:             "src/vln_carla2/domain/model.py",
			expectName:       "vln-carla2",
			expectType:       "python",
			expectSourceRoot: "src/vln_carla2",
			expectRelative:   "src/vln_carla2/domain/model.py",
		},
		{
			description: "source root given directly",
			files: map[string]string{
				"setup.cfg":            "[metadata]\nname = gate\n",
				"gate/app/main.py":     "",
				"gate/adapters/cli.py": "",
				"docs/index.md":        "",
			},
			path:             "gate",
			expectName:       "gate",
			expectType:       "python",
			expectSourceRoot: "gate",
			expectRelative:   "gate",
		},
		{
			description: "flat layout with setup.py",
			files: map[string]string{
				"setup.py":        "from setuptools import setup\nsetup(name='flat')\n",
				"domain/value.py": "",
				"usecases/run.py": "",
			},
			path:             ".",
			expectName:       "flat",
			expectType:       "python",
			expectSourceRoot: ".",
			expectRelative:   ".",
		},
	}

	for _, testCase := range testCases {
		root := t.TempDir()
		writeFiles(t, root, testCase.files)
		detector := repository.New("domain", "usecases", "adapters", "infrastructure", "app")
		project, err := detector.DetectProject(filepath.Join(root, filepath.FromSlash(testCase.path)))
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		assert.Equal(t, root, project.RootPath, testCase.description)
		assert.Equal(t, testCase.expectName, project.Name, testCase.description)
		assert.Equal(t, testCase.expectType, project.Type, testCase.description)
		assert.Equal(t, filepath.Join(root, filepath.FromSlash(testCase.expectSourceRoot)), project.SourceRoot, testCase.description)
		assert.Equal(t, testCase.expectRelative, project.RelativePath, testCase.description)
	}
}

func TestDetector_DetectRepository(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		".git/config":     "[core]\n\tbare = false\n[remote \"origin\"]\n\turl = git@example.com:team/gate.git\n",
		"domain/model.py": "",
	})
	detector := repository.New("domain")
	repo, err := detector.DetectRepository(filepath.Join(root, "domain", "model.py"))
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, "git", repo.Kind)
	assert.Equal(t, root, repo.Root)
	assert.Equal(t, "git@example.com:team/gate.git", repo.Origin)
	assert.Equal(t, root, repo.Info.SourceRoot)
}
