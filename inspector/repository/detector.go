package repository

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/viant/afs"
)

var (
	pyProjectNameRegex = regexp.MustCompile(`\[(?:project|tool\.poetry)\][^\[]*?\bname\s*=\s*["']([^"']+)["']`)
	setupNameRegex     = regexp.MustCompile(`name\s*=\s*["']([^"']+)["']`)
	setupCfgNameRegex  = regexp.MustCompile(`(?m)^name\s*=\s*["']?([^"'\s]+)`)
)

// Detector identifies project root folders and provides project-related information
type Detector struct {
	// Project root marker files/directories
	markers []string
	// Top-level package directories identifying a source root
	layers []string
	fs     afs.Service
}

// New creates a new project detector recognising source roots by the given layer directories
func New(layers ...string) *Detector {
	return &Detector{
		markers: []string{
			"pyproject.toml",
			"setup.cfg",
			"setup.py",
			"requirements.txt",
			".git",
		},
		layers: layers,
		fs:     afs.New(),
	}
}

// DetectProject identifies the project root for the given path and returns project info
func (d *Detector) DetectProject(filePath string) (*Project, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, err
	}
	startDir := absPath
	fileInfo, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	if !fileInfo.IsDir() {
		startDir = filepath.Dir(absPath)
	}

	rootPath, projectType := d.findProjectRoot(startDir)
	project := &Project{
		Type:     "unknown",
		RootPath: startDir,
	}
	if rootPath != "" {
		project.RootPath = rootPath
		project.Type = projectType
		project.Name = d.extractProjectName(rootPath, projectType)
	}
	relPath, err := filepath.Rel(project.RootPath, absPath)
	if err != nil {
		relPath = filepath.Base(absPath)
	}
	project.RelativePath = filepath.ToSlash(relPath)
	if d.IsSourceRoot(startDir) {
		project.SourceRoot = startDir
	} else {
		project.SourceRoot = d.FindSourceRoot(project.RootPath, project.Name)
	}
	return project, nil
}

// DetectRepository identifies the repository containing the given path
func (d *Detector) DetectRepository(filePath string) (*Repository, error) {
	project, err := d.DetectProject(filePath)
	if err != nil {
		return nil, err
	}
	if gitRoot := findGitRoot(project.RootPath); gitRoot != "" {
		return &Repository{Kind: "git", Root: gitRoot, Origin: extractGitOrigin(gitRoot), Info: project}, nil
	}
	return &Repository{Kind: project.Type, Root: project.RootPath, Info: project}, nil
}

// IsSourceRoot reports whether dir directly contains at least one layer package directory
func (d *Detector) IsSourceRoot(dir string) bool {
	for _, layer := range d.layers {
		if fileInfo, err := os.Stat(filepath.Join(dir, layer)); err == nil && fileInfo.IsDir() {
			return true
		}
	}
	return false
}

// FindSourceRoot locates the source root under a project root.
// Candidates: the project root, src/<name>, <name>, then any src/* or top-level directory.
func (d *Detector) FindSourceRoot(projectRoot string, name string) string {
	var candidates []string
	candidates = append(candidates, projectRoot)
	if name != "" {
		pkg := strings.ReplaceAll(name, "-", "_")
		candidates = append(candidates, filepath.Join(projectRoot, "src", pkg), filepath.Join(projectRoot, pkg))
	}
	candidates = append(candidates, subDirectories(filepath.Join(projectRoot, "src"))...)
	candidates = append(candidates, subDirectories(projectRoot)...)
	for _, candidate := range candidates {
		if d.IsSourceRoot(candidate) {
			return candidate
		}
	}
	return ""
}

func subDirectories(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var ret []string
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		ret = append(ret, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(ret)
	return ret
}

// findProjectRoot searches up from the start directory for project markers
func (d *Detector) findProjectRoot(startDir string) (string, string) {
	dir := startDir
	for {
		for _, marker := range d.markers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, determineProjectType(marker)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ""
		}
		dir = parent
	}
}

func determineProjectType(marker string) string {
	if marker == ".git" {
		return "git"
	}
	return "python"
}

func findGitRoot(startDir string) string {
	dir := startDir
	for {
		if fileInfo, err := os.Stat(filepath.Join(dir, ".git")); err == nil && fileInfo.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// extractProjectName attempts to extract a project name from configuration files
func (d *Detector) extractProjectName(rootPath string, projectType string) string {
	if projectType == "python" {
		for _, candidate := range []struct {
			file  string
			regex *regexp.Regexp
		}{
			{"pyproject.toml", pyProjectNameRegex},
			{"setup.cfg", setupCfgNameRegex},
			{"setup.py", setupNameRegex},
		} {
			if name := d.matchFile(filepath.Join(rootPath, candidate.file), candidate.regex); name != "" {
				return name
			}
		}
	}
	return filepath.Base(rootPath)
}

func (d *Detector) matchFile(location string, regex *regexp.Regexp) string {
	content, err := d.fs.DownloadWithURL(context.Background(), location)
	if err != nil || len(content) == 0 {
		return ""
	}
	matches := regex.FindSubmatch(content)
	if len(matches) < 2 {
		return ""
	}
	return string(matches[1])
}

// extractGitOrigin extracts the origin URL from git config
func extractGitOrigin(gitRoot string) string {
	file, err := os.Open(filepath.Join(gitRoot, ".git", "config"))
	if err != nil {
		return ""
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	foundRemote := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.Contains(line, "[remote \"origin\"]") {
			foundRemote = true
			continue
		}
		if foundRemote && strings.HasPrefix(line, "url = ") {
			return strings.TrimPrefix(line, "url = ")
		}
	}
	return ""
}
