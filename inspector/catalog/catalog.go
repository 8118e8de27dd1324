// Package catalog discovers the modules of a source tree.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"github.com/viant/archgate/inspector/info"
	"go.uber.org/zap"
)

// Catalog holds the modules of one source root ordered by identifier
type Catalog struct {
	Root        string // Location the catalog was built from
	RootPackage string // Top-level package name of the root
	Modules     []*info.Module
	index       map[string]int
	fs          afs.Service
}

// Build walks root and maps every source file to a module
func Build(ctx context.Context, root string, opts ...Option) (*Catalog, error) {
	o := newOptions(opts)
	location, err := normalize(root)
	if err != nil {
		return nil, &DiscoveryError{Root: root, Msg: "invalid root", Err: err}
	}
	exists, err := o.fs.Exists(ctx, location)
	if err != nil {
		return nil, &DiscoveryError{Root: root, Msg: "failed to check root", Err: err}
	}
	if !exists {
		return nil, &DiscoveryError{Root: root, Msg: "root does not exist"}
	}
	object, err := o.fs.Object(ctx, location)
	if err != nil {
		return nil, &DiscoveryError{Root: root, Msg: "failed to stat root", Err: err}
	}
	if !object.IsDir() {
		return nil, &DiscoveryError{Root: root, Msg: "root is not a directory"}
	}

	for _, pattern := range o.config.Exclusions {
		if !doublestar.ValidatePattern(pattern) {
			return nil, &DiscoveryError{Root: root, Msg: fmt.Sprintf("invalid exclusion pattern %q", pattern)}
		}
	}

	ret := &Catalog{
		Root:        location,
		RootPackage: o.config.RootPackage,
		index:       map[string]int{},
		fs:          o.fs,
	}
	if ret.RootPackage == "" {
		ret.RootPackage = path.Base(strings.TrimRight(filepath.ToSlash(location), "/"))
	}

	var visitor storage.OnVisit = func(ctx context.Context, baseURL, parent string, fileInfo os.FileInfo, reader io.Reader) (bool, error) {
		relPath := path.Join(parent, fileInfo.Name())
		if fileInfo.IsDir() {
			if excludedDir(o.config.Exclusions, relPath) {
				o.logger.Debug("catalog: skipping directory", zap.String("path", relPath))
				return false, nil
			}
			return true, nil
		}
		if !hasExtension(o.config.Extensions, relPath) || excluded(o.config.Exclusions, relPath) {
			return true, nil
		}
		id, isPackage := info.ModuleID(relPath)
		if id == "" {
			return true, nil
		}
		module := &info.Module{
			ID:        id,
			Path:      relPath,
			URL:       url.Join(baseURL, relPath),
			IsPackage: isPackage,
		}
		idx, ok := ret.index[id]
		if !ok {
			ret.index[id] = len(ret.Modules)
			ret.Modules = append(ret.Modules, module)
			return true, nil
		}
		existing := ret.Modules[idx]
		if !sameStem(existing.Path, relPath) {
			return false, &DiscoveryError{Root: root, Msg: fmt.Sprintf("module %s maps to both %s and %s", id, existing.Path, relPath)}
		}
		if extensionRank(o.config.Extensions, relPath) < extensionRank(o.config.Extensions, existing.Path) {
			ret.Modules[idx] = module
			existing = module
		}
		o.logger.Debug("catalog: keeping preferred extension", zap.String("module", id), zap.String("path", existing.Path))
		return true, nil
	}
	if err = o.fs.Walk(ctx, location, visitor); err != nil {
		var discoveryErr *DiscoveryError
		if errors.As(err, &discoveryErr) {
			return nil, discoveryErr
		}
		return nil, &DiscoveryError{Root: root, Msg: "failed to walk root", Err: err}
	}

	sort.Slice(ret.Modules, func(i, j int) bool {
		return ret.Modules[i].ID < ret.Modules[j].ID
	})
	for i, module := range ret.Modules {
		ret.index[module.ID] = i
	}
	o.logger.Debug("catalog: built",
		zap.String("root", location),
		zap.String("rootPackage", ret.RootPackage),
		zap.Int("modules", len(ret.Modules)))
	return ret, nil
}

// Lookup returns a module by identifier
func (c *Catalog) Lookup(id string) (*info.Module, bool) {
	idx, ok := c.index[id]
	if !ok {
		return nil, false
	}
	return c.Modules[idx], true
}

// Contains returns true if id names a module or a package prefix of one
func (c *Catalog) Contains(id string) bool {
	if _, ok := c.index[id]; ok {
		return true
	}
	prefix := id + "."
	idx := sort.Search(len(c.Modules), func(i int) bool {
		return c.Modules[i].ID >= prefix
	})
	return idx < len(c.Modules) && strings.HasPrefix(c.Modules[idx].ID, prefix)
}

// Len returns number of modules
func (c *Catalog) Len() int {
	return len(c.Modules)
}

// Read returns module source and records its content hash
func (c *Catalog) Read(ctx context.Context, module *info.Module) ([]byte, error) {
	content, err := c.fs.DownloadWithURL(ctx, module.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", module.Path, err)
	}
	if module.Hash, err = info.Hash(content); err != nil {
		return nil, fmt.Errorf("failed to hash %s: %w", module.Path, err)
	}
	return content, nil
}

func normalize(root string) (string, error) {
	if strings.Contains(root, "://") {
		return root, nil
	}
	return filepath.Abs(root)
}

func hasExtension(extensions []string, relPath string) bool {
	ext := path.Ext(relPath)
	for _, candidate := range extensions {
		if ext == candidate {
			return true
		}
	}
	return false
}

// sameStem returns true for files differing only by extension, like a module and its stub
func sameStem(a, b string) bool {
	return strings.TrimSuffix(a, path.Ext(a)) == strings.TrimSuffix(b, path.Ext(b))
}

// extensionRank returns the position of the file extension in the configured extensions
func extensionRank(extensions []string, relPath string) int {
	ext := path.Ext(relPath)
	for i, candidate := range extensions {
		if ext == candidate {
			return i
		}
	}
	return len(extensions)
}

// excluded matches relPath against patterns validated by Build
func excluded(patterns []string, relPath string) bool {
	for _, pattern := range patterns {
		if doublestar.MatchUnvalidated(pattern, relPath) {
			return true
		}
	}
	return false
}

// excludedDir matches a directory as if it held a file, so "dir/**" patterns prune it
func excludedDir(patterns []string, relPath string) bool {
	return excluded(patterns, relPath+"/_")
}
