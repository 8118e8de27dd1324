package main

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/viant/archgate/config"
	"github.com/viant/archgate/metrics"
	"go.uber.org/zap"
)

const watchDebounce = 200 * time.Millisecond

func newWatchCmd(c *cli) *cobra.Command {
	flags := &checkFlags{}
	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Re-run the check whenever a source file changes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			root, err := c.sourceRoot(pathArg(args))
			if err != nil {
				return err
			}
			return c.watch(cmd.Context(), cfg, root)
		},
	}
	addCheckFlags(cmd, flags)
	return cmd
}

// watch runs the check, then again after every debounced batch of source changes until ctx is cancelled
func (c *cli) watch(ctx context.Context, cfg *config.Config, root string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err = addDirsRecursive(watcher, root); err != nil {
		return err
	}
	gateMetrics := metrics.New()
	runCheck := func() {
		passed, err := c.check(ctx, cfg, root, gateMetrics)
		if err != nil {
			c.logger.Error("watch: check failed", zap.Error(err))
			return
		}
		c.logger.Info("watch: check completed", zap.Bool("passed", passed))
	}
	runCheck()
	c.logger.Info("watch: started", zap.String("root", root))

	var debounce *time.Timer
	var debounceCh <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			c.logger.Info("watch: stopped")
			return nil
		case <-debounceCh:
			debounceCh = nil
			runCheck()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				if fileInfo, statErr := os.Stat(event.Name); statErr == nil && fileInfo.IsDir() {
					if addErr := addDirsRecursive(watcher, event.Name); addErr != nil {
						c.logger.Warn("watch: add new dir failed", zap.String("path", event.Name), zap.Error(addErr))
					}
				}
			}
			if !isSourceEvent(cfg.Source.Extensions, event) {
				continue
			}
			c.logger.Debug("watch: change", zap.String("path", event.Name), zap.Stringer("op", event.Op))
			if debounce == nil {
				debounce = time.NewTimer(watchDebounce)
			} else {
				debounce.Reset(watchDebounce)
			}
			debounceCh = debounce.C
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.logger.Warn("watch: watcher error", zap.Error(watchErr))
		}
	}
}

func isSourceEvent(extensions []string, event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	ext := filepath.Ext(event.Name)
	for _, candidate := range extensions {
		if ext == candidate {
			return true
		}
	}
	return false
}

func addDirsRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(location string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		if location != root && (strings.HasPrefix(entry.Name(), ".") || entry.Name() == "__pycache__") {
			return filepath.SkipDir
		}
		return watcher.Add(location)
	})
}
