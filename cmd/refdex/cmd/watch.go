package cmd

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/refdex/refdex/internal/parser"
	"github.com/spf13/cobra"
)

// Events for the same file within this window are collapsed into one
// reindex, fired after the burst settles.
const debounceInterval = 100 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Build once, then reindex documents as they change",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		driver, closeCache, err := newDriver(cfg, log)
		if err != nil {
			return err
		}
		defer closeCache()

		if _, err := driver.Build(cmd.Context()); err != nil {
			return err
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		defer watcher.Close()

		err = filepath.WalkDir(cfg.SourceDir, func(path string, entry os.DirEntry, err error) error {
			if err != nil {
				return nil // skip inaccessible paths
			}
			if entry.IsDir() {
				return watcher.Add(path)
			}
			return nil
		})
		if err != nil {
			return err
		}
		log.Info("watching for changes", "dir", cfg.SourceDir)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		// Reindexing runs on this goroutine only; the debouncer just
		// collapses event bursts and hands back settled paths.
		deb := newFileDebouncer(debounceInterval)
		defer deb.Stop()

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				path := event.Name

				// New directories join the watch set.
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(path); err == nil && info.IsDir() {
						watcher.Add(path)
						continue
					}
				}
				if !parser.IsSupportedExtension(path) {
					continue
				}
				deb.Trigger(path)

			case path := <-deb.Ready():
				// The settled state decides: a path that still exists is
				// reindexed, a vanished one is purged. This also covers
				// temp-file-plus-rename saves, where remove and create
				// events land inside one burst.
				if _, err := os.Stat(path); err != nil {
					if err := driver.RemoveDoc(path); err != nil {
						log.Error("purge failed", "path", path, "error", err)
					}
					continue
				}
				log.Info("document changed", "path", path)
				if err := driver.ReindexFile(path); err != nil {
					log.Error("reindex failed", "path", path, "error", err)
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				log.Warn("watch error", "error", err)

			case <-sigCh:
				log.Info("shutting down")
				return nil

			case <-cmd.Context().Done():
				return cmd.Context().Err()
			}
		}
	},
}
