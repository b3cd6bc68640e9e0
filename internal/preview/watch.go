package preview

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/sportsdataverse/sdvsite/internal/logfields"
)

// sourceWatcher wraps fsnotify with recursive directories, single watched
// files and ignored subtrees.
type sourceWatcher struct {
	w      *fsnotify.Watcher
	files  map[string]struct{}
	dirs   []string
	ignore []string
}

func newSourceWatcher(dirs, files, ignore []string) (*sourceWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	sw := &sourceWatcher{w: w, files: map[string]struct{}{}}
	for _, d := range ignore {
		if abs, err := filepath.Abs(d); err == nil {
			sw.ignore = append(sw.ignore, abs)
		}
	}
	for _, d := range dirs {
		abs, err := filepath.Abs(d)
		if err != nil {
			continue
		}
		if st, err := os.Stat(abs); err != nil || !st.IsDir() {
			slog.Debug("Watch directory missing; skipping", logfields.Path(abs))
			continue
		}
		sw.dirs = append(sw.dirs, abs)
		sw.addRecursive(abs)
	}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			continue
		}
		sw.files[abs] = struct{}{}
		if err := w.Add(filepath.Dir(abs)); err != nil {
			slog.Warn("Watch add failed", logfields.Path(abs), logfields.Error(err))
		}
	}
	return sw, nil
}

func (sw *sourceWatcher) addRecursive(root string) {
	_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if sw.ignored(p) || (p != root && strings.HasPrefix(d.Name(), ".")) {
			return filepath.SkipDir
		}
		if err := sw.w.Add(p); err != nil {
			slog.Warn("Watch add failed", logfields.Path(p), logfields.Error(err))
		}
		return nil
	})
}

// relevant reports whether ev should trigger a rebuild, and watches newly
// created directories below a recursive root.
func (sw *sourceWatcher) relevant(ev fsnotify.Event) bool {
	name := filepath.Clean(ev.Name)
	if _, ok := sw.files[name]; ok {
		return true
	}
	if shouldIgnoreEvent(name) || sw.ignored(name) || !sw.underRecursiveRoot(name) {
		return false
	}
	if ev.Has(fsnotify.Create) {
		if st, err := os.Stat(name); err == nil && st.IsDir() {
			sw.addRecursive(name)
		}
	}
	return true
}

func (sw *sourceWatcher) underRecursiveRoot(p string) bool {
	for _, d := range sw.dirs {
		if p == d || strings.HasPrefix(p, d+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (sw *sourceWatcher) ignored(p string) bool {
	for _, d := range sw.ignore {
		if p == d || strings.HasPrefix(p, d+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (sw *sourceWatcher) Close() error { return sw.w.Close() }

// shouldIgnoreEvent filters hidden, editor swap and OS metadata files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"), strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swx"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case base == "Thumbs.db":
		return true
	}
	return false
}
