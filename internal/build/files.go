package build

import (
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// pageFile maps a site route (before base URL resolution) to its index.html
// below root.
func pageFile(root, route string) string {
	rel := strings.Trim(route, "/")
	if rel == "" {
		return filepath.Join(root, "index.html")
	}
	return filepath.Join(root, filepath.FromSlash(rel), "index.html")
}

// writeFile creates parent directories and writes data.
func writeFile(name string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(name), 0o750); err != nil {
		return err
	}
	return os.WriteFile(name, data, 0o644) //nolint:gosec // public site artifact
}

// copyFile copies src to dst, creating dst's parent directories.
func copyFile(src, dst string) error {
	in, err := os.Open(src) //nolint:gosec // path from site configuration
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return err
	}
	out, err := os.Create(dst) //nolint:gosec // path below the output directory
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// copyTree copies every regular file below src into dst and returns how many
// files were copied. A missing src copies nothing.
func copyTree(src, dst string) (int, error) {
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return 0, nil
	}
	n := 0
	err := filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !d.Type().IsRegular() {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		n++
		return copyFile(p, filepath.Join(dst, rel))
	})
	return n, err
}

// siteFiles lists every file below root as slash paths relative to root.
func siteFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	return files, err
}

// servedPath is the route a browser uses for a file below the site root:
// "docs/intro/index.html" is served at "/docs/intro/".
func servedPath(rel string) string {
	if path.Base(rel) == "index.html" {
		dir := path.Dir(rel)
		if dir == "." {
			return "/"
		}
		return "/" + dir + "/"
	}
	return "/" + rel
}
