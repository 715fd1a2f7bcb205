package pipeline

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

type memFS struct {
	files  map[string][]byte
	writes []string
}

func newMemFS(files map[string]string) *memFS {
	m := &memFS{files: make(map[string][]byte)}
	for path, content := range files {
		m.files[filepath.FromSlash(path)] = []byte(content)
	}
	return m
}

func (m *memFS) ReadFile(path string) ([]byte, error) {
	content, ok := m.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return content, nil
}

func (m *memFS) WriteFile(path string, data []byte) error {
	m.files[path] = append([]byte(nil), data...)
	m.writes = append(m.writes, path)
	return nil
}

func (m *memFS) CopyFile(src, dst string) error {
	content, err := m.ReadFile(src)
	if err != nil {
		return err
	}
	return m.WriteFile(dst, content)
}

func (m *memFS) Remove(path string) error {
	prefix := filepath.Clean(path) + string(filepath.Separator)
	for name := range m.files {
		if name == path || strings.HasPrefix(name, prefix) {
			delete(m.files, name)
		}
	}
	return nil
}

func (m *memFS) ListFiles(root string) ([]string, error) {
	prefix := filepath.Clean(root) + string(filepath.Separator)
	var files []string
	for path := range m.files {
		if strings.HasPrefix(path, prefix) {
			files = append(files, path)
		}
	}
	sort.Strings(files)
	return files, nil
}

func (m *memFS) content(path string) string {
	return string(m.files[filepath.FromSlash(path)])
}
