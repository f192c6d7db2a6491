package ingest

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LoadDocuments reads every markdown and plaintext file under dir, in
// stable name order so section ids are reproducible between runs.
func LoadDocuments(dir string) ([]Document, error) {
	var paths []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".md", ".markdown", ".txt":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	docs := make([]Document, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		content := string(data)
		ext := strings.ToLower(filepath.Ext(path))
		markdown := ext == ".md" || ext == ".markdown"
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			rel = path
		}
		docs = append(docs, Document{
			Title:    documentTitle(content, path, markdown),
			Link:     filepath.ToSlash(rel),
			Content:  content,
			Markdown: markdown,
		})
	}
	return docs, nil
}

// documentTitle prefers the first level-one heading of a markdown file and
// falls back to the file name.
func documentTitle(content, path string, markdown bool) string {
	if markdown {
		for _, line := range strings.Split(content, "\n") {
			trimmed := strings.TrimSpace(line)
			if strings.HasPrefix(trimmed, "# ") {
				return strings.TrimSpace(strings.TrimPrefix(trimmed, "# "))
			}
		}
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
