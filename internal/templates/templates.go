// Package templates loads reusable post drafts from markdown files with
// YAML frontmatter. A template file looks like:
//
//	---
//	description: weekly changelog post
//	link: https://example.com/changelog
//	published: true
//	---
//	This week at {{page}}: {{summary}}
package templates

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// meta is the YAML frontmatter of a template file.
type meta struct {
	Description string `yaml:"description"`
	Link        string `yaml:"link"`
	ImageURL    string `yaml:"image_url"`
	Caption     string `yaml:"caption"`
	Published   *bool  `yaml:"published"`
}

// Template is one loaded post draft.
type Template struct {
	Name        string
	Description string
	Link        string
	ImageURL    string
	Caption     string
	Published   bool
	Body        string
}

// Info is a listing entry for one template on disk.
type Info struct {
	Name        string
	Path        string
	Description string
}

// Loader scans a directory of *.md template files.
type Loader struct {
	dir string
}

// NewLoader creates a Loader rooted at dir (e.g. ~/.pagepulse/templates).
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// List returns all templates in the directory, sorted by name.
// A missing directory yields an empty list.
func (l *Loader) List() []Info {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil
	}
	var out []Info
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".md")
		path := filepath.Join(l.dir, e.Name())
		desc := ""
		if t, err := l.Load(name); err == nil {
			desc = t.Description
		}
		out = append(out, Info{Name: name, Path: path, Description: desc})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Load reads and parses one template by name.
func (l *Loader) Load(name string) (*Template, error) {
	data, err := os.ReadFile(filepath.Join(l.dir, name+".md"))
	if err != nil {
		return nil, fmt.Errorf("templates: load %q: %w", name, err)
	}

	content := string(data)
	var m meta
	body := content
	if strings.HasPrefix(content, "---") {
		rest := content[3:]
		if end := strings.Index(rest, "\n---"); end >= 0 {
			if err := yaml.Unmarshal([]byte(rest[:end]), &m); err != nil {
				return nil, fmt.Errorf("templates: parse %q frontmatter: %w", name, err)
			}
			body = strings.TrimSpace(rest[end+4:])
		}
	}

	published := true
	if m.Published != nil {
		published = *m.Published
	}
	return &Template{
		Name:        name,
		Description: m.Description,
		Link:        m.Link,
		ImageURL:    m.ImageURL,
		Caption:     m.Caption,
		Published:   published,
		Body:        body,
	}, nil
}

// Render substitutes {{key}} placeholders in the template body.
// Unmatched placeholders are left in place so they show up in review.
func (t *Template) Render(vars map[string]string) string {
	out := t.Body
	for k, v := range vars {
		out = strings.ReplaceAll(out, "{{"+k+"}}", v)
	}
	return out
}
