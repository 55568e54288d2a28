package template

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"lexdraw/diagram"
)

// Template files read by Load, in order. Later files override earlier names.
const (
	LegalFile    = "legal_templates.json"
	AcademicFile = "academic_templates.json"
)

// ImportedJSONName names an imported JSON template that has no name of its own.
const ImportedJSONName = "Imported JSON Template"

// Store holds templates by name in insertion order.
type Store struct {
	dir   string
	names []string
	items map[string]Template
	log   *slog.Logger
}

// NewStore creates an empty store backed by dir.
func NewStore(dir string, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{dir: dir, items: make(map[string]Template), log: log}
}

// LoadDir creates a store and loads the template files in dir.
func LoadDir(dir string, log *slog.Logger) *Store {
	s := NewStore(dir, log)
	s.Load()
	return s
}

// Dir returns the directory templates are loaded from and saved to.
func (s *Store) Dir() string {
	return s.dir
}

// Load reads the legal then the academic template file, each as JSON or
// YAML. Files that are missing or malformed are skipped. When nothing loads
// the built-in defaults are installed.
func (s *Store) Load() {
	for _, name := range []string{LegalFile, AcademicFile} {
		base := strings.TrimSuffix(name, ".json")
		for _, candidate := range []string{name, base + ".yaml", base + ".yml"} {
			path := filepath.Join(s.dir, candidate)
			entries, err := readTemplateFile(path)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				s.log.Warn("Failed to load template file", "path", path, "error", err)
				continue
			}
			for _, e := range entries {
				s.Put(e.name, e.tpl)
			}
			s.log.Debug("Loaded templates", "path", path, "count", len(entries))
		}
	}

	if len(s.names) == 0 {
		for _, t := range Defaults() {
			s.Put(t.Name, t)
		}
	}
}

// Names returns the template names in order.
func (s *Store) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len returns the number of templates.
func (s *Store) Len() int {
	return len(s.names)
}

// Get returns the named template.
func (s *Store) Get(name string) (Template, bool) {
	t, ok := s.items[name]
	return t, ok
}

// First returns the first template, the one selected by default.
func (s *Store) First() (Template, bool) {
	if len(s.names) == 0 {
		return Template{}, false
	}
	return s.items[s.names[0]], true
}

// Put adds or replaces a template in memory. New names are appended.
func (s *Store) Put(name string, t Template) {
	if _, exists := s.items[name]; !exists {
		s.names = append(s.names, name)
	}
	s.items[name] = t
}

// Save upserts the template into the legal template file and the store.
// The directory is created if needed.
func (s *Store) Save(name string, t Template) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("save template %q: %w", name, err)
	}
	path := filepath.Join(s.dir, LegalFile)

	entries, err := readTemplateFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("save template %q: %w", name, err)
	}

	replaced := false
	for i := range entries {
		if entries[i].name == name {
			entries[i].tpl = t
			replaced = true
		}
	}
	if !replaced {
		entries = append(entries, entry{name: name, tpl: t})
	}

	data, err := marshalEntries(entries)
	if err != nil {
		return fmt.Errorf("save template %q: %w", name, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save template %q: %w", name, err)
	}

	s.Put(name, t)
	return nil
}

// Import reads a template file and adds it to the store. It returns the
// name the template was stored under.
func (s *Store) Import(path string) (string, error) {
	name, t, err := ImportFile(path)
	if err != nil {
		return "", err
	}
	s.Put(name, t)
	s.log.Info("Imported template", "name", name, "type", t.GetType(), "path", path)
	return name, nil
}

// Export writes the named template to path.
func (s *Store) Export(path, name string) error {
	t, ok := s.Get(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return ExportFile(path, name, t)
}

// ImportFile reads a single template. A JSON file holds one template object
// whose "name" names it. An image file becomes an image template named
// after the file, with the picture embedded as base64.
func ImportFile(path string) (string, Template, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", Template{}, fmt.Errorf("import template: %w", err)
		}
		var t Template
		if err := json.Unmarshal(data, &t); err != nil {
			return "", Template{}, fmt.Errorf("import template %s: %w", path, err)
		}
		name := t.Name
		if name == "" {
			name = ImportedJSONName
		}
		return name, t, nil

	case IsImageExtension(ext):
		data, err := os.ReadFile(path)
		if err != nil {
			return "", Template{}, fmt.Errorf("import template: %w", err)
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		return name, Template{
			Name:        name,
			Type:        diagram.TypeImageTemplate,
			Description: "Imported from image: " + name,
			Layout:      "image",
			ImagePath:   path,
			ImageBase64: base64.StdEncoding.EncodeToString(data),
			ImageFormat: strings.TrimPrefix(ext, "."),
			DefaultText: "Diagram based on image template " + name,
		}, nil

	default:
		return "", Template{}, fmt.Errorf("%w: %s", ErrUnsupportedTemplate, ext)
	}
}

// ExportFile writes t, carrying name, to path as indented JSON, or as YAML
// for .yaml and .yml paths.
func ExportFile(path, name string, t Template) error {
	t.Name = name

	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(t)
	default:
		data, err = marshalJSON(t, "")
	}
	if err != nil {
		return fmt.Errorf("export template %q: %w", name, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("export template %q: %w", name, err)
	}
	return nil
}

type entry struct {
	name string
	tpl  Template
}

// readTemplateFile reads a name-to-template mapping, keeping the file's key
// order. JSON is read through the YAML parser, which accepts it unchanged.
func readTemplateFile(path string) ([]entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected a mapping of template names, got %s", kindName(root.Kind))
	}

	entries := make([]entry, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		var t Template
		if err := root.Content[i+1].Decode(&t); err != nil {
			return nil, fmt.Errorf("template %q: %w", root.Content[i].Value, err)
		}
		entries = append(entries, entry{name: root.Content[i].Value, tpl: t})
	}
	return entries, nil
}

// marshalEntries writes entries as a JSON object in order.
func marshalEntries(entries []entry) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, e := range entries {
		if i > 0 {
			buf.WriteString(",")
		}
		key, err := marshalJSON(e.name, "")
		if err != nil {
			return nil, err
		}
		value, err := marshalJSON(e.tpl, "  ")
		if err != nil {
			return nil, err
		}
		buf.WriteString("\n  ")
		buf.Write(bytes.TrimSpace(key))
		buf.WriteString(": ")
		buf.Write(bytes.TrimSpace(value))
	}
	buf.WriteString("\n}\n")
	return buf.Bytes(), nil
}

// marshalJSON encodes v indented, leaving non-ASCII and HTML characters as is.
func marshalJSON(v any, prefix string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent(prefix, "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "a list"
	case yaml.ScalarNode:
		return "a scalar"
	default:
		return "a document"
	}
}
