package formschema

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formcond/pkg/model"
)

// LoadFS walks the provided filesystem and parses JSON/YAML form definition
// files. When fsys is nil or no schema files are present, the returned catalog
// is empty. Conditions are validated strictly here: a condition node matching
// no known variant is a load error, not a silently hidden field.
func LoadFS(fsys fs.FS) (*Catalog, error) {
	catalog := &Catalog{forms: make(map[string]model.FormModel)}
	if fsys == nil {
		return catalog, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isSchemaFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("formschema: read %s: %w", path, err)
		}
		return catalog.merge(data, path)
	})
	if err != nil {
		return nil, err
	}

	return catalog, nil
}

// LoadBytes parses a single JSON or YAML document. The source name is only
// used in error messages.
func LoadBytes(data []byte, source string) (*Catalog, error) {
	catalog := &Catalog{forms: make(map[string]model.FormModel)}
	if err := catalog.merge(data, source); err != nil {
		return nil, err
	}
	return catalog, nil
}

type documentFile struct {
	Forms map[string]formFile `json:"forms" yaml:"forms"`
}

type formFile struct {
	Title       string            `json:"title" yaml:"title"`
	Description string            `json:"description" yaml:"description"`
	Fields      []model.Field     `json:"fields" yaml:"fields"`
	Metadata    map[string]string `json:"metadata" yaml:"metadata"`
}

func (c *Catalog) merge(data []byte, source string) error {
	doc, err := parseDocument(data, source)
	if err != nil {
		return err
	}

	for formID, raw := range doc.Forms {
		id := strings.TrimSpace(formID)
		if id == "" {
			return fmt.Errorf("formschema: file %s defines an empty form id", source)
		}
		if _, exists := c.forms[id]; exists {
			return fmt.Errorf("formschema: duplicate form %q (file %s)", id, source)
		}

		form := model.FormModel{
			ID:          id,
			Title:       raw.Title,
			Description: raw.Description,
			Fields:      raw.Fields,
			Metadata:    raw.Metadata,
		}
		if err := model.Validate(&form); err != nil {
			return fmt.Errorf("formschema: form %q (file %s): %w", id, source, err)
		}
		c.forms[id] = form
	}

	return nil
}

func parseDocument(data []byte, source string) (documentFile, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("formschema: file %s is empty", source)
	}

	var doc documentFile
	if jsonErr := json.Unmarshal(data, &doc); jsonErr == nil {
		return doc, nil
	} else if looksLikeJSON(data) {
		// A JSON document that fails to parse should report its real error
		// instead of a YAML guess.
		return documentFile{}, fmt.Errorf("formschema: parse %s: %w", source, jsonErr)
	}

	doc = documentFile{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return documentFile{}, fmt.Errorf("formschema: parse %s: %w", source, err)
	}
	return doc, nil
}

func looksLikeJSON(data []byte) bool {
	trimmed := strings.TrimSpace(string(data))
	return strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")
}

func isSchemaFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
