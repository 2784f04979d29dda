// Package pdf is the template-editing collaborator: it enumerates the form
// fields a template declares and writes named field values into a copy of
// it. Nothing here knows what the values mean; the trec package decides
// that.
package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Template wraps a fillable PDF form on disk. It holds no open file
// handles; every operation opens, works and closes, so one Template can be
// shared across concurrent generation requests.
type Template struct {
	path        string
	maxFileSize int64
}

// OpenTemplate validates the template file and confirms it declares at
// least one fillable form field. A template without fields cannot be
// filled, so that is an error here rather than a silent no-op later.
func OpenTemplate(path string, maxFileSize int64) (*Template, error) {
	t := &Template{path: path, maxFileSize: maxFileSize}

	if err := t.validateFile(); err != nil {
		return nil, err
	}

	names, err := t.FieldNames()
	if err != nil {
		return nil, fmt.Errorf("failed to read template fields: %w", err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("template has no fillable form fields: %s", path)
	}

	return t, nil
}

// Path returns the template file path.
func (t *Template) Path() string {
	return t.path
}

// validateFile performs the file-level checks before any PDF parsing.
func (t *Template) validateFile() error {
	if t.path == "" {
		return fmt.Errorf("template path cannot be empty")
	}

	fileInfo, err := os.Stat(t.path)
	if os.IsNotExist(err) {
		return fmt.Errorf("template does not exist: %s", t.path)
	}
	if err != nil {
		return fmt.Errorf("cannot access template: %w", err)
	}
	if fileInfo.IsDir() {
		return fmt.Errorf("template path is a directory: %s", t.path)
	}
	if !strings.HasSuffix(strings.ToLower(t.path), ".pdf") {
		return fmt.Errorf("template is not a PDF: %s", t.path)
	}
	if fileInfo.Size() == 0 {
		return fmt.Errorf("template is empty: %s", t.path)
	}
	if t.maxFileSize > 0 && fileInfo.Size() > t.maxFileSize {
		return fmt.Errorf("template too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), t.maxFileSize)
	}

	// Opening with the lightweight reader catches structurally broken
	// files early.
	f, _, err := pdf.Open(t.path)
	if err != nil {
		return fmt.Errorf("invalid PDF file: %w", err)
	}
	defer f.Close()

	return nil
}

// Info summarizes the template for validation reporting.
func (t *Template) Info() (*TemplateInfo, error) {
	fileInfo, err := os.Stat(t.path)
	if err != nil {
		return nil, fmt.Errorf("cannot access template: %w", err)
	}

	f, r, err := pdf.Open(t.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open template: %w", err)
	}
	defer f.Close()

	fields, err := t.Fields()
	if err != nil {
		return nil, err
	}

	return &TemplateInfo{
		Path:       filepath.Clean(t.path),
		Size:       fileInfo.Size(),
		Pages:      r.NumPage(),
		FieldCount: len(fields),
	}, nil
}

// FieldNames returns the fully qualified names of every declared field.
func (t *Template) FieldNames() ([]string, error) {
	fields, err := t.Fields()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names, nil
}

// DeclaredSet returns the declared field names as a lookup set.
func (t *Template) DeclaredSet() (map[string]bool, error) {
	names, err := t.FieldNames()
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set, nil
}
