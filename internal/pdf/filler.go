package pdf

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Fill writes the given field values into a copy of the template at
// outPath. Values whose field name the template does not declare are
// skipped and reported in the stats, never fatal. The template file itself
// is left untouched.
func (t *Template) Fill(values map[string]string, outPath string) (*FillStats, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("no field values to write")
	}

	file, err := os.Open(t.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open template: %w", err)
	}
	defer file.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(file, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to ensure page count: %w", err)
	}

	stats := &FillStats{Requested: len(values)}
	written := make(map[string]bool, len(values))

	roots, err := acroFormFields(ctx)
	if err != nil {
		return nil, err
	}
	setFieldValues(ctx, roots, "", values, written)

	for name := range values {
		if !written[name] {
			stats.Skipped++
			stats.SkippedNames = append(stats.SkippedNames, name)
		}
	}
	stats.Written = len(written)

	if stats.Skipped > 0 {
		log.Printf("Skipped %d field value(s) not declared by template", stats.Skipped)
	}

	if err := markNeedAppearances(ctx); err != nil {
		return nil, err
	}

	if err := writeContext(ctx, outPath); err != nil {
		return nil, err
	}

	return stats, nil
}

// setFieldValues walks the field hierarchy and applies matching values to
// terminal fields.
func setFieldValues(ctx *model.Context, fieldRefs types.Array, prefix string,
	values map[string]string, written map[string]bool,
) {
	for _, ref := range fieldRefs {
		fieldDict, err := ctx.DereferenceDict(ref)
		if err != nil || fieldDict == nil {
			continue
		}

		name := qualifiedName(ctx, fieldDict, prefix)

		kids, terminal := fieldKids(ctx, fieldDict)
		if !terminal {
			setFieldValues(ctx, kids, name, values, written)
			continue
		}

		value, wanted := values[name]
		if !wanted {
			continue
		}

		applyValue(ctx, fieldDict, kids, fieldKind(ctx, fieldDict), value)
		written[name] = true
	}
}

// applyValue sets the V entry of a terminal field. Button fields take a
// name object and mirror it into the appearance state of the field and its
// widget kids; everything else takes a string literal.
func applyValue(ctx *model.Context, fieldDict types.Dict, widgetKids types.Array,
	kind FieldKind, value string,
) {
	switch kind {
	case FieldKindCheckbox, FieldKindRadio:
		state := checkboxState(value)
		fieldDict["V"] = state
		fieldDict["AS"] = state
		for _, kidRef := range widgetKids {
			if kidDict, err := ctx.DereferenceDict(kidRef); err == nil && kidDict != nil {
				kidDict["AS"] = state
			}
		}
	default:
		fieldDict["V"] = types.StringLiteral(value)
	}
}

// checkboxState converts a checkbox value to its appearance state name. The
// mapping layer uses "/Yes" as the checked marker; an empty value unchecks.
func checkboxState(value string) types.Name {
	state := strings.TrimPrefix(value, "/")
	if state == "" {
		state = "Off"
	}
	return types.Name(state)
}

// markNeedAppearances asks viewers to regenerate widget appearances so the
// new values actually render.
func markNeedAppearances(ctx *model.Context) error {
	rootDict, err := ctx.Catalog()
	if err != nil {
		return fmt.Errorf("failed to get catalog: %w", err)
	}
	acroFormObj, found := rootDict.Find("AcroForm")
	if !found {
		return nil
	}
	acroFormDict, err := ctx.DereferenceDict(acroFormObj)
	if err != nil || acroFormDict == nil {
		return nil
	}
	acroFormDict["NeedAppearances"] = types.Boolean(true)
	return nil
}

// writeContext serializes the modified document to outPath, creating the
// parent directory if needed.
func writeContext(ctx *model.Context, outPath string) error {
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	if err := api.WriteContext(ctx, out); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}
