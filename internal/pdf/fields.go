package pdf

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Fields enumerates the template's declared form fields by walking its
// AcroForm field hierarchy.
func (t *Template) Fields() ([]TemplateField, error) {
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

	roots, err := acroFormFields(ctx)
	if err != nil {
		return nil, err
	}

	var fields []TemplateField
	collectFields(ctx, roots, "", &fields)
	return fields, nil
}

// acroFormFields resolves the Fields array of the document's AcroForm
// dictionary. A document without an AcroForm has no fields, which is not an
// error at this layer.
func acroFormFields(ctx *model.Context) (types.Array, error) {
	rootDict, err := ctx.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog: %w", err)
	}

	acroFormObj, found := rootDict.Find("AcroForm")
	if !found {
		return nil, nil
	}
	acroFormDict, err := ctx.DereferenceDict(acroFormObj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference AcroForm: %w", err)
	}
	if acroFormDict == nil {
		return nil, nil
	}

	fieldsObj, found := acroFormDict.Find("Fields")
	if !found {
		return nil, nil
	}
	fieldsArray, err := ctx.DereferenceArray(fieldsObj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference Fields array: %w", err)
	}
	return fieldsArray, nil
}

// collectFields walks a field array, descending through non-terminal nodes
// and appending terminals under their fully qualified names.
func collectFields(ctx *model.Context, fieldRefs types.Array, prefix string, out *[]TemplateField) {
	for _, ref := range fieldRefs {
		fieldDict, err := ctx.DereferenceDict(ref)
		if err != nil || fieldDict == nil {
			continue
		}

		name := qualifiedName(ctx, fieldDict, prefix)

		if kids, terminal := fieldKids(ctx, fieldDict); !terminal {
			collectFields(ctx, kids, name, out)
			continue
		}

		if name == "" {
			continue
		}
		*out = append(*out, TemplateField{Name: name, Kind: fieldKind(ctx, fieldDict)})
	}
}

// qualifiedName extends the parent prefix with this field's partial name
// (T entry), joined with a dot as AcroForm hierarchies are addressed.
func qualifiedName(ctx *model.Context, fieldDict types.Dict, prefix string) string {
	name := prefix
	if nameObj, found := fieldDict.Find("T"); found {
		if partial, err := ctx.DereferenceStringOrHexLiteral(nameObj, model.V10, nil); err == nil && partial != "" {
			if name != "" {
				name += "."
			}
			name += partial
		}
	}
	return name
}

// fieldKids resolves the Kids array and reports whether this node is a
// terminal field. Kids that carry their own T entry are child fields; kids
// without one are widget annotations of a terminal.
func fieldKids(ctx *model.Context, fieldDict types.Dict) (types.Array, bool) {
	kidsObj, found := fieldDict.Find("Kids")
	if !found {
		return nil, true
	}
	kids, err := ctx.DereferenceArray(kidsObj)
	if err != nil || len(kids) == 0 {
		return nil, true
	}

	for _, kidRef := range kids {
		kidDict, err := ctx.DereferenceDict(kidRef)
		if err != nil || kidDict == nil {
			continue
		}
		if _, found := kidDict.Find("T"); found {
			return kids, false
		}
	}
	return kids, true
}

// fieldKind determines the field type from the FT entry, checking the
// parent chain for inherited types.
func fieldKind(ctx *model.Context, fieldDict types.Dict) FieldKind {
	ftObj, found := fieldDict.Find("FT")
	if !found {
		if parentObj, found := fieldDict.Find("Parent"); found {
			if parentDict, err := ctx.DereferenceDict(parentObj); err == nil && parentDict != nil {
				return fieldKind(ctx, parentDict)
			}
		}
		return FieldKindUnknown
	}

	ftName, err := ctx.DereferenceName(ftObj, model.V10, nil)
	if err != nil {
		return FieldKindUnknown
	}

	switch ftName {
	case "Tx":
		return FieldKindText
	case "Btn":
		if flagsObj, found := fieldDict.Find("Ff"); found {
			if flags, err := ctx.DereferenceInteger(flagsObj); err == nil && flags != nil {
				if (*flags & (1 << 15)) != 0 { // Bit 16: Radio
					return FieldKindRadio
				}
			}
		}
		return FieldKindCheckbox
	case "Ch":
		return FieldKindSelect
	default:
		return FieldKindUnknown
	}
}
