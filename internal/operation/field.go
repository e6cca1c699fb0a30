package operation

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/PGijsbers/croissant/internal/structure"
	"github.com/PGijsbers/croissant/internal/table"
)

// ReadField projects one column out of the assembled table, renames it to the
// field's name, applies the source's transforms in order and coerces every
// value to the field's resolved data type.
type ReadField struct {
	base
	field *structure.Field
}

// column is the column the field reads from the assembled table. Fields of
// inline-data record sets have no source and read their own name.
func (r *ReadField) column() string {
	if r.field.Source.IsEmpty() {
		return r.field.Name()
	}
	if r.field.Source.Column == "" {
		return r.field.Name()
	}
	return r.field.Source.Column
}

// Execute produces the single-column table for this field.
func (r *ReadField) Execute(_ context.Context, inputs []Result) (Result, error) {
	if len(inputs) != 1 {
		return nil, fmt.Errorf("read-field for node %q expects one input, got %d", r.field.UID(), len(inputs))
	}
	t, ok := inputs[0].(*table.Table)
	if !ok {
		return nil, fmt.Errorf("read-field for node %q expects a tabular input", r.field.UID())
	}

	column := r.column()
	if !t.HasColumn(column) {
		return nil, fmt.Errorf("column %q does not exist in node %q, existing columns: %v",
			column, r.field.Source.Node, t.Columns())
	}
	out, err := t.Select(column, r.field.Name())
	if err != nil {
		return nil, fmt.Errorf("read-field for node %q: %w", r.field.UID(), err)
	}

	dataType := r.field.DataType()
	out, err = out.Apply(r.field.Name(), func(v any) any {
		return applyTransforms(v, r.field.Source)
	})
	if err != nil {
		return nil, fmt.Errorf("read-field for node %q: %w", r.field.UID(), err)
	}

	rows := out.Rows()
	for i, row := range rows {
		coerced, err := coerceValue(row[r.field.Name()], dataType)
		if err != nil {
			return nil, fmt.Errorf("failed to convert value for field %q: %w", r.field.UID(), err)
		}
		rows[i][r.field.Name()] = coerced
	}
	return out, nil
}

// coerceValue converts a raw cell value to the field's declared data type,
// going through cty so string-to-number and number-to-string conversions
// follow one set of rules.
func coerceValue(value any, dataType string) (any, error) {
	if value == nil {
		return nil, nil
	}
	ctyValue, err := toCty(value)
	if err != nil {
		return nil, err
	}

	switch dataType {
	case structure.DataTypeText, structure.DataTypeURL, structure.DataTypeDate, structure.DataTypeImage, "":
		converted, err := convert.Convert(ctyValue, cty.String)
		if err != nil {
			return nil, fmt.Errorf("cannot convert %v to %s: %w", value, dataType, err)
		}
		return converted.AsString(), nil
	case structure.DataTypeInteger:
		converted, err := convert.Convert(ctyValue, cty.Number)
		if err != nil {
			return nil, fmt.Errorf("cannot convert %v to %s: %w", value, dataType, err)
		}
		bf := converted.AsBigFloat()
		if !bf.IsInt() {
			return nil, fmt.Errorf("cannot convert %v to %s: not an integer", value, dataType)
		}
		i, _ := bf.Int64()
		return i, nil
	case structure.DataTypeFloat:
		converted, err := convert.Convert(ctyValue, cty.Number)
		if err != nil {
			return nil, fmt.Errorf("cannot convert %v to %s: %w", value, dataType, err)
		}
		f, _ := converted.AsBigFloat().Float64()
		return f, nil
	case structure.DataTypeBoolean:
		converted, err := convert.Convert(ctyValue, cty.Bool)
		if err != nil {
			return nil, fmt.Errorf("cannot convert %v to %s: %w", value, dataType, err)
		}
		return converted.True(), nil
	default:
		return nil, fmt.Errorf("unsupported data type %q", dataType)
	}
}

func toCty(value any) (cty.Value, error) {
	switch v := value.(type) {
	case string:
		return cty.StringVal(v), nil
	case bool:
		return cty.BoolVal(v), nil
	case float64:
		return cty.NumberFloatVal(v), nil
	case int:
		return cty.NumberIntVal(int64(v)), nil
	case int64:
		return cty.NumberIntVal(v), nil
	default:
		return cty.NilVal, fmt.Errorf("unsupported value of type %T", value)
	}
}
