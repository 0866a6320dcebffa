package querybuilder

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

func InsertModel(table string, model any, suffix string) (string, []any, error) {
	cols, vals, err := columnsAndValuesFromModel(model)
	if err != nil {
		return "", nil, err
	}
	return InsertInto(table).
		Columns(cols...).
		Values(vals...).
		Suffix(suffix).
		ToSQL()
}

// UpsertModel inserts model and, on a conflict over the key columns, overwrites every
// other column except those listed in preserve (typically created_at).
func UpsertModel(table string, model any, conflict, preserve []string, returning string) (string, []any, error) {
	cols, vals, err := columnsAndValuesFromModel(model)
	if err != nil {
		return "", nil, err
	}
	return InsertInto(table).
		Columns(cols...).
		Values(vals...).
		Suffix(upsertSuffix(cols, conflict, preserve, returning)).
		ToSQL()
}

// UpsertModels is the multi-row form of UpsertModel. All models must share one type.
func UpsertModels[T any](table string, models []T, conflict, preserve []string) (string, []any, error) {
	if len(models) == 0 {
		return "", nil, fmt.Errorf("upsert models are required")
	}
	builder := InsertInto(table)
	var cols []string
	for i, model := range models {
		rowCols, vals, err := columnsAndValuesFromModel(model)
		if err != nil {
			return "", nil, fmt.Errorf("model %d: %w", i, err)
		}
		if cols == nil {
			cols = rowCols
			builder.Columns(cols...)
		}
		builder.Values(vals...)
	}
	return builder.Suffix(upsertSuffix(cols, conflict, preserve, "")).ToSQL()
}

func upsertSuffix(cols, conflict, preserve []string, returning string) string {
	update := make([]string, 0, len(cols))
	for _, col := range cols {
		if slices.Contains(conflict, col) || slices.Contains(preserve, col) {
			continue
		}
		update = append(update, col)
	}
	suffix := OnConflictUpdate(conflict, update)
	if returning = strings.TrimSpace(returning); returning != "" {
		suffix += " RETURNING " + returning
	}
	return suffix
}

func columnsAndValuesFromModel(model any) ([]string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("model must be struct")
	}

	typ := value.Type()
	cols := make([]string, 0, typ.NumField())
	vals := make([]any, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.PkgPath != "" {
			continue
		}
		tag := strings.TrimSpace(field.Tag.Get("db"))
		if tag == "" || tag == "-" {
			continue
		}
		parts := strings.Split(tag, ",")
		col := strings.TrimSpace(parts[0])
		if col == "" || col == "-" {
			continue
		}
		// generated columns are read back but never written
		if slices.Contains(parts[1:], "readonly") {
			continue
		}
		cols = append(cols, col)
		vals = append(vals, value.Field(i).Interface())
	}

	if len(cols) == 0 {
		return nil, nil, fmt.Errorf("model has no db columns")
	}
	return cols, vals, nil
}
