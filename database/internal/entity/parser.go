package entity

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/digit-health/dtoquery/database/internal/sqllex"
	dbtypes "github.com/digit-health/dtoquery/database/types"
	"github.com/digit-health/dtoquery/internal/reflection"
)

const (
	dbTagName     = "db"
	tableTagName  = "table"
	identityOpt   = "identity"
	blankField    = "_"
	ignoredColumn = "-"
)

var (
	tablerType = reflect.TypeOf((*dbtypes.Tabler)(nil)).Elem()

	// identifierPattern restricts names to what can follow ':' in a named placeholder
	identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// oracleQuoteIdentifier applies Oracle-specific quoting rules to a column name.
// Reserved words are quoted with double quotes.
func oracleQuoteIdentifier(column string) string {
	if sqllex.IsOracleReservedWord(column) {
		return `"` + column + `"`
	}
	return column
}

// applyVendorQuoting applies vendor-specific column name quoting.
func applyVendorQuoting(vendor, column string) string {
	switch vendor {
	case dbtypes.Oracle:
		return oracleQuoteIdentifier(column)
	default:
		// PostgreSQL and unknown vendors use names verbatim
		return column
	}
}

// parseStruct extracts entity metadata from a struct type using reflection.
// It resolves the table binding, processes `db:"name,identity"` tags, classifies
// every field and applies vendor-specific column quoting.
//
// Returns an error if:
//   - t is not a struct type
//   - A field or table name contains characters that cannot be used in SQL
//   - Two fields resolve to the same placeholder name
func parseStruct(vendor string, t reflect.Type) (*Metadata, error) {
	if t.Kind() != reflect.Struct {
		return nil, dbtypes.NewError(dbtypes.KindInvalidEntity, t.String(),
			fmt.Sprintf("expected a struct or pointer to struct, got %s", t.Kind()))
	}

	metadata := &Metadata{
		TypeName:     reflection.GetTypeNameShort(t),
		Type:         t,
		Fields:       make([]dbtypes.Field, 0, t.NumField()),
		fieldsByName: make(map[string]*dbtypes.Field, t.NumField()),
	}

	table, err := resolveTable(t)
	if err != nil {
		return nil, err
	}
	metadata.Table = table

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)

		// Skip unexported fields, including the blank table marker
		if !sf.IsExported() {
			continue
		}

		name, identity, skip := parseDBTag(sf)
		if skip {
			continue
		}

		if err := validateName(name, metadata.TypeName, sf.Name); err != nil {
			return nil, err
		}

		if existing, dup := metadata.fieldsByName[name]; dup {
			return nil, dbtypes.NewFieldError(dbtypes.KindInvalidFieldName, metadata.TypeName, sf.Name,
				fmt.Sprintf("placeholder name %q already used by field %s (fields: %s)",
					name, existing.GoName, metadata.availableFieldsForError()), nil)
		}

		// Fields has capacity NumField, so the pointers stored below stay valid
		metadata.Fields = append(metadata.Fields, dbtypes.Field{
			GoName:   sf.Name,
			Name:     name,
			Column:   applyVendorQuoting(vendor, name),
			Index:    i,
			Type:     sf.Type,
			Kind:     dbtypes.Classify(sf.Type),
			Identity: identity,
		})
		metadata.fieldsByName[name] = &metadata.Fields[len(metadata.Fields)-1]
	}

	return metadata, nil
}

// resolveTable returns the table bound to t through the Tabler interface or a
// `table` tag on a blank marker field. An unbound type returns "".
func resolveTable(t reflect.Type) (string, error) {
	var table string

	switch {
	case t.Implements(tablerType):
		table = reflect.Zero(t).Interface().(dbtypes.Tabler).TableName()
	case reflect.PointerTo(t).Implements(tablerType):
		table = reflect.New(t).Interface().(dbtypes.Tabler).TableName()
	default:
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if sf.Name != blankField {
				continue
			}
			if tag, ok := sf.Tag.Lookup(tableTagName); ok {
				table = tag
				break
			}
		}
	}

	table = strings.TrimSpace(table)
	if table == "" {
		return "", nil
	}

	if err := validateTableName(table, reflection.GetTypeNameShort(t)); err != nil {
		return "", err
	}
	return table, nil
}

// parseDBTag extracts the placeholder name and identity option from a field.
// skip is true for `db:"-"`.
func parseDBTag(sf reflect.StructField) (name string, identity, skip bool) {
	tag, _ := sf.Tag.Lookup(dbTagName)
	parts := strings.Split(tag, ",")

	name = strings.TrimSpace(parts[0])
	if name == ignoredColumn && len(parts) == 1 {
		return "", false, true
	}

	for _, opt := range parts[1:] {
		if strings.TrimSpace(opt) == identityOpt {
			identity = true
		}
	}

	if name == "" {
		name = defaultName(sf.Name)
	}
	return name, identity, false
}

// validateName checks that a field name can be used both as a column and as a named placeholder.
func validateName(name, structName, fieldName string) error {
	if err := checkDangerous(name); err != nil {
		return dbtypes.NewFieldError(dbtypes.KindInvalidFieldName, structName, fieldName,
			fmt.Sprintf("invalid db tag %q", name), err)
	}

	if !identifierPattern.MatchString(name) {
		return dbtypes.NewFieldError(dbtypes.KindInvalidFieldName, structName, fieldName,
			fmt.Sprintf("invalid db tag %q: must be a plain identifier (vendor-specific quoting is applied automatically)", name), nil)
	}
	return nil
}

// validateTableName allows schema-qualified names but rejects SQL injection patterns.
func validateTableName(table, structName string) error {
	if err := checkDangerous(table); err != nil {
		return dbtypes.NewFieldError(dbtypes.KindInvalidEntity, structName, "",
			fmt.Sprintf("invalid table name %q", table), err)
	}
	for _, part := range strings.Split(table, ".") {
		if !identifierPattern.MatchString(part) {
			return dbtypes.NewError(dbtypes.KindInvalidEntity, structName,
				fmt.Sprintf("invalid table name %q", table))
		}
	}
	return nil
}

// checkDangerous rejects dangerous SQL characters that could indicate SQL injection attempts.
func checkDangerous(s string) error {
	dangerous := []string{";", "--", "/*", "*/", `"`, "'"}
	for _, d := range dangerous {
		if strings.Contains(s, d) {
			return fmt.Errorf("contains dangerous SQL characters %q", d)
		}
	}
	return nil
}
