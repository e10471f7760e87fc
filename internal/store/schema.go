package store

import (
	"context"
	"fmt"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	sqlschema "entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/abhisek/ethiq/ent/schema"
)

const (
	tableEvaluations = "evaluations"
	tableLLMRequests = "llm_requests"
)

// entTables builds the migration tables from the ent schema definitions.
func entTables() ([]*sqlschema.Table, error) {
	var tables []*sqlschema.Table
	for _, def := range []ent.Interface{entschema.Evaluation{}, entschema.LLMRequest{}} {
		t, err := tableFromEnt(def)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func tableFromEnt(def ent.Interface) (*sqlschema.Table, error) {
	name := tableName(def)
	if name == "" {
		return nil, fmt.Errorf("ent schema %T has no table annotation", def)
	}
	t := sqlschema.NewTable(name)

	fields := def.Fields()
	hasID := false
	for _, f := range fields {
		if f.Descriptor().Name == "id" {
			hasID = true
			break
		}
	}
	if !hasID {
		t.AddPrimary(&sqlschema.Column{Name: "id", Type: field.TypeInt, Increment: true})
	}

	for _, f := range fields {
		d := f.Descriptor()
		if d.Err != nil {
			return nil, fmt.Errorf("%s.%s: %w", name, d.Name, d.Err)
		}
		col := &sqlschema.Column{
			Name:       d.Name,
			Type:       d.Info.Type,
			Size:       int64(d.Size),
			Unique:     d.Unique,
			Nullable:   d.Optional,
			Default:    d.Default,
			SchemaType: d.SchemaType,
			Comment:    d.Comment,
		}
		if d.Name == "id" {
			col.Default = nil
			t.AddPrimary(col)
			continue
		}
		t.AddColumn(col)
	}

	for _, idx := range def.Indexes() {
		d := idx.Descriptor()
		for _, fname := range d.Fields {
			if _, ok := t.Column(fname); !ok {
				return nil, fmt.Errorf("%s: index on unknown column %q", name, fname)
			}
		}
		iname := d.StorageKey
		if iname == "" {
			iname = name + "_" + strings.Join(d.Fields, "_")
		}
		t.AddIndex(iname, d.Unique, d.Fields)
	}
	return t, nil
}

func tableName(def ent.Interface) string {
	for _, a := range def.Annotations() {
		switch a := a.(type) {
		case entsql.Annotation:
			return a.Table
		case *entsql.Annotation:
			return a.Table
		}
	}
	return ""
}

// migrate creates missing tables, columns and indexes. It is safe to run on
// every start.
func (s *Store) migrate(ctx context.Context) error {
	tables, err := entTables()
	if err != nil {
		return err
	}
	m, err := sqlschema.NewMigrate(s.drv, sqlschema.WithForeignKeys(false))
	if err != nil {
		return err
	}
	return m.Create(ctx, tables...)
}
