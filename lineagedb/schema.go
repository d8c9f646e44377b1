package lineagedb

// The three fixed, node-independent tables of spec §6. Per-collection and
// per-node-lineage tables are dynamically named ({node}_{collection},
// {node}_lineage) and so cannot be expressed as sqly-tagged structs; they
// are created and written with raw SQL in sql.go.

// NodeRow is the Nodes table: one row per node, written once by Init.
type NodeRow struct {
	ID                  int64  `sqly:"pkey,autoinc"`
	Name                string `sqly:"unique"`
	Address             string
	PythonLineageScript string
}

// CollectionRow is the Collections table: one row per (node, collection).
type CollectionRow struct {
	ID                  int64 `sqly:"pkey,autoinc"`
	NodeID              int64 `sqly:"uniqueWith(CollectionName)"`
	CollectionName      string
	CollectionType      string
	ColumnNames         string // comma-joined; spec's text[] has no sqlite-native type
	LineageType         string
	PythonLineageMethod string
}

// RuleRow is the Rules table: one row per (node, rule_number).
type RuleRow struct {
	ID          int64 `sqly:"pkey,autoinc"`
	NodeID      int64 `sqly:"uniqueWith(RuleNumber)"`
	RuleNumber  int
	IsBootstrap bool
	Rule        string
}

var schemaPrototypes = []any{NodeRow{}, CollectionRow{}, RuleRow{}}
