// Package sql embeds the schema migrations and statements used by the
// findings store.
package sql

import "embed"

// Migrations holds the schema DDL, applied in filename order.
//
//go:embed migrations/*.sql
var Migrations embed.FS

//go:embed queries/insert_run.sql
var InsertRun string

//go:embed queries/insert_finding.sql
var InsertFinding string

//go:embed queries/finish_run.sql
var FinishRun string
