// AngelaMos | 2026
// embed.go

// Package migrations embeds the PostgreSQL schema applied at startup.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

// Tables lists the tables the application needs before it can serve traffic.
var Tables = []string{
	"tenants",
	"users",
	"projects",
	"tasks",
	"audit_logs",
	"refresh_tokens",
}
