// Package migrations holds the review store schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
