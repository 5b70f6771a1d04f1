// Package queries embeds the default analysis script that trendsql init
// scaffolds into new projects.
package queries

import _ "embed"

// Analysis is the default query battery.
//
//go:embed analysis.sql
var Analysis string
