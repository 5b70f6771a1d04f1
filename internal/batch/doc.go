// Package batch runs a SQL script of many semicolon-delimited statements
// against one database connection and exports every result set to CSV.
//
// A script is read once. Statements are recovered by splitting on ';' after
// comment lines are removed, and are paired with their "Q<n> · <name>"
// headers by position only: the i-th header names the i-th statement, no
// matter where in the text either one appears. Statements past the last
// header get a synthesized number and name.
//
// Statements run strictly in order on a single pinned connection, so a view
// or temporary table created by one statement is visible to the next. A
// failing statement is recorded and the batch moves on; only failures to read
// the script, prepare the output directory or open the connection abort a
// run. Every run ends by writing _summary.csv, one row per statement.
package batch
