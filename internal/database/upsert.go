package database

import "strings"

// insertClause builds "INSERT INTO t (k..., c...) VALUES (?, ...)"
func insertClause(table string, keys, columns []string) string {
	all := append(append([]string{}, keys...), columns...)
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(all)), ", ")
	return "INSERT INTO " + table + " (" + strings.Join(all, ", ") + ") VALUES (" + marks + ")"
}

// onConflictUpsert is the ON CONFLICT form shared by SQLite and PostgreSQL
func onConflictUpsert(table string, keys, columns []string) string {
	sets := make([]string, len(columns))
	for i, c := range columns {
		sets[i] = c + " = excluded." + c
	}
	return insertClause(table, keys, columns) +
		" ON CONFLICT (" + strings.Join(keys, ", ") + ") DO UPDATE SET " + strings.Join(sets, ", ")
}
