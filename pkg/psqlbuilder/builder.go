// Package psqlbuilder обертка над squirrel с плейсхолдерами $N для PostgreSQL
// Легаси-хранилище (MySQL) использует squirrel напрямую с плейсхолдерами "?"
package psqlbuilder

import "github.com/Masterminds/squirrel"

var builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Select возвращает SELECT builder с плейсхолдерами $N
func Select(columns ...string) squirrel.SelectBuilder {
	return builder.Select(columns...)
}

// Insert возвращает INSERT builder с плейсхолдерами $N
func Insert(table string) squirrel.InsertBuilder {
	return builder.Insert(table)
}

// Update возвращает UPDATE builder с плейсхолдерами $N
func Update(table string) squirrel.UpdateBuilder {
	return builder.Update(table)
}

// Delete возвращает DELETE builder с плейсхолдерами $N
func Delete(table string) squirrel.DeleteBuilder {
	return builder.Delete(table)
}
