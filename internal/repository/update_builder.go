package repository

import (
	"fmt"
	"strings"
)

// setBuilder собирает "col = $n" для частичных UPDATE.
type setBuilder struct {
	parts []string
	args  []interface{}
}

func (b *setBuilder) add(column string, value interface{}) {
	b.args = append(b.args, value)
	b.parts = append(b.parts, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

func (b *setBuilder) empty() bool { return len(b.parts) == 0 }

// build возвращает "UPDATE table SET ... WHERE id = $n" и аргументы.
func (b *setBuilder) build(table string, id int64, returning string) (string, []interface{}) {
	args := append(b.args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", table, strings.Join(b.parts, ", "), len(args))
	if returning != "" {
		query += " RETURNING " + returning
	}
	return query, args
}

func itoa(n int) string { return fmt.Sprint(n) }

// escapeLike экранирует спецсимволы шаблона LIKE.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
