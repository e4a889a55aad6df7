package repository

import (
	"fmt"
	"strings"

	"github.com/magabrotheeeer/bdd-service/internal/lib/patch"
)

// buildUpdate собирает UPDATE по набору изменений. Колонки берутся только
// из списков разрешённых полей patch, поэтому подставляются в текст запроса.
// touch добавляет updated_at = NOW().
func buildUpdate(table, keyColumn string, key any, set patch.Set, touch bool, returning string) (string, []any) {
	columns := set.Columns()
	assignments := make([]string, 0, len(columns)+1)
	args := make([]any, 0, len(columns)+1)
	for i, c := range columns {
		assignments = append(assignments, fmt.Sprintf("%s = $%d", c, i+1))
		args = append(args, set.Values()[i])
	}
	if touch {
		assignments = append(assignments, "updated_at = NOW()")
	}
	args = append(args, key)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d RETURNING %s",
		table, strings.Join(assignments, ", "), keyColumn, len(args), returning)
	return query, args
}
