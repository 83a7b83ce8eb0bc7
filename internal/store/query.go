package store

import (
	"fmt"
	"strings"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

const baseTaskLogsSelect = `SELECT ` + taskColumns + ` FROM task_logs`

const countTaskLogsSelect = "SELECT COUNT(*) FROM task_logs"

// normalizedLimit clamps a caller-supplied limit into [1, maxLimit].
func normalizedLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	return min(limit, maxLimit)
}

// ToSQL builds the WHERE clause, ORDER BY, LIMIT, and OFFSET for a task log
// query. It returns two SQL strings (one for the data query, one for the
// count query) and the positional parameters.
func (q *TaskQuery) ToSQL() (dataSQL, countSQL string, args []any) {
	var conditions []string
	paramIdx := 1

	if q.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", paramIdx))
		args = append(args, string(*q.Status))
		paramIdx++
	}

	if q.Kind != nil {
		conditions = append(conditions, fmt.Sprintf("kind = $%d", paramIdx))
		args = append(args, string(*q.Kind))
		paramIdx++
	}

	if q.StoreID != nil {
		conditions = append(conditions, fmt.Sprintf("store_id = $%d", paramIdx))
		args = append(args, *q.StoreID)
	}

	var whereClause string
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	limit := normalizedLimit(q.Limit)
	offset := max(q.Offset, 0)

	dataSQL = fmt.Sprintf(
		"%s%s ORDER BY created_at DESC, task_id LIMIT %d OFFSET %d",
		baseTaskLogsSelect, whereClause, limit, offset,
	)

	countSQL = countTaskLogsSelect + whereClause

	return dataSQL, countSQL, args
}
