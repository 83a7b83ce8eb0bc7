package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/donaldgifford/fiscus-ingest/pkg/types"
)

func ptr[T any](v T) *T { return &v }

func TestTaskQuery_ToSQL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		query         TaskQuery
		wantCountSQL  string
		wantArgs      []any
		wantDataHas   []string // substrings that must appear in dataSQL
		wantDataNotIn []string // substrings that must NOT appear
	}{
		{
			name:  "empty query uses defaults",
			query: TaskQuery{},
			wantDataHas: []string{
				"FROM task_logs",
				"ORDER BY created_at DESC",
				"LIMIT 50",
				"OFFSET 0",
			},
			wantDataNotIn: []string{"WHERE"},
			wantCountSQL:  "SELECT COUNT(*) FROM task_logs",
		},
		{
			name:         "status filter",
			query:        TaskQuery{Status: ptr(domain.TaskFailed)},
			wantDataHas:  []string{"WHERE status = $1"},
			wantCountSQL: "SELECT COUNT(*) FROM task_logs WHERE status = $1",
			wantArgs:     []any{"failed"},
		},
		{
			name:         "kind filter",
			query:        TaskQuery{Kind: ptr(domain.KindScrapeStore)},
			wantDataHas:  []string{"WHERE kind = $1"},
			wantCountSQL: "SELECT COUNT(*) FROM task_logs WHERE kind = $1",
			wantArgs:     []any{"scrape_store"},
		},
		{
			name: "all filters with correct parameter numbering",
			query: TaskQuery{
				Status:  ptr(domain.TaskProgress),
				Kind:    ptr(domain.KindScrapeAll),
				StoreID: ptr(int64(7)),
			},
			wantDataHas: []string{
				"status = $1",
				"kind = $2",
				"store_id = $3",
				" AND ",
			},
			wantCountSQL: "SELECT COUNT(*) FROM task_logs WHERE status = $1 AND kind = $2 AND store_id = $3",
			wantArgs:     []any{"progress", "scrape_all", int64(7)},
		},
		{
			name:        "custom limit and offset",
			query:       TaskQuery{Limit: 25, Offset: 100},
			wantDataHas: []string{"LIMIT 25", "OFFSET 100"},
		},
		{
			name:        "negative limit defaults to 50",
			query:       TaskQuery{Limit: -10},
			wantDataHas: []string{"LIMIT 50"},
		},
		{
			name:        "limit exceeding max is capped",
			query:       TaskQuery{Limit: 1000},
			wantDataHas: []string{"LIMIT 500"},
		},
		{
			name:        "negative offset defaults to 0",
			query:       TaskQuery{Offset: -5},
			wantDataHas: []string{"OFFSET 0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			q := tt.query
			dataSQL, countSQL, args := q.ToSQL()

			for _, s := range tt.wantDataHas {
				assert.Contains(t, dataSQL, s, "dataSQL should contain %q", s)
			}

			for _, s := range tt.wantDataNotIn {
				assert.NotContains(t, dataSQL, s, "dataSQL should not contain %q", s)
			}

			if tt.wantCountSQL != "" {
				assert.Equal(t, tt.wantCountSQL, countSQL)
			}

			if tt.wantArgs != nil {
				require.Len(t, args, len(tt.wantArgs))
				assert.Equal(t, tt.wantArgs, args)
			} else {
				assert.Empty(t, args)
			}
		})
	}
}
