package repositories

import (
	"fmt"
	"sort"
	"strings"

	"github.com/desertthunder/songnote/internal/models"
)

var (
	_ models.Repository[*models.Note]          = (*NoteRepository)(nil)
	_ models.Repository[*models.PlaylistEntry] = (*PlaylistEntryRepository)(nil)
)

// whereClause builds an AND-joined filter from criteria, keeping only keys in allowed.
// Keys are sorted so the generated SQL is stable.
func whereClause(criteria map[string]any, allowed ...string) (string, []any) {
	keys := make([]string, 0, len(criteria))
	for k := range criteria {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var (
		clauses []string
		args    []any
	)
	for _, k := range keys {
		if !contains(allowed, k) {
			continue
		}
		if s, ok := criteria[k].(string); ok && s == "" {
			continue
		}
		clauses = append(clauses, fmt.Sprintf("%s = ?", k))
		args = append(args, criteria[k])
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
