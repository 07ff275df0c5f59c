package inspect

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/idveil/idveil/internal/log"
	"github.com/idveil/idveil/internal/shift"
	"github.com/idveil/idveil/internal/tabfile"
	"github.com/idveil/idveil/internal/table"
)

// Run lists every supported file in dir with its tables, row counts and
// identifier-column candidates. Files that cannot be read are reported
// inline and do not stop the listing.
func Run(ctx context.Context, dir string, logger *log.Logger) error {
	files, err := tabfile.List(dir)
	if err != nil {
		return err
	}
	fmt.Println("Files:")
	for _, path := range files {
		fmt.Printf("- %s\n", filepath.Base(path))
		tables, err := tabfile.Load(ctx, path)
		if err != nil {
			fmt.Printf("  unreadable: %v\n", err)
			continue
		}
		for _, t := range tables {
			name := t.Name
			if name == "" {
				name = "(table)"
			}
			fmt.Printf("  - %s (%d rows)\n", name, len(t.Rows))
			if cands := identifierCandidates(t); len(cands) > 0 {
				fmt.Printf("    identifier columns: %s\n", strings.Join(cands, ", "))
			}
		}
	}
	if logger != nil {
		logger.Infof("inspect complete")
	}
	return nil
}

// identifierCandidates returns the columns the default mappings would pick
// up in either direction, plus anything that looks like an identifier by
// name.
func identifierCandidates(t *table.Table) []string {
	forward := table.DefaultMapping(shift.Forward)
	backward := table.DefaultMapping(shift.Backward)
	var out []string
	for _, c := range t.Columns {
		if _, ok := forward[c]; ok {
			out = append(out, c)
			continue
		}
		if _, ok := backward[c]; ok {
			out = append(out, c)
			continue
		}
		name := strings.ToLower(c)
		if strings.HasSuffix(name, "_id") || strings.Contains(name, "_id_") {
			out = append(out, c)
		}
	}
	return out
}
