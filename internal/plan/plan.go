package plan

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/idveil/idveil/internal/log"
	"github.com/idveil/idveil/internal/shift"
	"github.com/idveil/idveil/internal/tabfile"
	"github.com/idveil/idveil/internal/table"
)

// Run prints, per file and per table, which columns a batch run would
// augment and the derived column names, without writing any output.
func Run(ctx context.Context, dir string, m table.Mapping, direction shift.Direction, logger *log.Logger) error {
	if m == nil {
		m = table.DefaultMapping(direction)
	}
	files, err := tabfile.List(dir)
	if err != nil {
		return err
	}
	fmt.Println("Plan:")
	for _, path := range files {
		fmt.Printf("- %s -> %s\n", filepath.Base(path), tabfile.OutputName(path, direction))
		tables, err := tabfile.Load(ctx, path)
		if err != nil {
			fmt.Printf("  unreadable: %v\n", err)
			continue
		}
		for _, t := range tables {
			if t.Name != "" {
				fmt.Printf("  - %s\n", t.Name)
			}
			matched := matchedColumns(t, m)
			if len(matched) == 0 {
				fmt.Println("    (no matching columns)")
				continue
			}
			for _, src := range matched {
				fmt.Printf("    - %s: +%s\n", src, m[src])
			}
		}
	}
	if logger != nil {
		logger.Infof("plan complete")
	}
	return nil
}

func matchedColumns(t *table.Table, m table.Mapping) []string {
	var out []string
	for src := range m {
		if t.HasColumn(src) {
			out = append(out, src)
		}
	}
	sort.Strings(out)
	return out
}
