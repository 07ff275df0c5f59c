package batch

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/idveil/idveil/internal/log"
	"github.com/idveil/idveil/internal/shift"
	"github.com/idveil/idveil/internal/tabfile"
)

func TestRunSanitizeCSV(t *testing.T) {
	ctx := context.Background()
	inDir := t.TempDir()
	outDir := t.TempDir()
	writeFile(t, filepath.Join(inDir, "orders.csv"), "id,external_id,note\n1,abc123,n\n2,X,m\n")

	summary, err := Run(ctx, Options{
		InputDir:  inDir,
		OutputDir: outDir,
		Direction: shift.Forward,
		Logger:    log.New(log.LevelInfo, io.Discard),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Processed != 1 || summary.Failed != 0 {
		t.Fatalf("summary = %+v", summary)
	}

	tables, err := tabfile.Load(ctx, filepath.Join(outDir, "orders_sanitized.csv"))
	if err != nil {
		t.Fatalf("load output: %v", err)
	}
	tbl := tables[0]
	wantCols := []string{"id", "external_id", "external_id_sanitized", "note"}
	if !reflect.DeepEqual(tbl.Columns, wantCols) {
		t.Fatalf("columns = %v; want %v", tbl.Columns, wantCols)
	}
	if got := tbl.Rows[0]["external_id_sanitized"]; got != "bcc134" {
		t.Errorf("row 0 derived = %q; want %q", got, "bcc134")
	}
	if got := tbl.Rows[1]["external_id_sanitized"]; got != "Y" {
		t.Errorf("row 1 derived = %q; want %q", got, "Y")
	}
}

func TestRunDesanitizeRecovers(t *testing.T) {
	ctx := context.Background()
	inDir := t.TempDir()
	midDir := t.TempDir()
	outDir := t.TempDir()
	writeFile(t, filepath.Join(inDir, "parts.csv"), "external_id\nabc123\n9_9\n")

	if _, err := Run(ctx, Options{InputDir: inDir, OutputDir: midDir, Direction: shift.Forward}); err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	if _, err := Run(ctx, Options{InputDir: midDir, OutputDir: outDir, Direction: shift.Backward}); err != nil {
		t.Fatalf("desanitize: %v", err)
	}

	// Desanitizing keeps the file name unchanged.
	tables, err := tabfile.Load(ctx, filepath.Join(outDir, "parts_sanitized.csv"))
	if err != nil {
		t.Fatalf("load output: %v", err)
	}
	tbl := tables[0]
	wantCols := []string{"external_id", "external_id_sanitized", "external_desanitized"}
	if !reflect.DeepEqual(tbl.Columns, wantCols) {
		t.Fatalf("columns = %v; want %v", tbl.Columns, wantCols)
	}
	for i, want := range []string{"abc123", "9_9"} {
		if got := tbl.Rows[i]["external_desanitized"]; got != want {
			t.Errorf("row %d recovered = %q; want %q", i, got, want)
		}
	}
}

func TestRunIsolatesUnreadableFiles(t *testing.T) {
	ctx := context.Background()
	inDir := t.TempDir()
	outDir := t.TempDir()
	writeFile(t, filepath.Join(inDir, "bad.xlsx"), "not a workbook")
	writeFile(t, filepath.Join(inDir, "good.csv"), "external_id\nab\n")

	summary, err := Run(ctx, Options{
		InputDir:  inDir,
		OutputDir: outDir,
		Direction: shift.Forward,
		Logger:    log.New(log.LevelInfo, io.Discard),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Processed != 1 || summary.Failed != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if _, err := os.Stat(filepath.Join(outDir, "good_sanitized.csv")); err != nil {
		t.Fatalf("good file output missing: %v", err)
	}
}

func TestRunIsolatesWriteFailures(t *testing.T) {
	ctx := context.Background()
	inDir := t.TempDir()
	outDir := t.TempDir()
	writeFile(t, filepath.Join(inDir, "blocked.csv"), "external_id\nab\n")
	writeFile(t, filepath.Join(inDir, "good.csv"), "external_id\ncd\n")
	// A directory squatting on the output name makes the write fail for
	// just that file.
	if err := os.Mkdir(filepath.Join(outDir, "blocked_sanitized.csv"), 0o755); err != nil {
		t.Fatal(err)
	}

	summary, err := Run(ctx, Options{
		InputDir:  inDir,
		OutputDir: outDir,
		Direction: shift.Forward,
		Logger:    log.New(log.LevelInfo, io.Discard),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Processed != 1 || summary.Failed != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if _, err := os.Stat(filepath.Join(outDir, "good_sanitized.csv")); err != nil {
		t.Fatalf("good file output missing: %v", err)
	}
}

func TestRunPassThroughWithoutTargets(t *testing.T) {
	ctx := context.Background()
	inDir := t.TempDir()
	outDir := t.TempDir()
	writeFile(t, filepath.Join(inDir, "plain.csv"), "id,name\n1,widget\n")

	summary, err := Run(ctx, Options{InputDir: inDir, OutputDir: outDir, Direction: shift.Forward})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Processed != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	tables, err := tabfile.Load(ctx, filepath.Join(outDir, "plain_sanitized.csv"))
	if err != nil {
		t.Fatalf("load output: %v", err)
	}
	if !reflect.DeepEqual(tables[0].Columns, []string{"id", "name"}) {
		t.Fatalf("columns changed: %v", tables[0].Columns)
	}
}

func TestRunEmptyInputDir(t *testing.T) {
	ctx := context.Background()
	summary, err := Run(ctx, Options{
		InputDir:  t.TempDir(),
		OutputDir: t.TempDir(),
		Direction: shift.Forward,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Processed != 0 || summary.Failed != 0 {
		t.Fatalf("summary = %+v", summary)
	}
}

func TestRunSanitizeXLSXSheets(t *testing.T) {
	ctx := context.Background()
	inDir := t.TempDir()
	outDir := t.TempDir()

	// Build a two-sheet workbook through the format layer itself.
	src := filepath.Join(inDir, "report.xlsx")
	in := t.TempDir()
	writeFile(t, filepath.Join(in, "a.csv"), "external_id\nabc123\n")
	tablesA, err := tabfile.Load(ctx, filepath.Join(in, "a.csv"))
	if err != nil {
		t.Fatal(err)
	}
	tablesA[0].Name = "Parts"
	writeFile(t, filepath.Join(in, "b.csv"), "internal_id\n9_9\n")
	tablesB, err := tabfile.Load(ctx, filepath.Join(in, "b.csv"))
	if err != nil {
		t.Fatal(err)
	}
	tablesB[0].Name = "Orders"
	if err := tabfile.Write(ctx, src, append(tablesA, tablesB...)); err != nil {
		t.Fatalf("build workbook: %v", err)
	}

	if _, err := Run(ctx, Options{InputDir: inDir, OutputDir: outDir, Direction: shift.Forward}); err != nil {
		t.Fatalf("run: %v", err)
	}
	out, err := tabfile.Load(ctx, filepath.Join(outDir, "report_sanitized.xlsx"))
	if err != nil {
		t.Fatalf("load output: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d sheets; want 2", len(out))
	}
	if got := out[0].Rows[0]["external_id_sanitized"]; got != "bcc134" {
		t.Errorf("sheet Parts derived = %q; want %q", got, "bcc134")
	}
	if got := out[1].Rows[0]["internal_id_sanitized"]; got != "0_0" {
		t.Errorf("sheet Orders derived = %q; want %q", got, "0_0")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
