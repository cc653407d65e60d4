package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"volta/internal/diag"
	"volta/internal/sema"
)

func writeWorkspace(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return root
}

func TestCheckWorkspaceReportsDuplicates(t *testing.T) {
	root := writeWorkspace(t, map[string]string{
		"vhdl_ls.toml": "[libraries]\nwork.files = [\"src/*.vhd\"]\n",
		"src/pkg.vhd": `package util is
  constant c1 : natural := 0;
  constant c1 : natural := 0;
end package util;
`,
	})

	result, err := CheckWorkspace(context.Background(), root, nil, sema.Options{})
	if err != nil {
		t.Fatalf("CheckWorkspace: %v", err)
	}
	if result.FromCache {
		t.Error("a fresh run must not come from the cache")
	}
	if !result.Bag.HasErrors() {
		t.Fatal("expected the duplicate constant to surface")
	}
	if got := result.Bag.Items()[0].Code; got != diag.SemDuplicateDeclaration {
		t.Errorf("code = %s, want SEM_DUPLICATE_DECLARATION", got)
	}
}

func TestCheckWorkspaceMergesParseAndSemaDiagnostics(t *testing.T) {
	root := writeWorkspace(t, map[string]string{
		"vhdl_ls.toml": "[libraries]\nwork.files = [\"src/*.vhd\"]\n",
		"src/bad.vhd": `package p is
  42;
  constant c1 : natural := 0;
  constant c1 : natural := 0;
end package p;
`,
	})

	result, err := CheckWorkspace(context.Background(), root, nil, sema.Options{})
	if err != nil {
		t.Fatalf("CheckWorkspace: %v", err)
	}
	var sawSyntax, sawSema bool
	for _, d := range result.Bag.Items() {
		switch d.Code {
		case diag.SynUnexpectedToken:
			sawSyntax = true
		case diag.SemDuplicateDeclaration:
			sawSema = true
		}
	}
	if !sawSyntax || !sawSema {
		t.Fatalf("expected both syntax and semantic diagnostics, got %v", result.Bag.Items())
	}
}

func TestCheckWorkspaceCleanDesign(t *testing.T) {
	root := writeWorkspace(t, map[string]string{
		"vhdl_ls.toml": "[libraries]\nwork.files = [\"src/*.vhd\"]\n",
		"src/top.vhd": `entity top is
  port (clk : in bit);
end entity top;

architecture rtl of top is
  signal counter : natural := 0;
begin
end architecture rtl;
`,
	})

	result, err := CheckWorkspace(context.Background(), root, nil, sema.Options{})
	if err != nil {
		t.Fatalf("CheckWorkspace: %v", err)
	}
	for _, d := range result.Bag.Items() {
		t.Errorf("unexpected diagnostic: [%s] %s", d.Code, d.Message)
	}
}

func TestCheckWorkspaceReplaysFromDiskCache(t *testing.T) {
	cache := openTestCache(t)
	root := writeWorkspace(t, map[string]string{
		"vhdl_ls.toml": "[libraries]\nwork.files = [\"src/*.vhd\"]\n",
		"src/pkg.vhd": `package util is
  constant c1 : natural := 0;
  constant c1 : natural := 0;
end package util;
`,
	})

	first, err := CheckWorkspace(context.Background(), root, cache, sema.Options{})
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.FromCache {
		t.Fatal("first run must analyze")
	}

	second, err := CheckWorkspace(context.Background(), root, cache, sema.Options{})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !second.FromCache {
		t.Fatal("second run over an unchanged workspace must replay the cache")
	}
	if second.Bag.Len() != first.Bag.Len() {
		t.Fatalf("replayed %d diagnostics, want %d", second.Bag.Len(), first.Bag.Len())
	}

	// Touching a file invalidates the digest.
	path := filepath.Join(root, "src", "pkg.vhd")
	if err := os.WriteFile(path, []byte("package util is\nend package util;\n"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	third, err := CheckWorkspace(context.Background(), root, cache, sema.Options{})
	if err != nil {
		t.Fatalf("third run: %v", err)
	}
	if third.FromCache {
		t.Fatal("a changed workspace must re-analyze")
	}
	if third.Bag.Len() != 0 {
		t.Fatalf("expected a clean bag after the fix, got %v", third.Bag.Items())
	}
}
