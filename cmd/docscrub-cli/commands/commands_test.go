package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testPage = `<html><body><div class="footer">links</div><div>Hello <b>world</b><br>Bye</div></body></html>`

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestClean_Stdin(t *testing.T) {
	out, _, err := run(t, testPage, "clean", "--format", "html")
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	want := "<div><p>Hello <b>world</b></p><p>Bye</p></div>\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestClean_FileAndOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "page.html")
	outPath := filepath.Join(dir, "page.txt")
	if err := os.WriteFile(in, []byte(testPage), 0o644); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := run(t, "", "clean", in, "--format", "text", "-o", outPath)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if stdout != "" {
		t.Errorf("stdout should be empty with -o, got %q", stdout)
	}
	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "Hello world\n\nBye\n" {
		t.Errorf("file content = %q", got)
	}
}

func TestClean_StatsOnlyJSON(t *testing.T) {
	out, _, err := run(t, testPage, "clean", "--stats-only", "--stats-format", "json")
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	var st cleanStats
	if err := json.Unmarshal([]byte(out), &st); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if st.Source != "stdin" || st.InputBytes != len(testPage) {
		t.Errorf("unexpected header: %+v", st)
	}
	if len(st.Passes) == 0 {
		t.Fatal("expected per-pass stats")
	}
	if st.Total.Removed == 0 || st.Total.Created != 2 {
		t.Errorf("total = %+v, want removals and 2 created paragraphs", st.Total)
	}
}

func TestClean_StatsTextToStderr(t *testing.T) {
	out, errOut, err := run(t, testPage, "clean", "--stats", "--format", "text")
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if !strings.Contains(out, "Hello world") {
		t.Errorf("stdout missing content: %q", out)
	}
	for _, want := range []string{"stdin:", "PASS", "divToParagraphs", "total"} {
		if !strings.Contains(errOut, want) {
			t.Errorf("stderr missing %q:\n%s", want, errOut)
		}
	}
}

func TestClean_Errors(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{"bad format", testPage, []string{"clean", "--format", "pdf"}},
		{"bad extract", testPage, []string{"clean", "--extract", "magic"}},
		{"bad size", testPage, []string{"clean", "--max-input", "lots"}},
		{"too large", testPage, []string{"clean", "--max-input", "10B"}},
		{"empty input", "   ", []string{"clean"}},
		{"missing file", "", []string{"clean", "/nonexistent/page.html"}},
		{"bad selector", testPage, []string{"clean", "--exclude", "[["}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := run(t, tt.stdin, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"0", 0},
		{"512", 512},
		{"1KB", 1000},
		{"1KiB", 1024},
		{"10MB", 10_000_000},
	}
	for _, tt := range tests {
		got, err := parseSize(tt.in)
		if err != nil {
			t.Errorf("parseSize(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseSize(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestPatterns(t *testing.T) {
	out, _, err := run(t, "", "patterns")
	if err != nil {
		t.Fatalf("patterns: %v", err)
	}
	for _, name := range []string{"noise", "caption", "twitter"} {
		if !strings.Contains(out, name) {
			t.Errorf("listing missing %q:\n%s", name, out)
		}
	}

	out, _, err = run(t, "", "patterns", "--passes")
	if err != nil {
		t.Fatalf("patterns --passes: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if lines[0] != "stripBodyClass" || lines[len(lines)-1] != "spanToParagraph" {
		t.Errorf("unexpected pass order: %v", lines)
	}
}
