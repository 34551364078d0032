package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Bank", "Name", "Questions"}
	rows := [][]string{
		{"bank1", "YDKJ Style", "6"},
		{"allBanks", "All Banks", "12"},
	}
	rightAlign := map[int]bool{2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Bank     Name       Questions" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "bank1    YDKJ Style         6" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "allBanks All Banks         12" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableUsesDisplayWidth(t *testing.T) {
	lines := formatTable([]string{"A", "B"}, [][]string{{"日本", "x"}, {"a", "y"}}, nil)
	if lines[1] != "日本 x" {
		t.Fatalf("unexpected wide row: %q", lines[1])
	}
	if lines[2] != "a    y" {
		t.Fatalf("unexpected narrow row: %q", lines[2])
	}
}

func TestFormatTableRightAlignsWideCells(t *testing.T) {
	lines := formatTable([]string{"A", "B"}, [][]string{{"x", "日本"}, {"y", "a"}}, map[int]bool{1: true})
	if lines[0] != "A    B" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "x 日本" {
		t.Fatalf("unexpected wide row: %q", lines[1])
	}
	if lines[2] != "y    a" {
		t.Fatalf("unexpected narrow row: %q", lines[2])
	}
}
