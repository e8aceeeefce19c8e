package position

import (
	"testing"
)

func TestPosition(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		pos      Position
		isValid  bool
	}{
		{
			name: "Valid position with filename",
			pos: Position{
				Filename: "test.oriz",
				Line:     10,
				Column:   5,
				Offset:   100,
			},
			isValid:  true,
			expected: "test.oriz:10:5",
		},
		{
			name: "Valid position without filename",
			pos: Position{
				Line:   1,
				Column: 1,
				Offset: 0,
			},
			isValid:  true,
			expected: "1:1",
		},
		{
			name: "Invalid position - zero line",
			pos: Position{
				Line:   0,
				Column: 1,
				Offset: 0,
			},
			isValid: false,
		},
		{
			name: "Invalid position - zero column",
			pos: Position{
				Line:   1,
				Column: 0,
				Offset: 0,
			},
			isValid: false,
		},
		{
			name: "Invalid position - negative offset",
			pos: Position{
				Line:   1,
				Column: 1,
				Offset: -1,
			},
			isValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pos.IsValid(); got != tt.isValid {
				t.Errorf("Position.IsValid() = %v, want %v", got, tt.isValid)
			}

			if tt.isValid {
				if got := tt.pos.String(); got != tt.expected {
					t.Errorf("Position.String() = %v, want %v", got, tt.expected)
				}
			}
		})
	}
}

func TestPositionComparison(t *testing.T) {
	pos1 := Position{Filename: "test.oriz", Line: 1, Column: 5, Offset: 4}
	pos2 := Position{Filename: "test.oriz", Line: 1, Column: 10, Offset: 9}
	pos3 := Position{Filename: "other.oriz", Line: 1, Column: 1, Offset: 0}

	if !pos1.Before(pos2) {
		t.Error("pos1 should be before pos2")
	}

	if !pos2.After(pos1) {
		t.Error("pos2 should be after pos1")
	}

	if !pos3.Before(pos1) {
		t.Error("pos3 should be before pos1 (different filename)")
	}
}

func TestSpan(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		span     Span
		length   int
		isValid  bool
	}{
		{
			name: "Valid span same line",
			span: Span{
				Start: Position{Filename: "test.oriz", Line: 1, Column: 5, Offset: 4},
				End:   Position{Filename: "test.oriz", Line: 1, Column: 10, Offset: 9},
			},
			isValid:  true,
			expected: "test.oriz:1:5-10",
			length:   5,
		},
		{
			name: "Valid span multiple lines",
			span: Span{
				Start: Position{Filename: "test.oriz", Line: 1, Column: 5, Offset: 4},
				End:   Position{Filename: "test.oriz", Line: 3, Column: 2, Offset: 20},
			},
			isValid:  true,
			expected: "test.oriz:1:5-3:2",
			length:   16,
		},
		{
			name: "Invalid span - different files",
			span: Span{
				Start: Position{Filename: "test1.oriz", Line: 1, Column: 1, Offset: 0},
				End:   Position{Filename: "test2.oriz", Line: 1, Column: 5, Offset: 4},
			},
			isValid: false,
		},
		{
			name: "Invalid span - end before start",
			span: Span{
				Start: Position{Filename: "test.oriz", Line: 1, Column: 10, Offset: 9},
				End:   Position{Filename: "test.oriz", Line: 1, Column: 5, Offset: 4},
			},
			isValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.span.IsValid(); got != tt.isValid {
				t.Errorf("Span.IsValid() = %v, want %v", got, tt.isValid)
			}

			if tt.isValid {
				if got := tt.span.String(); got != tt.expected {
					t.Errorf("Span.String() = %v, want %v", got, tt.expected)
				}

				if got := tt.span.Length(); got != tt.length {
					t.Errorf("Span.Length() = %v, want %v", got, tt.length)
				}
			}
		})
	}
}

func TestSpanContains(t *testing.T) {
	span := Span{
		Start: Position{Filename: "test.oriz", Line: 1, Column: 5, Offset: 4},
		End:   Position{Filename: "test.oriz", Line: 1, Column: 10, Offset: 9},
	}

	tests := []struct {
		name     string
		pos      Position
		contains bool
	}{
		{
			name:     "Position at start",
			pos:      Position{Filename: "test.oriz", Line: 1, Column: 5, Offset: 4},
			contains: true,
		},
		{
			name:     "Position in middle",
			pos:      Position{Filename: "test.oriz", Line: 1, Column: 7, Offset: 6},
			contains: true,
		},
		{
			name:     "Position at end (exclusive)",
			pos:      Position{Filename: "test.oriz", Line: 1, Column: 10, Offset: 9},
			contains: false,
		},
		{
			name:     "Position before span",
			pos:      Position{Filename: "test.oriz", Line: 1, Column: 1, Offset: 0},
			contains: false,
		},
		{
			name:     "Position in different file",
			pos:      Position{Filename: "other.oriz", Line: 1, Column: 7, Offset: 6},
			contains: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := span.Contains(tt.pos); got != tt.contains {
				t.Errorf("Span.Contains(%v) = %v, want %v", tt.pos, got, tt.contains)
			}
		})
	}
}

func TestSpanUnion(t *testing.T) {
	a := Span{
		Start: Position{Filename: "test.oriz", Line: 1, Column: 1, Offset: 0},
		End:   Position{Filename: "test.oriz", Line: 1, Column: 5, Offset: 4},
	}
	b := Span{
		Start: Position{Filename: "test.oriz", Line: 1, Column: 8, Offset: 7},
		End:   Position{Filename: "test.oriz", Line: 1, Column: 12, Offset: 11},
	}

	u := a.Union(b)
	if u.Start.Offset != 0 || u.End.Offset != 11 {
		t.Errorf("Union() = %v, want offsets 0-11", u)
	}

	// Union with an invalid span returns the valid one unchanged.
	empty := Span{}
	if got := a.Union(empty); got != a {
		t.Errorf("Union(invalid) = %v, want %v", got, a)
	}
	if got := empty.Union(b); got != b {
		t.Errorf("invalid.Union(b) = %v, want %v", got, b)
	}

	if a.Overlaps(b) {
		t.Error("disjoint spans should not overlap")
	}

	c := Span{
		Start: Position{Filename: "test.oriz", Line: 1, Column: 3, Offset: 2},
		End:   Position{Filename: "test.oriz", Line: 1, Column: 9, Offset: 8},
	}
	if !a.Overlaps(c) {
		t.Error("intersecting spans should overlap")
	}
}

func TestSourceFile(t *testing.T) {
	content := "struct Point {\n    x: i32,\n    y: i32,\n}\n"
	sf := NewSourceFile("point.oriz", content)

	if got := sf.GetLine(1); got != "struct Point {" {
		t.Errorf("GetLine(1) = %q", got)
	}
	if got := sf.GetLine(0); got != "" {
		t.Errorf("GetLine(0) = %q, want empty", got)
	}
	if got := sf.GetLine(100); got != "" {
		t.Errorf("GetLine(100) = %q, want empty", got)
	}

	pos := sf.PositionFromOffset(7)
	if pos.Line != 1 || pos.Column != 8 {
		t.Errorf("PositionFromOffset(7) = %v, want 1:8", pos)
	}

	if got := sf.OffsetFromPosition(pos); got != 7 {
		t.Errorf("OffsetFromPosition(%v) = %d, want 7", pos, got)
	}

	// Round trip through a later line.
	pos2 := sf.PositionFromOffset(19)
	if pos2.Line != 2 {
		t.Errorf("PositionFromOffset(19).Line = %d, want 2", pos2.Line)
	}
	if got := sf.OffsetFromPosition(pos2); got != 19 {
		t.Errorf("OffsetFromPosition(%v) = %d, want 19", pos2, got)
	}

	span := Span{
		Start: Position{Filename: "point.oriz", Line: 1, Column: 8, Offset: 7},
		End:   Position{Filename: "point.oriz", Line: 1, Column: 13, Offset: 12},
	}
	if got := sf.GetSpanText(span); got != "Point" {
		t.Errorf("GetSpanText() = %q, want %q", got, "Point")
	}
}

func TestSourceMap(t *testing.T) {
	sm := NewSourceMap()
	sm.AddFile("a.oriz", "enum Color { Red, Green }\n")
	sm.AddFile("b.oriz", "struct Unit;\n")

	if sm.GetFile("a.oriz") == nil {
		t.Fatal("a.oriz should be registered")
	}
	if sm.GetFile("missing.oriz") != nil {
		t.Error("missing file should return nil")
	}

	span := Span{
		Start: Position{Filename: "a.oriz", Line: 1, Column: 6, Offset: 5},
		End:   Position{Filename: "a.oriz", Line: 1, Column: 11, Offset: 10},
	}
	if got := sm.GetSpanText(span); got != "Color" {
		t.Errorf("GetSpanText() = %q, want %q", got, "Color")
	}

	if got := sm.GetLine(Position{Filename: "b.oriz", Line: 1, Column: 1, Offset: 0}); got != "struct Unit;" {
		t.Errorf("GetLine() = %q", got)
	}

	if got := len(sm.GetFiles()); got != 2 {
		t.Errorf("GetFiles() returned %d files, want 2", got)
	}
}
