package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "basic trim",
			input: "  Room A  ",
			want:  "Room A",
		},
		{
			name:  "multiple spaces",
			input: "Room    101",
			want:  "Room 101",
		},
		{
			name:  "tabs and newlines",
			input: "Science\t\nLab",
			want:  "Science Lab",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   \t\n  ",
			want:  "",
		},
		{
			name:  "preserve special characters",
			input: " Física & Química ",
			want:  "Física & Química",
		},
		{
			name:  "hebrew characters",
			input: " כיתה א ",
			want:  "כיתה א",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimAndNormalize(tt.input)
			if got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeClassroom(t *testing.T) {
	// Classroom labels compare byte for byte, so case must survive normalization.
	if got := NormalizeClassroom("  room a  "); got != "room a" {
		t.Errorf("NormalizeClassroom(%q) = %q, want %q", "  room a  ", got, "room a")
	}
	if NormalizeClassroom("Room A") == NormalizeClassroom("room a") {
		t.Error("classroom normalization must not fold case")
	}
}

func TestNormalizeSubjectAndTeacher(t *testing.T) {
	if got := NormalizeSubject(" Linear   Algebra "); got != "Linear Algebra" {
		t.Errorf("NormalizeSubject = %q, want %q", got, "Linear Algebra")
	}
	if got := NormalizeTeacher("\tMs.  Rivera\n"); got != "Ms. Rivera" {
		t.Errorf("NormalizeTeacher = %q, want %q", got, "Ms. Rivera")
	}
}
