package foldr_go

import (
	"io"
	"reflect"
	"testing"
)

func TestReplIncomplete(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"print(1);", false},
		{"func f(a) {", true},
		{"func f(a) {\n  return a + 1;", true},
		{"func f(a) {\n  return a + 1;\n}", false},
		{"let x = ", true},
		{"if (x < 3) { print(x); } else {", true},
		{"let = 5;", false},
		{"print(1 $);", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := replIncomplete(tt.src); got != tt.want {
			t.Errorf("replIncomplete(%q) = %v, want %v", tt.src, got, tt.want)
		}
	}
}

func scriptedPrompt(lines ...string) func(string) (string, error) {
	return func(string) (string, error) {
		if len(lines) == 0 {
			return "", io.EOF
		}
		line := lines[0]
		lines = lines[1:]
		return line, nil
	}
}

func readEntries(reader *replReader) []string {
	entries := []string{}
	for {
		src, ok := reader.ReadStatement()
		if !ok {
			return entries
		}
		entries = append(entries, src)
	}
}

func TestReplReaderEntries(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []string
	}{
		{"single lines", []string{"let x = 1;", "print(x);"},
			[]string{"let x = 1;", "print(x);"}},
		{"open block", []string{"func f(a) {", "return a;", "}", "print(f(1));"},
			[]string{"func f(a) {\nreturn a;\n}", "print(f(1));"}},
		{"else on next line", []string{"if (x) { print(1); }", "else { print(2); }", "print(3);"},
			[]string{"if (x) { print(1); }\nelse { print(2); }", "print(3);"}},
		{"else block spans lines", []string{"if (x) { print(1); }", "else {", "print(2);", "}"},
			[]string{"if (x) { print(1); }\nelse {\nprint(2);\n}"}},
		{"if followed by statement", []string{"if (x) { print(1); }", "print(3);"},
			[]string{"if (x) { print(1); }", "print(3);"}},
		{"if ended by blank line", []string{"if (x) { print(1); }", "", "print(3);"},
			[]string{"if (x) { print(1); }", "print(3);"}},
		{"if closed by semicolon", []string{"if (x) { print(1); };", "print(3);"},
			[]string{"if (x) { print(1); };", "print(3);"}},
		{"if at end of input", []string{"if (x) { print(1); }"},
			[]string{"if (x) { print(1); }"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := readEntries(&replReader{prompt_: scriptedPrompt(tt.lines...)})
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
