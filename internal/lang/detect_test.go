package lang

import "testing"

func TestDetect(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"/proj/main.go", "go"},
		{"/proj/app.py", "python"},
		{"C:\\proj\\widget.cpp", "cpp"},
		{"/proj/Program.cs", "csharp"},
		{"/proj/notes.unknownext", "plaintext"},
		{"README", "plaintext"},
	}
	for _, c := range cases {
		if got := Detect(c.path); got != c.want {
			t.Errorf("Detect(%q)=%q want %q", c.path, got, c.want)
		}
	}
}
