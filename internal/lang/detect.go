package lang

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
)

// Detect maps a file path to a language id for the editor surface and the
// host bridge. Unknown extensions fall back to "plaintext".
func Detect(path string) string {
	lexer := lexers.Match(filepath.Base(path))
	if lexer == nil {
		return "plaintext"
	}
	name := strings.ToLower(lexer.Config().Name)
	// a few chroma names differ from the ids hosts expect
	switch name {
	case "c++":
		return "cpp"
	case "c#":
		return "csharp"
	}
	return name
}
