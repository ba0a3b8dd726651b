package catalog

import (
	"path/filepath"
	"strings"
)

type Language string

const (
	JavaScript Language = "JavaScript"
	TypeScript Language = "TypeScript"
	Python     Language = "Python"
	Ruby       Language = "Ruby"
	Java       Language = "Java"
	Kotlin     Language = "Kotlin"
	CSharp     Language = "C#"
	C          Language = "C"
	CHeader    Language = "C/C++"
	CPP        Language = "C++"
	PHP        Language = "PHP"
	Rust       Language = "Rust"
	Swift      Language = "Swift"
	Go         Language = "Go"
	Lua        Language = "Lua"
	Haskell    Language = "Haskell"
	Scala      Language = "Scala"
	Dart       Language = "Dart"
	Elixir     Language = "Elixir"
	Clojure    Language = "Clojure"
	OCaml      Language = "OCaml"
	Groovy     Language = "Groovy"
	Julia      Language = "Julia"
	Nim        Language = "Nim"
	Zig        Language = "Zig"

	Unknown Language = "Unknown"
)

var extLanguages = map[string]Language{
	".js":     JavaScript,
	".ts":     TypeScript,
	".py":     Python,
	".rb":     Ruby,
	".java":   Java,
	".kt":     Kotlin,
	".kts":    Kotlin,
	".cs":     CSharp,
	".c":      C,
	".h":      CHeader,
	".hpp":    CPP,
	".cpp":    CPP,
	".cc":     CPP,
	".cxx":    CPP,
	".php":    PHP,
	".rs":     Rust,
	".swift":  Swift,
	".go":     Go,
	".lua":    Lua,
	".hs":     Haskell,
	".scala":  Scala,
	".dart":   Dart,
	".ex":     Elixir,
	".clj":    Clojure,
	".ml":     OCaml,
	".groovy": Groovy,
	".jl":     Julia,
	".nim":    Nim,
	".zig":    Zig,
}

// DetectLanguage maps a file path to its language by extension.
func DetectLanguage(path string) Language {
	if lang, ok := extLanguages[strings.ToLower(filepath.Ext(path))]; ok {
		return lang
	}
	return Unknown
}

// ParseLanguage returns the tag named by s, or Unknown when s names none.
// Matching is exact after trimming.
func ParseLanguage(s string) Language {
	lang := Language(strings.TrimSpace(s))
	for _, known := range extLanguages {
		if known == lang {
			return lang
		}
	}
	return Unknown
}

// DefaultExtensions returns every extension that has a language tag.
func DefaultExtensions() []string {
	exts := make([]string, 0, len(extLanguages))
	for ext := range extLanguages {
		exts = append(exts, ext)
	}
	return exts
}
