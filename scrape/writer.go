package scrape

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode"

	"go.uber.org/zap"
)

// extensions maps language tags to file suffixes. Languages not listed are
// still saved, with a generic txt suffix.
var extensions = map[string]string{
	"cpp":        "cpp",
	"python3":    "py",
	"c":          "c",
	"java":       "java",
	"javascript": "js",
	"typescript": "ts",
}

// ExtensionFor returns the file suffix for a language tag, falling back to
// "txt" for unknown languages.
func ExtensionFor(language string) string {
	if ext, ok := extensions[language]; ok {
		return ext
	}
	return "txt"
}

// SanitizeTitle replaces every character that is not alphanumeric, a space,
// or one of "-_." with an underscore, producing a filesystem-safe name.
func SanitizeTitle(title string) string {
	sanitized := make([]rune, 0, len(title))
	for _, c := range title {
		switch {
		case unicode.IsLetter(c) || unicode.IsDigit(c):
			sanitized = append(sanitized, c)
		case c == ' ' || c == '-' || c == '_' || c == '.':
			sanitized = append(sanitized, c)
		default:
			sanitized = append(sanitized, '_')
		}
	}
	return string(sanitized)
}

// Filename builds the deterministic solution filename for a problem.
func Filename(problemID, title, language string) string {
	return fmt.Sprintf("%s - %s.%s", problemID, SanitizeTitle(title), ExtensionFor(language))
}

// Writer persists solutions under a single output directory.
type Writer struct {
	saveDir string
	log     *zap.Logger
}

// NewWriter creates a writer saving into saveDir.
func NewWriter(saveDir string, log *zap.Logger) *Writer {
	return &Writer{saveDir: saveDir, log: log}
}

// Write saves code to "{saveDir}/{problemID} - {title}.{ext}", creating the
// directory if absent. A repeated write to the same path within a run
// overwrites (last write wins).
func (w *Writer) Write(problemID, title, language, code string) error {
	if err := os.MkdirAll(w.saveDir, 0755); err != nil {
		return fmt.Errorf("failed to create save directory: %w", err)
	}

	filename := Filename(problemID, title, language)
	path := filepath.Join(w.saveDir, filename)
	if err := os.WriteFile(path, []byte(code), 0644); err != nil {
		return fmt.Errorf("failed to save solution %q: %w", filename, err)
	}

	w.log.Info("saved solution", zap.String("file", filename))
	return nil
}
