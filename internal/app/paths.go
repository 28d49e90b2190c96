package app

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// deriveOutputPath returns a stable JSON path under dir built from the flyer
// title and a short digest of the description, so distinct descriptions with
// the same title do not collide.
func deriveOutputPath(dir, title, description string) string {
	root := strings.TrimSpace(dir)
	if root == "" {
		root = "flyers"
	}
	slug := slugify(title)
	if slug == "" {
		slug = "flyer"
	}
	short := computeSHA256Hex(strings.TrimSpace(description))[:12]
	return filepath.Join(root, slug+"-"+short+".json")
}

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
