package render

import (
	"os"
	"path/filepath"

	"github.com/hyperifyio/goflyer/internal/flyer"
)

func createFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}

// WriteHTMLFile renders the HTML preview into path.
func WriteHTMLFile(path string, c flyer.Content) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	if err := HTML(f, c); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// WriteTextFile writes the plain text rendering into path.
func WriteTextFile(path string, c flyer.Content) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(Text(c)); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
