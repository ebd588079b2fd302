package plot

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrNoScript is returned when a document has no <script> element.
var ErrNoScript = errors.New("no script element")

// ExtractFirstScript returns the trimmed text of the first <script> element.
func ExtractFirstScript(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	script := findFirst(doc, atom.Script)
	if script == nil {
		return "", ErrNoScript
	}

	var sb strings.Builder
	for c := script.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

// findFirst walks the tree depth first.
func findFirst(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, a); found != nil {
			return found
		}
	}
	return nil
}

// CombineDir appends the first script of every file in dir to outPath, in file
// name order, each padded by three blank lines on both sides. Returns the number
// of files combined.
func CombineDir(dir, outPath string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read plot dir: %w", err)
	}

	out, err := os.OpenFile(outPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", outPath, err)
	}
	defer out.Close()

	n := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		js, err := scriptFromFile(path)
		if err != nil {
			return n, err
		}
		if _, err := io.WriteString(out, "\n\n\n"+js+"\n\n\n"); err != nil {
			return n, fmt.Errorf("write %s: %w", outPath, err)
		}
		n++
	}
	return n, out.Close()
}

func scriptFromFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	js, err := ExtractFirstScript(f)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return js, nil
}
