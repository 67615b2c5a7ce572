package lsp

import (
	"net/url"
	"path/filepath"
	"strings"
)

// filePath returns the local path of a file: URI (or of a bare path sent
// by a sloppy client). ok is false for other schemes such as untitled:.
func filePath(uri string) (path string, ok bool) {
	u, err := url.Parse(uri)
	switch {
	case uri == "" || err != nil:
		return "", false
	case u.Scheme == "file":
		path = u.Path
	case u.Scheme == "":
		path = uri
	default:
		return "", false
	}
	abs, err := filepath.Abs(filepath.FromSlash(path))
	if err != nil {
		return filepath.Clean(path), true
	}
	return abs, true
}

func pathToURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}

// canonicalURI maps different spellings of one file to a single key.
// Non-file URIs are returned unchanged.
func canonicalURI(uri string) string {
	if !strings.HasPrefix(uri, "file:") {
		return uri
	}
	if p, ok := filePath(uri); ok {
		return pathToURI(p)
	}
	return uri
}

// displayName is the filename handed to the analyzers.
func displayName(uri string) string {
	if p, ok := filePath(uri); ok {
		return p
	}
	return "untitled"
}

// isPython trusts the client's language id and falls back to the extension.
func isPython(uri, languageID string) bool {
	if languageID != "" {
		return languageID == "python"
	}
	return strings.EqualFold(filepath.Ext(uri), ".py")
}
