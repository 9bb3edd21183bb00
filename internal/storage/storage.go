package storage

import (
	"fmt"
	"strings"
)

const (
	posterSuffix = "_poster.png"
	readmeName   = "README.md"
	untitled     = "untitled"
)

// Bundle is everything written for one movie.
type Bundle struct {
	DirName       string
	ActionTitle   string
	OriginalTitle string
	Summary       string
	// PosterRef is a remote URL or a data: URL holding the image inline.
	PosterRef string
}

type Result struct {
	Dir        string
	PosterPath string
	ReadmePath string
}

// FilesystemError reports a failed directory creation or file write.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }

// SanitizeDirName turns a title into a directory name: first line only,
// characters illegal on common filesystems removed, spaces replaced with
// underscores, at most maxLen characters. A maxLen of zero means no limit.
func SanitizeDirName(title string, maxLen int) string {
	if i := strings.IndexAny(title, "\r\n"); i >= 0 {
		title = title[:i]
	}
	title = strings.TrimSpace(title)

	var b strings.Builder
	for _, r := range title {
		switch {
		case strings.ContainsRune(`<>:"/\|?*`, r):
			continue
		case r == ' ':
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}

	name := b.String()
	if runes := []rune(name); maxLen > 0 && len(runes) > maxLen {
		name = string(runes[:maxLen])
	}
	if name == "" || name == "." || name == ".." {
		return untitled
	}
	return name
}

// Readme renders the README.md body for b.
func Readme(b Bundle) string {
	return fmt.Sprintf("![Movie Poster](%s%s)\n# %s (Originally -%s-)\n## Summary:\n%s\n",
		b.DirName, posterSuffix, b.ActionTitle, b.OriginalTitle, b.Summary)
}
