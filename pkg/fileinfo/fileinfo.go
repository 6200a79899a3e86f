// Package fileinfo derives display metadata for stored files from their URL.
package fileinfo

import (
	"net/url"
	"path"
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultType is reported for unknown or missing extensions.
const DefaultType = "File"

// Info is the display block attached to every stored file URL.
type Info struct {
	URL       string `json:"url"`
	FileName  string `json:"fileName"`
	Extension string `json:"extension"`
	FileType  string `json:"fileType"`
}

var typesByExtension = map[string]string{
	"pdf":  "PDF Document",
	"doc":  "Word Document",
	"docx": "Word Document",
	"odt":  "Word Document",
	"rtf":  "Word Document",
	"xls":  "Excel Spreadsheet",
	"xlsx": "Excel Spreadsheet",
	"ods":  "Excel Spreadsheet",
	"csv":  "CSV File",
	"ppt":  "PowerPoint Presentation",
	"pptx": "PowerPoint Presentation",
	"odp":  "PowerPoint Presentation",
	"txt":  "Text File",
	"md":   "Text File",
	"jpg":  "Image",
	"jpeg": "Image",
	"png":  "Image",
	"gif":  "Image",
	"webp": "Image",
	"svg":  "Image",
	"heic": "Image",
	"zip":  "Archive",
	"rar":  "Archive",
	"7z":   "Archive",
	"mp4":  "Video",
	"mov":  "Video",
	"webm": "Video",
	"mp3":  "Audio",
	"wav":  "Audio",
}

// TypeForExtension maps a lower-case extension without the dot to a label.
func TypeForExtension(ext string) string {
	if t, ok := typesByExtension[strings.ToLower(ext)]; ok {
		return t
	}
	return DefaultType
}

// Derive extracts the file name, extension, and type label from a URL or a
// bare path. It never fails: unparseable input yields the raw last segment.
// The last segment is cut before percent-decoding, so an encoded slash
// ("a%2Fb.pdf") is part of the file name.
func Derive(raw string) Info {
	info := Info{URL: raw, FileType: DefaultType}

	s := strings.TrimSpace(raw)
	if strings.Contains(s, "://") {
		if i := strings.IndexAny(s, "?#"); i >= 0 {
			s = s[:i]
		}
	}
	s = strings.TrimRight(s, "/")
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}
	if decoded, err := url.PathUnescape(s); err == nil {
		s = decoded
	}
	info.FileName = s

	ext := path.Ext(s)
	if len(ext) > 1 && len(ext) < len(s) {
		info.Extension = strings.ToLower(ext[1:])
		info.FileType = TypeForExtension(info.Extension)
	}
	return info
}

// DeriveAll maps Derive over urls, preserving order.
func DeriveAll(urls []string) []Info {
	out := make([]Info, 0, len(urls))
	for _, u := range urls {
		out = append(out, Derive(u))
	}
	return out
}

// HumanSize renders a byte count like "1.2 MB".
func HumanSize(size int64) string {
	if size <= 0 {
		return "0 B"
	}
	return humanize.Bytes(uint64(size))
}

var diacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// SanitizeFileName folds accents and reduces name to a storage-safe token made
// of letters, digits, dots, dashes, and underscores.
func SanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if folded, _, err := transform.String(diacritics, name); err == nil {
		name = folded
	}

	var b strings.Builder
	lastDash := false
	for _, r := range name {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)), r == '.', r == '_':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash && b.Len() > 0 {
				b.WriteRune('-')
				lastDash = true
			}
		}
	}
	out := strings.Trim(b.String(), "-.")
	if out == "" {
		return "file"
	}
	return out
}
