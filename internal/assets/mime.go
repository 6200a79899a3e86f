package assets

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MimeGroup names a family of accepted content types.
type MimeGroup string

const (
	MimeImages    MimeGroup = "images"
	MimePDFs      MimeGroup = "pdfs"
	MimeDocuments MimeGroup = "documents"
	MimeArchives  MimeGroup = "archives"
	MimeMedia     MimeGroup = "media"
)

var mimeGroupNames = map[MimeGroup]string{
	MimeImages:    "images",
	MimePDFs:      "PDFs",
	MimeDocuments: "office documents",
	MimeArchives:  "zip archives",
	MimeMedia:     "audio or video",
}

var mimeGroupTypes = map[MimeGroup][]string{
	MimeImages: {"image/png", "image/jpeg", "image/webp", "image/gif", "image/heic"},
	MimePDFs:   {"application/pdf"},
	MimeDocuments: {
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.ms-excel",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"application/vnd.ms-powerpoint",
		"application/vnd.openxmlformats-officedocument.presentationml.presentation",
		"application/vnd.oasis.opendocument.text",
		"application/vnd.oasis.opendocument.spreadsheet",
		"application/vnd.oasis.opendocument.presentation",
		"application/rtf",
		"text/plain",
		"text/csv",
	},
	MimeArchives: {"application/zip", "application/x-7z-compressed", "application/x-rar-compressed"},
	MimeMedia:    {"video/mp4", "video/webm", "audio/mpeg", "audio/wav"},
}

// Accept is an allow-list built from mime groups.
type Accept struct {
	groups []MimeGroup
	types  []string
}

func AcceptOf(groups ...MimeGroup) Accept {
	set := make(map[string]struct{})
	for _, group := range groups {
		for _, value := range mimeGroupTypes[group] {
			set[value] = struct{}{}
		}
	}
	list := make([]string, 0, len(set))
	for value := range set {
		list = append(list, value)
	}
	sort.Strings(list)
	return Accept{groups: groups, types: list}
}

// Any reports whether the allow-list is unrestricted.
func (a Accept) Any() bool {
	return len(a.types) == 0
}

// Allows walks the detected type and its parents (xlsx -> zip) looking for
// an accepted entry. HTML and SVG inherit from text/plain, so only the
// detected type itself may match text/plain.
func (a Accept) Allows(detected *mimetype.MIME) bool {
	if a.Any() {
		return true
	}
	for m := detected; m != nil; m = m.Parent() {
		if m != detected && m.Is("text/plain") {
			return false
		}
		if mimetype.EqualsAny(m.String(), a.types...) {
			return true
		}
	}
	return false
}

func (a Accept) Description() string {
	names := make([]string, 0, len(a.groups))
	for _, g := range a.groups {
		if name, ok := mimeGroupNames[g]; ok {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "the approved file types"
	}
	return humanReadableList(names)
}

func humanReadableList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return fmt.Sprintf("%s or %s", items[0], items[1])
	default:
		return fmt.Sprintf("%s, or %s", strings.Join(items[:len(items)-1], ", "), items[len(items)-1])
	}
}
