package content

import (
	"github.com/hillview-school/school-cms/internal/assets"
	"github.com/hillview-school/school-cms/pkg/db/models"
	"github.com/hillview-school/school-cms/pkg/fileinfo"
)

func metaOf(uploaded []assets.Uploaded) []models.FileMeta {
	out := make([]models.FileMeta, 0, len(uploaded))
	for _, u := range uploaded {
		info := fileinfo.Derive(u.Name)
		out = append(out, models.FileMeta{
			URL:         u.URL,
			Name:        u.Name,
			Size:        u.Size,
			SizeLabel:   fileinfo.HumanSize(u.Size),
			Extension:   info.Extension,
			FileType:    info.FileType,
			ContentType: u.ContentType,
		})
	}
	return out
}

// keepMeta returns the entries of stored whose URL is still kept.
func keepMeta(stored []models.FileMeta, keep []string) []models.FileMeta {
	kept := make(map[string]bool, len(keep))
	for _, u := range keep {
		kept[u] = true
	}
	out := make([]models.FileMeta, 0, len(keep))
	for _, m := range stored {
		if kept[m.URL] {
			out = append(out, m)
		}
	}
	return out
}
