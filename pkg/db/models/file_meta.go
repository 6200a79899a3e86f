package models

// FileMeta describes one stored file as it was received. It is persisted as a
// JSON array next to the URL list it belongs to.
type FileMeta struct {
	URL         string `json:"url"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	SizeLabel   string `json:"sizeLabel"`
	Extension   string `json:"extension"`
	FileType    string `json:"fileType"`
	ContentType string `json:"contentType"`
}

// All lists every model, in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&Admin{},
		&Assignment{},
		&Event{},
		&News{},
		&StaffMember{},
		&Resource{},
		&Document{},
		&CouncilMember{},
		&Gallery{},
		&Career{},
	}
}
