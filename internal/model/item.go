package model

type (
	// An Item represents a registered lost-item report.
	// OwnerContact is never rendered in the public item view.
	Item struct {
		Base `msgpack:",inline" storm:"inline"`

		OwnerName    string    `json:"name"        msgpack:"name"`
		OwnerContact string    `json:"contact"     msgpack:"contact"`
		Description  string    `json:"description" msgpack:"description"`
		Messages     []Message `json:"messages"    msgpack:"messages"`
	}

	// A Message is a finder's report filed against an item.
	// Immutable once appended to an item.
	Message struct {
		FinderName    string `json:"finder_name"    msgpack:"finder_name"`
		FinderContact string `json:"finder_contact" msgpack:"finder_contact"`
		FoundWhere    string `json:"found_where"    msgpack:"found_where"`
		Message       string `json:"message"        msgpack:"message"`
	}
)

// NewItem returns an item with the given id and no recorded messages.
func NewItem(id string) *Item {
	return &Item{
		Base:     Base{ID: id},
		Messages: make([]Message, 0),
	}
}
