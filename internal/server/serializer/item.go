package serializer

import (
	"github.com/mdouchement/foundtag/internal/model"
	"github.com/mdouchement/foundtag/internal/qrlink"
)

// PublicItem serializes the render of an item for the public (finder) view.
// The owner contact is never included here. hasCode tells whether the code
// asset exists: an item registered during an asset outage has none until it
// is regenerated, and the view must not link a missing image.
func PublicItem(m *model.Item, hasCode bool) map[string]interface{} {
	r := map[string]interface{}{
		"id":          m.ID,
		"created_at":  m.CreatedAt.UTC(),
		"name":        m.OwnerName,
		"description": m.Description,
		"messages":    Messages(m.Messages),
	}

	if hasCode {
		r["qrcode"] = AssetURL(m.ID)
	}

	return r
}

// Registration serializes the render of a completed registration (owner view).
func Registration(m *model.Item, qrcode string) map[string]interface{} {
	r := map[string]interface{}{
		"id":          m.ID,
		"created_at":  m.CreatedAt.UTC(),
		"name":        m.OwnerName,
		"contact":     m.OwnerContact,
		"description": m.Description,
	}

	// Empty when the code asset could not be produced; it can be
	// regenerated later for this id.
	if qrcode != "" {
		r["qrcode"] = "/qrcodes/" + qrcode
	}

	return r
}

// Messages serializes the render of an item's finder messages.
func Messages(ms []model.Message) []map[string]interface{} {
	r := make([]map[string]interface{}, 0, len(ms))
	for _, m := range ms {
		r = append(r, map[string]interface{}{
			"finder_name":    m.FinderName,
			"finder_contact": m.FinderContact,
			"found_where":    m.FoundWhere,
			"message":        m.Message,
		})
	}
	return r
}

// AssetURL returns the retrieval path of the code asset for the given item id.
func AssetURL(id string) string {
	return "/qrcodes/" + qrlink.Filename(id)
}
