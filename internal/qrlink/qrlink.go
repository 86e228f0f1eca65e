// Package qrlink renders the scannable codes pointing at public item pages.
package qrlink

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mdouchement/foundtag/internal/lferror"
	"github.com/pkg/errors"
	qrcode "github.com/skip2/go-qrcode"
)

// Size in pixels of the generated square code images.
const Size = 256

// An Encoder renders item page URLs into QR code assets stored on disk.
// One asset per item id, overwritten on regeneration.
type Encoder struct {
	dir string
}

// NewEncoder returns an Encoder storing its assets in dir.
func NewEncoder(dir string) (*Encoder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "could not create qrcode directory")
	}
	return &Encoder{dir: dir}, nil
}

// URL builds the canonical item page URL for the given id.
func URL(baseURL, id string) string {
	return strings.TrimSuffix(baseURL, "/") + "/item/" + id
}

// Filename returns the asset file name for the given id.
func Filename(id string) string {
	return id + ".png"
}

// Dir returns the directory holding the assets.
func (e *Encoder) Dir() string {
	return e.dir
}

// Exists returns true if a code asset is stored for the given id.
func (e *Encoder) Exists(id string) bool {
	_, err := os.Stat(filepath.Join(e.dir, Filename(id)))
	return err == nil
}

// Encode renders the item page URL into a PNG asset and returns the asset
// file name. Rendering and asset storage failures carry distinct tags.
func (e *Encoder) Encode(baseURL, id string) (string, error) {
	png, err := qrcode.Encode(URL(baseURL, id), qrcode.Medium, Size)
	if err != nil {
		return "", lferror.RenderFailure("could not render qrcode: " + err.Error())
	}

	name := Filename(id)
	if err = os.WriteFile(filepath.Join(e.dir, name), png, 0o644); err != nil {
		return "", lferror.StorageFailure("could not store qrcode asset: " + err.Error())
	}

	return name, nil
}
