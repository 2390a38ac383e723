package photo

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/tiff"
)

// VerifyImage decodes the image header of JPEG, PNG, and TIFF files. Other
// formats (HEIC, videos) have no decoder here and are assumed valid.
func VerifyImage(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png", ".tif", ".tiff":
	default:
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, _, err := image.DecodeConfig(f); err != nil {
		return fmt.Errorf("invalid image %s: %w", filepath.Base(path), err)
	}
	return nil
}
