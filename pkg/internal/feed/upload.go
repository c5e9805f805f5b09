package feed

import (
	"fmt"
	"regexp"
	"time"

	"github.com/samber/lo"
)

const MaxImageSize = 5 << 20

var allowedImageTypes = []string{"image/png", "image/jpeg", "image/jpg"}

var unsafePathChars = regexp.MustCompile(`[^a-zA-Z0-9.]`)

// ValidateImage rejects unsupported uploads locally, before any network
// call is issued.
func ValidateImage(image *ImageUpload) error {
	if !lo.Contains(allowedImageTypes, image.ContentType) {
		return validationError("upload_image", "invalid file type, must be a png or jpeg image")
	}
	if image.Size > MaxImageSize {
		return validationError("upload_image", "file size exceeds the 5MB limit")
	}
	return nil
}

// ImagePath builds a collision-resistant object path namespaced by the
// uploading user. Non-alphanumeric characters in the original name are
// flattened to underscores.
func ImagePath(userID, name string) string {
	sanitized := unsafePathChars.ReplaceAllString(name, "_")
	return fmt.Sprintf("%s/%d_%s", userID, time.Now().UnixMilli(), sanitized)
}
