package usecase

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/GoArmGo/Foodgram/internal/domain"
)

// MaxImageBytes ограничивает размер декодированной картинки рецепта.
const MaxImageBytes = 5 << 20

const imageKeyPrefix = "recipes/images/"

var imageExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// decodedImage картинка из data URL, готовая к загрузке в хранилище.
type decodedImage struct {
	Key         string
	ContentType string
	Data        []byte
}

func (img decodedImage) Reader() io.Reader {
	return bytes.NewReader(img.Data)
}

// decodeDataURL разбирает строку вида data:image/png;base64,<payload>
// и выдаёт картинке новый ключ recipes/images/<uuid>.<ext>.
func decodeDataURL(raw string) (*decodedImage, error) {
	rest, ok := strings.CutPrefix(raw, "data:")
	if !ok {
		return nil, domain.NewValidationError("image", "Upload a valid image as a base64 data URL.")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, domain.NewValidationError("image", "Upload a valid image as a base64 data URL.")
	}
	contentType, encoding, ok := strings.Cut(meta, ";")
	if !ok || encoding != "base64" {
		return nil, domain.NewValidationError("image", "Upload a valid image as a base64 data URL.")
	}
	contentType = strings.ToLower(contentType)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, domain.NewValidationError("image", fmt.Sprintf("Unsupported image type %q.", contentType))
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageBytes+3 {
		return nil, domain.NewValidationError("image", "Image is too large.")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, domain.NewValidationError("image", "Image data is not valid base64.")
	}
	if len(data) == 0 {
		return nil, domain.NewValidationError("image", "The submitted file is empty.")
	}
	if len(data) > MaxImageBytes {
		return nil, domain.NewValidationError("image", "Image is too large.")
	}

	return &decodedImage{
		Key:         fmt.Sprintf("%s%s.%s", imageKeyPrefix, uuid.NewString(), ext),
		ContentType: contentType,
		Data:        data,
	}, nil
}
