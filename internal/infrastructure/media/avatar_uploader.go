package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/harshu1611/todoAppServer/internal/domain/entity"
)

var ErrNotImage = errors.New("avatar is not an image")

// AvatarUploader stores a locally staged avatar file in an ObjectStore.
// Decodable images are shrunk to fit MaxDimension and re-encoded as JPEG;
// other image formats are stored unchanged.
type AvatarUploader struct {
	Store        ObjectStore
	Folder       string
	MaxDimension int
}

func NewAvatarUploader(store ObjectStore, folder string, maxDimension int) *AvatarUploader {
	return &AvatarUploader{Store: store, Folder: folder, MaxDimension: maxDimension}
}

func (u *AvatarUploader) UploadAvatar(ctx context.Context, localPath string) (entity.Avatar, error) {
	mt, err := mimetype.DetectFile(localPath)
	if err != nil {
		return entity.Avatar{}, fmt.Errorf("detect avatar type: %w", err)
	}
	if !strings.HasPrefix(mt.String(), "image/") {
		return entity.Avatar{}, fmt.Errorf("%w: %s", ErrNotImage, mt.String())
	}

	body, contentType, ext, err := u.prepare(localPath, mt)
	if err != nil {
		return entity.Avatar{}, err
	}

	publicID := path.Join(u.Folder, uuid.NewString()+ext)
	url, err := u.Store.Put(ctx, publicID, contentType, bytes.NewReader(body))
	if err != nil {
		return entity.Avatar{}, err
	}
	return entity.Avatar{PublicID: publicID, URL: url}, nil
}

func (u *AvatarUploader) prepare(localPath string, mt *mimetype.MIME) ([]byte, string, string, error) {
	img, err := imaging.Open(localPath, imaging.AutoOrientation(true))
	if err != nil {
		raw, rErr := os.ReadFile(localPath)
		if rErr != nil {
			return nil, "", "", rErr
		}
		return raw, mt.String(), mt.Extension(), nil
	}
	if u.MaxDimension > 0 {
		img = imaging.Fit(img, u.MaxDimension, u.MaxDimension, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, "", "", err
	}
	return buf.Bytes(), "image/jpeg", ".jpg", nil
}
