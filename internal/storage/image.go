package storage

import (
	"io"
	"mime/multipart"
	"net/http"

	"tripmate/pkg/utils"
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Image is an upload that passed ValidateImage.
type Image struct {
	File        multipart.File
	Size        int64
	ContentType string
	Ext         string
}

// ValidateImage opens the upload and sniffs its content type from the first
// 512 bytes; the client-supplied header is ignored. The caller closes File.
func ValidateImage(header *multipart.FileHeader, maxBytes int64) (*Image, error) {
	if header == nil || header.Size == 0 {
		return nil, utils.ErrInvalidFile
	}
	if header.Size > maxBytes {
		return nil, utils.ErrFileTooLarge
	}

	file, err := header.Open()
	if err != nil {
		return nil, utils.ErrInvalidFile
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		_ = file.Close()
		return nil, utils.ErrInvalidFile
	}

	contentType := http.DetectContentType(head[:n])
	ext, ok := imageExtensions[contentType]
	if !ok {
		_ = file.Close()
		return nil, utils.ErrInvalidFile
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		_ = file.Close()
		return nil, utils.ErrInvalidFile
	}

	return &Image{
		File:        file,
		Size:        header.Size,
		ContentType: contentType,
		Ext:         ext,
	}, nil
}
