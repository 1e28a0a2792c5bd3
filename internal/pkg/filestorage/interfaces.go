package filestorage

import "mime/multipart"

// DocumentStore keeps uploaded exhibitor documents addressable by URL
type DocumentStore interface {
	SaveFileWithPath(fileHeader *multipart.FileHeader, path string) (string, error)
	DeleteFile(fileURL string) error
}

var _ DocumentStore = (*LocalStorage)(nil)
