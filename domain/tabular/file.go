package tabular

import (
	"bytes"
	"io"
	"mime/multipart"
)

// SourceFile is the file-like input handed in by the UI layer: a name, a
// byte size and a way to read the full contents.
type SourceFile interface {
	Name() string
	Size() int64
	Open() (io.ReadCloser, error)
}

// BytesFile is an in-memory SourceFile, used by tests and the CLI
type BytesFile struct {
	FileName string
	Content  []byte
}

func NewBytesFile(name string, content []byte) *BytesFile {
	return &BytesFile{FileName: name, Content: content}
}

func (f *BytesFile) Name() string { return f.FileName }

func (f *BytesFile) Size() int64 { return int64(len(f.Content)) }

func (f *BytesFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.Content)), nil
}

// MultipartFile adapts a multipart upload to SourceFile
type MultipartFile struct {
	Header *multipart.FileHeader
}

func NewMultipartFile(header *multipart.FileHeader) *MultipartFile {
	return &MultipartFile{Header: header}
}

func (f *MultipartFile) Name() string { return f.Header.Filename }

func (f *MultipartFile) Size() int64 { return f.Header.Size }

func (f *MultipartFile) Open() (io.ReadCloser, error) {
	return f.Header.Open()
}
