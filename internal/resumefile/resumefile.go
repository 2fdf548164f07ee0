// Package resumefile checks uploaded résumés before they are sent for analysis.
package resumefile

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	// MaxSize is the largest accepted upload.
	MaxSize = 10 << 20
)

var (
	ErrEmpty       = errors.New("resume file is empty")
	ErrTooLarge    = errors.New("resume file exceeds 10 MiB")
	ErrUnsupported = errors.New("resume must be a PDF or DOCX file")
	ErrUnreadable  = errors.New("resume file could not be read")
)

// Info describes an accepted résumé.
type Info struct {
	MimeType  string
	Pages     int
	TextChars int
}

// Inspect validates data as a PDF with at least one page or a DOCX with body
// text. All failures wrap one of the package errors.
func Inspect(data []byte, mimeType, fileName string) (Info, error) {
	if len(data) == 0 {
		return Info{}, ErrEmpty
	}
	if len(data) > MaxSize {
		return Info{}, ErrTooLarge
	}
	switch detect(data, mimeType, fileName) {
	case MimePDF:
		return inspectPDF(data)
	case MimeDOCX:
		return inspectDOCX(data)
	default:
		return Info{}, ErrUnsupported
	}
}

// detect trusts magic bytes over the declared type.
func detect(data []byte, mimeType, fileName string) string {
	if bytes.HasPrefix(data, []byte("%PDF-")) {
		return MimePDF
	}
	if bytes.HasPrefix(data, []byte("PK\x03\x04")) {
		clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
		ext := strings.ToLower(filepath.Ext(fileName))
		if clean == MimeDOCX || clean == "application/zip" || clean == "application/octet-stream" || clean == "" || ext == ".docx" {
			return MimeDOCX
		}
	}
	return ""
}

func inspectPDF(data []byte) (info Info, err error) {
	// The parser panics on some malformed inputs.
	defer func() {
		if rec := recover(); rec != nil {
			info, err = Info{}, fmt.Errorf("%w: %v", ErrUnreadable, rec)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	pages := r.NumPage()
	if pages < 1 {
		return Info{}, fmt.Errorf("%w: no pages", ErrUnreadable)
	}
	return Info{MimeType: MimePDF, Pages: pages}, nil
}

func inspectDOCX(data []byte) (Info, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return Info{}, ErrUnsupported
	}

	rc, err := docFile.Open()
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(io.LimitReader(rc, 4*MaxSize))
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	text, err := docxText(raw)
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if strings.TrimSpace(text) == "" {
		return Info{}, fmt.Errorf("%w: document has no text", ErrUnreadable)
	}
	return Info{MimeType: MimeDOCX, Pages: 1, TextChars: len([]rune(text))}, nil
}

func docxText(raw []byte) (string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.Write(t)
		case xml.EndElement:
			if (t.Name.Local == "p" || t.Name.Local == "br") && buf.Len() > 0 {
				buf.WriteString("\n")
			}
		}
	}
	return strings.TrimSpace(buf.String()), nil
}
