package document

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"strings"

	"github.com/turtacn/protoscribe/pkg/errors"
)

// docxExtractor pulls paragraph text out of the main document part of a DOCX
// archive. DOCX files are ZIP containers with the body in word/document.xml;
// text lives in w:t runs grouped into w:p paragraphs.
type docxExtractor struct{}

func (docxExtractor) Extract(_ context.Context, data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeDocumentExtractFailed, "open docx archive")
	}

	var body *zip.File
	for _, f := range reader.File {
		if f.Name == "word/document.xml" {
			body = f
			break
		}
	}
	if body == nil {
		return "", errors.New(errors.ErrCodeDocumentExtractFailed, "docx archive has no document body")
	}

	rc, err := body.Open()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeDocumentExtractFailed, "open docx body")
	}
	defer rc.Close()

	paragraphs, err := readParagraphs(rc)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeDocumentExtractFailed, "parse docx body")
	}
	return strings.Join(paragraphs, "\n"), nil
}

func readParagraphs(r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)

	var (
		paragraphs []string
		current    strings.Builder
		inText     bool
	)
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				current.WriteByte('\t')
			case "br":
				current.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if text := current.String(); strings.TrimSpace(text) != "" {
					paragraphs = append(paragraphs, text)
				}
				current.Reset()
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}
	return paragraphs, nil
}
