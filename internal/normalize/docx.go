package normalize

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

type docxNormalizer struct{}

func (docxNormalizer) Kind() string { return KindDOCX }

// Normalize treats the file as an OOXML container, pulls
// word/document.xml, and joins the text of the body paragraphs in document
// order with newlines. Images carry no w:t runs and are skipped naturally;
// table content is excluded.
func (docxNormalizer) Normalize(data []byte) (Content, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Content{}, &ParseError{Kind: KindDOCX, Err: fmt.Errorf("open container: %w", err)}
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			if err != nil {
				return Content{}, &ParseError{Kind: KindDOCX, Err: err}
			}
			docXML, err = io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return Content{}, &ParseError{Kind: KindDOCX, Err: err}
			}
			break
		}
	}
	if docXML == nil {
		return Content{}, &ParseError{Kind: KindDOCX, Err: fmt.Errorf("document.xml not found")}
	}

	text, err := paragraphText(docXML)
	if err != nil {
		return Content{}, &ParseError{Kind: KindDOCX, Err: err}
	}
	return Content{Text: text}, nil
}

// paragraphText walks the document XML collecting w:t runs per body-level
// w:p paragraph. Paragraphs nested inside w:tbl are table content, not
// narrative text, and do not contribute.
func paragraphText(docXML []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(docXML))
	var (
		paragraphs []string
		current    strings.Builder
		inText     bool
		tblDepth   int
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("malformed document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tblDepth++
			case "t":
				inText = tblDepth == 0
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "tbl":
				tblDepth--
			case "t":
				inText = false
			case "p":
				if tblDepth == 0 {
					paragraphs = append(paragraphs, current.String())
				}
				current.Reset()
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}
	return strings.Join(paragraphs, "\n"), nil
}
