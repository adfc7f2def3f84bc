package service

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"jobboard_backend/internal/adapters/storage"
	"jobboard_backend/platform/apperr"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"google.golang.org/genai"
)

const (
	mimePDF  = "application/pdf"
	mimeText = "text/plain"
	mimeHTML = "text/html"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	defaultMaxSourceBytes = 20 << 20
	fetchTimeout          = 30 * time.Second
)

// Source is a posting document loaded into memory.
type Source struct {
	Data     []byte
	MIMEType string
}

// Fetcher downloads a posting from a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (Source, error)
}

// HTTPFetcher fetches over plain HTTP(S).
type HTTPFetcher struct {
	client   *http.Client
	maxBytes int64
}

// NewHTTPFetcher caps the body at maxBytes; 0 means the default.
func NewHTTPFetcher(maxBytes int64) *HTTPFetcher {
	if maxBytes <= 0 {
		maxBytes = defaultMaxSourceBytes
	}
	return &HTTPFetcher{client: &http.Client{Timeout: fetchTimeout}, maxBytes: maxBytes}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (Source, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Source{}, apperr.BadRequest("invalid file url")
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return Source{}, apperr.Wrap(apperr.KindUpstream, "failed to fetch file", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Source{}, apperr.Upstream(fmt.Sprintf("failed to fetch file: %s", resp.Status))
	}
	data, err := readLimited(resp.Body, f.maxBytes)
	if err != nil {
		return Source{}, err
	}
	return Source{Data: data, MIMEType: detectMIME(resp.Header.Get("Content-Type"), data)}, nil
}

func readLimited(r io.Reader, maxBytes int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, apperr.BadRequest(fmt.Sprintf("file exceeds maximum allowed size of %d bytes", maxBytes))
	}
	return data, nil
}

// detectMIME trusts the declared type when it is specific, else sniffs.
func detectMIME(declared string, data []byte) string {
	mime := storage.NormalizeContentType(declared)
	if mime == "" || mime == "application/octet-stream" || mime == "binary/octet-stream" {
		mime = storage.NormalizeContentType(http.DetectContentType(data))
	}
	// DOCX sniffs as a zip archive.
	if mime == "application/zip" && bytes.Contains(data, []byte("word/document.xml")) {
		return mimeDOCX
	}
	return mime
}

// Parts converts a source into model input. PDFs and images go inline;
// text formats are sent as text.
func (s Source) Parts() ([]*genai.Part, error) {
	switch {
	case s.MIMEType == mimePDF || strings.HasPrefix(s.MIMEType, "image/"):
		return []*genai.Part{genai.NewPartFromBytes(s.Data, s.MIMEType)}, nil
	case s.MIMEType == mimeText:
		return []*genai.Part{genai.NewPartFromText(string(s.Data))}, nil
	case s.MIMEType == mimeHTML:
		md, err := htmltomarkdown.ConvertString(string(s.Data))
		if err != nil {
			return nil, apperr.BadRequest("could not read html page")
		}
		return []*genai.Part{genai.NewPartFromText(md)}, nil
	case s.MIMEType == mimeDOCX:
		text, err := DocxText(s.Data)
		if err != nil {
			return nil, apperr.BadRequest("could not read docx file")
		}
		return []*genai.Part{genai.NewPartFromText(text)}, nil
	default:
		return nil, apperr.BadRequest(fmt.Sprintf("unsupported file type %q", s.MIMEType))
	}
}

// DocxText returns the paragraph text of a Word document.
func DocxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open docx: %w", err)
	}
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open document.xml: %w", err)
		}
		defer rc.Close()
		return paragraphs(rc)
	}
	return "", fmt.Errorf("docx has no word/document.xml")
}

func paragraphs(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var (
		out    strings.Builder
		inText bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				out.WriteByte('\t')
			case "br":
				out.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				out.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				out.Write(t)
			}
		}
	}
	return strings.TrimSpace(out.String()), nil
}
