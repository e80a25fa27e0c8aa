package takeoff

import (
	"context"
	"sync"
	"time"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/pkg/errors"
)

// ErrInvalidPageRange is returned for page numbers outside the document.
var ErrInvalidPageRange = errors.New("invalid page range")

// ErrNoDocument is returned when no document is open.
var ErrNoDocument = errors.New("no document open")

// Document provides page geometry and text from a PDF through pdfium.
// Page numbers are 1-based. Calls are serialized.
type Document struct {
	instance pdfium.Pdfium
	config   Config

	mu        sync.Mutex
	doc       references.FPDF_DOCUMENT
	open      bool
	pageCount int
}

// NewDocument creates a document reader with default configuration.
func NewDocument(instance pdfium.Pdfium) *Document {
	return &Document{
		instance: instance,
		config:   DefaultConfig(),
	}
}

// NewDocumentWithConfig creates a document reader with custom configuration.
func NewDocumentWithConfig(instance pdfium.Pdfium, config Config) *Document {
	return &Document{
		instance: instance,
		config:   config,
	}
}

// Open opens a PDF file, closing any previously open document.
func (d *Document) Open(filePath string) error {
	return d.openRequest(&requests.OpenDocument{
		FilePath: &filePath,
	})
}

// OpenBytes opens a PDF held in memory.
func (d *Document) OpenBytes(pdfBytes []byte) error {
	return d.openRequest(&requests.OpenDocument{
		File: &pdfBytes,
	})
}

func (d *Document) openRequest(req *requests.OpenDocument) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_ = d.closeLocked()

	start := time.Now()
	doc, err := d.instance.OpenDocument(req)
	if err != nil {
		return errors.Wrap(err, "failed to open PDF document")
	}

	pageCount, err := d.instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{
		Document: doc.Document,
	})
	if err != nil {
		d.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
			Document: doc.Document,
		})
		return errors.Wrap(err, "failed to get page count")
	}

	d.doc = doc.Document
	d.open = true
	d.pageCount = pageCount.PageCount

	if d.config.EnableMetricsLogging {
		d.config.logger().Printf("Document opened in %v (%d pages)", time.Since(start), d.pageCount)
	}
	return nil
}

// PageCount returns the number of pages, or 0 when nothing is open.
func (d *Document) PageCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pageCount
}

// PageContent returns the size, operator stream and words of a page.
func (d *Document) PageContent(ctx context.Context, pageNumber int) (PageContent, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.open {
		return PageContent{}, ErrNoDocument
	}
	if pageNumber < 1 || pageNumber > d.pageCount {
		return PageContent{}, errors.Wrapf(ErrInvalidPageRange, "page %d of %d", pageNumber, d.pageCount)
	}

	pageStart := time.Now()
	pageResp, err := d.instance.FPDF_LoadPage(&requests.FPDF_LoadPage{
		Document: d.doc,
		Index:    pageNumber - 1,
	})
	if err != nil {
		return PageContent{}, errors.Wrap(err, "failed to load page")
	}
	defer d.instance.FPDF_ClosePage(&requests.FPDF_ClosePage{
		Page: pageResp.Page,
	})

	content, err := d.extractPage(ctx, pageResp.Page, pageNumber)
	if err != nil {
		return PageContent{}, errors.Wrapf(err, "failed to extract page %d", pageNumber)
	}

	if d.config.EnableMetricsLogging {
		d.config.logger().Printf("Page %d/%d extracted in %v (%d operators, %d words)",
			pageNumber, d.pageCount, time.Since(pageStart), len(content.Operators), len(content.Text))
	}
	return content, nil
}

func (d *Document) extractPage(ctx context.Context, page references.FPDF_PAGE, pageNumber int) (PageContent, error) {
	widthResp, err := d.instance.FPDF_GetPageWidthF(&requests.FPDF_GetPageWidthF{
		Page: requests.Page{
			ByReference: &page,
		},
	})
	if err != nil {
		return PageContent{}, errors.Wrap(err, "failed to get page width")
	}
	heightResp, err := d.instance.FPDF_GetPageHeightF(&requests.FPDF_GetPageHeightF{
		Page: requests.Page{
			ByReference: &page,
		},
	})
	if err != nil {
		return PageContent{}, errors.Wrap(err, "failed to get page height")
	}
	width, height := float64(widthResp.PageWidth), float64(heightResp.PageHeight)

	ops, err := extractOperators(ctx, d.instance, page)
	if err != nil {
		return PageContent{}, errors.Wrap(err, "failed to read path objects")
	}

	scale := d.config.Limits.RenderScale
	if scale == 0 {
		scale = 1
	}
	words, err := extractPageText(d.instance, page, height, scale)
	if err != nil {
		return PageContent{}, err
	}

	return PageContent{
		Number:    pageNumber,
		Width:     width,
		Height:    height,
		Operators: ops,
		Text:      words,
	}, nil
}

// Close releases the open document. It is safe to call more than once.
func (d *Document) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closeLocked()
}

func (d *Document) closeLocked() error {
	if !d.open {
		return nil
	}
	d.open = false
	d.pageCount = 0
	_, err := d.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: d.doc,
	})
	if err != nil {
		return errors.Wrap(err, "failed to close PDF document")
	}
	return nil
}
