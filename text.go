package takeoff

import (
	"strings"
	"unicode"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/pkg/errors"
)

// textChar is a single character with its box in document space.
type textChar struct {
	Text rune
	Box  Rect
}

// extractPageText loads the text layer of a page and groups its
// characters into words.
func extractPageText(instance pdfium.Pdfium, page references.FPDF_PAGE, pageHeight, scale float64) ([]TextItem, error) {
	textPage, err := instance.FPDFText_LoadPage(&requests.FPDFText_LoadPage{
		Page: requests.Page{
			ByReference: &page,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load text page")
	}
	defer instance.FPDFText_ClosePage(&requests.FPDFText_ClosePage{
		TextPage: textPage.TextPage,
	})

	charCount, err := instance.FPDFText_CountChars(&requests.FPDFText_CountChars{
		TextPage: textPage.TextPage,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to count characters")
	}
	if charCount.Count == 0 {
		return nil, nil
	}

	chars := extractChars(instance, textPage.TextPage, charCount.Count, pageHeight, scale)
	return groupCharsIntoWords(chars), nil
}

func extractChars(instance pdfium.Pdfium, textPage references.FPDF_TEXTPAGE, count int, pageHeight, scale float64) []textChar {
	chars := make([]textChar, 0, count)

	for i := range count {
		unicodeRes, err := instance.FPDFText_GetUnicode(&requests.FPDFText_GetUnicode{
			TextPage: textPage,
			Index:    i,
		})
		if err != nil || unicodeRes.Unicode == 0 {
			continue
		}

		charBox, err := instance.FPDFText_GetCharBox(&requests.FPDFText_GetCharBox{
			TextPage: textPage,
			Index:    i,
		})
		if err != nil {
			continue
		}

		// PDF coordinates have the origin bottom-left
		chars = append(chars, textChar{
			Text: rune(unicodeRes.Unicode),
			Box: Rect{
				X0: charBox.Left * scale,
				Y0: (pageHeight - charBox.Top) * scale,
				X1: charBox.Right * scale,
				Y1: (pageHeight - charBox.Bottom) * scale,
			},
		})
	}
	return chars
}

// groupCharsIntoWords splits the character stream on whitespace, on line
// changes and on horizontal gaps wider than the character height.
func groupCharsIntoWords(chars []textChar) []TextItem {
	var words []TextItem
	var text strings.Builder
	var box Rect
	started := false

	flush := func() {
		if started {
			words = append(words, TextItem{Text: text.String(), Box: box})
		}
		text.Reset()
		started = false
	}

	for _, c := range chars {
		if unicode.IsSpace(c.Text) {
			flush()
			continue
		}
		if started && startsNewWord(box, c.Box) {
			flush()
		}
		if !started {
			box = c.Box
			started = true
		} else {
			box = box.Union(c.Box)
		}
		text.WriteRune(c.Text)
	}
	flush()
	return words
}

func startsNewWord(word, next Rect) bool {
	// no vertical overlap: different line
	if next.Y0 > word.Y1 || next.Y1 < word.Y0 {
		return true
	}
	gap := next.X0 - word.X1
	return gap > max(word.Height(), next.Height()) || next.X1 < word.X0
}
