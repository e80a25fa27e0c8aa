package takeoff

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/ivanvanderbyl/markdown"
	"github.com/pkg/errors"
)

// PageReport is the input for one page of a takeoff report.
type PageReport struct {
	Page    int
	Scale   Scale
	Markups []Markup
}

type kindTotal struct {
	items int
	total float64
	unit  string
}

// RenderReport renders a quantity summary of the given pages as markdown:
// per page, the markups per kind with their scaled totals, followed by the
// count groups.
func RenderReport(title string, pages []PageReport) (string, error) {
	var buf bytes.Buffer
	md := markdown.NewMarkdown(&buf)

	md.H1(title)
	md.LF()

	for _, p := range pages {
		md.H2(fmt.Sprintf("Page %d", p.Page))
		md.LF()
		md.PlainText(fmt.Sprintf("Scale: %.4f px/%s, %d markups", p.Scale.PixelsPerUnit, p.Scale.Unit, len(p.Markups)))
		md.LF()

		if len(p.Markups) == 0 {
			continue
		}
		writeKindTable(md, p)
		md.LF()

		if groups := GroupCounts(p.Markups); len(groups) > 0 {
			writeCountTable(md, p.Markups, groups)
			md.LF()
		}
	}

	if err := md.Build(); err != nil {
		return "", errors.Wrap(err, "failed to build report")
	}
	return buf.String(), nil
}

func writeKindTable(md *markdown.Markdown, p PageReport) {
	totals := make(map[Kind]*kindTotal)
	for _, m := range p.Markups {
		t, ok := totals[m.Kind]
		if !ok {
			t = &kindTotal{}
			totals[m.Kind] = t
		}
		t.items++
		if meas, ok := m.Shape.(Measurement); ok {
			t.total += meas.ScaledValue
			t.unit = meas.Unit
			if m.Kind == KindMeasureArea {
				t.unit = meas.Unit + "²"
			}
		}
	}

	kinds := make([]Kind, 0, len(totals))
	for k := range totals {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	rows := make([][]string, 0, len(kinds))
	for _, k := range kinds {
		t := totals[k]
		total := ""
		if t.unit != "" {
			total = fmt.Sprintf("%.2f %s", t.total, t.unit)
		}
		rows = append(rows, []string{string(k), fmt.Sprintf("%d", t.items), total})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Kind", "Items", "Total"},
		Rows:   rows,
	})
}

func writeCountTable(md *markdown.Markdown, markups []Markup, groups map[string]int) {
	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		product := ""
		if first := CountMarkers(markups, id); len(first) > 0 {
			product = first[0].Shape.(CountMarker).ProductID
		}
		rows = append(rows, []string{id, product, fmt.Sprintf("%d", groups[id])})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Count group", "Product", "Markers"},
		Rows:   rows,
	})
}
