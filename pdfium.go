package takeoff

import (
	"context"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/enums"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
)

type objectKind int

const (
	objectOther objectKind = iota
	objectPath
	objectForm
)

// maxFormDepth bounds form XObject nesting so a form that draws itself
// cannot recurse forever.
const maxFormDepth = 16

// objectTree exposes the page objects the operator walk needs. O is the
// backend's object handle.
type objectTree[O any] interface {
	kind(obj O) objectKind
	children(obj O) []O
	matrix(obj O) ([]float64, bool)
	pathOperators(obj O) []Operator
}

// extractOperators walks the path objects of a page, descending into form
// XObjects, and rebuilds the operator stream the vector extractor consumes.
// Objects that fail to load are skipped.
func extractOperators(ctx context.Context, instance pdfium.Pdfium, page references.FPDF_PAGE) ([]Operator, error) {
	countResp, err := instance.FPDFPage_CountObjects(&requests.FPDFPage_CountObjects{
		Page: requests.Page{
			ByReference: &page,
		},
	})
	if err != nil {
		return nil, err
	}

	objs := make([]references.FPDF_PAGEOBJECT, 0, countResp.Count)
	for i := 0; i < countResp.Count; i++ {
		objResp, err := instance.FPDFPage_GetObject(&requests.FPDFPage_GetObject{
			Page: requests.Page{
				ByReference: &page,
			},
			Index: i,
		})
		if err != nil {
			continue
		}
		objs = append(objs, objResp.PageObject)
	}

	return walkObjects(ctx, nil, pdfiumObjects{instance: instance}, objs, 0)
}

// walkObjects appends the operators of objs to ops. Every object is wrapped
// in save/restore with its object matrix applied, so a form's matrix also
// applies to everything it contains.
func walkObjects[O any](ctx context.Context, ops []Operator, tree objectTree[O], objs []O, depth int) ([]Operator, error) {
	for _, obj := range objs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		switch tree.kind(obj) {
		case objectPath:
			path := tree.pathOperators(obj)
			if len(path) == 0 {
				continue
			}
			ops = appendTransformed(ops, tree, obj)
			ops = append(ops, path...)
			ops = append(ops, Operator{Code: OpEndPath}, Operator{Code: OpRestore})
		case objectForm:
			if depth >= maxFormDepth {
				continue
			}
			ops = appendTransformed(ops, tree, obj)
			var err error
			ops, err = walkObjects(ctx, ops, tree, tree.children(obj), depth+1)
			if err != nil {
				return nil, err
			}
			ops = append(ops, Operator{Code: OpRestore})
		}
	}
	return ops, nil
}

func appendTransformed[O any](ops []Operator, tree objectTree[O], obj O) []Operator {
	ops = append(ops, Operator{Code: OpSave})
	if m, ok := tree.matrix(obj); ok {
		ops = append(ops, Operator{Code: OpTransform, Args: m})
	}
	return ops
}

// pdfiumObjects reads page objects through a pdfium instance.
type pdfiumObjects struct {
	instance pdfium.Pdfium
}

func (p pdfiumObjects) kind(obj references.FPDF_PAGEOBJECT) objectKind {
	typeResp, err := p.instance.FPDFPageObj_GetType(&requests.FPDFPageObj_GetType{
		PageObject: obj,
	})
	if err != nil {
		return objectOther
	}
	switch typeResp.Type {
	case enums.FPDF_PAGEOBJ_PATH:
		return objectPath
	case enums.FPDF_PAGEOBJ_FORM:
		return objectForm
	}
	return objectOther
}

func (p pdfiumObjects) children(obj references.FPDF_PAGEOBJECT) []references.FPDF_PAGEOBJECT {
	countResp, err := p.instance.FPDFFormObj_CountObjects(&requests.FPDFFormObj_CountObjects{
		PageObject: obj,
	})
	if err != nil {
		return nil
	}

	var out []references.FPDF_PAGEOBJECT
	for i := 0; i < countResp.Count; i++ {
		childResp, err := p.instance.FPDFFormObj_GetObject(&requests.FPDFFormObj_GetObject{
			PageObject: obj,
			Index:      uint64(i),
		})
		if err != nil {
			continue
		}
		out = append(out, childResp.PageObject)
	}
	return out
}

func (p pdfiumObjects) matrix(obj references.FPDF_PAGEOBJECT) ([]float64, bool) {
	m, err := p.instance.FPDFPageObj_GetMatrix(&requests.FPDFPageObj_GetMatrix{
		PageObject: obj,
	})
	if err != nil {
		return nil, false
	}
	return []float64{
		float64(m.Matrix.A), float64(m.Matrix.B),
		float64(m.Matrix.C), float64(m.Matrix.D),
		float64(m.Matrix.E), float64(m.Matrix.F),
	}, true
}

// pathOperators rebuilds the segments of one path object. Paths with fewer
// than two segments draw nothing and yield no operators.
func (p pdfiumObjects) pathOperators(obj references.FPDF_PAGEOBJECT) []Operator {
	segCountResp, err := p.instance.FPDFPath_CountSegments(&requests.FPDFPath_CountSegments{
		PageObject: obj,
	})
	if err != nil || segCountResp.Count < 2 {
		return nil
	}

	// Bézier segments arrive as three consecutive points: c1, c2, end
	var ops []Operator
	var bezier []float64
	for i := 0; i < segCountResp.Count; i++ {
		segResp, err := p.instance.FPDFPath_GetPathSegment(&requests.FPDFPath_GetPathSegment{
			PageObject: obj,
			Index:      i,
		})
		if err != nil {
			continue
		}
		seg := segResp.PathSegment

		pt, err := p.instance.FPDFPathSegment_GetPoint(&requests.FPDFPathSegment_GetPoint{
			PathSegment: seg,
		})
		if err != nil {
			continue
		}
		typ, err := p.instance.FPDFPathSegment_GetType(&requests.FPDFPathSegment_GetType{
			PathSegment: seg,
		})
		if err != nil {
			continue
		}

		x, y := float64(pt.X), float64(pt.Y)
		switch typ.Type {
		case enums.FPDF_SEGMENT_MOVETO:
			bezier = bezier[:0]
			ops = append(ops, Operator{Code: OpMoveTo, Args: []float64{x, y}})
		case enums.FPDF_SEGMENT_LINETO:
			bezier = bezier[:0]
			ops = append(ops, Operator{Code: OpLineTo, Args: []float64{x, y}})
		case enums.FPDF_SEGMENT_BEZIERTO:
			bezier = append(bezier, x, y)
			if len(bezier) == 6 {
				ops = append(ops, Operator{Code: OpCurveTo, Args: append([]float64(nil), bezier...)})
				bezier = bezier[:0]
			}
		default:
			continue
		}

		if closeResp, err := p.instance.FPDFPathSegment_GetClose(&requests.FPDFPathSegment_GetClose{
			PathSegment: seg,
		}); err == nil && closeResp.IsClose {
			ops = append(ops, Operator{Code: OpClosePath})
		}
	}
	return ops
}
