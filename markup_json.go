package takeoff

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

type markupRecord struct {
	ID        string          `json:"id"`
	Type      Kind            `json:"type"`
	Page      int             `json:"page"`
	Style     Style           `json:"style"`
	Locked    bool            `json:"locked,omitempty"`
	Author    string          `json:"author,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	Text      string          `json:"text,omitempty"`
	Geometry  json.RawMessage `json:"geometry"`
}

// MarshalJSON encodes m with a "type" discriminator and its geometry.
func (m Markup) MarshalJSON() ([]byte, error) {
	geometry, err := json.Marshal(m.Shape)
	if err != nil {
		return nil, errors.Wrap(err, "encode geometry")
	}
	return json.Marshal(markupRecord{
		ID:        m.ID,
		Type:      m.Kind,
		Page:      m.Page,
		Style:     m.Style,
		Locked:    m.Locked,
		Author:    m.Author,
		CreatedAt: m.CreatedAt,
		Text:      m.Text,
		Geometry:  geometry,
	})
}

// UnmarshalJSON decodes a record written by MarshalJSON.
func (m *Markup) UnmarshalJSON(data []byte) error {
	var rec markupRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}

	var shape Shape
	var err error
	switch rec.Type.Family() {
	case FamilyBox:
		shape, err = decodeShape[Box](rec.Geometry)
	case FamilySegment:
		shape, err = decodeShape[Line](rec.Geometry)
	case FamilyPath:
		shape, err = decodeShape[Path](rec.Geometry)
	case FamilyCount:
		shape, err = decodeShape[CountMarker](rec.Geometry)
	case FamilyMeasurement:
		shape, err = decodeShape[Measurement](rec.Geometry)
	default:
		return errors.Errorf("unknown markup type %q", rec.Type)
	}
	if err != nil {
		return errors.Wrapf(err, "decode %s geometry", rec.Type)
	}

	*m = Markup{
		ID:        rec.ID,
		Kind:      rec.Type,
		Page:      rec.Page,
		Style:     rec.Style,
		Locked:    rec.Locked,
		Author:    rec.Author,
		CreatedAt: rec.CreatedAt,
		Text:      rec.Text,
		Shape:     shape,
	}
	return nil
}

func decodeShape[T Shape](raw json.RawMessage) (Shape, error) {
	var s T
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return s, nil
}
