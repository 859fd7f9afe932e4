// Package wire converts service records to and from the flat JSON payload
// stored under each record key, and projects keyed collections into slices.
package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/techxplorers/portfolio/internal/domain/model"
)

// Payload is the stored shape of a service record. The record ID is the key
// the payload lives under and is never part of it. Every field is always
// written so that merge-style updates overwrite cleared values.
type Payload struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Price       string      `json:"price"`
	Category    string      `json:"category"`
	Features    FeatureList `json:"features"`
	Icon        string      `json:"icon"`
	Highlight   bool        `json:"highlight"`
	ImagePath   string      `json:"imagePath"`
}

// FromRecord builds the stored payload for r.
func FromRecord(r model.ServiceRecord) Payload {
	features := r.Features
	if features == nil {
		features = []string{}
	}

	return Payload{
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		Category:    string(r.Category),
		Features:    FeatureList(features),
		Icon:        r.Icon,
		Highlight:   r.Highlight,
		ImagePath:   r.ImagePath,
	}
}

// ToRecord converts the payload stored under id into a ServiceRecord.
func (p Payload) ToRecord(id string) model.ServiceRecord {
	features := []string(p.Features)
	if features == nil {
		features = []string{}
	}

	return model.ServiceRecord{
		ID:          id,
		Title:       p.Title,
		Description: p.Description,
		Price:       strings.TrimSpace(p.Price),
		Category:    model.Category(p.Category),
		Features:    features,
		Icon:        p.Icon,
		Highlight:   p.Highlight,
		ImagePath:   strings.TrimSpace(p.ImagePath),
	}
}

// Encode marshals r into its stored JSON form.
func Encode(r model.ServiceRecord) ([]byte, error) {
	data, err := json.Marshal(FromRecord(r))
	if err != nil {
		return nil, fmt.Errorf("encode service payload: %w", err)
	}
	return data, nil
}

// DecodeRecord unmarshals the payload stored under id.
func DecodeRecord(id string, raw []byte) (model.ServiceRecord, error) {
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return model.ServiceRecord{}, fmt.Errorf("decode service %q: %w", id, err)
	}
	return p.ToRecord(id), nil
}

// DecodeCollection projects a keyed collection into a slice of records.
// A JSON null or empty body yields an empty slice. Collections stored with
// sequential integer keys may arrive as JSON arrays; array holes are skipped.
// Entries whose payload cannot be decoded are left out and their keys
// returned in skipped; only a malformed collection is an error. Records are
// sorted by ID only so that projections are reproducible.
func DecodeCollection(raw []byte) (records []model.ServiceRecord, skipped []string, err error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []model.ServiceRecord{}, nil, nil
	}

	entries := map[string]json.RawMessage{}
	if raw[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, nil, fmt.Errorf("decode service collection: %w", err)
		}
		for i, item := range items {
			entries[strconv.Itoa(i)] = item
		}
	} else if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, nil, fmt.Errorf("decode service collection: %w", err)
	}

	records = make([]model.ServiceRecord, 0, len(entries))
	for id, item := range entries {
		item = bytes.TrimSpace(item)
		if len(item) == 0 || bytes.Equal(item, []byte("null")) {
			continue
		}
		record, err := DecodeRecord(id, item)
		if err != nil {
			skipped = append(skipped, id)
			continue
		}
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	sort.Strings(skipped)
	return records, skipped, nil
}

// FeatureList is the stored features field. At rest it is always written as
// a JSON array. On read it also accepts a comma-separated string, left by
// clients that stored the raw form text, and an object keyed by index, which
// is how the tree store delivers an array that was patched element-wise.
type FeatureList []string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FeatureList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = FeatureList{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FeatureList(model.SplitFeatures(s))
		return nil

	case '{':
		var byIndex map[string]string
		if err := json.Unmarshal(data, &byIndex); err != nil {
			return err
		}
		keys := make([]int, 0, len(byIndex))
		for k := range byIndex {
			n, err := strconv.Atoi(k)
			if err != nil {
				return fmt.Errorf("features: non-index key %q", k)
			}
			keys = append(keys, n)
		}
		sort.Ints(keys)
		list := make(FeatureList, 0, len(keys))
		for _, k := range keys {
			list = append(list, byIndex[strconv.Itoa(k)])
		}
		*f = list
		return nil

	default:
		var list []*string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		out := make(FeatureList, 0, len(list))
		for _, s := range list {
			if s != nil {
				out = append(out, *s)
			}
		}
		*f = out
		return nil
	}
}
