package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/matzehuels/schemagraph/pkg/errors"
)

// Format identifies a dataset encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatBSON    Format = "bson"
	FormatExtJSON Format = "extjson"
)

// Formats lists the supported dataset encodings.
var Formats = []Format{FormatJSON, FormatBSON, FormatExtJSON}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown dataset format %q (want json, bson or extjson)", s)
}

// DetectFormat picks a format from a file name, defaulting to JSON.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bson":
		return FormatBSON
	case ".extjson":
		return FormatExtJSON
	default:
		return FormatJSON
	}
}

// Dataset is a decoded sequence of entity records in input order.
type Dataset struct {
	Records []EntityRecord

	// Diagnostics holds dataset-level findings, such as a top level that is
	// not a list.
	Diagnostics errors.Diagnostics
}

// documentKey is the field holding the record array in BSON documents.
const documentKey = "databases"

// Decode parses a dataset. It returns an error only for bytes that are not
// valid in the given format at all.
func Decode(data []byte, format Format) (*Dataset, error) {
	switch format {
	case FormatJSON, "":
		return decodeJSON(data)
	case FormatBSON:
		var doc struct {
			Databases bson.RawValue `bson:"databases"`
		}
		if err := bson.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "decode bson document")
		}
		return fromRawArray(doc.Databases)
	case FormatExtJSON:
		var doc struct {
			Databases bson.RawValue `bson:"databases"`
		}
		if err := bson.UnmarshalExtJSON(data, false, &doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "decode extended json document")
		}
		return fromRawArray(doc.Databases)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown dataset format %q", format)
	}
}

func decodeJSON(data []byte) (*Dataset, error) {
	if !json.Valid(data) {
		return nil, errors.New(errors.ErrCodeInvalidDataset, "dataset is not valid json")
	}
	ds := &Dataset{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		ds.Diagnostics.Add(errors.LevelError, errors.ErrCodeInvalidDataset, "",
			"dataset top level is not a list")
		return ds, nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "decode json dataset")
	}
	ds.Records = make([]EntityRecord, len(elems))
	for i, raw := range elems {
		rec, err := decodeJSONRecord(raw)
		if err != nil {
			rec = EntityRecord{decodeErr: fmt.Errorf("element %d: %w", i, err)}
		}
		ds.Records[i] = rec
	}
	return ds, nil
}

func fromRawArray(v bson.RawValue) (*Dataset, error) {
	ds := &Dataset{}
	if v.Type != bson.TypeArray {
		ds.Diagnostics.Add(errors.LevelError, errors.ErrCodeInvalidDataset, "",
			"%q is not a list", documentKey)
		return ds, nil
	}
	elems, err := v.Array().Values()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "read %q array", documentKey)
	}
	ds.Records = make([]EntityRecord, len(elems))
	for i, raw := range elems {
		if raw.Type != bson.TypeEmbeddedDocument {
			ds.Records[i] = EntityRecord{decodeErr: fmt.Errorf("element %d: not a document", i)}
			continue
		}
		rec, err := decodeBSONRecord(raw.Document())
		if err != nil {
			rec = EntityRecord{decodeErr: fmt.Errorf("element %d: %w", i, err)}
		}
		ds.Records[i] = rec
	}
	return ds, nil
}
