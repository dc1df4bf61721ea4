package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
)

// Partition splits an entity's attributes into three named lists.
type Partition struct {
	Keys       []string `json:"keys" bson:"keys" yaml:"keys"`
	Timestamps []string `json:"timestamps" bson:"timestamps" yaml:"timestamps"`
	Fields     []string `json:"fields" bson:"fields" yaml:"fields"`
}

// Relation is an outgoing reference from one entity to another.
type Relation struct {
	TargetID string `json:"relacion_a_db_id" bson:"relacion_a_db_id"`
	Property string `json:"nombre_propiedad" bson:"nombre_propiedad"`
}

// EntityRecord is one element of a dataset.
//
// Nil fields were absent in the input. The ingestor rejects records missing
// any of ID, Title, Schema or Relations.
type EntityRecord struct {
	ID        *string    `json:"id" bson:"id" validate:"required,min=1"`
	Title     *string    `json:"titulo" bson:"titulo"`
	Schema    *Partition `json:"propiedades_esquema" bson:"propiedades_esquema" validate:"required"`
	Relations []Relation `json:"relaciones" bson:"relaciones" validate:"required"`

	decodeErr error
}

// Identifier returns the record's id, or "" when absent.
func (r EntityRecord) Identifier() string {
	if r.ID == nil {
		return ""
	}
	return *r.ID
}

// TitleOrEmpty returns the record's title, or "" when absent.
func (r EntityRecord) TitleOrEmpty() string {
	if r.Title == nil {
		return ""
	}
	return *r.Title
}

// recordFields maps the wire names of an entity record to its fields. Both
// encoding/json and the bson struct codec fall back to case-insensitive
// matching, so records are decoded key by key: "ID" or "Titulo" must count
// as absent.
var recordFields = []struct {
	key string
	dst func(*EntityRecord) any
}{
	{"id", func(r *EntityRecord) any { return &r.ID }},
	{"titulo", func(r *EntityRecord) any { return &r.Title }},
	{"propiedades_esquema", func(r *EntityRecord) any { return &r.Schema }},
	{"relaciones", func(r *EntityRecord) any { return &r.Relations }},
}

func decodeJSONRecord(raw json.RawMessage) (EntityRecord, error) {
	var rec EntityRecord
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return rec, err
	}
	for _, f := range recordFields {
		v, ok := fields[f.key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(v, f.dst(&rec)); err != nil {
			return EntityRecord{}, fmt.Errorf("%s: %w", f.key, err)
		}
	}
	return rec, nil
}

func decodeBSONRecord(doc bson.Raw) (EntityRecord, error) {
	var rec EntityRecord
	for _, f := range recordFields {
		v, err := doc.LookupErr(f.key)
		if err != nil {
			continue
		}
		if err := v.Unmarshal(f.dst(&rec)); err != nil {
			return EntityRecord{}, fmt.Errorf("%s: %w", f.key, err)
		}
	}
	return rec, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Title may be empty, but the key must exist.
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		rec := sl.Current().Interface().(EntityRecord)
		if rec.Title == nil {
			sl.ReportError(rec.Title, "titulo", "Title", "present", "")
		}
	}, EntityRecord{})
	return v
}

// Validate reports why a record cannot become a node, or nil if it can.
// An empty id counts as missing.
func Validate(rec EntityRecord) error {
	if rec.decodeErr != nil {
		return rec.decodeErr
	}
	if err := validate.Struct(rec); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		switch e.Tag() {
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must not be empty", e.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is required", e.Field()))
		}
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}
