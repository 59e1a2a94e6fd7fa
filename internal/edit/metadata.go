package edit

import "github.com/roach88/rollforward/internal/model"

// Metadata field names, as they appear on the wire.
const (
	FieldStartDate   = "startDate"
	FieldRunDays     = "runDays"
	FieldUID         = "uid"
	FieldDescription = "id_description"
)

// MetadataFields lists the editable metadata fields.
var MetadataFields = []string{FieldStartDate, FieldRunDays, FieldUID, FieldDescription}

// SetMetadataField returns meta with one field replaced. startDate and
// runDays are parsed with ParseInt.
func SetMetadataField(meta model.ModelMetaData, field, raw string) (model.ModelMetaData, error) {
	switch field {
	case FieldStartDate:
		meta.StartDate = ParseInt(raw)
	case FieldRunDays:
		meta.RunDays = ParseInt(raw)
	case FieldUID:
		meta.UID = raw
	case FieldDescription:
		meta.Description = raw
	default:
		return meta, unknownField("metadata", field)
	}
	return meta, nil
}
