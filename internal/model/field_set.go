package model

import "fmt"

type FieldSet string

const (
	FieldSetBasic    FieldSet = "basic"
	FieldSetExtended FieldSet = "extended"
)

func ParseFieldSet(s string) (FieldSet, error) {
	switch FieldSet(s) {
	case FieldSetBasic, FieldSetExtended:
		return FieldSet(s), nil
	case "":
		return FieldSetExtended, nil
	default:
		return "", fmt.Errorf("unknown field set %q", s)
	}
}

// View returns the value that is serialized for the record under this field set.
func (fs FieldSet) View(record LocationRecord) any {
	if fs == FieldSetBasic {
		return record.Basic()
	}
	return record
}

// Views maps a slice of records to their serialized form. It never returns nil.
func (fs FieldSet) Views(records []LocationRecord) []any {
	views := make([]any, 0, len(records))
	for _, record := range records {
		views = append(views, fs.View(record))
	}
	return views
}

// LogFields returns the record fields reported by the diagnostic log for this field set.
func (fs FieldSet) LogFields(record LocationRecord) map[string]interface{} {
	fields := map[string]interface{}{
		"name": record.Name,
		"code": record.Code,
		"lat":  record.Latitude,
		"lng":  record.Longitude,
	}
	if fs == FieldSetBasic {
		return fields
	}
	fields["speedKmh"] = record.SpeedKmh
	fields["accelX"] = record.AccelX
	fields["accelY"] = record.AccelY
	fields["accelZ"] = record.AccelZ
	fields["steps"] = record.Steps
	return fields
}
