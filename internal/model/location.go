package model

type LocationRecord struct {
	Name      string  `json:"name"`
	Code      string  `json:"code"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
	SpeedKmh  float64 `json:"speedKmh"`
	AccelX    float32 `json:"accelX"`
	AccelY    float32 `json:"accelY"`
	AccelZ    float32 `json:"accelZ"`
	Steps     int     `json:"steps"`
}

// BasicLocationRecord is the serialized view of a record under FieldSetBasic.
type BasicLocationRecord struct {
	Name      string  `json:"name"`
	Code      string  `json:"code"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

func (r LocationRecord) Basic() BasicLocationRecord {
	return BasicLocationRecord{
		Name:      r.Name,
		Code:      r.Code,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
	}
}
