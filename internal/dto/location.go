package dto

import "github.com/krakosik/telemetry/internal/model"

type LocationRequest struct {
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

func (r LocationRequest) ToModel() model.LocationRecord {
	return model.LocationRecord{
		Name:      r.Name,
		Code:      r.Code,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		SpeedKmh:  r.SpeedKmh,
		AccelX:    r.AccelX,
		AccelY:    r.AccelY,
		AccelZ:    r.AccelZ,
		Steps:     r.Steps,
	}
}

type InfoResponse struct {
	Service  string `json:"service"`
	Version  string `json:"version"`
	Records  int    `json:"records"`
	FieldSet string `json:"fieldSet"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}
