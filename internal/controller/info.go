package controller

import (
	"net/http"

	"github.com/krakosik/telemetry/internal/dto"
	"github.com/krakosik/telemetry/internal/service"
	"github.com/labstack/echo/v4"
)

type InfoController interface {
	Info(c echo.Context) error
}

type infoController struct {
	locationService service.LocationService
}

func newInfoController(locationService service.LocationService) InfoController {
	return &infoController{
		locationService: locationService,
	}
}

func (i *infoController) Info(c echo.Context) error {
	stats := i.locationService.Stats(c.Request().Context())
	return c.JSON(http.StatusOK, dto.InfoResponse{
		Service:  dto.ServiceName,
		Version:  dto.ServiceVersion,
		Records:  stats.Records,
		FieldSet: string(stats.FieldSet),
	})
}
