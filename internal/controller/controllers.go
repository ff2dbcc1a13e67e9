package controller

import (
	"github.com/krakosik/telemetry/internal/service"
	"github.com/labstack/echo/v4"
)

type Controllers interface {
	Location() LocationController
	Info() InfoController

	Route(e *echo.Echo)
}

type controllers struct {
	locationController LocationController
	infoController     InfoController
}

func NewControllers(services service.Services) Controllers {
	locationController := newLocationController(services.Location())
	infoController := newInfoController(services.Location())
	return &controllers{
		locationController: locationController,
		infoController:     infoController,
	}
}

func (c controllers) Location() LocationController {
	return c.locationController
}

func (c controllers) Info() InfoController {
	return c.infoController
}

func (c controllers) Route(e *echo.Echo) {
	e.GET("/", c.infoController.Info)

	e.POST("/location", c.locationController.Submit)
	e.GET("/location", c.locationController.List)
	e.GET("/location/stream", c.locationController.Stream)
}
