package controller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/krakosik/telemetry/internal/dto"
	"github.com/krakosik/telemetry/internal/service"
	"github.com/labstack/echo/v4"
)

type LocationController interface {
	Submit(c echo.Context) error
	List(c echo.Context) error
	Stream(c echo.Context) error
}

type locationController struct {
	locationService service.LocationService
}

func newLocationController(locationService service.LocationService) LocationController {
	return &locationController{
		locationService: locationService,
	}
}

func (l *locationController) Submit(c echo.Context) error {
	var request dto.LocationRequest
	if err := c.Echo().JSONSerializer.Deserialize(c, &request); err != nil {
		return fmt.Errorf("%w: %s", dto.ErrBadRequest, decodeErrorMessage(err))
	}

	ack := l.locationService.Submit(c.Request().Context(), request.ToModel())
	return c.String(http.StatusOK, ack)
}

func (l *locationController) List(c echo.Context) error {
	records := l.locationService.List(c.Request().Context())
	fieldSet := l.locationService.Stats(c.Request().Context()).FieldSet
	return c.JSON(http.StatusOK, fieldSet.Views(records))
}

// decodeErrorMessage keeps only the client-facing part of echo's decode errors.
func decodeErrorMessage(err error) string {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return fmt.Sprint(httpErr.Message)
	}
	return err.Error()
}

// Stream pushes every submission accepted while the client stays connected
// as a server-sent event.
func (l *locationController) Stream(c echo.Context) error {
	subscriberID := uuid.NewString()
	msgs, err := l.locationService.Subscribe(subscriberID)
	if err != nil {
		return err
	}
	defer l.locationService.Unsubscribe(subscriberID)

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			if _, err := fmt.Fprintf(res, "data: %s\n\n", msg); err != nil {
				return nil
			}
			res.Flush()
		case <-c.Request().Context().Done():
			return nil
		}
	}
}
