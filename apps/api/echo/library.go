package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/mentor/core/library"
)

type libraryApi struct {
	service *library.Service
}

func registerLibraryAPI(g *echo.Group, svc *library.Service) {
	api := libraryApi{service: svc}

	g.GET("/library", api.resources)
	g.GET("/events", api.events)
}

// resources: ?course=CS301&tag=dbms
func (api libraryApi) resources(ctx echo.Context) error {
	filter := library.QueryFilter{
		CourseCode: ctx.QueryParam("course"),
		Tag:        ctx.QueryParam("tag"),
	}

	resources, err := api.service.Resources(ctx.Request().Context(), filter)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, resources)
}

func (api libraryApi) events(ctx echo.Context) error {
	events, err := api.service.Events(ctx.Request().Context(), ctx.QueryParam("tag"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, events)
}
