package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/trezcool/mentor/core/mentor"
)

type mentorApi struct {
	service  *mentor.Service
	validate *validator.Validate
}

type contextResponse struct {
	StudentID string      `json:"student_id"`
	Kind      mentor.Kind `json:"kind"`
	Context   string      `json:"context"`
}

func registerMentorAPI(dg *echo.Group, svc *mentor.Service, validate *validator.Validate) {
	api := mentorApi{service: svc, validate: validate}

	dg.GET("/context", api.context)
	dg.POST("/mentor", api.ask)
}

func (api mentorApi) context(ctx echo.Context) error {
	kind, err := mentor.ParseKind(ctx.QueryParam("kind"))
	if err != nil {
		return err
	}

	studentID := ctx.Param("id")
	block, err := api.service.Assembler().Context(ctx.Request().Context(), studentID, kind)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, contextResponse{StudentID: studentID, Kind: kind, Context: block})
}

func (api mentorApi) ask(ctx echo.Context) error {
	var data MentorRequest
	if err := ctx.Bind(&data); err != nil {
		return err
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	answer, err := api.service.Answer(ctx.Request().Context(), ctx.Param("id"), data.Query)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, answer)
}
