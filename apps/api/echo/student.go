package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/mentor/core/student"
)

type studentApi struct {
	service student.ServiceInterface
}

// registerStudentAPI mounts /students and returns the /students/:id group.
func registerStudentAPI(g *echo.Group, svc student.ServiceInterface) *echo.Group {
	api := studentApi{service: svc}

	sg := g.Group("/students")
	sg.GET("", api.query)
	sg.POST("", api.create)

	dg := sg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.GET("/attendance", api.attendance)
	dg.POST("/attendance", api.addAttendance)
	dg.GET("/marks", api.marks)
	dg.POST("/marks", api.addMark)
	dg.GET("/results", api.results)
	return dg
}

func (api studentApi) query(ctx echo.Context) error {
	ord := new(Ordering)
	ord.Bind(ctx)

	students, err := api.service.Query(ctx.Request().Context(), ord.Orderings)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api studentApi) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return err
	}

	st, err := api.service.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, st)
}

func (api studentApi) retrieve(ctx echo.Context) error {
	st, err := api.service.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api studentApi) attendance(ctx echo.Context) error {
	report, err := api.service.AttendanceReport(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, report)
}

func (api studentApi) addAttendance(ctx echo.Context) error {
	var data student.NewAttendance
	if err := ctx.Bind(&data); err != nil {
		return err
	}

	att, err := api.service.AddAttendance(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, student.NewAttendanceStatus(att))
}

func (api studentApi) marks(ctx echo.Context) error {
	marks, err := api.service.Marks(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, marks)
}

func (api studentApi) addMark(ctx echo.Context) error {
	var data student.NewMark
	if err := ctx.Bind(&data); err != nil {
		return err
	}

	mark, err := api.service.AddMark(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, mark)
}

func (api studentApi) results(ctx echo.Context) error {
	results, err := api.service.Results(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, results)
}
