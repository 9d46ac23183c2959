package routes

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/ttestive/projeto-final-web/database"
	"github.com/ttestive/projeto-final-web/handlers"
)

// Register wires all HTTP routes.
func Register(e *echo.Echo, db *gorm.DB) {
	students := database.NewStudentStore(db)

	std := handlers.NewStudentHandler(students)
	imp := handlers.NewImportHandler(students)
	rep := handlers.NewReportHandler(database.NewReportStore(db))
	att := handlers.NewAttendanceHandler(database.NewAttendanceStore(db))

	e.GET("/health", handlers.Health)

	e.GET("/students", std.List)
	e.POST("/students", std.Create)
	e.GET("/students/:id", std.Get)
	e.PUT("/students/:id", std.Update)
	e.DELETE("/students/:id", std.Delete)
	e.POST("/students/import", imp.Students)

	e.GET("/reports/top-students", rep.TopStudents)
	e.GET("/reports/top-subjects", rep.TopSubjects)

	e.GET("/attendance", att.List)
	e.POST("/attendance/import", att.Import)
}
