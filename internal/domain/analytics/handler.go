package analytics

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/analytics")
	g.GET("/dashboard", h.Dashboard)
	g.GET("/appointments-by-type", h.AppointmentsByType)
	g.GET("/appointments-by-status", h.AppointmentsByStatus)
	g.GET("/species-distribution", h.SpeciesDistribution)
	g.GET("/monthly-appointments", h.MonthlyAppointments)
	g.GET("/revenue-by-month", h.RevenueByMonth)
}

func (h *Handler) Dashboard(c echo.Context) error {
	stats, err := h.svc.Dashboard(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) AppointmentsByType(c echo.Context) error {
	result, err := h.svc.AppointmentsByType(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) AppointmentsByStatus(c echo.Context) error {
	result, err := h.svc.AppointmentsByStatus(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) SpeciesDistribution(c echo.Context) error {
	result, err := h.svc.SpeciesDistribution(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) MonthlyAppointments(c echo.Context) error {
	result, err := h.svc.MonthlyAppointments(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) RevenueByMonth(c echo.Context) error {
	result, err := h.svc.RevenueByMonth(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}
