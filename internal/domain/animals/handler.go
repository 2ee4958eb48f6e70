package animals

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vitaclinic/clinic-server/internal/platform/clinicerr"
	"github.com/vitaclinic/clinic-server/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/animals", h.ListAnimals)
	api.GET("/animals/search", h.SearchAnimals)
	api.GET("/animals/:id", h.GetAnimal)
	api.POST("/animals", h.CreateAnimal)
	api.PUT("/animals/:id", h.UpdateAnimal)
	api.DELETE("/animals/:id", h.DeleteAnimal)
	api.GET("/clients/:id/animals", h.ListAnimalsByClient)
}

func (h *Handler) CreateAnimal(c echo.Context) error {
	var a Animal
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateAnimal(c.Request().Context(), &a); err != nil {
		return echo.NewHTTPError(clinicerr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) GetAnimal(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.GetAnimal(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(clinicerr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) ListAnimals(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListAnimals(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) SearchAnimals(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.SearchAnimals(c.Request().Context(), c.QueryParam("q"), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) ListAnimalsByClient(c echo.Context) error {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	items, err := h.svc.ListAnimalsByClient(c.Request().Context(), clientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) UpdateAnimal(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var a Animal
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.UpdateAnimal(c.Request().Context(), id, &a); err != nil {
		return echo.NewHTTPError(clinicerr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) DeleteAnimal(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteAnimal(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(clinicerr.HTTPStatus(err), err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
