package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/jobcards-api/internal/application/dto"
	"github.com/jhoicas/jobcards-api/internal/application/jobcard"
)

// OrderHandler expone el ciclo de vida de las job cards, el listado y la impresión.
type OrderHandler struct {
	lifecycle *jobcard.Lifecycle
	query     *jobcard.QueryResolver
	printer   *jobcard.PrintUseCase
}

// NewOrderHandler construye el handler de órdenes.
func NewOrderHandler(lifecycle *jobcard.Lifecycle, query *jobcard.QueryResolver, printer *jobcard.PrintUseCase) *OrderHandler {
	return &OrderHandler{lifecycle: lifecycle, query: query, printer: printer}
}

// List godoc
// @Summary      Listar órdenes
// @Description  Precedencia de filtros: jobNumber, luego search (+ jobName). 30 por página, job_number descendente.
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        page       query  int     false  "Página (desde 1)"
// @Param        jobNumber  query  string  false  "Número de trabajo exacto"
// @Param        search     query  string  false  "Empresa (contiene) o estado (exacto)"
// @Param        jobName    query  string  false  "Nombre del trabajo (contiene, junto a search)"
// @Success      200  {object}  dto.OrderListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	q := dto.OrderQueryRequest{
		Page:      c.QueryInt("page", 1),
		JobNumber: c.Query("jobNumber"),
		Search:    c.Query("search"),
		JobName:   c.Query("jobName"),
	}
	out, err := h.query.Resolve(c.UserContext(), actor(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear orden
// @Description  Asigna el siguiente job number (mínimo 4001) de forma atómica.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateOrderRequest  true  "Borrador de la orden"
// @Success      201   {object}  dto.CreateOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.lifecycle.Create(c.UserContext(), actor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Obtener orden
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	out, err := h.lifecycle.Get(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar orden
// @Description  job number y fecha de creación no cambian.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                  true  "ID de la orden"
// @Param        body  body  dto.UpdateOrderRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.UpdateOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [put]
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.lifecycle.Update(c.UserContext(), actor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.UpdateOrderResponse{UpdatedOrder: *out})
}

// ToggleStatus godoc
// @Summary      Alternar estado
// @Description  Pending ↔ Completed.
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/toggle-status [post]
func (h *OrderHandler) ToggleStatus(c *fiber.Ctx) error {
	out, err := h.lifecycle.ToggleStatus(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Copy godoc
// @Summary      Copiar orden
// @Description  Nueva orden Pending con los mismos datos y un job number nuevo.
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la orden origen"
// @Success      201  {object}  dto.CreateOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/copy [post]
func (h *OrderHandler) Copy(c *fiber.Ctx) error {
	out, err := h.lifecycle.Copy(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Print godoc
// @Summary      Imprimir job card
// @Tags         orders
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/print [get]
func (h *OrderHandler) Print(c *fiber.Ctx) error {
	pdf, filename, err := h.printer.Print(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", filename))
	return c.Send(pdf)
}
