package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// JobSpecsFields campos de texto libre compartidos por creación y respuesta.
type JobSpecsFields struct {
	PapersAndColorsOfPapers       string `json:"papersAndColorsOfPapers"`
	QuantityAndSizeToRunOnMachine string `json:"quantityAndSizeToRunOnMachine"`
	ColorOfInk                    string `json:"colorOfInk"`
	Numbering                     string `json:"numbering"`
	Punching                      string `json:"punching"`
	Perforation                   string `json:"perforation"`
	Lamination                    string `json:"lamination"`
	FixedCopy                     string `json:"fixedCopy"`
	TypeOfBinding                 string `json:"typeOfBinding"`
	SpecialNote                   string `json:"specialNote"`
}

// CreateOrderRequest entrada para crear una job card. El número y la fecha los asigna el servidor.
type CreateOrderRequest struct {
	CompanyName string          `json:"companyName" validate:"required"`
	JobName     string          `json:"jobName" validate:"required"`
	JobType     string          `json:"jobType" validate:"omitempty,oneof=Digital Offset Screen"`
	JobQuantity int             `json:"jobQuantity" validate:"min=0"`
	Size        string          `json:"size"`
	Rate        decimal.Decimal `json:"rate"`
	JobSpecsFields
}

// UpdateOrderRequest entrada para editar una orden (campos opcionales).
// No existen jobNumber ni createdAt: si el cliente los envía se descartan al decodificar.
type UpdateOrderRequest struct {
	CompanyName                   *string          `json:"companyName"`
	JobName                       *string          `json:"jobName"`
	JobType                       *string          `json:"jobType"`
	JobQuantity                   *int             `json:"jobQuantity"`
	Size                          *string          `json:"size"`
	Rate                          *decimal.Decimal `json:"rate"`
	Status                        *string          `json:"status"`
	PapersAndColorsOfPapers       *string          `json:"papersAndColorsOfPapers"`
	QuantityAndSizeToRunOnMachine *string          `json:"quantityAndSizeToRunOnMachine"`
	ColorOfInk                    *string          `json:"colorOfInk"`
	Numbering                     *string          `json:"numbering"`
	Punching                      *string          `json:"punching"`
	Perforation                   *string          `json:"perforation"`
	Lamination                    *string          `json:"lamination"`
	FixedCopy                     *string          `json:"fixedCopy"`
	TypeOfBinding                 *string          `json:"typeOfBinding"`
	SpecialNote                   *string          `json:"specialNote"`
}

// OrderResponse salida de una orden.
type OrderResponse struct {
	ID          string          `json:"id"`
	JobNumber   int64           `json:"jobNumber"`
	CompanyName string          `json:"companyName"`
	JobName     string          `json:"jobName"`
	JobType     string          `json:"jobType"`
	JobQuantity int             `json:"jobQuantity"`
	Size        string          `json:"size"`
	Rate        decimal.Decimal `json:"rate"`
	JobSpecsFields
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateOrderResponse salida de creación y copia (el cliente navega a /orders/{orderId}).
type CreateOrderResponse struct {
	OrderID   string        `json:"orderId"`
	JobNumber int64         `json:"jobNumber"`
	Order     OrderResponse `json:"order"`
}

// UpdateOrderResponse salida de edición.
type UpdateOrderResponse struct {
	UpdatedOrder OrderResponse `json:"updatedOrder"`
}

// OrderQueryRequest parámetros del listado. JobNumber y Search llegan como texto desde la URL.
type OrderQueryRequest struct {
	Page      int    `query:"page"`
	JobNumber string `query:"jobNumber"`
	Search    string `query:"search"`
	JobName   string `query:"jobName"`
}

// OrderListResponse página de órdenes con totales del conjunto filtrado.
type OrderListResponse struct {
	Orders      []OrderResponse `json:"orders"`
	TotalOrders int             `json:"totalOrders"`
	TotalPages  int             `json:"totalPages"`
	Page        int             `json:"page"`
	PageSize    int             `json:"pageSize"`
}
