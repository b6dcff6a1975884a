package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/jobcards-api/internal/domain"
	"github.com/shopspring/decimal"
)

// OrderStatus estado binario de una orden (job card).
//
//	Pending ⇄ Completed
//
// Toda orden nace (o se copia) en Pending; no hay estado terminal.
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusCompleted OrderStatus = "Completed"
)

// Toggle devuelve el estado opuesto. Aplicarlo dos veces devuelve el original.
func (s OrderStatus) Toggle() OrderStatus {
	if s == StatusCompleted {
		return StatusPending
	}
	return StatusCompleted
}

// Valid informa si s es Pending o Completed.
func (s OrderStatus) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// ParseOrderStatus acepta el nombre del estado sin distinguir mayúsculas.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch {
	case strings.EqualFold(s, string(StatusPending)):
		return StatusPending, nil
	case strings.EqualFold(s, string(StatusCompleted)):
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("%w: estado desconocido %q", domain.ErrInvalidInput, s)
}

// JobType tipo de impresión.
type JobType string

const (
	JobTypeDigital JobType = "Digital"
	JobTypeOffset  JobType = "Offset"
	JobTypeScreen  JobType = "Screen"
)

// ParseJobType valida el tipo de trabajo. Vacío equivale a Digital (valor por defecto del formulario).
func ParseJobType(s string) (JobType, error) {
	switch JobType(strings.TrimSpace(s)) {
	case "", JobTypeDigital:
		return JobTypeDigital, nil
	case JobTypeOffset:
		return JobTypeOffset, nil
	case JobTypeScreen:
		return JobTypeScreen, nil
	}
	return "", fmt.Errorf("%w: tipo de trabajo desconocido %q", domain.ErrInvalidInput, s)
}

// JobSpecs campos de texto libre de la ficha técnica del trabajo.
type JobSpecs struct {
	PapersAndColorsOfPapers       string
	QuantityAndSizeToRunOnMachine string
	ColorOfInk                    string
	Numbering                     string
	Punching                      string
	Perforation                   string
	Lamination                    string
	FixedCopy                     string
	TypeOfBinding                 string
	SpecialNote                   string
}

// Order representa una job card. JobNumber y CreatedAt no cambian después de crearse.
type Order struct {
	ID          string
	JobNumber   int64
	CompanyName string
	JobName     string
	JobType     JobType
	JobQuantity int
	Size        string
	Rate        decimal.Decimal
	Specs       JobSpecs
	Status      OrderStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CloneAsNew devuelve una copia sin identidad: sin ID, sin número, en Pending y sin fechas.
func (o *Order) CloneAsNew() *Order {
	c := *o
	c.ID = ""
	c.JobNumber = 0
	c.Status = StatusPending
	c.CreatedAt = time.Time{}
	c.UpdatedAt = time.Time{}
	return &c
}
