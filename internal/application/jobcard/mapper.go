package jobcard

import (
	"github.com/jhoicas/jobcards-api/internal/application/dto"
	"github.com/jhoicas/jobcards-api/internal/domain/entity"
)

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	if o == nil {
		return nil
	}
	return &dto.OrderResponse{
		ID:          o.ID,
		JobNumber:   o.JobNumber,
		CompanyName: o.CompanyName,
		JobName:     o.JobName,
		JobType:     string(o.JobType),
		JobQuantity: o.JobQuantity,
		Size:        o.Size,
		Rate:        o.Rate,
		JobSpecsFields: dto.JobSpecsFields{
			PapersAndColorsOfPapers:       o.Specs.PapersAndColorsOfPapers,
			QuantityAndSizeToRunOnMachine: o.Specs.QuantityAndSizeToRunOnMachine,
			ColorOfInk:                    o.Specs.ColorOfInk,
			Numbering:                     o.Specs.Numbering,
			Punching:                      o.Specs.Punching,
			Perforation:                   o.Specs.Perforation,
			Lamination:                    o.Specs.Lamination,
			FixedCopy:                     o.Specs.FixedCopy,
			TypeOfBinding:                 o.Specs.TypeOfBinding,
			SpecialNote:                   o.Specs.SpecialNote,
		},
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func toCreateOrderResponse(o *entity.Order) *dto.CreateOrderResponse {
	return &dto.CreateOrderResponse{
		OrderID:   o.ID,
		JobNumber: o.JobNumber,
		Order:     *toOrderResponse(o),
	}
}

func specsFromDTO(f dto.JobSpecsFields) entity.JobSpecs {
	return entity.JobSpecs{
		PapersAndColorsOfPapers:       f.PapersAndColorsOfPapers,
		QuantityAndSizeToRunOnMachine: f.QuantityAndSizeToRunOnMachine,
		ColorOfInk:                    f.ColorOfInk,
		Numbering:                     f.Numbering,
		Punching:                      f.Punching,
		Perforation:                   f.Perforation,
		Lamination:                    f.Lamination,
		FixedCopy:                     f.FixedCopy,
		TypeOfBinding:                 f.TypeOfBinding,
		SpecialNote:                   f.SpecialNote,
	}
}

// applySpecs copia los campos de especificación presentes en el parche.
func applySpecs(s *entity.JobSpecs, in dto.UpdateOrderRequest) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&s.PapersAndColorsOfPapers, in.PapersAndColorsOfPapers)
	set(&s.QuantityAndSizeToRunOnMachine, in.QuantityAndSizeToRunOnMachine)
	set(&s.ColorOfInk, in.ColorOfInk)
	set(&s.Numbering, in.Numbering)
	set(&s.Punching, in.Punching)
	set(&s.Perforation, in.Perforation)
	set(&s.Lamination, in.Lamination)
	set(&s.FixedCopy, in.FixedCopy)
	set(&s.TypeOfBinding, in.TypeOfBinding)
	set(&s.SpecialNote, in.SpecialNote)
}
