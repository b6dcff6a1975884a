// Package pdf genera la job card impresa que acompaña el trabajo en el taller.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: JOB CARD + N° de trabajo  │  Fecha + Estado         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TRABAJO: Empresa / Nombre / Tipo / Cantidad / Tamaño / Tarifa│
//	│  ─────────────────────────────────────────────────────────  │
//	│  ESPECIFICACIONES: grilla etiqueta | valor                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  NOTA ESPECIAL                                               │
//	│  FOOTER: QR con el N° de trabajo + firmas                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/jobcards-api/internal/application/jobcard"
	"github.com/jhoicas/jobcards-api/internal/domain/entity"
)

var _ jobcard.JobCardPDFGenerator = (*MarotoJobCardGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDone    = &props.Color{Red: 20, Green: 120, Blue: 60}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoJobCardGenerator implementa jobcard.JobCardPDFGenerator usando Maroto v2.
type MarotoJobCardGenerator struct {
	shopName string
}

// NewMarotoJobCardGenerator construye el generador. shopName aparece como autor del documento.
func NewMarotoJobCardGenerator(shopName string) *MarotoJobCardGenerator {
	return &MarotoJobCardGenerator{shopName: shopName}
}

// GenerateJobCardPDF genera el PDF y devuelve sus bytes.
func (g *MarotoJobCardGenerator) GenerateJobCardPDF(_ context.Context, order *entity.Order) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(fmt.Sprintf("Job Card %d", order.JobNumber), true).
		WithAuthor(g.shopName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(jobRows(order)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(sectionTitle("ESPECIFICACIONES"))
	m.AddRows(specRows(order.Specs)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(noteRows(order.Specs.SpecialNote)...)
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(order))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título y número de trabajo (izq), fecha y estado (der).
func headerRow(order *entity.Order) core.Row {
	statusColor := colorGray
	if order.Status == entity.StatusCompleted {
		statusColor = colorDone
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New("JOB CARD", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New("N° "+strconv.FormatInt(order.JobNumber, 10), props.Text{
				Style: fontstyle.Bold, Size: 16, Top: 6,
			}),
		),
		col.New(5).Add(
			text.New("Fecha: "+order.CreatedAt.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New(strings.ToUpper(string(order.Status)), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 9, Color: statusColor,
			}),
		),
	)
}

// jobRows: datos del trabajo en dos columnas etiqueta/valor.
func jobRows(order *entity.Order) []core.Row {
	return []core.Row{
		sectionTitle("TRABAJO"),
		pairRow("Empresa", order.CompanyName, "Tipo", string(order.JobType)),
		pairRow("Trabajo", order.JobName, "Cantidad", strconv.Itoa(order.JobQuantity)),
		pairRow("Tamaño", nonEmpty(order.Size, "-"), "Tarifa", formatMoney(order.Rate.StringFixed(2))),
	}
}

// specRows: una fila por campo de especificación.
func specRows(s entity.JobSpecs) []core.Row {
	fields := []struct{ label, value string }{
		{"Papeles y colores", s.PapersAndColorsOfPapers},
		{"Cantidad y tamaño en máquina", s.QuantityAndSizeToRunOnMachine},
		{"Color de tinta", s.ColorOfInk},
		{"Numeración", s.Numbering},
		{"Perforado (punching)", s.Punching},
		{"Troquelado (perforation)", s.Perforation},
		{"Laminado", s.Lamination},
		{"Copia fija", s.FixedCopy},
		{"Encuadernación", s.TypeOfBinding},
	}
	rows := make([]core.Row, 0, len(fields))
	for _, f := range fields {
		rows = append(rows, row.New(7).Add(
			col.New(4).Add(text.New(f.label, props.Text{
				Style: fontstyle.Bold, Size: 8, Top: 1, Left: 1,
			})),
			col.New(8).Add(text.New(nonEmpty(f.value, "-"), props.Text{
				Size: 8, Top: 1, Left: 1,
			})),
		))
	}
	return rows
}

func noteRows(note string) []core.Row {
	if strings.TrimSpace(note) == "" {
		return nil
	}
	return []core.Row{
		sectionTitle("NOTA ESPECIAL"),
		row.New(14).Add(col.New(12).Add(
			text.New(note, props.Text{Size: 9, Top: 1, Left: 1}),
		)),
	}
}

// footerRow: QR con el número de trabajo y espacio para firmas del taller.
func footerRow(order *entity.Order) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(strconv.FormatInt(order.JobNumber, 10), props.Rect{
			Percent: 90,
			Center:  true,
		})),
		col.New(9).Add(
			text.New("Preparado por: ______________________", props.Text{
				Size: 9, Top: 8, Left: 4,
			}),
			text.New("Revisado por:  ______________________", props.Text{
				Size: 9, Top: 20, Left: 4,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func sectionTitle(title string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2,
		}),
	))
}

func pairRow(l1, v1, l2, v2 string) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 8, Top: 1, Left: 1})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Top: 1})
	}
	return row.New(7).Add(
		col.New(2).Add(label(l1)),
		col.New(4).Add(value(v1)),
		col.New(2).Add(label(l2)),
		col.New(4).Add(value(v2)),
	)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney agrupa miles en la parte entera de un decimal con punto.
// Ej: "25000.00" → "25,000.00", "12.50" → "12.50"
func formatMoney(s string) string {
	intPart, frac, hasFrac := strings.Cut(s, ".")
	sign := ""
	if strings.HasPrefix(intPart, "-") {
		sign, intPart = "-", intPart[1:]
	}
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	out := sign + string(buf)
	if hasFrac {
		out += "." + frac
	}
	return out
}
