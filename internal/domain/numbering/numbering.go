package numbering

// Floor es el primer número de trabajo que emite la imprenta.
const Floor int64 = 4001

// Next calcula el siguiente número de trabajo (servicio de dominio).
// Next = max(MaxActual + 1, 4001). Con la tabla vacía MaxActual es 0.
//
// La regla es determinista solo si currentMax es el máximo real: quien la use debe
// leer el máximo y reservar el número en un mismo paso atómico (ver jobcard.TxRunner).
func Next(currentMax int64) int64 {
	if n := currentMax + 1; n > Floor {
		return n
	}
	return Floor
}
