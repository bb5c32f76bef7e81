// Package stock contiene la aritmética pura de ajustes de stock (sin I/O).
package stock

import "github.com/jhoicas/Distribuidora-api/internal/domain/entity"

// Aggregate suma las cantidades de líneas repetidas del mismo producto.
// Conserva el orden de primera aparición para que las llamadas remotas sean deterministas.
func Aggregate(items []entity.StockItem) []entity.StockItem {
	idx := make(map[string]int, len(items))
	out := make([]entity.StockItem, 0, len(items))
	for _, it := range items {
		if i, ok := idx[it.ProductID]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		idx[it.ProductID] = len(out)
		out = append(out, it)
	}
	return out
}

// Diff calcula, por producto, original - nuevo.
// Delta positivo (cantidad reducida o ítem eliminado) va a toRestore; negativo (aumento o ítem nuevo) a toReserve.
// Productos con delta cero no aparecen en ninguna lista.
func Diff(original, updated []entity.StockItem) (toRestore, toReserve []entity.StockItem) {
	deltas := make(map[string]int)
	var order []string
	track := func(id string) {
		if _, ok := deltas[id]; !ok {
			deltas[id] = 0
			order = append(order, id)
		}
	}
	for _, it := range original {
		track(it.ProductID)
		deltas[it.ProductID] += it.Quantity
	}
	for _, it := range updated {
		track(it.ProductID)
		deltas[it.ProductID] -= it.Quantity
	}
	for _, id := range order {
		switch d := deltas[id]; {
		case d > 0:
			toRestore = append(toRestore, entity.StockItem{ProductID: id, Quantity: d})
		case d < 0:
			toReserve = append(toReserve, entity.StockItem{ProductID: id, Quantity: -d})
		}
	}
	return toRestore, toReserve
}

// Total unidades totales de una lista de ítems.
func Total(items []entity.StockItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}
