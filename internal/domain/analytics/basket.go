package analytics

import "sort"

// Fuerza de la recomendación de un par según lift.
const (
	StrengthStrong   = "Fuerte"
	StrengthModerate = "Moderada"
	StrengthWeak     = "Debil"
)

// MinPairFrequency pares que aparecen juntos menos veces se descartan como ruido.
const MinPairFrequency = 2

const (
	strongLift   = 2.0
	moderateLift = 1.2
)

// Pair co-ocurrencia de dos productos en un mismo pedido. ProductA < ProductB.
type Pair struct {
	ProductA     string
	ProductB     string
	Frequency    int     // pedidos que contienen ambos
	Support      float64 // Frequency / total de pedidos
	ConfidenceAB float64 // P(B | A)
	ConfidenceBA float64 // P(A | B)
	Lift         float64
	Strength     string
}

// Strength clasifica por lift: > 2 Fuerte, > 1.2 Moderada, resto Debil.
func Strength(lift float64) string {
	switch {
	case lift > strongLift:
		return StrengthStrong
	case lift > moderateLift:
		return StrengthModerate
	default:
		return StrengthWeak
	}
}

// Basket calcula los pares de productos que co-ocurren en un mismo pedido.
// orders mapea id de pedido a los productos de sus líneas; los repetidos dentro de un pedido cuentan una vez.
// Resultado ordenado por frecuencia y luego lift, ambos descendentes.
func Basket(orders map[string][]string) []Pair {
	type key struct{ a, b string }

	productOrders := make(map[string]int)
	pairs := make(map[key]int)
	total := 0

	for _, products := range orders {
		set := distinctSorted(products)
		if len(set) == 0 {
			continue
		}
		total++
		for i, a := range set {
			productOrders[a]++
			for _, b := range set[i+1:] {
				pairs[key{a, b}]++
			}
		}
	}

	out := make([]Pair, 0, len(pairs))
	for k, freq := range pairs {
		if freq < MinPairFrequency {
			continue
		}
		ca, cb := float64(productOrders[k.a]), float64(productOrders[k.b])
		f, n := float64(freq), float64(total)
		lift := f * n / (ca * cb)
		out = append(out, Pair{
			ProductA:     k.a,
			ProductB:     k.b,
			Frequency:    freq,
			Support:      Round(f/n, 4),
			ConfidenceAB: Round(f/ca, 4),
			ConfidenceBA: Round(f/cb, 4),
			Lift:         Round(lift, 2),
			Strength:     Strength(lift),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Frequency != out[j].Frequency {
			return out[i].Frequency > out[j].Frequency
		}
		if out[i].Lift != out[j].Lift {
			return out[i].Lift > out[j].Lift
		}
		if out[i].ProductA != out[j].ProductA {
			return out[i].ProductA < out[j].ProductA
		}
		return out[i].ProductB < out[j].ProductB
	})
	return out
}

func distinctSorted(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
