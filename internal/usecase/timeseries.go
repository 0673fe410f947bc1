package usecase

import "time"

const dayKeyLayout = "2006-01-02"

// dayWindowStart devolve a meia-noite UTC do primeiro dia de uma janela de
// `days` dias que termina hoje (inclusive).
func dayWindowStart(now time.Time, days int) time.Time {
	d := now.UTC()
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return start.AddDate(0, 0, -(days - 1))
}

// buildDailySeries agrupa timestamps por dia-calendário UTC e devolve
// exatamente `days` entradas consecutivas a partir de start, do mais antigo
// para o mais novo. Dia sem registro reporta zero.
func buildDailySeries(dates []time.Time, start time.Time, days int) []DateCount {
	buckets := make(map[string]int, len(dates))
	for _, t := range dates {
		buckets[t.UTC().Format(dayKeyLayout)]++
	}

	out := make([]DateCount, 0, days)
	for i := 0; i < days; i++ {
		key := start.AddDate(0, 0, i).Format(dayKeyLayout)
		out = append(out, DateCount{Date: key, Count: buckets[key]})
	}
	return out
}
