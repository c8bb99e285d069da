package tradelog

// Dedupe collapses records sharing an order_id. The last representation in the
// log wins, placed where the order first appeared. Records without an order_id
// are passed through untouched.
func Dedupe(records []TradeRecord) []TradeRecord {
	out := make([]TradeRecord, 0, len(records))
	index := make(map[string]int)
	for _, r := range records {
		if r.OrderID == "" {
			out = append(out, r)
			continue
		}
		if i, ok := index[r.OrderID]; ok {
			out[i] = r
			continue
		}
		index[r.OrderID] = len(out)
		out = append(out, r)
	}
	return out
}
