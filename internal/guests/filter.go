package guests

import "strings"

type FilterOptions struct {
	// Batches keeps guests whose batch equals one of these.
	Batches []string `json:"batches"`
	// FreeWords keeps guests matching every word in name, phone or code.
	FreeWords string `json:"free_words"`
	// HasCode drops guests without a ticket code.
	HasCode bool `json:"has_code"`
}

func Filter(guests []Guest, opt FilterOptions) []Guest {
	out := []Guest{}
	for _, g := range guests {
		if opt.HasCode && g.TicketCode == "" {
			continue
		}
		if len(opt.Batches) > 0 {
			matched := false
			for _, b := range opt.Batches {
				if strings.EqualFold(strings.TrimSpace(b), g.Batch) {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		if opt.FreeWords != "" {
			hay := strings.ToLower(g.Name + " " + g.Phone + " " + g.TicketCode)
			ok := true
			for _, k := range strings.Fields(opt.FreeWords) {
				if !strings.Contains(hay, strings.ToLower(k)) {
					ok = false
					break
				}
			}
			if !ok {
				continue
			}
		}
		out = append(out, g)
	}
	return out
}
