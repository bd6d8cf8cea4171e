package guests

import "github.com/youruser/ticketapp/internal/ticket"

type Guest struct {
	Name       string `json:"name"`
	Batch      string `json:"batch"`
	Phone      string `json:"phone"`
	TicketCode string `json:"ticket_code"`
	// Source is the CSV file the row came from.
	Source string `json:"source,omitempty"`
}

// Request is the ticket request for g.
func (g Guest) Request() ticket.Request {
	return ticket.Request{Name: g.Name, Batch: g.Batch, Phone: g.Phone, Code: g.TicketCode}
}
