package clients

import "time"

// Stats summarizes a client list.
type Stats struct {
	TotalClients        int     `json:"totalClients"`
	TotalRevenue        float64 `json:"totalRevenue"`
	AvgRevenuePerClient float64 `json:"avgRevenuePerClient"`
	ActiveClients       int     `json:"activeClients"`
	BookingClients      int     `json:"bookingClients"`
	ExternalClients     int     `json:"externalClients"`
}

func ComputeStats(list []Identity, now time.Time) Stats {
	s := Stats{TotalClients: len(list)}
	for _, id := range list {
		s.TotalRevenue += id.TotalSales
		if IsActive(id, now) {
			s.ActiveClients++
		}
		if id.Source == SourceExternal {
			s.ExternalClients++
		} else {
			s.BookingClients++
		}
	}
	if s.TotalClients > 0 {
		s.AvgRevenuePerClient = s.TotalRevenue / float64(s.TotalClients)
	}
	return s
}
