package clients

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"
)

// ExportFileName is the download name of a roster export.
const ExportFileName = "pocketclass-clients.csv"

// CSVHeaders returns the export columns.
func CSVHeaders() []string {
	return []string{"First Name", "Last Name", "Email", "Phone", "Total Sales", "Total Bookings", "Source"}
}

// ToCSVRow renders an identity as one export row.
func (id Identity) ToCSVRow() []string {
	first, last := id.FirstName, id.LastName
	if first == "" && last == "" {
		first = id.Name
	}
	return []string{
		first,
		last,
		id.EmailOrEmpty(),
		id.Phone,
		strconv.FormatFloat(id.TotalSales, 'f', 2, 64),
		strconv.Itoa(id.BookingCount),
		string(id.Source),
	}
}

// WriteCSV writes the header and one row per identity. Fields containing commas,
// quotes or newlines are quoted.
func WriteCSV(w io.Writer, list []Identity) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(CSVHeaders()); err != nil {
		return err
	}
	for _, id := range list {
		if err := writer.Write(id.ToCSVRow()); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ExportCSV renders the list in memory.
func ExportCSV(list []Identity) ([]byte, error) {
	buffer := bytes.NewBuffer(make([]byte, 0, 128*(len(list)+1)))
	if err := WriteCSV(buffer, list); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
