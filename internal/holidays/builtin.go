package holidays

import (
	"context"

	"github.com/daniswara/board/internal/models"
	"github.com/daniswara/board/internal/timeline"
)

// Indonesian public holidays for 2024 and 2025.
var indonesian = []models.Holiday{
	{Date: "2024-01-01", Name: "Tahun Baru 2024"},
	{Date: "2024-02-08", Name: "Isra Mikraj"},
	{Date: "2024-02-10", Name: "Tahun Baru Imlek"},
	{Date: "2024-03-11", Name: "Hari Suci Nyepi"},
	{Date: "2024-03-29", Name: "Wafat Yesus Kristus"},
	{Date: "2024-03-31", Name: "Hari Paskah"},
	{Date: "2024-04-10", Name: "Hari Raya Idul Fitri"},
	{Date: "2024-04-11", Name: "Hari Raya Idul Fitri"},
	{Date: "2024-05-01", Name: "Hari Buruh Internasional"},
	{Date: "2024-05-09", Name: "Kenaikan Yesus Kristus"},
	{Date: "2024-05-23", Name: "Hari Raya Waisak"},
	{Date: "2024-06-01", Name: "Hari Lahir Pancasila"},
	{Date: "2024-06-17", Name: "Hari Raya Idul Adha"},
	{Date: "2024-07-07", Name: "Tahun Baru Islam"},
	{Date: "2024-08-17", Name: "Hari Kemerdekaan RI"},
	{Date: "2024-09-16", Name: "Maulid Nabi Muhammad SAW"},
	{Date: "2024-12-25", Name: "Hari Raya Natal"},
	{Date: "2025-01-01", Name: "Tahun Baru 2025"},
	{Date: "2025-01-29", Name: "Tahun Baru Imlek 2025"},
	{Date: "2025-03-29", Name: "Hari Raya Idul Fitri 2025"},
	{Date: "2025-03-30", Name: "Hari Raya Idul Fitri 2025"},
}

// Builtin serves the compiled-in Indonesian calendar.
type Builtin struct{}

func (Builtin) Name() string { return "builtin" }

// Fetch never fails.
func (Builtin) Fetch(_ context.Context, from, to timeline.Day) ([]models.Holiday, error) {
	return Between(indonesian, from, to), nil
}
