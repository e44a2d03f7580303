package api

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/erazemk/najdeno/internal/store"
)

// ExportHandler streams admin data exports.
type ExportHandler struct {
	DB *sql.DB
}

// Items handles GET /api/items/export, writing the catalog as CSV with the
// same filters the item listing accepts. Paging is ignored; the export walks
// all pages internally.
func (h *ExportHandler) Items(w http.ResponseWriter, r *http.Request) {
	f := itemFilterFromQuery(r)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="items-%s.csv"`, time.Now().Format(time.DateOnly)))

	cw := csv.NewWriter(w)
	cw.Write([]string{"code", "name", "category", "location", "date_found", "status", "owner", "created_at"})

	for page := 1; ; page++ {
		items, pagination, err := store.ListItems(r.Context(), h.DB, f, page, store.MaxPageLimit)
		if err != nil {
			// Headers are already sent; abort the stream.
			return
		}

		for _, item := range items {
			status := "unclaimed"
			if item.IsClaimed {
				status = "claimed"
			}
			cw.Write([]string{
				item.Code,
				item.Name,
				item.Category,
				item.Location,
				item.DateFound,
				status,
				item.OwnerName,
				item.CreatedAt.Format(time.RFC3339),
			})
		}

		if !pagination.HasNext {
			break
		}
	}

	cw.Flush()
}
