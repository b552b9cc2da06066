// Command portfolio-report is a standalone read-only consumer of the
// propops store. It runs its own roll-up query rather than going
// through the analytics service, so it can point at any store file a
// running deployment produced.
package main

import (
	"fmt"
	"os"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const summarySQL = `
SELECT properties.name, properties.location, properties.category,
       COALESCE(SUM(CASE WHEN rent_invoices.status = 'paid' THEN rent_invoices.amount END), 0) AS paid,
       COALESCE(SUM(CASE WHEN rent_invoices.status != 'paid' THEN rent_invoices.amount END), 0) AS outstanding
FROM properties
LEFT JOIN tenants ON tenants.property_id = properties.id
LEFT JOIN rent_invoices ON rent_invoices.tenant_id = tenants.id
GROUP BY properties.id, properties.name, properties.location, properties.category
ORDER BY properties.name`

type summaryRow struct {
	Name        string
	Location    string
	Category    string
	Paid        float64
	Outstanding float64
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: portfolio-report <path-to-store>")
		os.Exit(1)
	}

	db, err := gorm.Open(sqlite.Open(os.Args[1]), &gorm.Config{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open store: %v\n", err)
		os.Exit(1)
	}

	var rows []summaryRow
	if err := db.Raw(summarySQL).Scan(&rows).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to query store: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%-25s %-15s %-12s %12s %12s\n", "Property", "Location", "Category", "Paid", "Outstanding")
	for _, row := range rows {
		fmt.Printf("%-25s %-15s %-12s %12.2f %12.2f\n",
			row.Name, row.Location, row.Category, row.Paid, row.Outstanding)
	}
}
