package utils

import (
	"fmt"

	"library-catalog/internal/models"
)

func ExportData(logs []models.AuditLog) error {
	for _, entry := range logs {
		//change with actual sink calls
		fmt.Println(entry.Timestamp, entry.Entity, entry.Action, entry.Data)
	}
	return nil
}
