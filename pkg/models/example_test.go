package models_test

import (
	"fmt"
	"time"

	"cashflow/pkg/models"
)

func ExampleParseAmount() {
	fmt.Println(models.ParseAmount("$1,234.56"))
	fmt.Println(models.ParseAmount(""))
	fmt.Println(models.ParseAmount("abc"))
	// Output:
	// 1234.56
	// 0
	// 0
}

func ExampleFormatDate() {
	for _, d := range []string{"2024-01-06", "06/01/2024", "", "next tuesday"} {
		fmt.Println(models.FormatDate(d))
	}
	// Output:
	// 06/01/2024
	// 06/01/2024
	// No date
	// Invalid date
}

func ExampleStatusFor() {
	now := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	fmt.Println(models.StatusFor("2024-02-01", now))
	fmt.Println(models.StatusFor("2024-02-15", now))
	fmt.Println(models.StatusFor("2024-04-01", now))
	// Output:
	// Overdue
	// Due Soon
	// Not Due
}
