package service

import "fmt"

// TopPercentage renders rank within total as a "top X" percentage with two
// decimals, e.g. TopPercentage(200, 1000) == "20.00". A missing rank or total
// yields "N/A".
func TopPercentage(rank, total int) string {
	if rank == 0 || total == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", float64(rank)/float64(total)*100)
}
