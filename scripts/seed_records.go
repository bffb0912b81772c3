// seed_records.go — standalone script to parse a CSV of credit records and seed them via the Provision API.
//
// Expected columns: borrower,value,origination_year,maturity_year,risk_grade,risk_score,collateral_category,collateral_value
//
// Usage:
//
//	go run scripts/seed_records.go -csv /path/to/records.csv -api http://localhost:8700 -token $PROVISION_ADMIN_TOKEN
package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
)

type creditRecord struct {
	Borrower           string  `json:"borrower"`
	Value              float64 `json:"value"`
	OriginationYear    int     `json:"origination_year"`
	MaturityYear       int     `json:"maturity_year"`
	RiskGrade          string  `json:"risk_grade"`
	RiskScore          float64 `json:"risk_score,omitempty"`
	CollateralCategory string  `json:"collateral_category"`
	CollateralValue    float64 `json:"collateral_value"`
}

func main() {
	csvPath := flag.String("csv", "records.csv", "path to records CSV file")
	apiURL := flag.String("api", "http://localhost:8700", "Provision API base URL")
	token := flag.String("token", "", "admin bearer token")
	dryRun := flag.Bool("dry-run", false, "print records without posting")
	flag.Parse()

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Fatalf("open csv: %v", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		log.Fatalf("read header: %v", err)
	}
	if len(header) != 8 {
		log.Fatalf("expected 8 columns, got %d", len(header))
	}

	posted := 0
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatalf("line %d: %v", line, err)
		}

		rec := creditRecord{
			Borrower:           row[0],
			RiskGrade:          row[4],
			CollateralCategory: row[6],
		}
		rec.Value, _ = strconv.ParseFloat(row[1], 64)
		rec.OriginationYear, _ = strconv.Atoi(row[2])
		rec.MaturityYear, _ = strconv.Atoi(row[3])
		rec.RiskScore, _ = strconv.ParseFloat(row[5], 64)
		rec.CollateralValue, _ = strconv.ParseFloat(row[7], 64)

		if *dryRun {
			fmt.Printf("%+v\n", rec)
			continue
		}

		body, _ := json.Marshal(rec)
		req, err := http.NewRequest("POST", *apiURL+"/api/v1/records", bytes.NewReader(body))
		if err != nil {
			log.Fatalf("line %d: %v", line, err)
		}
		req.Header.Set("Content-Type", "application/json")
		if *token != "" {
			req.Header.Set("Authorization", "Bearer "+*token)
		}

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			log.Fatalf("line %d: post: %v", line, err)
		}
		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			log.Fatalf("line %d: %d %s", line, resp.StatusCode, string(respBody))
		}
		posted++
	}

	fmt.Printf("seeded %d records\n", posted)
}
