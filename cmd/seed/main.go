package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/ikkim/weddingfilm-backend/config"
	"github.com/ikkim/weddingfilm-backend/internal/app/model"
	"github.com/ikkim/weddingfilm-backend/internal/app/repository"
	"github.com/ikkim/weddingfilm-backend/internal/app/service"
	"github.com/ikkim/weddingfilm-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// 시트 형식: 구분(product|addon) | 키 | 이름 | 가격
const (
	colKind = iota
	colKey
	colName
	colPrice
	columnCount
)

type catalogRow struct {
	line  int
	kind  string
	key   string
	name  string
	price int64
}

func main() {
	// 명령줄 인자 확인
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <catalog_xlsx_path>")
	}

	filePath := os.Args[1]

	// 설정 로드
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// DB 연결
	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// XLSX 파일 읽기
	fmt.Printf("Reading XLSX file: %s\n", filePath)
	rows, skipped, err := readCatalogFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Catalog rows to import: %d (skipped %d)\n", len(rows), skipped)

	// 사용자 확인
	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	catalog := service.NewCatalogService(repository.NewProductRepository(db.GetDB()), repository.NewAddOnRepository(db.GetDB()))
	updated, failed := applyCatalog(catalog, rows)

	fmt.Println("Import completed!")
	fmt.Printf("Updated: %d, Failed: %d\n", updated, failed)
}

func readCatalogFromXLSX(filePath string) ([]catalogRow, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	// 첫 번째 시트만 읽는다
	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("no data found in XLSX file")
	}

	var result []catalogRow
	skipped := 0

	// 첫 행은 헤더
	for i, row := range rows[1:] {
		line := i + 2
		if len(row) < columnCount {
			skipped++
			continue
		}

		kind := strings.ToLower(strings.TrimSpace(row[colKind]))
		key := strings.TrimSpace(row[colKey])
		if (kind != "product" && kind != "addon") || key == "" {
			fmt.Printf("Line %d: unknown kind %q or empty key, skipped\n", line, row[colKind])
			skipped++
			continue
		}

		// "600,000" 형식 허용
		price, err := strconv.ParseInt(strings.ReplaceAll(strings.TrimSpace(row[colPrice]), ",", ""), 10, 64)
		if err != nil || price < 0 {
			fmt.Printf("Line %d: invalid price %q, skipped\n", line, row[colPrice])
			skipped++
			continue
		}

		result = append(result, catalogRow{
			line:  line,
			kind:  kind,
			key:   key,
			name:  strings.TrimSpace(row[colName]),
			price: price,
		})
	}

	return result, skipped, nil
}

// applyCatalog 행 단위로 반영 (실패한 행은 건너뛴다)
func applyCatalog(catalog service.CatalogService, rows []catalogRow) (updated, failed int) {
	for _, row := range rows {
		var err error
		switch row.kind {
		case "product":
			_, err = catalog.UpdateProduct(model.ProductType(row.key), row.name, row.price)
		case "addon":
			_, err = catalog.UpdateAddOn(model.AddOnKey(row.key), row.name, row.price)
		}
		if err != nil {
			fmt.Printf("Line %d: %s %s not updated: %v\n", row.line, row.kind, row.key, err)
			failed++
			continue
		}
		updated++
	}
	return updated, failed
}
