package service

import (
	"fmt"

	"github.com/ikkim/weddingfilm-backend/internal/app/model"
	"github.com/ikkim/weddingfilm-backend/internal/app/repository"
	"github.com/ikkim/weddingfilm-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "예약 목록"

var exportHeaders = []string{
	"예약 ID", "상태", "계약자", "상품", "정가", "추가 옵션", "출장비", "계약금",
	"신년 할인", "제휴 업체 할인", "커플 할인", "후기 할인", "이벤트", "이벤트 할인",
	"특별 할인", "특별 할인 사유", "잔금", "파트너 코드", "사용 코드", "생성일",
}

var statusLabels = map[model.BookingStatus]string{
	model.BookingStatusPending:          "접수 대기",
	model.BookingStatusConfirmed:        "예약 확정",
	model.BookingStatusDepositCompleted: "계약금 입금",
	model.BookingStatusDelivered:        "전달 완료",
	model.BookingStatusCancelled:        "취소",
}

// ExportBookings 예약 목록을 정산용 xlsx 로 내보냄
func (s *bookingService) ExportBookings(filter repository.BookingFilter) ([]byte, error) {
	filter.Limit = 0
	filter.Offset = 0
	bookings, _, err := s.ListBookings(filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("error creating sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}
	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: 3}) // #,##0
	if err != nil {
		return nil, err
	}

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(exportSheet, cell, header)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(exportHeaders))
	_ = f.SetCellStyle(exportSheet, "A1", lastCol+"1", headerStyle)

	for i, b := range bookings {
		row := i + 2
		values := []interface{}{
			b.ID,
			statusLabels[b.Status],
			b.CustomerName,
			string(b.ProductType),
			b.ListPrice,
			b.AddOnTotal,
			b.TravelFee,
			b.Deposit,
			b.NewYearDiscount,
			b.VendorDiscount,
			b.ReferralDiscount,
			b.ReviewDiscount,
			b.EventName,
			b.EventDiscount,
			b.SpecialDiscount,
			b.SpecialReason,
			b.Balance,
			b.OwnCode(),
			b.ReferredCode(),
			b.CreatedAt.Format("2006-01-02"),
		}
		start, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(exportSheet, start, &values); err != nil {
			return nil, err
		}
	}

	if len(bookings) > 0 {
		_ = f.SetCellStyle(exportSheet, "E2", fmt.Sprintf("Q%d", len(bookings)+1), amountStyle)
	}
	_ = f.SetColWidth(exportSheet, "A", lastCol, 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("error writing workbook: %w", err)
	}

	logger.Info("Bookings exported", map[string]interface{}{
		"rows": len(bookings),
	})
	return buf.Bytes(), nil
}
