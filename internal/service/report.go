package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"backend-antrian-pst/internal/apperr"
	"backend-antrian-pst/internal/helper"
	"backend-antrian-pst/internal/models"
	"backend-antrian-pst/internal/repository"
)

var reportHeader = []string{
	"No", "Tanggal", "Kode Antrian", "Jenis", "Layanan", "Nama Pengunjung",
	"No. HP", "Status", "Petugas", "Waktu Daftar", "Mulai Dilayani", "Selesai", "SKD",
}

type ReportService struct {
	queues QueueStore
	loc    *time.Location
}

func NewReportService(queues QueueStore, loc *time.Location) *ReportService {
	return &ReportService{queues: queues, loc: loc}
}

// ExportQueues renders every entry created between startDate and endDate
// (inclusive, YYYY-MM-DD) into an xlsx workbook.
func (s *ReportService) ExportQueues(ctx context.Context, startDate, endDate string) ([]byte, string, error) {
	from, to, ok := helper.ParseDateRange(startDate, endDate, s.loc)
	if !ok {
		return nil, "", apperr.Validation("rentang tanggal tidak valid, gunakan format YYYY-MM-DD")
	}
	if to.Sub(from) > 366*24*time.Hour {
		return nil, "", apperr.Validation("rentang laporan maksimal satu tahun")
	}

	queues, _, err := s.queues.List(ctx, repository.QueueFilter{
		From:  &from,
		To:    &to,
		Order: repository.OrderNumberAsc,
	})
	if err != nil {
		return nil, "", storeError(err, "antrian")
	}

	data, err := s.render(queues)
	if err != nil {
		return nil, "", apperr.Internal("gagal membuat laporan", err)
	}
	return data, fmt.Sprintf("laporan-antrian-%s-%s.xlsx", startDate, endDate), nil
}

func (s *ReportService) render(queues []models.QueueDetail) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Antrian"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &reportHeader); err != nil {
		return nil, err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(reportHeader))
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, err
	}

	for i, q := range queues {
		skd := "Belum"
		if q.FilledSKD {
			skd = "Sudah"
		}
		row := []any{
			i + 1, q.QueueDate, q.QueueCode, string(q.QueueType), q.ServiceName, q.VisitorName,
			q.VisitorPhone, string(q.Status), q.AdminName,
			s.clock(&q.CreatedAt), s.clock(q.StartTime), s.clock(q.EndTime), skd,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	widths := []float64{6, 12, 14, 14, 28, 24, 16, 12, 20, 10, 14, 10, 8}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *ReportService) clock(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.In(s.loc).Format("15:04:05")
}
