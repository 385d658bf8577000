// Package report renders order history as spreadsheets for the admin panel.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/eliteshop/storefront/internal/model"

	"github.com/xuri/excelize/v2"
)

const (
	OrdersSheet = "Orders"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	timeLayout = "2006-01-02 15:04:05"
)

var orderHeaders = []any{
	"Order ID", "Placed At", "User ID", "Roblox Username", "Product", "Amount",
	"Quantity", "Total (BDT)", "Payment Method", "Phone", "Transaction ID", "Status",
}

// OrdersWorkbook builds a single sheet workbook with one row per order, in
// the order given. Timestamps are rendered in loc, or UTC when loc is nil.
func OrdersWorkbook(orders []model.Order, loc *time.Location) (*excelize.File, error) {
	if loc == nil {
		loc = time.UTC
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", OrdersSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(OrdersSheet, "A1", &orderHeaders); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(orderHeaders), 1)
		_ = f.SetCellStyle(OrdersSheet, "A1", last, bold)
	}
	_ = f.SetPanes(OrdersSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	for i, o := range orders {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []any{
			o.ID,
			time.UnixMilli(o.Timestamp).In(loc).Format(timeLayout),
			o.UserID,
			o.RobloxUsername,
			o.ProductName,
			o.Amount.String(),
			o.Quantity,
			o.TotalPrice,
			string(o.PaymentMethod),
			o.PhoneNumber,
			o.TransactionID,
			string(o.Status),
		}
		if err := f.SetSheetRow(OrdersSheet, cell, &row); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to write order %s: %w", o.ID, err)
		}
	}
	_ = f.SetColWidth(OrdersSheet, "A", "L", 18)

	return f, nil
}

// WriteOrders streams the workbook of orders to w
func WriteOrders(w io.Writer, orders []model.Order, loc *time.Location) error {
	f, err := OrdersWorkbook(orders, loc)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}
