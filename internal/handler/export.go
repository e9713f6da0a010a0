package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"finance-manager/internal/middleware"
	"finance-manager/internal/models"
	"finance-manager/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportHandler serves the transaction history as CSV or XLSX for the
// reports page.
type ExportHandler struct {
	DB *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{DB: db}
}

func (h *ExportHandler) loadTransactions(userID uint) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := h.DB.Preload("Category").
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&txs).Error
	return txs, err
}

func exportRow(tx *models.Transaction) []string {
	typeText := "Despesa"
	if tx.Type == models.TypeIncome {
		typeText = "Receita"
	}
	category := ""
	if tx.Category != nil {
		category = tx.Category.Name
	}
	return []string{
		typeText,
		category,
		util.FormatCents(tx.AmountCents),
		tx.Description,
		tx.Date.Format("2006-01-02"),
	}
}

var exportHeaders = []string{"Tipo", "Categoria", "Valor", "Descrição", "Data"}

// ExportCSV streams the transaction history as CSV.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	txs, err := h.loadTransactions(user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transactions")
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q",
		fmt.Sprintf("transactions_%s.csv", time.Now().Format("20060102"))))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	// UTF-8 BOM so Excel renders accents correctly
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer.Write(exportHeaders)
	for i := range txs {
		writer.Write(exportRow(&txs[i]))
	}
}

// ExportXLSX streams the transaction history as an Excel workbook.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	txs, err := h.loadTransactions(user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transactions")
		return
	}

	f := excelize.NewFile()
	sheetName := "Transações"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create sheet")
		return
	}
	f.SetActiveSheet(index)

	for i, header := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for idx := range txs {
		row := idx + 2
		for col, value := range exportRow(&txs[idx]) {
			cell := fmt.Sprintf("%c%d", 'A'+col, row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	f.SetColWidth(sheetName, "A", "A", 10)
	f.SetColWidth(sheetName, "B", "B", 18)
	f.SetColWidth(sheetName, "C", "C", 12)
	f.SetColWidth(sheetName, "D", "D", 32)
	f.SetColWidth(sheetName, "E", "E", 12)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q",
		fmt.Sprintf("transactions_%s.xlsx", time.Now().Format("20060102"))))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
	}
}
