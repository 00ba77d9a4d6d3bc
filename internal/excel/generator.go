package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/paulster44/Muse-Contracts/internal/model"
)

const sheetName = "Contracts"

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate writes the contract list to a spreadsheet, one row per contract
// with a totals row at the bottom.
func (g *Generator) Generate(contracts []model.Contract) ([]byte, error) {
	file := excelize.NewFile()
	file.SetSheetName("Sheet1", sheetName)

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheetName, cell, value)
	}

	headers := []string{
		"Date", "Leader", "Band", "Venue", "Type", "Status",
		"Musicians", "Gross comp", "Work dues", "Pension", "Health",
	}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		set(cell, header)
	}

	var totalGross, totalDues, totalPension, totalHealth float64
	for i, c := range contracts {
		row := i + 2
		set(fmt.Sprintf("A%d", row), c.EngagementDate)
		set(fmt.Sprintf("B%d", row), c.LeaderName)
		set(fmt.Sprintf("C%d", row), c.BandName)
		set(fmt.Sprintf("D%d", row), c.VenueName)
		set(fmt.Sprintf("E%d", row), c.EngagementType)
		set(fmt.Sprintf("F%d", row), string(c.Status))
		set(fmt.Sprintf("G%d", row), c.NumMusicians)
		set(fmt.Sprintf("H%d", row), c.TotalGrossComp)
		set(fmt.Sprintf("I%d", row), c.TotalWorkDues)
		set(fmt.Sprintf("J%d", row), c.TotalPension)
		set(fmt.Sprintf("K%d", row), c.TotalHealth)

		totalGross += c.TotalGrossComp
		totalDues += c.TotalWorkDues
		totalPension += c.TotalPension
		totalHealth += c.TotalHealth
	}

	totalRow := len(contracts) + 2
	set(fmt.Sprintf("A%d", totalRow), "Total")
	set(fmt.Sprintf("H%d", totalRow), totalGross)
	set(fmt.Sprintf("I%d", totalRow), totalDues)
	set(fmt.Sprintf("J%d", totalRow), totalPension)
	set(fmt.Sprintf("K%d", totalRow), totalHealth)

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
