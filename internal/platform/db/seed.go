package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type seedRate struct {
	ProfessionCode string
	GroupNo        int
	ItemNo         string
	Amount         string
	Description    string
}

// MasterRateCatalog is the allowance catalog loaded into master_rates on first start.
var MasterRateCatalog = []seedRate{
	{"DOCTOR", 1, "1.1", "5000", "แพทย์ปฏิบัติงานทั่วไป"},
	{"DOCTOR", 2, "2.1", "10000", "แพทย์เฉพาะทาง"},
	{"DOCTOR", 3, "3.1", "15000", "แพทย์เฉพาะทางสาขาขาดแคลน"},
	{"DENTIST", 1, "1.1", "5000", "ทันตแพทย์ปฏิบัติงานทั่วไป"},
	{"DENTIST", 2, "2.1", "7500", "ทันตแพทย์เฉพาะทาง"},
	{"DENTIST", 3, "3.1", "10000", "ทันตแพทย์เฉพาะทางสาขาขาดแคลน"},
	{"PHARMACIST", 1, "1.1", "1500", "เภสัชกรปฏิบัติงานทั่วไป"},
	{"PHARMACIST", 2, "2.1", "3000", "เภสัชกรเฉพาะทาง"},
	{"NURSE", 1, "1.1", "1000", "พยาบาลวิชาชีพ"},
	{"NURSE", 2, "2.1", "1500", "พยาบาลวิชาชีพงานเฉพาะทาง"},
	{"NURSE", 3, "3.1", "2000", "พยาบาลวิชาชีพผู้ชำนาญการพิเศษ"},
	{"ALLIED", 1, "1.1", "1000", "สหวิชาชีพ"},
}

func Seed(ctx context.Context, pool *pgxpool.Pool) error {
	for _, rate := range MasterRateCatalog {
		amount, err := decimal.NewFromString(rate.Amount)
		if err != nil {
			return err
		}
		if _, err := pool.Exec(ctx, `
      INSERT INTO master_rates (profession_code, group_no, item_no, amount, description)
      VALUES ($1,$2,$3,$4,$5)
      ON CONFLICT (profession_code, group_no, item_no) DO NOTHING
    `, rate.ProfessionCode, rate.GroupNo, rate.ItemNo, amount, rate.Description); err != nil {
			return err
		}
	}

	_, err := pool.Exec(ctx, `
    INSERT INTO users (citizen_id, full_name, role)
    VALUES ('0000000000000', 'System Administrator', 'ADMIN')
    ON CONFLICT (citizen_id) DO NOTHING
  `)
	return err
}
