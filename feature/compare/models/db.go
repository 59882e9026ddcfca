package models

import "time"

// Upload is the registry row for one uploaded workbook.
type Upload struct {
	ID           string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	OriginalName string    `gorm:"column:original_name" json:"original_name"`
	ObjectKey    string    `gorm:"column:object_key" json:"-"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides the table name for uploads.
func (Upload) TableName() string {
	return "uploads"
}

// Comparison is the registry row for one completed comparison. It records
// the inputs and the summary counts, and anchors the stored report and
// marked-copy objects.
type Comparison struct {
	ID        string `gorm:"column:id;primaryKey;size:36" json:"id"`
	File1ID   string `gorm:"column:file1_id;size:36" json:"file1_id"`
	File2ID   string `gorm:"column:file2_id;size:36" json:"file2_id"`
	File1Name string `gorm:"column:file1_name" json:"file1_name"`
	File2Name string `gorm:"column:file2_name" json:"file2_name"`
	Sheet1    string `gorm:"column:sheet1" json:"sheet1"`
	Sheet2    string `gorm:"column:sheet2" json:"sheet2"`

	// KeyColumns is the comma-joined composite key column list.
	KeyColumns string `gorm:"column:key_columns" json:"key_columns"`

	OnlyInFile1 int `gorm:"column:only_in_file1" json:"only_in_file1"`
	OnlyInFile2 int `gorm:"column:only_in_file2" json:"only_in_file2"`
	CommonRows  int `gorm:"column:common_rows" json:"common_rows"`
	DiffRows    int `gorm:"column:diff_rows" json:"diff_rows"`

	HasMarkedFiles bool      `gorm:"column:has_marked_files" json:"has_marked_files"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides the table name for comparisons.
func (Comparison) TableName() string {
	return "comparisons"
}
