package models

import "time"

// Product is one stock line of a branch. BranchName is filled by the stores
// for display and is never persisted as a column.
type Product struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	BranchID   uint       `gorm:"column:filial_id;index;not null" json:"-"`
	Branch     *Branch    `gorm:"foreignKey:BranchID;constraint:OnDelete:CASCADE" json:"-"`
	BranchName string     `gorm:"-" json:"branch"`
	Barcode    string     `gorm:"column:codigo_barras;size:64" json:"barcode"`
	Name       string     `gorm:"column:nome;size:255;not null" json:"name"`
	Brand      string     `gorm:"column:marca;size:255" json:"brand"`
	Expiry     *time.Time `gorm:"column:validade;type:date" json:"expiry"`
	Quantity   int        `gorm:"column:quantidade;not null;default:0" json:"quantity"`
	Notes      string     `gorm:"column:observacoes;size:500" json:"notes"`
	CreatedAt  time.Time  `json:"-"`
}

func (Product) TableName() string { return "produtos" }
