package models

import "time"

type UserLevel string

const (
	LevelAdmin    UserLevel = "admin"
	LevelOperator UserLevel = "operador"
)

type User struct {
	ID           uint      `gorm:"primaryKey"`
	Username     string    `gorm:"size:100;not null;uniqueIndex"`
	PasswordHash string    `gorm:"column:senha;size:255;not null"`
	Level        UserLevel `gorm:"column:nivel;size:20;not null;default:operador"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (User) TableName() string { return "usuarios" }
