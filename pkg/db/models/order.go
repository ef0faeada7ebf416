package models

import (
	"time"

	"github.com/treadstock/treadstock-backend/pkg/enums"
)

// Order covers both a sale and a storage contract; Service tells them apart.
type Order struct {
	ID            uint               `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerName  string             `gorm:"column:customer_name;not null"`
	CustomerPhone *string            `gorm:"column:customer_phone"`
	Service       enums.OrderService `gorm:"column:service;not null"`
	Status        enums.OrderStatus  `gorm:"column:status;not null;default:'draft'"`
	Lines         []OrderLine        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
