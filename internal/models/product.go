// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "github.com/shopspring/decimal"

// Product is a catalog item. Every product belongs to exactly one category,
// which store reads always preload.
type Product struct {
	ID          int             `json:"Id" gorm:"primaryKey"`
	Title       string          `json:"Title" gorm:"size:120;not null"`
	Description string          `json:"Description" gorm:"size:900;not null"`
	Price       decimal.Decimal `json:"Price" gorm:"type:numeric(10,2);not null"`
	Image       string          `json:"Image" gorm:"not null"`
	CategoryID  int             `json:"CategoryId" gorm:"not null;index"`
	Category    *Category       `json:"Category" gorm:"foreignKey:CategoryID;references:ID;constraint:OnDelete:RESTRICT"`
}

func (Product) TableName() string {
	return "products"
}
