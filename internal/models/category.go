// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Category groups products. Products reference it through CategoryID.
type Category struct {
	ID    int    `json:"Id" gorm:"primaryKey"`
	Title string `json:"Title" gorm:"size:60;not null"`
}

// TableName pins the table name so GORM and the goose migrations agree.
func (Category) TableName() string {
	return "categories"
}
