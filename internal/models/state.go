package models

// State is a shipping-destination region offered at checkout.
type State struct {
	ID   string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name string `json:"name" gorm:"type:varchar(100)"`
	Code string `json:"code" gorm:"type:varchar(10)"`
}
