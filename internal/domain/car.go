package domain

import "time"

type CarType string

const (
	CarTypeSUV   CarType = "SUV"
	CarTypeSedan CarType = "Sedan"
	CarTypeVan   CarType = "Van"
)

type CarStatus string

const (
	CarAvailable   CarStatus = "available"
	CarUnavailable CarStatus = "unavailable"
	CarMaintenance CarStatus = "maintenance"
)

type CarFeatures struct {
	Seats        int    `gorm:"column:seats" json:"seats" validate:"required,gte=1,lte=20"`
	Fuel         string `gorm:"column:fuel;type:varchar(32)" json:"fuel" validate:"required"`
	Year         int    `gorm:"column:year" json:"year" validate:"required,gte=2000"`
	Transmission string `gorm:"column:transmission;type:varchar(32);default:'Auto'" json:"transmission"`
	Duration     string `gorm:"column:duration;type:varchar(32);default:'12 hours'" json:"duration"`
}

type Car struct {
	ID          int64       `gorm:"primaryKey" json:"id"`
	Name        string      `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	PricePerDay float64     `gorm:"column:price_per_day;not null" json:"price" validate:"required,gte=0"`
	Type        CarType     `gorm:"type:varchar(20);index;not null" json:"type" validate:"required"`
	Images      StringList  `gorm:"type:text" json:"images" validate:"required,min=1,max=3"`
	Features    CarFeatures `gorm:"embedded" json:"features"`
	Rating      float64     `gorm:"default:5.0" json:"rating"`
	Trips       int         `gorm:"default:0" json:"trips"`
	Available   bool        `gorm:"default:true;index" json:"available"`
	Status      CarStatus   `gorm:"type:varchar(20);default:'available'" json:"status"`
	Amenities   StringList  `gorm:"type:text" json:"amenities,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (Car) TableName() string { return "cars" }
