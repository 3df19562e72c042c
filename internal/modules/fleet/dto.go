package fleet

import "voyarental/internal/domain"

type CreateRequest struct {
	Name         string   `json:"name" binding:"required"`
	PricePerDay  float64  `json:"price" binding:"required,gt=0"`
	Type         string   `json:"type" binding:"required,oneof=SUV Sedan Van"`
	Images       []string `json:"images" binding:"required,min=1,max=3"`
	Seats        int      `json:"seats" binding:"required,gte=1,lte=20"`
	Fuel         string   `json:"fuel" binding:"required"`
	Year         int      `json:"year" binding:"required,gte=2000"`
	Transmission string   `json:"transmission"`
	Duration     string   `json:"duration"`
	Amenities    []string `json:"amenities"`
}

type UpdateRequest struct {
	Name        *string  `json:"name"`
	PricePerDay *float64 `json:"price"`
	Images      []string `json:"images"`
	Available   *bool    `json:"available"`
	Status      *string  `json:"status"`
	Amenities   []string `json:"amenities"`
}

func (r CreateRequest) toCar() *domain.Car {
	transmission := r.Transmission
	if transmission == "" {
		transmission = "Auto"
	}
	duration := r.Duration
	if duration == "" {
		duration = "12 hours"
	}
	return &domain.Car{
		Name:        r.Name,
		PricePerDay: r.PricePerDay,
		Type:        domain.CarType(r.Type),
		Images:      r.Images,
		Features: domain.CarFeatures{
			Seats:        r.Seats,
			Fuel:         r.Fuel,
			Year:         r.Year,
			Transmission: transmission,
			Duration:     duration,
		},
		Rating:    5.0,
		Available: true,
		Status:    domain.CarAvailable,
		Amenities: r.Amenities,
	}
}
