package fleet

import (
	"context"
	"errors"
	"fmt"

	"voyarental/internal/domain"
	"voyarental/internal/pkg/validator"
	"voyarental/internal/repository"

	"gorm.io/gorm"
)

type Service struct {
	cars    carRepo
	loggerf func(format string, args ...interface{})
}

func NewService(cars carRepo, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{cars: cars, loggerf: loggerf}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*domain.Car, error) {
	car := req.toCar()
	if errs := validator.Validate(car); errs != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCar, errs)
	}
	if err := s.cars.Create(ctx, car); err != nil {
		return nil, err
	}
	s.loggerf("level=info msg=car added car_id=%d name=%q price_per_day=%.2f", car.ID, car.Name, car.PricePerDay)
	return car, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Car, error) {
	car, err := s.cars.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCarNotFound
		}
		return nil, err
	}
	return car, nil
}

// Featured returns a random available car.
func (s *Service) Featured(ctx context.Context) (*domain.Car, error) {
	car, err := s.cars.GetRandomAvailable(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCarNotFound
		}
		return nil, err
	}
	return car, nil
}

func (s *Service) List(ctx context.Context, f repository.CarFilter, page, limit int) ([]domain.Car, int64, error) {
	return s.cars.List(ctx, f, page, limit)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (*domain.Car, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.PricePerDay != nil {
		updates["price_per_day"] = *req.PricePerDay
	}
	if req.Images != nil {
		updates["images"] = domain.StringList(req.Images)
	}
	if req.Available != nil {
		updates["available"] = *req.Available
	}
	if req.Status != nil {
		updates["status"] = domain.CarStatus(*req.Status)
	}
	if req.Amenities != nil {
		updates["amenities"] = domain.StringList(req.Amenities)
	}
	if len(updates) == 0 {
		return s.Get(ctx, id)
	}

	if err := s.cars.Update(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCarNotFound
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.cars.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCarNotFound
	}
	return err
}
