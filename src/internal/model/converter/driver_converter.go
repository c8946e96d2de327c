package converter

import (
	"delivery-service/src/internal/entity"
	"delivery-service/src/internal/model"
)

func DriverToResponse(driver *entity.Driver) *model.DriverResponse {
	return &model.DriverResponse{
		ID:               driver.ID,
		UserID:           driver.UserID,
		Name:             driver.Name,
		Phone:            driver.Phone,
		Email:            nullString(driver.Email),
		VehicleType:      driver.VehicleType,
		LicenseNumber:    driver.LicenseNumber,
		Points:           driver.Points,
		IsAvailable:      driver.IsAvailable,
		IsActive:         driver.IsActive,
		CurrentLatitude:  nullFloat(driver.CurrentLatitude),
		CurrentLongitude: nullFloat(driver.CurrentLongitude),
		CreatedAt:        driver.CreatedAt,
		UpdatedAt:        driver.UpdatedAt,
	}
}

func DriversToResponse(drivers []entity.Driver) []model.DriverResponse {
	res := make([]model.DriverResponse, 0, len(drivers))
	for i := range drivers {
		res = append(res, *DriverToResponse(&drivers[i]))
	}
	return res
}
