package validators

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validCreateCar() *CreateCarRequest {
	return &CreateCarRequest{
		Make:             "Toyota",
		Model:            "Corolla",
		Year:             2022,
		Category:         "midsize",
		Transmission:     "automatic",
		FuelType:         "hybrid",
		Seats:            5,
		PricePerDayCents: 8500,
		LicensePlate:     "M-AB 1234",
		Location:         "Munich",
		Features:         []string{"gps", "bluetooth"},
	}
}

func TestValidateCreateCarRequest(t *testing.T) {
	t.Run("valid request passes", func(t *testing.T) {
		assert.Empty(t, ValidateCreateCarRequest(validCreateCar()))
	})

	t.Run("zero price rejected", func(t *testing.T) {
		req := validCreateCar()
		req.PricePerDayCents = 0
		errs := ValidateCreateCarRequest(req)
		assert.Contains(t, fieldsOf(errs), "PricePerDayCents")
	})

	t.Run("unknown category", func(t *testing.T) {
		req := validCreateCar()
		req.Category = "spaceship"
		errs := ValidateCreateCarRequest(req)
		assert.Contains(t, fieldsOf(errs), "Category")
	})

	t.Run("unknown feature", func(t *testing.T) {
		req := validCreateCar()
		req.Features = []string{"gps", "rocket_booster"}
		errs := ValidateCreateCarRequest(req)
		assert.NotEmpty(t, errs)
	})

	t.Run("year in the future", func(t *testing.T) {
		req := validCreateCar()
		req.Year = time.Now().Year() + 2
		errs := ValidateCreateCarRequest(req)
		assert.Contains(t, fieldsOf(errs), "Year")
	})

	t.Run("bad license plate", func(t *testing.T) {
		req := validCreateCar()
		req.LicensePlate = "!!!"
		errs := ValidateCreateCarRequest(req)
		assert.Contains(t, fieldsOf(errs), "LicensePlate")
	})

	t.Run("too many seats", func(t *testing.T) {
		req := validCreateCar()
		req.Seats = 12
		errs := ValidateCreateCarRequest(req)
		assert.Contains(t, fieldsOf(errs), "Seats")
	})
}

func TestValidateSearchCarsRequest(t *testing.T) {
	day := func(d int) *time.Time {
		t := time.Now().AddDate(0, 0, d).Truncate(24 * time.Hour)
		return &t
	}

	t.Run("empty request passes", func(t *testing.T) {
		assert.Empty(t, ValidateSearchCarsRequest(&SearchCarsRequest{}))
	})

	t.Run("price band ordering", func(t *testing.T) {
		errs := ValidateSearchCarsRequest(&SearchCarsRequest{MinPrice: 9000, MaxPrice: 3000})
		assert.Contains(t, fieldsOf(errs), "MaxPrice")
	})

	t.Run("lone start date rejected", func(t *testing.T) {
		errs := ValidateSearchCarsRequest(&SearchCarsRequest{StartDate: day(1)})
		assert.Contains(t, fieldsOf(errs), "StartDate")
	})

	t.Run("lone end date rejected", func(t *testing.T) {
		errs := ValidateSearchCarsRequest(&SearchCarsRequest{EndDate: day(5)})
		assert.Contains(t, fieldsOf(errs), "StartDate")
	})

	t.Run("date pair passes", func(t *testing.T) {
		errs := ValidateSearchCarsRequest(&SearchCarsRequest{StartDate: day(1), EndDate: day(5)})
		assert.Empty(t, errs)
	})

	t.Run("inverted dates rejected", func(t *testing.T) {
		errs := ValidateSearchCarsRequest(&SearchCarsRequest{StartDate: day(5), EndDate: day(1)})
		assert.Contains(t, fieldsOf(errs), "EndDate")
	})
}

func TestValidateRegisterRequest(t *testing.T) {
	valid := &RegisterRequest{
		FirstName: "Dana",
		LastName:  "Muster",
		Email:     "dana@example.com",
		Password:  "s3cretpw",
		Role:      "business",
	}
	assert.Empty(t, ValidateRegisterRequest(valid))

	t.Run("bad email", func(t *testing.T) {
		req := *valid
		req.Email = "not-an-email"
		assert.Contains(t, fieldsOf(ValidateRegisterRequest(&req)), "Email")
	})

	t.Run("short password", func(t *testing.T) {
		req := *valid
		req.Password = "abc"
		assert.Contains(t, fieldsOf(ValidateRegisterRequest(&req)), "Password")
	})

	t.Run("admin role cannot be self assigned", func(t *testing.T) {
		req := *valid
		req.Role = "admin"
		assert.Contains(t, fieldsOf(ValidateRegisterRequest(&req)), "Role")
	})
}

func TestValidateChangePasswordRequest(t *testing.T) {
	errs := ValidateChangePasswordRequest(&ChangePasswordRequest{
		CurrentPassword: "oldpassword",
		NewPassword:     "oldpassword",
	})
	assert.Contains(t, fieldsOf(errs), "NewPassword")

	errs = ValidateChangePasswordRequest(&ChangePasswordRequest{
		CurrentPassword: "oldpassword",
		NewPassword:     "newpassword",
	})
	assert.Empty(t, errs)
}
