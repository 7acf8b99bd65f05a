package bootstrap

import (
	"context"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"supplier_server/core/domain"
)

// Well-known fixture ids, stable across restarts for manual testing.
const (
	devIDAdmin = "00000000-0000-0000-0000-000000000001"
	devIDAlpha = "00000000-0000-0000-0000-000000000020"
	devIDBeta  = "00000000-0000-0000-0000-000000000030"
)

// SeedDevData drops the supplier and user collections and installs the
// development fixtures. Only called in the development environment.
func SeedDevData(deps *Dependencies, log zerolog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	db := deps.MongoDB.Database(deps.Config.MongoDBName)
	for _, name := range []string{"lieferanten", "users", "multimedia.files", "multimedia.chunks"} {
		if err := db.Collection(name).Drop(ctx); err != nil {
			return err
		}
	}
	if err := deps.SupplierRepo.EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := deps.UserRepo.EnsureIndexes(ctx); err != nil {
		return err
	}

	users := []struct {
		username string
		roles    []string
	}{
		{"admin", []string{"ADMIN", "LIEFERANT", "ACTUATOR"}},
		{"alpha", []string{"LIEFERANT"}},
		{"beta", []string{"LIEFERANT"}},
	}
	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte("p"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user := domain.User{
			ID:       uuid.NewString(),
			Username: u.username,
			Password: string(hash),
			Roles:    u.roles,
		}
		if err := deps.UserRepo.Insert(ctx, &user); err != nil {
			return err
		}
	}

	for _, s := range devSuppliers() {
		supplier := s
		if err := deps.SupplierRepo.Insert(ctx, &supplier); err != nil {
			return err
		}
	}

	log.Info().Msg("development fixtures installed")
	return nil
}

func devSuppliers() []domain.Supplier {
	umsatz, _, _ := apd.NewFromString("10000000.123")
	birthdate := domain.NewDate(2001, time.January, 31)

	return []domain.Supplier{
		{
			ID:         devIDAdmin,
			Version:    0,
			LastName:   "Admin",
			Email:      "admin@acme.com",
			Category:   3,
			Newsletter: true,
			Birthdate:  birthdate,
			Revenue:    &domain.Revenue{Amount: umsatz, Currency: "EUR"},
			Homepage:   "https://www.acme.com",
			Gender:     domain.GenderDiverse,
			Interests:  []domain.Interest{domain.InterestReading},
			Address:    domain.Address{PostalCode: "00000", City: "Aachen"},
			Username:   "admin",
		},
		{
			ID:            devIDAlpha,
			Version:       0,
			LastName:      "Alpha",
			Email:         "alpha@acme.de",
			Category:      2,
			Newsletter:    true,
			Gender:        domain.GenderMale,
			DeliveryTime:  domain.DeliveryShort,
			MaritalStatus: domain.MaritalSingle,
			Interests:     []domain.Interest{domain.InterestSport, domain.InterestReading},
			Address:       domain.Address{PostalCode: "11111", City: "Augsburg"},
			Username:      "alpha",
		},
		{
			ID:            devIDBeta,
			Version:       0,
			LastName:      "Beta",
			Email:         "beta@acme.biz",
			Category:      3,
			Gender:        domain.GenderFemale,
			DeliveryTime:  domain.DeliveryLong,
			MaritalStatus: domain.MaritalMarried,
			Address:       domain.Address{PostalCode: "22222", City: "Bremen"},
			Username:      "beta",
		},
	}
}
