package database

import (
	"testing"

	"fintrack/internal/models"
	"fintrack/internal/testutil"
)

func TestSeedDefaultCategories(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	created, err := SeedDefaultCategories(db)
	testutil.AssertNoError(t, err)
	if created != len(defaultCategories) {
		t.Fatalf("expected %d categories, got %d", len(defaultCategories), created)
	}

	created, err = SeedDefaultCategories(db)
	testutil.AssertNoError(t, err)
	if created != 0 {
		t.Errorf("expected second run to create nothing, got %d", created)
	}

	var count int64
	db.Model(&models.Category{}).Where("is_default = ?", true).Count(&count)
	if int(count) != len(defaultCategories) {
		t.Errorf("expected %d default categories, got %d", len(defaultCategories), count)
	}

	var investments int64
	db.Model(&models.Category{}).Where("name = ?", "Investments").Count(&investments)
	if investments != 2 {
		t.Errorf("expected Investments as both expense and income, got %d rows", investments)
	}
}

func TestConfig_MigrateURL(t *testing.T) {
	cfg := &Config{Host: "db", Port: "5432", User: "app", Password: "p@ss", DBName: "fintrack", SSLMode: "disable"}
	want := "postgres://app:p%40ss@db:5432/fintrack?sslmode=disable"
	if got := cfg.MigrateURL(); got != want {
		t.Errorf("MigrateURL() = %q, want %q", got, want)
	}
}
