package db

import (
	"errors"
	"testing"
)

func TestIsUniqueViolationGenericCheck(t *testing.T) {
	pgErr := errors.New(`duplicate key value violates unique constraint "idx_products_sku"`)
	if !IsUniqueViolation(pgErr, "") {
		t.Fatal("postgres duplicate key error not recognized")
	}

	sqliteErr := errors.New("UNIQUE constraint failed: products.sku")
	if !IsUniqueViolation(sqliteErr, "") {
		t.Fatal("sqlite unique constraint error not recognized")
	}

	if IsUniqueViolation(errors.New("connection refused"), "") {
		t.Fatal("unrelated error reported as unique violation")
	}
	if IsUniqueViolation(nil, "") {
		t.Fatal("nil error reported as unique violation")
	}
}

func TestIsUniqueViolationNamedConstraint(t *testing.T) {
	err := errors.New(`duplicate key value violates unique constraint "idx_products_sku"`)
	if !IsUniqueViolation(err, "idx_products_sku") {
		t.Fatal("named constraint not matched")
	}
	if IsUniqueViolation(err, "idx_bundle_tiers_product_tier_key_active") {
		t.Fatal("different constraint name matched")
	}
}
