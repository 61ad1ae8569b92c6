package model

import "time"

// Car is a catalog listing for a single vehicle.  It owns the photos,
// ratings, favorites, reservations and purchases that reference it by ID.
//
// Fields:
//  ID          – primary key identifier.
//  Brand       – manufacturer name (e.g. "Toyota").
//  Name        – display name of the listing.
//  Model       – model designation.
//  Year        – production year.
//  Mileage     – odometer reading in kilometers.
//  PriceCents  – asking price in cents.
//  Description – free-form seller description.
//  IsAvailable – whether the car is still for sale.
//  CreatedAt   – creation timestamp.
type Car struct {
	ID          uint64    // cars.id
	Brand       string    // cars.brand
	Name        string    // cars.name
	Model       string    // cars.model
	Year        uint16    // cars.year
	Mileage     uint32    // cars.mileage
	PriceCents  uint64    // cars.price_cents
	Description string    // cars.description (nullable in DB, empty when absent)
	IsAvailable bool      // cars.is_available
	CreatedAt   time.Time // cars.created_at
}
