package model

import "time"

// CarPhoto is one entry in a car's photo gallery.  Each car has at most
// one photo with IsMain set; a car that has any photos at all has
// exactly one main photo.  The repository layer is responsible for
// keeping that invariant across inserts, deletions and main-photo
// changes.
//
// Fields:
//  ID           – primary key identifier.
//  CarID        – owning car.
//  URL          – opaque locator of the stored image.
//  IsMain       – whether this photo is the cover image.
//  DisplayOrder – gallery position; values need not be contiguous or
//                 unique, ties fall back to insertion order (lowest ID).
//  CreatedAt    – creation timestamp.
type CarPhoto struct {
	ID           uint64    // car_photos.id
	CarID        uint64    // car_photos.car_id
	URL          string    // car_photos.url
	IsMain       bool      // car_photos.is_main
	DisplayOrder uint32    // car_photos.display_order
	CreatedAt    time.Time // car_photos.created_at
}
