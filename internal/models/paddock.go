package models

import (
	"time"

	"github.com/google/uuid"
)

// Paddock type classifications.
const (
	PaddockTypePasture      = "pasture"
	PaddockTypeCropping     = "cropping"
	PaddockTypeMixed        = "mixed"
	PaddockTypeNativeBush   = "native_bush"
	PaddockTypeWetland      = "wetland"
	PaddockTypeAgroforestry = "agroforestry"
	PaddockTypeOther        = "other"
)

// Paddock represents a bounded land parcel drawn on the farm map.
// AreaSqm is computed by the drawing tool from the boundary and is always >= 0.
type Paddock struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Color     string    `json:"color"`
	Geom      Polygon   `json:"geometry"`
	AreaSqm   float64   `json:"areaSqm"`
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"ownerId"`
}

// Hectares converts the stored square-meter area to hectares.
func (p *Paddock) Hectares() float64 {
	return p.AreaSqm / 10000
}
