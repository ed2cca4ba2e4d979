package order

import (
	"errors"
	"fmt"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

// ErrTransitItemIsNotConstructed is returned when a TransitItem instance was not
// created through NewTransitItem or RestoreTransitItem.
var ErrTransitItemIsNotConstructed = errors.New(
	"TransitItem must be created via NewTransitItem constructor")

// PackagingType describes how a transit item is packaged.
type PackagingType int

const (
	// PackagingUnknown represents an invalid or undefined packaging type.
	PackagingUnknown PackagingType = iota

	// PackagingBox is discrete boxed goods.
	PackagingBox

	// PackagingFluid is fluid goods measured by volume.
	PackagingFluid
)

// Validate checks if the PackagingType value is valid.
func (p PackagingType) Validate() error {
	if p != PackagingBox && p != PackagingFluid {
		return errs.NewValueIsInvalidErrorWithCause("packaging type is invalid",
			fmt.Errorf("%d is not a valid packaging type", p))
	}
	return nil
}

// String returns the human-readable name of the packaging type.
func (p PackagingType) String() string {
	switch p {
	case PackagingBox:
		return "Box"
	case PackagingFluid:
		return "Fluid"
	default:
		return "Unknown"
	}
}

// Dimensions holds the physical envelope of an item in centimeters.
type Dimensions struct {
	LengthCm float64
	WidthCm  float64
	HeightCm float64
}

// TransitItem is the physical good moving between a pickup and its matching
// delivery. Items are created implicitly by pickup actions and referenced,
// never duplicated, by the corresponding delivery actions (invariant: every
// delivery's item reference resolves to an item created by a pickup in the
// same order).
type TransitItem struct {
	id              kernel.UUID
	name            string
	description     string
	packaging       PackagingType
	weightKg        float64
	volumeM3        float64
	dimensions      Dimensions
	unitPriceCents  int64
	requirementTags []string
	productTags     []string

	isConstructed bool
}

// NewTransitItem creates a transit item with validation.
// Name must be non-empty, packaging must be valid, and weight/volume/price
// must not be negative.
func NewTransitItem(
	id kernel.UUID,
	name string,
	description string,
	packaging PackagingType,
	weightKg float64,
	volumeM3 float64,
	dimensions Dimensions,
	unitPriceCents int64,
	requirementTags []string,
	productTags []string,
) (*TransitItem, error) {
	item := &TransitItem{
		description:     description,
		dimensions:      dimensions,
		requirementTags: append([]string(nil), requirementTags...),
		productTags:     append([]string(nil), productTags...),
		isConstructed:   true,
	}

	if err := errors.Join(
		item.setID(id),
		item.setName(name),
		item.setPackaging(packaging),
		item.setWeightKg(weightKg),
		item.setVolumeM3(volumeM3),
		item.setUnitPriceCents(unitPriceCents),
	); err != nil {
		return nil, err
	}

	return item, nil
}

// RestoreTransitItem reconstructs a transit item from persistence.
func RestoreTransitItem(
	id kernel.UUID,
	name string,
	description string,
	packaging PackagingType,
	weightKg float64,
	volumeM3 float64,
	dimensions Dimensions,
	unitPriceCents int64,
	requirementTags []string,
	productTags []string,
) (*TransitItem, error) {
	return NewTransitItem(id, name, description, packaging, weightKg, volumeM3,
		dimensions, unitPriceCents, requirementTags, productTags)
}

// Validate ensures the item was created through a constructor.
func (t *TransitItem) Validate() error {
	if t == nil || !t.isConstructed {
		return ErrTransitItemIsNotConstructed
	}
	return nil
}

// ID returns the item's unique identifier.
func (t *TransitItem) ID() kernel.UUID {
	return t.id
}

// Name returns the item's name.
func (t *TransitItem) Name() string {
	return t.name
}

// Description returns the item's free-form description.
func (t *TransitItem) Description() string {
	return t.description
}

// Packaging returns the packaging type.
func (t *TransitItem) Packaging() PackagingType {
	return t.packaging
}

// WeightKg returns the unit weight in kilograms.
func (t *TransitItem) WeightKg() float64 {
	return t.weightKg
}

// VolumeM3 returns the unit volume in cubic meters.
func (t *TransitItem) VolumeM3() float64 {
	return t.volumeM3
}

// DimensionsCm returns the item's physical envelope.
func (t *TransitItem) DimensionsCm() Dimensions {
	return t.dimensions
}

// UnitPriceCents returns the declared unit price in cents.
func (t *TransitItem) UnitPriceCents() int64 {
	return t.unitPriceCents
}

// RequirementTags returns handling requirement tags such as fragile or refrigerated.
func (t *TransitItem) RequirementTags() []string {
	return append([]string(nil), t.requirementTags...)
}

// ProductTags returns product classification tags.
func (t *TransitItem) ProductTags() []string {
	return append([]string(nil), t.productTags...)
}

func (t *TransitItem) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	t.id = id
	return nil
}

func (t *TransitItem) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("transit item name")
	}
	t.name = name
	return nil
}

func (t *TransitItem) setPackaging(packaging PackagingType) error {
	if err := packaging.Validate(); err != nil {
		return err
	}
	t.packaging = packaging
	return nil
}

func (t *TransitItem) setWeightKg(weightKg float64) error {
	if weightKg < 0 {
		return errs.NewValueIsInvalidErrorWithCause("weight is invalid",
			fmt.Errorf("%f is negative", weightKg))
	}
	t.weightKg = weightKg
	return nil
}

func (t *TransitItem) setVolumeM3(volumeM3 float64) error {
	if volumeM3 < 0 {
		return errs.NewValueIsInvalidErrorWithCause("volume is invalid",
			fmt.Errorf("%f is negative", volumeM3))
	}
	t.volumeM3 = volumeM3
	return nil
}

func (t *TransitItem) setUnitPriceCents(unitPriceCents int64) error {
	if unitPriceCents < 0 {
		return errs.NewValueIsInvalidErrorWithCause("unit price is invalid",
			fmt.Errorf("%d is negative", unitPriceCents))
	}
	t.unitPriceCents = unitPriceCents
	return nil
}
