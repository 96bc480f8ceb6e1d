package gesture

import (
	"math"

	"github.com/dshills/overboard/internal/layout"
)

// Direction is one of the eight 45° swipe sectors. Screen y grows downward
// and angles are measured clockwise from the positive x axis, so DirE is 0°,
// DirS is 90° and DirN is 270°.
type Direction uint8

const (
	DirE Direction = iota
	DirSE
	DirS
	DirSW
	DirW
	DirNW
	DirN
	DirNE

	directionCount = 8
)

const sectorWidth = 360.0 / directionCount

// directionSlots maps each sector onto the key slot it selects. The slot
// numbering follows the label positions on the key face.
var directionSlots = [directionCount]layout.Slot{
	DirE:  layout.SlotE,
	DirSE: layout.SlotSE,
	DirS:  layout.SlotS,
	DirSW: layout.SlotSW,
	DirW:  layout.SlotW,
	DirNW: layout.SlotNW,
	DirN:  layout.SlotN,
	DirNE: layout.SlotNE,
}

var directionNames = [directionCount]string{
	"e", "se", "s", "sw", "w", "nw", "n", "ne",
}

// Slot returns the key slot selected by a swipe in direction d.
func (d Direction) Slot() layout.Slot {
	if d >= directionCount {
		return layout.SlotMain
	}
	return directionSlots[d]
}

// String returns the compass name of the direction.
func (d Direction) String() string {
	if d >= directionCount {
		return "invalid"
	}
	return directionNames[d]
}

// next returns the sector clockwise of d.
func (d Direction) next() Direction {
	return (d + 1) % directionCount
}

// prev returns the sector counter-clockwise of d.
func (d Direction) prev() Direction {
	return (d + directionCount - 1) % directionCount
}

// DirectionOf quantizes the vector (dx, dy) into a sector. offset rotates
// the sector boundaries clockwise, in degrees. The returned bias is positive
// when the angle lies on the clockwise half of its sector.
func DirectionOf(dx, dy, offset float64) (Direction, float64) {
	a := math.Atan2(dy, dx)*180/math.Pi - offset
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	sector := int(math.Floor((a+sectorWidth/2)/sectorWidth)) % directionCount
	bias := a - float64(sector)*sectorWidth
	if bias > 180 {
		bias -= 360
	}
	return Direction(sector), bias
}
