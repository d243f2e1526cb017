package model

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// GeoPoint is a WGS84 coordinate pair stored in a PostGIS
// geography(Point,4326) column, so distance predicates run in meters.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (GeoPoint) GormDataType() string { return "geography(Point,4326)" }

func (GeoPoint) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return "geography(Point,4326)"
}

// GormValue writes the point through PostGIS; note the lng/lat argument
// order of ST_MakePoint.
func (p GeoPoint) GormValue(ctx context.Context, db *gorm.DB) clause.Expr {
	return clause.Expr{
		SQL:  "ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography",
		Vars: []interface{}{p.Longitude, p.Latitude},
	}
}

const (
	ewkbSRIDFlag = 0x20000000
	wkbPoint     = 1
)

// Scan decodes the hex-encoded EWKB value postgres returns for geography
// columns.
func (p *GeoPoint) Scan(value interface{}) error {
	var s string
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return fmt.Errorf("geopoint: unsupported source type %T", value)
	}

	raw, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("geopoint: decode hex: %w", err)
	}
	if len(raw) < 21 {
		return fmt.Errorf("geopoint: ewkb too short (%d bytes)", len(raw))
	}

	var order binary.ByteOrder = binary.BigEndian
	if raw[0] == 1 {
		order = binary.LittleEndian
	}

	gtype := order.Uint32(raw[1:5])
	if gtype&0xff != wkbPoint {
		return fmt.Errorf("geopoint: not a point geometry (type %d)", gtype&0xff)
	}

	off := 5
	if gtype&ewkbSRIDFlag != 0 {
		off += 4 // skip SRID
	}
	if len(raw) < off+16 {
		return fmt.Errorf("geopoint: truncated point coordinates")
	}

	p.Longitude = math.Float64frombits(order.Uint64(raw[off : off+8]))
	p.Latitude = math.Float64frombits(order.Uint64(raw[off+8 : off+16]))
	return nil
}
