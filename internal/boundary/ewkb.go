package boundary

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
)

// EncodeEWKB encodes a district geometry as little-endian EWKB with SRID 4326.
func EncodeEWKB(mp *geom.MultiPolygon) ([]byte, error) {
	if mp == nil {
		return nil, eris.New("boundary: encode nil geometry")
	}
	data, err := ewkb.Marshal(mp.SetSRID(SRID), ewkb.NDR)
	if err != nil {
		return nil, eris.Wrap(err, "boundary: encode EWKB")
	}
	return data, nil
}

// DecodeEWKB decodes EWKB bytes holding a Polygon or MultiPolygon.
func DecodeEWKB(data []byte) (*geom.MultiPolygon, error) {
	g, err := ewkb.Unmarshal(data)
	if err != nil {
		return nil, eris.Wrap(err, "boundary: decode EWKB")
	}
	return ToMultiPolygon(g)
}
