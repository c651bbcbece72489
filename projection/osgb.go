// Package projection converts WGS84 coordinates to Ordnance Survey national
// grid references (easting/northing on the OSGB36 datum, EPSG:27700).
package projection

import "math"

// Ellipsoid parameters.
const (
	wgs84A = 6378137.0
	wgs84B = 6356752.314245

	airyA = 6377563.396
	airyB = 6356256.909
)

// Helmert transform WGS84 → OSGB36 (metres, ppm, arc-seconds).
const (
	helmertTX = -446.448
	helmertTY = 125.157
	helmertTZ = -542.060
	helmertS  = 20.4894
	helmertRX = -0.1502
	helmertRY = -0.2470
	helmertRZ = -0.8421
)

// Transverse Mercator constants for the national grid.
const (
	scaleF0    = 0.9996012717
	originLat  = 49.0
	originLon  = -2.0
	originE    = 400000.0
	originN    = -100000.0
	maxEasting = 800000.0
	maxNorth   = 1400000.0
)

// Transformer projects WGS84 coordinates onto the national grid. Construct it
// once and share it; Project is safe for concurrent use.
type Transformer struct {
	phi0, lambda0 float64
	rx, ry, rz    float64
	scale         float64
}

// NewTransformer builds the shared WGS84 → OSGB36 transformer.
func NewTransformer() *Transformer {
	secToRad := math.Pi / (180.0 * 3600.0)
	return &Transformer{
		phi0:    originLat * math.Pi / 180,
		lambda0: originLon * math.Pi / 180,
		rx:      helmertRX * secToRad,
		ry:      helmertRY * secToRad,
		rz:      helmertRZ * secToRad,
		scale:   1 + helmertS*1e-6,
	}
}

// Project converts a WGS84 latitude/longitude into a whole-metre grid
// reference. ok is false when the coordinate falls outside the grid domain;
// projection never returns an error or panics.
func (t *Transformer) Project(lat, lon float64) (easting, northing int, ok bool) {
	// Coarse bounds of the OSGB36 domain. Anything further out produces a
	// meaningless grid reference, so short-circuit.
	if lat < 48.5 || lat > 61.5 || lon < -9.5 || lon > 2.5 {
		return 0, 0, false
	}

	phi, lambda := t.toOSGB36(lat*math.Pi/180, lon*math.Pi/180)
	e, n := t.transverseMercator(phi, lambda)

	if e < 0 || e > maxEasting || n < 0 || n > maxNorth {
		return 0, 0, false
	}
	return int(math.Round(e)), int(math.Round(n)), true
}

// toOSGB36 shifts an ellipsoidal WGS84 coordinate onto the Airy 1830 datum
// via cartesian conversion and a 7-parameter Helmert transform.
func (t *Transformer) toOSGB36(phi, lambda float64) (float64, float64) {
	sinPhi, cosPhi := math.Sincos(phi)

	e2 := 1 - (wgs84B*wgs84B)/(wgs84A*wgs84A)
	nu := wgs84A / math.Sqrt(1-e2*sinPhi*sinPhi)

	x := nu * cosPhi * math.Cos(lambda)
	y := nu * cosPhi * math.Sin(lambda)
	z := (1 - e2) * nu * sinPhi

	x2 := helmertTX + t.scale*x - t.rz*y + t.ry*z
	y2 := helmertTY + t.rz*x + t.scale*y - t.rx*z
	z2 := helmertTZ - t.ry*x + t.rx*y + t.scale*z

	// Back to latitude/longitude on Airy 1830.
	e2 = 1 - (airyB*airyB)/(airyA*airyA)
	p := math.Sqrt(x2*x2 + y2*y2)

	phiOut := math.Atan2(z2, p*(1-e2))
	for i := 0; i < 10; i++ {
		sin := math.Sin(phiOut)
		nu = airyA / math.Sqrt(1-e2*sin*sin)
		next := math.Atan2(z2+e2*nu*sin, p)
		if math.Abs(next-phiOut) < 1e-12 {
			phiOut = next
			break
		}
		phiOut = next
	}
	return phiOut, math.Atan2(y2, x2)
}

// transverseMercator applies the OS national grid projection to an Airy 1830
// coordinate, returning easting/northing in metres.
func (t *Transformer) transverseMercator(phi, lambda float64) (float64, float64) {
	a, b := airyA, airyB
	e2 := 1 - (b*b)/(a*a)
	n := (a - b) / (a + b)

	sinPhi, cosPhi := math.Sincos(phi)
	tanPhi := sinPhi / cosPhi

	nu := a * scaleF0 / math.Sqrt(1-e2*sinPhi*sinPhi)
	rho := a * scaleF0 * (1 - e2) / math.Pow(1-e2*sinPhi*sinPhi, 1.5)
	eta2 := nu/rho - 1

	dPhi := phi - t.phi0
	sPhi := phi + t.phi0
	m := b * scaleF0 * ((1+n+1.25*n*n+1.25*n*n*n)*dPhi -
		(3*n+3*n*n+21.0/8.0*n*n*n)*math.Sin(dPhi)*math.Cos(sPhi) +
		(15.0/8.0*n*n+15.0/8.0*n*n*n)*math.Sin(2*dPhi)*math.Cos(2*sPhi) -
		35.0/24.0*n*n*n*math.Sin(3*dPhi)*math.Cos(3*sPhi))

	tan2 := tanPhi * tanPhi
	tan4 := tan2 * tan2
	cos3 := cosPhi * cosPhi * cosPhi
	cos5 := cos3 * cosPhi * cosPhi

	i := m + originN
	ii := nu / 2 * sinPhi * cosPhi
	iii := nu / 24 * sinPhi * cos3 * (5 - tan2 + 9*eta2)
	iiia := nu / 720 * sinPhi * cos5 * (61 - 58*tan2 + tan4)
	iv := nu * cosPhi
	v := nu / 6 * cos3 * (nu/rho - tan2)
	vi := nu / 120 * cos5 * (5 - 18*tan2 + tan4 + 14*eta2 - 58*tan2*eta2)

	dl := lambda - t.lambda0
	dl2 := dl * dl

	northing := i + ii*dl2 + iii*dl2*dl2 + iiia*dl2*dl2*dl2
	easting := originE + iv*dl + v*dl*dl2 + vi*dl*dl2*dl2
	return easting, northing
}
