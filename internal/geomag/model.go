package geomag

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	// The spherical harmonic expansion is relative to the geomagnetic reference radius, not the
	// WGS84 equatorial radius.
	referenceRadiusKm = 6371.2

	equatorialRadiusKm  = 6378.137
	inverseFlattening   = 298.257223563
	degreesToRadians    = math.Pi / 180
	radiansToDegrees    = 180 / math.Pi
	coefficientFileStop = "9999"
)

// The embedded coefficient set is the WMM2020 main field truncated to degree and order 8, with
// secular variation terms above degree 3 omitted. That keeps declination within roughly a degree
// of the full model over the model's lifetime, which is far inside the tolerances used for runway
// headings. Load or Parse can substitute a complete WMM.COF file where full accuracy matters.
//
//go:embed wmm2020_truncated.cof
var embeddedCoefficients []byte //nolint:gochecknoglobals

var (
	defaultModel     *Model    //nolint:gochecknoglobals
	defaultModelOnce sync.Once //nolint:gochecknoglobals
)

// Model is a set of spherical harmonic coefficients for the geomagnetic main field and its
// secular variation. Methods on Model are safe for concurrent use.
type Model struct {
	name   string
	epoch  float64
	maxN   int
	g, h   [][]float64
	gv, hv [][]float64
}

// Default returns the model built from the embedded coefficient set. The result is shared and
// must not be modified.
func Default() *Model {
	defaultModelOnce.Do(func() {
		m, err := Parse(embeddedCoefficients)
		if err != nil {
			panic(fmt.Sprintf("embedded geomagnetic coefficients are invalid: %s", err))
		}
		defaultModel = m
	})
	return defaultModel
}

// Load reads a coefficient file in the standard WMM.COF format from the filesystem.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse reads a coefficient file in the standard WMM.COF format: a header line of epoch, model
// name, and release date, then one line per harmonic of degree, order, g, h, and optionally the
// secular variation of each, terminated by the conventional row of nines.
func Parse(data []byte) (*Model, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	m := &Model{}
	lineNo := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		lineNo++
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, coefficientFileStop) {
			break
		}
		fields := strings.Fields(line)
		if m.name == "" {
			if len(fields) < 2 {
				return nil, fmt.Errorf("line %d: expected header of epoch and model name", lineNo)
			}
			epoch, err := strconv.ParseFloat(fields[0], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: malformed epoch %q", lineNo, fields[0])
			}
			m.epoch = epoch
			m.name = fields[1]
			continue
		}
		if len(fields) < 4 {
			return nil, fmt.Errorf("line %d: expected at least 4 coefficient fields, found %d", lineNo, len(fields))
		}
		n, err1 := strconv.Atoi(fields[0])
		order, err2 := strconv.Atoi(fields[1])
		if err1 != nil || err2 != nil || n < 1 || order < 0 || order > n {
			return nil, fmt.Errorf("line %d: invalid degree and order %q %q", lineNo, fields[0], fields[1])
		}
		values := make([]float64, 4)
		for i := 0; i < 4 && i+2 < len(fields); i++ {
			v, err := strconv.ParseFloat(fields[i+2], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: malformed coefficient %q", lineNo, fields[i+2])
			}
			values[i] = v
		}
		m.ensureDegree(n)
		m.g[n][order] = values[0]
		m.h[n][order] = values[1]
		m.gv[n][order] = values[2]
		m.hv[n][order] = values[3]
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if m.name == "" || m.maxN == 0 {
		return nil, fmt.Errorf("no coefficients found")
	}
	return m, nil
}

func (m *Model) ensureDegree(n int) {
	for len(m.g) <= n {
		row := len(m.g)
		m.g = append(m.g, make([]float64, row+1))
		m.h = append(m.h, make([]float64, row+1))
		m.gv = append(m.gv, make([]float64, row+1))
		m.hv = append(m.hv, make([]float64, row+1))
	}
	if n > m.maxN {
		m.maxN = n
	}
}

// Name returns the model name from the coefficient file header.
func (m *Model) Name() string {
	return m.name
}

// Epoch returns the base epoch of the coefficients as a decimal year.
func (m *Model) Epoch() float64 {
	return m.epoch
}

// Declination returns the magnetic declination in degrees at the given position on the WGS84
// ellipsoid surface, at the given time. East declination is positive.
func (m *Model) Declination(lat, lng float64, t time.Time) float64 {
	x, y, _ := m.field(lat, lng, decimalYear(t))
	return math.Atan2(y, x) * radiansToDegrees
}

// field computes the geodetic north, east, and down components of the main field in nanoteslas.
func (m *Model) field(lat, lng, year float64) (float64, float64, float64) {
	dt := year - m.epoch
	phi := lat * degreesToRadians
	lam := lng * degreesToRadians

	// Geodetic to geocentric at the ellipsoid surface.
	sinPhi, cosPhi := math.Sin(phi), math.Cos(phi)
	f := 1 / inverseFlattening
	e2 := f * (2 - f)
	rc := equatorialRadiusKm / math.Sqrt(1-e2*sinPhi*sinPhi)
	p := rc * cosPhi
	z := rc * (1 - e2) * sinPhi
	r := math.Sqrt(p*p + z*z)
	sinPhiP := z / r
	cosPhiP := p / r
	if cosPhiP < 1e-9 {
		// The east component is indeterminate exactly at the geographic poles; nudge off the
		// axis rather than divide by zero.
		cosPhiP = 1e-9
	}

	pnm, dnm := m.legendre(sinPhiP, cosPhiP)

	sinMLam := make([]float64, m.maxN+1)
	cosMLam := make([]float64, m.maxN+1)
	for order := 0; order <= m.maxN; order++ {
		sinMLam[order] = math.Sin(float64(order) * lam)
		cosMLam[order] = math.Cos(float64(order) * lam)
	}

	var bx, by, bz float64 // geocentric north, east, down
	ar := referenceRadiusKm / r
	arPow := ar * ar
	for n := 1; n <= m.maxN; n++ {
		arPow *= ar
		var sumX, sumY, sumZ float64
		for order := 0; order <= n; order++ {
			gt := m.g[n][order] + dt*m.gv[n][order]
			ht := m.h[n][order] + dt*m.hv[n][order]
			cosTerm := gt*cosMLam[order] + ht*sinMLam[order]
			sumX += cosTerm * dnm[n][order]
			sumZ += cosTerm * pnm[n][order]
			sumY += float64(order) * (gt*sinMLam[order] - ht*cosMLam[order]) * pnm[n][order]
		}
		bx -= arPow * sumX
		by += arPow * sumY
		bz -= arPow * float64(n+1) * sumZ
	}
	by /= cosPhiP

	// Rotate from the geocentric frame back to geodetic north and down.
	psi := math.Atan2(z, p) - phi
	sinPsi, cosPsi := math.Sin(psi), math.Cos(psi)
	return bx*cosPsi - bz*sinPsi, by, bx*sinPsi + bz*cosPsi
}

// legendre computes the Schmidt semi-normalized associated Legendre functions of sin(phi) and
// their derivatives with respect to phi, for all degrees up to maxN.
func (m *Model) legendre(sinPhi, cosPhi float64) ([][]float64, [][]float64) {
	pnm := make([][]float64, m.maxN+1)
	dnm := make([][]float64, m.maxN+1)
	for n := 0; n <= m.maxN; n++ {
		pnm[n] = make([]float64, n+1)
		dnm[n] = make([]float64, n+1)
	}
	pnm[0][0] = 1
	for n := 1; n <= m.maxN; n++ {
		// Diagonal term. The semi-normalization factor only applies for degrees above one.
		k := 1.0
		if n > 1 {
			k = math.Sqrt(float64(2*n-1) / float64(2*n))
		}
		pnm[n][n] = k * cosPhi * pnm[n-1][n-1]
		dnm[n][n] = k * (cosPhi*dnm[n-1][n-1] - sinPhi*pnm[n-1][n-1])
		for order := 0; order < n; order++ {
			norm := math.Sqrt(float64(n*n - order*order))
			a := float64(2*n-1) / norm
			b := math.Sqrt(float64((n-1)*(n-1)-order*order)) / norm
			var prevP, prevD float64
			if n >= order+2 {
				prevP = pnm[n-2][order]
				prevD = dnm[n-2][order]
			}
			pnm[n][order] = a*sinPhi*pnm[n-1][order] - b*prevP
			dnm[n][order] = a*(sinPhi*dnm[n-1][order]+cosPhi*pnm[n-1][order]) - b*prevD
		}
	}
	return pnm, dnm
}

func decimalYear(t time.Time) float64 {
	t = t.UTC()
	yearStart := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(t.Year()+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	return float64(t.Year()) + t.Sub(yearStart).Seconds()/yearEnd.Sub(yearStart).Seconds()
}
