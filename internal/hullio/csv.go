package hullio

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/fenix-io/kayak-calc-sub001/internal/calcerr"
	"github.com/fenix-io/kayak-calc-sub001/internal/geometry"
)

// ReadCSV reads a CSV hull file.
//
// The first record is the header "station,y,z" with an optional "level"
// column. Rows are grouped into profiles by station in file order. Comment
// lines of the form "# key=value" set metadata (units, coordinate_system,
// name, description, water_density). Rows starting with "stern" or "bow"
// give closure points as x,y,z for an apex or x,y,z,level for a level
// point.
func ReadCSV(r io.Reader, opts Options) (*geometry.Hull, error) {
	var raw rawHull
	var body strings.Builder

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			if err := raw.setMeta(strings.TrimSpace(strings.TrimPrefix(trimmed, "#"))); err != nil {
				return nil, err
			}
			continue
		}
		body.WriteString(line)
		body.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read hull CSV: %w", err)
	}

	cr := csv.NewReader(strings.NewReader(body.String()))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, calcerr.Geometryf("hull CSV is empty")
	}
	if err != nil {
		return nil, calcerr.Wrap(calcerr.Geometry, err, "invalid hull CSV")
	}
	hasLevel, err := checkHeader(header)
	if err != nil {
		return nil, err
	}

	seen := map[float64]bool{}
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, calcerr.Wrap(calcerr.Geometry, err, "invalid hull CSV")
		}
		switch kind := strings.ToLower(strings.TrimSpace(rec[0])); kind {
		case "stern", "bow":
			if err := raw.addClosure(kind, rec[1:]); err != nil {
				return nil, fmt.Errorf("row %d: %w", row, err)
			}
		default:
			if err := raw.addPoint(rec, hasLevel, seen); err != nil {
				return nil, fmt.Errorf("row %d: %w", row, err)
			}
		}
	}

	return raw.build(opts)
}

func checkHeader(header []string) (hasLevel bool, err error) {
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.ToLower(strings.TrimSpace(h))
	}
	switch {
	case len(cols) == 3 && cols[0] == "station" && cols[1] == "y" && cols[2] == "z":
		return false, nil
	case len(cols) == 4 && cols[0] == "station" && cols[1] == "y" && cols[2] == "z" && cols[3] == "level":
		return true, nil
	default:
		return false, calcerr.Geometryf("hull CSV header must be station,y,z[,level], got %s", strings.Join(header, ","))
	}
}

func (r *rawHull) setMeta(comment string) error {
	key, value, ok := strings.Cut(comment, "=")
	if !ok {
		return nil
	}
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)

	switch key {
	case "units":
		r.Units = value
	case "coordinate_system":
		r.CoordinateSystem = value
	case "name":
		r.Name = value
	case "description":
		r.Description = value
	case "water_density":
		d, err := cast.ToFloat64E(value)
		if err != nil {
			return calcerr.Configurationf("water_density %q is not a number", value)
		}
		r.WaterDensity = d
	}
	return nil
}

func (r *rawHull) addPoint(rec []string, hasLevel bool, seen map[float64]bool) error {
	want := 3
	if hasLevel {
		want = 4
	}
	if len(rec) != want {
		return calcerr.Geometryf("expected %d fields, got %d", want, len(rec))
	}
	vals, err := parseFloats(rec[:3], "station", "y", "z")
	if err != nil {
		return err
	}
	station := vals[0]

	n := len(r.Profiles)
	if n == 0 || r.Profiles[n-1].Station != station {
		if seen[station] {
			return calcerr.AtStation(calcerr.Geometryf("rows for the station are not contiguous"), station)
		}
		seen[station] = true
		r.Profiles = append(r.Profiles, rawProfile{Station: station})
		n++
	}

	pt := rawPoint{Y: vals[1], Z: vals[2]}
	if hasLevel {
		pt.Level = strings.TrimSpace(rec[3])
	}
	r.Profiles[n-1].Points = append(r.Profiles[n-1].Points, pt)
	return nil
}

func (r *rawHull) addClosure(side string, fields []string) error {
	if len(fields) < 3 || len(fields) > 4 {
		return calcerr.Geometryf("%s closure needs x,y,z[,level], got %d fields", side, len(fields))
	}
	vals, err := parseFloats(fields[:3], "x", "y", "z")
	if err != nil {
		return err
	}
	p := geometry.Point{X: vals[0], Y: vals[1], Z: vals[2]}

	end := &r.Stern
	if side == "bow" {
		end = &r.Bow
	}
	if *end == nil {
		*end = &rawEnd{}
	}
	e := *end

	level := ""
	if len(fields) == 4 {
		level = strings.TrimSpace(fields[3])
	}
	if level == "" {
		if e.Apex != nil {
			return calcerr.Geometryf("%s has more than one apex", side)
		}
		e.Apex = &p
		return nil
	}
	if e.Levels == nil {
		e.Levels = map[string]geometry.Point{}
	}
	if _, dup := e.Levels[level]; dup {
		return calcerr.Geometryf("%s level %q is given twice", side, level)
	}
	e.Levels[level] = p
	return nil
}

func parseFloats(fields []string, names ...string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := cast.ToFloat64E(strings.TrimSpace(f))
		if err != nil {
			return nil, calcerr.Geometryf("%s %s is not a number", names[i], strconv.Quote(f))
		}
		out[i] = v
	}
	return out, nil
}
