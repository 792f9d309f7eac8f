package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/san-kum/fallsim/internal/fall"
)

// Header holds the column labels of an exported trajectory.
var Header = []string{"Waktu (s)", "Tinggi (m)", "Kecepatan (m/s)"}

// Default file names for the two kinds of run.
const (
	FreeFallFile = "simulasi_data.csv"
	DragFile     = "simulasi_data_dengan_hambatan.csv"
)

var (
	ErrBadHeader = errors.New("export: unexpected csv header")
	ErrBadRow    = errors.New("export: malformed csv row")
)

// WriteCSV writes one row per sample with every value rounded to two decimals.
func WriteCSV(w io.Writer, traj fall.Trajectory) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, s := range traj {
		row := []string{
			strconv.FormatFloat(s.Time, 'f', 2, 64),
			strconv.FormatFloat(s.Height, 'f', 2, 64),
			strconv.FormatFloat(s.Speed, 'f', 2, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Save writes the trajectory to path, creating parent directories as needed.
func Save(path string, traj fall.Trajectory) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(file, traj); err != nil {
		file.Close()
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	return file.Close()
}

// ReadCSV parses a file produced by WriteCSV.
func ReadCSV(r io.Reader) (fall.Trajectory, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: empty input", ErrBadHeader)
		}
		return nil, err
	}
	for i, col := range Header {
		if header[i] != col {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrBadHeader, i, header[i], col)
		}
	}

	traj := make(fall.Trajectory, 0)
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		var vals [3]float64
		for i, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrBadRow, line, err)
			}
			vals[i] = v
		}
		traj = append(traj, fall.Sample{Time: vals[0], Height: vals[1], Speed: vals[2]})
	}
	return traj, nil
}

// Load reads a trajectory previously written with Save.
func Load(path string) (fall.Trajectory, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadCSV(file)
}
